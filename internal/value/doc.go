// Package value defines the tree representation produced by parsing the
// relaxed parameter dialect: a closed union of scalar and container kinds,
// with an insertion-ordered map type.
//
// Trees are plain data. The only package that mutates a tree after parsing
// is macro, and it always works on deep copies, so consumers may treat any
// tree they receive as their own.
package value
