// Package uspex is the consumer side of a resolved parameter document: it
// locates USPEX calculation folders, extracts run metadata from the
// resolved tree, and splits the ASCII result tables the code emits. It
// reads the tree by key only; all parsing lives in params and macro.
package uspex
