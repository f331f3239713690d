// Package macro resolves #define sections in a parameter document. The
// source is split at every "#define " marker into a preamble and named
// sections; each piece is parsed with params, and every bareword or string
// leaf of the preamble that names a definition is replaced by a fresh deep
// copy of that definition's tree. Expansion sites never alias each other,
// so consumers may mutate what they receive.
package macro
