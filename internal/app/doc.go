// Package app contains the core application logic: reading a parameter
// file, resolving its macros, extracting run metadata, and writing the
// result. It is decoupled from any specific entrypoint like a CLI.
package app
