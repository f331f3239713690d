// Package params parses the relaxed parameter dialect used by USPEX input
// files: JSON-like structure with unquoted bareword keys, Python-spelled
// True/False/None keywords, C-style block comments at any token boundary,
// array [...] and tuple (...) literals, and comma-or-newline element
// separation.
//
// Parsing is a single pass of mutually exclusive matchers tried in a fixed
// order per value position; a matcher either consumes its token or reports
// no match without moving the cursor, so the next alternative is always
// safe to try. There is no partial result: any failure aborts the whole
// parse with a position-tagged *Error.
package params
