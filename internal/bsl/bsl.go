// Package bsl parses the two BSL dialects spec.md section 4.3 defines:
// generic (indentation-by-leading-colons, used for hand-authored input) and
// genesis (bulk `[ID] Base: Type: Value {key=value}` loads). Both parsers
// are line-oriented: each line is cut apart with the strings package
// (leading colons, the ':' separators, and in the genesis dialect the
// `[ID]` and `{...}` delimiters) rather than scanned rune by rune, since
// BSL syntax is whitespace-sensitive line by line.
package bsl

import "github.com/ontograph/ontograph/internal/evgraph"

// Diagnostic records a single malformed line encountered while parsing; the
// parser never aborts the whole file on one bad line (spec.md section 7).
type Diagnostic struct {
	Line    int
	Text    string
	Message string
}

// Result is the output of parsing a BSL document: a list of event drafts
// ready for store.Append, plus any diagnostics for skipped lines.
type Result struct {
	Drafts      []evgraph.Draft
	Diagnostics []Diagnostic
}
