// Package asciidoc parses AsciiDoc block structure into a concrete syntax
// tree that keeps the exact source of every node.
//
// The parser is a hand-written recursive-descent reader over the lines of
// the document. It recognizes:
//
//   - the document header: title, author line, revision line and attribute
//     entries
//   - sections, nested by level
//   - delimited blocks (open, listing, literal, example, table, comment,
//     sidebar, quote, pass), where a compound block holds nested blocks and
//     a verbatim block holds raw lines
//   - block titles, block attribute lists and anchors
//   - unordered lists, paragraphs, literal paragraphs, line comments and
//     block macros
//
// Inline markup is not parsed. Paragraph and verbatim lines go through the
// substitution pipeline of package subs, which resolves attribute
// references against the attribute table built up by attribute entries as
// the document is read.
//
// Every node records its raw text, its byte range [start, end) in the
// source and its line/column location, so that for any node n
//
//	source[n.Bounds().Range[0]:n.Bounds().Range[1]] == n.Bounds().Raw
//
// Lines are numbered from 1 and columns are byte offsets from 0.
//
// Malformed input does not fail the parse. Unterminated delimited blocks end
// at the last line read, and the recovery is reported in
// Document.Diagnostics.
//
// Usage:
//
//	doc, err := asciidoc.Parse(source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range doc.Sections() {
//	    fmt.Println(s.Level, s.Title)
//	}
package asciidoc
