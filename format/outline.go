package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/mangata/asciidoc"
)

// OutlineEncoder writes the structural nodes of a document as tab
// separated rows: kind, start position, detail and title. Missing fields
// are written as "-".
type OutlineEncoder struct {
	w   io.Writer
	doc *asciidoc.Document
}

func NewOutlineEncoder(w io.Writer) *OutlineEncoder {
	return &OutlineEncoder{w: w}
}

func (e *OutlineEncoder) Encode(doc *asciidoc.Document) error {
	e.doc = doc
	return write(e.w, e)
}

func (e *OutlineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	asciidoc.Inspect(e.doc, func(n asciidoc.Node) bool {
		start := n.Bounds().Loc.Start
		switch n := n.(type) {
		case *asciidoc.Header:
			row(&sb, "header", start, fmt.Sprint(n.Depth-1), n.Title)
		case *asciidoc.Section:
			row(&sb, "section", start, fmt.Sprint(n.Level), n.Title)
		case *asciidoc.Block:
			row(&sb, "block", start, string(n.EnclosureType), n.Title)
		case *asciidoc.BlockMacro:
			row(&sb, "macro", start, n.Name, n.Target)
		case *asciidoc.UnorderedList:
			row(&sb, "list", start, n.Marker, n.Title)
			return false
		case *asciidoc.Paragraph, *asciidoc.Comment, *asciidoc.Title:
			return false
		}
		return true
	})
	return []byte(sb.String()), nil
}

func row(sb *strings.Builder, kind string, start asciidoc.Position, detail, title string) {
	fmt.Fprintf(sb, "%s\t%s\t%s\t%s\n", kind, start, dash(detail), dash(title))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
