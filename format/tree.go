package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/mangata/asciidoc"
)

// TreeEncoder writes one line per node, indented by depth, with the node
// location and a short summary of its content.
type TreeEncoder struct {
	w   io.Writer
	doc *asciidoc.Document

	Positions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w, Positions: true}
}

func (e *TreeEncoder) Encode(doc *asciidoc.Document) error {
	e.doc = doc
	return write(e.w, e)
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	e.writeNode(&sb, e.doc, 0)
	return []byte(sb.String()), nil
}

func (e *TreeEncoder) writeNode(sb *strings.Builder, n asciidoc.Node, indent int) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Type().String())
	if e.Positions {
		fmt.Fprintf(sb, " [%s]", n.Bounds().Loc)
	}
	sb.WriteString(summary(n))
	sb.WriteByte('\n')

	for _, child := range n.Nodes() {
		e.writeNode(sb, child, indent+1)
	}
}

func summary(n asciidoc.Node) string {
	switch n := n.(type) {
	case *asciidoc.Header:
		return fmt.Sprintf(" %q", n.Title)
	case *asciidoc.Title:
		return fmt.Sprintf(" depth=%d", n.Depth)
	case *asciidoc.AuthorLine:
		return fmt.Sprintf(" %q", n.Name)
	case *asciidoc.RevisionLine:
		return fmt.Sprintf(" %q", n.Number)
	case *asciidoc.Section:
		return fmt.Sprintf(" level=%d %q", n.Level, n.Title)
	case *asciidoc.Block:
		s := " " + string(n.EnclosureType)
		if n.Title != "" {
			s += fmt.Sprintf(" %q", n.Title)
		}
		if !n.Terminated() {
			s += " unterminated"
		}
		return s
	case *asciidoc.Paragraph:
		if n.Title != "" {
			return fmt.Sprintf(" %q", n.Title)
		}
	case *asciidoc.UnorderedList:
		return " " + n.Marker
	case *asciidoc.ListItem:
		return fmt.Sprintf(" %q", n.Value)
	case *asciidoc.BlockMacro:
		return fmt.Sprintf(" %s::%s", n.Name, n.Target)
	case *asciidoc.AttributeEntry:
		if n.Unset() {
			return fmt.Sprintf(" :%s!:", n.Name)
		}
		return fmt.Sprintf(" :%s: %s", n.Name, *n.Value)
	case *asciidoc.Str:
		return fmt.Sprintf(" %q", n.Value)
	}
	return ""
}
