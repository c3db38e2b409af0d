package asciidoc

import "fmt"

// InvariantError reports a node whose recorded provenance does not agree
// with the document source.
type InvariantError struct {
	Node    Node
	Message string
}

func (e *InvariantError) Error() string {
	b := e.Node.Bounds()
	return fmt.Sprintf("%s at %s %v: %s", e.Node.Type(), b.Loc.Start, b.Range, e.Message)
}

// Verify checks the provenance of every node in doc: raw text equals the
// source slice of its range, ranges nest within their parent and siblings
// appear in order without overlapping. The root must span the whole source.
func Verify(doc *Document) []error {
	var errs []error
	text := doc.Raw
	if doc.Range != (Range{0, len(text)}) {
		errs = append(errs, &InvariantError{doc, fmt.Sprintf("root range %v does not cover [0 %d]", doc.Range, len(text))})
	}

	var check func(n Node)
	check = func(n Node) {
		b := n.Bounds()
		r := b.Range
		switch {
		case r[0] < 0 || r[0] > r[1] || r[1] > len(text):
			errs = append(errs, &InvariantError{n, "range out of bounds"})
			return
		case text[r[0]:r[1]] != b.Raw:
			errs = append(errs, &InvariantError{n, "raw text does not match source range"})
		case b.Loc.End.Before(b.Loc.Start):
			errs = append(errs, &InvariantError{n, "location ends before it starts"})
		}

		children := n.Nodes()
		if blk, ok := n.(*Block); ok {
			for _, d := range blk.DelimiterLines {
				check(d)
			}
		}
		prev := r[0]
		for _, c := range children {
			cr := c.Bounds().Range
			if cr[0] < prev || cr[1] > r[1] {
				errs = append(errs, &InvariantError{c, fmt.Sprintf("range is not within %s %v after offset %d", n.Type(), r, prev)})
			}
			prev = cr[1]
			check(c)
		}
	}
	check(doc)
	return errs
}
