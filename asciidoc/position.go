package asciidoc

import "fmt"

// Position is a point in the source. Line is 1-based, Column is a 0-based
// byte offset within the line.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Move returns a position n bytes further along the same line.
func (p Position) Move(n int) Position {
	return Position{Line: p.Line, Column: p.Column + n}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

type Location struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (l Location) String() string {
	return l.Start.String() + "-" + l.End.String()
}

// Contains reports whether pos falls within the location, end exclusive.
func (l Location) Contains(pos Position) bool {
	return !pos.Before(l.Start) && pos.Before(l.End)
}

// Range is a half-open byte range [start, end) over the whole document.
type Range [2]int

func (r Range) Start() int { return r[0] }
func (r Range) End() int   { return r[1] }
func (r Range) Len() int   { return r[1] - r[0] }
