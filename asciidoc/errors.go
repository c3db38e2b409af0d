package asciidoc

import (
	"errors"
	"fmt"
)

// ErrMaxDepth is returned when blocks nest deeper than the limit set with
// WithMaxDepth.
var ErrMaxDepth = errors.New("maximum block nesting depth exceeded")

// SyntaxError reports a line that starts like a construct but does not
// follow its grammar. The parser only produces it for attribute entries,
// and handles it itself: it never escapes Parse.
type SyntaxError struct {
	Pos     Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Diagnostic describes a place where the parser recovered from malformed
// input instead of failing.
type Diagnostic struct {
	Severity Severity
	Range    Range
	Loc      Location
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Loc.Start, d.Severity, d.Message)
}
