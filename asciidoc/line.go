package asciidoc

import "strings"

// Line is one physical source line.
type Line struct {
	RawText string // including the trailing terminator, if any
	Text    string // RawText without the trailing CR/LF
	Number  int
	Range   Range
	Start   Position
	End     Position
}

func newLine(raw string, number, offset int) *Line {
	start := Position{Line: number}
	return &Line{
		RawText: raw,
		Text:    strings.TrimRight(raw, "\r\n"),
		Number:  number,
		Range:   Range{offset, offset + len(raw)},
		Start:   start,
		End:     start.Move(len(raw)),
	}
}

func (l *Line) Blank() bool {
	return l.Text == ""
}

// Matches compares the chomped text of two lines, ignoring terminators.
func (l *Line) Matches(other *Line) bool {
	return other != nil && l.Text == other.Text
}

func (l *Line) Loc() Location {
	return Location{Start: l.Start, End: l.End}
}

func (l *Line) String() string {
	return l.Text
}

// SplitLines splits text into lines. Each line keeps its terminator (\r\n,
// \r or \n); concatenating RawText of every line reproduces text. An empty
// input yields a single empty line.
func SplitLines(text string) []*Line {
	var lines []*Line
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		default:
			continue
		}
		lines = append(lines, newLine(text[start:i+1], len(lines)+1, start))
		start = i + 1
	}
	if start < len(text) || len(lines) == 0 {
		lines = append(lines, newLine(text[start:], len(lines)+1, start))
	}
	return lines
}
