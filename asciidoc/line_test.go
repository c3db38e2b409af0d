package asciidoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		texts []string
	}{
		{"empty", "", []string{""}},
		{"no terminator", "a", []string{"a"}},
		{"trailing newline", "a\n", []string{"a"}},
		{"mixed terminators", "a\r\nb\rc\nd", []string{"a", "b", "c", "d"}},
		{"blank lines", "\n\n", []string{"", ""}},
		{"crlf only", "\r\n", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := SplitLines(tt.input)
			require.Len(t, lines, len(tt.texts))

			var raw strings.Builder
			offset := 0
			for i, l := range lines {
				assert.Equal(t, tt.texts[i], l.Text)
				assert.Equal(t, i+1, l.Number)
				assert.Equal(t, offset, l.Range.Start())
				assert.Equal(t, len(l.RawText), l.Range.Len())
				assert.Equal(t, Position{Line: i + 1}, l.Start)
				assert.Equal(t, Position{Line: i + 1, Column: len(l.RawText)}, l.End)
				offset = l.Range.End()
				raw.WriteString(l.RawText)
			}
			assert.Equal(t, tt.input, raw.String())
			assert.Equal(t, len(tt.input), offset)
		})
	}
}

func TestLineMatches(t *testing.T) {
	lines := SplitLines("====\r\nx\n====")
	assert.True(t, lines[0].Matches(lines[2]))
	assert.False(t, lines[0].Matches(lines[1]))
	assert.False(t, lines[0].Matches(nil))
	assert.True(t, SplitLines("")[0].Blank())
}

func TestLocationContains(t *testing.T) {
	loc := Location{Start: Position{Line: 2, Column: 3}, End: Position{Line: 4}}

	assert.True(t, loc.Contains(Position{Line: 2, Column: 3}))
	assert.True(t, loc.Contains(Position{Line: 3, Column: 80}))
	assert.False(t, loc.Contains(Position{Line: 2, Column: 2}))
	assert.False(t, loc.Contains(Position{Line: 4}))
	assert.Equal(t, "2:3-4:0", loc.String())
}
