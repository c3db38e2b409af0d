package asciidoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupDelimiter(t *testing.T) {
	tests := []struct {
		line string
		want Enclosure
		ok   bool
	}{
		{"--", EnclosureOpen, true},
		{"----", EnclosureListing, true},
		{"-----", EnclosureListing, true},
		{"```", EnclosureListing, true},
		{"....", EnclosureLiteral, true},
		{"====", EnclosureExample, true},
		{"======", EnclosureExample, true},
		{"|===", EnclosureTable, true},
		{"!===", EnclosureTable, true},
		{"////", EnclosureComment, true},
		{"****", EnclosureSidebar, true},
		{"____", EnclosureQuote, true},
		{"++++", EnclosurePass, true},

		{"", "", false},
		{"-", "", false},
		{"---", "", false},
		{"===", "", false},
		{"``", "", false},
		{"````", "", false},
		{"====x", "", false},
		{"==== ", "", false},
		{"--x", "", false},
		{"|====x", "", false},
		{"####", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			d, ok := lookupDelimiter(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, d.enclosure)
		})
	}
}

func TestEnclosureCompound(t *testing.T) {
	for _, e := range []Enclosure{EnclosureOpen, EnclosureExample, EnclosureTable, EnclosureSidebar, EnclosureQuote} {
		assert.True(t, e.Compound(), e)
	}
	for _, e := range []Enclosure{EnclosureListing, EnclosureLiteral, EnclosureComment, EnclosurePass} {
		assert.False(t, e.Compound(), e)
	}
}
