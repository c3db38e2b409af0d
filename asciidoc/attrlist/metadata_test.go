package attrlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferMetadata(t *testing.T) {
	tests := []struct {
		input string
		want  map[string]string
	}{
		{"source", map[string]string{"style": "source"}},
		{"source#main.lead.wide%linenums", map[string]string{
			"style":           "source",
			"id":              "main",
			"role":            "lead wide",
			"linenums-option": "",
		}},
		{"#intro", map[string]string{"id": "intro"}},
		{".role1.role2", map[string]string{"role": "role1 role2"}},
		{"quote#q, id=explicit", map[string]string{"style": "quote", "id": "explicit"}},
		{"", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			attrs := Parse(tt.input)
			InferMetadata(attrs)
			assert.Equal(t, tt.want, attrs.Named)
		})
	}
}

func TestParseAnchor(t *testing.T) {
	attrs := ParseAnchor("install, Installing")
	assert.Equal(t, map[string]string{"id": "install", "reftext": "Installing"}, attrs.Named)

	attrs = ParseAnchor("only-id")
	assert.Equal(t, map[string]string{"id": "only-id"}, attrs.Named)
}
