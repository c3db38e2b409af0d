package asciidoc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyReportsBrokenProvenance(t *testing.T) {
	doc := mustParse(t, "one\n\ntwo\n")

	para := doc.Children[1].(*Paragraph)
	para.Raw = "tw0\n"
	doc.Children[0], doc.Children[1] = doc.Children[1], doc.Children[0]

	errs := Verify(doc)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "raw text does not match")
	assert.Contains(t, errs[1].Error(), "not within Document")

	var invariant *InvariantError
	require.ErrorAs(t, errs[1], &invariant)
	assert.Equal(t, TypeParagraph, invariant.Node.Type())
}

func TestVerifyRootRange(t *testing.T) {
	doc := mustParse(t, "text")
	doc.Range = Range{0, 2}
	errs := Verify(doc)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "root range")
}

func TestNodeJSON(t *testing.T) {
	doc := mustParse(t, ":v: 1\n\n== Sec {v}\n\n----\ncode\n----\n")

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var tree struct {
		Type     string `json:"type"`
		Raw      string `json:"raw"`
		Range    [2]int `json:"range"`
		Loc      Location
		Children []struct {
			Type     string  `json:"type"`
			Name     string  `json:"name"`
			Value    *string `json:"value"`
			Title    string  `json:"title"`
			Level    int     `json:"level"`
			Children []struct {
				Type           string            `json:"type"`
				Depth          int               `json:"depth"`
				EnclosureType  string            `json:"enclosureType"`
				DelimiterLines []json.RawMessage `json:"delimiterLines"`
			} `json:"children"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal(data, &tree))

	assert.Equal(t, "Document", tree.Type)
	assert.Equal(t, [2]int{0, len(doc.Raw)}, tree.Range)
	assert.Equal(t, Position{Line: 7, Column: 5}, tree.Loc.End)
	require.Len(t, tree.Children, 2)

	entry := tree.Children[0]
	assert.Equal(t, "AttributeEntryNode", entry.Type)
	assert.Equal(t, "v", entry.Name)
	require.NotNil(t, entry.Value)
	assert.Equal(t, "1", *entry.Value)

	section := tree.Children[1]
	assert.Equal(t, "Section", section.Type)
	assert.Equal(t, "Sec 1", section.Title)
	assert.Equal(t, 1, section.Level)
	require.Len(t, section.Children, 2)
	assert.Equal(t, "Title", section.Children[0].Type)
	assert.Equal(t, 2, section.Children[0].Depth)
	assert.Equal(t, "CodeBlock", section.Children[1].Type)
	assert.Equal(t, "listing", section.Children[1].EnclosureType)
	assert.Len(t, section.Children[1].DelimiterLines, 2)
}

func TestNodeJSONStartsWithType(t *testing.T) {
	data, err := json.Marshal(&Comment{Value: "// x"})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"Comment","raw":"","range":[0,0],"loc":{"start":{"line":0,"column":0},"end":{"line":0,"column":0}},"value":"// x"}`, string(data))
}
