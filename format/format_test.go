package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/mangata/asciidoc"
)

const smallDoc = "= T\n\n== S\n\ntext\n"

func parse(t *testing.T, text string) *asciidoc.Document {
	t.Helper()
	doc, err := asciidoc.Parse(text)
	require.NoError(t, err)
	return doc
}

func TestNew(t *testing.T) {
	for _, name := range Names {
		enc, err := New(name, &bytes.Buffer{})
		require.NoError(t, err, name)
		assert.NotNil(t, enc)
	}
	_, err := New("xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf).Encode(parse(t, smallDoc)))

	var tree map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &tree))
	assert.Equal(t, "Document", tree["type"])
	assert.Equal(t, smallDoc, tree["raw"])
	assert.Equal(t, []any{0.0, float64(len(smallDoc))}, tree["range"])

	children := tree["children"].([]any)
	require.Len(t, children, 2)
	assert.Equal(t, "Header", children[0].(map[string]any)["type"])
	assert.Equal(t, "Section", children[1].(map[string]any)["type"])

	compact := NewJSONEncoder(&bytes.Buffer{})
	compact.Indent = ""
	compact.doc = parse(t, smallDoc)
	text, err := compact.MarshalText()
	require.NoError(t, err)
	assert.NotContains(t, string(bytes.TrimSpace(text)), "\n")
}

func TestYAMLEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLEncoder(&buf).Encode(parse(t, "image::logo.png[Logo, 200]\n")))

	assert.Contains(t, buf.String(), "type: Document\n")

	var tree struct {
		Type     string `yaml:"type"`
		Range    []int  `yaml:"range"`
		Children []struct {
			Type       string                    `yaml:"type"`
			Name       string                    `yaml:"name"`
			Target     string                    `yaml:"target"`
			Attributes map[string]any            `yaml:"attributes"`
			Loc        map[string]map[string]int `yaml:"loc"`
		} `yaml:"children"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &tree))
	assert.Equal(t, "Document", tree.Type)
	assert.Equal(t, []int{0, 27}, tree.Range)
	require.Len(t, tree.Children, 1)

	macro := tree.Children[0]
	assert.Equal(t, "BlockMacroNode", macro.Type)
	assert.Equal(t, "image", macro.Name)
	assert.Equal(t, "logo.png", macro.Target)
	assert.Equal(t, map[string]any{"1": "Logo", "2": "200"}, macro.Attributes["$positional"])
	assert.Equal(t, 27, macro.Loc["end"]["column"])
}

func TestTreeEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTreeEncoder(&buf).Encode(parse(t, smallDoc)))

	want := `Document [1:0-5:5]
  Header [1:0-1:3] "T"
    Title [1:0-1:3] depth=1
      Str [1:2-1:3] "T"
  Section [3:0-5:5] level=1 "S"
    Title [3:0-3:4] depth=2
      Str [3:3-3:4] "S"
    Paragraph [5:0-5:5]
      Str [5:0-5:5] "text"
`
	assert.Equal(t, want, buf.String())

	enc := NewTreeEncoder(&buf)
	enc.Positions = false
	buf.Reset()
	require.NoError(t, enc.Encode(parse(t, ":a: 1\n:b!:\n\n----\nx")))
	assert.Equal(t, `Document
  AttributeEntryNode :a: 1
  AttributeEntryNode :b!:
  CodeBlock listing unterminated
    Str "x"
`, buf.String())
}

func TestOutlineEncoder(t *testing.T) {
	var buf bytes.Buffer
	doc := parse(t, smallDoc+"\n.Example\n====\n* a\n====\n\nimage::x.png[]\n")
	require.NoError(t, NewOutlineEncoder(&buf).Encode(doc))

	assert.Equal(t, "header\t1:0\t0\tT\n"+
		"section\t3:0\t1\tS\n"+
		"block\t8:0\texample\tExample\n"+
		"list\t9:0\t*\t-\n"+
		"macro\t12:0\timage\tx.png\n", buf.String())
}
