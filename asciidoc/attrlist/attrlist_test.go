package attrlist

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		named      map[string]string
		positional []*string
	}{
		{"unnamed", "quote", nil, []*string{str("quote")}},
		{"unnamed double-quoted", `"quote"`, nil, []*string{str("quote")}},
		{"empty double-quoted", `""`, nil, []*string{str("")}},
		{"named", "foo=bar", map[string]string{"foo": "bar"}, nil},
		{"double-quoted escaped quote", `"ba\"zaar"`, nil, []*string{str(`ba"zaar`)}},
		{"single-quoted escaped quote", `'ba\'zaar'`, nil, []*string{str(`ba'zaar`)}},
		{"unnamed single-quoted", `'quote'`, nil, []*string{str("quote")}},
		{"empty single-quoted", `''`, nil, []*string{str("")}},
		{"isolated single quote", `'`, nil, []*string{str(`'`)}},
		{"isolated single quote value", `name='`, map[string]string{"name": `'`}, nil},
		{"dangling delimiter", "quote , ", nil, []*string{str("quote"), nil}},
		{"leading empty slot", ", John Smith", nil, []*string{nil, str("John Smith")}},
		{"several unnamed", "first, second one, third", nil, []*string{str("first"), str("second one"), str("third")}},
		{"blank unnamed", "first,,third,", nil, []*string{str("first"), nil, str("third"), nil}},
		{"enclosed in equal signs", "=foo=", nil, []*string{str("=foo=")}},
		{"named double-quoted", `foo="bar"`, map[string]string{"foo": "bar"}, nil},
		{
			"named with double-quoted empty value",
			`height=100,caption="",link="images/octocat.png"`,
			map[string]string{"height": "100", "caption": "", "link": "images/octocat.png"},
			nil,
		},
		{"named single-quoted", `foo='bar'`, map[string]string{"foo": "bar"}, nil},
		{"named empty value", "foo=", map[string]string{"foo": ""}, nil},
		{"named empty value then named", "foo=,bar=baz", map[string]string{"foo": "", "bar": "baz"}, nil},
		{
			"named unquoted",
			"first=value, second=two, third=3",
			map[string]string{"first": "value", "second": "two", "third": "3"},
			nil,
		},
		{
			"non-semantic spaces",
			`     first    =     'value', second     ="value two"     , third=       three      `,
			map[string]string{"first": "value", "second": "value two", "third": "three"},
			nil,
		},
		{
			"mixed named and unnamed",
			`first, second="value two", third=three, Sherlock Holmes`,
			map[string]string{"second": "value two", "third": "three"},
			[]*string{str("first"), str("Sherlock Holmes")},
		},
		{
			"mixed empty named and blank unnamed",
			"first,,third=,,fifth=five",
			map[string]string{"third": "", "fifth": "five"},
			[]*string{str("first"), nil, nil},
		},
		{
			"options",
			`quote, options='opt1,,opt2 , opt3'`,
			map[string]string{"opt1-option": "", "opt2-option": "", "opt3-option": ""},
			[]*string{str("quote")},
		},
		{
			"opts alias",
			`quote, opts='opt1,,opt2 , opt3'`,
			map[string]string{"opt1-option": "", "opt2-option": "", "opt3-option": ""},
			[]*string{str("quote")},
		},
		{"empty options ignored", "quote, opts=", nil, []*string{str("quote")}},
		{"unicode name", "größe=10", map[string]string{"größe": "10"}, nil},
		{"empty input", "", nil, []*string{nil}},
		{"blank input", "  \t", nil, []*string{nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			named := tt.named
			if named == nil {
				named = map[string]string{}
			}
			assert.Equal(t, named, got.Named)
			assert.Equal(t, tt.positional, got.Positional)
		})
	}
}

func TestAttributesMarshalJSON(t *testing.T) {
	attrs := Parse(`first, second="value two", third=three, Sherlock Holmes`)
	data, err := json.Marshal(attrs)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"second":"value two","third":"three","$positional":{"1":"first","2":"Sherlock Holmes"}}`,
		string(data))

	data, err = json.Marshal(Parse("a,,b"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"$positional":{"1":"a","2":null,"3":"b"}}`, string(data))

	data, err = json.Marshal(Parse(""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"$positional":{"1":null}}`, string(data))
}

func TestAttributesAccessors(t *testing.T) {
	attrs := Parse("source, go, opts=linenums")

	v, ok := attrs.At(2)
	assert.True(t, ok)
	assert.Equal(t, "go", v)

	_, ok = attrs.At(3)
	assert.False(t, ok)
	assert.True(t, attrs.Option("linenums"))
	assert.False(t, attrs.Option("nowrap"))

	var nilAttrs *Attributes
	assert.True(t, nilAttrs.Empty())
	_, ok = nilAttrs.Get("x")
	assert.False(t, ok)
}

func TestAttributesMerge(t *testing.T) {
	a := Parse("quote, role=a")
	a.Merge(Parse("verse, id=x"))

	assert.Equal(t, map[string]string{"role": "a", "id": "x"}, a.Named)
	first, _ := a.At(1)
	assert.Equal(t, "verse", first)

	c := a.Clone()
	c.Set("role", "b")
	role, _ := a.Get("role")
	assert.Equal(t, "a", role)
}
