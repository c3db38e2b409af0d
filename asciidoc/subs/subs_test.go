package subs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstituteAttributes(t *testing.T) {
	attrs := Attributes{"name": "value", "product-name": "Mangata", "empty": ""}

	tests := []struct {
		input string
		want  string
	}{
		{"Hello {name}!", "Hello value!"},
		{"{product-name} parses {name}", "Mangata parses value"},
		{"missing {nope} stays", "missing {nope} stays"},
		{`escaped \{name} stays`, "escaped {name} stays"},
		{`trailing {name\} stays`, "trailing {name} stays"},
		{"empty [{empty}]", "empty []"},
		{"{set:foo:bar} is a directive", "{set:foo:bar} is a directive"},
		{"{counter:n} too", "{counter:n} too"},
		{"no refs", "no refs"},
		{"{ name }", "{ name }"},
		{"{-bad}", "{-bad}"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SubstituteAttributes(tt.input, attrs))
		})
	}
}

func TestApplyRespectsSteps(t *testing.T) {
	attrs := Attributes{"name": "value"}

	assert.Equal(t, "Hello value", Apply("Hello {name}", attrs, Normal))
	assert.Equal(t, "Hello {name}", Apply("Hello {name}", attrs, None))
	assert.Equal(t, "Hello {name}", Apply("Hello {name}", attrs, Verbatim))
	assert.Equal(t, "", Apply("", attrs, Normal))
}

func TestApplyIsIdempotent(t *testing.T) {
	attrs := Attributes{"a": "x", "b": "y"}
	inputs := []string{"{a} and {b}", `\{a} and {b}`, "{a}{b}{a}", "plain"}
	for _, in := range inputs {
		once := Apply(in, attrs, Normal)
		if len(References(once)) > 0 {
			continue
		}
		assert.Equal(t, once, Apply(once, attrs, Normal), in)
	}
}

func TestApplyDoesNotMutateAttributes(t *testing.T) {
	attrs := Attributes{"a": "x"}
	Apply("{set:a:y} {a} {counter:c}", attrs, Normal)
	assert.Equal(t, Attributes{"a": "x"}, attrs)
}

func TestReferences(t *testing.T) {
	assert.Equal(t, []string{"a", "b-c"}, References(`{a} \{skip} {b-c}`))
	assert.Nil(t, References("none here"))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		spec     string
		defaults []Step
		want     []Step
	}{
		{"none", Normal, []Step{}},
		{"normal", None, Normal},
		{"attributes", Normal, []Step{StepAttributes}},
		{"verbatim", Normal, Verbatim},
		{"attributes+", Verbatim, []Step{StepAttributes, StepSpecialCharacters}},
		{"+attributes", Verbatim, []Step{StepSpecialCharacters, StepAttributes}},
		{"-attributes", Normal, []Step{StepSpecialCharacters, StepQuotes, StepReplacements, StepMacros, StepPostReplacements}},
		{"-quotes, -replacements", []Step{StepQuotes, StepAttributes, StepReplacements}, []Step{StepAttributes}},
		{"q,a", None, []Step{StepQuotes, StepAttributes}},
		{"specialchars,attributes,attributes", None, []Step{StepSpecialCharacters, StepAttributes}},
		{"quotes,+macros", Normal, []Step{StepQuotes, StepMacros}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Resolve(tt.spec, tt.defaults)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	got, err := Resolve("attributes,bogus", Normal)
	var unknown *UnknownStepError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"bogus"}, unknown.Names)
	assert.Equal(t, []Step{StepAttributes}, got)
}

func TestAttributesClone(t *testing.T) {
	a := Attributes{"x": "1"}
	c := a.Clone()
	c.Set("x", "2")
	c.Unset("missing")
	v, _ := a.Get("x")
	assert.Equal(t, "1", v)
}
