// Package subs implements the text substitution pipeline applied to the
// lines of paragraphs and other leaf content.
//
// A pipeline is an ordered list of steps. Only the attributes step changes
// text: it resolves {name} references against the document attribute table.
// The remaining steps are recognized so that pipelines can be configured
// and reported, but pass text through unchanged.
package subs

import (
	"regexp"
	"strings"
)

type Step string

const (
	StepSpecialCharacters Step = "specialcharacters"
	StepQuotes            Step = "quotes"
	StepAttributes        Step = "attributes"
	StepReplacements      Step = "replacements"
	StepMacros            Step = "macros"
	StepPostReplacements  Step = "post_replacements"
)

var (
	Normal   = []Step{StepSpecialCharacters, StepQuotes, StepAttributes, StepReplacements, StepMacros, StepPostReplacements}
	Verbatim = []Step{StepSpecialCharacters}
	None     = []Step{}
)

// Attributes is the document attribute table.
type Attributes map[string]string

func (a Attributes) Get(name string) (string, bool) {
	v, ok := a[name]
	return v, ok
}

func (a Attributes) Set(name, value string) {
	a[name] = value
}

func (a Attributes) Unset(name string) {
	delete(a, name)
}

func (a Attributes) Clone() Attributes {
	c := make(Attributes, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

var attributeReferenceRx = regexp.MustCompile(`(\\)?\{(\w[\w-]*|(?:set|counter2?):.+?)(\\)?\}`)

// Apply runs text through each step in order.
func Apply(text string, attrs Attributes, steps []Step) string {
	if text == "" || len(steps) == 0 {
		return text
	}
	for _, step := range steps {
		switch step {
		case StepAttributes:
			text = SubstituteAttributes(text, attrs)
		}
	}
	return text
}

// SubstituteAttributes replaces each {name} reference with the value of
// name. A reference escaped with a backslash on either side is kept, minus
// the backslash; a reference to an undefined name is kept as is. Directive
// forms ({set:...}, {counter:...}) are looked up verbatim and therefore
// stay literal, the table is never modified.
func SubstituteAttributes(text string, attrs Attributes) string {
	if !strings.Contains(text, "{") {
		return text
	}
	return attributeReferenceRx.ReplaceAllStringFunc(text, func(ref string) string {
		m := attributeReferenceRx.FindStringSubmatch(ref)
		name := m[2]
		if m[1] != "" || m[3] != "" {
			return "{" + name + "}"
		}
		if v, ok := attrs[name]; ok {
			return v
		}
		return "{" + name + "}"
	})
}

// References returns the attribute names referenced in text, in order of
// appearance, skipping escaped references.
func References(text string) []string {
	var names []string
	for _, m := range attributeReferenceRx.FindAllStringSubmatch(text, -1) {
		if m[1] == "" && m[3] == "" {
			names = append(names, m[2])
		}
	}
	return names
}
