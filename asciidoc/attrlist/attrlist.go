// Package attrlist parses the attribute list found between the brackets of a
// block metadata line, e.g. the `source,go,opts=linenums` in
// `[source,go,opts=linenums]`.
//
// The parser never fails. Malformed quoting degrades to literal text, so
// every input produces some attribute set.
package attrlist

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// PositionalKey is the key positional values are reported under when the
// attribute set is serialized.
const PositionalKey = "$positional"

// Attributes is a parsed attribute list. Named holds name=value entries,
// Positional holds the remaining entries in encounter order, with nil for a
// blank slot (e.g. the middle of "a,,b").
type Attributes struct {
	Named      map[string]string
	Positional []*string
}

func New() *Attributes {
	return &Attributes{Named: make(map[string]string)}
}

func (a *Attributes) Get(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.Named[name]
	return v, ok
}

func (a *Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

func (a *Attributes) Set(name, value string) {
	if a.Named == nil {
		a.Named = make(map[string]string)
	}
	a.Named[name] = value
}

// At returns the i-th positional value, counting from 1.
func (a *Attributes) At(i int) (string, bool) {
	if a == nil || i < 1 || i > len(a.Positional) || a.Positional[i-1] == nil {
		return "", false
	}
	return *a.Positional[i-1], true
}

// Option reports whether the named option was enabled, either through an
// options attribute or a %name shorthand.
func (a *Attributes) Option(name string) bool {
	return a.Has(name + "-option")
}

func (a *Attributes) Empty() bool {
	return a == nil || (len(a.Named) == 0 && len(a.Positional) == 0)
}

// Merge copies the entries of other into a. Named entries of other win;
// positional entries of other replace those of a when present.
func (a *Attributes) Merge(other *Attributes) {
	if other == nil {
		return
	}
	for k, v := range other.Named {
		a.Set(k, v)
	}
	if len(other.Positional) > 0 {
		a.Positional = append([]*string(nil), other.Positional...)
	}
}

func (a *Attributes) Clone() *Attributes {
	c := New()
	c.Merge(a)
	return c
}

func (a *Attributes) addPositional(v *string) {
	a.Positional = append(a.Positional, v)
}

// MarshalJSON produces a flat object of the named entries, with positional
// entries nested under PositionalKey and keyed "1", "2", ...
func (a *Attributes) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(a.Named)+1)
	for k, v := range a.Named {
		m[k] = v
	}
	if len(a.Positional) > 0 {
		pos := make(map[string]*string, len(a.Positional))
		for i, v := range a.Positional {
			pos[strconv.Itoa(i+1)] = v
		}
		m[PositionalKey] = pos
	}
	return json.Marshal(m)
}

func (a *Attributes) String() string {
	var parts []string
	for i := range a.Positional {
		if v, ok := a.At(i + 1); ok {
			parts = append(parts, strconv.Quote(v))
		} else {
			parts = append(parts, "nil")
		}
	}
	names := make([]string, 0, len(a.Named))
	for k := range a.Named {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		parts = append(parts, k+"="+strconv.Quote(a.Named[k]))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
