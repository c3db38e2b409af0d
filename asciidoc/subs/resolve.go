package subs

import (
	"fmt"
	"strings"
)

var groups = map[string][]Step{
	"none":         None,
	"pass":         None,
	"normal":       Normal,
	"verbatim":     Verbatim,
	"specialchars": {StepSpecialCharacters},
}

var hints = map[string]string{
	"a": "attributes",
	"m": "macros",
	"n": "normal",
	"p": "post_replacements",
	"q": "quotes",
	"r": "replacements",
	"c": "specialcharacters",
	"v": "verbatim",
}

// UnknownStepError lists the names in a subs value that are neither a step
// nor a group.
type UnknownStepError struct {
	Names []string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown substitution: %s", strings.Join(e.Names, ", "))
}

// ParseStep resolves a single step name.
func ParseStep(name string) (Step, bool) {
	if h, ok := hints[name]; ok {
		name = h
	}
	for _, s := range Normal {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

func expand(name string) ([]Step, bool) {
	if h, ok := hints[name]; ok {
		name = h
	}
	if g, ok := groups[name]; ok {
		return g, true
	}
	if s, ok := ParseStep(name); ok {
		return []Step{s}, true
	}
	return nil, false
}

// Resolve interprets the value of a subs attribute, e.g. "attributes+",
// "-quotes,+macros" or "none". Entries are steps or groups (none, normal,
// verbatim, pass, specialchars). An entry prefixed with + is appended to
// the current list, one suffixed with + is prepended, one prefixed with -
// is removed; using any of these starts from defaults. Unknown names are
// skipped and reported through an *UnknownStepError alongside the usable
// result.
func Resolve(spec string, defaults []Step) ([]Step, error) {
	var (
		steps   []Step
		started bool
		unknown []string
	)
	for _, key := range strings.Split(spec, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		op := byte(0)
		switch {
		case strings.HasPrefix(key, "+"), strings.HasPrefix(key, "-"):
			op, key = key[0], key[1:]
		case strings.HasSuffix(key, "+"):
			op, key = '^', key[:len(key)-1]
		}
		if op != 0 && !started {
			steps = append([]Step(nil), defaults...)
		}
		started = true

		resolved, ok := expand(key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		switch op {
		case '^':
			steps = append(append([]Step(nil), resolved...), steps...)
		case '-':
			steps = remove(steps, resolved)
		default:
			steps = append(steps, resolved...)
		}
	}

	steps = dedupe(steps)
	if len(unknown) > 0 {
		return steps, &UnknownStepError{Names: unknown}
	}
	return steps, nil
}

func remove(steps, drop []Step) []Step {
	var out []Step
outer:
	for _, s := range steps {
		for _, d := range drop {
			if s == d {
				continue outer
			}
		}
		out = append(out, s)
	}
	return out
}

func dedupe(steps []Step) []Step {
	out := make([]Step, 0, len(steps))
	seen := make(map[Step]bool, len(steps))
	for _, s := range steps {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
