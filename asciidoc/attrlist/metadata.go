package attrlist

import "strings"

// InferMetadata expands the shorthand that may appear in the first
// positional attribute, style#id.role%option, into the style, id, role and
// <option>-option named attributes. Roles accumulate into a space separated
// list. Explicit named id and role attributes are left alone.
func InferMetadata(attrs *Attributes) {
	first, ok := attrs.At(1)
	if !ok || first == "" {
		return
	}

	var (
		style, id string
		roles     []string
	)
	kind, start := byte(0), 0
	flush := func(end int) {
		seg := first[start:end]
		switch kind {
		case 0:
			style = strings.TrimSpace(seg)
		case '#':
			id = seg
		case '.':
			if seg != "" {
				roles = append(roles, seg)
			}
		case '%':
			if seg != "" {
				attrs.Set(seg+"-option", "")
			}
		}
	}
	for i := 0; i < len(first); i++ {
		switch c := first[i]; c {
		case '#', '.', '%':
			flush(i)
			kind, start = c, i+1
		}
	}
	flush(len(first))

	if style != "" {
		attrs.Set("style", style)
	}
	if id != "" && !attrs.Has("id") {
		attrs.Set("id", id)
	}
	if len(roles) > 0 && !attrs.Has("role") {
		attrs.Set("role", strings.Join(roles, " "))
	}
}

// ParseAnchor parses the inner text of a block anchor, the `id, reftext`
// part of `[[id, reftext]]`.
func ParseAnchor(text string) *Attributes {
	attrs := New()
	id, reftext, found := strings.Cut(text, ",")
	if id = strings.TrimSpace(id); id != "" {
		attrs.Set("id", id)
	}
	if found {
		if reftext = strings.TrimSpace(reftext); reftext != "" {
			attrs.Set("reftext", reftext)
		}
	}
	return attrs
}
