package attrlist

import (
	"regexp"
	"strings"
)

const (
	escape      = '\\'
	singleQuote = '\''
	doubleQuote = '"'
	delimiter   = ','
)

var nameRx = regexp.MustCompile(`^[\pL\pM\pN\p{Pc}][\pL\pM\pN\p{Pc}-]*[ \t]*=`)

// Parse parses the inner text of an attribute list. Entries are separated
// by commas; each is either name=value or a positional value. Values may be
// wrapped in single or double quotes, inside which a backslash escapes the
// quote character. Empty or blank text yields a single blank positional
// slot.
func Parse(text string) *Attributes {
	attrs := New()
	s := &scanner{text: text}
	for {
		parseAttribute(s, attrs)
		if s.eos() {
			break
		}
		s.next() // ','
	}
	return attrs
}

func parseAttribute(s *scanner, attrs *Attributes) {
	s.skipBlank()

	var (
		name     *string
		value    string
		hasValue bool
	)
	switch c := s.peek(); {
	case c == doubleQuote || c == singleQuote:
		v := parseValue(s, s.next())
		name = &v
		s.skipToDelimiter()
	case s.eos():
	default:
		if m := nameRx.FindString(s.rest()); m != "" {
			s.pos += len(m)
			n := strings.TrimSpace(m[:len(m)-1])
			name = &n
			hasValue = true
			s.skipBlank()
			if c := s.peek(); c == doubleQuote || c == singleQuote {
				value = parseValue(s, s.next())
				s.skipToDelimiter()
			} else {
				value = strings.TrimSpace(s.scanToDelimiter())
			}
		} else if v := strings.TrimSpace(s.scanToDelimiter()); v != "" {
			name = &v
		}
	}

	if !hasValue {
		attrs.addPositional(name)
		return
	}

	switch *name {
	case "options", "opts":
		for _, opt := range strings.Split(value, ",") {
			if opt = strings.TrimSpace(opt); opt != "" {
				attrs.Set(opt+"-option", "")
			}
		}
	default:
		attrs.Set(*name, value)
	}
}

// parseValue reads a quoted value whose opening quote has been consumed. The
// closing quote is left in place. A quote with no closing partner is kept as
// literal text up to the next delimiter.
func parseValue(s *scanner, quote byte) string {
	if s.peek() == quote {
		s.next()
		return ""
	}
	if value, ok := s.scanToQuote(quote); ok {
		if strings.IndexByte(value, escape) >= 0 {
			q := string(quote)
			return strings.ReplaceAll(value, string(escape)+q, q)
		}
		return value
	}
	return string(quote) + s.scanToDelimiter()
}

type scanner struct {
	text string
	pos  int
}

func (s *scanner) eos() bool {
	return s.pos >= len(s.text)
}

func (s *scanner) peek() byte {
	if s.eos() {
		return 0
	}
	return s.text[s.pos]
}

func (s *scanner) next() byte {
	c := s.peek()
	s.pos++
	return c
}

func (s *scanner) rest() string {
	return s.text[s.pos:]
}

func (s *scanner) skipBlank() {
	for !s.eos() && (s.text[s.pos] == ' ' || s.text[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) skipToDelimiter() {
	if i := strings.IndexByte(s.rest(), delimiter); i >= 0 {
		s.pos += i
	} else {
		s.pos = len(s.text)
	}
}

func (s *scanner) scanToDelimiter() string {
	start := s.pos
	s.skipToDelimiter()
	return s.text[start:s.pos]
}

// scanToQuote scans up to, not including, the first quote that is not
// preceded by a backslash. At least one byte must precede the quote.
func (s *scanner) scanToQuote(quote byte) (string, bool) {
	for i := s.pos + 1; i < len(s.text); i++ {
		if s.text[i] == quote && s.text[i-1] != escape {
			value := s.text[s.pos:i]
			s.pos = i
			return value, true
		}
	}
	return "", false
}
