package asciidoc

import (
	"strings"

	"github.com/dhamidi/mangata/asciidoc/subs"
)

// Enclosure is the kind of a delimited block.
type Enclosure string

const (
	EnclosureOpen    Enclosure = "open"
	EnclosureListing Enclosure = "listing"
	EnclosureLiteral Enclosure = "literal"
	EnclosureExample Enclosure = "example"
	EnclosureTable   Enclosure = "table"
	EnclosureComment Enclosure = "comment"
	EnclosureSidebar Enclosure = "sidebar"
	EnclosureQuote   Enclosure = "quote"
	EnclosurePass    Enclosure = "pass"
)

// Compound reports whether blocks of this kind contain nested blocks.
func (e Enclosure) Compound() bool {
	switch e {
	case EnclosureOpen, EnclosureExample, EnclosureTable, EnclosureSidebar, EnclosureQuote:
		return true
	}
	return false
}

// DefaultSubs returns the substitutions applied to the lines of a verbatim
// block of this kind.
func (e Enclosure) DefaultSubs() []subs.Step {
	switch e {
	case EnclosureListing, EnclosureLiteral:
		return subs.Verbatim
	case EnclosurePass, EnclosureComment:
		return subs.None
	}
	return subs.Normal
}

type delimiter struct {
	enclosure Enclosure
	char      byte // repeated character, 0 for the open block
}

// delimiters is keyed by the delimiter stem: the first four characters, or
// the whole line for the two-character open block and the three-character
// code fence.
var delimiters = map[string]delimiter{
	"--":   {EnclosureOpen, 0},
	"----": {EnclosureListing, '-'},
	"```":  {EnclosureListing, '`'},
	"....": {EnclosureLiteral, '.'},
	"====": {EnclosureExample, '='},
	"|===": {EnclosureTable, '='},
	"!===": {EnclosureTable, '='},
	"////": {EnclosureComment, '/'},
	"****": {EnclosureSidebar, '*'},
	"____": {EnclosureQuote, '_'},
	"++++": {EnclosurePass, '+'},
}

// lookupDelimiter reports whether text is a block delimiter line. Beyond the
// stem a delimiter may be longer, as long as it repeats its character, so
// "======" opens an example block that only "======" closes.
func lookupDelimiter(text string) (delimiter, bool) {
	switch n := len(text); {
	case text == "--":
		return delimiters[text], true
	case n > 3:
		if d, ok := delimiters[text[:4]]; ok && d.char != 0 && text[1:] == strings.Repeat(string(d.char), n-1) {
			return d, true
		}
	case n == 3:
		if d, ok := delimiters[text]; ok && text[1:] == strings.Repeat(string(d.char), n-1) {
			return d, true
		}
	}
	return delimiter{}, false
}

func isDelimiter(l *Line) bool {
	if l.Blank() {
		return false
	}
	_, ok := lookupDelimiter(l.Text)
	return ok
}

func matchesAny(l *Line, candidates []*Line) bool {
	for _, c := range candidates {
		if l.Matches(c) {
			return true
		}
	}
	return false
}
