package asciidoc

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/mangata/asciidoc/subs"
)

var (
	doctitleRx       = regexp.MustCompile(`^= \S`)
	authorLineRx     = regexp.MustCompile(`^([\pL\pN_][\pL\pN_\-'.]*)(?: +([\pL\pN_][\pL\pN_\-'.]*))?(?: +([\pL\pN_][\pL\pN_\-'.]*))?(?: +<([^>]+)>)?$`)
	attributeEntryRx = regexp.MustCompile(`^:([^:\s]+):(?:[ \t]+(.+))?$`)
)

// readHeader reads the document header: a level-0 title, then up to the
// first blank line any attribute entries, an author line and a revision
// line. The author line must come before the revision line.
func (p *Parser) readHeader() (*Header, error) {
	p.skipBlankLines()
	titleLine := p.peek()
	if titleLine == nil || titleLine.Blank() || !doctitleRx.MatchString(titleLine.Text) {
		return nil, nil
	}
	p.read()

	depth := len(titleLine.Text) - len(strings.TrimLeft(titleLine.Text, "="))
	title := p.titleNode(titleLine, depth)
	header := &Header{
		Depth:    depth,
		Title:    title.Children[0].(*Str).Value,
		Children: []Node{title},
	}
	p.attrs.Set("doctitle", header.Title)

	var haveAuthor, haveRevision bool
	for line := p.peek(); line != nil && !line.Blank(); line = p.peek() {
		entry, err := p.readAttributeEntry(line)
		if err != nil {
			var syntaxErr *SyntaxError
			if errors.As(err, &syntaxErr) {
				p.diagnose(SeverityWarning, line, "%s", syntaxErr.Message)
				break
			}
			return nil, err
		}
		if entry != nil {
			header.Children = append(header.Children, entry)
			continue
		}

		if isLineComment(line) {
			p.read()
			continue
		}

		if !haveAuthor {
			author := parseAuthorLine(line)
			if author == nil {
				break
			}
			p.read()
			header.Children = append(header.Children, author)
			p.setAuthorAttributes(author)
			haveAuthor = true
			continue
		}
		if !haveRevision {
			revision := parseRevisionLine(line)
			if revision == nil {
				break
			}
			p.read()
			header.Children = append(header.Children, revision)
			p.setRevisionAttributes(revision)
			haveRevision = true
			continue
		}
		break
	}

	p.endBlock(&header.Base, titleLine, lastChild(header.Children))
	return header, nil
}

// titleNode builds the node for a section or document title line. It spans
// the line without its terminator; its single Str child spans the title
// text after the = marker.
func (p *Parser) titleNode(l *Line, depth int) *Title {
	marker := len(titleMarkerRx.FindString(l.Text))
	text := l.Text[marker:]
	start, end := l.Range[0], l.Range[0]+len(l.Text)
	return &Title{
		Base: Base{
			Raw:   l.Text,
			Range: Range{start, end},
			Loc:   Location{Start: l.Start, End: l.Start.Move(len(l.Text))},
		},
		Depth: depth,
		Children: []Node{&Str{
			Base: Base{
				Raw:   text,
				Range: Range{start + marker, end},
				Loc:   Location{Start: l.Start.Move(marker), End: l.Start.Move(len(l.Text))},
			},
			Value: p.substitute(text, subs.Normal),
		}},
	}
}

// readAttributeEntry reads a :name: value line at l, returning nil if l is
// not an attribute entry. A line that starts with ':' but is not a valid
// entry yields a *SyntaxError and is left unread.
func (p *Parser) readAttributeEntry(l *Line) (*AttributeEntry, error) {
	if !strings.HasPrefix(l.Text, ":") {
		return nil, nil
	}
	m := attributeEntryRx.FindStringSubmatch(l.Text)
	if m == nil {
		return nil, &SyntaxError{
			Pos:     l.Start,
			Message: `line is not a valid attribute entry despite starting with ":"`,
		}
	}
	p.read()

	name, value := m[1], m[2]
	unset := strings.HasPrefix(name, "!") || strings.HasSuffix(name, "!")
	name = strings.TrimSuffix(strings.TrimPrefix(name, "!"), "!")

	// a value ending in " \" continues on the next line
	last := l
	for strings.HasSuffix(value, ` \`) {
		next := p.peek()
		if next == nil || next.Blank() {
			value = strings.TrimSuffix(value, ` \`)
			break
		}
		p.read()
		value = strings.TrimSuffix(value, ` \`) + " " + strings.TrimSpace(next.Text)
		last = next
	}

	entry := &AttributeEntry{Name: name}
	if unset {
		p.attrs.Unset(name)
	} else {
		value = subs.SubstituteAttributes(value, p.attrs)
		entry.Value = &value
		p.attrs.Set(name, value)
	}
	p.endBlock(&entry.Base, l, last)
	return entry, nil
}

func parseAuthorLine(l *Line) *AuthorLine {
	m := authorLineRx.FindStringSubmatch(l.Text)
	if m == nil {
		return nil
	}
	a := &AuthorLine{Base: lineBase(l), Firstname: m[1], Email: m[4]}
	switch {
	case m[3] != "":
		a.Middlename, a.Lastname = m[2], m[3]
	case m[2] != "":
		a.Lastname = m[2]
	}

	var names []string
	for _, n := range []string{a.Firstname, a.Middlename, a.Lastname} {
		if n != "" {
			names = append(names, n)
			r, _ := utf8.DecodeRuneInString(n)
			a.Initials += string(r)
		}
	}
	a.Name = strings.Join(names, " ")
	return a
}

// parseRevisionLine splits a revision line of the form
// "v1.0, 2024-01-01: remark" where each part is optional.
func parseRevisionLine(l *Line) *RevisionLine {
	text := strings.TrimSpace(l.Text)
	if strings.HasPrefix(text, ":") {
		return nil
	}
	r := &RevisionLine{Base: lineBase(l)}

	rest := text
	if before, after, found := strings.Cut(rest, ","); found {
		if i := strings.IndexAny(before, "0123456789"); i >= 0 {
			r.Number = strings.TrimSpace(before[i:])
			rest = after
		}
	}
	rest = strings.TrimSpace(rest)

	date, remark, _ := strings.Cut(rest, ":")
	date, r.Remark = strings.TrimSpace(date), strings.TrimSpace(remark)
	if r.Number == "" && len(date) > 1 && date[0] == 'v' && date[1] >= '0' && date[1] <= '9' {
		r.Number = date[1:]
	} else {
		r.Date = date
	}
	return r
}

func (p *Parser) setAuthorAttributes(a *AuthorLine) {
	set := func(name, value string) {
		if value != "" {
			p.attrs.Set(name, value)
		}
	}
	set("author", a.Name)
	set("firstname", a.Firstname)
	set("middlename", a.Middlename)
	set("lastname", a.Lastname)
	set("authorinitials", a.Initials)
	set("email", a.Email)
}

func (p *Parser) setRevisionAttributes(r *RevisionLine) {
	set := func(name, value string) {
		if value != "" {
			p.attrs.Set(name, value)
		}
	}
	set("revnumber", r.Number)
	set("revdate", r.Date)
	set("revremark", r.Remark)
}
