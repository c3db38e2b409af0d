package asciidoc

import (
	"strings"

	"github.com/dhamidi/mangata/asciidoc/attrlist"
	"github.com/dhamidi/mangata/asciidoc/subs"
)

// readParagraph reads lines up to a blank line or the start of another
// block. A paragraph whose first line is indented is a literal block, as is
// one styled listing, source or literal.
func (p *Parser) readParagraph(meta *Metadata) Node {
	first := p.peek()
	if first == nil {
		return nil
	}

	var lines []*Line
	for line := p.peek(); line != nil; line = p.peek() {
		if len(lines) > 0 && (line.Blank() || isStartOfBlock(line)) {
			break
		}
		lines = append(lines, p.read())
	}
	last := lines[len(lines)-1]

	md := meta.value()
	enclosure := Enclosure("")
	switch style := md.Style(); {
	case style == "listing" || style == "source":
		enclosure = EnclosureListing
	case style == "literal" || (style == "" && literalParagraphRx.MatchString(first.Text)):
		enclosure = EnclosureLiteral
	}

	if enclosure != "" {
		block := &Block{
			Metadata:      md,
			EnclosureType: enclosure,
			Children:      make([]Node, 0, len(lines)),
			kind:          TypeCodeBlock,
		}
		block.subs = p.blockSubs(block.Attributes, enclosure.DefaultSubs(), first)
		for _, l := range lines {
			block.Children = append(block.Children, p.lineStr(l, block.subs))
		}
		p.endBlock(&block.Base, first, last)
		return block
	}

	para := &Paragraph{
		Metadata: md,
		Children: make([]*Str, 0, len(lines)),
	}
	steps := p.blockSubs(para.Attributes, subs.Normal, first)
	if para.Attributes.Has("subs") {
		para.Subs = steps
	}
	for _, l := range lines {
		para.Children = append(para.Children, p.lineStr(l, steps))
	}
	p.endBlock(&para.Base, first, last)
	return para
}

// readComment reads a run of contiguous line comments as one node.
func (p *Parser) readComment() Node {
	first := p.read()
	last := first
	var value strings.Builder
	value.WriteString(first.RawText)
	for line := p.peek(); line != nil && isLineComment(line); line = p.peek() {
		last = p.read()
		value.WriteString(last.RawText)
	}

	c := &Comment{Value: value.String()}
	p.endBlock(&c.Base, first, last)
	return c
}

func (p *Parser) readBlockMacro(meta *Metadata) Node {
	line := p.read()
	m := blockMacroRx.FindStringSubmatch(line.Text)

	attrs := attrlist.Parse(m[3])
	if meta != nil && meta.Attributes != nil {
		merged := meta.Attributes.Clone()
		merged.Merge(attrs)
		attrs = merged
	}
	md := meta.value()
	md.Attributes = attrs

	return &BlockMacro{
		Base:     lineBase(line),
		Metadata: md,
		Name:     m[1],
		Target:   p.substitute(m[2], []subs.Step{subs.StepAttributes}),
	}
}

type listLevel struct {
	marker string
	list   *UnorderedList
}

// readList reads an unordered list. Each distinct marker opens a nested
// list below the current item; a marker seen before returns to its list.
// Non-blank lines that are not items continue the current item.
func (p *Parser) readList(meta *Metadata) Node {
	var (
		stack []listLevel
		item  *ListItem
	)
	for line := p.peek(); line != nil && !line.Blank(); line = p.peek() {
		m := listItemRx.FindStringSubmatch(line.Text)
		if m == nil {
			if item == nil || isStartOfBlock(line) || isLineComment(line) {
				break
			}
			p.read()
			item.Value += "\n" + p.substitute(strings.TrimSpace(line.Text), subs.Normal)
			item.last = line
			continue
		}
		p.read()

		marker := m[1]
		next := &ListItem{Value: p.substitute(m[2], subs.Normal), first: line, last: line}
		switch i := levelOf(stack, marker); {
		case len(stack) == 0:
			stack = append(stack, listLevel{marker, &UnorderedList{Metadata: meta.value(), Marker: marker}})
		case i >= 0:
			stack = stack[:i+1]
		default:
			nested := &UnorderedList{Marker: marker}
			item.Children = append(item.Children, nested)
			stack = append(stack, listLevel{marker, nested})
		}
		top := stack[len(stack)-1].list
		top.Children = append(top.Children, next)
		item = next
	}
	if len(stack) == 0 {
		return nil
	}

	root := stack[0].list
	p.closeList(root)
	return root
}

func levelOf(stack []listLevel, marker string) int {
	for i, l := range stack {
		if l.marker == marker {
			return i
		}
	}
	return -1
}

func (p *Parser) closeList(l *UnorderedList) {
	for _, item := range l.Children {
		var last extent = item.last
		for _, nested := range item.Children {
			p.closeList(nested)
			last = &nested.Base
		}
		p.endBlock(&item.Base, item.first, last)
	}
	p.endBlock(&l.Base, &l.Children[0].Base, &l.Children[len(l.Children)-1].Base)
}
