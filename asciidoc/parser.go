package asciidoc

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/mangata/asciidoc/attrlist"
	"github.com/dhamidi/mangata/asciidoc/subs"
)

var log = commonlog.GetLogger("mangata.asciidoc")

var (
	blockTitleRx         = regexp.MustCompile(`^\.(\.?[^ \t.].*)$`)
	literalParagraphRx   = regexp.MustCompile(`^[ \t]+.+$`)
	sectionTitleRx       = regexp.MustCompile(`^=(={0,5}) \S`)
	titleMarkerRx        = regexp.MustCompile(`^=+[ \t]+`)
	blockAttributeLineRx = regexp.MustCompile(`^\[(?:|[\pL\pN_.#%{,"'].*|\[(?:|[\pL_:][\pL\pN_:.-]*(?:, *.+)?)\])\]$`)
	blockMacroRx         = regexp.MustCompile(`^(\w+)::(|\S|\S.*?\S)\[(.*)\]$`)
	listItemRx           = regexp.MustCompile(`^[ \t]*(\*+|-)[ \t]+(\S.*)$`)
)

type Option func(*Parser)

// WithAttributes presets the attribute table of every parse. The map is
// copied.
func WithAttributes(attrs map[string]string) Option {
	return func(p *Parser) {
		p.preset = subs.Attributes(attrs).Clone()
	}
}

// WithMaxDepth limits how deeply sections and delimited blocks may nest.
// Zero means no limit.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

// Parser is a recursive-descent parser over the lines of one document. The
// line slice is never modified; the cursor is the only parse position.
//
// A Parser is not safe for concurrent use. Each call to Parse starts from
// the first line with a fresh attribute table.
type Parser struct {
	text   string
	lines  []*Line
	cursor int

	attrs    subs.Attributes
	preset   subs.Attributes
	maxDepth int
	depth    int
	diags    []Diagnostic

	// pending is metadata read ahead of a section title that belongs to a
	// parent section. The next readInterveningLines picks it up.
	pending *Metadata
}

// Parse parses text into a document tree.
func Parse(text string, opts ...Option) (*Document, error) {
	return NewParser(text, opts...).Parse()
}

func NewParser(text string, opts ...Option) *Parser {
	p := &Parser{
		text:  text,
		lines: SplitLines(text),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// blockOpts is the context handed down from a container to readBlock.
type blockOpts struct {
	sections     bool
	sectionLevel int
	// enclosures lists the opening delimiters of the enclosing compound
	// blocks, innermost first.
	enclosures []*Line
}

func (p *Parser) Parse() (*Document, error) {
	p.cursor = 0
	p.depth = 0
	p.diags = nil
	p.pending = nil
	p.attrs = p.preset.Clone()

	doc := &Document{
		Base: Base{
			Raw:   p.text,
			Range: Range{0, len(p.text)},
			Loc:   Location{Start: p.lines[0].Start, End: p.lines[len(p.lines)-1].End},
		},
		Children: []Node{},
	}

	header, err := p.readHeader()
	if err != nil {
		return nil, err
	}
	if header != nil {
		doc.Children = append(doc.Children, header)
	}

	for {
		meta, err := p.readInterveningLines(&doc.Children)
		if err != nil {
			return nil, err
		}
		block, err := p.readBlock(meta, blockOpts{sections: true, sectionLevel: -1})
		if err != nil {
			return nil, err
		}
		if block == nil {
			break
		}
		doc.Children = append(doc.Children, block)
	}
	if next := p.peek(); next != nil {
		p.diagnose(SeverityWarning, next, "content from here on could not be parsed")
	}
	p.dropMetadata(p.pending)
	p.pending = nil

	doc.Attributes = p.attrs
	doc.Diagnostics = p.diags
	return doc, nil
}

func (p *Parser) peek() *Line {
	if p.cursor < len(p.lines) {
		return p.lines[p.cursor]
	}
	return nil
}

func (p *Parser) read() *Line {
	l := p.peek()
	if l != nil {
		p.cursor++
	}
	return l
}

func (p *Parser) skipBlankLines() {
	for l := p.peek(); l != nil && l.Blank(); l = p.peek() {
		p.read()
	}
}

// readBlock reads the next block. A nil node means there is no block to
// read in the current context, which ends the caller's loop.
//
// Block title and attribute lines are folded into meta until a line starts
// a block, so a long run of them costs neither stack nor copies.
func (p *Parser) readBlock(meta *Metadata, opts blockOpts) (Node, error) {
	for {
		line := p.peek()
		if line == nil {
			p.dropMetadata(meta)
			return nil, nil
		}
		text := line.Text

		if opts.sections {
			if level, ok := sectionLevel(line); ok {
				if level > opts.sectionLevel {
					return p.readSection(level, meta)
				}
				// the section that takes this title gets the metadata
				p.pending = meta
				return nil, nil
			}
		}

		if d, ok := lookupDelimiter(text); ok && !line.Blank() {
			// The delimiter closes an outer block: stop so that block can end.
			if len(opts.enclosures) > 1 && matchesAny(line, opts.enclosures[1:]) {
				p.dropMetadata(meta)
				return nil, nil
			}
			return p.readDelimitedBlock(d, meta, opts)
		}

		if isBlockMacro(line) {
			return p.readBlockMacro(meta), nil
		}

		if strings.HasPrefix(text, ".") {
			if m := blockTitleRx.FindStringSubmatch(text); m != nil {
				p.read()
				p.skipBlankLines()
				meta = meta.setTitle(line, p.substitute(m[1], subs.Normal))
				continue
			}
		}

		if isLineComment(line) {
			p.dropMetadata(meta)
			return p.readComment(), nil
		}

		if strings.HasPrefix(text, "[") {
			if attrs, ok := parseBlockAttributeLine(text); ok {
				p.read()
				p.skipBlankLines()
				meta = meta.mergeAttributes(line, attrs)
				continue
			}
		}

		if isListItem(line) {
			return p.readList(meta), nil
		}

		return p.readParagraph(meta), nil
	}
}

func (p *Parser) readSection(level int, meta *Metadata) (Node, error) {
	titleLine := p.read()
	if err := p.enter(titleLine); err != nil {
		return nil, err
	}
	defer p.leave()

	title := p.titleNode(titleLine, level+1)
	section := &Section{
		Metadata: meta.value(),
		Title:    title.Children[0].(*Str).Value,
		Level:    level,
		Children: []Node{title},
	}

	// read blocks until the next sibling or parent section
	for {
		data, err := p.readInterveningLines(&section.Children)
		if err != nil {
			return nil, err
		}
		block, err := p.readBlock(data, blockOpts{sections: true, sectionLevel: level})
		if err != nil {
			return nil, err
		}
		if block == nil {
			break
		}
		section.Children = append(section.Children, block)
	}

	p.endBlock(&section.Base, titleLine, lastChild(section.Children))
	return section, nil
}

func (p *Parser) readDelimitedBlock(d delimiter, meta *Metadata, opts blockOpts) (Node, error) {
	open := p.read()
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()

	block := &Block{
		Metadata:       meta.value(),
		EnclosureType:  d.enclosure,
		DelimiterLines: []*Str{p.lineStr(open, subs.None)},
		Children:       []Node{},
		kind:           TypeDelimitedBlock,
	}
	if d.enclosure == EnclosureListing {
		block.kind = TypeCodeBlock
	}

	var last extent = open
	closed := false
	if d.enclosure.Compound() {
		childOpts := blockOpts{enclosures: append([]*Line{open}, opts.enclosures...)}
		for {
			data, err := p.readInterveningLines(&block.Children)
			if err != nil {
				return nil, err
			}
			next := p.peek()
			if next == nil {
				p.dropMetadata(data)
				break
			}
			if next.Matches(open) {
				p.dropMetadata(data)
				block.DelimiterLines = append(block.DelimiterLines, p.lineStr(p.read(), subs.None))
				last, closed = next, true
				break
			}
			child, err := p.readBlock(data, childOpts)
			if err != nil {
				return nil, err
			}
			if child == nil {
				break
			}
			block.Children = append(block.Children, child)
		}
		if !closed && len(block.Children) > 0 {
			// assume the block ended early at its last child
			last = block.Children[len(block.Children)-1].Bounds()
		}
	} else {
		block.subs = p.blockSubs(block.Attributes, d.enclosure.DefaultSubs(), open)
		for line := p.read(); line != nil; line = p.read() {
			last = line
			if line.Matches(open) {
				block.DelimiterLines = append(block.DelimiterLines, p.lineStr(line, subs.None))
				closed = true
				break
			}
			block.Children = append(block.Children, p.lineStr(line, block.subs))
		}
	}
	if !closed {
		p.diagnose(SeverityWarning, open, "unterminated %s block", d.enclosure)
	}

	p.endBlock(&block.Base, open, last)
	return block, nil
}

// readInterveningLines consumes the blank lines, attribute entries and
// block attribute lines between two blocks. Attribute entries become
// children of the container being built; attribute lines are returned as
// metadata for the next block.
func (p *Parser) readInterveningLines(children *[]Node) (*Metadata, error) {
	meta := p.pending
	p.pending = nil
	for line := p.peek(); line != nil; line = p.peek() {
		if line.Blank() {
			p.read()
			continue
		}

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
			*children = append(*children, entry)
			continue
		}

		if attrs, ok := parseBlockAttributeLine(line.Text); ok {
			p.read()
			meta = meta.addData(line, attrs)
			continue
		}
		break
	}
	return meta, nil
}

func (p *Parser) enter(l *Line) error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return fmt.Errorf("line %d: %w", l.Number, ErrMaxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// extent is anything with a source range: a line or a node.
type extent interface {
	extent() (Range, Location)
}

func (l *Line) extent() (Range, Location) { return l.Range, l.Loc() }
func (b *Base) extent() (Range, Location) { return b.Range, b.Loc }

// endBlock closes a node spanning from first to last. It is the only place
// a composite node gets its range, raw text and location.
func (p *Parser) endBlock(n *Base, first, last extent) {
	fr, fl := first.extent()
	lr, ll := last.extent()
	n.Range = Range{fr[0], lr[1]}
	n.Raw = p.text[fr[0]:lr[1]]
	n.Loc = Location{Start: fl.Start, End: ll.End}
}

func lastChild(children []Node) extent {
	return children[len(children)-1].Bounds()
}

func (p *Parser) diagnose(sev Severity, at extent, format string, args ...any) {
	r, loc := at.extent()
	d := Diagnostic{Severity: sev, Range: r, Loc: loc, Message: fmt.Sprintf(format, args...)}
	log.Debugf("%s", d)
	p.diags = append(p.diags, d)
}

func (p *Parser) substitute(text string, steps []subs.Step) string {
	return subs.Apply(text, p.attrs, steps)
}

func (p *Parser) lineStr(l *Line, steps []subs.Step) *Str {
	return &Str{Base: lineBase(l), Value: p.substitute(l.Text, steps)}
}

// blockSubs resolves the subs attribute of a block against its defaults.
func (p *Parser) blockSubs(attrs *attrlist.Attributes, defaults []subs.Step, at extent) []subs.Step {
	spec, ok := attrs.Get("subs")
	if !ok {
		return defaults
	}
	steps, err := subs.Resolve(spec, defaults)
	if err != nil {
		p.diagnose(SeverityWarning, at, "%v", err)
	}
	return steps
}

func (m *Metadata) value() Metadata {
	if m == nil {
		return Metadata{}
	}
	return *m
}

// setTitle, mergeAttributes and addData update m in place, allocating it
// on first use. line is where the metadata starts if it is new.
func (m *Metadata) setTitle(line *Line, title string) *Metadata {
	m = m.alloc(line)
	m.Title = title
	return m
}

func (m *Metadata) mergeAttributes(line *Line, attrs *attrlist.Attributes) *Metadata {
	m = m.alloc(line)
	if m.Attributes == nil {
		m.Attributes = attrlist.New()
	}
	m.Attributes.Merge(attrs)
	return m
}

func (m *Metadata) addData(line *Line, attrs *attrlist.Attributes) *Metadata {
	m = m.mergeAttributes(line, attrs)
	m.Data = append(m.Data, attrs)
	return m
}

func (m *Metadata) alloc(line *Line) *Metadata {
	if m == nil {
		return &Metadata{start: line}
	}
	return m
}

// dropMetadata reports metadata that no block follows.
func (p *Parser) dropMetadata(m *Metadata) {
	if m == nil || m.start == nil {
		return
	}
	p.diagnose(SeverityWarning, m.start, "block metadata is not followed by a block")
}

func sectionLevel(l *Line) (int, bool) {
	if l.Blank() || !strings.HasPrefix(l.Text, "=") {
		return 0, false
	}
	m := sectionTitleRx.FindStringSubmatch(l.Text)
	if m == nil || len(m[1]) == 0 {
		return 0, false
	}
	return len(m[1]), true
}

func isBlockMacro(l *Line) bool {
	return !l.Blank() && strings.Contains(l.Text, "::") && blockMacroRx.MatchString(l.Text)
}

func isLineComment(l *Line) bool {
	return strings.HasPrefix(l.Text, "//") && !strings.HasPrefix(l.Text, "///")
}

func isListItem(l *Line) bool {
	return !l.Blank() && listItemRx.MatchString(l.Text)
}

func isBlockMetadata(l *Line) bool {
	return strings.HasPrefix(l.Text, "[") && blockAttributeLineRx.MatchString(l.Text)
}

func isStartOfBlock(l *Line) bool {
	return isBlockMetadata(l) || isDelimiter(l)
}

// parseBlockAttributeLine parses a [attrlist] or [[anchor]] line.
func parseBlockAttributeLine(text string) (*attrlist.Attributes, bool) {
	if !strings.HasPrefix(text, "[") || !blockAttributeLineRx.MatchString(text) {
		return nil, false
	}
	inner := text[1 : len(text)-1]
	if len(inner) >= 2 && inner[0] == '[' && inner[len(inner)-1] == ']' {
		return attrlist.ParseAnchor(inner[1 : len(inner)-1]), true
	}
	attrs := attrlist.Parse(inner)
	attrlist.InferMetadata(attrs)
	return attrs, true
}
