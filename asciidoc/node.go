package asciidoc

import (
	"github.com/dhamidi/mangata/asciidoc/attrlist"
	"github.com/dhamidi/mangata/asciidoc/subs"
)

type NodeType int

const (
	TypeDocument NodeType = iota
	TypeHeader
	TypeTitle
	TypeAuthorLine
	TypeRevisionLine
	TypeSection
	TypeDelimitedBlock
	TypeCodeBlock
	TypeParagraph
	TypeUnorderedList
	TypeListItem
	TypeComment
	TypeBlockMacro
	TypeAttributeEntry
	TypeStr
)

var nodeTypeNames = map[NodeType]string{
	TypeDocument:       "Document",
	TypeHeader:         "Header",
	TypeTitle:          "Title",
	TypeAuthorLine:     "AuthorLine",
	TypeRevisionLine:   "RevisionLine",
	TypeSection:        "Section",
	TypeDelimitedBlock: "DelimitedBlock",
	TypeCodeBlock:      "CodeBlock",
	TypeParagraph:      "Paragraph",
	TypeUnorderedList:  "UnorderedList",
	TypeListItem:       "ListItem",
	TypeComment:        "Comment",
	TypeBlockMacro:     "BlockMacroNode",
	TypeAttributeEntry: "AttributeEntryNode",
	TypeStr:            "Str",
}

func (t NodeType) String() string {
	if name, ok := nodeTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

func (t NodeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Node is implemented by every node of the tree.
type Node interface {
	Type() NodeType
	// Bounds returns the source provenance shared by all nodes.
	Bounds() *Base
	// Nodes returns the child nodes, nil for leaves.
	Nodes() []Node
}

// Base carries the exact source text of a node, its byte range over the
// document and its line/column span.
type Base struct {
	Raw   string   `json:"raw"`
	Range Range    `json:"range"`
	Loc   Location `json:"loc"`
}

func (b *Base) Bounds() *Base { return b }

func lineBase(l *Line) Base {
	return Base{Raw: l.RawText, Range: l.Range, Loc: l.Loc()}
}

// Metadata is the block metadata that may precede a block: a block title
// line and attribute list lines.
type Metadata struct {
	Title      string               `json:"title,omitempty"`
	Attributes *attrlist.Attributes `json:"attributes,omitempty"`
	// Data holds the attribute lists read as intervening lines, in order.
	Data []*attrlist.Attributes `json:"data,omitempty"`

	start *Line
}

// Style returns the block style, if any.
func (m *Metadata) Style() string {
	v, _ := m.Attributes.Get("style")
	return v
}

func (m *Metadata) ID() string {
	v, _ := m.Attributes.Get("id")
	return v
}

type Document struct {
	Base
	Children []Node `json:"children"`

	// Attributes is the attribute table as it stood at the end of the parse.
	Attributes subs.Attributes `json:"-"`
	// Diagnostics records where the parser recovered from malformed input.
	Diagnostics []Diagnostic `json:"-"`
}

func (*Document) Type() NodeType  { return TypeDocument }
func (d *Document) Nodes() []Node { return d.Children }

// Header returns the document header, or nil.
func (d *Document) Header() *Header {
	if len(d.Children) > 0 {
		if h, ok := d.Children[0].(*Header); ok {
			return h
		}
	}
	return nil
}

type Header struct {
	Base
	Depth    int    `json:"depth"`
	Title    string `json:"title"`
	Children []Node `json:"children"`
}

func (*Header) Type() NodeType  { return TypeHeader }
func (h *Header) Nodes() []Node { return h.Children }

// Author returns the author line of the header, or nil.
func (h *Header) Author() *AuthorLine {
	for _, c := range h.Children {
		if a, ok := c.(*AuthorLine); ok {
			return a
		}
	}
	return nil
}

func (h *Header) Revision() *RevisionLine {
	for _, c := range h.Children {
		if r, ok := c.(*RevisionLine); ok {
			return r
		}
	}
	return nil
}

// Title is a document or section title line.
type Title struct {
	Base
	Depth    int    `json:"depth"`
	Children []Node `json:"children"`
}

func (*Title) Type() NodeType  { return TypeTitle }
func (t *Title) Nodes() []Node { return t.Children }

type AuthorLine struct {
	Base
	Name       string `json:"name"`
	Firstname  string `json:"firstname,omitempty"`
	Middlename string `json:"middlename,omitempty"`
	Lastname   string `json:"lastname,omitempty"`
	Initials   string `json:"initials,omitempty"`
	Email      string `json:"email,omitempty"`
}

func (*AuthorLine) Type() NodeType { return TypeAuthorLine }
func (*AuthorLine) Nodes() []Node  { return nil }

type RevisionLine struct {
	Base
	Number string `json:"number,omitempty"`
	Date   string `json:"date,omitempty"`
	Remark string `json:"remark,omitempty"`
}

func (*RevisionLine) Type() NodeType { return TypeRevisionLine }
func (*RevisionLine) Nodes() []Node  { return nil }

// Section is a titled part of the document. Level is the number of '='
// in the title marker minus one; its title node, the first child, has
// depth Level+1. Title holds the substituted title text and hides any
// block title given in the metadata.
type Section struct {
	Base
	Metadata
	Title    string `json:"title"`
	Level    int    `json:"level"`
	Children []Node `json:"children"`
}

func (*Section) Type() NodeType  { return TypeSection }
func (s *Section) Nodes() []Node { return s.Children }

// Block is a delimited block, or a literal paragraph. Listing enclosures
// and literal paragraphs report TypeCodeBlock, everything else
// TypeDelimitedBlock.
type Block struct {
	Base
	Metadata
	EnclosureType  Enclosure `json:"enclosureType"`
	DelimiterLines []*Str    `json:"delimiterLines,omitempty"`
	Children       []Node    `json:"children"`

	kind NodeType
	subs []subs.Step
}

func (b *Block) Type() NodeType { return b.kind }
func (b *Block) Nodes() []Node  { return b.Children }

// Text returns the substituted content lines of a verbatim block joined by
// \n. Compound blocks have no direct lines and return "".
func (b *Block) Text() string {
	var lines []*Str
	for _, c := range b.Children {
		if s, ok := c.(*Str); ok {
			lines = append(lines, s)
		}
	}
	return joinStr(lines)
}

// Subs returns the substitution steps applied to the block lines.
func (b *Block) Subs() []subs.Step {
	return b.subs
}

// Compound reports whether the block content is made of nested blocks
// rather than verbatim lines.
func (b *Block) Compound() bool {
	return b.EnclosureType.Compound()
}

// Terminated reports whether a closing delimiter was found. Literal
// paragraphs have no delimiters and are always terminated.
func (b *Block) Terminated() bool {
	return len(b.DelimiterLines) != 1
}

type Paragraph struct {
	Base
	Metadata
	Subs     []subs.Step `json:"subs,omitempty"`
	Children []*Str      `json:"children"`
}

func (*Paragraph) Type() NodeType { return TypeParagraph }

func (p *Paragraph) Nodes() []Node {
	nodes := make([]Node, len(p.Children))
	for i, c := range p.Children {
		nodes[i] = c
	}
	return nodes
}

// Text returns the substituted text of the paragraph, lines joined by \n.
func (p *Paragraph) Text() string {
	return joinStr(p.Children)
}

type UnorderedList struct {
	Base
	Metadata
	Marker   string      `json:"marker"`
	Children []*ListItem `json:"children"`
}

func (*UnorderedList) Type() NodeType { return TypeUnorderedList }

func (l *UnorderedList) Nodes() []Node {
	nodes := make([]Node, len(l.Children))
	for i, c := range l.Children {
		nodes[i] = c
	}
	return nodes
}

// ListItem is one list entry. Value is the item text, continuation lines
// joined by \n. Children holds nested lists.
type ListItem struct {
	Base
	Value    string           `json:"value"`
	Children []*UnorderedList `json:"children,omitempty"`

	first, last *Line
}

func (*ListItem) Type() NodeType { return TypeListItem }

func (i *ListItem) Nodes() []Node {
	if len(i.Children) == 0 {
		return nil
	}
	nodes := make([]Node, len(i.Children))
	for j, c := range i.Children {
		nodes[j] = c
	}
	return nodes
}

// Comment is a run of contiguous line comments. Value holds the raw text of
// all its lines.
type Comment struct {
	Base
	Value string `json:"value"`
}

func (*Comment) Type() NodeType { return TypeComment }
func (*Comment) Nodes() []Node  { return nil }

// BlockMacro is a single line name::target[attributes] block macro.
type BlockMacro struct {
	Base
	Metadata
	Name   string `json:"name"`
	Target string `json:"target"`
}

func (*BlockMacro) Type() NodeType { return TypeBlockMacro }
func (*BlockMacro) Nodes() []Node  { return nil }

// AttributeEntry is a :name: value line. A nil Value means the entry unsets
// the attribute.
type AttributeEntry struct {
	Base
	Name  string  `json:"name"`
	Value *string `json:"value,omitempty"`
}

func (*AttributeEntry) Type() NodeType { return TypeAttributeEntry }
func (*AttributeEntry) Nodes() []Node  { return nil }

// Unset reports whether the entry removes the attribute.
func (e *AttributeEntry) Unset() bool {
	return e.Value == nil
}

// Str is a single line of text. Value is the line after substitution,
// without its terminator; Raw keeps the source line as is.
type Str struct {
	Base
	Value string `json:"value"`
}

func (*Str) Type() NodeType { return TypeStr }
func (*Str) Nodes() []Node  { return nil }

func joinStr(lines []*Str) string {
	n := 0
	for _, s := range lines {
		n += len(s.Value) + 1
	}
	buf := make([]byte, 0, n)
	for i, s := range lines {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, s.Value...)
	}
	return string(buf)
}
