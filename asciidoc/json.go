package asciidoc

import (
	"bytes"
	"encoding/json"
)

// marshalTyped encodes v, a JSON object, with a leading "type" member.
func marshalTyped(t NodeType, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"type":"`)
	buf.WriteString(t.String())
	buf.WriteByte('"')
	if len(body) > 2 {
		buf.WriteByte(',')
	}
	buf.Write(body[1:])
	return buf.Bytes(), nil
}

func (n *Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *Header) MarshalJSON() ([]byte, error) {
	type plain Header
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *Title) MarshalJSON() ([]byte, error) {
	type plain Title
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *AuthorLine) MarshalJSON() ([]byte, error) {
	type plain AuthorLine
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *RevisionLine) MarshalJSON() ([]byte, error) {
	type plain RevisionLine
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *Section) MarshalJSON() ([]byte, error) {
	type plain Section
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *Block) MarshalJSON() ([]byte, error) {
	type plain Block
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *Paragraph) MarshalJSON() ([]byte, error) {
	type plain Paragraph
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *UnorderedList) MarshalJSON() ([]byte, error) {
	type plain UnorderedList
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *ListItem) MarshalJSON() ([]byte, error) {
	type plain ListItem
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *Comment) MarshalJSON() ([]byte, error) {
	type plain Comment
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *BlockMacro) MarshalJSON() ([]byte, error) {
	type plain BlockMacro
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *AttributeEntry) MarshalJSON() ([]byte, error) {
	type plain AttributeEntry
	return marshalTyped(n.Type(), (*plain)(n))
}

func (n *Str) MarshalJSON() ([]byte, error) {
	type plain Str
	return marshalTyped(n.Type(), (*plain)(n))
}
