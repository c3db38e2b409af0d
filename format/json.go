package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/mangata/asciidoc"
)

// JSONEncoder writes the node tree in its JSON shape: every node has type,
// raw, range and loc, plus its kind specific fields.
type JSONEncoder struct {
	w   io.Writer
	doc *asciidoc.Document

	Indent string
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w, Indent: "  "}
}

func (e *JSONEncoder) Encode(doc *asciidoc.Document) error {
	e.doc = doc
	return write(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	if e.Indent == "" {
		data, err := json.Marshal(e.doc)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	data, err := json.MarshalIndent(e.doc, "", e.Indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
