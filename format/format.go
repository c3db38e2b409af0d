package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/mangata/asciidoc"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *asciidoc.Document) error
}

// Names lists the output formats accepted by New.
var Names = []string{"json", "yaml", "tree", "outline"}

func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "tree":
		return NewTreeEncoder(w), nil
	case "outline":
		return NewOutlineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names)
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
