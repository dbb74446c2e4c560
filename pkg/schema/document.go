package schema

import (
	"bytes"
	"errors"
)

// emptyDocument is what a blank schema text stands for.
var emptyDocument = []byte("{}")

// Document wraps the raw schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document. Blank payloads are accepted and read as
// the empty schema "{}" because agents without configurable properties ship
// an empty schema string.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = emptyDocument
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	if d.raw == nil {
		return append([]byte(nil), emptyDocument...)
	}
	return append([]byte(nil), d.raw...)
}

// Text returns the payload as a string.
func (d Document) Text() string {
	return string(d.Raw())
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
