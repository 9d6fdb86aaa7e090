package frontmatter

import (
	"bytes"

	"github.com/adrg/frontmatter"
)

// documentFormats lists the delimiters accepted by DecodeDocument. JSON blocks
// are decoded by the YAML decoder, which accepts JSON documents.
var documentFormats = []*frontmatter.Format{
	frontmatter.NewFormat(Delimiter, Delimiter, unmarshalMap),
	frontmatter.NewFormat(";;;", ";;;", unmarshalMap),
}

// DecodeDocument extracts and strictly decodes the metadata block of a whole
// document. It returns the mapping, the body without delimiters and any decode
// error. Documents without a block decode to an empty mapping and the full
// source as body.
func DecodeDocument(source []byte) (*Map, []byte, error) {
	var meta *Map

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta, documentFormats...)
	if err != nil {
		return NewMap(), nil, wrapDocumentError(err)
	}
	if meta == nil {
		meta = NewMap()
	}
	return meta, body, nil
}

func unmarshalMap(data []byte, v any) error {
	m, err := ParseWithResult(string(data))
	if err != nil {
		return err
	}
	if target, ok := v.(**Map); ok {
		*target = m
	}
	return nil
}
