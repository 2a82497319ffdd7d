package ir

import (
	"encoding/json"
	"io"
)

// docAlias avoids infinite recursion when delegating to encoding/json's
// default struct marshalling from within UnmarshalJSON.
type docAlias Document

// UnmarshalJSON decodes a Document and rebuilds its lookup indexes, so a
// Document read back from disk (e.g. by the query engine's LoadDocument
// helper) behaves identically to one just produced by the parser.
func (d *Document) UnmarshalJSON(data []byte) error {
	var alias docAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*d = Document(alias)
	d.BuildIndexes()
	return nil
}

// DecodeDocument reads a JSON-encoded Document from r.
func DecodeDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
