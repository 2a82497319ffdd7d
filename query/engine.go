// Package query implements FlowScript's five read-only graph queries —
// why, what_if, tensions, blocked, alternatives — as pure functions of an
// already-loaded ir.Document.
package query

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/flowscript/ir"
)

// ErrNodeNotFound is returned whenever a query is given an unknown node id.
var ErrNodeNotFound = errors.New("node not found")

// ErrWrongType is returned when a query requires a specific node type (e.g.
// alternatives on a question) and the given node does not have it.
var ErrWrongType = errors.New("wrong node type")

// Engine wraps one ir.Document; every query method is a pure function of
// the document's already-built indexes (ir.Document.Node,
// RelationshipsFrom/To, StateOf — rebuilt once at load time, never per
// query).
type Engine struct {
	doc *ir.Document
}

// New builds a query Engine over doc.
func New(doc *ir.Document) *Engine {
	return &Engine{doc: doc}
}

// LoadDocument reads and decodes an IR document from url via an afs.Service,
// the teacher's file-access abstraction. This is the engine's only I/O
// surface; every query function above it is pure.
func LoadDocument(ctx context.Context, fs afs.Service, url string) (*ir.Document, error) {
	content, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download %s", url)
	}
	doc, err := ir.DecodeDocument(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode IR at %s", url)
	}
	return doc, nil
}

func (e *Engine) node(id string) (*ir.Node, error) {
	n := e.doc.Node(id)
	if n == nil {
		return nil, errors.Wrapf(ErrNodeNotFound, "id %q", id)
	}
	return n, nil
}
