// Package engine defines the document capability interface the
// transfer pipeline runs against. The pipeline never parses or writes
// PDF data itself; it sees documents only through these interfaces.
// The production implementation (PDF) is backed by seehuhn.de/go/pdf,
// and tests use the in-memory implementation from enginetest.
package engine

import (
	"github.com/sven-vanh/lieferlisten-agent/model"
)

// Engine opens documents.
type Engine interface {
	// Open loads the document at path. Missing, unreadable or
	// encrypted files return an error.
	Open(path string) (Document, error)
}

// Document is an open document handle. Annotations added through its
// pages become part of the file written by Save; existing content is
// never modified or removed.
type Document interface {
	NumPages() int
	Page(i int) (Page, error)

	// Save writes the document's full content plus all added
	// annotations to path. On failure no partial file is left behind.
	Save(path string) error

	Close() error
}

// Page exposes one page's geometry, text and annotations. All
// coordinates are in model space (top-down, origin at the page's
// top-left corner).
type Page interface {
	// Bounds returns the page rectangle, anchored at (0, 0).
	Bounds() model.Rect

	// TextSpans returns the page's text runs with their bounding
	// boxes, in content-stream order.
	TextSpans() ([]TextSpan, error)

	// Annotations returns the page's existing annotations. Subtypes
	// outside the supported set are reported as
	// model.UnknownAnnotation.
	Annotations() ([]model.Annotation, error)

	// AddAnnotation stages a new annotation for the next Save.
	AddAnnotation(a model.Annotation) error
}

// TextSpan is a run of text with a position on the page.
type TextSpan struct {
	Text string
	BBox model.Rect
}
