// Package enginetest provides an in-memory engine implementation for
// tests. Documents are assembled directly from spans and annotations,
// and Save records the staged annotations instead of writing a file.
package enginetest

import (
	"fmt"

	"github.com/sven-vanh/lieferlisten-agent/engine"
	"github.com/sven-vanh/lieferlisten-agent/model"
)

// Engine maps paths to pre-built documents.
type Engine struct {
	Docs map[string]*Document
}

func New() *Engine {
	return &Engine{Docs: make(map[string]*Document)}
}

// Add registers doc under path.
func (e *Engine) Add(path string, doc *Document) *Engine {
	e.Docs[path] = doc
	return e
}

func (e *Engine) Open(path string) (engine.Document, error) {
	doc, ok := e.Docs[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such document", path)
	}
	if doc.OpenErr != nil {
		return nil, doc.OpenErr
	}
	return doc, nil
}

// Document is an in-memory document. The zero value is an empty
// document with no pages.
type Document struct {
	Pages []*Page

	// OpenErr, when set, is returned by Engine.Open instead of the
	// document.
	OpenErr error

	// SaveErr, when set, is returned by Save.
	SaveErr error

	// SavedTo records the path of the last successful Save.
	SavedTo string

	Closed bool
}

// NewDocument builds a document from pages.
func NewDocument(pages ...*Page) *Document {
	return &Document{Pages: pages}
}

func (d *Document) NumPages() int { return len(d.Pages) }

func (d *Document) Page(i int) (engine.Page, error) {
	if i < 0 || i >= len(d.Pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", i, len(d.Pages))
	}
	return d.Pages[i], nil
}

func (d *Document) Save(path string) error {
	if d.SaveErr != nil {
		return d.SaveErr
	}
	d.SavedTo = path
	return nil
}

func (d *Document) Close() error {
	d.Closed = true
	return nil
}

// Page is an in-memory page. Size defaults to A4 when left zero.
type Page struct {
	Size   model.Rect
	Spans  []engine.TextSpan
	Annots []model.Annotation

	// Added collects annotations staged through AddAnnotation.
	Added []model.Annotation

	SpanErr  error
	AnnotErr error
}

// NewPage builds an A4-sized page.
func NewPage() *Page {
	return &Page{Size: model.Rect{X1: 595, Y1: 842}}
}

// WithSpan appends a text span with the given top-left corner and size.
func (p *Page) WithSpan(text string, x, y, w, h float64) *Page {
	p.Spans = append(p.Spans, engine.TextSpan{
		Text: text,
		BBox: model.Rect{X0: x, Y0: y, X1: x + w, Y1: y + h},
	})
	return p
}

// WithAnnotation appends an existing annotation.
func (p *Page) WithAnnotation(a model.Annotation) *Page {
	p.Annots = append(p.Annots, a)
	return p
}

func (p *Page) Bounds() model.Rect { return p.Size }

func (p *Page) TextSpans() ([]engine.TextSpan, error) {
	if p.SpanErr != nil {
		return nil, p.SpanErr
	}
	return p.Spans, nil
}

func (p *Page) Annotations() ([]model.Annotation, error) {
	if p.AnnotErr != nil {
		return nil, p.AnnotErr
	}
	return p.Annots, nil
}

func (p *Page) AddAnnotation(a model.Annotation) error {
	p.Added = append(p.Added, a)
	return nil
}

var (
	_ engine.Engine   = (*Engine)(nil)
	_ engine.Document = (*Document)(nil)
	_ engine.Page     = (*Page)(nil)
)
