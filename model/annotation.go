package model

// Kind identifies an annotation variant. The set is closed: adding a
// new kind means adding a variant type and a reconstruction rule, not
// branching on subtype strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindFreeText
	KindInk
	KindHighlight
	KindUnderline
	KindStrikeOut
	KindSquiggly
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindFreeText:
		return "FreeText"
	case KindInk:
		return "Ink"
	case KindHighlight:
		return "Highlight"
	case KindUnderline:
		return "Underline"
	case KindStrikeOut:
		return "StrikeOut"
	case KindSquiggly:
		return "Squiggly"
	default:
		return "Unknown"
	}
}

// Annotation is a markup object extracted from a document page.
type Annotation interface {
	Kind() Kind
	Base() *BaseAnnotation
}

// BaseAnnotation provides the fields shared by all annotation variants.
type BaseAnnotation struct {
	Page     int
	BBox     Rect
	Contents string
	Author   string

	// Name is the annotation's unique name within the document
	// (the /NM entry). Empty for extracted annotations that carry
	// none; the transfer engine assigns a fresh one to every
	// annotation it creates.
	Name string

	// OrderIndex is the annotation's rank in the merged reading order
	// of anchors and annotations within one document.
	OrderIndex int
}

// Center returns the midpoint of the annotation's bounding box.
func (a *BaseAnnotation) Center() Point { return a.BBox.Center() }

func (a *BaseAnnotation) Base() *BaseAnnotation { return a }

// TextAnnotation is a sticky note anchored at a single point.
type TextAnnotation struct {
	BaseAnnotation
	Icon string
}

func (*TextAnnotation) Kind() Kind { return KindText }

// FreeTextAnnotation displays its contents directly on the page.
type FreeTextAnnotation struct {
	BaseAnnotation
}

func (*FreeTextAnnotation) Kind() Kind { return KindFreeText }

// InkAnnotation is a freehand drawing made of one or more stroked
// paths.
type InkAnnotation struct {
	BaseAnnotation
	Paths [][]Point
}

func (*InkAnnotation) Kind() Kind { return KindInk }

// HighlightAnnotation marks a span of text with quadrilaterals.
type HighlightAnnotation struct {
	BaseAnnotation
	Quads []Quad
}

func (*HighlightAnnotation) Kind() Kind { return KindHighlight }

// UnderlineAnnotation underlines a span of text.
type UnderlineAnnotation struct {
	BaseAnnotation
	Quads []Quad
}

func (*UnderlineAnnotation) Kind() Kind { return KindUnderline }

// StrikeOutAnnotation strikes through a span of text.
type StrikeOutAnnotation struct {
	BaseAnnotation
	Quads []Quad
}

func (*StrikeOutAnnotation) Kind() Kind { return KindStrikeOut }

// SquigglyAnnotation marks a span of text with a jagged underline.
type SquigglyAnnotation struct {
	BaseAnnotation
	Quads []Quad
}

func (*SquigglyAnnotation) Kind() Kind { return KindSquiggly }

// UnknownAnnotation stands in for annotation subtypes outside the
// supported set. The extractor skips these with a diagnostic.
type UnknownAnnotation struct {
	BaseAnnotation
	Subtype string
}

func (*UnknownAnnotation) Kind() Kind { return KindUnknown }

// MarkupQuads returns the quad list of a text markup annotation, or
// nil for other variants.
func MarkupQuads(a Annotation) []Quad {
	switch v := a.(type) {
	case *HighlightAnnotation:
		return v.Quads
	case *UnderlineAnnotation:
		return v.Quads
	case *StrikeOutAnnotation:
		return v.Quads
	case *SquigglyAnnotation:
		return v.Quads
	default:
		return nil
	}
}
