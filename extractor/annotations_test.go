package extractor

import (
	"testing"

	"github.com/sven-vanh/lieferlisten-agent/engine/enginetest"
	"github.com/sven-vanh/lieferlisten-agent/model"
	"github.com/sven-vanh/lieferlisten-agent/observability"
)

func TestAnnotationsSkipsUnsupportedKinds(t *testing.T) {
	supported := &model.HighlightAnnotation{
		BaseAnnotation: model.BaseAnnotation{Page: 0, BBox: model.Rect{X0: 10, Y0: 10, X1: 50, Y1: 20}},
	}
	unsupported := &model.UnknownAnnotation{
		BaseAnnotation: model.BaseAnnotation{Page: 0, BBox: model.Rect{X0: 10, Y0: 40, X1: 50, Y1: 60}},
		Subtype:        "Polygon",
	}
	doc := enginetest.NewDocument(
		enginetest.NewPage().WithAnnotation(supported).WithAnnotation(unsupported),
	)

	diag := observability.NewCollector(nil)
	annots, err := Annotations(doc, diag)
	if err != nil {
		t.Fatalf("Annotations() error: %v", err)
	}

	if len(annots) != 1 {
		t.Fatalf("got %d annotations, want 1", len(annots))
	}
	if annots[0].Kind() != model.KindHighlight {
		t.Fatalf("kept annotation kind = %v, want Highlight", annots[0].Kind())
	}
	if diag.Count() != 1 {
		t.Fatalf("got %d diagnostics, want 1", diag.Count())
	}
	if d := diag.Records()[0]; d.Kind != "Polygon" {
		t.Fatalf("diagnostic kind = %q, want Polygon", d.Kind)
	}
}

func TestAnnotationsReportsUndecodableEntries(t *testing.T) {
	// The engine hands entries it could not decode to the extractor as
	// UnknownAnnotation placeholders; each must surface as a
	// diagnostic rather than vanish.
	broken := &model.UnknownAnnotation{
		BaseAnnotation: model.BaseAnnotation{Page: 0},
		Subtype:        "malformed",
	}
	doc := enginetest.NewDocument(enginetest.NewPage().WithAnnotation(broken))

	diag := observability.NewCollector(nil)
	annots, err := Annotations(doc, diag)
	if err != nil {
		t.Fatalf("Annotations() error: %v", err)
	}
	if len(annots) != 0 {
		t.Fatalf("got %d annotations, want 0", len(annots))
	}
	if diag.Count() != 1 {
		t.Fatalf("got %d diagnostics, want 1", diag.Count())
	}
	if d := diag.Records()[0]; d.Stage != "extract" || d.Kind != "malformed" {
		t.Fatalf("diagnostic = %+v, want stage extract, kind malformed", d)
	}
}

func TestAnnotationsMultiplePages(t *testing.T) {
	doc := enginetest.NewDocument(
		enginetest.NewPage().WithAnnotation(&model.TextAnnotation{
			BaseAnnotation: model.BaseAnnotation{Page: 0, BBox: model.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}},
		}),
		enginetest.NewPage().WithAnnotation(&model.InkAnnotation{
			BaseAnnotation: model.BaseAnnotation{Page: 1, BBox: model.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}},
			Paths:          [][]model.Point{{{X: 1, Y: 1}, {X: 5, Y: 5}}},
		}),
	)

	annots, err := Annotations(doc, observability.NewCollector(nil))
	if err != nil {
		t.Fatalf("Annotations() error: %v", err)
	}
	if len(annots) != 2 {
		t.Fatalf("got %d annotations, want 2", len(annots))
	}
}
