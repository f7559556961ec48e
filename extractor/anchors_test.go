package extractor

import (
	"regexp"
	"testing"

	"github.com/sven-vanh/lieferlisten-agent/engine/enginetest"
	"github.com/sven-vanh/lieferlisten-agent/observability"
)

func TestAnchorsMatchesReferenceScan(t *testing.T) {
	texts := []string{
		"Lieferliste M100 Position 1",
		"M101 und M102 auf einer Zeile",
		"kein Treffer in AM103 oder M10a4",
		"M105",
	}
	doc := enginetest.NewDocument(enginetest.NewPage())
	want := 0
	for i, s := range texts {
		doc.Pages[0].WithSpan(s, 10, float64(20*i), 200, 12)
		want += len(regexp.MustCompile(`\bM\d+\b`).FindAllString(s, -1))
	}

	anchors, err := Anchors(doc, nil, observability.NewCollector(nil))
	if err != nil {
		t.Fatalf("Anchors() error: %v", err)
	}
	if len(anchors) != want {
		t.Fatalf("Anchors() found %d, reference scan found %d", len(anchors), want)
	}
}

func TestAnchorsReadingOrder(t *testing.T) {
	page0 := enginetest.NewPage().
		WithSpan("M20", 10, 500, 30, 12). // low on the page
		WithSpan("M10", 10, 50, 30, 12)   // near the top
	page1 := enginetest.NewPage().
		WithSpan("M30 M40", 10, 50, 70, 12)
	doc := enginetest.NewDocument(page0, page1)

	anchors, err := Anchors(doc, nil, observability.NewCollector(nil))
	if err != nil {
		t.Fatalf("Anchors() error: %v", err)
	}

	wantIDs := []string{"M10", "M20", "M30", "M40"}
	if len(anchors) != len(wantIDs) {
		t.Fatalf("got %d anchors, want %d", len(anchors), len(wantIDs))
	}
	for i, want := range wantIDs {
		if anchors[i].ID != want {
			t.Errorf("anchors[%d].ID = %q, want %q", i, anchors[i].ID, want)
		}
		if anchors[i].OrderIndex != i {
			t.Errorf("anchors[%d].OrderIndex = %d, want %d", i, anchors[i].OrderIndex, i)
		}
	}
}

func TestAnchorsBBoxEstimate(t *testing.T) {
	// Span of 8 characters, 80 units wide: each character covers 10
	// units. "M100" occupies characters 4 through 7.
	doc := enginetest.NewDocument(
		enginetest.NewPage().WithSpan("Nr: M100", 100, 40, 80, 12),
	)

	anchors, err := Anchors(doc, nil, observability.NewCollector(nil))
	if err != nil {
		t.Fatalf("Anchors() error: %v", err)
	}
	if len(anchors) != 1 {
		t.Fatalf("got %d anchors, want 1", len(anchors))
	}
	bbox := anchors[0].BBox
	if bbox.X0 != 140 || bbox.X1 != 180 {
		t.Fatalf("bbox x = [%v, %v], want [140, 180]", bbox.X0, bbox.X1)
	}
	if bbox.Y0 != 40 || bbox.Y1 != 52 {
		t.Fatalf("bbox y = [%v, %v], want [40, 52]", bbox.Y0, bbox.Y1)
	}
}

func TestAnchorsNormalizesText(t *testing.T) {
	// Fullwidth "М" stays foreign, but fullwidth digits fold to ASCII
	// under NFKC, so "M１２３" matches as M123.
	doc := enginetest.NewDocument(
		enginetest.NewPage().WithSpan("M１２３", 10, 10, 40, 12),
	)

	anchors, err := Anchors(doc, nil, observability.NewCollector(nil))
	if err != nil {
		t.Fatalf("Anchors() error: %v", err)
	}
	if len(anchors) != 1 || anchors[0].ID != "M123" {
		t.Fatalf("got %v, want one anchor M123", anchors)
	}
}

func TestAnchorsDuplicateIDsSamePage(t *testing.T) {
	doc := enginetest.NewDocument(
		enginetest.NewPage().
			WithSpan("M100", 10, 10, 40, 12).
			WithSpan("M100", 10, 200, 40, 12),
	)

	anchors, err := Anchors(doc, nil, observability.NewCollector(nil))
	if err != nil {
		t.Fatalf("Anchors() error: %v", err)
	}
	if len(anchors) != 2 {
		t.Fatalf("got %d anchors, want 2 independent records", len(anchors))
	}
	if anchors[0].OrderIndex == anchors[1].OrderIndex {
		t.Fatalf("duplicate anchors share order index %d", anchors[0].OrderIndex)
	}
}

func TestAnchorsCustomPattern(t *testing.T) {
	doc := enginetest.NewDocument(
		enginetest.NewPage().WithSpan("REF-42 and M100", 10, 10, 150, 12),
	)

	anchors, err := Anchors(doc, regexp.MustCompile(`\bREF-\d+\b`), observability.NewCollector(nil))
	if err != nil {
		t.Fatalf("Anchors() error: %v", err)
	}
	if len(anchors) != 1 || anchors[0].ID != "REF-42" {
		t.Fatalf("got %v, want one anchor REF-42", anchors)
	}
}

func TestAnchorsEmptyDocument(t *testing.T) {
	doc := enginetest.NewDocument(enginetest.NewPage())

	anchors, err := Anchors(doc, nil, observability.NewCollector(nil))
	if err != nil {
		t.Fatalf("Anchors() error: %v", err)
	}
	if len(anchors) != 0 {
		t.Fatalf("got %d anchors from empty document", len(anchors))
	}
}
