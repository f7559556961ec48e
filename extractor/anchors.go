// Package extractor derives anchor and annotation records from an open
// document. Both record types are snapshots of the document's current
// state; they carry no reference back to the engine.
package extractor

import (
	"fmt"
	"regexp"

	"golang.org/x/text/unicode/norm"

	"github.com/sven-vanh/lieferlisten-agent/engine"
	"github.com/sven-vanh/lieferlisten-agent/model"
	"github.com/sven-vanh/lieferlisten-agent/observability"
)

// DefaultAnchorPattern matches order ids: the letter "M" followed by
// one or more digits, delimited by word boundaries.
var DefaultAnchorPattern = regexp.MustCompile(`\bM\d+\b`)

// Anchors scans every page's text for anchor ids and returns the
// matches as anchor records in reading order. Span text is
// NFKC-normalized before matching so fullwidth or ligature forms of
// the id still match. A document without any anchors yields an empty
// slice, not an error.
func Anchors(doc engine.Document, pattern *regexp.Regexp, diag *observability.Collector) ([]model.Anchor, error) {
	if pattern == nil {
		pattern = DefaultAnchorPattern
	}

	var anchors []model.Anchor
	for pageNo := 0; pageNo < doc.NumPages(); pageNo++ {
		page, err := doc.Page(pageNo)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNo, err)
		}
		spans, err := page.TextSpans()
		if err != nil {
			return nil, fmt.Errorf("page %d: extract text: %w", pageNo, err)
		}
		for _, span := range spans {
			text := norm.NFKC.String(span.Text)
			for _, m := range pattern.FindAllStringIndex(text, -1) {
				anchors = append(anchors, model.Anchor{
					ID:   text[m[0]:m[1]],
					Page: pageNo,
					BBox: matchBBox(span.BBox, text, m[0], m[1]),
				})
			}
		}
	}

	model.AssignReadingOrder(anchors, nil)
	diag.Logger().Debug("anchors extracted", observability.Int("count", len(anchors)))
	return anchors, nil
}

// matchBBox estimates the bounding box of text[start:end] inside the
// span by assuming uniform character widths. Offsets are byte
// positions; the estimate divides the span proportionally by rune
// count.
func matchBBox(span model.Rect, text string, start, end int) model.Rect {
	total := len([]rune(text))
	if total == 0 {
		return span
	}
	from := len([]rune(text[:start]))
	to := len([]rune(text[:end]))
	w := span.Width() / float64(total)
	return model.Rect{
		X0: span.X0 + float64(from)*w,
		Y0: span.Y0,
		X1: span.X0 + float64(to)*w,
		Y1: span.Y1,
	}
}
