// Package transfer recreates linked annotations at their corresponding
// anchors in the target document and orchestrates the whole pipeline.
package transfer

import (
	"sort"

	"github.com/google/uuid"

	"github.com/sven-vanh/lieferlisten-agent/engine"
	"github.com/sven-vanh/lieferlisten-agent/model"
	"github.com/sven-vanh/lieferlisten-agent/observability"
)

// Apply reconstructs every linked annotation on the target document
// and returns the number of annotations added. Per-annotation failures
// (invalid page, fewer anchor occurrences than in the source,
// out-of-bounds geometry) produce diagnostics and never abort the
// pass. Existing target content is not touched.
func Apply(links []model.Link, targetAnchors []model.Anchor, target engine.Document, diag *observability.Collector) int {
	// Same-id occurrences in reading order, for ordinal matching.
	sorted := make([]model.Anchor, len(targetAnchors))
	copy(sorted, targetAnchors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})
	byID := make(map[string][]model.Anchor)
	for _, a := range sorted {
		byID[a.ID] = append(byID[a.ID], a)
	}

	added := 0
	for _, link := range links {
		occ := byID[link.AnchorID]
		if len(occ) == 0 {
			// Filtered links always have a target anchor; guard anyway.
			continue
		}

		idx := link.AnchorOrdinal
		if idx >= len(occ) {
			diag.Add(observability.Diagnostic{
				Stage:    "transfer",
				Severity: observability.SeverityInfo,
				Message:  "target has fewer anchor occurrences, using the last one",
				AnchorID: link.AnchorID,
			})
			idx = len(occ) - 1
		}
		anchor := occ[idx]

		page, err := target.Page(anchor.Page)
		if err != nil {
			diag.Add(observability.Diagnostic{
				Stage:    "transfer",
				Severity: observability.SeverityWarn,
				Message:  "invalid target page, skipping annotation",
				AnchorID: link.AnchorID,
				Page:     anchor.Page,
				Kind:     link.Annotation.Kind().String(),
			})
			continue
		}

		// New center = target anchor center + stored offset; every
		// geometry point moves by the same delta, preserving shape.
		base := link.Annotation.Base()
		delta := anchor.Center().Add(link.Offset).Sub(base.Center())
		rebuilt := rebuild(link.Annotation, anchor.Page, delta)

		if clampAnnotation(rebuilt, page.Bounds()) {
			diag.Add(observability.Diagnostic{
				Stage:    "transfer",
				Severity: observability.SeverityWarn,
				Message:  "geometry clipped to page bounds",
				AnchorID: link.AnchorID,
				Page:     anchor.Page,
				Kind:     rebuilt.Kind().String(),
			})
		}

		rebuilt.Base().Name = uuid.NewString()
		if err := page.AddAnnotation(rebuilt); err != nil {
			diag.Add(observability.Diagnostic{
				Stage:    "transfer",
				Severity: observability.SeverityWarn,
				Message:  "adding annotation failed: " + err.Error(),
				AnchorID: link.AnchorID,
				Page:     anchor.Page,
				Kind:     rebuilt.Kind().String(),
			})
			continue
		}
		added++
	}
	return added
}

// rebuild returns a copy of the annotation placed on the given page
// with all geometry translated by delta.
func rebuild(a model.Annotation, page int, delta model.Vector) model.Annotation {
	move := func(b *model.BaseAnnotation) {
		b.Page = page
		b.BBox = b.BBox.Translate(delta)
		b.OrderIndex = 0
	}

	switch v := a.(type) {
	case *model.TextAnnotation:
		out := *v
		move(&out.BaseAnnotation)
		return &out
	case *model.FreeTextAnnotation:
		out := *v
		move(&out.BaseAnnotation)
		return &out
	case *model.InkAnnotation:
		out := *v
		move(&out.BaseAnnotation)
		out.Paths = make([][]model.Point, len(v.Paths))
		for i, path := range v.Paths {
			out.Paths[i] = make([]model.Point, len(path))
			for j, p := range path {
				out.Paths[i][j] = p.Add(delta)
			}
		}
		return &out
	case *model.HighlightAnnotation:
		out := *v
		move(&out.BaseAnnotation)
		out.Quads = translateQuads(v.Quads, delta)
		return &out
	case *model.UnderlineAnnotation:
		out := *v
		move(&out.BaseAnnotation)
		out.Quads = translateQuads(v.Quads, delta)
		return &out
	case *model.StrikeOutAnnotation:
		out := *v
		move(&out.BaseAnnotation)
		out.Quads = translateQuads(v.Quads, delta)
		return &out
	case *model.SquigglyAnnotation:
		out := *v
		move(&out.BaseAnnotation)
		out.Quads = translateQuads(v.Quads, delta)
		return &out
	default:
		out := model.UnknownAnnotation{BaseAnnotation: *a.Base()}
		move(&out.BaseAnnotation)
		return &out
	}
}

func translateQuads(quads []model.Quad, delta model.Vector) []model.Quad {
	out := make([]model.Quad, len(quads))
	for i, q := range quads {
		out[i] = q.Translate(delta)
	}
	return out
}

// clampAnnotation moves every out-of-bounds geometry point to the
// nearest point on the page boundary and reports whether any point
// moved. Fully in-bounds annotations come back unchanged.
func clampAnnotation(a model.Annotation, bounds model.Rect) bool {
	clipped := false
	clamp := func(p model.Point) model.Point {
		c := bounds.Clamp(p)
		if c != p {
			clipped = true
		}
		return c
	}

	base := a.Base()
	base.BBox = clampRect(base.BBox, clamp)

	switch v := a.(type) {
	case *model.InkAnnotation:
		for _, path := range v.Paths {
			for i, p := range path {
				path[i] = clamp(p)
			}
		}
	default:
		quads := model.MarkupQuads(a)
		for i := range quads {
			for j, p := range quads[i] {
				quads[i][j] = clamp(p)
			}
		}
	}
	return clipped
}

func clampRect(r model.Rect, clamp func(model.Point) model.Point) model.Rect {
	tl := clamp(model.Point{X: r.X0, Y: r.Y0})
	br := clamp(model.Point{X: r.X1, Y: r.Y1})
	return model.Rect{X0: tl.X, Y0: tl.Y, X1: br.X, Y1: br.Y}
}
