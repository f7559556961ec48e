// Package linker associates annotations with anchors and restricts the
// resulting links to anchors present in both documents.
package linker

import (
	"sort"

	"github.com/sven-vanh/lieferlisten-agent/model"
	"github.com/sven-vanh/lieferlisten-agent/observability"
)

// Link pairs every annotation with its nearest preceding anchor in
// reading order. Annotations and anchors must share one order-index
// space (model.AssignReadingOrder over the merged sequence). Euclidean
// distance between the two centers is recorded on the link for
// diagnostics; it never influences which anchor is chosen. Annotations
// that precede every anchor are dropped with a diagnostic.
func Link(annots []model.Annotation, anchors []model.Anchor, diag *observability.Collector) []model.Link {
	sorted := make([]model.Anchor, len(anchors))
	copy(sorted, anchors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})

	// ordinal[i] is sorted[i]'s occurrence rank among anchors sharing
	// its id, in reading order.
	ordinal := make([]int, len(sorted))
	seen := make(map[string]int)
	for i, a := range sorted {
		ordinal[i] = seen[a.ID]
		seen[a.ID]++
	}

	var links []model.Link
	for _, annot := range annots {
		base := annot.Base()

		// Latest anchor strictly before the annotation.
		i := sort.Search(len(sorted), func(i int) bool {
			return sorted[i].OrderIndex > base.OrderIndex
		}) - 1
		if i < 0 {
			diag.Add(observability.Diagnostic{
				Stage:    "link",
				Severity: observability.SeverityWarn,
				Message:  "annotation precedes every anchor, dropping",
				Page:     base.Page,
				Kind:     annot.Kind().String(),
			})
			continue
		}

		anchor := sorted[i]
		l := model.Link{
			Annotation:    annot,
			AnchorID:      anchor.ID,
			AnchorOrdinal: ordinal[i],
			Distance:      base.Center().Distance(anchor.Center()),
			Offset:        base.Center().Sub(anchor.Center()),
		}
		diag.Logger().Debug("linked annotation to anchor",
			observability.String("anchor", l.AnchorID),
			observability.Int("page", base.Page),
			observability.String("kind", annot.Kind().String()),
			observability.Float64("distance", l.Distance),
		)
		links = append(links, l)
	}
	return links
}

// FilterCorresponding keeps the links whose anchor id occurs in the
// target document. Dropped links produce a diagnostic naming the
// unmatched id. Pure set membership; no geometry.
func FilterCorresponding(links []model.Link, targetAnchors []model.Anchor, diag *observability.Collector) []model.Link {
	present := make(map[string]bool, len(targetAnchors))
	for _, a := range targetAnchors {
		present[a.ID] = true
	}

	var kept []model.Link
	for _, l := range links {
		if !present[l.AnchorID] {
			diag.Add(observability.Diagnostic{
				Stage:    "filter",
				Severity: observability.SeverityWarn,
				Message:  "anchor not present in target, dropping link",
				AnchorID: l.AnchorID,
				Page:     l.Annotation.Base().Page,
				Kind:     l.Annotation.Kind().String(),
			})
			continue
		}
		kept = append(kept, l)
	}
	return kept
}
