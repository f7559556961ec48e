package model

import "sort"

// Anchor is one occurrence of a textual marker used as a spatial
// reference point. Anchor ids need not be unique within a document;
// every occurrence is a separate record with its own OrderIndex.
type Anchor struct {
	ID         string
	Page       int
	BBox       Rect
	OrderIndex int
}

// Center returns the midpoint of the anchor's bounding box.
func (a Anchor) Center() Point { return a.BBox.Center() }

// Link associates an annotation with its nearest preceding anchor in
// the same document.
type Link struct {
	Annotation Annotation

	// AnchorID is the id of the linked anchor.
	AnchorID string

	// AnchorOrdinal is the linked anchor's occurrence rank among
	// anchors sharing the same id, counted in reading order. It drives
	// the correspondence policy when an id occurs more than once.
	AnchorOrdinal int

	// Distance is the Euclidean distance between the annotation's and
	// the anchor's centers. It is recorded for diagnostics only and
	// plays no part in anchor selection.
	Distance float64

	// Offset is the annotation's center relative to the anchor's
	// center. It is preserved across the transfer.
	Offset Vector
}

// readingKey is the total-order key for page-bound items: page first,
// then vertical position, then horizontal position of the center.
type readingKey struct {
	page int
	y, x float64
}

func (k readingKey) less(other readingKey) bool {
	if k.page != other.page {
		return k.page < other.page
	}
	if k.y != other.y {
		return k.y < other.y
	}
	return k.x < other.x
}

func anchorKey(a Anchor) readingKey {
	c := a.Center()
	return readingKey{page: a.Page, y: c.Y, x: c.X}
}

func annotationKey(a Annotation) readingKey {
	b := a.Base()
	c := b.Center()
	return readingKey{page: b.Page, y: c.Y, x: c.X}
}

// AssignReadingOrder sorts anchors and annotations by reading order
// and assigns order indices over the merged sequence, so the two
// record types are directly comparable. On equal keys anchors sort
// before annotations.
func AssignReadingOrder(anchors []Anchor, annots []Annotation) {
	sort.SliceStable(anchors, func(i, j int) bool {
		return anchorKey(anchors[i]).less(anchorKey(anchors[j]))
	})
	sort.SliceStable(annots, func(i, j int) bool {
		return annotationKey(annots[i]).less(annotationKey(annots[j]))
	})

	next := 0
	i, j := 0, 0
	for i < len(anchors) || j < len(annots) {
		takeAnchor := j >= len(annots) ||
			(i < len(anchors) && !annotationKey(annots[j]).less(anchorKey(anchors[i])))
		if takeAnchor {
			anchors[i].OrderIndex = next
			i++
		} else {
			annots[j].Base().OrderIndex = next
			j++
		}
		next++
	}
}
