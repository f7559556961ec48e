package model

import "math"

// Point is a position in model space. Model space is top-down: the
// origin sits at the top-left corner of a page and Y grows towards the
// bottom, so reading order corresponds to ascending coordinates.
type Point struct {
	X, Y float64
}

// Vector is a displacement between two points.
type Vector = Point

// Add returns the point translated by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the displacement from other to p.
func (p Point) Sub(other Point) Vector {
	return Vector{X: p.X - other.X, Y: p.Y - other.Y}
}

// Distance returns the Euclidean distance to other.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle in model space.
// X0 <= X1 and Y0 <= Y1; Y0 is the top edge.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.X0 + r.X1) / 2, Y: (r.Y0 + r.Y1) / 2}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Contains reports whether p lies inside the rectangle (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X0 && p.X <= r.X1 && p.Y >= r.Y0 && p.Y <= r.Y1
}

// Intersect returns the overlap of the two rectangles. The result is
// empty if they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	out := Rect{
		X0: math.Max(r.X0, other.X0),
		Y0: math.Max(r.Y0, other.Y0),
		X1: math.Min(r.X1, other.X1),
		Y1: math.Min(r.Y1, other.Y1),
	}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Translate returns the rectangle shifted by v.
func (r Rect) Translate(v Vector) Rect {
	return Rect{X0: r.X0 + v.X, Y0: r.Y0 + v.Y, X1: r.X1 + v.X, Y1: r.Y1 + v.Y}
}

// Clamp returns the nearest point to p that lies inside the rectangle.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, r.X0), r.X1),
		Y: math.Min(math.Max(p.Y, r.Y0), r.Y1),
	}
}

// Quad is a quadrilateral given by its four corners. For text markup
// the corners run top-left, top-right, bottom-left, bottom-right,
// matching the PDF QuadPoints convention after conversion to model
// space.
type Quad [4]Point

// Translate returns the quad shifted by v.
func (q Quad) Translate(v Vector) Quad {
	var out Quad
	for i, p := range q {
		out[i] = p.Add(v)
	}
	return out
}

// BBox returns the bounding rectangle of the quad.
func (q Quad) BBox() Rect {
	r := Rect{X0: q[0].X, Y0: q[0].Y, X1: q[0].X, Y1: q[0].Y}
	for _, p := range q[1:] {
		r.X0 = math.Min(r.X0, p.X)
		r.Y0 = math.Min(r.Y0, p.Y)
		r.X1 = math.Max(r.X1, p.X)
		r.Y1 = math.Max(r.Y1, p.Y)
	}
	return r
}
