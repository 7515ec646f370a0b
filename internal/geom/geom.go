/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom provides the 2D primitives shared by the viewport transform,
// the annotation engine and the spatial index. All coordinates are float64
// with origin at the top-left corner, x growing right and y growing down.
package geom

import "math"

// Eps is the tolerance used by coordinate comparisons throughout the viewer.
const Eps = 1e-9

// Pt is a 2D point or vector.
type Pt struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// P is shorthand for constructing a point.
func P(x, y float64) Pt { return Pt{X: x, Y: y} }

// Add returns p + q.
func (p Pt) Add(q Pt) Pt { return Pt{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Pt) Sub(q Pt) Pt { return Pt{X: p.X - q.X, Y: p.Y - q.Y} }

// Mul returns the point scaled component-wise by a scalar.
func (p Pt) Mul(f float64) Pt { return Pt{X: p.X * f, Y: p.Y * f} }

// Dist returns the Euclidean distance to q.
func (p Pt) Dist(q Pt) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Hypot(dx, dy)
}

// Close reports whether p and q coincide within tol.
func (p Pt) Close(q Pt, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Size is a width/height extent in pixels.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Aspect returns width over height. Height of zero yields +Inf.
func (s Size) Aspect() float64 { return s.W / s.H }

// Flip returns the extent with width and height swapped.
func (s Size) Flip() Size { return Size{W: s.H, H: s.W} }

// Empty reports whether either dimension is not strictly positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is an axis-aligned rectangle spanned by its min and max corners.
// The corners are normalized on construction so Min is component-wise <= Max.
type Rect struct {
	Min Pt `json:"min"`
	Max Pt `json:"max"`
}

// RectFromCorners builds a rect from two arbitrary opposite corners.
func RectFromCorners(a, b Pt) Rect {
	return Rect{
		Min: Pt{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Pt{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// RectFromSize builds the rect [0,W]x[0,H].
func RectFromSize(s Size) Rect {
	return Rect{Max: Pt{X: s.W, Y: s.H}}
}

// W returns the rectangle width.
func (r Rect) W() float64 { return r.Max.X - r.Min.X }

// H returns the rectangle height.
func (r Rect) H() float64 { return r.Max.Y - r.Min.Y }

// Area returns the rectangle area.
func (r Rect) Area() float64 { return r.W() * r.H() }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Pt {
	return Pt{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside the rectangle, boundary included.
func (r Rect) Contains(p Pt) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ContainsRect reports whether o lies fully inside r, boundary included.
func (r Rect) ContainsRect(o Rect) bool {
	return r.Contains(o.Min) && r.Contains(o.Max)
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && r.Max.X >= o.Min.X &&
		r.Min.Y <= o.Max.Y && r.Max.Y >= o.Min.Y
}

// Clip returns p clamped component-wise into the rectangle.
func (r Rect) Clip(p Pt) Pt {
	return Pt{
		X: math.Min(math.Max(p.X, r.Min.X), r.Max.X),
		Y: math.Min(math.Max(p.Y, r.Min.Y), r.Max.Y),
	}
}

// Corners returns the four corners in clockwise order starting at Min.
func (r Rect) Corners() [4]Pt {
	return [4]Pt{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// NearestOnSegment returns the point on segment ab closest to p.
func NearestOnSegment(p, a, b Pt) Pt {
	ab := b.Sub(a)
	den := ab.X*ab.X + ab.Y*ab.Y
	if den <= Eps {
		return a
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / den
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Mul(t))
}

// SegmentsIntersect reports whether segments ab and cd share a point.
// Collinear overlapping segments count as intersecting.
func SegmentsIntersect(a, b, c, d Pt) bool {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(c, d, a):
		return true
	case d2 == 0 && onSegment(c, d, b):
		return true
	case d3 == 0 && onSegment(a, b, c):
		return true
	case d4 == 0 && onSegment(a, b, d):
		return true
	}
	return false
}

func cross(a, b, p Pt) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func onSegment(a, b, p Pt) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}
