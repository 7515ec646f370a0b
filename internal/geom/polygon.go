/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "math"

// Polygon is a closed ring of vertices. The closing edge from the last vertex
// back to the first is implicit; rings are never stored with a duplicated
// first vertex.
type Polygon struct {
	Ring []Pt `json:"ring"`
}

// PolygonFromRect returns the four-vertex ring of an axis-aligned rectangle.
func PolygonFromRect(r Rect) Polygon {
	c := r.Corners()
	return Polygon{Ring: c[:]}
}

// Valid reports whether the ring has at least three vertices and a non-zero
// area. Degenerate rings are silently discarded by callers, per the forgiving
// freehand input model.
func (pg Polygon) Valid() bool {
	return len(pg.Ring) >= 3 && pg.Area() > Eps
}

// Clone returns a deep copy of the polygon.
func (pg Polygon) Clone() Polygon {
	return Polygon{Ring: append([]Pt(nil), pg.Ring...)}
}

// BBox returns the axis-aligned bounding box of the ring.
func (pg Polygon) BBox() Rect {
	if len(pg.Ring) == 0 {
		return Rect{}
	}
	r := Rect{Min: pg.Ring[0], Max: pg.Ring[0]}
	for _, p := range pg.Ring[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// Area returns the absolute shoelace area of the ring.
func (pg Polygon) Area() float64 {
	n := len(pg.Ring)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a := pg.Ring[i]
		b := pg.Ring[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

// Centroid returns the area centroid of the ring, falling back to the bounding
// box center for degenerate rings. Used for label placement.
func (pg Polygon) Centroid() Pt {
	n := len(pg.Ring)
	if n < 3 {
		return pg.BBox().Center()
	}
	var cx, cy, a float64
	for i := 0; i < n; i++ {
		p := pg.Ring[i]
		q := pg.Ring[(i+1)%n]
		w := p.X*q.Y - q.X*p.Y
		cx += (p.X + q.X) * w
		cy += (p.Y + q.Y) * w
		a += w
	}
	if math.Abs(a) <= Eps {
		return pg.BBox().Center()
	}
	return Pt{X: cx / (3 * a), Y: cy / (3 * a)}
}

// Contains reports whether p lies inside the ring or on its boundary,
// using even-odd ray casting.
func (pg Polygon) Contains(p Pt) bool {
	n := len(pg.Ring)
	if n < 3 {
		return false
	}
	if d, _ := pg.NearestBoundary(p); d <= Eps {
		return true
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a := pg.Ring[i]
		b := pg.Ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// ContainedIn reports whether the polygon's interior lies fully inside the
// axis-aligned rectangle r. Since r is convex this holds exactly when every
// vertex does.
func (pg Polygon) ContainedIn(r Rect) bool {
	if len(pg.Ring) == 0 {
		return false
	}
	for _, p := range pg.Ring {
		if !r.Contains(p) {
			return false
		}
	}
	return true
}

// ContainsRect reports whether the axis-aligned rectangle r lies fully inside
// the polygon. All four corners must be inside and no polygon edge may cross
// the rectangle's edges, which also covers concave rings.
func (pg Polygon) ContainsRect(r Rect) bool {
	for _, c := range r.Corners() {
		if !pg.Contains(c) {
			return false
		}
	}
	rc := r.Corners()
	n := len(pg.Ring)
	for i := 0; i < n; i++ {
		a := pg.Ring[i]
		b := pg.Ring[(i+1)%n]
		for j := 0; j < 4; j++ {
			c := rc[j]
			d := rc[(j+1)%4]
			if SegmentsIntersect(a, b, c, d) {
				return false
			}
		}
	}
	return true
}

// NearestBoundary returns the distance from p to the ring boundary and the
// boundary point realizing it.
func (pg Polygon) NearestBoundary(p Pt) (float64, Pt) {
	n := len(pg.Ring)
	if n == 0 {
		return math.Inf(1), Pt{}
	}
	best := math.Inf(1)
	bestPt := pg.Ring[0]
	for i := 0; i < n; i++ {
		a := pg.Ring[i]
		b := pg.Ring[(i+1)%n]
		q := NearestOnSegment(p, a, b)
		if d := p.Dist(q); d < best {
			best = d
			bestPt = q
		}
	}
	return best, bestPt
}
