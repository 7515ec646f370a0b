/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package spatial maintains the queryable index over the current tile set.
// The index is a derived cache: it is discarded and rebuilt from scratch on
// every tile-set mutation and is never authoritative. Page annotations are
// small sets, so each entry keeps its bounding box for pre-filtering and
// queries scan the entries; rebuilds stay cheap and incremental maintenance
// is unnecessary.
package spatial

import (
	"math"

	"comicsviewer/internal/geom"
)

// Entry is one indexed tile. ID is the tile's stable arena id, so query
// results map back to tile-set positions by identity even when two tiles are
// geometrically equal.
type Entry struct {
	ID   int
	Poly geom.Polygon
}

type indexed struct {
	id   int
	poly geom.Polygon
	bbox geom.Rect
	area float64
}

// Index answers containment queries over tile interiors and nearest-point
// queries over tile boundaries.
type Index struct {
	entries []indexed
}

// New returns an empty index.
func New() *Index { return &Index{} }

// Len returns the number of indexed tiles.
func (ix *Index) Len() int { return len(ix.entries) }

// Rebuild replaces the whole index with the given entries.
func (ix *Index) Rebuild(entries []Entry) {
	ix.entries = ix.entries[:0]
	for _, e := range entries {
		ix.entries = append(ix.entries, indexed{
			id:   e.ID,
			poly: e.Poly,
			bbox: e.Poly.BBox(),
			area: e.Poly.Area(),
		})
	}
}

// ContainedBy returns the ids of all tiles whose interior lies fully inside
// the query rectangle, in index order.
func (ix *Index) ContainedBy(r geom.Rect) []int {
	var ids []int
	for _, e := range ix.entries {
		if !r.ContainsRect(e.bbox) {
			continue
		}
		if e.poly.ContainedIn(r) {
			ids = append(ids, e.id)
		}
	}
	return ids
}

// SmallestContaining returns the id of the smallest-area tile whose interior
// fully contains the query rectangle. When two enclosing tiles have exactly
// equal area the first one indexed wins; the order is not otherwise defined.
func (ix *Index) SmallestContaining(r geom.Rect) (int, bool) {
	best := -1
	bestArea := math.Inf(1)
	for _, e := range ix.entries {
		if !e.bbox.ContainsRect(r) {
			continue
		}
		if e.area >= bestArea {
			continue
		}
		if e.poly.ContainsRect(r) {
			best = e.id
			bestArea = e.area
		}
	}
	return best, best >= 0
}

// Intersecting returns the ids of all tiles whose bounding box overlaps the
// query rectangle, in index order.
func (ix *Index) Intersecting(r geom.Rect) []int {
	var ids []int
	for _, e := range ix.entries {
		if e.bbox.Intersects(r) {
			ids = append(ids, e.id)
		}
	}
	return ids
}

// NearestBoundary returns the tile boundary point closest to p across all
// indexed tiles, together with the owning tile id and the distance.
func (ix *Index) NearestBoundary(p geom.Pt) (id int, q geom.Pt, dist float64, ok bool) {
	dist = math.Inf(1)
	id = -1
	for _, e := range ix.entries {
		d, bp := e.poly.NearestBoundary(p)
		if d < dist {
			dist = d
			q = bp
			id = e.id
		}
	}
	return id, q, dist, id >= 0
}
