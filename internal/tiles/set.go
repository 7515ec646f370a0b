/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tiles implements the polygon-annotation engine for one open page:
// the tile arena, the pen/eraser interaction state machine with snapping, and
// the widget-space projection cache consumed by the overlay renderer.
package tiles

import (
	"comicsviewer/internal/geom"
	"comicsviewer/internal/spatial"
)

// Tile is one committed annotation polygon. Tiles are immutable once created;
// erasing removes them and re-drawing creates a fresh tile. The id is a
// stable arena index never reused within a page session, so caches and index
// entries refer to tiles by identity rather than by geometry.
type Tile struct {
	id   int
	poly geom.Polygon
}

// ID returns the stable arena id.
func (t Tile) ID() int { return t.id }

// Polygon returns the tile outline in image space.
func (t Tile) Polygon() geom.Polygon { return t.poly }

// Set owns the ordered tile sequence of the open page. Insertion order is
// display order; labels are the 1-based sequence positions. The version
// counter increments on every mutation and is how derived caches detect
// staleness. Dirty tracks gesture-driven mutations only, not wholesale
// replacement from saved data.
type Set struct {
	tiles   []Tile
	nextID  int
	version uint64
	dirty   bool
}

// NewSet returns an empty tile set.
func NewSet() *Set { return &Set{} }

// Len returns the number of tiles.
func (s *Set) Len() int { return len(s.tiles) }

// At returns the tile at sequence position i.
func (s *Set) At(i int) Tile { return s.tiles[i] }

// All returns the tiles in display order. The slice is shared; callers must
// not mutate it.
func (s *Set) All() []Tile { return s.tiles }

// Label returns the 1-based display label of the tile with the given id, or
// 0 when the id is not present.
func (s *Set) Label(id int) int {
	for i, t := range s.tiles {
		if t.id == id {
			return i + 1
		}
	}
	return 0
}

// Version returns the mutation counter.
func (s *Set) Version() uint64 { return s.version }

// Dirty reports whether the set has been mutated by a gesture since it was
// last replaced or cleared. The host uses it to decide whether to persist.
func (s *Set) Dirty() bool { return s.dirty }

// Append commits a new tile from a validated polygon and marks the set dirty.
func (s *Set) Append(poly geom.Polygon) Tile {
	t := Tile{id: s.nextID, poly: poly.Clone()}
	s.nextID++
	s.tiles = append(s.tiles, t)
	s.dirty = true
	s.version++
	return t
}

// Remove deletes the tiles with the given ids, keeping order, and returns how
// many were removed. A non-zero removal marks the set dirty.
func (s *Set) Remove(ids []int) int {
	if len(ids) == 0 {
		return 0
	}
	doomed := make(map[int]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}
	kept := s.tiles[:0]
	removed := 0
	for _, t := range s.tiles {
		if doomed[t.id] {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.tiles = kept
	if removed > 0 {
		s.dirty = true
		s.version++
	}
	return removed
}

// Replace installs a wholesale new tile set, e.g. annotations restored from
// storage. Invalid polygons are dropped silently. The dirty flag is cleared:
// restored data has nothing to persist.
func (s *Set) Replace(polys []geom.Polygon) {
	s.tiles = s.tiles[:0]
	for _, pg := range polys {
		if !pg.Valid() {
			continue
		}
		s.tiles = append(s.tiles, Tile{id: s.nextID, poly: pg.Clone()})
		s.nextID++
	}
	s.dirty = false
	s.version++
}

// Clear drops all tiles and the dirty flag, for page switches.
func (s *Set) Clear() {
	s.tiles = s.tiles[:0]
	s.dirty = false
	s.version++
}

// Polygons returns a deep copy of all tile outlines in display order, for
// the persistence sink.
func (s *Set) Polygons() []geom.Polygon {
	out := make([]geom.Polygon, 0, len(s.tiles))
	for _, t := range s.tiles {
		out = append(out, t.poly.Clone())
	}
	return out
}

// Entries returns the spatial index input for the current tiles.
func (s *Set) Entries() []spatial.Entry {
	out := make([]spatial.Entry, 0, len(s.tiles))
	for _, t := range s.tiles {
		out = append(out, spatial.Entry{ID: t.id, Poly: t.poly})
	}
	return out
}
