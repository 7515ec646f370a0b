/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tiles

import (
	"comicsviewer/internal/geom"
	"comicsviewer/internal/viewport"
)

// Projection is one tile mapped into widget space: the outline ring plus the
// point where the overlay paints the 1-based label.
type Projection struct {
	ID      int
	Label   int
	Outline []geom.Pt
	Anchor  geom.Pt
}

// Ephemeral is the in-progress gesture state mapped into widget space.
type Ephemeral struct {
	Anchor    *geom.Pt
	Cursor    *geom.Pt
	Pending   []geom.Pt
	Erasing   bool
	EraseIDs  []int
	Snapping  bool
}

// ProjectionCache memoizes widget-space projections of the tile set and the
// gesture state so render callbacks do not redo the affine math every frame.
// Staleness is decided by comparing version counters: the transform version,
// the tile-set version and the gesture version. Invalidate drops everything
// unconditionally; the next access recomputes from ground truth, so stale
// projections are never returned.
type ProjectionCache struct {
	tr *viewport.Transform
	m  *Machine

	tiles       []Projection
	ephemeral   Ephemeral
	haveTiles   bool
	haveGesture bool

	trVersionTiles   uint64
	trVersionGesture uint64
	setVersion       uint64
	gestureVersion   uint64
}

// NewProjectionCache builds a cache over the machine's tile set and the
// transform its machine converts through.
func NewProjectionCache(tr *viewport.Transform, m *Machine) *ProjectionCache {
	return &ProjectionCache{tr: tr, m: m}
}

// Invalidate drops all memoized projections.
func (c *ProjectionCache) Invalidate() {
	c.tiles = nil
	c.ephemeral = Ephemeral{}
	c.haveTiles = false
	c.haveGesture = false
}

// Tiles returns the widget-space projections of all committed tiles in
// display order, recomputing when any input changed.
func (c *ProjectionCache) Tiles() ([]Projection, error) {
	if c.haveTiles && c.trVersionTiles == c.tr.Version() && c.setVersion == c.m.Set().Version() {
		return c.tiles, nil
	}
	af, err := c.tr.Affine()
	if err != nil {
		return nil, err
	}
	set := c.m.Set()
	out := make([]Projection, 0, set.Len())
	for i, t := range set.All() {
		ring := t.Polygon().Ring
		proj := Projection{
			ID:      t.ID(),
			Label:   i + 1,
			Outline: make([]geom.Pt, len(ring)),
			Anchor:  af.Apply(t.Polygon().Centroid()),
		}
		for j, p := range ring {
			proj.Outline[j] = af.Apply(p)
		}
		out = append(out, proj)
	}
	c.tiles = out
	c.haveTiles = true
	c.trVersionTiles = c.tr.Version()
	c.setVersion = set.Version()
	return c.tiles, nil
}

// Gesture returns the widget-space projection of the in-progress gesture.
func (c *ProjectionCache) Gesture() (Ephemeral, error) {
	if c.haveGesture && c.trVersionGesture == c.tr.Version() && c.gestureVersion == c.m.GestureVersion() {
		return c.ephemeral, nil
	}
	af, err := c.tr.Affine()
	if err != nil {
		return Ephemeral{}, err
	}
	e := Ephemeral{
		Erasing:   c.m.State() == StateErase,
		EraseIDs:  c.m.EraseCandidates(),
		Snapping:  c.m.SnapEnabled(),
	}
	if a, ok := c.m.Anchor(); ok {
		p := af.Apply(a)
		e.Anchor = &p
	}
	if cur, ok := c.m.Cursor(); ok {
		p := af.Apply(cur)
		e.Cursor = &p
	}
	if pending := c.m.Pending(); len(pending) > 0 {
		e.Pending = make([]geom.Pt, len(pending))
		for i, p := range pending {
			e.Pending[i] = af.Apply(p)
		}
	}
	c.ephemeral = e
	c.haveGesture = true
	c.gestureVersion = c.m.GestureVersion()
	c.trVersionGesture = c.tr.Version()
	return e, nil
}
