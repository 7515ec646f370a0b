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
	"comicsviewer/internal/spatial"
	"comicsviewer/internal/viewport"
)

// State is the interaction mode of the annotation machine.
type State int

const (
	// StateRectangle draws axis-aligned rectangle tiles from two corners.
	StateRectangle State = iota
	// StatePointPolygon collects vertices and closes the ring when a click
	// lands back on the first vertex.
	StatePointPolygon
	// StateErase is transient: it remembers the state it was entered from
	// and restores it when the erase gesture ends.
	StateErase
)

func (s State) String() string {
	switch s {
	case StateRectangle:
		return "rectangle"
	case StatePointPolygon:
		return "point-polygon"
	case StateErase:
		return "erase"
	default:
		return "unknown"
	}
}

// Config carries the interaction thresholds, all in on-screen widget pixels.
// They are divided by the current zoom before use so the feel is constant
// regardless of magnification.
type Config struct {
	// SnapThresholdPx is the magnet radius of the snap targets.
	SnapThresholdPx float64
	// CloseThresholdPx is the radius around the first polygon vertex within
	// which a click closes the ring.
	CloseThresholdPx float64
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{SnapThresholdPx: 20, CloseThresholdPx: 20}
}

// Machine drives tile creation and erasure from pre-classified pointer
// events. It exclusively owns the tile set and the spatial index for the open
// page; every event runs to completion, including index rebuild, before the
// next event or a render callback observes state. Single-threaded by
// contract, like the rest of the view core.
type Machine struct {
	cfg   Config
	tr    *viewport.Transform
	set   *Set
	index *spatial.Index

	state State
	prior State // state to restore when erase ends

	snap    bool
	anchor  *geom.Pt  // pending rectangle / erase selection corner, image space
	pending []geom.Pt // pending polygon vertices, image space
	cursor  *geom.Pt  // live pointer position, image space, unsnapped

	gestureVersion uint64
	redraw         func()
	onCommit       func() // fires after any tile-set mutation from a gesture
}

// NewMachine builds a machine over the given transform.
func NewMachine(cfg Config, tr *viewport.Transform) *Machine {
	return &Machine{
		cfg:   cfg,
		tr:    tr,
		set:   NewSet(),
		index: spatial.New(),
		state: StateRectangle,
		prior: StateRectangle,
	}
}

// SetRedraw registers the hook queued after every observable change.
func (m *Machine) SetRedraw(fn func()) { m.redraw = fn }

// SetOnCommit registers a hook fired after every gesture-driven tile-set
// mutation, once the index is rebuilt. The view uses it for undo snapshots.
func (m *Machine) SetOnCommit(fn func()) { m.onCommit = fn }

// Set returns the tile set owned by the machine.
func (m *Machine) Set() *Set { return m.set }

// Index returns the spatial index owned by the machine.
func (m *Machine) Index() *spatial.Index { return m.index }

// State returns the current interaction state.
func (m *Machine) State() State { return m.state }

// SnapEnabled reports whether snapping is on.
func (m *Machine) SnapEnabled() bool { return m.snap }

// Anchor returns the pending rectangle or erase-selection corner.
func (m *Machine) Anchor() (geom.Pt, bool) {
	if m.anchor == nil {
		return geom.Pt{}, false
	}
	return *m.anchor, true
}

// Cursor returns the live pointer position in image space.
func (m *Machine) Cursor() (geom.Pt, bool) {
	if m.cursor == nil {
		return geom.Pt{}, false
	}
	return *m.cursor, true
}

// Pending returns the pending polygon vertices. The slice is shared; callers
// must not mutate it.
func (m *Machine) Pending() []geom.Pt { return m.pending }

// GestureVersion counts ephemeral gesture-state changes, for the projection
// cache.
func (m *Machine) GestureVersion() uint64 { return m.gestureVersion }

// Dirty reports whether the tile set has unpersisted gesture mutations.
func (m *Machine) Dirty() bool { return m.set.Dirty() }

// Tiles returns a deep copy of the committed tile outlines in display order.
func (m *Machine) Tiles() []geom.Polygon { return m.set.Polygons() }

// SetTiles installs restored annotations wholesale, clearing the dirty flag
// and any gesture in progress. An empty or nil set is valid.
func (m *Machine) SetTiles(polys []geom.Polygon) {
	m.set.Replace(polys)
	m.index.Rebuild(m.set.Entries())
	m.clearEphemeral()
	m.queueDraw()
}

// ToggleMode swaps between Rectangle and PointPolygon. While a gesture is in
// progress it toggles snapping instead, and during an erase it does nothing.
func (m *Machine) ToggleMode() {
	if m.state == StateErase {
		return
	}
	if m.gestureInProgress() {
		m.snap = !m.snap
		m.queueDraw()
		return
	}
	if m.state == StateRectangle {
		m.state = StatePointPolygon
	} else {
		m.state = StateRectangle
	}
	m.queueDraw()
}

func (m *Machine) gestureInProgress() bool {
	return m.anchor != nil || len(m.pending) > 0
}

// PointerDown handles a primary pen or mouse press at a widget position.
func (m *Machine) PointerDown(widget geom.Pt) {
	pos, ok := m.toImage(widget)
	if !ok {
		return
	}
	switch m.state {
	case StateRectangle, StateErase:
		p := m.clip(pos)
		m.anchor = &p
		m.cursor = &pos
		m.touchGesture()
	case StatePointPolygon:
		p := m.clip(m.snapPoint(pos))
		m.cursor = &pos
		if len(m.pending) >= 3 && p.Dist(m.pending[0]) <= m.closeTolerance() {
			m.commitPolygon()
			m.touchGesture()
			return
		}
		m.pending = append(m.pending, p)
		m.touchGesture()
	}
	m.queueDraw()
}

// PointerMove updates the live cursor. It never mutates tiles.
func (m *Machine) PointerMove(widget geom.Pt) {
	pos, ok := m.toImage(widget)
	if !ok {
		return
	}
	m.cursor = &pos
	m.touchGesture()
	m.queueDraw()
}

// PointerUp ends a primary press. In Rectangle state it commits the pending
// rectangle unless the drag was degenerate; polygon commits happen on
// PointerDown instead, and erase commits on EraserUp.
func (m *Machine) PointerUp(widget geom.Pt) {
	pos, ok := m.toImage(widget)
	if !ok {
		return
	}
	if m.state == StateRectangle && m.anchor != nil {
		a := *m.anchor
		b := m.clip(pos)
		if !a.Close(b, geom.Eps) {
			r := geom.RectFromCorners(a, b)
			if r.Area() > geom.Eps {
				m.set.Append(geom.PolygonFromRect(r))
				m.rebuild()
			}
		}
	}
	m.anchor = nil
	m.cursor = nil
	m.touchGesture()
	m.queueDraw()
}

// EraserDown starts an erase selection, remembering the state to restore.
func (m *Machine) EraserDown(widget geom.Pt) {
	pos, ok := m.toImage(widget)
	if !ok {
		return
	}
	if m.state != StateErase {
		m.prior = m.state
		m.state = StateErase
	}
	p := m.clip(pos)
	m.anchor = &p
	m.cursor = &pos
	m.touchGesture()
	m.queueDraw()
}

// EraserUp completes the erase gesture: it removes the candidate tiles,
// rebuilds the index if any were removed, and restores the prior state.
func (m *Machine) EraserUp(widget geom.Pt) {
	if pos, ok := m.toImage(widget); ok {
		m.cursor = &pos
	}
	if ids := m.EraseCandidates(); len(ids) > 0 {
		if m.set.Remove(ids) > 0 {
			m.rebuild()
		}
	}
	if m.state == StateErase {
		m.state = m.prior
	}
	m.anchor = nil
	m.cursor = nil
	m.touchGesture()
	m.queueDraw()
}

// PointerLeft clears the ephemeral anchor and cursor when the pointer exits
// the drawable area mid-gesture. Pending polygon vertices survive.
func (m *Machine) PointerLeft() {
	m.anchor = nil
	m.cursor = nil
	m.touchGesture()
	m.queueDraw()
}

// Reset drops all tiles and gesture state and returns to Rectangle, for page
// switches. Calling it twice is the same as calling it once.
func (m *Machine) Reset() {
	m.set.Clear()
	m.index.Rebuild(nil)
	m.clearEphemeral()
	m.queueDraw()
}

func (m *Machine) clearEphemeral() {
	m.anchor = nil
	m.cursor = nil
	m.pending = nil
	m.snap = false
	m.state = StateRectangle
	m.prior = StateRectangle
	m.touchGesture()
}

// commitPolygon closes the pending ring into a tile. Under-sized or
// degenerate rings are discarded silently.
func (m *Machine) commitPolygon() {
	pg := geom.Polygon{Ring: append([]geom.Pt(nil), m.pending...)}
	m.pending = nil
	if !pg.Valid() {
		return
	}
	m.set.Append(pg)
	m.rebuild()
}

func (m *Machine) rebuild() {
	m.index.Rebuild(m.set.Entries())
	if m.onCommit != nil {
		m.onCommit()
	}
}

func (m *Machine) touchGesture() { m.gestureVersion++ }

func (m *Machine) queueDraw() {
	if m.redraw != nil {
		m.redraw()
	}
}

// toImage converts a widget position to image space. Events arriving before
// the transform is ready are dropped; there is nothing meaningful to map
// them onto.
func (m *Machine) toImage(widget geom.Pt) (geom.Pt, bool) {
	p, err := m.tr.WidgetToImage(widget)
	if err != nil {
		return geom.Pt{}, false
	}
	return p, true
}

func (m *Machine) clip(p geom.Pt) geom.Pt {
	return geom.RectFromSize(m.tr.ImageShape()).Clip(p)
}

func (m *Machine) closeTolerance() float64 {
	return m.cfg.CloseThresholdPx / m.tr.Scale()
}
