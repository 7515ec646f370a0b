/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tiles

import "comicsviewer/internal/geom"

// snapPoint adjusts pos to the nearest snap target when snapping is enabled.
// All candidates compete together on Euclidean distance: the pending
// rectangle anchor, the first pending polygon vertex, the nearest point on
// the image boundary, and the nearest existing tile boundary. The winning
// candidate is taken only within the configured on-screen radius; dividing
// the radius by the zoom keeps the magnet constant in widget pixels.
func (m *Machine) snapPoint(pos geom.Pt) geom.Pt {
	if !m.snap {
		return pos
	}
	best := pos
	bestDist := m.cfg.SnapThresholdPx / m.tr.Scale()

	consider := func(c geom.Pt) {
		if d := pos.Dist(c); d <= bestDist {
			best = c
			bestDist = d
		}
	}
	if m.anchor != nil {
		consider(*m.anchor)
	}
	if len(m.pending) > 0 {
		consider(m.pending[0])
	}
	img := geom.PolygonFromRect(geom.RectFromSize(m.tr.ImageShape()))
	_, edge := img.NearestBoundary(pos)
	consider(edge)
	if _, q, _, ok := m.index.NearestBoundary(pos); ok {
		consider(q)
	}
	return best
}

// EraseCandidates returns the ids of the tiles the running erase gesture
// would remove, for the red overlay highlight and for EraserUp. The
// selection box spans the erase anchor and the live cursor. Tiles fully
// contained by the box are all removed; otherwise the smallest tile fully
// containing the box is removed, which lets a small scribble inside a tile
// erase it. When two enclosing tiles have exactly the same area the index
// order decides; ties are explicitly not deterministic beyond that.
func (m *Machine) EraseCandidates() []int {
	if m.state != StateErase || m.anchor == nil || m.cursor == nil {
		return nil
	}
	sel := geom.RectFromCorners(*m.anchor, *m.cursor)
	if ids := m.index.ContainedBy(sel); len(ids) > 0 {
		return ids
	}
	if id, ok := m.index.SmallestContaining(sel); ok {
		return []int{id}
	}
	return nil
}
