/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package spatial

import (
	"math"
	"testing"

	"comicsviewer/internal/geom"
)

func box(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.PolygonFromRect(geom.RectFromCorners(geom.P(x0, y0), geom.P(x1, y1)))
}

func TestContainedBy(t *testing.T) {
	ix := New()
	ix.Rebuild([]Entry{
		{ID: 0, Poly: box(10, 10, 20, 20)},
		{ID: 1, Poly: box(50, 50, 90, 90)},
		{ID: 2, Poly: box(15, 15, 60, 60)},
	})
	got := ix.ContainedBy(geom.RectFromCorners(geom.P(0, 0), geom.P(30, 30)))
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("unexpected containment result: %v", got)
	}
	got = ix.ContainedBy(geom.RectFromCorners(geom.P(0, 0), geom.P(100, 100)))
	if len(got) != 3 {
		t.Fatalf("expected all tiles contained, got %v", got)
	}
}

func TestSmallestContaining(t *testing.T) {
	ix := New()
	ix.Rebuild([]Entry{
		{ID: 7, Poly: box(0, 0, 100, 100)},
		{ID: 8, Poly: box(20, 20, 60, 60)},
	})
	sel := geom.RectFromCorners(geom.P(30, 30), geom.P(40, 40))
	id, ok := ix.SmallestContaining(sel)
	if !ok || id != 8 {
		t.Fatalf("expected inner tile 8, got %d ok=%v", id, ok)
	}
	// outside both
	if _, ok := ix.SmallestContaining(geom.RectFromCorners(geom.P(200, 200), geom.P(210, 210))); ok {
		t.Fatalf("nothing should contain a far-away box")
	}
}

func TestSmallestContainingEqualAreaTakesFirst(t *testing.T) {
	// two identical tiles: identity, not geometry, decides
	ix := New()
	ix.Rebuild([]Entry{
		{ID: 3, Poly: box(0, 0, 50, 50)},
		{ID: 4, Poly: box(0, 0, 50, 50)},
	})
	id, ok := ix.SmallestContaining(geom.RectFromCorners(geom.P(10, 10), geom.P(20, 20)))
	if !ok || id != 3 {
		t.Fatalf("equal-area tie should keep the first indexed, got %d", id)
	}
}

func TestNearestBoundary(t *testing.T) {
	ix := New()
	ix.Rebuild([]Entry{
		{ID: 0, Poly: box(0, 0, 10, 10)},
		{ID: 1, Poly: box(100, 100, 110, 110)},
	})
	id, q, d, ok := ix.NearestBoundary(geom.P(12, 5))
	if !ok || id != 0 {
		t.Fatalf("nearest tile should be 0, got %d", id)
	}
	if math.Abs(d-2) > geom.Eps || !q.Close(geom.P(10, 5), geom.Eps) {
		t.Fatalf("got d=%v q=%+v", d, q)
	}

	ix.Rebuild(nil)
	if _, _, _, ok := ix.NearestBoundary(geom.P(0, 0)); ok {
		t.Fatalf("empty index must report no boundary")
	}
}

func TestRebuildReplacesEverything(t *testing.T) {
	ix := New()
	ix.Rebuild([]Entry{{ID: 0, Poly: box(0, 0, 10, 10)}})
	if ix.Len() != 1 {
		t.Fatalf("unexpected length %d", ix.Len())
	}
	ix.Rebuild([]Entry{{ID: 5, Poly: box(30, 30, 40, 40)}, {ID: 6, Poly: box(50, 50, 60, 60)}})
	if ix.Len() != 2 {
		t.Fatalf("rebuild should replace entries, length %d", ix.Len())
	}
	if got := ix.ContainedBy(geom.RectFromCorners(geom.P(0, 0), geom.P(20, 20))); len(got) != 0 {
		t.Fatalf("old entries survived rebuild: %v", got)
	}
}
