/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tiles

import (
	"testing"

	"comicsviewer/internal/geom"
)

func TestSetAppendAssignsStableIDs(t *testing.T) {
	s := NewSet()
	a := s.Append(rect(0, 0, 10, 10)).ID()
	b := s.Append(rect(20, 20, 30, 30)).ID()
	if a == b {
		t.Fatalf("ids must be unique")
	}
	s.Remove([]int{a})
	c := s.Append(rect(40, 40, 50, 50)).ID()
	if c == a {
		t.Fatalf("removed ids must not be reused")
	}
	if got := s.Label(b); got != 1 {
		t.Fatalf("labels follow current order, got %d", got)
	}
	if got := s.Label(c); got != 2 {
		t.Fatalf("labels follow current order, got %d", got)
	}
}

func TestSetRemoveKeepsOrder(t *testing.T) {
	s := NewSet()
	a := s.Append(rect(0, 0, 10, 10)).ID()
	s.Append(rect(20, 20, 30, 30))
	c := s.Append(rect(40, 40, 50, 50)).ID()
	if n := s.Remove([]int{a, c, 999}); n != 2 {
		t.Fatalf("expected 2 removals, got %d", n)
	}
	if s.Len() != 1 || s.Label(s.At(0).ID()) != 1 {
		t.Fatalf("surviving tile must shift to label 1")
	}
}

func TestSetReplaceDropsInvalidAndClearsDirty(t *testing.T) {
	s := NewSet()
	s.Append(rect(0, 0, 10, 10))
	if !s.Dirty() {
		t.Fatalf("append must mark dirty")
	}
	degenerate := geom.Polygon{Ring: []geom.Pt{geom.P(0, 0), geom.P(1, 1)}}
	s.Replace([]geom.Polygon{rect(5, 5, 15, 15), degenerate})
	if s.Len() != 1 {
		t.Fatalf("invalid polygons must be dropped on replace, got %d", s.Len())
	}
	if s.Dirty() {
		t.Fatalf("replace restores persisted state and must clear dirty")
	}
}

func TestSetVersionAdvancesOnMutation(t *testing.T) {
	s := NewSet()
	v0 := s.Version()
	id := s.Append(rect(0, 0, 10, 10)).ID()
	v1 := s.Version()
	if v1 == v0 {
		t.Fatalf("append must bump the version")
	}
	s.Remove([]int{id})
	if s.Version() == v1 {
		t.Fatalf("remove must bump the version")
	}
}

func TestSetPolygonsAreDetached(t *testing.T) {
	s := NewSet()
	s.Append(rect(0, 0, 10, 10))
	polys := s.Polygons()
	polys[0].Ring[0] = geom.P(999, 999)
	if s.At(0).Polygon().Ring[0] == geom.P(999, 999) {
		t.Fatalf("Polygons must return deep copies")
	}
}
