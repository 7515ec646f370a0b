/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"image"
	"image/color"
	"testing"

	"comicsviewer/internal/geom"
	"comicsviewer/internal/tiles"
	"comicsviewer/internal/viewport"
)

func TestHTMLColorParsing(t *testing.T) {
	c, err := HTML("#ff00ff")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if c != (color.NRGBA{R: 0xff, G: 0, B: 0xff, A: 0xff}) {
		t.Fatalf("parsed %+v", c)
	}
	c, err = HTML("#11223344")
	if err != nil {
		t.Fatalf("HTML with alpha: %v", err)
	}
	if c != (color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}) {
		t.Fatalf("parsed %+v", c)
	}
	for _, bad := range []string{"", "#fff", "ff00ff", "#zzzzzz"} {
		if _, err := HTML(bad); err == nil {
			t.Fatalf("%q should not parse", bad)
		}
	}
}

func TestTileColorCycles(t *testing.T) {
	if TileColor(0) != TileColor(PaletteSize()) {
		t.Fatalf("palette should wrap around")
	}
	if TileColor(0) == TileColor(1) {
		t.Fatalf("adjacent tiles should differ in color")
	}
}

func TestBuildOverlayTilesAndLabels(t *testing.T) {
	proj := []tiles.Projection{
		{ID: 7, Label: 1, Outline: []geom.Pt{geom.P(0, 0), geom.P(10, 0), geom.P(10, 10)}, Anchor: geom.P(5, 5)},
		{ID: 9, Label: 2, Outline: []geom.Pt{geom.P(20, 20), geom.P(30, 20), geom.P(30, 30)}, Anchor: geom.P(25, 25)},
	}
	p := BuildOverlay(proj, tiles.Ephemeral{EraseIDs: []int{9}, Erasing: true})
	if len(p.Strokes) != 2 || len(p.Labels) != 2 {
		t.Fatalf("got %d strokes %d labels", len(p.Strokes), len(p.Labels))
	}
	if p.Strokes[1].Color != EraseColor {
		t.Fatalf("erase candidate should use the erase color")
	}
	if p.Strokes[0].Color == EraseColor {
		t.Fatalf("untargeted tile should keep its palette color")
	}
	if p.Labels[0].Text != "1" || p.Labels[1].Text != "2" {
		t.Fatalf("labels wrong: %+v", p.Labels)
	}
}

func TestBuildOverlayGesture(t *testing.T) {
	a, c := geom.P(0, 0), geom.P(50, 50)
	p := BuildOverlay(nil, tiles.Ephemeral{Anchor: &a, Cursor: &c})
	if len(p.Strokes) != 1 || !p.Strokes[0].Closed {
		t.Fatalf("expected one closed rectangle preview, got %+v", p.Strokes)
	}
	if got := len(p.Strokes[0].Pts); got != 4 {
		t.Fatalf("rectangle preview should carry all four corners, got %d", got)
	}
	if p.Strokes[0].Color != NormalColor {
		t.Fatalf("draw preview should use the normal color")
	}

	pend := []geom.Pt{geom.P(0, 0), geom.P(10, 0)}
	p = BuildOverlay(nil, tiles.Ephemeral{Pending: pend, Cursor: &c})
	if len(p.Strokes) != 1 || p.Strokes[0].Closed {
		t.Fatalf("pending polygon should be an open polyline")
	}
	if got := len(p.Strokes[0].Pts); got != 3 {
		t.Fatalf("polyline should include the cursor, got %d points", got)
	}
	if p.Strokes[0].Color != PendingColor {
		t.Fatalf("pending polygon should use the pending color")
	}
}

func TestPageIdentityWarp(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.SetRGBA(1, 2, color.RGBA{R: 200, A: 255})
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))

	tr := viewport.New()
	tr.SetImageShape(geom.Size{W: 4, H: 4})
	tr.SetViewportShape(geom.Size{W: 4, H: 4})
	af, err := tr.Affine()
	if err != nil {
		t.Fatalf("Affine: %v", err)
	}
	Page(dst, src, af)
	if got := dst.RGBAAt(1, 2); got.R < 100 {
		t.Fatalf("identity warp lost the marker pixel: %+v", got)
	}
}
