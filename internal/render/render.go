/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render turns viewer state into drawable artifacts: the page raster
// warped through the viewport affine, and an overlay plan of colored strokes
// and labels the UI paints on top. The plan is toolkit-neutral; the widget
// layer decides how to stroke it.
package render

import (
	"image"
	"image/color"
	"strconv"

	xdraw "golang.org/x/image/draw"

	"comicsviewer/internal/geom"
	"comicsviewer/internal/tiles"
	"comicsviewer/internal/viewport"
)

// AffineConsumer is implemented by anything that repaints when the viewport
// affine changes, e.g. the page raster widget and the cursor cache.
type AffineConsumer interface {
	ApplyAffine(af *viewport.Affine)
}

// Page warps the source page into dst through the image-to-widget affine
// with bilinear filtering. dst should be the widget-sized backing raster;
// pixels outside the image stay untouched.
func Page(dst *image.RGBA, src image.Image, af *viewport.Affine) {
	xdraw.BiLinear.Transform(dst, af.Aff3(), src, src.Bounds(), xdraw.Src, nil)
}

// Stroke is a polyline in widget coordinates.
type Stroke struct {
	Pts    []geom.Pt
	Closed bool
	Color  color.NRGBA
	Width  float64
}

// Label is a tile number drawn at its anchor.
type Label struct {
	At    geom.Pt
	Text  string
	Color color.NRGBA
}

// Plan is everything the overlay draws for one frame.
type Plan struct {
	Strokes []Stroke
	Labels  []Label
}

// BuildOverlay assembles the overlay plan from the projected tiles and the
// in-flight gesture. Tiles marked as erase candidates are drawn in the erase
// color; the pending polygon and the live rectangle preview come from the
// ephemeral projection.
func BuildOverlay(projected []tiles.Projection, eph tiles.Ephemeral) Plan {
	var p Plan
	erasing := make(map[int]bool, len(eph.EraseIDs))
	for _, id := range eph.EraseIDs {
		erasing[id] = true
	}
	for i, t := range projected {
		c := TileColor(i)
		if erasing[t.ID] {
			c = EraseColor
		}
		p.Strokes = append(p.Strokes, Stroke{Pts: t.Outline, Closed: true, Color: c, Width: 2})
		p.Labels = append(p.Labels, Label{At: t.Anchor, Text: strconv.Itoa(t.Label), Color: c})
	}
	if len(eph.Pending) > 0 {
		pts := append([]geom.Pt(nil), eph.Pending...)
		if eph.Cursor != nil {
			pts = append(pts, *eph.Cursor)
		}
		p.Strokes = append(p.Strokes, Stroke{Pts: pts, Color: PendingColor, Width: 2})
	}
	if eph.Anchor != nil && eph.Cursor != nil {
		c := NormalColor
		if eph.Erasing {
			c = EraseColor
		}
		r := geom.RectFromCorners(*eph.Anchor, *eph.Cursor)
		rc := r.Corners()
		p.Strokes = append(p.Strokes, Stroke{Pts: rc[:], Closed: true, Color: c, Width: 2})
	}
	return p
}
