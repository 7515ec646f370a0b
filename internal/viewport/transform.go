/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package viewport computes the affine transform between image pixel
// coordinates and widget pixel coordinates for the currently displayed page.
//
// The transform is derived, never stored: it is a function of the image
// shape, the viewport shape, the user zoom (clamped to [1,4]), the user pan
// position (clamped so the visible window stays inside the image) and a fixed
// rotation of 0 or 90 degrees chosen so the image orientation matches the
// viewport orientation. Composing ImageToWidget with WidgetToImage is the
// identity up to floating point for any point inside the viewport.
package viewport

import (
	"errors"
	"math"

	"comicsviewer/internal/geom"
)

// ErrNotReady is returned by transform queries before both the image shape
// and the viewport shape are known. Callers must check readiness rather than
// consume garbage coordinates.
var ErrNotReady = errors.New("viewport: transform not ready")

// Zoom limits, constant on-screen behavior regardless of page size.
const (
	MinScale = 1.0
	MaxScale = 4.0
)

// Transform maps between image space and widget space. It is single-threaded
// by contract: all mutation happens on the UI event loop.
type Transform struct {
	img     geom.Size
	vp      geom.Size
	haveImg bool
	haveVP  bool

	scale float64
	pos   geom.Pt

	version  uint64
	onChange func()
}

// New returns a transform with scale 1 and centered position. It reports not
// ready until both shapes have been set.
func New() *Transform {
	return &Transform{scale: MinScale}
}

// OnChange registers a hook invoked after any input of the transform changes,
// typically to queue a redraw. At most one hook is kept.
func (t *Transform) OnChange(fn func()) { t.onChange = fn }

// Version returns a counter incremented on every input change. The projection
// cache compares it to decide staleness.
func (t *Transform) Version() uint64 { return t.version }

// Ready reports whether both the image shape and viewport shape are known.
func (t *Transform) Ready() bool { return t.haveImg && t.haveVP }

func (t *Transform) bump() {
	t.version++
	if t.onChange != nil {
		t.onChange()
	}
}

// SetImageShape installs the extent of the decoded page, in pixels.
func (t *Transform) SetImageShape(s geom.Size) {
	if s.Empty() {
		return
	}
	if t.haveImg && t.img == s {
		return
	}
	t.img = s
	t.haveImg = true
	t.pos = t.clampPosition(t.pos)
	t.bump()
}

// SetViewportShape installs the drawable surface extent, in pixels. Called on
// every resize.
func (t *Transform) SetViewportShape(s geom.Size) {
	if s.Empty() {
		return
	}
	if t.haveVP && t.vp == s {
		return
	}
	t.vp = s
	t.haveVP = true
	t.pos = t.clampPosition(t.pos)
	t.bump()
}

// ImageShape returns the current image extent.
func (t *Transform) ImageShape() geom.Size { return t.img }

// ViewportShape returns the current viewport extent.
func (t *Transform) ViewportShape() geom.Size { return t.vp }

// Scale returns the current zoom factor.
func (t *Transform) Scale() float64 { return t.scale }

// SetScale clamps s into [MinScale, MaxScale] and re-clamps the pan position,
// since zooming out near an edge shrinks the valid pan range.
func (t *Transform) SetScale(s float64) {
	s = math.Min(math.Max(s, MinScale), MaxScale)
	if s == t.scale {
		return
	}
	t.scale = s
	t.pos = t.clampPosition(t.pos)
	t.bump()
}

// Position returns the pan offset of the visible window center from the image
// center, in image pixels.
func (t *Transform) Position() geom.Pt { return t.pos }

// SetPosition pans the view. The requested offset is clamped component-wise
// so the visible window never extends beyond the image bounds.
func (t *Transform) SetPosition(p geom.Pt) {
	p = t.clampPosition(p)
	if p == t.pos {
		return
	}
	t.pos = p
	t.bump()
}

// Angle returns the fixed viewport rotation, 0 or Pi/2. The orientation whose
// aspect ratio is closer to the viewport's wins; ties favor 0.
func (t *Transform) Angle() float64 {
	if !t.Ready() {
		return 0
	}
	ia := t.img.Aspect()
	va := t.vp.Aspect()
	if math.Abs(va-ia) <= math.Abs(va-1/ia) {
		return 0
	}
	return math.Pi / 2
}

// KeepAspect returns the per-axis scale, in image orientation, applied before
// the user zoom so the image fills the viewport without distortion under the
// chosen rotation. The limiting axis is exactly 1.0, the other at most 1.0.
func (t *Transform) KeepAspect() (kx, ky float64) {
	if !t.Ready() {
		return 1, 1
	}
	vp := t.vp
	if t.Angle() != 0 {
		vp = vp.Flip()
	}
	ax := t.img.W / vp.W
	ay := t.img.H / vp.H
	m := math.Max(ax, ay)
	return ax / m, ay / m
}

// NDC returns the affine mapping centered normalized device coordinates of
// the image to centered normalized device coordinates of the viewport: the
// rotation, then the anisotropic zoom, then the pan translation. This is the
// matrix a GL pipeline uploads (see Affine.Mat4).
func (t *Transform) NDC() (*Affine, error) {
	if !t.Ready() {
		return nil, ErrNotReady
	}
	return t.ndcFor(t.pos), nil
}

func (t *Transform) ndcFor(pos geom.Pt) *Affine {
	kx, ky := t.KeepAspect()
	sx := kx * t.scale
	sy := ky * t.scale
	rot := AffineRotate(t.Angle())
	zoom := AffineScale(sx, sy)

	// Pan: image pixels around the image center expressed as an NDC
	// translation. Negate, apply zoom, normalize to the NDC range of the
	// image extent, flip Y for the y-up device frame, then rotate so the pan
	// stays axis-aligned to the displayed image.
	tr := rot.Apply(geom.Pt{
		X: -2 * pos.X * sx / t.img.W,
		Y: 2 * pos.Y * sy / t.img.H,
	})

	return AffineTranslate(tr.X, tr.Y).Mul(rot).Mul(zoom)
}

// Affine returns the full image-pixel to widget-pixel transform: the single
// source of truth consumed both for drawing and for coordinate conversion.
func (t *Transform) Affine() (*Affine, error) {
	if !t.Ready() {
		return nil, ErrNotReady
	}
	return t.affineFor(t.pos), nil
}

func (t *Transform) affineFor(pos geom.Pt) *Affine {
	// image px -> image NDC (y flipped to the y-up device frame)
	toNDC := AffineScale(2/t.img.W, -2/t.img.H).mulTranslateAfter(-1, 1)
	// viewport NDC -> widget px
	fromNDC := AffineScale(t.vp.W/2, -t.vp.H/2).mulTranslateBefore(1, -1)
	return fromNDC.Mul(t.ndcFor(pos)).Mul(toNDC)
}

// mulTranslateAfter composes a translation applied after the receiver.
func (a *Affine) mulTranslateAfter(tx, ty float64) *Affine {
	return AffineTranslate(tx, ty).Mul(a)
}

// mulTranslateBefore composes a translation applied before the receiver.
func (a *Affine) mulTranslateBefore(tx, ty float64) *Affine {
	return a.Mul(AffineTranslate(tx, ty))
}

// ImageToWidget maps an image-space point into widget space.
func (t *Transform) ImageToWidget(p geom.Pt) (geom.Pt, error) {
	af, err := t.Affine()
	if err != nil {
		return geom.Pt{}, err
	}
	return af.Apply(p), nil
}

// WidgetToImage maps a widget-space point into image space.
func (t *Transform) WidgetToImage(p geom.Pt) (geom.Pt, error) {
	af, err := t.Affine()
	if err != nil {
		return geom.Pt{}, err
	}
	return WidgetToImageAffine(p, af)
}

// ImageToWidgetAffine maps through an explicit affine snapshot instead of the
// current transform, for positions captured under an older view.
func ImageToWidgetAffine(p geom.Pt, af *Affine) geom.Pt { return af.Apply(p) }

// WidgetToImageAffine inverts an explicit affine snapshot for p.
func WidgetToImageAffine(p geom.Pt, af *Affine) (geom.Pt, error) {
	inv, err := af.Inverse()
	if err != nil {
		return geom.Pt{}, err
	}
	return inv.Apply(p), nil
}

// VisibleWindow returns the image-space bounding box of the viewport under
// the current transform.
func (t *Transform) VisibleWindow() (geom.Rect, error) {
	if !t.Ready() {
		return geom.Rect{}, ErrNotReady
	}
	return t.visibleFor(t.pos)
}

func (t *Transform) visibleFor(pos geom.Pt) (geom.Rect, error) {
	inv, err := t.affineFor(pos).Inverse()
	if err != nil {
		return geom.Rect{}, err
	}
	corners := geom.RectFromSize(t.vp).Corners()
	r := geom.RectFromCorners(inv.Apply(corners[0]), inv.Apply(corners[1]))
	for _, c := range corners[2:] {
		p := inv.Apply(c)
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r, nil
}

// clampPosition restricts p so the visible window, computed by inverse
// transforming the viewport corners, stays inside the image. The window
// center offset from the image center cannot exceed half(image) minus
// half(visible window) on either axis.
func (t *Transform) clampPosition(p geom.Pt) geom.Pt {
	if !t.Ready() {
		return p
	}
	vis, err := t.visibleFor(geom.Pt{})
	if err != nil {
		return p
	}
	maxX := math.Max(0, (t.img.W-vis.W())/2)
	maxY := math.Max(0, (t.img.H-vis.H())/2)
	return geom.Pt{
		X: math.Min(math.Max(p.X, -maxX), maxX),
		Y: math.Min(math.Max(p.Y, -maxY), maxY),
	}
}
