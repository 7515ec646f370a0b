/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"errors"
	"math"
	"testing"

	"comicsviewer/internal/geom"
)

func readyTransform(imgW, imgH, vpW, vpH float64) *Transform {
	t := New()
	t.SetImageShape(geom.Size{W: imgW, H: imgH})
	t.SetViewportShape(geom.Size{W: vpW, H: vpH})
	return t
}

func TestNotReady(t *testing.T) {
	tr := New()
	if tr.Ready() {
		t.Fatalf("fresh transform must not be ready")
	}
	if _, err := tr.Affine(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if _, err := tr.WidgetToImage(geom.P(1, 1)); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	tr.SetImageShape(geom.Size{W: 100, H: 100})
	if _, err := tr.ImageToWidget(geom.P(1, 1)); !errors.Is(err, ErrNotReady) {
		t.Fatalf("image shape alone must not make the transform ready")
	}
	tr.SetViewportShape(geom.Size{W: 50, H: 50})
	if !tr.Ready() {
		t.Fatalf("transform should be ready with both shapes set")
	}
}

func TestAngleAspectLock(t *testing.T) {
	// image 100 high x 200 wide
	if a := readyTransform(200, 100, 100, 50).Angle(); a != 0 {
		t.Fatalf("same orientation: angle = %v, want 0", a)
	}
	if a := readyTransform(200, 100, 50, 100).Angle(); a != math.Pi/2 {
		t.Fatalf("flipped orientation: angle = %v, want Pi/2", a)
	}
	// square everything ties to 0
	if a := readyTransform(100, 100, 80, 80).Angle(); a != 0 {
		t.Fatalf("tie must favor 0, got %v", a)
	}
}

func TestKeepAspectLimitingAxis(t *testing.T) {
	// square image in a wide viewport: height limits, width letterboxes
	tr := readyTransform(200, 200, 100, 50)
	kx, ky := tr.KeepAspect()
	if math.Abs(ky-1) > geom.Eps || math.Abs(kx-0.5) > geom.Eps {
		t.Fatalf("kx=%v ky=%v, want 0.5, 1", kx, ky)
	}
	// exact fit
	kx, ky = readyTransform(200, 100, 100, 50).KeepAspect()
	if kx != 1 || ky != 1 {
		t.Fatalf("exact fit should give (1,1), got (%v,%v)", kx, ky)
	}
}

func TestImageFillsViewportAtScaleOne(t *testing.T) {
	tr := readyTransform(200, 100, 100, 50)
	tl, err := tr.ImageToWidget(geom.P(0, 0))
	if err != nil {
		t.Fatalf("ImageToWidget: %v", err)
	}
	br, err := tr.ImageToWidget(geom.P(200, 100))
	if err != nil {
		t.Fatalf("ImageToWidget: %v", err)
	}
	if !tl.Close(geom.P(0, 0), 1e-9) || !br.Close(geom.P(100, 50), 1e-9) {
		t.Fatalf("corners tl=%+v br=%+v", tl, br)
	}
}

func TestRoundTrip(t *testing.T) {
	shapes := []struct{ iw, ih, vw, vh float64 }{
		{200, 100, 100, 50},  // aligned
		{200, 100, 50, 100},  // rotated
		{1000, 1000, 120, 80},
		{300, 700, 640, 480}, // rotated, odd aspect
	}
	scales := []float64{1, 1.5, 2, 4}
	positions := []geom.Pt{{}, {X: 40, Y: -25}, {X: -1000, Y: 1000}}
	points := []geom.Pt{{X: 1, Y: 1}, {X: 33, Y: 47}, {X: 80, Y: 12.5}}

	for _, sh := range shapes {
		tr := readyTransform(sh.iw, sh.ih, sh.vw, sh.vh)
		for _, s := range scales {
			tr.SetScale(s)
			for _, pos := range positions {
				tr.SetPosition(pos)
				for _, p := range points {
					img, err := tr.WidgetToImage(p)
					if err != nil {
						t.Fatalf("WidgetToImage: %v", err)
					}
					back, err := tr.ImageToWidget(img)
					if err != nil {
						t.Fatalf("ImageToWidget: %v", err)
					}
					if !back.Close(p, 1e-6) {
						t.Fatalf("round trip %+v -> %+v -> %+v (shape %+v scale %v pos %+v)",
							p, img, back, sh, s, pos)
					}
				}
			}
		}
	}
}

func TestScaleClamping(t *testing.T) {
	tr := readyTransform(100, 100, 50, 50)
	tr.SetScale(0.25)
	if tr.Scale() != MinScale {
		t.Fatalf("scale below minimum not clamped: %v", tr.Scale())
	}
	tr.SetScale(10)
	if tr.Scale() != MaxScale {
		t.Fatalf("scale above maximum not clamped: %v", tr.Scale())
	}
}

func TestPositionClamping(t *testing.T) {
	tr := readyTransform(1000, 1000, 100, 100)
	tr.SetPosition(geom.P(10000, 10000))
	if tr.Position() != (geom.Pt{}) {
		t.Fatalf("at scale 1 the whole image is visible, pan must clamp to origin: %+v", tr.Position())
	}
	vis, err := tr.VisibleWindow()
	if err != nil {
		t.Fatalf("VisibleWindow: %v", err)
	}
	full := geom.RectFromCorners(geom.P(0, 0), geom.P(1000, 1000))
	if !full.ContainsRect(vis) {
		t.Fatalf("visible window escapes image bounds: %+v", vis)
	}

	tr.SetScale(2)
	tr.SetPosition(geom.P(10000, -10000))
	vis, err = tr.VisibleWindow()
	if err != nil {
		t.Fatalf("VisibleWindow: %v", err)
	}
	if !full.ContainsRect(vis) {
		t.Fatalf("visible window escapes image bounds at scale 2: %+v", vis)
	}
	if math.Abs(tr.Position().X-250) > 1e-6 || math.Abs(tr.Position().Y+250) > 1e-6 {
		t.Fatalf("unexpected clamped position %+v", tr.Position())
	}
}

func TestZoomOutReclampsPosition(t *testing.T) {
	tr := readyTransform(1000, 1000, 100, 100)
	tr.SetScale(4)
	tr.SetPosition(geom.P(375, 375))
	tr.SetScale(1)
	if tr.Position() != (geom.Pt{}) {
		t.Fatalf("zooming out must re-clamp the pan position, got %+v", tr.Position())
	}
}

func TestAffineSnapshotOverride(t *testing.T) {
	tr := readyTransform(400, 200, 200, 100)
	af, err := tr.Affine()
	if err != nil {
		t.Fatalf("Affine: %v", err)
	}
	anchorWidget := geom.P(60, 30)
	anchorImg, err := WidgetToImageAffine(anchorWidget, af)
	if err != nil {
		t.Fatalf("WidgetToImageAffine: %v", err)
	}
	// the view moves on; converting through the snapshot must be stable
	tr.SetScale(2)
	tr.SetPosition(geom.P(30, 10))
	again, err := WidgetToImageAffine(anchorWidget, af)
	if err != nil {
		t.Fatalf("WidgetToImageAffine: %v", err)
	}
	if !again.Close(anchorImg, 1e-9) {
		t.Fatalf("snapshot conversion drifted: %+v vs %+v", again, anchorImg)
	}
	if cur, _ := tr.WidgetToImage(anchorWidget); cur.Close(anchorImg, 1e-9) {
		t.Fatalf("current transform should differ from the snapshot")
	}
}

func TestVersionBumps(t *testing.T) {
	tr := readyTransform(100, 100, 50, 50)
	v := tr.Version()
	tr.SetScale(2)
	if tr.Version() == v {
		t.Fatalf("scale change must bump the version")
	}
	v = tr.Version()
	tr.SetScale(2) // no-op
	if tr.Version() != v {
		t.Fatalf("no-op scale change must not bump the version")
	}
	tr.SetViewportShape(geom.Size{W: 60, H: 60})
	if tr.Version() == v {
		t.Fatalf("viewport resize must bump the version")
	}
}

func TestMat4Layout(t *testing.T) {
	tr := readyTransform(200, 100, 100, 50)
	ndc, err := tr.NDC()
	if err != nil {
		t.Fatalf("NDC: %v", err)
	}
	m := ndc.Mat4()
	// identity NDC transform for the exact-fit case
	want := [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	for i := range m {
		if math.Abs(m[i]-want[i]) > 1e-12 {
			t.Fatalf("mat4[%d] = %v, want %v", i, m[i], want[i])
		}
	}
}
