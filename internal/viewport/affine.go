/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/mat"

	"comicsviewer/internal/geom"
)

// Affine is a 2D affine transform in homogeneous form, backed by a 3x3
// matrix. It is the interchange currency between the viewport transform, the
// projection cache and the renderer; snapshots of it are also handed back to
// WidgetToImageAffine when converting positions captured under an older view
// (for example the pan gesture anchor).
type Affine struct {
	m *mat.Dense
}

// IdentityAffine returns the identity transform.
func IdentityAffine() *Affine {
	return &Affine{m: identity()}
}

func identity() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

// AffineTranslate returns a pure translation.
func AffineTranslate(tx, ty float64) *Affine {
	return &Affine{m: mat.NewDense(3, 3, []float64{
		1, 0, tx,
		0, 1, ty,
		0, 0, 1,
	})}
}

// AffineScale returns an anisotropic scale about the origin.
func AffineScale(sx, sy float64) *Affine {
	return &Affine{m: mat.NewDense(3, 3, []float64{
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	})}
}

// AffineRotate returns a rotation by rad about the origin, counter-clockwise
// in a y-up frame.
func AffineRotate(rad float64) *Affine {
	c := math.Cos(rad)
	s := math.Sin(rad)
	return &Affine{m: mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})}
}

// Mul returns a*b, the transform applying b first and a second.
func (a *Affine) Mul(b *Affine) *Affine {
	out := mat.NewDense(3, 3, nil)
	out.Mul(a.m, b.m)
	return &Affine{m: out}
}

// Apply maps a point through the transform.
func (a *Affine) Apply(p geom.Pt) geom.Pt {
	return geom.Pt{
		X: a.m.At(0, 0)*p.X + a.m.At(0, 1)*p.Y + a.m.At(0, 2),
		Y: a.m.At(1, 0)*p.X + a.m.At(1, 1)*p.Y + a.m.At(1, 2),
	}
}

// Inverse returns the inverse transform.
func (a *Affine) Inverse() (*Affine, error) {
	out := mat.NewDense(3, 3, nil)
	if err := out.Inverse(a.m); err != nil {
		return nil, fmt.Errorf("invert affine: %w", err)
	}
	return &Affine{m: out}, nil
}

// Aff3 returns the transform in the row-major 2x3 layout consumed by
// golang.org/x/image/draw transformations.
func (a *Affine) Aff3() f64.Aff3 {
	return f64.Aff3{
		a.m.At(0, 0), a.m.At(0, 1), a.m.At(0, 2),
		a.m.At(1, 0), a.m.At(1, 1), a.m.At(1, 2),
	}
}

// Mat4 returns the transform as a 4x4 column-major homogeneous matrix for a
// GPU rendering pipeline.
func (a *Affine) Mat4() [16]float64 {
	return [16]float64{
		a.m.At(0, 0), a.m.At(1, 0), 0, 0,
		a.m.At(0, 1), a.m.At(1, 1), 0, 0,
		0, 0, 1, 0,
		a.m.At(0, 2), a.m.At(1, 2), 0, 1,
	}
}
