/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package cursor tracks which pointer cursor the drawing surface should
// show. An Icon is either a toolkit-named cursor or an image file the
// toolkit renders, rotated to match the viewport. Rendered cursors are
// cached per (icon, angle) because rendering an image cursor is not free.
package cursor

import (
	"fmt"
	"math"

	"comicsviewer/internal/tiles"
)

// Icon is a tagged cursor variant: exactly one of a toolkit cursor name or
// an image file path is set.
type Icon struct {
	name string
	path string
}

// Named returns an Icon for a toolkit-provided cursor.
func Named(name string) Icon { return Icon{name: name} }

// FromFile returns an Icon rendered from an image file.
func FromFile(path string) Icon { return Icon{path: path} }

// Standard icons. The pen icons are rendered from bundled art; Default and
// None come from the toolkit.
var (
	Default      = Named("default")
	None         = Named("none")
	PenRectangle = FromFile("pen-rect.svg")
	PenPoint     = FromFile("pen-point.svg")
	PenErase     = FromFile("pen-erase.svg")
)

// IsNamed reports whether the icon is a toolkit-named cursor.
func (i Icon) IsNamed() bool { return i.name != "" }

// Name returns the toolkit cursor name, or "" for file icons.
func (i Icon) Name() string { return i.name }

// Path returns the image file path, or "" for named icons.
func (i Icon) Path() string { return i.path }

// Zero reports whether the icon is unset.
func (i Icon) Zero() bool { return i.name == "" && i.path == "" }

func (i Icon) String() string {
	if i.IsNamed() {
		return i.name
	}
	return i.path
}

// IconFor returns the drawing cursor for an annotation state.
func IconFor(s tiles.State) Icon {
	switch s {
	case tiles.StatePointPolygon:
		return PenPoint
	case tiles.StateErase:
		return PenErase
	default:
		return PenRectangle
	}
}

// RenderFunc builds a toolkit cursor for an icon at a viewport angle in
// radians. What it returns is opaque to this package.
type RenderFunc func(icon Icon, angle float64) (any, error)

type cacheKey struct {
	icon  string
	angle float64
}

// Cache memoizes rendered cursors per (icon, angle). Named cursors do not
// rotate, so they are cached once regardless of angle.
type Cache struct {
	render  RenderFunc
	entries map[cacheKey]any
}

// NewCache returns a cache backed by the given renderer.
func NewCache(render RenderFunc) *Cache {
	return &Cache{render: render, entries: make(map[cacheKey]any)}
}

// Get returns the rendered cursor for icon at angle, rendering on first use.
func (c *Cache) Get(icon Icon, angle float64) (any, error) {
	if icon.Zero() {
		return nil, fmt.Errorf("cursor: empty icon")
	}
	k := cacheKey{icon: icon.String(), angle: quantize(angle)}
	if icon.IsNamed() {
		k.angle = 0
	}
	if v, ok := c.entries[k]; ok {
		return v, nil
	}
	v, err := c.render(icon, angle)
	if err != nil {
		return nil, fmt.Errorf("render cursor %s: %w", icon, err)
	}
	c.entries[k] = v
	return v, nil
}

// Len returns the number of cached renderings.
func (c *Cache) Len() int { return len(c.entries) }

// quantize collapses float noise in the angle so equal orientations share a
// cache slot.
func quantize(angle float64) float64 {
	return math.Round(angle*1e6) / 1e6
}
