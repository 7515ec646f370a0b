/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"image/color"
	"strconv"
)

// HTML parses a #rrggbb or #rrggbbaa color string.
func HTML(s string) (color.NRGBA, error) {
	if len(s) != 7 && len(s) != 9 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("bad color %q", s)
	}
	n, err := strconv.ParseUint(s[1:], 16, 64)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	if len(s) == 7 {
		return color.NRGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
	}
	return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}

func mustHTML(s string) color.NRGBA {
	c, err := HTML(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Overlay colors. Committed tiles cycle through the palette by label so
// adjacent tiles stay distinguishable.
var (
	EraseColor   = mustHTML("#ff0000")
	NormalColor  = mustHTML("#ff00ff")
	PendingColor = mustHTML("#00ff00")

	palette = []color.NRGBA{
		mustHTML("#46f0f0"), mustHTML("#f032e6"), mustHTML("#bcf60c"),
		mustHTML("#fabebe"), mustHTML("#008080"), mustHTML("#e6beff"),
		mustHTML("#9a6324"), mustHTML("#fffac8"), mustHTML("#800000"),
		mustHTML("#aaffc3"), mustHTML("#808000"), mustHTML("#ffd8b1"),
		mustHTML("#e6194b"), mustHTML("#3cb44b"), mustHTML("#ffe119"),
		mustHTML("#4363d8"), mustHTML("#f58231"), mustHTML("#911eb4"),
		mustHTML("#000075"), mustHTML("#808080"), mustHTML("#ffffff"),
		mustHTML("#000000"),
	}
)

// TileColor returns the palette color for a tile index.
func TileColor(i int) color.NRGBA {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// PaletteSize returns the number of distinct tile colors.
func PaletteSize() int { return len(palette) }
