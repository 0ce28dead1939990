// seehuhn.de/go/fontwriter - add colour tables to sfnt font files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package cpal

import "errors"

// Foreground is the palette index which selects the text foreground colour
// instead of a palette entry.
const Foreground = 0xFFFF

// Builder collects the colours of a single palette.
// Each distinct colour is stored only once.
type Builder struct {
	colors []Color
	index  map[Color]uint16
}

// IndexOf returns the palette index of the given colour.
// The colour is added to the palette if it is not yet present.
// See [ParseColor] for the accepted colour specifications.
func (b *Builder) IndexOf(spec string) (uint16, error) {
	c, err := ParseColor(spec)
	if err != nil {
		return 0, err
	}
	return b.Add(c)
}

// Add returns the palette index of c, adding c to the palette if needed.
func (b *Builder) Add(c Color) (uint16, error) {
	if idx, ok := b.index[c]; ok {
		return idx, nil
	}
	if len(b.colors) >= Foreground {
		return 0, errPaletteFull
	}
	if b.index == nil {
		b.index = make(map[Color]uint16)
	}
	idx := uint16(len(b.colors))
	b.colors = append(b.colors, c)
	b.index[c] = idx
	return idx, nil
}

// Len returns the number of colours in the palette.
func (b *Builder) Len() int {
	return len(b.colors)
}

// Table returns a "CPAL" table containing the palette.
func (b *Builder) Table() *Table {
	pal := make([]Color, len(b.colors))
	copy(pal, b.colors)
	return &Table{
		NumPaletteEntries: len(pal),
		Palettes:          [][]Color{pal},
	}
}

var errPaletteFull = errors.New("sfnt/cpal: too many colours")
