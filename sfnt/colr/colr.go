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

// Package colr reads and writes "COLR" tables.
//
// A version 0 "COLR" table maps base glyphs to a stack of layers.  Each
// layer is drawn using the outline of another glyph, filled with a colour
// from the "CPAL" table.  Version 1 tables add paint graphs, which allow
// for gradients, transformations and compositing.  Variable paints and
// clip boxes are not supported.
//
// https://learn.microsoft.com/en-us/typography/opentype/spec/colr
package colr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"seehuhn.de/go/sfnt/glyph"
)

// Foreground is the palette index which selects the text foreground colour.
const Foreground = 0xFFFF

// Layer is one layer of a colour glyph.
type Layer struct {
	Glyph        glyph.ID
	PaletteIndex uint16
}

// BaseGlyph describes the layers used to render one glyph.
// Layers are listed bottom to top.
type BaseGlyph struct {
	Glyph  glyph.ID
	Layers []Layer
}

// Table is the information from a "COLR" table.
//
// BaseGlyphs holds the version 0 layers.  If ColorGlyphs or LayerList are
// non-empty, a version 1 table is written.
type Table struct {
	BaseGlyphs []BaseGlyph

	ColorGlyphs []ColorGlyph
	LayerList   []Paint
}

const (
	headerSize    = 14
	baseGlyphSize = 6
	layerSize     = 4
)

// Encode converts the table to its binary form.  Base glyph records and
// colour glyphs are sorted by glyph ID.
func (t *Table) Encode() ([]byte, error) {
	base := make([]BaseGlyph, len(t.BaseGlyphs))
	copy(base, t.BaseGlyphs)
	sort.SliceStable(base, func(i, j int) bool {
		return base[i].Glyph < base[j].Glyph
	})

	numLayers := 0
	for i, bg := range base {
		if i > 0 && base[i-1].Glyph == bg.Glyph {
			return nil, fmt.Errorf("sfnt/colr: duplicate base glyph %d", bg.Glyph)
		}
		if len(bg.Layers) > math.MaxUint16 {
			return nil, fmt.Errorf("sfnt/colr: too many layers for glyph %d", bg.Glyph)
		}
		numLayers += len(bg.Layers)
	}
	if len(base) > math.MaxUint16 {
		return nil, errors.New("sfnt/colr: too many base glyphs")
	}
	if numLayers > math.MaxUint16 {
		return nil, errors.New("sfnt/colr: too many layers")
	}

	isV1 := len(t.ColorGlyphs) > 0 || len(t.LayerList) > 0

	baseOffset := headerSize
	if isV1 {
		baseOffset = headerSizeV1
	}
	layerOffset := baseOffset + baseGlyphSize*len(base)
	buf := make([]byte, layerOffset+layerSize*numLayers)

	binary.BigEndian.PutUint16(buf[0:], 0) // version
	binary.BigEndian.PutUint16(buf[2:], uint16(len(base)))
	binary.BigEndian.PutUint32(buf[4:], uint32(baseOffset))
	binary.BigEndian.PutUint32(buf[8:], uint32(layerOffset))
	binary.BigEndian.PutUint16(buf[12:], uint16(numLayers))

	first := 0
	for i, bg := range base {
		pos := baseOffset + baseGlyphSize*i
		binary.BigEndian.PutUint16(buf[pos:], uint16(bg.Glyph))
		binary.BigEndian.PutUint16(buf[pos+2:], uint16(first))
		binary.BigEndian.PutUint16(buf[pos+4:], uint16(len(bg.Layers)))
		for j, l := range bg.Layers {
			pos := layerOffset + layerSize*(first+j)
			binary.BigEndian.PutUint16(buf[pos:], uint16(l.Glyph))
			binary.BigEndian.PutUint16(buf[pos+2:], l.PaletteIndex)
		}
		first += len(bg.Layers)
	}

	if isV1 {
		return t.appendV1(buf)
	}
	return buf, nil
}

// Decode reads a "COLR" table.
func Decode(data []byte) (*Table, error) {
	if len(data) < headerSize {
		return nil, errMalformed
	}
	version := binary.BigEndian.Uint16(data[0:])
	if version > 1 {
		return nil, fmt.Errorf("sfnt/colr: unsupported version %d", version)
	}
	numBase := int(binary.BigEndian.Uint16(data[2:]))
	baseOffset := int64(binary.BigEndian.Uint32(data[4:]))
	layerOffset := int64(binary.BigEndian.Uint32(data[8:]))
	numLayers := int(binary.BigEndian.Uint16(data[12:]))

	if numBase > 0 && baseOffset+baseGlyphSize*int64(numBase) > int64(len(data)) {
		return nil, errMalformed
	}
	if numLayers > 0 && layerOffset+layerSize*int64(numLayers) > int64(len(data)) {
		return nil, errMalformed
	}

	t := &Table{
		BaseGlyphs: make([]BaseGlyph, numBase),
	}
	for i := range t.BaseGlyphs {
		pos := int(baseOffset) + baseGlyphSize*i
		gid := glyph.ID(binary.BigEndian.Uint16(data[pos:]))
		first := int(binary.BigEndian.Uint16(data[pos+2:]))
		count := int(binary.BigEndian.Uint16(data[pos+4:]))
		if i > 0 && t.BaseGlyphs[i-1].Glyph >= gid {
			return nil, errors.New("sfnt/colr: base glyphs not sorted")
		}
		if first+count > numLayers {
			return nil, errMalformed
		}

		layers := make([]Layer, count)
		for j := range layers {
			pos := int(layerOffset) + layerSize*(first+j)
			layers[j] = Layer{
				Glyph:        glyph.ID(binary.BigEndian.Uint16(data[pos:])),
				PaletteIndex: binary.BigEndian.Uint16(data[pos+2:]),
			}
		}
		t.BaseGlyphs[i] = BaseGlyph{Glyph: gid, Layers: layers}
	}

	if version == 1 {
		err := t.decodeV1(data)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Lookup returns the version 0 layers for the given glyph, or nil if the
// glyph has no colour layers.
func (t *Table) Lookup(gid glyph.ID) []Layer {
	for _, bg := range t.BaseGlyphs {
		if bg.Glyph == gid {
			return bg.Layers
		}
	}
	return nil
}

// LookupPaint returns the root of the version 1 paint graph for the given
// glyph, or nil if there is none.
func (t *Table) LookupPaint(gid glyph.ID) Paint {
	for _, cg := range t.ColorGlyphs {
		if cg.Glyph == gid {
			return cg.Paint
		}
	}
	return nil
}

// CheckPalette verifies that all layers and paints refer either to the
// foreground colour or to one of the first numEntries palette entries.
func (t *Table) CheckPalette(numEntries int) error {
	for _, bg := range t.BaseGlyphs {
		for _, l := range bg.Layers {
			if l.PaletteIndex != Foreground && int(l.PaletteIndex) >= numEntries {
				return fmt.Errorf("sfnt/colr: glyph %d uses palette entry %d of %d",
					bg.Glyph, l.PaletteIndex, numEntries)
			}
		}
	}

	check := func(idx uint16) error {
		if idx != Foreground && int(idx) >= numEntries {
			return fmt.Errorf("sfnt/colr: paint uses palette entry %d of %d",
				idx, numEntries)
		}
		return nil
	}
	return t.walk(func(p Paint) error {
		switch p := p.(type) {
		case *PaintSolid:
			return check(p.PaletteIndex)
		case *PaintLinearGradient:
			return checkStops(p.ColorLine.Stops, check)
		case *PaintRadialGradient:
			return checkStops(p.ColorLine.Stops, check)
		}
		return nil
	})
}

func checkStops(stops []ColorStop, check func(uint16) error) error {
	for _, stop := range stops {
		if err := check(stop.PaletteIndex); err != nil {
			return err
		}
	}
	return nil
}

// walk calls fn for every paint in the colour glyphs and the layer list.
func (t *Table) walk(fn func(Paint) error) error {
	for _, cg := range t.ColorGlyphs {
		if err := walkPaint(cg.Paint, fn); err != nil {
			return err
		}
	}
	for _, p := range t.LayerList {
		if err := walkPaint(p, fn); err != nil {
			return err
		}
	}
	return nil
}

// CheckGlyphs verifies that all glyph IDs are smaller than numGlyphs.
func (t *Table) CheckGlyphs(numGlyphs int) error {
	for _, bg := range t.BaseGlyphs {
		if int(bg.Glyph) >= numGlyphs {
			return fmt.Errorf("sfnt/colr: base glyph %d out of range", bg.Glyph)
		}
		for _, l := range bg.Layers {
			if int(l.Glyph) >= numGlyphs {
				return fmt.Errorf("sfnt/colr: layer glyph %d out of range", l.Glyph)
			}
		}
	}

	for _, cg := range t.ColorGlyphs {
		if int(cg.Glyph) >= numGlyphs {
			return fmt.Errorf("sfnt/colr: colour glyph %d out of range", cg.Glyph)
		}
	}
	return t.walk(func(p Paint) error {
		var gid glyph.ID
		switch p := p.(type) {
		case *PaintGlyph:
			gid = p.Glyph
		case *PaintColrGlyph:
			gid = p.Glyph
		default:
			return nil
		}
		if int(gid) >= numGlyphs {
			return fmt.Errorf("sfnt/colr: paint glyph %d out of range", gid)
		}
		return nil
	})
}

var errMalformed = errors.New("sfnt/colr: malformed table")
