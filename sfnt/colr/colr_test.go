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

package colr

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/geom/matrix"
)

func TestEncodeLayout(t *testing.T) {
	table := &Table{
		BaseGlyphs: []BaseGlyph{
			{Glyph: 7, Layers: []Layer{{Glyph: 8, PaletteIndex: 0}, {Glyph: 9, PaletteIndex: Foreground}}},
		},
	}
	data, err := table.Encode()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0, 0, // version
		0, 1, // numBaseGlyphRecords
		0, 0, 0, 14, // baseGlyphRecordsOffset
		0, 0, 0, 20, // layerRecordsOffset
		0, 2, // numLayerRecords
		0, 7, 0, 0, 0, 2, // base glyph record
		0, 8, 0, 0, // layer 0
		0, 9, 0xFF, 0xFF, // layer 1
	}
	if !bytes.Equal(data, want) {
		t.Errorf("got % x, want % x", data, want)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []*Table{
		{},
		{BaseGlyphs: []BaseGlyph{{Glyph: 1}}},
		{BaseGlyphs: []BaseGlyph{
			{Glyph: 3, Layers: []Layer{{Glyph: 10, PaletteIndex: 2}}},
			{Glyph: 5, Layers: []Layer{{Glyph: 11, PaletteIndex: 0}, {Glyph: 12, PaletteIndex: 1}}},
			{Glyph: 200, Layers: []Layer{{Glyph: 13, PaletteIndex: Foreground}}},
		}},
	}
	for i, table := range cases {
		data, err := table.Encode()
		if err != nil {
			t.Errorf("%d: %v", i, err)
			continue
		}
		got, err := Decode(data)
		if err != nil {
			t.Errorf("%d: %v", i, err)
			continue
		}
		if d := cmp.Diff(table, got, cmpopts.EquateEmpty()); d != "" {
			t.Errorf("%d: round trip failed (-want +got):\n%s", i, d)
		}
	}
}

func TestEncodeSorts(t *testing.T) {
	table := &Table{
		BaseGlyphs: []BaseGlyph{
			{Glyph: 9, Layers: []Layer{{Glyph: 1, PaletteIndex: 1}}},
			{Glyph: 4, Layers: []Layer{{Glyph: 2, PaletteIndex: 2}}},
		},
	}
	data, err := table.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.BaseGlyphs[0].Glyph != 4 || got.BaseGlyphs[1].Glyph != 9 {
		t.Errorf("base glyphs not sorted: %v", got.BaseGlyphs)
	}
	if table.BaseGlyphs[0].Glyph != 9 {
		t.Error("Encode modified the table")
	}
	if layers := got.Lookup(9); len(layers) != 1 || layers[0].Glyph != 1 {
		t.Errorf("wrong layers for glyph 9: %v", layers)
	}
	if layers := got.Lookup(5); layers != nil {
		t.Errorf("unexpected layers for glyph 5: %v", layers)
	}
}

func TestEncodeDuplicate(t *testing.T) {
	table := &Table{
		BaseGlyphs: []BaseGlyph{{Glyph: 1}, {Glyph: 1}},
	}
	if _, err := table.Encode(); err == nil {
		t.Error("expected an error for duplicate base glyphs")
	}
}

func TestDecodeMalformed(t *testing.T) {
	good, err := (&Table{
		BaseGlyphs: []BaseGlyph{
			{Glyph: 1, Layers: []Layer{{Glyph: 2, PaletteIndex: 0}}},
			{Glyph: 3, Layers: []Layer{{Glyph: 4, PaletteIndex: 1}}},
		},
	}).Encode()
	if err != nil {
		t.Fatal(err)
	}

	badVersion := bytes.Clone(good)
	badVersion[1] = 7
	unsorted := bytes.Clone(good)
	unsorted[15] = 5 // first base glyph becomes 5 > 3
	badRange := bytes.Clone(good)
	badRange[17] = 2 // first layer index of the first record

	cases := map[string][]byte{
		"empty":       nil,
		"short":       good[:13],
		"truncated":   good[:len(good)-2],
		"bad version": badVersion,
		"unsorted":    unsorted,
		"bad range":   badRange,
	}
	for name, data := range cases {
		if _, err := Decode(data); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestCheck(t *testing.T) {
	table := &Table{
		BaseGlyphs: []BaseGlyph{
			{Glyph: 3, Layers: []Layer{{Glyph: 4, PaletteIndex: 1}, {Glyph: 5, PaletteIndex: Foreground}}},
		},
	}
	if err := table.CheckPalette(2); err != nil {
		t.Error(err)
	}
	if err := table.CheckPalette(1); err == nil {
		t.Error("expected a palette error")
	}
	if err := table.CheckGlyphs(6); err != nil {
		t.Error(err)
	}
	if err := table.CheckGlyphs(5); err == nil {
		t.Error("expected a glyph range error")
	}
	if err := table.CheckGlyphs(3); err == nil {
		t.Error("expected a base glyph range error")
	}
}

func TestEncodeLayoutV1(t *testing.T) {
	table := &Table{
		ColorGlyphs: []ColorGlyph{
			{Glyph: 5, Paint: &PaintGlyph{Glyph: 6, Paint: &PaintSolid{PaletteIndex: 2, Alpha: 1}}},
		},
	}
	data, err := table.Encode()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0, 1, // version
		0, 0, // numBaseGlyphRecords
		0, 0, 0, 34, // baseGlyphRecordsOffset
		0, 0, 0, 34, // layerRecordsOffset
		0, 0, // numLayerRecords
		0, 0, 0, 34, // baseGlyphListOffset
		0, 0, 0, 0, // layerListOffset
		0, 0, 0, 0, // clipListOffset
		0, 0, 0, 0, // varIndexMapOffset
		0, 0, 0, 0, // itemVariationStoreOffset
		0, 0, 0, 1, // numBaseGlyphPaintRecords
		0, 5, 0, 0, 0, 10, // glyph 5, paint at offset 10
		10, 0, 0, 6, 0, 6, // PaintGlyph
		2, 0, 2, 0x40, 0x00, // PaintSolid
	}
	if !bytes.Equal(data, want) {
		t.Errorf("got % x, want % x", data, want)
	}
}

func testTableV1() *Table {
	stops := ColorLine{
		Extend: ExtendReflect,
		Stops: []ColorStop{
			{Offset: 0, PaletteIndex: 0, Alpha: 1},
			{Offset: 0.5, PaletteIndex: Foreground, Alpha: 0.25},
			{Offset: 1, PaletteIndex: 1, Alpha: 1},
		},
	}
	return &Table{
		BaseGlyphs: []BaseGlyph{
			{Glyph: 1, Layers: []Layer{{Glyph: 2, PaletteIndex: 0}}},
		},
		ColorGlyphs: []ColorGlyph{
			{Glyph: 3, Paint: &PaintColrLayers{FirstLayer: 0, NumLayers: 2}},
			{Glyph: 4, Paint: &PaintColrGlyph{Glyph: 3}},
			{Glyph: 7, Paint: &PaintTransform{
				Matrix: matrix.Matrix{1, 0, 0.5, 1, 10, -20},
				Paint: &PaintTranslate{
					Dx: -5, Dy: 300,
					Paint: &PaintGlyph{Glyph: 8, Paint: &PaintSolid{PaletteIndex: 1, Alpha: 0.5}},
				},
			}},
			{Glyph: 9, Paint: &PaintComposite{
				Source:   &PaintGlyph{Glyph: 10, Paint: &PaintSolid{PaletteIndex: 0, Alpha: 1}},
				Mode:     CompositeMultiply,
				Backdrop: &PaintGlyph{Glyph: 11, Paint: &PaintRadialGradient{ColorLine: stops, X0: 1, Y0: 2, R0: 3, X1: -4, Y1: 5, R1: 600}},
			}},
		},
		LayerList: []Paint{
			&PaintGlyph{Glyph: 12, Paint: &PaintLinearGradient{ColorLine: stops, X0: 0, Y0: 0, X1: 100, Y1: 0, X2: 0, Y2: -100}},
			&PaintGlyph{Glyph: 13, Paint: &PaintSolid{PaletteIndex: Foreground, Alpha: 1}},
		},
	}
}

func TestRoundTripV1(t *testing.T) {
	table := testTableV1()
	data, err := table.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(table, got, cmpopts.EquateEmpty()); d != "" {
		t.Errorf("round trip failed (-want +got):\n%s", d)
	}

	if p, ok := got.LookupPaint(4).(*PaintColrGlyph); !ok || p.Glyph != 3 {
		t.Errorf("wrong paint for glyph 4: %v", got.LookupPaint(4))
	}
	if p := got.LookupPaint(1); p != nil {
		t.Errorf("unexpected paint for glyph 1: %v", p)
	}
	if layers := got.Lookup(1); len(layers) != 1 {
		t.Errorf("wrong layers for glyph 1: %v", layers)
	}
}

func TestEncodeErrorsV1(t *testing.T) {
	loop := &PaintGlyph{Glyph: 1}
	loop.Paint = loop

	cases := map[string]*Table{
		"nil paint": {ColorGlyphs: []ColorGlyph{{Glyph: 1}}},
		"alpha":     {ColorGlyphs: []ColorGlyph{{Glyph: 1, Paint: &PaintSolid{Alpha: 1.5}}}},
		"nan alpha": {ColorGlyphs: []ColorGlyph{{Glyph: 1, Paint: &PaintSolid{Alpha: math.NaN()}}}},
		"duplicate": {ColorGlyphs: []ColorGlyph{
			{Glyph: 1, Paint: &PaintColrGlyph{Glyph: 2}},
			{Glyph: 1, Paint: &PaintColrGlyph{Glyph: 3}},
		}},
		"layer range": {
			ColorGlyphs: []ColorGlyph{{Glyph: 1, Paint: &PaintColrLayers{FirstLayer: 1, NumLayers: 1}}},
			LayerList:   []Paint{&PaintColrGlyph{Glyph: 2}},
		},
		"extend": {ColorGlyphs: []ColorGlyph{{Glyph: 1, Paint: &PaintLinearGradient{
			ColorLine: ColorLine{Extend: 3},
		}}}},
		"stop offset": {ColorGlyphs: []ColorGlyph{{Glyph: 1, Paint: &PaintLinearGradient{
			ColorLine: ColorLine{Stops: []ColorStop{{Offset: 5, Alpha: 1}}},
		}}}},
		"matrix": {ColorGlyphs: []ColorGlyph{{Glyph: 1, Paint: &PaintTransform{
			Matrix: matrix.Matrix{1e6, 0, 0, 1, 0, 0},
			Paint:  &PaintColrGlyph{Glyph: 2},
		}}}},
		"mode": {ColorGlyphs: []ColorGlyph{{Glyph: 1, Paint: &PaintComposite{
			Source:   &PaintColrGlyph{Glyph: 2},
			Mode:     100,
			Backdrop: &PaintColrGlyph{Glyph: 3},
		}}}},
		"cycle": {ColorGlyphs: []ColorGlyph{{Glyph: 1, Paint: loop}}},
	}
	for name, table := range cases {
		if _, err := table.Encode(); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestDecodeMalformedV1(t *testing.T) {
	good, err := (&Table{
		ColorGlyphs: []ColorGlyph{
			{Glyph: 5, Paint: &PaintGlyph{Glyph: 6, Paint: &PaintSolid{PaletteIndex: 2, Alpha: 1}}},
		},
	}).Encode()
	if err != nil {
		t.Fatal(err)
	}
	// The layout of good is shown in TestEncodeLayoutV1.

	shortHeader := bytes.Clone(good[:20])
	badGlyphList := bytes.Clone(good)
	badGlyphList[17] = 200
	nullChild := bytes.Clone(good)
	nullChild[47] = 0
	badFormat := bytes.Clone(good)
	badFormat[50] = 3 // PaintVarSolid
	badLayers := bytes.Clone(good)
	badLayers[44] = formatColrLayers
	badLayers[45] = 1

	cases := map[string][]byte{
		"short header":    shortHeader,
		"bad glyph list":  badGlyphList,
		"truncated paint": good[:len(good)-1],
		"null child":      nullChild,
		"bad format":      badFormat,
		"bad layers":      badLayers,
	}
	for name, data := range cases {
		if _, err := Decode(data); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestCheckV1(t *testing.T) {
	table := testTableV1()
	if err := table.CheckPalette(2); err != nil {
		t.Error(err)
	}
	if err := table.CheckPalette(1); err == nil {
		t.Error("expected a palette error")
	}
	if err := table.CheckGlyphs(14); err != nil {
		t.Error(err)
	}
	if err := table.CheckGlyphs(13); err == nil {
		t.Error("expected a glyph range error")
	}
}
