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
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/sfnt/glyph"
)

const (
	headerSizeV1 = 34
	maxOffset24  = 1<<24 - 1
)

// appendV1 appends the BaseGlyphList, the LayerList and all paint tables
// to buf, and fills in the version 1 header fields.
func (t *Table) appendV1(buf []byte) ([]byte, error) {
	glyphs := make([]ColorGlyph, len(t.ColorGlyphs))
	copy(glyphs, t.ColorGlyphs)
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].Glyph < glyphs[j].Glyph
	})
	for i := 1; i < len(glyphs); i++ {
		if glyphs[i-1].Glyph == glyphs[i].Glyph {
			return nil, fmt.Errorf("sfnt/colr: duplicate colour glyph %d", glyphs[i].Glyph)
		}
	}

	w := &paintWriter{numLayers: len(t.LayerList)}
	glyphPaints := make([]int, len(glyphs))
	for i, cg := range glyphs {
		pos, err := w.write(cg.Paint, 0)
		if err != nil {
			return nil, fmt.Errorf("sfnt/colr: glyph %d: %w", cg.Glyph, err)
		}
		glyphPaints[i] = pos
	}
	layerPaints := make([]int, len(t.LayerList))
	for i, p := range t.LayerList {
		pos, err := w.write(p, 0)
		if err != nil {
			return nil, fmt.Errorf("sfnt/colr: layer %d: %w", i, err)
		}
		layerPaints[i] = pos
	}

	glyphListStart := len(buf)
	layerListStart := glyphListStart + 4 + 6*len(glyphs)
	paintStart := layerListStart
	if len(t.LayerList) > 0 {
		paintStart += 4 + 4*len(t.LayerList)
	}
	if int64(paintStart)+int64(len(w.buf)) > math.MaxUint32 {
		return nil, errors.New("sfnt/colr: table too large")
	}

	buf = binary.BigEndian.AppendUint32(buf, uint32(len(glyphs)))
	for i, cg := range glyphs {
		buf = binary.BigEndian.AppendUint16(buf, uint16(cg.Glyph))
		buf = binary.BigEndian.AppendUint32(buf, uint32(paintStart+glyphPaints[i]-glyphListStart))
	}
	if len(t.LayerList) > 0 {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(t.LayerList)))
		for _, pos := range layerPaints {
			buf = binary.BigEndian.AppendUint32(buf, uint32(paintStart+pos-layerListStart))
		}
		binary.BigEndian.PutUint32(buf[18:], uint32(layerListStart))
	}
	buf = append(buf, w.buf...)

	binary.BigEndian.PutUint16(buf[0:], 1) // version
	binary.BigEndian.PutUint32(buf[14:], uint32(glyphListStart))
	return buf, nil
}

// paintWriter serializes paint graphs.  Child paints are written after
// their parents, so that all offsets are positive.
type paintWriter struct {
	buf       []byte
	numLayers int
}

func (w *paintWriter) write(p Paint, depth int) (int, error) {
	if depth > maxDepth {
		return 0, errTooDeep
	}
	pos := len(w.buf)

	switch p := p.(type) {
	case *PaintColrLayers:
		if p.NumLayers < 0 || p.NumLayers > math.MaxUint8 ||
			p.FirstLayer < 0 || p.FirstLayer+p.NumLayers > w.numLayers {
			return 0, fmt.Errorf("invalid layer range %d+%d", p.FirstLayer, p.NumLayers)
		}
		w.buf = append(w.buf, formatColrLayers, uint8(p.NumLayers))
		w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(p.FirstLayer))

	case *PaintSolid:
		alpha, err := toAlpha(p.Alpha)
		if err != nil {
			return 0, err
		}
		w.buf = append(w.buf, formatSolid)
		w.buf = binary.BigEndian.AppendUint16(w.buf, p.PaletteIndex)
		w.buf = binary.BigEndian.AppendUint16(w.buf, alpha)

	case *PaintLinearGradient:
		w.buf = append(w.buf, formatLinearGradient, 0, 0, 0)
		for _, x := range []int16{p.X0, p.Y0, p.X1, p.Y1, p.X2, p.Y2} {
			w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(x))
		}
		if err := w.writeColorLine(pos, &p.ColorLine); err != nil {
			return 0, err
		}

	case *PaintRadialGradient:
		w.buf = append(w.buf, formatRadialGradient, 0, 0, 0)
		w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(p.X0))
		w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(p.Y0))
		w.buf = binary.BigEndian.AppendUint16(w.buf, p.R0)
		w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(p.X1))
		w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(p.Y1))
		w.buf = binary.BigEndian.AppendUint16(w.buf, p.R1)
		if err := w.writeColorLine(pos, &p.ColorLine); err != nil {
			return 0, err
		}

	case *PaintGlyph:
		w.buf = append(w.buf, formatGlyph, 0, 0, 0)
		w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(p.Glyph))
		if err := w.writeChild(pos, 1, p.Paint, depth); err != nil {
			return 0, err
		}

	case *PaintColrGlyph:
		w.buf = append(w.buf, formatColrGlyph)
		w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(p.Glyph))

	case *PaintTransform:
		w.buf = append(w.buf, formatTransform, 0, 0, 0, 0, 0, 0)
		affine := len(w.buf)
		for _, x := range p.Matrix {
			v, err := toFixed(x)
			if err != nil {
				return 0, err
			}
			w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(v))
		}
		putOffset24(w.buf[pos+4:], affine-pos)
		if err := w.writeChild(pos, 1, p.Paint, depth); err != nil {
			return 0, err
		}

	case *PaintTranslate:
		w.buf = append(w.buf, formatTranslate, 0, 0, 0)
		w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(p.Dx))
		w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(p.Dy))
		if err := w.writeChild(pos, 1, p.Paint, depth); err != nil {
			return 0, err
		}

	case *PaintComposite:
		if p.Mode > maxCompositeMode {
			return 0, fmt.Errorf("invalid composite mode %d", p.Mode)
		}
		w.buf = append(w.buf, formatComposite, 0, 0, 0, uint8(p.Mode), 0, 0, 0)
		if err := w.writeChild(pos, 1, p.Source, depth); err != nil {
			return 0, err
		}
		if err := w.writeChild(pos, 5, p.Backdrop, depth); err != nil {
			return 0, err
		}

	case nil:
		return 0, errors.New("missing paint")
	default:
		return 0, fmt.Errorf("unsupported paint type %T", p)
	}
	return pos, nil
}

// writeChild appends the child paint and stores its offset, relative to
// the parent at pos, at position pos+field.
func (w *paintWriter) writeChild(pos, field int, child Paint, depth int) error {
	childPos, err := w.write(child, depth+1)
	if err != nil {
		return err
	}
	if childPos-pos > maxOffset24 {
		return errors.New("paint offset overflow")
	}
	putOffset24(w.buf[pos+field:], childPos-pos)
	return nil
}

// writeColorLine appends a ColorLine for the gradient at pos.  The offset
// field of all gradient formats directly follows the format byte.
func (w *paintWriter) writeColorLine(pos int, cl *ColorLine) error {
	if cl.Extend > ExtendReflect {
		return fmt.Errorf("invalid extend mode %d", cl.Extend)
	}
	if len(cl.Stops) > math.MaxUint16 {
		return errors.New("too many colour stops")
	}
	line := len(w.buf)
	if line-pos > maxOffset24 {
		return errors.New("paint offset overflow")
	}
	w.buf = append(w.buf, uint8(cl.Extend))
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(len(cl.Stops)))
	for _, stop := range cl.Stops {
		offset, err := toF2Dot14(stop.Offset)
		if err != nil {
			return err
		}
		alpha, err := toAlpha(stop.Alpha)
		if err != nil {
			return err
		}
		w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(offset))
		w.buf = binary.BigEndian.AppendUint16(w.buf, stop.PaletteIndex)
		w.buf = binary.BigEndian.AppendUint16(w.buf, alpha)
	}
	putOffset24(w.buf[pos+1:], line-pos)
	return nil
}

// decodeV1 reads the BaseGlyphList and the LayerList of a version 1 table.
func (t *Table) decodeV1(data []byte) error {
	if len(data) < headerSizeV1 {
		return errMalformed
	}
	glyphListOffset := int64(binary.BigEndian.Uint32(data[14:]))
	layerListOffset := int64(binary.BigEndian.Uint32(data[18:]))
	r := &paintReader{data: data}

	if layerListOffset != 0 {
		if layerListOffset+4 > int64(len(data)) {
			return errMalformed
		}
		numLayers := int64(binary.BigEndian.Uint32(data[layerListOffset:]))
		if layerListOffset+4+4*numLayers > int64(len(data)) {
			return errMalformed
		}
		r.numLayers = int(numLayers)
		t.LayerList = make([]Paint, numLayers)
		for i := range t.LayerList {
			pos := layerListOffset + 4 + 4*int64(i)
			offset := int64(binary.BigEndian.Uint32(data[pos:]))
			p, err := r.read(layerListOffset+offset, 0)
			if err != nil {
				return err
			}
			t.LayerList[i] = p
		}
	}

	if glyphListOffset != 0 {
		if glyphListOffset+4 > int64(len(data)) {
			return errMalformed
		}
		numGlyphs := int64(binary.BigEndian.Uint32(data[glyphListOffset:]))
		if glyphListOffset+4+6*numGlyphs > int64(len(data)) {
			return errMalformed
		}
		t.ColorGlyphs = make([]ColorGlyph, numGlyphs)
		for i := range t.ColorGlyphs {
			pos := glyphListOffset + 4 + 6*int64(i)
			gid := glyph.ID(binary.BigEndian.Uint16(data[pos:]))
			if i > 0 && t.ColorGlyphs[i-1].Glyph >= gid {
				return errors.New("sfnt/colr: colour glyphs not sorted")
			}
			offset := int64(binary.BigEndian.Uint32(data[pos+2:]))
			p, err := r.read(glyphListOffset+offset, 0)
			if err != nil {
				return err
			}
			t.ColorGlyphs[i] = ColorGlyph{Glyph: gid, Paint: p}
		}
	}
	return nil
}

type paintReader struct {
	data      []byte
	numLayers int
}

func (r *paintReader) read(pos int64, depth int) (Paint, error) {
	if depth > maxDepth {
		return nil, errTooDeep
	}
	if pos >= int64(len(r.data)) {
		return nil, errMalformed
	}
	data := r.data[pos:]

	format := data[0]
	size, ok := paintSize[format]
	if !ok {
		return nil, fmt.Errorf("sfnt/colr: unsupported paint format %d", format)
	}
	if len(data) < size {
		return nil, errMalformed
	}

	switch format {
	case formatColrLayers:
		p := &PaintColrLayers{
			NumLayers:  int(data[1]),
			FirstLayer: int(binary.BigEndian.Uint32(data[2:])),
		}
		if int64(p.FirstLayer)+int64(p.NumLayers) > int64(r.numLayers) {
			return nil, errMalformed
		}
		return p, nil

	case formatSolid:
		return &PaintSolid{
			PaletteIndex: binary.BigEndian.Uint16(data[1:]),
			Alpha:        fromF2Dot14(data[3:]),
		}, nil

	case formatLinearGradient:
		cl, err := r.readColorLine(pos, data)
		if err != nil {
			return nil, err
		}
		p := &PaintLinearGradient{ColorLine: cl}
		for i, x := range []*int16{&p.X0, &p.Y0, &p.X1, &p.Y1, &p.X2, &p.Y2} {
			*x = int16(binary.BigEndian.Uint16(data[4+2*i:]))
		}
		return p, nil

	case formatRadialGradient:
		cl, err := r.readColorLine(pos, data)
		if err != nil {
			return nil, err
		}
		return &PaintRadialGradient{
			ColorLine: cl,
			X0:        int16(binary.BigEndian.Uint16(data[4:])),
			Y0:        int16(binary.BigEndian.Uint16(data[6:])),
			R0:        binary.BigEndian.Uint16(data[8:]),
			X1:        int16(binary.BigEndian.Uint16(data[10:])),
			Y1:        int16(binary.BigEndian.Uint16(data[12:])),
			R1:        binary.BigEndian.Uint16(data[14:]),
		}, nil

	case formatGlyph:
		child, err := r.readChild(pos, data[1:], depth)
		if err != nil {
			return nil, err
		}
		return &PaintGlyph{
			Glyph: glyph.ID(binary.BigEndian.Uint16(data[4:])),
			Paint: child,
		}, nil

	case formatColrGlyph:
		return &PaintColrGlyph{Glyph: glyph.ID(binary.BigEndian.Uint16(data[1:]))}, nil

	case formatTransform:
		child, err := r.readChild(pos, data[1:], depth)
		if err != nil {
			return nil, err
		}
		affine := getOffset24(data[4:])
		if affine == 0 || len(data) < affine+24 {
			return nil, errMalformed
		}
		var m matrix.Matrix
		for i := range m {
			v := int32(binary.BigEndian.Uint32(data[affine+4*i:]))
			m[i] = float64(v) / (1 << 16)
		}
		return &PaintTransform{Paint: child, Matrix: m}, nil

	case formatTranslate:
		child, err := r.readChild(pos, data[1:], depth)
		if err != nil {
			return nil, err
		}
		return &PaintTranslate{
			Paint: child,
			Dx:    int16(binary.BigEndian.Uint16(data[4:])),
			Dy:    int16(binary.BigEndian.Uint16(data[6:])),
		}, nil

	default: // formatComposite
		source, err := r.readChild(pos, data[1:], depth)
		if err != nil {
			return nil, err
		}
		backdrop, err := r.readChild(pos, data[5:], depth)
		if err != nil {
			return nil, err
		}
		mode := CompositeMode(data[4])
		if mode > maxCompositeMode {
			return nil, errMalformed
		}
		return &PaintComposite{Source: source, Mode: mode, Backdrop: backdrop}, nil
	}
}

// readChild reads the paint at the Offset24 stored in field.  Offsets are
// relative to the parent paint at pos.
func (r *paintReader) readChild(pos int64, field []byte, depth int) (Paint, error) {
	offset := getOffset24(field)
	if offset == 0 {
		return nil, errMalformed
	}
	return r.read(pos+int64(offset), depth+1)
}

func (r *paintReader) readColorLine(pos int64, data []byte) (ColorLine, error) {
	offset := getOffset24(data[1:])
	if offset == 0 || len(data) < offset+3 {
		return ColorLine{}, errMalformed
	}
	line := data[offset:]
	numStops := int(binary.BigEndian.Uint16(line[1:]))
	if len(line) < 3+6*numStops {
		return ColorLine{}, errMalformed
	}
	cl := ColorLine{
		Extend: Extend(line[0]),
		Stops:  make([]ColorStop, numStops),
	}
	for i := range cl.Stops {
		stop := line[3+6*i:]
		cl.Stops[i] = ColorStop{
			Offset:       fromF2Dot14(stop),
			PaletteIndex: binary.BigEndian.Uint16(stop[2:]),
			Alpha:        fromF2Dot14(stop[4:]),
		}
	}
	return cl, nil
}

// paintSize gives the size of the fixed part of each supported paint format.
var paintSize = map[uint8]int{
	formatColrLayers:     6,
	formatSolid:          5,
	formatLinearGradient: 16,
	formatRadialGradient: 16,
	formatGlyph:          6,
	formatColrGlyph:      3,
	formatTransform:      7,
	formatTranslate:      8,
	formatComposite:      8,
}

func putOffset24(buf []byte, offset int) {
	buf[0] = byte(offset >> 16)
	buf[1] = byte(offset >> 8)
	buf[2] = byte(offset)
}

func getOffset24(buf []byte) int {
	return int(buf[0])<<16 | int(buf[1])<<8 | int(buf[2])
}

func toF2Dot14(x float64) (int16, error) {
	v := math.Round(x * (1 << 14))
	if !(v >= math.MinInt16 && v <= math.MaxInt16) {
		return 0, fmt.Errorf("value %g out of range", x)
	}
	return int16(v), nil
}

func toAlpha(x float64) (uint16, error) {
	if !(x >= 0 && x <= 1) {
		return 0, fmt.Errorf("invalid alpha %g", x)
	}
	v, _ := toF2Dot14(x)
	return uint16(v), nil
}

func fromF2Dot14(buf []byte) float64 {
	return float64(int16(binary.BigEndian.Uint16(buf))) / (1 << 14)
}

func toFixed(x float64) (int32, error) {
	v := math.Round(x * (1 << 16))
	if !(v >= math.MinInt32 && v <= math.MaxInt32) {
		return 0, fmt.Errorf("value %g out of range", x)
	}
	return int32(v), nil
}

var errTooDeep = errors.New("sfnt/colr: paint graph too deep")
