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
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/sfnt/glyph"
)

// ColorGlyph maps a base glyph to the root of a version 1 paint graph.
type ColorGlyph struct {
	Glyph glyph.ID
	Paint Paint
}

// Paint is a node in a version 1 paint graph.
//
// The following types implement Paint: [*PaintColrLayers], [*PaintSolid],
// [*PaintLinearGradient], [*PaintRadialGradient], [*PaintGlyph],
// [*PaintColrGlyph], [*PaintTransform], [*PaintTranslate] and
// [*PaintComposite].
type Paint interface {
	format() uint8
}

// PaintColrLayers draws NumLayers paints from the layer list, starting at
// FirstLayer, bottom to top.
type PaintColrLayers struct {
	FirstLayer int
	NumLayers  int
}

// PaintSolid fills with a palette colour.  Alpha is multiplied with the
// alpha value of the palette entry and must be between 0 and 1.
type PaintSolid struct {
	PaletteIndex uint16
	Alpha        float64
}

// Extend selects how a gradient is continued outside the range of its
// colour stops.
type Extend uint8

// These are the valid values for [Extend].
const (
	ExtendPad     Extend = 0
	ExtendRepeat  Extend = 1
	ExtendReflect Extend = 2
)

// ColorStop is one colour of a gradient.
type ColorStop struct {
	Offset       float64
	PaletteIndex uint16
	Alpha        float64
}

// ColorLine describes the colours of a gradient.
type ColorLine struct {
	Extend Extend
	Stops  []ColorStop
}

// PaintLinearGradient fills with a linear gradient.  The gradient runs from
// (X0, Y0) to (X1, Y1), and (X2, Y2) fixes the rotation of the colour
// lines.
type PaintLinearGradient struct {
	ColorLine      ColorLine
	X0, Y0, X1, Y1 int16
	X2, Y2         int16
}

// PaintRadialGradient fills with a gradient between two circles.
type PaintRadialGradient struct {
	ColorLine ColorLine
	X0, Y0    int16
	R0        uint16
	X1, Y1    int16
	R1        uint16
}

// PaintGlyph clips Paint to the outline of a glyph.
type PaintGlyph struct {
	Glyph glyph.ID
	Paint Paint
}

// PaintColrGlyph reuses the paint graph of another base glyph.
type PaintColrGlyph struct {
	Glyph glyph.ID
}

// PaintTransform applies an affine transformation to Paint.
// The coefficients are stored with 16.16 fixed point precision.
type PaintTransform struct {
	Paint  Paint
	Matrix matrix.Matrix
}

// PaintTranslate shifts Paint by (Dx, Dy) font design units.
type PaintTranslate struct {
	Paint  Paint
	Dx, Dy int16
}

// CompositeMode selects how the two paints of a [PaintComposite] are
// combined.  The values from 0 (clear) to 27 (luminosity) are defined.
type CompositeMode uint8

// These are some of the valid values for [CompositeMode].
const (
	CompositeClear    CompositeMode = 0
	CompositeSrc      CompositeMode = 1
	CompositeDest     CompositeMode = 2
	CompositeSrcOver  CompositeMode = 3
	CompositeMultiply CompositeMode = 23
)

const maxCompositeMode = 27

// PaintComposite draws Source over Backdrop using the given mode.
type PaintComposite struct {
	Source   Paint
	Mode     CompositeMode
	Backdrop Paint
}

const (
	formatColrLayers     = 1
	formatSolid          = 2
	formatLinearGradient = 4
	formatRadialGradient = 6
	formatGlyph          = 10
	formatColrGlyph      = 11
	formatTransform      = 12
	formatTranslate      = 14
	formatComposite      = 32
)

func (*PaintColrLayers) format() uint8     { return formatColrLayers }
func (*PaintSolid) format() uint8          { return formatSolid }
func (*PaintLinearGradient) format() uint8 { return formatLinearGradient }
func (*PaintRadialGradient) format() uint8 { return formatRadialGradient }
func (*PaintGlyph) format() uint8          { return formatGlyph }
func (*PaintColrGlyph) format() uint8      { return formatColrGlyph }
func (*PaintTransform) format() uint8      { return formatTransform }
func (*PaintTranslate) format() uint8      { return formatTranslate }
func (*PaintComposite) format() uint8      { return formatComposite }

// maxDepth limits the nesting of paint graphs.
const maxDepth = 64

// walkPaint calls fn for p and all paints reachable from p through
// offsets.  Layers referenced by PaintColrLayers are not followed.
func walkPaint(p Paint, fn func(Paint) error) error {
	return walkPaintDepth(p, fn, 0)
}

func walkPaintDepth(p Paint, fn func(Paint) error, depth int) error {
	if depth > maxDepth {
		return errTooDeep
	}
	if err := fn(p); err != nil {
		return err
	}
	var children []Paint
	switch p := p.(type) {
	case *PaintGlyph:
		children = []Paint{p.Paint}
	case *PaintTransform:
		children = []Paint{p.Paint}
	case *PaintTranslate:
		children = []Paint{p.Paint}
	case *PaintComposite:
		children = []Paint{p.Source, p.Backdrop}
	}
	for _, child := range children {
		if err := walkPaintDepth(child, fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}
