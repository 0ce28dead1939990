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

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is an sRGB colour with straight (not premultiplied) alpha.
type Color struct {
	R, G, B, A uint8
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A) * 0x101
	r = uint32(c.R) * 0x101 * a / 0xFFFF
	g = uint32(c.G) * 0x101 * a / 0xFFFF
	b = uint32(c.B) * 0x101 * a / 0xFFFF
	return
}

func (c Color) String() string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor converts a CSS colour specification to a Color.
//
// The following forms are understood: "#rgb", "#rgba", "#rrggbb",
// "#rrggbbaa", "rgb(r, g, b)", "rgba(r, g, b, alpha)" with alpha between
// 0 and 1, the SVG colour keywords together with "rebeccapurple", and
// "transparent".
func ParseColor(s string) (Color, error) {
	spec := strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.HasPrefix(spec, "#"):
		c, ok := parseHex(spec[1:])
		if ok {
			return c, nil
		}
	case strings.HasPrefix(spec, "rgba(") && strings.HasSuffix(spec, ")"):
		c, ok := parseFunc(spec[5:len(spec)-1], true)
		if ok {
			return c, nil
		}
	case strings.HasPrefix(spec, "rgb(") && strings.HasSuffix(spec, ")"):
		c, ok := parseFunc(spec[4:len(spec)-1], false)
		if ok {
			return c, nil
		}
	case spec == "transparent":
		return Color{}, nil
	case spec == "rebeccapurple":
		return Color{R: 0x66, G: 0x33, B: 0x99, A: 0xFF}, nil
	default:
		if c, ok := colornames.Map[spec]; ok {
			return Color{R: c.R, G: c.G, B: c.B, A: 0xFF}, nil
		}
	}
	return Color{}, fmt.Errorf("sfnt/cpal: invalid colour %q", s)
}

func parseHex(digits string) (Color, bool) {
	var vals []uint8
	switch len(digits) {
	case 3, 4:
		for i := 0; i < len(digits); i++ {
			v, err := strconv.ParseUint(digits[i:i+1], 16, 8)
			if err != nil {
				return Color{}, false
			}
			vals = append(vals, uint8(v)*0x11)
		}
	case 6, 8:
		for i := 0; i < len(digits); i += 2 {
			v, err := strconv.ParseUint(digits[i:i+2], 16, 8)
			if err != nil {
				return Color{}, false
			}
			vals = append(vals, uint8(v))
		}
	default:
		return Color{}, false
	}
	c := Color{R: vals[0], G: vals[1], B: vals[2], A: 0xFF}
	if len(vals) == 4 {
		c.A = vals[3]
	}
	return c, true
}

func parseFunc(args string, hasAlpha bool) (Color, bool) {
	parts := strings.Split(args, ",")
	if hasAlpha && len(parts) != 4 || !hasAlpha && len(parts) != 3 {
		return Color{}, false
	}
	var rgb [3]uint8
	for i := range rgb {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
		if err != nil {
			return Color{}, false
		}
		rgb[i] = uint8(v)
	}
	c := Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF}
	if hasAlpha {
		alpha, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || !(alpha >= 0 && alpha <= 1) {
			return Color{}, false
		}
		c.A = uint8(math.Round(alpha * 255))
	}
	return c, true
}
