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

// Package cpal reads and writes "CPAL" tables.
//
// The "CPAL" table contains one or more palettes of colours, which are
// referenced by index from the "COLR" table.
//
// https://learn.microsoft.com/en-us/typography/opentype/spec/cpal
package cpal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Table is the information from a "CPAL" table.
// All palettes have the same number of entries.
type Table struct {
	NumPaletteEntries int
	Palettes          [][]Color
}

// Encode converts the table to its binary representation.
// A version 0 table is written.  Palettes with identical colours share
// their colour records.
func (t *Table) Encode() ([]byte, error) {
	if t.NumPaletteEntries < 0 {
		return nil, errors.New("sfnt/cpal: negative number of palette entries")
	}
	if t.NumPaletteEntries > math.MaxUint16 {
		return nil, errors.New("sfnt/cpal: too many palette entries")
	}
	if len(t.Palettes) > math.MaxUint16 {
		return nil, errors.New("sfnt/cpal: too many palettes")
	}

	var records []Color
	indices := make([]uint16, len(t.Palettes))
	seen := make(map[string]int)
	for i, pal := range t.Palettes {
		if len(pal) != t.NumPaletteEntries {
			return nil, fmt.Errorf("sfnt/cpal: palette %d has %d entries, expected %d",
				i, len(pal), t.NumPaletteEntries)
		}
		key := paletteKey(pal)
		first, ok := seen[key]
		if !ok {
			first = len(records)
			records = append(records, pal...)
			seen[key] = first
		}
		if first > math.MaxUint16 {
			return nil, errors.New("sfnt/cpal: too many colour records")
		}
		indices[i] = uint16(first)
	}
	if len(records) > math.MaxUint16 {
		return nil, errors.New("sfnt/cpal: too many colour records")
	}

	recordsOffset := 12 + 2*len(indices)
	buf := make([]byte, recordsOffset+4*len(records))
	binary.BigEndian.PutUint16(buf[0:], 0) // version
	binary.BigEndian.PutUint16(buf[2:], uint16(t.NumPaletteEntries))
	binary.BigEndian.PutUint16(buf[4:], uint16(len(t.Palettes)))
	binary.BigEndian.PutUint16(buf[6:], uint16(len(records)))
	binary.BigEndian.PutUint32(buf[8:], uint32(recordsOffset))
	for i, idx := range indices {
		binary.BigEndian.PutUint16(buf[12+2*i:], idx)
	}
	for i, c := range records {
		pos := recordsOffset + 4*i
		buf[pos] = c.B
		buf[pos+1] = c.G
		buf[pos+2] = c.R
		buf[pos+3] = c.A
	}
	return buf, nil
}

// Decode reads the binary representation of a "CPAL" table.
// Versions 0 and 1 are supported; the version 1 palette types, labels
// and entry labels are ignored.
func Decode(data []byte) (*Table, error) {
	if len(data) < 12 {
		return nil, errMalformed
	}
	version := binary.BigEndian.Uint16(data[0:])
	if version > 1 {
		return nil, fmt.Errorf("sfnt/cpal: unsupported version %d", version)
	}
	numEntries := int(binary.BigEndian.Uint16(data[2:]))
	numPalettes := int(binary.BigEndian.Uint16(data[4:]))
	numRecords := int(binary.BigEndian.Uint16(data[6:]))
	recordsOffset := int64(binary.BigEndian.Uint32(data[8:]))

	if len(data) < 12+2*numPalettes {
		return nil, errMalformed
	}
	if recordsOffset+4*int64(numRecords) > int64(len(data)) {
		return nil, errMalformed
	}

	t := &Table{
		NumPaletteEntries: numEntries,
		Palettes:          make([][]Color, numPalettes),
	}
	for i := range t.Palettes {
		first := int(binary.BigEndian.Uint16(data[12+2*i:]))
		if first+numEntries > numRecords {
			return nil, errMalformed
		}
		pal := make([]Color, numEntries)
		for j := range pal {
			pos := int(recordsOffset) + 4*(first+j)
			pal[j] = Color{
				B: data[pos],
				G: data[pos+1],
				R: data[pos+2],
				A: data[pos+3],
			}
		}
		t.Palettes[i] = pal
	}
	return t, nil
}

func paletteKey(pal []Color) string {
	var b strings.Builder
	b.Grow(4 * len(pal))
	for _, c := range pal {
		b.Write([]byte{c.R, c.G, c.B, c.A})
	}
	return b.String()
}

var errMalformed = errors.New("sfnt/cpal: malformed table")
