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

// Package tables represents an sfnt font file as a collection of raw tables.
//
// The contents of the tables are not interpreted, apart from the checksum
// field in the "head" table which is updated when the font is written.
// This allows to add, replace or remove tables without the need to
// understand the rest of the font.
package tables

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"seehuhn.de/go/sfnt/header"
)

// Font is an sfnt font file, split into its tables.
type Font struct {
	ScalerType uint32

	// Tables maps table tags to the raw table data.
	Tables map[string][]byte
}

// New allocates a new Font without any tables.
func New(scalerType uint32) *Font {
	return &Font{
		ScalerType: scalerType,
		Tables:     make(map[string][]byte),
	}
}

// Parse decodes an sfnt font file held in memory.
// The returned Font does not share memory with data.
func Parse(data []byte) (*Font, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes an sfnt font file.
// All table data is copied out of r.
func Read(r io.ReaderAt) (*Font, error) {
	info, err := header.Read(r)
	if err != nil {
		return nil, err
	}

	f := &Font{
		ScalerType: info.ScalerType,
		Tables:     make(map[string][]byte, len(info.Toc)),
	}
	for name, rec := range info.Toc {
		if _, err := ParseTag(name); err != nil {
			return nil, &MalformedFontError{Reason: err.Error()}
		}
		data, err := info.ReadTableBytes(r, name)
		if err != nil {
			return nil, err
		}
		if len(data) != int(rec.Length) {
			return nil, &MalformedFontError{
				Reason: fmt.Sprintf("table %q is truncated", name),
			}
		}
		f.Tables[name] = data
	}
	return f, nil
}

// Get returns the raw data of the given table.
// The returned slice must not be modified by the caller.
func (f *Font) Get(tag Tag) ([]byte, bool) {
	data, ok := f.Tables[tag.String()]
	return data, ok
}

// Has reports whether all of the given tables are present.
func (f *Font) Has(tags ...Tag) bool {
	for _, tag := range tags {
		if _, ok := f.Tables[tag.String()]; !ok {
			return false
		}
	}
	return true
}

// Set installs data as the raw content of the given table.
// An existing table with the same tag is replaced.
// The data is copied, so the caller may reuse the slice.
func (f *Font) Set(tag Tag, data []byte) {
	if f.Tables == nil {
		f.Tables = make(map[string][]byte)
	}
	f.Tables[tag.String()] = append([]byte{}, data...)
}

// Delete removes a table from the font.
func (f *Font) Delete(tag Tag) {
	delete(f.Tables, tag.String())
}

// Tags returns the tags of all tables in the font, in lexicographic order.
func (f *Font) Tags() []Tag {
	res := make([]Tag, 0, len(f.Tables))
	for name := range f.Tables {
		tag, err := ParseTag(name)
		if err != nil {
			continue
		}
		res = append(res, tag)
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i][:], res[j][:]) < 0
	})
	return res
}

// MalformedFontError indicates that a font file could not be decoded.
type MalformedFontError struct {
	Reason string
}

func (err *MalformedFontError) Error() string {
	return "sfnt/tables: malformed font: " + err.Reason
}

var (
	errNoTables      = errors.New("sfnt/tables: no tables")
	errTooManyTables = errors.New("sfnt/tables: too many tables")
	errShortHead     = errors.New("sfnt/tables: \"head\" table too short")
)
