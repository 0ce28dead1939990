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

package tables

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"seehuhn.de/go/sfnt/header"
)

// Write writes the font as an sfnt file.
// Tables are laid out in the recommended order and the table
// directory is sorted by tag.
// This changes the checksum in the "head" table in place.
func (f *Font) Write(w io.Writer) (int64, error) {
	err := f.check()
	if err != nil {
		return 0, err
	}
	return header.Write(w, f.ScalerType, f.Tables)
}

// Encode returns the font as an sfnt file.
// The output buffer is allocated with capacity sizeHint; it grows as needed.
func (f *Font) Encode(sizeHint int) ([]byte, error) {
	if sizeHint < 0 {
		sizeHint = 0
	}
	buf := bytes.NewBuffer(make([]byte, 0, sizeHint))
	_, err := f.Write(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// check verifies that header.Write can represent the font.
// header.Write skips tables with invalid names while still counting them
// in the directory, and it patches the "head" table without a length check.
func (f *Font) check() error {
	if len(f.Tables) == 0 {
		return errNoTables
	}
	if len(f.Tables) > math.MaxUint16 {
		return errTooManyTables
	}
	for name, data := range f.Tables {
		if _, err := ParseTag(name); err != nil {
			return err
		}
		if data == nil {
			return fmt.Errorf("sfnt/tables: missing data for table %q", name)
		}
		if uint64(len(data)) > math.MaxUint32 {
			return fmt.Errorf("sfnt/tables: table %q too large", name)
		}
	}
	if head, ok := f.Tables["head"]; ok && len(head) < 12 {
		return errShortHead
	}
	return nil
}
