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

package fontwriter

import (
	"seehuhn.de/go/fontwriter/sfnt/tables"
)

// colorTables lists the tables which can be set by [Inject].
var colorTables = map[string]tables.Tag{
	"CPAL": tables.CPAL,
	"COLR": tables.COLR,
}

// IsColorTable reports whether [Inject] replaces the table with the given
// tag.  The comparison is case-sensitive.
func IsColorTable(tag string) bool {
	_, ok := colorTables[tag]
	return ok
}

// AddTable returns a copy of the font source, where the table with the
// given tag is set to payload.
//
// Only the tags "CPAL" and "COLR" are recognized.  For other tags the font
// is re-encoded without changes.  If source cannot be decoded, or if the
// modified font cannot be encoded, an empty slice is returned.
func AddTable(source []byte, tag string, payload []byte) []byte {
	out, err := Inject(source, tag, payload)
	if err != nil {
		return []byte{}
	}
	return out
}

// Inject returns a copy of the font source, where the "CPAL" or "COLR"
// table is set to payload.  An existing table is replaced, a missing
// table is added.  The payload is not checked in any way.
//
// If tag is not "CPAL" or "COLR", the font is re-encoded without changes.
// On failure, the returned error is an [*Error] which matches either
// [ErrDecode] or [ErrEncode].
func Inject(source []byte, tag string, payload []byte) ([]byte, error) {
	return InjectAll(source, map[string][]byte{tag: payload})
}

// InjectAll is like [Inject], but sets several tables at once.
// Entries with unrecognized tags are ignored.
func InjectAll(source []byte, payloads map[string][]byte) ([]byte, error) {
	return rewrite(source, func(f *tables.Font) {
		for name, data := range payloads {
			if tag, ok := colorTables[name]; ok {
				f.Set(tag, data)
			}
		}
	})
}

// SetTable returns a copy of the font source, where the table with the
// given tag is set to payload.  In contrast to [Inject], any table can be
// replaced.
func SetTable(source []byte, tag tables.Tag, payload []byte) ([]byte, error) {
	return rewrite(source, func(f *tables.Font) {
		f.Set(tag, payload)
	})
}

// rewrite decodes source, applies modify, and encodes the result.
func rewrite(source []byte, modify func(*tables.Font)) ([]byte, error) {
	f, err := tables.Parse(source)
	if err != nil {
		return nil, &Error{Op: OpDecode, Err: err}
	}

	modify(f)

	out, err := f.Encode(len(source))
	if err != nil {
		return nil, &Error{Op: OpEncode, Err: err}
	}
	return out, nil
}
