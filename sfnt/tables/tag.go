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

import "strconv"

// Tag represents a table tag composed of 4 ASCII bytes.
//
// Valid tags consist of printable ASCII characters (0x20 to 0x7E).
// Spaces may only appear at the end, as in "cvt ".
type Tag [4]byte

// Tags of tables which are used in this module.
var (
	CPAL = MakeTag("CPAL")
	COLR = MakeTag("COLR")
	Head = MakeTag("head")
)

// MakeTag converts a string of length 4 bytes to a Tag.
// The function panics if s is not a valid tag.
func MakeTag(s string) Tag {
	tag, err := ParseTag(s)
	if err != nil {
		panic(err)
	}
	return tag
}

// ParseTag converts a string to a Tag.
// Matching is exact: no case folding and no padding is applied.
func ParseTag(s string) (Tag, error) {
	if len(s) != 4 {
		return Tag{}, &InvalidTagError{Tag: s}
	}
	seenSpace := false
	for i := 0; i < 4; i++ {
		c := s[i]
		switch {
		case c == ' ':
			if i == 0 {
				return Tag{}, &InvalidTagError{Tag: s}
			}
			seenSpace = true
		case c < 0x20 || c > 0x7E || seenSpace:
			return Tag{}, &InvalidTagError{Tag: s}
		}
	}
	return Tag{s[0], s[1], s[2], s[3]}, nil
}

func (tag Tag) String() string {
	return string(tag[:])
}

// InvalidTagError is returned when a string cannot be used as a table tag.
type InvalidTagError struct {
	Tag string
}

func (err *InvalidTagError) Error() string {
	return "sfnt/tables: invalid table tag " + strconv.Quote(err.Tag)
}
