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

import "errors"

// These errors can be used with errors.Is to find out at which stage
// a call to [Inject] failed.
var (
	ErrDecode = errors.New("cannot decode font")
	ErrEncode = errors.New("cannot encode font")
)

// Op identifies the stage of a table injection.
type Op int

// These are the stages of a table injection which can fail.
const (
	OpDecode Op = iota + 1
	OpEncode
)

func (op Op) sentinel() error {
	switch op {
	case OpDecode:
		return ErrDecode
	case OpEncode:
		return ErrEncode
	default:
		return nil
	}
}

// Error is returned when a font could not be rewritten.
type Error struct {
	Op  Op
	Err error
}

func (err *Error) Error() string {
	msg := "fontwriter: "
	if s := err.Op.sentinel(); s != nil {
		msg += s.Error()
	} else {
		msg += "failed"
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Is reports whether target is the sentinel error for the failed stage.
func (err *Error) Is(target error) bool {
	s := err.Op.sentinel()
	return s != nil && target == s
}
