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

// Package fontwriter adds colour tables to TrueType and OpenType fonts.
//
// The font is split into its tables, the "CPAL" or "COLR" table is
// inserted or replaced, and the font is written back:
//
//	out, err := fontwriter.Inject(ttf, "CPAL", cpalData)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Table contents are installed verbatim.  The packages
// [seehuhn.de/go/fontwriter/sfnt/cpal] and
// [seehuhn.de/go/fontwriter/sfnt/colr] can be used to construct valid
// table data.
//
// [AddTable] offers the same functionality with a simpler calling
// convention: failure is signalled by an empty result.  This is the
// function exported to JavaScript by the program in cmd/fontwriter-wasm.
//
// All functions in this package are safe for concurrent use.
package fontwriter
