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

package main

import (
	"bytes"
	"cmp"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/header"

	"seehuhn.de/go/fontwriter/sfnt/colr"
	"seehuhn.de/go/fontwriter/sfnt/cpal"
	"seehuhn.de/go/fontwriter/sfnt/tables"
	"seehuhn.de/go/fontwriter/tools/internal/buildinfo"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "list-font-tables \u2014 list the tables in sfnt font files\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("list-font-tables"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  list-font-tables <font.ttf>...\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	for _, fname := range flag.Args() {
		data, err := os.ReadFile(fname)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		err = listTables(os.Stdout, fname, data)
		if err != nil {
			fmt.Fprintln(os.Stderr, fname+":", err)
			os.Exit(1)
		}
	}
}

func listTables(w io.Writer, fname string, data []byte) error {
	r := bytes.NewReader(data)
	info, err := header.Read(r)
	if err != nil {
		return err
	}

	var fontType string
	switch info.ScalerType {
	case header.ScalerTypeTrueType:
		fontType = "TrueType"
	case header.ScalerTypeCFF:
		fontType = "CFF"
	case header.ScalerTypeApple:
		fontType = "TrueType (Apple)"
	default:
		fontType = fmt.Sprintf("0x%08x", info.ScalerType)
	}

	fmt.Fprintln(w, fname+":", fontType, "font")
	if font, err := sfnt.Read(r); err == nil {
		fmt.Fprintf(w, "  family %q, %d glyphs\n", font.FamilyName, font.NumGlyphs())
	}
	fmt.Fprintln(w)

	names := slices.Collect(maps.Keys(info.Toc))
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Compare(info.Toc[a].Offset, info.Toc[b].Offset)
	})
	fmt.Fprintln(w, "  name | offset | length")
	fmt.Fprintln(w, "  -----+--------+-------")
	for _, name := range names {
		fmt.Fprintf(w, "  %4s | %6d | %6d\n", name, info.Toc[name].Offset, info.Toc[name].Length)
	}
	fmt.Fprintln(w)

	f, err := tables.Read(r)
	if err != nil {
		return err
	}
	if body, ok := f.Get(tables.CPAL); ok {
		table, err := cpal.Decode(body)
		if err != nil {
			fmt.Fprintln(w, "  CPAL:", err)
		} else {
			fmt.Fprintf(w, "  CPAL: %d palettes with %d entries\n",
				len(table.Palettes), table.NumPaletteEntries)
			for i, pal := range table.Palettes {
				fmt.Fprintf(w, "    %d: %v\n", i, pal)
			}
		}
	}
	if body, ok := f.Get(tables.COLR); ok {
		table, err := colr.Decode(body)
		if err != nil {
			fmt.Fprintln(w, "  COLR:", err)
		} else {
			numLayers := 0
			for _, bg := range table.BaseGlyphs {
				numLayers += len(bg.Layers)
			}
			fmt.Fprintf(w, "  COLR: %d base glyphs, %d layers\n",
				len(table.BaseGlyphs), numLayers)
			if len(table.ColorGlyphs) > 0 || len(table.LayerList) > 0 {
				fmt.Fprintf(w, "  COLR: %d paint graphs, %d paint layers\n",
					len(table.ColorGlyphs), len(table.LayerList))
			}
		}
	}
	return nil
}
