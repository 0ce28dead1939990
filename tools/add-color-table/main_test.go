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
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/fontwriter/sfnt/colr"
	"seehuhn.de/go/fontwriter/sfnt/cpal"
	"seehuhn.de/go/fontwriter/sfnt/tables"
)

func TestOutputName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"font.ttf", "font-color.ttf"},
		{"dir/Font.otf", "dir/Font-color.otf"},
		{"noext", "noext-color"},
	}
	for _, c := range cases {
		if got := outputName(c.in, "-color"); got != c.want {
			t.Errorf("%q: got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSplitColors(t *testing.T) {
	got := splitColors(" red, rgb(1, 2, 3),,#fff ,rgba(0,0,0,0.5)")
	want := []string{"red", "rgb(1, 2, 3)", "#fff", "rgba(0,0,0,0.5)"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("wrong split (-want +got):\n%s", d)
	}
}

func TestBuildPalette(t *testing.T) {
	data, err := buildPalette("red, #ff0000, blue")
	if err != nil {
		t.Fatal(err)
	}
	table, err := cpal.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if table.NumPaletteEntries != 2 {
		t.Errorf("expected 2 entries, got %d", table.NumPaletteEntries)
	}

	if _, err := buildPalette(" , "); err == nil {
		t.Error("expected an error for an empty palette")
	}
	if _, err := buildPalette("red, nonsense"); err == nil {
		t.Error("expected an error for an invalid colour")
	}
}

func TestLoadPayloads(t *testing.T) {
	dir := t.TempDir()
	colrFile := filepath.Join(dir, "COLR.bin")
	err := os.WriteFile(colrFile, []byte("layers"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	payloads, err := loadPayloads("", colrFile, "red")
	if err != nil {
		t.Fatal(err)
	}
	if string(payloads["COLR"]) != "layers" {
		t.Errorf("wrong COLR payload %q", payloads["COLR"])
	}
	if _, ok := payloads["CPAL"]; !ok {
		t.Error("CPAL payload missing")
	}

	if _, err := loadPayloads(colrFile, "", "red"); err == nil {
		t.Error("expected an error for -cpal with -palette")
	}
	if _, err := loadPayloads("", "", ""); err == nil {
		t.Error("expected an error without payloads")
	}
}

func TestCheckPayloads(t *testing.T) {
	pal, err := buildPalette("red")
	if err != nil {
		t.Fatal(err)
	}
	layers, err := (&colr.Table{
		BaseGlyphs: []colr.BaseGlyph{
			{Glyph: 1, Layers: []colr.Layer{{Glyph: 2, PaletteIndex: 3}}},
		},
	}).Encode()
	if err != nil {
		t.Fatal(err)
	}

	warnings := checkPayloads(map[string][]byte{"CPAL": pal, "COLR": layers})
	if len(warnings) != 1 {
		t.Errorf("expected one warning, got %q", warnings)
	}
	warnings = checkPayloads(map[string][]byte{"CPAL": pal})
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings %q", warnings)
	}
	warnings = checkPayloads(map[string][]byte{"COLR": []byte("junk")})
	if len(warnings) != 1 {
		t.Errorf("expected one warning, got %q", warnings)
	}
}

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "go.ttf")
	err := os.WriteFile(in, goregular.TTF, 0o644)
	if err != nil {
		t.Fatal(err)
	}

	out := outputName(in, "-color")
	err = process(in, out, map[string][]byte{"CPAL": []byte("palette")})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	f, err := tables.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := f.Get(tables.CPAL); !bytes.Equal(got, []byte("palette")) {
		t.Errorf("wrong CPAL table %q", got)
	}

	bad := filepath.Join(dir, "bad.ttf")
	err = os.WriteFile(bad, []byte("not a font"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	err = process(bad, filepath.Join(dir, "bad-color.ttf"), map[string][]byte{"CPAL": nil})
	if err == nil {
		t.Error("expected an error for an invalid font")
	}
}
