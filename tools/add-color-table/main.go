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
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"seehuhn.de/go/fontwriter"
	"seehuhn.de/go/fontwriter/sfnt/colr"
	"seehuhn.de/go/fontwriter/sfnt/cpal"
	"seehuhn.de/go/fontwriter/tools/internal/buildinfo"
	"seehuhn.de/go/fontwriter/tools/internal/profile"
)

var (
	cpalArg    = flag.String("cpal", "", "read the CPAL table from `file`")
	colrArg    = flag.String("colr", "", "read the COLR table from `file`")
	paletteArg = flag.String("palette", "", "build a CPAL table from a comma-separated list of `colours`")
	outArg     = flag.String("o", "", "write the output to `file` (\"-\" for stdout)")
	suffixArg  = flag.String("suffix", "-color", "append `suffix` to the output file names")
	jobsArg    = flag.Int("j", runtime.NumCPU(), "process up to `n` fonts in parallel")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile = flag.String("memprofile", "", "write memory profile to `file`")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "add-color-table \u2014 add CPAL and COLR tables to fonts\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("add-color-table"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  add-color-table [options] <font.ttf>...\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  font.ttf   one or more TrueType or OpenType fonts\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  add-color-table -cpal CPAL.bin -colr COLR.bin -o out.ttf font.ttf\n")
		fmt.Fprintf(os.Stderr, "  add-color-table -palette 'red,#00ff0080,navy' *.ttf\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	stop, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		return err
	}
	defer stop()

	payloads, err := loadPayloads(*cpalArg, *colrArg, *paletteArg)
	if err != nil {
		return err
	}
	for _, warning := range checkPayloads(payloads) {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}

	if *outArg != "" {
		if flag.NArg() != 1 {
			return errors.New("-o can only be used with a single input file")
		}
		if *outArg == "-" && term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("refusing to write a font file to the terminal")
		}
		return process(flag.Arg(0), *outArg, payloads)
	}

	if *suffixArg == "" {
		return errors.New("-suffix must not be empty")
	}
	var g errgroup.Group
	g.SetLimit(max(*jobsArg, 1))
	for _, fname := range flag.Args() {
		g.Go(func() error {
			return process(fname, outputName(fname, *suffixArg), payloads)
		})
	}
	return g.Wait()
}

// loadPayloads collects the tables to be installed.
func loadPayloads(cpalFile, colrFile, palette string) (map[string][]byte, error) {
	payloads := make(map[string][]byte)

	if cpalFile != "" && palette != "" {
		return nil, errors.New("-cpal and -palette cannot be used together")
	}
	if cpalFile != "" {
		data, err := os.ReadFile(cpalFile)
		if err != nil {
			return nil, err
		}
		payloads["CPAL"] = data
	}
	if palette != "" {
		data, err := buildPalette(palette)
		if err != nil {
			return nil, err
		}
		payloads["CPAL"] = data
	}
	if colrFile != "" {
		data, err := os.ReadFile(colrFile)
		if err != nil {
			return nil, err
		}
		payloads["COLR"] = data
	}

	if len(payloads) == 0 {
		return nil, errors.New("nothing to add, use -cpal, -colr or -palette")
	}
	return payloads, nil
}

// buildPalette converts a comma-separated list of colours into a
// single-palette CPAL table.
func buildPalette(list string) ([]byte, error) {
	b := &cpal.Builder{}
	for _, spec := range splitColors(list) {
		_, err := b.IndexOf(spec)
		if err != nil {
			return nil, err
		}
	}
	if b.Len() == 0 {
		return nil, errors.New("empty palette")
	}
	return b.Table().Encode()
}

// splitColors splits a colour list at commas outside of parentheses,
// so that "rgb(1,2,3)" stays in one piece.
func splitColors(list string) []string {
	var res []string
	depth := 0
	start := 0
	for i, c := range list {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				res = append(res, list[start:i])
				start = i + 1
			}
		}
	}
	res = append(res, list[start:])

	out := res[:0]
	for _, s := range res {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// checkPayloads looks for inconsistencies between the CPAL and COLR
// tables.  The tables are installed regardless, so problems are only
// reported as warnings.
func checkPayloads(payloads map[string][]byte) []string {
	var warnings []string

	numEntries := -1
	if data, ok := payloads["CPAL"]; ok {
		table, err := cpal.Decode(data)
		if err != nil {
			warnings = append(warnings, "CPAL: "+err.Error())
		} else {
			numEntries = table.NumPaletteEntries
		}
	}
	if data, ok := payloads["COLR"]; ok {
		table, err := colr.Decode(data)
		if err != nil {
			warnings = append(warnings, "COLR: "+err.Error())
		} else if numEntries >= 0 {
			err = table.CheckPalette(numEntries)
			if err != nil {
				warnings = append(warnings, err.Error())
			}
		}
	}
	return warnings
}

func process(inName, outName string, payloads map[string][]byte) error {
	data, err := os.ReadFile(inName)
	if err != nil {
		return err
	}
	out, err := fontwriter.InjectAll(data, payloads)
	if err != nil {
		return fmt.Errorf("%s: %w", inName, err)
	}
	if outName == "-" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(outName, out, 0o644)
}

// outputName inserts suffix before the file name extension.
func outputName(fname, suffix string) string {
	ext := filepath.Ext(fname)
	return strings.TrimSuffix(fname, ext) + suffix + ext
}
