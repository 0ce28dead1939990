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

//go:build js && wasm

// Fontwriter-wasm makes [fontwriter.AddTable] available to JavaScript.
//
// Build with
//
//	GOOS=js GOARCH=wasm go build -o fontwriter.wasm ./cmd/fontwriter-wasm
//
// After the module has been started with wasm_exec.js, the global function
//
//	add_table(font: Uint8Array, tag: string, payload: Uint8Array): Uint8Array
//
// is available.  It returns an empty array if the font could not be
// processed or if the arguments have the wrong types.
package main

import (
	"syscall/js"

	"seehuhn.de/go/fontwriter"
)

func main() {
	js.Global().Set("add_table", js.FuncOf(addTable))

	// keep the Go runtime alive for future calls
	select {}
}

func addTable(_ js.Value, args []js.Value) any {
	if len(args) != 3 || args[1].Type() != js.TypeString {
		return toJS(nil)
	}
	source, ok := fromJS(args[0])
	if !ok {
		return toJS(nil)
	}
	payload, ok := fromJS(args[2])
	if !ok {
		return toJS(nil)
	}
	return toJS(fontwriter.AddTable(source, args[1].String(), payload))
}

func fromJS(v js.Value) ([]byte, bool) {
	if !v.InstanceOf(js.Global().Get("Uint8Array")) {
		return nil, false
	}
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf, true
}

func toJS(data []byte) js.Value {
	res := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(res, data)
	return res
}
