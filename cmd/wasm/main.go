//go:build js && wasm

// Command wasm exposes the submission validator to browsers, so a form
// renderer can run the exact rules the server enforces.
//
//	GOOS=js GOARCH=wasm go build -o qform.wasm ./cmd/wasm
//
// It registers one global:
//
//	validateSubmission(dataJSON, schemaJSON) -> error map JSON ("{}" when valid)
//
// schemaJSON is the body of GET /api/form-schema. Bad input returns an Error.
package main

import (
	"syscall/js"
	"time"

	"github.com/mbolis/quick-form/client"
)

func main() {
	js.Global().Set("validateSubmission", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return jsError("validateSubmission needs dataJSON and schemaJSON")
		}
		out, err := client.Validate(args[0].String(), args[1].String(), time.Now())
		if err != nil {
			return jsError(err.Error())
		}
		return out
	}))

	select {}
}

func jsError(msg string) js.Value {
	return js.Global().Get("Error").New(msg)
}
