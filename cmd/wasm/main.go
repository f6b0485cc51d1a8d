//go:build js && wasm

// Command wasm is the browser build of the form controller. Load it from the
// index page; it binds once the DOM is parsed and stays resident.
package main

import (
	"log"
	"os"
	"syscall/js"

	"ascii-form/internal/client"
	"ascii-form/internal/controller"
)

func main() {
	logger := log.New(os.Stderr, "[ascii-form] ", 0)

	// net/http in the browser needs absolute URLs; requests go to the page's
	// own origin, like a relative fetch.
	origin := js.Global().Get("location").Get("origin").String()
	c := controller.New(client.New(origin, 0), logger)

	doc := js.Global().Get("document")
	bind := func() {
		bound := c.Bind(document{doc})
		logger.Printf("bound %v", bound)
	}

	if doc.Get("readyState").String() == "loading" {
		var onReady js.Func
		onReady = js.FuncOf(func(this js.Value, args []js.Value) any {
			bind()
			onReady.Release()
			return nil
		})
		doc.Call("addEventListener", "DOMContentLoaded", onReady)
	} else {
		bind()
	}

	select {}
}
