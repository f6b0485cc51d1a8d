//go:build js && wasm

package main

import (
	"bytes"
	"errors"
	"io"
	"syscall/js"

	"ascii-form/internal/form"
	"ascii-form/internal/page"
)

// document implements page.Document over the browser DOM.
type document struct {
	doc js.Value
}

func (d document) byID(id string) (js.Value, bool) {
	el := d.doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return js.Value{}, false
	}
	return el, true
}

func (d document) byTag(id, tag string) (js.Value, bool) {
	el, ok := d.byID(id)
	if !ok || el.Get("tagName").String() != tag {
		return js.Value{}, false
	}
	return el, true
}

func (d document) Form(id string) page.Form {
	if el, ok := d.byTag(id, "FORM"); ok {
		return domForm{el}
	}
	return nil
}

func (d document) Control(id string) page.Control {
	if el, ok := d.byID(id); ok {
		return domControl{el}
	}
	return nil
}

func (d document) Text(id string) page.Text {
	if el, ok := d.byID(id); ok {
		return domText{el}
	}
	return nil
}

func (d document) Select(id string) page.Select {
	if el, ok := d.byTag(id, "SELECT"); ok {
		return domSelect{el}
	}
	return nil
}

func (d document) Group(id string) page.Group {
	if el, ok := d.byID(id); ok {
		return domGroup{el}
	}
	return nil
}

type domEvent struct {
	ev js.Value
}

func (e domEvent) PreventDefault() { e.ev.Call("preventDefault") }

type domForm struct {
	el js.Value
}

// Listener funcs live as long as the page, so they are never released.
func (f domForm) OnSubmit(fn func(page.Event)) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn(domEvent{args[0]})
		return nil
	})
	f.el.Call("addEventListener", "submit", cb)
}

// Snapshot reads the form through FormData, the same set of entries a
// native submission would send. File bytes are read later, off the event.
func (f domForm) Snapshot() form.Data {
	var d form.Data
	entries := js.Global().Get("FormData").New(f.el).Call("entries")
	for {
		next := entries.Call("next")
		if next.Get("done").Bool() {
			break
		}
		pair := next.Get("value")
		name, value := pair.Index(0).String(), pair.Index(1)
		if value.Type() == js.TypeString {
			d.Add(name, value.String())
			continue
		}
		d.AddFile(name, blobFile(value))
	}
	return d
}

func blobFile(blob js.Value) *form.File {
	return &form.File{
		Name:        blob.Get("name").String(),
		ContentType: blob.Get("type").String(),
		Open: func() (io.ReadCloser, error) {
			buf, err := await(blob.Call("arrayBuffer"))
			if err != nil {
				return nil, err
			}
			arr := js.Global().Get("Uint8Array").New(buf)
			data := make([]byte, arr.Get("length").Int())
			js.CopyBytesToGo(data, arr)
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// await blocks the calling goroutine until promise settles. It must not be
// called from a JS callback.
func await(promise js.Value) (js.Value, error) {
	type settled struct {
		v   js.Value
		err error
	}
	ch := make(chan settled, 1)

	onOK := js.FuncOf(func(this js.Value, args []js.Value) any {
		ch <- settled{v: args[0]}
		return nil
	})
	onErr := js.FuncOf(func(this js.Value, args []js.Value) any {
		ch <- settled{err: errors.New(args[0].Call("toString").String())}
		return nil
	})
	defer onOK.Release()
	defer onErr.Release()

	promise.Call("then", onOK, onErr)
	s := <-ch
	return s.v, s.err
}

type domControl struct {
	el js.Value
}

func (c domControl) SetDisabled(v bool) { c.el.Set("disabled", v) }
func (c domControl) Disabled() bool     { return c.el.Get("disabled").Bool() }

type domText struct {
	el js.Value
}

func (t domText) SetText(s string) { t.el.Set("textContent", s) }
func (t domText) Text() string     { return t.el.Get("textContent").String() }

type domSelect struct {
	el js.Value
}

func (s domSelect) Value() string { return s.el.Get("value").String() }

func (s domSelect) OnChange(fn func(string)) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn(s.el.Get("value").String())
		return nil
	})
	s.el.Call("addEventListener", "change", cb)
}

type domGroup struct {
	el js.Value
}

func (g domGroup) SetHidden(v bool) {
	display := ""
	if v {
		display = "none"
	}
	g.el.Get("style").Set("display", display)
}

func (g domGroup) Hidden() bool {
	return g.el.Get("style").Get("display").String() == "none"
}
