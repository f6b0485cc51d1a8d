// Package page describes the few page elements the submission controller
// touches. The browser build implements it over the DOM; Memory implements
// it for the terminal client and tests.
package page

import "ascii-form/internal/form"

// Event is a submit event.
type Event interface {
	PreventDefault()
}

// Form is a form element.
type Form interface {
	OnSubmit(func(Event))
	// Snapshot returns the current field values. It must not block.
	Snapshot() form.Data
}

// Control is a submit button.
type Control interface {
	SetDisabled(bool)
	Disabled() bool
}

// Text is an element whose text content is replaced wholesale.
type Text interface {
	SetText(string)
	Text() string
}

// Select is a single-choice input.
type Select interface {
	Value() string
	OnChange(func(value string))
}

// Group is a container that can be shown or hidden.
type Group interface {
	SetHidden(bool)
	Hidden() bool
}

// Document looks elements up by ID. Each lookup returns nil when no element
// of that kind has the ID.
type Document interface {
	Form(id string) Form
	Control(id string) Control
	Text(id string) Text
	Select(id string) Select
	Group(id string) Group
}
