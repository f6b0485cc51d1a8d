package page

import (
	"sync"

	"ascii-form/internal/form"
)

// Memory is an in-process Document. Elements are safe for concurrent use
// because submission goroutines write to them.
type Memory struct {
	mu       sync.Mutex
	forms    map[string]*FormElement
	controls map[string]*Button
	texts    map[string]*TextElement
	selects  map[string]*SelectElement
	groups   map[string]*GroupElement
}

func NewMemory() *Memory {
	return &Memory{
		forms:    make(map[string]*FormElement),
		controls: make(map[string]*Button),
		texts:    make(map[string]*TextElement),
		selects:  make(map[string]*SelectElement),
		groups:   make(map[string]*GroupElement),
	}
}

func (m *Memory) AddForm(id string) *FormElement {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := &FormElement{ID: id}
	m.forms[id] = f
	return f
}

// AddButton adds a submit button that submits f when clicked. f may be nil.
func (m *Memory) AddButton(id string, f *FormElement) *Button {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := &Button{ID: id, form: f}
	m.controls[id] = b
	return b
}

func (m *Memory) AddText(id string) *TextElement {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &TextElement{ID: id}
	m.texts[id] = t
	return t
}

// AddSelect adds a select input. When f is not nil the select is a field of
// f called name and its value is part of the form's snapshot.
func (m *Memory) AddSelect(id string, f *FormElement, name, value string) *SelectElement {
	if f != nil {
		f.Set(name, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &SelectElement{ID: id, form: f, name: name, value: value}
	m.selects[id] = s
	return s
}

func (m *Memory) AddGroup(id string) *GroupElement {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := &GroupElement{ID: id}
	m.groups[id] = g
	return g
}

// The lookups return a nil interface, never a typed nil pointer.

func (m *Memory) Form(id string) Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.forms[id]; ok {
		return f
	}
	return nil
}

func (m *Memory) Control(id string) Control {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.controls[id]; ok {
		return b
	}
	return nil
}

func (m *Memory) Text(id string) Text {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.texts[id]; ok {
		return t
	}
	return nil
}

func (m *Memory) Select(id string) Select {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.selects[id]; ok {
		return s
	}
	return nil
}

func (m *Memory) Group(id string) Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.groups[id]; ok {
		return g
	}
	return nil
}

type submitEvent struct {
	prevented bool
}

func (e *submitEvent) PreventDefault() { e.prevented = true }

// FormElement holds field values and submit listeners.
type FormElement struct {
	ID string

	mu        sync.Mutex
	data      form.Data
	listeners []func(Event)
	navigated int
}

// Set replaces the text value of a field.
func (f *FormElement) Set(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data.Set(name, value)
}

// SetFile replaces the value of a file input.
func (f *FormElement) SetFile(name string, file *form.File) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data.SetFile(name, file)
}

func (f *FormElement) OnSubmit(fn func(Event)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

func (f *FormElement) Snapshot() form.Data {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.Clone()
}

// Submit dispatches a submit event, as pressing Enter in a field does. It
// ignores the state of any submit button. If no listener prevents the
// default, the submission counts as a navigation.
func (f *FormElement) Submit() {
	f.mu.Lock()
	listeners := make([]func(Event), len(f.listeners))
	copy(listeners, f.listeners)
	f.mu.Unlock()

	ev := &submitEvent{}
	for _, fn := range listeners {
		fn(ev)
	}
	if !ev.prevented {
		f.mu.Lock()
		f.navigated++
		f.mu.Unlock()
	}
}

// Navigations counts submissions that would have left the page.
func (f *FormElement) Navigations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.navigated
}

// Button is a submit button bound to a form.
type Button struct {
	ID string

	mu       sync.Mutex
	form     *FormElement
	disabled bool
}

// Click submits the owning form unless the button is disabled. It reports
// whether a submit event was dispatched.
func (b *Button) Click() bool {
	b.mu.Lock()
	disabled, f := b.disabled, b.form
	b.mu.Unlock()
	if disabled || f == nil {
		return false
	}
	f.Submit()
	return true
}

func (b *Button) SetDisabled(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disabled = v
}

func (b *Button) Disabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled
}

// TextElement keeps its current text and every value it was set to.
type TextElement struct {
	ID string

	mu      sync.Mutex
	text    string
	history []string
}

func (t *TextElement) SetText(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text = s
	t.history = append(t.history, s)
}

func (t *TextElement) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// History returns every value passed to SetText, oldest first.
func (t *TextElement) History() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.history))
	copy(out, t.history)
	return out
}

type SelectElement struct {
	ID string

	form *FormElement
	name string

	mu        sync.Mutex
	value     string
	listeners []func(string)
}

func (s *SelectElement) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *SelectElement) OnChange(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Choose sets the value and fires change listeners if it differs.
func (s *SelectElement) Choose(value string) {
	s.mu.Lock()
	if s.value == value {
		s.mu.Unlock()
		return
	}
	s.value = value
	listeners := make([]func(string), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if s.form != nil {
		s.form.Set(s.name, value)
	}

	for _, fn := range listeners {
		fn(value)
	}
}

type GroupElement struct {
	ID string

	mu     sync.Mutex
	hidden bool
}

func (g *GroupElement) SetHidden(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hidden = v
}

func (g *GroupElement) Hidden() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hidden
}
