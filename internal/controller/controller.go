// Package controller wires the upload and banner forms of the ASCII-art page
// to the generator: one in-flight POST per form, the answer rendered into the
// shared output element.
package controller

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"ascii-form/internal/form"
	"ascii-form/internal/page"
)

const (
	OutputID      = "asciiOutput"
	AspectModeID  = "aspectMode"
	SizeOptionsID = "sizeOptions"

	// FixedAspect is the aspect mode that needs explicit width and height.
	FixedAspect = "fixed"

	ErrorPrefix = "Error: "
)

// Action is one form and the endpoint it posts to.
type Action struct {
	Name      string
	FormID    string
	ControlID string
	Path      string
	Pending   string
}

var (
	Upload = Action{
		Name:      "upload",
		FormID:    "uploadForm",
		ControlID: "submit",
		Path:      "/upload",
		Pending:   "Uploading...",
	}
	Banner = Action{
		Name:      "banner",
		FormID:    "bannerGen",
		ControlID: "bannerSubmit",
		Path:      "/banner",
		Pending:   "Generating banner...",
	}
)

// Actions lists every form the controller knows about.
func Actions() []Action {
	return []Action{Upload, Banner}
}

// Poster sends an encoded form body and returns the response text.
type Poster interface {
	Post(ctx context.Context, path string, body []byte, contentType string) (string, error)
}

// Result is the outcome of one submission.
type Result struct {
	ID      string
	Action  string
	Body    string
	Err     error
	Elapsed time.Duration
}

// Text is what the output element shows for r.
func (r Result) Text() string {
	if r.Err != nil {
		return ErrorPrefix + r.Err.Error()
	}
	return r.Body
}

// Controller binds page forms to a Poster.
type Controller struct {
	poster Poster
	logger *log.Logger

	// Settled, when set, is called after each submission has been rendered
	// and its control re-enabled.
	Settled func(Result)

	wg sync.WaitGroup
}

// New returns a controller posting through p. A nil logger uses log.Default.
func New(p Poster, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{poster: p, logger: logger}
}

// Bind attaches submit handlers for every action whose form, submit control
// and output element all exist in doc, and the aspect-mode toggle when its
// elements exist. Missing elements are not an error; the names of the bound
// actions are returned.
func (c *Controller) Bind(doc page.Document) []string {
	var bound []string
	for _, a := range Actions() {
		if c.BindAction(doc, a) {
			bound = append(bound, a.Name)
		}
	}
	if BindAspectToggle(doc) {
		bound = append(bound, AspectModeID)
	}
	return bound
}

// BindAction binds a single action. It reports false, binding nothing, when
// any of the action's elements is missing.
func (c *Controller) BindAction(doc page.Document, a Action) bool {
	f := doc.Form(a.FormID)
	ctl := doc.Control(a.ControlID)
	out := doc.Text(OutputID)
	if f == nil || ctl == nil || out == nil {
		c.logger.Printf("%s: skipped, missing #%s, #%s or #%s", a.Name, a.FormID, a.ControlID, OutputID)
		return false
	}

	f.OnSubmit(c.handler(a, f, ctl, out))
	return true
}

// Wait blocks until every submission started so far has settled.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) handler(a Action, f page.Form, ctl page.Control, out page.Text) func(page.Event) {
	return func(ev page.Event) {
		ev.PreventDefault()
		ctl.SetDisabled(true)
		out.SetText(a.Pending)
		data := f.Snapshot()

		id := uuid.New().String()
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()

			res := c.exchange(context.Background(), id, a, data)
			out.SetText(res.Text())
			ctl.SetDisabled(false)

			if c.Settled != nil {
				c.Settled(res)
			}
		}()
	}
}

func (c *Controller) exchange(ctx context.Context, id string, a Action, data form.Data) Result {
	start := time.Now()
	res := Result{ID: id, Action: a.Name}

	enc, err := form.Encode(data)
	if err != nil {
		res.Err = err
		res.Elapsed = time.Since(start)
		c.logger.Printf("%s %s: encode failed: %v", a.Name, id, err)
		return res
	}

	c.logger.Printf("%s %s: POST %s (%d bytes)", a.Name, id, a.Path, len(enc.Body))
	res.Body, res.Err = c.poster.Post(ctx, a.Path, enc.Body, enc.ContentType)
	res.Elapsed = time.Since(start)

	if res.Err != nil {
		c.logger.Printf("%s %s: failed after %s: %v", a.Name, id, res.Elapsed.Round(time.Millisecond), res.Err)
	} else {
		c.logger.Printf("%s %s: done in %s (%d bytes)", a.Name, id, res.Elapsed.Round(time.Millisecond), len(res.Body))
	}
	return res
}
