package client

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// fetchFailed is how the js/wasm transport prefixes a rejected fetch().
const fetchFailed = "net/http: fetch() failed: "

// StatusError is returned when the generator answers with a non-2xx status.
// Error returns the reason phrase only, so it can be shown as-is.
type StatusError struct {
	Code int
	Text string
}

func (e *StatusError) Error() string {
	if e.Text != "" {
		return e.Text
	}
	return strconv.Itoa(e.Code)
}

// TransportError is returned when no response was received at all. In the
// browser, Error yields the message the rejected fetch carried (e.g.
// "Failed to fetch").
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	msg := e.Err.Error()
	if rest, ok := strings.CutPrefix(msg, fetchFailed); ok {
		// rest is the JS error stringified as "Name: message".
		if _, text, found := strings.Cut(rest, ": "); found && text != "" {
			return text
		}
		return rest
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// newTransportError drops the *url.Error wrapper: its "Post \"...\":" prefix
// repeats what the caller already knows.
func newTransportError(err error) *TransportError {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		err = uerr.Err
	}
	return &TransportError{Err: err}
}
