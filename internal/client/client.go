// Package client posts multipart form bodies to the ASCII-art generator and
// returns its plain-text answer.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// BodyWrapper lets callers observe the request body as it is sent, e.g. to
// draw an upload progress bar. It must return a reader yielding the same bytes.
type BodyWrapper func(path string, body io.Reader, size int64) io.Reader

// Client talks to one generator base URL. The zero Timeout means none: the
// transport's own limits decide when a request fails.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	WrapBody   BodyWrapper
}

// New returns a client for baseURL. timeout <= 0 disables the client timeout.
func New(baseURL string, timeout time.Duration) *Client {
	hc := &http.Client{}
	if timeout > 0 {
		hc.Timeout = timeout
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: hc,
	}
}

// UseTLS makes the client verify the generator with cfg. A nil cfg keeps the
// default transport.
func (c *Client) UseTLS(cfg *tls.Config) {
	if cfg == nil {
		return
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSClientConfig = cfg
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	c.HTTPClient.Transport = t
}

// Post sends body to path with the given content type and returns the full
// response body on a 2xx status. Non-2xx yields *StatusError, a failed
// exchange yields *TransportError. No headers beyond Content-Type are set.
func (c *Client) Post(ctx context.Context, path string, body []byte, contentType string) (string, error) {
	var r io.Reader = bytes.NewReader(body)
	if c.WrapBody != nil {
		r = c.WrapBody(path, r, int64(len(body)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, r)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", path, err)
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", contentType)

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	resp, err := hc.Do(req)
	if err != nil {
		return "", newTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", &StatusError{Code: resp.StatusCode, Text: statusText(resp)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newTransportError(err)
	}
	return string(data), nil
}

// statusText returns the reason phrase of the status line. HTTP/2 has none,
// so the canonical text for the code is used instead.
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}
