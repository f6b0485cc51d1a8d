package client_test

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ascii-form/internal/asciitest"
	"ascii-form/internal/client"
	"ascii-form/internal/form"
)

func encode(t *testing.T, d form.Data) *form.Encoded {
	t.Helper()
	enc, err := form.Encode(d)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return enc
}

func TestPostReturnsBodyVerbatim(t *testing.T) {
	srv := asciitest.NewServer()
	defer srv.Close()
	srv.Reply("/banner", asciitest.Text(http.StatusOK, "H E L L O\n-----\n"))

	var d form.Data
	d.Set("bannerText", "HELLO")
	enc := encode(t, d)

	c := client.New(srv.URL, 0)
	got, err := c.Post(context.Background(), "/banner", enc.Body, enc.ContentType)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if got != "H E L L O\n-----\n" {
		t.Fatalf("expected verbatim body, got %q", got)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Value("bannerText") != "HELLO" {
		t.Fatalf("expected bannerText=HELLO, got %q", reqs[0].Value("bannerText"))
	}
}

func TestPostSetsOnlyMultipartHeader(t *testing.T) {
	srv := asciitest.NewServer()
	defer srv.Close()

	enc := encode(t, form.Data{})
	c := client.New(srv.URL+"/", 0)
	if _, err := c.Post(context.Background(), "/upload", enc.Body, enc.ContentType); err != nil {
		t.Fatalf("post: %v", err)
	}

	req := srv.Requests()[0]
	if req.ContentType != enc.ContentType {
		t.Fatalf("expected %q, got %q", enc.ContentType, req.ContentType)
	}
	for _, h := range []string{"Authorization", "X-Requested-With", "Cookie"} {
		if req.Header.Get(h) != "" {
			t.Fatalf("unexpected header %s", h)
		}
	}
}

func TestPostStatusError(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusInternalServerError, "Internal Server Error"},
		{http.StatusBadRequest, "Bad Request"},
		{http.StatusTooManyRequests, "Too Many Requests"},
	}

	srv := asciitest.NewServer()
	defer srv.Close()
	c := client.New(srv.URL, 0)
	enc := encode(t, form.Data{})

	for _, tt := range tests {
		srv.Reply("/upload", asciitest.Text(tt.status, "body is ignored"))
		_, err := c.Post(context.Background(), "/upload", enc.Body, enc.ContentType)

		var se *client.StatusError
		if !errors.As(err, &se) {
			t.Fatalf("status %d: expected StatusError, got %v", tt.status, err)
		}
		if se.Code != tt.status {
			t.Fatalf("expected code %d, got %d", tt.status, se.Code)
		}
		if se.Error() != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, se.Error())
		}
	}
}

func TestStatusErrorNeverEmpty(t *testing.T) {
	err := &client.StatusError{Code: 599}
	if err.Error() != "599" {
		t.Fatalf("expected numeric fallback, got %q", err.Error())
	}
}

func TestPostTransportError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := client.New("http://"+addr, 0)
	_, err = c.Post(context.Background(), "/banner", nil, "multipart/form-data; boundary=x")

	var te *client.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Error() == "" {
		t.Fatal("expected a non-empty transport error detail")
	}
	if strings.HasPrefix(te.Error(), "Post ") {
		t.Fatalf("url.Error prefix not stripped: %q", te.Error())
	}
}

type failingTransport struct{ err error }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, f.err
}

func TestTransportErrorKeepsFetchMessageOnly(t *testing.T) {
	tests := []struct {
		cause string
		want  string
	}{
		{"net/http: fetch() failed: TypeError: Failed to fetch", "Failed to fetch"},
		{"net/http: fetch() failed: NetworkError when attempting to fetch resource.", "NetworkError when attempting to fetch resource."},
		{"dial tcp 127.0.0.1:1: connect: connection refused", "dial tcp 127.0.0.1:1: connect: connection refused"},
	}

	for _, tt := range tests {
		cause := errors.New(tt.cause)
		c := client.New("http://generator.invalid", 0)
		c.HTTPClient.Transport = failingTransport{err: cause}

		_, err := c.Post(context.Background(), "/upload", nil, "multipart/form-data; boundary=x")

		var te *client.TransportError
		if !errors.As(err, &te) {
			t.Fatalf("%q: expected TransportError, got %v", tt.cause, err)
		}
		if te.Error() != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, te.Error())
		}
		if !errors.Is(err, cause) {
			t.Fatalf("%q: cause not reachable through Unwrap", tt.cause)
		}
	}
}

func TestWrapBodySeesEveryByte(t *testing.T) {
	srv := asciitest.NewServer()
	defer srv.Close()

	var d form.Data
	d.AddFile("file", form.BytesFile("a.gif", "image/gif", []byte("GIF89a....")))
	enc := encode(t, d)

	var seen bytes.Buffer
	var size int64
	c := client.New(srv.URL, 0)
	c.WrapBody = func(path string, body io.Reader, n int64) io.Reader {
		size = n
		return io.TeeReader(body, &seen)
	}

	if _, err := c.Post(context.Background(), "/upload", enc.Body, enc.ContentType); err != nil {
		t.Fatalf("post: %v", err)
	}
	if size != int64(len(enc.Body)) {
		t.Fatalf("expected size %d, got %d", len(enc.Body), size)
	}
	if !bytes.Equal(seen.Bytes(), enc.Body) {
		t.Fatal("wrapped body differs from encoded body")
	}
}

func TestUseTLSTrustsGivenRoots(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "secure art")
	}))
	defer srv.Close()

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())

	c := client.New(srv.URL, 0)
	c.UseTLS(&tls.Config{RootCAs: pool})

	got, err := c.Post(context.Background(), "/banner", nil, "multipart/form-data; boundary=x")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if got != "secure art" {
		t.Fatalf("expected secure art, got %q", got)
	}
}
