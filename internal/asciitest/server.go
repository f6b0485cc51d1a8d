// Package asciitest runs a stand-in for the ASCII-art generator so the
// submission path can be exercised without the real server.
package asciitest

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Part is one received multipart part.
type Part struct {
	Name        string
	FileName    string
	ContentType string
	Body        []byte
}

// Request is what the generator saw for one POST.
type Request struct {
	ID          string
	Path        string
	ContentType string
	Header      http.Header
	Parts       []Part
}

// Value returns the first part called name as a string.
func (r Request) Value(name string) string {
	for _, p := range r.Parts {
		if p.Name == name {
			return string(p.Body)
		}
	}
	return ""
}

// Reply decides the response for a request. The default replies 200 with an
// empty body.
type Reply func(w http.ResponseWriter, req Request)

// Text replies with status and body as text/plain.
func Text(status int, body string) Reply {
	return func(w http.ResponseWriter, _ Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

// Server is a fake generator serving POST /upload and POST /banner.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string]Reply
	requests []Request
	gates    map[string]chan struct{}
}

// NewServer starts a fake generator. Close it when done.
func NewServer() *Server {
	s := &Server{
		replies: make(map[string]Reply),
		gates:   make(map[string]chan struct{}),
	}

	r := mux.NewRouter()
	r.HandleFunc("/upload", s.handle("/upload")).Methods("POST")
	r.HandleFunc("/banner", s.handle("/banner")).Methods("POST")

	s.Server = httptest.NewServer(r)
	return s
}

// Reply sets the response for path.
func (s *Server) Reply(path string, reply Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[path] = reply
}

// Hold makes requests to path block until the returned release func is
// called. The request is recorded before it blocks.
func (s *Server) Hold(path string) (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gates[path] = gate
	s.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Requests returns a copy of everything received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) handle(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := Request{
			ID:          uuid.New().String(),
			Path:        path,
			ContentType: r.Header.Get("Content-Type"),
			Header:      r.Header.Clone(),
		}

		mr, err := r.MultipartReader()
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		parts, err := readParts(mr)
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		req.Parts = parts

		s.mu.Lock()
		s.requests = append(s.requests, req)
		reply := s.replies[path]
		gate := s.gates[path]
		s.mu.Unlock()

		if gate != nil {
			<-gate
		}

		if reply == nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		reply(w, req)
	}
}

func readParts(mr *multipart.Reader) ([]Part, error) {
	var parts []Part
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return parts, nil
		}
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(p)
		if err != nil {
			return nil, err
		}
		parts = append(parts, Part{
			Name:        p.FormName(),
			FileName:    p.FileName(),
			ContentType: p.Header.Get("Content-Type"),
			Body:        body,
		})
	}
}
