// Package gelf ships log lines to a Graylog GELF UDP input.
package gelf

import (
	"encoding/json"
	"net"
	"os"
	"regexp"
	"strings"
	"time"
)

// Writer sends one GELF message per Write and implements io.Writer, so it
// can sit behind io.MultiWriter in log.SetOutput.
type Writer struct {
	conn     net.Conn
	host     string
	facility string
}

// New dials addr (e.g. "127.0.0.1:12201"). facility tags every message.
func New(addr, facility string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	host, _ := os.Hostname()
	if host == "" {
		host = "ascii-form"
	}
	return &Writer{conn: conn, host: host, facility: facility}, nil
}

func (w *Writer) Close() error {
	return w.conn.Close()
}

// log.Logger prefix, date, time and optional file:line.
var logHeader = regexp.MustCompile(`^(\[[^\]]*\] )?\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}(\.\d+)? ([^ :]+:\d+: )?`)

// Message is the GELF 1.1 payload.
type Message struct {
	Version      string  `json:"version"`
	Host         string  `json:"host"`
	ShortMessage string  `json:"short_message"`
	Timestamp    float64 `json:"timestamp"`
	Level        int     `json:"level"`
	Facility     string  `json:"_facility,omitempty"`
}

// Build turns one log line into a message.
func (w *Writer) Build(line string, now time.Time) Message {
	short := logHeader.ReplaceAllString(strings.TrimRight(line, "\n"), "")

	level := 6
	switch {
	case strings.Contains(short, "Fatal") || strings.Contains(short, "panic"):
		level = 3
	case strings.HasPrefix(short, "Warning:"), strings.Contains(short, "failed"):
		level = 4
	}

	return Message{
		Version:      "1.1",
		Host:         w.host,
		ShortMessage: short,
		Timestamp:    float64(now.UnixNano()) / 1e9,
		Level:        level,
		Facility:     w.facility,
	}
}

// Write never fails the log call; delivery is best effort.
func (w *Writer) Write(p []byte) (int, error) {
	payload, err := json.Marshal(w.Build(string(p), time.Now()))
	if err != nil {
		return len(p), nil
	}
	w.conn.Write(payload)
	return len(p), nil
}
