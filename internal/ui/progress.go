package ui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const barWidth = 40

// ProgressReader draws a progress bar on Out as the wrapped body is read by
// the HTTP transport.
type ProgressReader struct {
	Label   string
	Total   int64
	Current int64
	Reader  io.Reader
	Out     io.Writer

	startTime  time.Time
	lastUpdate time.Time
	finished   bool
}

func NewProgressReader(label string, total int64, r io.Reader, out io.Writer) *ProgressReader {
	return &ProgressReader{
		Label:     label,
		Total:     total,
		Reader:    r,
		Out:       out,
		startTime: time.Now(),
	}
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.Reader.Read(p)
	pr.Current += int64(n)
	pr.printProgress()
	return n, err
}

// Bar renders the bar for done out of total.
func Bar(done, total int64) string {
	completed := barWidth
	if total > 0 {
		completed = int(float64(barWidth) * float64(done) / float64(total))
	}
	if completed > barWidth {
		completed = barWidth
	}
	return strings.Repeat("█", completed) + strings.Repeat("░", barWidth-completed)
}

func (pr *ProgressReader) printProgress() {
	if pr.finished {
		return
	}
	done := pr.Current >= pr.Total
	// Redraw at most every 100ms, but always draw the final state.
	if !done && time.Since(pr.lastUpdate) < 100*time.Millisecond {
		return
	}
	pr.lastUpdate = time.Now()

	percent := 100.0
	if pr.Total > 0 {
		percent = float64(pr.Current) / float64(pr.Total) * 100
	}

	secs := time.Since(pr.startTime).Seconds()
	if secs == 0 {
		secs = 0.0001
	}
	speed := float64(pr.Current) / 1024 / secs

	fmt.Fprintf(pr.Out, "\r%-20s [%s] %5.1f%% (%.1f KB/s)", pr.Label, Bar(pr.Current, pr.Total), percent, speed)
	if done {
		pr.finished = true
		fmt.Fprintln(pr.Out)
	}
}
