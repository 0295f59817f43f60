// Package sink implements the guru system log: a plain-text, append-only
// file with consecutive-duplicate suppression. Every write is best effort;
// a sink that failed to open (or was never opened) silently drops entries
// instead of surfacing errors into the error-handling path itself.
package sink

import (
	"fmt"
	"os"
	"time"

	"github.com/Gravecat/guru-meditation/internal/report"
)

// DefaultFilename is used when Open is given an empty path.
const DefaultFilename = "guru.log"

// Farewell lines written by Close before the handle is released.
const (
	shutdownLine = "Guru system shutting down."
	farewellLine = "The rest is silence."
)

// Sink is the system log file. It is not safe for concurrent use; the
// escalation engine serializes access to it.
type Sink struct {
	file *os.File
	last string
	now  func() time.Time
}

// New returns an unopened sink. All writes are no-ops until Open succeeds.
func New() *Sink {
	return &Sink{now: time.Now}
}

// Open truncates or creates the log file. An empty path selects
// DefaultFilename.
func (s *Sink) Open(path string) error {
	if path == "" {
		path = DefaultFilename
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open system log %s: %w", path, err)
	}
	s.file = f
	return nil
}

// IsOpen reports whether writes currently reach a file.
func (s *Sink) IsOpen() bool {
	return s.file != nil
}

// Write appends one entry as "[HH:MM:SS] [LEVEL] message". Entries are
// dropped when the sink is closed, or when the message text is identical
// to the previously written message. The comparison is on message text
// only, independent of severity: an Error can suppress a following
// identical-text Critical. Callers depend on this; do not make the
// comparison severity-aware.
func (s *Sink) Write(e report.Entry) {
	if s.file == nil {
		return
	}
	if e.Message == s.last {
		return
	}
	s.last = e.Message

	ts := e.Time
	if ts.IsZero() {
		ts = s.now()
	}
	fmt.Fprintf(s.file, "[%s] %s%s\n", ts.Format("15:04:05"), e.Severity.Tag(), e.Message)
}

// Close writes the two fixed farewell lines and releases the file handle.
// Safe to call on a sink that never opened.
func (s *Sink) Close() {
	if s.file == nil {
		return
	}
	s.Write(report.Entry{Severity: report.Info, Message: shutdownLine})
	s.Write(report.Entry{Severity: report.Info, Message: farewellLine})
	s.file.Close()
	s.file = nil
}

// SetClock replaces the timestamp source. Test seam.
func (s *Sink) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}
