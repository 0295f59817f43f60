// Package crashdump writes a per-incident crash report file alongside the
// system log when a halt begins. The report carries everything a bug
// report needs: an incident ID, the halt message, the call-stack shadow,
// and the live runtime stack.
package crashdump

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Report captures the state of a halt at the moment it begins.
type Report struct {
	ID      string // assigned if empty
	Time    time.Time
	Message string
	Frames  []string // pre-rendered shadow lines, innermost first
}

// Write renders the report plus the current runtime stack into
// crash-<id>.txt under dir and returns the path written. An empty dir
// means the current directory.
func Write(dir string, r Report) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	if dir == "" {
		dir = "."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "incident: %s\n", r.ID)
	fmt.Fprintf(&b, "time: %s\n", r.Time.Format(time.RFC3339))
	fmt.Fprintf(&b, "message: %s\n", r.Message)
	if len(r.Frames) > 0 {
		b.WriteString("shadow stack:\n")
		for _, f := range r.Frames {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}
	b.WriteString("\nruntime stack:\n")
	b.Write(debug.Stack())

	path := filepath.Join(dir, "crash-"+r.ID+".txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write crash report: %w", err)
	}
	return path, nil
}
