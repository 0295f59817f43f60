// Package present renders the final halt notice to the user. The
// escalation engine hands a presenter one truncated message string; the
// presenter blocks until the user acknowledges it or the process is
// terminated externally. Nothing comes back.
package present

import (
	"fmt"
	"io"
	"os"
)

// Banner is the fixed first line of every halt notice.
const Banner = "Software Failure, Halting Execution"

// Presenter renders a fatal halt message.
type Presenter interface {
	Present(message string) error
}

// Console writes the notice to a plain writer and returns immediately.
// For hosts without an interactive surface, and for scripted runs.
type Console struct {
	Out io.Writer
}

// NewConsole returns a presenter writing to stderr.
func NewConsole() *Console {
	return &Console{Out: os.Stderr}
}

func (c *Console) Present(message string) error {
	out := c.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintln(out, Banner)
	fmt.Fprintln(out, message)
	return nil
}
