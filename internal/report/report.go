// Package report defines the severity levels and log entry type shared by
// the guru error-handling core.
package report

import "time"

// Severity classifies a reported problem. Only Warning, Error and Critical
// carry cascade weight and are valid for non-fatal reports; Info is plain
// logging and StackFrame is reserved for call-stack shadow lines emitted
// during a halt.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Critical
	StackFrame
)

// Tag returns the level tag rendered into a log line, including the
// trailing space. Info and StackFrame lines carry no tag.
func (s Severity) Tag() string {
	switch s {
	case Warning:
		return "[WARN] "
	case Error:
		return "[ERROR] "
	case Critical:
		return "[CRITICAL] "
	default:
		return ""
	}
}

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Critical:
		return "critical"
	case StackFrame:
		return "stack"
	default:
		return "unknown"
	}
}

// Nonfatal reports whether the severity is acceptable for a non-fatal
// error report.
func (s Severity) Nonfatal() bool {
	return s == Warning || s == Error || s == Critical
}

// Parse maps a severity name (as used in config files and CLI flags) to a
// Severity. Unknown names map to Info, the same fallback the logger uses.
func Parse(name string) Severity {
	switch name {
	case "warning", "warn":
		return Warning
	case "error":
		return Error
	case "critical":
		return Critical
	case "stack":
		return StackFrame
	default:
		return Info
	}
}

// Entry is a single log line before rendering. A zero Time means "stamp at
// write time".
type Entry struct {
	Time     time.Time
	Severity Severity
	Message  string
}
