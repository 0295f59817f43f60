// Package guru is the escalation engine: the single decision point that
// turns reported problems into log lines, cascade pressure, or a halt. A
// host application creates one System, opens it at startup, reports
// problems through it for the life of the process, and closes it at
// normal shutdown. Fatal outcomes never return; they end in presentation
// and process exit.
package guru

import (
	"fmt"
	"os"
	"sync"

	"github.com/Gravecat/guru-meditation/internal/cascade"
	"github.com/Gravecat/guru-meditation/internal/crashdump"
	"github.com/Gravecat/guru-meditation/internal/present"
	"github.com/Gravecat/guru-meditation/internal/report"
	"github.com/Gravecat/guru-meditation/internal/sigbridge"
	"github.com/Gravecat/guru-meditation/internal/sink"
	"github.com/Gravecat/guru-meditation/internal/trace"
)

// haltMessageCap is the widest message the halt notice box can show.
const haltMessageCap = 39

// System owns the process-wide error-handling state: the log sink, the
// cascade detector, the call-stack shadow and the halt flag. The state is
// single-writer by design; the mutex exists because the signal bridge
// delivers faults on its own goroutine, and it is never held across
// presentation or exit.
type System struct {
	mu        sync.Mutex
	sink      *sink.Sink
	detector  *cascade.Detector
	shadow    *trace.Shadow
	presenter present.Presenter
	bridge    *sigbridge.Bridge

	exit        func(int)
	crashDir    string
	hookFaults  bool
	opened      bool
	ready       bool
	halting     bool
	haltMessage string
}

// Option configures a System before first use.
type Option func(*System)

// WithPresenter replaces the default console presenter.
func WithPresenter(p present.Presenter) Option {
	return func(s *System) {
		if p != nil {
			s.presenter = p
		}
	}
}

// WithDetector replaces the default cascade detector, e.g. with tuned
// limits or an injected clock.
func WithDetector(d *cascade.Detector) Option {
	return func(s *System) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithCrashDir enables crash report files, written into dir at halt time.
func WithCrashDir(dir string) Option {
	return func(s *System) { s.crashDir = dir }
}

// WithExit replaces process termination. Test seam; the replacement is
// expected not to return.
func WithExit(fn func(code int)) Option {
	return func(s *System) {
		if fn != nil {
			s.exit = fn
		}
	}
}

// WithoutSignalHook skips installing the OS fault handlers, for embedders
// that keep their own and for tests.
func WithoutSignalHook() Option {
	return func(s *System) { s.hookFaults = false }
}

// New builds a System. It does nothing until Open is called.
func New(opts ...Option) *System {
	s := &System{
		sink:       sink.New(),
		detector:   cascade.New(0, 0, nil),
		shadow:     trace.New(),
		presenter:  present.NewConsole(),
		exit:       func(code int) { os.Exit(code) },
		hookFaults: true,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open opens the log sink, hooks the fault signals and starts the cascade
// window. An empty path selects the default log filename. Calling Open on
// an already-open system is a no-op. A signal hook failure is itself a
// fatal report.
func (s *System) Open(path string) error {
	s.mu.Lock()
	if s.opened {
		s.mu.Unlock()
		return nil
	}
	if err := s.sink.Open(path); err != nil {
		s.mu.Unlock()
		return err
	}
	s.opened = true
	s.log("Guru error-handling system is online. Hooking signals...", report.Info)
	s.mu.Unlock()

	if s.hookFaults {
		b, err := sigbridge.Hook(s)
		if err != nil {
			s.Halt("Failed to hook fault signals.")
			return err
		}
		s.mu.Lock()
		s.bridge = b
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.detector.Start()
	s.mu.Unlock()
	return nil
}

// Close is the graceful shutdown path: it unhooks the signal bridge,
// writes the farewell lines and closes the log. Abnormal shutdown never
// comes here; Halt exits the process directly.
func (s *System) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bridge != nil {
		s.bridge.Unhook()
		s.bridge = nil
	}
	s.sink.Close()
	s.opened = false
}

// PresentationReady tells the system whether the host's display surface
// can render a halt notice yet. Until marked ready, a fatal report exits
// immediately instead of presenting.
func (s *System) PresentationReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Trace records entry into a named scope on the call-stack shadow and
// returns the matching exit, meant for defer:
//
//	defer sys.Trace("dungeon.Generate")()
func (s *System) Trace(name string) func() {
	s.mu.Lock()
	pop := s.shadow.Push(name)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		pop()
		s.mu.Unlock()
	}
}

// Log appends a message to the system log. Best effort; never fails and
// never escalates.
func (s *System) Log(msg string, sev report.Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log(msg, sev)
}

// Logf is Log with formatting.
func (s *System) Logf(sev report.Severity, format string, args ...any) {
	s.Log(fmt.Sprintf(format, args...), sev)
}

func (s *System) log(msg string, sev report.Severity) {
	s.sink.Write(report.Entry{Severity: sev, Message: msg})
}

// Nonfatal reports a problem that execution can survive. The message is
// logged, its cascade weight observed, and if the detector declares a
// cascade the report escalates into a halt. Once a cascade has been
// declared all further non-fatal reports are dropped; the halt is already
// underway and piling on would recurse.
func (s *System) Nonfatal(msg string, sev report.Severity) {
	s.mu.Lock()
	if s.detector.Tripped() {
		s.mu.Unlock()
		return
	}
	if !sev.Nonfatal() {
		s.log("Nonfatal error reported with incorrect severity specified.", report.Warning)
	}
	s.log(msg, sev)
	declared := s.detector.Observe(cascade.Weight(sev))
	s.mu.Unlock()

	if declared {
		s.Halt("Cascade failure detected!")
	}
}

// Nonfatalf is Nonfatal with formatting.
func (s *System) Nonfatalf(sev report.Severity, format string, args ...any) {
	s.Nonfatal(fmt.Sprintf(format, args...), sev)
}

// Halt is the unconditional fatal path. It logs the failure banner and
// message, drains the call-stack shadow into the log, and then either
// presents the halt notice and exits, or exits immediately when
// presentation is not possible (surface not ready) or not safe (a halt is
// already in progress). It does not return.
func (s *System) Halt(msg string) {
	s.mu.Lock()
	s.log(present.Banner, report.Critical)
	s.log(msg, report.Critical)

	var frames []string
	if s.shadow.Depth() > 0 {
		s.log("Stack trace follows:", report.StackFrame)
		s.shadow.Drain(func(depth int, name string) {
			line := fmt.Sprintf("%d: %s", depth, name)
			frames = append(frames, line)
			s.log(line, report.StackFrame)
		})
	}

	if s.crashDir != "" && !s.halting {
		if _, err := crashdump.Write(s.crashDir, crashdump.Report{Message: msg, Frames: frames}); err != nil {
			s.log("Could not write crash report: "+err.Error(), report.Warning)
		}
	}

	if !s.ready {
		s.mu.Unlock()
		s.exit(1)
		return
	}

	if s.halting {
		// A failure occurred while already halting. Do not present twice.
		s.log("Detected cleanup in process, attempting to die peacefully.", report.Warning)
		s.mu.Unlock()
		s.exit(1)
		return
	}

	s.halting = true
	s.haltMessage = capMessage(msg)
	p := s.presenter
	display := s.haltMessage
	s.mu.Unlock()

	p.Present(display)
	s.exit(1)
}

// Haltf is Halt with formatting.
func (s *System) Haltf(format string, args ...any) {
	s.Halt(fmt.Sprintf(format, args...))
}

// HaltErr halts with an error's message.
func (s *System) HaltErr(err error) {
	s.Halt(err.Error())
}

// Affirm halts with msg when cond is false. The assert-or-halt wrapper.
func (s *System) Affirm(cond bool, msg string) {
	if !cond {
		s.Halt(msg)
	}
}

// Halting reports whether a halt has begun.
func (s *System) Halting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.halting
}

// HaltMessage returns the stored, display-capped fatal message.
func (s *System) HaltMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.haltMessage
}

func capMessage(msg string) string {
	r := []rune(msg)
	if len(r) > haltMessageCap {
		return string(r[:haltMessageCap])
	}
	return msg
}
