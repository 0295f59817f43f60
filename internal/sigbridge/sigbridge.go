// Package sigbridge translates fatal OS signals (abort, segfault, illegal
// instruction, floating-point exception) into halt reports. The handler's
// first action on any intercepted fault is to disable further delivery of
// all four signals, so a second fault cannot re-enter the handler while it
// is running.
package sigbridge

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// Halter receives the translated fault description. Halt is expected not
// to return.
type Halter interface {
	Halt(message string)
}

var hookedSignals = []os.Signal{
	syscall.SIGABRT,
	syscall.SIGSEGV,
	syscall.SIGILL,
	syscall.SIGFPE,
}

// Phrase maps an intercepted signal to the human-readable description
// logged and displayed at halt time. Unknown signals still get a generic
// phrase rather than going unhandled.
func Phrase(sig os.Signal) string {
	switch sig {
	case syscall.SIGABRT:
		return "Software requested abort."
	case syscall.SIGFPE:
		return "Floating-point exception."
	case syscall.SIGILL:
		return "Illegal instruction."
	case syscall.SIGSEGV:
		return "Segmentation fault."
	default:
		return "Intercepted unknown signal."
	}
}

// Bridge owns the notification channel and the goroutine draining it.
type Bridge struct {
	ch     chan os.Signal
	halter Halter
}

// Hook installs the fault handlers and starts draining delivery on a
// dedicated goroutine. The first fault ignores all four signals before
// anything else runs, then hands its phrase to the Halter.
func Hook(h Halter) (*Bridge, error) {
	if h == nil {
		return nil, errors.New("sigbridge: nil halter")
	}
	b := &Bridge{
		ch:     make(chan os.Signal, 1),
		halter: h,
	}
	signal.Notify(b.ch, hookedSignals...)
	go b.run()
	return b, nil
}

func (b *Bridge) run() {
	sig, ok := <-b.ch
	if !ok {
		return
	}
	signal.Ignore(hookedSignals...)
	b.halter.Halt(Phrase(sig))
}

// Unhook stops signal delivery and releases the drain goroutine. For
// hosts tearing down a system without halting, and for tests.
func (b *Bridge) Unhook() {
	signal.Stop(b.ch)
	close(b.ch)
}

// Deliver injects a signal as if the OS had raised it. Test seam.
func (b *Bridge) Deliver(sig os.Signal) {
	b.ch <- sig
}
