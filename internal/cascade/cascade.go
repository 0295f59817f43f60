// Package cascade converts a sustained storm of non-fatal errors into a
// deliberate halt. An error reported every frame of a render loop would
// otherwise spin forever, masking the underlying fault; weighted pressure
// inside a sliding window gives a simple, auditable trip condition with no
// smoothing.
package cascade

import (
	"time"

	"github.com/Gravecat/guru-meditation/internal/report"
)

const (
	// DefaultThreshold is the pressure that must be exceeded within the
	// window to declare a cascade.
	DefaultThreshold = 20

	// DefaultWindow is how long the window stays live without a reset.
	DefaultWindow = 30 * time.Second
)

// Cascade weights per severity.
const (
	weightWarning  = 1
	weightError    = 2
	weightCritical = 4
)

// Weight returns the cascade pressure contributed by one report at the
// given severity. Severities outside Warning/Error/Critical contribute
// nothing and bypass the detector entirely.
func Weight(sev report.Severity) uint {
	switch sev {
	case report.Warning:
		return weightWarning
	case report.Error:
		return weightError
	case report.Critical:
		return weightCritical
	default:
		return 0
	}
}

// Detector accumulates weighted failure pressure inside a sliding time
// window. Once tripped it stays tripped for the life of the process; there
// is no way back short of a halt completing.
type Detector struct {
	threshold   uint
	window      time.Duration
	pressure    uint
	windowStart time.Time
	tripped     bool
	now         func() time.Time
}

// New builds a detector. Zero threshold or window select the defaults; a
// nil clock selects time.Now.
func New(threshold uint, window time.Duration, now func() time.Time) *Detector {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if window == 0 {
		window = DefaultWindow
	}
	if now == nil {
		now = time.Now
	}
	d := &Detector{threshold: threshold, window: window, now: now}
	d.windowStart = d.now()
	return d
}

// Start resets the window origin. Called once when the log opens.
func (d *Detector) Start() {
	d.windowStart = d.now()
}

// Tripped reports whether a cascade has been declared.
func (d *Detector) Tripped() bool {
	return d.tripped
}

// Pressure returns the accumulated weight in the current window.
func (d *Detector) Pressure() uint {
	return d.pressure
}

// Observe applies one weighted failure. It returns true exactly once: the
// moment accumulated pressure exceeds the threshold and the cascade is
// declared. Observing after the trip is a no-op (callers check Tripped
// before reporting to avoid recursive halts). A weight arriving after the
// window has gone idle resets the window and is itself discarded, not
// credited to the fresh window.
func (d *Detector) Observe(weight uint) bool {
	if d.tripped || weight == 0 {
		return false
	}
	now := d.now()
	if now.Sub(d.windowStart) <= d.window {
		d.pressure += weight
		if d.pressure > d.threshold {
			d.tripped = true
			return true
		}
		return false
	}
	d.windowStart = now
	d.pressure = 0
	return false
}
