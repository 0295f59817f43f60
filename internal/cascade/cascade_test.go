package cascade

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gravecat/guru-meditation/internal/report"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2020, 8, 31, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestWeightTable(t *testing.T) {
	assert.Equal(t, uint(1), Weight(report.Warning))
	assert.Equal(t, uint(2), Weight(report.Error))
	assert.Equal(t, uint(4), Weight(report.Critical))
	assert.Equal(t, uint(0), Weight(report.Info))
	assert.Equal(t, uint(0), Weight(report.StackFrame))
}

// 20 warnings reach pressure 20 (not above threshold); the 21st trips.
func TestTripsAtTwentyFirstWarning(t *testing.T) {
	clock := newFakeClock()
	d := New(0, 0, clock.Now)

	for i := 0; i < 20; i++ {
		require.False(t, d.Observe(Weight(report.Warning)), "tripped early at observation %d", i+1)
	}
	assert.Equal(t, uint(20), d.Pressure())
	assert.True(t, d.Observe(Weight(report.Warning)), "21st warning should trip")
	assert.True(t, d.Tripped())
}

func TestTripsAtEleventhError(t *testing.T) {
	clock := newFakeClock()
	d := New(0, 0, clock.Now)
	for i := 0; i < 10; i++ {
		require.False(t, d.Observe(Weight(report.Error)))
	}
	assert.True(t, d.Observe(Weight(report.Error)))
}

func TestTripsAtSixthCritical(t *testing.T) {
	clock := newFakeClock()
	d := New(0, 0, clock.Now)
	for i := 0; i < 5; i++ {
		require.False(t, d.Observe(Weight(report.Critical)))
	}
	assert.True(t, d.Observe(Weight(report.Critical)))
}

// A weight arriving after the window has gone idle resets the window and
// is itself discarded, not credited to the fresh window.
func TestIdleResetDiscardsIncomingWeight(t *testing.T) {
	clock := newFakeClock()
	d := New(0, 0, clock.Now)

	d.Observe(Weight(report.Critical))
	d.Observe(Weight(report.Critical))
	assert.Equal(t, uint(8), d.Pressure())

	clock.Advance(DefaultWindow + time.Second)
	assert.False(t, d.Observe(Weight(report.Critical)))
	assert.Equal(t, uint(0), d.Pressure(), "resetting observation must not carry its own weight")

	// The fresh window accumulates normally afterwards.
	assert.False(t, d.Observe(Weight(report.Critical)))
	assert.Equal(t, uint(4), d.Pressure())
}

// A report landing exactly on the window boundary still accumulates; the
// comparison is <=, not <.
func TestExactBoundaryStillAccumulates(t *testing.T) {
	clock := newFakeClock()
	d := New(0, 0, clock.Now)

	d.Observe(Weight(report.Warning))
	clock.Advance(DefaultWindow)
	assert.False(t, d.Observe(Weight(report.Warning)))
	assert.Equal(t, uint(2), d.Pressure())
}

func TestTrippedIsPermanent(t *testing.T) {
	clock := newFakeClock()
	d := New(0, 0, clock.Now)
	for i := 0; i < 6; i++ {
		d.Observe(Weight(report.Critical))
	}
	require.True(t, d.Tripped())

	// Neither time nor further observations reset a declared cascade,
	// and Observe never signals a second declaration.
	clock.Advance(time.Hour)
	assert.False(t, d.Observe(Weight(report.Critical)))
	assert.True(t, d.Tripped())
}

func TestZeroWeightBypassesDetector(t *testing.T) {
	clock := newFakeClock()
	d := New(0, 0, clock.Now)
	for i := 0; i < 100; i++ {
		assert.False(t, d.Observe(0))
	}
	assert.Equal(t, uint(0), d.Pressure())
}

func TestStartResetsWindowOrigin(t *testing.T) {
	clock := newFakeClock()
	d := New(0, 0, clock.Now)
	clock.Advance(time.Hour)
	d.Start()

	// Inside the restarted window, weight accumulates immediately.
	assert.False(t, d.Observe(Weight(report.Warning)))
	assert.Equal(t, uint(1), d.Pressure())
}

func TestCustomLimits(t *testing.T) {
	clock := newFakeClock()
	d := New(2, time.Second, clock.Now)
	assert.False(t, d.Observe(1))
	assert.False(t, d.Observe(1))
	assert.True(t, d.Observe(1), "pressure 3 > threshold 2 should trip")
}
