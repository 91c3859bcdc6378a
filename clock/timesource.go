// Package clock provides the process-wide monotonic time source the
// scheduler uses for ordering and dispatch. All operations are lock-free:
// they derive from Go's monotonic clock reading, which is itself safe for
// concurrent use, so no mutex guards any field here.
package clock

import "time"

// TimeSource reports a monotonic, strictly non-decreasing microsecond
// counter along with conversions to and from the platform's native tick
// representation. Ticks are modeled as nanoseconds, since that is the
// resolution Go's runtime monotonic clock already exposes on every
// supported platform; TicksPerSecond is still computed (and clamped) the
// way a platform-tick-counter based implementation would be, so the
// conversion helpers behave identically if that mapping ever changes.
type TimeSource struct {
	ticksPerSecond int64
	nsPerTick      float64
	epoch          time.Time
}

// New creates a TimeSource anchored to the current instant. Anchoring
// per-instance (rather than at package init) keeps New cheap to
// use in tests without process-global state leaking between them.
func New() *TimeSource {
	ticksPerSecond := int64(time.Second) // 1 tick == 1ns at native resolution
	if ticksPerSecond < 1_000_000 {
		// Guard against a degenerate platform clock; avoids div-by-zero
		// in UsToTicks/TicksToUs below.
		ticksPerSecond = 1
	}
	return &TimeSource{
		ticksPerSecond: ticksPerSecond,
		nsPerTick:      float64(time.Second) / float64(ticksPerSecond),
		epoch:          time.Now(),
	}
}

var process = New()

// Default returns the process-wide TimeSource. Most callers should use
// this; New exists for tests that want an isolated epoch.
func Default() *TimeSource { return process }

// NowTicks returns ticks elapsed since the TimeSource's epoch. Backed by
// time.Since, which reads the monotonic clock, this is strictly
// non-decreasing on a single call site regardless of wall-clock changes.
func (ts *TimeSource) NowTicks() int64 {
	return int64(time.Since(ts.epoch))
}

// NowUs returns microseconds elapsed since the TimeSource's epoch.
func (ts *TimeSource) NowUs() int64 {
	return ts.TicksToUs(ts.NowTicks())
}

// TicksPerSecond returns the platform tick frequency used for conversions.
func (ts *TimeSource) TicksPerSecond() int64 {
	return ts.ticksPerSecond
}

// NsPerTick returns nanoseconds per tick.
func (ts *TimeSource) NsPerTick() float64 {
	return ts.nsPerTick
}

// UsToTicks converts a microsecond duration to ticks.
func (ts *TimeSource) UsToTicks(us int64) int64 {
	return us * ts.ticksPerSecond / 1_000_000
}

// TicksToUs converts a tick count to microseconds.
func (ts *TimeSource) TicksToUs(ticks int64) int64 {
	return ticks * 1_000_000 / ts.ticksPerSecond
}

// BusyWaitUntil spins on NowUs until it reaches or exceeds targetUs. It
// never sleeps, trading CPU for sub-microsecond wake latency. Returns the
// observed lateness (actual - target) in microseconds; always >= 0.
func (ts *TimeSource) BusyWaitUntil(targetUs int64) int64 {
	for {
		now := ts.NowUs()
		if now >= targetUs {
			return now - targetUs
		}
	}
}
