package scheduler

import "github.com/lixenwraith/chronoforge/constant"

// jitterMode selects the convergence rule applied after each dispatch.
type jitterMode int

const (
	// jitterStandard applies offsetUs += deltaUs / K, the stable default.
	jitterStandard jitterMode = iota
	// jitterAggressive applies offsetUs += deltaUs * (K-1) / K: converges
	// faster, at the risk of overshoot.
	jitterAggressive
)

// jitterCompensator accumulates a signed microsecond bias so that
// HighRes/LowRes/Background strategies wake early by the observed
// steady-state lateness. Disabled (left at its zero value and never
// consulted) for Polled.
type jitterCompensator struct {
	offsetUs int64
	mode     jitterMode
	prime    bool
	primed   bool
}

// target returns the compensated wait deadline for scheduledUs, i.e. the
// instant the strategy should wait until instead of scheduledUs itself.
func (j *jitterCompensator) target(scheduledUs int64) int64 {
	return scheduledUs - j.offsetUs
}

// remaining floors the compensated wait duration at zero so the offset
// can never drive a strategy into waiting for a negative duration.
func remaining(targetUs, nowUs int64) int64 {
	d := targetUs - nowUs
	if d < 0 {
		return 0
	}
	return d
}

// update folds the observed lateness (actualUs - scheduledUs) into the
// offset. The prime variant sets offsetUs to the first sample outright,
// then switches to the exponential rule for every subsequent sample.
func (j *jitterCompensator) update(deltaUs int64) {
	if j.prime && !j.primed {
		j.offsetUs = deltaUs
		j.primed = true
		return
	}
	const k = constant.DefaultJitterConvergence
	switch j.mode {
	case jitterAggressive:
		j.offsetUs += deltaUs * (k - 1) / k
	default:
		j.offsetUs += deltaUs / k
	}
}

// reset zeroes the offset; called by Scheduler.Clear.
func (j *jitterCompensator) reset() {
	j.offsetUs = 0
	j.primed = false
}
