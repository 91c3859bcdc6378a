package constant

import "time"

// Scheduler strategy tuning
const (
	// BackgroundMaxWait caps the timed wake-channel wait in the Background
	// strategy so stop() stays responsive even with a far-future head.
	BackgroundMaxWait = 1 * time.Second

	// LowResMinInterval is the finest sleep granularity LowRes rounds to.
	LowResMinInterval = time.Millisecond

	// DefaultJitterConvergence is the stable default K in offsetUs += delta/K.
	DefaultJitterConvergence = 4

	// FrameUpdateInterval is a representative render-loop cadence (~60 FPS),
	// used by the Polled strategy demo as its poll cadence.
	FrameUpdateInterval = 16 * time.Millisecond
)
