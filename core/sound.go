package core

// SoundType represents the distinct chimes and alarms the dashboard can
// ask the audio engine to synthesize.
type SoundType int

const (
	SoundError     SoundType = iota // Listener panic / failed dispatch
	SoundBell                       // On-time tick chime
	SoundWhoosh                     // Strategy switch
	SoundChainDone                  // A scheduled chain's last link fired
	SoundSkewAlarm                  // Sustained negative clock skew
	SoundLateAlarm                  // Sustained positive jitter
	SoundJitterBlip                 // Single late dispatch, short blip
	SoundCancelThud                 // A pending node was cancelled
	SoundTypeCount
)
