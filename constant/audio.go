package constant

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate    = 44100
	AudioChannels      = 2
	AudioBitDepth      = 16
	AudioBytesPerFrame = AudioChannels * (AudioBitDepth / 8) // 4 bytes
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines latency and mixer tick rate.
	AudioBufferDuration = 50 * time.Millisecond

	// AudioBufferSamples is frames per mixer tick at 44.1kHz
	AudioBufferSamples = (AudioSampleRate * 50) / 1000 // 2205

	// AudioDrainTimeout for queue cleanup on stop
	AudioDrainTimeout = 100 * time.Millisecond

	// MinSoundGap between consecutive sounds
	MinSoundGap = 50 * time.Millisecond
)

// Error Sound (listener panic / failed dispatch)
const (
	ErrorSoundDuration = 80 * time.Millisecond
	ErrorSoundAttack   = 5 * time.Millisecond
	ErrorSoundRelease  = 20 * time.Millisecond
)

// Bell Sound (on-time tick chime)
const (
	BellSoundDuration           = 600 * time.Millisecond
	BellSoundAttack             = 5 * time.Millisecond
	BellSoundFundamentalRelease = 550 * time.Millisecond
	BellSoundOvertoneRelease    = 200 * time.Millisecond
)

// Whoosh Sound (strategy switch)
const (
	WhooshSoundDuration = 300 * time.Millisecond
	WhooshSoundAttack   = 150 * time.Millisecond
	WhooshSoundRelease  = 150 * time.Millisecond
)

// Chain Done Sound (last link of a scheduled chain fired)
const (
	ChainDoneSoundNote1Duration = 80 * time.Millisecond
	ChainDoneSoundNote2Duration = 280 * time.Millisecond
	ChainDoneSoundAttack        = 5 * time.Millisecond
	ChainDoneSoundNote1Release  = 40 * time.Millisecond
	ChainDoneSoundNote2Release  = 200 * time.Millisecond
)

// Skew Alarm Sound (sustained negative clock skew)
const (
	SkewAlarmSoundDuration = 100 * time.Millisecond
	SkewAlarmSoundAttack   = 3 * time.Millisecond
	SkewAlarmSoundRelease  = 70 * time.Millisecond
	SkewAlarmStartFreq     = 120.0 // Hz
	SkewAlarmEndFreq       = 35.0  // Hz
)

// Late Alarm Sound (sustained positive jitter, continuous)
const (
	LateAlarmSoundDuration  = 400 * time.Millisecond
	LateAlarmSoundAttack    = 10 * time.Millisecond
	LateAlarmSoundRelease   = 40 * time.Millisecond
	LateAlarmModulationRate = 14.0 // Hz - creates a pulsing "buzz"
)

// Jitter Blip Sound (a single late dispatch, short)
const (
	JitterBlipSoundDuration = 60 * time.Millisecond
	JitterBlipBurstCount    = 5
	JitterBlipBurstDuration = 4 * time.Millisecond
	JitterBlipGapDuration   = 6 * time.Millisecond
)

// Cancel Thud Sound (a pending node was cancelled)
const (
	CancelThudSoundDuration   = 70 * time.Millisecond
	CancelThudTransientLength = 5 * time.Millisecond
	CancelThudAttack          = 500 * time.Microsecond
	CancelThudDecayRate       = 25 * time.Millisecond
)
