package audio

import (
	"time"

	"github.com/lixenwraith/chronoforge/constant"
	"github.com/lixenwraith/chronoforge/core"
)

// AudioConfig holds audio system configuration
type AudioConfig struct {
	Enabled       bool
	MasterVolume  float64
	EffectVolumes map[core.SoundType]float64
	SampleRate    int
	MinSoundGap   time.Duration
}

// DefaultAudioConfig returns default configuration
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: 0.5,
		EffectVolumes: map[core.SoundType]float64{
			core.SoundError:      0.8,
			core.SoundBell:       1.0,
			core.SoundWhoosh:     0.6,
			core.SoundChainDone:  0.5,
			core.SoundSkewAlarm:  0.7,
			core.SoundLateAlarm:  0.6,
			core.SoundJitterBlip: 0.6,
			core.SoundCancelThud: 0.7,
		},
		SampleRate:  constant.AudioSampleRate,
		MinSoundGap: constant.MinSoundGap,
	}
}
