package audio

import (
	"sync/atomic"

	"github.com/lixenwraith/chronoforge/core"
)

// AudioPlayer defines the minimal audio interface consumed by scheduler
// listeners that want to trigger a sound effect as a side effect of a
// notification, without depending on the concrete engine type.
type AudioPlayer interface {
	Play(core.SoundType) bool
	ToggleMute() bool
	IsMuted() bool
	IsRunning() bool
}

// Service wraps AudioEngine with graceful degradation: if no audio
// backend is available, Play calls are silently dropped instead of
// failing the caller.
type Service struct {
	audioEngine *AudioEngine
	disabled    atomic.Bool
}

// NewService creates a new audio service with no engine; Player returns
// nil until Init succeeds.
func NewService() *Service {
	return &Service{}
}

// Init detects an audio backend and prepares the engine. muted starts
// playback disabled; it never fails init on backend absence.
func (s *Service) Init(muted bool) error {
	config := DefaultAudioConfig()
	config.Enabled = !muted

	ae, err := NewAudioEngine(config)
	if err != nil {
		s.disabled.Store(true)
		return nil
	}
	s.audioEngine = ae
	return nil
}

// Start launches the mixer goroutine; sets disabled on failure.
func (s *Service) Start() error {
	if s.disabled.Load() || s.audioEngine == nil {
		return nil
	}
	if err := s.audioEngine.Start(); err != nil {
		s.disabled.Store(true)
		s.audioEngine = nil
	}
	return nil
}

// Stop halts the mixer goroutine if running.
func (s *Service) Stop() error {
	if s.audioEngine != nil && s.audioEngine.IsRunning() {
		s.audioEngine.Stop()
	}
	return nil
}

// IsDisabled reports whether audio is unavailable on this host.
func (s *Service) IsDisabled() bool {
	return s.disabled.Load()
}

// Player returns an AudioPlayer for scheduler listeners, or nil if disabled.
func (s *Service) Player() AudioPlayer {
	if s.disabled.Load() || s.audioEngine == nil {
		return nil
	}
	return s.audioEngine
}
