package audio

import (
	"errors"
	"time"

	"github.com/lixenwraith/chronoforge/core"
)

// AudioCommand represents a sound playback request submitted to the engine.
type AudioCommand struct {
	Type       core.SoundType
	Priority   int
	Generation uint64
	Timestamp  time.Time
}

// BackendType identifies a CLI audio backend (unused by the beep-based
// engine but kept for backends that shell out instead of using speaker).
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
	BackendFFplay
	BackendOSS
)

// BackendConfig describes a CLI audio backend.
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// Sentinel errors
var (
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrPipeClosed     = errors.New("audio pipe closed")
)
