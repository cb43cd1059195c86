package soundtrack

import (
	"context"
	"errors"
	"time"

	"github.com/milk9111/vignette/future"
)

// ErrUnavailable is reported by backends that cannot produce sound at all.
var ErrUnavailable = errors.New("soundtrack: audio unavailable")

// Track is a playable stream with a seekable position.
type Track interface {
	Play()
	Pause()
	IsPlaying() bool
	Position() time.Duration
	SetPosition(time.Duration) error
}

// Source is a one-shot player over a decoded Buffer. It can be started once
// and is closed when stopped.
type Source interface {
	Track
	Close() error
}

// Buffer is a fully decoded track.
type Buffer struct {
	Name     string
	PCM      []byte
	Duration time.Duration
}

// Backend is the audio device seen by the Manager.
type Backend interface {
	// Err reports a permanent failure to open the audio device.
	Err() error
	// Ready reports whether the mixer is running.
	Ready() bool
	// Resume asks a suspended mixer to start.
	Resume()
	// OpenLoop opens name as an endlessly looping track at volume.
	OpenLoop(ctx context.Context, name string, volume float64) (Track, error)
	// Decode fetches and decodes name into memory.
	Decode(ctx context.Context, name string, report future.Reporter) (*Buffer, error)
	// NewSource creates a stopped source over buf.
	NewSource(buf *Buffer, gain float64) (Source, error)
}
