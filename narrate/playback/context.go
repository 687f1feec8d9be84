package playback

import (
	"io"
	"sync"
)

// Context abstracts the shared audio output device so the engine can run
// against real hardware in production and an in-memory double in tests.
type Context interface {
	// NewPlayer creates a player that renders interleaved signed 16-bit
	// little-endian PCM read from r.
	NewPlayer(r io.Reader) Player

	// Suspend halts the output device, freezing all players.
	Suspend() error

	// Resume restarts a suspended output device.
	Resume() error
}

// Player renders one audio stream through a Context.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

// ContextFactory constructs an output context for the given PCM format.
type ContextFactory func(sampleRate, channels int) (Context, error)

var (
	factoryMu sync.Mutex
	factory   ContextFactory = newOtoContext
)

// SetContextFactory replaces the output context factory. Tests install a
// mock here; production code never needs to call it.
func SetContextFactory(f ContextFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factory = f
}

func newContext(sampleRate, channels int) (Context, error) {
	factoryMu.Lock()
	f := factory
	factoryMu.Unlock()
	return f(sampleRate, channels)
}
