package playback

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dongleekousik-jpg/narada/narrate/codec"
)

// State is the lifecycle state of the playback session.
type State int

const (
	// StateStopped means no session is active.
	StateStopped State = iota
	// StatePlaying means a session is rendering audio.
	StatePlaying
	// StatePaused means the session exists but output is suspended.
	StatePaused
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Engine owns the process-wide audio output context and the single playback
// session. Any caller starting new playback silences the prior session
// first, so at most one stream is ever audible.
type Engine struct {
	mu sync.Mutex

	sampleRate int
	channels   int

	ctx       Context
	player    Player
	state     State
	onEnded   func()
	suspended bool
	unlocked  bool

	// gen invalidates completion watchers; detached before any halt so a
	// stop is never misreported as natural end.
	gen uint64

	nativeCancel func()
}

// NewEngine creates a playback engine for the given output format. The
// underlying output context is constructed lazily on first use.
func NewEngine(sampleRate, channels int) *Engine {
	return &Engine{sampleRate: sampleRate, channels: channels}
}

// SetNativeCanceler registers a hook that cancels platform-native speech.
// Stop and Play invoke it so that only one audio source of any kind is ever
// active.
func (e *Engine) SetNativeCanceler(cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nativeCancel = cancel
}

// State returns the current session state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// IsPlaying reports whether a session is actively rendering.
func (e *Engine) IsPlaying() bool {
	return e.State() == StatePlaying
}

// Unlock prepares the audio output for playback. Some platforms keep the
// output suspended until a deliberate user action; calling this from an
// input handler resumes the context and pushes a short silent buffer
// through it. Calling it anywhere else, or on platforms that don't need it,
// is a harmless no-op. It never fails.
func (e *Engine) Unlock() {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, err := e.contextLocked()
	if err != nil {
		log.Debug("audio unlock skipped", "error", err)
		return
	}
	if e.suspended {
		if err := ctx.Resume(); err != nil {
			log.Debug("audio unlock resume failed", "error", err)
			return
		}
		e.suspended = false
	}
	if e.unlocked {
		return
	}

	frames := e.sampleRate * 30 / 1000
	silence := make([]byte, frames*e.channels*2)
	p := ctx.NewPlayer(bytes.NewReader(silence))
	p.Play()
	e.unlocked = true
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = p.Close()
	}()
}

// Play stops any existing session and starts rendering the buffer from
// offset zero. onEnded fires exactly once when natural playback end is
// reached; it never fires after Stop or a superseding Play.
func (e *Engine) Play(buf *codec.Buffer, onEnded func()) error {
	e.mu.Lock()
	e.haltLocked()
	cancelNative := e.nativeCancel

	ctx, err := e.contextLocked()
	if err != nil {
		e.mu.Unlock()
		if cancelNative != nil {
			cancelNative()
		}
		return fmt.Errorf("audio output unavailable: %w", err)
	}
	if e.suspended {
		if err := ctx.Resume(); err != nil {
			e.mu.Unlock()
			return fmt.Errorf("failed to resume audio output: %w", err)
		}
		e.suspended = false
	}

	player := ctx.NewPlayer(bytes.NewReader(codec.BufferToPCM16(buf)))
	e.player = player
	e.onEnded = onEnded
	e.state = StatePlaying
	e.gen++
	gen := e.gen

	player.Play()
	go e.watchCompletion(player, gen)
	e.mu.Unlock()

	if cancelNative != nil {
		cancelNative()
	}
	return nil
}

// Pause suspends the session. No-op unless currently playing.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying || e.ctx == nil {
		return
	}
	if err := e.ctx.Suspend(); err != nil {
		log.Debug("audio suspend failed", "error", err)
		return
	}
	e.suspended = true
	e.state = StatePaused
}

// Resume continues a paused session. No-op unless currently paused.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePaused || e.ctx == nil {
		return
	}
	if err := e.ctx.Resume(); err != nil {
		log.Debug("audio resume failed", "error", err)
		return
	}
	e.suspended = false
	e.state = StatePlaying
}

// Stop terminates the session without invoking its completion callback. It
// tolerates being called when nothing is playing and also cancels any
// platform-native speech in progress.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.haltLocked()
	if e.suspended && e.ctx != nil {
		// Leave the context runnable for the next session.
		_ = e.ctx.Resume()
		e.suspended = false
	}
	cancelNative := e.nativeCancel
	e.mu.Unlock()

	if cancelNative != nil {
		cancelNative()
	}
}

// haltLocked tears down the current session. The completion callback is
// detached and the watcher generation bumped before the player is closed;
// this ordering is what keeps a programmatic stop from firing onEnded.
func (e *Engine) haltLocked() {
	e.onEnded = nil
	e.gen++
	if e.player != nil {
		_ = e.player.Close()
		e.player = nil
	}
	e.state = StateStopped
}

func (e *Engine) contextLocked() (Context, error) {
	if e.ctx != nil {
		return e.ctx, nil
	}
	ctx, err := newContext(e.sampleRate, e.channels)
	if err != nil {
		return nil, err
	}
	e.ctx = ctx
	return ctx, nil
}

func (e *Engine) watchCompletion(player Player, gen uint64) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		e.mu.Lock()
		if e.gen != gen {
			e.mu.Unlock()
			return
		}
		if e.state == StatePaused {
			e.mu.Unlock()
			continue
		}
		if !player.IsPlaying() {
			cb := e.onEnded
			e.onEnded = nil
			e.player = nil
			e.state = StateStopped
			e.gen++
			e.mu.Unlock()
			_ = player.Close()
			if cb != nil {
				cb()
			}
			return
		}
		e.mu.Unlock()
	}
}
