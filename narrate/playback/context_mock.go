package playback

import (
	"io"
	"sync"
)

// MockContext is an in-memory Context for tests. Players never finish on
// their own; tests drive completion with FinishCurrent.
type MockContext struct {
	mu        sync.Mutex
	players   []*MockPlayer
	suspended bool

	SuspendCalls int
	ResumeCalls  int
}

// NewMockContext creates a mock output context.
func NewMockContext() *MockContext {
	return &MockContext{}
}

func (c *MockContext) NewPlayer(r io.Reader) Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := &MockPlayer{data: r}
	c.players = append(c.players, p)
	return p
}

func (c *MockContext) Suspend() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suspended = true
	c.SuspendCalls++
	return nil
}

func (c *MockContext) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suspended = false
	c.ResumeCalls++
	return nil
}

// Suspended reports whether the context is currently suspended.
func (c *MockContext) Suspended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suspended
}

// Players returns every player created so far.
func (c *MockContext) Players() []*MockPlayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*MockPlayer, len(c.players))
	copy(out, c.players)
	return out
}

// ActivePlayers counts players that are currently playing.
func (c *MockContext) ActivePlayers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.players {
		if p.IsPlaying() {
			n++
		}
	}
	return n
}

// FinishCurrent simulates natural playback completion of the most recent
// player.
func (c *MockContext) FinishCurrent() {
	c.mu.Lock()
	var last *MockPlayer
	if len(c.players) > 0 {
		last = c.players[len(c.players)-1]
	}
	c.mu.Unlock()
	if last != nil {
		last.Finish()
	}
}

// MockPlayer is the Player produced by MockContext.
type MockPlayer struct {
	mu      sync.Mutex
	data    io.Reader
	playing bool
	closed  bool
}

func (p *MockPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.playing = true
	}
}

func (p *MockPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *MockPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *MockPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.closed = true
	return nil
}

// Finish marks natural end of playback.
func (p *MockPlayer) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

// Closed reports whether the player has been closed.
func (p *MockPlayer) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
