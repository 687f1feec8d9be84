package playback

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// otoContext adapts an oto/v3 context to the Context interface.
type otoContext struct {
	ctx *oto.Context
}

func newOtoContext(sampleRate, channels int) (Context, error) {
	options := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   50 * time.Millisecond,
	}

	log.Debug("initializing audio output context",
		"sample_rate", options.SampleRate,
		"channels", options.ChannelCount)

	ctx, ready, err := oto.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("audio context initialization timeout")
	}

	return &otoContext{ctx: ctx}, nil
}

func (c *otoContext) NewPlayer(r io.Reader) Player {
	return &otoPlayer{player: c.ctx.NewPlayer(r)}
}

func (c *otoContext) Suspend() error {
	return c.ctx.Suspend()
}

func (c *otoContext) Resume() error {
	return c.ctx.Resume()
}

type otoPlayer struct {
	player *oto.Player
}

func (p *otoPlayer) Play()           { p.player.Play() }
func (p *otoPlayer) Pause()          { p.player.Pause() }
func (p *otoPlayer) IsPlaying() bool { return p.player.IsPlaying() }
func (p *otoPlayer) Close() error    { return p.player.Close() }
