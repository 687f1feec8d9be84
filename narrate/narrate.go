package narrate

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dongleekousik-jpg/narada/narrate/cache"
	"github.com/dongleekousik-jpg/narada/narrate/codec"
)

// PlaybackEngine renders decoded buffers. Implemented by playback.Engine.
type PlaybackEngine interface {
	Play(buf *codec.Buffer, onEnded func()) error
	Stop()
}

// SynthesisClient calls the remote text-to-speech collaborator. Implemented
// by remote.Client. An empty payload with a nil error means the provider
// produced no audio.
type SynthesisClient interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// NativeSpeaker narrates raw text through platform speech. Implemented by
// speech.Speaker.
type NativeSpeaker interface {
	Speak(text, language string, onEnd func())
	Cancel()
}

// Narrator resolves narration audio through the cache hierarchy, remote
// synthesis, and the native speech fallback. The most recently issued
// Narrate call is authoritative: a freshly minted token guards every state
// mutation, so superseded requests finish silently.
type Narrator struct {
	cfg Config

	memory  *cache.Memory
	disk    *cache.DiskStore
	engine  PlaybackEngine
	client  SynthesisClient
	speaker NativeSpeaker

	mu      sync.Mutex
	active  string
	onState func(State)
}

// New creates a Narrator wired to its collaborators.
func New(cfg Config, engine PlaybackEngine, client SynthesisClient, speaker NativeSpeaker, disk *cache.DiskStore) *Narrator {
	return &Narrator{
		cfg:     cfg,
		memory:  cache.NewMemory(cfg.MemoryCacheBytes),
		disk:    disk,
		engine:  engine,
		client:  client,
		speaker: speaker,
	}
}

// OnState registers the UI-visible state callback. Only the currently
// active request ever drives it.
func (n *Narrator) OnState(fn func(State)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onState = fn
}

// Narrate starts resolving and playing narration for the request,
// superseding any narration still in flight. It returns immediately; state
// changes arrive through the OnState callback, and the callback is
// guaranteed to eventually report StateStopped no matter how many fallback
// tiers fail.
func (n *Narrator) Narrate(ctx context.Context, req Request) {
	token := n.begin()
	go n.resolve(ctx, token, req)
}

// Stop supersedes any in-flight request and silences playback. Safe to call
// at any time, including component teardown.
func (n *Narrator) Stop() {
	n.mu.Lock()
	n.active = uuid.NewString() // orphan every outstanding token
	n.mu.Unlock()

	n.engine.Stop()
	n.emit(StateStopped)
}

// Memory exposes the in-memory cache, mainly for preload warmers.
func (n *Narrator) Memory() *cache.Memory {
	return n.memory
}

func (n *Narrator) begin() string {
	token := uuid.NewString()
	n.mu.Lock()
	n.active = token
	n.mu.Unlock()
	return token
}

func (n *Narrator) isActive(token string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return token == n.active
}

// setState emits a state change if the request is still authoritative.
func (n *Narrator) setState(token string, state State) {
	n.mu.Lock()
	fn := n.onState
	active := token == n.active
	n.mu.Unlock()
	if active && fn != nil {
		fn(state)
	}
}

func (n *Narrator) emit(state State) {
	n.mu.Lock()
	fn := n.onState
	n.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}

func (n *Narrator) resolve(ctx context.Context, token string, req Request) {
	key := req.CacheKey()

	// Memory hit: no network, no disk, straight to playback.
	if buf, ok := n.memory.Get(key); ok {
		n.play(token, req, buf)
		return
	}

	n.setState(token, StateLoading)

	// Persistent store hit: decode and promote.
	if payload, ok := n.disk.Get(key); ok {
		if buf, err := n.decode(payload); err == nil {
			if !n.isActive(token) {
				return
			}
			n.memory.Put(key, buf)
			n.play(token, req, buf)
			return
		}
		// A corrupt persisted payload falls through to re-synthesis.
		log.Warn("cached narration payload undecodable, resynthesizing", "key", key)
	}

	buf, payload, err := n.synthesize(ctx, token, req)
	if err == nil {
		// Caching a correct result is harmless even when superseded.
		n.disk.Put(key, payload)
		n.memory.Put(key, buf)
		if !n.isActive(token) {
			return
		}
		n.play(token, req, buf)
		return
	}

	if !n.isActive(token) {
		return
	}
	log.Warn("narration falling back to native speech", "key", key, "error", err)
	n.speakNative(token, req)
}

// synthesize runs the remote tiers in order, first success wins: the full
// text, then the simplified variant. Provider errors and empty payloads are
// treated identically.
func (n *Narrator) synthesize(ctx context.Context, token string, req Request) (*codec.Buffer, string, error) {
	attempts := []string{req.Text, n.simplifiedText(req)}

	var lastErr error
	for i, text := range attempts {
		if !n.isActive(token) && lastErr != nil {
			// Superseded mid-chain; no point issuing further calls.
			return nil, "", lastErr
		}
		payload, err := n.client.Synthesize(ctx, text)
		if err != nil {
			lastErr = err
			log.Debug("remote synthesis attempt failed", "attempt", i+1, "error", err)
			continue
		}
		if payload == "" {
			lastErr = ErrNoAudioReturned
			log.Debug("remote synthesis attempt returned no audio", "attempt", i+1)
			continue
		}
		buf, err := n.decode(payload)
		if err != nil {
			lastErr = err
			continue
		}
		return buf, payload, nil
	}
	return nil, "", lastErr
}

func (n *Narrator) simplifiedText(req Request) string {
	name := req.Title
	if name == "" {
		name = req.PlaceID
	}
	return name + " " + neutralSentence
}

func (n *Narrator) decode(payload string) (*codec.Buffer, error) {
	raw, err := codec.DecodeBase64(payload)
	if err != nil {
		return nil, err
	}
	return codec.PCM16ToBuffer(raw, n.cfg.SampleRate, n.cfg.Channels)
}

func (n *Narrator) play(token string, req Request, buf *codec.Buffer) {
	if !n.isActive(token) {
		return
	}
	err := n.engine.Play(buf, func() {
		n.setState(token, StateStopped)
	})
	if err != nil {
		log.Warn("buffer playback failed, falling back to native speech", "error", err)
		n.speakNative(token, req)
		return
	}
	n.setState(token, StatePlaying)
}

// speakNative is the final tier: the original text through platform speech,
// bypassing caches entirely.
func (n *Narrator) speakNative(token string, req Request) {
	if !n.isActive(token) {
		return
	}
	n.setState(token, StatePlaying)
	n.speaker.Speak(req.Text, req.Language, func() {
		n.setState(token, StateStopped)
	})
}
