// Package speech narrates text through the platform's own speech
// synthesizer. It is the last fallback tier: used when remote synthesis
// produces nothing, and never cached since the audio is synthesized locally
// on demand.
package speech

import (
	"context"
	"os/exec"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
)

// Speaker drives the platform speech binary, one utterance chunk at a time.
type Speaker struct {
	mu         sync.Mutex
	binary     string
	backend    string
	voices     []Voice
	chunkLimit int

	stopPlayback func()
	cancelFn     context.CancelFunc

	runChunk func(ctx context.Context, voice Voice, chunk string) error
}

// NewSpeaker detects the platform speech binary and prepares a speaker. A
// platform without one still yields a working Speaker whose Speak completes
// immediately.
func NewSpeaker(chunkLimit int) *Speaker {
	s := &Speaker{chunkLimit: chunkLimit}
	s.detectBinary()
	s.runChunk = s.execChunk
	return s
}

func (s *Speaker) detectBinary() {
	candidates := []struct{ binary, backend string }{
		{"espeak-ng", "espeak"},
		{"espeak", "espeak"},
	}
	if runtime.GOOS == "darwin" {
		candidates = append([]struct{ binary, backend string }{{"say", "say"}}, candidates...)
	}

	for _, c := range candidates {
		path, err := exec.LookPath(c.binary)
		if err != nil {
			continue
		}
		s.binary = path
		s.backend = c.backend
		s.voices = voicesFor(c.backend)
		log.Debug("platform speech binary found", "binary", path, "backend", c.backend)
		return
	}
	log.Debug("no platform speech binary available")
}

// voicesFor returns the curated voice table for a speech backend.
func voicesFor(backend string) []Voice {
	switch backend {
	case "say":
		return []Voice{
			{Name: "Lekha", Locale: "hi-IN"},
			{Name: "Veena", Locale: "en-IN"},
			{Name: "Samantha", Locale: "en-US"},
		}
	case "espeak":
		return []Voice{
			{Name: "te", Locale: "te-IN"},
			{Name: "ta", Locale: "ta-IN"},
			{Name: "kn", Locale: "kn-IN"},
			{Name: "ml", Locale: "ml-IN"},
			{Name: "hi", Locale: "hi-IN"},
			{Name: "en-in", Locale: "en-IN"},
			{Name: "en", Locale: "en-US"},
		}
	default:
		return nil
	}
}

// Available reports whether the platform can speak at all.
func (s *Speaker) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.binary != ""
}

// SetStopHook registers a hook that silences the playback engine before
// speech starts, keeping native speech mutually exclusive with buffer
// playback.
func (s *Speaker) SetStopHook(stop func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPlayback = stop
}

// Speak narrates text in the given language, splitting it into
// sentence-bounded chunks spoken sequentially. onEnd fires once after the
// final chunk, immediately when the platform cannot speak, and not at all
// when the utterance is canceled. A chunk failure aborts the remaining
// chunks and still fires onEnd.
func (s *Speaker) Speak(text, language string, onEnd func()) {
	s.mu.Lock()
	stop := s.stopPlayback
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
	s.Cancel()

	s.mu.Lock()
	if s.binary == "" {
		s.mu.Unlock()
		log.Debug("native speech unavailable; completing immediately")
		if onEnd != nil {
			onEnd()
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelFn = cancel
	voice, _ := ResolveVoice(language, s.voices)
	chunks := SplitChunks(text, s.chunkLimit)
	run := s.runChunk
	s.mu.Unlock()

	log.Debug("native speech starting", "language", language, "voice", voice.Name, "chunks", len(chunks))

	go func() {
		defer cancel()
		for _, chunk := range chunks {
			if ctx.Err() != nil {
				return
			}
			if err := run(ctx, voice, chunk); err != nil {
				if ctx.Err() != nil {
					return
				}
				// Fail fast rather than risk overlapping audio.
				log.Warn("native speech chunk failed, aborting remainder", "error", err)
				break
			}
		}
		if ctx.Err() != nil {
			return
		}
		if onEnd != nil {
			onEnd()
		}
	}()
}

// Cancel stops any in-progress utterance and discards its remaining chunks.
// The canceled utterance's onEnd is suppressed.
func (s *Speaker) Cancel() {
	s.mu.Lock()
	cancel := s.cancelFn
	s.cancelFn = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Speaker) execChunk(ctx context.Context, voice Voice, chunk string) error {
	// Both say and espeak take -v <voice> followed by the utterance.
	return exec.CommandContext(ctx, s.binary, "-v", voice.Name, chunk).Run()
}
