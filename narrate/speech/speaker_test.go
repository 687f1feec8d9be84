package speech

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeRuns records chunks spoken by an in-test Speaker.
type fakeRuns struct {
	mu     sync.Mutex
	chunks []string
	voices []string
	err    error
	block  chan struct{} // when set, Run waits for close or ctx
}

func (f *fakeRuns) run(ctx context.Context, voice Voice, chunk string) error {
	f.mu.Lock()
	f.chunks = append(f.chunks, chunk)
	f.voices = append(f.voices, voice.Name)
	block := f.block
	err := f.err
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeRuns) spoken() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.chunks))
	copy(out, f.chunks)
	return out
}

func newTestSpeaker(f *fakeRuns) *Speaker {
	return &Speaker{
		binary:     "/usr/bin/espeak-ng",
		backend:    "espeak",
		voices:     voicesFor("espeak"),
		chunkLimit: 60,
		runChunk:   f.run,
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSpeaker_SpeaksChunksSequentially(t *testing.T) {
	fake := &fakeRuns{}
	s := newTestSpeaker(fake)

	var ended atomic.Int32
	s.Speak("First temple sentence. Second temple sentence. Third temple sentence.", "te", func() { ended.Add(1) })

	waitFor(t, "completion", func() bool { return ended.Load() == 1 })

	spoken := fake.spoken()
	if len(spoken) < 2 {
		t.Fatalf("spoken chunks = %v, want several", spoken)
	}
	for _, v := range fake.voices {
		if v != "te" {
			t.Errorf("voice = %q, want te", v)
		}
	}
}

func TestSpeaker_OnEndFiresOnceAfterLastChunk(t *testing.T) {
	fake := &fakeRuns{}
	s := newTestSpeaker(fake)

	var ended atomic.Int32
	s.Speak("One. Two.", "en", func() { ended.Add(1) })

	waitFor(t, "completion", func() bool { return ended.Load() >= 1 })
	time.Sleep(50 * time.Millisecond)
	if ended.Load() != 1 {
		t.Errorf("onEnd fired %d times", ended.Load())
	}
}

func TestSpeaker_UnsupportedPlatformCompletesImmediately(t *testing.T) {
	s := &Speaker{chunkLimit: 60}

	var ended atomic.Int32
	s.Speak("anything", "te", func() { ended.Add(1) })

	if ended.Load() != 1 {
		t.Errorf("onEnd fired %d times, want immediate completion", ended.Load())
	}
}

func TestSpeaker_ChunkErrorAbortsRemainderStillEnds(t *testing.T) {
	fake := &fakeRuns{err: errors.New("synthesis failed")}
	s := newTestSpeaker(fake)

	var ended atomic.Int32
	s.Speak("One. Two. Three. Four. Five. Six. Seven. Eight. Nine. Ten. Eleven.", "en", func() { ended.Add(1) })

	waitFor(t, "completion despite error", func() bool { return ended.Load() == 1 })

	if n := len(fake.spoken()); n != 1 {
		t.Errorf("chunks attempted after failure = %d, want fail-fast 1", n)
	}
}

func TestSpeaker_CancelSuppressesOnEnd(t *testing.T) {
	fake := &fakeRuns{block: make(chan struct{})}
	s := newTestSpeaker(fake)

	var ended atomic.Int32
	s.Speak("A long blocked utterance.", "en", func() { ended.Add(1) })

	waitFor(t, "first chunk start", func() bool { return len(fake.spoken()) == 1 })
	s.Cancel()
	time.Sleep(100 * time.Millisecond)

	if ended.Load() != 0 {
		t.Errorf("onEnd fired %d times after Cancel, want 0", ended.Load())
	}
}

func TestSpeaker_SpeakStopsPlaybackFirst(t *testing.T) {
	fake := &fakeRuns{}
	s := newTestSpeaker(fake)

	var stopped atomic.Int32
	s.SetStopHook(func() { stopped.Add(1) })

	var ended atomic.Int32
	s.Speak("Hello.", "en", func() { ended.Add(1) })

	if stopped.Load() != 1 {
		t.Errorf("stop hook fired %d times before speaking, want 1", stopped.Load())
	}
	waitFor(t, "completion", func() bool { return ended.Load() == 1 })
}

func TestSpeaker_NewSpeakCancelsOldUtterance(t *testing.T) {
	fake := &fakeRuns{block: make(chan struct{})}
	s := newTestSpeaker(fake)

	var firstEnded atomic.Int32
	s.Speak("Blocked first utterance.", "en", func() { firstEnded.Add(1) })
	waitFor(t, "first chunk start", func() bool { return len(fake.spoken()) == 1 })

	// Unblock future chunks and speak again.
	fake.mu.Lock()
	fake.block = nil
	fake.mu.Unlock()

	var secondEnded atomic.Int32
	s.Speak("Second.", "en", func() { secondEnded.Add(1) })

	waitFor(t, "second completion", func() bool { return secondEnded.Load() == 1 })
	if firstEnded.Load() != 0 {
		t.Errorf("superseded utterance's onEnd fired %d times", firstEnded.Load())
	}
}
