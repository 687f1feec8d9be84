// Package narrate orchestrates spoken narration of place descriptions:
// cache lookup, remote synthesis, decoding, playback, and the fallback
// chain down to platform-native speech.
package narrate

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Request is one logical "narrate this text" call.
type Request struct {
	// PlaceID identifies the site being narrated, e.g. "srivaritemple".
	// Empty for ad hoc text, in which case the cache key falls back to a
	// text fingerprint.
	PlaceID string

	// Language is the narration language code, e.g. "en" or "te".
	Language string

	// Title is the display name spoken in the simplified retry when the
	// full description is rejected by the provider.
	Title string

	// Text is the full description to narrate.
	Text string
}

// CacheKey returns the composite cache identifier for this request:
// language plus place ID, or language plus a text fingerprint for ad hoc
// narration.
func (r Request) CacheKey() string {
	if r.PlaceID != "" {
		return r.Language + "-" + strings.ToLower(r.PlaceID)
	}
	sum := sha256.Sum256([]byte(r.Text))
	return r.Language + "-" + hex.EncodeToString(sum[:8])
}

// State is the UI-visible lifecycle of a narration.
type State int

const (
	// StateStopped means nothing is loading or playing.
	StateStopped State = iota
	// StateLoading means audio is being resolved or synthesized.
	StateLoading
	// StatePlaying means narration is audible.
	StatePlaying
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}
