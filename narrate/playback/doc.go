// Package playback owns the single shared audio output for the process.
// All playback funnels through one Engine: starting a new stream always
// silences the previous one, which is what guarantees at most one audio
// source is audible at a time across every narration surface.
package playback
