// Package codec converts remote synthesis payloads into playable sample
// buffers. The remote provider delivers base64-encoded little-endian signed
// 16-bit PCM; playback wants normalized floats split by channel.
package codec

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Common codec errors.
var (
	// ErrDecode indicates a malformed base64 audio payload.
	ErrDecode = errors.New("malformed base64 audio payload")

	// ErrInvalidAudioData indicates a byte buffer too short to hold audio
	// or one that yields no complete frames.
	ErrInvalidAudioData = errors.New("invalid PCM audio data")
)

// Buffer is a decoded, ready-to-play multi-channel sample buffer.
// Samples are normalized to [-1.0, 1.0], one slice per channel.
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// FrameCount returns the number of frames per channel.
func (b *Buffer) FrameCount() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// ChannelCount returns the number of channels.
func (b *Buffer) ChannelCount() int {
	return len(b.Channels)
}

// MemSize approximates the in-memory size of the buffer in bytes, used for
// cache accounting.
func (b *Buffer) MemSize() int64 {
	return int64(b.ChannelCount()) * int64(b.FrameCount()) * 4
}

// Duration returns the playback duration in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(b.FrameCount()) / float64(b.SampleRate)
}

// DecodeBase64 decodes a base64 payload into raw bytes. Embedded whitespace
// is stripped before decoding; anything else malformed fails with ErrDecode.
func DecodeBase64(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	data, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}

// EncodeBase64 encodes raw bytes to a base64 string. It is the total inverse
// of DecodeBase64 for well-formed input.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// PCM16ToBuffer interprets data as little-endian signed 16-bit PCM
// interleaved by channel and converts it to a normalized float buffer.
// A trailing odd byte is truncated. Interleave positions past the end of the
// data (when the byte length is not an exact multiple of channels*2) read as
// silence.
func PCM16ToBuffer(data []byte, sampleRate, channels int) (*Buffer, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidAudioData, len(data))
	}
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidAudioData, channels)
	}

	sampleCount := len(data) / 2
	frames := sampleCount / channels
	if frames <= 0 {
		return nil, fmt.Errorf("%w: %d samples across %d channels", ErrInvalidAudioData, sampleCount, channels)
	}

	buf := &Buffer{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for ch := 0; ch < channels; ch++ {
		out := make([]float32, frames)
		for i := 0; i < frames; i++ {
			idx := i*channels + ch
			if idx >= sampleCount {
				continue // silence
			}
			s := int16(binary.LittleEndian.Uint16(data[idx*2 : idx*2+2]))
			out[i] = float32(s) / 32768.0
		}
		buf.Channels[ch] = out
	}
	return buf, nil
}

// BufferToPCM16 renders a float buffer back to interleaved little-endian
// signed 16-bit PCM for the audio output device. Samples are clamped to the
// representable range.
func BufferToPCM16(b *Buffer) []byte {
	channels := b.ChannelCount()
	frames := b.FrameCount()
	out := make([]byte, frames*channels*2)

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			v := b.Channels[ch][i] * 32768.0
			if v > 32767 {
				v = 32767
			} else if v < -32768 {
				v = -32768
			}
			idx := (i*channels + ch) * 2
			binary.LittleEndian.PutUint16(out[idx:idx+2], uint16(int16(v)))
		}
	}
	return out
}
