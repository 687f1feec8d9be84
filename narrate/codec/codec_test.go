package codec

import (
	"errors"
	"testing"
)

func TestDecodeBase64_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x00},
		{0xDE, 0xAD, 0xBE, 0xEF},
		[]byte("the quick brown fox"),
	}

	for _, original := range payloads {
		encoded := EncodeBase64(original)
		decoded, err := DecodeBase64(encoded)
		if err != nil {
			t.Fatalf("DecodeBase64(%q) failed: %v", encoded, err)
		}
		if EncodeBase64(decoded) != encoded {
			t.Errorf("round trip mismatch for %v", original)
		}
	}
}

func TestDecodeBase64_StripsWhitespace(t *testing.T) {
	decoded, err := DecodeBase64(" aGVs\nbG8=\t")
	if err != nil {
		t.Fatalf("DecodeBase64 with embedded whitespace failed: %v", err)
	}
	if string(decoded) != "hello" {
		t.Errorf("got %q, want %q", decoded, "hello")
	}
}

func TestDecodeBase64_Malformed(t *testing.T) {
	for _, input := range []string{"!!!!", "aGVsbG8", "a===b"} {
		_, err := DecodeBase64(input)
		if err == nil {
			t.Errorf("DecodeBase64(%q) expected error, got nil", input)
		}
		if !errors.Is(err, ErrDecode) {
			t.Errorf("DecodeBase64(%q) error = %v, want ErrDecode", input, err)
		}
	}
}

func TestPCM16ToBuffer_TooShort(t *testing.T) {
	cases := [][]byte{nil, {}, {0x01}}
	for _, data := range cases {
		_, err := PCM16ToBuffer(data, 24000, 1)
		if !errors.Is(err, ErrInvalidAudioData) {
			t.Errorf("PCM16ToBuffer(%d bytes) error = %v, want ErrInvalidAudioData", len(data), err)
		}
	}
}

func TestPCM16ToBuffer_FourBytesMono(t *testing.T) {
	// Two frames: 0x7FFF (max positive) and 0x8000 (max negative).
	data := []byte{0xFF, 0x7F, 0x00, 0x80}

	buf, err := PCM16ToBuffer(data, 24000, 1)
	if err != nil {
		t.Fatalf("PCM16ToBuffer failed: %v", err)
	}
	if buf.ChannelCount() != 1 {
		t.Fatalf("channel count = %d, want 1", buf.ChannelCount())
	}
	if buf.FrameCount() != 2 {
		t.Fatalf("frame count = %d, want 2", buf.FrameCount())
	}
	for i, s := range buf.Channels[0] {
		if s < -1.0 || s > 1.0 {
			t.Errorf("sample %d = %f, out of [-1, 1]", i, s)
		}
	}
	if buf.Channels[0][0] <= 0 {
		t.Errorf("first sample = %f, want positive", buf.Channels[0][0])
	}
	if buf.Channels[0][1] != -1.0 {
		t.Errorf("second sample = %f, want -1.0", buf.Channels[0][1])
	}
}

func TestPCM16ToBuffer_TruncatesOddByte(t *testing.T) {
	data := []byte{0x00, 0x10, 0x00, 0x20, 0xFF} // trailing odd byte

	buf, err := PCM16ToBuffer(data, 24000, 1)
	if err != nil {
		t.Fatalf("PCM16ToBuffer failed: %v", err)
	}
	if buf.FrameCount() != 2 {
		t.Errorf("frame count = %d, want 2 after truncation", buf.FrameCount())
	}
}

func TestPCM16ToBuffer_PartialFrameReadsAsSilence(t *testing.T) {
	// Three samples over two channels: one full frame plus a dangling sample.
	data := []byte{0x00, 0x10, 0x00, 0x20, 0x00, 0x30}

	buf, err := PCM16ToBuffer(data, 24000, 2)
	if err != nil {
		t.Fatalf("PCM16ToBuffer failed: %v", err)
	}
	if buf.FrameCount() != 1 {
		t.Fatalf("frame count = %d, want 1", buf.FrameCount())
	}
	if buf.Channels[0][0] == 0 || buf.Channels[1][0] == 0 {
		t.Errorf("full frame should carry non-zero samples: %v / %v",
			buf.Channels[0][0], buf.Channels[1][0])
	}
}

func TestPCM16ToBuffer_NonPositiveFrames(t *testing.T) {
	// One sample interleaved across four channels yields zero frames.
	_, err := PCM16ToBuffer([]byte{0x00, 0x10}, 24000, 4)
	if !errors.Is(err, ErrInvalidAudioData) {
		t.Errorf("error = %v, want ErrInvalidAudioData", err)
	}
}

func TestBufferToPCM16_RoundTrip(t *testing.T) {
	data := []byte{0x00, 0x10, 0x00, 0xF0, 0x34, 0x12, 0xCC, 0xED}

	buf, err := PCM16ToBuffer(data, 24000, 1)
	if err != nil {
		t.Fatalf("PCM16ToBuffer failed: %v", err)
	}
	back := BufferToPCM16(buf)
	if len(back) != len(data) {
		t.Fatalf("length = %d, want %d", len(back), len(data))
	}
	for i := range data {
		if back[i] != data[i] {
			t.Errorf("byte %d = %#x, want %#x", i, back[i], data[i])
		}
	}
}

func TestBufferDuration(t *testing.T) {
	buf := &Buffer{SampleRate: 24000, Channels: [][]float32{make([]float32, 12000)}}
	if d := buf.Duration(); d != 0.5 {
		t.Errorf("Duration = %f, want 0.5", d)
	}
}
