package narrate

import "errors"

// Configuration validation errors.
var (
	ErrMissingEndpoint  = errors.New("synthesis endpoint not configured")
	ErrInvalidRate      = errors.New("sample rate must be positive")
	ErrInvalidChannels  = errors.New("channel count must be positive")
	ErrInvalidCacheSize = errors.New("memory cache size must be positive")
)

// Config holds the narration pipeline configuration.
type Config struct {
	// Endpoint is the remote synthesis URL.
	Endpoint string `env:"NARADA_TTS_ENDPOINT"`

	// Voice is the fixed provider voice identifier. Changing it must come
	// with a CacheVersion bump, since cached audio embeds the voice.
	Voice string `env:"NARADA_TTS_VOICE"`

	// SampleRate and Channels describe the provider's PCM output.
	SampleRate int
	Channels   int

	// CacheDir is the persistent store location; empty selects the
	// platform cache directory.
	CacheDir string `env:"NARADA_CACHE_DIR"`

	// CacheVersion names the persistent namespace. Bumping it discards
	// all previously cached audio wholesale.
	CacheVersion int

	// MemoryCacheBytes caps the in-memory decoded-buffer cache.
	MemoryCacheBytes int64

	// ChunkLimit caps native speech utterance length in runes.
	ChunkLimit int
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Voice:            "kore",
		SampleRate:       24000,
		Channels:         1,
		CacheVersion:     2,
		MemoryCacheBytes: 32 << 20,
		ChunkLimit:       220,
	}
}

// Validate checks the configuration for a usable pipeline.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return ErrMissingEndpoint
	}
	if c.SampleRate <= 0 {
		return ErrInvalidRate
	}
	if c.Channels <= 0 {
		return ErrInvalidChannels
	}
	if c.MemoryCacheBytes <= 0 {
		return ErrInvalidCacheSize
	}
	return nil
}
