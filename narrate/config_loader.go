package narrate

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// LoadConfig builds the pipeline configuration from defaults, the viper
// config file, and environment variable overrides, in that order.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("narada.endpoint") {
		cfg.Endpoint = viper.GetString("narada.endpoint")
	}
	if viper.IsSet("narada.voice") {
		cfg.Voice = viper.GetString("narada.voice")
	}
	if viper.IsSet("narada.sample_rate") {
		cfg.SampleRate = viper.GetInt("narada.sample_rate")
	}
	if viper.IsSet("narada.channels") {
		cfg.Channels = viper.GetInt("narada.channels")
	}
	if viper.IsSet("narada.cache_dir") {
		cfg.CacheDir = viper.GetString("narada.cache_dir")
	}
	if viper.IsSet("narada.cache_version") {
		cfg.CacheVersion = viper.GetInt("narada.cache_version")
	}
	if viper.IsSet("narada.memory_cache_bytes") {
		cfg.MemoryCacheBytes = viper.GetInt64("narada.memory_cache_bytes")
	}
	if viper.IsSet("narada.chunk_limit") {
		cfg.ChunkLimit = viper.GetInt("narada.chunk_limit")
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid narration configuration: %w", err)
	}
	return cfg, nil
}
