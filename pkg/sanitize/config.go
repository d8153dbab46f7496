package sanitize

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries the engine's structural bounds as startup configuration.
// Every value defaults to the base design's fixed constant, so a zero
// environment yields an engine identical to New().
type Config struct {
	MaxCacheSize     int      `env:"SANITIZE_MAX_CACHE_SIZE" envDefault:"5000"`
	MaxInputLength   int      `env:"SANITIZE_MAX_INPUT_LENGTH" envDefault:"100000"`
	CacheMinLength   int      `env:"SANITIZE_CACHE_MIN_LENGTH" envDefault:"5"`
	CacheMaxLength   int      `env:"SANITIZE_CACHE_MAX_LENGTH" envDefault:"5000"`
	HashKeyThreshold int      `env:"SANITIZE_HASH_KEY_THRESHOLD" envDefault:"1000"`
	MaxDepth         int      `env:"SANITIZE_MAX_RECURSION_DEPTH" envDefault:"5"`
	OpaquePrefixes   []string `env:"SANITIZE_OPAQUE_PREFIXES" envSeparator:","`
}

// ErrParsingConfig is returned when environment variables cannot be parsed
// into the config struct.
var ErrParsingConfig = errors.New("failed to parse sanitization config from environment")

var defaultEnvLoaded sync.Once

// LoadConfig reads the engine configuration from the environment, loading
// the default .env file once beforehand if one exists.
func LoadConfig() (Config, error) {
	defaultEnvLoaded.Do(func() {
		// The .env file might not exist and that's ok.
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// NewFromConfig builds an engine from cfg. Options are applied after the
// config, so they win on conflict.
func NewFromConfig(cfg Config, opts ...Option) *Engine {
	base := []Option{
		WithMaxCacheSize(cfg.MaxCacheSize),
		WithMaxInputLength(cfg.MaxInputLength),
		WithMaxDepth(cfg.MaxDepth),
		WithOpaquePrefixes(cfg.OpaquePrefixes...),
		func(e *Engine) {
			if cfg.CacheMinLength > 0 {
				e.cacheMinLength = cfg.CacheMinLength
			}
			if cfg.CacheMaxLength > 0 {
				e.cacheMaxLength = cfg.CacheMaxLength
			}
			if cfg.HashKeyThreshold > 0 {
				e.hashKeyThreshold = cfg.HashKeyThreshold
			}
		},
	}
	return New(append(base, opts...)...)
}
