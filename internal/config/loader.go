package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, applies environment overrides and validates
// the result. An empty path yields the defaults plus environment.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
			return nil, err
		}
		return cfg, Validate(cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f, os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("config: load %q: %w", path, err)
	}
	return cfg, nil
}

// LookupFunc resolves an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadFromReader decodes a YAML config from r over the defaults, applies the
// environment and validates the result. Unknown keys are rejected.
func LoadFromReader(r io.Reader, lookup LookupFunc) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := ApplyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the set environment variables.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		cfg.Provider.APIKey = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		cfg.Provider.Model = v
	}
	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v, ok := lookup(EnvMaxInputSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q is not a number: %w", EnvMaxInputSize, v, err)
		}
		cfg.MaxInputSize = n
	}
	return nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.MaxInputSize < 0 {
		errs = append(errs, fmt.Errorf("max_input_size %d must not be negative", cfg.MaxInputSize))
	}

	if cfg.Provider.Timeout < 0 {
		errs = append(errs, fmt.Errorf("provider.timeout %s must not be negative", cfg.Provider.Timeout))
	}
	if !cfg.Provider.Enabled() && (cfg.Provider.Model != "" || cfg.Provider.BaseURL != "") {
		errs = append(errs, fmt.Errorf("provider.api_key is required when provider.model or provider.base_url is set"))
	}

	if cfg.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl %s must not be negative", cfg.Cache.TTL))
	}
	if cfg.Cache.RedisDB < 0 {
		errs = append(errs, fmt.Errorf("cache.redis_db %d must not be negative", cfg.Cache.RedisDB))
	}

	if cfg.Speech.WordsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("speech.words_per_second %.2f must not be negative", cfg.Speech.WordsPerSecond))
	}

	p := cfg.Pacing
	for name, d := range map[string]int64{
		"intro":        int64(p.Intro),
		"think_base":   int64(p.ThinkBase),
		"think_jitter": int64(p.ThinkJitter),
		"pause_extra":  int64(p.PauseExtra),
		"finish":       int64(p.Finish),
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("pacing.%s must not be negative", name))
		}
	}
	if p.PauseChance < 0 || p.PauseChance > 1 {
		errs = append(errs, fmt.Errorf("pacing.pause_chance %.2f is out of range [0, 1]", p.PauseChance))
	}
	if p.PauseAfterTurns < 0 {
		errs = append(errs, fmt.Errorf("pacing.pause_after_turns %d must not be negative", p.PauseAfterTurns))
	}

	return errors.Join(errs...)
}
