// Package config defines the rehearse configuration file and its environment overrides.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/rehearse/internal/runtime"
)

// Environment variables that override file values.
const (
	EnvAPIKey       = "OPENAI_API_KEY"
	EnvModel        = "REHEARSE_OPENAI_MODEL"
	EnvRedisAddr    = "REHEARSE_REDIS_ADDR"
	EnvMaxInputSize = "REHEARSE_MAX_INPUT_SIZE"
)

// LogLevel is the minimum level of the application logger.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a known level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Slog maps the level onto slog. Unknown and empty levels are info.
func (l LogLevel) Slog() slog.Level {
	switch LogLevel(strings.ToLower(string(l))) {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Config is the root of the configuration file.
type Config struct {
	// ScenariosDir adds scenario files on top of the built-in catalog.
	ScenariosDir string `yaml:"scenarios_dir"`

	Provider ProviderConfig `yaml:"provider"`
	Cache    CacheConfig    `yaml:"cache"`
	Speech   SpeechConfig   `yaml:"speech"`
	Pacing   PacingConfig   `yaml:"pacing"`
	Server   ServerConfig   `yaml:"server"`

	// MaxInputSize limits free-text replies in bytes. Zero uses the runtime default.
	MaxInputSize int `yaml:"max_input_size"`

	LogLevel LogLevel `yaml:"log_level"`
}

// ProviderConfig configures the external reply provider. An empty APIKey disables dynamic mode.
type ProviderConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Enabled reports whether dynamic replies are configured.
func (p ProviderConfig) Enabled() bool {
	return p.APIKey != ""
}

// CacheConfig configures provider reply caching. Without a Redis address replies
// are cached in memory when TTL is set.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

type SpeechConfig struct {
	Muted bool `yaml:"muted"`
	// Humanize defaults to true when unset.
	Humanize *bool `yaml:"humanize"`
	// WordsPerSecond paces the console voice.
	WordsPerSecond float64 `yaml:"words_per_second"`
	// TranscriptFile feeds recognized speech, one utterance per line.
	TranscriptFile string `yaml:"transcript_file"`
}

// HumanizeEnabled resolves the Humanize default.
func (s SpeechConfig) HumanizeEnabled() bool {
	return s.Humanize == nil || *s.Humanize
}

// PacingConfig overrides runtime.DefaultPacing field by field. Zero values keep the default.
type PacingConfig struct {
	Intro           time.Duration `yaml:"intro"`
	ThinkBase       time.Duration `yaml:"think_base"`
	ThinkJitter     time.Duration `yaml:"think_jitter"`
	PauseExtra      time.Duration `yaml:"pause_extra"`
	PauseChance     float64       `yaml:"pause_chance"`
	PauseAfterTurns int           `yaml:"pause_after_turns"`
	Finish          time.Duration `yaml:"finish"`
	// Instant disables every delay, for demos and scripted runs.
	Instant bool `yaml:"instant"`
}

// Resolve merges the overrides onto the default pacing.
func (p PacingConfig) Resolve() runtime.Pacing {
	if p.Instant {
		return runtime.Pacing{}
	}
	out := runtime.DefaultPacing()
	if p.Intro > 0 {
		out.Intro = p.Intro
	}
	if p.ThinkBase > 0 {
		out.ThinkBase = p.ThinkBase
	}
	if p.ThinkJitter > 0 {
		out.ThinkJitter = p.ThinkJitter
	}
	if p.PauseExtra > 0 {
		out.PauseExtra = p.PauseExtra
	}
	if p.PauseChance > 0 {
		out.PauseChance = p.PauseChance
	}
	if p.PauseAfterTurns > 0 {
		out.PauseAfterTurns = p.PauseAfterTurns
	}
	if p.Finish > 0 {
		out.Finish = p.Finish
	}
	return out
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultAddr is the listen address of `rehearse serve`.
const DefaultAddr = ":8080"

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: DefaultAddr},
		LogLevel: LogInfo,
	}
}
