package rehearse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/rehearse/internal/adapters/cache"
	"github.com/aretw0/rehearse/internal/adapters/openai"
	"github.com/aretw0/rehearse/internal/adapters/redis"
	"github.com/aretw0/rehearse/internal/config"
	"github.com/aretw0/rehearse/internal/logging"
	"github.com/aretw0/rehearse/internal/runtime"
	"github.com/aretw0/rehearse/pkg/adapters/memory"
	"github.com/aretw0/rehearse/pkg/catalog"
	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/aretw0/rehearse/pkg/observability"
	"github.com/aretw0/rehearse/pkg/ports"
)

// App is the high-level entry point: a practice engine wired from configuration.
type App struct {
	Engine  *runtime.Engine
	Catalog *catalog.Catalog
	Metrics *observability.Metrics
	Config  *config.Config

	redis  *redis.Cache
	logger *slog.Logger
}

type builder struct {
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	metrics  *observability.Metrics
	speech   ports.SpeechOutput
	listener ports.SpeechInput
	provider ports.ReplyProvider
	extra    []runtime.Option
}

// Option defines a functional option for configuring the App.
type Option func(*builder)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) {
		b.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *builder) {
		b.hooks = b.hooks.Merge(hooks)
	}
}

// WithMetrics records session metrics in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(b *builder) {
		b.metrics = m
	}
}

// WithSpeech sets the speech collaborators. Either may be nil.
func WithSpeech(out ports.SpeechOutput, in ports.SpeechInput) Option {
	return func(b *builder) {
		b.speech = out
		b.listener = in
	}
}

// WithReplyProvider replaces the provider the configuration would build.
func WithReplyProvider(p ports.ReplyProvider) Option {
	return func(b *builder) {
		b.provider = p
	}
}

// WithEngineOptions passes extra options to the runtime engine, after the configured ones.
func WithEngineOptions(opts ...runtime.Option) Option {
	return func(b *builder) {
		b.extra = append(b.extra, opts...)
	}
}

// New builds the catalog, reply provider and engine described by cfg.
// A nil cfg uses config.Default().
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}

	app := &App{Config: cfg, Metrics: b.metrics, logger: b.logger}

	cat, err := LoadCatalog(cfg.ScenariosDir)
	if err != nil {
		return nil, err
	}
	app.Catalog = cat

	provider := b.provider
	if provider == nil && cfg.Provider.Enabled() {
		provider, err = app.buildProvider(cfg)
		if err != nil {
			return nil, err
		}
	}

	hooks := observability.LoggingHooks(b.logger)
	if b.metrics != nil {
		hooks = hooks.Merge(b.metrics.Hooks())
	}
	hooks = hooks.Merge(b.hooks)

	engineOpts := []runtime.Option{
		runtime.WithLogger(b.logger),
		runtime.WithPacing(cfg.Pacing.Resolve()),
		runtime.WithMuted(cfg.Speech.Muted),
		runtime.WithHumanize(cfg.Speech.HumanizeEnabled()),
		runtime.WithMaxInputSize(cfg.MaxInputSize),
		runtime.WithLifecycleHooks(hooks),
	}
	if cfg.Provider.Timeout > 0 {
		engineOpts = append(engineOpts, runtime.WithProviderTimeout(cfg.Provider.Timeout))
	}
	if provider != nil {
		engineOpts = append(engineOpts, runtime.WithReplyProvider(provider))
	}
	if b.speech != nil {
		engineOpts = append(engineOpts, runtime.WithSpeechOutput(b.speech))
	}
	if b.listener != nil {
		engineOpts = append(engineOpts, runtime.WithSpeechInput(b.listener))
	}
	engineOpts = append(engineOpts, b.extra...)

	app.Engine = runtime.NewEngine(cat, engineOpts...)
	return app, nil
}

// LoadCatalog returns the built-in scenarios plus those found in dir, which may be empty.
// Scenarios in dir replace built-ins with the same id.
func LoadCatalog(dir string) (*catalog.Catalog, error) {
	cat := catalog.Default()
	if dir == "" {
		return cat, nil
	}
	scenarios, err := catalog.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenarios from %s: %w", dir, err)
	}
	for _, s := range scenarios {
		if err := cat.Add(s); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func (a *App) buildProvider(cfg *config.Config) (ports.ReplyProvider, error) {
	var providerOpts []openai.Option
	if cfg.Provider.BaseURL != "" {
		providerOpts = append(providerOpts, openai.WithBaseURL(cfg.Provider.BaseURL))
	}
	if cfg.Provider.Timeout > 0 {
		providerOpts = append(providerOpts, openai.WithTimeout(cfg.Provider.Timeout))
	}
	p, err := openai.New(cfg.Provider.APIKey, cfg.Provider.Model, providerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create reply provider: %w", err)
	}
	a.logger.Info("dynamic replies enabled", "model", p.Model())

	switch {
	case cfg.Cache.RedisAddr != "":
		a.redis = redis.New(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, redis.WithTTL(cfg.Cache.TTL))
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.redis.Ping(ctx); err != nil {
			// The cache is optional; replies still work, uncached reads are logged.
			a.logger.Warn("redis reply cache unreachable", "addr", cfg.Cache.RedisAddr, "error", err)
		}
		return cache.Wrap(p, a.redis, a.logger), nil
	case cfg.Cache.TTL > 0:
		return cache.Wrap(p, memory.NewCache(memory.WithTTL(cfg.Cache.TTL)), a.logger), nil
	}
	return p, nil
}

// Close stops the conversation and releases backend connections.
func (a *App) Close() error {
	a.Engine.Reset()
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}
