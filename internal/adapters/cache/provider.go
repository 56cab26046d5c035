// Package cache memoizes reply provider answers in a ports.ReplyCache.
package cache

import (
	"context"
	"log/slog"

	"github.com/aretw0/rehearse/internal/logging"
	"github.com/aretw0/rehearse/pkg/ports"
)

// Provider answers from the cache when it can and from the wrapped provider otherwise.
// Cache failures are logged and never fail a reply.
type Provider struct {
	next   ports.ReplyProvider
	store  ports.ReplyCache
	logger *slog.Logger
}

var _ ports.ReplyProvider = (*Provider)(nil)

// Wrap returns next memoized in store. A nil logger discards cache warnings.
func Wrap(next ports.ReplyProvider, store ports.ReplyCache, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Provider{next: next, store: store, logger: logger}
}

// Reply implements ports.ReplyProvider.
func (p *Provider) Reply(ctx context.Context, req ports.ReplyRequest) (string, error) {
	key := req.Key()

	reply, ok, err := p.store.Get(ctx, key)
	switch {
	case err != nil:
		p.logger.Warn("reply cache read failed", "error", err)
	case ok:
		p.logger.Debug("reply cache hit", "key", key)
		return reply, nil
	}

	reply, err = p.next.Reply(ctx, req)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return reply, nil
	}
	if err := p.store.Set(ctx, key, reply); err != nil {
		p.logger.Warn("reply cache write failed", "error", err)
	}
	return reply, nil
}
