package rehearse_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/rehearse"
	"github.com/aretw0/rehearse/internal/config"
	"github.com/aretw0/rehearse/internal/runtime"
	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/aretw0/rehearse/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instant() *config.Config {
	cfg := config.Default()
	cfg.Pacing.Instant = true
	return cfg
}

func awaitPhase(t *testing.T, e *runtime.Engine, want ...domain.Phase) {
	t.Helper()
	require.Eventually(t, func() bool {
		p := e.Snapshot().Phase
		for _, w := range want {
			if p == w {
				return true
			}
		}
		return false
	}, 2*time.Second, 2*time.Millisecond)
}

func TestNew_Defaults(t *testing.T) {
	app, err := rehearse.New(nil)
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, 4, app.Catalog.Len())
	assert.False(t, app.Engine.DynamicMode())
	assert.True(t, app.Engine.Humanizing())
}

func TestNew_MetricsWalk(t *testing.T) {
	m := observability.NewMetrics(nil)
	app, err := rehearse.New(instant(), rehearse.WithMetrics(m))
	require.NoError(t, err)
	defer app.Close()

	e := app.Engine
	require.NoError(t, e.Start(context.Background(), "technical"))
	for {
		awaitPhase(t, e, domain.PhaseAwaitingReply, domain.PhaseFinished)
		if e.Snapshot().Phase == domain.PhaseFinished {
			break
		}
		require.True(t, e.SelectOption(0))
	}

	count, err := testutil.GatherAndCount(m.Registry(), "rehearse_sessions_finished_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNew_ScenariosDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mini.yaml"), []byte(`
id: mini
title: Mini
description: A tiny scenario.
persona: {name: Sam, role: Candidate}
total_turns: 1
dialog_tree:
- id: start
  message: Hello.
  options:
  - {text: Bye., score: 3, quality: excellent, coaching_tip: Short., category: rapport}
feedback:
  strengths: [Brief]
  improvements: []
  tips: []
`), 0o600))

	cfg := instant()
	cfg.ScenariosDir = dir
	app, err := rehearse.New(cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, 5, app.Catalog.Len())
	_, err = app.Catalog.Get("mini")
	assert.NoError(t, err)

	_, err = rehearse.LoadCatalog(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestNew_DynamicWithRedisCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o-mini",
"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"A live answer."}}]}`))
	}))
	defer srv.Close()
	mr := miniredis.RunT(t)

	cfg := instant()
	cfg.Provider.APIKey = "sk-test"
	cfg.Provider.BaseURL = srv.URL
	cfg.Cache.RedisAddr = mr.Addr()
	cfg.Cache.TTL = time.Hour

	app, err := rehearse.New(cfg)
	require.NoError(t, err)
	defer app.Close()
	require.True(t, app.Engine.DynamicMode())

	e := app.Engine
	for range 2 {
		require.NoError(t, e.Start(context.Background(), "behavioral"))
		awaitPhase(t, e, domain.PhaseAwaitingReply)
		require.True(t, e.SelectOption(0))
		awaitPhase(t, e, domain.PhaseAwaitingReply)

		tr := e.Snapshot().Transcript
		last := tr[len(tr)-1]
		assert.True(t, last.Dynamic)
		assert.Equal(t, "A live answer.", last.Text)
	}
	assert.Equal(t, int32(1), calls.Load(), "the second identical request is served from redis")
}
