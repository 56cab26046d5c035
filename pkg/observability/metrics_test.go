package observability_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/aretw0/rehearse/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	h := m.Hooks()
	ctx := context.Background()
	base := domain.EventBase{ConversationID: "c1", ScenarioID: "behavioral"}
	excellent := domain.DialogOption{Category: domain.CategoryRapport, Quality: domain.QualityExcellent}

	h.OnPhaseChange(ctx, &domain.PhaseEvent{EventBase: base, From: domain.PhaseIdle, To: domain.PhaseCandidateSpeaking})
	h.OnPhaseChange(ctx, &domain.PhaseEvent{EventBase: base, From: domain.PhaseThinking, To: domain.PhaseCandidateSpeaking})
	h.OnReply(ctx, &domain.ReplyEvent{EventBase: base, Option: excellent})
	h.OnReply(ctx, &domain.ReplyEvent{EventBase: base, Option: excellent})
	h.OnFallback(ctx, &domain.FallbackEvent{EventBase: base, Err: errors.New("timeout")})
	h.OnFinish(ctx, &domain.FinishEvent{EventBase: base, Score: 7, Turns: 2})

	count, err := testutil.GatherAndCount(reg, "rehearse_replies_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `rehearse_sessions_started_total{scenario="behavioral"} 1`)
	assert.Contains(t, text, `rehearse_sessions_finished_total{scenario="behavioral"} 1`)
	assert.Contains(t, text, `rehearse_replies_total{category="rapport",quality="excellent"} 2`)
	assert.Contains(t, text, `rehearse_provider_fallbacks_total 1`)
	assert.Contains(t, text, `rehearse_final_score_sum{scenario="behavioral"} 7`)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := observability.LoggingHooks(logger)

	h.OnFinish(context.Background(), &domain.FinishEvent{
		EventBase: domain.EventBase{ConversationID: "c1", ScenarioID: "culture"},
		Score:     6,
		Turns:     4,
	})

	out := buf.String()
	assert.Contains(t, out, `"msg":"session_finished"`)
	assert.Contains(t, out, `"scenario":"culture"`)
	assert.Contains(t, out, `"score":6`)
}
