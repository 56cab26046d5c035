package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/rehearse/internal/runtime"
	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *Server {
	return NewServer(runtime.NewEngine(nil, runtime.WithPacing(runtime.Pacing{})), nil)
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestServer_ListScenarios(t *testing.T) {
	s := newServer()
	res, err := s.handleListScenarios(context.Background(), callRequest(nil))
	require.NoError(t, err)

	var list []domain.ScenarioSummary
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &list))
	assert.Len(t, list, 4)
	assert.Equal(t, "behavioral", list[0].ID)
}

func TestServer_PracticeFlow(t *testing.T) {
	s := newServer()
	ctx := context.Background()

	_, err := s.handleStart(ctx, callRequest(nil), map[string]interface{}{"scenario_id": "nope"})
	assert.ErrorIs(t, err, domain.ErrScenarioNotFound)

	v, err := s.handleStart(ctx, callRequest(nil), map[string]interface{}{"scenario_id": "situational"})
	require.NoError(t, err)
	assert.Equal(t, "situational", v.Conversation.ScenarioID)

	res, err := s.handleGetReport(ctx, callRequest(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	for turns := 0; turns < 50; turns++ {
		require.Eventually(t, func() bool {
			v, _ = s.handleGetState(ctx, callRequest(nil), nil)
			p := v.Conversation.Phase
			return p == domain.PhaseAwaitingReply || p == domain.PhaseFinished
		}, 2*time.Second, 5*time.Millisecond)
		if v.Conversation.Phase == domain.PhaseFinished {
			break
		}

		if turns == 0 {
			_, err = s.handleSelectOption(ctx, callRequest(nil), map[string]interface{}{"index": float64(42)})
			assert.Error(t, err)
			_, err = s.handleReply(ctx, callRequest(nil), map[string]interface{}{"text": v.Options[0].Text})
		} else {
			_, err = s.handleSelectOption(ctx, callRequest(nil), map[string]interface{}{"index": float64(0)})
		}
		require.NoError(t, err)
	}
	require.Equal(t, domain.PhaseFinished, v.Conversation.Phase)

	res, err = s.handleGetReport(ctx, callRequest(nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "**Score:")

	res, err = s.handleGetReport(ctx, callRequest(map[string]any{"format": "json"}))
	require.NoError(t, err)
	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &report))
	assert.Equal(t, "situational", report.ScenarioID)

	res, err = s.handleGetReport(ctx, callRequest(map[string]any{"format": "pdf"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_ReplyRejected(t *testing.T) {
	s := newServer()
	ctx := context.Background()

	_, err := s.handleReply(ctx, callRequest(nil), map[string]interface{}{"text": "hello there"})
	assert.Error(t, err, "nothing is awaited while idle")

	_, err = s.handleReply(ctx, callRequest(nil), map[string]interface{}{"text": "bad \xff"})
	assert.ErrorIs(t, err, runtime.ErrInvalidUTF8)
}
