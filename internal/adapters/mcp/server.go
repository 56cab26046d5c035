package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/rehearse"
	"github.com/aretw0/rehearse/internal/feedback"
	"github.com/aretw0/rehearse/internal/logging"
	"github.com/aretw0/rehearse/internal/runtime"
	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ScenariosURI is the resource listing the catalog.
const ScenariosURI = "rehearse://scenarios"

// Server wraps a practice engine and exposes it as an MCP Server.
type Server struct {
	engine    *runtime.Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *runtime.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("rehearse-mcp", strings.TrimSpace(rehearse.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPServer exposes the underlying server, e.g. for other transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_scenarios",
		mcp.WithDescription("List the interview practice scenarios."),
	), s.handleListScenarios)

	s.mcpServer.AddTool(mcp.NewTool("start_scenario",
		mcp.WithDescription("Start (or restart) a practice interview. The candidate's opening line follows shortly; poll get_state."),
		mcp.WithString("scenario_id", mcp.Required(), mcp.Description("Scenario ID from list_scenarios")),
		mcp.WithOutputSchema[runtime.View](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get the conversation, its phase and the suggested replies."),
		mcp.WithOutputSchema[runtime.View](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	s.mcpServer.AddTool(mcp.NewTool("select_option",
		mcp.WithDescription("Answer with one of the suggested replies."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Index of the suggested reply")),
		mcp.WithOutputSchema[runtime.View](),
	), mcp.NewStructuredToolHandler(s.handleSelectOption))

	s.mcpServer.AddTool(mcp.NewTool("reply",
		mcp.WithDescription("Answer in your own words. The text is matched to the closest suggested reply."),
		mcp.WithString("text", mcp.Required(), mcp.Description("What the interviewer says")),
		mcp.WithOutputSchema[runtime.View](),
	), mcp.NewStructuredToolHandler(s.handleReply))

	s.mcpServer.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Abandon the conversation."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.engine.Reset()
		return mcp.NewToolResultText("reset"), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Get the feedback report of a finished conversation."),
		mcp.WithString("format", mcp.Description("markdown (default) or json")),
	), s.handleGetReport)
}

func (s *Server) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list := s.engine.Catalog().List()
	out := make([]domain.ScenarioSummary, 0, len(list))
	for i := range list {
		out = append(out, list[i].Summary())
	}
	jsonBytes, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (runtime.View, error) {
	id, _ := args["scenario_id"].(string)
	if err := s.engine.Start(ctx, id); err != nil {
		return runtime.View{}, fmt.Errorf("start failed: %w", err)
	}
	s.logger.Info("MCP: session started", "scenario", id)
	return s.engine.View(), nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (runtime.View, error) {
	return s.engine.View(), nil
}

func (s *Server) handleSelectOption(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (runtime.View, error) {
	index, ok := args["index"].(float64)
	if !ok {
		return runtime.View{}, errors.New("index must be a number")
	}
	if !s.engine.SelectOption(int(index)) {
		return runtime.View{}, errors.New("no reply is awaited or the option does not exist")
	}
	return s.engine.View(), nil
}

func (s *Server) handleReply(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (runtime.View, error) {
	text, _ := args["text"].(string)

	clean, err := runtime.SanitizeInput(text, 0)
	if err != nil {
		s.logger.Warn("MCP Reply: Input rejected", "error", err, "size", len(text))
		return runtime.View{}, fmt.Errorf("input rejected: %w", err)
	}
	if !s.engine.SubmitText(clean) {
		return runtime.View{}, errors.New("no reply is awaited or the text is empty")
	}
	return s.engine.View(), nil
}

func (s *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.engine.Report()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report unavailable: %v", err)), nil
	}

	format := "markdown"
	if args, ok := request.Params.Arguments.(map[string]any); ok {
		if f, ok := args["format"].(string); ok && f != "" {
			format = f
		}
	}
	switch format {
	case "json":
		jsonBytes, _ := json.Marshal(report)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	case "markdown":
		return mcp.NewToolResultText(feedback.RenderMarkdown(report)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ScenariosURI, "Practice Scenarios",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		list := s.engine.Catalog().List()
		jsonBytes, err := json.Marshal(list)
		if err != nil {
			return nil, fmt.Errorf("failed to encode scenarios: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ScenariosURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
