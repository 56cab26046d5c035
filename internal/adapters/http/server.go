package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/rehearse"
	"github.com/aretw0/rehearse/internal/feedback"
	"github.com/aretw0/rehearse/internal/logging"
	"github.com/aretw0/rehearse/internal/presentation/graph"
	"github.com/aretw0/rehearse/internal/runtime"
	"github.com/aretw0/rehearse/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes one practice engine over HTTP.
type Server struct {
	Engine  *runtime.Engine
	Streams *StreamManager

	metrics  http.Handler
	logger   *slog.Logger
	maxInput int
}

// Option configures a Server.
type Option func(*Server)

// WithStreams serves GET /session/events from the given manager.
// Its Hooks must be registered on the engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetrics mounts a Prometheus handler on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInputSize limits free-text replies, in bytes.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.maxInput = n
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine *runtime.Engine, opts ...Option) http.Handler {
	s := &Server{Engine: engine}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/scenarios", s.ListScenarios)
	r.Get("/scenarios/{id}/graph", s.GetGraph)

	r.Route("/session", func(r chi.Router) {
		r.Post("/", s.StartSession)
		r.Get("/", s.GetSession)
		r.Delete("/", s.ResetSession)
		r.Post("/options/{index}", s.SelectOption)
		r.Post("/reply", s.Reply)
		r.Post("/retry", s.Retry)
		r.Get("/report", s.GetReport)
		r.Get("/report.md", s.GetReportMarkdown)
		r.Get("/events", s.SubscribeEvents)
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

type startRequest struct {
	ScenarioID string `json:"scenario_id"`
}

type replyRequest struct {
	Text string `json:"text"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":          "rehearse-http",
		"version":      strings.TrimSpace(rehearse.Version),
		"dynamic_mode": s.Engine.DynamicMode(),
	})
}

// ListScenarios handles GET /scenarios.
func (s *Server) ListScenarios(w http.ResponseWriter, r *http.Request) {
	list := s.Engine.Catalog().List()
	out := make([]domain.ScenarioSummary, 0, len(list))
	for i := range list {
		out = append(out, list[i].Summary())
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetGraph handles GET /scenarios/{id}/graph. With ?overlay=true the
// current conversation's path is highlighted.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	sc, err := s.Engine.Catalog().Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var overlay *graph.Overlay
	if r.URL.Query().Get("overlay") == "true" {
		if conv := s.Engine.Snapshot(); conv.ScenarioID == sc.ID {
			overlay = graph.OverlayFor(conv)
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(sc, overlay))
}

// StartSession handles POST /session.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ScenarioID == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"scenario_id\": \"...\"}"})
		return
	}
	if err := s.Engine.Start(r.Context(), body.ScenarioID); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("session started", "scenario", body.ScenarioID)
	s.writeJSON(w, http.StatusAccepted, s.Engine.View())
}

// GetSession handles GET /session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.View())
}

// ResetSession handles DELETE /session.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	s.Engine.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// SelectOption handles POST /session/options/{index}.
func (s *Server) SelectOption(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "option index must be an integer"})
		return
	}
	if !s.Engine.SelectOption(index) {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "no reply is awaited or the option does not exist"})
		return
	}
	s.writeJSON(w, http.StatusAccepted, s.Engine.View())
}

// Reply handles POST /session/reply.
func (s *Server) Reply(w http.ResponseWriter, r *http.Request) {
	var body replyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"text\": \"...\"}"})
		return
	}
	clean, err := runtime.SanitizeInput(body.Text, s.maxInput)
	if err != nil {
		s.logger.Warn("reply rejected", "error", err, "size", len(body.Text))
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if strings.TrimSpace(clean) == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reply text is empty"})
		return
	}
	if !s.Engine.SubmitText(clean) {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "no reply is awaited"})
		return
	}
	s.writeJSON(w, http.StatusAccepted, s.Engine.View())
}

// Retry handles POST /session/retry.
func (s *Server) Retry(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Retry(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, s.Engine.View())
}

// GetReport handles GET /session/report.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.Engine.Report()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// GetReportMarkdown handles GET /session/report.md.
func (s *Server) GetReportMarkdown(w http.ResponseWriter, r *http.Request) {
	report, err := s.Engine.Report()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, feedback.RenderMarkdown(report))
}

// SubscribeEvents handles GET /session/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrScenarioNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidScenario):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNoScenario), errors.Is(err, domain.ErrNotFinished):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
