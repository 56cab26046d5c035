// Package openai provides a reply provider backed by the OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/aretw0/rehearse/pkg/ports"
)

const (
	// DefaultModel is small and quick enough for conversational turns.
	DefaultModel = "gpt-4o-mini"

	// Temperature keeps candidate replies varied without drifting off topic.
	Temperature = 0.85

	// MaxTokens bounds a reply to a few sentences.
	MaxTokens = 200
)

var errNoChoices = errors.New("openai: response contained no choices")

// Provider implements ports.ReplyProvider using the OpenAI API.
type Provider struct {
	client oai.Client
	model  string
}

var _ ports.ReplyProvider = (*Provider)(nil)

type config struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
}

// Option is a functional option for Provider.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithMaxRetries sets how often a failed request is retried by the client.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		c.maxRetries = n
	}
}

// New constructs a Provider. An empty model uses DefaultModel.
func New(apiKey string, model string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: apiKey must not be empty")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &config{maxRetries: 1}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(cfg.maxRetries),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	return &Provider{client: oai.NewClient(reqOpts...), model: model}, nil
}

// Model returns the chat model requests are sent to.
func (p *Provider) Model() string {
	return p.model
}

// Reply asks the model to answer the interviewer in character.
func (p *Provider) Reply(ctx context.Context, req ports.ReplyRequest) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(SystemPrompt(req)),
			oai.UserMessage(req.Utterance),
		},
		Temperature:         param.NewOpt(Temperature),
		MaxCompletionTokens: param.NewOpt(int64(MaxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SystemPrompt puts the model in the candidate's shoes.
func SystemPrompt(req ports.ReplyRequest) string {
	return fmt.Sprintf(
		"You are %s, a %s. You are in a job interview for a %s position. %s. "+
			"Respond naturally as the candidate would. Stay in character and give thoughtful 2-4 sentence responses. "+
			"Do not break character or mention that you are an AI.",
		req.PersonaName, req.PersonaRole, req.ScenarioTitle, strings.TrimSuffix(req.ScenarioDescription, "."),
	)
}
