package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/marliontech/portald/internal/metrics"
)

// ErrInvalidConfig indicates invalid collaborator configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the collaborator connection settings. Any OpenAI-compatible
// chat completion endpoint works.
type Config struct {
	// BaseURL is the base URL for the chat API.
	BaseURL string

	// Model is the chat model to use.
	Model string

	// APIKey authenticates against the endpoint.
	APIKey string
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	return nil
}

// Client is the langchaingo-backed Collaborator implementation.
type Client struct {
	model   llms.Model
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewClient creates a collaborator client. The metrics set may be nil.
func NewClient(cfg Config, logger *zap.Logger, m *metrics.Metrics) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []openai.Option{
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
	}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	return &Client{model: model, logger: logger, metrics: m}, nil
}

// Generate produces the next interviewer reply. A failed call is
// downgraded to GenerateFallback; the caller never sees an error.
func (c *Client) Generate(ctx context.Context, prompt, systemInstruction string) string {
	messages := []llms.MessageContent{}
	if systemInstruction != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemInstruction))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	resp, err := c.model.GenerateContent(ctx, messages)
	if err != nil {
		c.logger.Warn("generation call failed, using fallback", zap.Error(err))
		c.metrics.LLMFailure()
		return GenerateFallback
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn("generation returned no choices, using fallback")
		c.metrics.LLMFailure()
		return GenerateFallback
	}
	return resp.Choices[0].Content
}

// Evaluate scores a rendered transcript. A failed call or an unparseable
// verdict is downgraded to NeutralEvaluation.
func (c *Client) Evaluate(ctx context.Context, transcript string) Evaluation {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, EvaluatorInstruction()),
		llms.TextParts(llms.ChatMessageTypeHuman, transcript),
	}

	resp, err := c.model.GenerateContent(ctx, messages, llms.WithJSONMode())
	if err != nil {
		c.logger.Warn("evaluation call failed, using neutral default", zap.Error(err))
		c.metrics.LLMFailure()
		return NeutralEvaluation()
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn("evaluation returned no choices, using neutral default")
		c.metrics.LLMFailure()
		return NeutralEvaluation()
	}

	eval, err := parseEvaluation(resp.Choices[0].Content)
	if err != nil {
		c.logger.Warn("evaluation verdict unparseable, using neutral default", zap.Error(err))
		c.metrics.LLMFailure()
		return NeutralEvaluation()
	}
	return eval
}

// parseEvaluation extracts the JSON verdict from a model reply, tolerating
// code fences and surrounding prose.
func parseEvaluation(raw string) (Evaluation, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return Evaluation{}, fmt.Errorf("no JSON object in evaluation reply")
	}

	var parsed struct {
		Score    json.Number `json:"score"`
		Summary  string      `json:"summary"`
		Decision string      `json:"decision"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return Evaluation{}, fmt.Errorf("failed to decode evaluation: %w", err)
	}

	score, err := parsed.Score.Float64()
	if err != nil {
		return Evaluation{}, fmt.Errorf("non-numeric score %q", parsed.Score)
	}

	eval := Evaluation{
		Score:    clampScore(int(score)),
		Summary:  parsed.Summary,
		Decision: parsed.Decision,
	}
	if eval.Decision == "" {
		eval.Decision = DecisionReview
	}
	return eval, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
