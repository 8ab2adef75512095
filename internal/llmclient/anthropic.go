package llmclient

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicMessages is the subset of anthropic.Client's surface this
// provider calls, narrowed to an interface so tests can substitute a fake
// without hitting the network (the official SDK has no httptest hook).
type anthropicMessages interface {
	New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// AnthropicProvider adapts Claude to Provider. Config shape, client
// construction, and retry/error classification follow the api-claude.go
// reference implementation; the broadcast-specific prompt assembly there
// is not reused.
type AnthropicProvider struct {
	messages    anthropicMessages
	model       string
	maxTokens   int64
	temperature float64
	maxRetries  int
}

// AnthropicConfig mirrors the constructor parameters the reference client
// validates before use.
type AnthropicConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
	MaxRetries  int
}

// NewAnthropicProvider builds a Claude-backed Provider, applying the same
// defaults the reference implementation does when a field is left zero.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llmclient: anthropic api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-opus-20240229"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 256
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return &AnthropicProvider{
		messages:    client.Messages,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		maxRetries:  cfg.MaxRetries,
	}, nil
}

// Generate sends prompt as a single user turn and returns the concatenated
// text blocks of Claude's reply, retrying transient failures with backoff.
func (p *AnthropicProvider) Generate(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   p.maxTokens,
		Temperature: anthropic.Float(p.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retryDelay(attempt)):
			}
		}
		resp, err := p.messages.New(ctx, params)
		if err == nil {
			return extractText(resp), nil
		}
		lastErr = err
		if !isRetryableAnthropicError(err) {
			break
		}
	}
	return "", lastErr
}

func extractText(resp *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}

func retryDelay(attempt int) time.Duration {
	base := time.Duration(attempt) * 500 * time.Millisecond
	if base > 4*time.Second {
		return 4 * time.Second
	}
	return base
}

// isRetryableAnthropicError classifies errors the way the reference
// parseClaudeError does: context cancellation and malformed requests never
// retry, rate limits and server errors do.
func isRetryableAnthropicError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"):
		return true
	case strings.Contains(msg, "500"), strings.Contains(msg, "502"), strings.Contains(msg, "503"), strings.Contains(msg, "504"), strings.Contains(msg, "529"), strings.Contains(msg, "overloaded"):
		return true
	case strings.Contains(msg, "401"), strings.Contains(msg, "unauthorized"), strings.Contains(msg, "invalid api key"):
		return false
	case strings.Contains(msg, "400"), strings.Contains(msg, "invalid request"):
		return false
	case strings.Contains(msg, "connection"), strings.Contains(msg, "network"), strings.Contains(msg, "timeout"):
		return true
	default:
		return false
	}
}
