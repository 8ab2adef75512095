package llmclient

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// openAIChatCompleter is the subset of openai.Client this provider calls,
// narrowed so tests can substitute a fake.
type openAIChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider adapts OpenAI's chat-completion API to Provider, following
// the llm_manager.py default of model "gpt-4" when none is configured.
type OpenAIProvider struct {
	client      openAIChatCompleter
	model       string
	maxTokens   int
	temperature float32
}

// OpenAIConfig carries the constructor parameters.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// NewOpenAIProvider builds a GPT-backed Provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llmclient: openai api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 256
	}
	client := openai.NewClient(cfg.APIKey)
	return &OpenAIProvider{client: client, model: cfg.Model, maxTokens: cfg.MaxTokens, temperature: cfg.Temperature}, nil
}

// Generate sends prompt as a single user turn and returns the first choice's
// message content.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llmclient: openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
