package llmclient

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpenAIClient struct {
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeOpenAIClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f.resp, f.err
}

func TestOpenAIProvider_Generate_Success(t *testing.T) {
	fake := &fakeOpenAIClient{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "1"}},
		},
	}}
	p := &OpenAIProvider{client: fake, model: "gpt-4", maxTokens: 100}

	text, err := p.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "1", text)
}

func TestOpenAIProvider_Generate_PropagatesTransportError(t *testing.T) {
	fake := &fakeOpenAIClient{err: errors.New("connection reset")}
	p := &OpenAIProvider{client: fake, model: "gpt-4", maxTokens: 100}

	_, err := p.Generate(context.Background(), "prompt")
	require.Error(t, err)
}

func TestOpenAIProvider_Generate_NoChoicesErrors(t *testing.T) {
	fake := &fakeOpenAIClient{resp: openai.ChatCompletionResponse{}}
	p := &OpenAIProvider{client: fake, model: "gpt-4", maxTokens: 100}

	_, err := p.Generate(context.Background(), "prompt")
	require.Error(t, err)
}

func TestNewOpenAIProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{})
	require.Error(t, err)
}

func TestNewOpenAIProvider_AppliesDefaultModel(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", p.model)
}
