// Package llmclient wraps the three supported LLM vendor SDKs behind one
// narrow interface (a single generate(prompt) -> text async call) and
// layers the pair selector's prompt construction and response-index
// parsing on top.
package llmclient

import (
	"context"
	"fmt"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

// Provider is the minimal surface every vendor adapter implements. No
// streaming, no function-calling, no tool-use — only the text the core
// consumes.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Manager dispatches to one of the three configured providers by name and
// classifies every failure as domain.KindLLMError, since LLM failures are
// treated as uniformly non-fatal regardless of which vendor raised them.
type Manager struct {
	providerName string
	provider     Provider
}

// NewManager wires a Manager around an already-constructed provider. The
// provider is chosen once per process by its configured provider id;
// switching providers mid-run is not a pipeline concern.
func NewManager(providerName string, provider Provider) *Manager {
	return &Manager{providerName: providerName, provider: provider}
}

// ProviderName reports which vendor this manager was built with, for
// generation_metadata.llm_provider.
func (m *Manager) ProviderName() string {
	return m.providerName
}

// Generate calls the wrapped provider, tagging any failure with the
// pipeline's LLMError kind so callers can apply the deterministic
// fallback uniformly.
func (m *Manager) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := m.provider.Generate(ctx, prompt)
	if err != nil {
		return "", domain.NewPipelineError("llm_arbitration", domain.KindLLMError, fmt.Sprintf("%s generation failed", m.providerName), err)
	}
	if text == "" {
		return "", domain.NewPipelineError("llm_arbitration", domain.KindLLMError, fmt.Sprintf("%s returned empty text", m.providerName), nil)
	}
	return text, nil
}
