package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

func TestPipelineError_ErrorString(t *testing.T) {
	withCause := domain.NewPipelineError("forecast_fetcher", domain.KindWeatherProvider, "timed out", errors.New("dial tcp: i/o timeout"))
	assert.Contains(t, withCause.Error(), "forecast_fetcher")
	assert.Contains(t, withCause.Error(), "weather_provider_error")
	assert.Contains(t, withCause.Error(), "timed out")
	assert.Contains(t, withCause.Error(), "dial tcp")

	withoutCause := domain.NewPipelineError("validator", domain.KindNoValidCandidate, "pool exhausted", nil)
	assert.Equal(t, `validator[no_valid_candidate]: pool exhausted`, withoutCause.Error())
}

func TestPipelineError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	pe := domain.NewPipelineError("stage", domain.KindLLMError, "failed", cause)
	assert.ErrorIs(t, pe, cause)
}

func TestPipelineError_Is_MatchesOnKind(t *testing.T) {
	a := domain.NewPipelineError("stage-a", domain.KindLLMError, "x", nil)
	b := domain.NewPipelineError("stage-b", domain.KindLLMError, "y", nil)
	c := domain.NewPipelineError("stage-c", domain.KindEvaluationFailed, "z", nil)

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestKindOf(t *testing.T) {
	pe := domain.NewPipelineError("stage", domain.KindCorpusUnavailable, "no comments", nil)
	kind, ok := domain.KindOf(pe)
	require.True(t, ok)
	assert.Equal(t, domain.KindCorpusUnavailable, kind)

	_, ok = domain.KindOf(errors.New("plain error"))
	assert.False(t, ok)
}

func TestIsFatal(t *testing.T) {
	fatal := []domain.ErrorKind{
		domain.KindInvalidInput, domain.KindWeatherProvider, domain.KindNoForecastData,
		domain.KindCorpusUnavailable, domain.KindNoValidCandidate, domain.KindCancelled,
	}
	for _, k := range fatal {
		assert.True(t, domain.IsFatal(k), "expected %s to be fatal", k)
	}

	nonFatal := []domain.ErrorKind{domain.KindLocationUnresolved, domain.KindLLMError, domain.KindEvaluationFailed}
	for _, k := range nonFatal {
		assert.False(t, domain.IsFatal(k), "expected %s to be non-fatal", k)
	}
}
