package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

func TestNewCommentGenerationState(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC))
	domain.SetClock(fake)
	defer domain.SetClock(nil)

	s := domain.NewCommentGenerationState("那覇市")
	assert.Equal(t, "那覇市", s.RequestedLocationName)
	assert.NotEmpty(t, s.RunID)
	assert.Equal(t, fake.Now(), s.ExecutionStart)
	assert.NotNil(t, s.EvaluationScores)
}

func TestCommentGenerationState_AddError_ClassifiesPipelineError(t *testing.T) {
	s := domain.NewCommentGenerationState("東京都")
	pe := domain.NewPipelineError("validator", domain.KindNoValidCandidate, "pool exhausted", nil)

	s.AddError("validator", pe)

	require.Len(t, s.Errors, 1)
	assert.Equal(t, "validator", s.Errors[0].Stage)
	assert.Equal(t, domain.KindNoValidCandidate, s.Errors[0].Kind)
}

func TestCommentGenerationState_AddError_UnclassifiedErrorHasEmptyKind(t *testing.T) {
	s := domain.NewCommentGenerationState("東京都")
	s.AddError("stage", errors.New("plain failure"))

	require.Len(t, s.Errors, 1)
	assert.Equal(t, domain.ErrorKind(""), s.Errors[0].Kind)
}

func TestCommentGenerationState_AddWarning(t *testing.T) {
	s := domain.NewCommentGenerationState("東京都")
	s.AddWarning("location name not resolved, using default")
	assert.Equal(t, []string{"location name not resolved, using default"}, s.Warnings)
}

func TestCommentGenerationState_RecordTiming(t *testing.T) {
	s := domain.NewCommentGenerationState("東京都")
	s.RecordTiming("forecast_fetcher", 12*time.Millisecond)
	require.Len(t, s.Timings, 1)
	assert.Equal(t, "forecast_fetcher", s.Timings[0].Stage)
	assert.Equal(t, 12*time.Millisecond, s.Timings[0].Duration)
}

func TestCommentGenerationState_HasFatalError(t *testing.T) {
	s := domain.NewCommentGenerationState("東京都")
	assert.False(t, s.HasFatalError())

	s.AddError("pair_selector", domain.NewPipelineError("pair_selector", domain.KindLLMError, "timed out", nil))
	assert.False(t, s.HasFatalError(), "non-fatal kind must not flip the flag")

	s.AddError("validator", domain.NewPipelineError("validator", domain.KindNoValidCandidate, "pool exhausted", nil))
	assert.True(t, s.HasFatalError())
}

func TestForecastCacheEntry_Stale(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC))
	domain.SetClock(fake)
	defer domain.SetClock(nil)

	entry := domain.ForecastCacheEntry{CachedAt: fake.Now().Add(-8 * 24 * time.Hour)}
	assert.True(t, entry.Stale(7*24*time.Hour))
	assert.False(t, entry.Stale(10*24*time.Hour))
	assert.Equal(t, 8*24*time.Hour, entry.Age())
}

func TestSetClock_NilResetsToRealClock(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	domain.SetClock(fake)
	assert.Equal(t, fake.Now(), domain.Now())

	domain.SetClock(nil)
	assert.WithinDuration(t, time.Now(), domain.Now(), 5*time.Second)
}
