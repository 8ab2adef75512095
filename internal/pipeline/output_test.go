package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
	"github.com/sohprivate/mobile-comment-generator-go/internal/forecastcache"
)

func TestAssembleOutput_SuccessfulRunPopulatesAllSections(t *testing.T) {
	state := domain.NewCommentGenerationState("那覇市")
	state.Location = domain.Location{Name: "那覇市"}
	state.TargetDateTime = time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	state.SelectedForecast = domain.WeatherForecast{
		LocationName: "那覇市", DateTime: state.TargetDateTime,
		Temperature: 31, Humidity: 70, WindSpeed: 3, WeatherCondition: domain.ConditionClear,
	}
	state.ForecastSlots = []domain.WeatherForecast{state.SelectedForecast}
	pair := domain.CommentPair{
		WeatherComment:  domain.PastComment{CommentText: "晴れ間が広がります", CommentType: domain.CommentTypeWeather},
		AdviceComment:   domain.PastComment{CommentText: "日焼け止めをどうぞ", CommentType: domain.CommentTypeAdvice},
		SimilarityScore: 0.1,
		SelectionReason: "priority-ranked candidate pair",
	}
	state.SelectedPair = &pair
	state.EvaluationTotal = 0.8
	state.EvaluationPassed = true
	state.FinalComment = "晴れ間が広がります　日焼け止めをどうぞ"
	state.ExecutionEnd = state.ExecutionStart.Add(250 * time.Millisecond)

	result := AssembleOutput(state, "anthropic", &forecastcache.TemperatureDiff{})

	require.Equal(t, state.FinalComment, result.FinalComment)
	assert.Equal(t, "那覇市", result.GenerationMetadata.LocationName)
	assert.Equal(t, "anthropic", result.GenerationMetadata.LLMProvider)
	require.NotNil(t, result.GenerationMetadata.Temperature)
	assert.Equal(t, 31.0, *result.GenerationMetadata.Temperature)
	require.Len(t, result.GenerationMetadata.SelectedPastComments, 2)
	require.NotNil(t, result.GenerationMetadata.ValidationPassed)
	assert.True(t, *result.GenerationMetadata.ValidationPassed)
	assert.Equal(t, int64(250), result.GenerationMetadata.ExecutionTimeMS)
}

func TestAssembleOutput_FailedRunOmitsDownstreamSectionsButKeepsErrors(t *testing.T) {
	state := domain.NewCommentGenerationState("未知の町")
	state.AddError("input_normaliser", domain.NewPipelineError("input_normaliser", domain.KindInvalidInput, "location name is empty", nil))
	state.ExecutionEnd = state.ExecutionStart

	result := AssembleOutput(state, "anthropic", nil)

	assert.Empty(t, result.FinalComment)
	assert.Nil(t, result.GenerationMetadata.Temperature)
	assert.Nil(t, result.GenerationMetadata.SelectedPastComments)
	require.Len(t, result.GenerationMetadata.Errors, 1)
	assert.Contains(t, result.GenerationMetadata.Errors[0], "location name is empty")
}
