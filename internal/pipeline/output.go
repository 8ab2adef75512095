package pipeline

import (
	"time"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
	"github.com/sohprivate/mobile-comment-generator-go/internal/forecastcache"
)

// SelectedPastComment is the output schema's per-comment summary.
type SelectedPastComment struct {
	Text             string                 `json:"text"`
	Type             domain.CommentType     `json:"type"`
	Temperature      *float64               `json:"temperature,omitempty"`
	WeatherCondition string                 `json:"weather_condition,omitempty"`
}

// GenerationMetadata is the assembler's structured side-channel.
type GenerationMetadata struct {
	ExecutionTimeMS      int64                 `json:"execution_time_ms"`
	RetryCount           int                   `json:"retry_count"`
	GenerationTimestamp  time.Time             `json:"generation_timestamp"`
	LocationName         string                `json:"location_name"`
	TargetDateTime       time.Time             `json:"target_datetime"`
	LLMProvider          string                `json:"llm_provider"`
	WeatherCondition     string                `json:"weather_condition,omitempty"`
	Temperature          *float64              `json:"temperature,omitempty"`
	Humidity             *float64              `json:"humidity,omitempty"`
	WindSpeed            *float64              `json:"wind_speed,omitempty"`
	WeatherForecastTime  *time.Time            `json:"weather_forecast_time,omitempty"`
	WeatherTimeline      []domain.WeatherForecast `json:"weather_timeline,omitempty"`
	SelectedPastComments []SelectedPastComment `json:"selected_past_comments,omitempty"`
	SimilarityScore      *float64              `json:"similarity_score,omitempty"`
	SelectionReason      string                `json:"selection_reason,omitempty"`
	ValidationPassed     *bool                 `json:"validation_passed,omitempty"`
	ValidationScore      *float64              `json:"validation_score,omitempty"`
	Errors               []string              `json:"errors,omitempty"`
	Warnings              []string              `json:"warnings,omitempty"`

	TemperatureDiff *forecastcache.TemperatureDiff `json:"temperature_diff,omitempty"`
}

// GenerationResult is the assembler's final output.
type GenerationResult struct {
	FinalComment       string             `json:"final_comment"`
	GenerationMetadata GenerationMetadata `json:"generation_metadata"`
}

// AssembleOutput implements stage 9: build the structured
// metadata bundle from the final state, whether or not generation
// succeeded.
func AssembleOutput(state *domain.CommentGenerationState, llmProvider string, tempDiff *forecastcache.TemperatureDiff) GenerationResult {
	meta := GenerationMetadata{
		ExecutionTimeMS:     state.ExecutionEnd.Sub(state.ExecutionStart).Milliseconds(),
		RetryCount:          state.RetryCount,
		GenerationTimestamp: state.ExecutionEnd,
		LocationName:        state.Location.Name,
		TargetDateTime:      state.TargetDateTime,
		LLMProvider:         llmProvider,
		TemperatureDiff:     tempDiff,
	}

	if state.SelectedForecast.LocationName != "" || !state.SelectedForecast.DateTime.IsZero() {
		forecast := state.SelectedForecast
		meta.WeatherCondition = string(forecast.WeatherCondition)
		temp := forecast.Temperature
		meta.Temperature = &temp
		humidity := forecast.Humidity
		meta.Humidity = &humidity
		windSpeed := forecast.WindSpeed
		meta.WindSpeed = &windSpeed
		dt := forecast.DateTime
		meta.WeatherForecastTime = &dt
		meta.WeatherTimeline = state.ForecastSlots
	}

	if state.SelectedPair != nil {
		meta.SelectedPastComments = []SelectedPastComment{
			{Text: state.SelectedPair.WeatherComment.CommentText, Type: domain.CommentTypeWeather, Temperature: state.SelectedPair.WeatherComment.Temperature, WeatherCondition: state.SelectedPair.WeatherComment.WeatherCond},
			{Text: state.SelectedPair.AdviceComment.CommentText, Type: domain.CommentTypeAdvice, Temperature: state.SelectedPair.AdviceComment.Temperature, WeatherCondition: state.SelectedPair.AdviceComment.WeatherCond},
		}
		similarity := state.SelectedPair.SimilarityScore
		meta.SimilarityScore = &similarity
		meta.SelectionReason = state.SelectedPair.SelectionReason
	}

	if !state.EvaluationSkipped {
		passed := state.EvaluationPassed
		meta.ValidationPassed = &passed
		total := state.EvaluationTotal
		meta.ValidationScore = &total
	}

	for _, e := range state.Errors {
		meta.Errors = append(meta.Errors, e.Message)
	}
	meta.Warnings = state.Warnings

	return GenerationResult{FinalComment: state.FinalComment, GenerationMetadata: meta}
}
