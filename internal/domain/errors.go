package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by domain validation helpers.
var (
	ErrInvalidForecast  = errors.New("invalid weather forecast")
	ErrInsufficientData = errors.New("insufficient data")
	ErrEmptyComment     = errors.New("comment text is empty")
	ErrInvalidPair      = errors.New("invalid comment pair")
)

// ErrorKind classifies a pipeline failure for caller triage.
// Each kind maps to a fatal/non-fatal disposition documented alongside it.
type ErrorKind string

const (
	// KindInvalidInput: empty/overlong location name, malformed target time.
	// Fatal, never retried.
	KindInvalidInput ErrorKind = "invalid_input"

	// KindLocationUnresolved: name not in lookup, no coordinates supplied.
	// Warning only — the pipeline continues with a default location.
	KindLocationUnresolved ErrorKind = "location_unresolved"

	// KindWeatherProvider wraps a weather-provider transport/API failure.
	// Fatal. Sub-kind is carried in WeatherProviderSubKind.
	KindWeatherProvider ErrorKind = "weather_provider_error"

	// KindNoForecastData: the priority selector received an empty set.
	// Fatal.
	KindNoForecastData ErrorKind = "no_forecast_data"

	// KindCorpusUnavailable: no historical comments loadable. Fatal.
	KindCorpusUnavailable ErrorKind = "corpus_unavailable"

	// KindNoValidCandidate: validator rejected all candidates in a pool,
	// and the cross-season fallback also came up empty. Fatal.
	KindNoValidCandidate ErrorKind = "no_valid_candidate"

	// KindLLMError: any LLM transport or parse failure. Non-fatal — the
	// pair selector falls through to its deterministic fallback.
	KindLLMError ErrorKind = "llm_error"

	// KindEvaluationFailed: non-fatal, increments retry_count.
	KindEvaluationFailed ErrorKind = "evaluation_failed"

	// KindCancelled: cooperative cancellation observed at a suspension
	// point.
	KindCancelled ErrorKind = "cancelled"
)

// WeatherProviderSubKind further classifies KindWeatherProvider errors.
type WeatherProviderSubKind string

const (
	SubKindAPIKeyInvalid WeatherProviderSubKind = "api_key_invalid"
	SubKindRateLimit     WeatherProviderSubKind = "rate_limit"
	SubKindNetworkError  WeatherProviderSubKind = "network_error"
	SubKindTimeout       WeatherProviderSubKind = "timeout"
	SubKindServerError   WeatherProviderSubKind = "server_error"
	SubKindNotFound      WeatherProviderSubKind = "not_found"
)

// PipelineError is the error type every pipeline stage returns for a
// classified failure. It carries enough structure for a
// caller to triage without string-matching the message, and for the
// orchestrator to append a {message, stage, timestamp} record to state.
type PipelineError struct {
	Kind      ErrorKind
	SubKind   WeatherProviderSubKind // only meaningful for KindWeatherProvider
	Stage     string
	Message   string
	Retryable bool
	Cause     error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s[%s]: %s: %v", e.Stage, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Stage, e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is comparisons against a *PipelineError with the same
// Kind — callers typically check `errors.Is(err, domain.KindLLMError)`
// style via KindOf below rather than constructing sentinel values.
func (e *PipelineError) Is(target error) bool {
	var other *PipelineError
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// NewPipelineError constructs a classified error tagged with the stage
// that raised it, following the convention that every stage tags its
// errors with its own name before they propagate.
func NewPipelineError(stage string, kind ErrorKind, message string, cause error) *PipelineError {
	return &PipelineError{
		Stage:   stage,
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// KindOf extracts the ErrorKind from err if it (or something it wraps) is a
// *PipelineError; returns ("", false) otherwise.
func KindOf(err error) (ErrorKind, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// IsFatal reports whether an error kind is fatal to the current run.
func IsFatal(kind ErrorKind) bool {
	switch kind {
	case KindInvalidInput, KindWeatherProvider, KindNoForecastData,
		KindCorpusUnavailable, KindNoValidCandidate, KindCancelled:
		return true
	case KindLocationUnresolved, KindLLMError, KindEvaluationFailed:
		return false
	default:
		return true
	}
}
