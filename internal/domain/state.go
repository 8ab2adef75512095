package domain

import (
	"time"

	"github.com/google/uuid"
)

// ErrorRecord is a structured error appended to state by a stage that
// encountered a problem: every stage that raises an error tags it with
// its own stage name before appending it to state.errors.
type ErrorRecord struct {
	Stage     string
	Kind      ErrorKind
	Message   string
	Timestamp time.Time
}

// StageTiming records how long one pipeline stage took, for the output
// assembler's execution_time_ms and per-stage observability.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// CommentGenerationState is the pipeline's carry-state.
// Every field is declared explicitly — no untyped map[string]any bag is
// threaded between stages. Each field is written by exactly one stage and
// is read-only to every later stage; the field-level doc comments record
// ownership.
type CommentGenerationState struct {
	// RunID correlates this run's structured logs and metrics across the
	// worker-pool fan-out.
	RunID string

	// --- stage 1: Input Normaliser ---
	RequestedLocationName string
	Location              Location
	TargetDateTime        time.Time

	// --- stage 2: Forecast Fetcher ---
	ForecastSlots        []WeatherForecast // the four 09/12/15/18 slots
	ForecastGeneratedAt  time.Time

	// --- stage 3: Priority Selector ---
	SelectedForecast WeatherForecast

	// --- stage 4: Comment Retriever ---
	CurrentSeason       string
	RelatedSeasons      []string
	WeatherPool         []PastComment
	AdvicePool          []PastComment
	WidenedToAllSeasons bool

	// --- stage 5: Validator ---
	FilteredWeatherPool []PastComment
	FilteredAdvicePool  []PastComment
	RejectionLog        []ValidationRejection

	// --- stage 6: Pair Selector ---
	SelectedPair     *CommentPair
	RetryCount       int
	RetrySuggestions []string
	UsedLLMFallback  bool

	// --- stage 7: Evaluator ---
	EvaluationScores  map[string]float64
	EvaluationTotal   float64
	EvaluationPassed  bool
	EvaluationSkipped bool

	// --- stage 8: Composer ---
	FinalComment  string
	SafetyApplied []string

	// --- stage 9: Output Assembler ---
	ExecutionStart time.Time
	ExecutionEnd   time.Time

	// Cross-cutting.
	Errors   []ErrorRecord
	Warnings []string
	Timings  []StageTiming
}

// ValidationRejection records why the validator rejected a candidate,
// with a human-readable reason string for logging.
type ValidationRejection struct {
	CommentText string
	CommentType CommentType
	Reason      string
}

// NewCommentGenerationState creates a fresh state for one pipeline run.
func NewCommentGenerationState(locationName string) *CommentGenerationState {
	return &CommentGenerationState{
		RunID:                 uuid.NewString(),
		RequestedLocationName: locationName,
		ExecutionStart:        Now(),
		EvaluationScores:      make(map[string]float64),
	}
}

// AddError appends a structured error record, classifying it by kind when
// err is (or wraps) a *PipelineError.
func (s *CommentGenerationState) AddError(stage string, err error) {
	kind, _ := KindOf(err)
	s.Errors = append(s.Errors, ErrorRecord{Stage: stage, Kind: kind, Message: err.Error(), Timestamp: Now()})
}

// AddWarning appends a human-readable warning (e.g. LocationUnresolved,
// cache miss).
func (s *CommentGenerationState) AddWarning(message string) {
	s.Warnings = append(s.Warnings, message)
}

// RecordTiming appends a stage duration.
func (s *CommentGenerationState) RecordTiming(stage string, d time.Duration) {
	s.Timings = append(s.Timings, StageTiming{Stage: stage, Duration: d})
}

// HasFatalError reports whether any recorded error is fatal, used by the
// orchestrator to decide whether to short-circuit to stage 9 with
// final_comment=null.
func (s *CommentGenerationState) HasFatalError() bool {
	for _, e := range s.Errors {
		if e.Kind != "" && IsFatal(e.Kind) {
			return true
		}
	}
	return false
}
