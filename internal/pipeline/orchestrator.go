package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
	"github.com/sohprivate/mobile-comment-generator-go/internal/forecastcache"
	"github.com/sohprivate/mobile-comment-generator-go/internal/llmclient"
	"github.com/sohprivate/mobile-comment-generator-go/internal/observability"
	"github.com/sohprivate/mobile-comment-generator-go/internal/rules"
)

// Orchestrator wires the nine stages into a single sequential run, with a
// bounded stage7->stage6 retry edge when evaluation fails.
type Orchestrator struct {
	Lookup    *domain.LocationLookup
	Fetcher   WeatherFetcher
	Cache     *forecastcache.Cache
	Store     CommentStore
	Matrix    *rules.Matrix
	LLM       LLMGenerator
	Provider  string

	MaxRetries                 int
	ForecastHoursAhead         int
	TrendHoursAhead            int
	ThunderSeverePrecipitation float64
	HeatstrokeCeilingC         float64

	// EvaluationWeights overrides the evaluator's per-axis weight
	// (config.Config.EvaluationWeights); nil uses the evaluator's
	// equal-weight default.
	EvaluationWeights map[string]float64

	// EvaluationSkipEnabled, when true, treats pair selection as the sole
	// authority and skips stage 7 (the evaluator) entirely.
	EvaluationSkipEnabled bool

	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewOrchestrator wires an Orchestrator from its collaborators. logger and
// metrics may be nil; every call site guards against that.
func NewOrchestrator(lookup *domain.LocationLookup, fetcher WeatherFetcher, cache *forecastcache.Cache, store CommentStore, matrix *rules.Matrix, llm LLMGenerator, provider string, maxRetries, forecastHoursAhead, trendHoursAhead int, thunderSeverePrecip, heatstrokeCeilingC float64, evaluationWeights map[string]float64, evaluationSkipEnabled bool, logger *slog.Logger, metrics *observability.Metrics) *Orchestrator {
	if matrix == nil {
		matrix = rules.Default()
	}
	return &Orchestrator{
		Lookup:                     lookup,
		Fetcher:                    fetcher,
		Cache:                      cache,
		Store:                      store,
		Matrix:                     matrix,
		LLM:                        llm,
		Provider:                   provider,
		MaxRetries:                 maxRetries,
		ForecastHoursAhead:         forecastHoursAhead,
		TrendHoursAhead:            trendHoursAhead,
		ThunderSeverePrecipitation: thunderSeverePrecip,
		HeatstrokeCeilingC:         heatstrokeCeilingC,
		EvaluationWeights:          evaluationWeights,
		EvaluationSkipEnabled:      evaluationSkipEnabled,
		Logger:                     logger,
		Metrics:                    metrics,
	}
}

// GenerateComment runs the full nine-stage pipeline for one location and
// returns the assembled result. It never returns a non-nil error itself:
// every stage failure is recorded into the state and surfaces only inside
// the returned GenerationResult — a failed run still produces an output
// record, with final_comment null and errors populated.
func (o *Orchestrator) GenerateComment(ctx context.Context, locationName string, requestedTime *time.Time) (GenerationResult, error) {
	state := domain.NewCommentGenerationState(locationName)
	validator := NewValidator(o.Matrix, o.ThunderSeverePrecipitation, o.HeatstrokeCeilingC)
	pairSelector := NewPairSelector(validator, o.LLM, o.Provider)
	evaluator := NewEvaluator(o.EvaluationWeights)
	composer := NewComposer()

	o.runStage(state, "input_normaliser", func() error {
		return NormaliseInput(state, o.Lookup, requestedTime, o.ForecastHoursAhead)
	})

	if !state.HasFatalError() {
		o.runStage(state, "forecast_fetcher", func() error {
			return FetchForecastSlots(ctx, state, o.Fetcher, o.Cache)
		})
	}

	if !state.HasFatalError() {
		o.runStage(state, "priority_selector", func() error {
			forecast, err := SelectPriorityForecast(state.ForecastSlots)
			if err != nil {
				return err
			}
			state.SelectedForecast = forecast
			return nil
		})
	}

	if !state.HasFatalError() {
		o.runStage(state, "comment_retriever", func() error {
			return RetrieveComments(state, o.Store)
		})
	}

	if !state.HasFatalError() {
		o.runStage(state, "validator", func() error {
			if err := ApplyValidation(state, validator); err != nil {
				state.AddWarning("validator rejected every candidate in the seasonal pool; widening to all seasons")
				WidenToAllSeasons(state, o.Store)
				return ApplyValidation(state, validator)
			}
			return nil
		})
	}

	if !state.HasFatalError() {
		o.runPairSelectionWithRetry(ctx, state, pairSelector, evaluator)
	}

	if !state.HasFatalError() {
		o.runStage(state, "composer", func() error {
			text, applied := composer.Compose(*state.SelectedPair, state.SelectedForecast)
			state.FinalComment = text
			state.SafetyApplied = applied
			return nil
		})
	}

	state.ExecutionEnd = domain.Now()

	var tempDiff *forecastcache.TemperatureDiff
	if o.Cache != nil && state.Location.NormalizedName != "" && (state.SelectedForecast.LocationName != "" || !state.SelectedForecast.DateTime.IsZero()) {
		d := o.Cache.AnalyseTemperatureDiff(state.Location.NormalizedName, state.SelectedForecast)
		tempDiff = &d
	}

	result := AssembleOutput(state, o.Provider, tempDiff)

	if o.Metrics != nil {
		outcome := "success"
		if state.HasFatalError() {
			outcome = "failure"
		}
		o.Metrics.RunsTotal.WithLabelValues(outcome).Inc()
		o.Metrics.RetryCount.Observe(float64(state.RetryCount))
		if !state.EvaluationSkipped {
			o.Metrics.EvaluationScore.Observe(state.EvaluationTotal)
		}
	}
	if o.Logger != nil {
		o.Logger.Info("comment generation finished", "run_id", state.RunID, "location", locationName, "fatal", state.HasFatalError(), "retries", state.RetryCount, "duration_ms", result.GenerationMetadata.ExecutionTimeMS)
	}

	return result, nil
}

// CheckReadiness reports whether the orchestrator has everything it needs
// to serve a request: a resolvable location lookup and a non-empty
// historical comment corpus. The forecast fetcher and LLM are deliberately
// excluded — both degrade gracefully at request time (cache fallback,
// deterministic pair selection) rather than blocking readiness.
func (o *Orchestrator) CheckReadiness(_ context.Context) error {
	if o.Lookup == nil {
		return errors.New("location lookup is not configured")
	}
	if o.Store == nil || o.Store.Empty() {
		return errors.New("historical comment corpus is empty")
	}
	return nil
}

// runPairSelectionWithRetry implements stages 6 and 7 together with their
// retry edge: an evaluation failure sends the run back to pair selection,
// up to MaxRetries times, before the pair is accepted as-is.
func (o *Orchestrator) runPairSelectionWithRetry(ctx context.Context, state *domain.CommentGenerationState, selector *PairSelector, evaluator *Evaluator) {
	trend := o.buildTrendExtract(state)

	for {
		var usedLLM bool
		o.runStage(state, "pair_selector", func() error {
			pair, used, err := selector.Select(ctx, state.FilteredWeatherPool, state.FilteredAdvicePool, state.SelectedForecast, state.Location, trend, state.WeatherPool, state.AdvicePool, o.Matrix)
			if err != nil {
				return err
			}
			state.SelectedPair = &pair
			usedLLM = used
			return nil
		})
		if state.HasFatalError() {
			return
		}
		state.UsedLLMFallback = !usedLLM

		if o.EvaluationSkipEnabled {
			state.EvaluationSkipped = true
			return
		}

		o.runStage(state, "evaluator", func() error {
			scores, total, passed := evaluator.Score(*state.SelectedPair, state.SelectedForecast)
			state.EvaluationScores = scores
			state.EvaluationTotal = total
			state.EvaluationPassed = passed
			return nil
		})

		if state.EvaluationPassed || state.RetryCount >= o.MaxRetries {
			return
		}
		state.RetryCount++
		state.AddWarning("evaluation failed (score below threshold); retrying pair selection")
	}
}

// buildTrendExtract assembles the optional trend block the arbitration
// prompt may include, from whatever the forecast cache already holds for
// today. Unavailable when fewer than two cached entries exist for the
// target date.
func (o *Orchestrator) buildTrendExtract(state *domain.CommentGenerationState) llmclient.TrendExtract {
	if o.Cache == nil || state.Location.NormalizedName == "" {
		return llmclient.TrendExtract{}
	}
	window := o.Cache.EntriesForDate(state.Location.NormalizedName, state.TargetDateTime)
	if len(window) < 2 {
		return llmclient.TrendExtract{}
	}

	forecasts := make([]domain.WeatherForecast, len(window))
	for i, e := range window {
		forecasts[i] = domain.WeatherForecast{
			DateTime:         e.ForecastDateTime,
			Temperature:      e.Temperature,
			WeatherCondition: e.WeatherCondition,
			Precipitation:    e.Precipitation,
		}
	}
	trend, err := domain.ComputeWeatherTrend(forecasts, nil)
	if err != nil {
		return llmclient.TrendExtract{}
	}
	return llmclient.TrendExtract{
		Available:          true,
		TemperatureChangeC: trend.TemperatureChange,
		PrecipitationTotal: trend.PrecipitationTotal,
		Direction:          trend.Direction,
	}
}

// runStage times fn, records the timing, and on error classifies and
// appends it to state's error log plus logs/counts it.
func (o *Orchestrator) runStage(state *domain.CommentGenerationState, stage string, fn func() error) {
	start := domain.Now()
	err := fn()
	duration := domain.Now().Sub(start)
	state.RecordTiming(stage, duration)

	if o.Metrics != nil {
		o.Metrics.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	}

	if err != nil {
		state.AddError(stage, err)
		kind, _ := domain.KindOf(err)
		if o.Metrics != nil {
			o.Metrics.StageErrors.WithLabelValues(stage, string(kind)).Inc()
		}
		if o.Logger != nil {
			o.Logger.Warn("stage failed", "run_id", state.RunID, "stage", stage, "kind", kind, "error", err.Error())
		}
	}
}
