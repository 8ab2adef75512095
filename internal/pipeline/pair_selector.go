package pipeline

import (
	"context"
	"sort"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
	"github.com/sohprivate/mobile-comment-generator-go/internal/llmclient"
	"github.com/sohprivate/mobile-comment-generator-go/internal/rules"
)

const maxCandidatesPerPool = 50

// LLMGenerator is the narrow contract the pair selector needs from an LLM
// client: a single generate(prompt) -> text call, satisfied by
// *llmclient.Manager.
type LLMGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PairSelector runs the full candidate-preparation, LLM-arbitrated
// selection, and post-validation algorithm with alternative offset-pair
// search.
type PairSelector struct {
	validator *Validator
	llm       LLMGenerator
	provider  string
}

// NewPairSelector wires a PairSelector. llm may be nil, in which case
// arbitration always falls straight through to the deterministic choice
// (useful for tests and for the "LLM arbitration disabled" config case).
func NewPairSelector(validator *Validator, llm LLMGenerator, provider string) *PairSelector {
	return &PairSelector{validator: validator, llm: llm, provider: provider}
}

// rankAndTruncate orders pool by a three-bucket priority
// (severe-weather-appropriate, weather-condition-matched, other),
// stable-sorting each bucket by descending usage_count, then truncates to
// maxCandidatesPerPool.
func rankAndTruncate(pool []domain.PastComment, forecast domain.WeatherForecast, matrix *rules.Matrix) []domain.PastComment {
	var severeBucket, matchedBucket, otherBucket []domain.PastComment
	isSevere := severeConditions[forecast.WeatherCondition] || isSevereSet[forecast.WeatherCondition]

	for _, c := range pool {
		switch {
		case isSevere && commentMatchesSevereKeywords(c, forecast, matrix):
			severeBucket = append(severeBucket, c)
		case commentMatchesCondition(c, forecast):
			matchedBucket = append(matchedBucket, c)
		default:
			otherBucket = append(otherBucket, c)
		}
	}

	sortByUsageDesc(severeBucket)
	sortByUsageDesc(matchedBucket)
	sortByUsageDesc(otherBucket)

	out := append(append(severeBucket, matchedBucket...), otherBucket...)
	if len(out) > maxCandidatesPerPool {
		out = out[:maxCandidatesPerPool]
	}
	return out
}

func sortByUsageDesc(pool []domain.PastComment) {
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].UsageCount > pool[j].UsageCount })
}

func commentMatchesCondition(c domain.PastComment, forecast domain.WeatherForecast) bool {
	return c.WeatherCond != "" && domain.WeatherCondition(c.WeatherCond) == forecast.WeatherCondition
}

func commentMatchesSevereKeywords(c domain.PastComment, forecast domain.WeatherForecast, matrix *rules.Matrix) bool {
	var required rules.RequiredKeywords
	switch forecast.WeatherCondition {
	case domain.ConditionHeavyRain:
		required = matrix.RequiredHeavyRain
	case domain.ConditionStorm, domain.ConditionSevereStorm:
		required = matrix.RequiredStorm
	default:
		return false
	}
	list := required.WeatherComment
	if c.CommentType == domain.CommentTypeAdvice {
		list = required.Advice
	}
	_, found := containsAnyFold(c.CommentText, list)
	return found
}

// Select runs the full pair-selection algorithm against already-filtered
// pools, returning the chosen pair, whether the LLM's choice was used
// (false means the deterministic fallback fired), and an error only when
// every recovery path — including the rainy keyword-scan fallback —
// fails.
func (s *PairSelector) Select(ctx context.Context, weatherPool, advicePool []domain.PastComment, forecast domain.WeatherForecast, location domain.Location, trend llmclient.TrendExtract, unfilteredWeather, unfilteredAdvice []domain.PastComment, matrix *rules.Matrix) (domain.CommentPair, bool, error) {
	weatherCandidates := rankAndTruncate(weatherPool, forecast, matrix)
	adviceCandidates := rankAndTruncate(advicePool, forecast, matrix)

	if len(weatherCandidates) == 0 || len(adviceCandidates) == 0 {
		return s.rainyFallback(unfilteredWeather, unfilteredAdvice, forecast)
	}

	wIdx, aIdx, usedLLM := s.arbitrate(ctx, forecast, trend, weatherCandidates, adviceCandidates)

	if pair, ok := s.validatePairAt(weatherCandidates, adviceCandidates, wIdx, aIdx, forecast, location, matrix); ok {
		return pair, usedLLM, nil
	}

	limit := len(weatherCandidates)
	if len(adviceCandidates) < limit {
		limit = len(adviceCandidates)
	}
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		if pair, ok := s.validatePairAt(weatherCandidates, adviceCandidates, i, i, forecast, location, matrix); ok {
			return pair, false, nil
		}
	}

	return s.rainyFallback(unfilteredWeather, unfilteredAdvice, forecast)
}

// arbitrate runs LLM arbitration and falls back deterministically to
// index 0 on any transport/parse failure or out-of-range response.
func (s *PairSelector) arbitrate(ctx context.Context, forecast domain.WeatherForecast, trend llmclient.TrendExtract, weatherCandidates, adviceCandidates []domain.PastComment) (wIdx, aIdx int, usedLLM bool) {
	if s.llm == nil {
		return 0, 0, false
	}

	prompt := llmclient.BuildArbitrationPrompt(forecast, trend, toCandidateEntries(weatherCandidates), toCandidateEntries(adviceCandidates))
	response, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return 0, 0, false
	}
	w, a, ok := llmclient.ParsePairIndices(response, len(weatherCandidates), len(adviceCandidates))
	if !ok {
		return 0, 0, false
	}
	return w, a, true
}

func toCandidateEntries(pool []domain.PastComment) []llmclient.CandidateEntry {
	entries := make([]llmclient.CandidateEntry, len(pool))
	for i, c := range pool {
		entries[i] = llmclient.CandidateEntry{Text: c.CommentText, Condition: c.WeatherCond, UsageCount: c.UsageCount}
	}
	return entries
}

// validatePairAt builds and post-validates the pair at (wIdx, aIdx):
// individual revalidation plus the duplication predicate.
func (s *PairSelector) validatePairAt(weatherCandidates, adviceCandidates []domain.PastComment, wIdx, aIdx int, forecast domain.WeatherForecast, location domain.Location, matrix *rules.Matrix) (domain.CommentPair, bool) {
	if wIdx < 0 || wIdx >= len(weatherCandidates) || aIdx < 0 || aIdx >= len(adviceCandidates) {
		return domain.CommentPair{}, false
	}
	w := weatherCandidates[wIdx]
	a := adviceCandidates[aIdx]

	if ok, _ := s.validator.Validate(w, forecast, location); !ok {
		return domain.CommentPair{}, false
	}
	if ok, _ := s.validator.Validate(a, forecast, location); !ok {
		return domain.CommentPair{}, false
	}
	if IsDuplicateContent(w.CommentText, a.CommentText, matrix) {
		return domain.CommentPair{}, false
	}

	return domain.CommentPair{
		WeatherComment:  w,
		AdviceComment:   a,
		SimilarityScore: jaccardChars(w.CommentText, a.CommentText),
		SelectionReason: "priority-ranked candidate pair",
	}, true
}

// rainyFallback is the "total failure" path: a specialised
// rainy-appropriate pair built by keyword scan over the unfiltered pools.
var rainyWeatherKeywords = []string{"雨", "傘", "降水"}
var rainyAdviceKeywords = []string{"傘", "雨具", "濡れ"}

func (s *PairSelector) rainyFallback(unfilteredWeather, unfilteredAdvice []domain.PastComment, forecast domain.WeatherForecast) (domain.CommentPair, bool, error) {
	w, wok := findByKeyword(unfilteredWeather, rainyWeatherKeywords)
	a, aok := findByKeyword(unfilteredAdvice, rainyAdviceKeywords)
	if !wok || !aok {
		return domain.CommentPair{}, false, domain.NewPipelineError("pair_selector", domain.KindNoValidCandidate, "no valid candidate pair found, including rainy fallback scan", nil)
	}
	return domain.CommentPair{
		WeatherComment:  w,
		AdviceComment:   a,
		SimilarityScore: jaccardChars(w.CommentText, a.CommentText),
		SelectionReason: "rainy-appropriate keyword-scan fallback",
	}, false, nil
}

func findByKeyword(pool []domain.PastComment, keywords []string) (domain.PastComment, bool) {
	for _, c := range pool {
		if _, found := containsAnyFold(c.CommentText, keywords); found {
			return c, true
		}
	}
	return domain.PastComment{}, false
}
