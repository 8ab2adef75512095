package pipeline

import (
	"regexp"
	"strings"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

// Evaluation axis names.
const (
	AxisRelevance       = "RELEVANCE"
	AxisCreativity      = "CREATIVITY"
	AxisNaturalness     = "NATURALNESS"
	AxisAppropriateness = "APPROPRIATENESS"
	AxisEngagement      = "ENGAGEMENT"
	AxisClarity         = "CLARITY"
	AxisConsistency     = "CONSISTENCY"
	AxisOriginality     = "ORIGINALITY"
)

// criticalAxes must each independently clear 0.5.
var criticalAxes = map[string]bool{AxisAppropriateness: true, AxisRelevance: true}

// defaultAxisWeights sum to 1; equal weighting across all eight axes is the
// simplest scheme compatible with a configurable per-axis weight set that
// must sum to 1. Used whenever NewEvaluator is given no override.
var defaultAxisWeights = map[string]float64{
	AxisRelevance:       0.125,
	AxisCreativity:      0.125,
	AxisNaturalness:     0.125,
	AxisAppropriateness: 0.125,
	AxisEngagement:      0.125,
	AxisClarity:         0.125,
	AxisConsistency:     0.125,
	AxisOriginality:     0.125,
}

const totalPassThreshold = 0.6
const criticalPassThreshold = 0.5

var inappropriateWords = []string{"死ね", "馬鹿", "クソ", "最悪"}

var sentenceEndRe = regexp.MustCompile(`[。！？]`)

// Evaluator scores a pair along eight axes using fixed
// substring/regex rules — no LLM involvement, fully deterministic.
type Evaluator struct {
	weights map[string]float64
}

// NewEvaluator constructs an Evaluator. weights overrides the per-axis
// weight used by Score (config.Config.EvaluationWeights); pass nil to use
// the package's equal-weight default. Every axis is otherwise a pure
// function of (pair, forecast).
func NewEvaluator(weights map[string]float64) *Evaluator {
	if weights == nil {
		weights = defaultAxisWeights
	}
	return &Evaluator{weights: weights}
}

// Score computes all eight axis scores plus the weighted total, and
// reports whether the pair passes (total >= 0.6 and every critical axis
// >= 0.5).
func (e *Evaluator) Score(pair domain.CommentPair, forecast domain.WeatherForecast) (scores map[string]float64, total float64, passed bool) {
	combined := pair.WeatherComment.CommentText + "　" + pair.AdviceComment.CommentText

	scores = map[string]float64{
		AxisRelevance:       scoreRelevance(combined, forecast),
		AxisCreativity:      scoreCreativity(combined),
		AxisNaturalness:     scoreNaturalness(combined),
		AxisAppropriateness: scoreAppropriateness(combined),
		AxisEngagement:      scoreEngagement(combined),
		AxisClarity:         scoreClarity(combined),
		AxisConsistency:     scoreConsistency(pair, forecast),
		AxisOriginality:     scoreOriginality(pair),
	}

	for axis, score := range scores {
		total += score * e.weights[axis]
	}

	passed = total >= totalPassThreshold
	if passed {
		for axis := range criticalAxes {
			if scores[axis] < criticalPassThreshold {
				passed = false
				break
			}
		}
	}
	return scores, total, passed
}

// scoreRelevance rewards co-mention of the weather description and a
// temperature-appropriate word.
func scoreRelevance(text string, forecast domain.WeatherForecast) float64 {
	score := 0.5
	if forecast.WeatherDescription != "" && strings.Contains(text, forecast.WeatherDescription) {
		score += 0.25
	}
	if temperatureWordMatches(text, forecast.Temperature) {
		score += 0.25
	}
	return clamp01(score)
}

func temperatureWordMatches(text string, tempC float64) bool {
	switch {
	case tempC >= 34:
		return strings.Contains(text, "暑") || strings.Contains(text, "熱")
	case tempC < 12:
		return strings.Contains(text, "寒") || strings.Contains(text, "冷")
	default:
		return true
	}
}

func scoreCreativity(text string) float64 {
	runeCount := len([]rune(text))
	unique := len(charSet(text))
	if runeCount == 0 {
		return 0
	}
	ratio := float64(unique) / float64(runeCount)
	return clamp01(0.3 + ratio*0.7)
}

func scoreNaturalness(text string) float64 {
	score := 0.6
	if sentenceEndRe.MatchString(text) {
		score += 0.2
	}
	if strings.Contains(text, "　　") {
		score -= 0.3 // doubled separator reads as malformed
	}
	return clamp01(score)
}

func scoreAppropriateness(text string) float64 {
	score := 1.0
	for _, w := range inappropriateWords {
		if strings.Contains(text, w) {
			score -= 0.5
		}
	}
	return clamp01(score)
}

func scoreEngagement(text string) float64 {
	runeCount := len([]rune(text))
	switch {
	case runeCount == 0:
		return 0
	case runeCount < 6:
		return 0.4
	case runeCount <= 40:
		return 0.8
	default:
		return 0.6
	}
}

func scoreClarity(text string) float64 {
	if len([]rune(text)) == 0 {
		return 0
	}
	if strings.Contains(text, "？") {
		return 0.5 // an unresolved question reads as unclear
	}
	return 0.85
}

func scoreConsistency(pair domain.CommentPair, forecast domain.WeatherForecast) float64 {
	if isRainyCondition(forecast.WeatherCondition) {
		if _, found := containsAnyFold(pair.WeatherComment.CommentText+pair.AdviceComment.CommentText, rainBreakWordsSnapshot); found {
			return 0.3
		}
	}
	return 0.85
}

// rainBreakWordsSnapshot mirrors rules.Default().RainBreakWords for the
// evaluator's consistency axis, which has no dependency on a loaded
// rules.Matrix (it only needs the fixed literal list, not operator
// overrides).
var rainBreakWordsSnapshot = []string{
	"中休み", "晴れ間", "回復", "一時的な晴れ", "梅雨の中休み", "梅雨明け",
	"からっと", "さっぽり", "乾燥", "湿度低下", "晴天", "好天", "快晴の", "青空が",
}

func scoreOriginality(pair domain.CommentPair) float64 {
	if pair.WeatherComment.UsageCount == 0 && pair.AdviceComment.UsageCount == 0 {
		return 0.9
	}
	total := pair.WeatherComment.UsageCount + pair.AdviceComment.UsageCount
	switch {
	case total > 100:
		return 0.4
	case total > 20:
		return 0.6
	default:
		return 0.8
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
