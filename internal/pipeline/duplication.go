package pipeline

import (
	"strings"
	"unicode/utf8"

	"github.com/sohprivate/mobile-comment-generator-go/internal/rules"
)

// patternPairs are fixed weather/advice pattern pairs used as a third
// duplication heuristic.
type patternPair struct {
	weather []string
	advice  []string
}

var patternPairs = []patternPair{
	{weather: []string{"雨が心配", "雨に注意"}, advice: []string{"雨", "注意"}},
}

// IsDuplicateContent implements the four-way OR duplication predicate. The
// critical-keyword list and the short-text Jaccard threshold/length are
// read from matrix rather than hard-coded, so an operator can tune them
// alongside the rest of the validator matrix.
func IsDuplicateContent(weatherText, adviceText string, matrix *rules.Matrix) bool {
	if weatherText == adviceText {
		return true
	}
	if shareCriticalKeyword(weatherText, adviceText, matrix.DuplicateCriticalKeywords) {
		return true
	}
	if matchesPatternPair(weatherText, adviceText) {
		return true
	}
	if isShortAndSimilar(weatherText, adviceText, matrix) {
		return true
	}
	return false
}

func shareCriticalKeyword(weatherText, adviceText string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(weatherText, kw) && strings.Contains(adviceText, kw) {
			return true
		}
	}
	return false
}

func matchesPatternPair(weatherText, adviceText string) bool {
	for _, pair := range patternPairs {
		weatherMatch := false
		for _, w := range pair.weather {
			if strings.Contains(weatherText, w) {
				weatherMatch = true
				break
			}
		}
		if !weatherMatch {
			continue
		}
		adviceMatch := true
		for _, a := range pair.advice {
			if !strings.Contains(adviceText, a) {
				adviceMatch = false
				break
			}
		}
		if adviceMatch {
			return true
		}
	}
	return false
}

// isShortAndSimilar implements the matrix-configured short-text
// Jaccard-over-characters heuristic (10 runes / 0.7 by default).
func isShortAndSimilar(weatherText, adviceText string, matrix *rules.Matrix) bool {
	limit := matrix.DuplicateShortLengthRunes
	if utf8.RuneCountInString(weatherText) > limit || utf8.RuneCountInString(adviceText) > limit {
		return false
	}
	return jaccardChars(weatherText, adviceText) > matrix.DuplicateJaccardThreshold
}

func jaccardChars(a, b string) float64 {
	setA := charSet(a)
	setB := charSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	intersection := 0
	for r := range setA {
		if setB[r] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func charSet(s string) map[rune]bool {
	set := make(map[rune]bool)
	for _, r := range s {
		set[r] = true
	}
	return set
}
