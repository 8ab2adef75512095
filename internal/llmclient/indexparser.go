package llmclient

import (
	"regexp"
	"strconv"
	"strings"
)

// fullMatchRe accepts a response that is, after trimming whitespace,
// nothing but digits.
var fullMatchRe = regexp.MustCompile(`^[0-9]+$`)

// leadingDigitsRe pulls off a leading run of digits, tolerating trailing
// prose ("0番目の候補が最適です" -> "0").
var leadingDigitsRe = regexp.MustCompile(`^([0-9]+)`)

// labelledPatternRe matches the explicit labelled reply forms:
// "答え: N" / "選択: N".
var labelledPatternRe = regexp.MustCompile(`(?:答え|選択)\s*[:：]?\s*([0-9]+)`)

// anyDigitRe is the last-resort scan for any run of digits in the text.
var anyDigitRe = regexp.MustCompile(`[0-9]+`)

// ParseIndex parses an LLM response into a candidate index using a
// fallback chain: full-string numeric match, leading-digits match,
// labelled pattern, then any digit in range. Returns (index, true) on
// success; (0, false) if nothing parseable was found, in which case the
// caller falls back to index 0.
func ParseIndex(response string, poolSize int) (int, bool) {
	trimmed := strings.TrimSpace(response)

	if fullMatchRe.MatchString(trimmed) {
		if idx, ok := parseInRange(trimmed, poolSize); ok {
			return idx, true
		}
	}
	if m := leadingDigitsRe.FindStringSubmatch(trimmed); m != nil {
		if idx, ok := parseInRange(m[1], poolSize); ok {
			return idx, true
		}
	}
	if m := labelledPatternRe.FindStringSubmatch(trimmed); m != nil {
		if idx, ok := parseInRange(m[1], poolSize); ok {
			return idx, true
		}
	}
	for _, m := range anyDigitRe.FindAllString(trimmed, -1) {
		if idx, ok := parseInRange(m, poolSize); ok {
			return idx, true
		}
	}
	return 0, false
}

// ParsePairIndices parses the "天気:N アドバイス:N" labelled reply shape
// BuildArbitrationPrompt requests, falling back to ParseIndex's generic
// chain applied to each half when the labels are absent.
func ParsePairIndices(response string, weatherPoolSize, advicePoolSize int) (weatherIdx, adviceIdx int, ok bool) {
	weatherRe := regexp.MustCompile(`天気\s*[:：]?\s*([0-9]+)`)
	adviceRe := regexp.MustCompile(`アドバイス\s*[:：]?\s*([0-9]+)`)

	wm := weatherRe.FindStringSubmatch(response)
	am := adviceRe.FindStringSubmatch(response)
	if wm != nil && am != nil {
		w, wok := parseInRange(wm[1], weatherPoolSize)
		a, aok := parseInRange(am[1], advicePoolSize)
		if wok && aok {
			return w, a, true
		}
	}

	w, wok := ParseIndex(response, weatherPoolSize)
	a, aok := ParseIndex(response, advicePoolSize)
	if wok && aok {
		return w, a, true
	}
	return 0, 0, false
}

func parseInRange(digits string, poolSize int) (int, bool) {
	idx, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	if idx < 0 || idx >= poolSize {
		return 0, false
	}
	return idx, true
}
