// Package pipeline implements the nine-stage comment-generation
// orchestration engine: input normalisation, forecast
// fetch, priority selection, historical retrieval, validation,
// LLM-arbitrated pair selection, evaluation/retry, composition, and
// output assembly.
package pipeline

import (
	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

var conditionPriority = map[domain.WeatherCondition]int{
	domain.ConditionSevereStorm:  6,
	domain.ConditionStorm:        5,
	domain.ConditionThunder:      4,
	domain.ConditionExtremeHeat:  3,
	domain.ConditionFog:          2,
	domain.ConditionHeavyRain:    1,
	domain.ConditionHeavySnow:    1,
	domain.ConditionRain:         0,
	domain.ConditionSnow:         0,
	domain.ConditionCloudy:       0,
	domain.ConditionPartlyCloudy: 0,
	domain.ConditionClear:        0,
	domain.ConditionUnknown:      0,
}

var severeConditions = map[domain.WeatherCondition]bool{
	domain.ConditionThunder:      true,
	domain.ConditionFog:          true,
	domain.ConditionStorm:        true,
	domain.ConditionSevereStorm:  true,
	domain.ConditionExtremeHeat:  true,
}

var isSevereSet = map[domain.WeatherCondition]bool{
	domain.ConditionHeavyRain:   true,
	domain.ConditionHeavySnow:   true,
	domain.ConditionStorm:       true,
	domain.ConditionSevereStorm: true,
	domain.ConditionThunder:     true,
}

// SelectPriorityForecast applies a fully-ordered rule chain over the
// target day's four forecast slots, returning exactly one representative
// forecast.
func SelectPriorityForecast(slots []domain.WeatherForecast) (domain.WeatherForecast, error) {
	if len(slots) == 0 {
		return domain.WeatherForecast{}, domain.NewPipelineError("priority_selector", domain.KindNoForecastData, "no forecast slots to select from", nil)
	}

	// Rule 1: severe conditions, highest priority, tie-break earlier time.
	if candidates := filterBy(slots, func(f domain.WeatherForecast) bool { return severeConditions[f.WeatherCondition] }); len(candidates) > 0 {
		return maxByThenEarliest(candidates, func(f domain.WeatherForecast) float64 { return float64(conditionPriority[f.WeatherCondition]) }), nil
	}

	// Rule 2: precipitation > 10mm/h, argmax precipitation.
	if candidates := filterBy(slots, func(f domain.WeatherForecast) bool { return f.Precipitation > 10 }); len(candidates) > 0 {
		return argmax(candidates, func(f domain.WeatherForecast) float64 { return f.Precipitation }), nil
	}

	hot := filterBy(slots, func(f domain.WeatherForecast) bool { return f.Temperature >= 35 })
	rainy := filterBy(slots, func(f domain.WeatherForecast) bool { return f.Precipitation > 0.1 })
	rainRatio := float64(len(rainy)) / float64(len(slots))

	if len(hot) > 0 {
		lightRainInHot := filterBy(hot, func(f domain.WeatherForecast) bool { return f.Precipitation > 0.1 && f.Precipitation <= 10 })
		switch {
		case len(lightRainInHot) > 0 && rainRatio <= 0.5:
			return argmax(hot, func(f domain.WeatherForecast) float64 { return f.Temperature }), nil
		case rainRatio > 0.5:
			return argmax(rainy, func(f domain.WeatherForecast) float64 { return f.Precipitation }), nil
		default:
			return argmax(hot, func(f domain.WeatherForecast) float64 { return f.Temperature }), nil
		}
	}

	// Rule 4: any severe-class condition (HEAVY_RAIN|HEAVY_SNOW|STORM|SEVERE_STORM|THUNDER).
	if candidates := filterBy(slots, func(f domain.WeatherForecast) bool { return isSevereSet[f.WeatherCondition] }); len(candidates) > 0 {
		return argmax(candidates, func(f domain.WeatherForecast) float64 { return f.Precipitation }), nil
	}

	// Rule 5: any rainy slot.
	if len(rainy) > 0 {
		return argmax(rainy, func(f domain.WeatherForecast) float64 { return f.Precipitation }), nil
	}

	// Rule 6: any non-clear condition.
	if candidates := filterBy(slots, func(f domain.WeatherForecast) bool { return f.WeatherCondition != domain.ConditionClear }); len(candidates) > 0 {
		return argmax(candidates, func(f domain.WeatherForecast) float64 { return float64(conditionPriority[f.WeatherCondition]) }), nil
	}

	// Rule 7: argmax temperature.
	return argmax(slots, func(f domain.WeatherForecast) float64 { return f.Temperature }), nil
}

func filterBy(slots []domain.WeatherForecast, pred func(domain.WeatherForecast) bool) []domain.WeatherForecast {
	var out []domain.WeatherForecast
	for _, f := range slots {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}

func argmax(slots []domain.WeatherForecast, key func(domain.WeatherForecast) float64) domain.WeatherForecast {
	best := slots[0]
	bestVal := key(best)
	for _, f := range slots[1:] {
		if v := key(f); v > bestVal {
			best = f
			bestVal = v
		}
	}
	return best
}

// maxByThenEarliest picks the maximum by key, breaking ties in favour of
// the earlier DateTime.
func maxByThenEarliest(slots []domain.WeatherForecast, key func(domain.WeatherForecast) float64) domain.WeatherForecast {
	best := slots[0]
	bestVal := key(best)
	for _, f := range slots[1:] {
		v := key(f)
		if v > bestVal || (v == bestVal && f.DateTime.Before(best.DateTime)) {
			best = f
			bestVal = v
		}
	}
	return best
}
