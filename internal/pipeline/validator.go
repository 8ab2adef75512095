package pipeline

import (
	"fmt"
	"strings"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
	"github.com/sohprivate/mobile-comment-generator-go/internal/rules"
)

// Validator rejects a candidate comment whose text contradicts the current
// forecast, driven entirely by a rules.Matrix. It is
// stateless and pure on (text, forecast, config).
type Validator struct {
	matrix                *rules.Matrix
	thunderSeverePrecip   float64
	heatstrokeCeilingC    float64
}

// NewValidator builds a Validator against matrix, with the thunder-severity
// and heatstroke thresholds taken from configuration.
func NewValidator(matrix *rules.Matrix, thunderSeverePrecip, heatstrokeCeilingC float64) *Validator {
	if matrix == nil {
		matrix = rules.Default()
	}
	return &Validator{matrix: matrix, thunderSeverePrecip: thunderSeverePrecip, heatstrokeCeilingC: heatstrokeCeilingC}
}

// Validate implements the validator's public contract:
// validate(comment, forecast) -> (ok, reason).
func (v *Validator) Validate(comment domain.PastComment, forecast domain.WeatherForecast, location domain.Location) (bool, string) {
	text := comment.CommentText
	lower := strings.ToLower(text)

	if reason, bad := v.checkWeatherAxis(lower, comment, forecast); bad {
		return false, reason
	}
	if reason, bad := v.checkTemperatureAxis(lower, forecast); bad {
		return false, reason
	}
	if reason, bad := v.checkHumidityAxis(lower, forecast); bad {
		return false, reason
	}
	if reason, bad := v.checkRegionAxis(lower, location); bad {
		return false, reason
	}
	if reason, bad := v.checkRequiredKeywords(text, comment, forecast); bad {
		return false, reason
	}
	if reason, bad := v.checkRainContradiction(text, forecast); bad {
		return false, reason
	}
	return true, ""
}

func containsAnyFold(lower string, words []string) (string, bool) {
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(w)) {
			return w, true
		}
	}
	return "", false
}

func (v *Validator) weatherAxisKey(forecast domain.WeatherForecast) (string, bool) {
	switch forecast.WeatherCondition {
	case domain.ConditionRain:
		return "rain", true
	case domain.ConditionHeavyRain:
		return "heavy_rain", true
	case domain.ConditionClear:
		return "sunny", true
	case domain.ConditionPartlyCloudy, domain.ConditionCloudy:
		return "cloudy", true
	case domain.ConditionThunder:
		return "thunder", true
	case domain.ConditionSnow, domain.ConditionHeavySnow:
		return "snow", true
	default:
		return "", false
	}
}

func (v *Validator) checkWeatherAxis(lower string, comment domain.PastComment, forecast domain.WeatherForecast) (string, bool) {
	key, ok := v.weatherAxisKey(forecast)
	if !ok {
		return "", false
	}

	// Rain/heavy_rain axis uses precipitation severity to choose ordinary
	// vs heavy word lists.
	if key == "rain" {
		severity := forecast.PrecipitationSeverity()
		if severity == domain.SeverityHeavy || severity == domain.SeverityVeryHeavy {
			key = "heavy_rain"
		}
	}

	if key == "thunder" {
		if forecast.Precipitation >= v.thunderSeverePrecip {
			key = "heavy_rain"
		} else if word, bad := containsAnyFold(lower, v.matrix.ThunderBelowThreshold); bad {
			return fmt.Sprintf("thunder below severity threshold forbids %q", word), true
		}
	}

	list, ok := v.matrix.WeatherAxis[key]
	if !ok {
		return "", false
	}
	forbidden := list.WeatherComment
	if comment.CommentType == domain.CommentTypeAdvice {
		forbidden = list.Advice
	}
	if word, bad := containsAnyFold(lower, forbidden); bad {
		return fmt.Sprintf("weather axis %q forbids %q", key, word), true
	}
	return "", false
}

func (v *Validator) checkTemperatureAxis(lower string, forecast domain.WeatherForecast) (string, bool) {
	bucket := rules.TemperatureBucketFor(forecast.Temperature)
	if forbidden, ok := v.matrix.TemperatureAxis[bucket]; ok {
		if word, bad := containsAnyFold(lower, forbidden); bad {
			return fmt.Sprintf("temperature bucket %q forbids %q", bucket, word), true
		}
	}
	ceiling := v.heatstrokeCeilingC
	if ceiling == 0 {
		ceiling = v.matrix.HeatstrokeCeilingC
	}
	if forecast.Temperature < ceiling {
		if word, bad := containsAnyFold(lower, v.matrix.HeatstrokeWords); bad {
			return fmt.Sprintf("temperature %.1f below heatstroke ceiling forbids %q", forecast.Temperature, word), true
		}
	}
	return "", false
}

func (v *Validator) checkHumidityAxis(lower string, forecast domain.WeatherForecast) (string, bool) {
	switch {
	case forecast.Humidity >= 80:
		if word, bad := containsAnyFold(lower, v.matrix.HumidityHighWords); bad {
			return fmt.Sprintf("high humidity forbids %q", word), true
		}
	case forecast.Humidity < 30:
		if word, bad := containsAnyFold(lower, v.matrix.HumidityLowWords); bad {
			return fmt.Sprintf("low humidity forbids %q", word), true
		}
	}
	return "", false
}

func (v *Validator) checkRegionAxis(lower string, location domain.Location) (string, bool) {
	if location.IsOkinawaFamily() {
		if word, bad := containsAnyFold(lower, v.matrix.OkinawaForbidden); bad {
			return fmt.Sprintf("okinawa-family location forbids %q", word), true
		}
	}
	if location.IsHokkaidoFamily() {
		if word, bad := containsAnyFold(lower, v.matrix.HokkaidoForbidden); bad {
			return fmt.Sprintf("hokkaido-family location forbids %q", word), true
		}
	}
	return "", false
}

func (v *Validator) checkRequiredKeywords(text string, comment domain.PastComment, forecast domain.WeatherForecast) (string, bool) {
	var required rules.RequiredKeywords
	switch forecast.WeatherCondition {
	case domain.ConditionHeavyRain:
		required = v.matrix.RequiredHeavyRain
	case domain.ConditionStorm, domain.ConditionSevereStorm:
		required = v.matrix.RequiredStorm
	default:
		return "", false
	}

	list := required.WeatherComment
	if comment.CommentType == domain.CommentTypeAdvice {
		list = required.Advice
	}
	if len(list) == 0 {
		return "", false
	}
	if _, found := containsAnyFold(strings.ToLower(text), list); !found {
		return fmt.Sprintf("missing required keyword for %s among %v", forecast.WeatherCondition, list), true
	}
	return "", false
}

func (v *Validator) checkRainContradiction(text string, forecast domain.WeatherForecast) (string, bool) {
	if !isRainyCondition(forecast.WeatherCondition) {
		return "", false
	}
	if word, bad := containsAnyFold(strings.ToLower(text), v.matrix.RainBreakWords); bad {
		return fmt.Sprintf("rainy weather forbids break-word %q", word), true
	}
	return "", false
}

func isRainyCondition(c domain.WeatherCondition) bool {
	switch c {
	case domain.ConditionRain, domain.ConditionHeavyRain, domain.ConditionThunder, domain.ConditionStorm, domain.ConditionSevereStorm:
		return true
	default:
		return false
	}
}
