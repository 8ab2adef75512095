package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// WeatherCondition is the normalized enum the core reasons about; the raw
// provider weather code is mapped onto this set at ingestion.
type WeatherCondition string

const (
	ConditionClear        WeatherCondition = "CLEAR"
	ConditionPartlyCloudy WeatherCondition = "PARTLY_CLOUDY"
	ConditionCloudy       WeatherCondition = "CLOUDY"
	ConditionRain         WeatherCondition = "RAIN"
	ConditionHeavyRain    WeatherCondition = "HEAVY_RAIN"
	ConditionSnow         WeatherCondition = "SNOW"
	ConditionHeavySnow    WeatherCondition = "HEAVY_SNOW"
	ConditionThunder      WeatherCondition = "THUNDER"
	ConditionFog          WeatherCondition = "FOG"
	ConditionStorm        WeatherCondition = "STORM"
	ConditionSevereStorm  WeatherCondition = "SEVERE_STORM"
	ConditionExtremeHeat  WeatherCondition = "EXTREME_HEAT"
	ConditionUnknown      WeatherCondition = "UNKNOWN"
)

// selectionPriority orders conditions by how urgently the priority selector
// should surface them: higher means more severe/attention-
// worthy. Used by rule 1's tie-break among {THUNDER, FOG, STORM,
// SEVERE_STORM, EXTREME_HEAT} and by rule 6's "argmax(condition_priority)"
// among non-CLEAR conditions.
var selectionPriority = map[WeatherCondition]int{
	ConditionSevereStorm:  12,
	ConditionStorm:        11,
	ConditionThunder:      10,
	ConditionExtremeHeat:  9,
	ConditionFog:          8,
	ConditionHeavySnow:    7,
	ConditionHeavyRain:    6,
	ConditionSnow:         5,
	ConditionRain:         4,
	ConditionCloudy:       3,
	ConditionPartlyCloudy: 2,
	ConditionClear:        1,
	ConditionUnknown:      0,
}

// SelectionPriority returns the ordinal used by the priority selector's
// severity tie-breaks.
func SelectionPriority(c WeatherCondition) int {
	return selectionPriority[c]
}

// trendOrdinal is the "weather-condition ordinal" used for
// WeatherTrend.direction: CLEAR=5, PARTLY_CLOUDY=4, CLOUDY=3, RAIN=2,
// HEAVY_RAIN=0 are given literally; the remaining conditions are placed
// consistently with that scale (higher = more pleasant). This is the
// inverse sense of SelectionPriority, which ranks by urgency rather than
// pleasantness — the two must not be conflated.
var trendOrdinal = map[WeatherCondition]int{
	ConditionClear:        5,
	ConditionPartlyCloudy: 4,
	ConditionCloudy:       3,
	ConditionRain:         2,
	ConditionSnow:         2,
	ConditionFog:          1,
	ConditionExtremeHeat:  1,
	ConditionHeavyRain:    0,
	ConditionHeavySnow:    0,
	ConditionThunder:      0,
	ConditionStorm:        0,
	ConditionSevereStorm:  0,
	ConditionUnknown:      3,
}

// TrendOrdinal returns the default weather-score ordinal for WeatherTrend
// direction, overridable via config.Config.WeatherScores.
func TrendOrdinal(c WeatherCondition) int {
	return trendOrdinal[c]
}

// AllWeatherConditions lists every known condition, used to seed a
// deployment's default weather_scores table before any config override is
// applied.
func AllWeatherConditions() []WeatherCondition {
	return []WeatherCondition{
		ConditionClear, ConditionPartlyCloudy, ConditionCloudy, ConditionRain,
		ConditionHeavyRain, ConditionSnow, ConditionHeavySnow, ConditionThunder,
		ConditionFog, ConditionStorm, ConditionSevereStorm, ConditionExtremeHeat,
		ConditionUnknown,
	}
}

// IsSevereForSelection reports membership in the rule-1 severe set:
// {THUNDER, FOG, STORM, SEVERE_STORM, EXTREME_HEAT}.
func (c WeatherCondition) IsSevereForSelection() bool {
	switch c {
	case ConditionThunder, ConditionFog, ConditionStorm, ConditionSevereStorm, ConditionExtremeHeat:
		return true
	default:
		return false
	}
}

// IsSevere reports membership in the rule-4 severe set:
// {HEAVY_RAIN, HEAVY_SNOW, STORM, SEVERE_STORM, THUNDER}.
func (c WeatherCondition) IsSevere() bool {
	switch c {
	case ConditionHeavyRain, ConditionHeavySnow, ConditionStorm, ConditionSevereStorm, ConditionThunder:
		return true
	default:
		return false
	}
}

// IsRainy reports whether the condition represents any form of
// precipitation, used by the validator's rain-contradiction rule
// and the priority selector's rule 5.
func (c WeatherCondition) IsRainy() bool {
	switch c {
	case ConditionRain, ConditionHeavyRain, ConditionThunder, ConditionStorm, ConditionSevereStorm:
		return true
	default:
		return false
	}
}

// WindDirection is the compass enum derived from the provider's 0–8 wind
// index.
type WindDirection string

const (
	WindNorth     WindDirection = "N"
	WindNortheast WindDirection = "NE"
	WindEast      WindDirection = "E"
	WindSoutheast WindDirection = "SE"
	WindSouth     WindDirection = "S"
	WindSouthwest WindDirection = "SW"
	WindWest      WindDirection = "W"
	WindNorthwest WindDirection = "NW"
	WindCalm      WindDirection = "CALM"
)

// windIndexTable maps the provider's 0–8 wnddir index to (direction, degrees).
// Index 0 denotes calm, matching the wxtech-style wire contract.
var windIndexTable = []struct {
	dir WindDirection
	deg float64
}{
	{WindCalm, 0},
	{WindNorth, 0},
	{WindNortheast, 45},
	{WindEast, 90},
	{WindSoutheast, 135},
	{WindSouth, 180},
	{WindSouthwest, 225},
	{WindWest, 270},
	{WindNorthwest, 315},
}

// WindFromIndex converts the provider's 0–8 wind index into a (direction,
// degrees) pair, defaulting to calm/0 for out-of-range indices so malformed
// input never aborts ingestion.
func WindFromIndex(idx int) (WindDirection, float64) {
	if idx < 0 || idx >= len(windIndexTable) {
		return WindCalm, 0
	}
	e := windIndexTable[idx]
	return e.dir, e.deg
}

// PrecipitationSeverity classifies a precipitation rate for the validator's
// weather axis.
type PrecipitationSeverity string

const (
	SeverityNone      PrecipitationSeverity = "none"
	SeverityLight     PrecipitationSeverity = "light"
	SeverityModerate  PrecipitationSeverity = "moderate"
	SeverityHeavy     PrecipitationSeverity = "heavy"
	SeverityVeryHeavy PrecipitationSeverity = "very_heavy"
)

// ClassifyPrecipitation buckets a precipitation rate (mm/h):
// light <1mm, moderate 1–10mm, heavy 10–30mm, very_heavy >30mm.
func ClassifyPrecipitation(mmPerHour float64) PrecipitationSeverity {
	switch {
	case mmPerHour <= 0:
		return SeverityNone
	case mmPerHour < 1:
		return SeverityLight
	case mmPerHour < 10:
		return SeverityModerate
	case mmPerHour <= 30:
		return SeverityHeavy
	default:
		return SeverityVeryHeavy
	}
}

// WeatherForecast is one observation for one instant at one location.
// Invariants are enforced by Validate, not by the constructor, so
// ingestion can build a partial forecast and validate it once complete.
type WeatherForecast struct {
	LocationName        string
	DateTime            time.Time // JST canonical, timezone-aware
	Temperature         float64   // °C
	Precipitation       float64   // mm/h
	Humidity            float64   // %
	WindSpeed           float64   // m/s
	WindDirection       WindDirection
	WindDirectionDegree float64
	WeatherCode         string
	WeatherCondition    WeatherCondition
	WeatherDescription  string
}

// Validate checks the value-range invariants on temperature, humidity,
// precipitation, and wind direction.
func (f WeatherForecast) Validate() error {
	switch {
	case f.Temperature < -50 || f.Temperature > 60:
		return fmt.Errorf("%w: temperature %.1f out of range [-50,60]", ErrInvalidForecast, f.Temperature)
	case f.Humidity < 0 || f.Humidity > 100:
		return fmt.Errorf("%w: humidity %.1f out of range [0,100]", ErrInvalidForecast, f.Humidity)
	case f.Precipitation < 0:
		return fmt.Errorf("%w: precipitation %.2f is negative", ErrInvalidForecast, f.Precipitation)
	case f.WindDirectionDegree < 0 || f.WindDirectionDegree > 360:
		return fmt.Errorf("%w: wind direction degree %.1f out of range [0,360]", ErrInvalidForecast, f.WindDirectionDegree)
	default:
		return nil
	}
}

// PrecipitationSeverity classifies this forecast's precipitation rate.
func (f WeatherForecast) PrecipitationSeverity() PrecipitationSeverity {
	return ClassifyPrecipitation(f.Precipitation)
}

// WeatherForecastCollection is an ordered sequence of forecasts for one
// location, supporting nearest-to-instant lookup.
type WeatherForecastCollection struct {
	LocationName string
	Forecasts    []WeatherForecast
	GeneratedAt  time.Time
}

// NearestTo returns the forecast whose DateTime is closest to instant,
// provided the collection is non-empty. The second return is false for an
// empty collection.
func (c WeatherForecastCollection) NearestTo(instant time.Time) (WeatherForecast, bool) {
	if len(c.Forecasts) == 0 {
		return WeatherForecast{}, false
	}
	best := c.Forecasts[0]
	bestDiff := absDuration(best.DateTime.Sub(instant))
	for _, f := range c.Forecasts[1:] {
		diff := absDuration(f.DateTime.Sub(instant))
		if diff < bestDiff {
			best, bestDiff = f, diff
		}
	}
	return best, true
}

// Sorted returns a copy ordered by DateTime ascending.
func (c WeatherForecastCollection) Sorted() []WeatherForecast {
	out := make([]WeatherForecast, len(c.Forecasts))
	copy(out, c.Forecasts)
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// WeatherTrendDirection classifies how conditions are moving over a window.
type WeatherTrendDirection string

const (
	TrendImproving   WeatherTrendDirection = "IMPROVING"
	TrendStable      WeatherTrendDirection = "STABLE"
	TrendWorsening   WeatherTrendDirection = "WORSENING"
	TrendFluctuating WeatherTrendDirection = "FLUCTUATING"
)

// WeatherChange records a single condition transition within a trend window.
type WeatherChange struct {
	Time   time.Time
	Before WeatherCondition
	After  WeatherCondition
}

// WeatherTrend is derived from a sequence of ≥2 forecasts.
type WeatherTrend struct {
	TemperatureChange  float64
	MinTemperature     float64
	MaxTemperature     float64
	PrecipitationTotal float64
	WeatherChanges     []WeatherChange
	Direction          WeatherTrendDirection
}

// ComputeWeatherTrend derives a WeatherTrend from a time-ordered window of
// ≥2 forecasts. scores overrides the condition ordinal used for direction
// (config.Config.WeatherScores); pass nil to use the package default.
func ComputeWeatherTrend(window []WeatherForecast, scores map[WeatherCondition]int) (WeatherTrend, error) {
	if len(window) < 2 {
		return WeatherTrend{}, fmt.Errorf("%w: trend requires at least 2 forecasts, got %d", ErrInsufficientData, len(window))
	}
	if scores == nil {
		scores = trendOrdinal
	}

	first, last := window[0], window[len(window)-1]
	trend := WeatherTrend{
		TemperatureChange: last.Temperature - first.Temperature,
		MinTemperature:    first.Temperature,
		MaxTemperature:    first.Temperature,
	}

	for i, f := range window {
		trend.MinTemperature = math.Min(trend.MinTemperature, f.Temperature)
		trend.MaxTemperature = math.Max(trend.MaxTemperature, f.Temperature)
		trend.PrecipitationTotal += f.Precipitation
		if i > 0 && f.WeatherCondition != window[i-1].WeatherCondition {
			trend.WeatherChanges = append(trend.WeatherChanges, WeatherChange{
				Time:   f.DateTime,
				Before: window[i-1].WeatherCondition,
				After:  f.WeatherCondition,
			})
		}
	}

	startOrdinal := scores[first.WeatherCondition]
	endOrdinal := scores[last.WeatherCondition]
	switch {
	case len(trend.WeatherChanges) >= 3:
		trend.Direction = TrendFluctuating
	case endOrdinal > startOrdinal:
		trend.Direction = TrendImproving
	case endOrdinal < startOrdinal:
		trend.Direction = TrendWorsening
	default:
		trend.Direction = TrendStable
	}

	return trend, nil
}

// TemperatureMagnitude classifies an absolute temperature difference for
// the temperature difference analyser.
type TemperatureMagnitude string

const (
	MagnitudeLarge    TemperatureMagnitude = "large"
	MagnitudeModerate TemperatureMagnitude = "moderate"
	MagnitudeSmall    TemperatureMagnitude = "small"
	MagnitudeNone     TemperatureMagnitude = "none"
)

// ClassifyTemperatureDiff buckets an absolute °C difference: large ≥10,
// moderate ≥7, small ≥5, else none.
func ClassifyTemperatureDiff(absDiff float64) TemperatureMagnitude {
	switch {
	case absDiff >= 10:
		return MagnitudeLarge
	case absDiff >= 7:
		return MagnitudeModerate
	case absDiff >= 5:
		return MagnitudeSmall
	default:
		return MagnitudeNone
	}
}
