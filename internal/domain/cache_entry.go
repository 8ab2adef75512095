package domain

import "time"

// ForecastCacheEntry is one row of the per-location forecast cache file.
// The cache is advisory-only: a write failure or a miss on read never
// aborts the pipeline, only degrades the temperature-difference analyser
// to its no-data branch.
type ForecastCacheEntry struct {
	Location           string
	ForecastDateTime   time.Time
	CachedAt           time.Time
	Temperature        float64
	MinTemperature     *float64
	MaxTemperature     *float64
	WeatherCondition   WeatherCondition
	WeatherDescription string
	Precipitation      float64
	Humidity           float64
	WindSpeed          float64
	Metadata           map[string]string
}

// Age reports how long ago the entry was written, relative to domain.Now().
func (e ForecastCacheEntry) Age() time.Duration {
	return Now().Sub(e.CachedAt)
}

// Stale reports whether the entry is older than maxAge (the default
// pruning window is 7 days, parameterised so callers can apply tighter
// windows for the temperature-difference lookup).
func (e ForecastCacheEntry) Stale(maxAge time.Duration) bool {
	return e.Age() > maxAge
}
