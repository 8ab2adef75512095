package forecastcache

import (
	"github.com/jinzhu/now"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

// TemperatureDiff holds the three scalars derived from the current
// forecast and the cache.
type TemperatureDiff struct {
	PreviousDayDiff    *float64
	TwelveHoursAgoDiff *float64
	DailyRange         *float64
	Magnitude          domain.TemperatureMagnitude
}

// AnalyseTemperatureDiff computes previous_day_diff, twelve_hours_ago_diff
// and daily_range for current relative to the cache. Any
// scalar whose cache lookup misses is left nil rather than aborting the
// others — the analyser is advisory like the cache it reads.
func (c *Cache) AnalyseTemperatureDiff(location string, current domain.WeatherForecast) TemperatureDiff {
	var diff TemperatureDiff

	if prev, ok := c.PreviousDay(location, current.DateTime); ok {
		d := current.Temperature - prev.Temperature
		diff.PreviousDayDiff = &d
	}
	if twelve, ok := c.TwelveHoursAgo(location, current.DateTime); ok {
		d := current.Temperature - twelve.Temperature
		diff.TwelveHoursAgoDiff = &d
	}

	dayStart := now.With(current.DateTime).BeginningOfDay()
	todays := c.EntriesForDate(location, dayStart)
	if len(todays) > 0 {
		min, max := todays[0].Temperature, todays[0].Temperature
		for _, e := range todays[1:] {
			if e.Temperature < min {
				min = e.Temperature
			}
			if e.Temperature > max {
				max = e.Temperature
			}
		}
		if current.Temperature < min {
			min = current.Temperature
		}
		if current.Temperature > max {
			max = current.Temperature
		}
		r := max - min
		diff.DailyRange = &r
	}

	diff.Magnitude = classifyMagnitude(diff)
	return diff
}

// classifyMagnitude applies fixed thresholds (large >=10, moderate >=7,
// small >=5) to the largest absolute scalar available.
func classifyMagnitude(d TemperatureDiff) domain.TemperatureMagnitude {
	largest := 0.0
	consider := func(p *float64) {
		if p == nil {
			return
		}
		v := *p
		if v < 0 {
			v = -v
		}
		if v > largest {
			largest = v
		}
	}
	consider(d.PreviousDayDiff)
	consider(d.TwelveHoursAgoDiff)
	consider(d.DailyRange)
	return domain.ClassifyTemperatureDiff(largest)
}
