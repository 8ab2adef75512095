package pipeline

import (
	"context"
	"time"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
	"github.com/sohprivate/mobile-comment-generator-go/internal/forecastcache"
)

// forecastSlotHours are the four target-day local hours known as the
// "forecast slots".
var forecastSlotHours = []int{9, 12, 15, 18}

// WeatherFetcher is the narrow contract stage 2 needs from a weather
// provider, satisfied by *weatherprovider.Client.
type WeatherFetcher interface {
	GetForecast(ctx context.Context, lat, lon float64) (domain.WeatherForecastCollection, error)
}

// FetchForecastSlots implements stage 2: fetch the
// provider's forecast collection, select the nearest forecast to each of
// the four target-day slots, and persist each to the forecast cache. The
// cache is advisory — a write failure never aborts the pipeline — and is
// recorded as a warning, not a fatal error.
func FetchForecastSlots(ctx context.Context, state *domain.CommentGenerationState, fetcher WeatherFetcher, cache *forecastcache.Cache) error {
	collection, err := fetcher.GetForecast(ctx, state.Location.Latitude, state.Location.Longitude)
	if err != nil {
		return err
	}

	targetDay := state.TargetDateTime
	slots := make([]domain.WeatherForecast, 0, len(forecastSlotHours))
	for _, hour := range forecastSlotHours {
		instant := time.Date(targetDay.Year(), targetDay.Month(), targetDay.Day(), hour, 0, 0, 0, targetDay.Location())
		forecast, ok := collection.NearestTo(instant)
		if !ok {
			continue
		}
		forecast.DateTime = instant
		slots = append(slots, forecast)

		if cache != nil {
			entry := domain.ForecastCacheEntry{
				Location:           state.Location.NormalizedName,
				ForecastDateTime:   instant,
				CachedAt:           domain.Now(),
				Temperature:        forecast.Temperature,
				WeatherCondition:   forecast.WeatherCondition,
				WeatherDescription: forecast.WeatherDescription,
				Precipitation:      forecast.Precipitation,
				Humidity:           forecast.Humidity,
				WindSpeed:          forecast.WindSpeed,
			}
			if werr := cache.Write(entry); werr != nil {
				state.AddWarning("forecast cache write failed: " + werr.Error())
			}
		}
	}

	if len(slots) == 0 {
		return domain.NewPipelineError("forecast_fetcher", domain.KindNoForecastData, "provider returned no forecasts near the requested slots", nil)
	}

	state.ForecastSlots = slots
	state.ForecastGeneratedAt = collection.GeneratedAt
	return nil
}
