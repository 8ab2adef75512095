// Package weatherprovider fetches and parses forecasts from a wxtech-style
// weather API behind a rate-limited, retrying HTTP client.
package weatherprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

// Client fetches forecasts for a single lat/lon pair.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
	maxRetries uint64
}

// NewClient creates a weather-provider client. limiterPerSecond bounds
// outbound request rate with a token bucket, shared across a worker-pool
// fan-out so many locations never burst the upstream API at once.
func NewClient(apiKey, baseURL string, timeout time.Duration, limiterPerSecond float64, logger *slog.Logger) *Client {
	if limiterPerSecond <= 0 {
		limiterPerSecond = 10
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(limiterPerSecond), 1),
		maxRetries: 2,
	}
}

// GetForecast fetches and parses the forecast collection for (lat, lon).
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) (domain.WeatherForecastCollection, error) {
	if lat < -90 || lat > 90 {
		return domain.WeatherForecastCollection{}, domain.NewPipelineError(
			"weather_fetch", domain.KindInvalidInput, fmt.Sprintf("latitude %v out of range", lat), nil)
	}
	if lon < -180 || lon > 180 {
		return domain.WeatherForecastCollection{}, domain.NewPipelineError(
			"weather_fetch", domain.KindInvalidInput, fmt.Sprintf("longitude %v out of range", lon), nil)
	}

	u := fmt.Sprintf("%s/api/v1/ss1wx", c.baseURL)
	params := url.Values{
		"lat": {fmt.Sprintf("%f", lat)},
		"lon": {fmt.Sprintf("%f", lon)},
	}

	raw, err := c.doRequestWithRetry(ctx, u+"?"+params.Encode())
	if err != nil {
		return domain.WeatherForecastCollection{}, err
	}
	return parseForecastResponse(raw, fmt.Sprintf("lat:%v,lon:%v", lat, lon))
}

func (c *Client) doRequestWithRetry(ctx context.Context, fullURL string) (rawResponse, error) {
	var result rawResponse
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(domain.NewPipelineError("weather_fetch", domain.KindCancelled, "rate limiter wait cancelled", err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(domain.NewPipelineError("weather_fetch", domain.KindWeatherProvider, "build request", err))
		}
		req.Header.Set("X-API-Key", c.apiKey)
		req.Header.Set("User-Agent", "mobile-comment-generator-go/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(domain.NewPipelineError("weather_fetch", domain.KindCancelled, "request cancelled", err))
			}
			pe := &domain.PipelineError{Stage: "weather_fetch", Kind: domain.KindWeatherProvider, SubKind: domain.SubKindNetworkError, Message: "transport error", Cause: err}
			return pe
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)

		switch resp.StatusCode {
		case http.StatusOK:
			// fallthrough to decode below
		case http.StatusUnauthorized, http.StatusForbidden:
			return backoff.Permanent(&domain.PipelineError{Stage: "weather_fetch", Kind: domain.KindWeatherProvider, SubKind: domain.SubKindAPIKeyInvalid, Message: "API key invalid or lacks permission"})
		case http.StatusTooManyRequests:
			return &domain.PipelineError{Stage: "weather_fetch", Kind: domain.KindWeatherProvider, SubKind: domain.SubKindRateLimit, Message: "rate limit exceeded"}
		case http.StatusNotFound:
			return backoff.Permanent(&domain.PipelineError{Stage: "weather_fetch", Kind: domain.KindWeatherProvider, SubKind: domain.SubKindNotFound, Message: "no forecast for this location"})
		default:
			if resp.StatusCode >= 500 {
				return &domain.PipelineError{Stage: "weather_fetch", Kind: domain.KindWeatherProvider, SubKind: domain.SubKindServerError, Message: fmt.Sprintf("server error: HTTP %d", resp.StatusCode)}
			}
			return backoff.Permanent(&domain.PipelineError{Stage: "weather_fetch", Kind: domain.KindWeatherProvider, SubKind: domain.SubKindServerError, Message: fmt.Sprintf("unexpected status: HTTP %d", resp.StatusCode)})
		}

		if readErr != nil {
			return backoff.Permanent(domain.NewPipelineError("weather_fetch", domain.KindWeatherProvider, "read response body", readErr))
		}

		var parsed rawResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return backoff.Permanent(domain.NewPipelineError("weather_fetch", domain.KindWeatherProvider, "decode JSON response", err))
		}
		if len(parsed.WxData) == 0 {
			return backoff.Permanent(domain.NewPipelineError("weather_fetch", domain.KindNoForecastData, "response contained no wxdata", nil))
		}
		result = parsed
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 3 * time.Second
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0
	policy := backoff.WithMaxRetries(exp, c.maxRetries)
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		if c.logger != nil {
			c.logger.Warn("weather provider request failed after retries", "url", fullURL, "error", err)
		}
		return rawResponse{}, err
	}
	return result, nil
}
