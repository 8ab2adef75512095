// Package config loads the orchestration engine's settings from
// environment variables.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

// Config holds all engine settings, populated from environment variables.
type Config struct {
	MaxRetries                 int
	ForecastHoursAhead         int
	TrendHoursAhead            int
	HeatWarningThreshold       float64
	ColdWarningThreshold       float64
	ThunderSeverePrecipitation float64
	WeatherScores              map[domain.WeatherCondition]int

	// EvaluationWeights overrides the evaluator's per-axis weight, keyed by
	// axis name (e.g. "RELEVANCE"). Nil unless EVALUATION_WEIGHTS is set;
	// when nil, the evaluator falls back to its own equal-weight default.
	EvaluationWeights map[string]float64

	// EvaluationSkipEnabled, when true, treats pair selection (LLM
	// arbitration or its deterministic fallback) as the sole authority and
	// skips the evaluator stage entirely.
	EvaluationSkipEnabled bool

	LLMProvider string
	LLMModel    string
	LLMAPIKey   string

	WeatherAPIKey     string
	WeatherAPIBaseURL string
	WeatherAPITimeout time.Duration
	LLMAPITimeout     time.Duration

	WorkerPoolSize int

	CorpusDir      string
	CacheDir       string
	CacheMaxAge    time.Duration
	LocationsCSV   string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset, and validates the invariants the configuration table implies
// (positive timeouts, a non-empty LLM provider, a supported worker-pool
// size).
func Load() (*Config, error) {
	maxRetries, err := envInt("MAX_RETRIES", 5)
	if err != nil {
		return nil, err
	}
	forecastHoursAhead, err := envInt("FORECAST_HOURS_AHEAD", 12)
	if err != nil {
		return nil, err
	}
	trendHoursAhead, err := envInt("TREND_HOURS_AHEAD", 12)
	if err != nil {
		return nil, err
	}
	// cmd/generate passes this threshold to the validator as its
	// heatstroke-wording ceiling, where it takes the place of the matrix's
	// own 32C default (rules.Matrix.HeatstrokeCeilingC): heatstroke words
	// are rejected below this temperature.
	heatThreshold, err := envFloat("HEAT_WARNING_THRESHOLD", 30)
	if err != nil {
		return nil, err
	}
	coldThreshold, err := envFloat("COLD_WARNING_THRESHOLD", 15)
	if err != nil {
		return nil, err
	}
	thunderPrecip, err := envFloat("THUNDER_SEVERE_PRECIPITATION", 5)
	if err != nil {
		return nil, err
	}

	// Default is shorter than the LLM timeout below; a deployment fronting a
	// slower upstream can raise this independently.
	weatherTimeout, err := envDuration("WEATHER_API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	llmTimeout, err := envDuration("LLM_API_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheMaxAge, err := envDuration("CACHE_MAX_AGE", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	workerPoolSize, err := envInt("WORKER_POOL_SIZE", 8)
	if err != nil {
		return nil, err
	}

	evaluationWeights, err := envEvaluationWeights("EVALUATION_WEIGHTS")
	if err != nil {
		return nil, err
	}

	evaluationSkipEnabled, err := envBool("EVALUATION_SKIP_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MaxRetries:                 maxRetries,
		ForecastHoursAhead:         forecastHoursAhead,
		TrendHoursAhead:            trendHoursAhead,
		HeatWarningThreshold:       heatThreshold,
		ColdWarningThreshold:       coldThreshold,
		ThunderSeverePrecipitation: thunderPrecip,
		WeatherScores:              defaultWeatherScores(),
		EvaluationWeights:          evaluationWeights,
		EvaluationSkipEnabled:      evaluationSkipEnabled,

		LLMProvider: envOrDefault("LLM_PROVIDER", "anthropic"),
		LLMModel:    envOrDefault("LLM_MODEL", ""),
		LLMAPIKey:   os.Getenv("LLM_API_KEY"),

		WeatherAPIKey:     os.Getenv("WEATHER_API_KEY"),
		WeatherAPIBaseURL: envOrDefault("WEATHER_API_BASE_URL", "https://wxtech.weathernews.com"),
		WeatherAPITimeout: weatherTimeout,
		LLMAPITimeout:     llmTimeout,

		WorkerPoolSize: workerPoolSize,

		CorpusDir:    envOrDefault("CORPUS_DIR", "./data/corpus"),
		CacheDir:     envOrDefault("CACHE_DIR", "./data/forecast_cache"),
		CacheMaxAge:  cacheMaxAge,
		LocationsCSV: envOrDefault("LOCATIONS_CSV", "./data/locations.csv"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.MaxRetries <= 0 || cfg.MaxRetries > 20 {
		return nil, errors.New("MAX_RETRIES must be between 1 and 20")
	}
	if cfg.WorkerPoolSize <= 0 || cfg.WorkerPoolSize > 256 {
		return nil, errors.New("WORKER_POOL_SIZE must be between 1 and 256")
	}
	if cfg.LLMProvider != "openai" && cfg.LLMProvider != "gemini" && cfg.LLMProvider != "anthropic" {
		return nil, errors.New("LLM_PROVIDER must be one of: openai, gemini, anthropic")
	}
	if cfg.WeatherAPITimeout <= 0 {
		return nil, errors.New("invalid WEATHER_API_TIMEOUT")
	}
	if cfg.LLMAPITimeout <= 0 {
		return nil, errors.New("invalid LLM_API_TIMEOUT")
	}
	if cfg.EvaluationWeights != nil {
		var sum float64
		for _, w := range cfg.EvaluationWeights {
			sum += w
		}
		if sum < 0.99 || sum > 1.01 {
			return nil, errors.New("EVALUATION_WEIGHTS must sum to 1")
		}
	}

	return cfg, nil
}

// defaultWeatherScores seeds WeatherTrend's ordinal scale from
// domain.TrendOrdinal so a deployment need not override every condition to
// tune a handful.
func defaultWeatherScores() map[domain.WeatherCondition]int {
	scores := make(map[domain.WeatherCondition]int, len(domain.AllWeatherConditions()))
	for _, c := range domain.AllWeatherConditions() {
		scores[c] = domain.TrendOrdinal(c)
	}
	return scores
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return f, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New("invalid " + key)
	}
	return b, nil
}

// parseList splits a comma-separated environment value, trimming whitespace
// and dropping empty entries — used by callers that accept a list-valued
// option, such as the AXIS=weight entries in EVALUATION_WEIGHTS.
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// envEvaluationWeights parses a comma-separated AXIS=weight list (e.g.
// "RELEVANCE=0.2,CREATIVITY=0.1,...") into a per-axis override map. Returns
// nil, unset, when the environment variable is empty, so callers can tell
// "use the evaluator's built-in default" apart from an explicit override.
func envEvaluationWeights(key string) (map[string]float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	pairs := parseList(v)
	weights := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		axis, raw, found := strings.Cut(pair, "=")
		if !found {
			return nil, errors.New("invalid " + key + ": expected AXIS=weight entries")
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, errors.New("invalid " + key + ": " + pair)
		}
		weights[strings.TrimSpace(axis)] = w
	}
	return weights, nil
}
