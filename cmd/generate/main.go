// Command generate runs the comment generation worker: it loads
// configuration, wires the weather provider, forecast cache, historical
// comment corpus, and LLM client into an Orchestrator, exposes
// health/readiness/metrics endpoints, runs one generation pass fanned out
// over every configured location, and keeps the endpoints up until
// terminated. It does not accept comment generation requests over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/sohprivate/mobile-comment-generator-go/internal/config"
	"github.com/sohprivate/mobile-comment-generator-go/internal/corpus"
	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
	"github.com/sohprivate/mobile-comment-generator-go/internal/forecastcache"
	"github.com/sohprivate/mobile-comment-generator-go/internal/healthserver"
	"github.com/sohprivate/mobile-comment-generator-go/internal/llmclient"
	"github.com/sohprivate/mobile-comment-generator-go/internal/observability"
	"github.com/sohprivate/mobile-comment-generator-go/internal/pipeline"
	"github.com/sohprivate/mobile-comment-generator-go/internal/rules"
	"github.com/sohprivate/mobile-comment-generator-go/internal/weatherprovider"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	store := corpus.NewStore(logger)
	if err := store.LoadDir(cfg.CorpusDir); err != nil {
		logger.Error("failed to load comment corpus", "error", err)
		os.Exit(1)
	}

	locationEntries, err := domain.LoadLocationsCSV(cfg.LocationsCSV)
	if err != nil {
		logger.Error("failed to load locations table", "error", err)
		os.Exit(1)
	}
	lookup := domain.NewLocationLookup(locationEntries, domain.Location{Latitude: 35.6, Longitude: 139.7})

	cache, err := forecastcache.NewCache(cfg.CacheDir, cfg.CacheMaxAge)
	if err != nil {
		logger.Error("failed to open forecast cache", "error", err)
		os.Exit(1)
	}

	weatherClient := weatherprovider.NewClient(cfg.WeatherAPIKey, cfg.WeatherAPIBaseURL, cfg.WeatherAPITimeout, 10, logger)

	llm, err := newLLMProvider(cfg)
	if err != nil {
		logger.Error("failed to configure llm provider", "error", err)
		os.Exit(1)
	}
	manager := llmclient.NewManager(cfg.LLMProvider, llm)

	orchestrator := pipeline.NewOrchestrator(
		lookup, weatherClient, cache, store, rules.Default(), manager, cfg.LLMProvider,
		cfg.MaxRetries, cfg.ForecastHoursAhead, cfg.TrendHoursAhead,
		cfg.ThunderSeverePrecipitation, cfg.HeatWarningThreshold,
		cfg.EvaluationWeights, cfg.EvaluationSkipEnabled,
		logger, metrics,
	)

	srv := healthserver.NewServer(cfg.HTTPAddr, orchestrator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go runOnce(ctx, orchestrator, locationEntries, cfg.WorkerPoolSize, logger)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// runOnce fans a single comment-generation pass out across every known
// location, logging a summary. The outer request layer that would trigger
// this on a schedule or per-request basis lives outside this binary; this
// entry point exercises the orchestration engine directly instead.
func runOnce(ctx context.Context, o *pipeline.Orchestrator, locations map[string]domain.Location, poolSize int, logger *slog.Logger) {
	names := make([]string, 0, len(locations))
	for name := range locations {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		logger.Warn("no locations configured; skipping generation pass")
		return
	}

	target := domain.Now()
	result := pipeline.RunFanOut(ctx, names, poolSize, func(ctx context.Context, location string) (pipeline.GenerationResult, error) {
		return o.GenerateComment(ctx, location, &target)
	})

	logger.Info("generation pass complete",
		"success_count", result.SuccessCount, "total_count", result.TotalCount, "error_count", len(result.Errors))
}

func newLLMProvider(cfg *config.Config) (llmclient.Provider, error) {
	switch cfg.LLMProvider {
	case "openai":
		return llmclient.NewOpenAIProvider(llmclient.OpenAIConfig{APIKey: cfg.LLMAPIKey, Model: cfg.LLMModel})
	case "gemini":
		return llmclient.NewGeminiProvider(context.Background(), llmclient.GeminiConfig{APIKey: cfg.LLMAPIKey, Model: cfg.LLMModel})
	default:
		return llmclient.NewAnthropicProvider(llmclient.AnthropicConfig{APIKey: cfg.LLMAPIKey, Model: cfg.LLMModel})
	}
}
