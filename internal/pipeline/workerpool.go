package pipeline

import (
	"context"
	"sync"
)

// LocationResult pairs one location's pipeline outcome with its name, for
// the bounded fan-out's per-location isolated result set.
type LocationResult struct {
	LocationName string
	Result       GenerationResult
	Err          error
}

// FanOutResult is the worker pool's overall result: success_count,
// total_count, per-location results, and any errors encountered.
type FanOutResult struct {
	SuccessCount int
	TotalCount   int
	Results      []LocationResult
	Errors       []error
}

// RunFanOut processes each of locations through run with a bounded worker
// pool (default width 8 when poolSize <= 0), isolating per-location
// failures from one another. Cancelling ctx stops dispatch of
// further work and lets in-flight workers observe ctx.Done() at their next
// suspension point.
func RunFanOut(ctx context.Context, locations []string, poolSize int, run func(ctx context.Context, location string) (GenerationResult, error)) FanOutResult {
	if poolSize <= 0 {
		poolSize = 8
	}

	results := make([]LocationResult, len(locations))
	sem := make(chan struct{}, poolSize)
	var wg sync.WaitGroup

	for i, location := range locations {
		wg.Add(1)
		go func(i int, location string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = LocationResult{LocationName: location, Err: ctx.Err()}
				return
			}

			result, err := run(ctx, location)
			results[i] = LocationResult{LocationName: location, Result: result, Err: err}
		}(i, location)
	}
	wg.Wait()

	out := FanOutResult{TotalCount: len(locations), Results: results}
	for _, r := range results {
		if r.Err != nil {
			out.Errors = append(out.Errors, r.Err)
		} else {
			out.SuccessCount++
		}
	}
	return out
}
