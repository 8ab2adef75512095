// Command replay performs an offline consistency check across the two
// data sources the orchestration engine depends on: the historical
// comment corpus and the forecast cache. It loads each the same way the
// production entry point does and reports, phase by phase, whether every
// season has retrievable comments and whether the cache holds entries for
// the locations/dates it is asked about.
//
// Usage:
//
//	go run ./cmd/replay -corpus-dir ./data/corpus -cache-dir ./data/forecast_cache -locations 東京都,那覇市
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sohprivate/mobile-comment-generator-go/internal/corpus"
	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
	"github.com/sohprivate/mobile-comment-generator-go/internal/forecastcache"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	corpusDir := flag.String("corpus-dir", "./data/corpus", "directory holding the per-season comment CSVs")
	cacheDir := flag.String("cache-dir", "./data/forecast_cache", "directory holding the forecast cache CSVs")
	cacheMaxAge := flag.Duration("cache-max-age", 7*24*time.Hour, "cache entry max age, matching the production config")
	locations := flag.String("locations", "", "comma-separated location names to check in the forecast cache")
	flag.Parse()

	os.Exit(run(*corpusDir, *cacheDir, *cacheMaxAge, *locations))
}

func run(corpusDir, cacheDir string, cacheMaxAge time.Duration, locationsCSV string) int {
	fmt.Println("=== Comment Corpus / Forecast Cache Consistency Check ===")
	fmt.Println()

	phases := []*phase{
		checkCorpus(corpusDir),
		checkCache(cacheDir, cacheMaxAge, splitLocations(locationsCSV)),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-40s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll checks passed.")
		return 0
	}
	fmt.Println("\nConsistency check FAILED.")
	return 1
}

func splitLocations(csvList string) []string {
	var out []string
	for _, part := range strings.Split(csvList, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// checkCorpus verifies every season defined in corpus.AllSeasons has at
// least one weather comment and one advice comment retrievable, so a
// season's pool never comes back empty and forces cross-season widening
// on every single request.
func checkCorpus(dir string) *phase {
	p := &phase{name: "Phase 1: Corpus season coverage"}

	store := corpus.NewStore(nil)
	if err := store.LoadDir(dir); err != nil {
		p.errorf("load corpus from %s: %v", dir, err)
		return p
	}
	if store.Empty() {
		p.errorf("corpus loaded from %s but contains no comments", dir)
		return p
	}

	for _, season := range corpus.AllSeasons() {
		weather, advice := store.Retrieve([]string{season})
		if len(weather) == 0 {
			p.errorf("season %q: no weather comments", season)
		}
		if len(advice) == 0 {
			p.errorf("season %q: no advice comments", season)
		}
	}
	return p
}

// checkCache verifies the forecast cache is readable and, for every
// requested location, holds at least one entry for today — the
// precondition buildTrendExtract needs for a non-empty trend window.
func checkCache(dir string, maxAge time.Duration, locations []string) *phase {
	p := &phase{name: "Phase 2: Forecast cache readability"}

	cache, err := forecastcache.NewCache(dir, maxAge)
	if err != nil {
		p.errorf("open cache at %s: %v", dir, err)
		return p
	}

	if len(locations) == 0 {
		return p
	}

	today := domain.Now()
	for _, loc := range locations {
		normalized := domain.NormalizeLocationName(loc)
		entries := cache.EntriesForDate(normalized, today)
		if len(entries) == 0 {
			p.errorf("location %q: no cached entries for today (%s)", loc, today.Format("2006-01-02"))
		}
	}
	return p
}
