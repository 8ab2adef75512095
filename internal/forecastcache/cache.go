// Package forecastcache is an append-only, per-location tabular forecast
// store. It is advisory: callers must treat a miss or a write failure as
// a degraded hint, never as a pipeline-aborting error.
package forecastcache

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

var columns = []string{
	"location", "forecast_datetime", "cached_at", "temperature",
	"max_temperature", "min_temperature", "weather_condition",
	"weather_description", "precipitation", "humidity", "wind_speed", "metadata",
}

// Cache is a directory of one tabular file per location. Concurrent writers
// to the same location serialise through a per-location mutex; writers to
// different locations proceed independently.
type Cache struct {
	dir     string
	maxAge  time.Duration
	mu      sync.Mutex // guards locks map itself
	locks   map[string]*sync.Mutex
}

// NewCache creates a cache rooted at dir, creating it if necessary. maxAge
// is the pruning window applied on every write (7 days by default).
func NewCache(dir string, maxAge time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("forecastcache: create dir: %w", err)
	}
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &Cache{dir: dir, maxAge: maxAge, locks: make(map[string]*sync.Mutex)}, nil
}

func (c *Cache) lockFor(location string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[location]
	if !ok {
		l = &sync.Mutex{}
		c.locks[location] = l
	}
	return l
}

func (c *Cache) pathFor(location string) string {
	return filepath.Join(c.dir, sanitizeFilename(location)+".csv")
}

func sanitizeFilename(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r == '/' || r == '\\' || r == '.' || r == ' ':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// Write appends one entry for its location, then prunes entries older than
// the cache's maxAge. A write failure is returned to the caller but MUST
// NOT be treated as fatal to the pipeline — the cache is advisory.
func (c *Cache) Write(entry domain.ForecastCacheEntry) error {
	lock := c.lockFor(entry.Location)
	lock.Lock()
	defer lock.Unlock()

	existing, err := c.readAllLocked(entry.Location)
	if err != nil {
		return err
	}
	existing = append(existing, entry)
	return c.rewriteLocked(entry.Location, pruneStale(existing, c.maxAge))
}

func pruneStale(entries []domain.ForecastCacheEntry, maxAge time.Duration) []domain.ForecastCacheEntry {
	kept := entries[:0:0]
	for _, e := range entries {
		if !e.Stale(maxAge) {
			kept = append(kept, e)
		}
	}
	return kept
}

// Read returns the entry whose ForecastDateTime minimises the absolute
// distance to target, provided that distance is within tolerance. ok is
// false on a miss or any I/O problem — never an error, since the cache
// is advisory.
func (c *Cache) Read(location string, target time.Time, tolerance time.Duration) (domain.ForecastCacheEntry, bool) {
	lock := c.lockFor(location)
	lock.Lock()
	defer lock.Unlock()

	entries, err := c.readAllLocked(location)
	if err != nil || len(entries) == 0 {
		return domain.ForecastCacheEntry{}, false
	}

	best := entries[0]
	bestDiff := absDuration(best.ForecastDateTime.Sub(target))
	for _, e := range entries[1:] {
		diff := absDuration(e.ForecastDateTime.Sub(target))
		if diff < bestDiff {
			best, bestDiff = e, diff
		}
	}
	if bestDiff > tolerance {
		return domain.ForecastCacheEntry{}, false
	}
	return best, true
}

// PreviousDay returns the cached entry for the same hour one day before
// target, tolerance 6 hours.
func (c *Cache) PreviousDay(location string, target time.Time) (domain.ForecastCacheEntry, bool) {
	return c.Read(location, target.AddDate(0, 0, -1), 6*time.Hour)
}

// TwelveHoursAgo returns the cached entry twelve hours before target,
// tolerance 3 hours.
func (c *Cache) TwelveHoursAgo(location string, target time.Time) (domain.ForecastCacheEntry, bool) {
	return c.Read(location, target.Add(-12*time.Hour), 3*time.Hour)
}

// EntriesForDate returns every cached entry for location whose
// ForecastDateTime falls on the same calendar date as target, used by the
// temperature-difference analyser's daily_range computation.
func (c *Cache) EntriesForDate(location string, target time.Time) []domain.ForecastCacheEntry {
	lock := c.lockFor(location)
	lock.Lock()
	defer lock.Unlock()

	entries, err := c.readAllLocked(location)
	if err != nil {
		return nil
	}
	y, m, d := target.Date()
	var out []domain.ForecastCacheEntry
	for _, e := range entries {
		ey, em, ed := e.ForecastDateTime.Date()
		if ey == y && em == m && ed == d {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ForecastDateTime.Before(out[j].ForecastDateTime) })
	return out
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// readAllLocked loads every row for location. Caller must hold the
// location's lock. A missing file is not an error — it means no entries
// have been written yet.
func (c *Cache) readAllLocked(location string) ([]domain.ForecastCacheEntry, error) {
	path := c.pathFor(location)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("forecastcache: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("forecastcache: read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	out := make([]domain.ForecastCacheEntry, 0, len(rows)-1)
	for _, row := range rows[1:] { // skip header
		entry, err := rowToEntry(row, location)
		if err != nil {
			continue // one malformed row never aborts the whole cache read
		}
		out = append(out, entry)
	}
	return out, nil
}

// rewriteLocked atomically replaces the location's file with entries,
// writing to a temp file in the same directory then renaming over the
// original so concurrent readers never observe a partial write.
func (c *Cache) rewriteLocked(location string, entries []domain.ForecastCacheEntry) error {
	path := c.pathFor(location)
	tmp, err := os.CreateTemp(c.dir, ".tmp-*.csv")
	if err != nil {
		return fmt.Errorf("forecastcache: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(columns); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("forecastcache: write header: %w", err)
	}
	for _, e := range entries {
		if err := w.Write(entryToRow(e)); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("forecastcache: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("forecastcache: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("forecastcache: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("forecastcache: rename into place: %w", err)
	}
	return nil
}

func entryToRow(e domain.ForecastCacheEntry) []string {
	return []string{
		e.Location,
		e.ForecastDateTime.Format(time.RFC3339),
		e.CachedAt.Format(time.RFC3339),
		strconv.FormatFloat(e.Temperature, 'f', -1, 64),
		optionalFloat(e.MaxTemperature),
		optionalFloat(e.MinTemperature),
		string(e.WeatherCondition),
		e.WeatherDescription,
		strconv.FormatFloat(e.Precipitation, 'f', -1, 64),
		strconv.FormatFloat(e.Humidity, 'f', -1, 64),
		strconv.FormatFloat(e.WindSpeed, 'f', -1, 64),
		encodeMetadata(e.Metadata),
	}
}

func rowToEntry(row []string, location string) (domain.ForecastCacheEntry, error) {
	if len(row) != len(columns) {
		return domain.ForecastCacheEntry{}, fmt.Errorf("forecastcache: expected %d columns, got %d", len(columns), len(row))
	}
	forecastDT, err := time.Parse(time.RFC3339, row[1])
	if err != nil {
		return domain.ForecastCacheEntry{}, err
	}
	cachedAt, err := time.Parse(time.RFC3339, row[2])
	if err != nil {
		return domain.ForecastCacheEntry{}, err
	}
	temp, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return domain.ForecastCacheEntry{}, err
	}
	prec, err := strconv.ParseFloat(row[8], 64)
	if err != nil {
		return domain.ForecastCacheEntry{}, err
	}
	humidity, err := strconv.ParseFloat(row[9], 64)
	if err != nil {
		return domain.ForecastCacheEntry{}, err
	}
	wind, err := strconv.ParseFloat(row[10], 64)
	if err != nil {
		return domain.ForecastCacheEntry{}, err
	}

	return domain.ForecastCacheEntry{
		Location:           location,
		ForecastDateTime:   forecastDT,
		CachedAt:           cachedAt,
		Temperature:        temp,
		MaxTemperature:     parseOptionalFloat(row[4]),
		MinTemperature:     parseOptionalFloat(row[5]),
		WeatherCondition:   domain.WeatherCondition(row[6]),
		WeatherDescription: row[7],
		Precipitation:      prec,
		Humidity:           humidity,
		WindSpeed:          wind,
		Metadata:           decodeMetadata(row[11]),
	}, nil
}

func optionalFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// encodeMetadata/decodeMetadata serialise the opaque metadata map into a
// single "metadata" column using a simple key=value;key=value encoding —
// good enough for the small, known-key maps this cache actually stores.
func encodeMetadata(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ";"
		}
		out += k + "=" + m[k]
	}
	return out
}

func decodeMetadata(s string) map[string]string {
	if s == "" {
		return nil
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ";") {
		if k, v, ok := strings.Cut(pair, "="); ok {
			out[k] = v
		}
	}
	return out
}
