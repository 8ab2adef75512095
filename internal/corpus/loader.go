// Package corpus loads the historical weather/advice comment corpus
// from either a local directory of per-season CSV files or
// newline-delimited JSON blobs, and serves season-scoped retrieval with
// cross-season fallback widening.
package corpus

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

// Store holds the full corpus in memory, loaded once per process and
// read-only thereafter.
type Store struct {
	mu       sync.RWMutex
	bySeason map[string][]domain.PastComment // keyed by season, each a mix of weather+advice
	logger   *slog.Logger
}

// NewStore creates an empty store. Callers populate it via LoadDir or
// LoadNDJSON before first use.
func NewStore(logger *slog.Logger) *Store {
	return &Store{bySeason: make(map[string][]domain.PastComment), logger: logger}
}

// LoadDir loads every `{season}_{weather_comment|advice}_enhanced100.csv`
// file it finds under dir for each known season.
// A missing file for a given season/type is silently skipped, not
// treated as fatal — the corpus can be sparse. Read errors on a file that
// exists are logged and that file is skipped.
func (s *Store) LoadDir(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loadedAny := false
	for _, season := range AllSeasons() {
		weather, err := s.readCSVFile(filepath.Join(dir, season+"_weather_comment_enhanced100.csv"), domain.CommentTypeWeather, season)
		if err != nil {
			s.logWarn("load weather CSV", season, err)
		} else if len(weather) > 0 {
			loadedAny = true
		}
		advice, err := s.readCSVFile(filepath.Join(dir, season+"_advice_enhanced100.csv"), domain.CommentTypeAdvice, season)
		if err != nil {
			s.logWarn("load advice CSV", season, err)
		} else if len(advice) > 0 {
			loadedAny = true
		}
		s.bySeason[season] = append(s.bySeason[season], weather...)
		s.bySeason[season] = append(s.bySeason[season], advice...)
	}

	if !loadedAny {
		return domain.NewPipelineError("corpus_load", domain.KindCorpusUnavailable, fmt.Sprintf("no CSV files found under %s", dir), nil)
	}
	return nil
}

func (s *Store) logWarn(action, season string, err error) {
	if s.logger != nil {
		s.logger.Warn("corpus: "+action, "season", season, "error", err)
	}
}

func (s *Store) readCSVFile(path string, commentType domain.CommentType, season string) ([]domain.PastComment, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[h] = i
	}
	textCol, hasText := colIdx["weather_comment"]
	if !hasText {
		textCol, hasText = colIdx["advice"]
	}
	countCol, hasCount := colIdx["count"]

	var out []domain.PastComment
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // one malformed row never aborts the rest of the file
		}
		if !hasText || textCol >= len(row) || row[textCol] == "" {
			continue
		}
		usage := 0
		if hasCount && countCol < len(row) {
			fmt.Sscanf(row[countCol], "%d", &usage)
		}
		out = append(out, domain.PastComment{
			Location:    "全国",
			WeatherCond: "不明",
			CommentText: row[textCol],
			CommentType: commentType,
			UsageCount:  usage,
			SourceFile:  filepath.Base(path),
			RawData:     map[string]string{"season": season, "source": "local_csv"},
		})
	}
	return out, nil
}

// ndjsonRecord is the wire shape of one line in a remote-storage NDJSON
// blob.
type ndjsonRecord struct {
	Location      string            `json:"location"`
	DateTime      string            `json:"datetime"`
	WeatherCond   string            `json:"weather_condition"`
	CommentText   string            `json:"comment_text"`
	CommentType   string            `json:"comment_type"`
	Season        string            `json:"season"`
	Temperature   *float64          `json:"temperature"`
	Humidity      *float64          `json:"humidity"`
	Precipitation *float64          `json:"precipitation"`
	WindSpeed     *float64          `json:"wind_speed"`
	WeatherCode   string            `json:"weather_code"`
	UsageCount    int               `json:"usage_count"`
	RawData       map[string]string `json:"raw_data"`
}

// LoadNDJSON streams newline-delimited JSON comment records from r into
// the store, grouped by the season field each record carries.
func (s *Store) LoadNDJSON(ctx context.Context, r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return domain.NewPipelineError("corpus_load", domain.KindCancelled, "ndjson load cancelled", err)
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec ndjsonRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue // tolerate malformed lines
		}
		comment := ndjsonToPastComment(rec)
		season := rec.Season
		if season == "" {
			season = SeasonSpring // unknown season is better retrievable than dropped
		}
		s.bySeason[season] = append(s.bySeason[season], comment)
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("corpus: scan ndjson: %w", err)
	}
	if count == 0 {
		return domain.NewPipelineError("corpus_load", domain.KindCorpusUnavailable, "ndjson stream yielded no records", nil)
	}
	return nil
}

func ndjsonToPastComment(rec ndjsonRecord) domain.PastComment {
	ct := domain.CommentTypeUnknown
	switch rec.CommentType {
	case "WEATHER_COMMENT", "weather_comment":
		ct = domain.CommentTypeWeather
	case "ADVICE", "advice":
		ct = domain.CommentTypeAdvice
	}
	raw := rec.RawData
	if raw == nil {
		raw = map[string]string{}
	}
	raw["season"] = rec.Season
	raw["source"] = "ndjson_blob"
	return domain.PastComment{
		Location:      rec.Location,
		WeatherCond:   rec.WeatherCond,
		CommentText:   rec.CommentText,
		CommentType:   ct,
		Temperature:   rec.Temperature,
		Humidity:      rec.Humidity,
		Precipitation: rec.Precipitation,
		WindSpeed:     rec.WindSpeed,
		WeatherCode:   rec.WeatherCode,
		UsageCount:    rec.UsageCount,
		RawData:       raw,
	}
}

// Retrieve returns the weather-comment and advice pools for the given
// seasons, each sorted by descending UsageCount. The pair selector applies
// its own stable bucket sort on top of this; this retrieval just
// establishes a stable starting order.
func (s *Store) Retrieve(seasons []string) (weather, advice []domain.PastComment) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(seasons))
	for _, season := range seasons {
		if seen[season] {
			continue
		}
		seen[season] = true
		for _, c := range s.bySeason[season] {
			switch c.CommentType {
			case domain.CommentTypeWeather:
				weather = append(weather, c)
			case domain.CommentTypeAdvice:
				advice = append(advice, c)
			}
		}
	}
	sort.SliceStable(weather, func(i, j int) bool { return weather[i].UsageCount > weather[j].UsageCount })
	sort.SliceStable(advice, func(i, j int) bool { return advice[i].UsageCount > advice[j].UsageCount })
	return weather, advice
}

// RetrieveAllSeasons is the cross-season fallback used for recovery from
// a fully-rejected candidate pool: retrieve from every season rather than
// the current related set.
func (s *Store) RetrieveAllSeasons() (weather, advice []domain.PastComment) {
	return s.Retrieve(AllSeasons())
}

// Empty reports whether the store holds no comments at all, used by
// callers to raise CorpusUnavailable before entering the pipeline.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.bySeason {
		if len(v) > 0 {
			return false
		}
	}
	return true
}
