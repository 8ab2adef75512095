// Command fixtures generates local-development seed data for the
// orchestration engine: a per-season historical comment corpus (the CSV
// shape internal/corpus.Store.LoadDir expects), a locations table, and a
// handful of forecast-cache entries so trend extraction has something to
// read on first run. It uses the real domain package so the fixtures
// match production parsing behavior, rather than hand-crafting raw CSV
// rows that could silently drift from the schema the loaders expect.
//
// Usage:
//
//	go run ./cmd/fixtures -out-dir ./data
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sohprivate/mobile-comment-generator-go/internal/corpus"
	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
	"github.com/sohprivate/mobile-comment-generator-go/internal/forecastcache"
)

type seasonComments struct {
	weather []string
	advice  []string
}

var seedComments = map[string]seasonComments{
	corpus.SeasonSpring: {
		weather: []string{"桜の開花とともに穏やかな陽気が続きます", "花粉の飛散が多い一日になりそうです"},
		advice:  []string{"上着を一枚持って出かけると安心です", "花粉症の方はマスクの着用をおすすめします"},
	},
	corpus.SeasonRainySeason: {
		weather: []string{"梅雨前線の影響でぐずついた天気が続きます", "蒸し暑く体調管理に注意が必要です"},
		advice:  []string{"傘をお持ちになってお出かけください", "湿気がこもりやすいので換気を心がけましょう"},
	},
	corpus.SeasonSummer: {
		weather: []string{"厳しい暑さが続き熱中症に警戒が必要です", "強い日差しが照りつける一日です"},
		advice:  []string{"こまめな水分補給を心がけてください", "日焼け止めをしっかり塗ってお出かけください"},
	},
	corpus.SeasonTyphoon: {
		weather: []string{"台風の接近により大荒れの天気が予想されます", "強風と激しい雨に警戒してください"},
		advice:  []string{"不要不急の外出は控えましょう", "飛来物に注意し窓の補強をおすすめします"},
	},
	corpus.SeasonAutumn: {
		weather: []string{"秋晴れの過ごしやすい一日となるでしょう", "朝晩の冷え込みが強まってきました"},
		advice:  []string{"羽織るものがあると安心です", "寒暖差が大きいので体調管理にご注意ください"},
	},
	corpus.SeasonWinter: {
		weather: []string{"積雪による交通機関への影響が心配されます", "冷たい北風が吹く寒い一日です"},
		advice:  []string{"防寒着必須で出かけましょう", "路面の凍結に注意して歩いてください"},
	},
}

var seedLocations = []struct {
	name       string
	lat, lon   float64
	region     string
	prefecture string
}{
	{"東京都", 35.6895, 139.6917, "関東", "東京都"},
	{"大阪市", 34.6937, 135.5023, "近畿", "大阪府"},
	{"札幌市", 43.0618, 141.3545, "北海道", "北海道"},
	{"那覇市", 26.2124, 127.6809, "沖縄", "沖縄県"},
	{"福岡市", 33.5904, 130.4017, "九州", "福岡県"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "./data", "directory to write fixture data under")
	flag.Parse()

	corpusDir := filepath.Join(*outDir, "corpus")
	cacheDir := filepath.Join(*outDir, "forecast_cache")
	locationsPath := filepath.Join(*outDir, "locations.csv")

	if err := writeCorpus(corpusDir); err != nil {
		return fmt.Errorf("writing corpus fixtures: %w", err)
	}
	log.Printf("wrote corpus CSVs under %s", corpusDir)

	if err := writeLocations(locationsPath); err != nil {
		return fmt.Errorf("writing locations fixture: %w", err)
	}
	log.Printf("wrote locations table: %s", locationsPath)

	if err := seedForecastCache(cacheDir); err != nil {
		return fmt.Errorf("seeding forecast cache: %w", err)
	}
	log.Printf("seeded forecast cache under %s", cacheDir)

	return nil
}

func writeCorpus(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, season := range corpus.AllSeasons() {
		seed := seedComments[season]
		if err := writeCommentCSV(filepath.Join(dir, season+"_weather_comment_enhanced100.csv"), "weather_comment", seed.weather); err != nil {
			return err
		}
		if err := writeCommentCSV(filepath.Join(dir, season+"_advice_enhanced100.csv"), "advice", seed.advice); err != nil {
			return err
		}
	}
	return nil
}

func writeCommentCSV(path, column string, comments []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{column, "count"}); err != nil {
		return err
	}
	for i, c := range comments {
		if err := w.Write([]string{c, fmt.Sprintf("%d", (i+1)*10)}); err != nil {
			return err
		}
	}
	return nil
}

func writeLocations(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"name", "latitude", "longitude", "region", "prefecture"}); err != nil {
		return err
	}
	for _, loc := range seedLocations {
		row := []string{
			loc.name,
			fmt.Sprintf("%g", loc.lat),
			fmt.Sprintf("%g", loc.lon),
			loc.region,
			loc.prefecture,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func seedForecastCache(dir string) error {
	cache, err := forecastcache.NewCache(dir, 7*24*time.Hour)
	if err != nil {
		return err
	}

	now := domain.Now()
	conditions := []domain.WeatherCondition{domain.ConditionClear, domain.ConditionCloudy, domain.ConditionRain}
	for _, loc := range seedLocations {
		for i, cond := range conditions {
			entry := domain.ForecastCacheEntry{
				Location:         loc.name,
				ForecastDateTime: now.Add(time.Duration(i*3) * time.Hour),
				CachedAt:         now,
				Temperature:      20 + float64(i)*3,
				WeatherCondition: cond,
				Precipitation:    float64(i),
				Humidity:         55 + float64(i)*5,
				WindSpeed:        2 + float64(i),
			}
			if err := cache.Write(entry); err != nil {
				return fmt.Errorf("%s: %w", loc.name, err)
			}
		}
	}
	return nil
}
