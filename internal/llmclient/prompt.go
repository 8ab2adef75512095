package llmclient

import (
	"fmt"
	"strings"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

// CandidateEntry is one numbered row of a pair-selector arbitration prompt.
type CandidateEntry struct {
	Text       string
	Condition  string
	UsageCount int
}

// TrendExtract is the optional ±3/±6/±12-hour trend summary folded into
// the prompt when the forecast cache has enough history.
type TrendExtract struct {
	Available          bool
	TemperatureChangeC  float64
	PrecipitationTotal  float64
	Direction           domain.WeatherTrendDirection
}

// BuildArbitrationPrompt constructs the pair-selector's LLM prompt: forecast
// snapshot, optional trend extract, two numbered candidate lists, and an
// explicit instruction to answer with indices only.
func BuildArbitrationPrompt(forecast domain.WeatherForecast, trend TrendExtract, weather, advice []CandidateEntry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "現在の天気予報:\n")
	fmt.Fprintf(&sb, "地点: %s\n", forecast.LocationName)
	fmt.Fprintf(&sb, "日時: %s\n", forecast.DateTime.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "天気: %s (%s)\n", forecast.WeatherDescription, forecast.WeatherCondition)
	fmt.Fprintf(&sb, "気温: %.1f℃ 降水量: %.1fmm 湿度: %.0f%%\n", forecast.Temperature, forecast.Precipitation, forecast.Humidity)

	if trend.Available {
		fmt.Fprintf(&sb, "\n気温変化傾向: %+.1f℃, 降水量合計: %.1fmm, 傾向: %s\n",
			trend.TemperatureChangeC, trend.PrecipitationTotal, trend.Direction)
	}

	sb.WriteString("\n天気コメント候補:\n")
	writeCandidateList(&sb, weather)

	sb.WriteString("\nアドバイスコメント候補:\n")
	writeCandidateList(&sb, advice)

	sb.WriteString("\n選択基準: 現在の天気・気温・季節に最も適合し、自然で分かりやすい表現を選んでください。\n")
	sb.WriteString("天気コメントとアドバイスコメントそれぞれについて、選んだ候補の番号だけを「天気:N アドバイス:N」の形式で回答してください。\n")

	return sb.String()
}

func writeCandidateList(sb *strings.Builder, entries []CandidateEntry) {
	for i, e := range entries {
		fmt.Fprintf(sb, "%d. %s (条件:%s, 使用回数:%d)\n", i, e.Text, e.Condition, e.UsageCount)
	}
}
