package weatherprovider

import (
	"fmt"
	"time"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

// rawResponse mirrors the wxtech-style wire contract:
// {"wxdata": [{"srf": [...], "mrf": [...]}]}.
type rawResponse struct {
	WxData []rawWxData `json:"wxdata"`
}

type rawWxData struct {
	SRF []rawForecastEntry `json:"srf"`
	MRF []rawForecastEntry `json:"mrf"`
}

// rawForecastEntry is one hourly or daily slot. Fields absent from the
// payload MUST default rather than fail ingestion: missing
// precipitation/humidity/wind_speed become 0.
type rawForecastEntry struct {
	Date    string  `json:"date"`
	WX      string  `json:"wx"`
	Temp    *float64 `json:"temp"`
	MaxTemp *float64 `json:"maxtemp"`
	MinTemp *float64 `json:"mintemp"`
	Prec    *float64 `json:"prec"`
	RHum    *float64 `json:"rhum"`
	WndSpd  *float64 `json:"wndspd"`
	WndDir  *int     `json:"wnddir"`
}

// weatherCodeTable maps the provider's numeric weather code to the
// normalized domain.WeatherCondition (grounded on the wxtech client's
// code_mapping table).
var weatherCodeTable = map[string]domain.WeatherCondition{
	"100": domain.ConditionClear,
	"101": domain.ConditionClear,
	"110": domain.ConditionPartlyCloudy,
	"111": domain.ConditionPartlyCloudy,
	"200": domain.ConditionCloudy,
	"201": domain.ConditionCloudy,
	"210": domain.ConditionFog,
	"300": domain.ConditionRain,
	"301": domain.ConditionRain,
	"302": domain.ConditionHeavyRain,
	"340": domain.ConditionThunder,
	"400": domain.ConditionSnow,
	"401": domain.ConditionSnow,
	"402": domain.ConditionHeavySnow,
	"500": domain.ConditionStorm,
	"501": domain.ConditionSevereStorm,
}

// weatherDescriptionTable maps the same codes to their Japanese gloss,
// stored as WeatherForecast.WeatherDescription for the LLM prompt and the
// evaluator, which want a human-readable label rather than the enum value.
var weatherDescriptionTable = map[string]string{
	"100": "晴れ",
	"101": "快晴",
	"110": "晴れ時々曇り",
	"111": "晴れのち曇り",
	"200": "曇り",
	"201": "薄曇り",
	"210": "霧",
	"300": "雨",
	"301": "小雨",
	"302": "大雨",
	"340": "雷雨",
	"400": "雪",
	"401": "小雪",
	"402": "大雪",
	"500": "嵐",
	"501": "暴風雨",
}

// ConditionForCode converts a raw provider weather code string into the
// normalized enum, defaulting to UNKNOWN for unrecognised codes.
func ConditionForCode(code string) domain.WeatherCondition {
	if c, ok := weatherCodeTable[code]; ok {
		return c
	}
	return domain.ConditionUnknown
}

// DescriptionForCode returns the Japanese description for a raw provider
// weather code, defaulting to "不明" (unknown).
func DescriptionForCode(code string) string {
	if d, ok := weatherDescriptionTable[code]; ok {
		return d
	}
	return "不明"
}

func parseForecastResponse(raw rawResponse, locationName string) (domain.WeatherForecastCollection, error) {
	if len(raw.WxData) == 0 {
		return domain.WeatherForecastCollection{}, domain.NewPipelineError("weather_fetch", domain.KindNoForecastData, "empty wxdata", nil)
	}
	wx := raw.WxData[0]

	forecasts := make([]domain.WeatherForecast, 0, len(wx.SRF)+len(wx.MRF))
	for _, entry := range wx.SRF {
		f, err := parseEntry(entry, locationName, true)
		if err != nil {
			continue // tolerate malformed slots, skip rather than abort
		}
		forecasts = append(forecasts, f)
	}
	for _, entry := range wx.MRF {
		f, err := parseEntry(entry, locationName, false)
		if err != nil {
			continue
		}
		forecasts = append(forecasts, f)
	}

	if len(forecasts) == 0 {
		return domain.WeatherForecastCollection{}, domain.NewPipelineError("weather_fetch", domain.KindNoForecastData, "no forecast slots parsed", nil)
	}

	return domain.WeatherForecastCollection{LocationName: locationName, Forecasts: forecasts, GeneratedAt: domain.Now()}, nil
}

func parseEntry(data rawForecastEntry, locationName string, hourly bool) (domain.WeatherForecast, error) {
	dt, err := parseWxTechTime(data.Date)
	if err != nil {
		return domain.WeatherForecast{}, fmt.Errorf("parse forecast date %q: %w", data.Date, err)
	}

	var temperature float64
	switch {
	case hourly && data.Temp != nil:
		temperature = *data.Temp
	case !hourly && data.MaxTemp != nil:
		temperature = *data.MaxTemp
	case data.Temp != nil:
		temperature = *data.Temp
	}

	windIdx := 0
	if data.WndDir != nil {
		windIdx = *data.WndDir
	}
	windDir, windDeg := domain.WindFromIndex(windIdx)

	f := domain.WeatherForecast{
		LocationName:        locationName,
		DateTime:            dt,
		Temperature:         temperature,
		WeatherCode:         data.WX,
		WeatherCondition:    ConditionForCode(data.WX),
		WeatherDescription:  DescriptionForCode(data.WX),
		Precipitation:       floatOrZero(data.Prec),
		Humidity:            floatOrZero(data.RHum),
		WindSpeed:           floatOrZero(data.WndSpd),
		WindDirection:       windDir,
		WindDirectionDegree: windDeg,
	}
	if err := f.Validate(); err != nil {
		return domain.WeatherForecast{}, err
	}
	return f, nil
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// parseWxTechTime accepts both a trailing "Z" and an explicit numeric
// offset, matching the Python client's `date_str.replace('Z', '+00:00')`
// normalisation before `datetime.fromisoformat`.
func parseWxTechTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
