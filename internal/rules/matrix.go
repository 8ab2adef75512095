// Package rules holds the forbidden/required-keyword matrix that drives
// the candidate validator. The matrix is data, not code: it
// is loaded from a YAML document so operators can tune wording without a
// rebuild, with an embedded default used when no file is configured or the
// configured path is missing.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PrecipitationBucket mirrors domain.PrecipitationSeverity's string form so
// the YAML document doesn't need to import the domain package's Go enum.
type PrecipitationBucket string

const (
	BucketLight     PrecipitationBucket = "light"
	BucketModerate  PrecipitationBucket = "moderate"
	BucketHeavy     PrecipitationBucket = "heavy"
	BucketVeryHeavy PrecipitationBucket = "very_heavy"
)

// TemperatureBucket names the five buckets of the temperature axis.
type TemperatureBucket string

const (
	BucketExtremeHot  TemperatureBucket = "extreme_hot"
	BucketVeryHot     TemperatureBucket = "very_hot"
	BucketModerateWarm TemperatureBucket = "moderate_warm"
	BucketMild        TemperatureBucket = "mild"
	BucketCold        TemperatureBucket = "cold"
)

// WeatherWordList is the per-comment-type forbidden list for one weather
// axis key ({rain, heavy_rain, sunny, cloudy, thunder, snow}).
type WeatherWordList struct {
	WeatherComment []string `yaml:"weather_comment"`
	Advice         []string `yaml:"advice"`
}

// RequiredKeywords names the "must contain at least one of" lists
// defined for HEAVY_RAIN and STORM weather comments.
type RequiredKeywords struct {
	WeatherComment []string `yaml:"weather_comment"`
	Advice         []string `yaml:"advice"`
}

// Matrix is the complete validator configuration. Every
// field is data consulted by the validator; none of it is hard-coded in
// Go source.
type Matrix struct {
	WeatherAxis map[string]WeatherWordList `yaml:"weather_axis"`

	ThunderBelowThreshold []string `yaml:"thunder_below_threshold"`

	TemperatureAxis      map[TemperatureBucket][]string `yaml:"temperature_axis"`
	HeatstrokeWords       []string                       `yaml:"heatstroke_words"`
	HeatstrokeCeilingC    float64                        `yaml:"heatstroke_ceiling_c"`

	HumidityHighWords []string `yaml:"humidity_high_words"` // >=80%
	HumidityLowWords  []string `yaml:"humidity_low_words"`  // <30%

	OkinawaForbidden  []string `yaml:"okinawa_forbidden"`
	HokkaidoForbidden []string `yaml:"hokkaido_forbidden"`

	RequiredHeavyRain RequiredKeywords `yaml:"required_heavy_rain"`
	RequiredStorm     RequiredKeywords `yaml:"required_storm"`

	RainBreakWords []string `yaml:"rain_break_words"`

	// Duplicate-content heuristics applied by the pair selector's
	// post-validation step.
	DuplicateCriticalKeywords []string `yaml:"duplicate_critical_keywords"`
	DuplicateJaccardThreshold float64  `yaml:"duplicate_jaccard_threshold"`
	DuplicateShortLengthRunes int      `yaml:"duplicate_short_length_runes"`
}

// Load reads a Matrix from a YAML file at path. If path is empty or the
// file does not exist, Load returns Default() rather than an error — the
// validator must keep working with sane defaults when no override is
// deployed.
func Load(path string) (*Matrix, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("rules: read %s: %w", path, err)
	}
	m := &Matrix{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("rules: parse %s: %w", path, err)
	}
	m.fillMissingWithDefaults()
	return m, nil
}

// fillMissingWithDefaults backfills any axis the loaded document left
// empty, so a partial override file (e.g. one that only tunes the
// temperature axis) doesn't silently disable the rest of the validator.
func (m *Matrix) fillMissingWithDefaults() {
	d := Default()
	if len(m.WeatherAxis) == 0 {
		m.WeatherAxis = d.WeatherAxis
	}
	if len(m.ThunderBelowThreshold) == 0 {
		m.ThunderBelowThreshold = d.ThunderBelowThreshold
	}
	if len(m.TemperatureAxis) == 0 {
		m.TemperatureAxis = d.TemperatureAxis
	}
	if len(m.HeatstrokeWords) == 0 {
		m.HeatstrokeWords = d.HeatstrokeWords
	}
	if m.HeatstrokeCeilingC == 0 {
		m.HeatstrokeCeilingC = d.HeatstrokeCeilingC
	}
	if len(m.HumidityHighWords) == 0 {
		m.HumidityHighWords = d.HumidityHighWords
	}
	if len(m.HumidityLowWords) == 0 {
		m.HumidityLowWords = d.HumidityLowWords
	}
	if len(m.OkinawaForbidden) == 0 {
		m.OkinawaForbidden = d.OkinawaForbidden
	}
	if len(m.HokkaidoForbidden) == 0 {
		m.HokkaidoForbidden = d.HokkaidoForbidden
	}
	if len(m.RequiredHeavyRain.WeatherComment) == 0 {
		m.RequiredHeavyRain = d.RequiredHeavyRain
	}
	if len(m.RequiredStorm.WeatherComment) == 0 {
		m.RequiredStorm = d.RequiredStorm
	}
	if len(m.RainBreakWords) == 0 {
		m.RainBreakWords = d.RainBreakWords
	}
	if len(m.DuplicateCriticalKeywords) == 0 {
		m.DuplicateCriticalKeywords = d.DuplicateCriticalKeywords
	}
	if m.DuplicateJaccardThreshold == 0 {
		m.DuplicateJaccardThreshold = d.DuplicateJaccardThreshold
	}
	if m.DuplicateShortLengthRunes == 0 {
		m.DuplicateShortLengthRunes = d.DuplicateShortLengthRunes
	}
}

// Default returns the built-in keyword matrix.
func Default() *Matrix {
	return &Matrix{
		WeatherAxis: map[string]WeatherWordList{
			"rain": {
				WeatherComment: []string{"晴れ", "快晴", "日差し", "乾燥"},
				Advice:         []string{"日焼け止め", "紫外線対策", "水分補給はほどほどに"},
			},
			"heavy_rain": {
				WeatherComment: []string{"晴れ", "快晴", "穏やか", "小康"},
				Advice:         []string{"日傘", "日焼け止め", "洗濯日和"},
			},
			"sunny": {
				WeatherComment: []string{"雨", "傘", "濡れ", "大荒れ"},
				Advice:         []string{"雨具", "濡れないよう"},
			},
			"cloudy": {
				WeatherComment: []string{"快晴", "強い日差し"},
				Advice:         []string{"強い紫外線対策"},
			},
			"thunder": {
				WeatherComment: []string{"穏やか", "晴れ間"},
				Advice:         []string{"洗濯日和", "外出日和"},
			},
			"snow": {
				WeatherComment: []string{"真夏日", "猛暑", "熱中症"},
				Advice:         []string{"熱中症対策", "日焼け止め"},
			},
		},
		ThunderBelowThreshold: []string{"激しい", "警戒", "危険", "大荒れ", "本格的", "強雨"},

		TemperatureAxis: map[TemperatureBucket][]string{
			BucketExtremeHot:   {"防寒", "厚着", "暖かい服装", "凍える"},
			BucketVeryHot:      {"防寒", "厚着", "凍える"},
			BucketModerateWarm: {"真冬日", "凍える", "厚着してください"},
			BucketMild:         {"猛暑", "酷暑"},
			BucketCold:         {"熱中症", "冷房", "薄着"},
		},
		HeatstrokeWords:    []string{"熱中症"},
		HeatstrokeCeilingC: 32,

		HumidityHighWords: []string{"乾燥注意", "乾燥対策", "乾燥しやすい"},
		HumidityLowWords:  []string{"除湿", "蒸し暑い", "ジメジメ"},

		OkinawaForbidden:  []string{"雪", "積雪", "防寒着必須", "凍結注意"},
		HokkaidoForbidden: []string{"猛暑日", "酷暑", "熱帯夜"},

		RequiredHeavyRain: RequiredKeywords{
			WeatherComment: []string{"注意", "警戒", "危険", "荒れ", "激しい", "強い", "本格的"},
			Advice:         []string{"傘", "雨具", "安全", "注意", "室内", "控え", "警戒", "備え", "準備"},
		},
		RequiredStorm: RequiredKeywords{
			WeatherComment: []string{"注意", "警戒", "危険", "荒れ", "激しい", "強い", "暴風"},
			Advice:         []string{"安全", "注意", "室内", "控え", "警戒", "備え", "外出を避け"},
		},

		RainBreakWords: []string{
			"中休み", "晴れ間", "回復", "一時的な晴れ", "梅雨の中休み", "梅雨明け",
			"からっと", "さっぽり", "乾燥", "湿度低下", "晴天", "好天", "快晴の", "青空が",
		},

		DuplicateCriticalKeywords: []string{"にわか雨", "熱中症", "紫外線", "雷", "強風", "大雨", "猛暑", "酷暑"},
		DuplicateJaccardThreshold: 0.7,
		DuplicateShortLengthRunes: 10,
	}
}

// TemperatureBucketFor classifies a temperature into one of the five axis
// buckets.
func TemperatureBucketFor(tempC float64) TemperatureBucket {
	switch {
	case tempC >= 37:
		return BucketExtremeHot
	case tempC >= 34:
		return BucketVeryHot
	case tempC >= 25:
		return BucketModerateWarm
	case tempC >= 12:
		return BucketMild
	default:
		return BucketCold
	}
}
