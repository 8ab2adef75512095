package weatherprovider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

func TestConditionForCode(t *testing.T) {
	assert.Equal(t, domain.ConditionClear, ConditionForCode("101"))
	assert.Equal(t, domain.ConditionHeavyRain, ConditionForCode("302"))
	assert.Equal(t, domain.ConditionSevereStorm, ConditionForCode("501"))
	assert.Equal(t, domain.ConditionUnknown, ConditionForCode("999"))
}

func TestDescriptionForCode(t *testing.T) {
	assert.Equal(t, "快晴", DescriptionForCode("101"))
	assert.Equal(t, "不明", DescriptionForCode("999"))
}

func TestParseForecastResponse_HourlyAndDaily(t *testing.T) {
	temp := 24.5
	prec := 0.5
	rhum := 60.0
	wndspd := 3.2
	wnddir := 3

	raw := rawResponse{
		WxData: []rawWxData{
			{
				SRF: []rawForecastEntry{
					{Date: "2026-07-30T09:00:00Z", WX: "100", Temp: &temp, Prec: &prec, RHum: &rhum, WndSpd: &wndspd, WndDir: &wnddir},
				},
				MRF: []rawForecastEntry{
					{Date: "2026-07-31T00:00:00Z", WX: "300", MaxTemp: &temp},
				},
			},
		},
	}

	coll, err := parseForecastResponse(raw, "那覇市")
	require.NoError(t, err)
	require.Len(t, coll.Forecasts, 2)

	hourly := coll.Forecasts[0]
	assert.Equal(t, domain.ConditionClear, hourly.WeatherCondition)
	assert.Equal(t, 24.5, hourly.Temperature)
	assert.Equal(t, domain.WindEast, hourly.WindDirection)
	assert.Equal(t, 90.0, hourly.WindDirectionDegree)

	daily := coll.Forecasts[1]
	assert.Equal(t, domain.ConditionRain, daily.WeatherCondition)
	assert.Equal(t, 24.5, daily.Temperature)
}

func TestParseForecastResponse_MissingFieldsDefaultToZero(t *testing.T) {
	raw := rawResponse{
		WxData: []rawWxData{
			{SRF: []rawForecastEntry{{Date: "2026-07-30T09:00:00Z", WX: "100"}}},
		},
	}
	coll, err := parseForecastResponse(raw, "東京都")
	require.NoError(t, err)
	require.Len(t, coll.Forecasts, 1)
	f := coll.Forecasts[0]
	assert.Equal(t, 0.0, f.Precipitation)
	assert.Equal(t, 0.0, f.Humidity)
	assert.Equal(t, 0.0, f.WindSpeed)
	assert.Equal(t, domain.WindCalm, f.WindDirection)
}

func TestParseForecastResponse_EmptyWxDataErrors(t *testing.T) {
	_, err := parseForecastResponse(rawResponse{}, "x")
	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindNoForecastData, kind)
}

func TestParseForecastResponse_MalformedSlotSkipped(t *testing.T) {
	raw := rawResponse{
		WxData: []rawWxData{
			{SRF: []rawForecastEntry{
				{Date: "not-a-date", WX: "100"},
				{Date: "2026-07-30T09:00:00Z", WX: "100"},
			}},
		},
	}
	coll, err := parseForecastResponse(raw, "x")
	require.NoError(t, err)
	assert.Len(t, coll.Forecasts, 1)
}
