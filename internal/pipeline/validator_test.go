package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
	"github.com/sohprivate/mobile-comment-generator-go/internal/rules"
)

func TestValidator_RejectsSunnyWordForRainyForecast(t *testing.T) {
	v := NewValidator(rules.Default(), 5, 32)
	forecast := domain.WeatherForecast{WeatherCondition: domain.ConditionRain, Temperature: 20, Humidity: 50, Precipitation: 2}
	comment := domain.PastComment{CommentText: "今日は快晴です", CommentType: domain.CommentTypeWeather}

	ok, reason := v.Validate(comment, forecast, domain.Location{})
	assert.False(t, ok)
	assert.Contains(t, reason, "weather axis")
}

func TestValidator_AcceptsConsistentComment(t *testing.T) {
	v := NewValidator(rules.Default(), 5, 32)
	forecast := domain.WeatherForecast{WeatherCondition: domain.ConditionRain, Temperature: 20, Humidity: 50, Precipitation: 2}
	comment := domain.PastComment{CommentText: "傘を忘れずにお出かけください", CommentType: domain.CommentTypeAdvice}

	ok, _ := v.Validate(comment, forecast, domain.Location{})
	assert.True(t, ok)
}

func TestValidator_HeavyRainRequiresKeyword(t *testing.T) {
	v := NewValidator(rules.Default(), 5, 32)
	forecast := domain.WeatherForecast{WeatherCondition: domain.ConditionHeavyRain, Temperature: 20, Humidity: 50, Precipitation: 30}
	comment := domain.PastComment{CommentText: "今日は一日どんより曇り空です", CommentType: domain.CommentTypeWeather}

	ok, reason := v.Validate(comment, forecast, domain.Location{})
	assert.False(t, ok)
	assert.Contains(t, reason, "missing required keyword")
}

func TestValidator_HeavyRainPassesWithKeyword(t *testing.T) {
	v := NewValidator(rules.Default(), 5, 32)
	forecast := domain.WeatherForecast{WeatherCondition: domain.ConditionHeavyRain, Temperature: 20, Humidity: 50, Precipitation: 30}
	comment := domain.PastComment{CommentText: "大雨による強い雨に警戒してください", CommentType: domain.CommentTypeWeather}

	ok, _ := v.Validate(comment, forecast, domain.Location{})
	assert.True(t, ok)
}

func TestValidator_RainBreakWordContradictsRainyForecast(t *testing.T) {
	v := NewValidator(rules.Default(), 5, 32)
	forecast := domain.WeatherForecast{WeatherCondition: domain.ConditionRain, Temperature: 20, Humidity: 50, Precipitation: 2}
	comment := domain.PastComment{CommentText: "梅雨の中休みで過ごしやすい一日", CommentType: domain.CommentTypeWeather}

	ok, reason := v.Validate(comment, forecast, domain.Location{})
	assert.False(t, ok)
	assert.Contains(t, reason, "rainy weather forbids break-word")
}

func TestValidator_OkinawaForbidsSnowWords(t *testing.T) {
	v := NewValidator(rules.Default(), 5, 32)
	forecast := domain.WeatherForecast{WeatherCondition: domain.ConditionCloudy, Temperature: 20, Humidity: 50}
	comment := domain.PastComment{CommentText: "積雪による交通への影響に注意", CommentType: domain.CommentTypeWeather}
	okinawa := domain.Location{NormalizedName: "那覇市"}

	ok, reason := v.Validate(comment, forecast, okinawa)
	assert.False(t, ok)
	assert.Contains(t, reason, "okinawa-family")
}

func TestValidator_ThunderBelowThresholdForbidsSevereWords(t *testing.T) {
	v := NewValidator(rules.Default(), 5, 32)
	forecast := domain.WeatherForecast{WeatherCondition: domain.ConditionThunder, Temperature: 20, Humidity: 50, Precipitation: 1}
	comment := domain.PastComment{CommentText: "大荒れの天気に警戒してください", CommentType: domain.CommentTypeWeather}

	ok, reason := v.Validate(comment, forecast, domain.Location{})
	assert.False(t, ok)
	assert.Contains(t, reason, "thunder below severity threshold")
}
