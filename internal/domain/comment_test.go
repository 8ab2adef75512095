package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

func float64p(v float64) *float64 { return &v }

func TestPastComment_Validate(t *testing.T) {
	valid := domain.PastComment{CommentText: "晴れています", Temperature: float64p(20), Humidity: float64p(50)}
	assert.NoError(t, valid.Validate())

	empty := valid
	empty.CommentText = ""
	assert.ErrorIs(t, empty.Validate(), domain.ErrEmptyComment)

	badTemp := valid
	badTemp.Temperature = float64p(61)
	assert.ErrorIs(t, badTemp.Validate(), domain.ErrInvalidForecast)

	badHumidity := valid
	badHumidity.Humidity = float64p(-1)
	assert.ErrorIs(t, badHumidity.Validate(), domain.ErrInvalidForecast)
}

func TestPastComment_Validate_NilOptionalFieldsSkipped(t *testing.T) {
	c := domain.PastComment{CommentText: "晴れています"}
	assert.NoError(t, c.Validate())
}

func TestCommentPair_Validate(t *testing.T) {
	weather := domain.PastComment{CommentText: "晴れ", CommentType: domain.CommentTypeWeather}
	advice := domain.PastComment{CommentText: "日焼け止めを", CommentType: domain.CommentTypeAdvice}

	valid := domain.CommentPair{WeatherComment: weather, AdviceComment: advice}
	assert.NoError(t, valid.Validate())

	swapped := domain.CommentPair{WeatherComment: advice, AdviceComment: weather}
	assert.ErrorIs(t, swapped.Validate(), domain.ErrInvalidPair)

	wrongAdviceType := domain.CommentPair{WeatherComment: weather, AdviceComment: weather}
	assert.ErrorIs(t, wrongAdviceType.Validate(), domain.ErrInvalidPair)
}
