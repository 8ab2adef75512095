package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

func pairOf(weather, advice string) domain.CommentPair {
	return domain.CommentPair{
		WeatherComment: domain.PastComment{CommentText: weather, CommentType: domain.CommentTypeWeather},
		AdviceComment:  domain.PastComment{CommentText: advice, CommentType: domain.CommentTypeAdvice},
	}
}

func TestComposer_JoinsWithFullWidthSpace(t *testing.T) {
	c := NewComposer()
	text, applied := c.Compose(pairOf("今日は晴れです", "日焼け止めをどうぞ"), domain.WeatherForecast{WeatherCondition: domain.ConditionClear})
	assert.Equal(t, "今日は晴れです　日焼け止めをどうぞ", text)
	assert.Empty(t, applied)
}

func TestComposer_AppliesThunderRepairWhenMissingSafetyWord(t *testing.T) {
	c := NewComposer()
	text, applied := c.Compose(pairOf("雷が鳴っています", "楽しい一日を"), domain.WeatherForecast{WeatherCondition: domain.ConditionThunder})
	assert.Contains(t, text, "（雷注意・屋内へ）")
	assert.Contains(t, applied, "THUNDER_repair")
}

func TestComposer_SkipsThunderRepairWhenSafetyWordPresent(t *testing.T) {
	c := NewComposer()
	text, applied := c.Compose(pairOf("雷が鳴っています", "屋内で安全にお過ごしください"), domain.WeatherForecast{WeatherCondition: domain.ConditionThunder})
	assert.NotContains(t, text, "（雷注意・屋内へ）")
	assert.Empty(t, applied)
}

func TestComposer_AppliesRainyMismatchSubstitution(t *testing.T) {
	c := NewComposer()
	text, applied := c.Compose(pairOf("今日は暑い一日です", "熱中症に気をつけて散歩しましょう"), domain.WeatherForecast{WeatherCondition: domain.ConditionRain})
	assert.Contains(t, text, "涼しい")
	assert.Contains(t, text, "（雨天のため）")
	assert.Contains(t, applied, "rainy_mismatch_repair")
}
