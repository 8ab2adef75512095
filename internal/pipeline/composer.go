package pipeline

import (
	"strings"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

// fullWidthSpace is the U+3000 ideographic space joiner used as the
// composer's separator.
const fullWidthSpace = "　"

// safetyRequiredSubstrings is the per-condition "required substrings in
// advice (any)" table.
var safetyRequiredSubstrings = map[domain.WeatherCondition][]string{
	domain.ConditionThunder:     {"雷", "屋内", "危険", "注意"},
	domain.ConditionFog:         {"霧", "視界", "運転", "注意"},
	domain.ConditionStorm:       {"嵐", "暴風", "強風", "危険"},
	domain.ConditionSevereStorm: {"嵐", "暴風", "強風", "危険"},
	domain.ConditionHeavyRain:   {"大雨", "洪水", "冠水", "危険"},
}

// safetyRepairSuffix is the append-on-failure repair for each condition
// row above.
var safetyRepairSuffix = map[domain.WeatherCondition]string{
	domain.ConditionThunder:     "（雷注意・屋内へ）",
	domain.ConditionFog:         "（視界注意）",
	domain.ConditionStorm:       "（強風危険・外出注意）",
	domain.ConditionSevereStorm: "（強風危険・外出注意）",
	domain.ConditionHeavyRain:   "（大雨・冠水注意）",
}

// rainyMismatchWords are the words that contradict rainy weather when
// found in the advice half.
var rainyMismatchWords = []string{"熱中症", "暑い", "ムシムシ", "花粉", "日焼け", "紫外線", "散歩", "ピクニック", "外遊び"}

// rainMismatchSubstitutions is the substitution table applied to the
// weather half when it itself carries a rain-contradicting keyword.
// Substitution is plain substring replacement; word boundaries are not
// checked.
var rainMismatchSubstitutions = []struct{ from, to string }{
	{"熱中症", "雨模様"},
	{"暑い", "涼しい"},
	{"ムシムシ", "しっとり"},
	{"花粉", "雨"},
}

const rainyMismatchSuffix = "（雨天のため）"

// Composer joins the selected pair into one composite comment and applies
// the final safety layer.
type Composer struct{}

// NewComposer constructs a Composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Compose returns the final comment text and the list of repair labels
// applied, for CommentGenerationState.SafetyApplied.
func (c *Composer) Compose(pair domain.CommentPair, forecast domain.WeatherForecast) (string, []string) {
	weatherText := pair.WeatherComment.CommentText
	adviceText := pair.AdviceComment.CommentText
	var applied []string

	if required, ok := safetyRequiredSubstrings[forecast.WeatherCondition]; ok {
		if _, found := containsAnyFold(adviceText, required); !found {
			adviceText += safetyRepairSuffix[forecast.WeatherCondition]
			applied = append(applied, string(forecast.WeatherCondition)+"_repair")
		}
	}

	if isRainyCondition(forecast.WeatherCondition) {
		repaired := false
		if _, found := containsAnyFold(weatherText, rainyMismatchWords); found {
			weatherText = applyRainMismatchSubstitutions(weatherText)
			repaired = true
		}
		if _, found := containsAnyFold(adviceText, rainyMismatchWords); found {
			adviceText += rainyMismatchSuffix
			repaired = true
		}
		if repaired {
			applied = append(applied, "rainy_mismatch_repair")
		}
	}

	return weatherText + fullWidthSpace + adviceText, applied
}

func applyRainMismatchSubstitutions(text string) string {
	for _, sub := range rainMismatchSubstitutions {
		text = strings.ReplaceAll(text, sub.from, sub.to)
	}
	return text
}
