package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sohprivate/mobile-comment-generator-go/internal/rules"
)

func TestIsDuplicateContent_IdenticalStrings(t *testing.T) {
	assert.True(t, IsDuplicateContent("晴れ間が広がります", "晴れ間が広がります", rules.Default()))
}

func TestIsDuplicateContent_SharedCriticalKeyword(t *testing.T) {
	assert.True(t, IsDuplicateContent("大雨に警戒してください", "大雨の影響で交通機関が乱れます", rules.Default()))
}

func TestIsDuplicateContent_PatternPair(t *testing.T) {
	assert.True(t, IsDuplicateContent("雨が心配な一日です", "雨に注意して過ごしましょう", rules.Default()))
}

func TestIsDuplicateContent_ShortAndSimilar(t *testing.T) {
	assert.True(t, IsDuplicateContent("晴れて暑い", "晴れて暑いね", rules.Default()))
}

func TestIsDuplicateContent_DistinctContent(t *testing.T) {
	assert.False(t, IsDuplicateContent("今日は爽やかな晴天です", "日焼け止めを忘れずに塗りましょう", rules.Default()))
}

func TestIsDuplicateContent_CustomMatrixThresholdsApply(t *testing.T) {
	strict := rules.Default()
	strict.DuplicateShortLengthRunes = 2
	assert.False(t, IsDuplicateContent("晴れて暑い", "晴れて暑いね", strict), "short-text rule no longer applies once the length cap is below both strings")
}

func TestJaccardChars(t *testing.T) {
	assert.Equal(t, 0.0, jaccardChars("", ""))
	assert.Greater(t, jaccardChars("abc", "abcd"), 0.5)
}
