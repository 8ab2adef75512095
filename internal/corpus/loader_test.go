package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir_ReadsKnownSeasonFiles(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "summer_weather_comment_enhanced100.csv", "weather_comment,count\n蒸し暑い一日です,42\n")
	writeCSV(t, dir, "summer_advice_enhanced100.csv", "advice,count\n水分補給を忘れずに,30\n")

	s := NewStore(nil)
	require.NoError(t, s.LoadDir(dir))

	weather, advice := s.Retrieve([]string{SeasonSummer})
	require.Len(t, weather, 1)
	require.Len(t, advice, 1)
	assert.Equal(t, "蒸し暑い一日です", weather[0].CommentText)
	assert.Equal(t, 42, weather[0].UsageCount)
	assert.Equal(t, domain.CommentTypeAdvice, advice[0].CommentType)
}

func TestLoadDir_MissingFilesAreNotFatalIfSomeLoad(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "winter_weather_comment_enhanced100.csv", "weather_comment,count\n寒い朝です,10\n")

	s := NewStore(nil)
	require.NoError(t, s.LoadDir(dir))
	assert.False(t, s.Empty())
}

func TestLoadDir_NoFilesAtAllIsCorpusUnavailable(t *testing.T) {
	s := NewStore(nil)
	err := s.LoadDir(t.TempDir())
	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindCorpusUnavailable, kind)
}

func TestRetrieve_SortsByDescendingUsageCount(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "spring_weather_comment_enhanced100.csv", "weather_comment,count\n花粉が多いです,5\n桜が咲いています,50\n")

	s := NewStore(nil)
	require.NoError(t, s.LoadDir(dir))

	weather, _ := s.Retrieve([]string{SeasonSpring})
	require.Len(t, weather, 2)
	assert.Equal(t, "桜が咲いています", weather[0].CommentText)
	assert.Equal(t, "花粉が多いです", weather[1].CommentText)
}

func TestLoadNDJSON_GroupsBySeason(t *testing.T) {
	lines := strings.Join([]string{
		`{"location":"東京都","comment_text":"雨が降っています","comment_type":"WEATHER_COMMENT","season":"summer","usage_count":3}`,
		`{"location":"東京都","comment_text":"傘を持参してください","comment_type":"ADVICE","season":"summer","usage_count":7}`,
	}, "\n")

	s := NewStore(nil)
	require.NoError(t, s.LoadNDJSON(context.Background(), strings.NewReader(lines)))

	weather, advice := s.Retrieve([]string{SeasonSummer})
	require.Len(t, weather, 1)
	require.Len(t, advice, 1)
	assert.Equal(t, "雨が降っています", weather[0].CommentText)
}

func TestLoadNDJSON_EmptyStreamErrors(t *testing.T) {
	s := NewStore(nil)
	err := s.LoadNDJSON(context.Background(), strings.NewReader(""))
	require.Error(t, err)
}

func TestLoadNDJSON_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore(nil)
	err := s.LoadNDJSON(ctx, strings.NewReader(`{"comment_text":"x","comment_type":"ADVICE","season":"summer"}`+"\n"+`{"comment_text":"y"}`))
	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindCancelled, kind)
}

func TestRetrieveAllSeasons(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "winter_weather_comment_enhanced100.csv", "weather_comment,count\n雪が降っています,1\n")
	writeCSV(t, dir, "summer_weather_comment_enhanced100.csv", "weather_comment,count\n暑いです,1\n")

	s := NewStore(nil)
	require.NoError(t, s.LoadDir(dir))

	weather, _ := s.RetrieveAllSeasons()
	assert.Len(t, weather, 2)
}
