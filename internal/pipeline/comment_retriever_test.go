package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

type fakeCommentStore struct {
	empty           bool
	seasonWeather   []domain.PastComment
	seasonAdvice    []domain.PastComment
	allWeather      []domain.PastComment
	allAdvice       []domain.PastComment
	retrievedWith   []string
}

func (f *fakeCommentStore) Retrieve(seasons []string) (weather, advice []domain.PastComment) {
	f.retrievedWith = seasons
	return f.seasonWeather, f.seasonAdvice
}

func (f *fakeCommentStore) RetrieveAllSeasons() (weather, advice []domain.PastComment) {
	return f.allWeather, f.allAdvice
}

func (f *fakeCommentStore) Empty() bool {
	return f.empty
}

func TestRetrieveComments_ErrorsWhenCorpusEmpty(t *testing.T) {
	store := &fakeCommentStore{empty: true}
	state := domain.NewCommentGenerationState("那覇市")
	state.TargetDateTime = time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	err := RetrieveComments(state, store)
	require.Error(t, err)
	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindCorpusUnavailable, kind)
}

func TestRetrieveComments_PopulatesPoolsAndSeasons(t *testing.T) {
	store := &fakeCommentStore{
		seasonWeather: []domain.PastComment{{CommentText: "夏空が広がります"}},
		seasonAdvice:  []domain.PastComment{{CommentText: "熱中症に注意"}},
	}
	state := domain.NewCommentGenerationState("那覇市")
	state.TargetDateTime = time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	err := RetrieveComments(state, store)
	require.NoError(t, err)
	assert.NotEmpty(t, state.RelatedSeasons)
	assert.Equal(t, store.seasonWeather, state.WeatherPool)
	assert.Equal(t, store.seasonAdvice, state.AdvicePool)
}

func TestWidenToAllSeasons_SetsFlagAndAllSeasonPools(t *testing.T) {
	store := &fakeCommentStore{
		allWeather: []domain.PastComment{{CommentText: "全季節の天気コメント"}},
		allAdvice:  []domain.PastComment{{CommentText: "全季節のアドバイス"}},
	}
	state := domain.NewCommentGenerationState("那覇市")

	WidenToAllSeasons(state, store)
	assert.True(t, state.WidenedToAllSeasons)
	assert.Equal(t, store.allWeather, state.WeatherPool)
	assert.Equal(t, store.allAdvice, state.AdvicePool)
}
