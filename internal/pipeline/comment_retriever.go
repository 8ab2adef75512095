package pipeline

import (
	"github.com/sohprivate/mobile-comment-generator-go/internal/corpus"
	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

// CommentStore is the narrow contract stage 4 needs from the historical
// comment corpus, satisfied by *corpus.Store.
type CommentStore interface {
	Retrieve(seasons []string) (weather, advice []domain.PastComment)
	RetrieveAllSeasons() (weather, advice []domain.PastComment)
	Empty() bool
}

// RetrieveComments implements stage 4: load the season(s)
// relevant to the current month and pull the weather/advice pools.
func RetrieveComments(state *domain.CommentGenerationState, store CommentStore) error {
	if store.Empty() {
		return domain.NewPipelineError("comment_retriever", domain.KindCorpusUnavailable, "historical comment corpus is empty", nil)
	}

	month := int(state.TargetDateTime.Month())
	state.CurrentSeason = corpus.CurrentSeason(month)
	state.RelatedSeasons = corpus.RelatedSeasons(month)

	weather, advice := store.Retrieve(state.RelatedSeasons)
	state.WeatherPool = weather
	state.AdvicePool = advice
	return nil
}

// WidenToAllSeasons implements the cross-season fallback widening used
// for recovery when the seasonal pool yields no valid candidate.
func WidenToAllSeasons(state *domain.CommentGenerationState, store CommentStore) {
	weather, advice := store.RetrieveAllSeasons()
	state.WeatherPool = weather
	state.AdvicePool = advice
	state.WidenedToAllSeasons = true
}
