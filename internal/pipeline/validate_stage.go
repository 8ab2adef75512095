package pipeline

import (
	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

// ApplyValidation implements stage 5: filter
// state.WeatherPool/AdvicePool down to candidates the validator accepts
// against the selected forecast, logging every rejection for
// state.RejectionLog.
func ApplyValidation(state *domain.CommentGenerationState, validator *Validator) error {
	state.FilteredWeatherPool = filterValid(state.WeatherPool, state.SelectedForecast, state.Location, validator, state)
	state.FilteredAdvicePool = filterValid(state.AdvicePool, state.SelectedForecast, state.Location, validator, state)

	if len(state.FilteredWeatherPool) == 0 || len(state.FilteredAdvicePool) == 0 {
		return domain.NewPipelineError("validator", domain.KindNoValidCandidate, "validator rejected every candidate in at least one pool", nil)
	}
	return nil
}

func filterValid(pool []domain.PastComment, forecast domain.WeatherForecast, location domain.Location, validator *Validator, state *domain.CommentGenerationState) []domain.PastComment {
	var out []domain.PastComment
	for _, c := range pool {
		if ok, reason := validator.Validate(c, forecast, location); ok {
			out = append(out, c)
		} else {
			state.RejectionLog = append(state.RejectionLog, domain.ValidationRejection{
				CommentText: c.CommentText,
				CommentType: c.CommentType,
				Reason:      reason,
			})
		}
	}
	return out
}
