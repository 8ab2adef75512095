package pipeline

import (
	"strings"
	"time"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

const maxLocationNameLength = 100

// NormaliseInput implements stage 1: validate and resolve the
// requested location, defaulting the target time to now + forecastHoursAhead
// when none is supplied.
func NormaliseInput(state *domain.CommentGenerationState, lookup *domain.LocationLookup, requestedTime *time.Time, forecastHoursAhead int) error {
	name := strings.TrimSpace(state.RequestedLocationName)
	if name == "" {
		return domain.NewPipelineError("input_normaliser", domain.KindInvalidInput, "location name is empty", nil)
	}
	if len([]rune(name)) > maxLocationNameLength {
		return domain.NewPipelineError("input_normaliser", domain.KindInvalidInput, "location name exceeds maximum length", nil)
	}

	loc, resolved := lookup.Resolve(name)
	state.Location = loc
	if !resolved {
		state.AddWarning("location \"" + name + "\" not found in lookup; using default coordinates")
	}

	if requestedTime != nil {
		if requestedTime.IsZero() {
			return domain.NewPipelineError("input_normaliser", domain.KindInvalidInput, "target datetime is malformed", nil)
		}
		state.TargetDateTime = *requestedTime
	} else {
		state.TargetDateTime = domain.Now().Add(time.Duration(forecastHoursAhead) * time.Hour)
	}
	return nil
}
