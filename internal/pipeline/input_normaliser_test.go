package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

func TestNormaliseInput_RejectsEmptyLocation(t *testing.T) {
	state := domain.NewCommentGenerationState("   ")
	lookup := domain.NewLocationLookup(nil, domain.Location{})

	err := NormaliseInput(state, lookup, nil, 12)
	require.Error(t, err)
	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindInvalidInput, kind)
}

func TestNormaliseInput_RejectsOverlongLocation(t *testing.T) {
	state := domain.NewCommentGenerationState(strings.Repeat("東", 101))
	lookup := domain.NewLocationLookup(nil, domain.Location{})

	err := NormaliseInput(state, lookup, nil, 12)
	require.Error(t, err)
	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindInvalidInput, kind)
}

func TestNormaliseInput_ResolvesKnownLocation(t *testing.T) {
	state := domain.NewCommentGenerationState("那覇市")
	lookup := domain.NewLocationLookup(map[string]domain.Location{
		"那覇市": {Latitude: 26.2, Longitude: 127.7},
	}, domain.Location{})

	err := NormaliseInput(state, lookup, nil, 12)
	require.NoError(t, err)
	assert.True(t, state.Location.Resolved)
	assert.Empty(t, state.Warnings)
}

func TestNormaliseInput_WarnsOnUnknownLocation(t *testing.T) {
	state := domain.NewCommentGenerationState("未知の町")
	lookup := domain.NewLocationLookup(nil, domain.Location{})

	err := NormaliseInput(state, lookup, nil, 12)
	require.NoError(t, err)
	assert.False(t, state.Location.Resolved)
	assert.NotEmpty(t, state.Warnings)
}

func TestNormaliseInput_UsesRequestedTimeWhenProvided(t *testing.T) {
	state := domain.NewCommentGenerationState("那覇市")
	lookup := domain.NewLocationLookup(nil, domain.Location{})
	target := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	err := NormaliseInput(state, lookup, &target, 12)
	require.NoError(t, err)
	assert.Equal(t, target, state.TargetDateTime)
}

func TestNormaliseInput_RejectsZeroRequestedTime(t *testing.T) {
	state := domain.NewCommentGenerationState("那覇市")
	lookup := domain.NewLocationLookup(nil, domain.Location{})
	var zero time.Time

	err := NormaliseInput(state, lookup, &zero, 12)
	require.Error(t, err)
}
