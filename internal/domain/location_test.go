package domain_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohprivate/mobile-comment-generator-go/internal/domain"
)

func TestLocationLookup_ResolvesKnownName(t *testing.T) {
	lookup := domain.NewLocationLookup(map[string]domain.Location{
		"那覇市": {Latitude: 26.2, Longitude: 127.7},
	}, domain.Location{Latitude: 35.6, Longitude: 139.7})

	loc, ok := lookup.Resolve("那覇市")
	require.True(t, ok)
	assert.True(t, loc.Resolved)
	assert.Equal(t, 26.2, loc.Latitude)
}

func TestLocationLookup_FallsBackToDefaultForUnknownName(t *testing.T) {
	lookup := domain.NewLocationLookup(map[string]domain.Location{
		"那覇市": {Latitude: 26.2, Longitude: 127.7},
	}, domain.Location{Latitude: 35.6, Longitude: 139.7})

	loc, ok := lookup.Resolve("未知の町")
	require.False(t, ok)
	assert.False(t, loc.Resolved)
	assert.Equal(t, 35.6, loc.Latitude)
	assert.Equal(t, "未知の町", loc.Name)
}

func TestLocationLookup_NormalizesWhitespaceBeforeLookup(t *testing.T) {
	lookup := domain.NewLocationLookup(map[string]domain.Location{
		"那覇市": {Latitude: 26.2, Longitude: 127.7},
	}, domain.Location{})

	loc, ok := lookup.Resolve("　那覇市 ")
	require.True(t, ok)
	assert.Equal(t, 26.2, loc.Latitude)
}

func TestLocation_RegionFamilyMatching(t *testing.T) {
	assert.True(t, domain.Location{NormalizedName: "那覇市"}.IsOkinawaFamily())
	assert.True(t, domain.Location{NormalizedName: "札幌市"}.IsHokkaidoFamily())
	assert.False(t, domain.Location{NormalizedName: "東京都"}.IsOkinawaFamily())
	assert.False(t, domain.Location{NormalizedName: "東京都"}.IsHokkaidoFamily())
}

func TestLoadLocationsCSV_MissingFileReturnsEmptyMap(t *testing.T) {
	entries, err := domain.LoadLocationsCSV(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadLocationsCSV_ParsesNameCoordinatesAndRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.csv")
	content := "name,latitude,longitude,region,prefecture\n那覇市,26.2124,127.6809,沖縄,沖縄県\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	entries, err := domain.LoadLocationsCSV(path)
	require.NoError(t, err)
	require.Contains(t, entries, "那覇市")
	loc := entries["那覇市"]
	assert.InDelta(t, 26.2124, loc.Latitude, 0.0001)
	assert.InDelta(t, 127.6809, loc.Longitude, 0.0001)
	assert.Equal(t, "沖縄", loc.Region)
	assert.Equal(t, "沖縄県", loc.Prefecture)
}

func TestLoadLocationsCSV_SkipsRowWithEmptyName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.csv")
	content := "name,latitude,longitude\n,26.2,127.7\n東京都,35.6,139.7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	entries, err := domain.LoadLocationsCSV(path)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Contains(t, entries, "東京都")
}
