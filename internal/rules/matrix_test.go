package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	m, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), m)
}

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), m)
}

func TestLoad_PartialOverrideBackfillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
heatstroke_ceiling_c: 35
`), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 35.0, m.HeatstrokeCeilingC)
	assert.Equal(t, Default().WeatherAxis, m.WeatherAxis)
	assert.NotEmpty(t, m.RainBreakWords)
}

func TestLoad_MalformedYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestTemperatureBucketFor(t *testing.T) {
	cases := []struct {
		temp float64
		want TemperatureBucket
	}{
		{38, BucketExtremeHot},
		{37, BucketExtremeHot},
		{35, BucketVeryHot},
		{34, BucketVeryHot},
		{30, BucketModerateWarm},
		{25, BucketModerateWarm},
		{20, BucketMild},
		{12, BucketMild},
		{5, BucketCold},
		{-10, BucketCold},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TemperatureBucketFor(c.temp), "temp=%v", c.temp)
	}
}

func TestLoad_PartialOverrideBackfillsDuplicateDetectionFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
duplicate_jaccard_threshold: 0.9
`), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.9, m.DuplicateJaccardThreshold)
	assert.Equal(t, Default().DuplicateCriticalKeywords, m.DuplicateCriticalKeywords)
	assert.Equal(t, Default().DuplicateShortLengthRunes, m.DuplicateShortLengthRunes)
}

func TestDefault_RequiredKeywordsNonEmpty(t *testing.T) {
	d := Default()
	assert.NotEmpty(t, d.RequiredHeavyRain.WeatherComment)
	assert.NotEmpty(t, d.RequiredHeavyRain.Advice)
	assert.NotEmpty(t, d.RequiredStorm.WeatherComment)
	assert.NotEmpty(t, d.RequiredStorm.Advice)
}
