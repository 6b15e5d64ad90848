package ai

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallbacksEmptyPath(t *testing.T) {
	fb, err := LoadFallbacks("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFallbacks(), fb)
}

func TestLoadFallbacksMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallbacks.yaml")
	data := `
ad_copy:
  headlines:
    - Ride Further
audience:
  demographics:
    age_range: 30-45
insights:
  summary: Steady week across all channels.
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	fb, err := LoadFallbacks(path)
	require.NoError(t, err)

	def := DefaultFallbacks()
	assert.Equal(t, []string{"Ride Further"}, fb.AdCopy.Headlines)
	assert.Equal(t, def.AdCopy.Descriptions, fb.AdCopy.Descriptions)
	assert.Equal(t, "30-45", fb.Audience.Demographics.AgeRange)
	assert.Equal(t, def.Audience.Demographics.Gender, fb.Audience.Demographics.Gender)
	assert.Equal(t, "Steady week across all channels.", fb.Insights.Summary)
	assert.Equal(t, def.Insights.Alerts, fb.Insights.Alerts)
	assert.Equal(t, def.Forecast, fb.Forecast)
}

func TestLoadFallbacksErrors(t *testing.T) {
	_, err := LoadFallbacks(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ad_copy: [unterminated"), 0o600))
	_, err = LoadFallbacks(path)
	assert.Error(t, err)
}

func TestDefaultFallbacksRespectCaps(t *testing.T) {
	fb := DefaultFallbacks()
	assert.Len(t, fb.AdCopy.Headlines, maxHeadlines)
	assert.Len(t, fb.AdCopy.Descriptions, maxDescriptions)
	assert.Len(t, fb.AdCopy.CallsToAction, maxCallsToAction)
	assert.Len(t, fb.Audience.Interests, maxInterests)
	assert.Len(t, fb.Audience.Behaviors, maxBehaviors)
}

func TestLoadFallbacksTruncatesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallbacks.yaml")
	data := `
ad_copy:
  headlines: [h1, h2, h3, h4, h5, h6, h7, h8]
  descriptions: [d1, d2, d3, d4, d5]
audience:
  interests: [i1, i2, i3, i4, i5, i6, i7, i8, i9, i10]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	fb, err := LoadFallbacks(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2", "h3", "h4", "h5"}, fb.AdCopy.Headlines)
	assert.Len(t, fb.AdCopy.Descriptions, maxDescriptions)
	assert.Len(t, fb.Audience.Interests, maxInterests)

	copyOut := ParseAdCopy("nothing to see", fb.AdCopy)
	assert.Equal(t, TierFallback, copyOut.Tier)
	assert.Len(t, copyOut.Data.Headlines, maxHeadlines)
	assert.Len(t, copyOut.Data.Descriptions, maxDescriptions)

	audOut := ParseAudience("nothing to see", fb.Audience)
	assert.Equal(t, TierFallback, audOut.Tier)
	assert.Len(t, audOut.Data.Interests, maxInterests)
}

func TestFallbackCapsApplyToProgrammaticOverrides(t *testing.T) {
	fb := DefaultFallbacks().AdCopy
	fb.Headlines = []string{"a", "b", "c", "d", "e", "f", "g"}

	out := ParseAdCopy("no structure here", fb)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, out.Data.Headlines)
}

func TestFallbackResultsDoNotShareDefaults(t *testing.T) {
	g := DefaultFallbacks()
	out := ParseAdCopy("nothing", g.AdCopy)
	out.Data.Headlines[0] = "changed"
	assert.NotEqual(t, "changed", g.AdCopy.Headlines[0])
}
