package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, []string{"Netflix", "YouTube", "Twitch"}, cfg.Platforms)
	assert.Equal(t, 0, cfg.CurrentPlatformIndex)
	assert.Equal(t, "rgba(0,0,0,0.5)", cfg.BackgroundColor)
	assert.Equal(t, float64(32), cfg.FontSizeEpisode)
	assert.Equal(t, float64(24), cfg.FontSizeSeries)
	assert.Equal(t, "rgba(0,123,255,1)", cfg.ProgressBarFilledColor)
}

func TestMerge_PartialUpdate(t *testing.T) {
	cur := Defaults()
	merged := Merge(cur, map[string]any{
		"platforms":            []any{"A", "B"},
		"currentPlatformIndex": float64(1),
		"backgroundColor":      "#112233",
	})

	assert.Equal(t, []string{"A", "B"}, merged.Platforms)
	assert.Equal(t, 1, merged.CurrentPlatformIndex)
	assert.Equal(t, "#112233", merged.BackgroundColor)
	// Untouched fields survive the merge.
	assert.Equal(t, cur.FontColorEpisode, merged.FontColorEpisode)
	// The input config is not mutated.
	assert.Equal(t, []string{"Netflix", "YouTube", "Twitch"}, cur.Platforms)
}

func TestMerge_ClampsIndexToNearestBound(t *testing.T) {
	merged := Merge(Defaults(), map[string]any{
		"platforms":            []any{"A", "B", "C"},
		"currentPlatformIndex": float64(99),
	})
	assert.Equal(t, 2, merged.CurrentPlatformIndex)

	merged = Merge(Defaults(), map[string]any{"currentPlatformIndex": float64(-4)})
	assert.Equal(t, 0, merged.CurrentPlatformIndex)
}

func TestMerge_WrongTypesIgnored(t *testing.T) {
	cur := Defaults()
	merged := Merge(cur, map[string]any{
		"backgroundColor": float64(42),
		"fontSizeEpisode": "huge",
		"platforms":       "not-a-list",
	})

	assert.Equal(t, cur.BackgroundColor, merged.BackgroundColor)
	assert.Equal(t, cur.FontSizeEpisode, merged.FontSizeEpisode)
	assert.Equal(t, cur.Platforms, merged.Platforms)
}

func TestMerge_EmptyPlatformsRejected(t *testing.T) {
	cur := Defaults()
	merged := Merge(cur, map[string]any{"platforms": []any{}})
	assert.Equal(t, cur.Platforms, merged.Platforms)
}

func TestSanitize_IndexResetsToZero(t *testing.T) {
	cfg := Defaults()
	cfg.Platforms = []string{"A", "B", "C"}
	cfg.CurrentPlatformIndex = 99
	sanitize(&cfg)
	assert.Equal(t, 0, cfg.CurrentPlatformIndex)
}

func TestSanitize_EmptyPlatforms(t *testing.T) {
	cfg := Defaults()
	cfg.Platforms = nil
	cfg.CurrentPlatformIndex = 2
	sanitize(&cfg)
	assert.Equal(t, []string{"Default"}, cfg.Platforms)
	assert.Equal(t, 0, cfg.CurrentPlatformIndex)
}
