// Package overlay manages the display overlay configuration: built-in
// defaults, validated partial merges, and JSON file persistence.
package overlay

import (
	v1alpha1 "github.com/showbridge/showbridge/api/types/v1alpha1"
)

const (
	defaultFontSizeEpisode = 32
	defaultFontSizeSeries  = 24
)

// Defaults returns the built-in display configuration.
func Defaults() v1alpha1.DisplayConfig {
	cfg := v1alpha1.DisplayConfig{
		Platforms:            []string{"Netflix", "YouTube", "Twitch"},
		CurrentPlatformIndex: 0,
		FontSizeEpisode:      defaultFontSizeEpisode,
		FontSizeSeries:       defaultFontSizeSeries,
	}
	for _, f := range colorFields(&cfg) {
		*f.dst = f.def
	}
	return cfg
}

// Merge applies a partial update onto the current configuration. Fields of
// the wrong type are ignored, and the platform index is clamped to the
// nearest bound afterwards.
func Merge(cur v1alpha1.DisplayConfig, partial map[string]any) v1alpha1.DisplayConfig {
	cfg := cur
	cfg.Platforms = append([]string(nil), cur.Platforms...)
	applyFields(&cfg, partial)

	if len(cfg.Platforms) == 0 {
		cfg.Platforms = []string{"Default"}
	}
	if cfg.CurrentPlatformIndex < 0 {
		cfg.CurrentPlatformIndex = 0
	}
	if cfg.CurrentPlatformIndex >= len(cfg.Platforms) {
		cfg.CurrentPlatformIndex = len(cfg.Platforms) - 1
	}
	return cfg
}

// applyFields merges raw values with per-field type checks. Anything of the
// wrong shape leaves the current value untouched.
func applyFields(cfg *v1alpha1.DisplayConfig, raw map[string]any) {
	if v, ok := raw["platforms"]; ok {
		if list, ok := toStringSlice(v); ok && len(list) > 0 {
			cfg.Platforms = list
		}
	}
	if v, ok := toNumber(raw["currentPlatformIndex"]); ok {
		cfg.CurrentPlatformIndex = int(v)
	}
	if v, ok := toNumber(raw["fontSizeEpisode"]); ok && v > 0 {
		cfg.FontSizeEpisode = v
	}
	if v, ok := toNumber(raw["fontSizeSeries"]); ok && v > 0 {
		cfg.FontSizeSeries = v
	}
	for _, f := range colorFields(cfg) {
		if v, ok := raw[f.key].(string); ok && v != "" {
			*f.dst = v
		}
	}
}

// sanitize repairs a configuration before it is used or persisted: an empty
// platform list falls back to a single default entry and an out-of-range
// index resets to 0.
func sanitize(cfg *v1alpha1.DisplayConfig) {
	if len(cfg.Platforms) == 0 {
		cfg.Platforms = []string{"Default"}
		cfg.CurrentPlatformIndex = 0
	}
	if cfg.CurrentPlatformIndex < 0 || cfg.CurrentPlatformIndex >= len(cfg.Platforms) {
		cfg.CurrentPlatformIndex = 0
	}
	if cfg.FontSizeEpisode <= 0 {
		cfg.FontSizeEpisode = defaultFontSizeEpisode
	}
	if cfg.FontSizeSeries <= 0 {
		cfg.FontSizeSeries = defaultFontSizeSeries
	}
	for _, f := range colorFields(cfg) {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
}

type colorField struct {
	key string
	dst *string
	def string
}

func colorFields(cfg *v1alpha1.DisplayConfig) []colorField {
	return []colorField{
		{"backgroundColor", &cfg.BackgroundColor, "rgba(0,0,0,0.5)"},
		{"fontColorEpisode", &cfg.FontColorEpisode, "rgba(255,255,255,1)"},
		{"fontColorSeries", &cfg.FontColorSeries, "rgba(200,200,200,1)"},
		{"fontColorTime", &cfg.FontColorTime, "rgba(255,255,255,1)"},
		{"fontColorProgress", &cfg.FontColorProgress, "rgba(255,255,255,1)"},
		{"progressBarFilledColor", &cfg.ProgressBarFilledColor, "rgba(0,123,255,1)"},
		{"progressBarBackgroundColor", &cfg.ProgressBarBackgroundColor, "rgba(255,255,255,0.3)"},
		{"progressDotColor", &cfg.ProgressDotColor, "rgba(255,255,255,1)"},
		{"pillActiveBackgroundColor", &cfg.PillActiveBackgroundColor, "rgba(0,123,255,0.5)"},
		{"pillActiveFontColor", &cfg.PillActiveFontColor, "rgba(255,255,255,1)"},
		{"pillInactiveBackgroundColor", &cfg.PillInactiveBackgroundColor, "rgba(108,117,125,0.2)"},
		{"pillInactiveFontColor", &cfg.PillInactiveFontColor, "rgba(200,200,200,1)"},
	}
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func toStringSlice(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
