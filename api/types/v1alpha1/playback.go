// Package v1alpha1 defines the wire types shared by the showbridge relay
// daemon and its clients.
package v1alpha1

import (
	"fmt"
	"math"
)

// SnapshotSource tags how the producer derived the title fields.
// It is informational only and never affects relay behavior.
type SnapshotSource string

const (
	// SourceSeriesEpisode means distinct series and episode titles were found
	SourceSeriesEpisode SnapshotSource = "series_episode"
	// SourceSeriesAsEpisode means only a series title was found and is used as the episode title
	SourceSeriesAsEpisode SnapshotSource = "series_as_episode"
	// SourceMovie means a standalone movie title was found
	SourceMovie SnapshotSource = "movie"
	// SourceEpisodeOnly means only an episode title was found
	SourceEpisodeOnly SnapshotSource = "episode_only"
	// SourceNone means no title information was found
	SourceNone SnapshotSource = "none"
)

// PlaybackSnapshot is the single current playback state relayed from the
// producer to every connected display.
type PlaybackSnapshot struct {
	// Series is the series/show title, nil for standalone content
	Series *string `json:"series"`
	// Episode is the episode or movie title, nil when unknown
	Episode *string `json:"episode"`
	// CurrentSeconds is the playback position
	CurrentSeconds float64 `json:"currentSeconds"`
	// DurationSeconds is the total duration, 0 when unknown
	DurationSeconds float64 `json:"durationSeconds"`
	// Source describes how the title fields were derived
	Source SnapshotSource `json:"source"`
}

// WaitingSnapshot returns the sentinel state shown before any producer update
// and after a stream ends.
func WaitingSnapshot() PlaybackSnapshot {
	episode := "Waiting..."
	return PlaybackSnapshot{
		Series:  nil,
		Episode: &episode,
		Source:  SourceNone,
	}
}

// Validate checks that the time fields are finite, non-negative numbers.
func (s PlaybackSnapshot) Validate() error {
	for name, v := range map[string]float64{
		"currentSeconds":  s.CurrentSeconds,
		"durationSeconds": s.DurationSeconds,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not a finite number", name)
		}
		if v < 0 {
			return fmt.Errorf("%s is negative", name)
		}
	}
	return nil
}

// Equal reports whether two snapshots carry the same playback state.
func (s PlaybackSnapshot) Equal(o PlaybackSnapshot) bool {
	return equalStringPtr(s.Series, o.Series) &&
		equalStringPtr(s.Episode, o.Episode) &&
		s.CurrentSeconds == o.CurrentSeconds &&
		s.DurationSeconds == o.DurationSeconds &&
		s.Source == o.Source
}

// Title composes a human-readable title from the series and episode fields.
func (s PlaybackSnapshot) Title() string {
	var series, episode string
	if s.Series != nil {
		series = *s.Series
	}
	if s.Episode != nil {
		episode = *s.Episode
	}
	switch {
	case series != "" && episode != "":
		return series + " - " + episode
	case episode != "":
		return episode
	case series != "":
		return series
	default:
		return "No Title"
	}
}

// Progress returns the playback ratio in [0, 1]. The second return value is
// false when the duration is unknown and the ratio is undefined.
func (s PlaybackSnapshot) Progress() (float64, bool) {
	if s.DurationSeconds <= 0 {
		return 0, false
	}
	ratio := s.CurrentSeconds / s.DurationSeconds
	return math.Min(1, math.Max(0, ratio)), true
}

// FormatSeconds renders a second count as HH:MM:SS. Negative or non-finite
// inputs render as a placeholder.
func FormatSeconds(totalSeconds float64) string {
	if math.IsNaN(totalSeconds) || math.IsInf(totalSeconds, 0) || totalSeconds < 0 {
		return "--:--:--"
	}
	t := int(totalSeconds)
	return fmt.Sprintf("%02d:%02d:%02d", t/3600, (t%3600)/60, t%60)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
