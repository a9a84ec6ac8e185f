package relay

import (
	"log/slog"
	"sync"

	v1alpha1 "github.com/showbridge/showbridge/api/types/v1alpha1"
)

// Tracker reports what the relay is currently tracking: a visible log line
// whenever the title changes, progress at debug level on every snapshot.
type Tracker struct {
	mu     sync.Mutex
	logger *slog.Logger
	seen   bool
	title  string
}

// NewTracker creates a tracker logging through the given logger
func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// Observe records an accepted snapshot
func (t *Tracker) Observe(snap v1alpha1.PlaybackSnapshot) {
	title := snap.Title()

	t.mu.Lock()
	changed := !t.seen || title != t.title
	t.seen = true
	t.title = title
	t.mu.Unlock()

	if changed {
		t.logger.Info("now tracking",
			"title", title,
			"duration", v1alpha1.FormatSeconds(snap.DurationSeconds),
		)
	}

	if ratio, ok := snap.Progress(); ok {
		t.logger.Debug("playback progress",
			"title", title,
			"position", v1alpha1.FormatSeconds(snap.CurrentSeconds),
			"duration", v1alpha1.FormatSeconds(snap.DurationSeconds),
			"percent", int(ratio*100),
		)
	}
}

// Current returns the title currently being tracked, empty before the first
// accepted snapshot.
func (t *Tracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.seen {
		return ""
	}
	return t.title
}
