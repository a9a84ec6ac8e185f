package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/showbridge/showbridge/api/types/v1alpha1"
)

// Source produces the next playback snapshot to push. Returning
// io.EOF ends the feed.
type Source interface {
	Next(now time.Time) (*v1alpha1.PlaybackSnapshot, error)
}

// Feeder pushes snapshots from a source over a connection on a fixed
// cadence, suppressing pushes while the snapshot is unchanged.
type Feeder struct {
	source   Source
	interval time.Duration
	logger   zerolog.Logger
}

// NewFeeder creates a feeder; an interval of zero means one second
func NewFeeder(source Source, interval time.Duration, logger zerolog.Logger) *Feeder {
	if interval <= 0 {
		interval = time.Second
	}
	return &Feeder{source: source, interval: interval, logger: logger}
}

// Feed pushes until ctx is canceled, the source is exhausted, or a write
// fails. Suppression state is per call, so a reconnect pushes the current
// snapshot again.
func (f *Feeder) Feed(ctx context.Context, conn Conn) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	var last *v1alpha1.PlaybackSnapshot
	for {
		snap, err := f.source.Next(time.Now())
		if err != nil {
			if errors.Is(err, io.EOF) {
				f.logger.Info().Msg("feed complete")
				return nil
			}
			return err
		}

		if snap != nil && (last == nil || !snap.Equal(*last)) {
			if err := f.push(conn, *snap); err != nil {
				return err
			}
			last = snap
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (f *Feeder) push(conn Conn, snap v1alpha1.PlaybackSnapshot) error {
	payload, err := json.Marshal(v1alpha1.RelayMessage{
		Type: v1alpha1.RelayMessageFromExtension,
		Data: &snap,
	})
	if err != nil {
		return err
	}
	f.logger.Debug().
		Str("title", snap.Title()).
		Str("position", v1alpha1.FormatSeconds(snap.CurrentSeconds)).
		Msg("pushing snapshot")
	return conn.WriteMessage(websocket.TextMessage, payload)
}
