package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/showbridge/showbridge/api/types/v1alpha1"
)

// SimulatedSource advances a fixed title in real time, wrapping at the
// duration. It stands in for a real browser extension during testing.
type SimulatedSource struct {
	Series   *string
	Episode  string
	Duration float64

	started time.Time
}

func (s *SimulatedSource) Next(now time.Time) (*v1alpha1.PlaybackSnapshot, error) {
	if s.started.IsZero() {
		s.started = now
	}

	position := now.Sub(s.started).Seconds()
	if s.Duration > 0 {
		for position >= s.Duration {
			position -= s.Duration
		}
	}

	source := v1alpha1.SourceEpisodeOnly
	if s.Series != nil {
		source = v1alpha1.SourceSeriesEpisode
	}

	episode := s.Episode
	return &v1alpha1.PlaybackSnapshot{
		Series:          s.Series,
		Episode:         &episode,
		CurrentSeconds:  position,
		DurationSeconds: s.Duration,
		Source:          source,
	}, nil
}

// FileSource replays snapshots from a file of JSON lines, one snapshot per
// line. Blank lines are skipped. The feed ends at end of file.
type FileSource struct {
	scanner *bufio.Scanner
	close   func() error
}

// NewFileSource opens a snapshot replay file
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening snapshot file: %w", err)
	}
	return &FileSource{scanner: bufio.NewScanner(f), close: f.Close}, nil
}

func (s *FileSource) Next(now time.Time) (*v1alpha1.PlaybackSnapshot, error) {
	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var snap v1alpha1.PlaybackSnapshot
		if err := json.Unmarshal(line, &snap); err != nil {
			return nil, fmt.Errorf("error parsing snapshot line: %w", err)
		}
		if err := snap.Validate(); err != nil {
			return nil, fmt.Errorf("invalid snapshot in file: %w", err)
		}
		return &snap, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Close releases the underlying file
func (s *FileSource) Close() error {
	return s.close()
}
