package overlay

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	v1alpha1 "github.com/showbridge/showbridge/api/types/v1alpha1"
	"github.com/showbridge/showbridge/internal/sbridged/errors"
	"github.com/showbridge/showbridge/internal/sbridged/netutil"
)

// Store persists the display configuration to a single JSON file. The
// computed ServerIPs field is stripped before every write and recomputed
// after every load.
type Store struct {
	path    string
	logger  *slog.Logger
	listIPs func() []string
}

// Option configures a Store
type Option func(*Store)

// WithAddressLister overrides how server addresses are enumerated
func WithAddressLister(list func() []string) Option {
	return func(s *Store) {
		s.listIPs = list
	}
}

// NewStore creates a file-backed configuration store
func NewStore(path string, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		path:    path,
		logger:  logger.With("component", "overlay-store"),
		listIPs: netutil.LocalIPv4s,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted configuration, falling back to built-in defaults
// when the file is absent or corrupt. In the fallback case the defaults are
// written back best-effort; a write failure is logged, never fatal.
func (s *Store) Load() v1alpha1.DisplayConfig {
	cfg := Defaults()

	data, err := os.ReadFile(s.path)
	switch {
	case err != nil:
		if os.IsNotExist(err) {
			s.logger.Warn("overlay config not found, using defaults", "path", s.path)
		} else {
			s.logger.Warn("overlay config unreadable, using defaults", "path", s.path, "error", err)
		}
		s.writeDefaults(cfg)
	default:
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			s.logger.Warn("overlay config corrupt, using defaults", "path", s.path, "error", err)
			s.writeDefaults(cfg)
		} else {
			applyFields(&cfg, raw)
		}
	}

	sanitize(&cfg)
	cfg.ServerIPs = s.listIPs()
	return cfg
}

// Save serializes the persisted subset of the configuration. Write failures
// propagate to the caller; the in-memory configuration stays authoritative.
func (s *Store) Save(cfg v1alpha1.DisplayConfig) error {
	sanitize(&cfg)
	cfg.ServerIPs = nil

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.NewError("ENCODE", "failed to encode overlay config", "overlay.Save", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.NewError("IO", "failed to write overlay config", "overlay.Save", fmt.Errorf("%w: %v", errors.ErrIO, err))
	}
	return nil
}

func (s *Store) writeDefaults(cfg v1alpha1.DisplayConfig) {
	if err := s.Save(cfg); err != nil {
		s.logger.Warn("failed to write default overlay config", "path", s.path, "error", err)
	}
}
