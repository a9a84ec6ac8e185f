package relay

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	v1alpha1 "github.com/showbridge/showbridge/api/types/v1alpha1"
	"github.com/showbridge/showbridge/internal/sbridged/errors"
	"github.com/showbridge/showbridge/internal/sbridged/netutil"
	"github.com/showbridge/showbridge/internal/sbridged/overlay"
	"github.com/showbridge/showbridge/internal/sbridged/ratelimit"
	"github.com/showbridge/showbridge/internal/sbridged/state"
	"github.com/showbridge/showbridge/internal/sbridged/web"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Displays run from OBS browser sources and arbitrary hosts
		return true
	},
}

// Handler owns the relay state machine: it classifies inbound messages,
// applies them to the state store, and triggers broadcast. All mutations go
// through applyMu, so broadcasts are observed in the order state changed.
type Handler struct {
	store   *state.Store
	configs *overlay.Store
	hub     *Hub
	tracker *Tracker
	limiter ratelimit.Service
	listIPs func() []string
	assets  http.FileSystem
	logger  *slog.Logger

	applyMu sync.Mutex
}

// Option configures a Handler
type Option func(*Handler)

// WithAddressLister overrides how server addresses are enumerated
func WithAddressLister(list func() []string) Option {
	return func(h *Handler) {
		h.listIPs = list
	}
}

// WithAssetDir overrides the embedded overlay assets with a directory
func WithAssetDir(dir string) Option {
	return func(h *Handler) {
		h.assets = web.FS(dir)
	}
}

// NewHandler creates the relay handler and its hub
func NewHandler(store *state.Store, configs *overlay.Store, limiter ratelimit.Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		store:   store,
		configs: configs,
		limiter: limiter,
		listIPs: netutil.LocalIPv4s,
		assets:  web.FS(""),
		logger:  logger.With("component", "relay"),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.hub = newHub(h.logger)
	h.hub.current = h.currentPayload
	h.tracker = NewTracker(h.logger)
	return h
}

// Run drives the hub until ctx is canceled
func (h *Handler) Run(ctx context.Context) {
	h.hub.run(ctx)
}

// Router returns a router pre-configured with all relay endpoints
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", h.handleGetConfig)
		r.With(ratelimit.Middleware(h.limiter, "config_update", h.logger)).
			Post("/config", h.handleUpdateConfig)
		r.Get("/status", h.handleStatus)
	})

	r.With(ratelimit.Middleware(h.limiter, "ws_connect", h.logger)).
		Get("/ws", h.ServeWs)

	r.Get("/", h.servePage("overlay.html"))
	r.Get("/config", h.servePage("config.html"))
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(h.assets)))

	return r
}

// ServeWs upgrades a streaming connection and registers it with the hub
func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			"error", err,
			"remoteAddr", r.RemoteAddr,
		)
		return
	}

	s := &session{
		id:         uuid.New(),
		remoteAddr: r.RemoteAddr,
		ws:         ws,
		send:       make(chan []byte, sendBufferSize),
		hub:        h.hub,
		inbound:    h.handleInbound,
		logger:     h.logger,
	}

	h.hub.register(s)

	go s.writePump()
	s.readPump()
}

// handleInbound classifies one inbound text frame. Failures never terminate
// the connection; the frame is dropped and logged.
func (h *Handler) handleInbound(s *session, data []byte) {
	var msg v1alpha1.RelayMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.logger.Error("failed to parse inbound message",
			"error", err,
			"sessionId", s.id,
		)
		return
	}

	switch msg.Type {
	case v1alpha1.RelayMessageFromExtension:
		if msg.Data == nil {
			h.logger.Debug("producer message without data", "sessionId", s.id)
			return
		}
		if err := msg.Data.Validate(); err != nil {
			rejected := errors.NewError("INVALID_INPUT", "rejected invalid snapshot", "relay.handleInbound",
				fmt.Errorf("%w: %v", errors.ErrInvalidInput, err))
			h.logger.Warn("rejected invalid snapshot",
				"error", rejected,
				"sessionId", s.id,
			)
			return
		}
		h.hub.markProducer(s)
		h.applySnapshot(*msg.Data)
	default:
		h.logger.Debug("ignoring unrecognized message type",
			"type", msg.Type,
			"sessionId", s.id,
		)
	}
}

// applySnapshot replaces the stored snapshot and broadcasts it with the
// current config, as one serialized step.
func (h *Handler) applySnapshot(snap v1alpha1.PlaybackSnapshot) {
	h.applyMu.Lock()
	defer h.applyMu.Unlock()

	h.store.SetSnapshot(snap)
	h.tracker.Observe(snap)

	cfg := h.store.Config()
	h.broadcast(v1alpha1.RelayMessage{
		Type:   v1alpha1.RelayMessageVideoUpdate,
		Data:   &snap,
		Config: &cfg,
	})
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.store.Config())
}

func (h *Handler) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		h.respondError(w, errors.NewError("INVALID_INPUT", "Invalid configuration data", "relay.handleUpdateConfig",
			fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)))
		return
	}

	// serverIPs is server-authoritative and always recomputed
	delete(partial, "serverIPs")

	h.applyMu.Lock()
	merged := overlay.Merge(h.store.Config(), partial)
	merged.ServerIPs = h.listIPs()
	h.store.SetConfig(merged)

	if err := h.configs.Save(merged); err != nil {
		// In-memory config stays authoritative for the running process
		h.logger.Error("failed to persist overlay config", "error", err)
	}

	h.broadcast(v1alpha1.RelayMessage{
		Type:   v1alpha1.RelayMessageConfigUpdated,
		Config: &merged,
	})
	h.applyMu.Unlock()

	h.respondJSON(w, http.StatusOK, merged)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := h.hub.Stats()
	h.respondJSON(w, http.StatusOK, v1alpha1.StatusReport{
		Connections:       stats.Connections,
		ProducerConnected: stats.ProducerConnected,
		Tracking:          h.tracker.Current(),
	})
}

// broadcast marshals and enqueues a message for every session. Callers hold
// applyMu, so hub delivery order matches apply order.
func (h *Handler) broadcast(msg v1alpha1.RelayMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal broadcast", "error", err, "type", msg.Type)
		return
	}
	h.hub.broadcast(payload)
}

// currentPayload marshals the welcome message for a newly registered session
func (h *Handler) currentPayload() []byte {
	snap, cfg := h.store.Current()
	payload, err := json.Marshal(v1alpha1.RelayMessage{
		Type:   v1alpha1.RelayMessageVideoUpdate,
		Data:   &snap,
		Config: &cfg,
	})
	if err != nil {
		h.logger.Error("failed to marshal welcome message", "error", err)
		return nil
	}
	return payload
}

func (h *Handler) servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := h.assets.Open(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := io.Copy(w, f); err != nil {
			h.logger.Debug("failed to serve page", "page", name, "error", err)
		}
	}
}

// respondError maps a domain error to its HTTP status and message body
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	h.logger.Error("request failed", "error", err)

	status := http.StatusInternalServerError
	switch {
	case errors.IsInvalidInput(err):
		status = http.StatusBadRequest
	case errors.IsIO(err):
		status = http.StatusInternalServerError
	}

	message := http.StatusText(status)
	var domainErr *errors.Error
	if stderrors.As(err, &domainErr) && domainErr.Message != "" {
		message = domainErr.Message
	}

	h.respondJSON(w, status, map[string]string{"message": message})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
