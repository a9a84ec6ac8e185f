// Package relay implements the state-synchronization core: the connection
// registry, the message-level protocol handler, and the control plane.
package relay

import (
	"context"
	"log/slog"
	"sync"
)

type opKind int

const (
	opRegister opKind = iota
	opUnregister
	opBroadcast
	opMarkProducer
)

type hubOp struct {
	kind    opKind
	session *session
	payload []byte
}

// Hub maintains the set of active sessions and serializes registration,
// producer identification, and broadcast through a single op channel, so
// every session observes broadcasts in the order state changed.
type Hub struct {
	ops      chan hubOp
	done     chan struct{}
	sessions map[*session]bool
	producer *session
	logger   *slog.Logger

	// current returns the marshaled welcome payload for a fresh session.
	// Set by the handler before run starts.
	current func() []byte

	statsMu sync.RWMutex
	stats   Stats
}

// Stats is a point-in-time view of the hub's membership
type Stats struct {
	Connections       int
	ProducerConnected bool
}

func newHub(logger *slog.Logger) *Hub {
	return &Hub{
		ops:      make(chan hubOp),
		done:     make(chan struct{}),
		sessions: make(map[*session]bool),
		logger:   logger,
	}
}

// enqueue hands an op to the run loop. Once the hub has stopped, ops are
// discarded so sessions finishing cleanup never block on a dead channel.
func (h *Hub) enqueue(op hubOp) {
	select {
	case h.ops <- op:
	case <-h.done:
	}
}

// register enqueues a session for membership; the hub unicasts the current
// state to it so a late joiner is never left blank.
func (h *Hub) register(s *session) {
	h.enqueue(hubOp{kind: opRegister, session: s})
}

func (h *Hub) unregister(s *session) {
	h.enqueue(hubOp{kind: opUnregister, session: s})
}

// broadcast sends payload to every open session. Sessions with a full send
// buffer are dropped rather than allowed to stall the rest.
func (h *Hub) broadcast(payload []byte) {
	h.enqueue(hubOp{kind: opBroadcast, payload: payload})
}

// markProducer records s as the authoritative producer. The most recent
// producer replaces any prior one; there is no hand-off protocol.
func (h *Hub) markProducer(s *session) {
	h.enqueue(hubOp{kind: opMarkProducer, session: s})
}

// Stats returns current membership counts
func (h *Hub) Stats() Stats {
	h.statsMu.RLock()
	defer h.statsMu.RUnlock()
	return h.stats
}

func (h *Hub) run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-h.ops:
			switch op.kind {
			case opRegister:
				h.sessions[op.session] = true
				h.logger.Info("client connected",
					"sessionId", op.session.id,
					"remoteAddr", op.session.remoteAddr,
					"connections", len(h.sessions),
				)
				if h.current != nil {
					if payload := h.current(); payload != nil {
						h.send(op.session, payload)
					}
				}
			case opUnregister:
				if _, ok := h.sessions[op.session]; ok {
					h.drop(op.session)
					h.logger.Info("client disconnected",
						"sessionId", op.session.id,
						"remoteAddr", op.session.remoteAddr,
						"connections", len(h.sessions),
					)
				}
			case opBroadcast:
				for s := range h.sessions {
					h.send(s, op.payload)
				}
			case opMarkProducer:
				if h.producer != op.session {
					h.producer = op.session
					h.logger.Info("producer identified",
						"sessionId", op.session.id,
						"remoteAddr", op.session.remoteAddr,
					)
				}
			}
			h.updateStats()
		}
	}
}

// send delivers without blocking; a session that cannot keep up is dropped
func (h *Hub) send(s *session, payload []byte) {
	select {
	case s.send <- payload:
	default:
		h.logger.Warn("session send buffer full, dropping session",
			"sessionId", s.id,
		)
		h.drop(s)
	}
}

func (h *Hub) drop(s *session) {
	if _, ok := h.sessions[s]; !ok {
		return
	}
	delete(h.sessions, s)
	close(s.send)
	if h.producer == s {
		h.producer = nil
	}
}

func (h *Hub) updateStats() {
	h.statsMu.Lock()
	h.stats = Stats{
		Connections:       len(h.sessions),
		ProducerConnected: h.producer != nil,
	}
	h.statsMu.Unlock()
}
