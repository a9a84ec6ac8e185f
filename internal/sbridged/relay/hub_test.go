package relay

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T, current func() []byte) *Hub {
	t.Helper()
	h := newHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.current = current

	ctx, cancel := context.WithCancel(context.Background())
	go h.run(ctx)
	t.Cleanup(cancel)
	return h
}

func newHubSession(buffer int) *session {
	return &session{
		id:         uuid.New(),
		remoteAddr: "test",
		send:       make(chan []byte, buffer),
	}
}

func waitStats(t *testing.T, h *Hub, want Stats) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.Stats() == want
	}, time.Second, 5*time.Millisecond)
}

func TestHubRegisterSendsCurrent(t *testing.T) {
	h := newTestHub(t, func() []byte { return []byte("welcome") })

	s := newHubSession(1)
	h.register(s)

	select {
	case payload := <-s.send:
		assert.Equal(t, "welcome", string(payload))
	case <-time.After(time.Second):
		t.Fatal("no welcome payload delivered")
	}
	waitStats(t, h, Stats{Connections: 1})
}

func TestHubBroadcastReachesAllSessions(t *testing.T) {
	h := newTestHub(t, nil)

	a := newHubSession(4)
	b := newHubSession(4)
	h.register(a)
	h.register(b)
	waitStats(t, h, Stats{Connections: 2})

	h.broadcast([]byte("update"))

	for _, s := range []*session{a, b} {
		select {
		case payload := <-s.send:
			assert.Equal(t, "update", string(payload))
		case <-time.After(time.Second):
			t.Fatal("broadcast not delivered")
		}
	}
}

func TestHubDropsSlowSession(t *testing.T) {
	h := newTestHub(t, nil)

	slow := newHubSession(1)
	h.register(slow)
	waitStats(t, h, Stats{Connections: 1})

	// First fill the buffer, then overflow it
	h.broadcast([]byte("one"))
	h.broadcast([]byte("two"))

	waitStats(t, h, Stats{Connections: 0})

	// The send channel is closed so the write pump can exit
	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-slow.send:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, 5*time.Millisecond)
}

func TestHubProducerTracking(t *testing.T) {
	h := newTestHub(t, nil)

	first := newHubSession(4)
	second := newHubSession(4)
	h.register(first)
	h.register(second)
	waitStats(t, h, Stats{Connections: 2, ProducerConnected: false})

	h.markProducer(first)
	waitStats(t, h, Stats{Connections: 2, ProducerConnected: true})

	// A newer pushing session takes over the producer role
	h.markProducer(second)
	h.unregister(first)
	waitStats(t, h, Stats{Connections: 1, ProducerConnected: true})

	h.unregister(second)
	waitStats(t, h, Stats{Connections: 0, ProducerConnected: false})
}

func TestHubOpsReturnAfterShutdown(t *testing.T) {
	h := newHub(slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	running := make(chan struct{})
	go func() {
		close(running)
		h.run(ctx)
	}()
	<-running
	cancel()

	// Sessions finishing cleanup after the hub stopped must not block
	finished := make(chan struct{})
	go func() {
		s := newHubSession(1)
		h.unregister(s)
		h.broadcast([]byte("late"))
		h.register(s)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("hub ops blocked after shutdown")
	}
}

func TestHubUnregisterUnknownSession(t *testing.T) {
	h := newTestHub(t, nil)

	s := newHubSession(1)
	h.unregister(s)
	h.unregister(s)
	waitStats(t, h, Stats{})
}
