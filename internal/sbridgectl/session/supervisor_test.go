package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showbridge/showbridge/api/types/v1alpha1"
)

// fakeConn is a scriptable connection for supervisor tests
type fakeConn struct {
	mu       sync.Mutex
	incoming chan []byte
	written  [][]byte
	closed   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{incoming: make(chan []byte, 16)}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	data, ok := <-c.incoming
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return 1, data, nil
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("write on closed connection")
	}
	c.written = append(c.written, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.incoming)
	}
	return nil
}

func (c *fakeConn) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.written)
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestBoundedPolicyGivesUp(t *testing.T) {
	attempts := 0
	dial := func(ctx context.Context) (Conn, error) {
		attempts++
		return nil, errors.New("connection refused")
	}

	s := NewSupervisor(dial, RetryPolicy{MaxAttempts: 5, Interval: time.Millisecond}, testLogger())
	err := s.Run(context.Background())

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 5, attempts)
	assert.Equal(t, StateGivenUp, s.State())
}

func TestUnboundedPolicyKeepsRetrying(t *testing.T) {
	attempts := 0
	dial := func(ctx context.Context) (Conn, error) {
		attempts++
		return nil, errors.New("connection refused")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	s := NewSupervisor(dial, RetryPolicy{MaxAttempts: 0, Interval: time.Millisecond}, testLogger())
	err := s.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, attempts, 10)
	assert.NotEqual(t, StateGivenUp, s.State())
}

func TestSuccessResetsAttemptCounter(t *testing.T) {
	attempts := 0
	dial := func(ctx context.Context) (Conn, error) {
		attempts++
		switch attempts {
		case 5, 10:
			conn := newFakeConn()
			go func() {
				time.Sleep(5 * time.Millisecond)
				conn.Close()
			}()
			return conn, nil
		default:
			return nil, errors.New("connection refused")
		}
	}

	s := NewSupervisor(dial, RetryPolicy{MaxAttempts: 5, Interval: time.Millisecond}, testLogger())
	err := s.Run(context.Background())

	// Each success resets the counter: 4 failures, connect, 4 failures,
	// connect, then the final 5 failures exhaust the policy.
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 15, attempts)
}

func TestMessagesDelivered(t *testing.T) {
	conn := newFakeConn()
	conn.incoming <- []byte("hello")

	dial := func(ctx context.Context) (Conn, error) { return conn, nil }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewSupervisor(dial, ConsumerPolicy(), testLogger())
	go s.Run(ctx)

	select {
	case data := <-s.Messages():
		assert.Equal(t, "hello", string(data))
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestCancellationIsCleanShutdown(t *testing.T) {
	conn := newFakeConn()
	dial := func(ctx context.Context) (Conn, error) { return conn, nil }

	ctx, cancel := context.WithCancel(context.Background())
	s := NewSupervisor(dial, ConsumerPolicy(), testLogger())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("supervisor did not stop")
	}
}

func TestOnConnectHookRunsPerConnection(t *testing.T) {
	var mu sync.Mutex
	hookRuns := 0

	dials := 0
	dial := func(ctx context.Context) (Conn, error) {
		dials++
		conn := newFakeConn()
		go func() {
			time.Sleep(5 * time.Millisecond)
			conn.Close()
		}()
		return conn, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	s := NewSupervisor(dial, RetryPolicy{MaxAttempts: 0, Interval: time.Millisecond}, testLogger(),
		WithOnConnect(func(ctx context.Context, conn Conn) {
			mu.Lock()
			hookRuns++
			mu.Unlock()
			<-ctx.Done()
		}))
	s.Run(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, dials, hookRuns)
	assert.Greater(t, hookRuns, 1)
}

type scriptedSource struct {
	snaps []*v1alpha1.PlaybackSnapshot
	i     int
}

func (s *scriptedSource) Next(now time.Time) (*v1alpha1.PlaybackSnapshot, error) {
	if s.i >= len(s.snaps) {
		return nil, io.EOF
	}
	snap := s.snaps[s.i]
	s.i++
	return snap, nil
}

func snapAt(pos float64) *v1alpha1.PlaybackSnapshot {
	ep := "Test Episode"
	return &v1alpha1.PlaybackSnapshot{
		Episode:         &ep,
		CurrentSeconds:  pos,
		DurationSeconds: 100,
		Source:          v1alpha1.SourceEpisodeOnly,
	}
}

func TestFeederSuppressesUnchangedSnapshots(t *testing.T) {
	src := &scriptedSource{snaps: []*v1alpha1.PlaybackSnapshot{
		snapAt(1), snapAt(1), snapAt(1), snapAt(2),
	}}
	conn := newFakeConn()

	f := NewFeeder(src, time.Millisecond, testLogger())
	err := f.Feed(context.Background(), conn)

	require.NoError(t, err)
	assert.Equal(t, 2, conn.writeCount())

	var msg v1alpha1.RelayMessage
	require.NoError(t, json.Unmarshal(conn.written[0], &msg))
	assert.Equal(t, v1alpha1.RelayMessageFromExtension, msg.Type)
	require.NotNil(t, msg.Data)
	assert.Equal(t, float64(1), msg.Data.CurrentSeconds)
}

func TestFeederStopsOnCancel(t *testing.T) {
	src := &SimulatedSource{Episode: "Endless", Duration: 100}
	conn := newFakeConn()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	f := NewFeeder(src, time.Millisecond, testLogger())
	err := f.Feed(ctx, conn)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, conn.writeCount(), 1)
}

func TestFeederStopsOnWriteFailure(t *testing.T) {
	src := &SimulatedSource{Episode: "Doomed", Duration: 100}
	conn := newFakeConn()
	conn.Close()

	f := NewFeeder(src, time.Millisecond, testLogger())
	err := f.Feed(context.Background(), conn)
	assert.Error(t, err)
}
