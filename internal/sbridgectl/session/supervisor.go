// Package session maintains long-lived relay connections for the CLI,
// reconnecting on failure according to a retry policy.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ErrRetriesExhausted is returned when a bounded policy runs out of attempts
var ErrRetriesExhausted = errors.New("connection retries exhausted")

// State describes the supervisor's connection lifecycle
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
	StateBackoff    State = "backoff"
	StateGivenUp    State = "given_up"
)

// Conn is the subset of a websocket connection the supervisor drives
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// DialFunc establishes one connection attempt
type DialFunc func(ctx context.Context) (Conn, error)

// Dial returns a DialFunc for a websocket URL
func Dial(url string) DialFunc {
	return func(ctx context.Context) (Conn, error) {
		ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			return nil, err
		}
		return ws, nil
	}
}

// RetryPolicy bounds reconnection. MaxAttempts of zero retries forever.
type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

// ProducerPolicy matches the pusher's bounded retry behavior
func ProducerPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Interval: 5 * time.Second}
}

// ConsumerPolicy retries forever so displays survive server restarts
func ConsumerPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 0, Interval: 5 * time.Second}
}

// Supervisor dials, reads, and redials a relay connection. Inbound frames
// land on Messages; lifecycle transitions land on States. An onConnect hook,
// when set, runs in its own goroutine for the life of each connection.
type Supervisor struct {
	dial      DialFunc
	policy    RetryPolicy
	logger    zerolog.Logger
	onConnect func(ctx context.Context, conn Conn)

	messages chan []byte
	states   chan State

	mu    sync.Mutex
	state State
}

// SupervisorOption configures a Supervisor
type SupervisorOption func(*Supervisor)

// WithOnConnect installs a per-connection hook, used by producers to start
// pushing once the link is up. The hook's context is canceled when the
// connection drops.
func WithOnConnect(hook func(ctx context.Context, conn Conn)) SupervisorOption {
	return func(s *Supervisor) {
		s.onConnect = hook
	}
}

// NewSupervisor creates a supervisor for the given dialer and policy
func NewSupervisor(dial DialFunc, policy RetryPolicy, logger zerolog.Logger, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		dial:     dial,
		policy:   policy,
		logger:   logger,
		messages: make(chan []byte, 64),
		states:   make(chan State, 16),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Messages returns the inbound frame channel
func (s *Supervisor) Messages() <-chan []byte {
	return s.messages
}

// States returns the lifecycle transition channel
func (s *Supervisor) States() <-chan State {
	return s.states
}

// State returns the current lifecycle state
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Supervisor) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	select {
	case s.states <- st:
	default:
	}
}

// Run drives the connection until ctx is canceled or a bounded policy gives
// up. Cancellation is a clean shutdown and returns ctx.Err; exhaustion
// returns ErrRetriesExhausted. A supervisor is single use; restart by
// constructing a new one.
func (s *Supervisor) Run(ctx context.Context) error {
	defer close(s.messages)

	failures := 0
	for {
		if s.policy.MaxAttempts > 0 && failures >= s.policy.MaxAttempts {
			s.logger.Error().Int("attempts", failures).Msg("giving up on server")
			s.setState(StateGivenUp)
			return ErrRetriesExhausted
		}

		s.setState(StateConnecting)
		conn, err := s.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			s.logger.Warn().
				Err(err).
				Int("attempt", failures).
				Dur("retryIn", s.policy.Interval).
				Msg("connection failed")
			s.setState(StateBackoff)
			if err := s.sleep(ctx); err != nil {
				return err
			}
			continue
		}

		// A successful connection resets the attempt counter
		failures = 0
		s.logger.Info().Msg("connected to server")
		s.setState(StateConnected)

		s.serve(ctx, conn)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.logger.Warn().
			Dur("retryIn", s.policy.Interval).
			Msg("connection lost")
		s.setState(StateBackoff)
		if err := s.sleep(ctx); err != nil {
			return err
		}
	}
}

// serve reads the connection until it fails, running the onConnect hook for
// the duration.
func (s *Supervisor) serve(ctx context.Context, conn Conn) {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if s.onConnect != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.onConnect(connCtx, conn)
		}()
	}

	// Close the socket when ctx is canceled so the read loop unblocks
	go func() {
		<-connCtx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		select {
		case s.messages <- data:
		case <-connCtx.Done():
		default:
			// A stalled reader loses frames rather than stalling the link
		}
	}

	cancel()
	wg.Wait()
}

func (s *Supervisor) sleep(ctx context.Context) error {
	t := time.NewTimer(s.policy.Interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
