package relay

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Outbound buffer per session
	sendBufferSize = 256
)

// session is a middleman between one websocket connection and the hub
type session struct {
	id         uuid.UUID
	remoteAddr string
	ws         *websocket.Conn
	send       chan []byte
	hub        *Hub
	inbound    func(*session, []byte)
	logger     *slog.Logger
}

// cleanup handles proper connection closure and cleanup
func (s *session) cleanup() {
	s.hub.unregister(s)

	if err := s.ws.Close(); err != nil {
		s.logger.Debug("error closing websocket connection",
			"error", err,
			"sessionId", s.id,
		)
	}
}

func (s *session) readPump() {
	defer s.cleanup()

	s.ws.SetReadLimit(maxMessageSize)
	if err := s.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error("failed to set read deadline",
			"error", err,
			"sessionId", s.id,
		)
		return
	}

	s.ws.SetPongHandler(func(string) error {
		return s.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := s.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("websocket read error",
					"error", err,
					"sessionId", s.id,
				)
			}
			break
		}

		s.inbound(s, message)
	}
}

func (s *session) write(mt int, payload []byte) error {
	if err := s.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.ws.WriteMessage(mt, payload)
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := s.ws.Close(); err != nil {
			s.logger.Debug("error closing websocket connection in writePump",
				"error", err,
				"sessionId", s.id,
			)
		}
	}()

	for {
		select {
		case message, ok := <-s.send:
			if !ok {
				if err := s.write(websocket.CloseMessage, []byte{}); err != nil {
					s.logger.Debug("failed to write close message",
						"error", err,
						"sessionId", s.id,
					)
				}
				return
			}
			if err := s.write(websocket.TextMessage, message); err != nil {
				s.logger.Warn("failed to write message",
					"error", err,
					"sessionId", s.id,
				)
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, []byte{}); err != nil {
				s.logger.Warn("failed to write ping",
					"error", err,
					"sessionId", s.id,
				)
				return
			}
		}
	}
}
