package ws

import (
	"errors"
	"sync"
	"time"

	"habitlink-backend/internal/notification"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second // must be less than pongWait
	maxMessageSize = 512
	outboundBuffer = 32
)

var errSessionClosed = errors.New("session closed")
var errBufferFull = errors.New("outbound buffer full")

// Session is one live websocket connection bound to a (user, device token)
// pair. Frames are queued on a buffered channel consumed by the write
// pump; a full buffer counts as a failed send so a stalled client never
// blocks dispatch.
type Session struct {
	conn     *websocket.Conn
	outbound chan notification.Frame
	done     chan struct{}
	once     sync.Once
}

func newSession(conn *websocket.Conn) *Session {
	return &Session{
		conn:     conn,
		outbound: make(chan notification.Frame, outboundBuffer),
		done:     make(chan struct{}),
	}
}

// Send queues one frame for delivery. Never blocks.
func (s *Session) Send(frame notification.Frame) error {
	select {
	case <-s.done:
		return errSessionClosed
	default:
	}

	select {
	case s.outbound <- frame:
		return nil
	case <-s.done:
		return errSessionClosed
	default:
		return errBufferFull
	}
}

// Close shuts the connection down; both pumps exit. Idempotent.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// writePump drains the outbound queue onto the wire and keeps the
// connection alive with pings. Any write error tears the session down and
// the transport's keep-alive catches hung peers.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case frame := <-s.outbound:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// readPump consumes and discards client frames, serving only as liveness
// detection. Returns when the connection dies or Close is called.
func (s *Session) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
