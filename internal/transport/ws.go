package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/hub"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// DefaultWriteWait bounds a write when the caller's context has no deadline.
	DefaultWriteWait = 10 * time.Second
	// DefaultPingInterval is how often idle connections are pinged.
	DefaultPingInterval = 30 * time.Second

	maxInboundMessage = 64 * 1024
)

// ErrClosed is returned by Deliver after Close.
var ErrClosed = errors.New("subscriber closed")

// NewUpgrader returns an upgrader that accepts the given origins. An empty
// list or a "*" entry accepts any origin.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return OriginAllowed(allowedOrigins, r.Header.Get("Origin"))
		},
	}
}

// OriginAllowed reports whether origin matches the allow list. A request
// without an Origin header is not a browser and is always allowed.
func OriginAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 || origin == "" {
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

// WSSubscriber delivers hub messages over a websocket connection.
type WSSubscriber struct {
	id   string
	conn *websocket.Conn

	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

// NewWSSubscriber wraps conn with a fresh random ID.
func NewWSSubscriber(conn *websocket.Conn) *WSSubscriber {
	return &WSSubscriber{
		id:   uuid.NewString(),
		conn: conn,
		done: make(chan struct{}),
	}
}

func (s *WSSubscriber) ID() string { return s.id }

// RemoteAddr is the peer address, for logging.
func (s *WSSubscriber) RemoteAddr() string { return s.conn.RemoteAddr().String() }

// Deliver writes msg as a JSON text frame. The write deadline comes from
// ctx, or DefaultWriteWait when ctx has none.
func (s *WSSubscriber) Deliver(ctx context.Context, msg hub.Message) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(writeDeadline(ctx)); err != nil {
		return err
	}
	return s.conn.WriteJSON(msg)
}

func writeDeadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(DefaultWriteWait)
}

// ReadLoop consumes inbound frames until the peer goes away or the
// subscriber is closed. Inbound data is discarded; reading is what surfaces
// close frames and keeps pong handling alive. It returns the read error.
func (s *WSSubscriber) ReadLoop(pongWait time.Duration) error {
	s.conn.SetReadLimit(maxInboundMessage)
	if pongWait > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		s.conn.SetPongHandler(func(string) error {
			return s.conn.SetReadDeadline(time.Now().Add(pongWait))
		})
	}
	for {
		if _, _, err := s.conn.NextReader(); err != nil {
			return err
		}
	}
}

// PingLoop sends a ping every interval until ctx ends, the subscriber is
// closed, or a ping fails.
func (s *WSSubscriber) PingLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPingInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-t.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(DefaultWriteWait)); err != nil {
				return
			}
		}
	}
}

// Done is closed once Close has run.
func (s *WSSubscriber) Done() <-chan struct{} { return s.done }

// Close sends a close frame and closes the connection. Safe to call more
// than once; later calls return the first result. WriteControl and Close
// may run concurrently with a pending Deliver, so Close never waits on a
// stuck write.
func (s *WSSubscriber) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
