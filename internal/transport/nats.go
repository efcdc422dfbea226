package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/hub"
	"github.com/nats-io/nats.go"
)

const (
	// DefaultSubjectPrefix is prepended to the message type.
	DefaultSubjectPrefix = "riskwatch"

	natsConnectTimeout = 10 * time.Second
	natsReconnectWait  = 2 * time.Second
)

// MsgPublisher is the subset of *nats.Conn the subscriber needs.
type MsgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSSubscriber republishes hub messages to "<prefix>.<type>" subjects.
// It does not own the connection.
type NATSSubscriber struct {
	id     string
	conn   MsgPublisher
	prefix string
}

// NewNATSSubscriber returns a subscriber publishing on conn.
func NewNATSSubscriber(conn MsgPublisher, prefix string) *NATSSubscriber {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSSubscriber{id: "nats:" + prefix, conn: conn, prefix: prefix}
}

func (s *NATSSubscriber) ID() string { return s.id }

// Subject returns the subject a message of msgType is published on.
func (s *NATSSubscriber) Subject(msgType string) string {
	return s.prefix + "." + msgType
}

func (s *NATSSubscriber) Deliver(ctx context.Context, msg hub.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msg.MessageType(), err)
	}
	m := nats.NewMsg(s.Subject(msg.MessageType()))
	m.Data = data
	m.Header.Set("x-message-type", msg.MessageType())
	if err := s.conn.PublishMsg(m); err != nil {
		return fmt.Errorf("publish %s: %w", m.Subject, err)
	}
	return nil
}

// DialNATS connects to url with reconnects enabled and connection events
// logged.
func DialNATS(url string, logger *slog.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := nats.Connect(url,
		nats.Name("riskwatch"),
		nats.Timeout(natsConnectTimeout),
		nats.ReconnectWait(natsReconnectWait),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	logger.Info("connected to nats", "url", url)
	return nc, nil
}
