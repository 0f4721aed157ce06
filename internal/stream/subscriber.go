// Package stream consumes the websocket transaction feed. One
// subscription per connection, a keep-alive ping loop beside the
// consumer, both multiplexed onto a single outbound channel so the
// connection is never written from two goroutines at once.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"solana-amm-quoter/internal/trade"
)

const (
	defaultPingInterval = 3 * time.Second
	reconnectBackoff    = 5 * time.Second
	writeTimeout        = 10 * time.Second
)

// Config holds the subscriber settings.
type Config struct {
	// URL is the websocket endpoint.
	URL string
	// Programs filters the subscription to transactions mentioning
	// these program addresses.
	Programs []string
	// PingInterval overrides the keep-alive cadence.
	PingInterval time.Duration
	Logger       *logrus.Logger
}

// Handler receives each decoded notification. Errors inside the handler
// must be handled there; the feed does not stop for one bad event.
type Handler func(*trade.Notification)

// Subscriber maintains the feed connection, resubscribing after drops.
type Subscriber struct {
	cfg  Config
	log  *logrus.Logger
	dial func(url string) (*websocket.Conn, error)
}

func NewSubscriber(cfg Config) *Subscriber {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultPingInterval
	}
	return &Subscriber{
		cfg: cfg,
		log: cfg.Logger,
		dial: func(url string) (*websocket.Conn, error) {
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			return conn, err
		},
	}
}

// Run consumes the feed until the context is cancelled, reconnecting
// with a fixed backoff after connection failures.
func (s *Subscriber) Run(ctx context.Context, handler Handler) error {
	for {
		if err := s.runConn(ctx, handler); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.WithField("error", err.Error()).Warn("Feed connection lost, reconnecting")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectBackoff):
		}
	}
}

type outboundMessage struct {
	messageType int
	data        []byte
}

func (s *Subscriber) runConn(ctx context.Context, handler Handler) error {
	conn, err := s.dial(s.cfg.URL)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// single writer: the subscribe request and the ping loop both go
	// through this channel, nothing else touches the write side
	outbound := make(chan outboundMessage, 8)

	writeDone := make(chan error, 1)
	go func() {
		writeDone <- s.writeLoop(connCtx, conn, outbound)
	}()
	go s.pingLoop(connCtx, outbound)

	sub, err := s.subscribeMessage()
	if err != nil {
		return err
	}
	select {
	case outbound <- outboundMessage{websocket.TextMessage, sub}:
	case <-connCtx.Done():
		return connCtx.Err()
	}

	s.log.WithFields(logrus.Fields{
		"url":      s.cfg.URL,
		"programs": s.cfg.Programs,
	}).Info("Subscribed to transaction feed")

	readDone := make(chan error, 1)
	go func() {
		readDone <- s.readLoop(conn, handler)
	}()

	select {
	case <-ctx.Done():
		conn.Close()
		<-readDone
		return ctx.Err()
	case err := <-readDone:
		return err
	case err := <-writeDone:
		conn.Close()
		<-readDone
		return err
	}
}

func (s *Subscriber) writeLoop(ctx context.Context, conn *websocket.Conn, outbound <-chan outboundMessage) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-outbound:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(msg.messageType, msg.data); err != nil {
				return fmt.Errorf("websocket write: %w", err)
			}
		}
	}
}

func (s *Subscriber) pingLoop(ctx context.Context, outbound chan<- outboundMessage) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case outbound <- outboundMessage{websocket.PingMessage, nil}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Subscriber) readLoop(conn *websocket.Conn, handler Handler) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("websocket read: %w", err)
		}
		n, err := parseNotification(data)
		if err != nil {
			// a malformed message is logged and skipped, the feed goes on
			s.log.WithField("error", err.Error()).Debug("Skipping feed message")
			continue
		}
		if n != nil {
			handler(n)
		}
	}
}

func (s *Subscriber) subscribeMessage() ([]byte, error) {
	msg := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "transactionSubscribe",
		"params": []interface{}{
			map[string]interface{}{
				"accountInclude": s.cfg.Programs,
				"failed":         false,
			},
			map[string]interface{}{
				"commitment":                     "confirmed",
				"encoding":                       "jsonParsed",
				"transactionDetails":             "full",
				"showRewards":                    false,
				"maxSupportedTransactionVersion": 0,
			},
		},
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal subscribe: %w", err)
	}
	return data, nil
}
