// Package mq provides a NATS JetStream client wrapper used by the store facade
package mq

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
)

// Config configures the nats connection
type Config struct {
	URL  string
	Name string
}

// MQ is a nats connection with a jetstream context
type MQ struct {
	Conn *nats.Conn
	JS   nats.JetStreamContext
}

var connect = nats.Connect

// Open dials nats and initializes jetstream
// the connection retries on failure so a broker restart does not kill the process
func Open(_ context.Context, cfg Config) (*MQ, error) {
	nc, err := connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}
	return &MQ{Conn: nc, JS: js}, nil
}

// Ping verifies the connection with a round trip to the server
func (m *MQ) Ping(ctx context.Context) error {
	if m == nil || m.Conn == nil {
		return errors.New("mq: nil connection")
	}
	if !m.Conn.IsConnected() {
		return errors.New("mq: not connected")
	}
	return m.Conn.FlushWithContext(ctx)
}

// Close drains the connection, letting in flight messages settle
func (m *MQ) Close() error {
	if m == nil || m.Conn == nil {
		return nil
	}
	return m.Conn.Drain()
}
