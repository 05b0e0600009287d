/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// NATSConfig configures the NATS core pub/sub backend.
type NATSConfig struct {
	URL     string
	Subject string

	MaxReconnects int
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// DefaultNATSConfig returns sane defaults for local development.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		Subject:       "reserveplanner.replan",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

// NATSNotifier publishes the replan signal on a NATS core subject.
// Falls back to an in-process notifier if the connection cannot be
// established.
type NATSNotifier struct {
	conn     *nats.Conn
	subject  string
	logger   zerolog.Logger
	fallback *InProcess
}

// NewNATSNotifier connects to cfg.URL and returns a notifier backed by
// it.
func NewNATSNotifier(cfg NATSConfig, logger zerolog.Logger) (*NATSNotifier, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
	)
	if err != nil {
		logger.Warn().Err(err).Str("url", cfg.URL).Msg("nats notifier unreachable, falling back to in-process")
		return &NATSNotifier{subject: cfg.Subject, logger: logger, fallback: NewInProcess()}, nil
	}

	return &NATSNotifier{conn: conn, subject: cfg.Subject, logger: logger}, nil
}

// NotifyObservers implements Notifier.
func (n *NATSNotifier) NotifyObservers(ctx context.Context) error {
	if n.conn == nil {
		return n.fallback.NotifyObservers(ctx)
	}
	correlationID := uuid.NewString()
	if err := n.conn.Publish(n.subject, []byte("replan:"+correlationID)); err != nil {
		n.logger.Warn().Err(err).Str("correlation_id", correlationID).Msg("nats publish failed")
		return err
	}
	return nil
}

// Close releases the NATS connection, if any.
func (n *NATSNotifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
