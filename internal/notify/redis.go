/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig configures the Redis pub/sub backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string

	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedisConfig returns sane defaults for local development.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "localhost:6379",
		Channel:      "reserveplanner.replan",
		DialTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// RedisNotifier publishes the replan signal on a Redis channel. Falls
// back to an in-process notifier if the connection cannot be
// established, so the planner never fails to start over a missing
// broker.
type RedisNotifier struct {
	client   *redis.Client
	channel  string
	logger   zerolog.Logger
	fallback *InProcess
}

// NewRedisNotifier dials cfg.Addr and returns a notifier backed by it.
func NewRedisNotifier(cfg RedisConfig, logger zerolog.Logger) (*RedisNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis notifier unreachable, falling back to in-process")
		return &RedisNotifier{channel: cfg.Channel, logger: logger, fallback: NewInProcess()}, nil
	}

	return &RedisNotifier{client: client, channel: cfg.Channel, logger: logger}, nil
}

// NotifyObservers implements Notifier.
func (n *RedisNotifier) NotifyObservers(ctx context.Context) error {
	if n.client == nil {
		return n.fallback.NotifyObservers(ctx)
	}
	correlationID := uuid.NewString()
	if err := n.client.Publish(ctx, n.channel, "replan:"+correlationID).Err(); err != nil {
		n.logger.Warn().Err(err).Str("correlation_id", correlationID).Msg("redis publish failed")
		return err
	}
	return nil
}

// Close releases the Redis connection, if any.
func (n *RedisNotifier) Close() error {
	if n.client == nil {
		return nil
	}
	return n.client.Close()
}
