/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/friendsincode/reserveplanner/internal/catalogue"
	"github.com/friendsincode/reserveplanner/internal/notify"
	"github.com/friendsincode/reserveplanner/internal/planner"
	"github.com/friendsincode/reserveplanner/internal/store"
	"github.com/friendsincode/reserveplanner/internal/telemetry"
	"github.com/friendsincode/reserveplanner/internal/tvmodel"
)

var tunersPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reservation planner process",
	Long:  "Loads configuration, wires collaborators, and blocks until terminated, exposing Prometheus metrics on its own bind address.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&tunersPath, "tuners", "", "path to a YAML tuner inventory file")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	logger.Info().Msg("reservation planner starting")

	tracerProvider, err := telemetry.InitTracer(context.Background(), telemetry.TracerConfig{
		ServiceName:    "reserveplanner",
		ServiceVersion: "0.1.0",
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
		SampleRate:     cfg.TracingSampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to shut down tracer provider")
		}
	}()

	notifier, err := newNotifier()
	if err != nil {
		return fmt.Errorf("build notifier: %w", err)
	}

	st := store.New(cfg.ReservationsFile, logger)
	p := planner.New(catalogue.NewMemCatalogue(), catalogue.NewMemRuleStore(), st, notifier, logger)
	if err := p.Load(); err != nil {
		logger.Fatal().Err(err).Msg("persisted reservation document is unreadable")
	}

	if tunersPath != "" {
		tuners, err := loadTuners(tunersPath)
		if err != nil {
			return fmt.Errorf("load tuners: %w", err)
		}
		if err := p.SetTuners(context.Background(), tuners); err != nil {
			return fmt.Errorf("set tuners: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler())
	metricsServer := &http.Server{Addr: cfg.MetricsBind, Handler: mux}

	go func() {
		logger.Info().Str("addr", cfg.MetricsBind).Msg("metrics listening")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("metrics server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down gracefully...")
	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(timeoutCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("reservation planner stopped")
	return nil
}

func newNotifier() (notify.Notifier, error) {
	switch cfg.NotifyBackend {
	case "redis":
		return notify.NewRedisNotifier(notify.RedisConfig{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			Channel:      "reserveplanner.replan",
			DialTimeout:  5 * time.Second,
			WriteTimeout: 3 * time.Second,
		}, logger)
	case "nats":
		return notify.NewNATSNotifier(notify.NATSConfig{
			URL:           cfg.NATSURL,
			Subject:       "reserveplanner.replan",
			MaxReconnects: -1,
			ReconnectWait: 2 * time.Second,
			Timeout:       5 * time.Second,
		}, logger)
	default:
		return notify.NewInProcess(), nil
	}
}

func loadTuners(path string) ([]tvmodel.TunerDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tuners []tvmodel.TunerDescriptor
	if err := yaml.Unmarshal(data, &tuners); err != nil {
		return nil, fmt.Errorf("parse tuner inventory: %w", err)
	}
	return tuners, nil
}
