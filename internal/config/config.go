/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package config covers process level configuration read from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// NotifyBackend selects the IPC collaborator implementation.
type NotifyBackend string

const (
	NotifyInProcess NotifyBackend = "inprocess"
	NotifyRedis     NotifyBackend = "redis"
	NotifyNATS      NotifyBackend = "nats"
)

// Config covers process level configuration read from environment
// variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int

	DataDir          string
	ReservationsFile string
	TunersFile       string

	NotifyBackend NotifyBackend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	NATSURL       string

	MetricsBind string

	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64

	LegacyEnvWarnings []string
}

// Load reads environment variables, applies defaults, and validates
// the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnvAny([]string{"RESERVEPLANNER_ENV"}, "development"),
		HTTPBind:    getEnvAny([]string{"RESERVEPLANNER_HTTP_BIND"}, "0.0.0.0"),
		HTTPPort:    getEnvIntAny([]string{"RESERVEPLANNER_HTTP_PORT"}, 8090),

		DataDir:          getEnvAny([]string{"RESERVEPLANNER_DATA_DIR"}, "./data"),
		ReservationsFile: getEnvAny([]string{"RESERVEPLANNER_RESERVATIONS_FILE"}, ""),
		TunersFile:       getEnvAny([]string{"RESERVEPLANNER_TUNERS_FILE"}, ""),

		NotifyBackend: NotifyBackend(getEnvAny([]string{"RESERVEPLANNER_NOTIFY_BACKEND"}, string(NotifyInProcess))),
		RedisAddr:     getEnvAny([]string{"RESERVEPLANNER_REDIS_ADDR"}, "localhost:6379"),
		RedisPassword: getEnvAny([]string{"RESERVEPLANNER_REDIS_PASSWORD"}, ""),
		RedisDB:       getEnvIntAny([]string{"RESERVEPLANNER_REDIS_DB"}, 0),
		NATSURL:       getEnvAny([]string{"RESERVEPLANNER_NATS_URL"}, "nats://localhost:4222"),

		MetricsBind: getEnvAny([]string{"RESERVEPLANNER_METRICS_BIND"}, "127.0.0.1:9100"),

		TracingEnabled:    getEnvBoolAny([]string{"RESERVEPLANNER_TRACING_ENABLED"}, false),
		OTLPEndpoint:      getEnvAny([]string{"RESERVEPLANNER_OTLP_ENDPOINT"}, "localhost:4317"),
		TracingSampleRate: getEnvFloatAny([]string{"RESERVEPLANNER_TRACING_SAMPLE_RATE"}, 1.0),
	}

	if cfg.ReservationsFile == "" {
		cfg.ReservationsFile = cfg.DataDir + "/reserves.json"
	}

	switch cfg.NotifyBackend {
	case NotifyInProcess, NotifyRedis, NotifyNATS:
	default:
		return nil, fmt.Errorf("unsupported notify backend %q", cfg.NotifyBackend)
	}

	cfg.LegacyEnvWarnings = detectLegacyEnvWarnings()

	return cfg, nil
}

func detectLegacyEnvWarnings() []string {
	legacy := map[string]string{
		"ENVIRONMENT":     "use RESERVEPLANNER_ENV",
		"TRACING_ENABLED": "use RESERVEPLANNER_TRACING_ENABLED",
		"OTLP_ENDPOINT":   "use RESERVEPLANNER_OTLP_ENDPOINT",
	}

	warnings := make([]string, 0, len(legacy))
	for key, recommendation := range legacy {
		if os.Getenv(key) != "" {
			warnings = append(warnings, fmt.Sprintf("legacy env key %s is set; %s", key, recommendation))
		}
	}
	return warnings
}

// getEnvAny returns the first non-empty environment variable value
// from keys, or def if none set.
func getEnvAny(keys []string, def string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

// getEnvIntAny returns the first set integer environment variable
// value from keys, or def.
func getEnvIntAny(keys []string, def int) int {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return def
}

// getEnvBoolAny returns the first set boolean environment variable
// value from keys, or def.
func getEnvBoolAny(keys []string, def bool) bool {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "true" || v == "1" || v == "yes" {
				return true
			}
			if v == "false" || v == "0" || v == "no" {
				return false
			}
		}
	}
	return def
}

// getEnvFloatAny returns the first set float environment variable
// value from keys, or def.
func getEnvFloatAny(keys []string, def float64) float64 {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return def
}
