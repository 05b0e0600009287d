/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/friendsincode/reserveplanner/internal/config"
	"github.com/friendsincode/reserveplanner/internal/logging"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "reserveplanner",
	Short: "Reservation planner for broadcast tuner scheduling",
	Long:  "reserveplanner allocates broadcast programs to tuners, resolving overlaps by a fixed authority order.",
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd, replayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration and sets up logging; called by every
// subcommand before it does anything else.
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = logging.Setup(cfg.Environment)
	return nil
}
