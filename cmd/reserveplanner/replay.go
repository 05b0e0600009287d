/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/reserveplanner/internal/store"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Print the tri-partitioned reservation list from the persisted document",
	Long:  "Loads the persisted document read-only and prints scheduled, conflicting, and skipped reservations. Performs no mutation.",
	RunE:  runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	st := store.New(cfg.ReservationsFile, logger)
	if err := st.Load(); err != nil {
		logger.Fatal().Err(err).Msg("persisted reservation document is unreadable")
	}

	plain, _ := st.Plain(nil, nil)
	fmt.Println("scheduled:")
	for _, r := range plain {
		fmt.Printf("  program=%d origin=%s startAt=%d endAt=%d\n", r.ProgramID(), r.Origin, r.Program.StartAt, r.Program.EndAt)
	}

	conflicts, _ := st.Conflicts(nil, nil)
	fmt.Println("conflicts:")
	for _, r := range conflicts {
		fmt.Printf("  program=%d origin=%s\n", r.ProgramID(), r.Origin)
	}

	skips, _ := st.Skips(nil, nil)
	fmt.Println("skips:")
	for _, r := range skips {
		fmt.Printf("  program=%d origin=%s\n", r.ProgramID(), r.Origin)
	}

	return nil
}
