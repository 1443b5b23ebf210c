// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/Wythwool/bootattestor/internal/baseline"
	"github.com/Wythwool/bootattestor/internal/efivars"
	"github.com/Wythwool/bootattestor/internal/replay"
	"github.com/Wythwool/bootattestor/internal/tcg"
)

func newBaselineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage recorded baselines",
	}
	cmd.AddCommand(newBaselineCreateCommand())
	return cmd
}

func newBaselineCreateCommand() *cobra.Command {
	var eventLogPath string
	var efivarsDir string
	var platform string
	var outPath string
	var logLevel string

	cmd := &cobra.Command{
		Use:           "create",
		Short:         "Records the current boot state as a new baseline document",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			setLogLevel(logLevel)
			if outPath == "" {
				return argumentErrorf("--output is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := loadEventLog(eventLogPath)
			if err != nil {
				return err
			}

			table, events, err := tcg.ParseEventLog(blob)
			if err != nil {
				return err
			}
			banks := replay.Replay(table, events)

			vars, err := efivars.NewReader(efivarsDir).ReadVariables()
			if err != nil {
				return err
			}

			p := platform
			if p == "" {
				p = defaultPlatformName()
			}

			bl := &baseline.Baseline{
				SchemaVersion: baseline.SchemaVersion,
				Platform:      p,
				Digests:       banks.HexDigests(),
				Variables:     efivars.HashVariables(vars),
				CreatedAt:     time.Now().Unix(),
			}

			if err := baseline.Save(outPath, bl); err != nil {
				return err
			}
			fmt.Printf("baseline written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventLogPath, "event-log", "e", "", "Path to the binary measurement log (auto-discovered if omitted)")
	cmd.Flags().StringVar(&efivarsDir, "efivars", "", "Override directory for firmware-variable enumeration")
	cmd.Flags().StringVar(&platform, "platform", "", "Platform label recorded in the baseline (defaults to the host OS)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Path to write the new baseline document")
	cmd.Flags().StringVarP(&logLevel, "log-level", "l", "error", "Log level: trace, debug, info, warn, error, fatal, panic")

	return cmd
}

func defaultPlatformName() string {
	if runtime.GOOS == "windows" {
		return "windows"
	}
	return "linux"
}
