// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Wythwool/bootattestor/internal/sbom"
)

func newSBOMCommand() *cobra.Command {
	var eventLogPath string
	var efivarsDir string
	var outFile string
	var logLevel string

	cmd := &cobra.Command{
		Use:           "sbom",
		Short:         "Exports a software bill of materials from the measured boot state",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			setLogLevel(logLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := loadEventLog(eventLogPath)
			if err != nil {
				return err
			}

			doc, err := sbom.Build(blob, efivarsDir, time.Now().Unix())
			if err != nil {
				return err
			}

			content, err := sbom.Render(doc)
			if err != nil {
				return err
			}

			return writeOutput(outFile, content)
		},
	}

	cmd.Flags().StringVarP(&eventLogPath, "event-log", "e", "", "Path to the binary measurement log (auto-discovered if omitted)")
	cmd.Flags().StringVar(&efivarsDir, "efivars", "", "Override directory for firmware-variable enumeration")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write the SBOM to this file instead of stdout")
	cmd.Flags().StringVarP(&logLevel, "log-level", "l", "error", "Log level: trace, debug, info, warn, error, fatal, panic")

	return cmd
}
