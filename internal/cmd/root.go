// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   rootCmdName,
	Short: "Parses, replays, and diffs TCG/UEFI boot-measurement logs against a recorded baseline",
	Long: `bootattestor records and verifies boot-integrity baselines from a host's
crypto-agile TCG event log and UEFI firmware variables. It parses the
binary measurement log, replays the measurement registers, and compares
the result against a previously recorded baseline under a severity
policy, emitting findings in text, JSON, SARIF, or JUnit format.`,
}

// Execute adds all child commands to the root command and runs it,
// translating the result into the process exit code spec.md §6/§7
// require: 0 on a clean attestation (or any non-diff command
// succeeding), 1 when findings meet or exceed --fail-on, 2 on any
// fatal operational error.
func Execute() {
	rootCmd.AddCommand(newAttestCommand())
	rootCmd.AddCommand(newBaselineCommand())
	rootCmd.AddCommand(newSBOMCommand())
	rootCmd.AddCommand(newVersionCommand())

	err := rootCmd.Execute()
	if err == nil {
		os.Exit(0)
	}
	if _, ok := err.(*findingsPresentError); ok {
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(exitCodeFor(err))
}
