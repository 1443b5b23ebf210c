// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Wythwool/bootattestor/internal/baseline"
	"github.com/Wythwool/bootattestor/internal/differ"
	"github.com/Wythwool/bootattestor/internal/policy"
	"github.com/Wythwool/bootattestor/internal/report"
)

func newAttestCommand() *cobra.Command {
	var eventLogPath string
	var baselinePath string
	var efivarsDir string
	var policyPath string
	var format string
	var outFile string
	var failOn string
	var logLevel string

	cmd := &cobra.Command{
		Use:           "attest",
		Short:         "Compares the current boot state against a recorded baseline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			setLogLevel(logLevel)
			if baselinePath == "" {
				return argumentErrorf("--baseline is required")
			}
			switch format {
			case "text", "json", "sarif", "junit":
			default:
				return argumentErrorf("unsupported --format %q", format)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			bl, err := baseline.Load(baselinePath)
			if err != nil {
				return err
			}

			p, err := policy.Load(policyPath)
			if err != nil {
				return err
			}

			blob, err := loadEventLog(eventLogPath)
			if err != nil {
				return err
			}

			findings, err := differ.Diff(bl, blob, efivarsDir, p)
			if err != nil {
				return err
			}

			content, err := renderFindings(format, findings, failOn)
			if err != nil {
				return err
			}

			if err := writeOutput(outFile, content); err != nil {
				return err
			}

			if worstSeverityMeetsThreshold(findings, failOn) {
				return &findingsPresentError{}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventLogPath, "event-log", "e", "", "Path to the binary measurement log (auto-discovered if omitted)")
	cmd.Flags().StringVarP(&baselinePath, "baseline", "b", "", "Path to the baseline document to compare against")
	cmd.Flags().StringVar(&efivarsDir, "efivars", "", "Override directory for firmware-variable enumeration")
	cmd.Flags().StringVar(&policyPath, "policy", "", "Path to a severity policy document (defaults to the built-in policy)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Report format: text, json, sarif, junit")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().StringVar(&failOn, "fail-on", "medium", "Minimum severity that causes a non-zero exit: info, low, medium, high, critical, none")
	cmd.Flags().StringVarP(&logLevel, "log-level", "l", "error", "Log level: trace, debug, info, warn, error, fatal, panic")

	return cmd
}

// findingsPresentError signals exit code 1 (findings at/above threshold)
// distinctly from a fatal operational error (exit code 2).
type findingsPresentError struct{}

func (*findingsPresentError) Error() string { return "findings at or above the fail-on threshold" }

func worstSeverityMeetsThreshold(findings []differ.Finding, failOn string) bool {
	threshold, ok := policy.Rank[failOn]
	if !ok {
		threshold = policy.Rank[string(policy.SeverityMedium)]
	}
	worst := 0
	for _, f := range findings {
		if r := policy.Rank[string(f.Severity)]; r > worst {
			worst = r
		}
	}
	return worst >= threshold
}

func renderFindings(format string, findings []differ.Finding, failOn string) (string, error) {
	switch format {
	case "text":
		return report.RenderText(findings), nil
	case "json":
		return report.RenderJSON(findings)
	case "sarif":
		return report.RenderSARIF(findings)
	case "junit":
		return report.RenderJUnit(findings, failOn)
	default:
		return "", argumentErrorf("unsupported format %q", format)
	}
}

func writeOutput(outFile, content string) error {
	if outFile == "" {
		fmt.Println(content)
		return nil
	}
	if dir := filepath.Dir(outFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ioErrorf("creating output directory %q: %v", dir, err)
		}
	}
	if err := os.WriteFile(outFile, []byte(content+"\n"), 0o644); err != nil {
		return ioErrorf("writing report to %q: %v", outFile, err)
	}
	return nil
}
