// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package report renders a diff's findings in the four output formats
// the CLI supports: plain text, structured JSON, SARIF code-scanning,
// and JUnit-style XML.
package report

import (
	"fmt"
	"strings"

	"github.com/Wythwool/bootattestor/internal/differ"
)

// RenderText renders findings as one line each, in the form
// "SEVERITY kind id - message", with a trailing total line. An empty
// finding list renders as a single "OK" line.
func RenderText(findings []differ.Finding) string {
	if len(findings) == 0 {
		return "OK: no mismatches"
	}
	lines := make([]string, 0, len(findings)+1)
	for _, f := range findings {
		lines = append(lines, fmt.Sprintf("%s %s %s - %s", strings.ToUpper(string(f.Severity)), f.Kind, f.ID, f.Message))
	}
	lines = append(lines, fmt.Sprintf("Total: %d", len(findings)))
	return strings.Join(lines, "\n")
}
