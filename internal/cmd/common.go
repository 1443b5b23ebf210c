// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package cmd wires the bootattestor CLI: command construction, flag
// parsing, and the exit-code mapping spec.md §6/§7 require.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const rootCmdName = "bootattestor"

// simpleFormatter logs message text only, without level/time prefixes —
// the CLI's output is the report content, not log noise.
type simpleFormatter struct{}

func (f *simpleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("%s\n", entry.Message)), nil
}

func init() {
	logrus.SetFormatter(&simpleFormatter{})
}

func setLogLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("unrecognized log level %q, defaulting to error", level)
		parsed = logrus.ErrorLevel
	}
	logrus.SetLevel(parsed)
}

// autoDiscoverEventLogPaths is the fixed probe order from spec.md §6.
var autoDiscoverEventLogPaths = []string{
	"/sys/kernel/security/tpm0/binary_bios_measurements",
	"/sys/kernel/security/tpm1/binary_bios_measurements",
	"/sys/firmware/tpm/tpm0/binary_bios_measurements",
	"/sys/firmware/tpm/tpm1/binary_bios_measurements",
}

func autoDiscoverEventLogPath() (string, bool) {
	for _, p := range autoDiscoverEventLogPaths {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

func loadEventLog(explicitPath string) ([]byte, error) {
	path := explicitPath
	if path == "" {
		found, ok := autoDiscoverEventLogPath()
		if !ok {
			return nil, argumentErrorf("event log not found; pass --event-log")
		}
		path = found
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioErrorf("reading event log %q: %v", path, err)
	}
	return data, nil
}
