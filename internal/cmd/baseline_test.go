// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wythwool/bootattestor/internal/bootattestor"
)

func TestBaselineCreateCmd_RequiresOutput(t *testing.T) {
	_, err := execute(t, newBaselineCreateCommand())
	require.Error(t, err)
	var be *bootattestor.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, bootattestor.KindArgument, be.Kind)
}

func TestBaselineCreateCmd_WritesSchemaValidDocument(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "eventlog")
	writeFile(t, logPath, minimalEventLog(t, bytes.Repeat([]byte{0x42}, 32)))
	efivarsDir := filepath.Join(dir, "efivars")
	require.NoError(t, os.MkdirAll(efivarsDir, 0o755))
	outPath := filepath.Join(dir, "baseline.json")

	_, err := execute(t, newBaselineCreateCommand(),
		"--event-log", logPath,
		"--efivars", efivarsDir,
		"--platform", "test-platform",
		"--output", outPath,
	)
	require.NoError(t, err)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, float64(1), doc["schema_version"])
	assert.Equal(t, "test-platform", doc["platform"])
	digests := doc["digests"].(map[string]interface{})["sha256"].(map[string]interface{})
	assert.Contains(t, digests, "7")
}

func TestBaselineCreateCmd_DefaultsPlatformToHostOS(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "eventlog")
	writeFile(t, logPath, minimalEventLog(t, bytes.Repeat([]byte{0x42}, 32)))
	efivarsDir := filepath.Join(dir, "efivars")
	require.NoError(t, os.MkdirAll(efivarsDir, 0o755))
	outPath := filepath.Join(dir, "baseline.json")

	_, err := execute(t, newBaselineCreateCommand(),
		"--event-log", logPath,
		"--efivars", efivarsDir,
		"--output", outPath,
	)
	require.NoError(t, err)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, defaultPlatformName(), doc["platform"])
}
