// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package policy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wythwool/bootattestor/internal/bootattestor"
	"github.com/Wythwool/bootattestor/internal/policy"
)

func TestDefault_MatchesSpecDefaults(t *testing.T) {
	d := policy.Default()
	assert.Equal(t, []int{7}, d.Critical)
	assert.Equal(t, []int{0, 2, 4, 5}, d.High)
	assert.Empty(t, d.Medium)
	assert.Empty(t, d.Low)
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	p, err := policy.Load("")
	require.NoError(t, err)
	assert.Equal(t, policy.Default(), p)
}

func TestLoad_CustomDocumentOverridesOnlyGivenBuckets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"critical":[0,1]}`), 0o644))

	p, err := policy.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, p.Critical)
	assert.Equal(t, []int{0, 2, 4, 5}, p.High)
}

func TestLoad_RejectsNonObjectDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1,2,3]`), 0o644))

	_, err := policy.Load(path)
	require.Error(t, err)
	var be *bootattestor.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, bootattestor.KindSchema, be.Kind)
}

func TestLoad_RejectsOutOfRangeIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"critical":[99]}`), 0o644))

	_, err := policy.Load(path)
	require.Error(t, err)
}

func TestSeverityFor_BucketOrderAndDefault(t *testing.T) {
	p := policy.Policy{Critical: []int{7}, High: []int{0, 2}, Medium: []int{3}, Low: []int{}}
	assert.Equal(t, policy.SeverityCritical, policy.SeverityFor(7, p))
	assert.Equal(t, policy.SeverityHigh, policy.SeverityFor(0, p))
	assert.Equal(t, policy.SeverityMedium, policy.SeverityFor(3, p))
	assert.Equal(t, policy.SeverityLow, policy.SeverityFor(23, p))
}
