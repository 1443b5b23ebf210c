// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package report_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wythwool/bootattestor/internal/differ"
	"github.com/Wythwool/bootattestor/internal/policy"
	"github.com/Wythwool/bootattestor/internal/report"
)

func oneFinding() []differ.Finding {
	return []differ.Finding{
		{Kind: differ.KindPCRMismatch, ID: "REG7.sha256", Severity: policy.SeverityCritical, Message: "expected ab, got cd"},
	}
}

func TestRenderText_EmptyIsOK(t *testing.T) {
	assert.Equal(t, "OK: no mismatches", report.RenderText(nil))
}

func TestRenderText_OneFinding(t *testing.T) {
	got := report.RenderText(oneFinding())
	assert.Equal(t, "CRITICAL pcr-mismatch REG7.sha256 - expected ab, got cd\nTotal: 1", got)
}

func TestRenderJSON_Shape(t *testing.T) {
	out, err := report.RenderJSON(oneFinding())
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, float64(1), doc["version"])
	assert.Equal(t, float64(1), doc["summary"].(map[string]interface{})["total"])
	findings := doc["findings"].([]interface{})
	require.Len(t, findings, 1)
}

func TestRenderSARIF_Shape(t *testing.T) {
	out, err := report.RenderSARIF(oneFinding())
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "2.1.0", doc["version"])

	runs := doc["runs"].([]interface{})
	require.Len(t, runs, 1)
	run := runs[0].(map[string]interface{})
	driver := run["tool"].(map[string]interface{})["driver"].(map[string]interface{})
	rules := driver["rules"].([]interface{})
	require.Len(t, rules, 1)
	assert.Equal(t, differ.KindPCRMismatch, rules[0].(map[string]interface{})["id"])

	results := run["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "error", results[0].(map[string]interface{})["level"])
}

func TestRenderSARIF_EmptyFindingsProducesEmptyArrays(t *testing.T) {
	out, err := report.RenderSARIF(nil)
	require.NoError(t, err)
	assert.Contains(t, out, `"rules": []`)
	assert.Contains(t, out, `"results": []`)
}

func TestRenderJUnit_EmptyFindingsYieldsPassingCase(t *testing.T) {
	out, err := report.RenderJUnit(nil, "medium")
	require.NoError(t, err)
	assert.Contains(t, out, `tests="1"`)
	assert.Contains(t, out, `name="baseline"`)
	assert.NotContains(t, out, "<failure")
}

func TestRenderJUnit_FailureEmittedAtOrAboveThreshold(t *testing.T) {
	out, err := report.RenderJUnit(oneFinding(), "high")
	require.NoError(t, err)
	assert.Contains(t, out, "<failure")
	assert.Contains(t, out, `classname="pcr-mismatch"`)
}

func TestRenderJUnit_NoFailureBelowThreshold(t *testing.T) {
	findings := []differ.Finding{
		{Kind: differ.KindVarMismatch, ID: "x", Severity: policy.SeverityLow, Message: "m"},
	}
	out, err := report.RenderJUnit(findings, "high")
	require.NoError(t, err)
	assert.False(t, strings.Contains(out, "<failure"))
}

func TestRenderJUnit_FailOnNoneNeverEmitsFailure(t *testing.T) {
	findings := []differ.Finding{
		{Kind: differ.KindPCRMismatch, ID: "REG7.sha256", Severity: policy.SeverityCritical, Message: "m"},
	}
	out, err := report.RenderJUnit(findings, "none")
	require.NoError(t, err)
	assert.NotContains(t, out, "<failure")
}
