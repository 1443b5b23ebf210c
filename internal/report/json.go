// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package report

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/Wythwool/bootattestor/internal/differ"
)

type jsonSummary struct {
	Total int `json:"total"`
}

type jsonDocument struct {
	Version  int              `json:"version"`
	Findings []differ.Finding `json:"findings"`
	Summary  jsonSummary      `json:"summary"`
}

// RenderJSON renders findings as the structured document
// { version, findings, summary: { total } }, indented for readability.
func RenderJSON(findings []differ.Finding) (string, error) {
	if findings == nil {
		findings = []differ.Finding{}
	}
	doc := jsonDocument{
		Version:  1,
		Findings: findings,
		Summary:  jsonSummary{Total: len(findings)},
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshaling findings report")
	}
	return string(raw), nil
}
