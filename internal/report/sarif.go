// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package report

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/Wythwool/bootattestor/internal/differ"
)

type sarifRule struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	ShortDescription map[string]string `json:"shortDescription"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID  string       `json:"ruleId"`
	Level   string       `json:"level"`
	Message sarifMessage `json:"message"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifDocument struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

func sarifLevel(sev string) string {
	switch sev {
	case "high", "critical":
		return "error"
	case "medium":
		return "warning"
	default:
		return "note"
	}
}

// RenderSARIF renders findings as a SARIF 2.1.0 "code-scanning" document:
// one rule per unique finding kind, one result per finding.
func RenderSARIF(findings []differ.Finding) (string, error) {
	ruleOrder := []string{}
	rules := map[string]sarifRule{}
	results := make([]sarifResult, 0, len(findings))

	for _, f := range findings {
		if _, ok := rules[f.Kind]; !ok {
			rules[f.Kind] = sarifRule{ID: f.Kind, Name: f.Kind, ShortDescription: map[string]string{"text": f.Kind}}
			ruleOrder = append(ruleOrder, f.Kind)
		}
		results = append(results, sarifResult{
			RuleID:  f.Kind,
			Level:   sarifLevel(string(f.Severity)),
			Message: sarifMessage{Text: fmt.Sprintf("%s: %s", f.ID, f.Message)},
		})
	}

	orderedRules := make([]sarifRule, 0, len(ruleOrder))
	for _, kind := range ruleOrder {
		orderedRules = append(orderedRules, rules[kind])
	}

	doc := sarifDocument{
		Version: "2.1.0",
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "bootattestor", Rules: orderedRules}},
			Results: results,
		}},
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshaling SARIF report")
	}
	return string(raw), nil
}
