// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package policy resolves register indices to severities under a
// user-supplied or default severity policy.
package policy

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Wythwool/bootattestor/internal/bootattestor"
)

// Severity is a finding's assigned severity bucket.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities for threshold comparisons, matching the CLI's
// --fail-on scale (info sits below low, never itself assigned). "none"
// ranks above every real severity so --fail-on none never triggers a
// failure, regardless of what findings are present.
var Rank = map[string]int{
	"info":                   1,
	string(SeverityLow):      2,
	string(SeverityMedium):   3,
	string(SeverityHigh):     4,
	string(SeverityCritical): 5,
	"none":                   6,
}

// Policy maps severities to the register indices that belong to them.
type Policy struct {
	Critical []int `json:"critical"`
	High     []int `json:"high"`
	Medium   []int `json:"medium"`
	Low      []int `json:"low"`
}

// Default matches spec.md §4.5's hard-coded default: register 7 is
// critical (Secure Boot policy), 0/2/4/5 are high, nothing else is
// pre-classified.
func Default() Policy {
	return Policy{
		Critical: []int{7},
		High:     []int{0, 2, 4, 5},
		Medium:   []int{},
		Low:      []int{},
	}
}

// Load reads a policy document from path, or returns Default if path is
// empty. A present-but-malformed document is a fatal schema_error.
func Load(path string) (Policy, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, bootattestor.IOError(errors.Wrapf(err, "reading policy %q", path))
	}

	var probe interface{}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Policy{}, bootattestor.SchemaError(errors.Wrapf(err, "parsing policy %q", path))
	}
	if _, ok := probe.(map[string]interface{}); !ok {
		return Policy{}, bootattestor.SchemaError(errors.New("policy must be a JSON object with severity arrays"))
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(policySchemaV1),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return Policy{}, bootattestor.SchemaError(errors.Wrap(err, "evaluating policy schema"))
	}
	if !result.Valid() {
		return Policy{}, bootattestor.SchemaError(errors.Errorf("policy schema validation failed: %s", result.Errors()[0]))
	}

	p := Default()
	if err := json.Unmarshal(raw, &p); err != nil {
		return Policy{}, bootattestor.SchemaError(errors.Wrapf(err, "decoding policy %q", path))
	}
	return p, nil
}

// SeverityFor resolves idx's severity in bucket order critical, high,
// medium, low, defaulting to low if idx appears in none of them.
func SeverityFor(idx int, p Policy) Severity {
	if contains(p.Critical, idx) {
		return SeverityCritical
	}
	if contains(p.High, idx) {
		return SeverityHigh
	}
	if contains(p.Medium, idx) {
		return SeverityMedium
	}
	return SeverityLow
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
