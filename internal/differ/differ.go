// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package differ compares a recorded baseline against the current boot
// state and produces an ordered list of findings.
package differ

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Wythwool/bootattestor/internal/baseline"
	"github.com/Wythwool/bootattestor/internal/efivars"
	"github.com/Wythwool/bootattestor/internal/policy"
	"github.com/Wythwool/bootattestor/internal/replay"
	"github.com/Wythwool/bootattestor/internal/tcg"
)

// Finding kinds, per spec.md §4.6.
const (
	KindBankMissing = "bank-missing"
	KindPCRMismatch = "pcr-mismatch"
	KindVarMismatch = "var-mismatch"
)

// Finding is a single discrepancy between the baseline and current state.
type Finding struct {
	Kind     string          `json:"kind"`
	ID       string          `json:"id"`
	Severity policy.Severity `json:"severity"`
	Message  string          `json:"message"`
}

// Diff parses eventLogBlob, replays registers, reads firmware variables
// from overrideDir (or the host's platform backend if empty), and
// compares the result against bl under p. Findings are returned in
// bank-missing, pcr-mismatch, var-mismatch order.
func Diff(bl *baseline.Baseline, eventLogBlob []byte, overrideDir string, p policy.Policy) ([]Finding, error) {
	table, events, err := tcg.ParseEventLog(eventLogBlob)
	if err != nil {
		return nil, err
	}
	banksNow := replay.Replay(table, events)
	hexNow := banksNow.HexDigests()

	varsNow, err := efivars.NewReader(overrideDir).ReadVariables()
	if err != nil {
		return nil, err
	}
	hashesNow := efivars.HashVariables(varsNow)

	var findings []Finding

	for _, alg := range sortedKeys(bl.Digests) {
		if _, ok := hexNow[alg]; !ok {
			findings = append(findings, Finding{
				Kind:     KindBankMissing,
				ID:       alg,
				Severity: policy.SeverityHigh,
				Message:  fmt.Sprintf("bank %s not present in event log", alg),
			})
		}
	}

	for _, alg := range sortedKeys(bl.Digests) {
		curBank := hexNow[alg]
		for _, idx := range sortedIntKeys(bl.Digests[alg]) {
			expHex := bl.Digests[alg][idx]
			gotHex, present := curBank[idx]
			if !present || !strings.EqualFold(gotHex, expHex) {
				observed := "missing"
				if present {
					observed = gotHex
				}
				findings = append(findings, Finding{
					Kind:     KindPCRMismatch,
					ID:       fmt.Sprintf("REG%d.%s", idx, alg),
					Severity: policy.SeverityFor(idx, p),
					Message:  fmt.Sprintf("expected %s, got %s", expHex, observed),
				})
			}
		}
	}

	for _, key := range sortedKeys(bl.Variables) {
		expHex := bl.Variables[key]
		gotHex, present := hashesNow[key]
		if !present || !strings.EqualFold(gotHex, expHex) {
			observed := "missing"
			if present {
				observed = gotHex
			}
			findings = append(findings, Finding{
				Kind:     KindVarMismatch,
				ID:       key,
				Severity: policy.SeverityHigh,
				Message:  fmt.Sprintf("variable changed: expected %s, got %s", expHex, observed),
			})
		}
	}

	return findings, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIntKeys(m map[int]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
