// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package sbom exports a lightweight software bill of materials from the
// parsed event log and enumerated firmware variables. It is a
// supplemental feature carried over from original_source's
// export_sbom, not one of the spec's three core components.
package sbom

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/Wythwool/bootattestor/internal/efivars"
	"github.com/Wythwool/bootattestor/internal/tcg"
)

const generatorName = "bootattestor"
const generatorVersion = "0.2.0"

// Component is one inventoried item: either an EFI image measured during
// boot, or a firmware variable.
type Component struct {
	Type    string            `json:"type"`
	Path    string            `json:"path,omitempty"`
	Name    string            `json:"name,omitempty"`
	GUID    string            `json:"guid,omitempty"`
	Register int              `json:"pcr,omitempty"`
	SHA256  string            `json:"sha256,omitempty"`
	Size    int               `json:"size,omitempty"`
	Attrs   uint32            `json:"attrs,omitempty"`
	Digests map[string]string `json:"digests,omitempty"`
}

type generator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Document is the top-level SBOM document.
type Document struct {
	SchemaVersion int         `json:"schema_version"`
	Generator     generator   `json:"generator"`
	GeneratedAt   int64       `json:"generated_at"`
	Components    []Component `json:"components"`
}

var measuredEventTypes = map[uint32]bool{
	tcg.EventEFIBootServicesApplication: true,
	tcg.EventEFIBootServicesDriver:      true,
	tcg.EventEFIRuntimeServicesDriver:   true,
}

// Build parses eventLogBlob and the firmware variables in overrideDir
// (or the host platform backend if empty) into an SBOM document, stamped
// with generatedAt (Unix seconds, supplied by the caller since the core
// packages never read the clock themselves).
func Build(eventLogBlob []byte, overrideDir string, generatedAt int64) (*Document, error) {
	_, events, err := tcg.ParseEventLog(eventLogBlob)
	if err != nil {
		return nil, err
	}

	components := make([]Component, 0, len(events))
	for _, ev := range events {
		if !measuredEventTypes[ev.EventType] {
			continue
		}
		digests := make(map[string]string, len(ev.Digests))
		for alg, d := range ev.Digests {
			digests[tcg.AlgorithmName(alg)] = hex.EncodeToString(d)
		}
		components = append(components, Component{
			Type:     "efi_image",
			Register: ev.RegisterIndex,
			Path:     extractEFIPath(ev.Data),
			Digests:  digests,
		})
	}

	vars, err := efivars.NewReader(overrideDir).ReadVariables()
	if err != nil {
		return nil, err
	}
	for _, key := range sortedVarKeys(vars) {
		v := vars[key]
		sum := sha256.Sum256(v.Data)
		components = append(components, Component{
			Type:   "uefi_variable",
			Name:   key.Name,
			GUID:   key.GUID,
			SHA256: hex.EncodeToString(sum[:]),
			Size:   len(v.Data),
			Attrs:  v.Attrs,
		})
	}

	return &Document{
		SchemaVersion: 1,
		Generator:     generator{Name: generatorName, Version: generatorVersion},
		GeneratedAt:   generatedAt,
		Components:    components,
	}, nil
}

// Render marshals doc as indented JSON.
func Render(doc *Document) (string, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshaling sbom document")
	}
	return string(raw), nil
}

// sortedVarKeys orders a variable map's keys by their string form so
// component ordering is deterministic run-to-run, mirroring the differ
// package's sorted iteration over baseline maps.
func sortedVarKeys(vars map[efivars.Key]efivars.Variable) []efivars.Key {
	keys := make([]efivars.Key, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// extractEFIPath heuristically pulls an EFI image path out of a boot
// event's payload, matching the marker-scan the original implementation
// used: the first "\EFI\" or "/EFI/" run up to the next ".efi".
func extractEFIPath(data []byte) string {
	s := string(data)
	for _, marker := range []string{`\EFI\`, "/EFI/"} {
		start := strings.Index(s, marker)
		if start == -1 {
			continue
		}
		end := strings.Index(s[start:], ".efi")
		if end == -1 {
			continue
		}
		return s[start : start+end+len(".efi")]
	}
	return ""
}
