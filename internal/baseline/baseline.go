// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package baseline serializes, deserializes, and schema-validates the
// recorded-baseline document used as the attestation comparison
// reference.
package baseline

import (
	"bytes"
	"encoding/json"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Wythwool/bootattestor/internal/bootattestor"
)

const SchemaVersion = 1

// Baseline is the schema-versioned snapshot of expected register values
// and firmware-variable hashes used as the attestation reference.
type Baseline struct {
	SchemaVersion int                       `json:"schema_version"`
	Platform      string                    `json:"platform"`
	Digests       map[string]map[int]string `json:"digests"`
	Variables     map[string]string         `json:"variables"`
	CreatedAt     int64                     `json:"created_at"`
}

// wireBaseline mirrors Baseline but with the on-wire digests shape
// (register-index keys stringified), per spec.md §4.4's invariant.
type wireBaseline struct {
	SchemaVersion int                          `json:"schema_version"`
	Platform      string                       `json:"platform"`
	Digests       map[string]map[string]string `json:"digests"`
	Variables     map[string]string            `json:"variables"`
	CreatedAt     int64                        `json:"created_at"`
}

func toWire(b *Baseline) wireBaseline {
	w := wireBaseline{
		SchemaVersion: b.SchemaVersion,
		Platform:      b.Platform,
		Variables:     b.Variables,
		CreatedAt:     b.CreatedAt,
		Digests:       make(map[string]map[string]string, len(b.Digests)),
	}
	for alg, regs := range b.Digests {
		m := make(map[string]string, len(regs))
		for idx, hexDigest := range regs {
			m[strconv.Itoa(idx)] = hexDigest
		}
		w.Digests[alg] = m
	}
	return w
}

func fromWire(w wireBaseline) (*Baseline, error) {
	b := &Baseline{
		SchemaVersion: w.SchemaVersion,
		Platform:      w.Platform,
		Variables:     w.Variables,
		CreatedAt:     w.CreatedAt,
		Digests:       make(map[string]map[int]string, len(w.Digests)),
	}
	for alg, regs := range w.Digests {
		m := make(map[int]string, len(regs))
		for idxStr, hexDigest := range regs {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, errors.Wrapf(err, "digests.%s has non-integer register index %q", alg, idxStr)
			}
			m[idx] = hexDigest
		}
		b.Digests[alg] = m
	}
	return b, nil
}

// Save writes bl as schema-validated JSON to path.
func Save(path string, bl *Baseline) error {
	w := toWire(bl)
	raw, err := json.Marshal(w)
	if err != nil {
		return errors.Wrap(err, "marshaling baseline")
	}
	if err := validate(raw, baselineSchemaV1); err != nil {
		return err
	}
	if err := os.WriteFile(path, append(mustIndent(raw), '\n'), 0o644); err != nil {
		return bootattestor.IOError(errors.Wrapf(err, "writing baseline to %q", path))
	}
	return nil
}

// Load reads and schema-validates the baseline at path.
func Load(path string) (*Baseline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, bootattestor.IOError(errors.Wrapf(err, "reading baseline %q", path))
	}
	if err := validate(raw, baselineSchemaV1); err != nil {
		return nil, err
	}

	var w wireBaseline
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return nil, bootattestor.SchemaError(errors.Wrapf(err, "decoding baseline %q", path))
	}
	return fromWire(w)
}

func validate(doc []byte, schema string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return bootattestor.SchemaError(errors.Wrap(err, "evaluating baseline schema"))
	}
	if !result.Valid() {
		return bootattestor.SchemaError(errors.Errorf("baseline schema validation failed: %s", result.Errors()[0]))
	}
	return nil
}

func mustIndent(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return raw
	}
	return buf.Bytes()
}
