// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package efivars enumerates firmware (UEFI) variables into a uniform
// (name, namespace GUID) -> {data, attributes} map, behind a
// capability-typed strategy chosen once at construction: an override
// directory, the Linux firmware-variables pseudo-filesystem, the Windows
// native retrieval entry point, or (on unsupported platforms) a no-op
// reader.
package efivars

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"

	"github.com/google/uuid"
)

// Key identifies a firmware variable by name and namespace GUID.
type Key struct {
	Name string
	GUID string // canonical 8-4-4-4-12 lowercase form
}

// String renders the key in the "NAME-guid" form used by baseline
// documents and override-directory filenames.
func (k Key) String() string {
	return fmt.Sprintf("%s-%s", k.Name, k.GUID)
}

// Variable carries a firmware variable's raw contents and attributes.
type Variable struct {
	Data  []byte
	Attrs uint32
}

// Reader enumerates the firmware variables visible on this host (or
// override directory).
type Reader interface {
	ReadVariables() (map[Key]Variable, error)
}

// NewReader selects a Reader implementation: an override directory always
// wins, otherwise the platform-appropriate backend is chosen by GOOS.
func NewReader(overrideDir string) Reader {
	if overrideDir != "" {
		return &overrideReader{dir: overrideDir}
	}
	switch {
	case runtime.GOOS == "linux":
		return &linuxReader{root: defaultLinuxEfivarsRoot}
	case runtime.GOOS == "windows":
		return newWindowsReader()
	default:
		return noopReader{}
	}
}

type noopReader struct{}

func (noopReader) ReadVariables() (map[Key]Variable, error) { return map[Key]Variable{}, nil }

// HashVariables projects a variable map into hex-encoded SHA-256 content
// hashes keyed by "NAME-guid", the form used by baseline documents and
// the differ.
func HashVariables(vars map[Key]Variable) map[string]string {
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		sum := sha256.Sum256(v.Data)
		out[k.String()] = hex.EncodeToString(sum[:])
	}
	return out
}

// canonicalGUID parses guid (in any UUID-accepted form) and renders it in
// canonical 8-4-4-4-12 lowercase form.
func canonicalGUID(guid string) (string, error) {
	u, err := uuid.Parse(guid)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
