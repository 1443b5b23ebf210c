// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// execute runs c with args, capturing combined stdout/stderr, mirroring
// the teacher CLI's test helper of the same name.
func execute(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	c.SetOut(buf)
	c.SetErr(buf)
	c.SetArgs(args)

	err := c.Execute()
	return strings.TrimSpace(buf.String()), err
}

func putU8(w *bytes.Buffer, v uint8)   { w.WriteByte(v) }
func putU16(w *bytes.Buffer, v uint16) { var b [2]byte; binary.LittleEndian.PutUint16(b[:], v); w.Write(b[:]) }
func putU32(w *bytes.Buffer, v uint32) { var b [4]byte; binary.LittleEndian.PutUint32(b[:], v); w.Write(b[:]) }

// minimalEventLog builds a well-formed crypto-agile event log containing
// a single SHA-256 extension into register 7, matching the on-wire shape
// the tcg package's own fixtures use.
func minimalEventLog(t *testing.T, digest []byte) []byte {
	t.Helper()

	var header bytes.Buffer
	putU32(&header, 0) // register index
	putU32(&header, 0x00000003) // EV_NO_ACTION
	putU32(&header, 0)          // legacy digest count

	var spec bytes.Buffer
	spec.WriteString("Spec ID Event03\x00")
	spec.Truncate(16)
	putU32(&spec, 0) // platform class
	putU8(&spec, 2)  // version minor
	putU8(&spec, 0)  // version major
	putU8(&spec, 2)  // errata
	putU8(&spec, 0)  // uintn size
	putU32(&spec, 1) // one algorithm
	putU16(&spec, 0x000B) // TPM_ALG_SHA256
	putU16(&spec, 32)
	putU8(&spec, 0) // vendor info length

	putU32(&header, uint32(spec.Len()))
	header.Write(spec.Bytes())

	var events bytes.Buffer
	putU32(&events, 7)          // register index
	putU32(&events, 0x80000001) // EV_EFI_VARIABLE_DRIVER_CONFIG
	putU32(&events, 1)          // one digest
	putU16(&events, 0x000B)
	events.Write(digest)
	putU32(&events, uint32(len("payload")))
	events.WriteString("payload")

	out := append([]byte{}, header.Bytes()...)
	return append(out, events.Bytes()...)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// writeEFIVariable writes name-guid into dir using the override
// directory's on-disk layout: a 4-byte little-endian attributes header
// followed by the raw variable data.
func writeEFIVariable(t *testing.T, dir, name, guid string, data []byte) {
	t.Helper()
	var attrs [4]byte
	writeFile(t, filepath.Join(dir, name+"-"+guid), append(attrs[:], data...))
}
