// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package replay_test

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wythwool/bootattestor/internal/replay"
	"github.com/Wythwool/bootattestor/internal/tcg"
)

func TestReplay_YieldsAllRegistersForSupportedAlgorithm(t *testing.T) {
	table := tcg.AlgorithmTable{tcg.AlgSHA256: 32}
	banks := replay.Replay(table, nil)

	require.Contains(t, banks, "sha256")
	bank := banks["sha256"]
	assert.Len(t, bank, replay.NumRegisters)
	for _, reg := range bank {
		assert.Len(t, reg, 32)
		assert.True(t, bytes.Equal(reg, make([]byte, 32)))
	}
}

func TestReplay_ExtendsRegister(t *testing.T) {
	table := tcg.AlgorithmTable{tcg.AlgSHA256: 32}
	digest := bytes.Repeat([]byte{0xAB}, 32)
	events := []tcg.Event{
		{RegisterIndex: 7, EventType: tcg.EventEFIVariableDriverConfig, Digests: map[tcg.AlgorithmID][]byte{tcg.AlgSHA256: digest}},
	}

	banks := replay.Replay(table, events)

	want := sha256.Sum256(append(make([]byte, 32), digest...))
	assert.Equal(t, want[:], []byte(banks["sha256"][7]))
	assert.True(t, bytes.Equal(banks["sha256"][0], make([]byte, 32)))
}

func TestReplay_UnsupportedAlgorithmIsSkipped(t *testing.T) {
	table := tcg.AlgorithmTable{tcg.AlgSM3256: 32}
	events := []tcg.Event{
		{RegisterIndex: 0, Digests: map[tcg.AlgorithmID][]byte{tcg.AlgSM3256: bytes.Repeat([]byte{1}, 32)}},
	}

	banks := replay.Replay(table, events)
	assert.NotContains(t, banks, "sm3_256")
}

func TestReplay_IsAssociativeOnPrefixes(t *testing.T) {
	table := tcg.AlgorithmTable{tcg.AlgSHA256: 32}
	events := []tcg.Event{
		{RegisterIndex: 1, Digests: map[tcg.AlgorithmID][]byte{tcg.AlgSHA256: bytes.Repeat([]byte{1}, 32)}},
		{RegisterIndex: 1, Digests: map[tcg.AlgorithmID][]byte{tcg.AlgSHA256: bytes.Repeat([]byte{2}, 32)}},
	}

	prefix := replay.Replay(table, events[:1])
	extended := replay.Replay(table, events)

	digest := events[1].Digests[tcg.AlgSHA256]
	want := sha256.Sum256(append(append([]byte{}, prefix["sha256"][1]...), digest...))
	assert.Equal(t, want[:], []byte(extended["sha256"][1]))
}

func TestReplay_DeterministicAndHexRoundTrips(t *testing.T) {
	table := tcg.AlgorithmTable{tcg.AlgSHA256: 32}
	events := []tcg.Event{
		{RegisterIndex: 3, Digests: map[tcg.AlgorithmID][]byte{tcg.AlgSHA256: bytes.Repeat([]byte{0x42}, 32)}},
	}

	a := replay.Replay(table, events).HexDigests()
	b := replay.Replay(table, events).HexDigests()
	assert.Equal(t, a, b)
	assert.Equal(t, a["sha256"][3], b["sha256"][3])
}
