// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package replay reconstructs per-algorithm measurement register values
// by iteratively hashing concatenated digests from a parsed event log,
// mirroring the append-only extension rule hardware registers implement.
package replay

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"

	"github.com/Wythwool/bootattestor/internal/tcg"
)

// NumRegisters is the number of measurement registers per algorithm bank.
const NumRegisters = 24

// Bank holds the 24 register values for one algorithm.
type Bank [NumRegisters][]byte

// Banks maps algorithm name (e.g. "sha256") to its register bank.
type Banks map[string]Bank

// HexDigests projects a Banks value into the hex-encoded form used by
// baseline documents and findings: algorithm name -> register index -> hex.
func (b Banks) HexDigests() map[string]map[int]string {
	out := make(map[string]map[int]string, len(b))
	for alg, bank := range b {
		regs := make(map[int]string, NumRegisters)
		for i, v := range bank {
			regs[i] = hex.EncodeToString(v)
		}
		out[alg] = regs
	}
	return out
}

// newHasher returns a constructor for the algorithm's hash function, or
// nil if the implementation doesn't support it. Algorithms with no
// implementation here are still recognized by the parser but silently
// skipped during replay, per the measurement-log extension rule.
func newHasher(alg tcg.AlgorithmID) func() hash.Hash {
	switch alg {
	case tcg.AlgSHA1:
		return sha1.New
	case tcg.AlgSHA256:
		return sha256.New
	case tcg.AlgSHA384:
		return sha512.New384
	case tcg.AlgSHA512:
		return sha512.New
	default:
		return nil
	}
}

// Replay folds event digests into per-algorithm register banks. For each
// algorithm in table that has a supported hash function, a bank is
// initialized to 24 zeroed registers of that algorithm's digest width.
// Each event's digests for supported algorithms extend the corresponding
// register: bank[i] = H(bank[i] || digest). Replay is strictly sequential
// over the event order and deterministic.
func Replay(table tcg.AlgorithmTable, events []tcg.Event) Banks {
	type state struct {
		newHash func() hash.Hash
		bank    Bank
	}

	states := make(map[tcg.AlgorithmID]*state, len(table))
	for alg, size := range table {
		nh := newHasher(alg)
		if nh == nil {
			continue
		}
		var bank Bank
		for i := range bank {
			bank[i] = make([]byte, size)
		}
		states[alg] = &state{newHash: nh, bank: bank}
	}

	for _, ev := range events {
		for alg, digest := range ev.Digests {
			st, ok := states[alg]
			if !ok {
				continue
			}
			if ev.RegisterIndex < 0 || ev.RegisterIndex >= NumRegisters {
				continue
			}
			h := st.newHash()
			h.Write(st.bank[ev.RegisterIndex])
			h.Write(digest)
			st.bank[ev.RegisterIndex] = h.Sum(nil)
		}
	}

	out := make(Banks, len(states))
	for alg, st := range states {
		out[tcg.AlgorithmName(alg)] = st.bank
	}
	return out
}
