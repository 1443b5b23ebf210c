// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package tcg decodes the TCG/UEFI crypto-agile measurement event log
// format into a typed event sequence and an algorithm table.
package tcg

import (
	"fmt"

	"github.com/canonical/go-tpm2"
)

// AlgorithmID identifies a digest algorithm using the TCG algorithm
// registry IDs, the same identifiers canonical/go-tpm2 uses for TPM2
// hash algorithms.
type AlgorithmID = tpm2.HashAlgorithmId

// Recognized algorithm identifiers and their well-known digest sizes.
const (
	AlgSHA1   AlgorithmID = tpm2.HashAlgorithmSHA1
	AlgSHA256 AlgorithmID = tpm2.HashAlgorithmSHA256
	AlgSHA384 AlgorithmID = tpm2.HashAlgorithmSHA384
	AlgSHA512 AlgorithmID = tpm2.HashAlgorithmSHA512
	AlgSM3256 AlgorithmID = 0x0012
)

// wellKnownDigestSizes maps a recognized algorithm to its digest size in
// bytes, used as a fallback when an event references an algorithm absent
// from the SpecID header's table.
var wellKnownDigestSizes = map[AlgorithmID]int{
	AlgSHA1:   20,
	AlgSHA256: 32,
	AlgSHA384: 48,
	AlgSHA512: 64,
	AlgSM3256: 32,
}

// AlgorithmName returns the lowercase name used in baseline documents and
// findings (e.g. "sha256"). Unknown algorithms are rendered as "alg<id>".
func AlgorithmName(alg AlgorithmID) string {
	switch alg {
	case AlgSHA1:
		return "sha1"
	case AlgSHA256:
		return "sha256"
	case AlgSHA384:
		return "sha384"
	case AlgSHA512:
		return "sha512"
	case AlgSM3256:
		return "sm3_256"
	default:
		return fmt.Sprintf("alg%#04x", uint16(alg))
	}
}

// Well-known event types referenced by the parser and differ/sbom flows.
const (
	EventNoAction                   uint32 = 0x00000003
	EventSeparator                  uint32 = 0x00000004
	EventEFIVariableDriverConfig    uint32 = 0x80000001
	EventEFIVariableBoot            uint32 = 0x80000002
	EventEFIBootServicesApplication uint32 = 0x80000006
	EventEFIBootServicesDriver      uint32 = 0x80000007
	EventEFIRuntimeServicesDriver   uint32 = 0x80000008
)

// AlgorithmTable maps an AlgorithmID to its digest size in bytes, as
// established once by the log header's SpecID event.
type AlgorithmTable map[AlgorithmID]int

// Event is a single measurement record.
type Event struct {
	RegisterIndex int
	EventType     uint32
	Digests       map[AlgorithmID][]byte
	Data          []byte
}

// ParseError reports structural corruption encountered while decoding an
// event log. The Element field names the structural piece that failed so
// callers can produce a useful single-line diagnostic.
type ParseError struct {
	Element string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Element, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Element)
}

func (e *ParseError) Unwrap() error { return e.Cause }

func newParseError(element string, cause error) *ParseError {
	return &ParseError{Element: element, Cause: cause}
}
