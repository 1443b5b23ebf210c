// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tcg

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

var errTruncated = errors.New("truncated")

const (
	specIDSignature  = "Spec ID Event03"
	maxDigestCount   = 16
	minHeaderLength  = 16
	placeholderDigest = 20 // SHA-1 sized placeholder digest in the header's legacy digest block
)

var validDigestSizes = map[int]bool{20: true, 32: true, 48: true, 64: true}

// cursor reads little-endian integers and byte slices from a single
// contiguous buffer, bounds-checking every read before it is performed.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int { return len(c.buf) - c.off }

func (c *cursor) take(n int, element string) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, newParseError(element, errTruncated)
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) readU8(element string) (uint8, error) {
	b, err := c.take(1, element)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU16(element string) (uint16, error) {
	b, err := c.take(2, element)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) readU32(element string) (uint32, error) {
	b, err := c.take(4, element)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) skip(n int, element string) error {
	_, err := c.take(n, element)
	return err
}

// ParseEventLog decodes a binary measurement log into an algorithm table
// and an ordered event sequence, per the TCG PC Client Platform Firmware
// Profile crypto-agile log format. Any truncation, impossible size, or
// signature mismatch returns a *ParseError.
func ParseEventLog(blob []byte) (AlgorithmTable, []Event, error) {
	if len(blob) < minHeaderLength {
		return nil, nil, newParseError("log too small", nil)
	}

	c := &cursor{buf: blob}

	if _, err := c.readU32("header register index"); err != nil {
		return nil, nil, err
	}
	headerEventType, err := c.readU32("header event type")
	if err != nil {
		return nil, nil, err
	}
	if headerEventType != EventNoAction {
		return nil, nil, newParseError("first event not EV_NO_ACTION/SpecID", nil)
	}
	headerDigestCount, err := c.readU32("header digest count")
	if err != nil {
		return nil, nil, err
	}
	if headerDigestCount > maxDigestCount {
		return nil, nil, newParseError("header digestCount insane", nil)
	}
	for i := uint32(0); i < headerDigestCount; i++ {
		if err := c.skip(2, "header legacy algorithm id"); err != nil {
			return nil, nil, err
		}
		if err := c.skip(placeholderDigest, "header legacy placeholder digest"); err != nil {
			return nil, nil, err
		}
	}

	specEventSize, err := c.readU32("SpecID event size")
	if err != nil {
		return nil, nil, err
	}
	specData, err := c.take(int(specEventSize), "SpecID data")
	if err != nil {
		return nil, nil, err
	}

	table, err := parseSpecID(specData)
	if err != nil {
		return nil, nil, err
	}

	var events []Event
	for c.remaining() >= minHeaderLength {
		ev, err := parseEvent(c, table)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, ev)
	}

	return table, events, nil
}

func parseSpecID(data []byte) (AlgorithmTable, error) {
	sc := &cursor{buf: data}

	sig, err := sc.take(16, "SpecID signature")
	if err != nil {
		return nil, newParseError("SpecID too short", nil)
	}
	if !bytes.HasPrefix(sig, []byte(specIDSignature)) {
		return nil, newParseError("SpecID signature mismatch", nil)
	}

	if err := sc.skip(8, "SpecID version/platform fields"); err != nil {
		return nil, err
	}

	numAlgs, err := sc.readU32("SpecID algorithm count")
	if err != nil {
		return nil, err
	}
	if numAlgs == 0 || numAlgs > maxDigestCount {
		return nil, newParseError("SpecID alg count invalid", nil)
	}

	table := make(AlgorithmTable, numAlgs)
	for i := uint32(0); i < numAlgs; i++ {
		algID, err := sc.readU16("SpecID algorithm id")
		if err != nil {
			return nil, err
		}
		digestSize, err := sc.readU16("SpecID digest size")
		if err != nil {
			return nil, err
		}
		if !validDigestSizes[int(digestSize)] {
			return nil, newParseError("SpecID digest size invalid", nil)
		}
		table[AlgorithmID(algID)] = int(digestSize)
	}

	vendorLen, err := sc.readU8("SpecID vendor info length")
	if err != nil {
		return nil, err
	}
	if err := sc.skip(int(vendorLen), "SpecID vendor info"); err != nil {
		return nil, err
	}

	return table, nil
}

func parseEvent(c *cursor, table AlgorithmTable) (Event, error) {
	registerIndex, err := c.readU32("event register index")
	if err != nil {
		return Event{}, err
	}
	eventType, err := c.readU32("event type")
	if err != nil {
		return Event{}, err
	}
	digestCount, err := c.readU32("event digest count")
	if err != nil {
		return Event{}, err
	}
	if digestCount > maxDigestCount {
		return Event{}, newParseError("event digestCount too large", nil)
	}

	digests := make(map[AlgorithmID][]byte, digestCount)
	for i := uint32(0); i < digestCount; i++ {
		algID, err := c.readU16("event algorithm id")
		if err != nil {
			return Event{}, err
		}
		alg := AlgorithmID(algID)
		size, ok := table[alg]
		if !ok {
			size = wellKnownDigestSizes[alg]
		}
		if !validDigestSizes[size] {
			return Event{}, newParseError("event digest size unknown", nil)
		}
		digest, err := c.take(size, "event digest body")
		if err != nil {
			return Event{}, err
		}
		// Copy: the cursor's backing array is the caller's input buffer.
		d := make([]byte, size)
		copy(d, digest)
		digests[alg] = d
	}

	eventSize, err := c.readU32("event size")
	if err != nil {
		return Event{}, err
	}
	data, err := c.take(int(eventSize), "event data")
	if err != nil {
		return Event{}, err
	}
	payload := make([]byte, len(data))
	copy(payload, data)

	return Event{
		RegisterIndex: int(registerIndex),
		EventType:     eventType,
		Digests:       digests,
		Data:          payload,
	}, nil
}
