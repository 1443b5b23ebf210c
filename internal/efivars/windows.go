// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package efivars

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// efiGlobalGUID is EFI_GLOBAL_VARIABLE, the namespace used for the
// standard boot-configuration variables this reader probes.
const efiGlobalGUID = "8be4df61-93ca-11d2-aa0d-00e098032b8c"

// curatedVariableNames are read unconditionally; BootNNNN entries are
// additionally probed below.
var curatedVariableNames = []string{"SecureBoot", "PK", "KEK", "db", "dbx", "BootOrder"}

// bootEntryProbeLimit caps the BootNNNN probe range to Boot0000..Boot00FF.
// The original implementation swept the full Boot0000..BootFFF (4096
// entries) range; per the spec's flagged open question, that sweep is
// expensive and nearly always misses, so the probe is capped here without
// loss of value for the entries firmware actually populates.
const bootEntryProbeLimit = 0x100

const maxVariableBufferSize = 64 * 1024

var (
	modkernel32                           = windows.NewLazySystemDLL("kernel32.dll")
	procGetFirmwareEnvironmentVariableExW = modkernel32.NewProc("GetFirmwareEnvironmentVariableExW")
)

type windowsReader struct{}

func newWindowsReader() Reader { return &windowsReader{} }

func (windowsReader) ReadVariables() (map[Key]Variable, error) {
	out := map[Key]Variable{}

	for _, name := range curatedVariableNames {
		if v, ok, err := readFirmwareVariable(name, efiGlobalGUID); err != nil {
			return nil, err
		} else if ok {
			out[Key{Name: name, GUID: efiGlobalGUID}] = v
		}
	}

	for i := 0; i < bootEntryProbeLimit; i++ {
		name := fmt.Sprintf("Boot%04X", i)
		v, ok, err := readFirmwareVariable(name, efiGlobalGUID)
		if err != nil {
			return nil, err
		}
		if ok {
			out[Key{Name: name, GUID: efiGlobalGUID}] = v
		}
	}

	return out, nil
}

// readFirmwareVariable calls GetFirmwareEnvironmentVariableExW for the
// given name and brace-wrapped uppercase GUID. A "not found", "privilege
// not held", or "invalid function" return maps to (zero, false, nil); any
// other failure is a platform error.
func readFirmwareVariable(name, guid string) (Variable, bool, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return Variable{}, false, errors.Wrapf(err, "encoding firmware variable name %q", name)
	}
	guidPtr, err := windows.UTF16PtrFromString("{" + guid + "}")
	if err != nil {
		return Variable{}, false, errors.Wrapf(err, "encoding firmware variable namespace %q", guid)
	}

	buf := make([]byte, maxVariableBufferSize)
	var attrs uint32

	r1, _, callErr := procGetFirmwareEnvironmentVariableExW.Call(
		uintptr(unsafe.Pointer(namePtr)),
		uintptr(unsafe.Pointer(guidPtr)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&attrs)),
	)

	if r1 == 0 {
		errno, ok := callErr.(windows.Errno)
		if !ok {
			return Variable{}, false, errors.Wrapf(callErr, "GetFirmwareEnvironmentVariableExW failed for %q", name)
		}
		switch errno {
		case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_ENVVAR_NOT_FOUND, windows.ERROR_PRIVILEGE_NOT_HELD, windows.ERROR_INVALID_FUNCTION:
			return Variable{}, false, nil
		default:
			return Variable{}, false, errors.Wrapf(errno, "GetFirmwareEnvironmentVariableExW failed for %q", name)
		}
	}

	// A return of the full buffer size may indicate truncation; treated
	// identically to success returning the buffer's full byte count, per
	// the bounded-buffer resource discipline this reader follows.
	n := int(r1)
	if n > len(buf) {
		n = len(buf)
		log.WithField("variable", name).Warn("firmware variable read may have been truncated")
	}

	data := make([]byte, n)
	copy(data, buf[:n])
	return Variable{Data: data, Attrs: attrs}, true, nil
}
