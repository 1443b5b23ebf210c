// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows

package efivars

// newWindowsReader is never reached on non-Windows hosts: NewReader only
// calls it when runtime.GOOS == "windows". It exists so the package
// builds uniformly across platforms.
func newWindowsReader() Reader { return noopReader{} }
