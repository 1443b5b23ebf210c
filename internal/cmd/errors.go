// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Wythwool/bootattestor/internal/bootattestor"
)

func argumentErrorf(format string, args ...interface{}) error {
	return bootattestor.ArgumentError(errors.New(fmt.Sprintf(format, args...)))
}

func ioErrorf(format string, args ...interface{}) error {
	return bootattestor.IOError(errors.New(fmt.Sprintf(format, args...)))
}

// exitCodeFor maps a command error to the CLI's exit code per spec.md
// §7: any typed fatal error (parse_error, schema_error, io_error,
// platform_error, argument_error) is exit code 2; nil is exit code 0.
// Exit code 1 (findings present) is decided by callers, not by error
// classification, since a non-empty finding list is not itself an error.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return 2
}
