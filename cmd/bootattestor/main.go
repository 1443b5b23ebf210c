// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package main

import "github.com/Wythwool/bootattestor/internal/cmd"

func main() {
	cmd.Execute()
}
