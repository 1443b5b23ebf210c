// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version, GitHash, and BuildDate are set at link time via -ldflags.
var (
	Version   = "dev"
	GitHash   = "unknown"
	BuildDate = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints bootattestor's version details",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("bootattestor %s (%s), built %s\n", Version, GitHash, BuildDate)
			return nil
		},
	}
}
