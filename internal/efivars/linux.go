// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package efivars

const defaultLinuxEfivarsRoot = "/sys/firmware/efi/efivars"

// linuxReader reads variables from the efivarfs pseudo-filesystem, which
// uses the same NAME-GUID file layout as overrideReader.
type linuxReader struct {
	root string
}

func (r *linuxReader) ReadVariables() (map[Key]Variable, error) {
	return readDirLayout(r.root, true)
}
