// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package efivars

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// overrideReader reads variables from a test/CI override directory using
// the same on-disk layout as the Linux efivarfs: one regular file per
// variable, named "NAME-GUID", with a 4-byte little-endian attributes
// header followed by the raw variable data.
type overrideReader struct {
	dir string
}

func (r *overrideReader) ReadVariables() (map[Key]Variable, error) {
	return readDirLayout(r.dir, false)
}

// readDirLayout reads the NAME-GUID file layout shared by override
// directories and the Linux efivarfs. When tolerateMissing is true (the
// default Linux backend, never explicitly requested by the user) a
// missing root directory yields an empty result rather than an error,
// matching hosts that simply lack EFI firmware.
func readDirLayout(dir string, tolerateMissing bool) (map[Key]Variable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if tolerateMissing && os.IsNotExist(err) {
			return map[Key]Variable{}, nil
		}
		return nil, errors.Wrapf(err, "reading efivars directory %q", dir)
	}

	out := map[Key]Variable{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, guid, ok := splitNameGUID(entry.Name())
		if !ok {
			log.WithField("file", entry.Name()).Debug("skipping efivars file with non-GUID suffix")
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "reading efivars file %q", entry.Name())
		}
		if len(data) < 4 {
			log.WithField("file", entry.Name()).Warn("efivars file shorter than attribute header, skipping")
			continue
		}

		out[Key{Name: name, GUID: guid}] = Variable{
			Attrs: binary.LittleEndian.Uint32(data[:4]),
			Data:  data[4:],
		}
	}
	return out, nil
}

// splitNameGUID splits a "NAME-GUID" filename into its name and
// canonicalized GUID, matching on the last 36 characters (a canonical
// UUID is fixed-width, unlike variable names which may contain hyphens).
func splitNameGUID(filename string) (name, guid string, ok bool) {
	const guidLen = 36
	if len(filename) < guidLen+1 {
		return "", "", false
	}
	sep := len(filename) - guidLen - 1
	if filename[sep] != '-' {
		return "", "", false
	}
	rawGUID := filename[sep+1:]
	canon, err := canonicalGUID(rawGUID)
	if err != nil {
		return "", "", false
	}
	return filename[:sep], canon, true
}

