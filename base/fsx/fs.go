// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fsx provides small filesystem helpers for resolving
// user-supplied paths.
package fsx

import (
	"io/fs"
	"os"
	"path/filepath"

	"cogentcore.org/lightfield/base/errors"
	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading ~ to the user's home directory and
// returns the cleaned path. Empty paths are returned unchanged.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	ep, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(ep), nil
}

// ResolvePath expands path with [ExpandPath] and, if it is relative,
// joins it onto base. Empty paths are returned unchanged.
func ResolvePath(base, path string) (string, error) {
	ep, err := ExpandPath(path)
	if err != nil || ep == "" {
		return ep, err
	}
	if filepath.IsAbs(ep) || base == "" {
		return ep, nil
	}
	return filepath.Join(base, ep), nil
}

// FileExists checks whether the given file exists and is not a
// directory, returning an error only if the stat itself failed
// for a reason other than non-existence.
func FileExists(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err == nil {
		return !fi.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// IsDir returns true if the given path exists and is a directory.
func IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
