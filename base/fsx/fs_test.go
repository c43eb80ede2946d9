// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fsx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	p, err := ExpandPath("~/captures/chess.zip")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "captures", "chess.zip"), p)

	p, err = ExpandPath("")
	require.NoError(t, err)
	assert.Equal(t, "", p)
}

func TestResolvePath(t *testing.T) {
	p, err := ResolvePath("/data", "shaders/view.wgsl")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "shaders", "view.wgsl"), p)

	p, err = ResolvePath("/data", "/abs/view.wgsl")
	require.NoError(t, err)
	assert.Equal(t, "/abs/view.wgsl", p)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "a.wgsl")
	require.NoError(t, os.WriteFile(fn, []byte("//"), 0o644))

	ok, err := FileExists(fn)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = FileExists(filepath.Join(dir, "missing.wgsl"))
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = FileExists(dir)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, IsDir(dir))
}
