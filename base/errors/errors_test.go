// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	assert.NoError(t, Log(nil))
	err := New("bad archive")
	assert.Equal(t, err, Log(err))
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })
	assert.Panics(t, func() { Must(New("fatal")) })
	assert.Equal(t, "ok", Must1("ok", nil))
	assert.Panics(t, func() { Must1(0, New("fatal")) })
}

func TestWrapping(t *testing.T) {
	base := New("base")
	wrapped := fmt.Errorf("loading: %w", base)
	assert.True(t, Is(wrapped, base))
	assert.Equal(t, base, Unwrap(wrapped))
	joined := Join(base, New("other"))
	assert.True(t, Is(joined, base))
}
