// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reflectx

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level int

func (l *level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*l = 1
	case "high":
		*l = 2
	default:
		return assert.AnError
	}
	return nil
}

type inner struct {
	Wait  time.Duration `def:"1500000000"`
	Level level         `def:"high"`
}

type outer struct {
	Name  string  `def:"lightfield" desc:"the name"`
	On    bool    `def:"true"`
	Count int64   `def:"268435456"`
	Size  uint16  `def:"0x10"`
	Scale float32 `def:"0.5"`
	Plain string
	Inner inner

	hidden string
}

func TestSetFromDefaultTags(t *testing.T) {
	o := &outer{Plain: "kept"}
	require.NoError(t, SetFromDefaultTags(o))
	assert.Equal(t, "lightfield", o.Name)
	assert.True(t, o.On)
	assert.Equal(t, int64(268435456), o.Count)
	assert.Equal(t, uint16(16), o.Size)
	assert.Equal(t, float32(0.5), o.Scale)
	assert.Equal(t, "kept", o.Plain)
	assert.Equal(t, 1500*time.Millisecond, o.Inner.Wait)
	assert.Equal(t, level(2), o.Inner.Level)
	assert.Empty(t, o.hidden)
}

func TestSetFromDefaultTagsErrors(t *testing.T) {
	assert.Error(t, SetFromDefaultTags(outer{}))
	assert.Error(t, SetFromDefaultTags((*outer)(nil)))

	type bad struct {
		N int `def:"many"`
	}
	assert.Error(t, SetFromDefaultTags(&bad{}))
}

func TestSetString(t *testing.T) {
	var l level
	require.NoError(t, SetString(reflect.ValueOf(&l).Elem(), "low"))
	assert.Equal(t, level(1), l)
	assert.Error(t, SetString(reflect.ValueOf(&l).Elem(), "middle"))

	var m map[string]int
	assert.Error(t, SetString(reflect.ValueOf(&m).Elem(), "a"))
}

func TestFieldTag(t *testing.T) {
	d, err := FieldTag(&outer{}, "Name", "desc")
	require.NoError(t, err)
	assert.Equal(t, "the name", d)

	d, err = FieldTag(outer{}, "Inner.Level", "def")
	require.NoError(t, err)
	assert.Equal(t, "high", d)

	_, err = FieldTag(outer{}, "Inner.Missing", "def")
	assert.Error(t, err)
	_, err = FieldTag(outer{}, "Name.Length", "def")
	assert.Error(t, err)
}
