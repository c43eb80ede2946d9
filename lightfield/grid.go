// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lightfield

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// DefaultTag is the name prefix of views written by the capture tools.
const DefaultTag = "out"

// GridCoordinate is the position of a view in the capture grid.
type GridCoordinate struct {
	Column int
	Row    int
}

func (c GridCoordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.Column, c.Row)
}

// LayerIndex returns the texture layer of the view at c in a grid
// of the given number of columns.
func (c GridCoordinate) LayerIndex(columns int) int {
	return c.Row*columns + c.Column
}

// ParseName parses an archive entry name of the form
// <tag>_<column>_<row>.<ext> and returns its grid coordinate.
// Any directory part of the name is ignored, and the extension is
// stripped at the last dot. The name must have exactly three
// underscore-separated fields, the first equal to tag, and the
// other two non-negative base-10 integers.
func ParseName(name, tag string) (GridCoordinate, error) {
	base := path.Base(name)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	fields := strings.Split(base, "_")
	if len(fields) != 3 {
		return GridCoordinate{}, fmt.Errorf("name %q: want %s_<column>_<row>.<ext>", name, tag)
	}
	if fields[0] != tag {
		return GridCoordinate{}, fmt.Errorf("name %q: tag %q is not %q", name, fields[0], tag)
	}
	col, err := parseIndex(fields[1])
	if err != nil {
		return GridCoordinate{}, fmt.Errorf("name %q: column: %w", name, err)
	}
	row, err := parseIndex(fields[2])
	if err != nil {
		return GridCoordinate{}, fmt.Errorf("name %q: row: %w", name, err)
	}
	return GridCoordinate{Column: col, Row: row}, nil
}

// maxIndex bounds grid indices so that layer indices cannot overflow.
const maxIndex = 1 << 16

func parseIndex(s string) (int, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if v >= maxIndex {
		return 0, fmt.Errorf("index %d is too large", v)
	}
	return int(v), nil
}
