// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package yamlx reads and writes values as YAML.
package yamlx

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"cogentcore.org/lightfield/base/errors"
	"gopkg.in/yaml.v3"
)

// Open reads the given object from the given YAML file.
// Fields not present in the file keep their current values.
func Open(v any, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := Read(v, bufio.NewReader(f)); err != nil {
		return fmt.Errorf("yamlx.Open %s: %w", filename, err)
	}
	return nil
}

// Read reads the given object from the given reader.
// Unknown keys are an error. An empty document leaves v unchanged.
func Read(v any, reader io.Reader) error {
	dec := yaml.NewDecoder(reader)
	dec.KnownFields(true)
	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Save writes the given object to the given filename in YAML.
func Save(v any, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(v, f)
}

// Write writes the given object as YAML to the given writer.
func Write(v any, writer io.Writer) error {
	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
