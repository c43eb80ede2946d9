// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lightfield

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
)

// Entry is one named item of an [Archive].
type Entry struct {
	// Name is the full name of the entry within the archive.
	Name string

	// Size is the uncompressed size in bytes, or -1 if unknown.
	Size int64

	// Dir is true for directory entries.
	Dir bool

	open func() (io.ReadCloser, error)
}

// Open opens the entry content for reading.
func (e *Entry) Open() (io.ReadCloser, error) {
	return e.open()
}

// Archive is an ordered collection of named view images.
type Archive interface {

	// Entries returns all entries in archive order.
	Entries() ([]Entry, error)
}

// ZipArchive is an [Archive] of the files in a zip file,
// in the order they are stored.
type ZipArchive struct {
	reader *zip.Reader
	closer io.Closer
}

// OpenZip opens the zip file with the given name.
// The archive must be closed after loading.
func OpenZip(filename string) (*ZipArchive, error) {
	rc, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	return &ZipArchive{reader: &rc.Reader, closer: rc}, nil
}

// NewZipArchive returns a zip archive reading from r, which has
// the given size in bytes.
func NewZipArchive(r io.ReaderAt, size int64) (*ZipArchive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	return &ZipArchive{reader: zr}, nil
}

func (za *ZipArchive) Entries() ([]Entry, error) {
	ents := make([]Entry, 0, len(za.reader.File))
	for _, f := range za.reader.File {
		ents = append(ents, Entry{
			Name: f.Name,
			Size: int64(f.UncompressedSize64),
			Dir:  f.FileInfo().IsDir(),
			open: f.Open,
		})
	}
	return ents, nil
}

// Close closes the underlying file, if the archive was opened with [OpenZip].
func (za *ZipArchive) Close() error {
	if za.closer == nil {
		return nil
	}
	return za.closer.Close()
}

// DirArchive is an [Archive] of the files at the top level of a
// directory, in lexical order. It is used for unpacked captures.
type DirArchive struct {
	FS fs.FS
}

// NewDirArchive returns an archive of the given directory on disk.
func NewDirArchive(dir string) *DirArchive {
	return &DirArchive{FS: os.DirFS(dir)}
}

func (da *DirArchive) Entries() ([]Entry, error) {
	des, err := fs.ReadDir(da.FS, ".")
	if err != nil {
		return nil, err
	}
	ents := make([]Entry, 0, len(des))
	for _, de := range des {
		name := de.Name()
		ent := Entry{Name: name, Size: -1, Dir: de.IsDir()}
		if info, err := de.Info(); err == nil && !ent.Dir {
			ent.Size = info.Size()
		}
		ent.open = func() (io.ReadCloser, error) {
			return da.FS.Open(name)
		}
		ents = append(ents, ent)
	}
	return ents, nil
}
