// Package store writes output files so that readers never observe a partial
// file under the final name.
package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const tmpPrefix = "tmp."

var ErrCommitted = errors.New("file already committed")

// File buffers writes in a temporary file next to its destination.
type File struct {
	*os.File
	name string
	done bool
}

func Create(name string) (*File, error) {
	f, err := os.CreateTemp(filepath.Dir(name), tmpPrefix)
	if err != nil {
		return nil, err
	}
	return &File{File: f, name: name}, nil
}

// Commit syncs the data and moves it to the destination name.
func (f *File) Commit() error {
	if f.done {
		return ErrCommitted
	}
	f.done = true
	if err := f.Chmod(0o644); err != nil {
		f.discard()
		return err
	}
	return LinkTmp(f.File, f.name)
}

// Abort drops the temporary file. It is a no-op after Commit.
func (f *File) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.discard()
}

func (f *File) discard() {
	f.File.Close()
	os.Remove(f.File.Name())
}

func LinkTmp(f *os.File, name string) (err error) {
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), name)
}

func WriteFile(filename string, p []byte) error {
	f, err := Create(filename)
	if err != nil {
		return err
	}

	if _, err = f.Write(p); err != nil {
		f.Abort()
		return err
	}

	return f.Commit()
}

func IsTmp(filename string) bool {
	return strings.HasPrefix(filepath.Base(filename), tmpPrefix)
}
