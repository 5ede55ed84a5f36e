// Package vfs abstracts where Tam sources come from: the OS filesystem, an
// in-memory filesystem for tests and the HTTP endpoint, and change
// notifications for watch mode.
package vfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"
)

// File represents an open source file handle.
type File interface {
	io.Reader
	io.Closer
	Stat() (fs.FileInfo, error)
}

// FileSystem abstracts the filesystem operations the tools need.
type FileSystem interface {
	Open(name string) (File, error)
	Stat(name string) (fs.FileInfo, error)
}

// WithSource opens name, hands the open file to fn and always closes it,
// whether fn succeeds or not. A close failure is joined with fn's error.
func WithSource(fsys FileSystem, name string, fn func(r io.Reader) error) (err error) {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", name, cerr))
		}
	}()
	return fn(f)
}

// WatchOp indicates a change operation in the filesystem.
type WatchOp uint32

const (
	OpCreate WatchOp = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Has reports whether op includes other.
func (op WatchOp) Has(other WatchOp) bool { return op&other != 0 }

// Event describes a filesystem change event.
type Event struct {
	Path string
	Op   WatchOp
	Time time.Time
}

// Watcher provides a platform-independent file watching API.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Add(name string) error
	Remove(name string) error
	Close() error
}
