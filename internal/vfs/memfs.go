package vfs

import (
	"bytes"
	"errors"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"
)

type fileInfo struct {
	name string
	size int64
	mode fs.FileMode
	mod  time.Time
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi fileInfo) ModTime() time.Time { return fi.mod }
func (fi fileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi fileInfo) Sys() any           { return nil }

type memEnt struct {
	data []byte
	mod  time.Time
}

// MemFS is an in-memory FileSystem. It counts open handles so callers can
// verify every Open is matched by a Close.
type MemFS struct {
	mu    sync.RWMutex
	ents  map[string]*memEnt
	open  int
	total int
}

func NewMem() *MemFS { return &MemFS{ents: make(map[string]*memEnt)} }

func norm(p string) string {
	return strings.TrimPrefix(path.Clean(p), "/")
}

// WriteFile creates or replaces name with data.
func (m *MemFS) WriteFile(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ents[norm(name)] = &memEnt{data: append([]byte(nil), data...), mod: time.Now()}
}

// Remove deletes name.
func (m *MemFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := norm(name)
	if _, ok := m.ents[key]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(m.ents, key)
	return nil
}

func (m *MemFS) Open(name string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.ents[norm(name)]
	if e == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	m.open++
	m.total++
	return &memFile{
		fs:   m,
		r:    bytes.NewReader(e.data),
		info: fileInfo{name: path.Base(name), size: int64(len(e.data)), mode: 0o644, mod: e.mod},
	}, nil
}

func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.ents[norm(name)]
	if e == nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return fileInfo{name: path.Base(name), size: int64(len(e.data)), mode: 0o644, mod: e.mod}, nil
}

// OpenHandles returns the number of files opened and not yet closed.
func (m *MemFS) OpenHandles() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.open
}

// Opens returns the number of successful Open calls.
func (m *MemFS) Opens() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

type memFile struct {
	fs     *MemFS
	r      *bytes.Reader
	info   fileInfo
	closed bool
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.closed {
		return 0, fs.ErrClosed
	}
	return f.r.Read(p)
}

func (f *memFile) Stat() (fs.FileInfo, error) { return f.info, nil }

func (f *memFile) Close() error {
	if f.closed {
		return errors.New("vfs: file already closed")
	}
	f.closed = true
	f.fs.mu.Lock()
	f.fs.open--
	f.fs.mu.Unlock()
	return nil
}
