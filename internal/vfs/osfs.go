package vfs

import (
	"io/fs"
	"os"
)

// OSFS reads sources from the real filesystem.
type OSFS struct{}

func NewOS() *OSFS { return &OSFS{} }

func (fsys *OSFS) Open(name string) (File, error)        { return os.Open(name) }
func (fsys *OSFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
