//go:build unix

package sidecar

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mappedFile holds an mmap'd sidecar file alive for the lifetime of a
// Reader built on top of it.
type mappedFile struct {
	data []byte
}

// openMapped memory-maps path read-only and returns the mapping alongside
// the mapped bytes. Closing the returned mappedFile unmaps the memory;
// after that the bytes, and any Reader built over them, must not be
// dereferenced.
func openMapped(path string) (*mappedFile, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := fi.Size()
	if size == 0 {
		return nil, nil, fmt.Errorf("sidecar: %s is empty", path)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("sidecar: mmap %s: %w", path, err)
	}
	return &mappedFile{data: data}, data, nil
}

// Close unmaps the file.
func (m *mappedFile) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}
