// Package mmap maps files into memory read-only.
//
// Table shards are scanned as flat byte slabs; mapping them avoids a copy
// and lets the OS page in only what a scan touches.
package mmap

import (
	"errors"
	"io"
	"os"
)

// ErrInvalidSize is returned when a file reports a negative size.
var ErrInvalidSize = errors.New("mmap: invalid file size")

// File is a read-only memory-mapped file.
type File struct {
	data []byte
}

// Open maps the file at path into memory as read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size < 0 {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return &File{}, nil
	}

	data, err := mmap(f, int(size))
	if err != nil {
		return nil, err
	}
	return &File{data: data}, nil
}

// Bytes returns the mapped contents. The slice is valid until Close.
func (m *File) Bytes() []byte {
	return m.data
}

// ReadAt implements io.ReaderAt over the mapping.
func (m *File) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the memory. The slice returned by Bytes must not be used
// afterwards.
func (m *File) Close() error {
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	return munmap(data)
}
