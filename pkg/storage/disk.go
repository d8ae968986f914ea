// Package storage stores uploaded post media on a local directory or an
// S3-compatible bucket (AWS S3, MinIO, R2, Spaces).
//
//	m, err := storage.NewManager()
//	disk := m.Default()
//	_ = disk.Put("posts/42.jpg", data)
//	url := disk.URL("posts/42.jpg")
package storage

import (
	"errors"
	"io"
)

// ErrNotFound is returned when a path does not exist on the disk.
var ErrNotFound = errors.New("storage: file not found")

// Disk is the driver interface.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(path string, content []byte) error

	// GetStream returns a ReadCloser for the file. Caller must close it.
	GetStream(path string) (io.ReadCloser, error)

	Exists(path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(path string) error

	// URL returns the public URL for path.
	URL(path string) string

	// Files lists every file under directory, recursively.
	Files(directory string) ([]string, error)
}
