// Package storage stores uploaded files on the local filesystem,
// keyed by upload type
package storage

import (
	"io"
	"os"
	"path/filepath"
)

// localStorage implements file storage on the local filesystem
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath string) *localStorage {
	return &localStorage{
		basePath: basePath,
	}
}

// generatePath builds the full file path for an upload type and filename
func (s *localStorage) generatePath(filename, uploadType string) string {
	return filepath.Join(s.basePath, uploadType, filename)
}

// Create creates a new file and returns a WriteCloser
func (s *localStorage) Create(filename, uploadType string) (io.WriteCloser, error) {
	path := s.generatePath(filename, uploadType)

	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return os.Create(path)
}

// Open opens a file for reading and returns a ReadCloser
func (s *localStorage) Open(filename, uploadType string) (io.ReadCloser, error) {
	path := s.generatePath(filename, uploadType)
	return os.Open(path)
}

// OpenFile opens a file and returns *os.File for range-capable serving
func (s *localStorage) OpenFile(filename, uploadType string) (*os.File, error) {
	path := s.generatePath(filename, uploadType)
	return os.Open(path)
}

// Delete removes a file
func (s *localStorage) Delete(filename, uploadType string) error {
	path := s.generatePath(filename, uploadType)
	return os.Remove(path)
}
