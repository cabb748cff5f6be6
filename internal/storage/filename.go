package storage

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateFilename generates a unique filename, preserving the original
// extension
func GenerateFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return uuid.New().String() + ext
}
