package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateFilename(t *testing.T) {
	tests := []struct {
		name        string
		original    string
		expectedExt string
	}{
		{
			name:        "extension kept",
			original:    "lecture.mp4",
			expectedExt: ".mp4",
		},
		{
			name:        "extension lowercased",
			original:    "Photo.PNG",
			expectedExt: ".png",
		},
		{
			name:        "no extension",
			original:    "README",
			expectedExt: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename := GenerateFilename(tt.original)

			assert.True(t, strings.HasSuffix(filename, tt.expectedExt))
			assert.NotContains(t, filename, tt.original)
			// Two calls never collide
			assert.NotEqual(t, filename, GenerateFilename(tt.original))
		})
	}
}
