package exifgps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_NoExifData(t *testing.T) {
	t.Parallel()

	e := NewExtractor()

	cases := []struct {
		name    string
		content []byte
	}{
		{"empty", nil},
		{"not an image", []byte("hello world")},
		// Minimal JPEG header without an EXIF APP1 segment.
		{"jpeg without exif", []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x04, 0x00, 0x00, 0xFF, 0xD9}},
		{"png bytes", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			coords, ok := e.Extract(tc.content)
			assert.False(t, ok)
			assert.Zero(t, coords.Latitude)
			assert.Zero(t, coords.Longitude)
		})
	}
}
