// Package exifgps extracts GPS coordinates embedded in image files by the
// capturing device.
package exifgps

import (
	"bytes"

	"github.com/rwcarlsen/goexif/exif"
)

// Coordinates is a decimal-degree GPS position.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Extractor reads GPS coordinates out of raw image bytes.
type Extractor interface {
	// Extract returns ok=false when the image carries no usable GPS metadata.
	Extract(content []byte) (Coordinates, bool)
}

// ExifExtractor is the goexif-backed Extractor.
type ExifExtractor struct{}

// NewExtractor returns the default EXIF-based extractor.
func NewExtractor() *ExifExtractor {
	return &ExifExtractor{}
}

// Extract decodes the EXIF block and converts the GPS tags to decimal
// degrees. A file without EXIF data, or with EXIF data but no GPS tags, is
// reported as ok=false rather than as an error: missing GPS is an expected
// per-file outcome in the import pipeline, not a failure.
func (e *ExifExtractor) Extract(content []byte) (Coordinates, bool) {
	meta, err := exif.Decode(bytes.NewReader(content))
	if err != nil {
		return Coordinates{}, false
	}

	lat, lon, err := meta.LatLong()
	if err != nil {
		return Coordinates{}, false
	}

	return Coordinates{Latitude: lat, Longitude: lon}, true
}
