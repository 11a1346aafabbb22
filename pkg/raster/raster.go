// Package raster decodes provider page images and extracts pixel crops
// for normalized page regions.
package raster

import (
	"bytes"
	"fmt"
	"image"

	// The provider returns PNG or JPEG page images; register the
	// remaining formats it is known to emit for scanned inputs.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Raster is a decoded page image with known pixel dimensions. It is
// owned by a single page's processing pass and not persisted.
type Raster struct {
	Image  image.Image
	Width  int
	Height int
	Format string
}

// Decode decodes provider image bytes into a Raster.
func Decode(data []byte) (*Raster, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty page image")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode page image: %w", err)
	}
	b := img.Bounds()
	return &Raster{
		Image:  img,
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: format,
	}, nil
}
