package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	"github.com/halldor/figcrop/pkg/layout"
)

var (
	// ErrInvalidBox marks a degenerate or malformed region box.
	ErrInvalidBox = errors.New("invalid region box")
	// ErrOutOfBounds marks a pixel box extending past the page raster.
	ErrOutOfBounds = errors.New("region outside page raster")
)

// PixelBox is a region box converted to pixel coordinates, retained in
// results for traceability and for naming output artifacts.
type PixelBox struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns the pixel width of the box.
func (p PixelBox) Width() int { return p.Right - p.Left }

// Height returns the pixel height of the box.
func (p PixelBox) Height() int { return p.Bottom - p.Top }

// CropResult is one extracted sub-image, PNG-encoded. Writing it to a
// file is the caller's responsibility.
type CropResult struct {
	Region layout.Region
	Pixel  PixelBox
	PNG    []byte
}

// PixelBoxFor converts a normalized box to pixel coordinates against
// the raster dimensions, flooring each coordinate.
func PixelBoxFor(b layout.Box, width, height int) PixelBox {
	return PixelBox{
		Left:   int(math.Floor(b.Left * float64(width))),
		Top:    int(math.Floor(b.Top * float64(height))),
		Right:  int(math.Floor(b.Right * float64(width))),
		Bottom: int(math.Floor(b.Bottom * float64(height))),
	}
}

// Crop extracts the rectangular pixel area [left, top, right, bottom)
// for the region's box out of the page raster.
//
// It fails with ErrInvalidBox when the region has no box, any pixel
// coordinate is negative, or the box is degenerate (left >= right or
// top >= bottom), and with ErrOutOfBounds when the pixel box extends
// past the raster. Crop never silently returns a zero-size image. The
// operation is pure: it does not touch the filesystem.
func Crop(region layout.Region, r *Raster) (*CropResult, error) {
	if r == nil || r.Image == nil {
		return nil, fmt.Errorf("no page raster available")
	}
	if region.Box == nil {
		return nil, fmt.Errorf("%s region has no coordinates: %w", region.Kind, ErrInvalidBox)
	}

	px := PixelBoxFor(*region.Box, r.Width, r.Height)
	if px.Left < 0 || px.Top < 0 {
		return nil, fmt.Errorf("negative pixel origin (%d, %d): %w", px.Left, px.Top, ErrInvalidBox)
	}
	if px.Left >= px.Right || px.Top >= px.Bottom {
		return nil, fmt.Errorf("degenerate pixel box %dx%d: %w", px.Width(), px.Height(), ErrInvalidBox)
	}
	if px.Right > r.Width || px.Bottom > r.Height {
		return nil, fmt.Errorf("pixel box (%d, %d, %d, %d) exceeds %dx%d raster: %w",
			px.Left, px.Top, px.Right, px.Bottom, r.Width, r.Height, ErrOutOfBounds)
	}

	rect := image.Rect(px.Left, px.Top, px.Right, px.Bottom)
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), r.Image, rect.Min.Add(r.Image.Bounds().Min), draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode crop: %w", err)
	}

	return &CropResult{
		Region: region,
		Pixel:  px,
		PNG:    buf.Bytes(),
	}, nil
}
