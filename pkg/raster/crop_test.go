package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/halldor/figcrop/pkg/layout"
)

// testRaster builds an in-memory page raster of the given size with a
// recognizable fill so crops can be verified.
func testRaster(w, h int) *Raster {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 0, A: 255})
		}
	}
	return &Raster{Image: img, Width: w, Height: h, Format: "png"}
}

func region(left, top, right, bottom float64) layout.Region {
	return layout.Region{
		Box:  &layout.Box{Left: left, Top: top, Right: right, Bottom: bottom},
		Kind: layout.Detected,
	}
}

func TestCropPixelConversion(t *testing.T) {
	r := testRaster(1000, 1000)

	got, err := Crop(region(0.1, 0.1, 0.3, 0.3), r)
	if err != nil {
		t.Fatalf("Crop error: %v", err)
	}
	want := PixelBox{Left: 100, Top: 100, Right: 300, Bottom: 300}
	if got.Pixel != want {
		t.Errorf("pixel box = %+v, want %+v", got.Pixel, want)
	}
	if len(got.PNG) == 0 {
		t.Fatal("crop produced no image bytes")
	}

	img, err := png.Decode(bytes.NewReader(got.PNG))
	if err != nil {
		t.Fatalf("crop output is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 200 {
		t.Errorf("crop size = %dx%d, want 200x200", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// Pixel (0,0) of the crop must be pixel (100,100) of the page.
	r0, g0, _, _ := img.At(img.Bounds().Min.X, img.Bounds().Min.Y).RGBA()
	if uint8(r0>>8) != 100 || uint8(g0>>8) != 100 {
		t.Errorf("crop origin pixel = (%d, %d), want (100, 100)", uint8(r0>>8), uint8(g0>>8))
	}
}

func TestCropDegenerateBox(t *testing.T) {
	r := testRaster(100, 100)

	// left == right must fail, never produce a zero-size image.
	_, err := Crop(region(0.5, 0.1, 0.5, 0.3), r)
	if !errors.Is(err, ErrInvalidBox) {
		t.Errorf("zero-width box: err = %v, want ErrInvalidBox", err)
	}

	_, err = Crop(region(0.1, 0.4, 0.3, 0.4), r)
	if !errors.Is(err, ErrInvalidBox) {
		t.Errorf("zero-height box: err = %v, want ErrInvalidBox", err)
	}

	// Inverted box.
	_, err = Crop(region(0.6, 0.1, 0.2, 0.3), r)
	if !errors.Is(err, ErrInvalidBox) {
		t.Errorf("inverted box: err = %v, want ErrInvalidBox", err)
	}
}

func TestCropMissingBox(t *testing.T) {
	r := testRaster(100, 100)
	_, err := Crop(layout.Region{Kind: layout.Detected, SourceText: "text only"}, r)
	if !errors.Is(err, ErrInvalidBox) {
		t.Errorf("box-less region: err = %v, want ErrInvalidBox", err)
	}
}

func TestCropOutOfBounds(t *testing.T) {
	r := testRaster(100, 100)
	_, err := Crop(region(0.5, 0.5, 1.5, 0.9), r)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestCropNegativeOrigin(t *testing.T) {
	r := testRaster(100, 100)
	_, err := Crop(region(-0.2, 0.1, 0.3, 0.3), r)
	if !errors.Is(err, ErrInvalidBox) {
		t.Errorf("err = %v, want ErrInvalidBox", err)
	}
}

func TestPixelRoundTrip(t *testing.T) {
	const w, h = 1275, 1650

	boxes := []layout.Box{
		{Left: 0.1, Top: 0.1, Right: 0.3, Bottom: 0.3},
		{Left: 0.123, Top: 0.456, Right: 0.789, Bottom: 0.987},
		{Left: 0, Top: 0, Right: 1, Bottom: 1},
		{Left: 0.0004, Top: 0.9, Right: 0.051, Bottom: 0.9991},
	}
	for _, b := range boxes {
		px := PixelBoxFor(b, w, h)
		back := layout.Box{
			Left:   float64(px.Left) / w,
			Top:    float64(px.Top) / h,
			Right:  float64(px.Right) / w,
			Bottom: float64(px.Bottom) / h,
		}
		if math.Abs(back.Left-b.Left) > 1.0/w || math.Abs(back.Right-b.Right) > 1.0/w {
			t.Errorf("horizontal round trip drifted more than a pixel: %+v -> %+v", b, back)
		}
		if math.Abs(back.Top-b.Top) > 1.0/h || math.Abs(back.Bottom-b.Bottom) > 1.0/h {
			t.Errorf("vertical round trip drifted more than a pixel: %+v -> %+v", b, back)
		}
	}
}

func TestDecode(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 48))
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	r, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if r.Width != 64 || r.Height != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", r.Width, r.Height)
	}
	if r.Format != "png" {
		t.Errorf("format = %q, want png", r.Format)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("expected error for undecodable bytes")
	}
	if _, err := Decode(nil); err == nil {
		t.Error("expected error for empty bytes")
	}
}
