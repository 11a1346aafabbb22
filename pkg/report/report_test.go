package report

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/halldor/figcrop/pkg/figure"
	"github.com/halldor/figcrop/pkg/layout"
	"github.com/halldor/figcrop/pkg/raster"
)

func TestCropFileName(t *testing.T) {
	detected := layout.Region{Kind: layout.Detected}
	if got := CropFileName(1, 2, detected); got != "figure_page01_detected_2.png" {
		t.Errorf("detected name = %q", got)
	}

	gap := layout.Region{Kind: layout.EstimatedGap}
	if got := CropFileName(12, 1, gap); got != "figure_page12_estimated_gap_1.png" {
		t.Errorf("gap name = %q", got)
	}

	kw := layout.Region{Kind: layout.EstimatedKeyword, Keyword: "エッグチェア"}
	if got := CropFileName(3, 1, kw); got != "estimated_エッグチェア_page03_1.png" {
		t.Errorf("keyword name = %q", got)
	}

	// Keyword regions without a recorded keyword fall back to the
	// generic pattern.
	kw.Keyword = ""
	if got := CropFileName(3, 1, kw); got != "figure_page03_estimated_keyword_1.png" {
		t.Errorf("keyword fallback name = %q", got)
	}
}

func pageWithCrop(t *testing.T, page int) figure.PageResult {
	t.Helper()
	ras := &raster.Raster{
		Image:  image.NewRGBA(image.Rect(0, 0, 100, 100)),
		Width:  100,
		Height: 100,
	}
	region := layout.Region{
		Box:  &layout.Box{Left: 0.1, Top: 0.1, Right: 0.5, Bottom: 0.5},
		Kind: layout.Detected,
	}
	crop, err := raster.Crop(region, ras)
	if err != nil {
		t.Fatalf("fixture crop failed: %v", err)
	}
	return figure.PageResult{
		Page:       page,
		Candidates: []layout.Region{region},
		Crops:      []*raster.CropResult{crop},
	}
}

func TestWriteCrops(t *testing.T) {
	dir := t.TempDir()
	results := []figure.PageResult{pageWithCrop(t, 1)}

	files, err := WriteCrops(dir, results)
	if err != nil {
		t.Fatalf("WriteCrops error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("wrote %d files, want 1", len(files))
	}
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("crop file missing: %v", err)
		}
		if _, err := png.Decode(bytes.NewReader(data)); err != nil {
			t.Errorf("crop file is not valid PNG: %v", err)
		}
	}
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	results := []figure.PageResult{pageWithCrop(t, 1)}
	s := figure.Summarize("sample.pdf", results, nil)

	if err := WriteSummary(path, s); err != nil {
		t.Fatalf("WriteSummary error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("summary missing: %v", err)
	}
	var decoded figure.Summary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("summary is not valid JSON: %v", err)
	}
	if decoded.Document != "sample.pdf" || decoded.Totals.Crops != 1 {
		t.Errorf("summary round trip lost data: %+v", decoded)
	}
}

func TestOverlay(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 200, 300))); err != nil {
		t.Fatalf("fixture image: %v", err)
	}

	pages := []OverlayPage{
		{
			Image:  buf.Bytes(),
			Width:  200,
			Height: 300,
			Result: figure.PageResult{
				Page: 1,
				Candidates: []layout.Region{
					{Box: &layout.Box{Left: 0.1, Top: 0.1, Right: 0.6, Bottom: 0.4}, Kind: layout.Detected},
					{Box: &layout.Box{Left: 0.2, Top: 0.5, Right: 0.8, Bottom: 0.9}, Kind: layout.EstimatedGap},
				},
			},
		},
	}

	out, err := Overlay(pages)
	if err != nil {
		t.Fatalf("Overlay error: %v", err)
	}
	if !strings.HasPrefix(string(out), "%PDF") {
		t.Error("overlay output is not a PDF")
	}
}

func TestOverlayNoPages(t *testing.T) {
	if _, err := Overlay(nil); err == nil {
		t.Error("expected error for empty page list")
	}
}
