// Package report persists the artifacts of a figure extraction run:
// the cropped images, a JSON summary record, and an optional overlay
// PDF that shows every detected and estimated region drawn on top of
// the page rasters.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/halldor/figcrop/pkg/figure"
	"github.com/halldor/figcrop/pkg/layout"
	"github.com/halldor/figcrop/pkg/raster"
)

// CropFileName names one crop output. Keyword-estimated regions carry
// their keyword so related crops group together in a directory
// listing; everything else is named by page, source kind and index.
func CropFileName(page, idx int, r layout.Region) string {
	if r.Kind == layout.EstimatedKeyword && r.Keyword != "" {
		return fmt.Sprintf("estimated_%s_page%02d_%d.png", r.Keyword, page, idx)
	}
	return fmt.Sprintf("figure_page%02d_%s_%d.png", page, r.Kind, idx)
}

// WriteCrops writes every crop under dir and returns the file name
// chosen for each. A failed write is recorded on the page result as a
// crop failure and does not stop the remaining writes.
func WriteCrops(dir string, results []figure.PageResult) (map[*raster.CropResult]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files := make(map[*raster.CropResult]string)
	for ri := range results {
		pr := &results[ri]
		for i, crop := range pr.Crops {
			name := CropFileName(pr.Page, i+1, crop.Region)
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, crop.PNG, 0644); err != nil {
				pr.Failures = append(pr.Failures, figure.Failure{
					Region: crop.Region,
					Reason: fmt.Sprintf("write %s: %v", name, err),
				})
				continue
			}
			files[crop] = name
		}
	}
	return files, nil
}

// WriteSummary writes the run summary as indented JSON.
func WriteSummary(path string, s figure.Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
