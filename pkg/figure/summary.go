package figure

import (
	"time"

	"github.com/google/uuid"

	"github.com/halldor/figcrop/pkg/layout"
	"github.com/halldor/figcrop/pkg/raster"
)

// Summary is the per-run record written alongside the crops: how many
// regions were found per source, how many crops succeeded, and why the
// rest failed.
type Summary struct {
	RunID       string        `json:"run_id"`
	Document    string        `json:"document"`
	GeneratedAt time.Time     `json:"generated_at"`
	Pages       []PageSummary `json:"pages"`
	Totals      Counts        `json:"totals"`
}

// Counts aggregates region and crop tallies.
type Counts struct {
	Regions  int            `json:"regions"`
	Crops    int            `json:"crops"`
	Failures int            `json:"failures"`
	ByKind   map[string]int `json:"by_kind"`
}

// PageSummary is one page's share of the run.
type PageSummary struct {
	Page      int            `json:"page"`
	Estimated bool           `json:"estimated"`
	Regions   int            `json:"regions"`
	Crops     []CropRecord   `json:"crops,omitempty"`
	Failures  []Failure      `json:"failures,omitempty"`
	ByKind    map[string]int `json:"by_kind,omitempty"`
}

// CropRecord describes one successful crop for the summary file.
type CropRecord struct {
	File    string          `json:"file"`
	Kind    string          `json:"kind"`
	Keyword string          `json:"keyword,omitempty"`
	Pixel   raster.PixelBox `json:"pixel_box"`
	Box     layout.Box      `json:"box"`
}

// Summarize builds the run summary for a processed document. File
// names in CropRecord are filled in by the caller that wrote them; the
// records here are created without them when crops were not persisted.
func Summarize(document string, results []PageResult, files map[*raster.CropResult]string) Summary {
	s := Summary{
		RunID:       uuid.New().String(),
		Document:    document,
		GeneratedAt: time.Now().UTC(),
		Totals:      Counts{ByKind: make(map[string]int)},
	}

	for _, pr := range results {
		ps := PageSummary{
			Page:      pr.Page,
			Estimated: pr.Estimated(),
			Regions:   len(pr.Candidates),
			Failures:  pr.Failures,
			ByKind:    make(map[string]int),
		}
		for _, c := range pr.Candidates {
			kind := c.Kind.String()
			ps.ByKind[kind]++
			s.Totals.ByKind[kind]++
		}
		for _, crop := range pr.Crops {
			rec := CropRecord{
				Kind:    crop.Region.Kind.String(),
				Keyword: crop.Region.Keyword,
				Pixel:   crop.Pixel,
			}
			if crop.Region.Box != nil {
				rec.Box = *crop.Region.Box
			}
			if files != nil {
				rec.File = files[crop]
			}
			ps.Crops = append(ps.Crops, rec)
		}

		s.Totals.Regions += len(pr.Candidates)
		s.Totals.Crops += len(pr.Crops)
		s.Totals.Failures += len(pr.Failures)
		s.Pages = append(s.Pages, ps)
	}
	return s
}
