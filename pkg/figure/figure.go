// Package figure runs the per-page figure extraction pipeline: resolve
// provider elements into regions, fall back to heuristic estimation
// when the provider reports no visual elements, merge, and crop.
//
// Pages are independent: nothing here shares mutable state, so callers
// may process pages concurrently if they want throughput; the document
// full text is shared read-only.
package figure

import (
	"github.com/halldor/figcrop/pkg/docai"
	"github.com/halldor/figcrop/pkg/layout"
	"github.com/halldor/figcrop/pkg/raster"
)

// Options controls estimation and cropping for a run.
type Options struct {
	// Keywords anchor estimated regions around matching caption text.
	// Empty disables keyword estimation.
	Keywords []string
	// Offsets size the keyword-estimated rectangles.
	Offsets layout.Offsets
	// Gap configures the grid-gap estimator.
	Gap layout.GapConfig
	// PotentialMinArea filters coordinate-only elements treated as
	// unclassified figures.
	PotentialMinArea float64
}

// DefaultOptions returns the standard estimator settings with no
// keywords.
func DefaultOptions() Options {
	return Options{
		Offsets:          layout.DefaultOffsets(),
		Gap:              layout.DefaultGapConfig(),
		PotentialMinArea: layout.PotentialImageMinArea,
	}
}

// Failure records one region that could not be cropped. Failures are
// collected, never raised: a bad region must not abort its siblings.
type Failure struct {
	Region layout.Region `json:"region"`
	Reason string        `json:"reason"`
}

// PageResult is the outcome of processing a single page.
type PageResult struct {
	Page int

	// TextRegions are the detected text blocks with coordinates, the
	// signal the estimators work from.
	TextRegions []layout.Region

	// Candidates are the regions that were slated for cropping, in
	// processing order.
	Candidates []layout.Region

	Crops    []*raster.CropResult
	Failures []Failure
}

// Estimated reports whether the page's candidates came from heuristic
// estimation rather than provider coordinates.
func (r PageResult) Estimated() bool {
	for _, c := range r.Candidates {
		if c.Kind == layout.EstimatedGap || c.Kind == layout.EstimatedKeyword {
			return true
		}
	}
	return false
}

// ExtractPage processes one page end to end. The page raster may be
// nil, in which case candidates are still computed but nothing is
// cropped. Per-region crop failures land in PageResult.Failures.
func ExtractPage(page *docai.Page, fullText string, ras *raster.Raster, opts Options) PageResult {
	result := PageResult{Page: page.Number}

	// Resolve the text hierarchy. Blocks carry the coarsest and most
	// reliable coordinates, so they feed both the known-text set and
	// the keyword matcher.
	blocks := page.ElementsOf(layout.KindBlock)
	var knownBoxes []layout.Box
	for _, el := range blocks {
		r := layout.Resolve(el, fullText)
		if r == nil || r.Box == nil || r.SourceText == "" {
			continue
		}
		result.TextRegions = append(result.TextRegions, *r)
		knownBoxes = append(knownBoxes, *r.Box)
	}

	// Primary source: provider visual elements.
	for _, el := range page.ElementsOf(layout.KindVisual) {
		r := layout.Resolve(el, fullText)
		if r == nil || r.Box == nil {
			continue
		}
		result.Candidates = append(result.Candidates, *r)
	}

	// Secondary source, only when no visual elements came back: text
	// blocks that carry coordinates but no text, which the provider
	// often uses for unclassified figures. Running this alongside
	// genuine visual elements would crop the same figure twice.
	if len(result.Candidates) == 0 {
		result.Candidates = append(result.Candidates,
			layout.PotentialImages(blocks, fullText, opts.PotentialMinArea)...)
	}

	// Fallback: the provider reported nothing visual at all, so
	// estimate regions heuristically.
	if len(result.Candidates) == 0 {
		result.Candidates = append(result.Candidates,
			layout.EstimateGaps(knownBoxes, opts.Gap)...)
		result.Candidates = append(result.Candidates,
			layout.EstimateByKeyword(result.TextRegions, opts.Keywords, opts.Offsets)...)
	}

	if ras == nil {
		return result
	}

	for _, region := range result.Candidates {
		crop, err := raster.Crop(region, ras)
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				Region: region,
				Reason: err.Error(),
			})
			continue
		}
		result.Crops = append(result.Crops, crop)
	}
	return result
}
