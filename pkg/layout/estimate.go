package layout

import "strings"

// Defaults for the gap estimator and the keyword estimator. The grid
// and area band come from tuning against magazine-style pages: the
// lower bound drops margin slivers, the upper bound drops near-whole-
// page blobs that are whitespace rather than a discrete figure.
const (
	DefaultGridN   = 20
	DefaultMinArea = 0.002
	DefaultMaxArea = 0.8

	// PotentialImageMinArea filters out tiny coordinate-only elements
	// (rules, bullets) when hunting for unclassified figures.
	PotentialImageMinArea = 0.001
)

// GapConfig controls the grid-gap estimator.
type GapConfig struct {
	GridN   int     // grid subdivisions per axis
	MinArea float64 // smallest merged region to keep
	MaxArea float64 // largest merged region to keep
}

// DefaultGapConfig returns the standard 20x20 grid with the 0.2%-80%
// area band.
func DefaultGapConfig() GapConfig {
	return GapConfig{GridN: DefaultGridN, MinArea: DefaultMinArea, MaxArea: DefaultMaxArea}
}

// Tolerance returns the adjacency tolerance matching the grid: a hair
// over one cell so that cells sharing an edge always count as adjacent.
func (c GapConfig) Tolerance() float64 {
	n := c.GridN
	if n <= 0 {
		n = DefaultGridN
	}
	return 1.1 / float64(n)
}

// EstimateGaps partitions the unit page into a GridN x GridN grid and
// marks every cell that does not overlap any known text region as a
// candidate, then merges adjacent candidate cells and keeps the merged
// regions whose area falls inside [MinArea, MaxArea].
//
// Fewer than 2 known text regions is insufficient signal to
// triangulate gaps; the estimator returns nil in that case. The scan
// is row-major and merging follows discovery order, so identical
// inputs always produce the identical region list.
func EstimateGaps(known []Box, cfg GapConfig) []Region {
	if len(known) < 2 {
		return nil
	}
	n := cfg.GridN
	if n <= 0 {
		n = DefaultGridN
	}
	cell := 1.0 / float64(n)

	var candidates []Region
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			b := Box{
				Left:   float64(col) * cell,
				Top:    float64(row) * cell,
				Right:  float64(col+1) * cell,
				Bottom: float64(row+1) * cell,
			}
			if overlapsAny(b, known) {
				continue
			}
			box := b
			candidates = append(candidates, Region{Box: &box, Kind: EstimatedGap})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	merged := MergeAdjacent(candidates, cfg.Tolerance())

	minArea, maxArea := cfg.MinArea, cfg.MaxArea
	if maxArea <= 0 {
		maxArea = DefaultMaxArea
	}
	var out []Region
	for _, r := range merged {
		if a := r.Area(); a >= minArea && a <= maxArea {
			out = append(out, r)
		}
	}
	return out
}

func overlapsAny(b Box, regions []Box) bool {
	for _, t := range regions {
		if b.Right > t.Left && b.Left < t.Right && b.Bottom > t.Top && b.Top < t.Bottom {
			return true
		}
	}
	return false
}

// PotentialImages scans resolved elements for ones that carry
// coordinates but no text. Such elements are often figures the
// provider folded into the text block list. Elements smaller than
// minArea are ignored; pass PotentialImageMinArea for the standard
// cutoff.
func PotentialImages(elements []Element, fullText string, minArea float64) []Region {
	var out []Region
	for _, el := range elements {
		if !el.HasPolygon() {
			continue
		}
		if SpanText(el.Spans, fullText) != "" {
			continue
		}
		box := BoxFromPolygon(el.Polygon)
		if box == nil || box.Area() <= minArea {
			continue
		}
		out = append(out, Region{Box: box, Kind: PotentialImage})
	}
	return out
}

// Offsets gives the fixed fractional extents of a keyword-estimated
// region, measured from the center of the matching element.
type Offsets struct {
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
}

// DefaultOffsets covers roughly a fifth of the page around the match,
// wider than tall since captions usually sit under their figure.
func DefaultOffsets() Offsets {
	return Offsets{Top: 0.10, Bottom: 0.10, Left: 0.15, Right: 0.15}
}

// EstimateByKeyword produces one estimated region per element whose
// resolved text contains a keyword. Matching is an exact case-sensitive
// substring test; no normalization or fuzzy matching is applied. The
// estimated box is the offset rectangle centered on the matching
// element, clamped to the page. A keyword matching N elements yields N
// regions; deduplication is the merger's concern, not this one's.
func EstimateByKeyword(elements []Region, keywords []string, off Offsets) []Region {
	var out []Region
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		for _, el := range elements {
			if el.Box == nil || el.SourceText == "" {
				continue
			}
			if !strings.Contains(el.SourceText, kw) {
				continue
			}
			c := el.Box.Center()
			box := &Box{
				Left:   clamp01(c.X - off.Left),
				Right:  clamp01(c.X + off.Right),
				Top:    clamp01(c.Y - off.Top),
				Bottom: clamp01(c.Y + off.Bottom),
			}
			out = append(out, Region{
				Box:        box,
				Kind:       EstimatedKeyword,
				SourceText: el.SourceText,
				Keyword:    kw,
			})
		}
	}
	return out
}
