// Package layout models the geometry returned by a document analysis
// provider and turns it into croppable page regions.
//
// The provider describes each page element with an optional text anchor
// (offsets into the document's full text) and an optional bounding
// polygon in normalized coordinates. This package resolves those
// references into Regions, and when a page carries no usable visual
// elements it estimates likely figure regions heuristically: either
// from gaps in the text layout (grid occupancy analysis) or from the
// position of caption-like keyword matches.
//
// All coordinates handled here are normalized fractions of the page
// dimensions, in [0, 1]. Conversion to pixels happens at crop time in
// the raster package.
package layout

import "encoding/json"

// Point is a position expressed as fractions of the page width and height.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned rectangle in normalized page coordinates.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// Area returns the normalized area of the box.
func (b Box) Area() float64 { return b.Width() * b.Height() }

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{
		X: (b.Left + b.Right) / 2,
		Y: (b.Top + b.Bottom) / 2,
	}
}

// BoxFromPolygon builds a Box from a bounding polygon in the provider's
// vertex order: index 0 is the top-left corner and index 2 the
// bottom-right. Only 4-point axis-aligned quads are supported; rotated
// polygons are not produced by the provider and are not handled.
// Coordinates are clamped to [0, 1] and corners are ordered so that
// Left <= Right and Top <= Bottom always hold on the result.
// Returns nil if fewer than 4 vertices are present.
func BoxFromPolygon(pts []Point) *Box {
	if len(pts) < 4 {
		return nil
	}
	x0, y0 := clamp01(pts[0].X), clamp01(pts[0].Y)
	x2, y2 := clamp01(pts[2].X), clamp01(pts[2].Y)
	if x2 < x0 {
		x0, x2 = x2, x0
	}
	if y2 < y0 {
		y0, y2 = y2, y0
	}
	return &Box{Left: x0, Top: y0, Right: x2, Bottom: y2}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Span is a half-open [Start, End) offset pair into the document's
// full text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SpanText resolves spans against the full document text and
// concatenates the substrings in span order. Offsets index runes, not
// bytes, since the provider counts characters. Out-of-range offsets
// are clamped rather than rejected; a malformed span contributes an
// empty string.
func SpanText(spans []Span, fullText string) string {
	if len(spans) == 0 {
		return ""
	}
	runes := []rune(fullText)
	total := len(runes)

	out := make([]rune, 0, 64)
	for _, s := range spans {
		start, end := s.Start, s.End
		if start < 0 {
			start = 0
		}
		if end < 0 {
			end = 0
		}
		if end > total {
			end = total
		}
		if start > end {
			start = end
		}
		out = append(out, runes[start:end]...)
	}
	return string(out)
}

// ElementKind identifies the structural level an element came from.
type ElementKind int

const (
	KindBlock ElementKind = iota
	KindParagraph
	KindLine
	KindToken
	KindVisual
)

func (k ElementKind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindParagraph:
		return "paragraph"
	case KindLine:
		return "line"
	case KindToken:
		return "token"
	case KindVisual:
		return "visual"
	}
	return "unknown"
}

// Element is a single layout element reported by the provider. Both
// the text anchor and the bounding polygon are optional: genuine image
// elements typically carry coordinates but no text, and some text
// elements arrive without coordinates.
type Element struct {
	Kind    ElementKind
	Spans   []Span
	Polygon []Point
}

// HasPolygon reports whether the element carries a usable bounding polygon.
func (e Element) HasPolygon() bool { return len(e.Polygon) >= 4 }

// RegionKind records how a region was obtained.
type RegionKind int

const (
	// Detected regions come straight from provider coordinates.
	Detected RegionKind = iota
	// PotentialImage marks a provider element that carries coordinates
	// but no text, which usually means a figure the provider did not
	// classify as a visual element.
	PotentialImage
	// EstimatedGap regions are inferred from text-free areas of the page.
	EstimatedGap
	// EstimatedKeyword regions are inferred from the position of a
	// caption keyword match.
	EstimatedKeyword
)

func (k RegionKind) String() string {
	switch k {
	case Detected:
		return "detected"
	case PotentialImage:
		return "potential_image"
	case EstimatedGap:
		return "estimated_gap"
	case EstimatedKeyword:
		return "estimated_keyword"
	}
	return "unknown"
}

// MarshalJSON writes the kind as its string name so summary records
// stay readable.
func (k RegionKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts the string names produced by MarshalJSON;
// unrecognized names decode as Detected.
func (k *RegionKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "potential_image":
		*k = PotentialImage
	case "estimated_gap":
		*k = EstimatedGap
	case "estimated_keyword":
		*k = EstimatedKeyword
	default:
		*k = Detected
	}
	return nil
}

// Region is a candidate or confirmed rectangular area of interest on a
// page. Regions are immutable once created; MergeAdjacent replaces
// groups of regions with a single enlarged union rather than mutating
// members in place.
type Region struct {
	Box        *Box       `json:"box,omitempty"`
	Kind       RegionKind `json:"kind"`
	SourceText string     `json:"source_text,omitempty"`
	// Keyword is set on EstimatedKeyword regions only and names the
	// match that anchored the estimate.
	Keyword string `json:"keyword,omitempty"`
}

// Area returns the normalized area of the region, or 0 when it has no box.
func (r Region) Area() float64 {
	if r.Box == nil {
		return 0
	}
	return r.Box.Area()
}

// Resolve extracts a Region from a provider element. The text anchor
// and the bounding polygon resolve independently: a malformed or
// absent field yields empty text or a nil box instead of an error, so
// one bad field never discards the rest of the element. Returns nil
// when the element carries neither text nor coordinates. Resolve is
// pure and idempotent.
func Resolve(el Element, fullText string) *Region {
	text := SpanText(el.Spans, fullText)
	box := BoxFromPolygon(el.Polygon)
	if text == "" && box == nil {
		return nil
	}
	return &Region{
		Box:        box,
		Kind:       Detected,
		SourceText: text,
	}
}
