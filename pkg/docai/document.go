package docai

import (
	"sort"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/halldor/figcrop/pkg/layout"
)

// Page carries everything figure extraction needs from one Document AI
// page: the layout elements with their optional anchors and polygons,
// and the rendered page image when the processor returned one.
type Page struct {
	Number int

	// Elements holds the page's layout elements across all structural
	// levels, each tagged with its kind.
	Elements []layout.Element

	// Image is the provider-rendered page raster, nil when the
	// processor did not return page images.
	Image       []byte
	ImageWidth  int
	ImageHeight int
}

// ElementsOf returns the page's elements of one structural kind.
func (p *Page) ElementsOf(kind layout.ElementKind) []layout.Element {
	var out []layout.Element
	for _, el := range p.Elements {
		if el.Kind == kind {
			out = append(out, el)
		}
	}
	return out
}

// PagesFromProto converts a Document AI response into pages of layout
// elements, sorted by page number.
func PagesFromProto(doc *documentaipb.Document) []*Page {
	if doc == nil {
		return nil
	}

	var result []*Page
	for i, page := range doc.Pages {
		num := int(page.PageNumber)
		if num == 0 {
			// Some processor versions leave PageNumber unset.
			num = i + 1
		}
		result = append(result, pageFromProto(page, num))
	}

	if len(result) > 1 {
		sort.Slice(result, func(i, j int) bool {
			return result[i].Number < result[j].Number
		})
	}
	return result
}

func pageFromProto(page *documentaipb.Document_Page, num int) *Page {
	p := &Page{Number: num}

	for _, block := range page.Blocks {
		p.Elements = append(p.Elements, elementFromLayout(layout.KindBlock, block.Layout))
	}
	for _, para := range page.Paragraphs {
		p.Elements = append(p.Elements, elementFromLayout(layout.KindParagraph, para.Layout))
	}
	for _, line := range page.Lines {
		p.Elements = append(p.Elements, elementFromLayout(layout.KindLine, line.Layout))
	}
	for _, token := range page.Tokens {
		p.Elements = append(p.Elements, elementFromLayout(layout.KindToken, token.Layout))
	}
	for _, ve := range page.VisualElements {
		p.Elements = append(p.Elements, elementFromLayout(layout.KindVisual, ve.Layout))
	}

	if img := page.GetImage(); img != nil {
		p.Image = img.GetContent()
		p.ImageWidth = int(img.GetWidth())
		p.ImageHeight = int(img.GetHeight())
	}

	return p
}

// elementFromLayout maps a Document AI layout to a layout.Element.
// Absent anchors or polygons yield absent fields, never an error.
func elementFromLayout(kind layout.ElementKind, l *documentaipb.Document_Page_Layout) layout.Element {
	el := layout.Element{Kind: kind}
	if l == nil {
		return el
	}

	if anchor := l.TextAnchor; anchor != nil {
		for _, seg := range anchor.TextSegments {
			if seg == nil {
				continue
			}
			el.Spans = append(el.Spans, layout.Span{
				Start: int(seg.StartIndex),
				End:   int(seg.EndIndex),
			})
		}
	}

	if poly := l.BoundingPoly; poly != nil {
		for _, v := range poly.NormalizedVertices {
			if v == nil {
				continue
			}
			el.Polygon = append(el.Polygon, layout.Point{
				X: float64(v.X),
				Y: float64(v.Y),
			})
		}
	}

	return el
}
