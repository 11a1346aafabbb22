package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/halldor/figcrop/pkg/figure"
	"github.com/halldor/figcrop/pkg/layout"
)

// OverlayPage pairs a page raster with its extraction result.
type OverlayPage struct {
	Image  []byte
	Width  int
	Height int
	Result figure.PageResult
}

// Overlay renders one PDF page per input page: the page raster at full
// size with every candidate region outlined and labeled, colored by
// how the region was obtained. The PDF is a review aid, not an
// archival format.
func Overlay(pages []OverlayPage) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to render")
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetLineWidth(2)

	for i, page := range pages {
		if len(page.Image) == 0 || page.Width <= 0 || page.Height <= 0 {
			continue
		}
		w, h := float64(page.Width), float64(page.Height)
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		imgData, imgType, err := pdfImage(page.Image)
		if err != nil {
			return nil, fmt.Errorf("page %d image: %w", page.Result.Page, err)
		}
		imageName := fmt.Sprintf("page%d", i)
		opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imgType}
		pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(imgData))
		pdf.ImageOptions(imageName, 0, 0, w, h, false, opts, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, region := range page.Result.Candidates {
			if region.Box == nil {
				continue
			}
			r, g, b := kindColor(region.Kind)
			pdf.SetDrawColor(r, g, b)
			pdf.SetTextColor(r, g, b)

			x := region.Box.Left * w
			y := region.Box.Top * h
			pdf.Rect(x, y, region.Box.Width()*w, region.Box.Height()*h, "D")
			pdf.Text(x+2, y-3, regionLabel(region))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate overlay PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// regionLabel builds the text drawn next to a region outline. fpdf's
// core fonts only cover Latin-1, so labels that do not survive the
// encoding fall back to the kind name alone.
func regionLabel(r layout.Region) string {
	label := r.Kind.String()
	if r.Keyword != "" {
		label = label + " " + r.Keyword
	}
	encoded, err := charmap.ISO8859_1.NewEncoder().String(label)
	if err != nil {
		return r.Kind.String()
	}
	return encoded
}

func kindColor(kind layout.RegionKind) (int, int, int) {
	switch kind {
	case layout.Detected:
		return 0, 160, 0
	case layout.PotentialImage:
		return 230, 126, 0
	case layout.EstimatedGap:
		return 0, 80, 200
	case layout.EstimatedKeyword:
		return 200, 0, 0
	}
	return 90, 90, 90
}

// pdfImage returns image bytes in a format fpdf can register,
// re-encoding to PNG when the raster arrived in a format it cannot.
func pdfImage(data []byte) ([]byte, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image config: %w", err)
	}
	switch format {
	case "png", "jpeg", "gif":
		return data, strings.ToUpper(format), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("failed to re-encode %s image: %w", format, err)
	}
	return buf.Bytes(), "PNG", nil
}
