// figcrop is a command-line tool that extracts figure images from documents
// processed with Google Document AI.
//
// The tool sends a PDF to Document AI, resolves the returned layout elements
// into page regions, and crops each region out of the page images the API
// returns. When a page carries no visual elements, figcrop estimates likely
// figure regions from gaps in the text layout and, optionally, from caption
// keyword matches.
//
// Configuration:
//
// The tool requires a YAML configuration file with Document AI settings,
// optionally with estimation keywords and offsets:
//
//	project_id: "your-gcp-project-id"
//	location: "us"
//	processor_id: "your-processor-id"
//	keywords:
//	  - "エッグチェア"
//	  - "スワンチェア"
//	offsets:
//	  top: 0.10
//	  bottom: 0.10
//	  left: 0.15
//	  right: 0.15
//
// Usage:
//
//	figcrop -config config.yml -pdf input.pdf -out extracted_images [options]
//
// Required flags:
//
//	-config string  Path to the YAML configuration file
//	-pdf string     Path to the input PDF file
//
// Output options:
//
//	-out string      Directory to save cropped figure images (default "extracted_images")
//	-summary string  Path to save the run summary JSON
//	-overlay string  Path to save a PDF with detected and estimated regions drawn on each page
//
// Estimation options:
//
//	-keywords string  Comma-separated caption keywords (overrides config)
//	-grid int         Grid subdivisions per axis for gap estimation (default 20)
//	-min-area float   Smallest estimated region to keep (default 0.002)
//	-max-area float   Largest estimated region to keep (default 0.8)
//
// Debug options:
//
//	-debug-api string  Path to save the raw API response as JSON
//
// Authentication:
//
// The tool uses the GOOGLE_APPLICATION_CREDENTIALS environment variable
// for authentication with Google Cloud.
//
// Example:
//
//	export GOOGLE_APPLICATION_CREDENTIALS=/path/to/credentials.json
//	figcrop -config config.yml -pdf catalog.pdf -out figures -summary run.json -overlay regions.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/halldor/figcrop/pkg/docai"
	"github.com/halldor/figcrop/pkg/figure"
	"github.com/halldor/figcrop/pkg/layout"
	"github.com/halldor/figcrop/pkg/raster"
	"github.com/halldor/figcrop/pkg/report"
)

type yamlConfig struct {
	ProjectID   string          `yaml:"project_id"`
	Location    string          `yaml:"location"`
	ProcessorID string          `yaml:"processor_id"`
	Keywords    []string        `yaml:"keywords"`
	Offsets     *layout.Offsets `yaml:"offsets"`
}

// loadConfig reads the YAML file and splits it into the Document AI
// config and the estimation options.
func loadConfig(path string) (*docai.Config, figure.Options, error) {
	opts := figure.DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, opts, err
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, opts, err
	}

	opts.Keywords = yc.Keywords
	if yc.Offsets != nil {
		opts.Offsets = *yc.Offsets
	}

	cfg := &docai.Config{
		ProjectID:   yc.ProjectID,
		Location:    yc.Location,
		ProcessorID: yc.ProcessorID,
	}
	return cfg, opts, nil
}

func main() {
	// Required flags.
	configPath := flag.String("config", "", "Path to the config YAML file (required)")
	pdfPath := flag.String("pdf", "", "Path to the input PDF file (required)")

	// Output flags.
	outDir := flag.String("out", "extracted_images", "Directory to save cropped figure images")
	summaryPath := flag.String("summary", "", "Path to save the run summary JSON")
	overlayPath := flag.String("overlay", "", "Path to save a PDF with regions drawn on each page")
	debugAPIPath := flag.String("debug-api", "", "Path to save API response as JSON for debugging purposes")

	// Estimation flags.
	keywordList := flag.String("keywords", "", "Comma-separated caption keywords (overrides config)")
	gridN := flag.Int("grid", layout.DefaultGridN, "Grid subdivisions per axis for gap estimation")
	minArea := flag.Float64("min-area", layout.DefaultMinArea, "Smallest estimated region to keep")
	maxArea := flag.Float64("max-area", layout.DefaultMaxArea, "Largest estimated region to keep")

	flag.Parse()

	// Create a map of provided flags to validate.
	providedFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		providedFlags[f.Name] = true
	})

	if *configPath == "" || *pdfPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config and -pdf flags are required")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	hasError := false
	validateFlag := func(name string, value string) {
		if providedFlags[name] && value == "" {
			fmt.Fprintf(os.Stderr, "Error: -%s flag requires a value\n", name)
			hasError = true
		}
	}
	validateFlag("out", *outDir)
	validateFlag("summary", *summaryPath)
	validateFlag("overlay", *overlayPath)
	validateFlag("debug-api", *debugAPIPath)
	if hasError {
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, opts, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *keywordList != "" {
		opts.Keywords = opts.Keywords[:0]
		for _, kw := range strings.Split(*keywordList, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				opts.Keywords = append(opts.Keywords, kw)
			}
		}
	}
	opts.Gap = layout.GapConfig{GridN: *gridN, MinArea: *minArea, MaxArea: *maxArea}

	pdfBytes, err := os.ReadFile(*pdfPath)
	if err != nil {
		log.Fatalf("Failed to read PDF file: %v", err)
	}

	fmt.Println("Processing PDF file:", *pdfPath)
	ctx := context.Background()
	doc, err := docai.Process(ctx, pdfBytes, cfg)
	if err != nil {
		log.Fatalf("Error processing document: %v", err)
	}

	// Write API response JSON if flag is provided.
	if *debugAPIPath != "" {
		apiJSON, err := docai.ToJSON(doc)
		if err != nil {
			log.Fatalf("Failed to convert API response to JSON: %v", err)
		}
		if err := os.WriteFile(*debugAPIPath, []byte(apiJSON), 0644); err != nil {
			log.Fatalf("Failed to write API response JSON: %v", err)
		}
		fmt.Println("API response JSON saved to:", *debugAPIPath)
	}

	pages := docai.PagesFromProto(doc)
	if len(pages) == 0 {
		log.Fatalf("Document AI returned no pages")
	}
	fmt.Printf("Document has %d page(s)\n", len(pages))

	var results []figure.PageResult
	var overlayPages []report.OverlayPage

	for _, page := range pages {
		var ras *raster.Raster
		if len(page.Image) > 0 {
			ras, err = raster.Decode(page.Image)
			if err != nil {
				log.Printf("Page %d: skipping crops, %v", page.Number, err)
			}
		} else {
			log.Printf("Page %d: no page image in API response, crops unavailable", page.Number)
		}

		result := figure.ExtractPage(page, doc.Text, ras, opts)
		results = append(results, result)

		source := "detected"
		if result.Estimated() {
			source = "estimated"
		}
		fmt.Printf("Page %d: %d text region(s), %d candidate region(s) (%s), %d crop(s)\n",
			page.Number, len(result.TextRegions), len(result.Candidates), source, len(result.Crops))

		if ras != nil {
			overlayPages = append(overlayPages, report.OverlayPage{
				Image:  page.Image,
				Width:  ras.Width,
				Height: ras.Height,
				Result: result,
			})
		}
	}

	files, err := report.WriteCrops(*outDir, results)
	if err != nil {
		log.Fatalf("Failed to write crops: %v", err)
	}
	for _, name := range files {
		fmt.Println("Saved crop:", filepath.Join(*outDir, name))
	}

	summary := figure.Summarize(filepath.Base(*pdfPath), results, files)

	if *summaryPath != "" {
		if err := report.WriteSummary(*summaryPath, summary); err != nil {
			log.Fatalf("Failed to write summary: %v", err)
		}
		fmt.Println("Run summary saved to:", *summaryPath)
	}

	if *overlayPath != "" {
		if len(overlayPages) == 0 {
			fmt.Println("Warning: no page images available for the overlay PDF")
		} else {
			pdfOut, err := report.Overlay(overlayPages)
			if err != nil {
				log.Fatalf("Failed to render overlay PDF: %v", err)
			}
			if err := os.WriteFile(*overlayPath, pdfOut, 0644); err != nil {
				log.Fatalf("Failed to write overlay PDF: %v", err)
			}
			fmt.Println("Region overlay PDF saved to:", *overlayPath)
		}
	}

	fmt.Printf("Done: %d of %d region(s) cropped\n", summary.Totals.Crops, summary.Totals.Regions)
	for _, ps := range summary.Pages {
		for _, f := range ps.Failures {
			fmt.Printf("  page %d: %s region skipped: %s\n", ps.Page, f.Region.Kind, f.Reason)
		}
	}
}
