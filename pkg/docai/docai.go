// Package docai talks to Google Document AI and converts its responses
// into the provider-neutral layout model used by the rest of figcrop.
//
// The package deliberately converts eagerly: every optional proto field
// (text anchors, bounding polygons, page images) becomes an optional
// field on layout.Element or Page, so downstream code never inspects
// proto types. The Document AI schema is only partially specified for
// some processor versions; conversion is best effort and a malformed
// sub-field resolves to an absent field rather than an error.
//
// Authentication uses the GOOGLE_APPLICATION_CREDENTIALS environment
// variable, matching the gcloud tooling convention.
package docai

import (
	"context"
	"fmt"
	"os"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/avast/retry-go/v4"
	"google.golang.org/api/option"
)

// Config identifies the Document AI processor to use.
type Config struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
}

// processAttempts bounds retries of the ProcessDocument call; the API
// intermittently returns transient unavailability for large PDFs.
const processAttempts = 3

// Process sends PDF bytes to Document AI and returns the raw Document
// proto. OCR options are tuned for figure work: native PDF parsing so
// embedded rasters survive, and image quality scoring enabled.
func Process(ctx context.Context, pdfBytes []byte, cfg *Config) (*documentaipb.Document, error) {
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)

	client, err := documentai.NewDocumentProcessorClient(
		ctx,
		option.WithEndpoint(endpoint),
		option.WithCredentialsFile(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	defer client.Close()

	name := fmt.Sprintf(
		"projects/%s/locations/%s/processors/%s",
		cfg.ProjectID, cfg.Location, cfg.ProcessorID,
	)

	req := &documentaipb.ProcessRequest{
		Name: name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
		SkipHumanReview: true,
		ProcessOptions: &documentaipb.ProcessOptions{
			OcrConfig: &documentaipb.OcrConfig{
				EnableNativePdfParsing:   true,
				EnableImageQualityScores: true,
			},
		},
	}

	var resp *documentaipb.ProcessResponse
	err = retry.Do(
		func() error {
			var callErr error
			resp, callErr = client.ProcessDocument(ctx, req)
			return callErr
		},
		retry.Context(ctx),
		retry.Attempts(processAttempts),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}

	return resp.Document, nil
}
