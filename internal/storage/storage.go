package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage holds the blobs the relational store does not: source spreadsheets
// and rendered report artifacts.
type Storage interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Upload(ctx context.Context, key string, data io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SourceKey addresses an uploaded spreadsheet. The unique prefix keeps
// same-named files from different schools apart.
func SourceKey(unique, fileName string) string {
	return fmt.Sprintf("uploads/%s-%s", unique, fileName)
}

// ArtifactKey addresses the rendered report for an upload. Keyed by upload id
// so regeneration overwrites the previous artifact in place.
func ArtifactKey(uploadID int64) string {
	return fmt.Sprintf("reports/report_%d.pdf", uploadID)
}

// ArtifactName is the download filename presented to recipients.
func ArtifactName(uploadID int64) string {
	return fmt.Sprintf("Report_Card_%d.pdf", uploadID)
}
