package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// ReportArchive keeps finished reports and returns where they can be read.
type ReportArchive interface {
	Store(ctx context.Context, key string, report interface{}) (string, error)
}

type jsonReportArchive struct {
	uploader FileUploader
}

func NewJSONReportArchive(uploader FileUploader) ReportArchive {
	return &jsonReportArchive{uploader: uploader}
}

func (a *jsonReportArchive) Store(ctx context.Context, key string, report interface{}) (string, error) {
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report %s: %w", key, err)
	}
	result, err := a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return result.Location, nil
}
