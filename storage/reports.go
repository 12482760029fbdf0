package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Dosada05/tennis-history/models"
)

// ReportStore keeps integrity reports as JSON objects.
type ReportStore struct {
	uploader FileUploader
	prefix   string
}

func NewReportStore(uploader FileUploader) *ReportStore {
	return &ReportStore{uploader: uploader, prefix: "integrity"}
}

// reportKey is integrity/<date>/<uuid>.json, so listings sort by day.
func (s *ReportStore) reportKey(at time.Time) string {
	return fmt.Sprintf("%s/%s/%s.json", s.prefix, at.UTC().Format("2006-01-02"), uuid.NewString())
}

// Save uploads the report and returns its object key and public location.
func (s *ReportStore) Save(ctx context.Context, report models.IntegrityReport) (*UploadResult, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode integrity report: %w", err)
	}
	return s.uploader.Upload(ctx, s.reportKey(report.GeneratedAt), "application/json", bytes.NewReader(body))
}
