package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/storage"
)

type memoryUploader struct {
	keys []string
	body []byte
}

func (u *memoryUploader) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.UploadResult, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	u.keys, u.body = append(u.keys, key), body
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) GetPublicURL(key string) string {
	return "https://reports.example.com/" + key
}

func integrityFixture() *fakePlayerRepo {
	players := testPlayers()
	players.edges["p3"] = []models.CountryRepresentation{
		{PlayerID: "p3", CountryID: "FRA", StartDate: date(2000, 1, 1), EndDate: date(2006, 1, 1)},
		{PlayerID: "p3", CountryID: "SUI", StartDate: date(2004, 1, 1), EndDate: date(2008, 1, 1)},
	}
	return players
}

func TestIntegrityScan(t *testing.T) {
	svc := NewIntegrityService(&fakeIntegrityRepo{missing: []int{42}}, integrityFixture(), nil, discardLogger())

	report, err := svc.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Anomalies, 2)
	assert.Equal(t, models.AnomalyRepresentationOverlap, report.Anomalies[0].Kind)
	assert.Equal(t, "p3", report.Anomalies[0].Subject)
	assert.Equal(t, models.AnomalyMissingWinner, report.Anomalies[1].Kind)
	assert.Equal(t, "42", report.Anomalies[1].Subject)
}

func TestIntegrityScanClean(t *testing.T) {
	svc := NewIntegrityService(&fakeIntegrityRepo{}, testPlayers(), nil, discardLogger())

	report, err := svc.Scan(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, report.Anomalies)
	assert.Empty(t, report.Anomalies)
}

func TestIntegrityPublish(t *testing.T) {
	svc := NewIntegrityService(&fakeIntegrityRepo{missing: []int{42}}, testPlayers(), nil, discardLogger())
	_, err := svc.Publish(context.Background())
	assert.ErrorIs(t, err, ErrStorageDisabled)

	uploader := &memoryUploader{}
	svc = &integrityService{
		integrityRepo: &fakeIntegrityRepo{missing: []int{42}},
		playerRepo:    testPlayers(),
		reports:       storage.NewReportStore(uploader),
		logger:        discardLogger(),
		now:           func() time.Time { return time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC) },
	}
	report, err := svc.Publish(context.Background())
	require.NoError(t, err)

	require.Len(t, uploader.keys, 1)
	assert.Regexp(t, `^integrity/2024-05-02/[0-9a-f-]{36}\.json$`, uploader.keys[0])
	assert.Equal(t, "https://reports.example.com/"+uploader.keys[0], report.Location)
	assert.Contains(t, string(uploader.body), `"missing_winner"`)
}
