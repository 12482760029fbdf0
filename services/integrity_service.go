package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/stats"
	"github.com/Dosada05/tennis-history/storage"
	"github.com/Dosada05/tennis-history/temporal"
)

type IntegrityService interface {
	// Scan checks every player's representation edges and every scored match.
	Scan(ctx context.Context) (*models.IntegrityReport, error)
	// Publish scans and uploads the report to object storage.
	Publish(ctx context.Context) (*models.IntegrityReport, error)
	Ping(ctx context.Context) error
}

type integrityService struct {
	integrityRepo repositories.IntegrityRepository
	playerRepo    repositories.PlayerRepository
	reports       *storage.ReportStore
	logger        *slog.Logger
	now           func() time.Time
}

// NewIntegrityService builds the scanner. reports may be nil when object
// storage is not configured; Publish then fails with ErrStorageDisabled.
func NewIntegrityService(integrityRepo repositories.IntegrityRepository, playerRepo repositories.PlayerRepository, reports *storage.ReportStore, logger *slog.Logger) IntegrityService {
	return &integrityService{
		integrityRepo: integrityRepo,
		playerRepo:    playerRepo,
		reports:       reports,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *integrityService) Scan(ctx context.Context) (*models.IntegrityReport, error) {
	edges, err := s.playerRepo.Representations(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load representations: %w", err)
	}
	players := make([]string, 0, len(edges))
	for id := range edges {
		players = append(players, id)
	}
	sort.Strings(players)

	anomalies := make([]models.Anomaly, 0)
	for _, id := range players {
		anomalies = append(anomalies, temporal.Validate(id, edges[id])...)
	}

	matches, err := s.integrityRepo.MatchesWithoutWinner(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan matches: %w", err)
	}
	for _, id := range matches {
		anomalies = append(anomalies, stats.MissingWinner(id))
	}

	anomalies = reportAnomalies(ctx, s.logger, "integrity", anomalies)
	if anomalies == nil {
		anomalies = []models.Anomaly{}
	}
	return &models.IntegrityReport{GeneratedAt: s.now().UTC(), Anomalies: anomalies}, nil
}

func (s *integrityService) Publish(ctx context.Context) (*models.IntegrityReport, error) {
	if s.reports == nil {
		return nil, ErrStorageDisabled
	}
	report, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.reports.Save(ctx, *report)
	if err != nil {
		return nil, fmt.Errorf("failed to upload integrity report: %w", err)
	}
	report.Location = res.Location
	s.logger.InfoContext(ctx, "Integrity report uploaded",
		slog.String("key", res.Key), slog.Int("anomalies", len(report.Anomalies)))
	return report, nil
}

func (s *integrityService) Ping(ctx context.Context) error {
	return s.integrityRepo.Ping(ctx)
}
