package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/stats"
)

type PointsService interface {
	Recompute(ctx context.Context, eventID string) (*PointsReport, error)
}

// PointsReport summarises one recompute run.
type PointsReport struct {
	EventID string `json:"event_id"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
}

type pointsService struct {
	db        *sql.DB
	eventRepo repositories.EventRepository
	entryRepo repositories.EntryRepository
	logger    *slog.Logger
}

func NewPointsService(db *sql.DB, eventRepo repositories.EventRepository, entryRepo repositories.EntryRepository, logger *slog.Logger) PointsService {
	return &pointsService{
		db:        db,
		eventRepo: eventRepo,
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// Recompute runs the points state machine over every scored entry of the
// event and stores the result in one transaction.
func (s *pointsService) Recompute(ctx context.Context, eventID string) (*PointsReport, error) {
	ev, err := s.eventRepo.GetContext(ctx, eventID)
	if err != nil {
		if mapped := mapRepoError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to get event %s: %w", eventID, err)
	}

	report := &PointsReport{EventID: eventID}
	err = withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		rounds, err := s.eventRepo.Rounds(ctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("failed to load rounds: %w", err)
		}
		byType := make(map[models.MatchType][]models.Round)
		for _, r := range rounds {
			byType[r.MatchType] = append(byType[r.MatchType], r)
		}
		indexed := make(map[models.MatchType]stats.Rounds, len(byType))
		for mt, rs := range byType {
			indexed[mt] = stats.NewRounds(rs)
		}

		facts, err := s.eventRepo.PointsFacts(ctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("failed to load points facts: %w", err)
		}
		for _, f := range facts {
			res, ok := stats.ComputePoints(f, ev.Tour, indexed[f.MatchType])
			if !ok {
				report.Skipped++
				continue
			}
			if err := s.entryRepo.UpdatePoints(ctx, tx, res.EntryID, res.Points, res.PM); err != nil {
				return mapRepoError(err)
			}
			report.Updated++
		}
		if report.Updated == 0 {
			return noChanges("points of event " + eventID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Points recomputed",
		slog.String("event_id", eventID), slog.Int("updated", report.Updated), slog.Int("skipped", report.Skipped))
	return report, nil
}
