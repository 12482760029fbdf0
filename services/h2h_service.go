package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/stats"
	"github.com/Dosada05/tennis-history/validation"
)

const (
	DefaultGridSize = 10
	MaxGridSize     = 50
)

type H2HService interface {
	Players(ctx context.Context, team1, team2 []string) (*models.H2HResult, error)
	Matches(ctx context.Context, team1, team2 []string) (*models.Page[models.H2HMatch], error)
	Grid(ctx context.Context, tour models.Tour, size int) (*models.H2HGrid, error)
}

type h2hService struct {
	h2hRepo repositories.H2HRepository
	dir     directory
	logger  *slog.Logger
}

func NewH2HService(h2hRepo repositories.H2HRepository, playerRepo repositories.PlayerRepository, countryRepo repositories.CountryRepository, logger *slog.Logger) H2HService {
	return &h2hService{
		h2hRepo: h2hRepo,
		dir:     directory{players: playerRepo, countries: countryRepo},
		logger:  logger,
	}
}

// oriented loads the matches between the teams as seen from team1. Matches
// without a winner stay in the list and are reported as anomalies.
func (s *h2hService) oriented(ctx context.Context, team1, team2 []string) ([]models.H2HMatch, []models.Anomaly, error) {
	raw, err := s.h2hRepo.Matches(ctx, team1, team2)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load head-to-head matches: %w", err)
	}
	matches := make([]models.H2HMatch, 0, len(raw))
	var anomalies []models.Anomaly
	for _, r := range raw {
		m, ok := stats.OrientMatch(r, team1)
		if !ok {
			continue
		}
		if m.Anomaly != nil {
			anomalies = append(anomalies, stats.MissingWinner(m.MatchID))
		}
		matches = append(matches, m)
	}
	return matches, anomalies, nil
}

func (s *h2hService) Players(ctx context.Context, team1, team2 []string) (*models.H2HResult, error) {
	if err := validation.Teams(team1, team2); err != nil {
		return nil, err
	}

	var (
		rec1, rec2 repositories.TeamRecord
		matches    []models.H2HMatch
		anomalies  []models.Anomaly
		ppl        *people
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rec1, err = s.h2hRepo.TeamRecord(gctx, team1)
		return err
	})
	g.Go(func() error {
		var err error
		rec2, err = s.h2hRepo.TeamRecord(gctx, team2)
		return err
	})
	g.Go(func() error {
		var err error
		matches, anomalies, err = s.oriented(gctx, team1, team2)
		return err
	})
	g.Go(func() error {
		var err error
		ppl, err = s.dir.load(gctx, append(append([]string{}, team1...), team2...))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build head-to-head: %w", err)
	}

	wins1, wins2 := stats.H2HWins(matches)
	result := &models.H2HResult{
		Team1: side(ppl.team(team1, nil), rec1, wins1),
		Team2: side(ppl.team(team2, nil), rec2, wins2),
	}
	anomalies = append(anomalies, ppl.anomalies...)
	result.Anomalies = reportAnomalies(ctx, s.logger, "h2h_players", anomalies)
	return result, nil
}

func side(players []models.PlayerRef, rec repositories.TeamRecord, wins int) models.H2HSide {
	return models.H2HSide{
		Players:      players,
		Wins:         wins,
		Titles:       rec.Titles,
		CareerWins:   rec.Wins,
		CareerLosses: rec.Losses,
		TourWins:     rec.TourWins,
		TourLosses:   rec.TourLosses,
		TourTitles:   rec.TourTitles,
	}
}

func (s *h2hService) Matches(ctx context.Context, team1, team2 []string) (*models.Page[models.H2HMatch], error) {
	if err := validation.Teams(team1, team2); err != nil {
		return nil, err
	}
	matches, anomalies, err := s.oriented(ctx, team1, team2)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.H2HMatch]{
		Count:     len(matches),
		Results:   matches,
		Anomalies: reportAnomalies(ctx, s.logger, "h2h_matches", anomalies),
	}, nil
}

// Grid builds the head-to-head matrix of the top current singles players of a tour.
func (s *h2hService) Grid(ctx context.Context, tour models.Tour, size int) (*models.H2HGrid, error) {
	var vs validation.Violations
	vs.Check(tour.Valid(), "tour", "must be one of ATP, WTA")
	vs.Check(size >= 0 && size <= MaxGridSize, "size", "must be between 1 and %d", MaxGridSize)
	if err := vs.Err(); err != nil {
		return nil, err
	}
	if size == 0 {
		size = DefaultGridSize
	}

	top, err := s.h2hRepo.TopPlayers(ctx, tour, size)
	if err != nil {
		return nil, fmt.Errorf("failed to load top %s players: %w", tour, err)
	}
	ids := make([]string, len(top))
	for i, p := range top {
		ids[i] = p.ID
	}

	var (
		wins map[string]map[string]int
		ppl  *people
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		wins, err = s.h2hRepo.GridWins(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		ppl, err = s.dir.load(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load grid results: %w", err)
	}
	for i := range top {
		c, a := ppl.resolver.Country(top[i].ID, nil)
		if a != nil {
			ppl.anomalies = append(ppl.anomalies, *a)
		}
		top[i].Country = c
	}
	reportAnomalies(ctx, s.logger, "h2h_grid", ppl.anomalies)

	grid := &models.H2HGrid{Players: top, Results: make(map[string]map[string]string, len(ids))}
	for _, row := range ids {
		cells := make(map[string]string, len(ids)-1)
		for _, col := range ids {
			if row == col {
				continue
			}
			cells[col] = stats.GridCell(stats.WinLoss{Wins: wins[row][col], Losses: wins[col][row]})
		}
		grid.Results[row] = cells
	}
	return grid, nil
}
