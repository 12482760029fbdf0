package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/stats"
	"github.com/Dosada05/tennis-history/temporal"
	"github.com/Dosada05/tennis-history/validation"
)

type PlayerService interface {
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	ListPlayers(ctx context.Context, input ListPlayersInput) (*models.Page[models.PlayerSummary], error)
	GroupPlayers(ctx context.Context, input GroupPlayersInput) (*models.Page[models.Group], error)
	CountryAt(ctx context.Context, id string, at *time.Time) (*CountryAtResult, error)
}

type ListPlayersInput struct {
	Filter repositories.PlayerFilter
	Sort   []query.SortField
	Page   query.Page
}

type GroupPlayersInput struct {
	Filter repositories.PlayerFilter
	Field  stats.GroupField
	Sort   []query.SortField
	Page   query.Page
}

// CountryAtResult is the country a player represented at a date.
type CountryAtResult struct {
	PlayerID  string           `json:"player_id"`
	Date      *time.Time       `json:"date,omitempty"`
	Country   *models.Country  `json:"country"`
	Anomalies []models.Anomaly `json:"anomalies,omitempty"`
}

type playerService struct {
	playerRepo  repositories.PlayerRepository
	countryRepo repositories.CountryRepository
	logger      *slog.Logger
	now         func() time.Time
}

func NewPlayerService(playerRepo repositories.PlayerRepository, countryRepo repositories.CountryRepository, logger *slog.Logger) PlayerService {
	return &playerService{
		playerRepo:  playerRepo,
		countryRepo: countryRepo,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *playerService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return player, nil
}

func (s *playerService) filter(f repositories.PlayerFilter) repositories.PlayerFilter {
	if f.CurrentYear == 0 {
		f.CurrentYear = s.now().Year()
	}
	return f
}

func (s *playerService) ListPlayers(ctx context.Context, input ListPlayersInput) (*models.Page[models.PlayerSummary], error) {
	filter := s.filter(input.Filter)

	count, err := s.playerRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count players: %w", err)
	}
	if count == 0 {
		return &models.Page[models.PlayerSummary]{Count: 0, Results: []models.PlayerSummary{}}, nil
	}

	players, err := s.playerRepo.List(ctx, filter, input.Sort, input.Page)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	coaches, err := s.playerRepo.Coaches(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load coaches: %w", err)
	}
	for i := range players {
		players[i].Coaches = coaches[players[i].ID]
	}

	if err := checkResults("results", players); err != nil {
		return nil, err
	}
	return &models.Page[models.PlayerSummary]{Count: count, Results: players}, nil
}

func (s *playerService) GroupPlayers(ctx context.Context, input GroupPlayersInput) (*models.Page[models.Group], error) {
	var vs validation.Violations
	vs.Check(input.Field.Valid(), "field", "must be one of country, min_year, max_year")
	if err := vs.Err(); err != nil {
		return nil, err
	}
	filter := s.filter(input.Filter)

	facts, err := s.playerRepo.Facts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load player facts: %w", err)
	}

	var candidates []models.Country
	if input.Field == stats.GroupCountry {
		summaries, err := s.countryRepo.List(ctx, repositories.CountryFilter{Countries: filter.Countries})
		if err != nil {
			return nil, fmt.Errorf("failed to load countries: %w", err)
		}
		candidates = make([]models.Country, len(summaries))
		for i, c := range summaries {
			candidates[i] = c.Country
		}
	}

	groups := stats.GroupPlayers(facts, input.Field, candidates)
	page := stats.OrderGroups(groups, input.Field, input.Sort, input.Page)
	if err := checkResults("results", page); err != nil {
		return nil, err
	}
	return &models.Page[models.Group]{Count: len(groups), Results: page}, nil
}

func (s *playerService) CountryAt(ctx context.Context, id string, at *time.Time) (*CountryAtResult, error) {
	if _, err := s.GetPlayer(ctx, id); err != nil {
		return nil, err
	}

	edges, err := s.playerRepo.Representations(ctx, []string{id})
	if err != nil {
		return nil, fmt.Errorf("failed to load representations of %s: %w", id, err)
	}
	countries, err := s.countryRepo.ByID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load countries: %w", err)
	}

	country, anomaly := temporal.NewResolver(edges, countries).Country(id, at)
	result := &CountryAtResult{PlayerID: id, Date: at, Country: country}
	if anomaly != nil {
		result.Anomalies = reportAnomalies(ctx, s.logger, "player_country", []models.Anomaly{*anomaly})
	}
	return result, nil
}
