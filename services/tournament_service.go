package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
	"github.com/Dosada05/tennis-history/repositories"
)

type TournamentService interface {
	ListTournaments(ctx context.Context, input ListTournamentsInput) (*models.Page[models.Tournament], error)
}

type ListTournamentsInput struct {
	Filter repositories.TournamentFilter
	Sort   []query.SortField
	Page   query.Page
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository) TournamentService {
	return &tournamentService{tournamentRepo: tournamentRepo}
}

func (s *tournamentService) ListTournaments(ctx context.Context, input ListTournamentsInput) (*models.Page[models.Tournament], error) {
	count, err := s.tournamentRepo.Count(ctx, input.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count tournaments: %w", err)
	}
	if count == 0 {
		return &models.Page[models.Tournament]{Count: 0, Results: []models.Tournament{}}, nil
	}

	tournaments, err := s.tournamentRepo.List(ctx, input.Filter, input.Sort, input.Page)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	if tournaments == nil {
		tournaments = []models.Tournament{}
	}
	return &models.Page[models.Tournament]{Count: count, Results: tournaments}, nil
}
