package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/stats"
)

type CountryService interface {
	ListCountries(ctx context.Context, input ListCountriesInput) (*models.Page[models.CountrySummary], error)
}

type ListCountriesInput struct {
	Filter repositories.CountryFilter
	Sort   []query.SortField
	Page   query.Page
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(*s)
}

var countryComparators = map[string]query.Comparator[models.CountrySummary]{
	"name": func(a, b models.CountrySummary) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	},
	"continent": func(a, b models.CountrySummary) int {
		return cmp.Compare(optString(a.Continent), optString(b.Continent))
	},
	"players": func(a, b models.CountrySummary) int {
		return cmp.Compare(a.Players, b.Players)
	},
	"titles": func(a, b models.CountrySummary) int {
		return cmp.Compare(a.BigTitles, b.BigTitles)
	},
}

type countryService struct {
	countryRepo repositories.CountryRepository
	statsRepo   repositories.StatsRepository
	dir         directory
	logger      *slog.Logger
}

func NewCountryService(countryRepo repositories.CountryRepository, playerRepo repositories.PlayerRepository, statsRepo repositories.StatsRepository, logger *slog.Logger) CountryService {
	return &countryService{
		countryRepo: countryRepo,
		statsRepo:   statsRepo,
		dir:         directory{players: playerRepo, countries: countryRepo},
		logger:      logger,
	}
}

// ListCountries pages countries in memory: big titles are counted against
// the country each winner represented at the event date.
func (s *countryService) ListCountries(ctx context.Context, input ListCountriesInput) (*models.Page[models.CountrySummary], error) {
	countries, err := s.countryRepo.List(ctx, input.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	if len(countries) == 0 {
		return &models.Page[models.CountrySummary]{Count: 0, Results: []models.CountrySummary{}}, nil
	}

	wins, err := s.statsRepo.BigTitleWins(ctx, stats.BigTitleCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to load big titles: %w", err)
	}
	var winners []string
	for _, w := range wins {
		winners = append(winners, w.PlayerIDs...)
	}
	ppl, err := s.dir.load(ctx, winners)
	if err != nil {
		return nil, fmt.Errorf("failed to load title winners: %w", err)
	}

	titles, anomalies := stats.CountryTitles(wins, ppl.resolver)
	for i := range countries {
		countries[i].BigTitles = titles[countries[i].ID]
	}

	results := query.OrderAndPage(countries, input.Sort, countryComparators, "name", input.Page)
	return &models.Page[models.CountrySummary]{
		Count:     len(countries),
		Results:   results,
		Anomalies: reportAnomalies(ctx, s.logger, "countries", anomalies),
	}, nil
}
