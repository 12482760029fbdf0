package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
)

type CountryFilter struct {
	Continents []string
	Countries  []string
}

func (f CountryFilter) Predicate() query.Predicate {
	return query.Where(
		query.In("c.continent", f.Continents),
		query.In("c.id", f.Countries),
	)
}

type CountryRepository interface {
	// List returns every matching country with its current player count.
	List(ctx context.Context, filter CountryFilter) ([]models.CountrySummary, error)
	ByID(ctx context.Context) (map[string]models.Country, error)
}

type postgresCountryRepository struct {
	db *sql.DB
}

func NewPostgresCountryRepository(db *sql.DB) CountryRepository {
	return &postgresCountryRepository{db: db}
}

func (r *postgresCountryRepository) List(ctx context.Context, filter CountryFilter) ([]models.CountrySummary, error) {
	sel := query.Select{
		From:    "countries c",
		Columns: []string{"c.id", "c.name", "c.alpha2", "c.continent", "COALESCE(pl.players, 0)"},
		Projections: []string{
			"LEFT JOIN LATERAL (SELECT COUNT(*) AS players FROM player_countries pc WHERE pc.country_id = c.id AND pc.current) pl ON TRUE",
		},
		Where: filter.Predicate(),
		Order: []query.OrderTerm{{Expr: "c.name", Dir: query.Asc}, {Expr: "c.id", Dir: query.Asc}},
	}

	countries := make([]models.CountrySummary, 0)
	err := runRows(ctx, r.db, "countries", "all", sel.All(), func(row rowScanner) error {
		var c models.CountrySummary
		var alpha2, continent sql.NullString
		if err := row.Scan(&c.ID, &c.Name, &alpha2, &continent, &c.Players); err != nil {
			return err
		}
		c.Alpha2, c.Continent = stringPtr(alpha2), stringPtr(continent)
		countries = append(countries, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return countries, nil
}

// ByID loads the whole country table for resolvers.
func (r *postgresCountryRepository) ByID(ctx context.Context) (map[string]models.Country, error) {
	plan := query.Plan{SQL: "SELECT id, name, alpha2, continent FROM countries"}
	out := make(map[string]models.Country)
	err := runRows(ctx, r.db, "country_index", "all", plan, func(row rowScanner) error {
		var c models.Country
		var alpha2, continent sql.NullString
		if err := row.Scan(&c.ID, &c.Name, &alpha2, &continent); err != nil {
			return err
		}
		c.Alpha2, c.Continent = stringPtr(alpha2), stringPtr(continent)
		out[c.ID] = c
		return nil
	})
	return out, err
}
