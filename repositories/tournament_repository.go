package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
)

type TournamentFilter struct {
	Tours       []models.TournamentTour
	Tournaments []int
	// Established keeps tournaments established in or after this year.
	Established *int
	// Abolished keeps tournaments abolished in or before this year.
	Abolished *int
}

func (f TournamentFilter) Predicate() query.Predicate {
	return query.Where(
		query.InInts("t.id", f.Tournaments),
		query.Exists("tournament_tours ft", "ft.tournament_id = t.id", query.In("ft.tour", f.Tours)),
		query.Range("t.established", f.Established, nil),
		query.Range("t.abolished", nil, f.Abolished),
	)
}

var TournamentSorter = query.Sorter{
	Fields: map[string][]string{
		"name":        {"lower(t.name)"},
		"established": {"t.established"},
		"abolished":   {"t.abolished"},
	},
	Tiebreak: "name",
	Identity: "t.id",
}

type TournamentRepository interface {
	Count(ctx context.Context, filter TournamentFilter) (int, error)
	List(ctx context.Context, filter TournamentFilter, sort []query.SortField, page query.Page) ([]models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) selectTournaments(filter TournamentFilter, sort []query.SortField, page query.Page) query.Select {
	return query.Select{
		From:    "tournaments t",
		Columns: []string{"t.id", "t.name", "t.established", "t.abolished", "COALESCE(tt.tours, '{}')"},
		Projections: []string{
			"LEFT JOIN LATERAL (SELECT array_agg(x.tour ORDER BY x.tour) AS tours FROM tournament_tours x WHERE x.tournament_id = t.id) tt ON TRUE",
		},
		Where: filter.Predicate(),
		Order: TournamentSorter.Terms(sort),
		Page:  page,
	}
}

func (r *postgresTournamentRepository) Count(ctx context.Context, filter TournamentFilter) (int, error) {
	return runCount(ctx, r.db, "tournaments", r.selectTournaments(filter, nil, query.Page{}).Count())
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter TournamentFilter, sort []query.SortField, page query.Page) ([]models.Tournament, error) {
	tournaments := make([]models.Tournament, 0)
	err := runRows(ctx, r.db, "tournaments", "fetch", r.selectTournaments(filter, sort, page).Fetch(), func(row rowScanner) error {
		var t models.Tournament
		var established, abolished sql.NullInt64
		var tours pq.StringArray
		if err := row.Scan(&t.ID, &t.Name, &established, &abolished, &tours); err != nil {
			return err
		}
		t.Established, t.Abolished = intPtr(established), intPtr(abolished)
		t.Tours = make([]models.TournamentTour, 0, len(tours))
		for _, tour := range tours {
			t.Tours = append(t.Tours, models.TournamentTour(tour))
		}
		tournaments = append(tournaments, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tournaments, nil
}
