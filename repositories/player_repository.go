package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
)

var ErrPlayerNotFound = errors.New("player not found")

// PlayerFilter is the sparse criteria set of the player listing.
type PlayerFilter struct {
	Tours     []models.Tour
	Countries []string
	Players   []string
	Coaches   []string
	MinYear   *int
	MaxYear   *int
	Active    *bool
	// CurrentYear is the year "active" is measured against.
	CurrentYear int
}

// Predicate builds the filter shared by the count and fetch plans.
// Country and coach criteria are existence checks, so they never change
// the number of rows per player.
func (f PlayerFilter) Predicate() query.Predicate {
	return query.Where(
		query.In("p.tour", f.Tours),
		query.In("p.id", f.Players),
		query.Exists("player_countries fc", "fc.player_id = p.id AND fc.current",
			query.In("fc.country_id", f.Countries)),
		query.Exists("coaching fco", "fco.player_id = p.id",
			query.In("fco.coach_id", f.Coaches)),
		query.Range("py.min_year", f.MinYear, nil),
		query.Range("py.max_year", nil, f.MaxYear),
		query.When(f.Active != nil && *f.Active, query.Expr("py.max_year = ?", f.CurrentYear)),
		query.When(f.Active != nil && !*f.Active, query.Expr("py.max_year < ?", f.CurrentYear)),
	)
}

const playerFrom = "players p LEFT JOIN player_years py ON py.player_id = p.id"

// Текущая страна: не более одной строки благодаря частичному уникальному индексу.
const currentCountryJoin = "LEFT JOIN player_countries pc ON pc.player_id = p.id AND pc.current LEFT JOIN countries c ON c.id = pc.country_id"

var PlayerSorter = query.Sorter{
	Fields: map[string][]string{
		"name":     {"lower(p.last_name)", "lower(p.first_name)"},
		"country":  {"c.name"},
		"min_year": {"py.min_year"},
		"max_year": {"py.max_year"},
		"tour":     {"p.tour"},
	},
	Tiebreak: "name",
	Identity: "p.id",
}

type PlayerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Player, error)
	Count(ctx context.Context, filter PlayerFilter) (int, error)
	List(ctx context.Context, filter PlayerFilter, sort []query.SortField, page query.Page) ([]models.PlayerSummary, error)
	Facts(ctx context.Context, filter PlayerFilter) ([]models.PlayerFact, error)
	Coaches(ctx context.Context, playerIDs []string) (map[string][]models.CoachLink, error)
	Representations(ctx context.Context, playerIDs []string) (map[string][]models.CountryRepresentation, error)
	Refs(ctx context.Context, playerIDs []string) (map[string]models.PlayerRef, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	stmt := `
		SELECT id, first_name, last_name, tour, dob, dod, height_cm, plays,
		       turned_pro, retired, career_high, career_high_date, current_singles
		FROM players
		WHERE id = $1`

	var p models.Player
	var dob, dod, highDate sql.NullTime
	var height, turnedPro, retired, high, currentRank sql.NullInt64
	var plays sql.NullString
	err := r.db.QueryRowContext(ctx, stmt, id).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Tour, &dob, &dod, &height, &plays,
		&turnedPro, &retired, &high, &highDate, &currentRank,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	p.DOB, p.DOD, p.CareerHighDate = timePtr(dob), timePtr(dod), timePtr(highDate)
	p.HeightCm, p.TurnedPro, p.Retired = intPtr(height), intPtr(turnedPro), intPtr(retired)
	p.CareerHigh, p.CurrentSingles = intPtr(high), intPtr(currentRank)
	p.Plays = stringPtr(plays)
	return &p, nil
}

func (r *postgresPlayerRepository) selectPlayers(filter PlayerFilter, sort []query.SortField, page query.Page) query.Select {
	return query.Select{
		From: playerFrom,
		Columns: []string{
			"p.id", "p.first_name", "p.last_name", "p.tour",
			"c.id", "c.name", "c.alpha2", "c.continent",
			"py.min_year", "py.max_year",
		},
		Projections: []string{currentCountryJoin},
		Where:       filter.Predicate(),
		Order:       PlayerSorter.Terms(sort),
		Page:        page,
	}
}

func (r *postgresPlayerRepository) Count(ctx context.Context, filter PlayerFilter) (int, error) {
	return runCount(ctx, r.db, "players", r.selectPlayers(filter, nil, query.Page{}).Count())
}

func (r *postgresPlayerRepository) List(ctx context.Context, filter PlayerFilter, sort []query.SortField, page query.Page) ([]models.PlayerSummary, error) {
	players := make([]models.PlayerSummary, 0)
	err := runRows(ctx, r.db, "players", "fetch", r.selectPlayers(filter, sort, page).Fetch(), func(row rowScanner) error {
		var p models.PlayerSummary
		var cID, cName, cAlpha2, cContinent sql.NullString
		var minYear, maxYear sql.NullInt64
		if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Tour,
			&cID, &cName, &cAlpha2, &cContinent, &minYear, &maxYear); err != nil {
			return err
		}
		if cID.Valid {
			p.Country = &models.Country{ID: cID.String, Name: cName.String, Alpha2: stringPtr(cAlpha2), Continent: stringPtr(cContinent)}
		}
		p.MinYear, p.MaxYear = intPtr(minYear), intPtr(maxYear)
		players = append(players, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return players, nil
}

// Facts returns the grouping input of every player matching the filter.
func (r *postgresPlayerRepository) Facts(ctx context.Context, filter PlayerFilter) ([]models.PlayerFact, error) {
	sel := query.Select{
		From:        playerFrom,
		Columns:     []string{"p.id", "pc.country_id", "py.min_year", "py.max_year"},
		Projections: []string{"LEFT JOIN player_countries pc ON pc.player_id = p.id AND pc.current"},
		Where:       filter.Predicate(),
	}
	var facts []models.PlayerFact
	err := runRows(ctx, r.db, "player_facts", "all", sel.All(), func(row rowScanner) error {
		var (
			f                models.PlayerFact
			country          sql.NullString
			minYear, maxYear sql.NullInt64
		)
		if err := row.Scan(&f.PlayerID, &country, &minYear, &maxYear); err != nil {
			return err
		}
		f.CountryID, f.MinYear, f.MaxYear = stringPtr(country), intPtr(minYear), intPtr(maxYear)
		facts = append(facts, f)
		return nil
	})
	return facts, err
}

func (r *postgresPlayerRepository) Coaches(ctx context.Context, playerIDs []string) (map[string][]models.CoachLink, error) {
	out := make(map[string][]models.CoachLink, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}
	plan := query.Plan{
		SQL: `SELECT co.player_id, ch.id, ch.first_name, ch.last_name, co.current, co.years
			FROM coaching co JOIN coaches ch ON ch.id = co.coach_id
			WHERE co.player_id = ANY($1)
			ORDER BY co.player_id, co.current DESC, lower(ch.last_name), ch.id`,
		Args: []any{pq.StringArray(playerIDs)},
	}
	err := runRows(ctx, r.db, "player_coaches", "all", plan, func(row rowScanner) error {
		var (
			playerID string
			link     models.CoachLink
			years    sql.NullString
		)
		if err := row.Scan(&playerID, &link.ID, &link.FirstName, &link.LastName, &link.Current, &years); err != nil {
			return err
		}
		link.Years = stringPtr(years)
		out[playerID] = append(out[playerID], link)
		return nil
	})
	return out, err
}

// Representations loads country edges for the given players, or for every
// player when playerIDs is nil.
func (r *postgresPlayerRepository) Representations(ctx context.Context, playerIDs []string) (map[string][]models.CountryRepresentation, error) {
	where := query.Where()
	if playerIDs != nil {
		where = query.Where(query.Expr("pc.player_id = ANY(?)", pq.StringArray(playerIDs)))
	}
	cond, args := where.SQL()
	plan := query.Plan{
		SQL: fmt.Sprintf(`SELECT pc.player_id, pc.country_id, pc.start_date, pc.end_date, pc.current
			FROM player_countries pc %s
			ORDER BY pc.player_id, pc.id`, cond),
		Args: args,
	}

	out := make(map[string][]models.CountryRepresentation)
	err := runRows(ctx, r.db, "representations", "all", plan, func(row rowScanner) error {
		var e models.CountryRepresentation
		var start, end sql.NullTime
		if err := row.Scan(&e.PlayerID, &e.CountryID, &start, &end, &e.Current); err != nil {
			return err
		}
		e.StartDate, e.EndDate = timePtr(start), timePtr(end)
		out[e.PlayerID] = append(out[e.PlayerID], e)
		return nil
	})
	return out, err
}

// Refs loads the compact shape of players, with ranks left empty.
func (r *postgresPlayerRepository) Refs(ctx context.Context, playerIDs []string) (map[string]models.PlayerRef, error) {
	out := make(map[string]models.PlayerRef, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}
	plan := query.Plan{
		SQL:  `SELECT id, first_name, last_name FROM players WHERE id = ANY($1)`,
		Args: []any{pq.StringArray(playerIDs)},
	}
	err := runRows(ctx, r.db, "player_refs", "all", plan, func(row rowScanner) error {
		var p models.PlayerRef
		if err := row.Scan(&p.ID, &p.FirstName, &p.LastName); err != nil {
			return err
		}
		out[p.ID] = p
		return nil
	})
	return out, err
}
