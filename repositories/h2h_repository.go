package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/lib/pq"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
)

// TeamRecord is the career record of one exact team.
type TeamRecord struct {
	Wins       int
	Losses     int
	Titles     int
	TourWins   int
	TourLosses int
	TourTitles int
}

type H2HRepository interface {
	TeamRecord(ctx context.Context, team []string) (TeamRecord, error)
	Matches(ctx context.Context, team1, team2 []string) ([]models.RawH2HMatch, error)
	TopPlayers(ctx context.Context, tour models.Tour, size int) ([]models.PlayerRef, error)
	// GridWins returns winner -> loser -> singles wins among the given players.
	GridWins(ctx context.Context, playerIDs []string) (map[string]map[string]int, error)
}

type postgresH2HRepository struct {
	db *sql.DB
}

func NewPostgresH2HRepository(db *sql.DB) H2HRepository {
	return &postgresH2HRepository{db: db}
}

// teamEntries selects entries made of exactly the players in the bound array.
const teamEntries = `SELECT ep.entry_id FROM entry_players ep
	GROUP BY ep.entry_id
	HAVING array_agg(ep.player_id ORDER BY ep.player_id) = %s::text[]`

func sortedTeam(team []string) pq.StringArray {
	t := slices.Clone(team)
	slices.Sort(t)
	return pq.StringArray(t)
}

func (r *postgresH2HRepository) TeamRecord(ctx context.Context, team []string) (TeamRecord, error) {
	plan := query.Plan{
		SQL: `WITH te AS (` + fmt.Sprintf(teamEntries, "$1") + `)
			SELECT
				COUNT(*) FILTER (WHERE s.outcome = 'Winner'),
				COUNT(*) FILTER (WHERE s.outcome = 'Loser'),
				COUNT(*) FILTER (WHERE s.outcome = 'Winner' AND r.name = 'Final' AND m.draw = 'Main'),
				COUNT(*) FILTER (WHERE s.outcome = 'Winner' AND e.level = 'Tour'),
				COUNT(*) FILTER (WHERE s.outcome = 'Loser' AND e.level = 'Tour'),
				COUNT(*) FILTER (WHERE s.outcome = 'Winner' AND r.name = 'Final' AND m.draw = 'Main' AND e.level = 'Tour')
			FROM te
			JOIN scores s ON s.entry_id = te.entry_id
			JOIN matches m ON m.id = s.match_id
			JOIN rounds r ON r.id = m.round_id
			JOIN events e ON e.id = r.event_id`,
		Args: []any{sortedTeam(team)},
	}
	var rec TeamRecord
	err := runRows(ctx, r.db, "team_record", "all", plan, func(row rowScanner) error {
		return row.Scan(&rec.Wins, &rec.Losses, &rec.Titles, &rec.TourWins, &rec.TourLosses, &rec.TourTitles)
	})
	return rec, err
}

// Matches returns every match between the two teams with both scores in
// storage order; orientation is left to the caller.
func (r *postgresH2HRepository) Matches(ctx context.Context, team1, team2 []string) ([]models.RawH2HMatch, error) {
	plan := query.Plan{
		SQL: `WITH t1 AS (` + fmt.Sprintf(teamEntries, "$1") + `),
			t2 AS (` + fmt.Sprintf(teamEntries, "$2") + `),
			both_teams AS (SELECT entry_id FROM t1 UNION SELECT entry_id FROM t2)
			SELECT m.id, ed.id, t.id, t.name, ed.year, COALESCE(e.start_date, ed.start_date), r.name, e.level, e.tour,
				z.id, z.surface, z.environment, m.incomplete,
				a.entry_id, ap.players, a.outcome, a.incomplete, a.aces IS NOT NULL OR a.serve1 IS NOT NULL, ` + setCols("a") + `,
				b.entry_id, bp.players, b.outcome, b.incomplete, b.aces IS NOT NULL OR b.serve1 IS NOT NULL, ` + setCols("b") + `
			FROM scores a
			JOIN scores b ON b.match_id = a.match_id AND a.entry_id < b.entry_id
			JOIN matches m ON m.id = a.match_id
			JOIN rounds r ON r.id = m.round_id
			JOIN events e ON e.id = r.event_id
			JOIN editions ed ON ed.id = e.edition_id
			JOIN tournaments t ON t.id = ed.tournament_id
			LEFT JOIN surfaces z ON z.id = COALESCE(e.surface_id, ed.surface_id)
			LEFT JOIN LATERAL (SELECT array_agg(x.player_id) AS players FROM entry_players x WHERE x.entry_id = a.entry_id) ap ON TRUE
			LEFT JOIN LATERAL (SELECT array_agg(x.player_id) AS players FROM entry_players x WHERE x.entry_id = b.entry_id) bp ON TRUE
			WHERE a.entry_id IN (SELECT entry_id FROM both_teams)
			  AND b.entry_id IN (SELECT entry_id FROM both_teams)
			  AND ((a.entry_id IN (SELECT entry_id FROM t1) AND b.entry_id IN (SELECT entry_id FROM t2))
			    OR (a.entry_id IN (SELECT entry_id FROM t2) AND b.entry_id IN (SELECT entry_id FROM t1)))
			ORDER BY COALESCE(e.start_date, ed.start_date) NULLS LAST, r.number DESC, m.id`,
		Args: []any{sortedTeam(team1), sortedTeam(team2)},
	}

	var matches []models.RawH2HMatch
	err := runRows(ctx, r.db, "h2h_matches", "all", plan, func(row rowScanner) error {
		var raw models.RawH2HMatch
		var start sql.NullTime
		var zID, zName, zEnv, incomplete sql.NullString
		var sides [2]struct {
			players    pq.StringArray
			outcome    sql.NullString
			incomplete sql.NullString
			sets       setScanner
		}

		dest := []interface{}{
			&raw.MatchID, &raw.EditionID, &raw.Tournament.ID, &raw.Tournament.Name, &raw.Year, &start,
			&raw.Round, &raw.Level, &raw.Tour, &zID, &zName, &zEnv, &incomplete,
		}
		for i := range sides {
			dest = append(dest, &raw.Sides[i].EntryID, &sides[i].players, &sides[i].outcome,
				&sides[i].incomplete, &raw.Sides[i].HasStats)
			dest = append(dest, sides[i].sets.dest()...)
		}
		if err := row.Scan(dest...); err != nil {
			return err
		}

		raw.StartDate, raw.Incomplete = timePtr(start), stringPtr(incomplete)
		if zID.Valid {
			raw.Surface = &models.Surface{ID: zID.String, Surface: zName.String, Environment: stringPtr(zEnv)}
		}
		for i := range sides {
			raw.Sides[i].PlayerIDs = []string(sides[i].players)
			raw.Sides[i].Incomplete = stringPtr(sides[i].incomplete)
			raw.Sides[i].Sets = sides[i].sets.scores()
			if sides[i].outcome.Valid {
				o := models.Outcome(sides[i].outcome.String)
				raw.Sides[i].Outcome = &o
			}
		}
		matches = append(matches, raw)
		return nil
	})
	return matches, err
}

func (r *postgresH2HRepository) TopPlayers(ctx context.Context, tour models.Tour, size int) ([]models.PlayerRef, error) {
	plan := query.Plan{
		SQL: `SELECT id, first_name, last_name, current_singles FROM players
			WHERE tour = $1 AND current_singles IS NOT NULL
			ORDER BY current_singles, id
			LIMIT $2`,
		Args: []any{tour, size},
	}
	players := make([]models.PlayerRef, 0, size)
	err := runRows(ctx, r.db, "h2h_top_players", "all", plan, func(row rowScanner) error {
		var p models.PlayerRef
		var rank sql.NullInt64
		if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &rank); err != nil {
			return err
		}
		p.Rank = intPtr(rank)
		players = append(players, p)
		return nil
	})
	return players, err
}

func (r *postgresH2HRepository) GridWins(ctx context.Context, playerIDs []string) (map[string]map[string]int, error) {
	out := make(map[string]map[string]int)
	if len(playerIDs) == 0 {
		return out, nil
	}
	plan := query.Plan{
		SQL: `SELECT wp.player_id, lp.player_id, COUNT(*)
			FROM scores w
			JOIN entries we ON we.id = w.entry_id AND we.match_type = 'Singles'
			JOIN entry_players wp ON wp.entry_id = w.entry_id
			JOIN scores l ON l.match_id = w.match_id AND l.entry_id <> w.entry_id
			JOIN entry_players lp ON lp.entry_id = l.entry_id
			WHERE w.outcome = 'Winner' AND wp.player_id = ANY($1) AND lp.player_id = ANY($1)
			GROUP BY wp.player_id, lp.player_id`,
		Args: []any{pq.StringArray(playerIDs)},
	}
	err := runRows(ctx, r.db, "h2h_grid", "all", plan, func(row rowScanner) error {
		var winner, loser string
		var n int
		if err := row.Scan(&winner, &loser, &n); err != nil {
			return err
		}
		if out[winner] == nil {
			out[winner] = make(map[string]int)
		}
		out[winner][loser] = n
		return nil
	})
	return out, err
}
