package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
)

// StatsFilter narrows the matches of a player.
type StatsFilter struct {
	Years      []int
	Levels     []models.Level
	Categories []string
	Draw       *models.Draw
	MatchType  *models.MatchType
	Surfaces   []string
	From       *time.Time
	To         *time.Time
}

func (f StatsFilter) clauses() []query.Clause {
	return []query.Clause{
		query.InInts("ed.year", f.Years),
		query.In("e.level", f.Levels),
		query.In("COALESCE(e.category, ed.category)", f.Categories),
		query.Eq("m.draw", f.Draw),
		query.Eq("en.match_type", f.MatchType),
		query.In("z.surface", f.Surfaces),
		query.DateRange("COALESCE(e.start_date, ed.start_date)", f.From, f.To),
	}
}

// playerMatches joins a player's scores to their match, round, event and edition.
const playerMatches = `entry_players ep
	JOIN entries en ON en.id = ep.entry_id
	JOIN scores s ON s.entry_id = en.id
	JOIN matches m ON m.id = s.match_id
	JOIN rounds r ON r.id = m.round_id
	JOIN events e ON e.id = r.event_id
	JOIN editions ed ON ed.id = e.edition_id
	JOIN tournaments t ON t.id = ed.tournament_id
	LEFT JOIN surfaces z ON z.id = COALESCE(e.surface_id, ed.surface_id)`

// ActivityRow is one scored match of a player with its event context.
type ActivityRow struct {
	Event       models.ActivityEvent
	EntryID     string
	At          *time.Time
	PartnerID   *string
	Match       models.ActivityMatch
	OpponentIDs []string
	Own         models.SetScores
	Opponent    models.SetScores
}

// OpponentRecord is a raw head-to-head line against one opponent.
type OpponentRecord struct {
	OpponentID string
	Wins       int
	Losses     int
}

type StatsRepository interface {
	Results(ctx context.Context, playerID string, filter StatsFilter) ([]models.ResultFact, error)
	IndexFacts(ctx context.Context, playerID string, filter StatsFilter) ([]models.IndexFact, error)
	ServeStats(ctx context.Context, playerID string, filter StatsFilter) ([]models.ServeStats, error)
	Finals(ctx context.Context, playerID string, filter StatsFilter) ([]models.TitleRecord, error)
	Activity(ctx context.Context, playerID string, filter StatsFilter) ([]ActivityRow, error)
	Opponents(ctx context.Context, playerID string, limit int) ([]OpponentRecord, error)
	BigTitleWins(ctx context.Context, categories []string) ([]models.TitleWin, error)
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

func playerWhere(playerID string, filter StatsFilter, extra ...query.Clause) query.Predicate {
	return query.Where(query.Expr("ep.player_id = ?", playerID)).
		And(filter.clauses()...).
		And(extra...)
}

func (r *postgresStatsRepository) Results(ctx context.Context, playerID string, filter StatsFilter) ([]models.ResultFact, error) {
	sel := query.Select{
		From:    playerMatches,
		Columns: []string{"en.match_type", "m.draw", "e.level", "r.name", "s.outcome = 'Winner'"},
		Where:   playerWhere(playerID, filter, query.Expr("s.outcome IS NOT NULL")),
	}
	var facts []models.ResultFact
	err := runRows(ctx, r.db, "player_results", "all", sel.All(), func(row rowScanner) error {
		var f models.ResultFact
		if err := row.Scan(&f.MatchType, &f.Draw, &f.Level, &f.Round, &f.Won); err != nil {
			return err
		}
		facts = append(facts, f)
		return nil
	})
	return facts, err
}

func (r *postgresStatsRepository) IndexFacts(ctx context.Context, playerID string, filter StatsFilter) ([]models.IndexFact, error) {
	singles := models.Singles
	filter.MatchType = &singles

	cols := []string{
		"s.outcome = 'Winner'", "r.name", "m.best_of",
		"COALESCE(e.category, ed.category)", "z.surface", "z.environment",
		"s.s1", "s.s2", "s.s3", "s.s4", "s.s5",
		"os.s1", "os.s2", "os.s3", "os.s4", "os.s5",
		"oep.rank", "op.plays",
	}
	sel := query.Select{
		From: playerMatches + `
	JOIN scores os ON os.match_id = s.match_id AND os.entry_id <> s.entry_id
	JOIN entry_players oep ON oep.entry_id = os.entry_id
	JOIN players op ON op.id = oep.player_id`,
		Columns: cols,
		Where:   playerWhere(playerID, filter, query.Expr("s.outcome IS NOT NULL")),
	}

	var facts []models.IndexFact
	err := runRows(ctx, r.db, "player_wl_index", "all", sel.All(), func(row rowScanner) error {
		var f models.IndexFact
		var category, surface, environment, plays sql.NullString
		var own, opp [5]sql.NullInt64
		var rank sql.NullInt64
		dest := []interface{}{&f.Won, &f.Round, &f.BestOf, &category, &surface, &environment}
		for i := range own {
			dest = append(dest, &own[i])
		}
		for i := range opp {
			dest = append(dest, &opp[i])
		}
		dest = append(dest, &rank, &plays)
		if err := row.Scan(dest...); err != nil {
			return err
		}
		f.Category, f.Surface, f.Environment = stringPtr(category), stringPtr(surface), stringPtr(environment)
		for i := range own {
			f.Own[i], f.Opponent[i] = intPtr(own[i]), intPtr(opp[i])
		}
		f.OpponentRank, f.OpponentPlays = intPtr(rank), stringPtr(plays)
		facts = append(facts, f)
		return nil
	})
	return facts, err
}

var serveColumns = []string{
	"s.aces", "s.dfs", "s.serve1", "s.serve1_w", "s.serve2", "s.serve2_w",
	"s.bps_faced", "s.bps_saved", "s.serve_games",
	"s.ret1", "s.ret1_w", "s.ret2", "s.ret2_w",
	"s.bp_opps", "s.bps_converted", "s.return_games",
}

func (r *postgresStatsRepository) ServeStats(ctx context.Context, playerID string, filter StatsFilter) ([]models.ServeStats, error) {
	singles := models.Singles
	filter.MatchType = &singles
	sel := query.Select{
		From:    playerMatches,
		Columns: serveColumns,
		Where:   playerWhere(playerID, filter),
	}

	var out []models.ServeStats
	err := runRows(ctx, r.db, "player_serve_stats", "all", sel.All(), func(row rowScanner) error {
		var v [16]sql.NullInt64
		dest := make([]interface{}, len(v))
		for i := range v {
			dest[i] = &v[i]
		}
		if err := row.Scan(dest...); err != nil {
			return err
		}
		out = append(out, models.ServeStats{
			Aces: intPtr(v[0]), DFs: intPtr(v[1]),
			Serve1: intPtr(v[2]), Serve1W: intPtr(v[3]), Serve2: intPtr(v[4]), Serve2W: intPtr(v[5]),
			BPsFaced: intPtr(v[6]), BPsSaved: intPtr(v[7]), ServeGames: intPtr(v[8]),
			Ret1: intPtr(v[9]), Ret1W: intPtr(v[10]), Ret2: intPtr(v[11]), Ret2W: intPtr(v[12]),
			BPOpps: intPtr(v[13]), BPsConverted: intPtr(v[14]), ReturnGames: intPtr(v[15]),
		})
		return nil
	})
	return out, err
}

const eventColumns = "e.id, ed.id, t.id, t.name, ed.year, e.level, COALESCE(e.category, ed.category), " +
	"COALESCE(e.start_date, ed.start_date), COALESCE(e.end_date, ed.end_date), z.id, z.surface, z.environment"

type eventScan struct {
	category             sql.NullString
	start, end           sql.NullTime
	zID, zName, zEnviron sql.NullString
}

func (es *eventScan) surface() *models.Surface {
	if !es.zID.Valid {
		return nil
	}
	return &models.Surface{ID: es.zID.String, Surface: es.zName.String, Environment: stringPtr(es.zEnviron)}
}

// Finals lists every main-draw final the player reached, latest first.
func (r *postgresStatsRepository) Finals(ctx context.Context, playerID string, filter StatsFilter) ([]models.TitleRecord, error) {
	sel := query.Select{
		From:    playerMatches,
		Columns: []string{eventColumns, "en.match_type", "s.outcome = 'Winner'"},
		Where: playerWhere(playerID, filter,
			query.Expr("r.name = ?", models.RoundFinal),
			query.Expr("m.draw = ?", models.DrawMain)),
		Order: []query.OrderTerm{
			{Expr: "COALESCE(e.start_date, ed.start_date)", Dir: query.Desc},
			{Expr: "e.id", Dir: query.Asc},
		},
	}

	finals := make([]models.TitleRecord, 0)
	err := runRows(ctx, r.db, "player_finals", "all", sel.All(), func(row rowScanner) error {
		var rec models.TitleRecord
		var es eventScan
		var won sql.NullBool
		if err := row.Scan(&rec.EventID, &rec.EditionID, &rec.Tournament.ID, &rec.Tournament.Name, &rec.Year, &rec.Level,
			&es.category, &es.start, &es.end, &es.zID, &es.zName, &es.zEnviron, &rec.MatchType, &won); err != nil {
			return err
		}
		rec.Category, rec.StartDate, rec.EndDate = stringPtr(es.category), timePtr(es.start), timePtr(es.end)
		rec.Surface = es.surface()
		rec.Title = won.Valid && won.Bool
		finals = append(finals, rec)
		return nil
	})
	return finals, err
}

// Activity returns the player's scored matches, latest event first and
// earliest round first inside an event.
func (r *postgresStatsRepository) Activity(ctx context.Context, playerID string, filter StatsFilter) ([]ActivityRow, error) {
	cols := []string{
		eventColumns, "en.id", "en.match_type", "en.seed", "en.status", "en.points", "en.pm",
		"(SELECT pp.player_id FROM entry_players pp WHERE pp.entry_id = en.id AND pp.player_id <> ep.player_id LIMIT 1)",
		"m.id", "r.name", "m.draw", "s.outcome", "COALESCE(s.incomplete, m.incomplete)",
		setCols("s"),
		"COALESCE(op.players, '{}')",
		setCols("os"),
	}
	sel := query.Select{
		From: playerMatches + `
	LEFT JOIN scores os ON os.match_id = s.match_id AND os.entry_id <> s.entry_id`,
		Columns: cols,
		Projections: []string{
			"LEFT JOIN LATERAL (SELECT array_agg(oep.player_id ORDER BY oep.player_id) AS players FROM entry_players oep WHERE oep.entry_id = os.entry_id) op ON TRUE",
		},
		Where: playerWhere(playerID, filter),
		Order: []query.OrderTerm{
			{Expr: "COALESCE(e.start_date, ed.start_date)", Dir: query.Desc},
			{Expr: "e.id", Dir: query.Asc},
			{Expr: "en.id", Dir: query.Asc},
			{Expr: "r.number", Dir: query.Desc},
			{Expr: "m.match_no", Dir: query.Asc},
			{Expr: "m.id", Dir: query.Asc},
		},
	}

	var rows []ActivityRow
	err := runRows(ctx, r.db, "player_activity", "all", sel.All(), func(row rowScanner) error {
		var a ActivityRow
		var es eventScan
		var seed, points sql.NullInt64
		var status, partner, outcome, incomplete sql.NullString
		var pm decimal.NullDecimal
		var opponents pq.StringArray
		var own, opp setScanner

		dest := []interface{}{
			&a.Event.EventID, new(int), &a.Event.Tournament.ID, &a.Event.Tournament.Name, &a.Event.Year, &a.Event.Level,
			&es.category, &es.start, &es.end, &es.zID, &es.zName, &es.zEnviron,
			&a.EntryID, &a.Event.MatchType, &seed, &status, &points, &pm,
			&partner, &a.Match.MatchID, &a.Match.Round, &a.Match.Draw, &outcome, &incomplete,
		}
		dest = append(dest, own.dest()...)
		dest = append(dest, &opponents)
		dest = append(dest, opp.dest()...)
		if err := row.Scan(dest...); err != nil {
			return err
		}

		a.Event.Category, a.Event.StartDate, a.Event.Surface = stringPtr(es.category), timePtr(es.start), es.surface()
		a.At = a.Event.StartDate
		a.Event.Seed, a.Event.Points = intPtr(seed), intPtr(points)
		if pm.Valid {
			a.Event.PM = &pm.Decimal
		}
		a.Event.Status = statusPtr(status)
		a.PartnerID = stringPtr(partner)
		if outcome.Valid {
			o := models.Outcome(outcome.String)
			a.Match.Outcome = &o
		}
		a.Match.Incomplete = stringPtr(incomplete)
		a.OpponentIDs = []string(opponents)
		a.Own, a.Opponent = own.scores(), opp.scores()
		rows = append(rows, a)
		return nil
	})
	return rows, err
}

// Opponents returns singles records against the most frequent opponents.
func (r *postgresStatsRepository) Opponents(ctx context.Context, playerID string, limit int) ([]OpponentRecord, error) {
	plan := query.Plan{
		SQL: `SELECT oep.player_id,
				COUNT(*) FILTER (WHERE s.outcome = 'Winner') AS wins,
				COUNT(*) FILTER (WHERE s.outcome = 'Loser') AS losses
			FROM entry_players ep
			JOIN entries en ON en.id = ep.entry_id AND en.match_type = 'Singles'
			JOIN scores s ON s.entry_id = en.id
			JOIN scores os ON os.match_id = s.match_id AND os.entry_id <> s.entry_id
			JOIN entry_players oep ON oep.entry_id = os.entry_id
			JOIN players op ON op.id = oep.player_id
			WHERE ep.player_id = $1 AND s.outcome IS NOT NULL
			GROUP BY oep.player_id, op.last_name
			ORDER BY COUNT(*) DESC, wins DESC, lower(op.last_name), oep.player_id
			LIMIT $2`,
		Args: []any{playerID, limit},
	}
	var out []OpponentRecord
	err := runRows(ctx, r.db, "player_opponents", "all", plan, func(row rowScanner) error {
		var o OpponentRecord
		if err := row.Scan(&o.OpponentID, &o.Wins, &o.Losses); err != nil {
			return err
		}
		out = append(out, o)
		return nil
	})
	return out, err
}

// BigTitleWins lists won main-draw finals in the given categories, with the
// winning team and the date their countries are resolved at.
func (r *postgresStatsRepository) BigTitleWins(ctx context.Context, categories []string) ([]models.TitleWin, error) {
	plan := query.Plan{
		SQL: `SELECT COALESCE(e.category, ed.category), COALESCE(e.start_date, ed.start_date),
				(SELECT array_agg(ep.player_id ORDER BY ep.player_id) FROM entry_players ep WHERE ep.entry_id = s.entry_id)
			FROM scores s
			JOIN matches m ON m.id = s.match_id AND m.draw = 'Main'
			JOIN rounds r ON r.id = m.round_id AND r.name = 'Final'
			JOIN events e ON e.id = r.event_id
			JOIN editions ed ON ed.id = e.edition_id
			WHERE s.outcome = 'Winner' AND COALESCE(e.category, ed.category) = ANY($1)
			ORDER BY m.id, s.entry_id`,
		Args: []any{pq.StringArray(categories)},
	}
	var wins []models.TitleWin
	err := runRows(ctx, r.db, "big_titles", "all", plan, func(row rowScanner) error {
		var w models.TitleWin
		var at sql.NullTime
		var players pq.StringArray
		if err := row.Scan(&w.Category, &at, &players); err != nil {
			return err
		}
		w.At, w.PlayerIDs = timePtr(at), []string(players)
		wins = append(wins, w)
		return nil
	})
	return wins, err
}
