package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
)

var ErrEventNotFound = errors.New("event not found")

// EventContext is an event with the edition attributes it falls back to.
type EventContext struct {
	models.Event
	Year         int
	Tournament   models.Tournament
	EditionStart *time.Time
}

// ReferenceDate is the date relationships of the event are resolved at.
func (e EventContext) ReferenceDate() *time.Time {
	if e.StartDate != nil {
		return e.StartDate
	}
	return e.EditionStart
}

// EntryRow is an entry of an event with its players in rank order.
type EntryRow struct {
	models.Entry
	Players []models.EntryPlayer
	Draws   []models.Draw
}

// SeedRow is a SEEDED relationship of an entry.
type SeedRow struct {
	EntryID   string
	MatchType models.MatchType
	Draw      models.Draw
	Seed      *int
	Rank      *int
	Withdrew  bool
	PlayerIDs []string
}

// InfoRow is any other relationship of an entry to its event.
type InfoRow struct {
	models.EntryRelationship
	MatchType models.MatchType
	PlayerIDs []string
}

type EventRepository interface {
	GetContext(ctx context.Context, eventID string) (*EventContext, error)
	Entries(ctx context.Context, eventID string) ([]EntryRow, error)
	Seeds(ctx context.Context, eventID string) ([]SeedRow, error)
	EntryInfo(ctx context.Context, eventID string) ([]InfoRow, error)
	Rounds(ctx context.Context, exec SQLExecutor, eventID string) ([]models.Round, error)
	PointsFacts(ctx context.Context, exec SQLExecutor, eventID string) ([]models.PointsFact, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEventRepository) GetContext(ctx context.Context, eventID string) (*EventContext, error) {
	stmt := `
		SELECT e.id, e.edition_id, e.tour, e.level,
		       COALESCE(e.category, ed.category), e.start_date, COALESCE(e.end_date, ed.end_date),
		       COALESCE(e.surface_id, ed.surface_id), e.pm, e.currency,
		       ed.year, ed.start_date, t.id, t.name
		FROM events e
		JOIN editions ed ON ed.id = e.edition_id
		JOIN tournaments t ON t.id = ed.tournament_id
		WHERE e.id = $1`

	var ec EventContext
	var category, surface, currency sql.NullString
	var start, end, edStart sql.NullTime
	var pm decimal.NullDecimal
	err := r.db.QueryRowContext(ctx, stmt, eventID).Scan(
		&ec.ID, &ec.EditionID, &ec.Tour, &ec.Level,
		&category, &start, &end, &surface, &pm, &currency,
		&ec.Year, &edStart, &ec.Tournament.ID, &ec.Tournament.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	ec.Category, ec.SurfaceID, ec.Currency = stringPtr(category), stringPtr(surface), stringPtr(currency)
	ec.StartDate, ec.EndDate, ec.EditionStart = timePtr(start), timePtr(end), timePtr(edStart)
	if pm.Valid {
		ec.PM = &pm.Decimal
	}
	return &ec, nil
}

func (r *postgresEventRepository) Entries(ctx context.Context, eventID string) ([]EntryRow, error) {
	plan := query.Plan{
		SQL: `SELECT en.id, en.match_type, en.seed, en.q_seed, en.status, en.q_status, en.points, en.pm,
				COALESCE(pl.ids, '{}'), COALESCE(pl.ranks, '{}'), COALESCE(dr.draws, '{}')
			FROM entries en
			LEFT JOIN LATERAL (
				SELECT array_agg(ep.player_id ORDER BY ep.rank NULLS LAST, ep.player_id) AS ids,
				       array_agg(COALESCE(ep.rank, 0) ORDER BY ep.rank NULLS LAST, ep.player_id) AS ranks
				FROM entry_players ep WHERE ep.entry_id = en.id) pl ON TRUE
			LEFT JOIN LATERAL (
				SELECT array_agg(DISTINCT m.draw ORDER BY m.draw) AS draws
				FROM scores s JOIN matches m ON m.id = s.match_id
				WHERE s.entry_id = en.id) dr ON TRUE
			WHERE en.event_id = $1
			ORDER BY en.id`,
		Args: []any{eventID},
	}

	entries := make([]EntryRow, 0)
	err := runRows(ctx, r.db, "event_entries", "all", plan, func(row rowScanner) error {
		var e EntryRow
		var seed, qSeed, points sql.NullInt64
		var status, qStatus sql.NullString
		var pm decimal.NullDecimal
		var ids, draws pq.StringArray
		var ranks pq.Int64Array
		if err := row.Scan(&e.ID, &e.MatchType, &seed, &qSeed, &status, &qStatus, &points, &pm, &ids, &ranks, &draws); err != nil {
			return err
		}
		e.EventID = eventID
		e.Seed, e.QSeed, e.Points = intPtr(seed), intPtr(qSeed), intPtr(points)
		e.Status, e.QStatus = statusPtr(status), statusPtr(qStatus)
		if pm.Valid {
			e.PM = &pm.Decimal
		}
		for i, id := range ids {
			p := models.EntryPlayer{EntryID: e.ID, PlayerID: id}
			if i < len(ranks) && ranks[i] > 0 {
				rank := int(ranks[i])
				p.Rank = &rank
			}
			e.Players = append(e.Players, p)
		}
		e.Draws = make([]models.Draw, 0, len(draws))
		for _, d := range draws {
			e.Draws = append(e.Draws, models.Draw(d))
		}
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

// Seeds lists seeded entries: singles before doubles, main before qualifying, then by seed.
func (r *postgresEventRepository) Seeds(ctx context.Context, eventID string) ([]SeedRow, error) {
	plan := query.Plan{
		SQL: `SELECT en.id, en.match_type, er.draw,
				CASE WHEN er.draw = 'Main' THEN en.seed ELSE en.q_seed END AS seed,
				er.rank,
				EXISTS (SELECT 1 FROM entry_relationships w
					WHERE w.entry_id = en.id AND w.kind = 'WITHDREW' AND w.draw = er.draw),
				COALESCE((SELECT array_agg(ep.player_id ORDER BY ep.player_id) FROM entry_players ep WHERE ep.entry_id = en.id), '{}')
			FROM entry_relationships er
			JOIN entries en ON en.id = er.entry_id
			WHERE en.event_id = $1 AND er.kind = 'SEEDED'
			ORDER BY en.match_type DESC, er.draw, seed NULLS LAST, en.id`,
		Args: []any{eventID},
	}

	seeds := make([]SeedRow, 0)
	err := runRows(ctx, r.db, "event_seeds", "all", plan, func(row rowScanner) error {
		var s SeedRow
		var seed, rank sql.NullInt64
		var players pq.StringArray
		if err := row.Scan(&s.EntryID, &s.MatchType, &s.Draw, &seed, &rank, &s.Withdrew, &players); err != nil {
			return err
		}
		s.Seed, s.Rank, s.PlayerIDs = intPtr(seed), intPtr(rank), []string(players)
		seeds = append(seeds, s)
		return nil
	})
	return seeds, err
}

func (r *postgresEventRepository) EntryInfo(ctx context.Context, eventID string) ([]InfoRow, error) {
	plan := query.Plan{
		SQL: `SELECT er.entry_id, er.kind, er.draw, er.rank, er.reason, er.teammate, en.match_type,
				COALESCE((SELECT array_agg(ep.player_id ORDER BY ep.player_id) FROM entry_players ep WHERE ep.entry_id = en.id), '{}')
			FROM entry_relationships er
			JOIN entries en ON en.id = er.entry_id
			WHERE en.event_id = $1 AND er.kind <> 'SEEDED'
			ORDER BY en.match_type DESC, er.draw, er.kind, er.entry_id`,
		Args: []any{eventID},
	}

	infos := make([]InfoRow, 0)
	err := runRows(ctx, r.db, "event_entry_info", "all", plan, func(row rowScanner) error {
		var info InfoRow
		var rank sql.NullInt64
		var reason, teammate sql.NullString
		var players pq.StringArray
		if err := row.Scan(&info.EntryID, &info.Kind, &info.Draw, &rank, &reason, &teammate, &info.MatchType, &players); err != nil {
			return err
		}
		info.Rank, info.Reason, info.Teammate = intPtr(rank), stringPtr(reason), stringPtr(teammate)
		info.PlayerIDs = []string(players)
		infos = append(infos, info)
		return nil
	})
	return infos, err
}

func (r *postgresEventRepository) Rounds(ctx context.Context, exec SQLExecutor, eventID string) ([]models.Round, error) {
	plan := query.Plan{
		SQL: `SELECT id, event_id, match_type, name, number, points, pm
			FROM rounds WHERE event_id = $1
			ORDER BY match_type DESC, number DESC`,
		Args: []any{eventID},
	}
	var rounds []models.Round
	err := runRows(ctx, r.getExecutor(exec), "event_rounds", "all", plan, func(row rowScanner) error {
		var rd models.Round
		if err := row.Scan(&rd.ID, &rd.EventID, &rd.MatchType, &rd.Name, &rd.Number, &rd.Points, &rd.PM); err != nil {
			return err
		}
		rounds = append(rounds, rd)
		return nil
	})
	return rounds, err
}

// PointsFacts summarises how far every scored entry of the event went.
// Round ids are resolved against the event's rounds.
func (r *postgresEventRepository) PointsFacts(ctx context.Context, exec SQLExecutor, eventID string) ([]models.PointsFact, error) {
	rounds, err := r.Rounds(ctx, exec, eventID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]models.Round, len(rounds))
	for _, rd := range rounds {
		byID[rd.ID] = rd
	}

	plan := query.Plan{
		SQL: `SELECT en.id, en.match_type, en.status,
				COUNT(*) FILTER (WHERE s.outcome = 'Winner' AND m.draw = 'Main'),
				COALESCE(BOOL_OR(s.outcome = 'Winner' AND m.draw = 'Main' AND r.name = 'Final'), FALSE),
				(array_agg(r.id ORDER BY r.number) FILTER (WHERE s.outcome = 'Loser' AND m.draw = 'Main'))[1],
				(array_agg(r.id ORDER BY r.number) FILTER (WHERE s.outcome = 'Loser' AND m.draw = 'Qualifying'))[1]
			FROM entries en
			JOIN scores s ON s.entry_id = en.id
			JOIN matches m ON m.id = s.match_id
			JOIN rounds r ON r.id = m.round_id
			WHERE en.event_id = $1
			GROUP BY en.id, en.match_type, en.status
			ORDER BY en.id`,
		Args: []any{eventID},
	}

	var facts []models.PointsFact
	err = runRows(ctx, r.getExecutor(exec), "event_points_facts", "all", plan, func(row rowScanner) error {
		var f models.PointsFact
		var status sql.NullString
		var mainLoss, qualLoss sql.NullInt64
		if err := row.Scan(&f.EntryID, &f.MatchType, &status, &f.Wins, &f.WonTitle, &mainLoss, &qualLoss); err != nil {
			return err
		}
		f.Status = statusPtr(status)
		if qualLoss.Valid {
			if rd, ok := byID[int(qualLoss.Int64)]; ok {
				f.QualifyingLoss = &rd
			}
		}
		switch {
		case mainLoss.Valid:
			if rd, ok := byID[int(mainLoss.Int64)]; ok {
				f.LostRound = &rd
			}
		case f.QualifyingLoss != nil && !f.WonTitle:
			f.LostRound = f.QualifyingLoss
		}
		facts = append(facts, f)
		return nil
	})
	return facts, err
}

func statusPtr(s sql.NullString) *models.EntryStatus {
	if !s.Valid {
		return nil
	}
	st := models.EntryStatus(s.String)
	return &st
}
