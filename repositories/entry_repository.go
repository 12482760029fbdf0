package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Dosada05/tennis-history/models"
)

var (
	ErrEntryNotFound        = errors.New("entry not found")
	ErrRelationshipNotFound = errors.New("entry relationship not found")
)

// EntryFields are the writable attributes of an entry. Nil values are
// stored as NULL, matching a full replace of the entry's properties.
type EntryFields struct {
	Seed    *int
	QSeed   *int
	Status  *models.EntryStatus
	QStatus *models.EntryStatus
	Points  *int
	PM      *decimal.Decimal
	// Ranks holds the rank at entry per player id.
	Ranks map[string]*int
}

type EntryRepository interface {
	FindOrCreate(ctx context.Context, exec SQLExecutor, eventID string, mt models.MatchType, playerIDs []string) (string, bool, error)
	FindByPlayer(ctx context.Context, exec SQLExecutor, eventID string, mt models.MatchType, playerID string) (string, error)
	Update(ctx context.Context, exec SQLExecutor, entryID string, fields EntryFields) error
	SetStatus(ctx context.Context, exec SQLExecutor, entryID string, draw models.Draw, status models.EntryStatus) error
	SetSeed(ctx context.Context, exec SQLExecutor, entryID string, draw models.Draw, seed *int) error
	UpsertRelationship(ctx context.Context, exec SQLExecutor, rel models.EntryRelationship) error
	UpdateRelationship(ctx context.Context, exec SQLExecutor, rel models.EntryRelationship) error
	MarkIncomplete(ctx context.Context, exec SQLExecutor, entryID string, draw models.Draw, marker string) (int64, error)
	Walkover(ctx context.Context, exec SQLExecutor, entryID string, draw models.Draw) (int64, error)
	SyncStatuses(ctx context.Context, exec SQLExecutor, eventID string) (int64, error)
	UpdatePoints(ctx context.Context, exec SQLExecutor, entryID string, points int, pm decimal.Decimal) error
}

type postgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) EntryRepository {
	return &postgresEntryRepository{db: db}
}

func (r *postgresEntryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindOrCreate returns the id of the entry of exactly these players,
// creating it and its player edges when absent.
func (r *postgresEntryRepository) FindOrCreate(ctx context.Context, exec SQLExecutor, eventID string, mt models.MatchType, playerIDs []string) (string, bool, error) {
	executor := r.getExecutor(exec)
	id := models.EntryID(eventID, playerIDs...)

	result, err := executor.ExecContext(ctx,
		`INSERT INTO entries (id, event_id, match_type) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		id, eventID, mt)
	if err != nil {
		return "", false, fmt.Errorf("failed to create entry: %w", mapPQError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("failed to check affected rows: %w", err)
	}

	for _, playerID := range playerIDs {
		_, err := executor.ExecContext(ctx,
			`INSERT INTO entry_players (entry_id, player_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, playerID)
		if err != nil {
			return "", false, fmt.Errorf("failed to link player %s to entry: %w", playerID, mapPQError(err))
		}
	}
	return id, affected > 0, nil
}

func (r *postgresEntryRepository) FindByPlayer(ctx context.Context, exec SQLExecutor, eventID string, mt models.MatchType, playerID string) (string, error) {
	stmt := `
		SELECT en.id FROM entries en
		JOIN entry_players ep ON ep.entry_id = en.id
		WHERE en.event_id = $1 AND en.match_type = $2 AND ep.player_id = $3
		ORDER BY en.id
		LIMIT 1`
	var id string
	err := r.getExecutor(exec).QueryRowContext(ctx, stmt, eventID, mt, playerID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrEntryNotFound
		}
		return "", fmt.Errorf("failed to find entry: %w", err)
	}
	return id, nil
}

func (r *postgresEntryRepository) Update(ctx context.Context, exec SQLExecutor, entryID string, fields EntryFields) error {
	executor := r.getExecutor(exec)
	var pm interface{}
	if fields.PM != nil {
		pm = *fields.PM
	}

	result, err := executor.ExecContext(ctx, `
		UPDATE entries
		SET seed = $2, q_seed = $3, status = $4, q_status = $5, points = $6, pm = $7
		WHERE id = $1`,
		entryID, fields.Seed, fields.QSeed, fields.Status, fields.QStatus, fields.Points, pm)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", mapPQError(err))
	}
	if err := checkAffectedRows(result, ErrEntryNotFound); err != nil {
		return err
	}

	playerIDs := make([]string, 0, len(fields.Ranks))
	for id := range fields.Ranks {
		playerIDs = append(playerIDs, id)
	}
	sort.Strings(playerIDs)
	for _, playerID := range playerIDs {
		result, err := executor.ExecContext(ctx,
			`UPDATE entry_players SET rank = $3 WHERE entry_id = $1 AND player_id = $2`,
			entryID, playerID, fields.Ranks[playerID])
		if err != nil {
			return fmt.Errorf("failed to update entry rank: %w", err)
		}
		if err := checkAffectedRows(result, ErrEntryNotFound); err != nil {
			return err
		}
	}
	return nil
}

// statusColumns maps a draw to the entry columns holding its status and seed.
var statusColumns = map[models.Draw]struct{ status, seed string }{
	models.DrawMain:       {"status", "seed"},
	models.DrawQualifying: {"q_status", "q_seed"},
}

func (r *postgresEntryRepository) SetStatus(ctx context.Context, exec SQLExecutor, entryID string, draw models.Draw, status models.EntryStatus) error {
	cols, ok := statusColumns[draw]
	if !ok {
		return fmt.Errorf("unknown draw %q", draw)
	}
	result, err := r.getExecutor(exec).ExecContext(ctx,
		fmt.Sprintf(`UPDATE entries SET %s = $2 WHERE id = $1`, cols.status), entryID, status)
	if err != nil {
		return fmt.Errorf("failed to set entry status: %w", mapPQError(err))
	}
	return checkAffectedRows(result, ErrEntryNotFound)
}

func (r *postgresEntryRepository) SetSeed(ctx context.Context, exec SQLExecutor, entryID string, draw models.Draw, seed *int) error {
	cols, ok := statusColumns[draw]
	if !ok {
		return fmt.Errorf("unknown draw %q", draw)
	}
	result, err := r.getExecutor(exec).ExecContext(ctx,
		fmt.Sprintf(`UPDATE entries SET %s = $2 WHERE id = $1`, cols.seed), entryID, seed)
	if err != nil {
		return fmt.Errorf("failed to set entry seed: %w", err)
	}
	return checkAffectedRows(result, ErrEntryNotFound)
}

func (r *postgresEntryRepository) UpsertRelationship(ctx context.Context, exec SQLExecutor, rel models.EntryRelationship) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `
		INSERT INTO entry_relationships (entry_id, kind, draw, rank, reason, teammate)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (entry_id, kind, draw)
		DO UPDATE SET rank = EXCLUDED.rank, reason = EXCLUDED.reason, teammate = EXCLUDED.teammate`,
		rel.EntryID, rel.Kind, rel.Draw, rel.Rank, rel.Reason, rel.Teammate)
	if err != nil {
		return fmt.Errorf("failed to upsert entry relationship: %w", mapPQError(err))
	}
	return nil
}

func (r *postgresEntryRepository) UpdateRelationship(ctx context.Context, exec SQLExecutor, rel models.EntryRelationship) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `
		UPDATE entry_relationships SET rank = $4, reason = $5, teammate = $6
		WHERE entry_id = $1 AND kind = $2 AND draw = $3`,
		rel.EntryID, rel.Kind, rel.Draw, rel.Rank, rel.Reason, rel.Teammate)
	if err != nil {
		return fmt.Errorf("failed to update entry relationship: %w", err)
	}
	return checkAffectedRows(result, ErrRelationshipNotFound)
}

// MarkIncomplete tags the entry's lost or undecided scores in the draw.
func (r *postgresEntryRepository) MarkIncomplete(ctx context.Context, exec SQLExecutor, entryID string, draw models.Draw, marker string) (int64, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx, `
		UPDATE scores s SET incomplete = $3
		FROM matches m
		WHERE m.id = s.match_id AND s.entry_id = $1 AND m.draw = $2
		  AND (s.outcome = 'Loser' OR s.outcome IS NULL)`,
		entryID, draw, marker)
	if err != nil {
		return 0, fmt.Errorf("failed to mark scores incomplete: %w", err)
	}
	return result.RowsAffected()
}

// Walkover makes the entry the loser of its lost or undecided matches in the
// draw and the opponent the winner, tagging scores and matches "WO".
func (r *postgresEntryRepository) Walkover(ctx context.Context, exec SQLExecutor, entryID string, draw models.Draw) (int64, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx, `
		WITH target AS (
			SELECT s.match_id FROM scores s
			JOIN matches m ON m.id = s.match_id
			WHERE s.entry_id = $1 AND m.draw = $2 AND (s.outcome = 'Loser' OR s.outcome IS NULL)
		), walked AS (
			UPDATE matches SET incomplete = 'WO' WHERE id IN (SELECT match_id FROM target)
		)
		UPDATE scores
		SET outcome = CASE WHEN entry_id = $1 THEN 'Loser' ELSE 'Winner' END,
		    incomplete = CASE WHEN entry_id = $1 THEN 'WO' ELSE incomplete END
		WHERE match_id IN (SELECT match_id FROM target)`,
		entryID, draw)
	if err != nil {
		return 0, fmt.Errorf("failed to record walkover: %w", err)
	}
	return result.RowsAffected()
}

// SyncStatuses creates the relationships implied by stored statuses of
// every entry of the event and returns how many were added.
func (r *postgresEntryRepository) SyncStatuses(ctx context.Context, exec SQLExecutor, eventID string) (int64, error) {
	var draws, statuses, kinds []string
	for _, draw := range []models.Draw{models.DrawMain, models.DrawQualifying} {
		mapping := models.StatusRelationships[draw]
		keys := make([]string, 0, len(mapping))
		for status := range mapping {
			keys = append(keys, string(status))
		}
		sort.Strings(keys)
		for _, status := range keys {
			draws = append(draws, string(draw))
			statuses = append(statuses, status)
			kinds = append(kinds, string(mapping[models.EntryStatus(status)]))
		}
	}

	result, err := r.getExecutor(exec).ExecContext(ctx, `
		INSERT INTO entry_relationships (entry_id, kind, draw)
		SELECT en.id, st.kind, st.draw
		FROM entries en
		JOIN unnest($2::text[], $3::text[], $4::text[]) AS st(draw, status, kind)
		  ON (st.draw = 'Main' AND en.status = st.status)
		  OR (st.draw = 'Qualifying' AND en.q_status = st.status)
		WHERE en.event_id = $1
		ON CONFLICT (entry_id, kind, draw) DO NOTHING`,
		eventID, pq.StringArray(draws), pq.StringArray(statuses), pq.StringArray(kinds))
	if err != nil {
		return 0, fmt.Errorf("failed to sync entry statuses: %w", mapPQError(err))
	}
	return result.RowsAffected()
}

func (r *postgresEntryRepository) UpdatePoints(ctx context.Context, exec SQLExecutor, entryID string, points int, pm decimal.Decimal) error {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`UPDATE entries SET points = $2, pm = $3 WHERE id = $1`, entryID, points, pm)
	if err != nil {
		return fmt.Errorf("failed to update entry points: %w", err)
	}
	return checkAffectedRows(result, ErrEntryNotFound)
}
