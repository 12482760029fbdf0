package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/tennis-history/query"
)

type IntegrityRepository interface {
	// MatchesWithoutWinner lists scored matches where no score is marked Winner.
	MatchesWithoutWinner(ctx context.Context) ([]int, error)
	Ping(ctx context.Context) error
}

type postgresIntegrityRepository struct {
	db *sql.DB
}

func NewPostgresIntegrityRepository(db *sql.DB) IntegrityRepository {
	return &postgresIntegrityRepository{db: db}
}

func (r *postgresIntegrityRepository) MatchesWithoutWinner(ctx context.Context) ([]int, error) {
	plan := query.Plan{
		SQL: `SELECT m.id FROM matches m
			WHERE EXISTS (SELECT 1 FROM scores s WHERE s.match_id = m.id)
			  AND NOT EXISTS (SELECT 1 FROM scores s WHERE s.match_id = m.id AND s.outcome = 'Winner')
			ORDER BY m.id`,
	}
	ids := make([]int, 0)
	err := runRows(ctx, r.db, "matches_without_winner", "all", plan, func(row rowScanner) error {
		var id int
		if err := row.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	return ids, err
}

func (r *postgresIntegrityRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
