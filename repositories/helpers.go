package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Dosada05/tennis-history/metrics"
	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

var (
	ErrConflict            = errors.New("record already exists")
	ErrInvalidReference    = errors.New("referenced record does not exist")
	ErrConstraintViolation = errors.New("value violates a check constraint")
)

// Коды ошибок Postgres, которые мы различаем.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// mapPQError переводит нарушения ограничений в ошибки репозитория.
func mapPQError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pqErr.Constraint)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrInvalidReference, pqErr.Constraint)
		case pqCheckViolation:
			return fmt.Errorf("%w: %s", ErrConstraintViolation, pqErr.Constraint)
		}
	}
	return err
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError // Возвращаем переданную ошибку "не найдено"
	}
	return nil
}

// runCount executes a count plan.
func runCount(ctx context.Context, exec SQLExecutor, name string, plan query.Plan) (int, error) {
	start := time.Now()
	var n int
	err := exec.QueryRowContext(ctx, plan.SQL, plan.Args...).Scan(&n)
	metrics.ObserveQuery(name, "count", start, err)
	if err != nil {
		return 0, fmt.Errorf("%s count: %w", name, err)
	}
	return n, nil
}

// runRows executes a row plan and scans every row with scan.
func runRows(ctx context.Context, exec SQLExecutor, name, kind string, plan query.Plan, scan func(rowScanner) error) error {
	start := time.Now()
	err := scanRows(ctx, exec, plan, scan)
	metrics.ObserveQuery(name, kind, start, err)
	if err != nil {
		return fmt.Errorf("%s %s: %w", name, kind, err)
	}
	return nil
}

func scanRows(ctx context.Context, exec SQLExecutor, plan query.Plan, scan func(rowScanner) error) error {
	rows, err := exec.QueryContext(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

// setScanner scans s1..s5, t1..t5 into SetScores.
type setScanner struct {
	s [5]sql.NullInt64
	t [5]sql.NullInt64
}

func (ss *setScanner) dest() []interface{} {
	out := make([]interface{}, 0, 10)
	for i := range ss.s {
		out = append(out, &ss.s[i])
	}
	for i := range ss.t {
		out = append(out, &ss.t[i])
	}
	return out
}

func (ss *setScanner) scores() models.SetScores {
	var out models.SetScores
	for i := range ss.s {
		out.S[i] = intPtr(ss.s[i])
		out.T[i] = intPtr(ss.t[i])
	}
	return out
}

const setColumns = "%[1]s.s1, %[1]s.s2, %[1]s.s3, %[1]s.s4, %[1]s.s5, %[1]s.t1, %[1]s.t2, %[1]s.t3, %[1]s.t4, %[1]s.t5"

func setCols(alias string) string {
	return fmt.Sprintf(setColumns, alias)
}
