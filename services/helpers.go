package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tennis-history/metrics"
	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/temporal"
	"github.com/Dosada05/tennis-history/validation"
)

// mapRepoError переводит ошибки репозиториев в ошибки сервисного слоя.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrEntryNotFound):
		return ErrEntryNotFound
	case errors.Is(err, repositories.ErrRelationshipNotFound):
		return ErrRelationshipNotFound
	case errors.Is(err, repositories.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, repositories.ErrInvalidReference),
		errors.Is(err, repositories.ErrConstraintViolation):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return err
}

// withTx runs fn in one transaction: rollback on error or panic, commit otherwise.
func withTx(ctx context.Context, db *sql.DB, logger *slog.Logger, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.ErrorContext(ctx, "Error during rollback", slog.Any("error", rbErr), slog.Any("original_error", err))
				err = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", err, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()
	return fn(tx)
}

// dedupeAnomalies keeps the first of identical anomalies, in order.
func dedupeAnomalies(in []models.Anomaly) []models.Anomaly {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]models.Anomaly, 0, len(in))
	for _, a := range in {
		key := a.Kind + "\x00" + a.Subject + "\x00" + a.Detail
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// reportAnomalies logs anomalies at WARN and counts them. Anomalies never fail a request.
func reportAnomalies(ctx context.Context, logger *slog.Logger, source string, anomalies []models.Anomaly) []models.Anomaly {
	anomalies = dedupeAnomalies(anomalies)
	for _, a := range anomalies {
		metrics.AnomaliesTotal.WithLabelValues(a.Kind).Inc()
		logger.WarnContext(ctx, "Data integrity anomaly",
			slog.String("source", source),
			slog.String("kind", a.Kind),
			slog.String("subject", a.Subject),
			slog.String("detail", a.Detail),
			slog.Any("refs", a.Refs))
	}
	return anomalies
}

// directory resolves player ids into refs with countries at a date.
type directory struct {
	players   repositories.PlayerRepository
	countries repositories.CountryRepository
}

// people is a loaded set of players ready for temporal resolution.
type people struct {
	refs      map[string]models.PlayerRef
	resolver  *temporal.Resolver
	anomalies []models.Anomaly
}

func (d directory) load(ctx context.Context, ids []string) (*people, error) {
	ids = uniqueSorted(ids)
	var (
		refs      map[string]models.PlayerRef
		edges     map[string][]models.CountryRepresentation
		countries map[string]models.Country
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		refs, err = d.players.Refs(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		edges, err = d.players.Representations(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		countries, err = d.countries.ByID(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &people{refs: refs, resolver: temporal.NewResolver(edges, countries)}, nil
}

// ref returns the player with the country resolved at the date.
func (p *people) ref(id string, at *time.Time) models.PlayerRef {
	r, ok := p.refs[id]
	if !ok {
		r = models.PlayerRef{ID: id}
	}
	c, a := p.resolver.Country(id, at)
	if a != nil {
		p.anomalies = append(p.anomalies, *a)
	}
	r.Country = c
	return r
}

func (p *people) team(ids []string, at *time.Time) []models.PlayerRef {
	team := make([]models.PlayerRef, 0, len(ids))
	for _, id := range ids {
		team = append(team, p.ref(id, at))
	}
	return team
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// checkResults validates output records before they leave the service.
func checkResults[T any](field string, rows []T) error {
	if err := validation.Slice(field, rows); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}
