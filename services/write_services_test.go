package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/validation"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := withTx(context.Background(), db, discardLogger(), func(*sql.Tx) error { return nil })
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := withTx(context.Background(), db, discardLogger(), func(*sql.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = withTx(context.Background(), db, discardLogger(), func(*sql.Tx) error { panic("boom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapRepoError(t *testing.T) {
	assert.Nil(t, mapRepoError(nil))
	assert.Equal(t, ErrEntryNotFound, mapRepoError(repositories.ErrEntryNotFound))
	assert.ErrorIs(t, mapRepoError(repositories.ErrConflict), ErrConflict)
	assert.ErrorIs(t, mapRepoError(repositories.ErrConstraintViolation), ErrInvalidReference)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapRepoError(other))
}

func TestCreateEntrySortsTeam(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	entries := &fakeEntryRepo{}
	svc := NewEntryService(db, entries, &fakeEventRepo{}, discardLogger())

	id, err := svc.CreateEntry(context.Background(), EntryInput{
		EventID:   "ev1",
		MatchType: models.Doubles,
		Players:   []EntryPlayerInput{{ID: "p2"}, {ID: "p1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "ev1 p1 p2", id)
	assert.Equal(t, []string{"p1", "p2"}, entries.created)
	assert.Equal(t, []string{"FindOrCreate", "Update"}, entries.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEntryValidation(t *testing.T) {
	status := models.EntryStatus("XX")
	tests := []struct {
		name      string
		input     EntryInput
		wantField string
	}{
		{
			name:      "doubles with one player",
			input:     EntryInput{EventID: "ev1", MatchType: models.Doubles, Players: []EntryPlayerInput{{ID: "p1"}}},
			wantField: "players",
		},
		{
			name:      "unknown status",
			input:     EntryInput{EventID: "ev1", MatchType: models.Singles, Players: []EntryPlayerInput{{ID: "p1"}}, Status: &status},
			wantField: "status",
		},
		{
			name:      "missing event",
			input:     EntryInput{MatchType: models.Singles, Players: []EntryPlayerInput{{ID: "p1"}}},
			wantField: "event_id",
		},
		{
			name: "negative prize money",
			input: EntryInput{EventID: "ev1", MatchType: models.Singles, Players: []EntryPlayerInput{{ID: "p1"}},
				PM: ptrDecimal(decimal.NewFromInt(-5))},
			wantField: "pm",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Валидация срабатывает до транзакции: БД не нужна.
			svc := NewEntryService(nil, &fakeEntryRepo{}, &fakeEventRepo{}, discardLogger())
			_, err := svc.CreateEntry(context.Background(), tt.input)

			var verr *validation.Error
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.wantField, verr.Violations[0].Field)
		})
	}
}

func ptrDecimal(d decimal.Decimal) *decimal.Decimal { return &d }

func TestUpdateEntryNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()
	svc := NewEntryService(db, &fakeEntryRepo{}, &fakeEventRepo{}, discardLogger())

	_, err := svc.UpdateEntry(context.Background(), EntryInput{
		EventID: "ev1", MatchType: models.Singles, Players: []EntryPlayerInput{{ID: "p1"}},
	})
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEntryInfo(t *testing.T) {
	tests := []struct {
		name       string
		info       models.EntryInfo
		draw       models.Draw
		wantCalls  []string
		wantMarker string
	}{
		{
			name:      "wild card in qualifying",
			info:      models.InfoWildCard,
			draw:      models.DrawQualifying,
			wantCalls: []string{"FindByPlayer", "SetStatus Qualifying WC", "Upsert WILD_CARD"},
		},
		{
			name:       "retirement marks the lost score",
			info:       models.InfoRetirement,
			draw:       models.DrawMain,
			wantCalls:  []string{"FindByPlayer", "Upsert RETIRED", "MarkIncomplete"},
			wantMarker: "R",
		},
		{
			name:      "walkover",
			info:      models.InfoWalkover,
			draw:      models.DrawMain,
			wantCalls: []string{"FindByPlayer", "Upsert WALKOVER", "Walkover"},
		},
		{
			name:      "withdrawal creates the entry",
			info:      models.InfoWithdrawal,
			draw:      models.DrawMain,
			wantCalls: []string{"FindOrCreate", "Upsert WITHDREW"},
		},
		{
			name:      "last direct acceptance",
			info:      models.InfoLDA,
			draw:      models.DrawMain,
			wantCalls: []string{"FindByPlayer", "Upsert LDA"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectBegin()
			mock.ExpectCommit()
			entries := &fakeEntryRepo{byPlayer: map[string]string{"p1": "ev1 p1"}, touched: 1}
			svc := NewEntryService(db, entries, &fakeEventRepo{}, discardLogger())

			err := svc.CreateEntryInfo(context.Background(), EntryInfoInput{
				EventID: "ev1", MatchType: models.Singles, Players: []string{"p1"}, Info: tt.info, Draw: tt.draw,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, entries.calls)
			assert.Equal(t, tt.wantMarker, entries.marker)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateEntryInfoRejectsQualifierInQualifying(t *testing.T) {
	svc := NewEntryService(nil, &fakeEntryRepo{}, &fakeEventRepo{}, discardLogger())
	err := svc.CreateEntryInfo(context.Background(), EntryInfoInput{
		EventID: "ev1", MatchType: models.Singles, Players: []string{"p1"},
		Info: models.InfoQualifier, Draw: models.DrawQualifying,
	})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "draw", verr.Violations[0].Field)
}

func TestUpdateEntryInfoNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()
	entries := &fakeEntryRepo{byPlayer: map[string]string{"p1": "ev1 p1"}}
	svc := NewEntryService(db, entries, &fakeEventRepo{}, discardLogger())

	err := svc.UpdateEntryInfo(context.Background(), EntryInfoInput{
		EventID: "ev1", MatchType: models.Singles, Players: []string{"p1"},
		Info: models.InfoRetirement, Draw: models.DrawMain, Reason: strp("injury"),
	})
	assert.ErrorIs(t, err, ErrRelationshipNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncEntryInfo(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	events := &fakeEventRepo{event: &repositories.EventContext{Event: models.Event{ID: "ev1"}}}
	svc := NewEntryService(db, &fakeEntryRepo{touched: 4}, events, discardLogger())

	added, err := svc.SyncEntryInfo(context.Background(), "ev1")
	require.NoError(t, err)
	assert.EqualValues(t, 4, added)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = svc.SyncEntryInfo(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestSeeds(t *testing.T) {
	input := SeedInput{EventID: "ev1", MatchType: models.Singles, Players: []string{"p1"}, Draw: models.DrawQualifying, Seed: 3}

	t.Run("create", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()
		entries := &fakeEntryRepo{}
		svc := NewEntryService(db, entries, &fakeEventRepo{}, discardLogger())

		require.NoError(t, svc.CreateSeed(context.Background(), input))
		assert.Equal(t, []string{"FindOrCreate", "SetSeed", "Upsert SEEDED"}, entries.calls)
		assert.Equal(t, 3, entries.seeds["ev1 p1"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update without seed", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()
		entries := &fakeEntryRepo{byPlayer: map[string]string{"p1": "ev1 p1"}}
		svc := NewEntryService(db, entries, &fakeEventRepo{}, discardLogger())

		err := svc.UpdateSeed(context.Background(), input)
		assert.ErrorIs(t, err, ErrSeedNotFound)
		assert.Equal(t, "This seed could not be found", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()
		entries := &fakeEntryRepo{
			byPlayer:  map[string]string{"p1": "ev1 p1"},
			relations: map[string]bool{"ev1 p1 SEEDED": true},
		}
		svc := NewEntryService(db, entries, &fakeEventRepo{}, discardLogger())

		require.NoError(t, svc.UpdateSeed(context.Background(), input))
		assert.Equal(t, 3, entries.seeds["ev1 p1"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func pointsRound(mt models.MatchType, name string, number, points int, pm int64) models.Round {
	return models.Round{ID: number + 1, MatchType: mt, Name: name, Number: number, Points: points, PM: decimal.NewFromInt(pm)}
}

func pointsFixture() *fakeEventRepo {
	rounds := []models.Round{
		pointsRound(models.Singles, models.RoundWin, 0, 250, 100000),
		pointsRound(models.Singles, models.RoundFinal, 1, 150, 50000),
		pointsRound(models.Singles, "SF", 2, 90, 25000),
		pointsRound(models.Singles, "R16", 3, 0, 6000),
	}
	sf := rounds[2]
	return &fakeEventRepo{
		event:  &repositories.EventContext{Event: models.Event{ID: "ev1", Tour: models.TournamentTourATP}},
		rounds: rounds,
		facts: []models.PointsFact{
			{EntryID: "ev1 p1", MatchType: models.Singles, Wins: 4, WonTitle: true},
			{EntryID: "ev1 p2", MatchType: models.Singles, Wins: 2, LostRound: &sf},
			{EntryID: "ev1 p3", MatchType: models.Singles},
		},
	}
}

func TestRecomputePoints(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	entries := &fakeEntryRepo{}
	svc := NewPointsService(db, pointsFixture(), entries, discardLogger())

	report, err := svc.Recompute(context.Background(), "ev1")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 250, entries.points["ev1 p1"])
	assert.True(t, decimal.NewFromInt(100000).Equal(entries.pm["ev1 p1"]))
	assert.Equal(t, 90, entries.points["ev1 p2"])
	assert.True(t, decimal.NewFromInt(25000).Equal(entries.pm["ev1 p2"]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputePointsWithoutScoresIsNoChange(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()
	events := pointsFixture()
	events.facts = events.facts[2:]
	svc := NewPointsService(db, events, &fakeEntryRepo{}, discardLogger())

	_, err := svc.Recompute(context.Background(), "ev1")
	assert.ErrorIs(t, err, ErrNoChanges)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = svc.Recompute(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}
