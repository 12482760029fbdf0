package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func ptr[T any](v T) *T { return &v }

func TestPlayerCountSharesPredicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresPlayerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM players p LEFT JOIN player_years py ON py.player_id = p.id WHERE 1=1 AND (p.tour = ANY($1)) AND (py.max_year = $2)")).
		WithArgs(pq.StringArray{"ATP"}, 2024).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.Count(context.Background(), PlayerFilter{
		Tours:       []models.Tour{models.TourATP},
		Active:      ptr(true),
		CurrentYear: 2024,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayerListFetchesPage(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresPlayerRepository(db)

	mock.ExpectQuery(`SELECT p.id, .* FROM players p .*LEFT JOIN player_countries pc .* WHERE 1=1 ORDER BY lower\(p.last_name\) ASC NULLS LAST, lower\(p.first_name\) ASC NULLS LAST, p.id ASC NULLS LAST LIMIT \$1 OFFSET \$2`).
		WithArgs(2, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "tour", "c_id", "c_name", "c_alpha2", "c_continent", "min_year", "max_year"}).
			AddRow("a01", "Andre", "Agassi", "ATP", "USA", "United States", "US", "North America", 1986, 2006).
			AddRow("b02", "Boris", "Becker", "ATP", nil, nil, nil, nil, nil, nil))

	players, err := repo.List(context.Background(), PlayerFilter{}, nil, query.Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, players, 2)
	require.NotNil(t, players[0].Country)
	assert.Equal(t, "USA", players[0].Country.ID)
	assert.Equal(t, 2006, *players[0].MaxYear)
	assert.Nil(t, players[1].Country)
	assert.Nil(t, players[1].MinYear)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayerGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresPlayerRepository(db)

	mock.ExpectQuery("FROM players").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestEntryFindOrCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEntryRepository(db)

	mock.ExpectExec("INSERT INTO entries").
		WithArgs("2019-580-ATP p1 p2", "2019-580-ATP", models.Doubles).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO entry_players").WithArgs("2019-580-ATP p1 p2", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO entry_players").WithArgs("2019-580-ATP p1 p2", "p2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, created, err := repo.FindOrCreate(context.Background(), nil, "2019-580-ATP", models.Doubles, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, "2019-580-ATP p1 p2", id)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryFindOrCreateExisting(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEntryRepository(db)

	mock.ExpectExec("INSERT INTO entries").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO entry_players").WillReturnResult(sqlmock.NewResult(0, 0))

	_, created, err := repo.FindOrCreate(context.Background(), nil, "e", models.Singles, []string{"p1"})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEntryFindOrCreateUnknownPlayer(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEntryRepository(db)

	mock.ExpectExec("INSERT INTO entries").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO entry_players").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "entry_players_player_id_fkey"})

	_, _, err := repo.FindOrCreate(context.Background(), nil, "e", models.Singles, []string{"nobody"})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestEntryUpdate(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "matched", affected: 1},
		{name: "missing", affected: 0, wantErr: ErrEntryNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewPostgresEntryRepository(db)

			mock.ExpectExec("UPDATE entries").
				WithArgs("e p1", 3, nil, "WC", nil, nil, nil).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			if tt.wantErr == nil {
				mock.ExpectExec("UPDATE entry_players").WithArgs("e p1", "p1", 57).
					WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.Update(context.Background(), nil, "e p1", EntryFields{
				Seed:   ptr(3),
				Status: ptr(models.StatusWildCard),
				Ranks:  map[string]*int{"p1": ptr(57)},
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSetSeedUsesDrawColumn(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEntryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE entries SET q_seed = $2 WHERE id = $1")).
		WithArgs("e p1", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetSeed(context.Background(), nil, "e p1", models.DrawQualifying, ptr(4)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRelationshipNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEntryRepository(db)

	mock.ExpectExec("UPDATE entry_relationships").
		WithArgs("e p1", models.RelSeeded, models.DrawMain, 12, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateRelationship(context.Background(), nil, models.EntryRelationship{
		EntryID: "e p1", Kind: models.RelSeeded, Draw: models.DrawMain, Rank: ptr(12),
	})
	assert.ErrorIs(t, err, ErrRelationshipNotFound)
}

func TestSyncStatusesBindsStatusMapping(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEntryRepository(db)

	mock.ExpectExec("INSERT INTO entry_relationships").
		WithArgs("2019-580-ATP",
			pq.StringArray{"Main", "Main", "Main", "Main", "Qualifying", "Qualifying"},
			pq.StringArray{"AL", "LL", "Q", "WC", "AL", "WC"},
			pq.StringArray{"ALTERNATE", "LUCKY_LOSER", "QUALIFIED", "WILD_CARD", "ALTERNATE", "WILD_CARD"}).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := repo.SyncStatuses(context.Background(), nil, "2019-580-ATP")
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapPQError(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"23505", ErrConflict},
		{"23503", ErrInvalidReference},
		{"23514", ErrConstraintViolation},
	}
	for _, tt := range tests {
		err := mapPQError(&pq.Error{Code: pq.ErrorCode(tt.code), Constraint: "c"})
		assert.ErrorIs(t, err, tt.want, tt.code)
	}
	assert.Nil(t, mapPQError(nil))
	other := &pq.Error{Code: "42P01"}
	assert.Equal(t, error(other), mapPQError(other))
}

func TestTeamRecordSortsTeam(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresH2HRepository(db)

	mock.ExpectQuery("WITH te AS").
		WithArgs(pq.StringArray{"a", "b"}).
		WillReturnRows(sqlmock.NewRows([]string{"w", "l", "t", "tw", "tl", "tt"}).AddRow(10, 4, 2, 7, 3, 1))

	rec, err := repo.TeamRecord(context.Background(), []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, TeamRecord{Wins: 10, Losses: 4, Titles: 2, TourWins: 7, TourLosses: 3, TourTitles: 1}, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPointsFactsResolvesRounds(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresEventRepository(db)

	mock.ExpectQuery("FROM rounds").WithArgs("ev").
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "match_type", "name", "number", "points", "pm"}).
			AddRow(1, "ev", "Singles", "Final", 1, 150, "50000").
			AddRow(2, "ev", "Singles", "R32", 5, 0, "3000").
			AddRow(3, "ev", "Singles", "Q1", 11, 0, "800"))
	mock.ExpectQuery("FROM entries en").WithArgs("ev").
		WillReturnRows(sqlmock.NewRows([]string{"id", "match_type", "status", "wins", "title", "main_loss", "q_loss"}).
			AddRow("ev a", "Singles", "LL", 0, false, 2, 3).
			AddRow("ev b", "Singles", nil, 0, false, nil, 3).
			AddRow("ev c", "Singles", nil, 5, true, nil, nil))

	facts, err := repo.PointsFacts(context.Background(), nil, "ev")
	require.NoError(t, err)
	require.Len(t, facts, 3)

	assert.Equal(t, models.StatusLuckyLoser, *facts[0].Status)
	assert.Equal(t, "R32", facts[0].LostRound.Name)
	assert.Equal(t, "Q1", facts[0].QualifyingLoss.Name)
	assert.True(t, facts[0].LostRound.PM.Equal(decimal.NewFromInt(3000)))

	assert.Equal(t, "Q1", facts[1].LostRound.Name, "never reached the main draw")

	assert.True(t, facts[2].WonTitle)
	assert.Nil(t, facts[2].LostRound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchesWithoutWinner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresIntegrityRepository(db)

	mock.ExpectQuery("FROM matches m").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7).AddRow(42))

	ids, err := repo.MatchesWithoutWinner(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{7, 42}, ids)
}
