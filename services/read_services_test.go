package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/stats"
	"github.com/Dosada05/tennis-history/validation"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func strp(s string) *string { return &s }

func outcome(o models.Outcome) *models.Outcome { return &o }

var testCountries = []models.CountrySummary{
	{Country: models.Country{ID: "ESP", Name: "Spain", Alpha2: strp("ES")}, Players: 3},
	{Country: models.Country{ID: "FRA", Name: "France", Alpha2: strp("FR")}, Players: 5},
	{Country: models.Country{ID: "SUI", Name: "Switzerland", Alpha2: strp("CH")}, Players: 0},
}

// p1 moved from France to Spain in 2010; p2 has always played for Spain.
func testPlayers() *fakePlayerRepo {
	return &fakePlayerRepo{
		players: map[string]*models.Player{
			"p1": {ID: "p1", FirstName: "Ann", LastName: "Alpha", Tour: models.TourWTA},
			"p2": {ID: "p2", FirstName: "Zoe", LastName: "Zeta", Tour: models.TourWTA},
			"p3": {ID: "p3", FirstName: "Mia", LastName: "Mu", Tour: models.TourWTA},
		},
		refs: map[string]models.PlayerRef{
			"p1": {ID: "p1", FirstName: "Ann", LastName: "Alpha"},
			"p2": {ID: "p2", FirstName: "Zoe", LastName: "Zeta"},
			"p3": {ID: "p3", FirstName: "Mia", LastName: "Mu"},
		},
		edges: map[string][]models.CountryRepresentation{
			"p1": {
				{PlayerID: "p1", CountryID: "FRA", StartDate: date(2000, 1, 1), EndDate: date(2010, 1, 1)},
				{PlayerID: "p1", CountryID: "ESP", StartDate: date(2010, 1, 1), Current: true},
			},
			"p2": {{PlayerID: "p2", CountryID: "ESP", Current: true}},
		},
	}
}

func TestListPlayersSkipsFetchWhenCountIsZero(t *testing.T) {
	players := testPlayers()
	svc := NewPlayerService(players, &fakeCountryRepo{}, discardLogger())

	page, err := svc.ListPlayers(context.Background(), ListPlayersInput{})
	require.NoError(t, err)

	assert.Equal(t, 0, page.Count)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
	assert.False(t, players.listCalled)
}

func TestListPlayersAttachesCoaches(t *testing.T) {
	players := testPlayers()
	players.count = 1
	players.list = []models.PlayerSummary{{ID: "p1", FirstName: "Ann", LastName: "Alpha", Tour: models.TourWTA}}
	players.coaches = map[string][]models.CoachLink{
		"p1": {{Coach: models.Coach{ID: "c1", LastName: "Coach"}, Current: true}},
	}
	svc := &playerService{playerRepo: players, countryRepo: &fakeCountryRepo{}, logger: discardLogger(),
		now: func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }}

	page, err := svc.ListPlayers(context.Background(), ListPlayersInput{})
	require.NoError(t, err)

	require.Len(t, page.Results, 1)
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Results[0].Coaches, 1)
	assert.Equal(t, "c1", page.Results[0].Coaches[0].ID)
	assert.Equal(t, 2024, players.countFilter.CurrentYear)
}

func TestListPlayersRejectsInvalidRecords(t *testing.T) {
	players := testPlayers()
	players.count = 1
	players.list = []models.PlayerSummary{{ID: "p1", LastName: "Alpha", Tour: "ITF"}}
	svc := NewPlayerService(players, &fakeCountryRepo{}, discardLogger())

	_, err := svc.ListPlayers(context.Background(), ListPlayersInput{})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestGroupPlayersByCountry(t *testing.T) {
	players := testPlayers()
	players.facts = []models.PlayerFact{
		{PlayerID: "p1", CountryID: strp("ESP")},
		{PlayerID: "p2", CountryID: strp("ESP")},
	}
	svc := NewPlayerService(players, &fakeCountryRepo{summaries: testCountries}, discardLogger())

	page, err := svc.GroupPlayers(context.Background(), GroupPlayersInput{
		Field: stats.GroupCountry,
		Sort:  []query.SortField{{Field: "count", Direction: query.Desc}},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Count)
	require.Len(t, page.Results, 3)
	assert.Equal(t, "ESP", page.Results[0].GroupKey.Value)
	assert.Equal(t, 2, page.Results[0].Count)
	// Страны без игроков остаются в списке.
	assert.Equal(t, 0, page.Results[2].Count)
	assert.False(t, page.Results[2].HasChildren)
}

func TestGroupPlayersUnknownField(t *testing.T) {
	svc := NewPlayerService(testPlayers(), &fakeCountryRepo{}, discardLogger())
	_, err := svc.GroupPlayers(context.Background(), GroupPlayersInput{Field: "height"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "field", verr.Violations[0].Field)
}

func TestCountryAt(t *testing.T) {
	svc := NewPlayerService(testPlayers(), &fakeCountryRepo{summaries: testCountries}, discardLogger())
	ctx := context.Background()

	res, err := svc.CountryAt(ctx, "p1", date(2005, 5, 1))
	require.NoError(t, err)
	require.NotNil(t, res.Country)
	assert.Equal(t, "France", res.Country.Name)

	res, err = svc.CountryAt(ctx, "p1", nil)
	require.NoError(t, err)
	assert.Equal(t, "ESP", res.Country.ID)

	_, err = svc.CountryAt(ctx, "nobody", nil)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestCountryAtReportsOverlap(t *testing.T) {
	players := testPlayers()
	players.edges["p3"] = []models.CountryRepresentation{
		{PlayerID: "p3", CountryID: "FRA", StartDate: date(2000, 1, 1), EndDate: date(2006, 1, 1)},
		{PlayerID: "p3", CountryID: "SUI", StartDate: date(2004, 1, 1), EndDate: date(2008, 1, 1)},
	}
	svc := NewPlayerService(players, &fakeCountryRepo{summaries: testCountries}, discardLogger())

	res, err := svc.CountryAt(context.Background(), "p3", date(2005, 1, 1))
	require.NoError(t, err)
	assert.Nil(t, res.Country)
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, models.AnomalyRepresentationOverlap, res.Anomalies[0].Kind)
	assert.Equal(t, "p3", res.Anomalies[0].Subject)
}

func TestListCountriesCountsTitlesAtEventDate(t *testing.T) {
	statsRepo := &fakeStatsRepo{wins: []models.TitleWin{
		{PlayerIDs: []string{"p1"}, Category: "Grand Slam", At: date(2005, 6, 1)},
		{PlayerIDs: []string{"p1"}, Category: "Grand Slam", At: date(2015, 6, 1)},
		{PlayerIDs: []string{"p2"}, Category: "WTA 1000", At: date(2015, 8, 1)},
	}}
	svc := NewCountryService(&fakeCountryRepo{summaries: testCountries}, testPlayers(), statsRepo, discardLogger())

	page, err := svc.ListCountries(context.Background(), ListCountriesInput{
		Sort: []query.SortField{{Field: "titles", Direction: query.Desc}},
		Page: query.Page{Limit: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "ESP", page.Results[0].ID)
	assert.Equal(t, 2, page.Results[0].BigTitles)
	assert.Equal(t, "FRA", page.Results[1].ID)
	assert.Equal(t, 1, page.Results[1].BigTitles)
}

func TestListTournamentsEmpty(t *testing.T) {
	svc := NewTournamentService(&stubTournamentRepo{})
	page, err := svc.ListTournaments(context.Background(), ListTournamentsInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Count)
	assert.NotNil(t, page.Results)
}

type stubTournamentRepo struct{}

func (stubTournamentRepo) Count(context.Context, repositories.TournamentFilter) (int, error) {
	return 0, nil
}

func (stubTournamentRepo) List(context.Context, repositories.TournamentFilter, []query.SortField, query.Page) ([]models.Tournament, error) {
	panic("List must not run when the count is zero")
}

func TestH2HPlayersRejectsMismatchedTeams(t *testing.T) {
	svc := NewH2HService(&fakeH2HRepo{}, testPlayers(), &fakeCountryRepo{}, discardLogger())

	_, err := svc.Players(context.Background(), []string{"p1"}, []string{"p2", "p3"})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "team2", verr.Violations[0].Field)
}

func h2hFixture() *fakeH2HRepo {
	side := func(player string, o *models.Outcome) models.ScoreSide {
		return models.ScoreSide{EntryID: "e " + player, PlayerIDs: []string{player}, Outcome: o}
	}
	return &fakeH2HRepo{
		records: map[string]repositories.TeamRecord{
			"p1": {Wins: 10, Losses: 4, Titles: 2, TourWins: 8, TourLosses: 3, TourTitles: 1},
			"p2": {Wins: 7, Losses: 7},
		},
		matches: []models.RawH2HMatch{
			{H2HMatch: models.H2HMatch{MatchID: 1}, Sides: [2]models.ScoreSide{
				side("p2", outcome(models.OutcomeWinner)), side("p1", outcome(models.OutcomeLoser))}},
			{H2HMatch: models.H2HMatch{MatchID: 2}, Sides: [2]models.ScoreSide{
				side("p1", outcome(models.OutcomeWinner)), side("p2", outcome(models.OutcomeLoser))}},
			{H2HMatch: models.H2HMatch{MatchID: 3}, Sides: [2]models.ScoreSide{
				side("p1", nil), side("p2", nil)}},
		},
	}
}

func TestH2HPlayers(t *testing.T) {
	svc := NewH2HService(h2hFixture(), testPlayers(), &fakeCountryRepo{summaries: testCountries}, discardLogger())

	res, err := svc.Players(context.Background(), []string{"p1"}, []string{"p2"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Team1.Wins)
	assert.Equal(t, 1, res.Team2.Wins)
	assert.Equal(t, 10, res.Team1.CareerWins)
	assert.Equal(t, 2, res.Team1.Titles)
	assert.Equal(t, 1, res.Team1.TourTitles)
	assert.Equal(t, 7, res.Team2.CareerLosses)
	require.Len(t, res.Team1.Players, 1)
	assert.Equal(t, "ESP", res.Team1.Players[0].Country.ID)

	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, models.AnomalyMissingWinner, res.Anomalies[0].Kind)
	assert.Equal(t, "3", res.Anomalies[0].Subject)
}

func TestH2HMatchesKeepsMissingWinner(t *testing.T) {
	svc := NewH2HService(h2hFixture(), testPlayers(), &fakeCountryRepo{}, discardLogger())

	page, err := svc.Matches(context.Background(), []string{"p2"}, []string{"p1"})
	require.NoError(t, err)

	require.Len(t, page.Results, 3)
	assert.Equal(t, stats.Team1, *page.Results[0].WinningTeam)
	assert.Equal(t, stats.Team2, *page.Results[1].WinningTeam)
	assert.Nil(t, page.Results[2].WinningTeam)
	require.NotNil(t, page.Results[2].Anomaly)
	assert.Len(t, page.Anomalies, 1)
}

func TestH2HGrid(t *testing.T) {
	rank := func(n int) *int { return &n }
	repo := &fakeH2HRepo{
		top: []models.PlayerRef{
			{ID: "p1", Rank: rank(1)}, {ID: "p2", Rank: rank(2)}, {ID: "p3", Rank: rank(3)},
		},
		grid: map[string]map[string]int{
			"p1": {"p2": 3},
			"p2": {"p1": 1},
		},
	}
	svc := NewH2HService(repo, testPlayers(), &fakeCountryRepo{summaries: testCountries}, discardLogger())

	grid, err := svc.Grid(context.Background(), models.TourWTA, 0)
	require.NoError(t, err)

	require.Len(t, grid.Players, 3)
	assert.Equal(t, "ESP", grid.Players[0].Country.ID)
	assert.Equal(t, 1, *grid.Players[0].Rank)
	assert.Equal(t, "3-1", grid.Results["p1"]["p2"])
	assert.Equal(t, "1-3", grid.Results["p2"]["p1"])
	assert.Equal(t, "", grid.Results["p1"]["p3"])
	assert.NotContains(t, grid.Results["p1"], "p1")

	_, err = svc.Grid(context.Background(), "ITF", 5)
	var verr *validation.Error
	assert.True(t, errors.As(err, &verr))
}

func TestTopOpponentsOrder(t *testing.T) {
	statsRepo := &fakeStatsRepo{opponents: []repositories.OpponentRecord{
		{OpponentID: "p3", Wins: 2, Losses: 1},
		{OpponentID: "p2", Wins: 1, Losses: 2},
		{OpponentID: "p1", Wins: 2, Losses: 1},
	}}
	players := testPlayers()
	svc := NewStatsService(statsRepo, players, &fakeCountryRepo{summaries: testCountries}, discardLogger())

	out, _, err := svc.TopOpponents(context.Background(), "p2")
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"p1", "p3", "p2"}, []string{out[0].Opponent.ID, out[1].Opponent.ID, out[2].Opponent.ID})
	assert.Equal(t, 3, out[0].Matches)
	assert.Equal(t, "ESP", out[0].Opponent.Country.ID)
}

func TestStatsUnknownPlayer(t *testing.T) {
	svc := NewStatsService(&fakeStatsRepo{}, testPlayers(), &fakeCountryRepo{}, discardLogger())
	_, err := svc.WinLoss(context.Background(), "nobody", repositories.StatsFilter{})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestWinLossRowsAreComplete(t *testing.T) {
	statsRepo := &fakeStatsRepo{results: []models.ResultFact{
		{MatchType: models.Singles, Draw: models.DrawMain, Level: models.LevelTour, Round: "R32", Won: true},
	}}
	svc := NewStatsService(statsRepo, testPlayers(), &fakeCountryRepo{}, discardLogger())

	rows, err := svc.WinLoss(context.Background(), "p1", repositories.StatsFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "1-0", rows[0].Total.Singles.WL)
	assert.Equal(t, "0-0", rows[0].Total.Doubles.WL)
}

func TestActivityGroupsMatchesIntoEvents(t *testing.T) {
	ev := models.ActivityEvent{EventID: "ev1", Year: 2005, Level: models.LevelTour, MatchType: models.Doubles}
	games := func(n int) *int { return &n }
	statsRepo := &fakeStatsRepo{activity: []repositories.ActivityRow{
		{
			Event: ev, EntryID: "ev1 p1 p3", At: date(2005, 6, 1), PartnerID: strp("p3"),
			Match:       models.ActivityMatch{MatchID: 10, Round: "SF", Draw: models.DrawMain, Outcome: outcome(models.OutcomeWinner)},
			OpponentIDs: []string{"p2"},
			Own:         models.SetScores{S: [5]*int{games(7)}, T: [5]*int{games(9)}},
			Opponent:    models.SetScores{S: [5]*int{games(6)}},
		},
		{
			Event: ev, EntryID: "ev1 p1 p3", At: date(2005, 6, 1), PartnerID: strp("p3"),
			Match:       models.ActivityMatch{MatchID: 11, Round: models.RoundFinal, Draw: models.DrawMain, Outcome: outcome(models.OutcomeWinner)},
			OpponentIDs: []string{"p1"},
		},
	}}
	svc := NewStatsService(statsRepo, testPlayers(), &fakeCountryRepo{summaries: testCountries}, discardLogger())

	res, err := svc.Activity(context.Background(), "p2", repositories.StatsFilter{})
	require.NoError(t, err)

	require.Len(t, res.Events, 1)
	event := res.Events[0]
	require.Len(t, event.Matches, 2)
	require.NotNil(t, event.Partner)
	assert.Equal(t, "p3", event.Partner.ID)
	assert.Equal(t, [2][][]int{{{7, 9}}, {{6, 11}}}, event.Matches[0].Sets)
	// Соперник p1 в 2005 году ещё играл за Францию.
	assert.Equal(t, "FRA", event.Matches[1].Opponents[0].Country.ID)
	assert.Equal(t, "2-0", res.Doubles.WL)
	assert.Equal(t, 1, res.Doubles.Titles)
	assert.Equal(t, "0-0", res.Singles.WL)
}

func eventFixture() *fakeEventRepo {
	rank := func(n int) *int { return &n }
	return &fakeEventRepo{
		event: &repositories.EventContext{
			Event:        models.Event{ID: "ev1", StartDate: date(2005, 6, 1)},
			EditionStart: date(2005, 5, 20),
		},
		entries: []repositories.EntryRow{
			{Entry: models.Entry{ID: "ev1 p2", MatchType: models.Singles}, Players: []models.EntryPlayer{{PlayerID: "p2", Rank: rank(4)}}},
			{Entry: models.Entry{ID: "ev1 p1", MatchType: models.Singles}, Players: []models.EntryPlayer{{PlayerID: "p1", Rank: rank(9)}},
				Draws: []models.Draw{models.DrawMain}},
		},
		seeds: []repositories.SeedRow{
			{EntryID: "ev1 p2", MatchType: models.Singles, Draw: models.DrawMain, Seed: rank(1), PlayerIDs: []string{"p2"}},
		},
	}
}

func TestEventEntries(t *testing.T) {
	svc := NewEventService(eventFixture(), testPlayers(), &fakeCountryRepo{summaries: testCountries}, discardLogger())

	page, err := svc.Entries(context.Background(), "ev1")
	require.NoError(t, err)

	require.Len(t, page.Results, 2)
	first := page.Results[0]
	assert.Equal(t, "ev1 p1", first.ID)
	assert.Equal(t, "FRA", first.Team[0].Country.ID)
	assert.Equal(t, 9, *first.Team[0].Rank)
	assert.Equal(t, []models.Draw{models.DrawMain}, first.Draws)
	assert.Equal(t, []models.Draw{}, page.Results[1].Draws)
}

func TestEventSeeds(t *testing.T) {
	svc := NewEventService(eventFixture(), testPlayers(), &fakeCountryRepo{summaries: testCountries}, discardLogger())

	page, err := svc.Seeds(context.Background(), "ev1")
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "ev1 p2", page.Results[0].EntryID)
	assert.Equal(t, "ESP", page.Results[0].Team[0].Country.ID)

	_, err = svc.Seeds(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}
