package services

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
	"github.com/Dosada05/tennis-history/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakePlayerRepo struct {
	players     map[string]*models.Player
	count       int
	list        []models.PlayerSummary
	facts       []models.PlayerFact
	coaches     map[string][]models.CoachLink
	edges       map[string][]models.CountryRepresentation
	refs        map[string]models.PlayerRef
	listCalled  bool
	countFilter repositories.PlayerFilter
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id string) (*models.Player, error) {
	if p, ok := f.players[id]; ok {
		return p, nil
	}
	return nil, repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) Count(_ context.Context, filter repositories.PlayerFilter) (int, error) {
	f.countFilter = filter
	return f.count, nil
}

func (f *fakePlayerRepo) List(context.Context, repositories.PlayerFilter, []query.SortField, query.Page) ([]models.PlayerSummary, error) {
	f.listCalled = true
	return slices.Clone(f.list), nil
}

func (f *fakePlayerRepo) Facts(context.Context, repositories.PlayerFilter) ([]models.PlayerFact, error) {
	return f.facts, nil
}

func (f *fakePlayerRepo) Coaches(context.Context, []string) (map[string][]models.CoachLink, error) {
	return f.coaches, nil
}

func (f *fakePlayerRepo) Representations(_ context.Context, ids []string) (map[string][]models.CountryRepresentation, error) {
	if ids == nil {
		return f.edges, nil
	}
	out := make(map[string][]models.CountryRepresentation)
	for _, id := range ids {
		if e, ok := f.edges[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (f *fakePlayerRepo) Refs(_ context.Context, ids []string) (map[string]models.PlayerRef, error) {
	out := make(map[string]models.PlayerRef)
	for _, id := range ids {
		if r, ok := f.refs[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

type fakeCountryRepo struct {
	summaries []models.CountrySummary
}

func (f *fakeCountryRepo) List(_ context.Context, filter repositories.CountryFilter) ([]models.CountrySummary, error) {
	var out []models.CountrySummary
	for _, c := range f.summaries {
		if len(filter.Countries) > 0 && !slices.Contains(filter.Countries, c.ID) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCountryRepo) ByID(context.Context) (map[string]models.Country, error) {
	out := make(map[string]models.Country, len(f.summaries))
	for _, c := range f.summaries {
		out[c.ID] = c.Country
	}
	return out, nil
}

type fakeStatsRepo struct {
	results   []models.ResultFact
	index     []models.IndexFact
	serve     []models.ServeStats
	finals    []models.TitleRecord
	activity  []repositories.ActivityRow
	opponents []repositories.OpponentRecord
	wins      []models.TitleWin
}

func (f *fakeStatsRepo) Results(context.Context, string, repositories.StatsFilter) ([]models.ResultFact, error) {
	return f.results, nil
}

func (f *fakeStatsRepo) IndexFacts(context.Context, string, repositories.StatsFilter) ([]models.IndexFact, error) {
	return f.index, nil
}

func (f *fakeStatsRepo) ServeStats(context.Context, string, repositories.StatsFilter) ([]models.ServeStats, error) {
	return f.serve, nil
}

func (f *fakeStatsRepo) Finals(context.Context, string, repositories.StatsFilter) ([]models.TitleRecord, error) {
	return f.finals, nil
}

func (f *fakeStatsRepo) Activity(context.Context, string, repositories.StatsFilter) ([]repositories.ActivityRow, error) {
	return f.activity, nil
}

func (f *fakeStatsRepo) Opponents(context.Context, string, int) ([]repositories.OpponentRecord, error) {
	return f.opponents, nil
}

func (f *fakeStatsRepo) BigTitleWins(context.Context, []string) ([]models.TitleWin, error) {
	return f.wins, nil
}

type fakeH2HRepo struct {
	records map[string]repositories.TeamRecord
	matches []models.RawH2HMatch
	top     []models.PlayerRef
	grid    map[string]map[string]int
}

func teamKey(team []string) string {
	t := slices.Clone(team)
	slices.Sort(t)
	return strings.Join(t, "+")
}

func (f *fakeH2HRepo) TeamRecord(_ context.Context, team []string) (repositories.TeamRecord, error) {
	return f.records[teamKey(team)], nil
}

func (f *fakeH2HRepo) Matches(context.Context, []string, []string) ([]models.RawH2HMatch, error) {
	return f.matches, nil
}

func (f *fakeH2HRepo) TopPlayers(_ context.Context, _ models.Tour, size int) ([]models.PlayerRef, error) {
	top := slices.Clone(f.top)
	if len(top) > size {
		top = top[:size]
	}
	return top, nil
}

func (f *fakeH2HRepo) GridWins(context.Context, []string) (map[string]map[string]int, error) {
	return f.grid, nil
}

type fakeEventRepo struct {
	event   *repositories.EventContext
	entries []repositories.EntryRow
	seeds   []repositories.SeedRow
	infos   []repositories.InfoRow
	rounds  []models.Round
	facts   []models.PointsFact
}

func (f *fakeEventRepo) GetContext(_ context.Context, eventID string) (*repositories.EventContext, error) {
	if f.event == nil || f.event.ID != eventID {
		return nil, repositories.ErrEventNotFound
	}
	return f.event, nil
}

func (f *fakeEventRepo) Entries(context.Context, string) ([]repositories.EntryRow, error) {
	return f.entries, nil
}

func (f *fakeEventRepo) Seeds(context.Context, string) ([]repositories.SeedRow, error) {
	return f.seeds, nil
}

func (f *fakeEventRepo) EntryInfo(context.Context, string) ([]repositories.InfoRow, error) {
	return f.infos, nil
}

func (f *fakeEventRepo) Rounds(context.Context, repositories.SQLExecutor, string) ([]models.Round, error) {
	return f.rounds, nil
}

func (f *fakeEventRepo) PointsFacts(context.Context, repositories.SQLExecutor, string) ([]models.PointsFact, error) {
	return f.facts, nil
}

// fakeEntryRepo records the writes a service issues.
type fakeEntryRepo struct {
	byPlayer  map[string]string
	relations map[string]bool
	touched   int64
	calls     []string
	created   []string
	marker    string
	points    map[string]int
	pm        map[string]decimal.Decimal
	seeds     map[string]int
}

func (f *fakeEntryRepo) record(call string) { f.calls = append(f.calls, call) }

func (f *fakeEntryRepo) FindOrCreate(_ context.Context, _ repositories.SQLExecutor, eventID string, _ models.MatchType, playerIDs []string) (string, bool, error) {
	f.record("FindOrCreate")
	f.created = slices.Clone(playerIDs)
	return models.EntryID(eventID, playerIDs...), true, nil
}

func (f *fakeEntryRepo) FindByPlayer(_ context.Context, _ repositories.SQLExecutor, _ string, _ models.MatchType, playerID string) (string, error) {
	f.record("FindByPlayer")
	if id, ok := f.byPlayer[playerID]; ok {
		return id, nil
	}
	return "", repositories.ErrEntryNotFound
}

func (f *fakeEntryRepo) Update(context.Context, repositories.SQLExecutor, string, repositories.EntryFields) error {
	f.record("Update")
	return nil
}

func (f *fakeEntryRepo) SetStatus(_ context.Context, _ repositories.SQLExecutor, _ string, draw models.Draw, status models.EntryStatus) error {
	f.record("SetStatus " + string(draw) + " " + string(status))
	return nil
}

func (f *fakeEntryRepo) SetSeed(_ context.Context, _ repositories.SQLExecutor, entryID string, _ models.Draw, seed *int) error {
	f.record("SetSeed")
	if f.seeds == nil {
		f.seeds = make(map[string]int)
	}
	f.seeds[entryID] = *seed
	return nil
}

func (f *fakeEntryRepo) UpsertRelationship(_ context.Context, _ repositories.SQLExecutor, rel models.EntryRelationship) error {
	f.record("Upsert " + string(rel.Kind))
	return nil
}

func (f *fakeEntryRepo) UpdateRelationship(_ context.Context, _ repositories.SQLExecutor, rel models.EntryRelationship) error {
	f.record("UpdateRelationship " + string(rel.Kind))
	if !f.relations[rel.EntryID+" "+string(rel.Kind)] {
		return repositories.ErrRelationshipNotFound
	}
	return nil
}

func (f *fakeEntryRepo) MarkIncomplete(_ context.Context, _ repositories.SQLExecutor, _ string, _ models.Draw, marker string) (int64, error) {
	f.record("MarkIncomplete")
	f.marker = marker
	return f.touched, nil
}

func (f *fakeEntryRepo) Walkover(context.Context, repositories.SQLExecutor, string, models.Draw) (int64, error) {
	f.record("Walkover")
	return f.touched, nil
}

func (f *fakeEntryRepo) SyncStatuses(context.Context, repositories.SQLExecutor, string) (int64, error) {
	f.record("SyncStatuses")
	return f.touched, nil
}

func (f *fakeEntryRepo) UpdatePoints(_ context.Context, _ repositories.SQLExecutor, entryID string, points int, pm decimal.Decimal) error {
	f.record("UpdatePoints")
	if f.points == nil {
		f.points = make(map[string]int)
		f.pm = make(map[string]decimal.Decimal)
	}
	f.points[entryID], f.pm[entryID] = points, pm
	return nil
}

type fakeIntegrityRepo struct {
	missing []int
}

func (f *fakeIntegrityRepo) MatchesWithoutWinner(context.Context) ([]int, error) {
	return f.missing, nil
}

func (f *fakeIntegrityRepo) Ping(context.Context) error { return nil }
