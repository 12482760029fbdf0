package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
)

var groupCountries = []models.Country{
	{ID: "FRA", Name: "France", Alpha2: sp("FR")},
	{ID: "ESP", Name: "Spain", Alpha2: sp("ES")},
	{ID: "AND", Name: "Andorra", Alpha2: sp("AD")},
}

var groupFacts = []models.PlayerFact{
	{PlayerID: "p1", CountryID: sp("FRA"), MinYear: ip(1990), MaxYear: ip(2000)},
	{PlayerID: "p2", CountryID: sp("FRA"), MinYear: ip(1995), MaxYear: ip(2000)},
	{PlayerID: "p3", CountryID: sp("ESP"), MinYear: ip(1990), MaxYear: ip(2010)},
	// одна и та же строка игрока может прийти дважды
	{PlayerID: "p3", CountryID: sp("ESP"), MinYear: ip(1990), MaxYear: ip(2010)},
	{PlayerID: "p4"},
}

func byID(groups []models.Group) map[string]models.Group {
	out := make(map[string]models.Group, len(groups))
	for _, g := range groups {
		out[g.ID] = g
	}
	return out
}

func TestGroupPlayersByCountry(t *testing.T) {
	groups := byID(GroupPlayers(groupFacts, GroupCountry, groupCountries))

	require.Len(t, groups, 3)
	fra := groups["g:country:FRA"]
	assert.Equal(t, 2, fra.Count)
	assert.True(t, fra.HasChildren)
	assert.Equal(t, "France", fra.Name)
	assert.Equal(t, models.GroupKey{Field: "country", Value: "FRA"}, fra.GroupKey)
	assert.Equal(t, 1, groups["g:country:ESP"].Count)

	and := groups["g:country:AND"]
	assert.Zero(t, and.Count)
	assert.False(t, and.HasChildren)
}

func TestGroupPlayersByYear(t *testing.T) {
	groups := byID(GroupPlayers(groupFacts, GroupMinYear, nil))
	require.Len(t, groups, 2)
	assert.Equal(t, 2, groups["g:min_year:1990"].Count)
	assert.Equal(t, 1, groups["g:min_year:1995"].Count)

	groups = byID(GroupPlayers(groupFacts, GroupMaxYear, nil))
	require.Len(t, groups, 2)
	assert.Equal(t, 2, groups["g:max_year:2000"].Count)
	assert.Equal(t, models.GroupKey{Field: "max_year", Value: "2010"}, groups["g:max_year:2010"].GroupKey)
}

func TestOrderGroups(t *testing.T) {
	groups := GroupPlayers(groupFacts, GroupCountry, groupCountries)
	ids := func(gs []models.Group) []string {
		out := make([]string, 0, len(gs))
		for _, g := range gs {
			out = append(out, g.GroupKey.Value)
		}
		return out
	}

	tests := []struct {
		name string
		sort []query.SortField
		want []string
	}{
		{"default is the group field ascending", nil, []string{"AND", "FRA", "ESP"}},
		{"unknown fields fall back to default", []query.SortField{{Field: "tour"}}, []string{"AND", "FRA", "ESP"}},
		{"descending", []query.SortField{{Field: "country", Direction: "desc"}}, []string{"ESP", "FRA", "AND"}},
		{"count with label tiebreak", []query.SortField{{Field: "count", Direction: query.Desc}}, []string{"FRA", "ESP", "AND"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(OrderGroups(groups, GroupCountry, tt.sort, query.Page{})))
		})
	}

	years := GroupPlayers(groupFacts, GroupMinYear, nil)
	got := OrderGroups(years, GroupMinYear, []query.SortField{{Field: "min_year", Direction: query.Desc}}, query.Page{Limit: 1})
	assert.Equal(t, []string{"1995"}, ids(got))
}
