package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var playerSorter = Sorter{
	Fields: map[string][]string{
		"name":     {"lower(p.last_name)", "lower(p.first_name)"},
		"country":  {"c.name"},
		"min_year": {"py.min_year"},
	},
	Tiebreak: "name",
	Identity: "p.id",
}

func TestSorterTerms(t *testing.T) {
	tests := []struct {
		name   string
		fields []SortField
		want   []OrderTerm
	}{
		{
			name:   "defaults to tiebreak then identity",
			fields: nil,
			want: []OrderTerm{
				{"lower(p.last_name)", Asc}, {"lower(p.first_name)", Asc}, {"p.id", Asc},
			},
		},
		{
			name:   "unknown fields are dropped",
			fields: []SortField{{Field: "password", Direction: Desc}, {Field: "country", Direction: "desc"}},
			want: []OrderTerm{
				{"c.name", Desc}, {"lower(p.last_name)", Asc}, {"lower(p.first_name)", Asc}, {"p.id", Asc},
			},
		},
		{
			name:   "tiebreak is not repeated when requested",
			fields: []SortField{{Field: "name", Direction: Desc}, {Field: "min_year", Direction: "sideways"}},
			want: []OrderTerm{
				{"lower(p.last_name)", Desc}, {"lower(p.first_name)", Desc}, {"py.min_year", Asc}, {"p.id", Asc},
			},
		},
		{
			name:   "duplicate fields keep the first direction",
			fields: []SortField{{Field: "country", Direction: Asc}, {Field: "country", Direction: Desc}},
			want: []OrderTerm{
				{"c.name", Asc}, {"lower(p.last_name)", Asc}, {"lower(p.first_name)", Asc}, {"p.id", Asc},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, playerSorter.Terms(tt.fields))
		})
	}
}

func TestRenderOrderUsesNullsLast(t *testing.T) {
	order := renderOrder(playerSorter.Terms([]SortField{{Field: "min_year", Direction: Desc}}))
	assert.True(t, strings.HasPrefix(order, "ORDER BY py.min_year DESC NULLS LAST"))
	assert.Empty(t, renderOrder(nil))
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Skip: 0, Limit: DefaultLimit}, Page{Skip: -5}.Normalize())
	assert.Equal(t, Page{Skip: 10, Limit: MaxLimit}, Page{Skip: 10, Limit: 10_000}.Normalize())

	lo, hi := Page{Skip: 8, Limit: 5}.Bounds(10)
	assert.Equal(t, 8, lo)
	assert.Equal(t, 10, hi)

	lo, hi = Page{Skip: 50, Limit: 5}.Bounds(10)
	assert.Equal(t, 10, lo)
	assert.Equal(t, 10, hi)
}
