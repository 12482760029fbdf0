package stats

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
)

type GroupField string

const (
	GroupCountry GroupField = "country"
	GroupMinYear GroupField = "min_year"
	GroupMaxYear GroupField = "max_year"
)

func (f GroupField) Valid() bool {
	return f == GroupCountry || f == GroupMinYear || f == GroupMaxYear
}

func groupID(field GroupField, value string) string {
	return fmt.Sprintf("g:%s:%s", field, value)
}

// GroupPlayers buckets player facts by the grouping field. Each player is
// counted once per group. Country groups are built from the candidate
// countries, so countries without players appear with a zero count; year
// groups exist only for years some player has.
func GroupPlayers(facts []models.PlayerFact, field GroupField, countries []models.Country) []models.Group {
	members := make(map[string]map[string]struct{})
	addMember := func(key, playerID string) {
		if members[key] == nil {
			members[key] = make(map[string]struct{})
		}
		members[key][playerID] = struct{}{}
	}

	for _, f := range facts {
		switch field {
		case GroupCountry:
			if f.CountryID != nil {
				addMember(*f.CountryID, f.PlayerID)
			}
		case GroupMinYear:
			if f.MinYear != nil {
				addMember(strconv.Itoa(*f.MinYear), f.PlayerID)
			}
		case GroupMaxYear:
			if f.MaxYear != nil {
				addMember(strconv.Itoa(*f.MaxYear), f.PlayerID)
			}
		}
	}

	var groups []models.Group
	if field == GroupCountry {
		groups = make([]models.Group, 0, len(countries))
		for _, c := range countries {
			n := len(members[c.ID])
			groups = append(groups, models.Group{
				ID:          groupID(field, c.ID),
				Name:        c.Name,
				Alpha2:      c.Alpha2,
				Count:       n,
				HasChildren: n > 0,
				GroupKey:    models.GroupKey{Field: string(field), Value: c.ID},
			})
		}
		return groups
	}

	groups = make([]models.Group, 0, len(members))
	for year, players := range members {
		groups = append(groups, models.Group{
			ID:          groupID(field, year),
			Name:        year,
			Count:       len(players),
			HasChildren: len(players) > 0,
			GroupKey:    models.GroupKey{Field: string(field), Value: year},
		})
	}
	return groups
}

func byLabel(field GroupField) query.Comparator[models.Group] {
	if field == GroupCountry {
		return func(a, b models.Group) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
	return func(a, b models.Group) int {
		x, _ := strconv.Atoi(a.GroupKey.Value)
		y, _ := strconv.Atoi(b.GroupKey.Value)
		return cmp.Compare(x, y)
	}
}

// GroupComparators are the sort fields allowed on groups of the given field:
// the field itself, "count", and the "label" tiebreak.
func GroupComparators(field GroupField) map[string]query.Comparator[models.Group] {
	label := byLabel(field)
	return map[string]query.Comparator[models.Group]{
		string(field): label,
		"label":       label,
		"count": func(a, b models.Group) int {
			return cmp.Compare(a.Count, b.Count)
		},
	}
}

// OrderGroups sorts groups on the requested fields, defaulting to the group
// field ascending, and returns the requested page.
func OrderGroups(groups []models.Group, field GroupField, sort []query.SortField, page query.Page) []models.Group {
	comparators := GroupComparators(field)
	known := false
	for _, s := range sort {
		if _, ok := comparators[s.Field]; ok {
			known = true
			break
		}
	}
	if !known {
		sort = []query.SortField{{Field: string(field), Direction: query.Asc}}
	}
	return query.OrderAndPage(groups, sort, comparators, "label", page)
}
