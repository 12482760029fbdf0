// Package temporal resolves time-bounded relationships, such as the country
// a player represented at a given date.
package temporal

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Dosada05/tennis-history/models"
)

// Resolution is the outcome of ResolveCountry. CountryID is empty when no
// edge applies. Anomaly is set when the edges break the representation invariant.
type Resolution struct {
	CountryID string
	Anomaly   *models.Anomaly
}

func (r Resolution) Found() bool {
	return r.CountryID != ""
}

// ReferenceDate returns the date used to resolve relationships of an event:
// the event's start date, falling back to the edition's.
func ReferenceDate(eventStart, editionStart *time.Time) *time.Time {
	if eventStart != nil {
		return eventStart
	}
	return editionStart
}

// closed reports whether a former edge has both bounds. Only closed windows
// can match an instant; Validate flags the rest.
func closed(e models.CountryRepresentation) bool {
	return e.StartDate != nil && e.EndDate != nil
}

// contains reports whether at falls inside the half-open window [start, end).
func contains(e models.CountryRepresentation, at time.Time) bool {
	return closed(e) && !e.StartDate.After(at) && at.Before(*e.EndDate)
}

// reachesPast reports whether a closed former window ends after the current
// edge starts.
func reachesPast(f, c models.CountryRepresentation) bool {
	return c.StartDate != nil && f.EndDate.After(*c.StartDate)
}

// overtakenBy returns the earliest current edge whose start the former window
// reaches past.
func overtakenBy(f models.CountryRepresentation, currents []models.CountryRepresentation) (models.CountryRepresentation, bool) {
	var found models.CountryRepresentation
	ok := false
	for _, c := range currents {
		if !reachesPast(f, c) {
			continue
		}
		if !ok || c.StartDate.Before(*found.StartDate) ||
			(c.StartDate.Equal(*found.StartDate) && c.CountryID < found.CountryID) {
			found, ok = c, true
		}
	}
	return found, ok
}

func formerAfterCurrent(playerID string, f, c models.CountryRepresentation) models.Anomaly {
	return models.Anomaly{
		Kind:    models.AnomalyFormerAfterCurrent,
		Subject: playerID,
		Detail:  fmt.Sprintf("former window %s reaches past current start %s", window(f), c.StartDate.Format(time.DateOnly)),
		Refs:    distinct([]string{f.CountryID, c.CountryID}),
	}
}

// ResolveCountry returns the country a player represented at the given instant.
// Former windows are checked first, then the current edge. A nil instant
// means "now" and returns the current edge. A former window that matches
// but runs into the current edge still wins, with the conflict flagged.
func ResolveCountry(edges []models.CountryRepresentation, at *time.Time) Resolution {
	var currents, matched []models.CountryRepresentation

	for _, e := range edges {
		if e.Current {
			currents = append(currents, e)
			continue
		}
		if at != nil && contains(e, *at) {
			matched = append(matched, e)
		}
	}

	switch len(matched) {
	case 0:
	case 1:
		res := Resolution{CountryID: matched[0].CountryID}
		if c, ok := overtakenBy(matched[0], currents); ok {
			a := formerAfterCurrent("", matched[0], c)
			res.Anomaly = &a
		}
		return res
	default:
		return overlapping(matched)
	}

	switch len(currents) {
	case 0:
		return Resolution{}
	case 1:
		return Resolution{CountryID: currents[0].CountryID}
	default:
		ids := make([]string, 0, len(currents))
		for _, c := range currents {
			ids = append(ids, c.CountryID)
		}
		ids = distinct(ids)
		res := Resolution{Anomaly: &models.Anomaly{
			Kind:   models.AnomalyMultipleCurrent,
			Detail: "player has more than one current representation",
			Refs:   ids,
		}}
		if len(ids) == 1 {
			res.CountryID = ids[0]
		}
		return res
	}
}

// overlapping builds the resolution for several former windows containing
// the same instant. The country is kept only if they all agree.
func overlapping(matched []models.CountryRepresentation) Resolution {
	ids := make([]string, 0, len(matched))
	for _, m := range matched {
		ids = append(ids, m.CountryID)
	}
	ids = distinct(ids)

	res := Resolution{Anomaly: &models.Anomaly{
		Kind:   models.AnomalyRepresentationOverlap,
		Detail: fmt.Sprintf("%d former representation windows overlap", len(matched)),
		Refs:   ids,
	}}
	if len(ids) == 1 {
		res.CountryID = ids[0]
	}
	return res
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Resolver resolves countries for many players against preloaded edges.
type Resolver struct {
	edges     map[string][]models.CountryRepresentation
	countries map[string]models.Country
}

func NewResolver(edges map[string][]models.CountryRepresentation, countries map[string]models.Country) *Resolver {
	return &Resolver{edges: edges, countries: countries}
}

// Country returns the resolved country of a player, and the anomaly if any,
// with the anomaly subject filled in.
func (r *Resolver) Country(playerID string, at *time.Time) (*models.Country, *models.Anomaly) {
	res := ResolveCountry(r.edges[playerID], at)
	if res.Anomaly != nil {
		res.Anomaly.Subject = playerID
	}
	if !res.Found() {
		return nil, res.Anomaly
	}
	c, ok := r.countries[res.CountryID]
	if !ok {
		c = models.Country{ID: res.CountryID}
	}
	return &c, res.Anomaly
}

// Validate checks the representation invariant of one player's edges:
// at most one current edge, closed and pairwise disjoint former windows, and
// no former window reaching past the current edge's start.
func Validate(playerID string, edges []models.CountryRepresentation) []models.Anomaly {
	var anomalies []models.Anomaly
	var formers []models.CountryRepresentation
	var currents []models.CountryRepresentation

	for _, e := range edges {
		switch {
		case e.Current:
			currents = append(currents, e)
		case !closed(e):
			anomalies = append(anomalies, models.Anomaly{
				Kind:    models.AnomalyOpenFormerWindow,
				Subject: playerID,
				Detail:  fmt.Sprintf("former window %s is missing a bound and never matches", window(e)),
				Refs:    []string{e.CountryID},
			})
		default:
			formers = append(formers, e)
		}
	}

	if len(currents) > 1 {
		ids := make([]string, 0, len(currents))
		for _, c := range currents {
			ids = append(ids, c.CountryID)
		}
		anomalies = append(anomalies, models.Anomaly{
			Kind:    models.AnomalyMultipleCurrent,
			Subject: playerID,
			Detail:  "player has more than one current representation",
			Refs:    distinct(ids),
		})
	}

	sort.SliceStable(formers, func(i, j int) bool {
		return formers[i].StartDate.Before(*formers[j].StartDate)
	})
	for i := 0; i < len(formers); i++ {
		for j := i + 1; j < len(formers); j++ {
			if windowsOverlap(formers[i], formers[j]) {
				anomalies = append(anomalies, models.Anomaly{
					Kind:    models.AnomalyRepresentationOverlap,
					Subject: playerID,
					Detail:  fmt.Sprintf("windows %s and %s overlap", window(formers[i]), window(formers[j])),
					Refs:    distinct([]string{formers[i].CountryID, formers[j].CountryID}),
				})
			}
		}
	}

	for _, c := range currents {
		for _, f := range formers {
			if reachesPast(f, c) {
				anomalies = append(anomalies, formerAfterCurrent(playerID, f, c))
			}
		}
	}

	return anomalies
}

// windowsOverlap compares closed half-open windows; touching windows do not overlap.
func windowsOverlap(a, b models.CountryRepresentation) bool {
	return a.StartDate.Before(*b.EndDate) && b.StartDate.Before(*a.EndDate)
}

func window(e models.CountryRepresentation) string {
	var b strings.Builder
	b.WriteString(e.CountryID)
	b.WriteString("[")
	if e.StartDate != nil {
		b.WriteString(e.StartDate.Format(time.DateOnly))
	}
	b.WriteString(", ")
	if e.EndDate != nil {
		b.WriteString(e.EndDate.Format(time.DateOnly))
	}
	b.WriteString(")")
	return b.String()
}
