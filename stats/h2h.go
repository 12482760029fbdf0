package stats

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/Dosada05/tennis-history/models"
)

const (
	Team1 = "t1"
	Team2 = "t2"
)

// SameTeam reports whether players is exactly the given team, in any order.
func SameTeam(players, team []string) bool {
	if len(players) != len(team) {
		return false
	}
	a := slices.Clone(players)
	b := slices.Clone(team)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// inferTiebreak returns the tiebreak points of the side whose value was not
// recorded: 7 when the other side scored under five, otherwise two more.
func inferTiebreak(known int) int {
	if known < 5 {
		return 7
	}
	return known + 2
}

// BackfillTiebreaks completes tiebreak values recorded for only one side.
func BackfillTiebreaks(a, b *models.SetScores) {
	for i := range a.T {
		switch {
		case a.T[i] == nil && b.T[i] != nil:
			v := inferTiebreak(*b.T[i])
			a.T[i] = &v
		case b.T[i] == nil && a.T[i] != nil:
			v := inferTiebreak(*a.T[i])
			b.T[i] = &v
		}
	}
}

// SetList renders played sets as [games] or [games, tiebreak].
func SetList(s models.SetScores) [][]int {
	sets := make([][]int, 0, len(s.S))
	for i := range s.S {
		if s.S[i] == nil {
			continue
		}
		set := []int{*s.S[i]}
		if s.T[i] != nil {
			set = append(set, *s.T[i])
		}
		sets = append(sets, set)
	}
	return sets
}

// OrientMatch turns a stored match into a head-to-head record seen from
// team1. Storage order of the two scores carries no meaning, so the side
// holding team1 is found by its players. ok is false when neither side is team1.
func OrientMatch(raw models.RawH2HMatch, team1 []string) (models.H2HMatch, bool) {
	a, b := raw.Sides[0], raw.Sides[1]
	switch {
	case SameTeam(a.PlayerIDs, team1):
	case SameTeam(b.PlayerIDs, team1):
		a, b = b, a
	default:
		return models.H2HMatch{}, false
	}

	m := raw.H2HMatch
	m.Stats = a.HasStats || b.HasStats
	if m.Incomplete == nil {
		m.Incomplete = a.Incomplete
	}
	if m.Incomplete == nil {
		m.Incomplete = b.Incomplete
	}

	sa, sb := a.Sets, b.Sets
	BackfillTiebreaks(&sa, &sb)
	m.Sets = [2][][]int{SetList(sa), SetList(sb)}

	switch {
	case isWinner(a.Outcome) || isLoser(b.Outcome):
		m.WinningTeam = strPtr(Team1)
	case isWinner(b.Outcome) || isLoser(a.Outcome):
		m.WinningTeam = strPtr(Team2)
	default:
		m.WinningTeam = nil
		m.Anomaly = strPtr(models.AnomalyMissingWinner)
	}
	return m, true
}

func isWinner(o *models.Outcome) bool { return o != nil && *o == models.OutcomeWinner }
func isLoser(o *models.Outcome) bool  { return o != nil && *o == models.OutcomeLoser }

func strPtr(s string) *string { return &s }

// MissingWinner builds the anomaly reported for a match without a recorded winner.
func MissingWinner(matchID int) models.Anomaly {
	return models.Anomaly{
		Kind:    models.AnomalyMissingWinner,
		Subject: strconv.Itoa(matchID),
		Detail:  fmt.Sprintf("match %d has no recorded winner", matchID),
	}
}

// H2HWins counts wins of each team over oriented matches.
func H2HWins(matches []models.H2HMatch) (team1, team2 int) {
	for _, m := range matches {
		if m.WinningTeam == nil {
			continue
		}
		switch *m.WinningTeam {
		case Team1:
			team1++
		case Team2:
			team2++
		}
	}
	return team1, team2
}

// GridCell renders the record of row against col as "w-l", or "" when they never met.
func GridCell(wl WinLoss) string {
	if wl.Matches() == 0 {
		return ""
	}
	return wl.String()
}
