package stats

import (
	"slices"

	"github.com/Dosada05/tennis-history/models"
)

// MastersCategories are the edition categories counted as Masters-level.
var MastersCategories = []string{
	"ATP Masters 1000",
	"ATP Masters Series",
	"ATP Super 9",
	"ATP Championship Series, Single Week",
	"Premier Mandatory",
	"WTA 1000",
}

const grandSlam = "Grand Slam"

type matchFilter func(m models.IndexFact) bool

func categoryIs(names ...string) matchFilter {
	return func(m models.IndexFact) bool {
		return m.Category != nil && slices.Contains(names, *m.Category)
	}
}

func surfaceIs(name string) matchFilter {
	return func(m models.IndexFact) bool {
		return m.Surface != nil && *m.Surface == name
	}
}

func environmentIs(name string) matchFilter {
	return func(m models.IndexFact) bool {
		return m.Environment != nil && *m.Environment == name
	}
}

func anyMatch(models.IndexFact) bool { return true }

// setFilter counts sets per match; own and opp are the games of one set.
type setFilter func(own, opp int) (win, loss bool)

func setScore(winner, loser int) setFilter {
	return func(own, opp int) (bool, bool) {
		return own == winner && opp == loser, own == loser && opp == winner
	}
}

func decidingSet(m models.IndexFact) bool {
	switch m.BestOf {
	case 3:
		return m.Own[2] != nil
	case 5:
		return m.Own[4] != nil
	}
	return false
}

func firstSet(won bool) matchFilter {
	return func(m models.IndexFact) bool {
		if m.Own[0] == nil || m.Opponent[0] == nil {
			return false
		}
		if won {
			return *m.Own[0] > *m.Opponent[0]
		}
		return *m.Own[0] < *m.Opponent[0]
	}
}

type indexBuilder struct {
	facts []models.IndexFact
	rows  []models.WLIndexRow
}

func (b *indexBuilder) matches(category, stat string, withTitles bool, keep matchFilter) {
	var wl WinLoss
	titles := 0
	for _, m := range b.facts {
		if !keep(m) {
			continue
		}
		wl.add(m.Won)
		if m.Won && m.Round == models.RoundFinal {
			titles++
		}
	}
	row := models.WLIndexRow{Category: category, Stat: stat, Wins: wl.Wins, Losses: wl.Losses, Value: wl.Ratio()}
	if withTitles {
		row.Titles = &titles
	}
	b.rows = append(b.rows, row)
}

func (b *indexBuilder) sets(category, stat string, count setFilter) {
	var wl WinLoss
	for _, m := range b.facts {
		for i := range m.Own {
			if m.Own[i] == nil || m.Opponent[i] == nil {
				continue
			}
			win, loss := count(*m.Own[i], *m.Opponent[i])
			if win {
				wl.Wins++
			}
			if loss {
				wl.Losses++
			}
		}
	}
	b.rows = append(b.rows, models.WLIndexRow{Category: category, Stat: stat, Wins: wl.Wins, Losses: wl.Losses, Value: wl.Ratio()})
}

// WLIndex computes the win-loss index of a player's singles matches.
// Set-level rows (tie breaks, bagels, breadsticks) count sets, not matches.
func WLIndex(facts []models.IndexFact) []models.WLIndexRow {
	b := &indexBuilder{facts: facts}

	b.matches("Match record", "Overall", true, anyMatch)
	b.matches("Match record", "Grand Slams", true, categoryIs(grandSlam))
	b.matches("Match record", "Masters", true, categoryIs(MastersCategories...))

	b.sets("Pressure points", "Tie breaks", setScore(7, 6))
	b.matches("Pressure points", "Versus Top 10", false, func(m models.IndexFact) bool {
		return m.OpponentRank != nil && *m.OpponentRank > 0 && *m.OpponentRank <= 10
	})
	b.matches("Pressure points", "Finals", false, func(m models.IndexFact) bool {
		return m.Round == models.RoundFinal
	})
	b.matches("Pressure points", "Deciding set", false, decidingSet)
	b.matches("Pressure points", "5th set record", false, func(m models.IndexFact) bool {
		return m.BestOf == 5 && m.Own[4] != nil
	})

	for _, s := range []string{"Clay", "Grass", "Hard", "Carpet"} {
		b.matches("Environment", s, true, surfaceIs(s))
	}
	for _, e := range []string{"Indoor", "Outdoor"} {
		b.matches("Environment", e, true, environmentIs(e))
	}

	b.matches("Other", "After winning 1st set", false, firstSet(true))
	b.matches("Other", "After losing 1st set", false, firstSet(false))
	b.matches("Other", "Versus right-handers", false, func(m models.IndexFact) bool {
		return m.OpponentPlays != nil && *m.OpponentPlays == "Right"
	})
	b.matches("Other", "Versus left-handers", false, func(m models.IndexFact) bool {
		return m.OpponentPlays != nil && *m.OpponentPlays == "Left"
	})
	b.sets("Other", "Bagels", setScore(6, 0))
	b.sets("Other", "Breadsticks", setScore(6, 1))

	return b.rows
}
