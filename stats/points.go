package stats

import (
	"github.com/shopspring/decimal"

	"github.com/Dosada05/tennis-history/models"
)

// Rounds indexes the rounds of one event and match type.
type Rounds struct {
	byName map[string]models.Round
	first  *models.Round
}

// NewRounds indexes rounds. The first round is the highest-numbered main-draw
// round; the Win and Qualifier pseudo-rounds never count as played rounds.
func NewRounds(rounds []models.Round) Rounds {
	rs := Rounds{byName: make(map[string]models.Round, len(rounds))}
	for _, r := range rounds {
		rs.byName[r.Name] = r
		if r.Name == models.RoundWin || r.Name == models.RoundQualifier || r.Qualifying() {
			continue
		}
		if rs.first == nil || r.Number > rs.first.Number {
			r := r
			rs.first = &r
		}
	}
	return rs
}

func (rs Rounds) named(name string) models.Round {
	return rs.byName[name]
}

func (rs Rounds) isFirst(r *models.Round) bool {
	return rs.first != nil && r != nil && r.Number == rs.first.Number
}

// PointsResult is the ranking points and prize money an entry earned.
type PointsResult struct {
	EntryID string
	Points  int
	PM      decimal.Decimal
}

var two = decimal.NewFromInt(2)

// ComputePoints runs the points state machine for one entry. ok is false
// when the entry has neither a loss nor a title to score. Doubles prize
// money is per player, so it is halved.
func ComputePoints(f models.PointsFact, tour models.TournamentTour, rs Rounds) (PointsResult, bool) {
	res := PointsResult{EntryID: f.EntryID}
	status := models.EntryStatus("")
	if f.Status != nil {
		status = *f.Status
	}

	switch {
	case f.WonTitle:
		win := rs.named(models.RoundWin)
		res.Points = win.Points + qualifyingPoints(f, status, rs)
		res.PM = win.PM
	case f.LostRound != nil:
		res.Points, res.PM = loserPoints(f, status, tour, rs)
	default:
		return res, false
	}

	if f.MatchType == models.Doubles {
		res.PM = res.PM.Div(two)
	}
	return res, true
}

// qualifyingPoints are the points a title winner carries from qualifying.
func qualifyingPoints(f models.PointsFact, status models.EntryStatus, rs Rounds) int {
	switch status {
	case models.StatusQualifier:
		return rs.named(models.RoundQualifier).Points
	case models.StatusLuckyLoser:
		if f.QualifyingLoss != nil {
			return f.QualifyingLoss.Points
		}
	}
	return 0
}

func loserPoints(f models.PointsFact, status models.EntryStatus, tour models.TournamentTour, rs Rounds) (int, decimal.Decimal) {
	r := *f.LostRound
	firstRound := rs.isFirst(f.LostRound)

	switch status {
	case models.StatusQualifier, models.StatusLuckyLoser:
		var q models.Round
		if status == models.StatusQualifier {
			q = rs.named(models.RoundQualifier)
		} else if f.QualifyingLoss != nil {
			q = *f.QualifyingLoss
		}
		if tour == models.TournamentTourWTA && firstRound {
			return q.Points, q.PM
		}
		return r.Points + q.Points, r.PM
	case models.StatusWildCard:
		if tour == models.TournamentTourATP && firstRound {
			return 0, r.PM
		}
	}

	// бай: ни одной победы, но вылет после первого круга
	if f.Wins == 0 && rs.first != nil && r.Number < rs.first.Number {
		return rs.first.Points, r.PM
	}
	return r.Points, r.PM
}
