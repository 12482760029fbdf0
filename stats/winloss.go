// Package stats aggregates match facts into the records served by the API:
// win-loss tables, derived percentages, groups, head-to-head and points.
package stats

import (
	"fmt"
	"math"

	"github.com/Dosada05/tennis-history/models"
)

// WinLoss is a pair of counters rendered as "w-l".
type WinLoss struct {
	Wins   int
	Losses int
}

func (w WinLoss) String() string {
	return fmt.Sprintf("%d-%d", w.Wins, w.Losses)
}

func (w WinLoss) Matches() int {
	return w.Wins + w.Losses
}

// Ratio is wins/(wins+losses), 0 without matches.
func (w WinLoss) Ratio() float64 {
	if w.Matches() == 0 {
		return 0
	}
	return float64(w.Wins) / float64(w.Matches())
}

func (w *WinLoss) add(won bool) {
	if won {
		w.Wins++
	} else {
		w.Losses++
	}
}

// Percent is round(100*n/d), or 0 when d is zero.
func Percent(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(100 * float64(n) / float64(d)))
}

type tallyKey struct {
	level     models.Level
	matchType models.MatchType
	draw      models.Draw
}

// Tally partitions result facts by level, match type and draw.
type Tally struct {
	wl     map[tallyKey]WinLoss
	titles map[tallyKey]int
}

func NewTally() *Tally {
	return &Tally{
		wl:     make(map[tallyKey]WinLoss),
		titles: make(map[tallyKey]int),
	}
}

// Add counts one fact. A won final of the main draw is also a title.
func (t *Tally) Add(f models.ResultFact) {
	k := tallyKey{f.Level, f.MatchType, f.Draw}
	wl := t.wl[k]
	wl.add(f.Won)
	t.wl[k] = wl
	if f.Won && f.Draw == models.DrawMain && f.Round == models.RoundFinal {
		t.titles[k]++
	}
}

// TallyOf builds a tally from a slice of facts.
func TallyOf(facts []models.ResultFact) *Tally {
	t := NewTally()
	for _, f := range facts {
		t.Add(f)
	}
	return t
}

// WinLoss sums the cells matching the given filters; a nil filter matches everything.
func (t *Tally) WinLoss(level *models.Level, mt models.MatchType, draw *models.Draw) WinLoss {
	var out WinLoss
	for k, wl := range t.wl {
		if k.matchType != mt || (level != nil && k.level != *level) || (draw != nil && k.draw != *draw) {
			continue
		}
		out.Wins += wl.Wins
		out.Losses += wl.Losses
	}
	return out
}

func (t *Tally) Titles(level *models.Level, mt models.MatchType) int {
	n := 0
	for k, c := range t.titles {
		if k.matchType == mt && (level == nil || k.level == *level) {
			n += c
		}
	}
	return n
}

func (t *Tally) row(label string, level *models.Level) models.WinLossRow {
	main := models.DrawMain
	qual := models.DrawQualifying
	cell := func(mt models.MatchType, d *models.Draw) models.WLCell {
		return models.WLCell{WL: t.WinLoss(level, mt, d).String(), Titles: t.Titles(level, mt)}
	}
	return models.WinLossRow{
		Label: label,
		Total: models.WLPair{Singles: cell(models.Singles, nil), Doubles: cell(models.Doubles, nil)},
		Main:  models.WLPair{Singles: cell(models.Singles, &main), Doubles: cell(models.Doubles, &main)},
		Qualifying: models.QualifyingWL{
			Singles: t.WinLoss(level, models.Singles, &qual).String(),
			Doubles: t.WinLoss(level, models.Doubles, &qual).String(),
		},
	}
}

// Rows renders the Total row followed by one row per level. Every cell is
// present, with "0-0" where nothing was played.
func (t *Tally) Rows() []models.WinLossRow {
	rows := []models.WinLossRow{t.row("Total", nil)}
	for _, l := range models.Levels {
		rows = append(rows, t.row(string(l), &l))
	}
	return rows
}
