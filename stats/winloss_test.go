package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tennis-history/models"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		n, d, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13},
		{10, 10, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.n, tt.d), "Percent(%d, %d)", tt.n, tt.d)
	}
}

func TestWinLossRatio(t *testing.T) {
	assert.Equal(t, 0.0, WinLoss{}.Ratio())
	assert.Equal(t, 0.75, WinLoss{Wins: 3, Losses: 1}.Ratio())
	assert.Equal(t, "3-1", WinLoss{Wins: 3, Losses: 1}.String())
}

func TestTallyRowsAlwaysComplete(t *testing.T) {
	rows := NewTally().Rows()

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Total", "Tour", "Challenger", "ITF"},
		[]string{rows[0].Label, rows[1].Label, rows[2].Label, rows[3].Label})
	for _, r := range rows {
		assert.Equal(t, "0-0", r.Total.Singles.WL)
		assert.Equal(t, "0-0", r.Total.Doubles.WL)
		assert.Equal(t, "0-0", r.Main.Singles.WL)
		assert.Equal(t, "0-0", r.Main.Doubles.WL)
		assert.Equal(t, "0-0", r.Qualifying.Singles)
		assert.Equal(t, "0-0", r.Qualifying.Doubles)
		assert.Zero(t, r.Total.Singles.Titles)
	}
}

func TestTallyPartitions(t *testing.T) {
	facts := []models.ResultFact{
		{MatchType: models.Singles, Draw: models.DrawMain, Level: models.LevelTour, Round: "R32", Won: true},
		{MatchType: models.Singles, Draw: models.DrawMain, Level: models.LevelTour, Round: "Final", Won: true},
		{MatchType: models.Singles, Draw: models.DrawMain, Level: models.LevelTour, Round: "R16", Won: false},
		{MatchType: models.Singles, Draw: models.DrawQualifying, Level: models.LevelTour, Round: "Q1", Won: true},
		{MatchType: models.Singles, Draw: models.DrawMain, Level: models.LevelChallenger, Round: "Final", Won: false},
		{MatchType: models.Doubles, Draw: models.DrawMain, Level: models.LevelITF, Round: "Final", Won: true},
	}

	rows := TallyOf(facts).Rows()
	total, tour, challenger, itf := rows[0], rows[1], rows[2], rows[3]

	assert.Equal(t, "4-2", total.Total.Singles.WL)
	assert.Equal(t, "3-2", total.Main.Singles.WL)
	assert.Equal(t, "1-0", total.Qualifying.Singles)
	assert.Equal(t, 1, total.Total.Singles.Titles)
	assert.Equal(t, "1-0", total.Total.Doubles.WL)
	assert.Equal(t, 1, total.Total.Doubles.Titles)

	assert.Equal(t, "3-1", tour.Total.Singles.WL)
	assert.Equal(t, "1-0", tour.Qualifying.Singles)
	assert.Equal(t, 1, tour.Main.Singles.Titles)

	assert.Equal(t, "0-1", challenger.Total.Singles.WL)
	assert.Zero(t, challenger.Total.Singles.Titles)

	assert.Equal(t, "1-0", itf.Main.Doubles.WL)
	assert.Equal(t, "0-0", itf.Total.Singles.WL)
}
