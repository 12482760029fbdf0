package stats

import "github.com/Dosada05/tennis-history/models"

type serveTotals struct {
	aces, dfs                int
	serve1, serve1W          int
	serve2, serve2W          int
	bpsFaced, bpsSaved       int
	serveGames               int
	ret1, ret1W, ret2, ret2W int
	bpOpps, bpsConverted     int
	returnGames              int
}

func val(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func sumServe(rows []models.ServeStats) serveTotals {
	var t serveTotals
	for _, r := range rows {
		t.aces += val(r.Aces)
		t.dfs += val(r.DFs)
		t.serve1 += val(r.Serve1)
		t.serve1W += val(r.Serve1W)
		t.serve2 += val(r.Serve2)
		t.serve2W += val(r.Serve2W)
		t.bpsFaced += val(r.BPsFaced)
		t.bpsSaved += val(r.BPsSaved)
		t.serveGames += val(r.ServeGames)
		t.ret1 += val(r.Ret1)
		t.ret1W += val(r.Ret1W)
		t.ret2 += val(r.Ret2)
		t.ret2W += val(r.Ret2W)
		t.bpOpps += val(r.BPOpps)
		t.bpsConverted += val(r.BPsConverted)
		t.returnGames += val(r.ReturnGames)
	}
	return t
}

func count(stat string, v int) models.StatRow {
	return models.StatRow{Stat: stat, Value: v}
}

func percent(stat string, n, d int) models.StatRow {
	return models.StatRow{Stat: stat, Percent: true, Value: Percent(n, d)}
}

// ServeReturn sums the detailed statistics of the given scores into the
// serve and return table. Missing values count as zero.
func ServeReturn(rows []models.ServeStats) []models.StatRow {
	t := sumServe(rows)
	servePoints := t.serve1 + t.serve2
	returnPoints := t.ret1 + t.ret2
	// проигранные подачи = брейк-пойнты, которые не удалось отыграть
	serveGamesWon := t.serveGames - (t.bpsFaced - t.bpsSaved)

	return []models.StatRow{
		count("Aces", t.aces),
		count("Double Faults", t.dfs),
		percent("First Serve %", t.serve1, servePoints),
		percent("First Serve Points Won", t.serve1W, t.serve1),
		percent("Second Serve Points Won", t.serve2W, t.serve2),
		count("Break Points Faced", t.bpsFaced),
		percent("Break Points Saved", t.bpsSaved, t.bpsFaced),
		count("Service Games Played", t.serveGames),
		percent("Service Games Won", serveGamesWon, t.serveGames),
		percent("Total Service Points Won", t.serve1W+t.serve2W, servePoints),
		percent("First Serve Return Points Won", t.ret1W, t.ret1),
		percent("Second Serve Return Points Won", t.ret2W, t.ret2),
		count("Break Points Opportunities", t.bpOpps),
		percent("Break Points Converted", t.bpsConverted, t.bpOpps),
		count("Return Games Played", t.returnGames),
		percent("Return Games Won", t.bpsConverted, t.returnGames),
		percent("Return Points Won", t.ret1W+t.ret2W, returnPoints),
		percent("Total Points Won", t.serve1W+t.serve2W+t.ret1W+t.ret2W, servePoints+returnPoints),
	}
}
