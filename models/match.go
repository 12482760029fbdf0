package models

import "time"

type Match struct {
	ID         int        `json:"id" db:"id"`
	RoundID    int        `json:"round_id" db:"round_id"`
	Draw       Draw       `json:"draw" db:"draw"`
	MatchNo    *int       `json:"match_no,omitempty" db:"match_no"`
	BestOf     int        `json:"best_of" db:"best_of"`
	Date       *time.Time `json:"date,omitempty" db:"date"`
	Court      *string    `json:"court,omitempty" db:"court"`
	Duration   *string    `json:"duration,omitempty" db:"duration"`
	Incomplete *string    `json:"incomplete,omitempty" db:"incomplete"`
	UmpireID   *int       `json:"umpire_id,omitempty" db:"umpire_id"`
}

// SetScores holds games (S) and tiebreak points (T) for up to five sets.
type SetScores struct {
	S [5]*int `json:"s"`
	T [5]*int `json:"t"`
}

// GamesIn returns the games recorded for set i (0-based).
func (s SetScores) GamesIn(i int) (int, bool) {
	if i < 0 || i >= len(s.S) || s.S[i] == nil {
		return 0, false
	}
	return *s.S[i], true
}

// ServeStats are the optional detailed per-score statistics.
type ServeStats struct {
	Aces         *int `json:"aces,omitempty" db:"aces"`
	DFs          *int `json:"dfs,omitempty" db:"dfs"`
	Serve1       *int `json:"serve1,omitempty" db:"serve1"`
	Serve1W      *int `json:"serve1_w,omitempty" db:"serve1_w"`
	Serve2       *int `json:"serve2,omitempty" db:"serve2"`
	Serve2W      *int `json:"serve2_w,omitempty" db:"serve2_w"`
	BPsFaced     *int `json:"bps_faced,omitempty" db:"bps_faced"`
	BPsSaved     *int `json:"bps_saved,omitempty" db:"bps_saved"`
	ServeGames   *int `json:"serve_games,omitempty" db:"serve_games"`
	Ret1         *int `json:"ret1,omitempty" db:"ret1"`
	Ret1W        *int `json:"ret1_w,omitempty" db:"ret1_w"`
	Ret2         *int `json:"ret2,omitempty" db:"ret2"`
	Ret2W        *int `json:"ret2_w,omitempty" db:"ret2_w"`
	BPOpps       *int `json:"bp_opps,omitempty" db:"bp_opps"`
	BPsConverted *int `json:"bps_converted,omitempty" db:"bps_converted"`
	ReturnGames  *int `json:"return_games,omitempty" db:"return_games"`
}

// Score is one entry's record of a match.
type Score struct {
	MatchID    int      `json:"match_id" db:"match_id"`
	EntryID    string   `json:"entry_id" db:"entry_id"`
	Outcome    *Outcome `json:"outcome,omitempty" db:"outcome"`
	Incomplete *string  `json:"incomplete,omitempty" db:"incomplete"`
	Sets       SetScores
	Stats      ServeStats
}
