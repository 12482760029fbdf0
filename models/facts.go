package models

import "time"

// Факты, которые репозитории отдают агрегатору.

// ResultFact is one decided score of a player: the row a win-loss tally counts.
type ResultFact struct {
	MatchType MatchType
	Draw      Draw
	Level     Level
	Round     string
	Won       bool
}

// IndexFact is a decided singles match with the context the WL index needs.
type IndexFact struct {
	Won           bool
	Round         string
	BestOf        int
	Category      *string
	Surface       *string
	Environment   *string
	Own           [5]*int
	Opponent      [5]*int
	OpponentRank  *int
	OpponentPlays *string
}

// PlayerFact is the grouping input of one player.
type PlayerFact struct {
	PlayerID  string
	CountryID *string
	MinYear   *int
	MaxYear   *int
}

// ScoreSide is one stored score row of a match, in storage order.
type ScoreSide struct {
	EntryID    string
	PlayerIDs  []string
	Outcome    *Outcome
	Incomplete *string
	Sets       SetScores
	HasStats   bool
}

// RawH2HMatch is a match between two teams before it is oriented.
type RawH2HMatch struct {
	H2HMatch
	Sides [2]ScoreSide
}

// TitleWin is a final won by a team, with the date countries are resolved at.
type TitleWin struct {
	PlayerIDs []string
	Category  string
	At        *time.Time
}

// PointsFact is what the points state machine needs to know about one entry.
type PointsFact struct {
	EntryID   string
	MatchType MatchType
	Status    *EntryStatus
	Wins      int
	WonTitle  bool
	// LostRound is the main-draw round the entry lost in, or the qualifying
	// round when it never reached the main draw.
	LostRound *Round
	// QualifyingLoss is the qualifying round a lucky loser went out in.
	QualifyingLoss *Round
}
