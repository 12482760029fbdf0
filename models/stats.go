package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Anomaly flags a data-integrity problem found while building a result.
// It never turns a response into an error.
type Anomaly struct {
	Kind    string   `json:"kind"`
	Subject string   `json:"subject"`
	Detail  string   `json:"detail"`
	Refs    []string `json:"refs,omitempty"`
}

const (
	AnomalyRepresentationOverlap = "representation_overlap"
	AnomalyMultipleCurrent       = "multiple_current_representation"
	AnomalyFormerAfterCurrent    = "former_overlaps_current"
	AnomalyOpenFormerWindow      = "open_former_window"
	AnomalyMissingWinner         = "missing_winner"
)

// Page is the listing envelope: count is computed before any row is fetched.
type Page[T any] struct {
	Count     int       `json:"count"`
	Results   []T       `json:"results"`
	Anomalies []Anomaly `json:"anomalies,omitempty"`
}

// GroupKey carries the criterion a group drills down into.
type GroupKey struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type Group struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Alpha2      *string  `json:"alpha2,omitempty"`
	Count       int      `json:"count" validate:"gte=0"`
	HasChildren bool     `json:"has_children"`
	GroupKey    GroupKey `json:"group_key"`
}

// WLCell is a win-loss string with its title count.
type WLCell struct {
	WL     string `json:"wl"`
	Titles int    `json:"titles"`
}

type WLPair struct {
	Singles WLCell `json:"singles"`
	Doubles WLCell `json:"doubles"`
}

type QualifyingWL struct {
	Singles string `json:"singles"`
	Doubles string `json:"doubles"`
}

// WinLossRow is one row (Total or a level) of a player's win-loss record.
type WinLossRow struct {
	Label      string       `json:"label" validate:"required"`
	Total      WLPair       `json:"total"`
	Main       WLPair       `json:"main"`
	Qualifying QualifyingWL `json:"qualifying"`
}

type WLIndexRow struct {
	Category string  `json:"category"`
	Stat     string  `json:"stat"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Titles   *int    `json:"titles,omitempty"`
	Value    float64 `json:"value"`
}

type StatRow struct {
	Stat    string `json:"stat"`
	Percent bool   `json:"percent"`
	Value   int    `json:"value"`
}

// TitleRecord is a final reached by a player.
type TitleRecord struct {
	EventID    string     `json:"event_id"`
	EditionID  int        `json:"edition_id"`
	Tournament Tournament `json:"tournament"`
	MatchType  MatchType  `json:"type"`
	Category   *string    `json:"category,omitempty"`
	Year       int        `json:"year"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Surface    *Surface   `json:"surface,omitempty"`
	Level      Level      `json:"level"`
	Title      bool       `json:"title"`
}

// ActivityMatch is one match inside an activity event.
type ActivityMatch struct {
	MatchID    int         `json:"match_id"`
	Round      string      `json:"round"`
	Draw       Draw        `json:"draw"`
	Outcome    *Outcome    `json:"outcome,omitempty"`
	Incomplete *string     `json:"incomplete,omitempty"`
	Opponents  []PlayerRef `json:"opponents"`
	Sets       [2][][]int  `json:"sets"`
}

type ActivityEvent struct {
	EventID    string           `json:"event_id"`
	Tournament Tournament       `json:"tournament"`
	Year       int              `json:"year"`
	Level      Level            `json:"level"`
	Category   *string          `json:"category,omitempty"`
	StartDate  *time.Time       `json:"start_date,omitempty"`
	Surface    *Surface         `json:"surface,omitempty"`
	MatchType  MatchType        `json:"type"`
	Partner    *PlayerRef       `json:"partner,omitempty"`
	Seed       *int             `json:"seed,omitempty"`
	Status     *EntryStatus     `json:"status,omitempty"`
	Points     *int             `json:"points,omitempty"`
	PM         *decimal.Decimal `json:"pm,omitempty"`
	Matches    []ActivityMatch  `json:"matches"`
}

// ActivitySummary counts the filtered activity before listing events.
type ActivitySummary struct {
	Singles WLCell          `json:"singles"`
	Doubles WLCell          `json:"doubles"`
	Events  []ActivityEvent `json:"events"`
}

// H2HSide is one side of a head-to-head comparison.
type H2HSide struct {
	Players      []PlayerRef `json:"players" validate:"required,min=1,max=2,dive"`
	Wins         int         `json:"wins"`
	Titles       int         `json:"titles"`
	CareerWins   int         `json:"career_wins"`
	CareerLosses int         `json:"career_losses"`
	TourWins     int         `json:"tour_wins"`
	TourLosses   int         `json:"tour_losses"`
	TourTitles   int         `json:"tour_titles"`
}

type H2HResult struct {
	Team1     H2HSide   `json:"team1"`
	Team2     H2HSide   `json:"team2"`
	Anomalies []Anomaly `json:"anomalies,omitempty"`
}

// H2HMatch is a match between the two queried teams, oriented so team1 is side A.
type H2HMatch struct {
	MatchID     int            `json:"match_id"`
	EditionID   int            `json:"edition_id"`
	Tournament  Tournament     `json:"tournament"`
	Year        int            `json:"year"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	Round       string         `json:"round"`
	Level       Level          `json:"level"`
	Tour        TournamentTour `json:"tour"`
	Surface     *Surface       `json:"surface,omitempty"`
	Incomplete  *string        `json:"incomplete,omitempty"`
	Stats       bool           `json:"stats"`
	WinningTeam *string        `json:"winning_team,omitempty"`
	Sets        [2][][]int     `json:"sets"`
	Anomaly     *string        `json:"anomaly,omitempty"`
}

// H2HOpponent is a player's record against one opponent.
type H2HOpponent struct {
	Opponent PlayerRef `json:"opponent"`
	Matches  int       `json:"matches"`
	Wins     int       `json:"wins"`
	Losses   int       `json:"losses"`
}

// H2HGrid is the head-to-head matrix of the top-ranked players of a tour.
type H2HGrid struct {
	Players []PlayerRef                  `json:"players"`
	Results map[string]map[string]string `json:"results"`
}

// IntegrityReport lists anomalies found by a full scan.
type IntegrityReport struct {
	GeneratedAt time.Time `json:"generated_at"`
	Anomalies   []Anomaly `json:"anomalies"`
	Location    string    `json:"location,omitempty"`
}
