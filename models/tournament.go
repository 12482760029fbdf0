package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tournament представляет турнир (серию ежегодных розыгрышей).
type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Tours       []TournamentTour `json:"tours" db:"-"`
	Established *int             `json:"established,omitempty" db:"established"`
	Abolished   *int             `json:"abolished,omitempty" db:"abolished"`
}

type Surface struct {
	ID          string  `json:"id" db:"id"`
	Surface     string  `json:"surface" db:"surface"`
	Environment *string `json:"environment,omitempty" db:"environment"`
}

type Venue struct {
	ID        int     `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	City      *string `json:"city,omitempty" db:"city"`
	CountryID *string `json:"country_id,omitempty" db:"country_id"`
}

// Edition is one year's instance of a tournament.
type Edition struct {
	ID           int              `json:"id" db:"id"`
	TournamentID int              `json:"tournament_id" db:"tournament_id"`
	Year         int              `json:"year" db:"year"`
	Category     *string          `json:"category,omitempty" db:"category"`
	StartDate    *time.Time       `json:"start_date,omitempty" db:"start_date"`
	EndDate      *time.Time       `json:"end_date,omitempty" db:"end_date"`
	SurfaceID    *string          `json:"surface_id,omitempty" db:"surface_id"`
	Currency     *string          `json:"currency,omitempty" db:"currency"`
	TotalPM      *decimal.Decimal `json:"total_pm,omitempty" db:"total_pm"`
}

// Event is a tour-specific competition inside an edition. Its dates,
// surface and category override the edition's when present.
type Event struct {
	ID        string           `json:"id" db:"id"`
	EditionID int              `json:"edition_id" db:"edition_id"`
	Tour      TournamentTour   `json:"tour" db:"tour"`
	Level     Level            `json:"level" db:"level"`
	Category  *string          `json:"category,omitempty" db:"category"`
	StartDate *time.Time       `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time       `json:"end_date,omitempty" db:"end_date"`
	SurfaceID *string          `json:"surface_id,omitempty" db:"surface_id"`
	PM        *decimal.Decimal `json:"pm,omitempty" db:"pm"`
	Currency  *string          `json:"currency,omitempty" db:"currency"`
}

const (
	RoundWin       = "Win"
	RoundFinal     = "Final"
	RoundQualifier = "Qualifier"
)

// FirstQualifyingRound is the lowest round number used by qualifying draws.
const FirstQualifyingRound = 9

// Round is an ordered stage of an event for one match type. Lower numbers
// are later rounds: Win is 0, Final is 1.
type Round struct {
	ID        int             `json:"id" db:"id"`
	EventID   string          `json:"event_id" db:"event_id"`
	MatchType MatchType       `json:"match_type" db:"match_type"`
	Name      string          `json:"name" db:"name"`
	Number    int             `json:"number" db:"number"`
	Points    int             `json:"points" db:"points"`
	PM        decimal.Decimal `json:"pm" db:"pm"`
}

// Qualifying reports whether the round belongs to the qualifying draw.
func (r Round) Qualifying() bool {
	return r.Number >= FirstQualifyingRound
}
