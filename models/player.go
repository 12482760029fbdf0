package models

import "time"

// Player представляет игрока.
type Player struct {
	ID             string     `json:"id" db:"id"`
	FirstName      string     `json:"first_name" db:"first_name"`
	LastName       string     `json:"last_name" db:"last_name"`
	Tour           Tour       `json:"tour" db:"tour"`
	DOB            *time.Time `json:"dob,omitempty" db:"dob"`
	DOD            *time.Time `json:"dod,omitempty" db:"dod"`
	HeightCm       *int       `json:"height_cm,omitempty" db:"height_cm"`
	Plays          *string    `json:"plays,omitempty" db:"plays"` // "Right" / "Left"
	TurnedPro      *int       `json:"turned_pro,omitempty" db:"turned_pro"`
	Retired        *int       `json:"retired,omitempty" db:"retired"`
	CareerHigh     *int       `json:"career_high,omitempty" db:"career_high"`
	CareerHighDate *time.Time `json:"career_high_date,omitempty" db:"career_high_date"`
	CurrentSingles *int       `json:"current_singles,omitempty" db:"current_singles"`
}

// CountryRepresentation is a Player->Country edge. Current edges carry no end date.
type CountryRepresentation struct {
	PlayerID  string     `json:"player_id" db:"player_id"`
	CountryID string     `json:"country_id" db:"country_id"`
	StartDate *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"`
	Current   bool       `json:"current" db:"current"`
}

type Coach struct {
	ID        string `json:"id" db:"id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

// CoachLink is a coaching relationship as seen from the player.
type CoachLink struct {
	Coach
	Current bool    `json:"current"`
	Years   *string `json:"years,omitempty"`
}

// PlayerRef is the compact player shape used inside other records.
type PlayerRef struct {
	ID        string   `json:"id" validate:"required"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Country   *Country `json:"country,omitempty"`
	Rank      *int     `json:"rank,omitempty"`
}

// PlayerSummary is one row of the player listing.
type PlayerSummary struct {
	ID        string      `json:"id" validate:"required"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name" validate:"required"`
	Tour      Tour        `json:"tour" validate:"required,oneof=ATP WTA"`
	Country   *Country    `json:"country,omitempty"`
	Coaches   []CoachLink `json:"coaches,omitempty"`
	MinYear   *int        `json:"min_year,omitempty"`
	MaxYear   *int        `json:"max_year,omitempty"`
}
