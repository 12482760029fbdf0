package models

type Country struct {
	ID        string  `json:"id" db:"id" validate:"required"`
	Name      string  `json:"name" db:"name" validate:"required"`
	Alpha2    *string `json:"alpha2,omitempty" db:"alpha2"`
	Continent *string `json:"continent,omitempty" db:"continent"`
}

// CountrySummary is one row of the country listing.
type CountrySummary struct {
	Country
	Players   int `json:"players"`
	BigTitles int `json:"big_titles"`
}
