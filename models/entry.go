package models

import "github.com/shopspring/decimal"

// Entry is a team of one or two players registered for an event and match type.
type Entry struct {
	ID        string           `json:"id" db:"id"`
	EventID   string           `json:"event_id" db:"event_id"`
	MatchType MatchType        `json:"match_type" db:"match_type"`
	Seed      *int             `json:"seed,omitempty" db:"seed"`
	QSeed     *int             `json:"q_seed,omitempty" db:"q_seed"`
	Status    *EntryStatus     `json:"status,omitempty" db:"status"`
	QStatus   *EntryStatus     `json:"q_status,omitempty" db:"q_status"`
	Points    *int             `json:"points,omitempty" db:"points"`
	PM        *decimal.Decimal `json:"pm,omitempty" db:"pm"`
}

// EntryID builds the natural key of an entry: the event id followed by the player ids.
func EntryID(eventID string, playerIDs ...string) string {
	id := eventID
	for _, p := range playerIDs {
		id += " " + p
	}
	return id
}

// EntryPlayer is the Player->Entry edge; ranks differ between doubles partners.
type EntryPlayer struct {
	EntryID  string `json:"entry_id" db:"entry_id"`
	PlayerID string `json:"player_id" db:"player_id"`
	Rank     *int   `json:"rank,omitempty" db:"rank"`
}

type EntryRelationship struct {
	EntryID  string           `json:"entry_id" db:"entry_id"`
	Kind     RelationshipKind `json:"kind" db:"kind"`
	Draw     Draw             `json:"draw" db:"draw"`
	Rank     *int             `json:"rank,omitempty" db:"rank"`
	Reason   *string          `json:"reason,omitempty" db:"reason"`
	Teammate *string          `json:"teammate,omitempty" db:"teammate"`
}

// EventEntry is an entry of an event listing with its team resolved at the event date.
type EventEntry struct {
	Entry
	Team  []PlayerRef `json:"team" validate:"required,min=1,max=2,dive"`
	Draws []Draw      `json:"draws"`
}

// SeedRecord is one row of an event's seed list.
type SeedRecord struct {
	EntryID   string      `json:"id" validate:"required"`
	Seed      *int        `json:"seed,omitempty"`
	Rank      *int        `json:"rank,omitempty"`
	Draw      Draw        `json:"draw" validate:"required,oneof=Main Qualifying"`
	MatchType MatchType   `json:"type" validate:"required,oneof=Singles Doubles"`
	Withdrew  bool        `json:"withdrew"`
	Team      []PlayerRef `json:"team" validate:"required,min=1,max=2,dive"`
}

// EntryInfoRecord is a non-seed relationship of an entry to its event.
type EntryInfoRecord struct {
	EntryRelationship
	MatchType MatchType   `json:"type"`
	Team      []PlayerRef `json:"team" validate:"required,min=1,max=2,dive"`
}
