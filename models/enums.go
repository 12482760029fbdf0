package models

// Закрытые перечисления вместо динамических меток графовой модели.

type Tour string

const (
	TourATP Tour = "ATP"
	TourWTA Tour = "WTA"
)

func (t Tour) Valid() bool {
	return t == TourATP || t == TourWTA
}

// TournamentTour is the affiliation of a tournament or event; ITF events
// use the gendered Men/Women tours.
type TournamentTour string

const (
	TournamentTourATP   TournamentTour = "ATP"
	TournamentTourWTA   TournamentTour = "WTA"
	TournamentTourMen   TournamentTour = "Men"
	TournamentTourWomen TournamentTour = "Women"
)

func (t TournamentTour) Valid() bool {
	switch t {
	case TournamentTourATP, TournamentTourWTA, TournamentTourMen, TournamentTourWomen:
		return true
	}
	return false
}

type Level string

const (
	LevelTour       Level = "Tour"
	LevelChallenger Level = "Challenger"
	LevelITF        Level = "ITF"
)

// Levels is the reporting order of level rows.
var Levels = []Level{LevelTour, LevelChallenger, LevelITF}

func (l Level) Valid() bool {
	return l == LevelTour || l == LevelChallenger || l == LevelITF
}

type MatchType string

const (
	Singles MatchType = "Singles"
	Doubles MatchType = "Doubles"
)

func (m MatchType) Valid() bool {
	return m == Singles || m == Doubles
}

// TeamSize returns the number of players an entry of this type holds.
func (m MatchType) TeamSize() int {
	if m == Doubles {
		return 2
	}
	return 1
}

type Draw string

const (
	DrawMain       Draw = "Main"
	DrawQualifying Draw = "Qualifying"
)

func (d Draw) Valid() bool {
	return d == DrawMain || d == DrawQualifying
}

type Outcome string

const (
	OutcomeWinner Outcome = "Winner"
	OutcomeLoser  Outcome = "Loser"
)

type EntryStatus string

const (
	StatusAlternate     EntryStatus = "AL"
	StatusCO            EntryStatus = "CO"
	StatusJunior        EntryStatus = "JR"
	StatusLuckyLoser    EntryStatus = "LL"
	StatusNextGen       EntryStatus = "NG"
	StatusQualifier     EntryStatus = "Q"
	StatusProtected     EntryStatus = "PR"
	StatusSpecialExempt EntryStatus = "SE"
	StatusWildCard      EntryStatus = "WC"
)

func (s EntryStatus) Valid() bool {
	switch s {
	case StatusAlternate, StatusCO, StatusJunior, StatusLuckyLoser, StatusNextGen,
		StatusQualifier, StatusProtected, StatusSpecialExempt, StatusWildCard:
		return true
	}
	return false
}

// RelationshipKind is an Entry->Event edge. The draw column on the edge
// distinguishes main and qualifying variants.
type RelationshipKind string

const (
	RelSeeded     RelationshipKind = "SEEDED"
	RelAlternate  RelationshipKind = "ALTERNATE"
	RelQualified  RelationshipKind = "QUALIFIED"
	RelWildCard   RelationshipKind = "WILD_CARD"
	RelLuckyLoser RelationshipKind = "LUCKY_LOSER"
	RelLDA        RelationshipKind = "LDA"
	RelWithdrew   RelationshipKind = "WITHDREW"
	RelDefaulted  RelationshipKind = "DEFAULTED"
	RelRetired    RelationshipKind = "RETIRED"
	RelWalkover   RelationshipKind = "WALKOVER"
)

// EntryInfo is the user-facing name of an entry status transition.
type EntryInfo string

const (
	InfoAlternate  EntryInfo = "Alternate"
	InfoQualifier  EntryInfo = "Qualifier"
	InfoWildCard   EntryInfo = "Wild Card"
	InfoLuckyLoser EntryInfo = "Lucky Loser"
	InfoDefault    EntryInfo = "Default"
	InfoRetirement EntryInfo = "Retirement"
	InfoWalkover   EntryInfo = "Walkover"
	InfoLDA        EntryInfo = "Last Direct Acceptance"
	InfoWithdrawal EntryInfo = "Withdrawal"
)

var entryInfoKinds = map[EntryInfo]RelationshipKind{
	InfoAlternate:  RelAlternate,
	InfoQualifier:  RelQualified,
	InfoWildCard:   RelWildCard,
	InfoLuckyLoser: RelLuckyLoser,
	InfoDefault:    RelDefaulted,
	InfoRetirement: RelRetired,
	InfoWalkover:   RelWalkover,
	InfoLDA:        RelLDA,
	InfoWithdrawal: RelWithdrew,
}

// Kind returns the relationship an entry-info value is stored as.
func (e EntryInfo) Kind() (RelationshipKind, bool) {
	k, ok := entryInfoKinds[e]
	return k, ok
}

// Status returns the entry status implied by a status-type transition.
func (e EntryInfo) Status() (EntryStatus, bool) {
	switch e {
	case InfoAlternate:
		return StatusAlternate, true
	case InfoQualifier:
		return StatusQualifier, true
	case InfoWildCard:
		return StatusWildCard, true
	case InfoLuckyLoser:
		return StatusLuckyLoser, true
	}
	return "", false
}

// Incomplete returns the score marker a terminal transition leaves on the losing score.
func (e EntryInfo) Incomplete() (string, bool) {
	switch e {
	case InfoDefault:
		return "Def", true
	case InfoRetirement:
		return "R", true
	case InfoWalkover:
		return "WO", true
	}
	return "", false
}

// StatusRelationships maps stored statuses to the relationship they imply,
// per draw. Qualifying draws only know alternates and wild cards.
var StatusRelationships = map[Draw]map[EntryStatus]RelationshipKind{
	DrawMain: {
		StatusQualifier:  RelQualified,
		StatusWildCard:   RelWildCard,
		StatusLuckyLoser: RelLuckyLoser,
		StatusAlternate:  RelAlternate,
	},
	DrawQualifying: {
		StatusWildCard:  RelWildCard,
		StatusAlternate: RelAlternate,
	},
}
