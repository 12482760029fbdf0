package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/validation"
)

type EntryService interface {
	CreateEntry(ctx context.Context, input EntryInput) (string, error)
	UpdateEntry(ctx context.Context, input EntryInput) (string, error)
	CreateEntryInfo(ctx context.Context, input EntryInfoInput) error
	UpdateEntryInfo(ctx context.Context, input EntryInfoInput) error
	SyncEntryInfo(ctx context.Context, eventID string) (int64, error)
	CreateSeed(ctx context.Context, input SeedInput) error
	UpdateSeed(ctx context.Context, input SeedInput) error
}

type EntryPlayerInput struct {
	ID   string `json:"id" validate:"required"`
	Rank *int   `json:"rank,omitempty" validate:"omitempty,gt=0"`
}

// EntryInput carries every writable attribute of an entry; absent values
// are stored as NULL.
type EntryInput struct {
	EventID   string              `json:"event_id" validate:"required"`
	MatchType models.MatchType    `json:"type" validate:"required,oneof=Singles Doubles"`
	Players   []EntryPlayerInput  `json:"players" validate:"required,min=1,max=2,dive"`
	Seed      *int                `json:"seed,omitempty" validate:"omitempty,gt=0"`
	QSeed     *int                `json:"q_seed,omitempty" validate:"omitempty,gt=0"`
	Status    *models.EntryStatus `json:"status,omitempty" validate:"omitempty,oneof=AL CO JR LL NG Q PR SE WC"`
	QStatus   *models.EntryStatus `json:"q_status,omitempty" validate:"omitempty,oneof=AL CO JR LL NG Q PR SE WC"`
	Points    *int                `json:"points,omitempty" validate:"omitempty,gte=0"`
	PM        *decimal.Decimal    `json:"pm,omitempty"`
}

func (in EntryInput) playerIDs() []string {
	ids := make([]string, len(in.Players))
	for i, p := range in.Players {
		ids[i] = p.ID
	}
	return ids
}

// EntryInfoInput records an entry status transition ("Wild Card", "Retirement", ...).
type EntryInfoInput struct {
	EventID   string           `json:"event_id" validate:"required"`
	MatchType models.MatchType `json:"type" validate:"required,oneof=Singles Doubles"`
	Players   []string         `json:"players" validate:"required,min=1,max=2,dive,required"`
	Info      models.EntryInfo `json:"info" validate:"required"`
	Draw      models.Draw      `json:"draw" validate:"required,oneof=Main Qualifying"`
	Rank      *int             `json:"rank,omitempty" validate:"omitempty,gt=0"`
	Reason    *string          `json:"reason,omitempty"`
	Teammate  *string          `json:"teammate,omitempty"`
}

type SeedInput struct {
	EventID   string           `json:"event_id" validate:"required"`
	MatchType models.MatchType `json:"type" validate:"required,oneof=Singles Doubles"`
	Players   []string         `json:"players" validate:"required,min=1,max=2,dive,required"`
	Draw      models.Draw      `json:"draw" validate:"required,oneof=Main Qualifying"`
	Seed      int              `json:"seed" validate:"required,gt=0"`
	Rank      *int             `json:"rank,omitempty" validate:"omitempty,gt=0"`
}

type entryService struct {
	db        *sql.DB
	entryRepo repositories.EntryRepository
	eventRepo repositories.EventRepository
	logger    *slog.Logger
}

func NewEntryService(db *sql.DB, entryRepo repositories.EntryRepository, eventRepo repositories.EventRepository, logger *slog.Logger) EntryService {
	return &entryService{
		db:        db,
		entryRepo: entryRepo,
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// checkTeam validates the players of a write against the match type.
func checkTeam(vs *validation.Violations, mt models.MatchType, ids []string) {
	if !mt.Valid() || len(ids) == 0 {
		return
	}
	vs.Check(len(ids) == mt.TeamSize(), "players", "%s entries need %d player(s)", mt, mt.TeamSize())
	if len(ids) == 2 {
		vs.Check(ids[0] != ids[1], "players", "must not repeat a player")
	}
}

func validateEntry(input EntryInput) error {
	var vs validation.Violations
	if err := vs.Merge(validation.Struct(input)); err != nil {
		return err
	}
	checkTeam(&vs, input.MatchType, input.playerIDs())
	if input.PM != nil {
		vs.Check(!input.PM.IsNegative(), "pm", "must not be negative")
	}
	return vs.Err()
}

func (in EntryInput) fields() repositories.EntryFields {
	ranks := make(map[string]*int, len(in.Players))
	for _, p := range in.Players {
		ranks[p.ID] = p.Rank
	}
	return repositories.EntryFields{
		Seed:    in.Seed,
		QSeed:   in.QSeed,
		Status:  in.Status,
		QStatus: in.QStatus,
		Points:  in.Points,
		PM:      in.PM,
		Ranks:   ranks,
	}
}

// sortedIDs gives the players of a team in entry-id order.
func sortedIDs(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

// CreateEntry finds or creates the entry of exactly these players and
// replaces its attributes.
func (s *entryService) CreateEntry(ctx context.Context, input EntryInput) (string, error) {
	if err := validateEntry(input); err != nil {
		return "", err
	}
	var entryID string
	err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		id, created, err := s.entryRepo.FindOrCreate(ctx, tx, input.EventID, input.MatchType, sortedIDs(input.playerIDs()))
		if err != nil {
			return mapRepoError(err)
		}
		if err := s.entryRepo.Update(ctx, tx, id, input.fields()); err != nil {
			return mapRepoError(err)
		}
		entryID = id
		s.logger.InfoContext(ctx, "Entry saved", slog.String("entry_id", id), slog.Bool("created", created))
		return nil
	})
	if err != nil {
		return "", err
	}
	return entryID, nil
}

// UpdateEntry locates the entry by its first player, match type and event.
// Re-submitting identical values still counts as a match.
func (s *entryService) UpdateEntry(ctx context.Context, input EntryInput) (string, error) {
	if err := validateEntry(input); err != nil {
		return "", err
	}
	var entryID string
	err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		id, err := s.entryRepo.FindByPlayer(ctx, tx, input.EventID, input.MatchType, input.Players[0].ID)
		if err != nil {
			return mapRepoError(err)
		}
		if err := s.entryRepo.Update(ctx, tx, id, input.fields()); err != nil {
			if errors.Is(err, repositories.ErrEntryNotFound) {
				return noChanges("entry " + id)
			}
			return mapRepoError(err)
		}
		entryID = id
		return nil
	})
	if err != nil {
		return "", err
	}
	return entryID, nil
}

func validateInfo(input EntryInfoInput) error {
	var vs validation.Violations
	if err := vs.Merge(validation.Struct(input)); err != nil {
		return err
	}
	checkTeam(&vs, input.MatchType, input.Players)
	if input.Info != "" {
		_, ok := input.Info.Kind()
		vs.Check(ok, "info", "unknown entry info %q", input.Info)
	}
	if input.Info == models.InfoQualifier || input.Info == models.InfoLuckyLoser {
		vs.Check(input.Draw == models.DrawMain, "draw", "%s applies to the main draw only", input.Info)
	} else if status, ok := input.Info.Status(); ok && input.Draw.Valid() {
		_, allowed := models.StatusRelationships[input.Draw][status]
		vs.Check(allowed, "draw", "%s does not apply to the %s draw", input.Info, input.Draw)
	}
	return vs.Err()
}

func (in EntryInfoInput) relationship(entryID string) models.EntryRelationship {
	kind, _ := in.Info.Kind()
	return models.EntryRelationship{
		EntryID:  entryID,
		Kind:     kind,
		Draw:     in.Draw,
		Rank:     in.Rank,
		Reason:   in.Reason,
		Teammate: in.Teammate,
	}
}

// CreateEntryInfo applies a status transition to an entry. A withdrawal may
// name an entry that does not exist yet; every other transition needs one.
func (s *entryService) CreateEntryInfo(ctx context.Context, input EntryInfoInput) error {
	if err := validateInfo(input); err != nil {
		return err
	}
	return withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		var entryID string
		var err error
		if input.Info == models.InfoWithdrawal {
			entryID, _, err = s.entryRepo.FindOrCreate(ctx, tx, input.EventID, input.MatchType, sortedIDs(input.Players))
		} else {
			entryID, err = s.entryRepo.FindByPlayer(ctx, tx, input.EventID, input.MatchType, input.Players[0])
		}
		if err != nil {
			return mapRepoError(err)
		}

		if status, ok := input.Info.Status(); ok {
			if err := s.entryRepo.SetStatus(ctx, tx, entryID, input.Draw, status); err != nil {
				return mapRepoError(err)
			}
		}
		if err := s.entryRepo.UpsertRelationship(ctx, tx, input.relationship(entryID)); err != nil {
			return mapRepoError(err)
		}

		marker, terminal := input.Info.Incomplete()
		if !terminal {
			return nil
		}
		var touched int64
		if input.Info == models.InfoWalkover {
			touched, err = s.entryRepo.Walkover(ctx, tx, entryID, input.Draw)
		} else {
			touched, err = s.entryRepo.MarkIncomplete(ctx, tx, entryID, input.Draw, marker)
		}
		if err != nil {
			return err
		}
		if touched == 0 {
			s.logger.WarnContext(ctx, "No score to mark incomplete",
				slog.String("entry_id", entryID), slog.String("info", string(input.Info)), slog.String("draw", string(input.Draw)))
		}
		return nil
	})
}

func (s *entryService) UpdateEntryInfo(ctx context.Context, input EntryInfoInput) error {
	if err := validateInfo(input); err != nil {
		return err
	}
	return withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		entryID, err := s.entryRepo.FindByPlayer(ctx, tx, input.EventID, input.MatchType, input.Players[0])
		if err != nil {
			return mapRepoError(err)
		}
		return mapRepoError(s.entryRepo.UpdateRelationship(ctx, tx, input.relationship(entryID)))
	})
}

// SyncEntryInfo adds the relationships implied by the stored statuses of
// every entry of the event. Running it again adds nothing.
func (s *entryService) SyncEntryInfo(ctx context.Context, eventID string) (int64, error) {
	if _, err := s.eventRepo.GetContext(ctx, eventID); err != nil {
		return 0, mapRepoError(err)
	}
	var added int64
	err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		n, err := s.entryRepo.SyncStatuses(ctx, tx, eventID)
		if err != nil {
			return mapRepoError(err)
		}
		added = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "Entry info synced", slog.String("event_id", eventID), slog.Int64("added", added))
	return added, nil
}

func validateSeed(input SeedInput) error {
	var vs validation.Violations
	if err := vs.Merge(validation.Struct(input)); err != nil {
		return err
	}
	checkTeam(&vs, input.MatchType, input.Players)
	return vs.Err()
}

func (in SeedInput) relationship(entryID string) models.EntryRelationship {
	return models.EntryRelationship{EntryID: entryID, Kind: models.RelSeeded, Draw: in.Draw, Rank: in.Rank}
}

func (s *entryService) CreateSeed(ctx context.Context, input SeedInput) error {
	if err := validateSeed(input); err != nil {
		return err
	}
	return withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		entryID, _, err := s.entryRepo.FindOrCreate(ctx, tx, input.EventID, input.MatchType, sortedIDs(input.Players))
		if err != nil {
			return mapRepoError(err)
		}
		seed := input.Seed
		if err := s.entryRepo.SetSeed(ctx, tx, entryID, input.Draw, &seed); err != nil {
			return mapRepoError(err)
		}
		return mapRepoError(s.entryRepo.UpsertRelationship(ctx, tx, input.relationship(entryID)))
	})
}

// UpdateSeed changes an existing seed. Without a SEEDED relationship for the
// draw the seed does not exist.
func (s *entryService) UpdateSeed(ctx context.Context, input SeedInput) error {
	if err := validateSeed(input); err != nil {
		return err
	}
	return withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		entryID, err := s.entryRepo.FindByPlayer(ctx, tx, input.EventID, input.MatchType, input.Players[0])
		if err != nil {
			if errors.Is(err, repositories.ErrEntryNotFound) {
				return ErrSeedNotFound
			}
			return err
		}
		if err := s.entryRepo.UpdateRelationship(ctx, tx, input.relationship(entryID)); err != nil {
			if errors.Is(err, repositories.ErrRelationshipNotFound) {
				return ErrSeedNotFound
			}
			return err
		}
		seed := input.Seed
		return mapRepoError(s.entryRepo.SetSeed(ctx, tx, entryID, input.Draw, &seed))
	})
}
