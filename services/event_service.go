package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/repositories"
)

type EventService interface {
	Entries(ctx context.Context, eventID string) (*models.Page[models.EventEntry], error)
	Seeds(ctx context.Context, eventID string) (*models.Page[models.SeedRecord], error)
	EntryInfo(ctx context.Context, eventID string) (*models.Page[models.EntryInfoRecord], error)
}

type eventService struct {
	eventRepo repositories.EventRepository
	dir       directory
	logger    *slog.Logger
}

func NewEventService(eventRepo repositories.EventRepository, playerRepo repositories.PlayerRepository, countryRepo repositories.CountryRepository, logger *slog.Logger) EventService {
	return &eventService{
		eventRepo: eventRepo,
		dir:       directory{players: playerRepo, countries: countryRepo},
		logger:    logger,
	}
}

func (s *eventService) eventContext(ctx context.Context, eventID string) (*repositories.EventContext, error) {
	ev, err := s.eventRepo.GetContext(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %s: %w", eventID, err)
	}
	return ev, nil
}

func lastNameOf(team []models.PlayerRef) string {
	if len(team) == 0 {
		return ""
	}
	return strings.ToLower(team[0].LastName)
}

// Entries lists the event's entries, each team resolved at the event date.
func (s *eventService) Entries(ctx context.Context, eventID string) (*models.Page[models.EventEntry], error) {
	ev, err := s.eventContext(ctx, eventID)
	if err != nil {
		return nil, err
	}
	rows, err := s.eventRepo.Entries(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries of %s: %w", eventID, err)
	}

	var ids []string
	for _, r := range rows {
		for _, p := range r.Players {
			ids = append(ids, p.PlayerID)
		}
	}
	ppl, err := s.dir.load(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entry players of %s: %w", eventID, err)
	}

	at := ev.ReferenceDate()
	entries := make([]models.EventEntry, 0, len(rows))
	for _, r := range rows {
		team := make([]models.PlayerRef, 0, len(r.Players))
		for _, p := range r.Players {
			ref := ppl.ref(p.PlayerID, at)
			ref.Rank = p.Rank
			team = append(team, ref)
		}
		draws := r.Draws
		if draws == nil {
			draws = []models.Draw{}
		}
		entries = append(entries, models.EventEntry{Entry: r.Entry, Team: team, Draws: draws})
	}
	slices.SortStableFunc(entries, func(a, b models.EventEntry) int {
		return cmp.Or(
			cmp.Compare(lastNameOf(a.Team), lastNameOf(b.Team)),
			cmp.Compare(a.ID, b.ID),
		)
	})

	if err := checkResults("results", entries); err != nil {
		return nil, err
	}
	return &models.Page[models.EventEntry]{
		Count:     len(entries),
		Results:   entries,
		Anomalies: reportAnomalies(ctx, s.logger, "event_entries", ppl.anomalies),
	}, nil
}

// Seeds lists SEEDED relationships in the order the repository returns them:
// match type descending, then draw, then seed.
func (s *eventService) Seeds(ctx context.Context, eventID string) (*models.Page[models.SeedRecord], error) {
	ev, err := s.eventContext(ctx, eventID)
	if err != nil {
		return nil, err
	}
	rows, err := s.eventRepo.Seeds(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seeds of %s: %w", eventID, err)
	}

	var ids []string
	for _, r := range rows {
		ids = append(ids, r.PlayerIDs...)
	}
	ppl, err := s.dir.load(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seeded players of %s: %w", eventID, err)
	}

	at := ev.ReferenceDate()
	seeds := make([]models.SeedRecord, 0, len(rows))
	for _, r := range rows {
		seeds = append(seeds, models.SeedRecord{
			EntryID:   r.EntryID,
			Seed:      r.Seed,
			Rank:      r.Rank,
			Draw:      r.Draw,
			MatchType: r.MatchType,
			Withdrew:  r.Withdrew,
			Team:      ppl.team(r.PlayerIDs, at),
		})
	}

	if err := checkResults("results", seeds); err != nil {
		return nil, err
	}
	return &models.Page[models.SeedRecord]{
		Count:     len(seeds),
		Results:   seeds,
		Anomalies: reportAnomalies(ctx, s.logger, "event_seeds", ppl.anomalies),
	}, nil
}

func (s *eventService) EntryInfo(ctx context.Context, eventID string) (*models.Page[models.EntryInfoRecord], error) {
	ev, err := s.eventContext(ctx, eventID)
	if err != nil {
		return nil, err
	}
	rows, err := s.eventRepo.EntryInfo(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry info of %s: %w", eventID, err)
	}

	var ids []string
	for _, r := range rows {
		ids = append(ids, r.PlayerIDs...)
	}
	ppl, err := s.dir.load(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entry info players of %s: %w", eventID, err)
	}

	at := ev.ReferenceDate()
	infos := make([]models.EntryInfoRecord, 0, len(rows))
	for _, r := range rows {
		infos = append(infos, models.EntryInfoRecord{
			EntryRelationship: r.EntryRelationship,
			MatchType:         r.MatchType,
			Team:              ppl.team(r.PlayerIDs, at),
		})
	}

	if err := checkResults("results", infos); err != nil {
		return nil, err
	}
	return &models.Page[models.EntryInfoRecord]{
		Count:     len(infos),
		Results:   infos,
		Anomalies: reportAnomalies(ctx, s.logger, "event_entry_info", ppl.anomalies),
	}, nil
}
