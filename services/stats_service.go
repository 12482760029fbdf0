package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/stats"
)

// TopOpponentsLimit is how many opponents a player's head-to-head list holds.
const TopOpponentsLimit = 10

type StatsService interface {
	WinLoss(ctx context.Context, playerID string, filter repositories.StatsFilter) ([]models.WinLossRow, error)
	Finals(ctx context.Context, playerID string, filter repositories.StatsFilter) ([]models.TitleRecord, error)
	WLIndex(ctx context.Context, playerID string, filter repositories.StatsFilter) ([]models.WLIndexRow, error)
	ServeReturn(ctx context.Context, playerID string, filter repositories.StatsFilter) ([]models.StatRow, error)
	TopOpponents(ctx context.Context, playerID string) ([]models.H2HOpponent, []models.Anomaly, error)
	Activity(ctx context.Context, playerID string, filter repositories.StatsFilter) (*ActivityResult, error)
}

// ActivityResult is a player's filtered activity with the anomalies met
// while resolving partners and opponents.
type ActivityResult struct {
	models.ActivitySummary
	Anomalies []models.Anomaly `json:"anomalies,omitempty"`
}

type statsService struct {
	statsRepo  repositories.StatsRepository
	playerRepo repositories.PlayerRepository
	dir        directory
	logger     *slog.Logger
}

func NewStatsService(statsRepo repositories.StatsRepository, playerRepo repositories.PlayerRepository, countryRepo repositories.CountryRepository, logger *slog.Logger) StatsService {
	return &statsService{
		statsRepo:  statsRepo,
		playerRepo: playerRepo,
		dir:        directory{players: playerRepo, countries: countryRepo},
		logger:     logger,
	}
}

// mustExist turns an unknown player into a 404 instead of an empty record.
func (s *statsService) mustExist(ctx context.Context, playerID string) error {
	_, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if mapped := mapRepoError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to get player %s: %w", playerID, err)
	}
	return nil
}

func (s *statsService) WinLoss(ctx context.Context, playerID string, filter repositories.StatsFilter) ([]models.WinLossRow, error) {
	if err := s.mustExist(ctx, playerID); err != nil {
		return nil, err
	}
	facts, err := s.statsRepo.Results(ctx, playerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load results of %s: %w", playerID, err)
	}
	rows := stats.TallyOf(facts).Rows()
	if err := checkResults("results", rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *statsService) Finals(ctx context.Context, playerID string, filter repositories.StatsFilter) ([]models.TitleRecord, error) {
	if err := s.mustExist(ctx, playerID); err != nil {
		return nil, err
	}
	finals, err := s.statsRepo.Finals(ctx, playerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load finals of %s: %w", playerID, err)
	}
	return finals, nil
}

func (s *statsService) WLIndex(ctx context.Context, playerID string, filter repositories.StatsFilter) ([]models.WLIndexRow, error) {
	if err := s.mustExist(ctx, playerID); err != nil {
		return nil, err
	}
	facts, err := s.statsRepo.IndexFacts(ctx, playerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load wl index facts of %s: %w", playerID, err)
	}
	return stats.WLIndex(facts), nil
}

func (s *statsService) ServeReturn(ctx context.Context, playerID string, filter repositories.StatsFilter) ([]models.StatRow, error) {
	if err := s.mustExist(ctx, playerID); err != nil {
		return nil, err
	}
	rows, err := s.statsRepo.ServeStats(ctx, playerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load serve stats of %s: %w", playerID, err)
	}
	return stats.ServeReturn(rows), nil
}

func (s *statsService) TopOpponents(ctx context.Context, playerID string) ([]models.H2HOpponent, []models.Anomaly, error) {
	if err := s.mustExist(ctx, playerID); err != nil {
		return nil, nil, err
	}
	records, err := s.statsRepo.Opponents(ctx, playerID, TopOpponentsLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load opponents of %s: %w", playerID, err)
	}

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.OpponentID
	}
	ppl, err := s.dir.load(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load opponents of %s: %w", playerID, err)
	}

	out := make([]models.H2HOpponent, len(records))
	for i, r := range records {
		out[i] = models.H2HOpponent{
			Opponent: ppl.ref(r.OpponentID, nil),
			Matches:  r.Wins + r.Losses,
			Wins:     r.Wins,
			Losses:   r.Losses,
		}
	}
	// Репозиторий уже упорядочил по матчам и победам; фамилия решает ничьи.
	slices.SortStableFunc(out, func(a, b models.H2HOpponent) int {
		return cmp.Or(
			cmp.Compare(b.Matches, a.Matches),
			cmp.Compare(b.Wins, a.Wins),
			cmp.Compare(strings.ToLower(a.Opponent.LastName), strings.ToLower(b.Opponent.LastName)),
		)
	})
	return out, reportAnomalies(ctx, s.logger, "top_opponents", ppl.anomalies), nil
}

// Activity groups the player's matches into events. Partners and opponents
// carry the country they represented at the event date.
func (s *statsService) Activity(ctx context.Context, playerID string, filter repositories.StatsFilter) (*ActivityResult, error) {
	if err := s.mustExist(ctx, playerID); err != nil {
		return nil, err
	}
	rows, err := s.statsRepo.Activity(ctx, playerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity of %s: %w", playerID, err)
	}

	var ids []string
	for _, r := range rows {
		if r.PartnerID != nil {
			ids = append(ids, *r.PartnerID)
		}
		ids = append(ids, r.OpponentIDs...)
	}
	ppl, err := s.dir.load(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve activity players of %s: %w", playerID, err)
	}

	var singles, doubles stats.WinLoss
	titles := map[models.MatchType]int{}
	events := make([]models.ActivityEvent, 0)
	var current string

	for _, r := range rows {
		if r.EntryID != current {
			current = r.EntryID
			ev := r.Event
			if r.PartnerID != nil {
				partner := ppl.ref(*r.PartnerID, r.At)
				ev.Partner = &partner
			}
			ev.Matches = make([]models.ActivityMatch, 0, 1)
			events = append(events, ev)
		}

		m := r.Match
		own, opp := r.Own, r.Opponent
		stats.BackfillTiebreaks(&own, &opp)
		m.Sets = [2][][]int{stats.SetList(own), stats.SetList(opp)}
		m.Opponents = ppl.team(r.OpponentIDs, r.At)

		ev := &events[len(events)-1]
		ev.Matches = append(ev.Matches, m)

		if m.Outcome == nil {
			continue
		}
		won := *m.Outcome == models.OutcomeWinner
		wl := &singles
		if ev.MatchType == models.Doubles {
			wl = &doubles
		}
		if won {
			wl.Wins++
		} else {
			wl.Losses++
		}
		if won && m.Draw == models.DrawMain && m.Round == models.RoundFinal {
			titles[ev.MatchType]++
		}
	}

	return &ActivityResult{
		ActivitySummary: models.ActivitySummary{
			Singles: models.WLCell{WL: singles.String(), Titles: titles[models.Singles]},
			Doubles: models.WLCell{WL: doubles.String(), Titles: titles[models.Doubles]},
			Events:  events,
		},
		Anomalies: reportAnomalies(ctx, s.logger, "activity", ppl.anomalies),
	}, nil
}
