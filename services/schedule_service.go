package services

import (
	"context"
	"fmt"
	"log"

	"github.com/FChavez82/highlander-tennis/brackets"
	"github.com/FChavez82/highlander-tennis/models"
	"github.com/FChavez82/highlander-tennis/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	EventWeekScheduled = "WEEK_SCHEDULED"
	EventMatchCanceled = "MATCH_CANCELLED"
)

// EventPublisher is satisfied by *brackets.Hub.
type EventPublisher interface {
	BroadcastToRoom(roomID string, message interface{})
}

// WeekSchedule is what one GenerateWeek call produced and stored.
type WeekSchedule struct {
	WeekID    int               `json:"week_id"`
	Category  models.Category   `json:"category"`
	Generator string            `json:"generator"`
	Matches   []*models.Match   `json:"matches"`
	Bye       *models.PlayerID  `json:"bye,omitempty"`
	Unpaired  []models.PlayerID `json:"unpaired"`
}

type MatchCancelledPayload struct {
	MatchID  int             `json:"match_id"`
	WeekID   int             `json:"week_id"`
	Category models.Category `json:"category"`
	Matchup  models.Matchup  `json:"matchup"`
}

type ScheduleService interface {
	GenerateWeek(ctx context.Context, weekID int, category models.Category) (*WeekSchedule, error)
	CancelMatch(ctx context.Context, matchID int) error
	Matchups(ctx context.Context, category models.Category) ([]models.Matchup, error)
	ByeCounts(ctx context.Context, category models.Category) (map[models.PlayerID]int, error)
	Progress(ctx context.Context, category models.Category) (*brackets.RoundRobinProgress, error)
}

type scheduleService struct {
	weekRepo         repositories.WeekRepository
	playerRepo       repositories.PlayerRepository
	availabilityRepo repositories.AvailabilityRepository
	matchRepo        repositories.MatchRepository
	generator        brackets.RoundGenerator
	events           EventPublisher
	locks            *keyedMutex
}

func NewScheduleService(
	weekRepo repositories.WeekRepository,
	playerRepo repositories.PlayerRepository,
	availabilityRepo repositories.AvailabilityRepository,
	matchRepo repositories.MatchRepository,
	events EventPublisher,
) ScheduleService {
	return &scheduleService{
		weekRepo:         weekRepo,
		playerRepo:       playerRepo,
		availabilityRepo: availabilityRepo,
		matchRepo:        matchRepo,
		generator:        brackets.NewConstrainedRoundGenerator(),
		events:           events,
		locks:            newKeyedMutex(),
	}
}

func (s *scheduleService) GenerateWeek(ctx context.Context, weekID int, category models.Category) (*WeekSchedule, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if weekID <= 0 {
		return nil, fmt.Errorf("%w: week id must be positive", ErrValidationFailed)
	}

	// Две генерации одной недели и категории не должны пересекаться.
	unlock := s.locks.Lock(fmt.Sprintf("%d/%s", weekID, category))
	defer unlock()

	snapshot, existing, err := s.loadSnapshot(ctx, weekID, category)
	if err != nil {
		return nil, err
	}
	for _, m := range existing {
		if m.Phase == models.PhaseRoundRobin && m.Status != models.MatchStatusCancelled {
			return nil, ErrWeekAlreadyScheduled
		}
	}

	log.Printf("Generating week %d for category %s: pool=%d, history=%d, generator=%s",
		weekID, category, len(snapshot.Pool), snapshot.History.Len(), s.generator.GetName())

	result, err := s.generator.GenerateRound(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	matches := make([]*models.Match, 0, len(result.Pairs))
	for _, pair := range result.Pairs {
		p1, p2 := pair.Low, pair.High
		week := weekID
		matches = append(matches, &models.Match{
			WeekID:    &week,
			Category:  category,
			Phase:     models.PhaseRoundRobin,
			Player1ID: &p1,
			Player2ID: &p2,
			Status:    models.MatchStatusScheduled,
		})
	}
	if err := s.matchRepo.CreateBatch(ctx, matches); err != nil {
		return nil, handleRepositoryError(err, "failed to store week schedule")
	}

	if len(result.Unpaired) > 0 {
		log.Printf("Week %d category %s: %d players left without a fresh opponent: %v",
			weekID, category, len(result.Unpaired), result.Unpaired)
	}

	schedule := &WeekSchedule{
		WeekID:    weekID,
		Category:  category,
		Generator: s.generator.GetName(),
		Matches:   matches,
		Bye:       result.Bye,
		Unpaired:  result.Unpaired,
	}
	s.publish(weekID, EventWeekScheduled, schedule)
	return schedule, nil
}

// loadSnapshot собирает неизменяемый снимок данных для одного тура.
func (s *scheduleService) loadSnapshot(ctx context.Context, weekID int, category models.Category) (brackets.RoundSnapshot, []*models.Match, error) {
	snapshot := brackets.RoundSnapshot{WeekID: weekID, Category: category}
	var existing []*models.Match

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, err := s.weekRepo.GetByID(gCtx, weekID); err != nil {
			return handleRepositoryError(err, "failed to load week")
		}
		return nil
	})

	g.Go(func() error {
		pool, err := s.availabilityRepo.AvailablePlayers(gCtx, weekID, category)
		if err != nil {
			return handleRepositoryError(err, "failed to load availability")
		}
		snapshot.Pool = pool
		return nil
	})

	g.Go(func() error {
		history, err := s.matchRepo.ExistingMatchups(gCtx, category)
		if err != nil {
			return handleRepositoryError(err, "failed to load matchup history")
		}
		snapshot.History = history
		return nil
	})

	g.Go(func() error {
		counts, err := s.availabilityRepo.ByeCounts(gCtx, category)
		if err != nil {
			return handleRepositoryError(err, "failed to load bye counts")
		}
		snapshot.ByeCounts = counts
		return nil
	})

	g.Go(func() error {
		matches, err := s.matchRepo.ListByWeek(gCtx, weekID, category)
		if err != nil {
			return handleRepositoryError(err, "failed to load week matches")
		}
		existing = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("Error loading round snapshot for week %d category %s: %v", weekID, category, err)
		return brackets.RoundSnapshot{}, nil, err
	}
	return snapshot, existing, nil
}

// CancelMatch frees the pair of a scheduled match so a later week may pair
// them again. Cancelling twice is a no-op.
func (s *scheduleService) CancelMatch(ctx context.Context, matchID int) error {
	match, err := s.matchRepo.GetMatch(ctx, matchID)
	if err != nil {
		return handleRepositoryError(err, "failed to load match")
	}
	switch match.Status {
	case models.MatchStatusCancelled:
		return nil
	case models.MatchStatusCompleted:
		return ErrMatchNotCancelable
	}

	if err := s.matchRepo.UpdateStatus(ctx, matchID, models.MatchStatusCancelled); err != nil {
		return handleRepositoryError(err, "failed to cancel match")
	}
	log.Printf("Match %d cancelled", matchID)

	if match.WeekID != nil {
		payload := MatchCancelledPayload{MatchID: matchID, WeekID: *match.WeekID, Category: match.Category}
		if pair, ok := match.Matchup(); ok {
			payload.Matchup = pair
		}
		s.publish(*match.WeekID, EventMatchCanceled, payload)
	}
	return nil
}

func (s *scheduleService) Matchups(ctx context.Context, category models.Category) ([]models.Matchup, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	history, err := s.matchRepo.ExistingMatchups(ctx, category)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load matchup history")
	}
	return history.Sorted(), nil
}

func (s *scheduleService) ByeCounts(ctx context.Context, category models.Category) (map[models.PlayerID]int, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	counts, err := s.availabilityRepo.ByeCounts(ctx, category)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load bye counts")
	}
	return counts, nil
}

func (s *scheduleService) Progress(ctx context.Context, category models.Category) (*brackets.RoundRobinProgress, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	var (
		roster  []*models.Player
		history models.MatchupSet
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		players, err := s.playerRepo.ListByCategory(gCtx, category, true)
		if err != nil {
			return handleRepositoryError(err, "failed to load roster")
		}
		roster = players
		return nil
	})
	g.Go(func() error {
		set, err := s.matchRepo.ExistingMatchups(gCtx, category)
		if err != nil {
			return handleRepositoryError(err, "failed to load matchup history")
		}
		history = set
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]models.PlayerID, 0, len(roster))
	for _, p := range roster {
		ids = append(ids, p.ID)
	}
	progress := brackets.BuildRoundRobinProgress(category, ids, history)
	return &progress, nil
}

func (s *scheduleService) publish(weekID int, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	room := brackets.WeekRoom(weekID)
	s.events.BroadcastToRoom(room, brackets.WebSocketMessage{
		Type:    eventType,
		Payload: payload,
		RoomID:  room,
	})
}
