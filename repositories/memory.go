package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/FChavez82/highlander-tennis/brackets"
	"github.com/FChavez82/highlander-tennis/models"
)

// MemoryStore keeps players, weeks, availability and matches in process.
// It satisfies every repository interface of this package and is used by the
// simulation CLI and by tests.
type MemoryStore struct {
	mu           sync.RWMutex
	players      map[models.PlayerID]*models.Player
	weeks        map[int]*models.Week
	availability []models.Availability
	matches      []models.Match
	nextMatchID  int
}

var (
	_ MatchRepository        = (*MemoryStore)(nil)
	_ AvailabilityRepository = (*MemoryStore)(nil)
	_ WeekRepository         = (*MemoryStore)(nil)
	_ PlayerRepository       = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players:     make(map[models.PlayerID]*models.Player),
		weeks:       make(map[int]*models.Week),
		nextMatchID: 1,
	}
}

func (m *MemoryStore) AddPlayer(p models.Player) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	m.players[p.ID] = &p
}

func (m *MemoryStore) AddWeek(w models.Week) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.weeks[w.ID] = &w
}

// SetAvailability replaces an earlier declaration for the same week, player and category.
func (m *MemoryStore) SetAvailability(a models.Availability) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.availability {
		cur := &m.availability[i]
		if cur.WeekID == a.WeekID && cur.PlayerID == a.PlayerID && cur.Category == a.Category {
			cur.Available = a.Available
			return
		}
	}
	m.availability = append(m.availability, a)
}

// AddMatch stores a match as is, without the checks CreateBatch applies.
// Bracket placeholders and historical records are seeded this way.
func (m *MemoryStore) AddMatch(match models.Match) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	match.ID = m.nextMatchID
	m.nextMatchID++
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now()
	}
	m.matches = append(m.matches, match)
	return match.ID
}

func (m *MemoryStore) ExistingMatchups(_ context.Context, category models.Category) (models.MatchupSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return brackets.HistoryFromMatches(category, m.matches), nil
}

func (m *MemoryStore) ListByWeek(_ context.Context, weekID int, category models.Category) ([]*models.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*models.Match, 0)
	for i := range m.matches {
		match := m.matches[i]
		if match.WeekID == nil || *match.WeekID != weekID || match.Category != category {
			continue
		}
		result = append(result, &match)
	}
	return result, nil
}

func (m *MemoryStore) CreateBatch(_ context.Context, matches []*models.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Проверяем весь батч до записи, чтобы не сохранить его частично.
	taken := make(map[int]models.MatchupSet)
	for i := range m.matches {
		existing := &m.matches[i]
		if existing.WeekID == nil || existing.Status == models.MatchStatusCancelled {
			continue
		}
		if pair, ok := existing.Matchup(); ok {
			weekPairs(taken, *existing.WeekID)[pair] = struct{}{}
		}
	}
	for _, match := range matches {
		if match.WeekID == nil {
			return ErrMatchWeekInvalid
		}
		if _, ok := m.weeks[*match.WeekID]; !ok {
			return ErrMatchWeekInvalid
		}
		pair, ok := match.Matchup()
		if !ok {
			continue
		}
		if pair.Low == pair.High {
			return ErrMatchParticipantInvalid
		}
		for _, id := range []models.PlayerID{pair.Low, pair.High} {
			if _, ok := m.players[id]; !ok {
				return ErrMatchParticipantInvalid
			}
		}
		set := weekPairs(taken, *match.WeekID)
		if set.Has(pair.Low, pair.High) {
			return ErrMatchConflict
		}
		set[pair] = struct{}{}
	}

	now := time.Now()
	for _, match := range matches {
		match.ID = m.nextMatchID
		m.nextMatchID++
		match.CreatedAt = now
		m.matches = append(m.matches, *match)
	}
	return nil
}

func weekPairs(taken map[int]models.MatchupSet, weekID int) models.MatchupSet {
	set, ok := taken[weekID]
	if !ok {
		set = models.NewMatchupSet()
		taken[weekID] = set
	}
	return set
}

func (m *MemoryStore) GetMatch(_ context.Context, id int) (*models.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.matches {
		if m.matches[i].ID == id {
			copied := m.matches[i]
			return &copied, nil
		}
	}
	return nil, ErrMatchNotFound
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id int, status models.MatchStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.matches {
		if m.matches[i].ID == id {
			m.matches[i].Status = status
			return nil
		}
	}
	return ErrMatchNotFound
}

func (m *MemoryStore) AvailablePlayers(_ context.Context, weekID int, category models.Category) ([]models.PlayerID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	players := make([]models.PlayerID, 0)
	for _, a := range m.availability {
		if a.WeekID != weekID || a.Category != category || !a.Available {
			continue
		}
		if p, ok := m.players[a.PlayerID]; ok && p.Active {
			players = append(players, a.PlayerID)
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i] < players[j] })
	return players, nil
}

func (m *MemoryStore) ByeCounts(_ context.Context, category models.Category) (map[models.PlayerID]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return brackets.ByeCountsFromRecords(category, m.availability, m.matches), nil
}

func (m *MemoryStore) GetByID(_ context.Context, id int) (*models.Week, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	w, ok := m.weeks[id]
	if !ok {
		return nil, fmt.Errorf("week %d: %w", id, ErrWeekNotFound)
	}
	copied := *w
	return &copied, nil
}

func (m *MemoryStore) ListByCategory(_ context.Context, category models.Category, activeOnly bool) ([]*models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*models.Player, 0, len(m.players))
	for _, p := range m.players {
		if p.Category != category || (activeOnly && !p.Active) {
			continue
		}
		copied := *p
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
