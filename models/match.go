package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// MatchPhase отделяет круговой этап сезона от матчей сетки на выбывание.
type MatchPhase string

const (
	PhaseRoundRobin  MatchPhase = "round_robin"
	PhaseElimination MatchPhase = "elimination"
)

type Match struct {
	ID        int         `json:"id" db:"id"`
	WeekID    *int        `json:"week_id,omitempty" db:"week_id"`
	Category  Category    `json:"category" db:"category"`
	Phase     MatchPhase  `json:"phase" db:"phase"`
	Player1ID *PlayerID   `json:"player1_id,omitempty" db:"player1_id"` // nil for bracket placeholders
	Player2ID *PlayerID   `json:"player2_id,omitempty" db:"player2_id"`
	Score     *string     `json:"score,omitempty" db:"score"`
	Status    MatchStatus `json:"status" db:"status"`
	WinnerID  *PlayerID   `json:"winner_id,omitempty" db:"winner_id"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// HasBothPlayers reports whether both slots are filled.
func (m *Match) HasBothPlayers() bool {
	return m.Player1ID != nil && m.Player2ID != nil
}

// Involves reports whether the player occupies either slot.
func (m *Match) Involves(id PlayerID) bool {
	return (m.Player1ID != nil && *m.Player1ID == id) || (m.Player2ID != nil && *m.Player2ID == id)
}

// Matchup returns the canonical pair of the match. ok is false for placeholders.
func (m *Match) Matchup() (Matchup, bool) {
	if !m.HasBothPlayers() {
		return Matchup{}, false
	}
	return NewMatchup(*m.Player1ID, *m.Player2ID), true
}
