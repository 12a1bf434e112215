package brackets

import (
	"context"

	"github.com/FChavez82/highlander-tennis/models"
)

// RoundSnapshot is the immutable input assembled once per round by the caller.
// Nothing in this package mutates or caches it.
type RoundSnapshot struct {
	WeekID    int
	Category  models.Category
	Pool      []models.PlayerID
	History   models.MatchupSet
	ByeCounts map[models.PlayerID]int
}

type RoundGenerator interface {
	GenerateRound(ctx context.Context, snapshot RoundSnapshot) (PairingResult, error)

	GetName() string
}

type ConstrainedRoundGenerator struct{}

func NewConstrainedRoundGenerator() RoundGenerator {
	return &ConstrainedRoundGenerator{}
}

func (g *ConstrainedRoundGenerator) GetName() string {
	return "ConstrainedRound"
}

func (g *ConstrainedRoundGenerator) GenerateRound(ctx context.Context, snapshot RoundSnapshot) (PairingResult, error) {
	return MatchRound(snapshot.Pool, snapshot.History, snapshot.ByeCounts)
}
