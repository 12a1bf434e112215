package brackets

import (
	"sort"

	"github.com/FChavez82/highlander-tennis/models"
)

// RoundRobinProgress shows how far a category is through its single
// round-robin: every player meets every other player once.
type RoundRobinProgress struct {
	Category      models.Category         `json:"category"`
	Players       int                     `json:"players"`
	TotalFixtures int                     `json:"total_fixtures"`
	Played        int                     `json:"played"`
	Remaining     []models.Matchup        `json:"remaining"`
	RemainingFor  map[models.PlayerID]int `json:"remaining_for"`
}

// Complete is true once no fixture is owed.
func (p RoundRobinProgress) Complete() bool {
	return len(p.Remaining) == 0
}

// BuildRoundRobinProgress compares the full fixture list of a roster with the
// history. History pairs involving players outside the roster are ignored.
func BuildRoundRobinProgress(category models.Category, roster []models.PlayerID, history models.MatchupSet) RoundRobinProgress {
	players := make([]models.PlayerID, len(roster))
	copy(players, roster)
	sort.Slice(players, func(i, j int) bool { return players[i] < players[j] })

	progress := RoundRobinProgress{
		Category:      category,
		Players:       len(players),
		TotalFixtures: len(players) * (len(players) - 1) / 2,
		Remaining:     make([]models.Matchup, 0),
		RemainingFor:  make(map[models.PlayerID]int, len(players)),
	}

	for _, p := range players {
		progress.RemainingFor[p] = 0
	}

	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			p1ID, p2ID := players[i], players[j]
			if history.Has(p1ID, p2ID) {
				progress.Played++
				continue
			}
			progress.Remaining = append(progress.Remaining, models.NewMatchup(p1ID, p2ID))
			progress.RemainingFor[p1ID]++
			progress.RemainingFor[p2ID]++
		}
	}

	return progress
}
