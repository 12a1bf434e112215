package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/FChavez82/highlander-tennis/models"
)

var (
	ErrDuplicatePlayer  = errors.New("pool contains a duplicate player")
	ErrNegativeByeCount = errors.New("bye count must not be negative")
)

// PairingResult partitions the pool: every player is in exactly one pair, the
// bye, or Unpaired. Pairs are in canonical (low, high) order.
type PairingResult struct {
	Pairs    []models.Matchup  `json:"pairs"`
	Bye      *models.PlayerID  `json:"bye,omitempty"`
	Unpaired []models.PlayerID `json:"unpaired"`
}

// MatchRound pairs a weekly pool without ever repeating a matchup from history.
//
// An odd pool first gives the bye to the player with the fewest previous byes
// (lowest id on ties). The rest are matched greedily, most constrained player
// first: the player with the fewest remaining candidate opponents picks the
// candidate who is itself most constrained. A player left with no candidate is
// reported in Unpaired instead of forcing a rematch.
//
// This is not a maximum matching; some configurations leave players unpaired
// even though a perfect matching exists. Callers rely on that exact output.
//
// Duplicate ids in pool and negative bye counts are rejected.
func MatchRound(pool []models.PlayerID, history models.MatchupSet, byeCounts map[models.PlayerID]int) (PairingResult, error) {
	if err := validateRoundInput(pool, byeCounts); err != nil {
		return PairingResult{}, err
	}

	result := PairingResult{
		Pairs:    make([]models.Matchup, 0, len(pool)/2),
		Unpaired: make([]models.PlayerID, 0),
	}

	switch len(pool) {
	case 0:
		return result, nil
	case 1:
		bye := pool[0]
		result.Bye = &bye
		return result, nil
	}

	remaining := make([]models.PlayerID, len(pool))
	copy(remaining, pool)
	sort.Slice(remaining, func(i, j int) bool { return remaining[i] < remaining[j] })

	if len(remaining)%2 == 1 {
		bye := selectBye(remaining, byeCounts)
		result.Bye = &bye
		remaining = removePlayer(remaining, bye)
	}

	g := newCandidateGraph(remaining, history)

	for g.activeCount() >= 2 {
		p := g.mostConstrained(g.order)
		if g.degree(p) == 0 {
			result.Unpaired = append(result.Unpaired, p)
			g.deactivate(p)
			continue
		}

		opp := g.mostConstrained(g.edges[p])
		result.Pairs = append(result.Pairs, models.NewMatchup(p, opp))
		g.deactivate(p)
		g.deactivate(opp)
	}

	for _, p := range g.order {
		if g.active[p] {
			result.Unpaired = append(result.Unpaired, p)
		}
	}

	return result, nil
}

func validateRoundInput(pool []models.PlayerID, byeCounts map[models.PlayerID]int) error {
	seen := make(map[models.PlayerID]struct{}, len(pool))
	for _, p := range pool {
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicatePlayer, p)
		}
		seen[p] = struct{}{}
	}
	for p, c := range byeCounts {
		if c < 0 {
			return fmt.Errorf("%w: player %d has %d", ErrNegativeByeCount, p, c)
		}
	}
	return nil
}

// selectBye expects players sorted by id; a missing ledger entry counts as zero.
func selectBye(players []models.PlayerID, byeCounts map[models.PlayerID]int) models.PlayerID {
	best := players[0]
	for _, p := range players[1:] {
		if byeCounts[p] < byeCounts[best] {
			best = p
		}
	}
	return best
}

func removePlayer(players []models.PlayerID, id models.PlayerID) []models.PlayerID {
	out := make([]models.PlayerID, 0, len(players)-1)
	for _, p := range players {
		if p != id {
			out = append(out, p)
		}
	}
	return out
}

// candidateGraph links two players when they have not met yet.
type candidateGraph struct {
	order  []models.PlayerID // ascending ids
	edges  map[models.PlayerID][]models.PlayerID
	active map[models.PlayerID]bool
}

func newCandidateGraph(players []models.PlayerID, history models.MatchupSet) *candidateGraph {
	g := &candidateGraph{
		order:  players,
		edges:  make(map[models.PlayerID][]models.PlayerID, len(players)),
		active: make(map[models.PlayerID]bool, len(players)),
	}
	for i := 0; i < len(players); i++ {
		g.active[players[i]] = true
		for j := i + 1; j < len(players); j++ {
			a, b := players[i], players[j]
			if history.Has(a, b) {
				continue
			}
			g.edges[a] = append(g.edges[a], b)
			g.edges[b] = append(g.edges[b], a)
		}
	}
	for _, p := range players {
		adj := g.edges[p]
		sort.Slice(adj, func(i, j int) bool { return adj[i] < adj[j] })
	}
	return g
}

func (g *candidateGraph) activeCount() int {
	n := 0
	for _, p := range g.order {
		if g.active[p] {
			n++
		}
	}
	return n
}

func (g *candidateGraph) deactivate(p models.PlayerID) {
	g.active[p] = false
}

// degree counts candidate opponents that are still unpaired.
func (g *candidateGraph) degree(p models.PlayerID) int {
	n := 0
	for _, q := range g.edges[p] {
		if g.active[q] {
			n++
		}
	}
	return n
}

// mostConstrained picks the active player with the lowest degree from an
// ascending list, so the first minimum is also the lowest id.
func (g *candidateGraph) mostConstrained(from []models.PlayerID) models.PlayerID {
	var (
		best    models.PlayerID
		bestDeg = -1
	)
	for _, p := range from {
		if !g.active[p] {
			continue
		}
		if d := g.degree(p); bestDeg < 0 || d < bestDeg {
			best, bestDeg = p, d
		}
	}
	return best
}
