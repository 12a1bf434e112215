package brackets

import (
	"fmt"
	"sort"

	"github.com/FChavez82/highlander-tennis/models"
)

// SwissRecord is a player's running record inside one simulation. The pairer
// only reads it; the simulation loop owns the updates.
type SwissRecord struct {
	Player models.PlayerID `json:"player"`
	Wins   int             `json:"wins"`
	Losses int             `json:"losses"`
}

type SwissRound struct {
	Pairs []models.Matchup `json:"pairs"`
	Bye   *models.PlayerID `json:"bye,omitempty"`
	// Rematches lists pairs that had to repeat because no fresh opponent was left.
	Rematches []models.Matchup `json:"rematches,omitempty"`
}

// PairSwissRound pairs one Swiss round.
//
// Players are banded by wins (highest first), each band is shuffled with rng,
// and the bands are concatenated. With an odd count the last player sits out.
// Walking the list from the front, each player takes the first later player
// they have not met; if none is left they take the next player anyway. Every
// player ends up paired or on the bye.
//
// A nil rng behaves like NewLCG(0).
func PairSwissRound(standings []SwissRecord, played models.MatchupSet, rng *LCG) (SwissRound, error) {
	if rng == nil {
		rng = NewLCG(0)
	}

	order, err := swissOrder(standings, rng)
	if err != nil {
		return SwissRound{}, err
	}

	round := SwissRound{Pairs: make([]models.Matchup, 0, len(order)/2)}
	if len(order)%2 == 1 {
		bye := order[len(order)-1]
		round.Bye = &bye
		order = order[:len(order)-1]
	}

	paired := make([]bool, len(order))
	for i := range order {
		if paired[i] {
			continue
		}

		next, fresh := -1, -1
		for j := i + 1; j < len(order); j++ {
			if paired[j] {
				continue
			}
			if next < 0 {
				next = j
			}
			if !played.Has(order[i], order[j]) {
				fresh = j
				break
			}
		}

		j := fresh
		if j < 0 {
			j = next
			round.Rematches = append(round.Rematches, models.NewMatchup(order[i], order[j]))
		}
		paired[i], paired[j] = true, true
		round.Pairs = append(round.Pairs, models.NewMatchup(order[i], order[j]))
	}

	return round, nil
}

// PairSwissRoundSeed runs PairSwissRound with a fresh generator for seed.
func PairSwissRoundSeed(standings []SwissRecord, played models.MatchupSet, seed int64) (SwissRound, error) {
	return PairSwissRound(standings, played, NewLCG(seed))
}

// swissOrder bands by wins, highest first, shuffling inside each band.
func swissOrder(standings []SwissRecord, rng *LCG) ([]models.PlayerID, error) {
	bands := make(map[int][]models.PlayerID)
	seen := make(map[models.PlayerID]struct{}, len(standings))
	for _, rec := range standings {
		if _, dup := seen[rec.Player]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicatePlayer, rec.Player)
		}
		seen[rec.Player] = struct{}{}
		bands[rec.Wins] = append(bands[rec.Wins], rec.Player)
	}

	wins := make([]int, 0, len(bands))
	for w := range bands {
		wins = append(wins, w)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(wins)))

	order := make([]models.PlayerID, 0, len(standings))
	for _, w := range wins {
		band := bands[w]
		rng.Shuffle(len(band), func(i, j int) { band[i], band[j] = band[j], band[i] })
		order = append(order, band...)
	}
	return order, nil
}
