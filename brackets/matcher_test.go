package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FChavez82/highlander-tennis/models"
)

func ids(v ...int) []models.PlayerID {
	out := make([]models.PlayerID, len(v))
	for i, x := range v {
		out[i] = models.PlayerID(x)
	}
	return out
}

func history(pairs ...[2]int) models.MatchupSet {
	s := models.NewMatchupSet()
	for _, p := range pairs {
		s.Add(models.PlayerID(p[0]), models.PlayerID(p[1]))
	}
	return s
}

func mu(a, b int) models.Matchup {
	return models.NewMatchup(models.PlayerID(a), models.PlayerID(b))
}

func perm(g *LCG, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	g.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// requirePartition checks that pairs, bye and unpaired cover the pool exactly once.
func requirePartition(t *testing.T, pool []models.PlayerID, res PairingResult) {
	t.Helper()
	seen := make(map[models.PlayerID]int)
	for _, p := range res.Pairs {
		assert.True(t, p.Low <= p.High, "pair %v not canonical", p)
		seen[p.Low]++
		seen[p.High]++
	}
	if res.Bye != nil {
		seen[*res.Bye]++
	}
	for _, p := range res.Unpaired {
		seen[p]++
	}
	require.Len(t, seen, len(pool))
	for _, p := range pool {
		require.Equal(t, 1, seen[p], "player %d", p)
	}
}

func TestMatchRoundTrivialPools(t *testing.T) {
	res, err := MatchRound(nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Pairs)
	assert.Nil(t, res.Bye)
	assert.Empty(t, res.Unpaired)

	res, err = MatchRound(ids(9), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Bye)
	assert.Equal(t, models.PlayerID(9), *res.Bye)
	assert.Empty(t, res.Pairs)
	assert.Empty(t, res.Unpaired)
}

func TestMatchRoundAllFresh(t *testing.T) {
	pool := ids(1, 2, 3, 4)
	res, err := MatchRound(pool, models.NewMatchupSet(), map[models.PlayerID]int{})
	require.NoError(t, err)

	assert.Len(t, res.Pairs, 2)
	assert.Nil(t, res.Bye)
	assert.Empty(t, res.Unpaired)
	requirePartition(t, pool, res)
	assert.Equal(t, []models.Matchup{mu(1, 2), mu(3, 4)}, res.Pairs)
}

func TestMatchRoundByeGoesToFewestByes(t *testing.T) {
	pool := ids(1, 2, 3)
	res, err := MatchRound(pool, nil, map[models.PlayerID]int{1: 0, 2: 1, 3: 2})
	require.NoError(t, err)
	require.NotNil(t, res.Bye)
	assert.Equal(t, models.PlayerID(1), *res.Bye)
	assert.Equal(t, []models.Matchup{mu(2, 3)}, res.Pairs)

	// missing ledger entries count as zero
	res, err = MatchRound(ids(5, 3, 4), nil, map[models.PlayerID]int{3: 2, 4: 1})
	require.NoError(t, err)
	require.NotNil(t, res.Bye)
	assert.Equal(t, models.PlayerID(5), *res.Bye)
}

func TestMatchRoundExhaustedOpponent(t *testing.T) {
	pool := ids(1, 2, 3)
	res, err := MatchRound(pool, history([2]int{1, 2}, [2]int{1, 3}), map[models.PlayerID]int{1: 0, 2: 0, 3: 0})
	require.NoError(t, err)

	require.NotNil(t, res.Bye)
	assert.Equal(t, models.PlayerID(1), *res.Bye)
	assert.Equal(t, []models.Matchup{mu(2, 3)}, res.Pairs)
	assert.Empty(t, res.Unpaired)
}

func TestMatchRoundTrueExhaustion(t *testing.T) {
	pool := ids(1, 2)
	res, err := MatchRound(pool, history([2]int{2, 1}), nil)
	require.NoError(t, err)

	assert.Empty(t, res.Pairs)
	assert.Nil(t, res.Bye)
	assert.Equal(t, ids(1, 2), res.Unpaired)
}

func TestMatchRoundMostConstrainedFirst(t *testing.T) {
	// 4 has already met 1 and 2, so it must take 3 before anyone else does.
	pool := ids(1, 2, 3, 4)
	res, err := MatchRound(pool, history([2]int{1, 4}, [2]int{2, 4}), nil)
	require.NoError(t, err)

	assert.Equal(t, []models.Matchup{mu(3, 4), mu(1, 2)}, res.Pairs)
	assert.Empty(t, res.Unpaired)
}

// The greedy heuristic is not a maximum matching. {1-7, 2-3, 4-6, 5-8} is a
// perfect matching for this history, yet the matcher leaves 8 and 7 out.
// This output is kept on purpose.
func TestMatchRoundGreedyKnownLimitation(t *testing.T) {
	pool := ids(1, 2, 3, 4, 5, 6, 7, 8)
	h := history(
		[2]int{1, 2}, [2]int{1, 3}, [2]int{1, 4}, [2]int{1, 6}, [2]int{1, 8},
		[2]int{2, 5}, [2]int{2, 6}, [2]int{2, 8}, [2]int{3, 6}, [2]int{3, 8},
		[2]int{4, 5}, [2]int{6, 7}, [2]int{6, 8}, [2]int{7, 8},
	)
	for _, p := range []models.Matchup{mu(1, 7), mu(2, 3), mu(4, 6), mu(5, 8)} {
		require.False(t, h.Has(p.Low, p.High))
	}

	res, err := MatchRound(pool, h, nil)
	require.NoError(t, err)

	assert.Equal(t, []models.Matchup{mu(1, 5), mu(4, 6), mu(2, 3)}, res.Pairs)
	assert.Equal(t, ids(8, 7), res.Unpaired)
	requirePartition(t, pool, res)
}

func TestMatchRoundRejectsInvalidInput(t *testing.T) {
	_, err := MatchRound(ids(1, 2, 1), nil, nil)
	assert.ErrorIs(t, err, ErrDuplicatePlayer)

	_, err = MatchRound(ids(1, 2), nil, map[models.PlayerID]int{2: -1})
	assert.ErrorIs(t, err, ErrNegativeByeCount)
}

func TestMatchRoundDoesNotMutateInputs(t *testing.T) {
	pool := ids(4, 1, 3)
	h := history([2]int{1, 3})
	counts := map[models.PlayerID]int{4: 1}

	_, err := MatchRound(pool, h, counts)
	require.NoError(t, err)

	assert.Equal(t, ids(4, 1, 3), pool)
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, map[models.PlayerID]int{4: 1}, counts)
}

func TestMatchRoundInvariantsOnGeneratedInputs(t *testing.T) {
	rng := NewLCG(2024)
	for trial := 0; trial < 300; trial++ {
		n := rng.Intn(16)
		pool := make([]models.PlayerID, 0, n)
		for _, idx := range perm(rng, 30)[:n] {
			pool = append(pool, models.PlayerID(idx+1))
		}

		h := models.NewMatchupSet()
		counts := make(map[models.PlayerID]int)
		for i := 0; i < len(pool); i++ {
			counts[pool[i]] = rng.Intn(3)
			for j := i + 1; j < len(pool); j++ {
				if rng.Float64() < 0.4 {
					h.Add(pool[i], pool[j])
				}
			}
		}

		res, err := MatchRound(pool, h, counts)
		require.NoError(t, err)
		requirePartition(t, pool, res)
		for _, p := range res.Pairs {
			assert.False(t, h.Has(p.Low, p.High), "trial %d repeated %v", trial, p)
		}
		assert.Equal(t, len(pool)%2 == 1, res.Bye != nil)

		again, err := MatchRound(pool, h, counts)
		require.NoError(t, err)
		assert.Equal(t, res, again, "trial %d not deterministic", trial)
	}
}
