package services

import (
	"context"
	"errors"
	"testing"

	"github.com/FChavez82/highlander-tennis/brackets"
	"github.com/FChavez82/highlander-tennis/models"
	"github.com/FChavez82/highlander-tennis/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArchive struct {
	keys []string
	err  error
}

func (f *fakeArchive) Store(_ context.Context, key string, _ interface{}) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.example/" + key, nil
}

func simPlayers(ratings ...int) []SimPlayer {
	out := make([]SimPlayer, len(ratings))
	for i, r := range ratings {
		out[i] = SimPlayer{ID: models.PlayerID(i + 1), Rating: r}
	}
	return out
}

func simMatch(a, b, winner int) SimulatedMatch {
	return SimulatedMatch{Matchup: models.NewMatchup(models.PlayerID(a), models.PlayerID(b)), Winner: models.PlayerID(winner)}
}

func byeOf(id int) *models.PlayerID {
	p := models.PlayerID(id)
	return &p
}

func TestSwissSimulator_KnownSeeds(t *testing.T) {
	sim := NewSwissSimulator(nil, nil)

	tests := []struct {
		name      string
		input     SimulationInput
		rounds    []SimulatedRound
		standings []brackets.SwissRecord
	}{
		{
			name:  "equal ratings",
			input: SimulationInput{Players: simPlayers(1500, 1500, 1500, 1500), Rounds: 2, Seed: 7},
			rounds: []SimulatedRound{
				{Number: 1, Matches: []SimulatedMatch{simMatch(2, 4, 4), simMatch(1, 3, 1)}},
				{Number: 2, Matches: []SimulatedMatch{simMatch(1, 4, 1), simMatch(2, 3, 2)}},
			},
			standings: []brackets.SwissRecord{
				{Player: 1, Wins: 2}, {Player: 2, Wins: 1, Losses: 1}, {Player: 4, Wins: 1, Losses: 1}, {Player: 3, Losses: 2},
			},
		},
		{
			name:  "rated field with byes",
			input: SimulationInput{Players: simPlayers(1800, 1600, 1500, 1400, 1200), Seed: 2024},
			rounds: []SimulatedRound{
				{Number: 1, Matches: []SimulatedMatch{simMatch(2, 5, 2), simMatch(3, 4, 4)}, Bye: byeOf(1)},
				{Number: 2, Matches: []SimulatedMatch{simMatch(1, 2, 2), simMatch(4, 5, 4)}, Bye: byeOf(3)},
				{Number: 3, Matches: []SimulatedMatch{simMatch(2, 4, 2), simMatch(1, 3, 1)}, Bye: byeOf(5)},
			},
			standings: []brackets.SwissRecord{
				{Player: 2, Wins: 3}, {Player: 1, Wins: 2, Losses: 1}, {Player: 4, Wins: 2, Losses: 1},
				{Player: 3, Wins: 1, Losses: 2}, {Player: 5, Wins: 1, Losses: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := sim.Simulate(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.rounds, report.Rounds)
			assert.Equal(t, tt.standings, report.Standings)
			assert.NotEmpty(t, report.RunID)
			assert.Empty(t, report.ArchiveURL)
		})
	}
}

func TestSwissSimulator_Reproducible(t *testing.T) {
	sim := NewSwissSimulator(nil, nil)
	input := SimulationInput{Players: simPlayers(1500, 1550, 1620, 1400, 1480, 1700, 1390, 1510, 1600), Seed: 99}

	first, err := sim.Simulate(context.Background(), input)
	require.NoError(t, err)
	second, err := sim.Simulate(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.Rounds, second.Rounds)
	assert.Equal(t, first.Standings, second.Standings)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestSwissSimulator_RoundInvariants(t *testing.T) {
	sim := NewSwissSimulator(nil, nil)

	for n := 2; n <= 12; n++ {
		players := make([]SimPlayer, n)
		for i := range players {
			players[i] = SimPlayer{ID: models.PlayerID(100 + i), Rating: 1300 + 37*i}
		}
		report, err := sim.Simulate(context.Background(), SimulationInput{Players: players, Rounds: n, Seed: int64(n)})
		require.NoError(t, err)
		require.Len(t, report.Rounds, n)

		totalWins, totalLosses, byes := 0, 0, 0
		for _, round := range report.Rounds {
			seen := make(map[models.PlayerID]int)
			for _, m := range round.Matches {
				seen[m.Matchup.Low]++
				seen[m.Matchup.High]++
				assert.True(t, m.Matchup.Contains(m.Winner))
			}
			if round.Bye != nil {
				seen[*round.Bye]++
				byes++
			}
			assert.Len(t, seen, n, "n=%d round=%d", n, round.Number)
			for id, c := range seen {
				assert.Equal(t, 1, c, "player %d appears %d times", id, c)
			}
			assert.Equal(t, n%2 == 1, round.Bye != nil)
		}
		for _, rec := range report.Standings {
			totalWins += rec.Wins
			totalLosses += rec.Losses
		}
		matches := n / 2 * n
		assert.Equal(t, matches+byes, totalWins)
		assert.Equal(t, matches, totalLosses)
	}
}

func TestSwissSimulator_DefaultRounds(t *testing.T) {
	tests := []struct {
		players int
		want    int
	}{
		{2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {16, 4}, {17, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, defaultSwissRounds(tt.players), "players=%d", tt.players)
	}

	report, err := NewSwissSimulator(nil, nil).Simulate(context.Background(), SimulationInput{Players: simPlayers(1500, 1500, 1500, 1500, 1500, 1500)})
	require.NoError(t, err)
	assert.Len(t, report.Rounds, 3)
}

func TestSwissSimulator_Validation(t *testing.T) {
	sim := NewSwissSimulator(nil, nil)
	tests := []struct {
		name  string
		input SimulationInput
	}{
		{name: "no players", input: SimulationInput{}},
		{name: "single player", input: SimulationInput{Players: simPlayers(1500)}},
		{name: "duplicate", input: SimulationInput{Players: []SimPlayer{{ID: 1}, {ID: 1}}}},
		{name: "negative rounds", input: SimulationInput{Players: simPlayers(1500, 1500), Rounds: -1}},
		{name: "too many rounds", input: SimulationInput{Players: simPlayers(1500, 1500), Rounds: maxSimulationRounds + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Simulate(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrInvalidSimulation)
		})
	}
}

func TestSwissSimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSwissSimulator(nil, nil).Simulate(ctx, SimulationInput{Players: simPlayers(1500, 1500)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSwissSimulator_Archive(t *testing.T) {
	archive := &fakeArchive{}
	report, err := NewSwissSimulator(nil, archive).Simulate(context.Background(), SimulationInput{Players: simPlayers(1500, 1600, 1700)})
	require.NoError(t, err)
	require.Len(t, archive.keys, 1)
	assert.Equal(t, "simulations/"+report.RunID+".json", archive.keys[0])
	assert.Equal(t, "https://cdn.example/simulations/"+report.RunID+".json", report.ArchiveURL)

	// Сбой архива не ломает симуляцию.
	report, err = NewSwissSimulator(nil, &fakeArchive{err: errors.New("bucket gone")}).Simulate(context.Background(), SimulationInput{Players: simPlayers(1500, 1600)})
	require.NoError(t, err)
	assert.Empty(t, report.ArchiveURL)
}

func TestSwissSimulator_SimulateCategory(t *testing.T) {
	store := repositories.NewMemoryStore()
	for i, rating := range []int{1800, 1600, 1500, 1400, 1200} {
		store.AddPlayer(models.Player{ID: models.PlayerID(i + 1), Category: models.CategoryFemale, Rating: rating, Active: true})
	}
	store.AddPlayer(models.Player{ID: 6, Category: models.CategoryFemale, Rating: 2000, Active: false})
	store.AddPlayer(models.Player{ID: 7, Category: models.CategoryMale, Rating: 1500, Active: true})
	sim := NewSwissSimulator(store, nil)

	fromRoster, err := sim.SimulateCategory(context.Background(), models.CategoryFemale, 0, 2024)
	require.NoError(t, err)
	explicit, err := sim.Simulate(context.Background(), SimulationInput{Players: simPlayers(1800, 1600, 1500, 1400, 1200), Seed: 2024})
	require.NoError(t, err)
	assert.Equal(t, explicit.Rounds, fromRoster.Rounds)
	assert.Equal(t, explicit.Standings, fromRoster.Standings)

	_, err = sim.SimulateCategory(context.Background(), models.Category("doubles"), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestWinProbability(t *testing.T) {
	assert.InDelta(t, 0.5, winProbability(1500, 1500), 1e-12)
	assert.InDelta(t, 10.0/11.0, winProbability(1900, 1500), 1e-12)
	assert.InDelta(t, 1.0, winProbability(1900, 1500)+winProbability(1500, 1900), 1e-12)
}
