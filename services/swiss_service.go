package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/FChavez82/highlander-tennis/brackets"
	"github.com/FChavez82/highlander-tennis/models"
	"github.com/FChavez82/highlander-tennis/repositories"
	"github.com/FChavez82/highlander-tennis/storage"
	"github.com/google/uuid"
)

const (
	maxSimulationPlayers = 512
	maxSimulationRounds  = 64
)

type SimPlayer struct {
	ID     models.PlayerID `json:"id"`
	Rating int             `json:"rating"`
}

type SimulationInput struct {
	Players []SimPlayer `json:"players"`
	// Rounds defaults to ceil(log2(len(Players))) when zero.
	Rounds int   `json:"rounds"`
	Seed   int64 `json:"seed"`
}

type SimulatedMatch struct {
	Matchup models.Matchup  `json:"matchup"`
	Winner  models.PlayerID `json:"winner"`
	Rematch bool            `json:"rematch,omitempty"`
}

type SimulatedRound struct {
	Number  int              `json:"number"`
	Matches []SimulatedMatch `json:"matches"`
	Bye     *models.PlayerID `json:"bye,omitempty"`
}

type SimulationReport struct {
	RunID      string                 `json:"run_id"`
	Seed       int64                  `json:"seed"`
	Rounds     []SimulatedRound       `json:"rounds"`
	Standings  []brackets.SwissRecord `json:"standings"`
	ArchiveURL string                 `json:"archive_url,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

type SwissSimulator interface {
	Simulate(ctx context.Context, input SimulationInput) (*SimulationReport, error)
	SimulateCategory(ctx context.Context, category models.Category, rounds int, seed int64) (*SimulationReport, error)
}

type swissSimulator struct {
	playerRepo repositories.PlayerRepository
	archive    storage.ReportArchive // nil: отчёты не сохраняются
}

func NewSwissSimulator(playerRepo repositories.PlayerRepository, archive storage.ReportArchive) SwissSimulator {
	return &swissSimulator{
		playerRepo: playerRepo,
		archive:    archive,
	}
}

// Simulate plays a whole Swiss event. One generator seeded from input.Seed
// drives both the shuffles and the match results, so a seed replays the run.
// A bye counts as a win.
func (s *swissSimulator) Simulate(ctx context.Context, input SimulationInput) (*SimulationReport, error) {
	rounds, err := validateSimulation(input)
	if err != nil {
		return nil, err
	}

	rng := brackets.NewLCG(input.Seed)
	ratings := make(map[models.PlayerID]int, len(input.Players))
	records := make([]brackets.SwissRecord, len(input.Players))
	index := make(map[models.PlayerID]int, len(input.Players))
	for i, p := range input.Players {
		ratings[p.ID] = p.Rating
		records[i] = brackets.SwissRecord{Player: p.ID}
		index[p.ID] = i
	}
	played := models.NewMatchupSet()

	report := &SimulationReport{
		RunID:     uuid.NewString(),
		Seed:      input.Seed,
		Rounds:    make([]SimulatedRound, 0, rounds),
		CreatedAt: time.Now().UTC(),
	}

	for number := 1; number <= rounds; number++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		standings := make([]brackets.SwissRecord, len(records))
		copy(standings, records)
		pairing, err := brackets.PairSwissRound(standings, played, rng)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSimulation, err)
		}

		rematches := models.NewMatchupSet(pairing.Rematches...)
		round := SimulatedRound{Number: number, Matches: make([]SimulatedMatch, 0, len(pairing.Pairs)), Bye: pairing.Bye}
		for _, pair := range pairing.Pairs {
			winner, loser := pair.Low, pair.High
			if rng.Float64() >= winProbability(ratings[pair.Low], ratings[pair.High]) {
				winner, loser = loser, winner
			}
			records[index[winner]].Wins++
			records[index[loser]].Losses++
			played.Add(pair.Low, pair.High)
			round.Matches = append(round.Matches, SimulatedMatch{
				Matchup: pair,
				Winner:  winner,
				Rematch: rematches.Has(pair.Low, pair.High),
			})
		}
		if pairing.Bye != nil {
			records[index[*pairing.Bye]].Wins++
		}
		report.Rounds = append(report.Rounds, round)
	}

	report.Standings = finalStandings(records)

	if s.archive != nil {
		key := fmt.Sprintf("simulations/%s.json", report.RunID)
		url, err := s.archive.Store(ctx, key, report)
		if err != nil {
			log.Printf("Failed to archive simulation %s: %v", report.RunID, err)
		} else {
			report.ArchiveURL = url
		}
	}

	log.Printf("Swiss simulation %s finished: players=%d rounds=%d seed=%d",
		report.RunID, len(input.Players), rounds, input.Seed)
	return report, nil
}

// SimulateCategory runs a simulation over the active roster of a category.
func (s *swissSimulator) SimulateCategory(ctx context.Context, category models.Category, rounds int, seed int64) (*SimulationReport, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	roster, err := s.playerRepo.ListByCategory(ctx, category, true)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load roster")
	}

	players := make([]SimPlayer, 0, len(roster))
	for _, p := range roster {
		players = append(players, SimPlayer{ID: p.ID, Rating: p.Rating})
	}
	return s.Simulate(ctx, SimulationInput{Players: players, Rounds: rounds, Seed: seed})
}

func validateSimulation(input SimulationInput) (int, error) {
	n := len(input.Players)
	if n < 2 {
		return 0, fmt.Errorf("%w: at least 2 players required, got %d", ErrInvalidSimulation, n)
	}
	if n > maxSimulationPlayers {
		return 0, fmt.Errorf("%w: at most %d players allowed, got %d", ErrInvalidSimulation, maxSimulationPlayers, n)
	}
	seen := make(map[models.PlayerID]struct{}, n)
	for _, p := range input.Players {
		if _, dup := seen[p.ID]; dup {
			return 0, fmt.Errorf("%w: duplicate player %d", ErrInvalidSimulation, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	if input.Rounds < 0 || input.Rounds > maxSimulationRounds {
		return 0, fmt.Errorf("%w: rounds must be between 0 and %d, got %d", ErrInvalidSimulation, maxSimulationRounds, input.Rounds)
	}
	if input.Rounds == 0 {
		return defaultSwissRounds(n), nil
	}
	return input.Rounds, nil
}

// defaultSwissRounds is ceil(log2(n)).
func defaultSwissRounds(n int) int {
	rounds := 0
	for 1<<rounds < n {
		rounds++
	}
	return rounds
}

// winProbability is the Elo expectation of a beating b.
func winProbability(a, b int) float64 {
	return 1 / (1 + math.Pow(10, float64(b-a)/400))
}

func finalStandings(records []brackets.SwissRecord) []brackets.SwissRecord {
	out := make([]brackets.SwissRecord, len(records))
	copy(out, records)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Player < out[j].Player
	})
	return out
}
