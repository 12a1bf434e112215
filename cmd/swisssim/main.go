// Command swisssim runs the pairing engine offline.
//
// Usage:
//
//	swisssim simulate --ratings 1800,1650,1500,1420,1300 --seed 42
//	swisssim pair --standings 1:2,2:1,3:1,4:0 --played 1-2,3-4 --seed 7
//	swisssim week --pool 1,2,3,4,5 --history 1-2,3-4 --byes 5:1
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/FChavez82/highlander-tennis/brackets"
	"github.com/FChavez82/highlander-tennis/services"
	"github.com/spf13/cobra"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	root := &cobra.Command{
		Use:          "swisssim",
		Short:        "Offline pairing and Swiss simulation tool",
		SilenceUsage: true,
	}

	root.AddCommand(simulateCmd())
	root.AddCommand(pairCmd())
	root.AddCommand(weekCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func simulateCmd() *cobra.Command {
	var (
		ratings string
		rounds  int
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a full Swiss event from player ratings",
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := parseRatings(ratings)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			report, err := services.NewSwissSimulator(nil, nil).Simulate(ctx, services.SimulationInput{
				Players: players,
				Rounds:  rounds,
				Seed:    seed,
			})
			if err != nil {
				return err
			}
			logger.Info("simulation finished", "run_id", report.RunID, "players", len(players), "rounds", len(report.Rounds))
			return printJSON(cmd, report)
		},
	}
	cmd.Flags().StringVar(&ratings, "ratings", "", "Comma-separated ratings; player ids are assigned 1..n")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "Number of rounds (0 = ceil(log2 n))")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Generator seed")
	_ = cmd.MarkFlagRequired("ratings")
	return cmd
}

func pairCmd() *cobra.Command {
	var (
		standings string
		played    string
		seed      int64
	)
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Pair a single Swiss round",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := parseStandings(standings)
			if err != nil {
				return err
			}
			history, err := parseMatchups(played)
			if err != nil {
				return err
			}

			round, err := brackets.PairSwissRoundSeed(records, history, seed)
			if err != nil {
				return err
			}
			if len(round.Rematches) > 0 {
				logger.Warn("round contains forced rematches", "count", len(round.Rematches))
			}
			return printJSON(cmd, round)
		},
	}
	cmd.Flags().StringVar(&standings, "standings", "", "Comma-separated id:wins entries")
	cmd.Flags().StringVar(&played, "played", "", "Comma-separated a-b pairs already played")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Generator seed")
	_ = cmd.MarkFlagRequired("standings")
	return cmd
}

func weekCmd() *cobra.Command {
	var (
		pool    string
		history string
		byes    string
	)
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Pair a weekly round-robin pool without rematches",
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := parseIDs(pool)
			if err != nil {
				return err
			}
			played, err := parseMatchups(history)
			if err != nil {
				return err
			}
			counts, err := parseCounts(byes)
			if err != nil {
				return err
			}

			result, err := brackets.MatchRound(players, played, counts)
			if err != nil {
				return err
			}
			if len(result.Unpaired) > 0 {
				logger.Warn("players left without a fresh opponent", "unpaired", fmt.Sprint(result.Unpaired))
			}
			return printJSON(cmd, result)
		},
	}
	cmd.Flags().StringVar(&pool, "pool", "", "Comma-separated available player ids")
	cmd.Flags().StringVar(&history, "history", "", "Comma-separated a-b pairs already played")
	cmd.Flags().StringVar(&byes, "byes", "", "Comma-separated id:count previous byes")
	_ = cmd.MarkFlagRequired("pool")
	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
