package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/fusion-ai/internal/models"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the best lineup for a set of candidates",
	Long:  "Fills the requested positions from the candidate players, asking Gemini first when --ai is set and falling back to the rule-based optimizer.",
	RunE:  runPredict,
}

var (
	predictLeagueID  int64
	predictAddress   string
	predictPlayers   []int
	predictPositions []string
	predictStrategy  string
	predictUseAI     bool
)

func init() {
	predictCmd.Flags().Int64VarP(&predictLeagueID, "league", "l", 0, "League id (required)")
	predictCmd.Flags().StringVarP(&predictAddress, "address", "a", "cli", "Player wallet address")
	predictCmd.Flags().IntSliceVarP(&predictPlayers, "players", "p", nil, "Candidate player ids (required)")
	predictCmd.Flags().StringSliceVar(&predictPositions, "positions", []string{"PG", "SG", "SF", "PF", "C"}, "Positions to fill, in order")
	predictCmd.Flags().StringVarP(&predictStrategy, "strategy", "s", string(models.StrategyBalanced), "balanced, conservative, aggressive or high-risk")
	predictCmd.Flags().BoolVar(&predictUseAI, "ai", false, "Ask Gemini before the rule-based optimizer")

	if err := predictCmd.MarkFlagRequired("league"); err != nil {
		panic(fmt.Sprintf("failed to mark league flag as required: %v", err))
	}
	if err := predictCmd.MarkFlagRequired("players"); err != nil {
		panic(fmt.Sprintf("failed to mark players flag as required: %v", err))
	}

	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	e, err := newEngine(ctx, predictUseAI)
	if err != nil {
		return err
	}
	defer e.close()

	leagueID := predictLeagueID
	response, err := e.predictor.Predict(ctx, models.PredictionRequest{
		LeagueID:         &leagueID,
		PlayerAddress:    predictAddress,
		AvailablePlayers: predictPlayers,
		Positions:        predictPositions,
		OptimizationGoal: predictStrategy,
	})
	if err != nil {
		return fmt.Errorf("failed to predict lineup: %w", err)
	}

	return printJSON(response)
}
