package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a single player under a strategy",
	RunE:  runAnalyze,
}

var (
	analyzePlayerID int
	analyzeStrategy string
)

func init() {
	analyzeCmd.Flags().IntVarP(&analyzePlayerID, "player", "p", 0, "Player id (required)")
	analyzeCmd.Flags().StringVarP(&analyzeStrategy, "strategy", "s", "", "Strategy label (defaults to balanced)")

	if err := analyzeCmd.MarkFlagRequired("player"); err != nil {
		panic(fmt.Sprintf("failed to mark player flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	e, err := newEngine(ctx, false)
	if err != nil {
		return err
	}
	defer e.close()

	analysis, err := e.predictor.AnalyzePlayer(ctx, analyzePlayerID, analyzeStrategy)
	if err != nil {
		return fmt.Errorf("failed to analyze player %d: %w", analyzePlayerID, err)
	}

	return printJSON(analysis)
}
