package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/fusion-ai/internal/models"
	"github.com/stitts-dev/fusion-ai/internal/optimizer"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a five-player lineup from the roster",
	Long:  "Builds the same roster suggestion the chat assistant attaches to lineup requests, for the given risk appetite.",
	RunE:  runSuggest,
}

var (
	suggestRisk string
	suggestList bool
)

func init() {
	suggestCmd.Flags().StringVarP(&suggestRisk, "risk", "r", string(models.StrategyBalanced), "Risk appetite: balanced, conservative or aggressive")
	suggestCmd.Flags().BoolVar(&suggestList, "roster", false, "Print the full roster instead of a suggestion")

	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	e, err := newEngine(ctx, false)
	if err != nil {
		return err
	}
	defer e.close()

	if suggestList {
		return printJSON(e.roster.All())
	}

	strategy, ok := models.ParseStrategy(suggestRisk)
	if !ok {
		return fmt.Errorf("unknown risk appetite %q", suggestRisk)
	}

	return printJSON(optimizer.GenerateSuggestion(e.roster.All(), strategy))
}
