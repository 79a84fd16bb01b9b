// Package main provides lineupctl, a command-line client for the lineup
// engine that runs without the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lineupctl",
	Short: "Fusion AI lineup engine CLI",
	Long:  "lineupctl runs lineup predictions, player analysis and roster suggestions locally, using Gemini when GEMINI_API_KEY is set and the rule-based optimizer otherwise.",
}

var (
	dataFile string
	verbose  bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataFile, "data", "d", "", "Path to a player profile JSON file (defaults to seeded profiles)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
