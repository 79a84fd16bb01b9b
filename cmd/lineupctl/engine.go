package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fusion-ai/internal/providers"
	"github.com/stitts-dev/fusion-ai/internal/services"
	"github.com/stitts-dev/fusion-ai/pkg/config"
	"github.com/stitts-dev/fusion-ai/pkg/logger"
)

type engine struct {
	cfg       *config.Config
	logger    *logrus.Logger
	predictor *services.LineupPredictor
	roster    *providers.Roster
	closer    func()
}

// newEngine wires the predictor the same way the server does. The caller
// must invoke close when done.
func newEngine(ctx context.Context, useAI bool) (*engine, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.InitLogger(level, true)
	log.SetOutput(os.Stderr)

	var profileProvider providers.ProfileProvider = providers.NewSeededProvider()
	if dataFile != "" {
		static, err := providers.LoadStaticProvider(dataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load player data %s: %w", dataFile, err)
		}
		profileProvider = static
	}

	e := &engine{
		cfg:    cfg,
		logger: log,
		roster: providers.NewRoster(cfg.RosterSeed),
		closer: func() {},
	}

	var delegate services.Delegate
	if useAI && cfg.GeminiConfigured() {
		client, err := services.NewGeminiClient(ctx, cfg, log)
		if err != nil {
			log.WithError(err).Warn("Gemini unavailable, using rule-based optimizer")
		} else {
			delegate = client
			e.closer = func() { _ = client.Close() }
		}
	}

	e.predictor = services.NewLineupPredictor(profileProvider, delegate, nil, log)
	return e, nil
}

func (e *engine) close() {
	e.closer()
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
