package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fusion-ai/internal/models"
	"github.com/stitts-dev/fusion-ai/internal/optimizer"
	"github.com/stitts-dev/fusion-ai/internal/providers"
	"github.com/stitts-dev/fusion-ai/internal/scoring"
	"github.com/stitts-dev/fusion-ai/pkg/metrics"
	"github.com/stitts-dev/fusion-ai/pkg/utils"
)

// ErrPlayerNotFound is returned when no data exists for a player id.
var ErrPlayerNotFound = errors.New("player not found")

// Confidence is derived from the expected score and capped.
const (
	baseConfidence = 0.65
	maxConfidence  = 0.95
)

// Fallback reasons reported to metrics.
const (
	fallbackNotConfigured = "not_configured"
	fallbackDelegateError = "delegate_error"
	fallbackUnparseable   = "unparseable"
	fallbackEmptyLineup   = "empty_lineup"
)

// LineupPredictor produces a lineup for a set of candidates. It asks the AI
// delegate first when one is configured and otherwise, or on any delegate
// failure, uses the rule-based optimizer.
type LineupPredictor struct {
	provider providers.ProfileProvider
	delegate Delegate
	metrics  *metrics.Manager
	logger   *logrus.Logger
	now      func() time.Time
}

// NewLineupPredictor creates a predictor. delegate may be nil, which keeps
// the predictor on the rule-based path.
func NewLineupPredictor(provider providers.ProfileProvider, delegate Delegate, m *metrics.Manager, logger *logrus.Logger) *LineupPredictor {
	return &LineupPredictor{
		provider: provider,
		delegate: delegate,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// DelegateConfigured reports whether predictions attempt the AI path.
func (p *LineupPredictor) DelegateConfigured() bool {
	return p.delegate != nil
}

// Predict builds a lineup. Only a failure to load player data is returned as
// an error; delegate problems degrade to the rule-based lineup.
func (p *LineupPredictor) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	var leagueID int64
	if req.LeagueID != nil {
		leagueID = *req.LeagueID
	}
	log := p.logger.WithFields(logrus.Fields{
		"request_id":     requestID,
		"league_id":      leagueID,
		"player_address": req.PlayerAddress,
	})

	strategy, known := models.ParseStrategy(req.OptimizationGoal)
	if !known && req.OptimizationGoal != "" {
		log.WithField("optimization_goal", req.OptimizationGoal).Warn("Unknown optimization goal, using balanced")
	}

	log.WithFields(logrus.Fields{
		"candidates": len(req.AvailablePlayers),
		"positions":  len(req.Positions),
		"strategy":   strategy,
	}).Info("Predicting lineup")

	profiles, err := p.provider.Profiles(ctx, req.AvailablePlayers)
	if err != nil {
		return nil, fmt.Errorf("failed to load player profiles: %w", err)
	}

	lineup, method := p.predictWithDelegate(ctx, log, req, profiles, strategy)
	if method != models.AIMethodGemini {
		lineup = optimizer.Optimize(req.AvailablePlayers, req.Positions, profiles, strategy)
	}

	expected := utils.Round2(lineup.ExpectedScore)
	confidence := utils.Round2(math.Min(maxConfidence, baseConfidence+expected/1000))

	p.metrics.RecordPrediction(string(method), string(strategy))
	log.WithFields(logrus.Fields{
		"method":     method,
		"score":      expected,
		"confidence": confidence,
	}).Info("Lineup prediction successful")

	return &models.PredictionResponse{
		Success: true,
		Lineup: models.PredictedLineup{
			Positions:     lineup.Positions,
			ExpectedScore: expected,
			Confidence:    confidence,
			Rationale:     lineup.Rationale,
			AIMethod:      method,
		},
		Metadata: models.PredictionMetadata{
			LeagueID:      leagueID,
			PlayerAddress: req.PlayerAddress,
			Strategy:      strategy,
			RequestID:     requestID,
			Timestamp:     p.now().UTC(),
		},
	}, nil
}

// predictWithDelegate returns AIMethodRuleBased whenever the caller must
// fall back.
func (p *LineupPredictor) predictWithDelegate(
	ctx context.Context,
	log *logrus.Entry,
	req models.PredictionRequest,
	profiles map[int]models.PlayerProfile,
	strategy models.Strategy,
) (models.LineupAssignment, models.AIMethod) {
	if p.delegate == nil {
		p.metrics.RecordFallback(fallbackNotConfigured)
		return models.LineupAssignment{}, models.AIMethodRuleBased
	}

	prompt := BuildLineupPrompt(req.AvailablePlayers, req.Positions, profiles, strategy)

	start := time.Now()
	text, err := p.delegate.Generate(ctx, prompt)
	p.metrics.ObserveDelegateLatency("generate", err, time.Since(start))
	if err != nil {
		log.WithError(err).Warn("Gemini prediction failed, falling back to rule-based")
		p.metrics.RecordFallback(fallbackDelegateError)
		return models.LineupAssignment{}, models.AIMethodRuleBased
	}

	parsed, err := ParseLineupResponse(text)
	if err != nil {
		log.WithError(err).Warn("Could not parse Gemini response, falling back to rule-based")
		p.metrics.RecordFallback(fallbackUnparseable)
		return models.LineupAssignment{}, models.AIMethodRuleBased
	}

	lineup := MapToPositions(parsed.PlayerIDs, req.AvailablePlayers, req.Positions)
	if lineup.Size() == 0 {
		log.Warn("Gemini returned no usable players, falling back to rule-based")
		p.metrics.RecordFallback(fallbackEmptyLineup)
		return models.LineupAssignment{}, models.AIMethodRuleBased
	}

	lineup.ExpectedScore = parsed.ExpectedScore
	lineup.Rationale = parsed.Rationale
	log.WithFields(logrus.Fields{
		"format":  parsed.Format,
		"dropped": len(parsed.PlayerIDs) - lineup.Size(),
	}).Debug("Parsed Gemini lineup")
	return lineup, models.AIMethodGemini
}

// MapToPositions assigns ids to positions in order. Ids that are not
// candidates, and repeats of an id already used, are skipped.
func MapToPositions(ids []int, candidates []int, positions []string) models.LineupAssignment {
	allowed := make(map[int]bool, len(candidates))
	for _, id := range candidates {
		allowed[id] = true
	}

	usable := make([]int, 0, len(ids))
	used := make(map[int]bool, len(ids))
	for _, id := range ids {
		if !allowed[id] || used[id] {
			continue
		}
		used[id] = true
		usable = append(usable, id)
	}

	lineup := models.NewLineupAssignment(positions)
	for i, pos := range positions {
		if i >= len(usable) {
			break
		}
		lineup.Assign(pos, usable[i])
	}
	return lineup
}

// AnalyzePlayer scores a single player under strategy.
func (p *LineupPredictor) AnalyzePlayer(ctx context.Context, playerID int, strategyLabel string) (*models.PlayerAnalysis, error) {
	strategy, _ := models.ParseStrategy(strategyLabel)

	profiles, err := p.provider.Profiles(ctx, []int{playerID})
	if err != nil {
		return nil, fmt.Errorf("failed to load player profile: %w", err)
	}
	profile, ok := profiles[playerID]
	if !ok {
		return nil, fmt.Errorf("player %d: %w", playerID, ErrPlayerNotFound)
	}

	return &models.PlayerAnalysis{
		PlayerID: playerID,
		Score:    utils.Round2(scoring.Score(profile, strategy)),
		Strategy: strategy,
		Stats: models.PlayerStats{
			RecentPerformance: utils.Round2(profile.RecentPerformance),
			MarketValue:       utils.Round2(profile.MarketValue),
			Consistency:       utils.Round2(profile.Consistency),
			InjuryRisk:        utils.Round2(profile.InjuryRisk),
			Trending:          profile.Trending,
		},
	}, nil
}
