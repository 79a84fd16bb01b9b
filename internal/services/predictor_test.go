package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/fusion-ai/internal/models"
	"github.com/stitts-dev/fusion-ai/internal/providers"
	"github.com/stitts-dev/fusion-ai/internal/services"
)

func testProvider(t *testing.T) *providers.StaticProvider {
	t.Helper()
	build := func(id int, perf, value, cons, injury float64, trending models.Trending) models.PlayerProfile {
		p, err := models.NewPlayerProfile(id, perf, value, cons, injury, trending)
		require.NoError(t, err)
		return p
	}
	provider, err := providers.NewStaticProvider([]models.PlayerProfile{
		build(1, 80, 600, 0.8, 0.1, models.TrendingUp),      // 50.3
		build(2, 50, 100, 0.5, 0.2, models.TrendingDown),    // 27.3
		build(3, 70, 2000, 0.6, 0.0, models.TrendingStable), // 47.5
	})
	require.NoError(t, err)
	return provider
}

func predictionRequest(goal string) models.PredictionRequest {
	leagueID := int64(7)
	return models.PredictionRequest{
		LeagueID:         &leagueID,
		PlayerAddress:    "0xabc",
		AvailablePlayers: []int{1, 2, 3},
		Positions:        []string{"PG", "SG"},
		OptimizationGoal: goal,
	}
}

func TestPredict_RuleBasedWithoutDelegate(t *testing.T) {
	predictor := services.NewLineupPredictor(testProvider(t), nil, nil, quietLogger())
	assert.False(t, predictor.DelegateConfigured())

	resp, err := predictor.Predict(context.Background(), predictionRequest("balanced"))
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, models.AIMethodRuleBased, resp.Lineup.AIMethod)
	assert.Equal(t, map[string][]int{"PG": {1}, "SG": {3}}, resp.Lineup.Positions)
	assert.Equal(t, 97.8, resp.Lineup.ExpectedScore)
	assert.Equal(t, 0.75, resp.Lineup.Confidence)
	assert.Equal(t, "Optimized for balanced strategy. Expected score: 97.8.", resp.Lineup.Rationale)

	assert.Equal(t, int64(7), resp.Metadata.LeagueID)
	assert.Equal(t, "0xabc", resp.Metadata.PlayerAddress)
	assert.Equal(t, models.StrategyBalanced, resp.Metadata.Strategy)
	assert.NotEmpty(t, resp.Metadata.RequestID)
	assert.False(t, resp.Metadata.Timestamp.IsZero())
}

func TestPredict_UsesDelegateLineup(t *testing.T) {
	delegate := new(MockDelegate)
	delegate.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Player 1: Performance=80.0, Value=$600") &&
			strings.Contains(prompt, "Required Positions: PG, SG") &&
			strings.Contains(prompt, "Strategy: conservative")
	})).Return(`{"lineup":[2,99,3],"expected_score":81.234,"rationale":"AI pick"}`, nil)

	predictor := services.NewLineupPredictor(testProvider(t), delegate, nil, quietLogger())
	resp, err := predictor.Predict(context.Background(), predictionRequest("Conservative"))
	require.NoError(t, err)

	assert.Equal(t, models.AIMethodGemini, resp.Lineup.AIMethod)
	assert.Equal(t, map[string][]int{"PG": {2}, "SG": {3}}, resp.Lineup.Positions)
	assert.Equal(t, 81.23, resp.Lineup.ExpectedScore)
	assert.Equal(t, 0.73, resp.Lineup.Confidence)
	assert.Equal(t, "AI pick", resp.Lineup.Rationale)
	assert.Equal(t, models.StrategyConservative, resp.Metadata.Strategy)
	delegate.AssertExpectations(t)
}

func TestPredict_FallsBack(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "delegate error", err: errors.New("deadline exceeded")},
		{name: "breaker open", err: services.ErrDelegateUnavailable},
		{name: "unparseable reply", reply: "Sorry, I can't help with that."},
		{name: "no candidate ids", reply: `{"lineup":[42,43]}`},
		{name: "empty lineup", reply: `{"lineup":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delegate := new(MockDelegate)
			delegate.On("Generate", mock.Anything, mock.Anything).Return(tt.reply, tt.err)

			predictor := services.NewLineupPredictor(testProvider(t), delegate, nil, quietLogger())
			resp, err := predictor.Predict(context.Background(), predictionRequest("balanced"))
			require.NoError(t, err)

			assert.Equal(t, models.AIMethodRuleBased, resp.Lineup.AIMethod)
			assert.Equal(t, map[string][]int{"PG": {1}, "SG": {3}}, resp.Lineup.Positions)
			assert.Equal(t, 97.8, resp.Lineup.ExpectedScore)
			delegate.AssertNumberOfCalls(t, "Generate", 1)
		})
	}
}

func TestPredict_ConfidenceIsCapped(t *testing.T) {
	delegate := new(MockDelegate)
	delegate.On("Generate", mock.Anything, mock.Anything).Return(`{"lineup":[1,2],"expected_score":400}`, nil)

	predictor := services.NewLineupPredictor(testProvider(t), delegate, nil, quietLogger())
	resp, err := predictor.Predict(context.Background(), predictionRequest(""))
	require.NoError(t, err)

	assert.Equal(t, 400.0, resp.Lineup.ExpectedScore)
	assert.Equal(t, 0.95, resp.Lineup.Confidence)
	assert.Equal(t, services.DefaultAIRationale, resp.Lineup.Rationale)
}

func TestPredict_NegativeMarkerScoreKeepsConfidenceFloor(t *testing.T) {
	delegate := new(MockDelegate)
	delegate.On("Generate", mock.Anything, mock.Anything).Return("LINEUP: [1, 3]\nSCORE: -120\nRATIONALE: x", nil)

	predictor := services.NewLineupPredictor(testProvider(t), delegate, nil, quietLogger())
	resp, err := predictor.Predict(context.Background(), predictionRequest("balanced"))
	require.NoError(t, err)

	assert.Equal(t, models.AIMethodGemini, resp.Lineup.AIMethod)
	assert.Equal(t, services.DefaultAIExpectedScore, resp.Lineup.ExpectedScore)
	assert.GreaterOrEqual(t, resp.Lineup.Confidence, 0.65)
	assert.LessOrEqual(t, resp.Lineup.Confidence, 0.95)
}

func TestPredict_UnknownGoalDefaultsToBalanced(t *testing.T) {
	predictor := services.NewLineupPredictor(testProvider(t), nil, nil, quietLogger())
	resp, err := predictor.Predict(context.Background(), predictionRequest("moonshot"))
	require.NoError(t, err)
	assert.Equal(t, models.StrategyBalanced, resp.Metadata.Strategy)
	assert.Equal(t, "Optimized for balanced strategy. Expected score: 97.8.", resp.Lineup.Rationale)
}

func TestPredict_UsesCallerRequestID(t *testing.T) {
	predictor := services.NewLineupPredictor(testProvider(t), nil, nil, quietLogger())
	req := predictionRequest("balanced")
	req.RequestID = "req-abc"

	resp, err := predictor.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "req-abc", resp.Metadata.RequestID)
}

func TestPredict_EmptyInputs(t *testing.T) {
	predictor := services.NewLineupPredictor(testProvider(t), nil, nil, quietLogger())
	req := predictionRequest("balanced")
	req.AvailablePlayers = []int{}
	req.Positions = []string{}

	resp, err := predictor.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Lineup.Positions)
	assert.Equal(t, 0.0, resp.Lineup.ExpectedScore)
	assert.Equal(t, 0.65, resp.Lineup.Confidence)
}

func TestPredict_ProviderErrorSurfaces(t *testing.T) {
	predictor := services.NewLineupPredictor(failingProvider{}, nil, nil, quietLogger())
	_, err := predictor.Predict(context.Background(), predictionRequest("balanced"))
	assert.ErrorContains(t, err, "player data offline")
}

func TestAnalyzePlayer(t *testing.T) {
	predictor := services.NewLineupPredictor(testProvider(t), nil, nil, quietLogger())

	analysis, err := predictor.AnalyzePlayer(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.PlayerID)
	assert.Equal(t, 50.3, analysis.Score)
	assert.Equal(t, models.StrategyBalanced, analysis.Strategy)
	assert.Equal(t, models.TrendingUp, analysis.Stats.Trending)
	assert.Equal(t, 600.0, analysis.Stats.MarketValue)

	conservative, err := predictor.AnalyzePlayer(context.Background(), 1, "conservative")
	require.NoError(t, err)
	assert.InDelta(t, 57.845, conservative.Score, 0.006)

	_, err = predictor.AnalyzePlayer(context.Background(), 404, "")
	assert.ErrorIs(t, err, services.ErrPlayerNotFound)
}
