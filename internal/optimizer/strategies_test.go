package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/fusion-ai/internal/models"
)

func testRoster() []models.RosterPlayer {
	return []models.RosterPlayer{
		{ID: 1, Name: "Steady Guard", Position: "PG", RecentPerformance: 30, Consistency: 0.95, NFTValue: 1, Trend: 0},
		{ID: 2, Name: "Hot Guard", Position: "PG", RecentPerformance: 40, Consistency: 0.65, NFTValue: 12, Trend: 0.5},
		{ID: 3, Name: "Wing One", Position: "SG", RecentPerformance: 35, Consistency: 0.8, NFTValue: 4, Trend: 0.1},
		{ID: 4, Name: "Wing Two", Position: "SF", RecentPerformance: 25, Consistency: 0.7, NFTValue: 2, Trend: -0.2},
		{ID: 5, Name: "Big One", Position: "PF", RecentPerformance: 45, Consistency: 0.7, NFTValue: 8, Trend: 0.3},
		{ID: 6, Name: "Big Two", Position: "C", RecentPerformance: 20, Consistency: 0.9, NFTValue: 3, Trend: -0.3},
		{ID: 7, Name: "Sixth Slot", Position: "UTIL", RecentPerformance: 48, Consistency: 0.9, NFTValue: 15, Trend: 0.5},
	}
}

func TestGenerateSuggestion_Constants(t *testing.T) {
	tests := []struct {
		strategy   models.Strategy
		risk       models.RiskLevel
		confidence float64
		reasoning  string
	}{
		{models.StrategyConservative, models.RiskLow, 0.85, "Safe lineup focused on consistent, reliable performers"},
		{models.StrategyAggressive, models.RiskHigh, 0.65, "High-risk lineup with breakout potential and trending players"},
		{models.StrategyHighRisk, models.RiskMedium, 0.78, "Balanced lineup with consistent performers and upside potential"},
		{models.StrategyBalanced, models.RiskMedium, 0.78, "Balanced lineup with consistent performers and upside potential"},
		{models.Strategy("unknown"), models.RiskMedium, 0.78, "Balanced lineup with consistent performers and upside potential"},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			s := GenerateSuggestion(testRoster(), tt.strategy)
			assert.Equal(t, tt.risk, s.RiskLevel)
			assert.Equal(t, tt.confidence, s.Confidence)
			assert.Equal(t, tt.reasoning, s.Reasoning)
		})
	}
}

func TestGenerateSuggestion_OnePerPositionCappedAtFive(t *testing.T) {
	for _, strategy := range []models.Strategy{models.StrategyBalanced, models.StrategyConservative, models.StrategyAggressive} {
		s := GenerateSuggestion(testRoster(), strategy)
		require.Len(t, s.Players, MaxSuggestionSize)

		positions := map[string]bool{}
		for _, p := range s.Players {
			assert.False(t, positions[p.Position], "position %s filled twice", p.Position)
			positions[p.Position] = true
		}
	}
}

func TestGenerateSuggestion_Conservative(t *testing.T) {
	s := GenerateSuggestion(testRoster(), models.StrategyConservative)

	// keys: 7=0.924, 1=0.81, 5=0.78, 3=0.76, 2=0.71, 6=0.70, 4=0.62
	ids := []int{}
	for _, p := range s.Players {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{7, 1, 5, 3, 6}, ids)

	expected := 48*0.9 + 30*0.95 + 45*0.7 + 35*0.8 + 20*0.9
	assert.InDelta(t, expected, s.ExpectedScore, 1e-9)
}

func TestGenerateSuggestion_Aggressive(t *testing.T) {
	s := GenerateSuggestion(testRoster(), models.StrategyAggressive)

	ids := []int{}
	for _, p := range s.Players {
		ids = append(ids, p.ID)
	}
	// keys: 7=29.5, 5=25.5, 2=24.6, 3=18.9, 4=12.7, 6=10.3
	assert.Equal(t, []int{7, 5, 2, 3, 4}, ids)

	expected := 48*1.25 + 45*1.15 + 40*1.25 + 35*1.05 + 25*0.9
	assert.InDelta(t, expected, s.ExpectedScore, 1e-9)
}

func TestGenerateSuggestion_BalancedSumsPerformance(t *testing.T) {
	s := GenerateSuggestion(testRoster(), models.StrategyBalanced)

	total := 0.0
	for _, p := range s.Players {
		total += p.RecentPerformance
	}
	assert.InDelta(t, total, s.ExpectedScore, 1e-9)
	assert.Equal(t, 7, s.Players[0].ID)
}

func TestGenerateSuggestion_EmptyRoster(t *testing.T) {
	s := GenerateSuggestion(nil, models.StrategyBalanced)
	assert.Empty(t, s.Players)
	assert.Equal(t, 0.0, s.ExpectedScore)
}

func TestGenerateSuggestion_DoesNotReorderInput(t *testing.T) {
	roster := testRoster()
	GenerateSuggestion(roster, models.StrategyAggressive)
	assert.Equal(t, 1, roster[0].ID)
	assert.Equal(t, 7, roster[6].ID)
}
