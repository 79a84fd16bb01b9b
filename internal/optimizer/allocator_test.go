package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/fusion-ai/internal/models"
	"github.com/stitts-dev/fusion-ai/internal/scoring"
)

func TestAllocate_HighestUnusedFirst(t *testing.T) {
	scores := map[int]float64{1: 10, 2: 20, 3: 30}

	lineup := Allocate([]int{1, 2, 3}, []string{"PG", "SG"}, scores)

	assert.Equal(t, []int{3}, lineup.Positions["PG"])
	assert.Equal(t, []int{2}, lineup.Positions["SG"])
	assert.Equal(t, 50.0, lineup.ExpectedScore)
	assert.NotContains(t, lineup.PlayerIDs(), 1)
}

func TestAllocate_EmptyInputs(t *testing.T) {
	t.Run("no candidates", func(t *testing.T) {
		lineup := Allocate(nil, []string{"PG", "SG"}, nil)
		assert.Equal(t, 0.0, lineup.ExpectedScore)
		assert.Equal(t, []int{}, lineup.Positions["PG"])
		assert.Equal(t, []int{}, lineup.Positions["SG"])
		assert.Equal(t, 0, lineup.Size())
	})

	t.Run("no positions", func(t *testing.T) {
		lineup := Allocate([]int{1, 2}, nil, map[int]float64{1: 5, 2: 6})
		assert.Empty(t, lineup.Positions)
		assert.Equal(t, 0.0, lineup.ExpectedScore)
	})
}

func TestAllocate_MorePositionsThanCandidates(t *testing.T) {
	lineup := Allocate([]int{7}, []string{"PG", "SG", "C"}, map[int]float64{7: 42})

	assert.Equal(t, []int{7}, lineup.Positions["PG"])
	assert.Equal(t, []int{}, lineup.Positions["SG"])
	assert.Equal(t, []int{}, lineup.Positions["C"])
	assert.Equal(t, 42.0, lineup.ExpectedScore)
}

func TestAllocate_TiesKeepInputOrder(t *testing.T) {
	scores := map[int]float64{5: 10, 3: 10, 9: 10}

	lineup := Allocate([]int{5, 3, 9}, []string{"A", "B", "C"}, scores)

	assert.Equal(t, []int{5}, lineup.Positions["A"])
	assert.Equal(t, []int{3}, lineup.Positions["B"])
	assert.Equal(t, []int{9}, lineup.Positions["C"])
}

func TestAllocate_RepeatedPositionAccumulates(t *testing.T) {
	scores := map[int]float64{1: 3, 2: 2, 3: 1}

	lineup := Allocate([]int{1, 2, 3}, []string{"G", "G", "F"}, scores)

	assert.Equal(t, []int{1, 2}, lineup.Positions["G"])
	assert.Equal(t, []int{3}, lineup.Positions["F"])
	assert.Equal(t, []string{"G", "F"}, lineup.Order)
}

func TestAllocate_NoDuplicateAssignments(t *testing.T) {
	candidates := []int{4, 4, 8, 15, 16, 23, 42, 8}
	scores := map[int]float64{4: 1, 8: 9, 15: 4, 16: 4, 23: 7, 42: 2}
	positions := []string{"PG", "SG", "SF", "PF", "C", "G", "F", "UTIL"}

	lineup := Allocate(candidates, positions, scores)

	seen := map[int]bool{}
	for _, id := range lineup.PlayerIDs() {
		require.False(t, seen[id], "player %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, 6)
	assert.Equal(t, 27.0, lineup.ExpectedScore)
}

func TestOptimize_UnknownCandidatesGetDefaultScore(t *testing.T) {
	profiles := map[int]models.PlayerProfile{
		1: {ID: 1, RecentPerformance: 10, MarketValue: 0, Consistency: 0.1, InjuryRisk: 0.4, Trending: models.TrendingDown},
	}

	lineup := Optimize([]int{1, 99}, []string{"PG"}, profiles, models.StrategyBalanced)

	assert.Equal(t, []int{99}, lineup.Positions["PG"])
	assert.Equal(t, scoring.UnknownPlayerScore, lineup.ExpectedScore)
	assert.Equal(t, "Optimized for balanced strategy. Expected score: 50.0.", lineup.Rationale)
}

func TestOptimize_StrategyChangesRanking(t *testing.T) {
	profiles := map[int]models.PlayerProfile{
		// valuable but volatile
		1: {ID: 1, RecentPerformance: 60, MarketValue: 1500, Consistency: 0.5, InjuryRisk: 0.35, Trending: models.TrendingStable},
		// steady and healthy
		2: {ID: 2, RecentPerformance: 62, MarketValue: 100, Consistency: 0.9, InjuryRisk: 0.05, Trending: models.TrendingStable},
	}

	highRisk := Optimize([]int{1, 2}, []string{"PG"}, profiles, models.StrategyHighRisk)
	conservative := Optimize([]int{1, 2}, []string{"PG"}, profiles, models.StrategyConservative)

	assert.Equal(t, []int{1}, highRisk.Positions["PG"])
	assert.Equal(t, []int{2}, conservative.Positions["PG"])
}

func TestRationale(t *testing.T) {
	profiles := map[int]models.PlayerProfile{
		1: {ID: 1, MarketValue: 1200, Trending: models.TrendingUp},
		2: {ID: 2, MarketValue: 1000, Trending: models.TrendingUp},
		3: {ID: 3, MarketValue: 900, Trending: models.TrendingUp},
		4: {ID: 4, MarketValue: 10, Trending: models.TrendingDown},
	}

	tests := []struct {
		name     string
		ids      []int
		expected string
	}{
		{
			name:     "base clauses only",
			ids:      []int{1, 4},
			expected: "Optimized for conservative strategy. Expected score: 12.3.",
		},
		{
			name:     "trending and value clauses",
			ids:      []int{1, 2, 3},
			expected: "Optimized for conservative strategy. Expected score: 12.3. 3 players trending upward. High-value player concentration.",
		},
		{
			name:     "two trending players add no clause",
			ids:      []int{1, 2, 4},
			expected: "Optimized for conservative strategy. Expected score: 12.3.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lineup := models.NewLineupAssignment([]string{"X"})
			for _, id := range tt.ids {
				lineup.Assign("X", id)
			}
			lineup.ExpectedScore = 12.34
			assert.Equal(t, tt.expected, Rationale(lineup, profiles, models.StrategyConservative))
		})
	}
}
