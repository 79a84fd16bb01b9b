package optimizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stitts-dev/fusion-ai/internal/models"
	"github.com/stitts-dev/fusion-ai/internal/scoring"
)

// rationale thresholds
const (
	trendingUpClauseThreshold = 2
	highValueClauseThreshold  = 3000.0
)

type rankedCandidate struct {
	id    int
	score float64
}

// Allocate greedily assigns candidates to positions. Candidates are ranked by
// score, ties keeping input order, and each position in turn takes the best
// candidate not yet used. A position with nothing left stays empty. Duplicate
// candidate ids are considered once.
func Allocate(candidates []int, positions []string, scores map[int]float64) models.LineupAssignment {
	lineup := models.NewLineupAssignment(positions)

	ranked := make([]rankedCandidate, 0, len(candidates))
	seen := make(map[int]bool, len(candidates))
	for _, id := range candidates {
		if seen[id] {
			continue
		}
		seen[id] = true
		ranked = append(ranked, rankedCandidate{id: id, score: scores[id]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	used := make(map[int]bool, len(ranked))
	next := 0
	for _, pos := range positions {
		for next < len(ranked) && used[ranked[next].id] {
			next++
		}
		if next >= len(ranked) {
			break
		}
		pick := ranked[next]
		used[pick.id] = true
		lineup.Assign(pos, pick.id)
		lineup.ExpectedScore += pick.score
	}

	return lineup
}

// ScoreCandidates computes the strategy-adjusted score of every candidate.
// Candidates without a profile receive scoring.UnknownPlayerScore.
func ScoreCandidates(candidates []int, profiles map[int]models.PlayerProfile, strategy models.Strategy) map[int]float64 {
	scores := make(map[int]float64, len(candidates))
	for _, id := range candidates {
		if p, ok := profiles[id]; ok {
			scores[id] = scoring.Score(p, strategy)
		} else {
			scores[id] = scoring.UnknownPlayerScore
		}
	}
	return scores
}

// Optimize runs the rule-based path: score, allocate, explain.
func Optimize(candidates []int, positions []string, profiles map[int]models.PlayerProfile, strategy models.Strategy) models.LineupAssignment {
	scores := ScoreCandidates(candidates, profiles, strategy)
	lineup := Allocate(candidates, positions, scores)
	lineup.Rationale = Rationale(lineup, profiles, strategy)
	return lineup
}

// Rationale describes an assignment. It never affects scoring.
func Rationale(lineup models.LineupAssignment, profiles map[int]models.PlayerProfile, strategy models.Strategy) string {
	totalValue := 0.0
	trendingUp := 0
	for _, id := range lineup.PlayerIDs() {
		p, ok := profiles[id]
		if !ok {
			continue
		}
		totalValue += p.MarketValue
		if p.Trending == models.TrendingUp {
			trendingUp++
		}
	}

	parts := []string{
		fmt.Sprintf("Optimized for %s strategy.", strategy),
		fmt.Sprintf("Expected score: %.1f.", lineup.ExpectedScore),
	}
	if trendingUp > trendingUpClauseThreshold {
		parts = append(parts, fmt.Sprintf("%d players trending upward.", trendingUp))
	}
	if totalValue > highValueClauseThreshold {
		parts = append(parts, "High-value player concentration.")
	}
	return strings.Join(parts, " ")
}
