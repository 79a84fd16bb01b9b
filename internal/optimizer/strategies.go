package optimizer

import (
	"sort"

	"github.com/stitts-dev/fusion-ai/internal/models"
	"github.com/stitts-dev/fusion-ai/internal/scoring"
)

// MaxSuggestionSize caps a suggested lineup regardless of how many distinct
// positions the roster has.
const MaxSuggestionSize = 5

// variant is a fixed ranking policy for roster suggestions.
type variant struct {
	key        func(models.RosterPlayer) float64
	contribute func(models.RosterPlayer) float64
	risk       models.RiskLevel
	confidence float64
	reasoning  string
}

var (
	conservativeVariant = variant{
		key: func(p models.RosterPlayer) float64 {
			return p.Consistency*0.6 + (p.RecentPerformance/50)*0.4
		},
		contribute: func(p models.RosterPlayer) float64 {
			return p.RecentPerformance * p.Consistency
		},
		risk:       models.RiskLow,
		confidence: 0.85,
		reasoning:  "Safe lineup focused on consistent, reliable performers",
	}

	aggressiveVariant = variant{
		key: func(p models.RosterPlayer) float64 {
			return p.Trend*2 + p.RecentPerformance*0.5 + p.NFTValue*0.3
		},
		contribute: func(p models.RosterPlayer) float64 {
			return p.RecentPerformance * (1 + p.Trend*0.5)
		},
		risk:       models.RiskHigh,
		confidence: 0.65,
		reasoning:  "High-risk lineup with breakout potential and trending players",
	}

	balancedVariant = variant{
		key: scoring.EnrichedScore,
		contribute: func(p models.RosterPlayer) float64 {
			return p.RecentPerformance
		},
		risk:       models.RiskMedium,
		confidence: 0.78,
		reasoning:  "Balanced lineup with consistent performers and upside potential",
	}
)

func variantFor(strategy models.Strategy) variant {
	switch strategy {
	case models.StrategyConservative:
		return conservativeVariant
	case models.StrategyAggressive:
		return aggressiveVariant
	default:
		// high-risk only changes scoring weights; its suggestion is balanced.
		return balancedVariant
	}
}

// GenerateSuggestion picks the best roster player for each distinct position
// under the strategy's ranking, up to MaxSuggestionSize players.
func GenerateSuggestion(roster []models.RosterPlayer, strategy models.Strategy) models.LineupSuggestion {
	v := variantFor(strategy)

	sorted := make([]models.RosterPlayer, len(roster))
	copy(sorted, roster)
	sort.SliceStable(sorted, func(i, j int) bool {
		return v.key(sorted[i]) > v.key(sorted[j])
	})

	lineup := make([]models.RosterPlayer, 0, MaxSuggestionSize)
	filled := make(map[string]bool)
	expected := 0.0
	for _, p := range sorted {
		if filled[p.Position] {
			continue
		}
		filled[p.Position] = true
		lineup = append(lineup, p)
		expected += v.contribute(p)
		if len(lineup) == MaxSuggestionSize {
			break
		}
	}

	return models.LineupSuggestion{
		Players:       lineup,
		ExpectedScore: expected,
		RiskLevel:     v.risk,
		Reasoning:     v.reasoning,
		Confidence:    v.confidence,
	}
}
