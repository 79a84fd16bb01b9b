package scoring

import (
	"math"

	"github.com/stitts-dev/fusion-ai/internal/models"
)

// Strategy multipliers applied on top of the legacy score.
const (
	HighRiskMultiplier     = 1.25
	ConservativeMultiplier = 1.15

	highRiskValueThreshold       = 500.0
	conservativeConsistencyFloor = 0.7
	conservativeInjuryCeiling    = 0.3
)

// UnknownPlayerScore is used for candidates with no profile.
const UnknownPlayerScore = 50.0

// LegacyScore computes the base composite score of a profile, never negative.
func LegacyScore(p models.PlayerProfile) float64 {
	pol := LegacyPolicy
	normalizedValue := math.Min(p.MarketValue/pol.ValueDivisor, pol.ValueCap)

	score := pol.PerformanceWeight*p.RecentPerformance +
		pol.ValueWeight*normalizedValue +
		pol.ConsistencyWeight*(p.Consistency*pol.ConsistencyScale) +
		pol.TrendWeight*pol.TrendingBonusFor(p.Trending) -
		p.InjuryRisk*pol.InjuryPenalty

	return math.Max(0, score)
}

// StrategyMultiplier returns the factor a strategy applies to a profile's
// legacy score. Balanced, aggressive and unknown strategies leave it alone.
func StrategyMultiplier(p models.PlayerProfile, strategy models.Strategy) float64 {
	switch strategy {
	case models.StrategyHighRisk:
		if p.MarketValue > highRiskValueThreshold {
			return HighRiskMultiplier
		}
	case models.StrategyConservative:
		if p.Consistency > conservativeConsistencyFloor && p.InjuryRisk < conservativeInjuryCeiling {
			return ConservativeMultiplier
		}
	}
	return 1.0
}

// Score is the strategy-adjusted legacy score.
func Score(p models.PlayerProfile, strategy models.Strategy) float64 {
	return LegacyScore(p) * StrategyMultiplier(p, strategy)
}

// EnrichedScore computes the alternate composite used to rank roster players.
func EnrichedScore(r models.RosterPlayer) float64 {
	pol := EnrichedPolicy
	return pol.PerformanceWeight*r.RecentPerformance +
		pol.ConsistencyWeight*(r.Consistency*pol.ConsistencyScale) +
		pol.ValueWeight*(r.NFTValue*nftValueScale) +
		pol.TrendWeight*((r.Trend+1)*trendScale)
}
