package models

import "strings"

// Strategy names a weighting policy for scoring and ranking.
type Strategy string

const (
	StrategyBalanced     Strategy = "balanced"
	StrategyConservative Strategy = "conservative"
	StrategyAggressive   Strategy = "aggressive"
	StrategyHighRisk     Strategy = "high-risk"
)

// ParseStrategy normalizes a label. Unknown or empty labels resolve to
// balanced and ok is false so callers can report the substitution.
func ParseStrategy(label string) (s Strategy, ok bool) {
	switch Strategy(strings.ToLower(strings.TrimSpace(label))) {
	case StrategyBalanced:
		return StrategyBalanced, true
	case StrategyConservative:
		return StrategyConservative, true
	case StrategyAggressive:
		return StrategyAggressive, true
	case StrategyHighRisk:
		return StrategyHighRisk, true
	default:
		return StrategyBalanced, false
	}
}

// RiskLevel labels the volatility of a suggested lineup.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)
