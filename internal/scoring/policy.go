// Package scoring holds the composite player scoring formulas. The legacy
// formula ranks candidates for the prediction endpoint; the enriched formula
// ranks roster players for conversational lineup suggestions. The two use
// different scaling constants and are kept as separate policies.
package scoring

import "github.com/stitts-dev/fusion-ai/internal/models"

// Policy is a weighted composite over a player's attributes.
type Policy struct {
	Name string

	PerformanceWeight float64
	ValueWeight       float64
	ConsistencyWeight float64
	TrendWeight       float64

	// ValueDivisor and ValueCap normalize raw market value.
	ValueDivisor float64
	ValueCap     float64
	// ConsistencyScale maps consistency from [0,1] onto the score scale.
	ConsistencyScale float64
	InjuryPenalty    float64

	TrendingBonus        map[models.Trending]float64
	DefaultTrendingBonus float64
}

// LegacyPolicy scores PlayerProfile records.
var LegacyPolicy = Policy{
	Name:              "legacy",
	PerformanceWeight: 0.45,
	ValueWeight:       0.30,
	ConsistencyWeight: 0.15,
	TrendWeight:       0.10,
	ValueDivisor:      100,
	ValueCap:          100,
	ConsistencyScale:  100,
	InjuryPenalty:     15,
	TrendingBonus: map[models.Trending]float64{
		models.TrendingUp:     20,
		models.TrendingStable: 10,
		models.TrendingDown:   0,
	},
	DefaultTrendingBonus: 10,
}

// EnrichedPolicy scores RosterPlayer records.
var EnrichedPolicy = Policy{
	Name:              "enriched",
	PerformanceWeight: 0.45,
	ValueWeight:       0.15,
	ConsistencyWeight: 0.30,
	TrendWeight:       0.10,
	ConsistencyScale:  50,
}

// enriched value and trend scaling
const (
	nftValueScale = 2.0
	trendScale    = 25.0
)

// TrendingBonusFor looks up the bonus for a trending label, defaulting to the
// stable treatment for unknown labels.
func (p Policy) TrendingBonusFor(t models.Trending) float64 {
	if bonus, ok := p.TrendingBonus[t]; ok {
		return bonus
	}
	return p.DefaultTrendingBonus
}
