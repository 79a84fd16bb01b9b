package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Trending is the direction of a player's recent form.
type Trending string

const (
	TrendingUp     Trending = "up"
	TrendingStable Trending = "stable"
	TrendingDown   Trending = "down"
)

// PlayerProfile carries the attributes the legacy scoring formula works on.
type PlayerProfile struct {
	ID                int      `json:"player_id" validate:"gt=0"`
	RecentPerformance float64  `json:"recent_performance" validate:"gte=0,lte=100"`
	MarketValue       float64  `json:"market_value" validate:"gte=0"`
	Consistency       float64  `json:"consistency" validate:"gte=0,lte=1"`
	InjuryRisk        float64  `json:"injury_risk" validate:"gte=0,lte=1"`
	Trending          Trending `json:"trending"`
	Position          string   `json:"position,omitempty"`
	Team              string   `json:"team,omitempty"`
	Trend             *float64 `json:"trend,omitempty" validate:"omitempty,gte=-1,lte=1"`
}

// NewPlayerProfile builds a profile and rejects out-of-domain attributes.
func NewPlayerProfile(id int, performance, marketValue, consistency, injuryRisk float64, trending Trending) (PlayerProfile, error) {
	p := PlayerProfile{
		ID:                id,
		RecentPerformance: performance,
		MarketValue:       marketValue,
		Consistency:       consistency,
		InjuryRisk:        injuryRisk,
		Trending:          Trending(strings.ToLower(string(trending))),
	}
	if err := p.Validate(); err != nil {
		return PlayerProfile{}, err
	}
	return p, nil
}

// Validate checks every bounded field of the profile.
func (p PlayerProfile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid player profile %d: %w", p.ID, err)
	}
	return nil
}

// RosterPlayer is the richer player record used by the conversational path.
type RosterPlayer struct {
	ID                int     `json:"id" validate:"gt=0"`
	Name              string  `json:"name" validate:"required"`
	Position          string  `json:"position" validate:"required"`
	RecentPerformance float64 `json:"recent_performance" validate:"gte=0,lte=100"`
	Consistency       float64 `json:"consistency" validate:"gte=0,lte=1"`
	NFTValue          float64 `json:"nft_value" validate:"gte=0"`
	Trend             float64 `json:"trend" validate:"gte=-1,lte=1"`
	Team              string  `json:"team"`
}

// Validate checks every bounded field of the roster player.
func (r RosterPlayer) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid roster player %d: %w", r.ID, err)
	}
	return nil
}

// PlayerStats is the wire form of a profile's attribute breakdown.
type PlayerStats struct {
	RecentPerformance float64  `json:"recentPerformance"`
	MarketValue       float64  `json:"marketValue"`
	Consistency       float64  `json:"consistency"`
	InjuryRisk        float64  `json:"injuryRisk"`
	Trending          Trending `json:"trending"`
}

// PlayerAnalysis is a single scored player.
type PlayerAnalysis struct {
	PlayerID int         `json:"playerId"`
	Score    float64     `json:"score"`
	Strategy Strategy    `json:"strategy"`
	Stats    PlayerStats `json:"stats"`
}
