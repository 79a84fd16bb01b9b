package models

import "time"

// LineupAssignment maps each requested position to the players filling it.
// Order keeps positions in first-requested order; Positions has an entry,
// possibly empty, for every label in Order.
type LineupAssignment struct {
	Positions     map[string][]int `json:"positions"`
	Order         []string         `json:"-"`
	ExpectedScore float64          `json:"expected_score"`
	Rationale     string           `json:"rationale"`
}

// NewLineupAssignment creates an assignment with an empty slot per distinct position.
func NewLineupAssignment(positions []string) LineupAssignment {
	a := LineupAssignment{
		Positions: make(map[string][]int, len(positions)),
		Order:     make([]string, 0, len(positions)),
	}
	for _, pos := range positions {
		if _, ok := a.Positions[pos]; ok {
			continue
		}
		a.Positions[pos] = []int{}
		a.Order = append(a.Order, pos)
	}
	return a
}

// Assign appends a player to a position slot.
func (a *LineupAssignment) Assign(position string, playerID int) {
	if _, ok := a.Positions[position]; !ok {
		a.Order = append(a.Order, position)
	}
	a.Positions[position] = append(a.Positions[position], playerID)
}

// PlayerIDs returns every assigned id in position order.
func (a LineupAssignment) PlayerIDs() []int {
	var ids []int
	for _, pos := range a.Order {
		ids = append(ids, a.Positions[pos]...)
	}
	return ids
}

// Size is the number of assigned players.
func (a LineupAssignment) Size() int {
	n := 0
	for _, ids := range a.Positions {
		n += len(ids)
	}
	return n
}

// LineupSuggestion is a structured lineup attached to a chat reply.
type LineupSuggestion struct {
	Players       []RosterPlayer `json:"players"`
	ExpectedScore float64        `json:"expected_score"`
	RiskLevel     RiskLevel      `json:"risk_level"`
	Reasoning     string         `json:"reasoning"`
	Confidence    float64        `json:"confidence"`
}

// AIMethod records which path produced a lineup.
type AIMethod string

const (
	AIMethodGemini    AIMethod = "gemini-ai"
	AIMethodRuleBased AIMethod = "rule-based"
)

// PredictionRequest is the body of the predict-lineup endpoint.
type PredictionRequest struct {
	LeagueID         *int64   `json:"leagueId" binding:"required"`
	PlayerAddress    string   `json:"playerAddress" binding:"required"`
	AvailablePlayers []int    `json:"availablePlayers" binding:"required"`
	Positions        []string `json:"positions" binding:"required"`
	OptimizationGoal string   `json:"optimizationGoal"`

	// RequestID correlates the prediction with the access log. Empty means
	// the predictor assigns one.
	RequestID string `json:"-"`
}

// PredictedLineup is the lineup section of a prediction response.
type PredictedLineup struct {
	Positions     map[string][]int `json:"positions"`
	ExpectedScore float64          `json:"expectedScore"`
	Confidence    float64          `json:"confidence"`
	Rationale     string           `json:"rationale"`
	AIMethod      AIMethod         `json:"aiMethod"`
}

// PredictionMetadata echoes request context back to the caller.
type PredictionMetadata struct {
	LeagueID      int64     `json:"leagueId"`
	PlayerAddress string    `json:"playerAddress"`
	Strategy      Strategy  `json:"strategy"`
	RequestID     string    `json:"requestId"`
	Timestamp     time.Time `json:"timestamp"`
}

// PredictionResponse is the full predict-lineup payload.
type PredictionResponse struct {
	Success  bool               `json:"success"`
	Lineup   PredictedLineup    `json:"lineup"`
	Metadata PredictionMetadata `json:"metadata"`
}
