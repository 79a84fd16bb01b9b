package models

import (
	"encoding/json"
	"time"
)

// Preference keys accepted by the preference update endpoint.
const (
	PrefRiskAppetite      = "risk_appetite"
	PrefBudget            = "budget"
	PrefFavoritePositions = "favorite_positions"
	PrefFavoriteTeams     = "favorite_teams"
	PrefAvoidPlayers      = "avoid_players"
)

// Preferences is the per-session record of user tastes.
type Preferences struct {
	RiskAppetite      string   `json:"risk_appetite"`
	Budget            *float64 `json:"budget"`
	FavoritePositions []string `json:"favorite_positions"`
	FavoriteTeams     []string `json:"favorite_teams"`
	AvoidPlayers      []string `json:"avoid_players"`
}

// DefaultPreferences returns the starting preferences of a new session.
func DefaultPreferences() Preferences {
	return Preferences{
		RiskAppetite:      string(StrategyBalanced),
		FavoritePositions: []string{},
		FavoriteTeams:     []string{},
		AvoidPlayers:      []string{},
	}
}

// ChatRole identifies the author of a conversation turn.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatTurn is one message in a session's conversation history.
type ChatTurn struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// Session is a conversational context keyed by an opaque identifier.
type Session struct {
	ID          string      `json:"id"`
	Preferences Preferences `json:"preferences"`
	History     []ChatTurn  `json:"history"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewSession creates a session seeded with the given history.
func NewSession(id string, seed []ChatTurn, now time.Time) *Session {
	history := make([]ChatTurn, len(seed))
	copy(history, seed)
	return &Session{
		ID:          id,
		Preferences: DefaultPreferences(),
		History:     history,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ChatContext is optional structured context sent with a chat message.
type ChatContext struct {
	LeagueInfo       map[string]interface{} `json:"league_info,omitempty"`
	AvailablePlayers []json.RawMessage      `json:"available_players,omitempty"`
}

// ChatRequest is the body of the chat endpoint and of websocket frames.
type ChatRequest struct {
	Message   string       `json:"message" binding:"required"`
	SessionID string       `json:"session_id"`
	Context   *ChatContext `json:"context,omitempty"`
}

// ChatResult is the assistant's reply to one message.
type ChatResult struct {
	Response           string            `json:"response"`
	Timestamp          time.Time         `json:"timestamp"`
	IsLineupSuggestion bool              `json:"is_lineup_suggestion"`
	LineupData         *LineupSuggestion `json:"lineup_data,omitempty"`
	Error              string            `json:"error,omitempty"`
}

// PreferenceUpdate is the body of the preference endpoint.
type PreferenceUpdate struct {
	SessionID string `json:"session_id"`
	Key       string `json:"key" binding:"required"`
	Value     string `json:"value"`
}

// PlayerQuery is the body of the player-info endpoint.
type PlayerQuery struct {
	PlayerID  int    `json:"player_id" binding:"required"`
	SessionID string `json:"session_id"`
}
