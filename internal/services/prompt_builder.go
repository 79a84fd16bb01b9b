package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/stitts-dev/fusion-ai/internal/models"
)

// SystemContext primes every conversation with the assistant persona.
const SystemContext = `You are an expert Fantasy Sports AI Assistant for Flow Fantasy Fusion, a blockchain-based fantasy sports platform on Flow.

Your role:
- Help users build optimal fantasy lineups
- Provide strategic advice based on player performance data
- Explain your reasoning clearly and conversationally
- Adapt to user preferences (risk appetite, budget, favorite teams)
- Be enthusiastic and engaging about fantasy sports

Key features of the platform:
- Users can stake FLOW, FUSD, or USDC tokens
- NBA Top Shot NFTs can be used as player entries
- Automated settlements via Forte Scheduled Transactions
- Prize pools distributed to top 3 winners (60%, 25%, 15%)

When suggesting lineups:
- Consider recent performance, consistency, and trends
- Balance risk vs reward based on user preferences
- Explain why each player is a good choice
- Provide expected scores and confidence levels
- Mention NFT values when relevant

Be conversational, helpful, and show personality!`

const contextAcknowledgement = "Got it! I'm ready to help you build winning lineups on Flow Fantasy Fusion. What would you like to work on?"

// SeedHistory is the history every new or reset session starts from.
func SeedHistory() []models.ChatTurn {
	return []models.ChatTurn{
		{Role: models.RoleUser, Text: SystemContext},
		{Role: models.RoleModel, Text: contextAcknowledgement},
	}
}

// BuildLineupPrompt lists each candidate's stats and asks for a JSON lineup.
// Candidates without a profile are omitted from the listing.
func BuildLineupPrompt(candidates []int, positions []string, profiles map[int]models.PlayerProfile, strategy models.Strategy) string {
	var players strings.Builder
	seen := make(map[int]bool, len(candidates))
	for _, id := range candidates {
		p, ok := profiles[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		fmt.Fprintf(&players, "Player %d: Performance=%.1f, Value=$%.0f, Consistency=%.2f, Trending=%s, Injury Risk=%.2f\n",
			id, p.RecentPerformance, p.MarketValue, p.Consistency, p.Trending, p.InjuryRisk)
	}

	var sb strings.Builder
	sb.WriteString("You are a fantasy sports AI assistant. Analyze these players and suggest the optimal lineup.\n\n")
	sb.WriteString("Available Players:\n")
	sb.WriteString(players.String())
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Required Positions: %s\n", strings.Join(positions, ", "))
	fmt.Fprintf(&sb, "Strategy: %s\n\n", strategy)
	sb.WriteString("Pick one distinct player id per required position, in the order the positions are listed.\n")
	sb.WriteString("Respond with only a JSON object of this shape:\n")
	sb.WriteString(`{"lineup": [player ids in order of positions], "expected_score": number, "rationale": "2-3 sentence explanation"}`)
	return sb.String()
}

// BuildChatPrompt appends the session preferences and any request context to
// the user's message.
func BuildChatPrompt(message string, prefs models.Preferences, chatCtx *models.ChatContext) string {
	parts := []string{message}

	if prefs.RiskAppetite != "" {
		parts = append(parts, "\nUser's risk preference: "+prefs.RiskAppetite)
	}
	if prefs.Budget != nil && *prefs.Budget != 0 {
		parts = append(parts, fmt.Sprintf("\nUser's budget: %s FLOW", strconv.FormatFloat(*prefs.Budget, 'f', -1, 64)))
	}
	if len(prefs.FavoriteTeams) > 0 {
		parts = append(parts, "\nFavorite teams: "+strings.Join(prefs.FavoriteTeams, ", "))
	}

	if chatCtx != nil {
		if chatCtx.LeagueInfo != nil {
			if data, err := json.Marshal(chatCtx.LeagueInfo); err == nil {
				parts = append(parts, "\nLeague info: "+string(data))
			}
		}
		if chatCtx.AvailablePlayers != nil {
			parts = append(parts, fmt.Sprintf("\nAvailable players: %d players", len(chatCtx.AvailablePlayers)))
		}
	}

	return strings.Join(parts, "\n")
}
