package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fusion-ai/internal/models"
	"github.com/stitts-dev/fusion-ai/internal/optimizer"
	"github.com/stitts-dev/fusion-ai/internal/providers"
	"github.com/stitts-dev/fusion-ai/internal/session"
	"github.com/stitts-dev/fusion-ai/pkg/metrics"
)

var (
	ErrInvalidPreferenceKey   = errors.New("invalid preference key")
	ErrInvalidPreferenceValue = errors.New("invalid preference value")
)

// DefaultSessionID is used when a request carries no session id.
const DefaultSessionID = "default"

// ChatErrorResponse is the reply sent when the model cannot answer.
const ChatErrorResponse = "I apologize, but I'm having trouble processing your request. Could you please rephrase that?"

var errDelegateNotConfigured = errors.New("GEMINI_API_KEY not configured")

var lineupKeywords = []string{"lineup", "suggest", "recommend", "team", "players"}

var quickSuggestions = []string{
	"Suggest a balanced lineup for me",
	"Show me a high-risk, high-reward lineup",
	"I want a safe, consistent lineup",
	"What's the best strategy for a small league?",
	"Explain how NFT values affect my lineup",
	"Which players are trending up right now?",
	"Help me build a team under 50 FLOW budget",
	"Compare conservative vs aggressive strategies",
}

// Assistant runs the conversational side of the service: chat turns,
// per-session preferences and roster lookups.
type Assistant struct {
	store    session.Store
	roster   *providers.Roster
	delegate Delegate
	metrics  *metrics.Manager
	logger   *logrus.Logger
	now      func() time.Time
}

// NewAssistant creates an assistant. delegate may be nil, in which case chat
// replies degrade to the apology text.
func NewAssistant(store session.Store, roster *providers.Roster, delegate Delegate, m *metrics.Manager, logger *logrus.Logger) *Assistant {
	return &Assistant{
		store:    store,
		roster:   roster,
		delegate: delegate,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// IsLineupRequest reports whether a message asks for lineup help.
func IsLineupRequest(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range lineupKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// QuickSuggestions returns canned prompts for the chat UI.
func (a *Assistant) QuickSuggestions() []string {
	out := make([]string, len(quickSuggestions))
	copy(out, quickSuggestions)
	return out
}

func normalizeSessionID(id string) string {
	if id = strings.TrimSpace(id); id == "" {
		return DefaultSessionID
	}
	return id
}

// loadSession returns the stored session or a freshly seeded one.
func (a *Assistant) loadSession(ctx context.Context, id string) (*models.Session, error) {
	sess, err := a.store.Get(ctx, id)
	if errors.Is(err, session.ErrSessionNotFound) {
		return models.NewSession(id, SeedHistory(), a.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return sess, nil
}

func (a *Assistant) saveSession(ctx context.Context, sess *models.Session) error {
	sess.UpdatedAt = a.now()
	if err := a.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sess.ID, err)
	}
	return nil
}

// Chat answers one message within a session. A failing or missing delegate
// does not produce an error: the result carries the apology text and the
// failure in its Error field.
func (a *Assistant) Chat(ctx context.Context, sessionID, message string, chatCtx *models.ChatContext) (*models.ChatResult, error) {
	sessionID = normalizeSessionID(sessionID)
	log := a.logger.WithField("session_id", sessionID)

	sess, err := a.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	prompt := BuildChatPrompt(message, sess.Preferences, chatCtx)
	reply, chatErr := a.sendChat(ctx, sess.History, prompt)

	result := &models.ChatResult{
		Timestamp:          a.now().UTC(),
		IsLineupSuggestion: IsLineupRequest(message),
	}
	if chatErr != nil {
		log.WithError(chatErr).Warn("Chat reply failed")
		result.Response = ChatErrorResponse
		result.Error = chatErr.Error()
	} else {
		result.Response = reply
		sess.History = append(sess.History,
			models.ChatTurn{Role: models.RoleUser, Text: prompt},
			models.ChatTurn{Role: models.RoleModel, Text: reply},
		)
	}

	if result.IsLineupSuggestion {
		strategy, _ := models.ParseStrategy(sess.Preferences.RiskAppetite)
		suggestion := optimizer.GenerateSuggestion(a.roster.All(), strategy)
		result.LineupData = &suggestion
	}

	if err := a.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	a.metrics.RecordChatMessage(result.LineupData != nil)
	log.WithFields(logrus.Fields{
		"lineup":  result.IsLineupSuggestion,
		"history": len(sess.History),
	}).Debug("Chat message handled")

	return result, nil
}

func (a *Assistant) sendChat(ctx context.Context, history []models.ChatTurn, prompt string) (string, error) {
	if a.delegate == nil {
		a.metrics.RecordFallback(fallbackNotConfigured)
		return "", errDelegateNotConfigured
	}
	start := time.Now()
	reply, err := a.delegate.Chat(ctx, history, prompt)
	a.metrics.ObserveDelegateLatency("chat", err, time.Since(start))
	if err != nil {
		a.metrics.RecordFallback(fallbackDelegateError)
		return "", err
	}
	return reply, nil
}

// UpdatePreference sets one preference on a session, creating the session if
// needed. List preferences take comma-separated values.
func (a *Assistant) UpdatePreference(ctx context.Context, sessionID, key, value string) error {
	sessionID = normalizeSessionID(sessionID)

	sess, err := a.loadSession(ctx, sessionID)
	if err != nil {
		return err
	}

	prefs := &sess.Preferences
	switch key {
	case models.PrefRiskAppetite:
		prefs.RiskAppetite = strings.ToLower(strings.TrimSpace(value))
	case models.PrefBudget:
		budget, err := parseBudget(value)
		if err != nil {
			return err
		}
		prefs.Budget = budget
	case models.PrefFavoritePositions:
		prefs.FavoritePositions = splitList(value)
	case models.PrefFavoriteTeams:
		prefs.FavoriteTeams = splitList(value)
	case models.PrefAvoidPlayers:
		prefs.AvoidPlayers = splitList(value)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidPreferenceKey, key)
	}

	if err := a.saveSession(ctx, sess); err != nil {
		return err
	}

	a.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"key":        key,
	}).Info("Preference updated")
	return nil
}

// parseBudget accepts an empty value as "no budget".
func parseBudget(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	budget, err := strconv.ParseFloat(value, 64)
	if err != nil || budget < 0 {
		return nil, fmt.Errorf("%w: budget must be a non-negative number, got %q", ErrInvalidPreferenceValue, value)
	}
	return &budget, nil
}

func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// PlayerInfo looks up a roster player. The roster is shared by all sessions.
func (a *Assistant) PlayerInfo(ctx context.Context, sessionID string, playerID int) (models.RosterPlayer, error) {
	player, ok := a.roster.Find(playerID)
	if !ok {
		return models.RosterPlayer{}, fmt.Errorf("player %d: %w", playerID, ErrPlayerNotFound)
	}
	a.logger.WithFields(logrus.Fields{
		"session_id": normalizeSessionID(sessionID),
		"player_id":  playerID,
	}).Debug("Player info served")
	return player, nil
}

// Reset restores a session's history to the seed, keeping its preferences.
// It reports whether the session existed.
func (a *Assistant) Reset(ctx context.Context, sessionID string) (bool, error) {
	sessionID = normalizeSessionID(sessionID)

	sess, err := a.store.Get(ctx, sessionID)
	if errors.Is(err, session.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	sess.History = SeedHistory()
	if err := a.saveSession(ctx, sess); err != nil {
		return false, err
	}

	a.logger.WithField("session_id", sessionID).Info("Conversation reset")
	return true, nil
}

// StoreHealthy pings the session store.
func (a *Assistant) StoreHealthy(ctx context.Context) error {
	return a.store.Ping(ctx)
}

// StoreName names the session backend.
func (a *Assistant) StoreName() string {
	return a.store.Name()
}
