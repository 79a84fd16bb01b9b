package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fusion-ai/internal/models"
	"github.com/stitts-dev/fusion-ai/internal/services"
	"github.com/stitts-dev/fusion-ai/pkg/utils"
)

// ChatHandler handles the conversational endpoints
type ChatHandler struct {
	assistant *services.Assistant
	logger    *logrus.Logger
}

// ChatResponse wraps an assistant reply with its session.
type ChatResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	*models.ChatResult
}

// NewChatHandler creates a new chat handler
func NewChatHandler(assistant *services.Assistant, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		logger:    logger,
	}
}

func sessionOrDefault(id string) string {
	if id == "" {
		return services.DefaultSessionID
	}
	return id
}

// Chat answers a message within a session.
func (h *ChatHandler) Chat(c *gin.Context) {
	var request models.ChatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendValidationError(c, "Invalid request format", err.Error())
		return
	}
	sessionID := sessionOrDefault(request.SessionID)

	result, err := h.assistant.Chat(c.Request.Context(), sessionID, request.Message, request.Context)
	if err != nil {
		h.logger.WithError(err).WithField("session_id", sessionID).Error("Chat failed")
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to process chat message")
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Success:    true,
		SessionID:  sessionID,
		ChatResult: result,
	})
}

// UpdatePreferences sets one session preference.
func (h *ChatHandler) UpdatePreferences(c *gin.Context) {
	var request models.PreferenceUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendValidationError(c, "Invalid request format", err.Error())
		return
	}

	err := h.assistant.UpdatePreference(c.Request.Context(), request.SessionID, request.Key, request.Value)
	switch {
	case errors.Is(err, services.ErrInvalidPreferenceKey):
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(
			utils.ErrCodeInvalidPreference,
			fmt.Sprintf("Invalid preference key: %s", request.Key),
		))
		return
	case errors.Is(err, services.ErrInvalidPreferenceValue):
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(
			utils.ErrCodeInvalidPreference,
			fmt.Sprintf("Invalid value for preference %s", request.Key),
			err.Error(),
		))
		return
	case err != nil:
		h.logger.WithError(err).Error("Preference update failed")
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to update preference")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Preference '%s' updated to '%s'", request.Key, request.Value),
	})
}

// PlayerInfo returns a roster player.
func (h *ChatHandler) PlayerInfo(c *gin.Context) {
	var request models.PlayerQuery
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendValidationError(c, "Invalid request format", err.Error())
		return
	}

	player, err := h.assistant.PlayerInfo(c.Request.Context(), request.SessionID, request.PlayerID)
	if err != nil {
		utils.SendNotFound(c, "Player not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"player":  player,
	})
}

// Reset clears a session's conversation.
func (h *ChatHandler) Reset(c *gin.Context) {
	sessionID := sessionOrDefault(c.Query("session_id"))

	existed, err := h.assistant.Reset(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.WithError(err).WithField("session_id", sessionID).Error("Reset failed")
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to reset conversation")
		return
	}

	message := "No active session to reset"
	if existed {
		message = "Conversation reset successfully"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// QuickSuggestions lists canned prompts.
func (h *ChatHandler) QuickSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"suggestions": h.assistant.QuickSuggestions(),
	})
}
