package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fusion-ai/internal/api/middleware"
	"github.com/stitts-dev/fusion-ai/internal/models"
	"github.com/stitts-dev/fusion-ai/internal/services"
	"github.com/stitts-dev/fusion-ai/pkg/utils"
)

// PredictionHandler handles lineup prediction endpoints
type PredictionHandler struct {
	predictor *services.LineupPredictor
	logger    *logrus.Logger
}

// PlayerAnalysisRequest is the body of the player-analysis endpoint.
type PlayerAnalysisRequest struct {
	PlayerID int    `json:"playerId"`
	Strategy string `json:"strategy"`
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictor *services.LineupPredictor, logger *logrus.Logger) *PredictionHandler {
	return &PredictionHandler{
		predictor: predictor,
		logger:    logger,
	}
}

// PredictLineup returns the best lineup for the request's candidates.
func (h *PredictionHandler) PredictLineup(c *gin.Context) {
	var request models.PredictionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithError(err).Warn("Invalid prediction request")
		utils.SendValidationError(c, "Invalid request format", err.Error())
		return
	}

	request.RequestID = c.GetString(middleware.RequestIDKey)

	response, err := h.predictor.Predict(c.Request.Context(), request)
	if err != nil {
		h.logger.WithError(err).Error("Error predicting lineup")
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to predict lineup")
		return
	}

	c.JSON(http.StatusOK, response)
}

// AnalyzePlayer scores a single player.
func (h *PredictionHandler) AnalyzePlayer(c *gin.Context) {
	var request PlayerAnalysisRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendValidationError(c, "Invalid request format", err.Error())
		return
	}
	if request.PlayerID == 0 {
		utils.SendValidationError(c, "Missing playerId", "")
		return
	}

	analysis, err := h.predictor.AnalyzePlayer(c.Request.Context(), request.PlayerID, request.Strategy)
	if err != nil {
		if errors.Is(err, services.ErrPlayerNotFound) {
			utils.SendNotFound(c, "Player not found")
			return
		}
		h.logger.WithError(err).WithField("player_id", request.PlayerID).Error("Error analyzing player")
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to analyze player")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"playerId": analysis.PlayerID,
		"score":    analysis.Score,
		"strategy": analysis.Strategy,
		"stats":    analysis.Stats,
	})
}
