package handlers

import (
	"context"
	"net/http"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/Adriel2503/agente-reserva/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ScheduleValidator interface {
	Validate(ctx context.Context, req models.ValidationRequest) models.ValidationResult
}

type ScheduleRecommender interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) models.Recommendation
}

// ScheduleHandler exposes the validation engine directly to the orchestrator.
type ScheduleHandler struct {
	Validator   ScheduleValidator
	Recommender ScheduleRecommender
}

func NewScheduleHandler(v ScheduleValidator, r ScheduleRecommender) *ScheduleHandler {
	return &ScheduleHandler{Validator: v, Recommender: r}
}

// ValidateHandler returns 200 with the verdict whether or not the slot is valid.
func (h *ScheduleHandler) ValidateHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.ValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid validation request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	result := h.Validator.Validate(c.Request.Context(), req)
	logger.Debug("Schedule validated", zap.Int("companyID", req.CompanyID), zap.Bool("valid", result.Valid))
	c.JSON(http.StatusOK, result)
}

func (h *ScheduleHandler) RecommendHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid recommendation request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	c.JSON(http.StatusOK, h.Recommender.Recommend(c.Request.Context(), req))
}
