package handlers

import (
	"context"
	"net/http"

	"github.com/Adriel2503/agente-reserva/models"
	"github.com/Adriel2503/agente-reserva/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatProcessor answers one customer message. *ai.Agent satisfies it.
type ChatProcessor interface {
	Process(ctx context.Context, req models.ChatRequest) models.ChatResponse
}

type ChatHandler struct {
	Agent ChatProcessor
}

func NewChatHandler(agent ChatProcessor) *ChatHandler {
	return &ChatHandler{Agent: agent}
}

// HandleChat accepts {message, session_id, context} from the orchestrator. Agent
// failures still answer 200 with a fallback reply; only malformed input is rejected.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	logger := getLogger(c)

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid chat request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	resp := h.Agent.Process(c.Request.Context(), req)
	c.JSON(http.StatusOK, resp)
}
