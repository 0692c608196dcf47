package handlers

import (
	"net/http"

	"github.com/Adriel2503/agente-reserva/utils"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest health snapshot. The service stays up without
// Redis, so a degraded snapshot still answers 200.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
