package handlers

import (
	"github.com/Adriel2503/agente-reserva/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request-scoped logger tagged with the matched route.
func getLogger(c *gin.Context) *zap.Logger {
	logger := utils.GetLogger()
	if l, exists := c.Get("logger"); exists {
		if scoped, ok := l.(*zap.Logger); ok {
			logger = scoped
		}
	}
	return logger.With(zap.String("route", c.FullPath()))
}
