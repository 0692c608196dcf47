package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Agent endpoints
	ChatHandler gin.HandlerFunc

	// Schedule endpoints
	ValidateScheduleHandler  gin.HandlerFunc
	RecommendScheduleHandler gin.HandlerFunc

	// Operational endpoints
	HealthHandler  gin.HandlerFunc
	MetricsHandler gin.HandlerFunc
}
