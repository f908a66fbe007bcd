package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spacesedan/sentimeter/internal/api/handler"
	"github.com/spacesedan/sentimeter/internal/api/middleware"
)

// Setup creates and configures the Gin router
func Setup(sentimentHandler *handler.SentimentHandler, healthHandler *handler.HealthHandler) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sentiment := router.Group("/sentiment")
	{
		sentiment.POST("", sentimentHandler.AnalyzeText)
		sentiment.POST("/batch", sentimentHandler.AnalyzeBatch)
		sentiment.GET("/statistics", sentimentHandler.Statistics)
		sentiment.GET("/history", sentimentHandler.History)
	}

	return router
}
