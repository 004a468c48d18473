package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Jxnis/sui-portfolio-analysis-agent/api/handlers"
	"github.com/Jxnis/sui-portfolio-analysis-agent/config"
)

// SetupRoutes initializes all API endpoints
func SetupRoutes(router *gin.Engine, cfg config.Config) {
	chat := handlers.NewChatHandler(cfg)

	api := router.Group("/api")
	{
		api.POST("/chat", chat.Chat)
		api.GET("/chat/ws", chat.ChatWebSocket)
		api.GET("/stats", chat.Stats)
	}
	router.GET("/health", handlers.Health)
}
