package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Jxnis/sui-portfolio-analysis-agent/config"
)

// StartServer initializes the REST API and blocks serving it.
func StartServer(cfg config.Config) error {
	r := gin.Default()
	SetupRoutes(r, cfg)
	return r.Run(":" + cfg.Port)
}
