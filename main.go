package main

import (
	"log"

	"github.com/Jxnis/sui-portfolio-analysis-agent/api"
	"github.com/Jxnis/sui-portfolio-analysis-agent/config"
)

func main() {
	cfg := config.Load()

	log.Printf("Starting portfolio analysis agent on port %s", cfg.Port)
	if err := api.StartServer(cfg); err != nil {
		log.Fatalf("API server failed: %v", err)
	}
}
