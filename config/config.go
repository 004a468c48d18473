package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Verify required environment variables
	required := []string{
		"OPENROUTER_API_KEY",
	}

	for _, env := range required {
		if os.Getenv(env) == "" {
			log.Printf("Warning: %s environment variable not set\n", env)
		}
	}
}

// Config is the process configuration. It is loaded once at startup and
// passed explicitly into the components that need it.
type Config struct {
	Port string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	Model             string
	AppURL            string
	AppName           string

	SuiRPCURL        string
	CoinGeckoBaseURL string
}

// Load reads configuration from the environment. Unset values fall back to
// the service defaults; client constructors supply endpoint defaults for
// empty URLs.
func Load() Config {
	return Config{
		Port:              envOr("PORT", "8080"),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: os.Getenv("OPENROUTER_BASE_URL"),
		Model:             os.Getenv("OPENROUTER_MODEL"),
		AppURL:            os.Getenv("APP_URL"),
		AppName:           os.Getenv("APP_NAME"),
		SuiRPCURL:         os.Getenv("SUI_RPC_URL"),
		CoinGeckoBaseURL:  os.Getenv("COINGECKO_BASE_URL"),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
