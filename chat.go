package main

import (
	"log"
	"net/http"
	"os"

	"github.com/bniladridas/snapenhanceai/config"
	"github.com/bniladridas/snapenhanceai/models"
	"github.com/bniladridas/snapenhanceai/providers"
	"github.com/bniladridas/snapenhanceai/tools"
)

func main() {
	if err := loadEnvConfig(); err != nil {
		log.Fatalf("[main] configuration error: %v", err)
	}

	modelRegistry = loadModelRegistry()
	log.Printf("[main] %d models registered, default %s", len(modelRegistry.List()), modelRegistry.Default().ID)

	if ENABLE_CHAT_AUDIT {
		if err := InitAuditDB(); err != nil {
			log.Printf("[main] audit log disabled: %v", err)
			ENABLE_CHAT_AUDIT = false
		}
	}

	baseURL := os.Getenv("TOGETHER_API_URL")
	if baseURL == "" {
		baseURL = providers.DefaultTogetherURL
	}
	llmProvider = providers.NewTogetherProvider(baseURL, TOGETHER_API_KEY)

	toolDispatcher = tools.NewDispatcher(tools.Config{
		OpenWeatherMapKey: os.Getenv("OPENWEATHERMAP_API_KEY"),
		TimeZoneDBKey:     os.Getenv("TIMEZONEDB_API_KEY"),
		OpenCageKey:       os.Getenv("OPENCAGE_API_KEY"),
		HTTPClient:        http.DefaultClient,
	})

	if DEMO_MODE {
		log.Printf("[main] demo mode: upstream API calls are stubbed")
	}

	if err := StartHTTPServer(HTTP_PORT); err != nil {
		log.Fatalf("[main] HTTP server failed: %v", err)
	}
}

// loadModelRegistry reads config/models.yaml when present and falls
// back to the built-in model set otherwise.
func loadModelRegistry() *models.Registry {
	dir := os.Getenv("CONFIG_DIR")
	if dir == "" {
		dir = "config"
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		log.Printf("[main] no model config loaded (%v), using built-in models", err)
		return models.Builtin()
	}

	registry, err := config.BuildRegistry(cfg)
	if err != nil {
		log.Printf("[main] invalid model config (%v), using built-in models", err)
		return models.Builtin()
	}
	return registry
}
