package main

import (
	"os"

	"github.com/toonforge/battlelab/internal/advisor"
	"github.com/toonforge/battlelab/internal/api"
	"github.com/toonforge/battlelab/internal/config"
	"github.com/toonforge/battlelab/internal/constants"
	"github.com/toonforge/battlelab/internal/enrich"
	"github.com/toonforge/battlelab/internal/loader"
	"github.com/toonforge/battlelab/internal/logging"
	"github.com/toonforge/battlelab/internal/metrics"
	"github.com/toonforge/battlelab/internal/service"
)

func main() {
	// Configuration path may be provided via BATTLELAB_CONFIG or defaults
	// to ./battlelab_config.json in the current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./battlelab_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid battlelab configuration", err, logging.Fields{"config_path": configPath, "hint": "create a battlelab_config.json with a 'character_list' array of character objects (character_id,display_name,rarity,archetype,base stats,skills{skill_id,skill_name,skill_type,description}) and optional keys: server.address, database.path, advisor.model, advisor.system_prompt, big_hit_threshold"})
	}

	if cfg.SystemPromptTemplate != "" {
		advisor.SetSystemPrompt(cfg.SystemPromptTemplate)
	}
	if cfg.BigHitThreshold > 0 {
		metrics.SetBigHitThreshold(cfg.BigHitThreshold)
	}

	// The DB path may be configured via BATTLELAB_DB, the config file, or
	// defaults to a data/ directory for local development.
	dbPath := os.Getenv(constants.EnvDatabasePath)
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}
	if dbPath == "" {
		dbPath = "./data/battlelab.db"
	}
	db, err := enrich.OpenAndMigrate(dbPath, cfg.Characters, cfg.Skills)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	lookup, err := enrich.Load(db)
	if err != nil {
		logging.Fatal("Failed to load enrichment data", err, nil)
	}

	battleLoader := loader.New(lookup)

	// Without an API key all recommendations come from the deterministic
	// fallback.
	var adv advisor.Advisor
	if os.Getenv(constants.EnvOpenAIAPIKey) != "" {
		adv = advisor.NewClient(cfg.AdvisorModel)
	} else {
		logging.Warn("OPENAI_API_KEY not set, recommendations use the fallback only", nil)
	}

	analyzerService := service.NewAnalyzerService()
	advisorService := service.NewAdvisorService(battleLoader, adv)

	handler := api.NewHandler(analyzerService, advisorService)
	router := api.NewRouter(handler)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
