package main

import (
	"context"
	"net/http"
	"os"

	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/api"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/config"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/database"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/identity"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/logger"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/middleware"
	"github.com/anirudh-pedro/Bug-Tracker-sub001/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	// Choix du backend de stockage
	var repo repository.Repository
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := database.ConnectPostgres(cfg)
		if err != nil {
			logger.Error("Database connection failed: %v", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.EnsureSchema(context.Background(), db); err != nil {
			logger.Error("Schema bootstrap failed: %v", err)
			os.Exit(1)
		}

		repo = repository.NewPostgres(db)
		logger.Info("Storage: postgres (%s@%s:%s/%s)", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName)

	default:
		mem := repository.NewMemory(cfg.SimulatedLatency)
		mem.Seed(repository.SampleBugs())
		repo = mem
		logger.Info("Storage: memory (latence simulée %v, données de démo chargées)", cfg.SimulatedLatency)
	}

	provider := identity.NewStaticProvider(cfg.APITokens)

	// Initialize routes
	router := api.SetupRouter(repo, provider)

	// Wrap router with CORS middleware
	handler := middleware.CORSMiddleware(router)

	// Start server
	logger.Success("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
