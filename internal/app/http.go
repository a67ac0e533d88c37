package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/RDarrylR/dsql-kabob-store/internal/api"
	"github.com/RDarrylR/dsql-kabob-store/internal/config"
	"github.com/RDarrylR/dsql-kabob-store/internal/logger"
	"github.com/RDarrylR/dsql-kabob-store/internal/middleware"
	"github.com/RDarrylR/dsql-kabob-store/internal/store"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra := setupInfra(cfg)

	// ----------------------------
	// Dependencies
	// ----------------------------

	storeService := store.NewService(infra.Sessions)

	// Schema and seed data are created on startup. Failure is non-fatal:
	// POST /api/initialize retries on demand.
	if err := storeService.Initialize(ctx); err != nil {
		logger.Error("database initialization failed, continuing", map[string]any{
			"error": err.Error(),
		})
	} else {
		logger.Info("database initialization complete", nil)
	}

	handler := api.NewHandler(storeService)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SanitizeRequest())

	handler.RegisterRoutes(router)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.Sessions.Close()
	}, nil
}
