package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"gridapi/internal/config"
	"gridapi/internal/database"
	"gridapi/internal/handlers"
	"gridapi/internal/middlewares"
	"gridapi/internal/repositories"
	"gridapi/internal/routes"
	"gridapi/internal/services"
	"gridapi/internal/store"
)

// NewServer wires every dependency together and returns the configured HTTP
// server, ready for ListenAndServe.
func NewServer(log zerolog.Logger) (*http.Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info().Str("host", cfg.DBHost).Int("port", cfg.DBPort).Msg("database connection established")

	// Dependency injection
	st := store.New(db, log)
	catalogRepo := repositories.NewCatalogRepository(st)
	metadataService := services.NewMetadataService(catalogRepo)
	browseService := services.NewBrowseService(catalogRepo, st, log)
	insertService := services.NewInsertService(catalogRepo, st)
	schemaHandler := handlers.NewSchemaHandler(browseService)
	tableHandler := handlers.NewTableHandler(metadataService, browseService, insertService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	routes.RegisterRoutes(router, schemaHandler, tableHandler)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}, nil
}
