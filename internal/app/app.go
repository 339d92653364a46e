package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aurelle/marketing-backend/internal/db"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/middleware"
	"github.com/aurelle/marketing-backend/internal/server"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clientset, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	clientset.Graph.EnsureSchema(context.Background())

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, clientset, reposet)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, clientset)
	authMiddleware := middleware.NewAuthMiddleware(log, serviceset.Auth)

	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:        server.ParseOrigins(cfg.AllowedOrigins),
		AuthMiddleware:        authMiddleware,
		AuthHandler:           handlerset.Auth,
		UserHandler:           handlerset.User,
		ProductHandler:        handlerset.Product,
		InterestHandler:       handlerset.Interest,
		RecommendationHandler: handlerset.Recommendation,
		MarketingHandler:      handlerset.Marketing,
		AnalyticsHandler:      handlerset.Analytics,
		CacheHandler:          handlerset.Cache,
	})

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Clients:  clientset,
		Repos:    reposet,
		Services: serviceset,
	}, nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
