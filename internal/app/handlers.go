package app

import (
	"github.com/aurelle/marketing-backend/internal/handlers"
	"github.com/aurelle/marketing-backend/internal/logger"
)

type Handlers struct {
	Auth           *handlers.AuthHandler
	User           *handlers.UserHandler
	Product        *handlers.ProductHandler
	Interest       *handlers.InterestHandler
	Recommendation *handlers.RecommendationHandler
	Marketing      *handlers.MarketingHandler
	Analytics      *handlers.AnalyticsHandler
	Cache          *handlers.CacheHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:           handlers.NewAuthHandler(serviceset.Auth),
		User:           handlers.NewUserHandler(log, serviceset.UserData),
		Product:        handlers.NewProductHandler(log, serviceset.Product),
		Interest:       handlers.NewInterestHandler(log, serviceset.Interest),
		Recommendation: handlers.NewRecommendationHandler(log, serviceset.Recommendation),
		Marketing:      handlers.NewMarketingHandler(log, serviceset.Marketing, serviceset.VisionBoard),
		Analytics:      handlers.NewAnalyticsHandler(log, serviceset.Analytics),
		Cache:          handlers.NewCacheHandler(log, clients.Cache),
	}
}
