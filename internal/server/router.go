package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aurelle/marketing-backend/internal/handlers"
	"github.com/aurelle/marketing-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string

	AuthMiddleware *middleware.AuthMiddleware

	AuthHandler           *handlers.AuthHandler
	UserHandler           *handlers.UserHandler
	ProductHandler        *handlers.ProductHandler
	InterestHandler       *handlers.InterestHandler
	RecommendationHandler *handlers.RecommendationHandler
	MarketingHandler      *handlers.MarketingHandler
	AnalyticsHandler      *handlers.AnalyticsHandler
	CacheHandler          *handlers.CacheHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Users
	api.GET("/users/me", cfg.UserHandler.GetMe)
	api.PUT("/users/me/profile", cfg.UserHandler.UpdateProfile)
	api.POST("/users/me/purchases", cfg.UserHandler.AddPurchase)
	api.GET("/users/me/purchases", cfg.UserHandler.GetPurchases)
	api.GET("/users/me/spending-summary", cfg.UserHandler.GetSpendingSummary)
	api.POST("/users/ingest", cfg.UserHandler.IngestBulk)

	// Products
	api.POST("/products", cfg.ProductHandler.Create)
	api.GET("/products", cfg.ProductHandler.List)
	api.GET("/products/search", cfg.ProductHandler.Search)
	api.GET("/products/featured", cfg.ProductHandler.GetFeatured)
	api.GET("/products/price-range", cfg.ProductHandler.GetByPriceRange)
	api.GET("/products/category/:category", cfg.ProductHandler.GetByCategory)
	api.GET("/products/:id", cfg.ProductHandler.GetByID)
	api.PUT("/products/:id", cfg.ProductHandler.Update)
	api.DELETE("/products/:id", cfg.ProductHandler.Delete)

	// Interests
	api.POST("/interests", cfg.InterestHandler.Add)
	api.GET("/interests", cfg.InterestHandler.GetMine)
	api.GET("/interests/summary", cfg.InterestHandler.Summary)
	api.POST("/interests/analyze", cfg.InterestHandler.Analyze)
	api.GET("/interests/category/:category", cfg.InterestHandler.GetByCategory)
	api.PUT("/interests/:id/confidence", cfg.InterestHandler.UpdateConfidence)
	api.DELETE("/interests/:id", cfg.InterestHandler.Delete)

	// Recommendations
	api.GET("/recommendations", cfg.RecommendationHandler.GetPersonalized)
	api.GET("/recommendations/trending", cfg.RecommendationHandler.GetTrending)
	api.GET("/recommendations/similar-users", cfg.RecommendationHandler.GetSimilarUsers)
	api.GET("/recommendations/similar-users/products", cfg.RecommendationHandler.GetFromSimilarUsers)
	api.GET("/recommendations/category/:category", cfg.RecommendationHandler.GetByCategory)

	// Marketing
	api.GET("/marketing/templates", cfg.MarketingHandler.Templates)
	api.POST("/marketing/emails/preview", cfg.MarketingHandler.PreviewEmail)
	api.POST("/marketing/emails/send", cfg.MarketingHandler.SendEmail)
	api.POST("/marketing/vision-board", cfg.MarketingHandler.BuildVisionBoard)
	api.POST("/marketing/vision-board/render", cfg.MarketingHandler.RenderVisionBoard)

	// Analytics
	api.GET("/analytics/overview", cfg.AnalyticsHandler.PlatformOverview)
	api.GET("/analytics/me", cfg.AnalyticsHandler.UserAnalytics)

	// Cache admin
	api.GET("/cache/stats", cfg.CacheHandler.Stats)
	api.DELETE("/cache/users/:id", cfg.CacheHandler.InvalidateUser)
	api.DELETE("/cache", cfg.CacheHandler.Flush)

	return router
}

// ParseOrigins splits a comma separated origin list from the environment.
func ParseOrigins(raw string) []string {
	var out []string
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
