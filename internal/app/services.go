package app

import (
	"gorm.io/gorm"

	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/services"
)

type Services struct {
	Auth           services.AuthService
	UserData       services.UserDataService
	Product        services.ProductService
	Interest       services.InterestService
	Recommendation services.RecommendationService
	Marketing      services.MarketingService
	VisionBoard    services.VisionBoardService
	Analytics      services.AnalyticsService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	auth := services.NewAuthService(db, log, reposet.User, clients.Graph, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	interest := services.NewInterestService(db, log, reposet.UserInterest, reposet.Purchase, reposet.Product, clients.Graph, clients.Cache)
	userData := services.NewUserDataService(db, log, reposet.User, reposet.Purchase, reposet.Product, clients.Graph, clients.Cache, auth, interest)
	product := services.NewProductService(db, log, reposet.Product, clients.Graph, clients.Cache)
	recommendation := services.NewRecommendationService(db, log, reposet.User, reposet.Product, reposet.Purchase, clients.Graph, clients.Cache)
	marketing := services.NewMarketingService(db, log, reposet.User, reposet.Product, reposet.UserInterest, recommendation, clients.Mailer, clients.MailFrom.DefaultFromEmail, clients.MailFrom.DefaultFromName)

	visionBoard, err := services.NewVisionBoardService(db, log, reposet.User, reposet.Product, reposet.UserInterest, recommendation)
	if err != nil {
		return Services{}, err
	}

	analytics := services.NewAnalyticsService(db, log, reposet.User, reposet.Product, reposet.Purchase, reposet.UserInterest, clients.Cache)

	return Services{
		Auth:           auth,
		UserData:       userData,
		Product:        product,
		Interest:       interest,
		Recommendation: recommendation,
		Marketing:      marketing,
		VisionBoard:    visionBoard,
		Analytics:      analytics,
	}, nil
}
