package app

import (
	"gorm.io/gorm"

	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/repos"
)

type Repos struct {
	User         repos.UserRepo
	Product      repos.ProductRepo
	Purchase     repos.PurchaseRepo
	UserInterest repos.UserInterestRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		Product:      repos.NewProductRepo(db, log),
		Purchase:     repos.NewPurchaseRepo(db, log),
		UserInterest: repos.NewUserInterestRepo(db, log),
	}
}
