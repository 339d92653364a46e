package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelle/marketing-backend/internal/apierr"
	"github.com/aurelle/marketing-backend/internal/cache"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/repos"
	"github.com/aurelle/marketing-backend/internal/types"
)

type AnalyticsService interface {
	PlatformOverview(ctx context.Context) (*types.PlatformOverview, error)
	UserAnalytics(ctx context.Context, userID uuid.UUID) (*types.UserAnalytics, error)
}

type analyticsService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	productRepo  repos.ProductRepo
	purchaseRepo repos.PurchaseRepo
	interestRepo repos.UserInterestRepo
	cacheStore   cache.Cache
}

func NewAnalyticsService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, productRepo repos.ProductRepo, purchaseRepo repos.PurchaseRepo, interestRepo repos.UserInterestRepo, cacheStore cache.Cache) AnalyticsService {
	return &analyticsService{
		db:           db,
		log:          log.With("service", "AnalyticsService"),
		userRepo:     userRepo,
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		interestRepo: interestRepo,
		cacheStore:   cacheStore,
	}
}

func (as *analyticsService) PlatformOverview(ctx context.Context) (*types.PlatformOverview, error) {
	key := cache.Key("platform_overview", "global", nil)
	var cached types.PlatformOverview
	if as.cacheStore.Get(ctx, key, &cached) {
		return &cached, nil
	}

	overview := &types.PlatformOverview{GeneratedAt: time.Now()}
	var err error
	if overview.TotalUsers, err = as.userRepo.Count(ctx, nil); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if overview.TotalProducts, err = as.productRepo.Count(ctx, nil); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if overview.TotalPurchases, err = as.purchaseRepo.Count(ctx, nil); err != nil {
		return nil, fmt.Errorf("count purchases: %w", err)
	}
	if overview.TotalInterests, err = as.interestRepo.Count(ctx, nil); err != nil {
		return nil, fmt.Errorf("count interests: %w", err)
	}
	if overview.TotalRevenue, err = as.purchaseRepo.SumAmount(ctx, nil); err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	if overview.AverageOrderValue, err = as.purchaseRepo.AvgAmount(ctx, nil); err != nil {
		return nil, fmt.Errorf("average order value: %w", err)
	}

	since := time.Now().AddDate(0, 0, -30)
	if overview.NewUsers30d, err = as.userRepo.CountCreatedSince(ctx, nil, since); err != nil {
		return nil, fmt.Errorf("count new users: %w", err)
	}
	if overview.Purchases30d, err = as.purchaseRepo.CountSince(ctx, nil, since); err != nil {
		return nil, fmt.Errorf("count recent purchases: %w", err)
	}
	if overview.Revenue30d, err = as.purchaseRepo.SumAmountSince(ctx, nil, since); err != nil {
		return nil, fmt.Errorf("sum recent revenue: %w", err)
	}

	as.cacheStore.Set(ctx, key, overview, cache.TTLPlatformOverview)
	return overview, nil
}

func (as *analyticsService) UserAnalytics(ctx context.Context, userID uuid.UUID) (*types.UserAnalytics, error) {
	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound(fmt.Errorf("user %s not found", userID))
	}

	purchases, err := as.purchaseRepo.GetByUserID(ctx, nil, userID, 1000)
	if err != nil {
		return nil, fmt.Errorf("fetch purchases: %w", err)
	}
	interests, err := as.interestRepo.GetByUserID(ctx, nil, userID, 200)
	if err != nil {
		return nil, fmt.Errorf("fetch interests: %w", err)
	}

	analytics := &types.UserAnalytics{
		UserID:             userID,
		Email:              user.Email,
		MemberSince:        user.CreatedAt,
		TotalPurchases:     len(purchases),
		MonthlySpending:    map[string]float64{},
		InterestCategories: map[string]types.CategoryAnalytics{},
	}

	for _, purchase := range purchases {
		analytics.TotalSpent += purchase.Amount
		month := purchase.Timestamp.Format("2006-01")
		analytics.MonthlySpending[month] += purchase.Amount
	}
	if len(purchases) > 0 {
		analytics.AveragePurchase = analytics.TotalSpent / float64(len(purchases))
	}

	for _, interest := range interests {
		key := string(interest.Category)
		entry := analytics.InterestCategories[key]
		entry.Count++
		entry.Interests = append(entry.Interests, interest)
		analytics.InterestCategories[key] = entry
	}
	for key, entry := range analytics.InterestCategories {
		var sum float64
		for _, interest := range entry.Interests {
			sum += interest.ConfidenceScore
		}
		entry.AvgConfidence = sum / float64(entry.Count)
		analytics.InterestCategories[key] = entry
	}

	return analytics, nil
}
