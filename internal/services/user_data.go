package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aurelle/marketing-backend/internal/apierr"
	"github.com/aurelle/marketing-backend/internal/cache"
	"github.com/aurelle/marketing-backend/internal/graph"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/repos"
	"github.com/aurelle/marketing-backend/internal/types"
)

const (
	maxBulkPurchases = 100
	maxBulkInterests = 50
)

type PurchaseInput struct {
	ProductID uuid.UUID      `json:"product_id"`
	Amount    float64        `json:"amount"`
	Quantity  int            `json:"quantity"`
	Metadata  map[string]any `json:"metadata"`
}

type BulkIngestionInput struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Profile   map[string]any  `json:"profile_data"`
	Purchases []PurchaseInput `json:"purchases"`
	Interests []InterestInput `json:"interests"`
}

type BulkIngestionResult struct {
	User             *types.User `json:"user"`
	PurchasesCreated int         `json:"purchases_created"`
	InterestsCreated int         `json:"interests_created"`
}

type UserDataService interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, profile map[string]any) (*types.User, error)
	AddPurchase(ctx context.Context, userID uuid.UUID, input PurchaseInput) (*types.Purchase, error)
	GetPurchases(ctx context.Context, userID uuid.UUID, limit int) ([]types.Purchase, error)
	GetSpendingSummary(ctx context.Context, userID uuid.UUID) (*types.SpendingSummary, error)
	IngestBulk(ctx context.Context, input BulkIngestionInput) (*BulkIngestionResult, error)
}

type userDataService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	purchaseRepo repos.PurchaseRepo
	productRepo  repos.ProductRepo
	graphStore   graph.Store
	cacheStore   cache.Cache
	auth         AuthService
	interests    InterestService
}

func NewUserDataService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, purchaseRepo repos.PurchaseRepo, productRepo repos.ProductRepo, graphStore graph.Store, cacheStore cache.Cache, auth AuthService, interests InterestService) UserDataService {
	return &userDataService{
		db:           db,
		log:          log.With("service", "UserDataService"),
		userRepo:     userRepo,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		graphStore:   graphStore,
		cacheStore:   cacheStore,
		auth:         auth,
		interests:    interests,
	}
}

func (us *userDataService) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return user, nil
}

func (us *userDataService) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	user, err := us.userRepo.GetByEmail(ctx, nil, types.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("fetch user by email: %w", err)
	}
	return user, nil
}

func (us *userDataService) UpdateProfile(ctx context.Context, userID uuid.UUID, profile map[string]any) (*types.User, error) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return nil, apierr.Validation(fmt.Errorf("invalid profile data: %w", err))
	}
	user, err := us.userRepo.UpdateProfileData(ctx, nil, userID, datatypes.JSON(raw))
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound(fmt.Errorf("user %s not found", userID))
	}

	if gErr := us.graphStore.UpsertUser(ctx, user); gErr != nil {
		us.log.Warn("graph user sync skipped", "user_id", userID.String(), "error", gErr)
	}
	us.invalidateUserCache(ctx, userID)
	return user, nil
}

func (us *userDataService) AddPurchase(ctx context.Context, userID uuid.UUID, input PurchaseInput) (*types.Purchase, error) {
	amount, err := types.ValidatePrice(input.Amount)
	if err != nil {
		return nil, apierr.Validation(fmt.Errorf("invalid amount: %w", err))
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound(fmt.Errorf("user %s not found", userID))
	}

	product, err := us.productRepo.GetByID(ctx, nil, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("fetch product: %w", err)
	}
	if product == nil {
		return nil, apierr.NotFound(fmt.Errorf("product %s not found", input.ProductID))
	}

	metaRaw, err := json.Marshal(input.Metadata)
	if err != nil {
		return nil, apierr.Validation(fmt.Errorf("invalid purchase metadata: %w", err))
	}

	purchase := &types.Purchase{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: input.ProductID,
		Amount:    amount,
		Quantity:  input.Quantity,
		Metadata:  datatypes.JSON(metaRaw),
		Timestamp: time.Now(),
	}
	if _, err := us.purchaseRepo.Create(ctx, nil, purchase); err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}

	if gErr := us.graphStore.RecordPurchase(ctx, purchase); gErr != nil {
		us.log.Warn("graph purchase sync skipped", "user_id", userID.String(), "error", gErr)
	}
	us.invalidateUserCache(ctx, userID)

	us.log.Info("Added purchase", "user_id", userID.String(), "amount", amount)
	return purchase, nil
}

func (us *userDataService) GetPurchases(ctx context.Context, userID uuid.UUID, limit int) ([]types.Purchase, error) {
	if limit <= 0 {
		limit = 100
	}
	purchases, err := us.purchaseRepo.GetByUserID(ctx, nil, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch purchases: %w", err)
	}
	return purchases, nil
}

func (us *userDataService) GetSpendingSummary(ctx context.Context, userID uuid.UUID) (*types.SpendingSummary, error) {
	key := cache.Key("spending_summary", userID.String(), nil)
	var cached types.SpendingSummary
	if us.cacheStore.Get(ctx, key, &cached) {
		return &cached, nil
	}

	total, err := us.purchaseRepo.TotalSpentByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("sum purchase amounts: %w", err)
	}
	purchases, err := us.purchaseRepo.GetByUserID(ctx, nil, userID, 100)
	if err != nil {
		return nil, fmt.Errorf("fetch purchases: %w", err)
	}

	summary := &types.SpendingSummary{
		UserID:         userID,
		TotalSpent:     total,
		TotalPurchases: len(purchases),
	}
	if len(purchases) > 0 {
		summary.AveragePurchase = total / float64(len(purchases))
		recent := purchases
		if len(recent) > 5 {
			recent = recent[:5]
		}
		summary.RecentPurchases = recent
	}

	us.cacheStore.Set(ctx, key, summary, cache.TTLSpendingSummary)
	return summary, nil
}

func (us *userDataService) IngestBulk(ctx context.Context, input BulkIngestionInput) (*BulkIngestionResult, error) {
	if len(input.Purchases) > maxBulkPurchases {
		return nil, apierr.Validation(fmt.Errorf("maximum %d purchases per batch", maxBulkPurchases))
	}
	if len(input.Interests) > maxBulkInterests {
		return nil, apierr.Validation(fmt.Errorf("maximum %d interests per batch", maxBulkInterests))
	}

	user, _, err := us.auth.Register(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if len(input.Profile) > 0 {
		if user, err = us.UpdateProfile(ctx, user.ID, input.Profile); err != nil {
			return nil, err
		}
	}

	result := &BulkIngestionResult{User: user}
	for _, p := range input.Purchases {
		if _, err := us.AddPurchase(ctx, user.ID, p); err != nil {
			return nil, fmt.Errorf("ingest purchase: %w", err)
		}
		result.PurchasesCreated++
	}
	for _, i := range input.Interests {
		if _, err := us.interests.Add(ctx, user.ID, i); err != nil {
			return nil, fmt.Errorf("ingest interest: %w", err)
		}
		result.InterestsCreated++
	}

	us.log.Info("Bulk ingestion completed", "user_id", user.ID.String(),
		"purchases", result.PurchasesCreated, "interests", result.InterestsCreated)
	return result, nil
}

// invalidateUserCache drops every per-user derived entry after a write.
func (us *userDataService) invalidateUserCache(ctx context.Context, userID uuid.UUID) {
	categories := []string{"recommendations", "category_recommendations", "interests", "spending_summary", "similar_users"}
	var deleted int
	for _, category := range categories {
		deleted += us.cacheStore.DeletePattern(ctx, cache.UserPattern(category, userID.String()))
	}
	if deleted > 0 {
		us.log.Debug("Invalidated user cache entries", "user_id", userID.String(), "deleted", deleted)
	}
}
