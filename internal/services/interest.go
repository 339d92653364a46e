package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelle/marketing-backend/internal/apierr"
	"github.com/aurelle/marketing-backend/internal/cache"
	"github.com/aurelle/marketing-backend/internal/graph"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/repos"
	"github.com/aurelle/marketing-backend/internal/types"
)

const (
	// Purchases in a category below this count are treated as noise and do
	// not produce an inferred interest.
	inferenceMinPurchases = 2
	inferenceConfidence   = 0.1
	inferenceSource       = "purchase_analysis"
)

type InterestInput struct {
	Category        string  `json:"category"`
	Value           string  `json:"value"`
	ConfidenceScore float64 `json:"confidence_score"`
	Source          string  `json:"source"`
}

type InterestService interface {
	Add(ctx context.Context, userID uuid.UUID, input InterestInput) (*types.UserInterest, error)
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.UserInterest, error)
	GetByCategory(ctx context.Context, userID uuid.UUID, category types.InterestCategory) ([]types.UserInterest, error)
	Summary(ctx context.Context, userID uuid.UUID) (*types.InterestSummary, error)
	UpdateConfidence(ctx context.Context, interestID uuid.UUID, score float64) (*types.UserInterest, error)
	Delete(ctx context.Context, interestID uuid.UUID) (bool, error)
	AnalyzePurchases(ctx context.Context, userID uuid.UUID) ([]types.UserInterest, error)
}

type interestService struct {
	db           *gorm.DB
	log          *logger.Logger
	interestRepo repos.UserInterestRepo
	purchaseRepo repos.PurchaseRepo
	productRepo  repos.ProductRepo
	graphStore   graph.Store
	cacheStore   cache.Cache
}

func NewInterestService(db *gorm.DB, log *logger.Logger, interestRepo repos.UserInterestRepo, purchaseRepo repos.PurchaseRepo, productRepo repos.ProductRepo, graphStore graph.Store, cacheStore cache.Cache) InterestService {
	return &interestService{
		db:           db,
		log:          log.With("service", "InterestService"),
		interestRepo: interestRepo,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		graphStore:   graphStore,
		cacheStore:   cacheStore,
	}
}

// Add upserts an interest for the (user, category, value) triple. An existing
// row only moves upward: the stored confidence is the max of old and new.
func (is *interestService) Add(ctx context.Context, userID uuid.UUID, input InterestInput) (*types.UserInterest, error) {
	category, err := types.ParseInterestCategory(input.Category)
	if err != nil {
		return nil, apierr.Validation(err)
	}
	value := strings.TrimSpace(input.Value)
	if value == "" {
		return nil, apierr.Validation(fmt.Errorf("interest value is required"))
	}
	confidence, err := types.ValidateConfidence(input.ConfidenceScore)
	if err != nil {
		return nil, apierr.Validation(err)
	}
	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = "explicit"
	}

	interest, err := is.upsert(ctx, userID, category, value, confidence, source)
	if err != nil {
		return nil, err
	}

	if gErr := is.graphStore.RecordInterest(ctx, interest); gErr != nil {
		is.log.Warn("graph interest sync skipped", "user_id", userID.String(), "error", gErr)
	}
	is.invalidate(ctx, userID)
	return interest, nil
}

func (is *interestService) upsert(ctx context.Context, userID uuid.UUID, category types.InterestCategory, value string, confidence float64, source string) (*types.UserInterest, error) {
	existing, err := is.interestRepo.FindTriple(ctx, nil, userID, category, value)
	if err != nil {
		return nil, fmt.Errorf("lookup interest: %w", err)
	}
	if existing != nil {
		if confidence <= existing.ConfidenceScore {
			return existing, nil
		}
		updated, err := is.interestRepo.UpdateConfidence(ctx, nil, existing.ID, confidence)
		if err != nil {
			return nil, fmt.Errorf("raise interest confidence: %w", err)
		}
		return updated, nil
	}

	interest := &types.UserInterest{
		ID:              uuid.New(),
		UserID:          userID,
		Category:        category,
		Value:           value,
		ConfidenceScore: confidence,
		Source:          source,
		CreatedAt:       time.Now(),
	}
	if _, err := is.interestRepo.Create(ctx, nil, interest); err != nil {
		return nil, fmt.Errorf("create interest: %w", err)
	}
	return interest, nil
}

func (is *interestService) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]types.UserInterest, error) {
	if limit <= 0 {
		limit = 50
	}
	key := cache.Key("interests", userID.String(), map[string]string{"limit": fmt.Sprint(limit)})
	var cached []types.UserInterest
	if is.cacheStore.Get(ctx, key, &cached) {
		return cached, nil
	}

	interests, err := is.interestRepo.GetByUserID(ctx, nil, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch interests: %w", err)
	}
	is.cacheStore.Set(ctx, key, interests, cache.TTLInterests)
	return interests, nil
}

func (is *interestService) GetByCategory(ctx context.Context, userID uuid.UUID, category types.InterestCategory) ([]types.UserInterest, error) {
	interests, err := is.interestRepo.GetByCategory(ctx, nil, userID, category)
	if err != nil {
		return nil, fmt.Errorf("fetch interests by category: %w", err)
	}
	return interests, nil
}

func (is *interestService) Summary(ctx context.Context, userID uuid.UUID) (*types.InterestSummary, error) {
	interests, err := is.interestRepo.GetByUserID(ctx, nil, userID, 200)
	if err != nil {
		return nil, fmt.Errorf("fetch interests: %w", err)
	}

	summary := &types.InterestSummary{
		UserID:                userID,
		TotalInterests:        len(interests),
		AverageCategoryScores: map[string]float64{},
	}
	if len(interests) == 0 {
		return summary, nil
	}

	sums := map[string]float64{}
	counts := map[string]int{}
	for _, interest := range interests {
		key := string(interest.Category)
		sums[key] += interest.ConfidenceScore
		counts[key]++
	}
	for key, sum := range sums {
		summary.AverageCategoryScores[key] = sum / float64(counts[key])
	}

	top := interests
	if len(top) > 5 {
		top = top[:5]
	}
	summary.TopInterests = top

	recent := make([]types.UserInterest, len(interests))
	copy(recent, interests)
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	summary.RecentInterests = recent

	breakdown, err := is.interestRepo.TopCategories(ctx, nil, userID, 10)
	if err != nil {
		return nil, fmt.Errorf("aggregate interest categories: %w", err)
	}
	summary.TopCategories = breakdown
	return summary, nil
}

func (is *interestService) UpdateConfidence(ctx context.Context, interestID uuid.UUID, score float64) (*types.UserInterest, error) {
	confidence, err := types.ValidateConfidence(score)
	if err != nil {
		return nil, apierr.Validation(err)
	}
	interest, err := is.interestRepo.UpdateConfidence(ctx, nil, interestID, confidence)
	if err != nil {
		return nil, fmt.Errorf("update interest confidence: %w", err)
	}
	if interest == nil {
		return nil, apierr.NotFound(fmt.Errorf("interest %s not found", interestID))
	}
	is.invalidate(ctx, interest.UserID)
	return interest, nil
}

func (is *interestService) Delete(ctx context.Context, interestID uuid.UUID) (bool, error) {
	deleted, err := is.interestRepo.Delete(ctx, nil, interestID)
	if err != nil {
		return false, fmt.Errorf("delete interest: %w", err)
	}
	return deleted, nil
}

// AnalyzePurchases infers interests from purchase history. A category with at
// least inferenceMinPurchases purchases yields one interest whose confidence
// is 0.1 per purchase, capped at 1.0. Reruns never lower an existing score.
func (is *interestService) AnalyzePurchases(ctx context.Context, userID uuid.UUID) ([]types.UserInterest, error) {
	purchases, err := is.purchaseRepo.GetByUserID(ctx, nil, userID, 500)
	if err != nil {
		return nil, fmt.Errorf("fetch purchases: %w", err)
	}
	if len(purchases) == 0 {
		return []types.UserInterest{}, nil
	}

	counts := map[types.ProductCategory]int{}
	for _, purchase := range purchases {
		product, err := is.productRepo.GetByID(ctx, nil, purchase.ProductID)
		if err != nil {
			return nil, fmt.Errorf("fetch product: %w", err)
		}
		if product == nil {
			continue
		}
		counts[product.Category]++
	}

	inferred := []types.UserInterest{}
	for productCategory, count := range counts {
		if count < inferenceMinPurchases {
			continue
		}
		interestCategory, ok := types.InterestCategoryForPurchase(productCategory)
		if !ok {
			continue
		}
		confidence := inferenceConfidence * float64(count)
		if confidence > 1.0 {
			confidence = 1.0
		}

		interest, err := is.upsert(ctx, userID, interestCategory, string(interestCategory), confidence, inferenceSource)
		if err != nil {
			return nil, err
		}
		if gErr := is.graphStore.RecordInterest(ctx, interest); gErr != nil {
			is.log.Warn("graph interest sync skipped", "user_id", userID.String(), "error", gErr)
		}
		inferred = append(inferred, *interest)
	}

	if len(inferred) > 0 {
		is.invalidate(ctx, userID)
		is.log.Info("Inferred interests from purchases", "user_id", userID.String(), "inferred", len(inferred))
	}
	return inferred, nil
}

func (is *interestService) invalidate(ctx context.Context, userID uuid.UUID) {
	is.cacheStore.DeletePattern(ctx, cache.UserPattern("interests", userID.String()))
	is.cacheStore.DeletePattern(ctx, cache.UserPattern("recommendations", userID.String()))
	is.cacheStore.DeletePattern(ctx, cache.UserPattern("category_recommendations", userID.String()))
}
