package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurelle/marketing-backend/internal/cache"
	"github.com/aurelle/marketing-backend/internal/graph"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/repos"
	"github.com/aurelle/marketing-backend/internal/types"
)

const (
	fallbackScore     = 0.5
	fallbackReason    = "Popular product recommendation"
	categoryRecScore  = 0.8
	similarUserWeight = 0.8
	trendingDays      = 30
)

type RecommendationService interface {
	GetPersonalized(ctx context.Context, userID uuid.UUID, limit int) ([]types.Recommendation, error)
	GetByCategory(ctx context.Context, userID uuid.UUID, category types.ProductCategory, limit int) ([]types.Recommendation, error)
	GetTrending(ctx context.Context, limit int) ([]types.TrendingProduct, error)
	GetSimilarUsers(ctx context.Context, userID uuid.UUID, limit int) ([]types.SimilarUser, error)
	GetFromSimilarUsers(ctx context.Context, userID uuid.UUID, limit int) ([]types.Recommendation, error)
}

type recommendationService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	productRepo  repos.ProductRepo
	purchaseRepo repos.PurchaseRepo
	graphStore   graph.Store
	cacheStore   cache.Cache
}

func NewRecommendationService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, productRepo repos.ProductRepo, purchaseRepo repos.PurchaseRepo, graphStore graph.Store, cacheStore cache.Cache) RecommendationService {
	return &recommendationService{
		db:           db,
		log:          log.With("service", "RecommendationService"),
		userRepo:     userRepo,
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		graphStore:   graphStore,
		cacheStore:   cacheStore,
	}
}

// GetPersonalized returns up to limit recommendations. Graph candidates come
// first; when the graph is unavailable or returns fewer than limit, featured
// products the user has not bought pad the remainder. Unknown users get an
// empty slice, not an error.
func (rs *recommendationService) GetPersonalized(ctx context.Context, userID uuid.UUID, limit int) ([]types.Recommendation, error) {
	if limit <= 0 {
		limit = 10
	}

	key := cache.Key("recommendations", userID.String(), map[string]string{"limit": fmt.Sprint(limit)})
	var cached []types.Recommendation
	if rs.cacheStore.Get(ctx, key, &cached) {
		return cached, nil
	}

	user, err := rs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return []types.Recommendation{}, nil
	}

	recs := rs.graphRecommendations(ctx, userID, limit)
	if len(recs) < limit {
		padded, err := rs.padWithFallback(ctx, userID, recs, limit)
		if err != nil {
			return nil, err
		}
		recs = padded
	}

	rs.cacheStore.Set(ctx, key, recs, cache.TTLRecommendations)
	return recs, nil
}

func (rs *recommendationService) graphRecommendations(ctx context.Context, userID uuid.UUID, limit int) []types.Recommendation {
	candidates, err := rs.graphStore.UserRecommendations(ctx, userID, limit)
	if err != nil {
		if errors.Is(err, graph.ErrUnavailable) {
			rs.log.Warn("graph unavailable, serving fallback recommendations", "user_id", userID.String())
		} else {
			rs.log.Error("graph recommendation query failed", "user_id", userID.String(), "error", err)
		}
		return nil
	}

	recs := make([]types.Recommendation, 0, len(candidates))
	for _, candidate := range candidates {
		productID, err := uuid.Parse(candidate.ProductID)
		if err != nil {
			rs.log.Warn("Dropping candidate with malformed product id", "product_id", candidate.ProductID)
			continue
		}
		// The graph projection can lag the catalog; only products that still
		// exist relationally are recommendable, and the relational row owns
		// the category.
		product, err := rs.productRepo.GetByID(ctx, nil, productID)
		if err != nil {
			rs.log.Error("candidate lookup failed", "product_id", productID.String(), "error", err)
			continue
		}
		if product == nil {
			rs.log.Warn("Dropping candidate no longer in catalog", "product_id", productID.String())
			continue
		}
		recs = append(recs, types.Recommendation{
			ProductID: productID,
			Score:     types.ClampScore(candidate.Score),
			Reason:    candidate.Reason,
			Category:  product.Category,
		})
	}
	return recs
}

func (rs *recommendationService) padWithFallback(ctx context.Context, userID uuid.UUID, recs []types.Recommendation, limit int) ([]types.Recommendation, error) {
	purchased, err := rs.purchasedProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool, len(recs))
	for _, rec := range recs {
		seen[rec.ProductID] = true
	}

	featured, err := rs.productRepo.GetFeatured(ctx, nil, limit*2)
	if err != nil {
		return nil, fmt.Errorf("fetch featured products: %w", err)
	}
	for _, product := range featured {
		if len(recs) >= limit {
			break
		}
		if purchased[product.ID] || seen[product.ID] {
			continue
		}
		seen[product.ID] = true
		recs = append(recs, types.Recommendation{
			ProductID: product.ID,
			Score:     fallbackScore,
			Reason:    fallbackReason,
			Category:  product.Category,
		})
	}
	if recs == nil {
		recs = []types.Recommendation{}
	}
	return recs, nil
}

// GetByCategory recommends unpurchased products from one category at a flat
// score. The list is empty when the user already owns the whole category.
func (rs *recommendationService) GetByCategory(ctx context.Context, userID uuid.UUID, category types.ProductCategory, limit int) ([]types.Recommendation, error) {
	if limit <= 0 {
		limit = 10
	}

	key := cache.Key("category_recommendations", userID.String(), map[string]string{
		"category": string(category),
		"limit":    fmt.Sprint(limit),
	})
	var cached []types.Recommendation
	if rs.cacheStore.Get(ctx, key, &cached) {
		return cached, nil
	}

	purchased, err := rs.purchasedProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := rs.productRepo.GetByCategory(ctx, nil, category, limit*2)
	if err != nil {
		return nil, fmt.Errorf("fetch products by category: %w", err)
	}

	recs := []types.Recommendation{}
	for _, product := range products {
		if len(recs) >= limit {
			break
		}
		if purchased[product.ID] {
			continue
		}
		recs = append(recs, types.Recommendation{
			ProductID: product.ID,
			Score:     categoryRecScore,
			Reason:    fmt.Sprintf("Popular in %s", category),
			Category:  product.Category,
		})
	}

	rs.cacheStore.Set(ctx, key, recs, cache.TTLCategoryRecs)
	return recs, nil
}

func (rs *recommendationService) GetTrending(ctx context.Context, limit int) ([]types.TrendingProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	key := cache.Key("trending", "global", map[string]string{"limit": fmt.Sprint(limit)})
	var cached []types.TrendingProduct
	if rs.cacheStore.Get(ctx, key, &cached) {
		return cached, nil
	}

	raw, err := rs.graphStore.TrendingProducts(ctx, limit, trendingDays)
	if err != nil {
		if errors.Is(err, graph.ErrUnavailable) {
			rs.log.Warn("graph unavailable, trending list empty")
			return []types.TrendingProduct{}, nil
		}
		return nil, fmt.Errorf("fetch trending products: %w", err)
	}

	// Trend scores come back unbounded from the graph and are normalized into
	// [0,1] here. Products dropped from the catalog since the last sync are
	// filtered out, and the relational row wins for display fields.
	trending := make([]types.TrendingProduct, 0, len(raw))
	for _, item := range raw {
		product, err := rs.productRepo.GetByID(ctx, nil, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("validate trending product: %w", err)
		}
		if product == nil {
			rs.log.Warn("Dropping trending product no longer in catalog", "product_id", item.ProductID.String())
			continue
		}
		item.Name = product.Name
		item.Category = product.Category
		item.Price = product.Price
		item.TrendScore = types.ClampScore(item.TrendScore / 100.0)
		trending = append(trending, item)
	}

	rs.cacheStore.Set(ctx, key, trending, cache.TTLTrending)
	return trending, nil
}

func (rs *recommendationService) GetSimilarUsers(ctx context.Context, userID uuid.UUID, limit int) ([]types.SimilarUser, error) {
	if limit <= 0 {
		limit = 5
	}

	key := cache.Key("similar_users", userID.String(), map[string]string{"limit": fmt.Sprint(limit)})
	var cached []types.SimilarUser
	if rs.cacheStore.Get(ctx, key, &cached) {
		return cached, nil
	}

	similar, err := rs.graphStore.SimilarUsers(ctx, userID, limit)
	if err != nil {
		if errors.Is(err, graph.ErrUnavailable) {
			rs.log.Warn("graph unavailable, similar users empty", "user_id", userID.String())
			return []types.SimilarUser{}, nil
		}
		return nil, fmt.Errorf("fetch similar users: %w", err)
	}
	if similar == nil {
		similar = []types.SimilarUser{}
	}

	rs.cacheStore.Set(ctx, key, similar, cache.TTLSimilarUsers)
	return similar, nil
}

// GetFromSimilarUsers recommends products that users with overlapping
// purchase histories bought and the target user has not. Similar users are
// walked in similarity order and each contributed product carries the source
// user's similarity weight.
func (rs *recommendationService) GetFromSimilarUsers(ctx context.Context, userID uuid.UUID, limit int) ([]types.Recommendation, error) {
	if limit <= 0 {
		limit = 10
	}

	similar, err := rs.GetSimilarUsers(ctx, userID, 5)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return []types.Recommendation{}, nil
	}

	purchased, err := rs.purchasedProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	recs := []types.Recommendation{}
	seen := make(map[uuid.UUID]bool)
	for _, neighbor := range similar {
		if len(recs) >= limit {
			break
		}
		purchases, err := rs.purchaseRepo.GetByUserID(ctx, nil, neighbor.UserID, 20)
		if err != nil {
			return nil, fmt.Errorf("fetch similar user purchases: %w", err)
		}
		for _, purchase := range purchases {
			if len(recs) >= limit {
				break
			}
			if purchased[purchase.ProductID] || seen[purchase.ProductID] {
				continue
			}
			product, err := rs.productRepo.GetByID(ctx, nil, purchase.ProductID)
			if err != nil {
				return nil, fmt.Errorf("fetch product: %w", err)
			}
			if product == nil {
				continue
			}
			seen[purchase.ProductID] = true
			recs = append(recs, types.Recommendation{
				ProductID: purchase.ProductID,
				Score:     types.ClampScore(neighbor.SimilarityScore * similarUserWeight),
				Reason:    "Users with similar tastes also bought this",
				Category:  product.Category,
			})
		}
	}
	return recs, nil
}

func (rs *recommendationService) purchasedProductIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	purchases, err := rs.purchaseRepo.GetByUserID(ctx, nil, userID, 500)
	if err != nil {
		return nil, fmt.Errorf("fetch purchases: %w", err)
	}
	ids := make(map[uuid.UUID]bool, len(purchases))
	for _, purchase := range purchases {
		ids[purchase.ProductID] = true
	}
	return ids, nil
}
