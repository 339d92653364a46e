package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

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

type ProductInput struct {
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Price       float64        `json:"price"`
	Description string         `json:"description"`
	ImageURL    string         `json:"image_url"`
	Metadata    map[string]any `json:"metadata"`
}

type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*types.Product, error)
	GetByID(ctx context.Context, productID uuid.UUID) (*types.Product, error)
	GetByCategory(ctx context.Context, category types.ProductCategory, limit int) ([]types.Product, error)
	Search(ctx context.Context, query string, limit int) ([]types.Product, error)
	GetByPriceRange(ctx context.Context, minPrice, maxPrice float64, limit int) ([]types.Product, error)
	GetFeatured(ctx context.Context, limit int) ([]types.Product, error)
	List(ctx context.Context, offset, limit int) ([]types.Product, error)
	Update(ctx context.Context, productID uuid.UUID, input ProductInput) (*types.Product, error)
	Delete(ctx context.Context, productID uuid.UUID) error
}

type productService struct {
	db          *gorm.DB
	log         *logger.Logger
	productRepo repos.ProductRepo
	graphStore  graph.Store
	cacheStore  cache.Cache
}

func NewProductService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo, graphStore graph.Store, cacheStore cache.Cache) ProductService {
	return &productService{
		db:          db,
		log:         log.With("service", "ProductService"),
		productRepo: productRepo,
		graphStore:  graphStore,
		cacheStore:  cacheStore,
	}
}

func (ps *productService) Create(ctx context.Context, input ProductInput) (*types.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierr.Validation(fmt.Errorf("product name is required"))
	}
	category, err := types.ParseProductCategory(input.Category)
	if err != nil {
		return nil, apierr.Validation(err)
	}
	price, err := types.ValidatePrice(input.Price)
	if err != nil {
		return nil, apierr.Validation(err)
	}
	metaRaw, err := json.Marshal(input.Metadata)
	if err != nil {
		return nil, apierr.Validation(fmt.Errorf("invalid product metadata: %w", err))
	}

	product := &types.Product{
		ID:          uuid.New(),
		Name:        name,
		Category:    category,
		Price:       price,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Metadata:    datatypes.JSON(metaRaw),
	}
	if _, err := ps.productRepo.Create(ctx, nil, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if gErr := ps.graphStore.UpsertProduct(ctx, product); gErr != nil {
		ps.log.Warn("graph product sync skipped", "product_id", product.ID.String(), "error", gErr)
	}
	ps.invalidateCatalogCache(ctx)

	ps.log.Info("Created product", "product_id", product.ID.String(), "category", category)
	return product, nil
}

func (ps *productService) GetByID(ctx context.Context, productID uuid.UUID) (*types.Product, error) {
	product, err := ps.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, fmt.Errorf("fetch product: %w", err)
	}
	return product, nil
}

func (ps *productService) GetByCategory(ctx context.Context, category types.ProductCategory, limit int) ([]types.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	products, err := ps.productRepo.GetByCategory(ctx, nil, category, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch products by category: %w", err)
	}
	return products, nil
}

func (ps *productService) Search(ctx context.Context, query string, limit int) ([]types.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierr.Validation(fmt.Errorf("search query is required"))
	}
	if limit <= 0 {
		limit = 20
	}

	key := cache.Key("product_search", strings.ToLower(query), map[string]string{"limit": fmt.Sprint(limit)})
	var cached []types.Product
	if ps.cacheStore.Get(ctx, key, &cached) {
		return cached, nil
	}

	products, err := ps.productRepo.Search(ctx, nil, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	ps.cacheStore.Set(ctx, key, products, cache.TTLProductSearch)
	return products, nil
}

func (ps *productService) GetByPriceRange(ctx context.Context, minPrice, maxPrice float64, limit int) ([]types.Product, error) {
	if minPrice < 0 || maxPrice < minPrice {
		return nil, apierr.Validation(fmt.Errorf("invalid price range [%.2f, %.2f]", minPrice, maxPrice))
	}
	if limit <= 0 {
		limit = 20
	}
	products, err := ps.productRepo.GetByPriceRange(ctx, nil, minPrice, maxPrice, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch products by price range: %w", err)
	}
	return products, nil
}

func (ps *productService) GetFeatured(ctx context.Context, limit int) ([]types.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	products, err := ps.productRepo.GetFeatured(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch featured products: %w", err)
	}
	return products, nil
}

func (ps *productService) List(ctx context.Context, offset, limit int) ([]types.Product, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	products, err := ps.productRepo.List(ctx, nil, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (ps *productService) Update(ctx context.Context, productID uuid.UUID, input ProductInput) (*types.Product, error) {
	updates := map[string]any{}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if input.Category != "" {
		category, err := types.ParseProductCategory(input.Category)
		if err != nil {
			return nil, apierr.Validation(err)
		}
		updates["category"] = category
	}
	if input.Price != 0 {
		price, err := types.ValidatePrice(input.Price)
		if err != nil {
			return nil, apierr.Validation(err)
		}
		updates["price"] = price
	}
	if input.Description != "" {
		updates["description"] = input.Description
	}
	if input.ImageURL != "" {
		updates["image_url"] = input.ImageURL
	}
	if input.Metadata != nil {
		metaRaw, err := json.Marshal(input.Metadata)
		if err != nil {
			return nil, apierr.Validation(fmt.Errorf("invalid product metadata: %w", err))
		}
		updates["metadata"] = datatypes.JSON(metaRaw)
	}
	if len(updates) == 0 {
		return nil, apierr.Validation(fmt.Errorf("no updatable fields provided"))
	}

	product, err := ps.productRepo.Update(ctx, nil, productID, updates)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if product == nil {
		return nil, apierr.NotFound(fmt.Errorf("product %s not found", productID))
	}

	if gErr := ps.graphStore.UpsertProduct(ctx, product); gErr != nil {
		ps.log.Warn("graph product sync skipped", "product_id", productID.String(), "error", gErr)
	}
	ps.invalidateCatalogCache(ctx)
	return product, nil
}

func (ps *productService) Delete(ctx context.Context, productID uuid.UUID) error {
	deleted, err := ps.productRepo.Delete(ctx, nil, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !deleted {
		return apierr.NotFound(fmt.Errorf("product %s not found", productID))
	}
	ps.invalidateCatalogCache(ctx)
	return nil
}

// Catalog writes change search results and trending data for every user, so
// those shared namespaces are flushed wholesale.
func (ps *productService) invalidateCatalogCache(ctx context.Context) {
	ps.cacheStore.DeletePattern(ctx, cache.Namespace+":product_search:*")
	ps.cacheStore.DeletePattern(ctx, cache.Namespace+":trending:*")
}
