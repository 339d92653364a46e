package services

import (
	"context"
	"testing"

	"github.com/aurelle/marketing-backend/internal/types"
)

func newProductFixture(t *testing.T) (ProductService, *fixture) {
	t.Helper()
	f := newFixture(t)
	svc := NewProductService(f.db, f.log, f.productRepo, f.graph, f.cache)
	return svc, f
}

func TestCreateProductValidatesAndSyncsGraph(t *testing.T) {
	svc, f := newProductFixture(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, ProductInput{
		Name:     "Espresso Machine",
		Category: "home_garden",
		Price:    249.999,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.Price != 250.00 {
		t.Fatalf("price: want=250.00 got=%v", product.Price)
	}
	if f.graph.products != 1 {
		t.Fatalf("graph sync: want=1 got=%d", f.graph.products)
	}

	if _, err := svc.Create(ctx, ProductInput{Name: "", Category: "home_garden", Price: 10}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := svc.Create(ctx, ProductInput{Name: "X", Category: "widgets", Price: 10}); err == nil {
		t.Fatalf("expected error for unknown category")
	}
	if _, err := svc.Create(ctx, ProductInput{Name: "X", Category: "home_garden", Price: 0}); err == nil {
		t.Fatalf("expected error for non-positive price")
	}
}

func TestSearchCachesResults(t *testing.T) {
	svc, f := newProductFixture(t)
	ctx := context.Background()
	mustCreateProduct(t, f.db, "Trail Tent", types.CategorySportsOutdoors, 180)

	first, err := svc.Search(ctx, "tent", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("results: want=1 got=%d", len(first))
	}

	// A later insert is invisible until the cache entry expires or a catalog
	// write flushes the search namespace.
	mustCreateProduct(t, f.db, "Tent Stakes", types.CategorySportsOutdoors, 15)
	second, err := svc.Search(ctx, "tent", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("cached results: want=1 got=%d", len(second))
	}
}

func TestCatalogWriteFlushesSearchCache(t *testing.T) {
	svc, f := newProductFixture(t)
	ctx := context.Background()
	mustCreateProduct(t, f.db, "Desk Lamp", types.CategoryHomeGarden, 40)

	if _, err := svc.Search(ctx, "lamp", 10); err != nil {
		t.Fatalf("search: %v", err)
	}
	if _, err := svc.Create(ctx, ProductInput{Name: "Floor Lamp", Category: "home_garden", Price: 90}); err != nil {
		t.Fatalf("create: %v", err)
	}

	results, err := svc.Search(ctx, "lamp", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("post-flush results: want=2 got=%d", len(results))
	}
}

func TestGetByPriceRangeValidatesBounds(t *testing.T) {
	svc, _ := newProductFixture(t)
	ctx := context.Background()

	if _, err := svc.GetByPriceRange(ctx, -1, 10, 10); err == nil {
		t.Fatalf("expected error for negative min")
	}
	if _, err := svc.GetByPriceRange(ctx, 50, 10, 10); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestDeleteMissingProduct(t *testing.T) {
	svc, f := newProductFixture(t)
	product := mustCreateProduct(t, f.db, "Gone", types.CategoryBooksMedia, 5)

	if err := svc.Delete(context.Background(), product.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), product.ID); err == nil {
		t.Fatalf("expected error deleting twice")
	}
}
