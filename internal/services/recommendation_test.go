package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/aurelle/marketing-backend/internal/graph"
	"github.com/aurelle/marketing-backend/internal/types"
)

func newRecommendationFixture(t *testing.T) (RecommendationService, *fixture) {
	t.Helper()
	f := newFixture(t)
	svc := NewRecommendationService(f.db, f.log, f.userRepo, f.productRepo, f.purchaseRepo, f.graph, f.cache)
	return svc, f
}

func TestGetPersonalizedUnknownUserIsEmpty(t *testing.T) {
	svc, _ := newRecommendationFixture(t)

	recs, err := svc.GetPersonalized(context.Background(), uuid.New(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("recs: want=0 got=%d", len(recs))
	}
}

func TestGetPersonalizedFallsBackWhenGraphDown(t *testing.T) {
	svc, f := newRecommendationFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "fallback@example.com")

	bought := mustCreateProduct(t, f.db, "Bought", types.CategoryElectronics, 100)
	mustCreatePurchase(t, f.db, user.ID, bought.ID, 100)
	for i := 0; i < 5; i++ {
		mustCreateProduct(t, f.db, "Featured", types.CategoryBooksMedia, 20)
	}

	recs, err := svc.GetPersonalized(ctx, user.ID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) == 0 {
		t.Fatalf("expected non-empty fallback recommendations")
	}
	if len(recs) > 3 {
		t.Fatalf("recs over limit: got=%d", len(recs))
	}
	for _, rec := range recs {
		if rec.ProductID == bought.ID {
			t.Fatalf("fallback recommended an already purchased product")
		}
		if rec.Score != 0.5 {
			t.Fatalf("fallback score: want=0.5 got=%v", rec.Score)
		}
		if rec.Reason != "Popular product recommendation" {
			t.Fatalf("fallback reason: got=%q", rec.Reason)
		}
	}
}

func TestGetPersonalizedDropsMalformedCandidates(t *testing.T) {
	svc, f := newRecommendationFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "candidates@example.com")

	good := mustCreateProduct(t, f.db, "Good", types.CategoryElectronics, 50)
	f.graph.available = true
	f.graph.candidates = []graph.Candidate{
		{ProductID: good.ID.String(), Name: "Good", Category: "electronics", Price: 50, Score: 0.8, Reason: "graph"},
		{ProductID: "not-a-uuid", Name: "Bad", Category: "electronics", Price: 10, Score: 0.7, Reason: "graph"},
		{ProductID: uuid.New().String(), Name: "Odd", Category: "gadgets", Price: 10, Score: 0.6, Reason: "graph"},
	}

	recs, err := svc.GetPersonalized(ctx, user.ID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("recs: want=1 got=%d", len(recs))
	}
	if recs[0].ProductID != good.ID {
		t.Fatalf("expected surviving candidate, got %v", recs[0].ProductID)
	}
}

func TestGetPersonalizedCachesResult(t *testing.T) {
	svc, f := newRecommendationFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "cached@example.com")
	mustCreateProduct(t, f.db, "Featured", types.CategoryClothing, 15)

	first, err := svc.GetPersonalized(ctx, user.ID, 5)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}

	// Changing the catalog should not change the cached answer.
	mustCreateProduct(t, f.db, "Later", types.CategoryClothing, 25)
	second, err := svc.GetPersonalized(ctx, user.ID, 5)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("cache miss: first=%d second=%d", len(first), len(second))
	}
}

func TestGetByCategoryExcludesPurchased(t *testing.T) {
	svc, f := newRecommendationFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "category@example.com")

	owned := mustCreateProduct(t, f.db, "Owned", types.CategoryFitnessEquipment, 80)
	fresh := mustCreateProduct(t, f.db, "Fresh", types.CategoryFitnessEquipment, 60)
	mustCreatePurchase(t, f.db, user.ID, owned.ID, 80)

	recs, err := svc.GetByCategory(ctx, user.ID, types.CategoryFitnessEquipment, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("recs: want=1 got=%d", len(recs))
	}
	if recs[0].ProductID != fresh.ID {
		t.Fatalf("expected unpurchased product")
	}
	if recs[0].Score != 0.8 {
		t.Fatalf("category score: want=0.8 got=%v", recs[0].Score)
	}
}

func TestGetByCategoryFullyPurchasedIsEmpty(t *testing.T) {
	svc, f := newRecommendationFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "owned@example.com")

	for i := 0; i < 3; i++ {
		p := mustCreateProduct(t, f.db, "Gear", types.CategorySportsOutdoors, 40)
		mustCreatePurchase(t, f.db, user.ID, p.ID, 40)
	}

	recs, err := svc.GetByCategory(ctx, user.ID, types.CategorySportsOutdoors, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("recs: want=0 got=%d", len(recs))
	}
}

func TestGetPersonalizedDropsCandidatesMissingFromCatalog(t *testing.T) {
	svc, f := newRecommendationFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "drift@example.com")

	kept := mustCreateProduct(t, f.db, "Kept", types.CategoryHomeGarden, 30)
	f.graph.available = true
	f.graph.candidates = []graph.Candidate{
		{ProductID: uuid.New().String(), Name: "Ghost", Category: "electronics", Price: 10, Score: 0.9, Reason: "graph"},
		{ProductID: kept.ID.String(), Name: "Kept", Category: "home_garden", Price: 30, Score: 0.8, Reason: "graph"},
	}

	recs, err := svc.GetPersonalized(ctx, user.ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, rec := range recs {
		if rec.ProductID == kept.ID {
			continue
		}
		if rec.Reason == "graph" {
			t.Fatalf("recommended a product absent from the catalog: %v", rec.ProductID)
		}
	}
	if recs[0].ProductID != kept.ID {
		t.Fatalf("surviving candidate: want=%s got=%s", kept.ID, recs[0].ProductID)
	}
	if recs[0].Category != types.CategoryHomeGarden {
		t.Fatalf("category: want=%s got=%s", types.CategoryHomeGarden, recs[0].Category)
	}
}

func TestGetTrendingGraphDownIsEmpty(t *testing.T) {
	svc, _ := newRecommendationFixture(t)

	trending, err := svc.GetTrending(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trending) != 0 {
		t.Fatalf("trending: want=0 got=%d", len(trending))
	}
}

func TestGetTrendingNormalizesAndFiltersCatalog(t *testing.T) {
	svc, f := newRecommendationFixture(t)
	ctx := context.Background()

	hot := mustCreateProduct(t, f.db, "Hot", types.CategoryElectronics, 200)
	mild := mustCreateProduct(t, f.db, "Mild", types.CategoryClothing, 25)
	f.graph.available = true
	f.graph.trending = []types.TrendingProduct{
		{ProductID: hot.ID, Name: "Stale Name", Category: types.CategoryClothing, Price: 1, PurchaseCount: 12, TotalRevenue: 900, TrendScore: 278.4},
		{ProductID: mild.ID, Name: "Mild", Category: types.CategoryClothing, Price: 25, PurchaseCount: 3, TotalRevenue: 75, TrendScore: 42.5},
		{ProductID: uuid.New(), Name: "Ghost", Category: types.CategoryElectronics, Price: 10, PurchaseCount: 9, TotalRevenue: 500, TrendScore: 156},
	}

	trending, err := svc.GetTrending(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trending) != 2 {
		t.Fatalf("trending: want=2 got=%d", len(trending))
	}
	if trending[0].TrendScore != 1.0 {
		t.Fatalf("capped score: want=1.0 got=%v", trending[0].TrendScore)
	}
	if trending[1].TrendScore != 0.425 {
		t.Fatalf("normalized score: want=0.425 got=%v", trending[1].TrendScore)
	}
	if trending[0].Name != "Hot" || trending[0].Category != types.CategoryElectronics || trending[0].Price != 200 {
		t.Fatalf("catalog fields not authoritative: %+v", trending[0])
	}
}

func TestGetSimilarUsersServedFromGraph(t *testing.T) {
	svc, f := newRecommendationFixture(t)
	other := uuid.New()
	f.graph.available = true
	f.graph.similar = []types.SimilarUser{
		{UserID: other, Email: "peer@example.com", CommonProducts: 3, TotalProducts: 6, SimilarityScore: 0.5},
	}

	similar, err := svc.GetSimilarUsers(context.Background(), uuid.New(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(similar) != 1 || similar[0].UserID != other {
		t.Fatalf("unexpected similar users: %+v", similar)
	}
}

func TestGetFromSimilarUsersWeightsBySimilarity(t *testing.T) {
	svc, f := newRecommendationFixture(t)
	ctx := context.Background()

	target := mustCreateUser(t, f.db, "target@example.com")
	peer := mustCreateUser(t, f.db, "peer@example.com")

	shared := mustCreateProduct(t, f.db, "Shared", types.CategoryElectronics, 100)
	novel := mustCreateProduct(t, f.db, "Novel", types.CategoryBooksMedia, 20)
	mustCreatePurchase(t, f.db, target.ID, shared.ID, 100)
	mustCreatePurchase(t, f.db, peer.ID, shared.ID, 100)
	mustCreatePurchase(t, f.db, peer.ID, novel.ID, 20)

	f.graph.available = true
	f.graph.similar = []types.SimilarUser{
		{UserID: peer.ID, Email: peer.Email, CommonProducts: 1, TotalProducts: 2, SimilarityScore: 0.5},
	}

	recs, err := svc.GetFromSimilarUsers(ctx, target.ID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("recs: want=1 got=%d", len(recs))
	}
	if recs[0].ProductID != novel.ID {
		t.Fatalf("recommended product: want=%s got=%s", novel.ID, recs[0].ProductID)
	}
	if recs[0].Score != 0.4 {
		t.Fatalf("score: want=0.4 got=%v", recs[0].Score)
	}
}

func TestGetFromSimilarUsersEmptyWhenGraphDown(t *testing.T) {
	svc, f := newRecommendationFixture(t)
	target := mustCreateUser(t, f.db, "lonely@example.com")

	recs, err := svc.GetFromSimilarUsers(context.Background(), target.ID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("recs: want=0 got=%d", len(recs))
	}
}
