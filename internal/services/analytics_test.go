package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/aurelle/marketing-backend/internal/types"
)

func newAnalyticsFixture(t *testing.T) (AnalyticsService, *fixture) {
	t.Helper()
	f := newFixture(t)
	svc := NewAnalyticsService(f.db, f.log, f.userRepo, f.productRepo, f.purchaseRepo, f.interestRepo, f.cache)
	return svc, f
}

func TestPlatformOverviewCounts(t *testing.T) {
	svc, f := newAnalyticsFixture(t)
	ctx := context.Background()

	user := mustCreateUser(t, f.db, "overview@example.com")
	product := mustCreateProduct(t, f.db, "Thing", types.CategoryElectronics, 100)
	mustCreatePurchase(t, f.db, user.ID, product.ID, 100)
	mustCreatePurchase(t, f.db, user.ID, product.ID, 50)

	overview, err := svc.PlatformOverview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.TotalUsers != 1 || overview.TotalProducts != 1 || overview.TotalPurchases != 2 {
		t.Fatalf("counts: %+v", overview)
	}
	if overview.TotalRevenue != 150 {
		t.Fatalf("revenue: want=150 got=%v", overview.TotalRevenue)
	}
	if overview.AverageOrderValue != 75 {
		t.Fatalf("aov: want=75 got=%v", overview.AverageOrderValue)
	}
	if overview.Purchases30d != 2 {
		t.Fatalf("recent purchases: want=2 got=%d", overview.Purchases30d)
	}
}

func TestUserAnalyticsAggregates(t *testing.T) {
	svc, f := newAnalyticsFixture(t)
	ctx := context.Background()

	user := mustCreateUser(t, f.db, "peruser@example.com")
	product := mustCreateProduct(t, f.db, "Thing", types.CategoryElectronics, 100)
	mustCreatePurchase(t, f.db, user.ID, product.ID, 40)
	mustCreatePurchase(t, f.db, user.ID, product.ID, 60)

	for _, v := range []string{"laptops", "phones"} {
		interest := &types.UserInterest{
			ID: uuid.New(), UserID: user.ID, Category: types.InterestTechnology,
			Value: v, ConfidenceScore: 0.5, Source: "explicit",
		}
		if err := f.db.Create(interest).Error; err != nil {
			t.Fatalf("create interest: %v", err)
		}
	}

	analytics, err := svc.UserAnalytics(ctx, user.ID)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if analytics.TotalSpent != 100 {
		t.Fatalf("spent: want=100 got=%v", analytics.TotalSpent)
	}
	if analytics.AveragePurchase != 50 {
		t.Fatalf("average: want=50 got=%v", analytics.AveragePurchase)
	}
	if len(analytics.MonthlySpending) != 1 {
		t.Fatalf("monthly buckets: want=1 got=%d", len(analytics.MonthlySpending))
	}
	tech := analytics.InterestCategories["technology"]
	if tech.Count != 2 {
		t.Fatalf("technology interests: want=2 got=%d", tech.Count)
	}
	if tech.AvgConfidence != 0.5 {
		t.Fatalf("avg confidence: want=0.5 got=%v", tech.AvgConfidence)
	}
}

func TestUserAnalyticsUnknownUser(t *testing.T) {
	svc, _ := newAnalyticsFixture(t)

	if _, err := svc.UserAnalytics(context.Background(), uuid.New()); err == nil {
		t.Fatalf("expected error for unknown user")
	}
}
