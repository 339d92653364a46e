package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aurelle/marketing-backend/internal/types"
)

func newUserDataFixture(t *testing.T) (UserDataService, *fixture) {
	t.Helper()
	f := newFixture(t)
	auth := NewAuthService(f.db, f.log, f.userRepo, f.graph, "test-secret", time.Hour)
	interest := NewInterestService(f.db, f.log, f.interestRepo, f.purchaseRepo, f.productRepo, f.graph, f.cache)
	svc := NewUserDataService(f.db, f.log, f.userRepo, f.purchaseRepo, f.productRepo, f.graph, f.cache, auth, interest)
	return svc, f
}

func TestAddPurchaseValidatesAmount(t *testing.T) {
	svc, f := newUserDataFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "amount@example.com")
	product := mustCreateProduct(t, f.db, "Thing", types.CategoryHomeGarden, 10)

	if _, err := svc.AddPurchase(ctx, user.ID, PurchaseInput{ProductID: product.ID, Amount: 0}); err == nil {
		t.Fatalf("expected error for zero amount")
	}
	if _, err := svc.AddPurchase(ctx, user.ID, PurchaseInput{ProductID: product.ID, Amount: -3}); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestAddPurchaseRequiresExistingUserAndProduct(t *testing.T) {
	svc, f := newUserDataFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "exists@example.com")
	product := mustCreateProduct(t, f.db, "Thing", types.CategoryHomeGarden, 10)

	if _, err := svc.AddPurchase(ctx, uuid.New(), PurchaseInput{ProductID: product.ID, Amount: 10}); err == nil {
		t.Fatalf("expected error for unknown user")
	}
	if _, err := svc.AddPurchase(ctx, user.ID, PurchaseInput{ProductID: uuid.New(), Amount: 10}); err == nil {
		t.Fatalf("expected error for unknown product")
	}
}

func TestAddPurchaseRoundsAndSyncsGraph(t *testing.T) {
	svc, f := newUserDataFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "round@example.com")
	product := mustCreateProduct(t, f.db, "Thing", types.CategoryHomeGarden, 10)

	purchase, err := svc.AddPurchase(ctx, user.ID, PurchaseInput{ProductID: product.ID, Amount: 19.999})
	if err != nil {
		t.Fatalf("add purchase: %v", err)
	}
	if purchase.Amount != 20.00 {
		t.Fatalf("amount: want=20.00 got=%v", purchase.Amount)
	}
	if purchase.Quantity != 1 {
		t.Fatalf("quantity default: want=1 got=%d", purchase.Quantity)
	}
	if f.graph.purchases != 1 {
		t.Fatalf("graph sync: want=1 got=%d", f.graph.purchases)
	}
}

func TestGetSpendingSummary(t *testing.T) {
	svc, f := newUserDataFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "summary@example.com")
	product := mustCreateProduct(t, f.db, "Thing", types.CategoryHomeGarden, 10)

	mustCreatePurchase(t, f.db, user.ID, product.ID, 30)
	mustCreatePurchase(t, f.db, user.ID, product.ID, 70)

	summary, err := svc.GetSpendingSummary(ctx, user.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalSpent != 100 {
		t.Fatalf("total: want=100 got=%v", summary.TotalSpent)
	}
	if summary.TotalPurchases != 2 {
		t.Fatalf("purchases: want=2 got=%d", summary.TotalPurchases)
	}
	if summary.AveragePurchase != 50 {
		t.Fatalf("average: want=50 got=%v", summary.AveragePurchase)
	}
}

func TestIngestBulkEnforcesBatchLimits(t *testing.T) {
	svc, _ := newUserDataFixture(t)
	ctx := context.Background()

	tooMany := make([]PurchaseInput, 101)
	if _, err := svc.IngestBulk(ctx, BulkIngestionInput{Email: "bulk@example.com", Password: "longenough", Purchases: tooMany}); err == nil {
		t.Fatalf("expected error for oversized purchase batch")
	}

	tooManyInterests := make([]InterestInput, 51)
	if _, err := svc.IngestBulk(ctx, BulkIngestionInput{Email: "bulk@example.com", Password: "longenough", Interests: tooManyInterests}); err == nil {
		t.Fatalf("expected error for oversized interest batch")
	}
}

func TestIngestBulkCreatesUserWithHistory(t *testing.T) {
	svc, f := newUserDataFixture(t)
	ctx := context.Background()
	product := mustCreateProduct(t, f.db, "Thing", types.CategoryElectronics, 25)

	result, err := svc.IngestBulk(ctx, BulkIngestionInput{
		Email:    "Ingest@Example.com",
		Password: "longenough",
		Profile:  map[string]any{"name": "Ingest"},
		Purchases: []PurchaseInput{
			{ProductID: product.ID, Amount: 25},
			{ProductID: product.ID, Amount: 25},
		},
		Interests: []InterestInput{
			{Category: "music", Value: "jazz", ConfidenceScore: 0.7},
		},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.User.Email != "ingest@example.com" {
		t.Fatalf("email not normalized: %q", result.User.Email)
	}
	if result.PurchasesCreated != 2 {
		t.Fatalf("purchases: want=2 got=%d", result.PurchasesCreated)
	}
	if result.InterestsCreated != 1 {
		t.Fatalf("interests: want=1 got=%d", result.InterestsCreated)
	}
}
