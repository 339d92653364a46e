package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aurelle/marketing-backend/internal/graph"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/repos"
	"github.com/aurelle/marketing-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.User{}, &types.Product{}, &types.Purchase{}, &types.UserInterest{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// fakeGraph records writes and serves canned read results so tests can steer
// the degraded paths without a Neo4j instance.
type fakeGraph struct {
	available  bool
	candidates []graph.Candidate
	similar    []types.SimilarUser
	trending   []types.TrendingProduct
	readErr    error

	users     int
	products  int
	purchases int
	interests int
}

func (f *fakeGraph) UpsertUser(context.Context, *types.User) error {
	f.users++
	return nil
}

func (f *fakeGraph) UpsertProduct(context.Context, *types.Product) error {
	f.products++
	return nil
}

func (f *fakeGraph) RecordPurchase(context.Context, *types.Purchase) error {
	f.purchases++
	return nil
}

func (f *fakeGraph) RecordInterest(context.Context, *types.UserInterest) error {
	f.interests++
	return nil
}

func (f *fakeGraph) UserRecommendations(context.Context, uuid.UUID, int) ([]graph.Candidate, error) {
	if err := f.err(); err != nil {
		return nil, err
	}
	return f.candidates, nil
}

func (f *fakeGraph) SimilarUsers(context.Context, uuid.UUID, int) ([]types.SimilarUser, error) {
	if err := f.err(); err != nil {
		return nil, err
	}
	return f.similar, nil
}

func (f *fakeGraph) TrendingProducts(context.Context, int, int) ([]types.TrendingProduct, error) {
	if err := f.err(); err != nil {
		return nil, err
	}
	return f.trending, nil
}

func (f *fakeGraph) EnsureSchema(context.Context) {}

func (f *fakeGraph) Available() bool { return f.available }

func (f *fakeGraph) err() error {
	if f.readErr != nil {
		return f.readErr
	}
	if !f.available {
		return graph.ErrUnavailable
	}
	return nil
}

// memCache is an in-process Cache backed by a map, with prefix-based pattern
// deletion matching the trailing-star patterns the services use.
type memCache struct {
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (m *memCache) Set(_ context.Context, key string, value any, _ time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	m.entries[key] = raw
	return true
}

func (m *memCache) Get(_ context.Context, key string, dest any) bool {
	raw, ok := m.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (m *memCache) Delete(_ context.Context, key string) bool {
	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	return true
}

func (m *memCache) DeletePattern(_ context.Context, pattern string) int {
	prefix := strings.TrimSuffix(pattern, "*")
	var deleted int
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			deleted++
		}
	}
	return deleted
}

func (m *memCache) Available() bool { return true }

func (m *memCache) Stats(context.Context) map[string]any {
	return map[string]any{"status": "connected", "keys": len(m.entries)}
}

func mustCreateUser(t *testing.T, db *gorm.DB, email string) *types.User {
	t.Helper()
	user := &types.User{ID: uuid.New(), Email: email, Password: "hashed"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateProduct(t *testing.T, db *gorm.DB, name string, category types.ProductCategory, price float64) *types.Product {
	t.Helper()
	product := &types.Product{ID: uuid.New(), Name: name, Category: category, Price: price}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreatePurchase(t *testing.T, db *gorm.DB, userID, productID uuid.UUID, amount float64) *types.Purchase {
	t.Helper()
	purchase := &types.Purchase{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Amount:    amount,
		Quantity:  1,
		Timestamp: time.Now(),
	}
	if err := db.Create(purchase).Error; err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	return purchase
}

// fixture bundles the in-memory store, repos and fakes each service test
// wires from.
type fixture struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	productRepo  repos.ProductRepo
	purchaseRepo repos.PurchaseRepo
	interestRepo repos.UserInterestRepo
	graph        *fakeGraph
	cache        *memCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	return &fixture{
		db:           db,
		log:          log,
		userRepo:     repos.NewUserRepo(db, log),
		productRepo:  repos.NewProductRepo(db, log),
		purchaseRepo: repos.NewPurchaseRepo(db, log),
		interestRepo: repos.NewUserInterestRepo(db, log),
		graph:        &fakeGraph{},
		cache:        newMemCache(),
	}
}
