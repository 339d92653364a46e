package graph

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/aurelle/marketing-backend/internal/types"
)

// ErrUnavailable signals that the graph store cannot be reached. Callers are
// expected to treat this as a degraded-but-successful condition, never as a
// request failure.
var ErrUnavailable = errors.New("knowledge graph unavailable")

// Candidate is a raw traversal result. Product IDs and categories come back
// as strings from the graph projection and must be re-validated against the
// relational catalog before being trusted.
type Candidate struct {
	ProductID string
	Name      string
	Category  string
	Price     float64
	Score     float64
	Reason    string
}

// Store mirrors relational state into the graph projection and answers
// traversal queries over it. Write failures degrade silently upstream; read
// methods report ErrUnavailable when the backing store is down.
type Store interface {
	UpsertUser(ctx context.Context, user *types.User) error
	UpsertProduct(ctx context.Context, product *types.Product) error
	RecordPurchase(ctx context.Context, purchase *types.Purchase) error
	RecordInterest(ctx context.Context, interest *types.UserInterest) error

	UserRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]Candidate, error)
	SimilarUsers(ctx context.Context, userID uuid.UUID, limit int) ([]types.SimilarUser, error)
	TrendingProducts(ctx context.Context, limit, days int) ([]types.TrendingProduct, error)

	// EnsureSchema creates graph constraints at startup, best effort.
	EnsureSchema(ctx context.Context)

	Available() bool
}
