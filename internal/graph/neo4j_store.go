package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/aurelle/marketing-backend/internal/clients/neo4jdb"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/types"
)

type neo4jStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

// NewNeo4jStore wraps a neo4j client as a Store. A nil client is allowed and
// yields a store that reports unavailable on reads and no-ops on writes.
func NewNeo4jStore(client *neo4jdb.Client, log *logger.Logger) Store {
	return &neo4jStore{client: client, log: log.With("store", "KnowledgeGraph")}
}

func (s *neo4jStore) Available() bool {
	return s != nil && s.client != nil && s.client.Driver != nil
}

func (s *neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.client.Database,
	})
}

// EnsureSchema creates uniqueness constraints, best effort.
func (s *neo4jStore) EnsureSchema(ctx context.Context) {
	if !s.Available() {
		return
	}
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)
	stmts := []string{
		`CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
		`CREATE CONSTRAINT product_id_unique IF NOT EXISTS FOR (p:Product) REQUIRE p.id IS UNIQUE`,
	}
	for _, stmt := range stmts {
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			s.log.Warn("neo4j schema init failed (continuing)", "error", err)
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}

func (s *neo4jStore) UpsertUser(ctx context.Context, user *types.User) error {
	if !s.Available() {
		return ErrUnavailable
	}
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MERGE (u:User {id: $user_id})
SET u.email = $email,
    u.created_at = $created_at,
    u.updated_at = $updated_at
`, map[string]any{
			"user_id":    user.ID.String(),
			"email":      user.Email,
			"created_at": user.CreatedAt.UTC().Format(time.RFC3339Nano),
			"updated_at": user.UpdatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	return err
}

func (s *neo4jStore) UpsertProduct(ctx context.Context, product *types.Product) error {
	if !s.Available() {
		return ErrUnavailable
	}
	if product == nil || product.ID == uuid.Nil {
		return fmt.Errorf("product required")
	}
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MERGE (p:Product {id: $product_id})
SET p.name = $name,
    p.category = $category,
    p.price = $price,
    p.created_at = $created_at
`, map[string]any{
			"product_id": product.ID.String(),
			"name":       product.Name,
			"category":   string(product.Category),
			"price":      product.Price,
			"created_at": product.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	return err
}

func (s *neo4jStore) RecordPurchase(ctx context.Context, purchase *types.Purchase) error {
	if !s.Available() {
		return ErrUnavailable
	}
	if purchase == nil || purchase.ID == uuid.Nil {
		return fmt.Errorf("purchase required")
	}
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (u:User {id: $user_id})
MATCH (p:Product {id: $product_id})
CREATE (u)-[r:PURCHASED {
  purchase_id: $purchase_id,
  amount: $amount,
  quantity: $quantity,
  timestamp: $timestamp
}]->(p)
`, map[string]any{
			"user_id":     purchase.UserID.String(),
			"product_id":  purchase.ProductID.String(),
			"purchase_id": purchase.ID.String(),
			"amount":      purchase.Amount,
			"quantity":    int64(purchase.Quantity),
			"timestamp":   purchase.Timestamp.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	return err
}

func (s *neo4jStore) RecordInterest(ctx context.Context, interest *types.UserInterest) error {
	if !s.Available() {
		return ErrUnavailable
	}
	if interest == nil || interest.ID == uuid.Nil {
		return fmt.Errorf("interest required")
	}
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (u:User {id: $user_id})
MERGE (ic:InterestCategory {name: $category})
MERGE (iv:InterestValue {value: $value, category: $category})
MERGE (iv)-[:BELONGS_TO]->(ic)
MERGE (u)-[r:INTERESTED_IN]->(iv)
SET r.confidence_score = $confidence_score,
    r.source = $source,
    r.created_at = $created_at
`, map[string]any{
			"user_id":          interest.UserID.String(),
			"category":         string(interest.Category),
			"value":            interest.Value,
			"confidence_score": interest.ConfidenceScore,
			"source":           interest.Source,
			"created_at":       interest.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	return err
}

// UserRecommendations runs collaborative filtering over shared purchases,
// blended with the user's declared interest confidence per category. Raw
// scores are normalized into [0,1] before returning.
func (s *neo4jStore) UserRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]Candidate, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (u:User {id: $user_id})-[:PURCHASED]->(p:Product)
MATCH (p)<-[:PURCHASED]-(other:User)
MATCH (other)-[:PURCHASED]->(rec:Product)
WHERE NOT (u)-[:PURCHASED]->(rec)
WITH u, rec, COUNT(*) AS similarity_score
OPTIONAL MATCH (u)-[interest:INTERESTED_IN]->(iv:InterestValue)-[:BELONGS_TO]->(ic:InterestCategory)
WHERE rec.category = ic.name
WITH rec, similarity_score, SUM(COALESCE(interest.confidence_score, 0)) AS interest_score
RETURN rec.id AS product_id,
       rec.name AS name,
       rec.category AS category,
       rec.price AS price,
       similarity_score,
       interest_score,
       (similarity_score * 0.6 + interest_score * 0.4) AS total_score
ORDER BY total_score DESC
LIMIT $limit
`, map[string]any{"user_id": userID.String(), "limit": int64(limit)})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		s.log.Warn("user recommendation traversal failed", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	out := make([]Candidate, 0)
	for _, record := range records.([]*neo4j.Record) {
		similarity := asFloat(valueOf(record, "similarity_score"))
		interest := asFloat(valueOf(record, "interest_score"))
		total := asFloat(valueOf(record, "total_score"))
		out = append(out, Candidate{
			ProductID: asString(valueOf(record, "product_id")),
			Name:      asString(valueOf(record, "name")),
			Category:  asString(valueOf(record, "category")),
			Price:     asFloat(valueOf(record, "price")),
			Score:     types.ClampScore(total / 10.0),
			Reason:    fmt.Sprintf("Based on %.0f similar purchases and interest score %.2f", similarity, interest),
		})
	}
	return out, nil
}

func (s *neo4jStore) SimilarUsers(ctx context.Context, userID uuid.UUID, limit int) ([]types.SimilarUser, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (u:User {id: $user_id})-[:PURCHASED]->(p:Product)
MATCH (p)<-[:PURCHASED]-(other:User)
WHERE other.id <> $user_id
WITH other, COUNT(p) AS common_products
MATCH (other)-[:PURCHASED]->(all_products:Product)
WITH other, common_products, COUNT(all_products) AS total_products
RETURN other.id AS user_id,
       other.email AS email,
       common_products,
       total_products,
       (common_products * 1.0 / total_products) AS similarity_score
ORDER BY similarity_score DESC
LIMIT $limit
`, map[string]any{"user_id": userID.String(), "limit": int64(limit)})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		s.log.Warn("similar user traversal failed", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	out := make([]types.SimilarUser, 0)
	for _, record := range records.([]*neo4j.Record) {
		id, parseErr := uuid.Parse(asString(valueOf(record, "user_id")))
		if parseErr != nil {
			continue
		}
		out = append(out, types.SimilarUser{
			UserID:          id,
			Email:           asString(valueOf(record, "email")),
			CommonProducts:  asInt(valueOf(record, "common_products")),
			TotalProducts:   asInt(valueOf(record, "total_products")),
			SimilarityScore: asFloat(valueOf(record, "similarity_score")),
		})
	}
	return out, nil
}

func (s *neo4jStore) TrendingProducts(ctx context.Context, limit, days int) ([]types.TrendingProduct, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (u:User)-[p:PURCHASED]->(product:Product)
WHERE datetime(p.timestamp) > datetime() - duration({days: $days})
WITH product, COUNT(p) AS purchase_count, SUM(p.amount) AS total_revenue
RETURN product.id AS product_id,
       product.name AS name,
       product.category AS category,
       product.price AS price,
       purchase_count,
       total_revenue,
       (purchase_count * 0.7 + total_revenue * 0.3) AS trend_score
ORDER BY trend_score DESC
LIMIT $limit
`, map[string]any{"days": int64(days), "limit": int64(limit)})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		s.log.Warn("trending traversal failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	out := make([]types.TrendingProduct, 0)
	for _, record := range records.([]*neo4j.Record) {
		id, parseErr := uuid.Parse(asString(valueOf(record, "product_id")))
		if parseErr != nil {
			continue
		}
		category, catErr := types.ParseProductCategory(asString(valueOf(record, "category")))
		if catErr != nil {
			s.log.Warn("dropping trending product with unknown category", "product_id", id.String(), "error", catErr)
			continue
		}
		out = append(out, types.TrendingProduct{
			ProductID:     id,
			Name:          asString(valueOf(record, "name")),
			Category:      category,
			Price:         asFloat(valueOf(record, "price")),
			PurchaseCount: asInt(valueOf(record, "purchase_count")),
			TotalRevenue:  asFloat(valueOf(record, "total_revenue")),
			TrendScore:    asFloat(valueOf(record, "trend_score")),
		})
	}
	return out, nil
}

func valueOf(record *neo4j.Record, key string) any {
	if record == nil {
		return nil
	}
	v, _ := record.Get(key)
	return v
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	default:
		return 0
	}
}

func asInt(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		return 0
	}
}
