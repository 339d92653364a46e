package types

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is derived per request and never persisted; it only ever
// lives in responses and cache entries.
type Recommendation struct {
	ProductID uuid.UUID       `json:"product_id"`
	Score     float64         `json:"score"`
	Reason    string          `json:"reason"`
	Category  ProductCategory `json:"category"`
}

type SimilarUser struct {
	UserID          uuid.UUID `json:"user_id"`
	Email           string    `json:"email"`
	CommonProducts  int64     `json:"common_products"`
	TotalProducts   int64     `json:"total_products"`
	SimilarityScore float64   `json:"similarity_score"`
}

type TrendingProduct struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	Category      ProductCategory `json:"category"`
	Price         float64         `json:"price"`
	PurchaseCount int64           `json:"purchase_count"`
	TotalRevenue  float64         `json:"total_revenue"`
	TrendScore    float64         `json:"trend_score"`
}

type SpendingSummary struct {
	UserID          uuid.UUID  `json:"user_id"`
	TotalSpent      float64    `json:"total_spent"`
	TotalPurchases  int        `json:"total_purchases"`
	AveragePurchase float64    `json:"average_purchase"`
	RecentPurchases []Purchase `json:"recent_purchases"`
}

type InterestSummary struct {
	UserID                uuid.UUID           `json:"user_id"`
	TotalInterests        int                 `json:"total_interests"`
	AverageCategoryScores map[string]float64  `json:"average_category_scores"`
	TopInterests          []UserInterest      `json:"top_interests"`
	RecentInterests       []UserInterest      `json:"recent_interests"`
	TopCategories         []CategoryBreakdown `json:"top_categories"`
}

type CategoryBreakdown struct {
	Category      string  `json:"category"`
	AvgConfidence float64 `json:"avg_confidence"`
	InterestCount int64   `json:"interest_count"`
}

type PlatformOverview struct {
	TotalUsers        int64     `json:"total_users"`
	TotalProducts     int64     `json:"total_products"`
	TotalPurchases    int64     `json:"total_purchases"`
	TotalInterests    int64     `json:"total_interests"`
	TotalRevenue      float64   `json:"total_revenue"`
	AverageOrderValue float64   `json:"average_order_value"`
	NewUsers30d       int64     `json:"new_users_30d"`
	Purchases30d      int64     `json:"purchases_30d"`
	Revenue30d        float64   `json:"revenue_30d"`
	GeneratedAt       time.Time `json:"generated_at"`
}

type UserAnalytics struct {
	UserID             uuid.UUID                    `json:"user_id"`
	Email              string                       `json:"email"`
	MemberSince        time.Time                    `json:"member_since"`
	TotalSpent         float64                      `json:"total_spent"`
	TotalPurchases     int                          `json:"total_purchases"`
	AveragePurchase    float64                      `json:"average_purchase"`
	MonthlySpending    map[string]float64           `json:"monthly_spending"`
	InterestCategories map[string]CategoryAnalytics `json:"interest_categories"`
}

type CategoryAnalytics struct {
	Count         int            `json:"count"`
	AvgConfidence float64        `json:"avg_confidence"`
	Interests     []UserInterest `json:"interests"`
}
