package types

import (
	"time"

	"github.com/google/uuid"
)

type UserInterest struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID        `gorm:"type:uuid;not null;index:idx_user_interest_triple,unique" json:"user_id"`
	User            *User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Category        InterestCategory `gorm:"not null;column:category;index:idx_user_interest_triple,unique" json:"category"`
	Value           string           `gorm:"not null;column:value;index:idx_user_interest_triple,unique" json:"value"`
	ConfidenceScore float64          `gorm:"not null;column:confidence_score" json:"confidence_score"`
	Source          string           `gorm:"not null;column:source" json:"source"`
	CreatedAt       time.Time        `gorm:"not null" json:"created_at"`
}

func (UserInterest) TableName() string { return "user_interest" }
