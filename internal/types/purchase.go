package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Purchase struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ProductID uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Amount    float64        `gorm:"not null;column:amount" json:"amount"`
	Quantity  int            `gorm:"not null;default:1;column:quantity" json:"quantity"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
}

func (Purchase) TableName() string { return "purchase" }
