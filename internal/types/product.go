package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"not null;column:name" json:"name"`
	Category    ProductCategory `gorm:"not null;index;column:category" json:"category"`
	Price       float64         `gorm:"not null;column:price" json:"price"`
	Description string          `gorm:"column:description" json:"description"`
	ImageURL    string          `gorm:"column:image_url" json:"image_url,omitempty"`
	Metadata    datatypes.JSON  `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
}

func (Product) TableName() string { return "product" }
