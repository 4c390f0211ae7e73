package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Created and edited only via admin endpoints.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	ImageURL    string          `json:"image_url,omitempty" gorm:"size:1024"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
