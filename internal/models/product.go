package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product rows are never updated once created; purchases freeze the price
// at creation time.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:150;not null" json:"name"`
	Description string          `gorm:"size:500" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(14,2);not null;check:chk_products_price,price > 0" json:"price"`
	Category    *string         `gorm:"size:100;index" json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
}
