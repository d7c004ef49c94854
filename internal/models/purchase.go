package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusConfirmed PurchaseStatus = "confirmed"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusConfirmed, PurchaseStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s PurchaseStatus) Terminal() bool {
	return s == PurchaseStatusConfirmed || s == PurchaseStatusCancelled
}

type Purchase struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ProductID  uint            `gorm:"index;not null" json:"product_id"`
	Product    Product         `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
	Quantity   int             `gorm:"not null;check:chk_purchases_quantity,quantity > 0" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total_price"` // price x quantity at creation
	Status     PurchaseStatus  `gorm:"size:20;not null;index;default:pending" json:"status"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
