package models

import "time"

// ProductStock holds the available quantity of one product. Quantity is only
// changed through a conditional update so it never drops below zero.
type ProductStock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"uniqueIndex;not null" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Quantity  int       `gorm:"not null;default:0;check:chk_product_stocks_quantity,quantity >= 0" json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}
