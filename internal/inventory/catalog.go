package inventory

import (
	"context"
	"fmt"
	"strings"

	"furniture-admin/internal/apperr"
	"furniture-admin/internal/audit"
	"furniture-admin/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const productEntity = "product"

type NewProduct struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     *string         `json:"category"`
	InitialStock int             `json:"initial_stock"`
}

func (np *NewProduct) normalize() error {
	np.Name = strings.TrimSpace(np.Name)
	np.Description = strings.TrimSpace(np.Description)
	if np.Category != nil {
		cat := strings.TrimSpace(*np.Category)
		if cat == "" {
			np.Category = nil
		} else {
			np.Category = &cat
		}
	}

	if np.Name == "" {
		return apperr.Invalid("name is required")
	}
	if !np.Price.IsPositive() {
		return apperr.Invalid("price must be greater than zero")
	}
	if np.InitialStock < 0 {
		return apperr.Invalid("initial_stock must not be negative")
	}
	np.Price = np.Price.Round(2)
	return nil
}

// CreateProduct inserts a product together with its stock row.
func (s *Store) CreateProduct(ctx context.Context, np NewProduct) (ProductWithStock, error) {
	if err := np.normalize(); err != nil {
		return ProductWithStock{}, err
	}

	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p := models.Product{
			Name:        np.Name,
			Description: np.Description,
			Price:       np.Price,
			Category:    np.Category,
		}
		if err := tx.Create(&p).Error; err != nil {
			return apperr.Storage("create product", err)
		}
		stock := models.ProductStock{ProductID: p.ID, Quantity: np.InitialStock}
		if err := tx.Omit(clause.Associations).Create(&stock).Error; err != nil {
			return apperr.Storage("create stock", err)
		}
		id = p.ID

		return audit.WriteLog(ctx, tx, audit.LogOptions{
			EntityType:  productEntity,
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("product %q created with %d in stock", p.Name, np.InitialStock),
			After:       p,
		})
	})
	if err != nil {
		return ProductWithStock{}, err
	}
	return s.GetProductWithStock(ctx, id)
}

// Restock adds quantity units to a product's stock and records who did it.
func (s *Store) Restock(ctx context.Context, productID uint, quantity int, note string) (ProductWithStock, error) {
	if productID == 0 {
		return ProductWithStock{}, apperr.Invalid("product id is required")
	}
	if quantity <= 0 {
		return ProductWithStock{}, apperr.Invalid("quantity must be greater than zero")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.WithTx(tx)
		before, err := st.GetStock(ctx, productID)
		if err != nil {
			return err
		}
		if err := st.AdjustStock(ctx, productID, quantity); err != nil {
			return err
		}

		desc := fmt.Sprintf("restocked %d unit(s)", quantity)
		if note = strings.TrimSpace(note); note != "" {
			desc += ": " + note
		}
		return audit.WriteLog(ctx, tx, audit.LogOptions{
			EntityType:  productEntity,
			EntityID:    productID,
			Action:      models.AuditActionRestock,
			Description: desc,
			Before:      map[string]int{"quantity": before},
			After:       map[string]int{"quantity": before + quantity},
		})
	})
	if err != nil {
		return ProductWithStock{}, err
	}
	return s.GetProductWithStock(ctx, productID)
}
