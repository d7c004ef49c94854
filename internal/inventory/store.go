package inventory

import (
	"context"
	"errors"
	"time"

	"furniture-admin/internal/apperr"
	"furniture-admin/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store reads products and owns every change to stock counters.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx returns a Store bound to tx, for use inside db.Transaction.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// ProductWithStock is a product row left-joined with its stock row. Stock is
// nil when the product has no stock record.
type ProductWithStock struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Category       *string         `json:"category"`
	CreatedAt      time.Time       `json:"created_at"`
	Stock          *int            `json:"stock"`
	StockUpdatedAt *time.Time      `json:"stock_updated_at"`
}

// Available returns the stock quantity, treating a missing stock row as zero.
func (p ProductWithStock) Available() int {
	if p.Stock == nil {
		return 0
	}
	return *p.Stock
}

func (s *Store) GetProduct(ctx context.Context, productID uint) (models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, apperr.ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, apperr.Storage("get product", err)
	}
	return p, nil
}

func (s *Store) GetStock(ctx context.Context, productID uint) (int, error) {
	var st models.ProductStock
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.ErrProductNotFound
	}
	if err != nil {
		return 0, apperr.Storage("get stock", err)
	}
	return st.Quantity, nil
}

// AdjustStock applies delta to the product's stock in a single conditional
// UPDATE, so concurrent callers can never take the quantity below zero.
func (s *Store) AdjustStock(ctx context.Context, productID uint, delta int) error {
	if delta == 0 {
		return apperr.Invalid("stock delta must not be zero")
	}

	res := s.db.WithContext(ctx).
		Model(&models.ProductStock{}).
		Where("product_id = ? AND quantity + ? >= 0", productID, delta).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return apperr.Storage("adjust stock", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// Nothing matched: either the row is missing or the guard rejected it.
	if _, err := s.GetStock(ctx, productID); err != nil {
		return err
	}
	return apperr.ErrInsufficientStock
}

func productsWithStockQuery() sq.SelectBuilder {
	return sq.Select(
		"p.id", "p.name", "p.description", "p.price", "p.category", "p.created_at",
		"ps.quantity AS stock", "ps.updated_at AS stock_updated_at",
	).
		From("products p").
		LeftJoin("product_stocks ps ON ps.product_id = p.id")
}

// ListProductsWithStock returns every product with its stock, ordered by id.
func (s *Store) ListProductsWithStock(ctx context.Context) ([]ProductWithStock, error) {
	query, args, err := productsWithStockQuery().OrderBy("p.id").ToSql()
	if err != nil {
		return nil, err
	}

	rows := make([]ProductWithStock, 0)
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, apperr.Storage("list products", err)
	}
	return rows, nil
}

func (s *Store) GetProductWithStock(ctx context.Context, productID uint) (ProductWithStock, error) {
	query, args, err := productsWithStockQuery().Where(sq.Eq{"p.id": productID}).ToSql()
	if err != nil {
		return ProductWithStock{}, err
	}

	var rows []ProductWithStock
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return ProductWithStock{}, apperr.Storage("get product", err)
	}
	if len(rows) == 0 {
		return ProductWithStock{}, apperr.ErrProductNotFound
	}
	return rows[0], nil
}
