package purchase

import (
	"context"
	"time"

	"furniture-admin/internal/apperr"
	"furniture-admin/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

// Detail is a purchase joined with its product. TotalPrice is the frozen
// amount; ProductPrice is the product's current price, not what was paid.
type Detail struct {
	ID           uint                  `json:"id"`
	ProductID    uint                  `json:"product_id"`
	Quantity     int                   `json:"quantity"`
	TotalPrice   decimal.Decimal       `json:"total_price"`
	Status       models.PurchaseStatus `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	ProductName  string                `json:"name"`
	ProductPrice decimal.Decimal       `json:"current_price"`
}

// UnitPrice is the per-item price paid at purchase time.
func (d Detail) UnitPrice() decimal.Decimal {
	if d.Quantity <= 0 {
		return decimal.Zero
	}
	return d.TotalPrice.Div(decimal.NewFromInt(int64(d.Quantity)))
}

func detailQuery() sq.SelectBuilder {
	return sq.Select(
		"pu.id", "pu.product_id", "pu.quantity", "pu.total_price", "pu.status",
		"pu.created_at", "pu.updated_at",
		"pr.name AS product_name", "pr.price AS product_price",
	).
		From("purchases pu").
		Join("products pr ON pr.id = pu.product_id")
}

func (l *Ledger) GetDetail(ctx context.Context, id uint) (Detail, error) {
	query, args, err := detailQuery().Where(sq.Eq{"pu.id": id}).ToSql()
	if err != nil {
		return Detail{}, err
	}

	var rows []Detail
	if err := l.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return Detail{}, apperr.Storage("get purchase detail", err)
	}
	if len(rows) == 0 {
		return Detail{}, apperr.ErrPurchaseNotFound
	}
	return rows[0], nil
}

// ListDetails returns purchase details newest first.
func (l *Ledger) ListDetails(ctx context.Context, f ListFilter) ([]Detail, error) {
	b := detailQuery().OrderBy("pu.created_at DESC", "pu.id DESC")
	if f.Status != "" {
		b = b.Where(sq.Eq{"pu.status": f.Status})
	}
	if f.ProductID > 0 {
		b = b.Where(sq.Eq{"pu.product_id": f.ProductID})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows := make([]Detail, 0)
	if err := l.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, apperr.Storage("list purchase details", err)
	}
	return rows, nil
}
