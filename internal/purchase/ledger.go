package purchase

import (
	"context"
	"errors"
	"time"

	"furniture-admin/internal/apperr"
	"furniture-admin/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger persists purchases. It does not validate status transitions;
// that is the Service's job.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// WithTx returns a Ledger bound to tx, for use inside db.Transaction.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx}
}

type ListFilter struct {
	Status    models.PurchaseStatus
	ProductID uint
	Limit     int
}

func (l *Ledger) Create(ctx context.Context, productID uint, quantity int, totalPrice decimal.Decimal) (models.Purchase, error) {
	p := models.Purchase{
		ProductID:  productID,
		Quantity:   quantity,
		TotalPrice: totalPrice,
		Status:     models.PurchaseStatusPending,
	}
	if err := l.db.WithContext(ctx).Omit(clause.Associations).Create(&p).Error; err != nil {
		return models.Purchase{}, apperr.Storage("create purchase", err)
	}
	return p, nil
}

func (l *Ledger) Get(ctx context.Context, id uint) (models.Purchase, error) {
	var p models.Purchase
	err := l.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Purchase{}, apperr.ErrPurchaseNotFound
	}
	if err != nil {
		return models.Purchase{}, apperr.Storage("get purchase", err)
	}
	return p, nil
}

// List returns purchases newest first.
func (l *Ledger) List(ctx context.Context, f ListFilter) ([]models.Purchase, error) {
	q := l.db.WithContext(ctx).Model(&models.Purchase{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ProductID > 0 {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	out := make([]models.Purchase, 0)
	if err := q.Order("created_at desc, id desc").Find(&out).Error; err != nil {
		return nil, apperr.Storage("list purchases", err)
	}
	return out, nil
}

// SetStatus overwrites the status regardless of its current value.
func (l *Ledger) SetStatus(ctx context.Context, id uint, status models.PurchaseStatus) error {
	if !status.Valid() {
		return apperr.Invalid("unknown purchase status")
	}
	res := l.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return apperr.Storage("set purchase status", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrPurchaseNotFound
	}
	return nil
}

// Transition moves the purchase from one status to another only if it is
// still in from. It reports false when the row was not in from (or missing).
func (l *Ledger) Transition(ctx context.Context, id uint, from, to models.PurchaseStatus) (bool, error) {
	res := l.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return false, apperr.Storage("transition purchase", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// CountByStatus returns how many purchases are in each status.
func (l *Ledger) CountByStatus(ctx context.Context) (map[models.PurchaseStatus]int64, error) {
	var rows []struct {
		Status models.PurchaseStatus
		Count  int64
	}
	err := l.db.WithContext(ctx).Model(&models.Purchase{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("count purchases", err)
	}

	out := map[models.PurchaseStatus]int64{
		models.PurchaseStatusPending:   0,
		models.PurchaseStatusConfirmed: 0,
		models.PurchaseStatusCancelled: 0,
	}
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}

// SumTotal adds up TotalPrice over purchases in status.
func (l *Ledger) SumTotal(ctx context.Context, status models.PurchaseStatus) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := l.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("status = ?", status).
		Select("COALESCE(SUM(total_price), 0)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, apperr.Storage("sum purchases", err)
	}
	return total, nil
}
