package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"furniture-admin/internal/apperr"
	"furniture-admin/internal/audit"
	"furniture-admin/internal/inventory"
	"furniture-admin/internal/models"
	"furniture-admin/internal/obs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const entityType = "purchase"

// DefaultTimeout bounds a workflow call when the caller passes zero.
const DefaultTimeout = 5 * time.Second

// Service runs the purchase lifecycle. Each operation executes in one
// database transaction, and stock only changes through
// inventory.Store.AdjustStock.
type Service struct {
	db        *gorm.DB
	inventory *inventory.Store
	ledger    *Ledger
	timeout   time.Duration
}

func NewService(db *gorm.DB, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		db:        db,
		inventory: inventory.NewStore(db),
		ledger:    NewLedger(db),
		timeout:   timeout,
	}
}

func (s *Service) Ledger() *Ledger { return s.ledger }

func (s *Service) Inventory() *inventory.Store { return s.inventory }

type txScope struct {
	tx        *gorm.DB
	inventory *inventory.Store
	ledger    *Ledger
}

// inTx runs fn in a transaction bounded by the service timeout. Any error
// rolls the transaction back.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context, sc txScope) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, txScope{
			tx:        tx,
			inventory: s.inventory.WithTx(tx),
			ledger:    s.ledger.WithTx(tx),
		})
	})
	return classify(err)
}

// classify leaves domain errors alone and marks everything else (begin,
// commit, context expiry) as a storage failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{
		apperr.ErrInvalidInput,
		apperr.ErrNotFound,
		apperr.ErrInsufficientStock,
		apperr.ErrAlreadyCancelled,
		apperr.ErrInvalidTransition,
		apperr.ErrStorage,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return apperr.Storage("purchase transaction", err)
}

// Submit checks stock, records a pending purchase and debits the stock, all
// or nothing.
func (s *Service) Submit(ctx context.Context, productID uint, quantity int) (models.Purchase, error) {
	if productID == 0 {
		return models.Purchase{}, apperr.Invalid("product_id is required")
	}
	if quantity <= 0 {
		return models.Purchase{}, apperr.Invalid("quantity must be greater than zero")
	}

	var created models.Purchase
	err := s.inTx(ctx, func(ctx context.Context, sc txScope) error {
		available, err := sc.inventory.GetStock(ctx, productID)
		if err != nil {
			return err
		}
		if available < quantity {
			return apperr.ErrInsufficientStock
		}

		product, err := sc.inventory.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		total := product.Price.Mul(decimal.NewFromInt(int64(quantity)))

		created, err = sc.ledger.Create(ctx, productID, quantity, total)
		if err != nil {
			return err
		}

		// The conditional debit is what actually guards against overselling:
		// a concurrent submit that read the same stock loses here and the
		// whole transaction rolls back.
		if err := sc.inventory.AdjustStock(ctx, productID, -quantity); err != nil {
			return err
		}

		return audit.WriteLog(ctx, sc.tx, audit.LogOptions{
			EntityType:  entityType,
			EntityID:    created.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("purchase of %d x %s, total %s", quantity, product.Name, total.StringFixed(2)),
			After:       created,
		})
	})
	if err != nil {
		return models.Purchase{}, err
	}

	obs.Logger.Info("purchase_submitted",
		"purchase_id", created.ID,
		"product_id", productID,
		"quantity", quantity,
		"total_price", created.TotalPrice.String(),
	)
	return created, nil
}

// Cancel moves a pending purchase to cancelled and returns its quantity to
// stock. Cancelling twice fails with ErrAlreadyCancelled; stock is credited
// only by the call that performed the transition.
func (s *Service) Cancel(ctx context.Context, id uint) (models.Purchase, error) {
	if id == 0 {
		return models.Purchase{}, apperr.Invalid("purchase id is required")
	}

	var updated models.Purchase
	err := s.inTx(ctx, func(ctx context.Context, sc txScope) error {
		before, err := s.transition(ctx, sc, id, models.PurchaseStatusCancelled, checkCancellable)
		if err != nil {
			return err
		}

		if err := sc.inventory.AdjustStock(ctx, before.ProductID, before.Quantity); err != nil {
			return err
		}

		updated, err = sc.ledger.Get(ctx, id)
		if err != nil {
			return err
		}
		return audit.WriteLog(ctx, sc.tx, audit.LogOptions{
			EntityType:  entityType,
			EntityID:    id,
			Action:      models.AuditActionCancel,
			Description: fmt.Sprintf("purchase cancelled, %d unit(s) returned to stock", before.Quantity),
			Before:      before,
			After:       updated,
		})
	})
	if err != nil {
		return models.Purchase{}, err
	}

	obs.Logger.Info("purchase_cancelled", "purchase_id", id, "product_id", updated.ProductID, "quantity", updated.Quantity)
	return updated, nil
}

// Confirm moves a pending purchase to confirmed. Terminal purchases cannot
// be confirmed; in particular a cancelled purchase stays cancelled because
// its stock has already been returned.
func (s *Service) Confirm(ctx context.Context, id uint) (models.Purchase, error) {
	if id == 0 {
		return models.Purchase{}, apperr.Invalid("purchase id is required")
	}

	var updated models.Purchase
	err := s.inTx(ctx, func(ctx context.Context, sc txScope) error {
		before, err := s.transition(ctx, sc, id, models.PurchaseStatusConfirmed, checkConfirmable)
		if err != nil {
			return err
		}

		updated, err = sc.ledger.Get(ctx, id)
		if err != nil {
			return err
		}
		return audit.WriteLog(ctx, sc.tx, audit.LogOptions{
			EntityType:  entityType,
			EntityID:    id,
			Action:      models.AuditActionConfirm,
			Description: "purchase confirmed",
			Before:      before,
			After:       updated,
		})
	})
	if err != nil {
		return models.Purchase{}, err
	}

	obs.Logger.Info("purchase_confirmed", "purchase_id", id)
	return updated, nil
}

// transition loads the purchase, validates it with check and flips it from
// pending to target with a compare-and-set. If another transaction changed
// the status in between, the fresh status is validated again so the caller
// gets the matching error.
func (s *Service) transition(
	ctx context.Context,
	sc txScope,
	id uint,
	target models.PurchaseStatus,
	check func(models.PurchaseStatus) error,
) (models.Purchase, error) {
	before, err := sc.ledger.Get(ctx, id)
	if err != nil {
		return models.Purchase{}, err
	}
	if err := check(before.Status); err != nil {
		return models.Purchase{}, err
	}

	ok, err := sc.ledger.Transition(ctx, id, models.PurchaseStatusPending, target)
	if err != nil {
		return models.Purchase{}, err
	}
	if ok {
		return before, nil
	}

	current, err := sc.ledger.Get(ctx, id)
	if err != nil {
		return models.Purchase{}, err
	}
	if err := check(current.Status); err != nil {
		return models.Purchase{}, err
	}
	return models.Purchase{}, fmt.Errorf("%w: purchase %d changed concurrently", apperr.ErrInvalidTransition, id)
}

func checkCancellable(status models.PurchaseStatus) error {
	switch {
	case status == models.PurchaseStatusCancelled:
		return apperr.ErrAlreadyCancelled
	case status.Terminal():
		return fmt.Errorf("%w: cannot cancel a %s purchase", apperr.ErrInvalidTransition, status)
	}
	return nil
}

func checkConfirmable(status models.PurchaseStatus) error {
	if status.Terminal() {
		return fmt.Errorf("%w: cannot confirm a %s purchase", apperr.ErrInvalidTransition, status)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uint) (Detail, error) {
	return s.ledger.GetDetail(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Detail, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Invalid("unknown purchase status")
	}
	return s.ledger.ListDetails(ctx, f)
}
