package dashboard

import (
	"context"

	"furniture-admin/internal/inventory"
	"furniture-admin/internal/models"
	"furniture-admin/internal/purchase"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const (
	recentPurchases   = 10
	LowStockThreshold = 5
)

type Summary struct {
	Products        []inventory.ProductWithStock    `json:"products"`
	LowStock        []inventory.ProductWithStock    `json:"low_stock"`
	RecentPurchases []purchase.Detail               `json:"recent_purchases"`
	StatusCounts    map[models.PurchaseStatus]int64 `json:"status_counts"`
	ConfirmedTotal  decimal.Decimal                 `json:"confirmed_total"`
}

// Build assembles the admin dashboard from the read views. The queries run
// separately, so the numbers are not a single snapshot.
func Build(ctx context.Context, store *inventory.Store, ledger *purchase.Ledger) (Summary, error) {
	products, err := store.ListProductsWithStock(ctx)
	if err != nil {
		return Summary{}, err
	}

	recent, err := ledger.ListDetails(ctx, purchase.ListFilter{Limit: recentPurchases})
	if err != nil {
		return Summary{}, err
	}

	counts, err := ledger.CountByStatus(ctx)
	if err != nil {
		return Summary{}, err
	}

	confirmed, err := ledger.SumTotal(ctx, models.PurchaseStatusConfirmed)
	if err != nil {
		return Summary{}, err
	}

	low := make([]inventory.ProductWithStock, 0)
	for _, p := range products {
		if p.Available() <= LowStockThreshold {
			low = append(low, p)
		}
	}

	return Summary{
		Products:        products,
		LowStock:        low,
		RecentPurchases: recent,
		StatusCounts:    counts,
		ConfirmedTotal:  confirmed,
	}, nil
}

// GET /api/dashboard
func Handler(svc *purchase.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := Build(c.UserContext(), svc.Inventory(), svc.Ledger())
		if err != nil {
			return err
		}
		return c.JSON(s)
	}
}
