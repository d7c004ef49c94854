package dashboard

import (
	"context"
	"testing"
	"time"

	"furniture-admin/internal/database/dbtest"
	"furniture-admin/internal/models"
	"furniture-admin/internal/purchase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSummary(t *testing.T) {
	db := dbtest.Seeded(t)
	svc := purchase.NewService(db, 2*time.Second)
	ctx := context.Background()

	product, err := svc.Inventory().GetProduct(ctx, 1)
	require.NoError(t, err)

	a, err := svc.Submit(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, a.ID)
	require.NoError(t, err)
	b, err := svc.Submit(ctx, 2, 16)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 3, 1)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, b.ID)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 4, 15)
	require.NoError(t, err)

	s, err := Build(ctx, svc.Inventory(), svc.Ledger())
	require.NoError(t, err)

	assert.Len(t, s.Products, 10)
	require.Len(t, s.LowStock, 1)
	assert.Equal(t, uint(4), s.LowStock[0].ID)
	assert.Len(t, s.RecentPurchases, 4)
	assert.Equal(t, int64(1), s.StatusCounts[models.PurchaseStatusConfirmed])
	assert.Equal(t, int64(2), s.StatusCounts[models.PurchaseStatusPending])
	assert.Equal(t, int64(1), s.StatusCounts[models.PurchaseStatusCancelled])
	assert.True(t, s.ConfirmedTotal.Equal(product.Price.Mul(decimal.NewFromInt(2))), "got %s", s.ConfirmedTotal)
}

func TestBuildSummaryEmptyLedger(t *testing.T) {
	db := dbtest.Seeded(t)
	svc := purchase.NewService(db, 2*time.Second)

	s, err := Build(context.Background(), svc.Inventory(), svc.Ledger())
	require.NoError(t, err)
	assert.Empty(t, s.RecentPurchases)
	assert.Empty(t, s.LowStock)
	assert.True(t, s.ConfirmedTotal.IsZero())
}
