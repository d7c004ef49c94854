package inventory

import (
	"context"
	"testing"

	"furniture-admin/internal/apperr"
	"furniture-admin/internal/audit"
	"furniture-admin/internal/database"
	"furniture-admin/internal/database/dbtest"
	"furniture-admin/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	db := dbtest.New(t)
	store := NewStore(db)
	ctx := audit.WithActor(context.Background(), audit.Actor{UserID: 1, Name: "Admin"})
	category := "  Rak "

	p, err := store.CreateProduct(ctx, NewProduct{
		Name:         " Rak Buku Kayu ",
		Price:        decimal.RequireFromString("1250000.499"),
		Category:     &category,
		InitialStock: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "Rak Buku Kayu", p.Name)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Rak", *p.Category)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1250000.5")), "got %s", p.Price)
	assert.Equal(t, 7, p.Available())

	logs, err := audit.List(ctx, db, audit.ListFilter{EntityType: "product", EntityID: p.ID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionCreate, logs[0].Action)
	assert.Equal(t, "Admin", logs[0].UserName)
}

func TestCreateProductValidation(t *testing.T) {
	store := NewStore(dbtest.New(t))
	ctx := context.Background()

	tests := []struct {
		name string
		in   NewProduct
	}{
		{"missing name", NewProduct{Price: decimal.NewFromInt(10)}},
		{"zero price", NewProduct{Name: "Kursi"}},
		{"negative price", NewProduct{Name: "Kursi", Price: decimal.NewFromInt(-5)}},
		{"negative stock", NewProduct{Name: "Kursi", Price: decimal.NewFromInt(5), InitialStock: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.CreateProduct(ctx, tt.in)
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}

	products, err := store.ListProductsWithStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestRestock(t *testing.T) {
	db := dbtest.Seeded(t)
	store := NewStore(db)
	ctx := context.Background()

	p, err := store.Restock(ctx, 3, 5, "container from Jepara")
	require.NoError(t, err)
	assert.Equal(t, database.InitialStock+5, p.Available())

	logs, err := audit.List(ctx, db, audit.ListFilter{EntityType: "product", EntityID: 3})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionRestock, logs[0].Action)
	assert.Equal(t, "restocked 5 unit(s): container from Jepara", logs[0].Description)
	assert.JSONEq(t, `{"quantity":25}`, logs[0].AfterData)

	_, err = store.Restock(ctx, 3, 0, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = store.Restock(ctx, 999, 1, "")
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)
}
