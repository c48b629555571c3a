// Package testdb opens throwaway sqlite databases for package tests.
package testdb

import (
	"path/filepath"
	"testing"

	"storefront-backend/internal/client"
	"storefront-backend/internal/config"
	"storefront-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a migrated sqlite database that lives for the duration of the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := client.InitDB(config.Database{
		Driver:       "sqlite",
		URL:          filepath.Join(t.TempDir(), "store.db"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, client.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Variant inserts a product with one variant holding stock units.
func Variant(t testing.TB, db *gorm.DB, stock int32) *model.ProductVariant {
	t.Helper()

	product := &model.Product{ID: uuid.NewString(), Name: "Body de encaje"}
	require.NoError(t, db.Create(product).Error)

	variant := &model.ProductVariant{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Size:      "M",
		Color:     "Rojo",
		SKU:       "SKU-" + uuid.NewString()[:8],
		Stock:     stock,
	}
	require.NoError(t, db.Create(variant).Error)
	variant.Product = product
	return variant
}

// Order inserts an order in status with one line per variant, each for quantity units.
func Order(t testing.TB, db *gorm.DB, status model.OrderStatus, quantity int32, variants ...*model.ProductVariant) *model.Order {
	t.Helper()

	id := uuid.NewString()
	unit := decimal.RequireFromString("59.90")
	order := &model.Order{
		ID:                id,
		OrderNumber:       id[:8],
		CustomerEmail:     "buyer@example.com",
		Status:            status,
		Subtotal:          unit,
		ShippingCost:      decimal.Zero,
		Discount:          decimal.Zero,
		Total:             unit,
		ExternalReference: "REF-" + id,
	}
	require.NoError(t, db.Create(order).Error)

	for _, v := range variants {
		item := &model.OrderItem{
			OrderID:     order.ID,
			ProductID:   v.ProductID,
			VariantID:   v.ID,
			Quantity:    quantity,
			UnitPrice:   unit,
			ProductName: "Body de encaje",
			Size:        v.Size,
			Color:       v.Color,
			SKU:         v.SKU,
		}
		require.NoError(t, db.Create(item).Error)
	}
	return order
}
