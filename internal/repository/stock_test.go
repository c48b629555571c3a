package repository

import (
	"context"
	"testing"

	"storefront-backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockRepositoryDecrement(t *testing.T) {
	tests := []struct {
		name     string
		stock    int32
		quantity int32
		want     int32
	}{
		{name: "enough stock", stock: 10, quantity: 3, want: 7},
		{name: "exact stock", stock: 2, quantity: 2, want: 0},
		{name: "clamped at zero", stock: 1, quantity: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testdb.Open(t)
			repo := NewStockRepository(db)
			ctx := context.Background()

			variant := testdb.Variant(t, db, tt.stock)

			found, err := repo.Decrement(ctx, nil, variant.ID, tt.quantity)
			require.NoError(t, err)
			assert.True(t, found)

			got, err := repo.Get(ctx, variant.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Stock)
		})
	}
}

func TestStockRepositoryDecrementMissingVariant(t *testing.T) {
	db := testdb.Open(t)
	repo := NewStockRepository(db)

	found, err := repo.Decrement(context.Background(), nil, "gone", 1)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = repo.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}
