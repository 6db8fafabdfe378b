package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/cart"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

func testProduct(t *testing.T, name, price string, stock int) *catalog.Product {
	t.Helper()

	money, err := valueobject.NewMoneyFromString(price)
	require.NoError(t, err)
	product, err := catalog.NewProduct(name, uuid.New(), money, stock)
	require.NoError(t, err)
	return product
}

func TestMemoryCartStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCartStore()
	userID := uuid.New()

	t.Run("load absent cart returns fresh empty cart", func(t *testing.T) {
		c, err := store.Load(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, c.UserID)
		assert.True(t, c.IsEmpty())
	})

	t.Run("save and load round trip", func(t *testing.T) {
		c := cart.New(userID)
		product := testProduct(t, "Notebook", "3.25", 10)
		require.NoError(t, c.Add(product, 2))
		require.NoError(t, store.Save(ctx, c))

		loaded, err := store.Load(ctx, userID)
		require.NoError(t, err)
		require.Len(t, loaded.Entries, 1)
		assert.Equal(t, product.ID, loaded.Entries[0].ProductID)
		assert.Equal(t, 2, loaded.Entries[0].Quantity)
		assert.True(t, loaded.Entries[0].UnitPrice.Equal(product.Price))
	})

	t.Run("loaded cart is isolated from stored state", func(t *testing.T) {
		loaded, err := store.Load(ctx, userID)
		require.NoError(t, err)
		loaded.Remove(loaded.Entries[0].ProductID)

		// Mutation is invisible until saved
		again, err := store.Load(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, again.Entries, 1)
	})

	t.Run("clear removes the cart", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx, userID))

		c, err := store.Load(ctx, userID)
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())

		// Clearing again is a no-op
		assert.NoError(t, store.Clear(ctx, userID))
	})
}
