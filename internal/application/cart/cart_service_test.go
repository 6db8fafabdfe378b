package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/retailpos/backend/internal/infrastructure/session"
)

type fakeProductRepository struct {
	catalog.ProductRepository
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepository) add(t *testing.T, name, price string, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, uuid.New(), valueobject.NewMoneyUSD(decimal.RequireFromString(price)), stock)
	require.NoError(t, err)
	r.products[product.ID] = product
	return product
}

func newTestCartService(t *testing.T) (*CartService, *fakeProductRepository) {
	t.Helper()
	repo := newFakeProductRepository()
	return NewCartService(session.NewMemoryCartStore(), repo), repo
}

func TestCartServiceAddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("adds and persists entry", func(t *testing.T) {
		service, repo := newTestCartService(t)
		product := repo.add(t, "Espresso", "3.00", 20)

		resp, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
		require.NoError(t, err)
		require.Len(t, resp.Entries, 1)
		assert.Equal(t, 2, resp.Entries[0].Quantity)
		assert.Equal(t, "6.00", resp.Total)

		reloaded, err := service.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "6.00", reloaded.Total)
	})

	t.Run("caps quantity at available stock", func(t *testing.T) {
		service, repo := newTestCartService(t)
		product := repo.add(t, "Mug", "10.00", 5)

		resp, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 10})
		require.NoError(t, err)
		require.Len(t, resp.Entries, 1)
		assert.Equal(t, 5, resp.Entries[0].Quantity)
		assert.Equal(t, "50.00", resp.Total)
	})

	t.Run("rejects add once entry is at stock", func(t *testing.T) {
		service, repo := newTestCartService(t)
		product := repo.add(t, "Mug", "10.00", 5)

		_, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 5})
		require.NoError(t, err)

		_, err = service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		resp, err := service.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 5, resp.Entries[0].Quantity)
	})

	t.Run("rejects inactive product", func(t *testing.T) {
		service, repo := newTestCartService(t)
		product := repo.add(t, "Retired", "1.00", 3)
		require.NoError(t, product.Deactivate())

		_, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrOutOfStock)
	})

	t.Run("unknown product", func(t *testing.T) {
		service, _ := newTestCartService(t)

		_, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: uuid.New(), Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("price snapshot survives a catalog price change", func(t *testing.T) {
		service, repo := newTestCartService(t)
		product := repo.add(t, "Beans", "12.00", 8)

		_, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 1})
		require.NoError(t, err)

		require.NoError(t, product.SetPrice(valueobject.NewMoneyUSD(decimal.RequireFromString("15.00"))))

		resp, err := service.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "12.00", resp.Entries[0].UnitPrice)
	})
}

func TestCartServiceSetQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("replaces quantity", func(t *testing.T) {
		service, repo := newTestCartService(t)
		product := repo.add(t, "Espresso", "3.00", 20)

		_, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
		require.NoError(t, err)

		resp, err := service.SetQuantity(ctx, userID, product.ID, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, resp.Entries[0].Quantity)
		assert.Equal(t, "21.00", resp.Total)
	})

	t.Run("zero removes the entry", func(t *testing.T) {
		service, repo := newTestCartService(t)
		product := repo.add(t, "Espresso", "3.00", 20)

		_, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
		require.NoError(t, err)

		resp, err := service.SetQuantity(ctx, userID, product.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, resp.Entries)
	})

	t.Run("over stock keeps prior quantity", func(t *testing.T) {
		service, repo := newTestCartService(t)
		product := repo.add(t, "Mug", "10.00", 5)

		_, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 3})
		require.NoError(t, err)

		_, err = service.SetQuantity(ctx, userID, product.ID, 6)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		resp, err := service.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Entries[0].Quantity)
	})
}

func TestCartServiceRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	service, repo := newTestCartService(t)
	product := repo.add(t, "Espresso", "3.00", 20)

	_, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	t.Run("remove absent product is a no-op", func(t *testing.T) {
		resp, err := service.RemoveItem(ctx, userID, uuid.New())
		require.NoError(t, err)
		assert.Len(t, resp.Entries, 1)
	})

	t.Run("remove deletes the entry", func(t *testing.T) {
		resp, err := service.RemoveItem(ctx, userID, product.ID)
		require.NoError(t, err)
		assert.Empty(t, resp.Entries)
	})

	t.Run("clear empties the cart", func(t *testing.T) {
		_, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 1})
		require.NoError(t, err)

		require.NoError(t, service.Clear(ctx, userID))

		resp, err := service.Get(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, resp.Entries)
	})
}
