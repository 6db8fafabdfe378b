package sales

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared"
)

type stubProductRepository struct {
	catalog.ProductRepository
	products map[uuid.UUID]*catalog.Product
}

func newStubProductRepository(products ...*catalog.Product) *stubProductRepository {
	repo := &stubProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *stubProductRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func TestPOSServiceCreateSale(t *testing.T) {
	ctx := context.Background()
	cashierID := uuid.New()

	t.Run("uses live catalog prices", func(t *testing.T) {
		espresso := newProduct(t, "Espresso", "3.50", 20)
		ledger := newFakeLedger()
		service := NewPOSService(ledger, newStubProductRepository(espresso), nil)

		resp, err := service.CreateSale(ctx, cashierID, CreatePOSSaleRequest{
			PaymentMethod: "cash",
			Items:         []POSItemRequest{{ProductID: espresso.ID, Quantity: 3}},
		})
		require.NoError(t, err)
		assert.Equal(t, "10.50", resp.Total)
		assert.Equal(t, cashierID, resp.UserID)
		require.Len(t, ledger.committed, 1)
	})

	t.Run("attributes sale to the customer when given", func(t *testing.T) {
		espresso := newProduct(t, "Espresso", "3.50", 20)
		customerID := uuid.New()
		service := NewPOSService(newFakeLedger(), newStubProductRepository(espresso), nil)

		resp, err := service.CreateSale(ctx, cashierID, CreatePOSSaleRequest{
			CustomerID:    &customerID,
			PaymentMethod: "card",
			Items:         []POSItemRequest{{ProductID: espresso.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, customerID, resp.UserID)
	})

	t.Run("no items", func(t *testing.T) {
		service := NewPOSService(newFakeLedger(), newStubProductRepository(), nil)

		_, err := service.CreateSale(ctx, cashierID, CreatePOSSaleRequest{PaymentMethod: "cash"})
		assert.ErrorIs(t, err, shared.ErrEmptyCart)
	})

	t.Run("inactive product", func(t *testing.T) {
		retired := newProduct(t, "Retired", "1.00", 5)
		require.NoError(t, retired.Deactivate())
		ledger := newFakeLedger()
		service := NewPOSService(ledger, newStubProductRepository(retired), nil)

		_, err := service.CreateSale(ctx, cashierID, CreatePOSSaleRequest{
			PaymentMethod: "cash",
			Items:         []POSItemRequest{{ProductID: retired.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, shared.ErrOutOfStock)
		assert.Empty(t, ledger.committed)
	})

	t.Run("short stock", func(t *testing.T) {
		mug := newProduct(t, "Mug", "10.00", 2)
		service := NewPOSService(newFakeLedger(), newStubProductRepository(mug), nil)

		_, err := service.CreateSale(ctx, cashierID, CreatePOSSaleRequest{
			PaymentMethod: "cash",
			Items:         []POSItemRequest{{ProductID: mug.ID, Quantity: 3}},
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("unknown product", func(t *testing.T) {
		service := NewPOSService(newFakeLedger(), newStubProductRepository(), nil)

		_, err := service.CreateSale(ctx, cashierID, CreatePOSSaleRequest{
			PaymentMethod: "cash",
			Items:         []POSItemRequest{{ProductID: uuid.New(), Quantity: 1}},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPOSServiceGet(t *testing.T) {
	ctx := context.Background()
	cashierID := uuid.New()
	customerID := uuid.New()

	espresso := newProduct(t, "Espresso", "3.50", 20)
	ledger := newFakeLedger()
	service := NewPOSService(ledger, newStubProductRepository(espresso), nil)

	sale, err := service.CreateSale(ctx, cashierID, CreatePOSSaleRequest{
		CustomerID:    &customerID,
		PaymentMethod: "cash",
		Items:         []POSItemRequest{{ProductID: espresso.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	t.Run("owner can read their sale", func(t *testing.T) {
		resp, err := service.Get(ctx, customerID, identity.RoleCustomer, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, sale.ID, resp.ID)
	})

	t.Run("admin can read any sale", func(t *testing.T) {
		_, err := service.Get(ctx, uuid.New(), identity.RoleAdmin, sale.ID)
		require.NoError(t, err)
	})

	t.Run("other customer is refused", func(t *testing.T) {
		_, err := service.Get(ctx, uuid.New(), identity.RoleCustomer, sale.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("unknown sale", func(t *testing.T) {
		_, err := service.Get(ctx, customerID, identity.RoleCustomer, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPOSServiceListByUser(t *testing.T) {
	ctx := context.Background()
	cashierID := uuid.New()
	customerID := uuid.New()

	espresso := newProduct(t, "Espresso", "3.50", 20)
	ledger := newFakeLedger()
	service := NewPOSService(ledger, newStubProductRepository(espresso), nil)

	for i := 0; i < 2; i++ {
		_, err := service.CreateSale(ctx, cashierID, CreatePOSSaleRequest{
			CustomerID:    &customerID,
			PaymentMethod: "cash",
			Items:         []POSItemRequest{{ProductID: espresso.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}
	_, err := service.CreateSale(ctx, cashierID, CreatePOSSaleRequest{
		PaymentMethod: "cash",
		Items:         []POSItemRequest{{ProductID: espresso.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	sales, total, err := service.ListByUser(ctx, customerID, SaleListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, sales, 2)
}
