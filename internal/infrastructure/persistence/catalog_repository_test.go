package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&catalog.Category{}, &catalog.Product{})
	require.NoError(t, err)

	return db
}

func mustCategory(t *testing.T, db *gorm.DB, name string) *catalog.Category {
	t.Helper()

	category, err := catalog.NewCategory(name, "")
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).Save(context.Background(), category))
	return category
}

func mustProduct(t *testing.T, db *gorm.DB, name string, categoryID uuid.UUID, price string, stock int) *catalog.Product {
	t.Helper()

	money, err := valueobject.NewMoneyFromString(price)
	require.NoError(t, err)
	product, err := catalog.NewProduct(name, categoryID, money, stock)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), product))
	return product
}

func TestCategoryRepository(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	t.Run("save and find by id", func(t *testing.T) {
		category := mustCategory(t, db, "Beverages")

		found, err := repo.FindByID(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Beverages", found.Name)
	})

	t.Run("find by name", func(t *testing.T) {
		mustCategory(t, db, "Snacks")

		found, err := repo.FindByName(ctx, "Snacks")
		require.NoError(t, err)
		assert.Equal(t, "Snacks", found.Name)

		_, err = repo.FindByName(ctx, "Nonexistent")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exists by name", func(t *testing.T) {
		mustCategory(t, db, "Dairy")

		exists, err := repo.ExistsByName(ctx, "Dairy")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByName(ctx, "Missing")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete refuses when category has products", func(t *testing.T) {
		category := mustCategory(t, db, "Bakery")
		mustProduct(t, db, "Sourdough Loaf", category.ID, "4.50", 12)

		err := repo.Delete(ctx, category.ID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CATEGORY_IN_USE", domainErr.Code)

		// Category is still there
		_, err = repo.FindByID(ctx, category.ID)
		assert.NoError(t, err)
	})

	t.Run("delete empty category", func(t *testing.T) {
		category := mustCategory(t, db, "Seasonal")

		require.NoError(t, repo.Delete(ctx, category.ID))

		_, err := repo.FindByID(ctx, category.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete unknown category", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductRepository(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	category := mustCategory(t, db, "Grocery")

	t.Run("save and find by id", func(t *testing.T) {
		product := mustProduct(t, db, "Olive Oil 500ml", category.ID, "8.75", 20)

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Olive Oil 500ml", found.Name)
		assert.Equal(t, 20, found.Stock)
		assert.True(t, found.Price.Equal(product.Price))
	})

	t.Run("find by barcode", func(t *testing.T) {
		product := mustProduct(t, db, "Rice 1kg", category.ID, "2.30", 40)
		require.NoError(t, product.SetBarcode("7501234567890"))
		require.NoError(t, repo.Save(ctx, product))

		found, err := repo.FindByBarcode(ctx, "7501234567890")
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)

		_, err = repo.FindByBarcode(ctx, "0000000000000")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByBarcode(ctx, "")
		assert.Error(t, err)
	})

	t.Run("find sellable excludes inactive and empty stock", func(t *testing.T) {
		db := setupCatalogTestDB(t)
		repo := NewGormProductRepository(db)
		category := mustCategory(t, db, "Drinks")

		mustProduct(t, db, "Cola", category.ID, "1.50", 10)
		empty := mustProduct(t, db, "Lemonade", category.ID, "1.20", 0)
		inactive := mustProduct(t, db, "Discontinued Soda", category.ID, "1.00", 5)
		require.NoError(t, inactive.Deactivate())
		require.NoError(t, repo.Save(ctx, inactive))

		products, err := repo.FindSellable(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Cola", products[0].Name)
		assert.NotEqual(t, empty.ID, products[0].ID)
	})

	t.Run("low stock listing and count", func(t *testing.T) {
		db := setupCatalogTestDB(t)
		repo := NewGormProductRepository(db)
		category := mustCategory(t, db, "Pantry")

		mustProduct(t, db, "Flour", category.ID, "1.80", 3)
		mustProduct(t, db, "Sugar", category.ID, "1.60", 9)
		mustProduct(t, db, "Salt", category.ID, "0.90", 10)

		low, err := repo.FindLowStock(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, low, 2)

		count, err := repo.CountLowStock(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("filters by category and active", func(t *testing.T) {
		db := setupCatalogTestDB(t)
		repo := NewGormProductRepository(db)
		catA := mustCategory(t, db, "A")
		catB := mustCategory(t, db, "B")

		mustProduct(t, db, "In A", catA.ID, "1.00", 1)
		mustProduct(t, db, "In B", catB.ID, "1.00", 1)

		filter := shared.DefaultFilter()
		filter.Filters = map[string]any{"category_id": catA.ID}

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "In A", products[0].Name)

		count, err := repo.CountByCategory(ctx, catB.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("exists by barcode", func(t *testing.T) {
		product := mustProduct(t, db, "Pasta 500g", category.ID, "1.10", 15)
		require.NoError(t, product.SetBarcode("8412345678905"))
		require.NoError(t, repo.Save(ctx, product))

		exists, err := repo.ExistsByBarcode(ctx, "8412345678905")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByBarcode(ctx, "")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
