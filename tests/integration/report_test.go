package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
)

func TestReportAggregates(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()

	productRepo := persistence.NewGormProductRepository(tdb.DB)
	ledger := persistence.NewGormSaleLedger(tdb.DB)
	reportRepo := persistence.NewGormReportRepository(tdb.DB)
	posService := salesapp.NewPOSService(ledger, productRepo, nil)

	category := tdb.SeedCategory("Snacks")
	chips := tdb.SeedProduct(category.ID, "Chips", "2.50", 100)
	soda := tdb.SeedProduct(category.ID, "Soda", "1.75", 100)
	cashier := tdb.SeedStaff("reporter", "cashier")

	// Two cash sales of chips, one card sale of soda
	for i := 0; i < 2; i++ {
		_, err := posService.CreateSale(ctx, cashier.ID, salesapp.CreatePOSSaleRequest{
			Items:         []salesapp.POSItemRequest{{ProductID: chips.ID, Quantity: 3}},
			PaymentMethod: "cash",
		})
		require.NoError(t, err)
	}
	_, err := posService.CreateSale(ctx, cashier.ID, salesapp.CreatePOSSaleRequest{
		Items:         []salesapp.POSItemRequest{{ProductID: soda.ID, Quantity: 2}},
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)

	t.Run("totals", func(t *testing.T) {
		total, count, err := reportRepo.TotalBetween(ctx, start, end)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.Equal(t, "18.50", total.StringFixed(2))
	})

	t.Run("top products ranked by units", func(t *testing.T) {
		top, err := reportRepo.TopProducts(ctx, start, end, 10)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "Chips", top[0].ProductName)
		assert.Equal(t, int64(6), top[0].UnitsSold)
		assert.Equal(t, "15.00", top[0].Revenue.StringFixed(2))
		assert.Equal(t, "Soda", top[1].ProductName)
	})

	t.Run("payment method breakdown", func(t *testing.T) {
		breakdown, err := reportRepo.ByPaymentMethod(ctx, start, end)
		require.NoError(t, err)
		require.Len(t, breakdown, 2)

		byMethod := map[string]int64{}
		for _, row := range breakdown {
			byMethod[row.PaymentMethod] = row.SaleCount
		}
		assert.Equal(t, int64(2), byMethod["cash"])
		assert.Equal(t, int64(1), byMethod["card"])
	})

	t.Run("daily series", func(t *testing.T) {
		daily, err := reportRepo.DailyTotals(ctx, start, end)
		require.NoError(t, err)
		require.Len(t, daily, 1)
		assert.Equal(t, int64(3), daily[0].SaleCount)
		assert.Equal(t, "18.50", daily[0].Total.StringFixed(2))
	})

	t.Run("window excludes sales outside the period", func(t *testing.T) {
		_, count, err := reportRepo.TotalBetween(ctx, start.Add(-48*time.Hour), start)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}
