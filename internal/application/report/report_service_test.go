package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/report"
	"github.com/retailpos/backend/internal/domain/shared"
)

type recordedWindow struct {
	start time.Time
	end   time.Time
}

type fakeReportRepository struct {
	totals    map[string]decimal.Decimal
	counts    map[string]int64
	windows   []recordedWindow
	top       []report.TopProduct
	byMethod  []report.PaymentMethodBreakdown
	daily     []report.DailySales
	topLimits []int
}

func (r *fakeReportRepository) key(start, end time.Time) string {
	return start.Format(time.RFC3339) + "/" + end.Format(time.RFC3339)
}

func (r *fakeReportRepository) TotalBetween(_ context.Context, start, end time.Time) (decimal.Decimal, int64, error) {
	r.windows = append(r.windows, recordedWindow{start: start, end: end})
	key := r.key(start, end)
	return r.totals[key], r.counts[key], nil
}

func (r *fakeReportRepository) TopProducts(_ context.Context, _, _ time.Time, limit int) ([]report.TopProduct, error) {
	r.topLimits = append(r.topLimits, limit)
	return r.top, nil
}

func (r *fakeReportRepository) ByPaymentMethod(_ context.Context, _, _ time.Time) ([]report.PaymentMethodBreakdown, error) {
	return r.byMethod, nil
}

func (r *fakeReportRepository) DailyTotals(_ context.Context, _, _ time.Time) ([]report.DailySales, error) {
	return r.daily, nil
}

type fakeProductCounter struct {
	catalog.ProductRepository
	lowStock int64
}

func (f *fakeProductCounter) CountLowStock(_ context.Context) (int64, error) {
	return f.lowStock, nil
}

func TestReportServiceDashboard(t *testing.T) {
	ctx := context.Background()

	// frozen clock: Wednesday 2026-03-18 14:30 UTC
	now := time.Date(2026, 3, 18, 14, 30, 0, 0, time.UTC)
	today := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1)
	weekStart := today.AddDate(0, 0, -6)
	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeReportRepository{
		totals: map[string]decimal.Decimal{},
		counts: map[string]int64{},
		top: []report.TopProduct{
			{ProductName: "Espresso", UnitsSold: 42, Revenue: decimal.RequireFromString("126.00")},
		},
	}
	key := func(s, e time.Time) string { return repo.key(s, e) }
	repo.totals[key(today, end)] = decimal.RequireFromString("150.50")
	repo.counts[key(today, end)] = 12
	repo.totals[key(weekStart, end)] = decimal.RequireFromString("900.00")
	repo.counts[key(weekStart, end)] = 70
	repo.totals[key(monthStart, end)] = decimal.RequireFromString("2400.25")
	repo.counts[key(monthStart, end)] = 180

	service := NewReportService(repo, &fakeProductCounter{lowStock: 3}, nil)
	service.now = func() time.Time { return now }

	dashboard, err := service.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, "150.50", dashboard.Today.Total)
	assert.Equal(t, int64(12), dashboard.Today.SaleCount)
	assert.Equal(t, "900.00", dashboard.Last7Days.Total)
	assert.Equal(t, "2400.25", dashboard.MonthToDate.Total)
	assert.Equal(t, int64(3), dashboard.LowStock)
	require.Len(t, dashboard.TopProducts, 1)
	assert.Equal(t, "Espresso", dashboard.TopProducts[0].ProductName)
	assert.Equal(t, "126.00", dashboard.TopProducts[0].Revenue)
	require.Len(t, repo.topLimits, 1)
	assert.Equal(t, defaultTopProductLimit, repo.topLimits[0])
}

func TestReportServicePeriods(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	t.Run("rejects missing period", func(t *testing.T) {
		service := NewReportService(&fakeReportRepository{totals: map[string]decimal.Decimal{}, counts: map[string]int64{}}, &fakeProductCounter{}, nil)

		_, err := service.Summary(ctx, PeriodRequest{})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PERIOD", domainErr.Code)
	})

	t.Run("rejects inverted period", func(t *testing.T) {
		service := NewReportService(&fakeReportRepository{totals: map[string]decimal.Decimal{}, counts: map[string]int64{}}, &fakeProductCounter{}, nil)

		_, err := service.TopProducts(ctx, PeriodRequest{From: to, To: from}, 5)
		require.Error(t, err)
	})

	t.Run("payment method breakdown", func(t *testing.T) {
		repo := &fakeReportRepository{
			totals: map[string]decimal.Decimal{},
			counts: map[string]int64{},
			byMethod: []report.PaymentMethodBreakdown{
				{PaymentMethod: "cash", Total: decimal.RequireFromString("500.00"), SaleCount: 40},
				{PaymentMethod: "card", Total: decimal.RequireFromString("400.00"), SaleCount: 30},
			},
		}
		service := NewReportService(repo, &fakeProductCounter{}, nil)

		rows, err := service.ByPaymentMethod(ctx, PeriodRequest{From: from, To: to})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "cash", rows[0].PaymentMethod)
		assert.Equal(t, "500.00", rows[0].Total)
	})

	t.Run("daily series formats dates", func(t *testing.T) {
		repo := &fakeReportRepository{
			totals: map[string]decimal.Decimal{},
			counts: map[string]int64{},
			daily: []report.DailySales{
				{Date: from, Total: decimal.RequireFromString("75.00"), SaleCount: 6},
			},
		}
		service := NewReportService(repo, &fakeProductCounter{}, nil)

		rows, err := service.DailyTotals(ctx, PeriodRequest{From: from, To: to})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2026-03-01", rows[0].Date)
		assert.Equal(t, "75.00", rows[0].Total)
	})

	t.Run("top products default limit", func(t *testing.T) {
		repo := &fakeReportRepository{totals: map[string]decimal.Decimal{}, counts: map[string]int64{}}
		service := NewReportService(repo, &fakeProductCounter{}, nil)

		_, err := service.TopProducts(ctx, PeriodRequest{From: from, To: to}, 0)
		require.NoError(t, err)
		require.Len(t, repo.topLimits, 1)
		assert.Equal(t, defaultTopProductLimit, repo.topLimits[0])
	})
}
