package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository answers read-only aggregation queries over completed sales.
// Cancelled sales are excluded from every aggregate.
type Repository interface {
	// TotalBetween sums completed sale totals in [start, end)
	TotalBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, int64, error)

	// TopProducts ranks products by units sold in [start, end)
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProduct, error)

	// ByPaymentMethod breaks down completed sales by payment method in [start, end)
	ByPaymentMethod(ctx context.Context, start, end time.Time) ([]PaymentMethodBreakdown, error)

	// DailyTotals returns a per-day series of completed sales in [start, end)
	DailyTotals(ctx context.Context, start, end time.Time) ([]DailySales, error)
}
