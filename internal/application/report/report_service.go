package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/report"
	"github.com/retailpos/backend/internal/domain/shared"
)

const defaultTopProductLimit = 10

// ReportService assembles sales reports from read-only aggregates
type ReportService struct {
	reports  report.Repository
	products catalog.ProductRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService creates a report service
func NewReportService(reports report.Repository, products catalog.ProductRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		reports:  reports,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// Dashboard returns the operations overview: today, the trailing week and
// the month to date, plus best sellers and the low stock count.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, 1)

	todaySummary, err := s.summary(ctx, "today", today, end)
	if err != nil {
		return nil, err
	}
	weekSummary, err := s.summary(ctx, "last_7_days", weekStart, end)
	if err != nil {
		return nil, err
	}
	monthSummary, err := s.summary(ctx, "month_to_date", monthStart, end)
	if err != nil {
		return nil, err
	}

	topProducts, err := s.reports.TopProducts(ctx, weekStart, end, defaultTopProductLimit)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.products.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Today:       todaySummary,
		Last7Days:   weekSummary,
		MonthToDate: monthSummary,
		TopProducts: toTopProductResponses(topProducts),
		LowStock:    lowStock,
		GeneratedAt: now,
	}, nil
}

// Summary aggregates completed sales over an arbitrary period
func (s *ReportService) Summary(ctx context.Context, req PeriodRequest) (*SummaryResponse, error) {
	start, end, err := normalizePeriod(req)
	if err != nil {
		return nil, err
	}
	summary, err := s.summary(ctx, "custom", start, end)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// TopProducts ranks products by units sold over the period
func (s *ReportService) TopProducts(ctx context.Context, req PeriodRequest, limit int) ([]TopProductResponse, error) {
	start, end, err := normalizePeriod(req)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopProductLimit
	}
	rows, err := s.reports.TopProducts(ctx, start, end, limit)
	if err != nil {
		return nil, err
	}
	return toTopProductResponses(rows), nil
}

// ByPaymentMethod breaks down completed sales by payment method
func (s *ReportService) ByPaymentMethod(ctx context.Context, req PeriodRequest) ([]PaymentMethodResponse, error) {
	start, end, err := normalizePeriod(req)
	if err != nil {
		return nil, err
	}
	rows, err := s.reports.ByPaymentMethod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]PaymentMethodResponse, len(rows))
	for i, row := range rows {
		out[i] = PaymentMethodResponse{
			PaymentMethod: row.PaymentMethod,
			Total:         row.Total.StringFixed(2),
			SaleCount:     row.SaleCount,
		}
	}
	return out, nil
}

// DailyTotals returns the per-day sales series for the period
func (s *ReportService) DailyTotals(ctx context.Context, req PeriodRequest) ([]DailySalesResponse, error) {
	start, end, err := normalizePeriod(req)
	if err != nil {
		return nil, err
	}
	rows, err := s.reports.DailyTotals(ctx, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]DailySalesResponse, len(rows))
	for i, row := range rows {
		out[i] = DailySalesResponse{
			Date:      row.Date.Format("2006-01-02"),
			Total:     row.Total.StringFixed(2),
			SaleCount: row.SaleCount,
		}
	}
	return out, nil
}

func (s *ReportService) summary(ctx context.Context, period string, start, end time.Time) (SummaryResponse, error) {
	total, count, err := s.reports.TotalBetween(ctx, start, end)
	if err != nil {
		return SummaryResponse{}, err
	}
	return SummaryResponse{
		Period:    period,
		Total:     total.StringFixed(2),
		SaleCount: count,
	}, nil
}

func normalizePeriod(req PeriodRequest) (time.Time, time.Time, error) {
	if req.From.IsZero() || req.To.IsZero() {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_PERIOD", "Both from and to are required")
	}
	if !req.To.After(req.From) {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_PERIOD", "Period end must be after its start")
	}
	return req.From, req.To, nil
}
