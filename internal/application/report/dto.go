package report

import (
	"time"

	"github.com/retailpos/backend/internal/domain/report"
)

// PeriodRequest selects the aggregation window for a report
type PeriodRequest struct {
	From time.Time
	To   time.Time
}

// SummaryResponse is one aggregated period
type SummaryResponse struct {
	Period    string `json:"period"`
	Total     string `json:"total"`
	SaleCount int64  `json:"sale_count"`
}

// DashboardResponse is the storefront operations overview
type DashboardResponse struct {
	Today        SummaryResponse      `json:"today"`
	Last7Days    SummaryResponse      `json:"last_7_days"`
	MonthToDate  SummaryResponse      `json:"month_to_date"`
	TopProducts  []TopProductResponse `json:"top_products"`
	LowStock     int64                `json:"low_stock_count"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

// TopProductResponse is one row of the best-sellers ranking
type TopProductResponse struct {
	ProductName string `json:"product_name"`
	UnitsSold   int64  `json:"units_sold"`
	Revenue     string `json:"revenue"`
}

// PaymentMethodResponse is one payment-method bucket
type PaymentMethodResponse struct {
	PaymentMethod string `json:"payment_method"`
	Total         string `json:"total"`
	SaleCount     int64  `json:"sale_count"`
}

// DailySalesResponse is one day of the sales time series
type DailySalesResponse struct {
	Date      string `json:"date"`
	Total     string `json:"total"`
	SaleCount int64  `json:"sale_count"`
}

func toTopProductResponses(rows []report.TopProduct) []TopProductResponse {
	out := make([]TopProductResponse, len(rows))
	for i, row := range rows {
		out[i] = TopProductResponse{
			ProductName: row.ProductName,
			UnitsSold:   row.UnitsSold,
			Revenue:     row.Revenue.StringFixed(2),
		}
	}
	return out
}
