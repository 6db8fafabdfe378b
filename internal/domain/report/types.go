package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary aggregates completed sales over a period
type SalesSummary struct {
	Period    string          `json:"period"`
	Total     decimal.Decimal `json:"total"`
	SaleCount int64           `json:"sale_count"`
}

// TopProduct is one row of the best-sellers ranking
type TopProduct struct {
	ProductName string          `json:"product_name"`
	UnitsSold   int64           `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// PaymentMethodBreakdown aggregates completed sales by payment method
type PaymentMethodBreakdown struct {
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	SaleCount     int64           `json:"sale_count"`
}

// DailySales is one day of the sales time series
type DailySales struct {
	Date      time.Time       `json:"date"`
	Total     decimal.Decimal `json:"total"`
	SaleCount int64           `json:"sale_count"`
}
