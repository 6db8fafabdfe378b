package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	reportapp "github.com/retailpos/backend/internal/application/report"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// ReportHandler handles sales reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) parsePeriod(c *gin.Context) (reportapp.PeriodRequest, bool) {
	var req reportapp.PeriodRequest

	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr == "" || toStr == "" {
		h.BadRequest(c, "Both from and to are required, RFC3339 or YYYY-MM-DD")
		return req, false
	}

	from, err := parseTimeParam(fromStr)
	if err != nil {
		h.BadRequest(c, "Invalid from timestamp")
		return req, false
	}
	to, err := parseTimeParam(toStr)
	if err != nil {
		h.BadRequest(c, "Invalid to timestamp")
		return req, false
	}

	req.From, req.To = from, to
	return req, true
}

func parseTimeParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// Dashboard returns the operations overview
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// Summary aggregates completed sales over a period
func (h *ReportHandler) Summary(c *gin.Context) {
	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// TopProducts ranks products by units sold over a period
func (h *ReportHandler) TopProducts(c *gin.Context) {
	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 100 {
			h.BadRequest(c, "Limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	rows, err := h.reportService.TopProducts(c.Request.Context(), period, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// PaymentMethods breaks down completed sales by payment method
func (h *ReportHandler) PaymentMethods(c *gin.Context) {
	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	rows, err := h.reportService.ByPaymentMethod(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Daily returns the per-day sales series
func (h *ReportHandler) Daily(c *gin.Context) {
	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	rows, err := h.reportService.DailyTotals(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// RegisterRoutes registers reporting endpoints. The dashboard is open to
// staff managing the catalog, the rest needs the view_reports action.
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/dashboard", middleware.RequireAction(identity.ActionManageCatalog), h.Dashboard)

		admin := reports.Group("")
		admin.Use(middleware.RequireAction(identity.ActionViewReports))
		{
			admin.GET("/summary", h.Summary)
			admin.GET("/top-products", h.TopProducts)
			admin.GET("/payment-methods", h.PaymentMethods)
			admin.GET("/daily", h.Daily)
		}
	}
}
