package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// OrdersHandler exposes a user's own purchase history
type OrdersHandler struct {
	BaseHandler
	posService *salesapp.POSService
}

// NewOrdersHandler creates a new OrdersHandler
func NewOrdersHandler(posService *salesapp.POSService) *OrdersHandler {
	return &OrdersHandler{posService: posService}
}

// OrderListRequest are the order listing query parameters
type OrderListRequest struct {
	PaymentMethod string `form:"payment_method" binding:"omitempty,oneof=cash card transfer"`
	From          string `form:"from" binding:"omitempty"`
	To            string `form:"to" binding:"omitempty"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (r OrderListRequest) toFilter(c *gin.Context, h *BaseHandler) (salesapp.SaleListFilter, bool) {
	filter := salesapp.SaleListFilter{
		PaymentMethod: r.PaymentMethod,
		Page:          r.Page,
		PageSize:      r.PageSize,
	}
	if r.From != "" {
		from, err := time.Parse(time.RFC3339, r.From)
		if err != nil {
			h.BadRequest(c, "Invalid from timestamp, expected RFC3339")
			return filter, false
		}
		filter.From = &from
	}
	if r.To != "" {
		to, err := time.Parse(time.RFC3339, r.To)
		if err != nil {
			h.BadRequest(c, "Invalid to timestamp, expected RFC3339")
			return filter, false
		}
		filter.To = &to
	}
	return filter, true
}

// List returns the authenticated user's own orders
func (h *OrdersHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	filter, ok := req.toFilter(c, &h.BaseHandler)
	if !ok {
		return
	}

	orders, total, err := h.posService.ListByUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// Get returns one order. Ownership is enforced in the service: staff with
// the view_all_sales action can read any order, others only their own.
func (h *OrdersHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.posService.Get(c.Request.Context(), userID, getRole(c), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RegisterRoutes registers order history endpoints
func (h *OrdersHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.Use(middleware.RequireAction(identity.ActionViewOwnOrders))
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
	}
}
