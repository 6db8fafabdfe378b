package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// SalesHandler handles the staff sale ledger: POS entry and read access
type SalesHandler struct {
	BaseHandler
	posService *salesapp.POSService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(posService *salesapp.POSService) *SalesHandler {
	return &SalesHandler{posService: posService}
}

// POSItemRequest is one line of an in-person sale
type POSItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CreatePOSSaleRequest is the request body for a cashier-entered sale
type CreatePOSSaleRequest struct {
	CustomerID    string           `json:"customer_id" binding:"omitempty,uuid"`
	PaymentMethod string           `json:"payment_method" binding:"required,oneof=cash card transfer"`
	Notes         string           `json:"notes" binding:"max=1000"`
	Items         []POSItemRequest `json:"items" binding:"required,min=1,dive"`
}

// Create records an in-person sale at live catalog prices
func (h *SalesHandler) Create(c *gin.Context) {
	cashierID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreatePOSSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	appReq := salesapp.CreatePOSSaleRequest{
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Items:         make([]salesapp.POSItemRequest, len(req.Items)),
	}
	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID")
			return
		}
		appReq.CustomerID = &customerID
	}
	for i, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID")
			return
		}
		appReq.Items[i] = salesapp.POSItemRequest{ProductID: productID, Quantity: item.Quantity}
	}

	sale, err := h.posService.CreateSale(c.Request.Context(), cashierID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// List lists all sales, staff only
func (h *SalesHandler) List(c *gin.Context) {
	var req OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	filter, ok := req.toFilter(c, &h.BaseHandler)
	if !ok {
		return
	}

	sales, total, err := h.posService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, sales, total, page, pageSize)
}

// Get retrieves one sale, staff or the sale's owner
func (h *SalesHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.posService.Get(c.Request.Context(), userID, getRole(c), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// RegisterRoutes registers sale ledger endpoints
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", middleware.RequireAction(identity.ActionCreateSale), h.Create)
		sales.GET("", middleware.RequireAction(identity.ActionViewAllSales), h.List)
		// ownership enforced in the service for non-staff readers
		sales.GET("/:id", h.Get)
	}
}
