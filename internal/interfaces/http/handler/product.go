package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles product management endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest is the request body for creating a product
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	CategoryID  string `json:"category_id" binding:"required,uuid"`
	Price       string `json:"price" binding:"required"`
	Stock       int    `json:"stock" binding:"min=0"`
	Barcode     string `json:"barcode" binding:"max=50"`
}

// UpdateProductRequest is the request body for updating a product
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	CategoryID  string `json:"category_id" binding:"required,uuid"`
}

// SetPriceRequest is the request body for changing a product's price
type SetPriceRequest struct {
	Price string `json:"price" binding:"required"`
}

// SetStockRequest is the request body for a manual stock adjustment
type SetStockRequest struct {
	Stock int `json:"stock" binding:"min=0"`
}

// ProductListRequest are the product listing query parameters
type ProductListRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Active     *bool  `form:"active"`
	InStock    *bool  `form:"in_stock"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=name price stock created_at"`
	SortDesc   bool   `form:"sort_desc"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (r ProductListRequest) toFilter() (catalogapp.ProductListFilter, error) {
	filter := catalogapp.ProductListFilter{
		Search:   r.Search,
		Active:   r.Active,
		InStock:  r.InStock,
		SortBy:   r.SortBy,
		SortDesc: r.SortDesc,
		Page:     r.Page,
		PageSize: r.PageSize,
	}
	if r.CategoryID != "" {
		categoryID, err := uuid.Parse(r.CategoryID)
		if err != nil {
			return filter, err
		}
		filter.CategoryID = &categoryID
	}
	return filter, nil
}

// Create creates a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), catalogapp.CreateProductRequest{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  categoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		Barcode:     req.Barcode,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// List lists products with filters and pagination
func (h *ProductHandler) List(c *gin.Context) {
	var req ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	filter, err := req.toFilter()
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// ListLowStock lists active products below the restock threshold
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	var req ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	filter, err := req.toFilter()
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	products, err := h.productService.ListLowStock(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Get retrieves one product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetByBarcode looks a product up by barcode, the POS scanner path
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	barcode := c.Query("barcode")
	if barcode == "" {
		h.BadRequest(c, "Barcode is required")
		return
	}

	product, err := h.productService.GetByBarcode(c.Request.Context(), barcode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Update updates a product's basic information
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, catalogapp.UpdateProductRequest{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  categoryID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetPrice changes a product's price. Carts keep their snapshotted prices.
func (h *ProductHandler) SetPrice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.SetPrice(c.Request.Context(), id, catalogapp.SetPriceRequest{Price: req.Price})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetStock replaces a product's stock level
func (h *ProductHandler) SetStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.SetStock(c.Request.Context(), id, catalogapp.SetStockRequest{Stock: req.Stock})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Deactivate retires a product from sale
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Activate returns a product to sale
func (h *ProductHandler) Activate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// UploadImage stores a product photo
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		h.BadRequest(c, "Image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Failed to read image file")
		return
	}

	product, err := h.productService.UploadImage(c.Request.Context(), id, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// RegisterRoutes registers product endpoints. Reads are open to any
// authenticated user, mutations need the manage_catalog action.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/catalog/products")
	{
		products.GET("", h.List)
		products.GET("/barcode", h.GetByBarcode)
		products.GET("/:id", h.Get)

		manage := products.Group("")
		manage.Use(middleware.RequireAction(identity.ActionManageCatalog))
		{
			manage.POST("", h.Create)
			manage.GET("/low-stock", h.ListLowStock)
			manage.PUT("/:id", h.Update)
			manage.PUT("/:id/price", h.SetPrice)
			manage.PUT("/:id/stock", h.SetStock)
			manage.DELETE("/:id", h.Deactivate)
			manage.POST("/:id/activate", h.Activate)
			manage.POST("/:id/image", h.UploadImage)
		}
	}
}
