package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartapp "github.com/retailpos/backend/internal/application/cart"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	salesapp "github.com/retailpos/backend/internal/application/sales"
)

// StoreHandler handles the customer-facing storefront: browsing, the
// session cart and checkout.
type StoreHandler struct {
	BaseHandler
	productService  *catalogapp.ProductService
	cartService     *cartapp.CartService
	checkoutService *salesapp.CheckoutService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(
	productService *catalogapp.ProductService,
	cartService *cartapp.CartService,
	checkoutService *salesapp.CheckoutService,
) *StoreHandler {
	return &StoreHandler{
		productService:  productService,
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

// StoreProductsRequest are the storefront listing query parameters
type StoreProductsRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AddCartItemRequest is the request body for adding a product to the cart
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

// SetCartQuantityRequest is the request body for replacing an entry's quantity
type SetCartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// CheckoutRequest is the request body for converting the cart into a sale
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash card transfer"`
	Notes         string `json:"notes" binding:"max=1000"`
}

// ListProducts lists active, in-stock products for the storefront
func (h *StoreHandler) ListProducts(c *gin.Context) {
	var req StoreProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	filter := catalogapp.ProductListFilter{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			h.BadRequest(c, "Invalid category ID")
			return
		}
		filter.CategoryID = &categoryID
	}

	products, err := h.productService.ListSellable(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// GetCart returns the user's session cart
func (h *StoreHandler) GetCart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddCartItem adds a product to the cart, capped at available stock
func (h *StoreHandler) AddCartItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, cartapp.AddItemRequest{
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// SetCartQuantity replaces a cart entry's quantity; zero removes the entry
func (h *StoreHandler) SetCartQuantity(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	productID, ok := parseIDParam(c, "productID")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req SetCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.SetQuantity(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveCartItem deletes an entry from the cart
func (h *StoreHandler) RemoveCartItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	productID, ok := parseIDParam(c, "productID")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Checkout converts the cart into a committed sale
func (h *StoreHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale, err := h.checkoutService.Checkout(c.Request.Context(), userID, salesapp.CheckoutRequest{
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// RegisterRoutes registers storefront endpoints
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	store := rg.Group("/store")
	{
		store.GET("/products", h.ListProducts)
		store.GET("/cart", h.GetCart)
		store.POST("/cart/items", h.AddCartItem)
		store.PUT("/cart/items/:productID", h.SetCartQuantity)
		store.DELETE("/cart/items/:productID", h.RemoveCartItem)
		store.POST("/checkout", h.Checkout)
	}
}
