package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	purchaseapp "github.com/stockroom/backend/internal/application/purchase"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *purchaseapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *purchaseapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService: orderService,
	}
}

// PlaceOrderRequest represents a request to place a purchase order
type PlaceOrderRequest struct {
	ProductID       string  `json:"product_id" binding:"required,uuid"`
	OrderedQuantity int64   `json:"ordered_quantity" binding:"required,gt=0"`
	UnitPrice       float64 `json:"unit_price" binding:"omitempty,gte=0"`
	InvoiceNumber   string  `json:"invoice_number"`
}

// OrderListRequest represents list parameters for purchase orders
type OrderListRequest struct {
	dto.ListRequest
	Status    string `form:"status" binding:"omitempty,oneof=pending completed"`
	ProductID string `form:"product_id" binding:"omitempty,uuid"`
}

// RegisterRoutes registers purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.DELETE("/:id", h.DeleteOrder)
	}
}

// PlaceOrder creates a pending purchase order
func (h *PurchaseOrderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), purchaseapp.PlaceOrderInput{
		ProductID:       uuid.MustParse(req.ProductID),
		OrderedQuantity: req.OrderedQuantity,
		UnitPrice:       decimal.NewFromFloat(req.UnitPrice),
		InvoiceNumber:   req.InvoiceNumber,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetOrder returns an order with its fulfillment state
func (h *PurchaseOrderHandler) GetOrder(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ListOrders lists purchase orders with pagination and filters
func (h *PurchaseOrderHandler) ListOrders(c *gin.Context) {
	var req OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := purchaseapp.OrderListFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Status:   req.Status,
	}
	if req.ProductID != "" {
		productID := uuid.MustParse(req.ProductID)
		filter.ProductID = &productID
	}

	page, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// DeleteOrder removes an order that has no linked receipts
func (h *PurchaseOrderHandler) DeleteOrder(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
