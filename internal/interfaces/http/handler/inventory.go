package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(inventoryService *inventoryapp.InventoryService) *StockHandler {
	return &StockHandler{
		inventoryService: inventoryService,
	}
}

// ReceiveStockRequest represents a request to record a stock receipt
type ReceiveStockRequest struct {
	ProductID       string `json:"product_id" binding:"required,uuid"`
	Quantity        int64  `json:"quantity" binding:"required,gt=0"`
	Code            string `json:"code"`
	Supplier        string `json:"supplier"`
	PurchaseOrderID string `json:"purchase_order_id" binding:"omitempty,uuid"`
	OccurredAt      string `json:"occurred_at"`
}

// IssueStockRequest represents a request to record a stock issue
type IssueStockRequest struct {
	ProductID  string `json:"product_id" binding:"required,uuid"`
	Quantity   int64  `json:"quantity" binding:"required,gt=0"`
	Code       string `json:"code"`
	Customer   string `json:"customer"`
	OccurredAt string `json:"occurred_at"`
}

// MovementListRequest represents list parameters for the movement ledger
type MovementListRequest struct {
	dto.ListRequest
	Direction string `form:"direction" binding:"omitempty,oneof=in out"`
	ProductID string `form:"product_id" binding:"omitempty,uuid"`
}

// RegisterRoutes registers stock ledger routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.POST("/receipts", h.ReceiveStock)
		stock.POST("/issues", h.IssueStock)
		stock.GET("/movements", h.ListMovements)
		stock.DELETE("/movements/:id", h.RemoveMovement)
		stock.GET("/low", h.ListBelowReorderPoint)
	}
	products := rg.Group("/products")
	{
		products.GET("/:id/stock", h.GetStockSummary)
		products.POST("/:id/replenishment", h.RecalculateReplenishment)
	}
}

// ReceiveStock records an inbound stock movement
func (h *StockHandler) ReceiveStock(c *gin.Context) {
	var req ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	recordedBy, err := getRecordedBy(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	input := inventoryapp.ReceiveStockInput{
		ProductID:  uuid.MustParse(req.ProductID),
		Quantity:   req.Quantity,
		Code:       req.Code,
		Supplier:   req.Supplier,
		RecordedBy: recordedBy,
	}
	if req.PurchaseOrderID != "" {
		orderID := uuid.MustParse(req.PurchaseOrderID)
		input.PurchaseOrderID = &orderID
	}
	if req.OccurredAt != "" {
		occurredAt, err := time.Parse("2006-01-02", req.OccurredAt)
		if err != nil {
			h.BadRequest(c, "occurred_at must be a date in YYYY-MM-DD format")
			return
		}
		input.OccurredAt = &occurredAt
	}

	movement, err := h.inventoryService.ReceiveStock(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// IssueStock records an outbound stock movement
func (h *StockHandler) IssueStock(c *gin.Context) {
	var req IssueStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	recordedBy, err := getRecordedBy(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	input := inventoryapp.IssueStockInput{
		ProductID:  uuid.MustParse(req.ProductID),
		Quantity:   req.Quantity,
		Code:       req.Code,
		Customer:   req.Customer,
		RecordedBy: recordedBy,
	}
	if req.OccurredAt != "" {
		occurredAt, err := time.Parse("2006-01-02", req.OccurredAt)
		if err != nil {
			h.BadRequest(c, "occurred_at must be a date in YYYY-MM-DD format")
			return
		}
		input.OccurredAt = &occurredAt
	}

	movement, err := h.inventoryService.IssueStock(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// RemoveMovement deletes a movement and compensates the stock counter
func (h *StockHandler) RemoveMovement(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.inventoryService.RemoveMovement(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListMovements lists ledger entries with pagination and filters
func (h *StockHandler) ListMovements(c *gin.Context) {
	var req MovementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := inventoryapp.MovementListFilter{
		Page:      req.Page,
		PageSize:  req.PageSize,
		OrderBy:   req.OrderBy,
		OrderDir:  req.OrderDir,
		Search:    req.Search,
		Direction: req.Direction,
	}
	if req.ProductID != "" {
		productID := uuid.MustParse(req.ProductID)
		filter.ProductID = &productID
	}

	page, err := h.inventoryService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetStockSummary returns a product's stock position
func (h *StockHandler) GetStockSummary(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	summary, err := h.inventoryService.GetStockSummary(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// RecalculateReplenishment recomputes and persists the product's reorder
// point and economic order quantity.
func (h *StockHandler) RecalculateReplenishment(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	summary, err := h.inventoryService.RecalculateReplenishment(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// ListBelowReorderPoint lists products at or below their reorder point
func (h *StockHandler) ListBelowReorderPoint(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	summaries, err := h.inventoryService.ListBelowReorderPoint(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summaries)
}
