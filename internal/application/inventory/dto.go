package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
)

// ReceiveStockInput carries the parameters for recording a receipt
type ReceiveStockInput struct {
	ProductID       uuid.UUID
	Quantity        int64
	Code            string // generated when empty
	Supplier        string
	PurchaseOrderID *uuid.UUID
	OccurredAt      *time.Time // defaults to the clock's today
	RecordedBy      uuid.UUID
}

// IssueStockInput carries the parameters for recording an issue
type IssueStockInput struct {
	ProductID  uuid.UUID
	Quantity   int64
	Code       string // generated when empty
	Customer   string
	OccurredAt *time.Time
	RecordedBy uuid.UUID
}

// MovementResponse is the API-facing view of a stock movement
type MovementResponse struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	Direction       string    `json:"direction"`
	ProductID       string    `json:"product_id"`
	Quantity        int64     `json:"quantity"`
	OccurredAt      string    `json:"occurred_at"`
	Counterparty    string    `json:"counterparty"`
	PurchaseOrderID *string   `json:"purchase_order_id,omitempty"`
	RecordedBy      string    `json:"recorded_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToMovementResponse converts a domain movement to its response form
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	resp := MovementResponse{
		ID:           m.ID.String(),
		Code:         m.Code,
		Direction:    m.Direction.String(),
		ProductID:    m.ProductID.String(),
		Quantity:     m.Quantity,
		OccurredAt:   m.OccurredAt.Format("2006-01-02"),
		Counterparty: m.Counterparty,
		RecordedBy:   m.RecordedBy.String(),
		CreatedAt:    m.CreatedAt,
	}
	if m.PurchaseOrderID != nil {
		s := m.PurchaseOrderID.String()
		resp.PurchaseOrderID = &s
	}
	return resp
}

// StockSummary is the read model for a product's stock position. It is what
// the read-through cache stores.
type StockSummary struct {
	ProductID        uuid.UUID             `json:"product_id"`
	Name             string                `json:"name"`
	SKU              string                `json:"sku"`
	CurrentStock     int64                 `json:"current_stock"`
	ReorderPoint     int64                 `json:"reorder_point"`
	EconomicOrderQty int64                 `json:"economic_order_qty"`
	Status           inventory.StockStatus `json:"status"`
}

// NewStockSummary builds the summary read model from a product
func NewStockSummary(p *inventory.Product) *StockSummary {
	return &StockSummary{
		ProductID:        p.ID,
		Name:             p.Name,
		SKU:              p.SKU,
		CurrentStock:     p.CurrentStock,
		ReorderPoint:     p.ReorderPoint,
		EconomicOrderQty: p.EconomicOrderQty,
		Status:           inventory.ClassifyStock(p.CurrentStock, p.ReorderPoint),
	}
}

// StockSummaryCache is a read-through cache for stock summaries, keyed per
// product and invalidated by the specific mutations that affect the product.
type StockSummaryCache interface {
	// Get returns the cached summary and whether it was present
	Get(ctx context.Context, productID uuid.UUID) (*StockSummary, bool)
	// Set stores the summary
	Set(ctx context.Context, summary *StockSummary)
	// Invalidate drops the summary for the product
	Invalidate(ctx context.Context, productID uuid.UUID)
}

// MovementListFilter carries list/pagination parameters for movement queries
type MovementListFilter struct {
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
	Search    string
	Direction string
	ProductID *uuid.UUID
}

func (f MovementListFilter) toDomainFilter() shared.Filter {
	domainFilter := shared.DefaultFilter()
	if f.Page > 0 {
		domainFilter.Page = f.Page
	}
	if f.PageSize > 0 {
		domainFilter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		domainFilter.OrderBy = f.OrderBy
	} else {
		domainFilter.OrderBy = "occurred_at"
	}
	if f.OrderDir != "" {
		domainFilter.OrderDir = f.OrderDir
	}
	domainFilter.Search = f.Search
	if f.Direction != "" {
		domainFilter.Filters["direction"] = f.Direction
	}
	if f.ProductID != nil {
		domainFilter.Filters["product_id"] = *f.ProductID
	}
	return domainFilter
}
