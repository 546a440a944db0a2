package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Product is the aggregate root for stock operations. CurrentStock is a
// materialized counter: it must always equal the net of all movement records
// referencing the product, and it is maintained incrementally alongside each
// movement instead of being replayed from history on every read.
type Product struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(255);not null"`
	SKU  string `gorm:"type:varchar(64);not null;uniqueIndex"`

	CurrentStock int64 `gorm:"not null;default:0"`

	// Replenishment parameters, maintained by catalog management.
	LeadTimeDays          int             `gorm:"not null;default:0"`
	DailyUsageRate        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumStock          int64           `gorm:"not null;default:0"`
	OrderingCost          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	HoldingCostPercentage decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	UnitPrice             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	// Cached replenishment outputs, recomputed from the parameters above.
	ReorderPoint     int64 `gorm:"not null;default:0"`
	EconomicOrderQty int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product with zero stock
func NewProduct(name, sku string) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name is required")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU is required")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		SKU:        sku,
	}, nil
}

// InsufficientStockError rejects an issue whose quantity exceeds the stock on
// hand. It carries the quantity that was actually available so callers can
// surface it.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int64
	Available int64
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// ApplyReceipt increments the stock counter for an inbound movement
func (p *Product) ApplyReceipt(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
	}
	p.CurrentStock += quantity
	p.UpdatedAt = time.Now()
	return nil
}

// ApplyIssue decrements the stock counter for an outbound movement. The
// counter never goes negative: an issue that exceeds the stock on hand is
// rejected outright, with no partial application.
func (p *Product) ApplyIssue(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Issue quantity must be positive")
	}
	if p.CurrentStock < quantity {
		return &InsufficientStockError{
			ProductID: p.ID,
			Requested: quantity,
			Available: p.CurrentStock,
		}
	}
	p.CurrentStock -= quantity
	p.UpdatedAt = time.Now()
	return nil
}

// RevertMovement applies the compensating stock adjustment for a deleted
// movement. Reverting a receipt decrements the counter; if history predates
// the ledger or was mutated out-of-band the counter may not cover the
// decrement, in which case it is clamped at zero and clamped=true is returned
// so the caller can log the integrity anomaly. Reverting an issue increments
// the counter back.
func (p *Product) RevertMovement(m *StockMovement) (clamped bool) {
	switch m.Direction {
	case DirectionIn:
		if p.CurrentStock < m.Quantity {
			p.CurrentStock = 0
			clamped = true
		} else {
			p.CurrentStock -= m.Quantity
		}
	case DirectionOut:
		p.CurrentStock += m.Quantity
	}
	p.UpdatedAt = time.Now()
	return clamped
}

// SetReplenishment stores freshly computed reorder point and economic order
// quantity on the cached columns.
func (p *Product) SetReplenishment(rop, eoq int64) {
	p.ReorderPoint = rop
	p.EconomicOrderQty = eoq
	p.UpdatedAt = time.Now()
}

// IsOutOfStock returns true when nothing is on hand
func (p *Product) IsOutOfStock() bool {
	return p.CurrentStock <= 0
}

// NeedsReorder returns true when the stock on hand has fallen to or below the
// reorder point.
func (p *Product) NeedsReorder() bool {
	return p.CurrentStock > 0 && p.CurrentStock <= p.ReorderPoint
}
