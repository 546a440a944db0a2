package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Status represents the fulfillment status of a purchase order
type Status string

const (
	// StatusPending means the ordered quantity has not been fully received
	StatusPending Status = "pending"
	// StatusCompleted means receipts cover the ordered quantity
	StatusCompleted Status = "completed"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// PurchaseOrder tracks an order placed with a supplier and its fulfillment
// state. Status is derived from the sum of linked receipts and is only ever
// written by the tracker's recompute; no other code path may set it.
type PurchaseOrder struct {
	shared.BaseEntity
	InvoiceNumber   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderedQuantity int64           `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status          Status          `gorm:"type:varchar(16);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a pending purchase order
func NewPurchaseOrder(productID uuid.UUID, invoiceNumber string, orderedQuantity int64, unitPrice decimal.Decimal) (*PurchaseOrder, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number is required")
	}
	if orderedQuantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return &PurchaseOrder{
		BaseEntity:      shared.NewBaseEntity(),
		InvoiceNumber:   invoiceNumber,
		ProductID:       productID,
		OrderedQuantity: orderedQuantity,
		UnitPrice:       unitPrice,
		Status:          StatusPending,
	}, nil
}

// DeriveStatus applies the fulfillment rule for the given received total and
// reports whether the status changed. completed iff received >= ordered; the
// transition is reversible, deleting a receipt can move a completed order
// back to pending.
func (o *PurchaseOrder) DeriveStatus(receivedTotal int64) (changed bool) {
	next := StatusPending
	if receivedTotal >= o.OrderedQuantity {
		next = StatusCompleted
	}
	if next == o.Status {
		return false
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	return true
}

// RemainingQuantity returns ordered minus received, floored at zero
func (o *PurchaseOrder) RemainingQuantity(receivedTotal int64) int64 {
	remaining := o.OrderedQuantity - receivedTotal
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsCompleted returns true when the order has been fully received
func (o *PurchaseOrder) IsCompleted() bool {
	return o.Status == StatusCompleted
}
