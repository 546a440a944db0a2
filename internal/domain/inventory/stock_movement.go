package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Direction represents the direction of a stock movement
type Direction string

const (
	// DirectionIn represents stock entering inventory (a receipt)
	DirectionIn Direction = "in"
	// DirectionOut represents stock leaving inventory (an issue)
	DirectionOut Direction = "out"
)

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// IsValid returns true if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// StockMovement is one append-only entry in the stock ledger. Movements are
// immutable once created; the only permitted change is deletion, which the
// service compensates with a stock adjustment and, when linked to a purchase
// order, a fulfillment recompute.
type StockMovement struct {
	shared.BaseEntity
	Code      string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Direction Direction `gorm:"type:varchar(8);not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity  int64     `gorm:"not null"`

	OccurredAt time.Time `gorm:"type:date;not null"`

	// Counterparty is the supplier ("in") or customer ("out") name. Free
	// text on purpose: movements may reference parties not in the catalog.
	Counterparty string `gorm:"type:varchar(255)"`

	// PurchaseOrderID links a receipt back to the purchase order it
	// fulfills. Always nil for issues.
	PurchaseOrderID *uuid.UUID `gorm:"type:uuid;index"`

	RecordedBy uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewReceipt creates an inbound movement
func NewReceipt(productID uuid.UUID, quantity int64, code string, occurredAt time.Time, counterparty string, purchaseOrderID *uuid.UUID, recordedBy uuid.UUID) (*StockMovement, error) {
	m, err := newMovement(DirectionIn, productID, quantity, code, occurredAt, counterparty, recordedBy)
	if err != nil {
		return nil, err
	}
	m.PurchaseOrderID = purchaseOrderID
	return m, nil
}

// NewIssue creates an outbound movement
func NewIssue(productID uuid.UUID, quantity int64, code string, occurredAt time.Time, counterparty string, recordedBy uuid.UUID) (*StockMovement, error) {
	return newMovement(DirectionOut, productID, quantity, code, occurredAt, counterparty, recordedBy)
}

func newMovement(direction Direction, productID uuid.UUID, quantity int64, code string, occurredAt time.Time, counterparty string, recordedBy uuid.UUID) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Movement code is required")
	}
	return &StockMovement{
		BaseEntity:   shared.NewBaseEntity(),
		Code:         code,
		Direction:    direction,
		ProductID:    productID,
		Quantity:     quantity,
		OccurredAt:   occurredAt,
		Counterparty: counterparty,
		RecordedBy:   recordedBy,
	}, nil
}

// IsReceipt returns true for inbound movements
func (m *StockMovement) IsReceipt() bool {
	return m.Direction == DirectionIn
}

// IsIssue returns true for outbound movements
func (m *StockMovement) IsIssue() bool {
	return m.Direction == DirectionOut
}
