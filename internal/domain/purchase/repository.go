package purchase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Repository defines the interface for purchase order persistence
type Repository interface {
	// FindByID finds a purchase order by its ID without locking
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForUpdate finds a purchase order and takes a row-level lock
	// held for the duration of the surrounding transaction, serializing
	// concurrent status recomputes for the same order.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindAll lists purchase orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// Create persists a new purchase order
	Create(ctx context.Context, order *PurchaseOrder) error

	// Save persists changes to an existing purchase order
	Save(ctx context.Context, order *PurchaseOrder) error

	// Delete removes a purchase order
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts purchase orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ReceiptSource exposes the slice of the stock ledger the tracker needs: the
// receipts linked to an order. Implemented by the stock movement repository.
type ReceiptSource interface {
	// SumReceivedForOrder sums the quantities of all receipts linked to the
	// purchase order.
	SumReceivedForOrder(ctx context.Context, orderID uuid.UUID) (int64, error)

	// CountForOrder counts receipts linked to the purchase order
	CountForOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
}
