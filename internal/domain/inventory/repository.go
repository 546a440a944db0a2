package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product stock persistence
type ProductRepository interface {
	// FindByID finds a product by its ID without locking
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate finds a product and takes a row-level lock held for
	// the duration of the surrounding transaction. Every stock mutation must
	// go through this so that concurrent movements on the same product are
	// serialized; different products proceed in parallel.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll lists products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindAtOrBelowReorderPoint lists products whose stock has fallen to or
	// below their cached reorder point.
	FindAtOrBelowReorderPoint(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save persists the product, including its stock counter and cached
	// replenishment columns.
	Save(ctx context.Context, product *Product) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// StockMovementRepository defines the interface for the append-only movement
// ledger.
type StockMovementRepository interface {
	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindByProduct lists movements for a product
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindAll lists movements matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockMovement, error)

	// SumReceivedForOrder sums the quantities of all receipts linked to the
	// purchase order.
	SumReceivedForOrder(ctx context.Context, orderID uuid.UUID) (int64, error)

	// CountForOrder counts receipts linked to the purchase order
	CountForOrder(ctx context.Context, orderID uuid.UUID) (int64, error)

	// ExistsByCode reports whether a movement already carries the code
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Create appends a movement record
	Create(ctx context.Context, movement *StockMovement) error

	// Delete removes a movement record
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts movements matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
