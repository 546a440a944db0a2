package inventory

import (
	"context"

	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/purchase"
	"github.com/stockroom/backend/internal/domain/sequence"
)

// TransactionScope provides transactional access to the core repositories.
// Every service operation runs inside exactly one Execute call: either the
// whole operation commits (movement row, counter update, code reservation,
// order status) or none of it does.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories and code
// generators bound to one transaction. Codes handed out by the generators are
// only reserved when this transaction commits, which keeps code generation
// and entity insertion atomic with respect to concurrent generators.
type TransactionalRepositories interface {
	// Products returns the product repository scoped to the transaction
	Products() inventory.ProductRepository
	// Movements returns the movement repository scoped to the transaction
	Movements() inventory.StockMovementRepository
	// Orders returns the purchase order repository scoped to the transaction
	Orders() purchase.Repository
	// MovementCodes returns the generator for stock movement codes
	MovementCodes() sequence.Generator
	// InvoiceNumbers returns the generator for purchase order invoice numbers
	InvoiceNumbers() sequence.Generator
}
