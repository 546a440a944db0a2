package persistence

import (
	"context"

	appinv "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/purchase"
	"github.com/stockroom/backend/internal/domain/sequence"
	"gorm.io/gorm"
)

// GormTransactionScope implements the application transaction scope using
// GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. If the
// function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories binds all repositories to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Products returns the product repository scoped to the transaction
func (r *gormTransactionalRepositories) Products() inventory.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Movements returns the movement repository scoped to the transaction
func (r *gormTransactionalRepositories) Movements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Orders returns the purchase order repository scoped to the transaction
func (r *gormTransactionalRepositories) Orders() purchase.Repository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// MovementCodes returns the generator for stock movement codes
func (r *gormTransactionalRepositories) MovementCodes() sequence.Generator {
	return NewMovementCodeGenerator(r.tx)
}

// InvoiceNumbers returns the generator for purchase order invoice numbers
func (r *gormTransactionalRepositories) InvoiceNumbers() sequence.Generator {
	return NewInvoiceNumberGenerator(r.tx)
}

// Ensure the implementations satisfy the application contracts
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
