package persistence

import (
	"context"

	"github.com/stockroom/backend/internal/domain/sequence"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceGenerator implements sequence.Generator against one target
// table and column. It must run on a transaction-scoped *gorm.DB: the
// generated code is only reserved when that transaction commits.
//
// Concurrent generators sharing a prefix+scope serialize on a SELECT ... FOR
// UPDATE of the counter row. If the lock cannot be taken the generator fails
// closed with a retryable conflict instead of risking a duplicate; the unique
// index on the target column is the final safety net.
type GormSequenceGenerator struct {
	db     *gorm.DB
	table  string
	column string
}

// NewMovementCodeGenerator creates a generator for stock movement codes
func NewMovementCodeGenerator(db *gorm.DB) *GormSequenceGenerator {
	return &GormSequenceGenerator{db: db, table: "stock_movements", column: "code"}
}

// NewInvoiceNumberGenerator creates a generator for purchase order invoice
// numbers.
func NewInvoiceNumberGenerator(db *gorm.DB) *GormSequenceGenerator {
	return &GormSequenceGenerator{db: db, table: "purchase_orders", column: "invoice_number"}
}

// Next issues the next code for the prefix and scope
func (g *GormSequenceGenerator) Next(ctx context.Context, prefix, scope string) (string, error) {
	db := g.db.WithContext(ctx)

	// First caller for a prefix+scope seeds the counter row so there is
	// something to lock.
	seed := sequence.Counter{Prefix: prefix, Scope: scope}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return "", translateWriteError(err)
	}

	var counter sequence.Counter
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("prefix = ? AND scope = ?", prefix, scope).
		First(&counter).Error
	if err != nil {
		return "", translateLockError(err)
	}

	next := counter.LastNumber + 1

	// Codes issued before the counter existed can sit ahead of it. Catch up
	// to the highest code matching the pattern.
	var highest *string
	err = db.Table(g.table).
		Select("MAX(" + g.column + ")").
		Where(g.column+" LIKE ?", prefix+"-"+scope+"-%").
		Scan(&highest).Error
	if err != nil {
		return "", err
	}
	if highest != nil {
		if n, ok := sequence.ParseSuffix(*highest); ok && n >= next {
			next = n + 1
		}
	}

	// A malformed historic code can break the MAX comparison; re-check the
	// concrete slot and walk forward until it is free.
	for {
		var occupied int64
		code := sequence.FormatCode(prefix, scope, next)
		if err := db.Table(g.table).Where(g.column+" = ?", code).Count(&occupied).Error; err != nil {
			return "", err
		}
		if occupied == 0 {
			break
		}
		next++
	}

	counter.LastNumber = next
	if err := db.Save(&counter).Error; err != nil {
		return "", translateWriteError(err)
	}
	return sequence.FormatCode(prefix, scope, next), nil
}

// Ensure GormSequenceGenerator implements the domain interface
var _ sequence.Generator = (*GormSequenceGenerator)(nil)
