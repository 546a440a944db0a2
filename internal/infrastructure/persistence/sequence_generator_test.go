package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectCounterSeed matches the idempotent insert that guarantees a counter
// row exists before it is locked.
func expectCounterSeed(mock sqlmock.Sqlmock) {
	mock.ExpectExec(`INSERT INTO "sequence_counters" (.+)ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func expectCounterLock(mock sqlmock.Sqlmock, prefix, scope string, lastNumber int64) {
	rows := sqlmock.NewRows([]string{"prefix", "scope", "last_number", "updated_at"}).
		AddRow(prefix, scope, lastNumber, time.Now())
	mock.ExpectQuery(`SELECT \* FROM "sequence_counters" WHERE prefix = \$1 AND scope = \$2 (.+)FOR UPDATE`).
		WithArgs(prefix, scope, 1).
		WillReturnRows(rows)
}

func expectHighestCode(mock sqlmock.Sqlmock, pattern string, highest interface{}) {
	rows := sqlmock.NewRows([]string{"max"}).AddRow(highest)
	mock.ExpectQuery(`SELECT MAX\(code\) FROM "stock_movements" WHERE code LIKE \$1`).
		WithArgs(pattern).
		WillReturnRows(rows)
}

func expectCodeProbe(mock sqlmock.Sqlmock, code string, occupied int64) {
	rows := sqlmock.NewRows([]string{"count"}).AddRow(occupied)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_movements" WHERE code = \$1`).
		WithArgs(code).
		WillReturnRows(rows)
}

func expectCounterSave(mock sqlmock.Sqlmock) {
	mock.ExpectExec(`UPDATE "sequence_counters" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestGormSequenceGenerator_Next(t *testing.T) {
	t.Run("increments the counter", func(t *testing.T) {
		db, mock, sqlDB := newMockGormDB(t)
		defer sqlDB.Close()
		gen := NewMovementCodeGenerator(db)

		expectCounterSeed(mock)
		expectCounterLock(mock, "SIN", "2608", 41)
		expectHighestCode(mock, "SIN-2608-%", nil)
		expectCodeProbe(mock, "SIN-2608-042", 0)
		expectCounterSave(mock)

		code, err := gen.Next(context.Background(), "SIN", "2608")
		require.NoError(t, err)
		assert.Equal(t, "SIN-2608-042", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("catches up to codes ahead of the counter", func(t *testing.T) {
		db, mock, sqlDB := newMockGormDB(t)
		defer sqlDB.Close()
		gen := NewMovementCodeGenerator(db)

		expectCounterSeed(mock)
		expectCounterLock(mock, "SIN", "2608", 5)
		expectHighestCode(mock, "SIN-2608-%", "SIN-2608-047")
		expectCodeProbe(mock, "SIN-2608-048", 0)
		expectCounterSave(mock)

		code, err := gen.Next(context.Background(), "SIN", "2608")
		require.NoError(t, err)
		assert.Equal(t, "SIN-2608-048", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("walks past occupied slots", func(t *testing.T) {
		db, mock, sqlDB := newMockGormDB(t)
		defer sqlDB.Close()
		gen := NewMovementCodeGenerator(db)

		expectCounterSeed(mock)
		expectCounterLock(mock, "SIN", "2608", 1)
		expectHighestCode(mock, "SIN-2608-%", nil)
		expectCodeProbe(mock, "SIN-2608-002", 1)
		expectCodeProbe(mock, "SIN-2608-003", 0)
		expectCounterSave(mock)

		code, err := gen.Next(context.Background(), "SIN", "2608")
		require.NoError(t, err)
		assert.Equal(t, "SIN-2608-003", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("widens the suffix past three digits", func(t *testing.T) {
		db, mock, sqlDB := newMockGormDB(t)
		defer sqlDB.Close()
		gen := NewMovementCodeGenerator(db)

		expectCounterSeed(mock)
		expectCounterLock(mock, "SIN", "2608", 999)
		expectHighestCode(mock, "SIN-2608-%", nil)
		expectCodeProbe(mock, "SIN-2608-1000", 0)
		expectCounterSave(mock)

		code, err := gen.Next(context.Background(), "SIN", "2608")
		require.NoError(t, err)
		assert.Equal(t, "SIN-2608-1000", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock failure maps to conflict", func(t *testing.T) {
		db, mock, sqlDB := newMockGormDB(t)
		defer sqlDB.Close()
		gen := NewMovementCodeGenerator(db)

		expectCounterSeed(mock)
		mock.ExpectQuery(`SELECT \* FROM "sequence_counters" WHERE prefix = \$1 AND scope = \$2 (.+)FOR UPDATE`).
			WithArgs("SIN", "2608", 1).
			WillReturnError(&pgconn.PgError{Code: pgCodeLockNotAvailable})

		_, err := gen.Next(context.Background(), "SIN", "2608")
		assert.ErrorIs(t, err, shared.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invoice generator targets purchase orders", func(t *testing.T) {
		db, mock, sqlDB := newMockGormDB(t)
		defer sqlDB.Close()
		gen := NewInvoiceNumberGenerator(db)

		expectCounterSeed(mock)
		expectCounterLock(mock, "INV", "2608", 0)
		rows := sqlmock.NewRows([]string{"max"}).AddRow(nil)
		mock.ExpectQuery(`SELECT MAX\(invoice_number\) FROM "purchase_orders" WHERE invoice_number LIKE \$1`).
			WithArgs("INV-2608-%").
			WillReturnRows(rows)
		probe := sqlmock.NewRows([]string{"count"}).AddRow(int64(0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "purchase_orders" WHERE invoice_number = \$1`).
			WithArgs("INV-2608-001").
			WillReturnRows(probe)
		expectCounterSave(mock)

		code, err := gen.Next(context.Background(), "INV", "2608")
		require.NoError(t, err)
		assert.Equal(t, "INV-2608-001", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
