package purchase

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stockroom/backend/internal/domain/shared"
)

func newTestOrder(t *testing.T, quantity int64) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(uuid.New(), "INV-2608-001", quantity, decimal.NewFromInt(1000))
	require.NoError(t, err)
	return order
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("starts pending", func(t *testing.T) {
		order := newTestOrder(t, 100)

		assert.Equal(t, StatusPending, order.Status)
		assert.Equal(t, "INV-2608-001", order.InvoiceNumber)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "INV-2608-002", 0, decimal.Zero)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_QUANTITY", derr.Code)
	})

	t.Run("rejects missing invoice number", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "", 100, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative unit price", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "INV-2608-003", 100, decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestPurchaseOrder_DeriveStatus(t *testing.T) {
	t.Run("completed exactly at the ordered quantity", func(t *testing.T) {
		order := newTestOrder(t, 100)

		changed := order.DeriveStatus(100)

		assert.True(t, changed)
		assert.Equal(t, StatusCompleted, order.Status)
	})

	t.Run("completed when over-received", func(t *testing.T) {
		order := newTestOrder(t, 100)

		order.DeriveStatus(130)
		assert.Equal(t, StatusCompleted, order.Status)
	})

	t.Run("stays pending below the threshold", func(t *testing.T) {
		order := newTestOrder(t, 100)

		changed := order.DeriveStatus(99)

		assert.False(t, changed)
		assert.Equal(t, StatusPending, order.Status)
	})

	t.Run("reverts to pending when receipts drop below the threshold", func(t *testing.T) {
		order := newTestOrder(t, 100)
		order.DeriveStatus(100)
		require.Equal(t, StatusCompleted, order.Status)

		changed := order.DeriveStatus(60)

		assert.True(t, changed)
		assert.Equal(t, StatusPending, order.Status)
	})

	t.Run("idempotent for the same received total", func(t *testing.T) {
		order := newTestOrder(t, 100)

		assert.True(t, order.DeriveStatus(100))
		assert.False(t, order.DeriveStatus(100))
		assert.Equal(t, StatusCompleted, order.Status)
	})
}

func TestPurchaseOrder_RemainingQuantity(t *testing.T) {
	order := newTestOrder(t, 100)

	assert.Equal(t, int64(100), order.RemainingQuantity(0))
	assert.Equal(t, int64(40), order.RemainingQuantity(60))
	assert.Equal(t, int64(0), order.RemainingQuantity(100))
	assert.Equal(t, int64(0), order.RemainingQuantity(130))
}
