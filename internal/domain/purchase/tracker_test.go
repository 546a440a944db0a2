package purchase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stockroom/backend/internal/domain/shared"
)

// fakeOrderRepo is an in-memory Repository for tracker tests
type fakeOrderRepo struct {
	orders map[uuid.UUID]*PurchaseOrder
	saves  int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*PurchaseOrder)}
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*PurchaseOrder, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]PurchaseOrder, error) {
	out := make([]PurchaseOrder, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderRepo) Create(_ context.Context, order *PurchaseOrder) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) Save(_ context.Context, order *PurchaseOrder) error {
	f.orders[order.ID] = order
	f.saves++
	return nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(f.orders)), nil
}

// fakeReceiptSource returns canned receipt aggregates per order
type fakeReceiptSource struct {
	sums   map[uuid.UUID]int64
	counts map[uuid.UUID]int64
}

func newFakeReceiptSource() *fakeReceiptSource {
	return &fakeReceiptSource{sums: make(map[uuid.UUID]int64), counts: make(map[uuid.UUID]int64)}
}

func (f *fakeReceiptSource) SumReceivedForOrder(_ context.Context, orderID uuid.UUID) (int64, error) {
	return f.sums[orderID], nil
}

func (f *fakeReceiptSource) CountForOrder(_ context.Context, orderID uuid.UUID) (int64, error) {
	return f.counts[orderID], nil
}

func TestTracker_Recompute(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, ordered int64) (*Tracker, *fakeOrderRepo, *fakeReceiptSource, *PurchaseOrder) {
		orders := newFakeOrderRepo()
		receipts := newFakeReceiptSource()
		order, err := NewPurchaseOrder(uuid.New(), "INV-2608-010", ordered, decimal.NewFromInt(500))
		require.NoError(t, err)
		require.NoError(t, orders.Create(ctx, order))
		return NewTracker(orders, receipts), orders, receipts, order
	}

	t.Run("completes when receipts reach the ordered quantity", func(t *testing.T) {
		tracker, _, receipts, order := setup(t, 100)
		receipts.sums[order.ID] = 100

		status, err := tracker.Recompute(ctx, order.ID)
		require.NoError(t, err)

		assert.Equal(t, StatusCompleted, status)
		assert.Equal(t, StatusCompleted, order.Status)
	})

	t.Run("reverts to pending after a receipt deletion", func(t *testing.T) {
		tracker, _, receipts, order := setup(t, 100)
		receipts.sums[order.ID] = 100
		_, err := tracker.Recompute(ctx, order.ID)
		require.NoError(t, err)

		receipts.sums[order.ID] = 60
		status, err := tracker.Recompute(ctx, order.ID)
		require.NoError(t, err)

		assert.Equal(t, StatusPending, status)
	})

	t.Run("idempotent with no intervening receipts", func(t *testing.T) {
		tracker, orders, receipts, order := setup(t, 100)
		receipts.sums[order.ID] = 100

		_, err := tracker.Recompute(ctx, order.ID)
		require.NoError(t, err)
		savesAfterFirst := orders.saves

		status, err := tracker.Recompute(ctx, order.ID)
		require.NoError(t, err)

		assert.Equal(t, StatusCompleted, status)
		// No status change means no write.
		assert.Equal(t, savesAfterFirst, orders.saves)
	})

	t.Run("unknown order", func(t *testing.T) {
		tracker, _, _, _ := setup(t, 100)

		_, err := tracker.Recompute(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestTracker_CanDelete(t *testing.T) {
	ctx := context.Background()
	orders := newFakeOrderRepo()
	receipts := newFakeReceiptSource()
	tracker := NewTracker(orders, receipts)
	orderID := uuid.New()

	t.Run("deletable without receipts", func(t *testing.T) {
		ok, err := tracker.CanDelete(ctx, orderID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("locked while receipts reference the order", func(t *testing.T) {
		receipts.counts[orderID] = 2

		ok, err := tracker.CanDelete(ctx, orderID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
