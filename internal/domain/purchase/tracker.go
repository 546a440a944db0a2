package purchase

import (
	"context"

	"github.com/google/uuid"
)

// Tracker is the domain service that keeps purchase order fulfillment state
// consistent with the stock ledger. It is the sole writer of PurchaseOrder
// status. Construct it against transaction-scoped repositories so that a
// recompute observes the receipts applied earlier in the same transaction.
type Tracker struct {
	orders   Repository
	receipts ReceiptSource
}

// NewTracker creates a Tracker over the given repositories
func NewTracker(orders Repository, receipts ReceiptSource) *Tracker {
	return &Tracker{orders: orders, receipts: receipts}
}

// Recompute re-derives the order's status from the sum of its linked
// receipts. Idempotent: with no intervening receipts, repeated calls leave
// the order unchanged.
func (t *Tracker) Recompute(ctx context.Context, orderID uuid.UUID) (Status, error) {
	order, err := t.orders.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return "", err
	}
	received, err := t.receipts.SumReceivedForOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.DeriveStatus(received) {
		if err := t.orders.Save(ctx, order); err != nil {
			return "", err
		}
	}
	return order.Status, nil
}

// CanDelete reports whether the order may be deleted. An order with any
// receipt still referencing it must not be removed; deleting it would orphan
// the movements and silently lose fulfillment history.
func (t *Tracker) CanDelete(ctx context.Context, orderID uuid.UUID) (bool, error) {
	count, err := t.receipts.CountForOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
