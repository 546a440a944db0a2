package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/purchase"
	"github.com/stockroom/backend/internal/domain/sequence"
	"github.com/stockroom/backend/internal/domain/shared"
)

// CodePrefixes holds the configured prefixes for generated movement codes
type CodePrefixes struct {
	Receipt string
	Issue   string
}

// InventoryService orchestrates stock ledger operations. Every mutation runs
// inside exactly one transaction: the movement record, the stock counter
// update, the code reservation and any purchase order status change commit or
// roll back together.
type InventoryService struct {
	scope    TransactionScope
	calc     *inventory.ReplenishmentCalculator
	clock    shared.Clock
	cache    StockSummaryCache
	prefixes CodePrefixes
	logger   *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	scope TransactionScope,
	clock shared.Clock,
	cache StockSummaryCache,
	prefixes CodePrefixes,
	logger *zap.Logger,
) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		scope:    scope,
		calc:     inventory.NewReplenishmentCalculator(),
		clock:    clock,
		cache:    cache,
		prefixes: prefixes,
		logger:   logger,
	}
}

// ReceiveStock records an inbound movement: it locks the product row,
// increments the stock counter, appends the movement and, when the receipt is
// linked to a purchase order, recomputes that order's fulfillment status, all
// in one transaction.
func (s *InventoryService) ReceiveStock(ctx context.Context, input ReceiveStockInput) (*MovementResponse, error) {
	// Reject invalid quantities before a transaction opens or a row locks.
	if input.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
	}
	occurredAt := s.occurredAt(input.OccurredAt)

	var response *MovementResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}

		if input.PurchaseOrderID != nil {
			order, err := repos.Orders().FindByID(ctx, *input.PurchaseOrderID)
			if err != nil {
				return err
			}
			if order.ProductID != product.ID {
				return shared.NewDomainError("INVALID_ORDER", "Purchase order references a different product")
			}
		}

		code, err := s.resolveCode(ctx, repos, input.Code, s.prefixes.Receipt)
		if err != nil {
			return err
		}

		movement, err := inventory.NewReceipt(product.ID, input.Quantity, code, occurredAt, input.Supplier, input.PurchaseOrderID, input.RecordedBy)
		if err != nil {
			return err
		}
		if err := product.ApplyReceipt(input.Quantity); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return fmt.Errorf("failed to save product stock: %w", err)
		}
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		if movement.PurchaseOrderID != nil {
			tracker := purchase.NewTracker(repos.Orders(), repos.Movements())
			if _, err := tracker.Recompute(ctx, *movement.PurchaseOrderID); err != nil {
				return err
			}
		}

		r := ToMovementResponse(movement)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, input.ProductID)
	s.logger.Info("stock received",
		zap.String("product_id", input.ProductID.String()),
		zap.Int64("quantity", input.Quantity),
		zap.String("code", response.Code),
	)
	return response, nil
}

// IssueStock records an outbound movement. An issue exceeding the stock on
// hand is rejected with an InsufficientStockError carrying the available
// quantity, and nothing is written.
func (s *InventoryService) IssueStock(ctx context.Context, input IssueStockInput) (*MovementResponse, error) {
	// Reject invalid quantities before a transaction opens or a row locks.
	if input.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Issue quantity must be positive")
	}
	occurredAt := s.occurredAt(input.OccurredAt)

	var response *MovementResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}

		code, err := s.resolveCode(ctx, repos, input.Code, s.prefixes.Issue)
		if err != nil {
			return err
		}

		movement, err := inventory.NewIssue(product.ID, input.Quantity, code, occurredAt, input.Customer, input.RecordedBy)
		if err != nil {
			return err
		}
		if err := product.ApplyIssue(input.Quantity); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return fmt.Errorf("failed to save product stock: %w", err)
		}
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		r := ToMovementResponse(movement)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, input.ProductID)
	s.logger.Info("stock issued",
		zap.String("product_id", input.ProductID.String()),
		zap.Int64("quantity", input.Quantity),
		zap.String("code", response.Code),
	)
	return response, nil
}

// RemoveMovement deletes a movement and applies the compensating stock
// adjustment. Reverting a receipt that the counter no longer covers clamps the
// counter at zero and logs an integrity warning instead of failing. A movement
// linked to a purchase order triggers a fulfillment recompute, so deleting the
// deciding receipt moves the order back to pending.
func (s *InventoryService) RemoveMovement(ctx context.Context, movementID uuid.UUID) error {
	var productID uuid.UUID
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		movement, err := repos.Movements().FindByID(ctx, movementID)
		if err != nil {
			return err
		}
		product, err := repos.Products().FindByIDForUpdate(ctx, movement.ProductID)
		if err != nil {
			return err
		}
		productID = product.ID

		if clamped := product.RevertMovement(movement); clamped {
			s.logger.Warn("stock counter clamped to zero while reverting a receipt",
				zap.String("product_id", product.ID.String()),
				zap.String("movement_code", movement.Code),
				zap.Int64("movement_quantity", movement.Quantity),
			)
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return fmt.Errorf("failed to save product stock: %w", err)
		}
		if err := repos.Movements().Delete(ctx, movement.ID); err != nil {
			return err
		}

		if movement.PurchaseOrderID != nil {
			tracker := purchase.NewTracker(repos.Orders(), repos.Movements())
			if _, err := tracker.Recompute(ctx, *movement.PurchaseOrderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, productID)
	s.logger.Info("stock movement removed",
		zap.String("movement_id", movementID.String()),
		zap.String("product_id", productID.String()),
	)
	return nil
}

// RecalculateReplenishment recomputes the product's reorder point and economic
// order quantity from its current parameters and persists them on the cached
// columns.
func (s *InventoryService) RecalculateReplenishment(ctx context.Context, productID uuid.UUID) (*StockSummary, error) {
	var summary *StockSummary
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		rop, eoq := s.calc.Compute(product)
		product.SetReplenishment(rop, eoq)
		if err := repos.Products().Save(ctx, product); err != nil {
			return fmt.Errorf("failed to save replenishment values: %w", err)
		}

		summary = NewStockSummary(product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, summary)
	s.logger.Info("replenishment recalculated",
		zap.String("product_id", productID.String()),
		zap.Int64("reorder_point", summary.ReorderPoint),
		zap.Int64("economic_order_qty", summary.EconomicOrderQty),
	)
	return summary, nil
}

// GetStockSummary returns the product's stock position, read through the
// summary cache.
func (s *InventoryService) GetStockSummary(ctx context.Context, productID uuid.UUID) (*StockSummary, error) {
	if summary, ok := s.cache.Get(ctx, productID); ok {
		return summary, nil
	}

	var summary *StockSummary
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		summary = NewStockSummary(product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, summary)
	return summary, nil
}

// ListMovements lists ledger entries matching the filter, newest first by
// default.
func (s *InventoryService) ListMovements(ctx context.Context, filter MovementListFilter) (*shared.Paginated[MovementResponse], error) {
	domainFilter := filter.toDomainFilter()

	var result *shared.Paginated[MovementResponse]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		movements, err := repos.Movements().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		total, err := repos.Movements().Count(ctx, domainFilter)
		if err != nil {
			return err
		}

		items := make([]MovementResponse, 0, len(movements))
		for i := range movements {
			items = append(items, ToMovementResponse(&movements[i]))
		}
		paginated := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.Limit())
		result = &paginated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListBelowReorderPoint lists products whose stock has fallen to or below
// their reorder point, as stock summaries.
func (s *InventoryService) ListBelowReorderPoint(ctx context.Context, filter shared.Filter) ([]StockSummary, error) {
	var summaries []StockSummary
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		products, err := repos.Products().FindAtOrBelowReorderPoint(ctx, filter)
		if err != nil {
			return err
		}
		summaries = make([]StockSummary, 0, len(products))
		for i := range products {
			summaries = append(summaries, *NewStockSummary(&products[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// resolveCode returns the caller-supplied code after a uniqueness check, or
// generates the next one in the prefix's monthly series.
func (s *InventoryService) resolveCode(ctx context.Context, repos TransactionalRepositories, code, prefix string) (string, error) {
	if code == "" {
		return repos.MovementCodes().Next(ctx, prefix, sequence.MonthScope(s.clock.Now()))
	}
	exists, err := repos.Movements().ExistsByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if exists {
		return "", shared.ErrConflict
	}
	return code, nil
}

func (s *InventoryService) occurredAt(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return s.clock.Now()
}
