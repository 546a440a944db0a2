package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinventory "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/domain/purchase"
	"github.com/stockroom/backend/internal/domain/sequence"
	"github.com/stockroom/backend/internal/domain/shared"
)

// PlaceOrderInput carries the parameters for placing a purchase order
type PlaceOrderInput struct {
	ProductID       uuid.UUID
	OrderedQuantity int64
	UnitPrice       decimal.Decimal
	InvoiceNumber   string // generated when empty
}

// OrderResponse is the API-facing view of a purchase order
type OrderResponse struct {
	ID                string          `json:"id"`
	InvoiceNumber     string          `json:"invoice_number"`
	ProductID         string          `json:"product_id"`
	OrderedQuantity   int64           `json:"ordered_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Status            string          `json:"status"`
	ReceivedQuantity  int64           `json:"received_quantity"`
	RemainingQuantity int64           `json:"remaining_quantity"`
	CreatedAt         time.Time       `json:"created_at"`
}

func toOrderResponse(o *purchase.PurchaseOrder, received int64) OrderResponse {
	return OrderResponse{
		ID:                o.ID.String(),
		InvoiceNumber:     o.InvoiceNumber,
		ProductID:         o.ProductID.String(),
		OrderedQuantity:   o.OrderedQuantity,
		UnitPrice:         o.UnitPrice,
		Status:            o.Status.String(),
		ReceivedQuantity:  received,
		RemainingQuantity: o.RemainingQuantity(received),
		CreatedAt:         o.CreatedAt,
	}
}

// OrderListFilter carries list/pagination parameters for order queries
type OrderListFilter struct {
	Page      int
	PageSize  int
	Status    string
	ProductID *uuid.UUID
}

func (f OrderListFilter) toDomainFilter() shared.Filter {
	domainFilter := shared.DefaultFilter()
	if f.Page > 0 {
		domainFilter.Page = f.Page
	}
	if f.PageSize > 0 {
		domainFilter.PageSize = f.PageSize
	}
	if f.Status != "" {
		domainFilter.Filters["status"] = f.Status
	}
	if f.ProductID != nil {
		domainFilter.Filters["product_id"] = *f.ProductID
	}
	return domainFilter
}

// PurchaseOrderService orchestrates purchase order lifecycle operations.
// Status is never written here: it is derived by the tracker from the stock
// ledger, and this service only reads it back.
type PurchaseOrderService struct {
	scope         appinventory.TransactionScope
	clock         shared.Clock
	invoicePrefix string
	logger        *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	scope appinventory.TransactionScope,
	clock shared.Clock,
	invoicePrefix string,
	logger *zap.Logger,
) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		scope:         scope,
		clock:         clock,
		invoicePrefix: invoicePrefix,
		logger:        logger,
	}
}

// PlaceOrder creates a pending purchase order, generating the invoice number
// in the monthly series when the caller does not supply one.
func (s *PurchaseOrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderResponse, error) {
	var response *OrderResponse
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		if _, err := repos.Products().FindByID(ctx, input.ProductID); err != nil {
			return err
		}

		invoice := input.InvoiceNumber
		if invoice == "" {
			var err error
			invoice, err = repos.InvoiceNumbers().Next(ctx, s.invoicePrefix, sequence.MonthScope(s.clock.Now()))
			if err != nil {
				return err
			}
		}

		order, err := purchase.NewPurchaseOrder(input.ProductID, invoice, input.OrderedQuantity, input.UnitPrice)
		if err != nil {
			return err
		}
		if err := repos.Orders().Create(ctx, order); err != nil {
			return err
		}

		r := toOrderResponse(order, 0)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order placed",
		zap.String("order_id", response.ID),
		zap.String("invoice_number", response.InvoiceNumber),
		zap.Int64("ordered_quantity", response.OrderedQuantity),
	)
	return response, nil
}

// DeleteOrder removes an order that has no receipts referencing it. An order
// with linked receipts fails with OrderLocked; the receipts must be removed
// first.
func (s *PurchaseOrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		if _, err := repos.Orders().FindByIDForUpdate(ctx, orderID); err != nil {
			return err
		}

		tracker := purchase.NewTracker(repos.Orders(), repos.Movements())
		deletable, err := tracker.CanDelete(ctx, orderID)
		if err != nil {
			return err
		}
		if !deletable {
			return shared.ErrOrderLocked
		}
		return repos.Orders().Delete(ctx, orderID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("purchase order deleted", zap.String("order_id", orderID.String()))
	return nil
}

// GetOrder returns the order with its received and remaining quantities
func (s *PurchaseOrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	var response *OrderResponse
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		order, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		received, err := repos.Movements().SumReceivedForOrder(ctx, orderID)
		if err != nil {
			return err
		}

		r := toOrderResponse(order, received)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ListOrders lists purchase orders matching the filter
func (s *PurchaseOrderService) ListOrders(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := filter.toDomainFilter()

	var result *shared.Paginated[OrderResponse]
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		orders, err := repos.Orders().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		total, err := repos.Orders().Count(ctx, domainFilter)
		if err != nil {
			return err
		}

		items := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			received, err := repos.Movements().SumReceivedForOrder(ctx, orders[i].ID)
			if err != nil {
				return err
			}
			items = append(items, toOrderResponse(&orders[i], received))
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
