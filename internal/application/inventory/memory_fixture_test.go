package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/purchase"
	"github.com/stockroom/backend/internal/domain/sequence"
	"github.com/stockroom/backend/internal/domain/shared"
)

// memoryStore is an in-memory stand-in for the database, used to test service
// orchestration without a real transaction manager. memoryScope gives it the
// same all-or-nothing semantics: Execute runs the function against a deep copy
// and swaps it in only on success, so a failed operation leaves no trace.
type memoryStore struct {
	products  map[uuid.UUID]inventory.Product
	movements map[uuid.UUID]inventory.StockMovement
	orders    map[uuid.UUID]purchase.PurchaseOrder
	counters  map[string]int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products:  make(map[uuid.UUID]inventory.Product),
		movements: make(map[uuid.UUID]inventory.StockMovement),
		orders:    make(map[uuid.UUID]purchase.PurchaseOrder),
		counters:  make(map[string]int64),
	}
}

func (s *memoryStore) clone() *memoryStore {
	c := newMemoryStore()
	for id, p := range s.products {
		c.products[id] = p
	}
	for id, m := range s.movements {
		if m.PurchaseOrderID != nil {
			orderID := *m.PurchaseOrderID
			m.PurchaseOrderID = &orderID
		}
		c.movements[id] = m
	}
	for id, o := range s.orders {
		c.orders[id] = o
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	return c
}

func (s *memoryStore) addProduct(p *inventory.Product) {
	s.products[p.ID] = *p
}

func (s *memoryStore) addOrder(o *purchase.PurchaseOrder) {
	s.orders[o.ID] = *o
}

func (s *memoryStore) addMovement(m *inventory.StockMovement) {
	s.movements[m.ID] = *m
}

// memoryScope implements TransactionScope over a memoryStore
type memoryScope struct {
	store *memoryStore

	// executions counts how many transactions were opened
	executions int
}

func newMemoryScope(store *memoryStore) *memoryScope {
	return &memoryScope{store: store}
}

func (s *memoryScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.executions++
	tx := s.store.clone()
	if err := fn(&memoryRepositories{store: tx}); err != nil {
		return err
	}
	*s.store = *tx
	return nil
}

type memoryRepositories struct {
	store *memoryStore
}

func (r *memoryRepositories) Products() inventory.ProductRepository {
	return &memoryProductRepo{store: r.store}
}

func (r *memoryRepositories) Movements() inventory.StockMovementRepository {
	return &memoryMovementRepo{store: r.store}
}

func (r *memoryRepositories) Orders() purchase.Repository {
	return &memoryOrderRepo{store: r.store}
}

func (r *memoryRepositories) MovementCodes() sequence.Generator {
	return &memoryGenerator{store: r.store, exists: func(code string) bool {
		for _, m := range r.store.movements {
			if m.Code == code {
				return true
			}
		}
		return false
	}}
}

func (r *memoryRepositories) InvoiceNumbers() sequence.Generator {
	return &memoryGenerator{store: r.store, exists: func(code string) bool {
		for _, o := range r.store.orders {
			if o.InvoiceNumber == code {
				return true
			}
		}
		return false
	}}
}

type memoryProductRepo struct {
	store *memoryStore
}

func (r *memoryProductRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *memoryProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.Product, error) {
	out := make([]inventory.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *memoryProductRepo) FindAtOrBelowReorderPoint(_ context.Context, _ shared.Filter) ([]inventory.Product, error) {
	var out []inventory.Product
	for _, p := range r.store.products {
		if p.ReorderPoint > 0 && p.CurrentStock <= p.ReorderPoint {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *memoryProductRepo) Save(_ context.Context, product *inventory.Product) error {
	r.store.products[product.ID] = *product
	return nil
}

func (r *memoryProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.products)), nil
}

type memoryMovementRepo struct {
	store *memoryStore
}

func (r *memoryMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	m, ok := r.store.movements[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &m, nil
}

func (r *memoryMovementRepo) FindByProduct(_ context.Context, productID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	sortMovements(out)
	return out, nil
}

func (r *memoryMovementRepo) FindAll(_ context.Context, filter shared.Filter) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.store.movements {
		if !matchesMovementFilter(&m, filter) {
			continue
		}
		out = append(out, m)
	}
	sortMovements(out)
	start := filter.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.Limit()
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (r *memoryMovementRepo) SumReceivedForOrder(_ context.Context, orderID uuid.UUID) (int64, error) {
	var sum int64
	for _, m := range r.store.movements {
		if m.IsReceipt() && m.PurchaseOrderID != nil && *m.PurchaseOrderID == orderID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

func (r *memoryMovementRepo) CountForOrder(_ context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range r.store.movements {
		if m.IsReceipt() && m.PurchaseOrderID != nil && *m.PurchaseOrderID == orderID {
			count++
		}
	}
	return count, nil
}

func (r *memoryMovementRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, m := range r.store.movements {
		if m.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryMovementRepo) Create(_ context.Context, movement *inventory.StockMovement) error {
	if exists, _ := r.ExistsByCode(context.Background(), movement.Code); exists {
		return shared.ErrConflict
	}
	r.store.movements[movement.ID] = *movement
	return nil
}

func (r *memoryMovementRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.movements[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.store.movements, id)
	return nil
}

func (r *memoryMovementRepo) Count(_ context.Context, filter shared.Filter) (int64, error) {
	var count int64
	for _, m := range r.store.movements {
		if matchesMovementFilter(&m, filter) {
			count++
		}
	}
	return count, nil
}

func matchesMovementFilter(m *inventory.StockMovement, filter shared.Filter) bool {
	if direction, ok := filter.Filters["direction"]; ok && m.Direction.String() != direction {
		return false
	}
	if productID, ok := filter.Filters["product_id"]; ok && m.ProductID != productID {
		return false
	}
	if filter.Search != "" && !strings.Contains(m.Code, filter.Search) {
		return false
	}
	return true
}

func sortMovements(out []inventory.StockMovement) {
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
}

type memoryOrderRepo struct {
	store *memoryStore
}

func (r *memoryOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*purchase.PurchaseOrder, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (r *memoryOrderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchase.PurchaseOrder, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryOrderRepo) FindAll(_ context.Context, filter shared.Filter) ([]purchase.PurchaseOrder, error) {
	var out []purchase.PurchaseOrder
	for _, o := range r.store.orders {
		if status, ok := filter.Filters["status"]; ok && o.Status.String() != status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber < out[j].InvoiceNumber })
	start := filter.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.Limit()
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (r *memoryOrderRepo) Create(_ context.Context, order *purchase.PurchaseOrder) error {
	for _, o := range r.store.orders {
		if o.InvoiceNumber == order.InvoiceNumber {
			return shared.ErrConflict
		}
	}
	r.store.orders[order.ID] = *order
	return nil
}

func (r *memoryOrderRepo) Save(_ context.Context, order *purchase.PurchaseOrder) error {
	r.store.orders[order.ID] = *order
	return nil
}

func (r *memoryOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.store.orders, id)
	return nil
}

func (r *memoryOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.orders)), nil
}

// memoryGenerator mirrors the counter-plus-probe behaviour of the persistent
// generator: advance the counter, then skip codes already taken.
type memoryGenerator struct {
	store  *memoryStore
	exists func(code string) bool
}

func (g *memoryGenerator) Next(_ context.Context, prefix, scope string) (string, error) {
	key := fmt.Sprintf("%s|%s", prefix, scope)
	next := g.store.counters[key] + 1
	for g.exists(sequence.FormatCode(prefix, scope, next)) {
		next++
	}
	g.store.counters[key] = next
	return sequence.FormatCode(prefix, scope, next), nil
}

var (
	_ TransactionScope                  = (*memoryScope)(nil)
	_ TransactionalRepositories         = (*memoryRepositories)(nil)
	_ inventory.ProductRepository       = (*memoryProductRepo)(nil)
	_ inventory.StockMovementRepository = (*memoryMovementRepo)(nil)
	_ purchase.Repository               = (*memoryOrderRepo)(nil)
	_ sequence.Generator                = (*memoryGenerator)(nil)
)
