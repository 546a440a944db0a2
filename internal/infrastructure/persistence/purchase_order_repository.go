package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/purchase"
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var orderSortColumns = map[string]bool{
	"invoice_number":   true,
	"ordered_quantity": true,
	"status":           true,
	"created_at":       true,
	"updated_at":       true,
}

// GormPurchaseOrderRepository implements purchase.Repository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.PurchaseOrder, error) {
	var order purchase.PurchaseOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate finds a purchase order and takes a row-level lock held
// until the surrounding transaction ends, serializing concurrent status
// recomputes for the same order.
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchase.PurchaseOrder, error) {
	var order purchase.PurchaseOrder
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateLockError(err)
	}
	return &order, nil
}

// FindAll lists purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchase.PurchaseOrder, error) {
	var orders []purchase.PurchaseOrder
	query := r.applyFilter(r.db.WithContext(ctx).Model(&purchase.PurchaseOrder{}), filter)
	if err := paginate(query, filter).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Create persists a new purchase order. A duplicate invoice number surfaces
// as a retryable conflict.
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *purchase.PurchaseOrder) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return translateWriteError(err)
	}
	return nil
}

// Save persists changes to an existing purchase order
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchase.PurchaseOrder) error {
	if err := r.db.WithContext(ctx).Save(order).Error; err != nil {
		return translateWriteError(err)
	}
	return nil
}

// Delete removes a purchase order
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&purchase.PurchaseOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts purchase orders matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&purchase.PurchaseOrder{})
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query.Order(orderClause(filter, orderSortColumns, "created_at"))
}

// Ensure GormPurchaseOrderRepository implements the domain interface
var _ purchase.Repository = (*GormPurchaseOrderRepository)(nil)
