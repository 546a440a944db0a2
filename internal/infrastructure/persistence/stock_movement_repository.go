package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var movementSortColumns = map[string]bool{
	"code":        true,
	"direction":   true,
	"quantity":    true,
	"occurred_at": true,
	"created_at":  true,
}

// GormStockMovementRepository implements inventory.StockMovementRepository
// using GORM. The movement table is append-only: rows are created and
// deleted, never updated.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByID finds a movement by its ID
func (r *GormStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	var movement inventory.StockMovement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByProduct lists movements for a product
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockMovement{}).Where("product_id = ?", productID),
		filter,
	)
	if err := paginate(query, filter).Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindAll lists movements matching the filter
func (r *GormStockMovementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.StockMovement{}), filter)
	if err := paginate(query, filter).Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// SumReceivedForOrder sums the quantities of all receipts linked to the
// purchase order. Reads the transaction's own uncommitted writes, so a
// recompute after a receipt insert observes that receipt.
func (r *GormStockMovementRepository) SumReceivedForOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("purchase_order_id = ? AND direction = ?", orderID, inventory.DirectionIn).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// CountForOrder counts receipts linked to the purchase order
func (r *GormStockMovementRepository) CountForOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("purchase_order_id = ? AND direction = ?", orderID, inventory.DirectionIn).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode reports whether a movement already carries the code
func (r *GormStockMovementRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create appends a movement record. A duplicate code surfaces as a retryable
// conflict rather than a raw constraint error.
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return translateWriteError(err)
	}
	return nil
}

// Delete removes a movement record
func (r *GormStockMovementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockMovement{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts movements matching the filter
func (r *GormStockMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.StockMovement{})
	query = r.applyConditions(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStockMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyConditions(query, filter)
	return query.Order(orderClause(filter, movementSortColumns, "occurred_at"))
}

func (r *GormStockMovementRepository) applyConditions(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if direction, ok := filter.Filters["direction"]; ok {
		query = query.Where("direction = ?", direction)
	}
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}
	if filter.Search != "" {
		query = query.Where("code ILIKE ? OR counterparty ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormStockMovementRepository implements the domain interfaces
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
