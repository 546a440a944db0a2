package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var productSortColumns = map[string]bool{
	"name":          true,
	"sku":           true,
	"current_stock": true,
	"reorder_point": true,
	"created_at":    true,
	"updated_at":    true,
}

// GormProductRepository implements inventory.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Product, error) {
	var product inventory.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate finds a product and takes a row-level lock held until the
// surrounding transaction ends. Concurrent stock mutations on the same
// product serialize here; different products are unaffected.
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.Product, error) {
	var product inventory.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateLockError(err)
	}
	return &product, nil
}

// FindAll lists products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Product, error) {
	var products []inventory.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.Product{}), filter)
	if err := paginate(query, filter).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAtOrBelowReorderPoint lists products whose stock has fallen to or below
// their cached reorder point.
func (r *GormProductRepository) FindAtOrBelowReorderPoint(ctx context.Context, filter shared.Filter) ([]inventory.Product, error) {
	var products []inventory.Product
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Product{}).
			Where("reorder_point > 0 AND current_stock <= reorder_point"),
		filter,
	)
	if err := paginate(query, filter).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save persists the product, including the stock counter and cached
// replenishment columns.
func (r *GormProductRepository) Save(ctx context.Context, product *inventory.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return translateWriteError(err)
	}
	return nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.Product{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ? OR sku ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ? OR sku ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	return query.Order(orderClause(filter, productSortColumns, "created_at"))
}

// Ensure GormProductRepository implements the domain interface
var _ inventory.ProductRepository = (*GormProductRepository)(nil)
