package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("Thermal paper roll", "TPR-57")
	require.NoError(t, err)
	return p
}

func TestReplenishmentCalculator_ReorderPoint(t *testing.T) {
	calc := NewReplenishmentCalculator()

	t.Run("computes lead demand plus minimum stock", func(t *testing.T) {
		p := newTestProduct(t)
		p.LeadTimeDays = 7
		p.DailyUsageRate = decimal.NewFromInt(10)
		p.MinimumStock = 5

		assert.Equal(t, int64(75), calc.ReorderPoint(p))
	})

	t.Run("rounds half up on fractional usage", func(t *testing.T) {
		p := newTestProduct(t)
		p.LeadTimeDays = 3
		p.DailyUsageRate = decimal.NewFromFloat(2.5) // 7.5 -> 8

		assert.Equal(t, int64(8), calc.ReorderPoint(p))
	})

	t.Run("zero when lead time is absent", func(t *testing.T) {
		p := newTestProduct(t)
		p.DailyUsageRate = decimal.NewFromInt(10)
		p.MinimumStock = 5

		assert.Equal(t, int64(0), calc.ReorderPoint(p))
	})

	t.Run("zero when usage rate is absent", func(t *testing.T) {
		p := newTestProduct(t)
		p.LeadTimeDays = 7
		p.MinimumStock = 5

		assert.Equal(t, int64(0), calc.ReorderPoint(p))
	})
}

func TestReplenishmentCalculator_EconomicOrderQuantity(t *testing.T) {
	calc := NewReplenishmentCalculator()

	t.Run("computes EOQ from annual demand and holding cost", func(t *testing.T) {
		p := newTestProduct(t)
		p.DailyUsageRate = decimal.NewFromInt(10)
		p.OrderingCost = decimal.NewFromInt(50000)
		p.HoldingCostPercentage = decimal.NewFromFloat(0.2)
		p.UnitPrice = decimal.NewFromInt(1000)

		// annual demand 3650, holding cost per unit 200:
		// sqrt(2*3650*50000/200) = sqrt(1825000) = 1350.9...
		assert.Equal(t, int64(1351), calc.EconomicOrderQuantity(p))
	})

	t.Run("zero when holding cost percentage is zero", func(t *testing.T) {
		p := newTestProduct(t)
		p.DailyUsageRate = decimal.NewFromInt(10)
		p.OrderingCost = decimal.NewFromInt(50000)
		p.UnitPrice = decimal.NewFromInt(1000)

		assert.Equal(t, int64(0), calc.EconomicOrderQuantity(p))
	})

	t.Run("zero when ordering cost is zero", func(t *testing.T) {
		p := newTestProduct(t)
		p.DailyUsageRate = decimal.NewFromInt(10)
		p.HoldingCostPercentage = decimal.NewFromFloat(0.2)
		p.UnitPrice = decimal.NewFromInt(1000)

		assert.Equal(t, int64(0), calc.EconomicOrderQuantity(p))
	})

	t.Run("zero when unit price is zero", func(t *testing.T) {
		p := newTestProduct(t)
		p.DailyUsageRate = decimal.NewFromInt(10)
		p.OrderingCost = decimal.NewFromInt(50000)
		p.HoldingCostPercentage = decimal.NewFromFloat(0.2)

		assert.Equal(t, int64(0), calc.EconomicOrderQuantity(p))
	})

	t.Run("never errors on a zero-value product", func(t *testing.T) {
		p := newTestProduct(t)

		rop, eoq := calc.Compute(p)
		assert.Equal(t, int64(0), rop)
		assert.Equal(t, int64(0), eoq)
	})
}

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name         string
		currentStock int64
		reorderPoint int64
		want         StockStatus
	}{
		{"zero stock is out of stock", 0, 75, StockStatusOutOfStock},
		{"negative stock is out of stock", -1, 75, StockStatusOutOfStock},
		{"at half the ROP is critical", 37, 75, StockStatusCritical},
		{"just above half the ROP needs reorder", 38, 75, StockStatusNeedsReorder},
		{"exactly at ROP needs reorder", 75, 75, StockStatusNeedsReorder},
		{"within 1.5x ROP is approaching", 112, 75, StockStatusApproachingROP},
		{"above 1.5x ROP is normal", 113, 75, StockStatusNormal},
		{"zero ROP with stock is normal", 10, 0, StockStatusNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStock(tt.currentStock, tt.reorderPoint))
		})
	}
}
