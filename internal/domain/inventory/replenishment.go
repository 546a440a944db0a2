package inventory

import (
	"math"

	"github.com/shopspring/decimal"
)

const daysPerYear = 365

// ReplenishmentCalculator derives the reorder point (ROP) and economic order
// quantity (EOQ) from a product's replenishment parameters. It is pure: no
// state, no I/O, and it never fails. Undefined inputs yield zeros.
type ReplenishmentCalculator struct{}

// NewReplenishmentCalculator creates a ReplenishmentCalculator
func NewReplenishmentCalculator() *ReplenishmentCalculator {
	return &ReplenishmentCalculator{}
}

// Compute returns (rop, eoq) for the product's current parameters.
//
// ROP = lead_time_days x daily_usage_rate + minimum_stock, zero when either
// lead time or usage rate is absent. EOQ = sqrt(2 x annual_demand x
// ordering_cost / holding_cost_per_unit), zero unless ordering cost, usage
// rate, unit price and the derived holding cost are all positive. Both are
// rounded half-up to whole stock units.
func (c *ReplenishmentCalculator) Compute(p *Product) (rop, eoq int64) {
	return c.ReorderPoint(p), c.EconomicOrderQuantity(p)
}

// ReorderPoint computes the stock level at which a new order should be placed
func (c *ReplenishmentCalculator) ReorderPoint(p *Product) int64 {
	if p.LeadTimeDays <= 0 || !p.DailyUsageRate.IsPositive() {
		return 0
	}
	leadDemand := p.DailyUsageRate.Mul(decimal.NewFromInt(int64(p.LeadTimeDays)))
	return leadDemand.Add(decimal.NewFromInt(p.MinimumStock)).Round(0).IntPart()
}

// EconomicOrderQuantity computes the order quantity minimizing combined
// ordering and holding cost.
func (c *ReplenishmentCalculator) EconomicOrderQuantity(p *Product) int64 {
	if !p.DailyUsageRate.IsPositive() || !p.OrderingCost.IsPositive() || !p.UnitPrice.IsPositive() {
		return 0
	}
	holdingPerUnit := p.UnitPrice.Mul(p.HoldingCostPercentage)
	if !holdingPerUnit.IsPositive() {
		return 0
	}
	annualDemand := p.DailyUsageRate.Mul(decimal.NewFromInt(daysPerYear))

	d, _ := annualDemand.Float64()
	s, _ := p.OrderingCost.Float64()
	h, _ := holdingPerUnit.Float64()
	return int64(math.Floor(math.Sqrt(2*d*s/h) + 0.5))
}

// StockStatus classifies a product's stock level relative to its reorder point
type StockStatus string

const (
	// StockStatusOutOfStock means nothing is on hand
	StockStatusOutOfStock StockStatus = "out_of_stock"
	// StockStatusCritical means stock is at or below half the reorder point
	StockStatusCritical StockStatus = "critical"
	// StockStatusNeedsReorder means stock is at or below the reorder point
	StockStatusNeedsReorder StockStatus = "needs_reorder"
	// StockStatusApproachingROP means stock is within 1.5x the reorder point
	StockStatusApproachingROP StockStatus = "approaching_rop"
	// StockStatusNormal means stock is comfortably above the reorder point
	StockStatusNormal StockStatus = "normal"
)

// ClassifyStock maps a stock level and reorder point to a status tier.
// Thresholds are evaluated strictest first; integer arithmetic avoids
// fractional comparisons for the 0.5x and 1.5x tiers.
func ClassifyStock(currentStock, reorderPoint int64) StockStatus {
	switch {
	case currentStock <= 0:
		return StockStatusOutOfStock
	case 2*currentStock <= reorderPoint:
		return StockStatusCritical
	case currentStock <= reorderPoint:
		return StockStatusNeedsReorder
	case 2*currentStock <= 3*reorderPoint:
		return StockStatusApproachingROP
	default:
		return StockStatusNormal
	}
}
