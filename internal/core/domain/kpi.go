// internal/core/domain/kpi.go
package domain

import "github.com/shopspring/decimal"

// Band classifies a KPI value for display.
type Band string

const (
	BandPositive Band = "positive"
	BandCaution  Band = "caution"
	BandNegative Band = "negative"
	BandNeutral  Band = "neutral"
)

// Advisory thresholds.
const (
	StaleDays         = 60
	MovementCaution   = 30
	MarginPositivePct = 20
	MarginCautionPct  = 10
)

// StockTotals aggregates the bins of a snapshot.
type StockTotals struct {
	TotalQty     decimal.Decimal
	TotalValue   decimal.Decimal
	AvgValuation decimal.Decimal
}

// Totals sums actual quantity and estimated stock value across all bins.
// The average valuation is total value over total quantity, zero when the
// item holds no stock.
func (s *Snapshot) Totals() StockTotals {
	var t StockTotals
	for _, b := range s.Bins {
		t.TotalQty = t.TotalQty.Add(b.ActualQty.Decimal())
		t.TotalValue = t.TotalValue.Add(b.StockValueEst.Decimal())
	}
	if t.TotalQty.IsPositive() {
		t.AvgValuation = t.TotalValue.Div(t.TotalQty)
	}
	return t
}

// Margin computes the percentage spread between a selling price and the
// average valuation cost. Both inputs must be strictly positive, otherwise
// the margin is undefined and ok is false.
func Margin(sellPrice, avgValuation decimal.Decimal) (pct decimal.Decimal, ok bool) {
	if !sellPrice.IsPositive() || !avgValuation.IsPositive() {
		return decimal.Zero, false
	}
	hundred := decimal.NewFromInt(100)
	return sellPrice.Sub(avgValuation).Div(sellPrice).Mul(hundred), true
}

// MarginBand classifies a margin percentage.
func MarginBand(pct decimal.Decimal) Band {
	switch {
	case pct.GreaterThanOrEqual(decimal.NewFromInt(MarginPositivePct)):
		return BandPositive
	case pct.GreaterThanOrEqual(decimal.NewFromInt(MarginCautionPct)):
		return BandCaution
	default:
		return BandNegative
	}
}

// MovementBand classifies days without movement.
func MovementBand(days int) Band {
	switch {
	case days < MovementCaution:
		return BandPositive
	case days < StaleDays:
		return BandCaution
	default:
		return BandNegative
	}
}

// LowStock reports whether the "low stock" advisory applies: the reorder
// level must be set (> 0) and total on-hand quantity below it.
func (s *Snapshot) LowStock() bool {
	reorder := s.Item.ReorderLevel.Decimal()
	if !reorder.IsPositive() {
		return false
	}
	return s.Totals().TotalQty.LessThan(reorder)
}

// Stale reports whether the item has gone without a sale long enough to be
// flagged. Unknown (never sold) is not stale.
func (s *Snapshot) Stale() bool {
	return s.DaysSinceLastSale != nil && *s.DaysSinceLastSale >= StaleDays
}
