package pricing

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

const (
	highStockThreshold = 100

	reasonMarginFloor      = "Adjusted to maintain minimum 10% profit margin over cost price."
	reasonFinalMarginFloor = "Final adjustment to maintain minimum 10% profit margin over cost price."
)

var (
	lowStockIncrease     = decimal.RequireFromString("0.10")
	highStockDecrease    = decimal.RequireFromString("0.05")
	minimumMarginFactor  = decimal.RequireFromString("1.10")
	competitorThreshold  = decimal.RequireFromString("0.05")
	competitorAdjustment = decimal.RequireFromString("0.05")

	// synthetic competitor prices are the current price shifted by these offsets
	competitorOffsets = []decimal.Decimal{
		decimal.NewFromInt(-20),
		decimal.NewFromInt(20),
		decimal.NewFromInt(-10),
	}
)

// stageFunc returns the new running price, the reason to record and whether
// the stage fired.
type stageFunc func(s Snapshot, price decimal.Decimal) (decimal.Decimal, string, bool)

type stage struct {
	apply stageFunc
	// unlessReason drops this stage's reason when that reason is already recorded.
	unlessReason string
}

var pipeline = []stage{
	{apply: lowStock},
	{apply: highStock},
	{apply: marginFloor(reasonMarginFloor)},
	{apply: competitorAverage},
	{apply: marginFloor(reasonFinalMarginFloor), unlessReason: reasonMarginFloor},
}

// Evaluate runs the rule pipeline over s. It is pure: the same snapshot always
// yields the same recommendation.
func Evaluate(s Snapshot) Recommendation {
	price := s.SellingPrice
	reasons := make([]string, 0, len(pipeline))

	for _, st := range pipeline {
		next, reason, fired := st.apply(s, price)
		if !fired {
			continue
		}
		price = next
		if st.unlessReason != "" && slices.Contains(reasons, st.unlessReason) {
			continue
		}
		reasons = append(reasons, reason)
	}

	return Recommendation{
		ProductID:        s.ID,
		CurrentPrice:     s.SellingPrice,
		RecommendedPrice: roundPrice(price),
		Reasons:          reasons,
	}
}

func lowStock(s Snapshot, price decimal.Decimal) (decimal.Decimal, string, bool) {
	if s.StockQuantity >= s.ReorderLevel {
		return price, "", false
	}
	reason := fmt.Sprintf("Stock quantity (%d) is below reorder level (%d). Increasing price by 10%%.",
		s.StockQuantity, s.ReorderLevel)
	return price.Add(s.SellingPrice.Mul(lowStockIncrease)), reason, true
}

func highStock(s Snapshot, price decimal.Decimal) (decimal.Decimal, string, bool) {
	if s.StockQuantity <= highStockThreshold {
		return price, "", false
	}
	reason := fmt.Sprintf("Stock quantity (%d) is above %d. Decreasing price by 5%%.",
		s.StockQuantity, highStockThreshold)
	return price.Sub(s.SellingPrice.Mul(highStockDecrease)), reason, true
}

func minimumPrice(s Snapshot) decimal.Decimal {
	return s.CostPrice.Mul(minimumMarginFactor)
}

func marginFloor(reason string) stageFunc {
	return func(s Snapshot, price decimal.Decimal) (decimal.Decimal, string, bool) {
		floor := minimumPrice(s)
		if !price.LessThan(floor) {
			return price, "", false
		}
		return floor, reason, true
	}
}

func competitorAverage(s Snapshot, price decimal.Decimal) (decimal.Decimal, string, bool) {
	prices := make([]decimal.Decimal, 0, len(competitorOffsets))
	for _, off := range competitorOffsets {
		prices = append(prices, s.SellingPrice.Add(off))
	}
	avg := decimal.Avg(prices[0], prices[1:]...)
	// a non-positive average makes the relative difference meaningless
	if avg.Sign() <= 0 {
		return price, "", false
	}

	diff := price.Sub(avg).Div(avg)
	if !diff.GreaterThan(competitorThreshold) {
		return price, "", false
	}
	reason := fmt.Sprintf("Price is significantly higher than competitor average ($%s). Reducing by 5%%.",
		avg.StringFixed(2))
	return price.Sub(price.Mul(competitorAdjustment)), reason, true
}

// roundPrice rounds to cents using banker's rounding (half to even).
func roundPrice(price decimal.Decimal) decimal.Decimal {
	return price.RoundBank(2)
}
