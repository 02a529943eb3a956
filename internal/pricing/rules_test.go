package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(id int, cost, selling string, stock, reorder int) Snapshot {
	return Snapshot{
		ID:            id,
		CostPrice:     decimal.RequireFromString(cost),
		SellingPrice:  decimal.RequireFromString(selling),
		StockQuantity: stock,
		ReorderLevel:  reorder,
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		in      Snapshot
		want    string
		reasons []string
	}{
		{
			name: "low stock then competitor",
			in:   snapshot(1, "800", "1200", 15, 20),
			want: "1254.00",
			reasons: []string{
				"Stock quantity (15) is below reorder level (20). Increasing price by 10%.",
				"Price is significantly higher than competitor average ($1196.67). Reducing by 5%.",
			},
		},
		{
			name: "high stock then competitor",
			in:   snapshot(2, "15", "25", 150, 30),
			want: "22.56",
			reasons: []string{
				"Stock quantity (150) is above 100. Decreasing price by 5%.",
				"Price is significantly higher than competitor average ($21.67). Reducing by 5%.",
			},
		},
		{
			name: "low stock keyboard",
			in:   snapshot(3, "60", "95", 8, 15),
			want: "99.28",
			reasons: []string{
				"Stock quantity (8) is below reorder level (15). Increasing price by 10%.",
				"Price is significantly higher than competitor average ($91.67). Reducing by 5%.",
			},
		},
		{
			name: "floor applied before competitor is not repeated",
			in:   snapshot(4, "100", "105", 150, 10),
			want: "110.00",
			reasons: []string{
				"Stock quantity (150) is above 100. Decreasing price by 5%.",
				"Adjusted to maintain minimum 10% profit margin over cost price.",
				"Price is significantly higher than competitor average ($101.67). Reducing by 5%.",
			},
		},
		{
			name: "competitor discount pulled back to floor",
			in:   snapshot(5, "54", "60", 50, 10),
			want: "59.40",
			reasons: []string{
				"Price is significantly higher than competitor average ($56.67). Reducing by 5%.",
				"Final adjustment to maintain minimum 10% profit margin over cost price.",
			},
		},
		{
			name: "low stock, floor and competitor keep pipeline order",
			in:   snapshot(6, "100", "90", 5, 10),
			want: "110.00",
			reasons: []string{
				"Stock quantity (5) is below reorder level (10). Increasing price by 10%.",
				"Adjusted to maintain minimum 10% profit margin over cost price.",
				"Price is significantly higher than competitor average ($86.67). Reducing by 5%.",
			},
		},
		{
			name: "low and high stock both fire",
			in:   snapshot(7, "500", "1000", 150, 200),
			want: "997.50",
			reasons: []string{
				"Stock quantity (150) is below reorder level (200). Increasing price by 10%.",
				"Stock quantity (150) is above 100. Decreasing price by 5%.",
				"Price is significantly higher than competitor average ($996.67). Reducing by 5%.",
			},
		},
		{
			name:    "no rule fires",
			in:      snapshot(8, "50", "100", 50, 10),
			want:    "100.00",
			reasons: []string{},
		},
		{
			name:    "stock equal to reorder level is not low",
			in:      snapshot(9, "50", "100", 10, 10),
			want:    "100.00",
			reasons: []string{},
		},
		{
			name:    "non-positive competitor average skips comparison",
			in:      snapshot(10, "1", "2", 50, 10),
			want:    "2.00",
			reasons: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.in)
			assert.Equal(t, tt.in.ID, got.ProductID)
			assert.True(t, got.CurrentPrice.Equal(tt.in.SellingPrice), "current price %s", got.CurrentPrice)
			assert.Equal(t, tt.want, got.RecommendedPrice.StringFixed(2))
			require.NotNil(t, got.Reasons)
			assert.Equal(t, tt.reasons, got.Reasons)
		})
	}
}

func TestEvaluate_FloorAndPrecision(t *testing.T) {
	halfCent := decimal.RequireFromString("0.005")
	costs := []string{"0.50", "1", "9.99", "15.05", "54", "100", "799.95"}
	markups := []string{"0.8", "1", "1.05", "1.1", "1.3", "2"}
	stocks := []struct{ stock, reorder int }{{0, 10}, {5, 5}, {50, 10}, {101, 10}, {150, 200}}

	for _, c := range costs {
		for _, m := range markups {
			for _, st := range stocks {
				cost := decimal.RequireFromString(c)
				selling := cost.Mul(decimal.RequireFromString(m)).Round(2)
				s := Snapshot{ID: 1, CostPrice: cost, SellingPrice: selling, StockQuantity: st.stock, ReorderLevel: st.reorder}

				rec := Evaluate(s)
				floor := cost.Mul(minimumMarginFactor)
				assert.True(t, rec.RecommendedPrice.GreaterThanOrEqual(floor.Sub(halfCent)),
					"cost %s selling %s: %s below floor %s", cost, selling, rec.RecommendedPrice, floor)
				assert.True(t, rec.RecommendedPrice.Equal(rec.RecommendedPrice.Round(2)),
					"cost %s selling %s: %s has more than 2 decimals", cost, selling, rec.RecommendedPrice)
			}
		}
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	s := snapshot(1, "800", "1200", 15, 20)
	first := Evaluate(s)
	second := Evaluate(s)
	assert.Equal(t, first.RecommendedPrice.String(), second.RecommendedPrice.String())
	assert.Equal(t, first.Reasons, second.Reasons)
}

func TestRoundPrice_HalfToEven(t *testing.T) {
	assert.Equal(t, "2.34", roundPrice(decimal.RequireFromString("2.345")).StringFixed(2))
	assert.Equal(t, "2.36", roundPrice(decimal.RequireFromString("2.355")).StringFixed(2))
	assert.Equal(t, "99.28", roundPrice(decimal.RequireFromString("99.275")).StringFixed(2))
}
