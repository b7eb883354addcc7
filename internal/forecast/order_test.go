package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntilStockout(t *testing.T) {
	assert.InDelta(t, 5.0, DaysUntilStockout(10, 2), 1e-9)
	assert.Equal(t, StockoutSentinel, DaysUntilStockout(10, 0))
	assert.Equal(t, StockoutSentinel, DaysUntilStockout(0, 0))
}

func TestOrderQuantityBasic(t *testing.T) {
	// Need 2/day * 14 days = 28, have 8: deficit 20, boxes of 10 -> 2 boxes.
	deficit, boxes := OrderQuantity(2, 14, 8, 10, 0, false)
	assert.InDelta(t, 20.0, deficit, 1e-9)
	assert.Equal(t, 2, boxes)
}

func TestOrderQuantityNoDeficit(t *testing.T) {
	deficit, boxes := OrderQuantity(1, 10, 50, 10, 0, false)
	assert.Zero(t, deficit)
	assert.Zero(t, boxes)
}

func TestOrderQuantityPendingCoversDeficit(t *testing.T) {
	// In-transit stock counts as available.
	deficit, boxes := OrderQuantity(2, 14, 8, 10, 30, false)
	assert.Zero(t, deficit)
	assert.Zero(t, boxes)
}

func TestOrderQuantityBelowMinimumEconomical(t *testing.T) {
	// Deficit of 2 against a 10kg box is under the 0.3 box threshold.
	deficit, boxes := OrderQuantity(1, 12, 10, 10, 0, false)
	assert.Zero(t, deficit)
	assert.Zero(t, boxes)
}

func TestOrderQuantityMarginalRounding(t *testing.T) {
	// Deficit 10.2 boxes worth: fraction 0.2 is dropped under the marginal
	// rule but rounded up without it.
	_, boxes := OrderQuantity(1, 102, 0, 10, 0, true)
	assert.Equal(t, 10, boxes)

	_, boxes = OrderQuantity(1, 102, 0, 10, 0, false)
	assert.Equal(t, 11, boxes)

	// Fraction 0.5 rounds up either way.
	_, boxes = OrderQuantity(1, 105, 0, 10, 0, true)
	assert.Equal(t, 11, boxes)
}

func TestOrderQuantityZeroBoxWeight(t *testing.T) {
	deficit, boxes := OrderQuantity(2, 14, 0, 0, 0, false)
	assert.Zero(t, deficit)
	assert.Zero(t, boxes)
}

func TestOrderQuantityMonotoneInHorizon(t *testing.T) {
	prev := 0
	for horizon := 1; horizon <= 60; horizon++ {
		_, boxes := OrderQuantity(3, horizon, 5, 10, 0, true)
		assert.GreaterOrEqual(t, boxes, prev, "horizon %d", horizon)
		prev = boxes
	}
}

func TestSummarize(t *testing.T) {
	items := []Suggestion{{Cost: 300000}, {Cost: 250000}}
	sum := Summarize(items, 500000)
	assert.InDelta(t, 550000.0, sum.TotalCost, 1e-9)
	assert.True(t, sum.ShouldNotify)

	sum = Summarize(items[:1], 500000)
	assert.False(t, sum.ShouldNotify)

	sum = Summarize(nil, 500000)
	assert.Zero(t, sum.TotalCost)
	assert.False(t, sum.ShouldNotify)
}
