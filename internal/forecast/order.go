package forecast

import (
	"math"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
)

const (
	// StockoutSentinel is returned for products with no measured consumption:
	// effectively "never runs out".
	StockoutSentinel = 999.0

	// minBoxFraction is the minimum-economical-order threshold: deficits
	// under 0.3 of a box are not worth a purchase line.
	minBoxFraction = 0.3

	// marginalBoxFraction is the 0.2 rounding rule: a fractional box at or
	// under 0.2 is dropped instead of rounded up, to suppress marginal
	// over-ordering.
	marginalBoxFraction = 0.2

	// UrgentDays marks items that will run out within this many days.
	UrgentDays = 3.0
)

// DaysUntilStockout is the runway: current stock divided by the average
// daily consumption, or the sentinel when nothing is being consumed.
func DaysUntilStockout(currentStock, avgDaily float64) float64 {
	if avgDaily <= 0 {
		return StockoutSentinel
	}
	return currentStock / avgDaily
}

// OrderQuantity sizes a purchase line. Available stock is the measured
// current weight plus whatever is already in transit. Returns the deficit
// weight and the box count; both zero when the deficit is below the
// minimum-economical-order threshold.
func OrderQuantity(avgDaily float64, horizonDays int, currentStock, boxWeight, pendingWeight float64, useMarginalRule bool) (float64, int) {
	if boxWeight <= 0 {
		return 0, 0
	}

	required := avgDaily * float64(horizonDays)
	deficit := required - (currentStock + pendingWeight)
	if deficit <= 0 {
		return 0, 0
	}
	if deficit < minBoxFraction*boxWeight {
		return 0, 0
	}

	fractional := deficit / boxWeight
	boxes := roundBoxes(fractional, useMarginalRule)
	if boxes <= 0 {
		return 0, 0
	}

	return deficit, boxes
}

func roundBoxes(x float64, useMarginalRule bool) int {
	if !useMarginalRule {
		return int(math.Ceil(x))
	}
	whole := math.Floor(x)
	if x-whole <= marginalBoxFraction {
		return int(whole)
	}
	return int(whole) + 1
}

// Suggestion is one line of a computed purchase order.
type Suggestion struct {
	ProductID     int64       `json:"product_id"`
	NameInternal  string      `json:"name_internal"`
	NameRussian   string      `json:"name_russian"`
	Unit          domain.Unit `json:"unit"`
	CurrentStock  float64     `json:"current_stock"`
	PendingWeight float64     `json:"pending_weight"`
	AvgDaily      float64     `json:"avg_daily"`
	DaysLeft      float64     `json:"days_left"`
	Boxes         int         `json:"boxes"`
	OrderWeight   float64     `json:"order_weight"`
	Cost          float64     `json:"cost"`
	Urgent        bool        `json:"urgent"`
	Warning       string      `json:"warning,omitempty"`
}

// Summary is the result of pricing a suggestion list against the
// notification threshold.
type Summary struct {
	Items        []Suggestion `json:"items"`
	TotalCost    float64      `json:"total_cost"`
	ShouldNotify bool         `json:"should_notify"`
}

// Summarize totals a suggestion list. ShouldNotify is set when the total
// reaches thresholdAmount.
func Summarize(items []Suggestion, thresholdAmount float64) Summary {
	var total float64
	for _, it := range items {
		total += it.Cost
	}
	return Summary{
		Items:        items,
		TotalCost:    total,
		ShouldNotify: total >= thresholdAmount,
	}
}
