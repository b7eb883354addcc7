package forecast

import (
	"fmt"
	"sort"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
)

const (
	// anomalyFactor drops periods whose daily rate exceeds this multiple of
	// the preliminary mean. A single miscounted night otherwise dominates a
	// month of honest data.
	anomalyFactor = 5.0

	// supplyReflectedRatio guards against double counting a supply recorded
	// on the same date a snapshot was taken after the goods were already on
	// the shelf: the supply is dropped when supply.weight * 0.9 <= snapshot
	// weight.
	supplyReflectedRatio = 0.9

	// minPeriods below which the average is flagged as thin.
	minPeriods = 3
)

// Period is the derived consumption between two adjacent snapshots.
type Period struct {
	Start          domain.DateKey
	End            domain.DateKey
	Days           int
	ConsumedWeight float64
	DailyRate      float64
}

// Result is the outcome of AverageDailyConsumption.
type Result struct {
	AvgDaily     float64
	DaysWithData int
	Warning      string
}

// PeriodConsumption applies the accounting identity between two snapshots:
//
//	consumed = weight(start) + supplies(start..end) - weight(end)
//
// Supplies dated strictly inside the window always count. A supply dated on
// the start day counts only if the start snapshot cannot plausibly include
// it already (see supplyReflectedRatio). Returns ok=false when the period is
// unusable: zero-weight endpoint, zero-length, or negative consumption.
func PeriodConsumption(start, end domain.StockSnapshot, supplies []domain.SupplyEvent) (Period, bool) {
	if start.Weight == 0 || end.Weight == 0 {
		return Period{}, false
	}

	days := end.Date.DaysSince(start.Date)
	if days <= 0 {
		return Period{}, false
	}

	var supplied float64
	for _, s := range supplies {
		if s.Date.Before(start.Date) || s.Date.After(end.Date) {
			continue
		}
		if s.Date.Equal(start.Date) && s.Weight*supplyReflectedRatio <= start.Weight {
			// Snapshot already reflects this delivery.
			continue
		}
		supplied += s.Weight
	}

	consumed := start.Weight + supplied - end.Weight
	if consumed < 0 {
		return Period{}, false
	}

	return Period{
		Start:          start.Date,
		End:            end.Date,
		Days:           days,
		ConsumedWeight: consumed,
		DailyRate:      consumed / float64(days),
	}, true
}

// Periods derives consumption for every adjacent snapshot pair in history.
// History may arrive in any order; it is sorted by date first.
func Periods(history []domain.StockSnapshot, supplies []domain.SupplyEvent) []Period {
	if len(history) < 2 {
		return nil
	}

	sorted := make([]domain.StockSnapshot, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	periods := make([]Period, 0, len(sorted)-1)
	for i := 0; i < len(sorted)-1; i++ {
		if p, ok := PeriodConsumption(sorted[i], sorted[i+1], supplies); ok {
			periods = append(periods, p)
		}
	}
	return periods
}

// AverageDailyConsumption is a two-pass trimmed mean over the per-period
// rates. The first pass computes a preliminary mean; the second drops periods
// whose rate exceeds anomalyFactor times it and averages the rest.
func AverageDailyConsumption(history []domain.StockSnapshot, supplies []domain.SupplyEvent) Result {
	periods := Periods(history, supplies)
	if len(periods) == 0 {
		if len(history) < 2 {
			return Result{}
		}
		return Result{Warning: "insufficient data"}
	}

	var totalConsumed float64
	var totalDays int
	for _, p := range periods {
		totalConsumed += p.ConsumedWeight
		totalDays += p.Days
	}
	prelim := totalConsumed / float64(totalDays)

	var keptConsumed float64
	var keptDays, anomalous int
	for _, p := range periods {
		if prelim > 0 && p.DailyRate > anomalyFactor*prelim {
			anomalous++
			continue
		}
		keptConsumed += p.ConsumedWeight
		keptDays += p.Days
	}

	if keptDays == 0 {
		// Every period tripped the filter; the preliminary mean is the best
		// estimate left.
		return Result{AvgDaily: prelim, DaysWithData: totalDays, Warning: "all data anomalous"}
	}

	res := Result{
		AvgDaily:     keptConsumed / float64(keptDays),
		DaysWithData: keptDays,
	}

	switch {
	case len(periods)-anomalous < minPeriods:
		res.Warning = "insufficient data"
	case anomalous > 0:
		res.Warning = fmt.Sprintf("%d anomalous days excluded", anomalous)
	}

	return res
}

// PeriodCost prices consumed weight through the product's box economics.
func PeriodCost(consumedWeight float64, p domain.Product) float64 {
	if p.BoxWeight == 0 {
		return 0
	}
	return consumedWeight / p.BoxWeight * p.PricePerBox
}
