package forecast

import (
	"testing"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(day int, weight float64) domain.StockSnapshot {
	return domain.StockSnapshot{
		Date:   domain.NewDateKey(2026, 3, day),
		Weight: weight,
	}
}

func supply(day int, weight float64) domain.SupplyEvent {
	return domain.SupplyEvent{
		Date:   domain.NewDateKey(2026, 3, day),
		Weight: weight,
	}
}

func TestPeriodConsumptionIdentity(t *testing.T) {
	// 10kg on day 1, 12kg supplied in between, 8kg left on day 5:
	// consumed = 10 + 12 - 8 = 14 over 4 days.
	p, ok := PeriodConsumption(snap(1, 10), snap(5, 8), []domain.SupplyEvent{supply(3, 12)})
	require.True(t, ok)
	assert.Equal(t, 4, p.Days)
	assert.InDelta(t, 14.0, p.ConsumedWeight, 1e-9)
	assert.InDelta(t, 3.5, p.DailyRate, 1e-9)
}

func TestPeriodConsumptionNoSupplies(t *testing.T) {
	p, ok := PeriodConsumption(snap(1, 10), snap(3, 4), nil)
	require.True(t, ok)
	assert.InDelta(t, 6.0, p.ConsumedWeight, 1e-9)
	assert.InDelta(t, 3.0, p.DailyRate, 1e-9)
}

func TestPeriodConsumptionSupplyOnStartDayAlreadyReflected(t *testing.T) {
	// Snapshot 20kg, supply of 10kg the same day: 10*0.9 <= 20, so the count
	// already includes the delivery and it must not be added again.
	p, ok := PeriodConsumption(snap(1, 20), snap(3, 10), []domain.SupplyEvent{supply(1, 10)})
	require.True(t, ok)
	assert.InDelta(t, 10.0, p.ConsumedWeight, 1e-9)
}

func TestPeriodConsumptionSupplyOnStartDayNotReflected(t *testing.T) {
	// Snapshot 5kg, supply of 10kg the same day: 10*0.9 > 5, the delivery
	// arrived after the count and must be added.
	p, ok := PeriodConsumption(snap(1, 5), snap(3, 10), []domain.SupplyEvent{supply(1, 10)})
	require.True(t, ok)
	assert.InDelta(t, 5.0, p.ConsumedWeight, 1e-9)
}

func TestPeriodConsumptionEndDaySupplyIncluded(t *testing.T) {
	p, ok := PeriodConsumption(snap(1, 10), snap(4, 12), []domain.SupplyEvent{supply(4, 8)})
	require.True(t, ok)
	assert.InDelta(t, 6.0, p.ConsumedWeight, 1e-9)
}

func TestPeriodConsumptionSuppliesOutsideWindowIgnored(t *testing.T) {
	supplies := []domain.SupplyEvent{supply(1, 100), supply(10, 100)}
	// The day-1 supply is before the day-2 start, the day-10 supply is after
	// the day-5 end; neither counts.
	p, ok := PeriodConsumption(snap(2, 10), snap(5, 4), supplies)
	require.True(t, ok)
	assert.InDelta(t, 6.0, p.ConsumedWeight, 1e-9)
}

func TestPeriodConsumptionUnusable(t *testing.T) {
	_, ok := PeriodConsumption(snap(1, 0), snap(3, 4), nil)
	assert.False(t, ok, "zero-weight start endpoint")

	_, ok = PeriodConsumption(snap(1, 10), snap(3, 0), nil)
	assert.False(t, ok, "zero-weight end endpoint")

	_, ok = PeriodConsumption(snap(3, 10), snap(3, 5), nil)
	assert.False(t, ok, "zero-length period")

	_, ok = PeriodConsumption(snap(5, 10), snap(3, 5), nil)
	assert.False(t, ok, "negative period")

	_, ok = PeriodConsumption(snap(1, 5), snap(3, 10), nil)
	assert.False(t, ok, "negative consumption without supplies")
}

func TestPeriodsSortsAndSkipsUnusable(t *testing.T) {
	history := []domain.StockSnapshot{
		snap(5, 4),
		snap(1, 10),
		snap(3, 7),
		snap(7, 0), // unusable endpoint, drops the 5->7 period
	}
	periods := Periods(history, nil)
	require.Len(t, periods, 2)
	assert.Equal(t, domain.NewDateKey(2026, 3, 1), periods[0].Start)
	assert.Equal(t, domain.NewDateKey(2026, 3, 3), periods[0].End)
	assert.Equal(t, domain.NewDateKey(2026, 3, 5), periods[1].End)
}

func TestAverageDailyConsumptionSteadyState(t *testing.T) {
	history := []domain.StockSnapshot{
		snap(1, 20), snap(2, 18), snap(3, 16), snap(4, 14), snap(5, 12),
	}
	res := AverageDailyConsumption(history, nil)
	assert.InDelta(t, 2.0, res.AvgDaily, 1e-9)
	assert.Equal(t, 4, res.DaysWithData)
	assert.Empty(t, res.Warning)
}

func TestAverageDailyConsumptionTrimsAnomalies(t *testing.T) {
	// Eight steady periods at 1kg/day, then a single 500kg day. The spike
	// dwarfs the preliminary mean and must be trimmed.
	history := []domain.StockSnapshot{
		snap(1, 510), snap(2, 509), snap(3, 508), snap(4, 507), snap(5, 506),
		snap(6, 505), snap(7, 504), snap(8, 503), snap(9, 502),
		snap(10, 2), // 500kg gone in one day
	}
	res := AverageDailyConsumption(history, nil)
	assert.InDelta(t, 1.0, res.AvgDaily, 1e-9)
	assert.Equal(t, 8, res.DaysWithData)
	assert.Equal(t, "1 anomalous days excluded", res.Warning)
}

func TestAverageDailyConsumptionInsufficientData(t *testing.T) {
	history := []domain.StockSnapshot{snap(1, 10), snap(2, 8)}
	res := AverageDailyConsumption(history, nil)
	assert.InDelta(t, 2.0, res.AvgDaily, 1e-9)
	assert.Equal(t, "insufficient data", res.Warning)
}

func TestAverageDailyConsumptionNoHistory(t *testing.T) {
	res := AverageDailyConsumption(nil, nil)
	assert.Zero(t, res.AvgDaily)
	assert.Empty(t, res.Warning)

	res = AverageDailyConsumption([]domain.StockSnapshot{snap(1, 10)}, nil)
	assert.Zero(t, res.AvgDaily)
}

func TestAverageDailyConsumptionAllPeriodsUnusable(t *testing.T) {
	// Stock only ever goes up without supplies: every period is negative.
	history := []domain.StockSnapshot{snap(1, 5), snap(2, 10), snap(3, 15)}
	res := AverageDailyConsumption(history, nil)
	assert.Zero(t, res.AvgDaily)
	assert.Equal(t, "insufficient data", res.Warning)
}

func TestPeriodCost(t *testing.T) {
	p := domain.Product{BoxWeight: 10, PricePerBox: 5000}
	assert.InDelta(t, 2500.0, PeriodCost(5, p), 1e-9)
	assert.Zero(t, PeriodCost(5, domain.Product{}))
}
