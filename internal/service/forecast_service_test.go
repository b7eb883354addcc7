package service

import (
	"context"
	"testing"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drainStock seeds a steady 2kg/day decline ending today at endWeight.
func drainStock(e *env, productID int64, days int, endWeight, packageWeight float64) {
	for i := days; i >= 0; i-- {
		weight := endWeight + float64(i)*2
		e.addSnapshot(productID, testToday.AddDays(-i), weight/packageWeight, weight)
	}
}

func TestAverageConsumption(t *testing.T) {
	e := newEnv(t)
	milk := e.addProduct("milk", domain.UnitKilogram, 2.5, 4, 8000)
	drainStock(e, milk.ID, 10, 4, 2.5)

	res, err := e.forecasting.AverageConsumption(context.Background(), e.employee, e.companyID, milk.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.AvgDaily, 1e-9)
	assert.Empty(t, res.Warning)
}

func TestAverageConsumptionNoHistory(t *testing.T) {
	e := newEnv(t)
	milk := e.addProduct("milk", domain.UnitKilogram, 2.5, 4, 8000)

	res, err := e.forecasting.AverageConsumption(context.Background(), e.employee, e.companyID, milk.ID)
	require.NoError(t, err)
	assert.Zero(t, res.AvgDaily)
}

func TestSelectItemsToOrder(t *testing.T) {
	e := newEnv(t)
	// Draining at 2kg/day with 4kg left: 2 days of runway, well under the
	// 14-day threshold. Horizon demand 28 - 4 = 24kg -> 2.4 boxes -> 3.
	low := e.addProduct("milk", domain.UnitKilogram, 2.5, 4, 8000)
	drainStock(e, low.ID, 10, 4, 2.5)

	// Plenty of stock: excluded by the runway threshold.
	high := e.addProduct("syrup", domain.UnitKilogram, 1, 10, 5000)
	drainStock(e, high.ID, 10, 200, 1)

	items, err := e.forecasting.SelectItemsToOrder(context.Background(), e.manager, e.companyID, ComputeOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, low.ID, it.ProductID)
	assert.InDelta(t, 2.0, it.DaysLeft, 1e-9)
	assert.True(t, it.Urgent)
	assert.Equal(t, 3, it.Boxes)
	assert.InDelta(t, 24000.0, it.Cost, 1e-9)
}

func TestSelectItemsToOrderSubtractsInTransit(t *testing.T) {
	e := newEnv(t)
	milk := e.addProduct("milk", domain.UnitKilogram, 2.5, 4, 8000)
	drainStock(e, milk.ID, 10, 4, 2.5)

	// 3 boxes already on the way cover the deficit entirely.
	_, err := e.orders.CreateOrder(context.Background(), e.manager, e.companyID,
		[]domain.OrderItemInput{{ProductID: milk.ID, BoxesOrdered: 3}}, "")
	require.NoError(t, err)

	items, err := e.forecasting.SelectItemsToOrder(context.Background(), e.manager, e.companyID, ComputeOptions{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSelectItemsToOrderNoConsumptionExcluded(t *testing.T) {
	e := newEnv(t)
	milk := e.addProduct("milk", domain.UnitKilogram, 2.5, 4, 8000)
	// Flat history: nothing consumed, runway is the sentinel.
	for i := 5; i >= 0; i-- {
		e.addSnapshot(milk.ID, testToday.AddDays(-i), 4, 10)
	}

	items, err := e.forecasting.SelectItemsToOrder(context.Background(), e.manager, e.companyID, ComputeOptions{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestComputeOrderReportNotifyThreshold(t *testing.T) {
	e := newEnv(t)
	// Expensive product: 3 boxes at 200k crosses the 500k threshold.
	milk := e.addProduct("milk", domain.UnitKilogram, 2.5, 4, 200000)
	drainStock(e, milk.ID, 10, 4, 2.5)

	summary, err := e.forecasting.ComputeOrderReport(context.Background(), e.manager, e.companyID, ComputeOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 600000.0, summary.TotalCost, 1e-9)
	assert.True(t, summary.ShouldNotify)
}

func TestDraftFlow(t *testing.T) {
	e := newEnv(t)
	milk := e.addProduct("milk", domain.UnitKilogram, 2.5, 4, 8000)
	drainStock(e, milk.ID, 10, 4, 2.5)

	draft, err := e.forecasting.CreateDraft(context.Background(), e.manager, e.companyID, ComputeOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, draft.Token)
	require.Len(t, draft.Summary.Items, 1)

	// Bump the suggested 3 boxes to 5; weight and cost follow the catalog.
	updated, err := e.forecasting.UpdateDraftItem(context.Background(), e.manager, e.companyID, draft.Token, milk.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Summary.Items[0].Boxes)
	assert.InDelta(t, 50.0, updated.Summary.Items[0].OrderWeight, 1e-9)
	assert.InDelta(t, 40000.0, updated.Summary.Items[0].Cost, 1e-9)

	order, err := e.forecasting.ConfirmDraft(context.Background(), e.manager, e.companyID, draft.Token, "friday run")
	require.NoError(t, err)
	assert.InDelta(t, 40000.0, order.TotalCost, 1e-9)

	// Confirmation consumes the draft.
	_, err = e.forecasting.GetDraft(context.Background(), e.manager, e.companyID, draft.Token)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// And the order now counts as in transit.
	weight, err := e.orders.InTransitWeight(context.Background(), e.manager, e.companyID, milk.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, weight, 1e-9)
}

func TestDraftRemoveLastLineBlocksConfirm(t *testing.T) {
	e := newEnv(t)
	milk := e.addProduct("milk", domain.UnitKilogram, 2.5, 4, 8000)
	drainStock(e, milk.ID, 10, 4, 2.5)

	draft, err := e.forecasting.CreateDraft(context.Background(), e.manager, e.companyID, ComputeOptions{})
	require.NoError(t, err)

	// Zero boxes removes the line.
	updated, err := e.forecasting.UpdateDraftItem(context.Background(), e.manager, e.companyID, draft.Token, milk.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, updated.Summary.Items)

	_, err = e.forecasting.ConfirmDraft(context.Background(), e.manager, e.companyID, draft.Token, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDraftScopedToCompany(t *testing.T) {
	e := newEnv(t)
	milk := e.addProduct("milk", domain.UnitKilogram, 2.5, 4, 8000)
	drainStock(e, milk.ID, 10, 4, 2.5)

	draft, err := e.forecasting.CreateDraft(context.Background(), e.manager, e.companyID, ComputeOptions{})
	require.NoError(t, err)

	// A super-admin acting on another company cannot see this tenant's draft.
	other, _ := e.store.CreateCompany(context.Background(), "Other", domain.SubscriptionActive)
	_, err = e.forecasting.GetDraft(context.Background(), e.super, other.ID, draft.Token)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateDraftNothingToOrder(t *testing.T) {
	e := newEnv(t)
	_, err := e.forecasting.CreateDraft(context.Background(), e.manager, e.companyID, ComputeOptions{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestForecastRequiresManager(t *testing.T) {
	e := newEnv(t)
	_, err := e.forecasting.SelectItemsToOrder(context.Background(), e.employee, e.companyID, ComputeOptions{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
