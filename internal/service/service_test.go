package service

import (
	"context"
	"testing"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/cache"
	"github.com/coldbrew-labs/franchise-inventory/internal/clock"
	"github.com/coldbrew-labs/franchise-inventory/internal/config"
	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
)

// testToday is the working day every fixture operates on.
var testToday = domain.NewDateKey(2026, 3, 20)

type env struct {
	store    *fakeStore
	notifier *recordingNotifier

	tenants     *TenantService
	catalog     *CatalogService
	ledger      *LedgerService
	orders      *OrderService
	forecasting *ForecastService
	submissions *SubmissionService

	companyID int64
	admin     domain.Actor
	manager   domain.Actor
	employee  domain.Actor
	super     domain.Actor
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := newFakeStore()
	notifier := &recordingNotifier{}
	reports := cache.NewNoopOrderReportCache()
	clk := clock.Fixed{Instant: time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)}

	company, _ := store.CreateCompany(context.Background(), "Scoop Shop", domain.SubscriptionTrial)

	forecastCfg := config.ForecastConfig{
		HorizonDays:      14,
		ThresholdDays:    14,
		NotifyThreshold:  500000,
		DraftTTLSeconds:  3600,
		HistoryWindow:    30,
		UseRoundingRule:  true,
		IncludeInTransit: true,
	}

	orderSvc := NewOrderService(store, store, reports, clk)
	forecastSvc := NewForecastService(store, store, store, orderSvc, reports, forecastCfg)
	t.Cleanup(forecastSvc.Close)

	e := &env{
		store:       store,
		notifier:    notifier,
		tenants:     NewTenantService(store),
		catalog:     NewCatalogService(store),
		ledger:      NewLedgerService(store, store, reports, clk),
		orders:      orderSvc,
		forecasting: forecastSvc,
		submissions: NewSubmissionService(store, store, store, reports, notifier, clk),
		companyID:   company.ID,
		admin:       domain.Actor{UserID: 1, CompanyID: company.ID, Role: domain.RoleAdmin},
		manager:     domain.Actor{UserID: 2, CompanyID: company.ID, Role: domain.RoleManager},
		employee:    domain.Actor{UserID: 3, CompanyID: company.ID, Role: domain.RoleEmployee},
		super:       domain.Actor{UserID: 9, CompanyID: domain.SystemCompanyID, Role: domain.RoleAdmin},
	}

	for _, a := range []domain.Actor{e.admin, e.manager, e.employee} {
		cid := company.ID
		store.users[a.UserID] = &domain.User{ID: a.UserID, CompanyID: &cid, Role: a.Role, IsActive: true}
	}
	sysID := domain.SystemCompanyID
	store.users[e.super.UserID] = &domain.User{ID: e.super.UserID, CompanyID: &sysID, Role: domain.RoleAdmin, IsActive: true}

	return e
}

// addProduct seeds a catalog row directly, bypassing service validation.
func (e *env) addProduct(name string, unit domain.Unit, packageWeight float64, unitsPerBox int, pricePerBox float64) *domain.Product {
	p := &domain.Product{
		CompanyID:     e.companyID,
		NameInternal:  name,
		NameRussian:   name,
		PackageWeight: packageWeight,
		UnitsPerBox:   unitsPerBox,
		BoxWeight:     packageWeight * float64(unitsPerBox),
		PricePerBox:   pricePerBox,
		Unit:          unit,
	}
	created, _ := e.store.AddProduct(context.Background(), p)
	return created
}

// addSnapshot seeds a stock row directly with an explicit weight.
func (e *env) addSnapshot(productID int64, date domain.DateKey, quantity, weight float64) {
	_ = e.store.UpsertSnapshot(context.Background(), &domain.StockSnapshot{
		CompanyID: e.companyID, ProductID: productID, Date: date,
		Quantity: quantity, Weight: weight,
	})
}
