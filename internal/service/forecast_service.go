package service

import (
	"context"
	"sort"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/auth"
	"github.com/coldbrew-labs/franchise-inventory/internal/cache"
	"github.com/coldbrew-labs/franchise-inventory/internal/config"
	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/forecast"
	"github.com/coldbrew-labs/franchise-inventory/internal/repository"
	"github.com/rs/zerolog/log"
)

// ForecastService computes consumption averages and order suggestions, and
// runs the draft-order flow between computation and confirmation.
type ForecastService struct {
	ledger    repository.LedgerRepository
	catalog   repository.CatalogRepository
	orderRepo repository.OrderRepository
	orders    *OrderService
	reports   cache.OrderReportCache
	drafts    *cache.DraftCache
	cfg       config.ForecastConfig
}

func NewForecastService(
	ledger repository.LedgerRepository,
	catalog repository.CatalogRepository,
	orderRepo repository.OrderRepository,
	orders *OrderService,
	reports cache.OrderReportCache,
	cfg config.ForecastConfig,
) *ForecastService {
	ttl := time.Duration(cfg.DraftTTLSeconds) * time.Second
	return &ForecastService{
		ledger:    ledger,
		catalog:   catalog,
		orderRepo: orderRepo,
		orders:    orders,
		reports:   reports,
		drafts:    cache.NewDraftCache(ttl),
		cfg:       cfg,
	}
}

// Close releases the draft cache janitor.
func (s *ForecastService) Close() {
	s.drafts.Close()
}

// ComputeOptions are the per-request overrides for an order computation.
// Zero values fall back to the configured defaults.
type ComputeOptions struct {
	HorizonDays   int `json:"horizon_days"`
	ThresholdDays int `json:"threshold_days"`
}

func (s *ForecastService) resolve(opts ComputeOptions) (horizon, threshold int) {
	horizon = opts.HorizonDays
	if horizon <= 0 {
		horizon = s.cfg.HorizonDays
	}
	threshold = opts.ThresholdDays
	if threshold <= 0 {
		threshold = s.cfg.ThresholdDays
	}
	return horizon, threshold
}

// AverageConsumption reports the trimmed-mean daily consumption for one
// product over the configured history window.
func (s *ForecastService) AverageConsumption(ctx context.Context, actor domain.Actor, companyID, productID int64) (forecast.Result, error) {
	if err := auth.Authorize(actor, auth.LedgerRead, companyID); err != nil {
		return forecast.Result{}, err
	}

	if _, err := s.catalog.GetProduct(ctx, companyID, productID); err != nil {
		return forecast.Result{}, err
	}

	return s.averageFor(ctx, companyID, productID)
}

func (s *ForecastService) averageFor(ctx context.Context, companyID, productID int64) (forecast.Result, error) {
	history, err := s.ledger.History(ctx, companyID, productID, s.cfg.HistoryWindow)
	if err != nil {
		return forecast.Result{}, err
	}
	if len(history) == 0 {
		return forecast.Result{}, nil
	}

	since := history[0].Date
	for _, snap := range history[1:] {
		if snap.Date.Before(since) {
			since = snap.Date
		}
	}

	supplies, err := s.ledger.SuppliesSince(ctx, companyID, productID, since)
	if err != nil {
		return forecast.Result{}, err
	}

	return forecast.AverageDailyConsumption(history, supplies), nil
}

// SelectItemsToOrder walks the catalog and suggests a purchase line for every
// product whose runway falls under the threshold. Results are memoized per
// tenant and tuning-knob tuple; any stock or order write invalidates them.
func (s *ForecastService) SelectItemsToOrder(ctx context.Context, actor domain.Actor, companyID int64, opts ComputeOptions) ([]forecast.Suggestion, error) {
	if err := auth.Authorize(actor, auth.OrderManage, companyID); err != nil {
		return nil, err
	}

	horizon, threshold := s.resolve(opts)
	key := cache.ReportKey{
		CompanyID:      companyID,
		HorizonDays:    horizon,
		ThresholdDays:  threshold,
		IncludePending: s.cfg.IncludeInTransit,
		MarginalRule:   s.cfg.UseRoundingRule,
	}

	if cached, ok, err := s.reports.Get(ctx, key); err != nil {
		log.Warn().Err(err).Int64("company_id", companyID).Msg("order report cache read failed")
	} else if ok {
		return cached, nil
	}

	items, err := s.computeSuggestions(ctx, companyID, horizon, threshold)
	if err != nil {
		return nil, err
	}

	if err := s.reports.Set(ctx, key, items); err != nil {
		log.Warn().Err(err).Int64("company_id", companyID).Msg("order report cache write failed")
	}
	return items, nil
}

func (s *ForecastService) computeSuggestions(ctx context.Context, companyID int64, horizon, threshold int) ([]forecast.Suggestion, error) {
	latest, err := s.ledger.LatestSnapshots(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, nil
	}

	products, err := s.catalog.ListProducts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[int64]*domain.Product, len(products))
	for _, p := range products {
		byProduct[p.ID] = p
	}

	var pending map[int64]float64
	if s.cfg.IncludeInTransit {
		pending, err = s.orderRepo.InTransitWeights(ctx, companyID)
		if err != nil {
			return nil, err
		}
	}

	items := make([]forecast.Suggestion, 0, len(latest))
	for _, snap := range latest {
		product, ok := byProduct[snap.ProductID]
		if !ok {
			continue
		}

		avg, err := s.averageFor(ctx, companyID, snap.ProductID)
		if err != nil {
			return nil, err
		}

		pendingWeight := pending[snap.ProductID]
		daysLeft := forecast.DaysUntilStockout(snap.Weight+pendingWeight, avg.AvgDaily)
		if daysLeft > float64(threshold) {
			continue
		}

		weight, boxes := forecast.OrderQuantity(avg.AvgDaily, horizon, snap.Weight, product.BoxWeight, pendingWeight, s.cfg.UseRoundingRule)
		if boxes == 0 {
			continue
		}

		items = append(items, forecast.Suggestion{
			ProductID:     product.ID,
			NameInternal:  product.NameInternal,
			NameRussian:   product.NameRussian,
			Unit:          product.Unit,
			CurrentStock:  snap.Weight,
			PendingWeight: pendingWeight,
			AvgDaily:      avg.AvgDaily,
			DaysLeft:      daysLeft,
			Boxes:         boxes,
			OrderWeight:   weight,
			Cost:          float64(boxes) * product.PricePerBox,
			Urgent:        daysLeft <= forecast.UrgentDays,
			Warning:       avg.Warning,
		})
	}

	// Most starved items first.
	sort.Slice(items, func(i, j int) bool { return items[i].DaysLeft < items[j].DaysLeft })
	return items, nil
}

// ComputeOrderReport is SelectItemsToOrder plus totals and the notification
// verdict against the configured threshold amount.
func (s *ForecastService) ComputeOrderReport(ctx context.Context, actor domain.Actor, companyID int64, opts ComputeOptions) (forecast.Summary, error) {
	items, err := s.SelectItemsToOrder(ctx, actor, companyID, opts)
	if err != nil {
		return forecast.Summary{}, err
	}
	return forecast.Summarize(items, s.cfg.NotifyThreshold), nil
}

// DraftReport is a parked order suggestion plus its handle.
type DraftReport struct {
	Token   string           `json:"token"`
	Summary forecast.Summary `json:"summary"`
}

// CreateDraft computes a fresh suggestion list and parks it for editing.
func (s *ForecastService) CreateDraft(ctx context.Context, actor domain.Actor, companyID int64, opts ComputeOptions) (*DraftReport, error) {
	items, err := s.SelectItemsToOrder(ctx, actor, companyID, opts)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "nothing to order"}
	}

	token := s.drafts.Put(companyID, actor.UserID, items)
	return &DraftReport{Token: token, Summary: forecast.Summarize(items, s.cfg.NotifyThreshold)}, nil
}

// GetDraft returns a parked draft. Expired or foreign tokens are NotFound.
func (s *ForecastService) GetDraft(ctx context.Context, actor domain.Actor, companyID int64, token string) (*DraftReport, error) {
	if err := auth.Authorize(actor, auth.OrderManage, companyID); err != nil {
		return nil, err
	}

	draft, ok := s.drafts.Get(token, companyID)
	if !ok {
		return nil, &domain.NotFoundError{Entity: "draft", ID: token}
	}
	return &DraftReport{Token: token, Summary: forecast.Summarize(draft.Items, s.cfg.NotifyThreshold)}, nil
}

// UpdateDraftItem overrides the box count for one line of a draft. Zero boxes
// removes the line. Weight and cost are re-derived from the catalog.
func (s *ForecastService) UpdateDraftItem(ctx context.Context, actor domain.Actor, companyID int64, token string, productID int64, boxes int) (*DraftReport, error) {
	if err := auth.Authorize(actor, auth.OrderManage, companyID); err != nil {
		return nil, err
	}
	if boxes < 0 {
		return nil, &domain.ValidationError{Field: "boxes", Reason: "must not be negative"}
	}

	draft, ok := s.drafts.Get(token, companyID)
	if !ok {
		return nil, &domain.NotFoundError{Entity: "draft", ID: token}
	}

	product, err := s.catalog.GetProduct(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}

	items := make([]forecast.Suggestion, 0, len(draft.Items))
	found := false
	for _, it := range draft.Items {
		if it.ProductID != productID {
			items = append(items, it)
			continue
		}
		found = true
		if boxes == 0 {
			continue
		}
		it.Boxes = boxes
		it.OrderWeight = product.SupplyWeight(boxes)
		it.Cost = float64(boxes) * product.PricePerBox
		items = append(items, it)
	}
	if !found {
		return nil, &domain.NotFoundError{Entity: "draft item", ID: product.NameInternal}
	}

	if !s.drafts.Update(token, companyID, items) {
		return nil, &domain.NotFoundError{Entity: "draft", ID: token}
	}
	return &DraftReport{Token: token, Summary: forecast.Summarize(items, s.cfg.NotifyThreshold)}, nil
}

// ConfirmDraft turns a draft into a real pending order and discards the draft.
func (s *ForecastService) ConfirmDraft(ctx context.Context, actor domain.Actor, companyID int64, token, notes string) (*domain.PendingOrder, error) {
	if err := auth.Authorize(actor, auth.OrderManage, companyID); err != nil {
		return nil, err
	}

	draft, ok := s.drafts.Get(token, companyID)
	if !ok {
		return nil, &domain.NotFoundError{Entity: "draft", ID: token}
	}

	inputs := make([]domain.OrderItemInput, 0, len(draft.Items))
	for _, it := range draft.Items {
		if it.Boxes <= 0 {
			continue
		}
		inputs = append(inputs, domain.OrderItemInput{ProductID: it.ProductID, BoxesOrdered: it.Boxes})
	}
	if len(inputs) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "draft has no order lines left"}
	}

	order, err := s.orders.CreateOrder(ctx, actor, companyID, inputs, notes)
	if err != nil {
		return nil, err
	}

	s.drafts.Delete(token)
	return order, nil
}
