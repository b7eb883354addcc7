package service

import (
	"context"

	"github.com/coldbrew-labs/franchise-inventory/internal/auth"
	"github.com/coldbrew-labs/franchise-inventory/internal/cache"
	"github.com/coldbrew-labs/franchise-inventory/internal/clock"
	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/forecast"
	"github.com/coldbrew-labs/franchise-inventory/internal/repository"
	"github.com/rs/zerolog/log"
)

// LedgerService owns stock snapshots, supplies and the derived consumption
// views.
type LedgerService struct {
	ledger  repository.LedgerRepository
	catalog repository.CatalogRepository
	reports cache.OrderReportCache
	clock   clock.Clock
}

func NewLedgerService(ledger repository.LedgerRepository, catalog repository.CatalogRepository, reports cache.OrderReportCache, clk clock.Clock) *LedgerService {
	return &LedgerService{ledger: ledger, catalog: catalog, reports: reports, clock: clk}
}

// RecordSnapshot writes a measured count. The weight is always derived from
// the product's packaging; a zero date means "current working day".
func (s *LedgerService) RecordSnapshot(ctx context.Context, actor domain.Actor, companyID, productID int64, date domain.DateKey, quantity float64) (*domain.StockSnapshot, error) {
	if err := auth.Authorize(actor, auth.LedgerWriteSnapshot, companyID); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}

	product, err := s.catalog.GetProduct(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = s.clock.WorkingDate()
	}

	snap := &domain.StockSnapshot{
		CompanyID: companyID,
		ProductID: productID,
		Date:      date,
		Quantity:  quantity,
		Weight:    product.SnapshotWeight(quantity),
	}
	if err := s.ledger.UpsertSnapshot(ctx, snap); err != nil {
		return nil, err
	}

	s.invalidateReports(ctx, companyID)
	return snap, nil
}

// RecordSupply appends an inbound shipment. Weight and cost are derived from
// the product's packaging and current box price.
func (s *LedgerService) RecordSupply(ctx context.Context, actor domain.Actor, companyID, productID int64, date domain.DateKey, boxes int) (*domain.SupplyEvent, error) {
	if err := auth.Authorize(actor, auth.LedgerWriteSupply, companyID); err != nil {
		return nil, err
	}
	if boxes <= 0 {
		return nil, &domain.ValidationError{Field: "boxes", Reason: "must be positive"}
	}

	product, err := s.catalog.GetProduct(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = s.clock.WorkingDate()
	}

	supply := &domain.SupplyEvent{
		CompanyID: companyID,
		ProductID: productID,
		Date:      date,
		Boxes:     boxes,
		Weight:    product.SupplyWeight(boxes),
		Cost:      float64(boxes) * product.PricePerBox,
	}
	if err := s.ledger.InsertSupply(ctx, supply); err != nil {
		return nil, err
	}

	s.invalidateReports(ctx, companyID)
	return supply, nil
}

func (s *LedgerService) LatestSnapshots(ctx context.Context, actor domain.Actor, companyID int64) ([]*domain.StockSnapshot, error) {
	if err := auth.Authorize(actor, auth.LedgerRead, companyID); err != nil {
		return nil, err
	}
	return s.ledger.LatestSnapshots(ctx, companyID)
}

func (s *LedgerService) SnapshotOn(ctx context.Context, actor domain.Actor, companyID int64, date domain.DateKey) ([]*domain.StockSnapshot, error) {
	if err := auth.Authorize(actor, auth.LedgerRead, companyID); err != nil {
		return nil, err
	}
	return s.ledger.SnapshotOn(ctx, companyID, date)
}

func (s *LedgerService) History(ctx context.Context, actor domain.Actor, companyID, productID int64, windowDays int) ([]domain.StockSnapshot, error) {
	if err := auth.Authorize(actor, auth.LedgerRead, companyID); err != nil {
		return nil, err
	}
	if windowDays <= 0 {
		return nil, &domain.ValidationError{Field: "window_days", Reason: "must be positive"}
	}
	return s.ledger.History(ctx, companyID, productID, windowDays)
}

func (s *LedgerService) SuppliesBetween(ctx context.Context, actor domain.Actor, companyID, productID int64, start, end domain.DateKey) ([]domain.SupplyEvent, error) {
	if err := auth.Authorize(actor, auth.LedgerRead, companyID); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &domain.ValidationError{Field: "end", Reason: "must not precede start"}
	}
	return s.ledger.SuppliesBetween(ctx, companyID, productID, start, end)
}

func (s *LedgerService) SnapshotDatesSummary(ctx context.Context, actor domain.Actor, companyID int64) ([]repository.StockDateSummary, error) {
	if err := auth.Authorize(actor, auth.LedgerRead, companyID); err != nil {
		return nil, err
	}
	return s.ledger.SnapshotDatesSummary(ctx, companyID)
}

// ProductConsumption is the priced consumption of one product between two
// snapshot dates.
type ProductConsumption struct {
	ProductID      int64          `json:"product_id"`
	NameInternal   string         `json:"name_internal"`
	NameRussian    string         `json:"name_russian"`
	Unit           domain.Unit    `json:"unit"`
	Start          domain.DateKey `json:"start"`
	End            domain.DateKey `json:"end"`
	Days           int            `json:"days"`
	ConsumedWeight float64        `json:"consumed_weight"`
	Cost           float64        `json:"cost"`
}

// ComputePeriodConsumption applies the accounting identity to one product
// between two exact snapshot dates.
func (s *LedgerService) ComputePeriodConsumption(ctx context.Context, actor domain.Actor, companyID, productID int64, start, end domain.DateKey) (*ProductConsumption, error) {
	if err := auth.Authorize(actor, auth.LedgerRead, companyID); err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, &domain.ValidationError{Field: "end", Reason: "must follow start"}
	}

	product, err := s.catalog.GetProduct(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}

	startSnap, err := s.snapshotFor(ctx, companyID, productID, start)
	if err != nil {
		return nil, err
	}
	endSnap, err := s.snapshotFor(ctx, companyID, productID, end)
	if err != nil {
		return nil, err
	}

	supplies, err := s.ledger.SuppliesSince(ctx, companyID, productID, start)
	if err != nil {
		return nil, err
	}

	period, ok := forecast.PeriodConsumption(*startSnap, *endSnap, supplies)
	if !ok {
		return nil, &domain.ValidationError{Field: "period", Reason: "no usable consumption between the given dates"}
	}

	return &ProductConsumption{
		ProductID:      productID,
		NameInternal:   product.NameInternal,
		NameRussian:    product.NameRussian,
		Unit:           product.Unit,
		Start:          period.Start,
		End:            period.End,
		Days:           period.Days,
		ConsumedWeight: period.ConsumedWeight,
		Cost:           forecast.PeriodCost(period.ConsumedWeight, *product),
	}, nil
}

// ConsumptionBetween is the company-wide report: for every weight-unit
// product with snapshots on both boundary dates inside the window, the
// priced consumption between the earliest and latest dates that actually
// hold data. Piece-unit products are excluded, matching how the report is
// consumed.
func (s *LedgerService) ConsumptionBetween(ctx context.Context, actor domain.Actor, companyID int64, start, end domain.DateKey) ([]ProductConsumption, error) {
	if err := auth.Authorize(actor, auth.LedgerRead, companyID); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &domain.ValidationError{Field: "end", Reason: "must not precede start"}
	}

	earliest, latest, ok, err := s.ledger.SnapshotBounds(ctx, companyID, start, end)
	if err != nil {
		return nil, err
	}
	if !ok || earliest.Equal(latest) {
		return nil, nil
	}

	startSnaps, err := s.ledger.SnapshotOn(ctx, companyID, earliest)
	if err != nil {
		return nil, err
	}
	endSnaps, err := s.ledger.SnapshotOn(ctx, companyID, latest)
	if err != nil {
		return nil, err
	}
	products, err := s.catalog.ListProducts(ctx, companyID)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[int64]*domain.Product, len(products))
	for _, p := range products {
		byProduct[p.ID] = p
	}
	endByProduct := make(map[int64]*domain.StockSnapshot, len(endSnaps))
	for _, snap := range endSnaps {
		endByProduct[snap.ProductID] = snap
	}

	var report []ProductConsumption
	for _, startSnap := range startSnaps {
		endSnap, ok := endByProduct[startSnap.ProductID]
		if !ok {
			continue
		}
		product, ok := byProduct[startSnap.ProductID]
		if !ok || product.Unit == domain.UnitPiece {
			continue
		}

		supplies, err := s.ledger.SuppliesSince(ctx, companyID, startSnap.ProductID, earliest)
		if err != nil {
			return nil, err
		}

		period, ok := forecast.PeriodConsumption(*startSnap, *endSnap, supplies)
		if !ok {
			continue
		}

		report = append(report, ProductConsumption{
			ProductID:      product.ID,
			NameInternal:   product.NameInternal,
			NameRussian:    product.NameRussian,
			Unit:           product.Unit,
			Start:          period.Start,
			End:            period.End,
			Days:           period.Days,
			ConsumedWeight: period.ConsumedWeight,
			Cost:           forecast.PeriodCost(period.ConsumedWeight, *product),
		})
	}

	// Most expensive consumption first.
	sortProductConsumption(report)
	return report, nil
}

// HasSnapshotToday reports whether any product was counted on the current
// working date. The reminder scheduler polls this.
func (s *LedgerService) HasSnapshotToday(ctx context.Context, companyID int64) (bool, error) {
	return s.ledger.HasSnapshotOn(ctx, companyID, s.clock.WorkingDate())
}

func (s *LedgerService) snapshotFor(ctx context.Context, companyID, productID int64, date domain.DateKey) (*domain.StockSnapshot, error) {
	snaps, err := s.ledger.SnapshotOn(ctx, companyID, date)
	if err != nil {
		return nil, err
	}
	for _, snap := range snaps {
		if snap.ProductID == productID {
			return snap, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "snapshot", ID: date.String()}
}

func (s *LedgerService) invalidateReports(ctx context.Context, companyID int64) {
	if err := s.reports.InvalidateCompany(ctx, companyID); err != nil {
		log.Warn().Err(err).Int64("company_id", companyID).Msg("failed to invalidate order report cache")
	}
}

func sortProductConsumption(report []ProductConsumption) {
	for i := 1; i < len(report); i++ {
		for j := i; j > 0 && report[j].Cost > report[j-1].Cost; j-- {
			report[j], report[j-1] = report[j-1], report[j]
		}
	}
}
