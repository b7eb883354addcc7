package service

import (
	"context"

	"github.com/coldbrew-labs/franchise-inventory/internal/auth"
	"github.com/coldbrew-labs/franchise-inventory/internal/cache"
	"github.com/coldbrew-labs/franchise-inventory/internal/clock"
	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/repository"
	"github.com/rs/zerolog/log"
)

// OrderService owns the pending-order lifecycle: creation, completion into
// the supply ledger, cancellation, and the in-transit view the forecaster
// subtracts from deficits.
type OrderService struct {
	orders  repository.OrderRepository
	catalog repository.CatalogRepository
	reports cache.OrderReportCache
	clock   clock.Clock
}

func NewOrderService(orders repository.OrderRepository, catalog repository.CatalogRepository, reports cache.OrderReportCache, clk clock.Clock) *OrderService {
	return &OrderService{orders: orders, catalog: catalog, reports: reports, clock: clk}
}

// CreateOrder opens a pending order. Every line is validated against the
// catalog; weight and cost are recomputed from the product rather than
// trusted from the caller.
func (s *OrderService) CreateOrder(ctx context.Context, actor domain.Actor, companyID int64, items []domain.OrderItemInput, notes string) (*domain.PendingOrder, error) {
	if err := auth.Authorize(actor, auth.OrderManage, companyID); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "must not be empty"}
	}

	var total float64
	normalized := make([]domain.OrderItemInput, 0, len(items))
	for _, in := range items {
		if in.BoxesOrdered <= 0 {
			return nil, &domain.ValidationError{Field: "boxes_ordered", Reason: "must be positive"}
		}
		product, err := s.catalog.GetProduct(ctx, companyID, in.ProductID)
		if err != nil {
			return nil, err
		}

		line := domain.OrderItemInput{
			ProductID:     in.ProductID,
			BoxesOrdered:  in.BoxesOrdered,
			WeightOrdered: product.SupplyWeight(in.BoxesOrdered),
			Cost:          float64(in.BoxesOrdered) * product.PricePerBox,
		}
		total += line.Cost
		normalized = append(normalized, line)
	}

	order, err := s.orders.CreateOrder(ctx, companyID, normalized, notes, total)
	if err != nil {
		return nil, err
	}

	s.invalidateReports(ctx, companyID)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, actor domain.Actor, companyID, orderID int64) (*domain.PendingOrder, error) {
	if err := auth.Authorize(actor, auth.OrderManage, companyID); err != nil {
		return nil, err
	}
	return s.orders.GetOrder(ctx, companyID, orderID)
}

func (s *OrderService) ListPending(ctx context.Context, actor domain.Actor, companyID int64) ([]*domain.PendingOrder, error) {
	if err := auth.Authorize(actor, auth.OrderManage, companyID); err != nil {
		return nil, err
	}
	return s.orders.ListPending(ctx, companyID)
}

func (s *OrderService) OrderItems(ctx context.Context, actor domain.Actor, companyID, orderID int64) ([]*domain.PendingOrderItem, error) {
	if err := auth.Authorize(actor, auth.OrderManage, companyID); err != nil {
		return nil, err
	}
	return s.orders.OrderItems(ctx, companyID, orderID)
}

// CompleteOrder marks a pending order as received: one supply event per item,
// dated to the current working day, plus the status flip, atomically.
// Completing a non-pending order returns ErrConflict with no ledger effect.
func (s *OrderService) CompleteOrder(ctx context.Context, actor domain.Actor, companyID, orderID int64) error {
	if err := auth.Authorize(actor, auth.OrderManage, companyID); err != nil {
		return err
	}

	if err := s.orders.CompleteOrder(ctx, companyID, orderID, s.clock.WorkingDate()); err != nil {
		return err
	}

	s.invalidateReports(ctx, companyID)
	return nil
}

// CancelOrder flips a pending order to cancelled. The ledger is untouched.
func (s *OrderService) CancelOrder(ctx context.Context, actor domain.Actor, companyID, orderID int64) error {
	if err := auth.Authorize(actor, auth.OrderManage, companyID); err != nil {
		return err
	}

	if err := s.orders.CancelOrder(ctx, companyID, orderID); err != nil {
		return err
	}

	s.invalidateReports(ctx, companyID)
	return nil
}

func (s *OrderService) InTransitWeight(ctx context.Context, actor domain.Actor, companyID, productID int64) (float64, error) {
	if err := auth.Authorize(actor, auth.LedgerRead, companyID); err != nil {
		return 0, err
	}
	return s.orders.InTransitWeight(ctx, companyID, productID)
}

func (s *OrderService) invalidateReports(ctx context.Context, companyID int64) {
	if err := s.reports.InvalidateCompany(ctx, companyID); err != nil {
		log.Warn().Err(err).Int64("company_id", companyID).Msg("failed to invalidate order report cache")
	}
}
