package repository

import (
	"context"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
)

// OrderRepository owns the pending-order lifecycle.
type OrderRepository interface {
	// CreateOrder opens a pending order with all its items atomically.
	CreateOrder(ctx context.Context, companyID int64, items []domain.OrderItemInput, notes string, totalCost float64) (*domain.PendingOrder, error)

	GetOrder(ctx context.Context, companyID, orderID int64) (*domain.PendingOrder, error)
	ListPending(ctx context.Context, companyID int64) ([]*domain.PendingOrder, error)
	OrderItems(ctx context.Context, companyID, orderID int64) ([]*domain.PendingOrderItem, error)

	// CompleteOrder, in one transaction, appends a supply event per item
	// dated receivedOn and flips status pending -> completed. Completing a
	// non-pending order returns ErrConflict and writes nothing.
	CompleteOrder(ctx context.Context, companyID, orderID int64, receivedOn domain.DateKey) error

	// CancelOrder flips status pending -> cancelled with no ledger effect.
	CancelOrder(ctx context.Context, companyID, orderID int64) error

	// InTransitWeight sums weight_ordered over the company's pending orders
	// for one product.
	InTransitWeight(ctx context.Context, companyID, productID int64) (float64, error)

	// InTransitWeights is the bulk view keyed by product id.
	InTransitWeights(ctx context.Context, companyID int64) (map[int64]float64, error)
}
