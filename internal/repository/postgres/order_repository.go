package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/jmoiron/sqlx"
)

type orderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *orderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, company_id, created_at, status, total_cost, notes`

func (r *orderRepository) CreateOrder(ctx context.Context, companyID int64, items []domain.OrderItemInput, notes string, totalCost float64) (*domain.PendingOrder, error) {
	var order domain.PendingOrder
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO pending_orders (company_id, status, total_cost, notes)
			VALUES ($1, 'pending', $2, $3)
			RETURNING ` + orderColumns

		if err := tx.GetContext(ctx, &order, query, companyID, totalCost, notes); err != nil {
			return fmt.Errorf("failed to create order: %w", mapError(err))
		}

		itemQuery := `
			INSERT INTO pending_order_items (order_id, product_id, boxes_ordered, weight_ordered, cost)
			VALUES ($1, $2, $3, $4, $5)
		`
		for _, item := range items {
			_, err := tx.ExecContext(ctx, itemQuery,
				order.ID, item.ProductID, item.BoxesOrdered, item.WeightOrdered, item.Cost)
			if err != nil {
				return fmt.Errorf("failed to insert order item: %w", mapError(err))
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, companyID, orderID int64) (*domain.PendingOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM pending_orders WHERE company_id = $1 AND id = $2`

	var order domain.PendingOrder
	if err := r.db.GetContext(ctx, &order, query, companyID, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "order", ID: orderID}
		}
		return nil, fmt.Errorf("failed to get order: %w", mapError(err))
	}

	return &order, nil
}

func (r *orderRepository) ListPending(ctx context.Context, companyID int64) ([]*domain.PendingOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM pending_orders
		WHERE company_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`

	var orders []*domain.PendingOrder
	if err := r.db.SelectContext(ctx, &orders, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list pending orders: %w", mapError(err))
	}

	return orders, nil
}

func (r *orderRepository) OrderItems(ctx context.Context, companyID, orderID int64) ([]*domain.PendingOrderItem, error) {
	query := `
		SELECT i.id, i.order_id, i.product_id, i.boxes_ordered, i.weight_ordered, i.cost
		FROM pending_order_items i
		JOIN pending_orders o ON i.order_id = o.id
		WHERE o.company_id = $1 AND i.order_id = $2
		ORDER BY i.id
	`

	var items []*domain.PendingOrderItem
	if err := r.db.SelectContext(ctx, &items, query, companyID, orderID); err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", mapError(err))
	}

	return items, nil
}

// CompleteOrder emits one supply per item and flips the status in a single
// transaction. The status UPDATE carries a status='pending' predicate: a
// concurrent completion or cancellation loses with ErrConflict and the
// supplies roll back with it.
func (r *orderRepository) CompleteOrder(ctx context.Context, companyID, orderID int64, receivedOn domain.DateKey) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE pending_orders
			SET status = 'completed'
			WHERE company_id = $1 AND id = $2 AND status = 'pending'
		`, companyID, orderID)
		if err != nil {
			return fmt.Errorf("failed to complete order: %w", mapError(err))
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := r.GetOrder(ctx, companyID, orderID); err != nil {
				return err
			}
			return fmt.Errorf("%w: order %d is not pending", domain.ErrConflict, orderID)
		}

		items, err := r.orderItemsTx(ctx, tx, orderID)
		if err != nil {
			return err
		}

		supplyQuery := `
			INSERT INTO supplies (company_id, product_id, date, boxes, weight, cost)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, item := range items {
			_, err := tx.ExecContext(ctx, supplyQuery,
				companyID, item.ProductID, receivedOn, item.BoxesOrdered, item.WeightOrdered, item.Cost)
			if err != nil {
				return fmt.Errorf("failed to insert supply for order item: %w", mapError(err))
			}
		}

		return nil
	})
}

func (r *orderRepository) orderItemsTx(ctx context.Context, tx *sqlx.Tx, orderID int64) ([]*domain.PendingOrderItem, error) {
	query := `
		SELECT id, order_id, product_id, boxes_ordered, weight_ordered, cost
		FROM pending_order_items
		WHERE order_id = $1
		ORDER BY id
	`

	var items []*domain.PendingOrderItem
	if err := tx.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", mapError(err))
	}

	return items, nil
}

func (r *orderRepository) CancelOrder(ctx context.Context, companyID, orderID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pending_orders
		SET status = 'cancelled'
		WHERE company_id = $1 AND id = $2 AND status = 'pending'
	`, companyID, orderID)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetOrder(ctx, companyID, orderID); err != nil {
			return err
		}
		return fmt.Errorf("%w: order %d is not pending", domain.ErrConflict, orderID)
	}

	return nil
}

func (r *orderRepository) InTransitWeight(ctx context.Context, companyID, productID int64) (float64, error) {
	query := `
		SELECT COALESCE(SUM(i.weight_ordered), 0)
		FROM pending_order_items i
		JOIN pending_orders o ON i.order_id = o.id
		WHERE o.company_id = $1 AND o.status = 'pending' AND i.product_id = $2
	`

	var weight float64
	if err := r.db.GetContext(ctx, &weight, query, companyID, productID); err != nil {
		return 0, fmt.Errorf("failed to get in-transit weight: %w", mapError(err))
	}

	return weight, nil
}

func (r *orderRepository) InTransitWeights(ctx context.Context, companyID int64) (map[int64]float64, error) {
	query := `
		SELECT i.product_id, COALESCE(SUM(i.weight_ordered), 0) AS weight
		FROM pending_order_items i
		JOIN pending_orders o ON i.order_id = o.id
		WHERE o.company_id = $1 AND o.status = 'pending'
		GROUP BY i.product_id
	`

	var rows []struct {
		ProductID int64   `db:"product_id"`
		Weight    float64 `db:"weight"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to get in-transit weights: %w", mapError(err))
	}

	weights := make(map[int64]float64, len(rows))
	for _, row := range rows {
		weights[row.ProductID] = row.Weight
	}

	return weights, nil
}
