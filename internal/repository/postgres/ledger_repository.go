package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/repository"
)

type ledgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) *ledgerRepository {
	return &ledgerRepository{db: db}
}

const snapshotColumns = `id, company_id, product_id, date, quantity, weight, created_at`
const supplyColumns = `id, company_id, product_id, date, boxes, weight, cost, created_at`

func (r *ledgerRepository) UpsertSnapshot(ctx context.Context, snap *domain.StockSnapshot) error {
	query := `
		INSERT INTO stock (company_id, product_id, date, quantity, weight)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id, product_id, date)
		DO UPDATE SET quantity = EXCLUDED.quantity, weight = EXCLUDED.weight
	`

	_, err := r.db.ExecContext(ctx, query,
		snap.CompanyID, snap.ProductID, snap.Date, snap.Quantity, snap.Weight)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", mapError(err))
	}

	return nil
}

func (r *ledgerRepository) InsertSupply(ctx context.Context, supply *domain.SupplyEvent) error {
	query := `
		INSERT INTO supplies (company_id, product_id, date, boxes, weight, cost)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		supply.CompanyID, supply.ProductID, supply.Date, supply.Boxes, supply.Weight, supply.Cost)
	if err != nil {
		return fmt.Errorf("failed to insert supply: %w", mapError(err))
	}

	return nil
}

func (r *ledgerRepository) LatestSnapshots(ctx context.Context, companyID int64) ([]*domain.StockSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM stock s
		WHERE s.company_id = $1
		  AND s.date = (
			SELECT MAX(date) FROM stock
			WHERE company_id = s.company_id AND product_id = s.product_id
		  )
		ORDER BY s.product_id
	`

	var snaps []*domain.StockSnapshot
	if err := r.db.SelectContext(ctx, &snaps, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to get latest snapshots: %w", mapError(err))
	}

	return snaps, nil
}

func (r *ledgerRepository) SnapshotOn(ctx context.Context, companyID int64, date domain.DateKey) ([]*domain.StockSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM stock
		WHERE company_id = $1 AND date = $2
		ORDER BY product_id
	`

	var snaps []*domain.StockSnapshot
	if err := r.db.SelectContext(ctx, &snaps, query, companyID, date); err != nil {
		return nil, fmt.Errorf("failed to get snapshots on date: %w", mapError(err))
	}

	return snaps, nil
}

func (r *ledgerRepository) HasSnapshotOn(ctx context.Context, companyID int64, date domain.DateKey) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM stock WHERE company_id = $1 AND date = $2`
	if err := r.db.GetContext(ctx, &count, query, companyID, date); err != nil {
		return false, fmt.Errorf("failed to check snapshots on date: %w", mapError(err))
	}
	return count > 0, nil
}

// History anchors the window to the product's own latest snapshot, not
// today: a long gap without counts must not starve the forecaster.
func (r *ledgerRepository) History(ctx context.Context, companyID, productID int64, windowDays int) ([]domain.StockSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM stock s
		WHERE s.company_id = $1 AND s.product_id = $2
		  AND s.date >= (
			SELECT MAX(date) FROM stock
			WHERE company_id = $1 AND product_id = $2
		  ) - $3::int
		ORDER BY s.date
	`

	var snaps []domain.StockSnapshot
	if err := r.db.SelectContext(ctx, &snaps, query, companyID, productID, windowDays); err != nil {
		return nil, fmt.Errorf("failed to get stock history: %w", mapError(err))
	}

	return snaps, nil
}

// SuppliesBetween uses the half-open interval (start, end]: a supply dated on
// the start boundary was already observed by the snapshot taken that day.
func (r *ledgerRepository) SuppliesBetween(ctx context.Context, companyID, productID int64, start, end domain.DateKey) ([]domain.SupplyEvent, error) {
	query := `
		SELECT ` + supplyColumns + `
		FROM supplies
		WHERE company_id = $1
		  AND ($2 = 0 OR product_id = $2)
		  AND date > $3 AND date <= $4
		ORDER BY date, id
	`

	var supplies []domain.SupplyEvent
	if err := r.db.SelectContext(ctx, &supplies, query, companyID, productID, start, end); err != nil {
		return nil, fmt.Errorf("failed to get supplies: %w", mapError(err))
	}

	return supplies, nil
}

func (r *ledgerRepository) SuppliesSince(ctx context.Context, companyID, productID int64, since domain.DateKey) ([]domain.SupplyEvent, error) {
	query := `
		SELECT ` + supplyColumns + `
		FROM supplies
		WHERE company_id = $1 AND product_id = $2 AND date >= $3
		ORDER BY date, id
	`

	var supplies []domain.SupplyEvent
	if err := r.db.SelectContext(ctx, &supplies, query, companyID, productID, since); err != nil {
		return nil, fmt.Errorf("failed to get supplies since date: %w", mapError(err))
	}

	return supplies, nil
}

func (r *ledgerRepository) SnapshotBounds(ctx context.Context, companyID int64, start, end domain.DateKey) (domain.DateKey, domain.DateKey, bool, error) {
	query := `
		SELECT MIN(date) AS earliest, MAX(date) AS latest
		FROM stock
		WHERE company_id = $1 AND date >= $2 AND date <= $3
	`

	var row struct {
		Earliest sql.NullTime `db:"earliest"`
		Latest   sql.NullTime `db:"latest"`
	}
	if err := r.db.GetContext(ctx, &row, query, companyID, start, end); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DateKey{}, domain.DateKey{}, false, nil
		}
		return domain.DateKey{}, domain.DateKey{}, false, fmt.Errorf("failed to get snapshot bounds: %w", mapError(err))
	}
	if !row.Earliest.Valid || !row.Latest.Valid {
		return domain.DateKey{}, domain.DateKey{}, false, nil
	}

	return domain.DateKeyOf(row.Earliest.Time.UTC()), domain.DateKeyOf(row.Latest.Time.UTC()), true, nil
}

func (r *ledgerRepository) SnapshotDatesSummary(ctx context.Context, companyID int64) ([]repository.StockDateSummary, error) {
	query := `
		SELECT
			s.date,
			COUNT(*) AS product_count,
			COALESCE(SUM(CASE WHEN p.unit != 'шт' THEN s.weight ELSE 0 END), 0) AS total_weight
		FROM stock s
		JOIN products p ON s.product_id = p.id
		WHERE s.company_id = $1
		GROUP BY s.date
		ORDER BY s.date DESC
	`

	var rows []repository.StockDateSummary
	if err := r.db.SelectContext(ctx, &rows, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to get stock dates summary: %w", mapError(err))
	}

	return rows, nil
}
