package repository

import (
	"context"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
)

// StockDateSummary is one row of the per-date overview report: how many
// products were counted and the total weight across weight-unit products.
type StockDateSummary struct {
	Date         domain.DateKey `json:"date" db:"date"`
	ProductCount int            `json:"product_count" db:"product_count"`
	TotalWeight  float64        `json:"total_weight" db:"total_weight"`
}

// LedgerRepository owns stock snapshots and supply events.
type LedgerRepository interface {
	// UpsertSnapshot writes the measured count for (company, product, date).
	// Re-writing the same key replaces the previous value; snapshots are
	// idempotent corrections.
	UpsertSnapshot(ctx context.Context, snap *domain.StockSnapshot) error

	// InsertSupply appends a supply event. Multiple supplies per
	// (product, date) are allowed.
	InsertSupply(ctx context.Context, supply *domain.SupplyEvent) error

	// LatestSnapshots returns, for each product with any history, the row
	// with the maximum date.
	LatestSnapshots(ctx context.Context, companyID int64) ([]*domain.StockSnapshot, error)

	// SnapshotOn returns all rows keyed to exactly that date.
	SnapshotOn(ctx context.Context, companyID int64, date domain.DateKey) ([]*domain.StockSnapshot, error)

	// HasSnapshotOn reports whether any product was counted on that date.
	HasSnapshotOn(ctx context.Context, companyID int64, date domain.DateKey) (bool, error)

	// History returns the product's snapshots with date >= (its own latest
	// date - windowDays), ascending. The anchor is the product's latest
	// snapshot rather than today so a counting gap does not starve the
	// forecaster.
	History(ctx context.Context, companyID, productID int64, windowDays int) ([]domain.StockSnapshot, error)

	// SuppliesBetween returns supplies with start < date <= end. The start
	// boundary is excluded: that instant is itself a snapshot and the supply
	// would already be visible in it. productID 0 means all products.
	SuppliesBetween(ctx context.Context, companyID, productID int64, start, end domain.DateKey) ([]domain.SupplyEvent, error)

	// SuppliesSince returns a product's supplies with date >= since,
	// ascending. Feeds the consumption derivation, which applies its own
	// boundary rules per period.
	SuppliesSince(ctx context.Context, companyID, productID int64, since domain.DateKey) ([]domain.SupplyEvent, error)

	// SnapshotBounds returns the earliest and latest snapshot dates inside
	// [start, end], or ok=false when the window holds no data.
	SnapshotBounds(ctx context.Context, companyID int64, start, end domain.DateKey) (earliest, latest domain.DateKey, ok bool, err error)

	// SnapshotDatesSummary lists every date with counts, newest first.
	SnapshotDatesSummary(ctx context.Context, companyID int64) ([]StockDateSummary, error)
}
