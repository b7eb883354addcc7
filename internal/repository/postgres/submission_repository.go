package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/jmoiron/sqlx"
)

type submissionRepository struct {
	db *DB
}

func NewSubmissionRepository(db *DB) *submissionRepository {
	return &submissionRepository{db: db}
}

const submissionColumns = `
	s.id, s.company_id, s.submitted_by, s.submission_date, s.status,
	s.created_at, s.reviewed_at, s.reviewed_by, s.rejection_reason,
	(SELECT COUNT(*) FROM pending_stock_items i WHERE i.submission_id = s.id) AS items_count`

func (r *submissionRepository) CreateSubmission(ctx context.Context, companyID, userID int64, date domain.DateKey, items []*domain.SubmissionItem) (*domain.StockSubmission, error) {
	var submission domain.StockSubmission
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		// The partial unique index on (company_id, submitted_by,
		// submission_date) WHERE status='pending' turns a duplicate into a
		// unique violation, which mapError reports as a conflict.
		query := `
			INSERT INTO pending_stock_submissions (company_id, submitted_by, submission_date, status)
			VALUES ($1, $2, $3, 'pending')
			RETURNING id, company_id, submitted_by, submission_date, status,
			          created_at, reviewed_at, reviewed_by, rejection_reason
		`

		if err := tx.GetContext(ctx, &submission, query, companyID, userID, date); err != nil {
			return fmt.Errorf("failed to create submission: %w", mapError(err))
		}

		itemQuery := `
			INSERT INTO pending_stock_items (submission_id, product_id, quantity, weight)
			VALUES ($1, $2, $3, $4)
		`
		for _, item := range items {
			_, err := tx.ExecContext(ctx, itemQuery,
				submission.ID, item.ProductID, item.Quantity, item.Weight)
			if err != nil {
				return fmt.Errorf("failed to insert submission item: %w", mapError(err))
			}
		}

		submission.ItemsCount = len(items)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &submission, nil
}

func (r *submissionRepository) GetSubmission(ctx context.Context, companyID, submissionID int64) (*domain.StockSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM pending_stock_submissions s
		WHERE s.company_id = $1 AND s.id = $2
	`

	var submission domain.StockSubmission
	if err := r.db.GetContext(ctx, &submission, query, companyID, submissionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "submission", ID: submissionID}
		}
		return nil, fmt.Errorf("failed to get submission: %w", mapError(err))
	}

	return &submission, nil
}

func (r *submissionRepository) SubmissionItems(ctx context.Context, companyID, submissionID int64) ([]*domain.SubmissionItem, error) {
	query := `
		SELECT i.id, i.submission_id, i.product_id, i.quantity, i.weight,
		       i.edited_quantity, i.edited_weight
		FROM pending_stock_items i
		JOIN pending_stock_submissions s ON i.submission_id = s.id
		WHERE s.company_id = $1 AND i.submission_id = $2
		ORDER BY i.id
	`

	var items []*domain.SubmissionItem
	if err := r.db.SelectContext(ctx, &items, query, companyID, submissionID); err != nil {
		return nil, fmt.Errorf("failed to get submission items: %w", mapError(err))
	}

	return items, nil
}

func (r *submissionRepository) ListPendingForCompany(ctx context.Context, companyID int64) ([]*domain.StockSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM pending_stock_submissions s
		WHERE s.company_id = $1 AND s.status = 'pending'
		ORDER BY s.created_at
	`

	var submissions []*domain.StockSubmission
	if err := r.db.SelectContext(ctx, &submissions, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list pending submissions: %w", mapError(err))
	}

	return submissions, nil
}

func (r *submissionRepository) UserSubmissions(ctx context.Context, companyID, userID int64, limit int) ([]*domain.StockSubmission, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + submissionColumns + `
		FROM pending_stock_submissions s
		WHERE s.company_id = $1 AND s.submitted_by = $2
		ORDER BY s.created_at DESC
		LIMIT $3
	`

	var submissions []*domain.StockSubmission
	if err := r.db.SelectContext(ctx, &submissions, query, companyID, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list user submissions: %w", mapError(err))
	}

	return submissions, nil
}

func (r *submissionRepository) EditItem(ctx context.Context, companyID, submissionID, productID int64, quantity, weight float64) error {
	query := `
		UPDATE pending_stock_items i
		SET edited_quantity = $4, edited_weight = $5
		FROM pending_stock_submissions s
		WHERE i.submission_id = s.id
		  AND s.company_id = $1 AND s.id = $2 AND s.status = 'pending'
		  AND i.product_id = $3
	`

	res, err := r.db.ExecContext(ctx, query, companyID, submissionID, productID, quantity, weight)
	if err != nil {
		return fmt.Errorf("failed to edit submission item: %w", mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		sub, err := r.GetSubmission(ctx, companyID, submissionID)
		if err != nil {
			return err
		}
		if sub.Status != domain.SubmissionPending {
			return fmt.Errorf("%w: submission %d is not pending", domain.ErrConflict, submissionID)
		}
		return &domain.NotFoundError{Entity: "submission item", ID: productID}
	}

	return nil
}

// Approve promotes the submission into the stock ledger. The COALESCE over
// the edited values happens in SQL so the upsert and the status flip share
// one transaction and one view of the items.
func (r *submissionRepository) Approve(ctx context.Context, companyID, submissionID, adminID int64, reviewedAt time.Time) (int64, error) {
	var submittedBy int64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		row := tx.QueryRowxContext(ctx, `
			UPDATE pending_stock_submissions
			SET status = 'approved', reviewed_at = $3, reviewed_by = $4
			WHERE company_id = $1 AND id = $2 AND status = 'pending'
			RETURNING submitted_by, submission_date
		`, companyID, submissionID, reviewedAt, adminID)

		var date domain.DateKey
		if err := row.Scan(&submittedBy, &date); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return r.conflictOrNotFound(ctx, companyID, submissionID)
			}
			return fmt.Errorf("failed to approve submission: %w", mapError(err))
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO stock (company_id, product_id, date, quantity, weight)
			SELECT $1, i.product_id, $3,
			       COALESCE(i.edited_quantity, i.quantity),
			       COALESCE(i.edited_weight, i.weight)
			FROM pending_stock_items i
			WHERE i.submission_id = $2
			ON CONFLICT (company_id, product_id, date)
			DO UPDATE SET quantity = EXCLUDED.quantity, weight = EXCLUDED.weight
		`, companyID, submissionID, date)
		if err != nil {
			return fmt.Errorf("failed to promote submission items: %w", mapError(err))
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return submittedBy, nil
}

func (r *submissionRepository) Reject(ctx context.Context, companyID, submissionID, adminID int64, reason string, reviewedAt time.Time) (int64, error) {
	row := r.db.QueryRowxContext(ctx, `
		UPDATE pending_stock_submissions
		SET status = 'rejected', reviewed_at = $3, reviewed_by = $4, rejection_reason = $5
		WHERE company_id = $1 AND id = $2 AND status = 'pending'
		RETURNING submitted_by
	`, companyID, submissionID, reviewedAt, adminID, reason)

	var submittedBy int64
	if err := row.Scan(&submittedBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, r.conflictOrNotFound(ctx, companyID, submissionID)
		}
		return 0, fmt.Errorf("failed to reject submission: %w", mapError(err))
	}

	return submittedBy, nil
}

// conflictOrNotFound distinguishes "no such submission" from "submission is
// no longer pending" after a guarded UPDATE matched zero rows.
func (r *submissionRepository) conflictOrNotFound(ctx context.Context, companyID, submissionID int64) error {
	if _, err := r.GetSubmission(ctx, companyID, submissionID); err != nil {
		return err
	}
	return fmt.Errorf("%w: submission %d is not pending", domain.ErrConflict, submissionID)
}
