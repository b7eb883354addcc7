package repository

import (
	"context"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
)

// SubmissionRepository owns employee stock submissions and their moderation
// state machine.
type SubmissionRepository interface {
	// CreateSubmission opens a pending submission with its items. A second
	// pending submission for the same (company, submitter, date) returns
	// ErrConflict.
	CreateSubmission(ctx context.Context, companyID, userID int64, date domain.DateKey, items []*domain.SubmissionItem) (*domain.StockSubmission, error)

	GetSubmission(ctx context.Context, companyID, submissionID int64) (*domain.StockSubmission, error)
	SubmissionItems(ctx context.Context, companyID, submissionID int64) ([]*domain.SubmissionItem, error)
	ListPendingForCompany(ctx context.Context, companyID int64) ([]*domain.StockSubmission, error)
	UserSubmissions(ctx context.Context, companyID, userID int64, limit int) ([]*domain.StockSubmission, error)

	// EditItem sets the admin override on one item. Permitted only while the
	// submission is pending.
	EditItem(ctx context.Context, companyID, submissionID, productID int64, quantity, weight float64) error

	// Approve, in one transaction, upserts a stock snapshot per item using
	// the effective (edited over original) values keyed by the submission
	// date, then flips status pending -> approved. Returns the submitter id
	// for notification. A non-pending submission returns ErrConflict.
	Approve(ctx context.Context, companyID, submissionID, adminID int64, reviewedAt time.Time) (int64, error)

	// Reject flips status pending -> rejected, recording the reason.
	// Returns the submitter id for notification.
	Reject(ctx context.Context, companyID, submissionID, adminID int64, reason string, reviewedAt time.Time) (int64, error)
}
