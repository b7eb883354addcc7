package service

import (
	"context"
	"fmt"

	"github.com/coldbrew-labs/franchise-inventory/internal/auth"
	"github.com/coldbrew-labs/franchise-inventory/internal/cache"
	"github.com/coldbrew-labs/franchise-inventory/internal/clock"
	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/notify"
	"github.com/coldbrew-labs/franchise-inventory/internal/repository"
	"github.com/rs/zerolog/log"
)

// SubmissionService owns the employee stock-count submission flow: submit,
// review, edit, approve into the ledger, or reject.
type SubmissionService struct {
	submissions repository.SubmissionRepository
	catalog     repository.CatalogRepository
	tenants     repository.TenantRepository
	reports     cache.OrderReportCache
	notifier    notify.Notifier
	clock       clock.Clock
}

func NewSubmissionService(
	submissions repository.SubmissionRepository,
	catalog repository.CatalogRepository,
	tenants repository.TenantRepository,
	reports cache.OrderReportCache,
	notifier notify.Notifier,
	clk clock.Clock,
) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		catalog:     catalog,
		tenants:     tenants,
		reports:     reports,
		notifier:    notifier,
		clock:       clk,
	}
}

// SubmitStock opens a pending submission for the current working day. Weights
// are derived from the catalog; a second pending submission by the same user
// for the same day is a conflict.
func (s *SubmissionService) SubmitStock(ctx context.Context, actor domain.Actor, companyID int64, items []domain.SubmissionItemInput) (*domain.StockSubmission, error) {
	if err := auth.Authorize(actor, auth.LedgerSubmitSnapshot, companyID); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "must not be empty"}
	}

	rows := make([]*domain.SubmissionItem, 0, len(items))
	for _, in := range items {
		if in.Quantity < 0 {
			return nil, &domain.ValidationError{Field: "quantity", Reason: "must not be negative"}
		}
		product, err := s.catalog.GetProduct(ctx, companyID, in.ProductID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, &domain.SubmissionItem{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Weight:    product.SnapshotWeight(in.Quantity),
		})
	}

	submission, err := s.submissions.CreateSubmission(ctx, companyID, actor.UserID, s.clock.WorkingDate(), rows)
	if err != nil {
		return nil, err
	}

	s.notifyAdmins(ctx, companyID, submission)
	return submission, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, actor domain.Actor, companyID, submissionID int64) (*domain.StockSubmission, error) {
	if err := auth.Authorize(actor, auth.LedgerRead, companyID); err != nil {
		return nil, err
	}
	return s.submissions.GetSubmission(ctx, companyID, submissionID)
}

func (s *SubmissionService) SubmissionItems(ctx context.Context, actor domain.Actor, companyID, submissionID int64) ([]*domain.SubmissionItem, error) {
	if err := auth.Authorize(actor, auth.LedgerRead, companyID); err != nil {
		return nil, err
	}
	if _, err := s.submissions.GetSubmission(ctx, companyID, submissionID); err != nil {
		return nil, err
	}
	return s.submissions.SubmissionItems(ctx, companyID, submissionID)
}

func (s *SubmissionService) ListPending(ctx context.Context, actor domain.Actor, companyID int64) ([]*domain.StockSubmission, error) {
	if err := auth.Authorize(actor, auth.SubmissionReview, companyID); err != nil {
		return nil, err
	}
	return s.submissions.ListPendingForCompany(ctx, companyID)
}

// UserSubmissions returns a user's recent submissions, newest first. Users
// see their own; reviewers see anyone's in their company.
func (s *SubmissionService) UserSubmissions(ctx context.Context, actor domain.Actor, companyID, userID int64, limit int) ([]*domain.StockSubmission, error) {
	if userID == actor.UserID {
		if err := auth.Authorize(actor, auth.LedgerRead, companyID); err != nil {
			return nil, err
		}
	} else if err := auth.Authorize(actor, auth.SubmissionReview, companyID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}
	return s.submissions.UserSubmissions(ctx, companyID, userID, limit)
}

// EditItem sets the reviewer override on one line of a pending submission.
// The weight is re-derived from the catalog.
func (s *SubmissionService) EditItem(ctx context.Context, actor domain.Actor, companyID, submissionID, productID int64, quantity float64) error {
	if err := auth.Authorize(actor, auth.SubmissionReview, companyID); err != nil {
		return err
	}
	if quantity < 0 {
		return &domain.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}

	product, err := s.catalog.GetProduct(ctx, companyID, productID)
	if err != nil {
		return err
	}

	return s.submissions.EditItem(ctx, companyID, submissionID, productID, quantity, product.SnapshotWeight(quantity))
}

// Approve promotes a pending submission into the stock ledger, effective
// values winning over submitted ones, and tells the submitter. Approving a
// submission that is no longer pending is a conflict.
func (s *SubmissionService) Approve(ctx context.Context, actor domain.Actor, companyID, submissionID int64) error {
	if err := auth.Authorize(actor, auth.SubmissionReview, companyID); err != nil {
		return err
	}

	submitterID, err := s.submissions.Approve(ctx, companyID, submissionID, actor.UserID, s.clock.Now())
	if err != nil {
		return err
	}

	s.invalidateReports(ctx, companyID)
	if err := s.notifier.OnSubmissionReviewed(ctx, companyID, submitterID, true, ""); err != nil {
		log.Warn().Err(err).Int64("submission_id", submissionID).Msg("approval notification failed")
	}
	return nil
}

// Reject closes a pending submission without touching the ledger. A reason is
// mandatory; the submitter is told.
func (s *SubmissionService) Reject(ctx context.Context, actor domain.Actor, companyID, submissionID int64, reason string) error {
	if err := auth.Authorize(actor, auth.SubmissionReview, companyID); err != nil {
		return err
	}
	if reason == "" {
		return &domain.ValidationError{Field: "reason", Reason: "must not be empty"}
	}

	submitterID, err := s.submissions.Reject(ctx, companyID, submissionID, actor.UserID, reason, s.clock.Now())
	if err != nil {
		return err
	}

	if err := s.notifier.OnSubmissionReviewed(ctx, companyID, submitterID, false, reason); err != nil {
		log.Warn().Err(err).Int64("submission_id", submissionID).Msg("rejection notification failed")
	}
	return nil
}

func (s *SubmissionService) notifyAdmins(ctx context.Context, companyID int64, submission *domain.StockSubmission) {
	admins, err := s.tenants.AdminIDs(ctx, companyID)
	if err != nil {
		log.Warn().Err(err).Int64("company_id", companyID).Msg("failed to load admin ids for notification")
		return
	}
	if len(admins) == 0 {
		return
	}

	summary := fmt.Sprintf("stock submission #%d for %s: %d items", submission.ID, submission.SubmissionDate, submission.ItemsCount)
	if err := s.notifier.OnNewSubmission(ctx, companyID, summary, admins); err != nil {
		log.Warn().Err(err).Int64("submission_id", submission.ID).Msg("submission notification failed")
	}
}

func (s *SubmissionService) invalidateReports(ctx context.Context, companyID int64) {
	if err := s.reports.InvalidateCompany(ctx, companyID); err != nil {
		log.Warn().Err(err).Int64("company_id", companyID).Msg("failed to invalidate order report cache")
	}
}
