package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Notifier is the outbound channel abstraction. Implementations are
// best-effort: callers log failures and never let them fail the originating
// write.
type Notifier interface {
	// OnNewSubmission alerts a company's admins that a submission awaits
	// review.
	OnNewSubmission(ctx context.Context, companyID int64, summary string, recipientIDs []int64) error

	// OnSubmissionReviewed tells the submitter the outcome of moderation.
	// reason is empty for approvals.
	OnSubmissionReviewed(ctx context.Context, companyID int64, recipientID int64, approved bool, reason string) error

	// OnReminder nudges users that today's stock count is still missing.
	OnReminder(ctx context.Context, companyID int64, message string, recipientIDs []int64) error
}

// LogNotifier writes notifications to the structured log. It stands in for
// the chat transport in development and in tests; a Telegram implementation
// satisfies the same interface in the bot process.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) OnNewSubmission(ctx context.Context, companyID int64, summary string, recipientIDs []int64) error {
	log.Info().
		Int64("company_id", companyID).
		Ints64("recipients", recipientIDs).
		Str("summary", summary).
		Msg("new submission notification")
	return nil
}

func (n *LogNotifier) OnSubmissionReviewed(ctx context.Context, companyID int64, recipientID int64, approved bool, reason string) error {
	log.Info().
		Int64("company_id", companyID).
		Int64("recipient", recipientID).
		Bool("approved", approved).
		Str("reason", reason).
		Msg("submission review notification")
	return nil
}

func (n *LogNotifier) OnReminder(ctx context.Context, companyID int64, message string, recipientIDs []int64) error {
	log.Info().
		Int64("company_id", companyID).
		Ints64("recipients", recipientIDs).
		Str("message", message).
		Msg("stock reminder notification")
	return nil
}
