package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/clock"
	"github.com/coldbrew-labs/franchise-inventory/internal/config"
	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/notify"
	"github.com/coldbrew-labs/franchise-inventory/internal/repository"
	"github.com/rs/zerolog/log"
)

// pollInterval is how often the dispatcher checks the wall clock. Reminders
// fire on the hour; one-minute granularity is plenty.
const pollInterval = time.Minute

// reminderMessages escalate through the day. Index is the position of the
// fired hour within the configured schedule.
var reminderMessages = []string{
	"Don't forget to count today's stock.",
	"Reminder: today's stock count is still missing.",
	"Second reminder: please submit today's stock count.",
	"Last call: today's stock count has not been submitted.",
}

// Scheduler sends escalating stock-count reminders to every active tenant
// that has not yet recorded a snapshot for the current working day.
type Scheduler struct {
	tenants  repository.TenantRepository
	ledger   repository.LedgerRepository
	notifier notify.Notifier
	clock    clock.Clock
	cfg      config.SchedulerConfig

	// lastFired remembers the last (date, hour) dispatched so a tick landing
	// twice inside the same hour stays idempotent.
	lastFired string
}

func New(tenants repository.TenantRepository, ledger repository.LedgerRepository, notifier notify.Notifier, clk clock.Clock, cfg config.SchedulerConfig) *Scheduler {
	return &Scheduler{tenants: tenants, ledger: ledger, notifier: notifier, clock: clk, cfg: cfg}
}

// Run blocks until ctx is cancelled, firing reminders at the configured hours.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.cfg.Enabled || len(s.cfg.ReminderHours) == 0 {
		log.Info().Msg("reminder scheduler disabled")
		return
	}

	log.Info().
		Ints("hours", s.cfg.ReminderHours).
		Str("tz", s.cfg.Timezone).
		Msg("reminder scheduler started")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.clock.Now()

	stage := -1
	for i, h := range s.cfg.ReminderHours {
		if now.Hour() == h {
			stage = i
			break
		}
	}
	if stage < 0 {
		return
	}

	slot := fmt.Sprintf("%s@%d", now.Format("2006-01-02"), now.Hour())
	if slot == s.lastFired {
		return
	}
	s.lastFired = slot

	s.dispatch(ctx, stage)
}

func (s *Scheduler) dispatch(ctx context.Context, stage int) {
	companies, err := s.tenants.ListActiveCompanies(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reminder dispatch: listing active companies failed")
		return
	}

	workingDate := s.clock.WorkingDate()
	message := reminderMessages[min(stage, len(reminderMessages)-1)]

	for _, company := range companies {
		if company.ID == domain.SystemCompanyID {
			continue
		}

		done, err := s.ledger.HasSnapshotOn(ctx, company.ID, workingDate)
		if err != nil {
			log.Error().Err(err).Int64("company_id", company.ID).Msg("reminder dispatch: snapshot check failed")
			continue
		}
		if done {
			continue
		}

		recipients, err := s.tenants.ActiveUserIDs(ctx, company.ID)
		if err != nil {
			log.Error().Err(err).Int64("company_id", company.ID).Msg("reminder dispatch: loading recipients failed")
			continue
		}
		if len(recipients) == 0 {
			continue
		}

		if err := s.notifier.OnReminder(ctx, company.ID, message, recipients); err != nil {
			log.Warn().Err(err).Int64("company_id", company.ID).Msg("reminder notification failed")
		}
	}
}
