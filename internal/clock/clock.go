package clock

import (
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/rs/zerolog/log"
)

// workingDayOffset shifts the day boundary from midnight to 02:00: a shop
// closing at 01:30 still books its counts against the previous day.
const workingDayOffset = 2 * time.Hour

// Clock supplies the current instant and the current working date. Operations
// take it as a collaborator so tests can pin time.
type Clock interface {
	Now() time.Time
	WorkingDate() domain.DateKey
}

type tzClock struct {
	loc *time.Location
}

// New returns a Clock for the given IANA timezone name. An unknown zone falls
// back to UTC with a logged warning rather than failing startup.
func New(tz string) Clock {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Warn().Str("tz", tz).Err(err).Msg("unknown timezone, falling back to UTC")
		loc = time.UTC
	}
	return &tzClock{loc: loc}
}

func (c *tzClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *tzClock) WorkingDate() domain.DateKey {
	return WorkingDate(c.Now(), c.loc)
}

// WorkingDate maps an instant to its working day: the calendar day in loc
// after shifting the wall clock back by two hours.
func WorkingDate(now time.Time, loc *time.Location) domain.DateKey {
	return domain.DateKeyOf(now.In(loc).Add(-workingDayOffset))
}

// Fixed is a Clock pinned to a single instant, for tests and replays.
type Fixed struct {
	Instant  time.Time
	Location *time.Location
}

func (f Fixed) Now() time.Time { return f.Instant }

func (f Fixed) WorkingDate() domain.DateKey {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return WorkingDate(f.Instant, loc)
}
