package domain

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateKey is a calendar day. All stock, supply, order and submission rows are
// keyed by it. Internally it is a time.Time pinned to midnight UTC so that
// equality and subtraction behave like date arithmetic regardless of the
// timezone the value originally came from.
type DateKey struct {
	t time.Time
}

const dateLayout = "2006-01-02"

// NewDateKey builds a DateKey from calendar components.
func NewDateKey(year int, month time.Month, day int) DateKey {
	return DateKey{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateKeyOf truncates an instant to its calendar day in the instant's location.
func DateKeyOf(t time.Time) DateKey {
	y, m, d := t.Date()
	return NewDateKey(y, m, d)
}

// ParseDateKey parses a YYYY-MM-DD string. This is the only place date strings
// are accepted; everything past the API boundary works with DateKey values.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return DateKey{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", ErrValidation, s)
	}
	return DateKey{t: t}, nil
}

func (d DateKey) Time() time.Time  { return d.t }
func (d DateKey) String() string   { return d.t.Format(dateLayout) }
func (d DateKey) IsZero() bool     { return d.t.IsZero() }
func (d DateKey) Equal(o DateKey) bool  { return d.t.Equal(o.t) }
func (d DateKey) Before(o DateKey) bool { return d.t.Before(o.t) }
func (d DateKey) After(o DateKey) bool  { return d.t.After(o.t) }

// AddDays returns the day n days later (or earlier for negative n).
func (d DateKey) AddDays(n int) DateKey {
	return DateKey{t: d.t.AddDate(0, 0, n)}
}

// DaysSince returns the whole number of days from o to d.
func (d DateKey) DaysSince(o DateKey) int {
	return int(d.t.Sub(o.t) / (24 * time.Hour))
}

// Scan implements sql.Scanner for DATE columns.
func (d *DateKey) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		*d = DateKeyOf(v.UTC())
		return nil
	case []byte:
		parsed, err := ParseDateKey(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDateKey(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = DateKey{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DateKey", value)
	}
}

// Value implements driver.Valuer.
func (d DateKey) Value() (driver.Value, error) {
	return d.t, nil
}

// MarshalJSON renders the key as "YYYY-MM-DD".
func (d DateKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD".
func (d *DateKey) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDateKey(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
