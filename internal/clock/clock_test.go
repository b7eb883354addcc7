package clock

import (
	"testing"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func almaty(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Almaty")
	require.NoError(t, err)
	return loc
}

func TestWorkingDateBeforeCutoff(t *testing.T) {
	loc := almaty(t)
	// 01:30 still belongs to the previous day.
	now := time.Date(2026, 8, 24, 1, 30, 0, 0, loc)
	assert.Equal(t, domain.NewDateKey(2026, 8, 23), WorkingDate(now, loc))
}

func TestWorkingDateAtCutoff(t *testing.T) {
	loc := almaty(t)
	// 02:00 exactly is the new day.
	now := time.Date(2026, 8, 24, 2, 0, 0, 0, loc)
	assert.Equal(t, domain.NewDateKey(2026, 8, 24), WorkingDate(now, loc))
}

func TestWorkingDateMidday(t *testing.T) {
	loc := almaty(t)
	now := time.Date(2026, 8, 24, 15, 0, 0, 0, loc)
	assert.Equal(t, domain.NewDateKey(2026, 8, 24), WorkingDate(now, loc))
}

func TestWorkingDateConvertsForeignInstant(t *testing.T) {
	loc := almaty(t)
	// 22:30 UTC on the 23rd is 03:30 on the 24th in Almaty (UTC+5), which is
	// past the cutoff: working day is the 24th.
	now := time.Date(2026, 8, 23, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, domain.NewDateKey(2026, 8, 24), WorkingDate(now, loc))
}

func TestNewFallsBackToUTC(t *testing.T) {
	c := New("Not/AZone")
	require.NotNil(t, c)
	assert.Equal(t, time.UTC, c.Now().Location())
}

func TestFixedClock(t *testing.T) {
	loc := almaty(t)
	f := Fixed{Instant: time.Date(2026, 8, 24, 1, 0, 0, 0, loc), Location: loc}
	assert.Equal(t, domain.NewDateKey(2026, 8, 23), f.WorkingDate())
	assert.Equal(t, f.Instant, f.Now())
}
