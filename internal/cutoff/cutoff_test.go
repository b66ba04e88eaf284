package cutoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fridayNoon(t *testing.T) Policy {
	t.Helper()
	p, err := NewPolicy("Friday", "12:00")
	require.NoError(t, err)
	return p
}

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestNewPolicy_InvalidDayIsFatal(t *testing.T) {
	_, err := NewPolicy("Freitag", "12:00")
	assert.ErrorIs(t, err, ErrInvalidCutoffDay)

	_, err = NewPolicy("Friday", "noon")
	assert.ErrorIs(t, err, ErrInvalidCutoffTime)

	_, err = NewPolicy("Friday", "25:00")
	assert.ErrorIs(t, err, ErrInvalidCutoffTime)
}

func TestCutoffInstant_MostRecentOccurrence(t *testing.T) {
	p := fridayNoon(t)

	c, err := CutoffInstant(p, date(2026, time.January, 5, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 2, 12, 0), c)

	// A Friday morning still points at the previous week's Friday.
	c, err = CutoffInstant(p, date(2026, time.January, 9, 11, 59))
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 2, 12, 0), c)

	// From the cutoff minute onward it is this Friday.
	c, err = CutoffInstant(p, date(2026, time.January, 9, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 9, 12, 0), c)
}

func TestLockedWeek_BeforeCutoff(t *testing.T) {
	p := fridayNoon(t)
	now := date(2026, time.January, 5, 10, 0)

	locked, err := LockedWeekStart(p, now)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 4, 0, 0), locked)

	for d := 4; d <= 10; d++ {
		ok, err := IsLocked(date(2026, time.January, d, 9, 0), p, now)
		require.NoError(t, err)
		assert.True(t, ok, "Jan %d should be locked", d)
	}
	for d := 11; d <= 17; d++ {
		ok, err := IsLocked(date(2026, time.January, d, 9, 0), p, now)
		require.NoError(t, err)
		assert.False(t, ok, "Jan %d should be open", d)
	}

	earliest, err := EarliestEffectiveDate(p, now)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 11, 0, 0), earliest)
}

func TestLockedWeek_AfterCutoff(t *testing.T) {
	p := fridayNoon(t)
	now := date(2026, time.January, 9, 13, 0)

	locked, err := LockedWeekStart(p, now)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 11, 0, 0), locked)

	ok, err := IsLocked(date(2026, time.January, 14, 0, 0), p, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsLocked(date(2026, time.January, 20, 0, 0), p, now)
	require.NoError(t, err)
	assert.False(t, ok)

	earliest, err := EarliestEffectiveDate(p, now)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 18, 0, 0), earliest)
}

func TestLockedWeek_ExactlyAtCutoffFavorsUser(t *testing.T) {
	p := fridayNoon(t)
	now := date(2026, time.January, 9, 12, 0)

	earliest, err := EarliestEffectiveDate(p, now)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 11, 0, 0), earliest)

	// One half second past the boundary flips the answer. Comparisons are
	// instant-level, not date-truncated.
	later := now.Add(500 * time.Millisecond)
	earliest, err = EarliestEffectiveDate(p, later)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 18, 0, 0), earliest)
}

func TestLockedWeek_SaturdayAfterCutoffFired(t *testing.T) {
	p := fridayNoon(t)
	now := date(2026, time.January, 10, 10, 0)

	earliest, err := EarliestEffectiveDate(p, now)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 18, 0, 0), earliest)
}

func TestLockedWeek_SaturdayPolicyGovernsUpcomingWeek(t *testing.T) {
	p, err := NewPolicy("Saturday", "18:00")
	require.NoError(t, err)

	// Sunday morning, the Saturday cutoff fired last night: the week that
	// just began is frozen, not the one that ended yesterday.
	now := date(2026, time.January, 11, 9, 0)
	locked, err := LockedWeekStart(p, now)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 11, 0, 0), locked)

	earliest, err := EarliestEffectiveDate(p, now)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 18, 0, 0), earliest)
}

func TestLockedWeek_SundayPolicyKeepsTodayOpenUntilCutoff(t *testing.T) {
	p, err := NewPolicy("Sunday", "12:00")
	require.NoError(t, err)

	// Sunday 10:00, before today's noon cutoff: today can still take effect.
	now := date(2026, time.January, 11, 10, 0)
	earliest, err := EarliestEffectiveDate(p, now)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 11, 0, 0), earliest)

	// Once noon passes, this week is frozen.
	now = date(2026, time.January, 11, 13, 0)
	earliest, err = EarliestEffectiveDate(p, now)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 18, 0, 0), earliest)
}

func TestEarliestEffectiveDate_IsAlwaysSunday(t *testing.T) {
	p := fridayNoon(t)
	now := date(2026, time.January, 5, 10, 0)
	for i := 0; i < 14; i++ {
		earliest, err := EarliestEffectiveDate(p, now.Add(time.Duration(i)*24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Sunday, earliest.Weekday())
	}
}

func TestGoverningCutoff(t *testing.T) {
	p := fridayNoon(t)

	// The week of Jan 11 froze at the prior Friday's noon.
	c := GoverningCutoff(p, date(2026, time.January, 11, 0, 0))
	assert.Equal(t, date(2026, time.January, 9, 12, 0), c)

	// A mid-week reference date yields the same instant.
	c = GoverningCutoff(p, date(2026, time.January, 14, 16, 30))
	assert.Equal(t, date(2026, time.January, 9, 12, 0), c)

	// A Sunday policy's governing instant sits on the week's own Sunday.
	sun, err := NewPolicy("Sunday", "12:00")
	require.NoError(t, err)
	c = GoverningCutoff(sun, date(2026, time.January, 11, 0, 0))
	assert.Equal(t, date(2026, time.January, 11, 12, 0), c)
}

func TestAnyLocked_WholeWeekBlocking(t *testing.T) {
	p := fridayNoon(t)
	now := date(2026, time.January, 9, 13, 0) // locked week: Jan 11-17

	ok, err := AnyLocked([]time.Time{
		date(2026, time.January, 20, 0, 0),
		date(2026, time.January, 13, 0, 0),
	}, p, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = AnyLocked([]time.Time{date(2026, time.January, 20, 0, 0)}, p, now)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = AnyLocked(nil, p, now)
	require.NoError(t, err)
	assert.False(t, ok)
}
