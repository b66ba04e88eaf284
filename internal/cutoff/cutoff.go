package cutoff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/platefull/weekplan/internal/calendar"
)

var (
	ErrInvalidCutoffDay    = errors.New("invalid_cutoff_day")
	ErrInvalidCutoffTime   = errors.New("invalid_cutoff_time")
	ErrCutoffScanExhausted = errors.New("cutoff_scan_exhausted")
)

// A cutoff occurrence that has fired freezes the week beginning on the next
// Sunday after its calendar day; a Sunday cutoff freezes the week beginning
// that same day. Scanning backward more than scanBoundDays without finding an
// occurrence means the policy itself is broken, not that nothing is locked.
const scanBoundDays = 14

// Policy is the deployment-wide weekly cutoff: a day name plus a time of day.
type Policy struct {
	Day    string
	Hour   int
	Minute int

	dayNumber int
}

// NewPolicy validates the configured day name and HH:MM time. An unknown day
// name is a fatal configuration error and is never defaulted.
func NewPolicy(day, timeOfDay string) (Policy, error) {
	n, ok := calendar.DayNumber(day)
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q", ErrInvalidCutoffDay, day)
	}

	parts := strings.SplitN(timeOfDay, ":", 2)
	if len(parts) != 2 {
		return Policy{}, fmt.Errorf("%w: %q", ErrInvalidCutoffTime, timeOfDay)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return Policy{}, fmt.Errorf("%w: %q", ErrInvalidCutoffTime, timeOfDay)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return Policy{}, fmt.Errorf("%w: %q", ErrInvalidCutoffTime, timeOfDay)
	}

	return Policy{Day: day, Hour: hour, Minute: minute, dayNumber: n}, nil
}

// instantOn places the policy's time of day onto d's calendar date.
func (p Policy) instantOn(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), p.Hour, p.Minute, 0, 0, d.Location())
}

// CutoffInstant returns the most recent instant matching the policy's day and
// time at or before now, found by scanning backward one day at a time.
func CutoffInstant(p Policy, now time.Time) (time.Time, error) {
	if _, ok := calendar.DayNumber(p.Day); !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCutoffDay, p.Day)
	}
	for i := 0; i < scanBoundDays; i++ {
		d := calendar.StartOfDay(now).AddDate(0, 0, -i)
		if int(d.Weekday()) != p.dayNumber {
			continue
		}
		c := p.instantOn(d)
		if !c.After(now) {
			return c, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: no %s %02d:%02d within %d days of %s",
		ErrCutoffScanExhausted, p.Day, p.Hour, p.Minute, scanBoundDays, now.Format(time.RFC3339))
}

// LockedWeekStart returns the Sunday starting the week that is currently
// frozen against edits. An instant exactly equal to the cutoff counts as not
// yet past it; the boundary favors the user.
func LockedWeekStart(p Policy, now time.Time) (time.Time, error) {
	c, err := CutoffInstant(p, now)
	if err != nil {
		return time.Time{}, err
	}
	if !now.After(c) {
		// now coincides with the cutoff instant; the previous occurrence governs.
		c = p.instantOn(c.AddDate(0, 0, -7))
	}
	ws := calendar.WeekStart(c)
	if c.Weekday() == time.Sunday {
		return ws, nil
	}
	return ws.AddDate(0, 0, 7), nil
}

// GoverningCutoff returns the cutoff instant whose firing freezes the
// week containing weekStart. For a Sunday policy that instant falls on
// the week's own Sunday, for any other day it falls in the prior week.
func GoverningCutoff(p Policy, weekStart time.Time) time.Time {
	ws := calendar.WeekStart(weekStart)
	if p.dayNumber == 0 {
		return p.instantOn(ws)
	}
	return p.instantOn(ws.AddDate(0, 0, p.dayNumber-7))
}

// IsLocked reports whether date falls in the locked week.
func IsLocked(date time.Time, p Policy, now time.Time) (bool, error) {
	locked, err := LockedWeekStart(p, now)
	if err != nil {
		return false, err
	}
	return calendar.InWeek(date, locked), nil
}

// AnyLocked reports whether any of the dates falls in the locked week. One
// frozen delivery freezes the whole order; partial edits of a multi-date
// order are never allowed.
func AnyLocked(dates []time.Time, p Policy, now time.Time) (bool, error) {
	locked, err := LockedWeekStart(p, now)
	if err != nil {
		return false, err
	}
	for _, d := range dates {
		if calendar.InWeek(d, locked) {
			return true, nil
		}
	}
	return false, nil
}

// EarliestEffectiveDate returns the first Sunday on which a change saved now
// can take effect: the Sunday immediately after the locked week.
func EarliestEffectiveDate(p Policy, now time.Time) (time.Time, error) {
	locked, err := LockedWeekStart(p, now)
	if err != nil {
		return time.Time{}, err
	}
	return locked.AddDate(0, 0, 7), nil
}
