package schedule

import (
	"time"

	"github.com/platefull/weekplan/internal/calendar"
)

// DefaultHorizonDays bounds the forward search for the next delivery day.
const DefaultHorizonDays = 14

// NextOccurrence scans forward from `from` (inclusive) for the first date
// whose weekday is in dayNumbers. An empty set yields no result. Only valid
// for "next upcoming" queries; reconciliation over a pinned week must use
// OccurrenceInWeek instead.
func NextOccurrence(dayNumbers []int, from time.Time, horizonDays int) (time.Time, bool) {
	if len(dayNumbers) == 0 {
		return time.Time{}, false
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	wanted := make(map[int]struct{}, len(dayNumbers))
	for _, n := range dayNumbers {
		wanted[n] = struct{}{}
	}
	start := calendar.StartOfDay(from)
	for i := 0; i <= horizonDays; i++ {
		d := start.AddDate(0, 0, i)
		if _, ok := wanted[int(d.Weekday())]; ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// OccurrenceInWeek places dayName inside the week starting at weekStart by
// direct offset. No searching; the target week is already fixed.
func OccurrenceInWeek(weekStart time.Time, dayName string) (time.Time, bool) {
	n, ok := calendar.DayNumber(dayName)
	if !ok {
		return time.Time{}, false
	}
	return calendar.WeekStart(weekStart).AddDate(0, 0, n), true
}

// FirstDeliveryDateInWeek returns the date of the first configured delivery
// day that lands inside the target week, honoring the order of the vendor's
// configured day list.
func FirstDeliveryDateInWeek(weekStart time.Time, deliveryDays []string) (time.Time, bool) {
	for _, day := range deliveryDays {
		if d, ok := OccurrenceInWeek(weekStart, day); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// DayNumbers maps day names through the calendar table, dropping unknown
// names.
func DayNumbers(dayNames []string) []int {
	out := make([]int, 0, len(dayNames))
	for _, name := range dayNames {
		if n, ok := calendar.DayNumber(name); ok {
			out = append(out, n)
		}
	}
	return out
}
