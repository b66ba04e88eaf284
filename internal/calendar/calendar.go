package calendar

import "time"

// The delivery week runs Sunday 00:00:00.000 through Saturday 23:59:59.999.
// Day numbers are fixed: Sunday=0 .. Saturday=6. Every weekday lookup in the
// engine goes through this table; there is no second encoding.
var dayNumbers = map[string]int{
	"Sunday":    0,
	"Monday":    1,
	"Tuesday":   2,
	"Wednesday": 3,
	"Thursday":  4,
	"Friday":    5,
	"Saturday":  6,
}

var dayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

const weekEndOffset = 23*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond

// DayNumber resolves a day name to its number (Sunday=0).
func DayNumber(name string) (int, bool) {
	n, ok := dayNumbers[name]
	return n, ok
}

// DayName returns the name for a day number (0..6).
func DayName(n int) (string, bool) {
	if n < 0 || n > 6 {
		return "", false
	}
	return dayNames[n], true
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the latest Sunday 00:00 at or before t. Idempotent.
func WeekStart(t time.Time) time.Time {
	d := StartOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekEnd returns the Saturday 23:59:59.999 closing the week containing t.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6).Add(weekEndOffset)
}

// InWeek reports whether t falls inside the week starting at weekStart,
// inclusive on both ends.
func InWeek(t, weekStart time.Time) bool {
	ws := WeekStart(weekStart)
	return !t.Before(ws) && !t.After(WeekEnd(ws))
}
