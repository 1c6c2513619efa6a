package engine

import (
	"math"
	"time"
)

// DayKey is a local calendar day in canonical "YYYY-MM-DD" form.
// Lexicographic order on DayKeys matches chronological order.
type DayKey string

const dayKeyLayout = "2006-01-02"

// DayKeyOf normalizes a local time to its calendar day.
func DayKeyOf(t time.Time) DayKey {
	return DayKey(t.Format(dayKeyLayout))
}

func (d DayKey) IsValid() bool {
	_, err := time.ParseInLocation(dayKeyLayout, string(d), time.Local)
	return err == nil
}

// Time returns local midnight of the day.
func (d DayKey) Time() time.Time {
	t, err := time.ParseInLocation(dayKeyLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day n calendar days away (n may be negative).
func (d DayKey) AddDays(n int) DayKey {
	return DayKeyOf(d.Time().AddDate(0, 0, n))
}

// Weekday numbering is 0=Sunday..6=Saturday throughout.
func (d DayKey) Weekday() int {
	return int(d.Time().Weekday())
}

// DaysSince returns the number of calendar days from other to d.
// Rounding absorbs DST transitions; local midnight semantics only.
func (d DayKey) DaysSince(other DayKey) int {
	h := d.Time().Sub(other.Time()).Hours()
	return int(math.Round(h / 24))
}

// StartOfWeek returns the Monday of the week containing d.
// Weeks start Monday regardless of locale.
func StartOfWeek(d DayKey) DayKey {
	wd := d.Weekday()
	delta := 1 - wd
	if wd == 0 {
		delta = -6
	}
	return d.AddDays(delta)
}
