package domain

import "strconv"

// Period is a concrete weekly meeting instance: a day in [0, days_per_week)
// paired with a slot in [0, periods_per_day) (§3).
type Period struct {
	Day  int
	Slot int
}

// Key returns the "day-slot" concatenation spec.md §3 defines as the period
// key. Equality of keys must be exact; ordering is irrelevant.
func (p Period) Key() string {
	return strconv.Itoa(p.Day) + "-" + strconv.Itoa(p.Slot)
}

// WeekPeriods returns the period at the given slot on every day of the week,
// the shape TimeAssigner commits to a section (§4.2: "set the section's
// periods to {(d, s) : d ∈ [0, days_per_week)}").
func WeekPeriods(daysPerWeek, slot int) []Period {
	periods := make([]Period, daysPerWeek)
	for d := 0; d < daysPerWeek; d++ {
		periods[d] = Period{Day: d, Slot: slot}
	}
	return periods
}
