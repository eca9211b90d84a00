package recipe

import "time"

// DayIndex maps a calendar day onto [0, n). The day is taken in now's own
// location, so callers pick the zone by converting now first. It returns -1
// when n is not positive.
func DayIndex(now time.Time, n int) int {
	if n <= 0 {
		return -1
	}
	// Days elapsed since 1 January: 0 on New Year's Day.
	return (now.YearDay() - 1) % n
}

// OfTheDay returns the recipe spotlighted on now's calendar day. The same
// day and the same dataset always give the same recipe; an empty dataset
// gives none.
func OfTheDay(recipes []Recipe, now time.Time) (Recipe, bool) {
	idx := DayIndex(now, len(recipes))
	if idx < 0 {
		return Recipe{}, false
	}
	return recipes[idx], true
}
