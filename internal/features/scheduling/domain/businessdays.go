package domain

import "time"

// AddBusinessDays returns the date n business days after start. The walk
// advances one calendar day at a time and only counts days that are neither
// a weekend nor a public holiday. Holiday sets are resolved per year as the
// walk progresses, so ranges that cross a year boundary pick up the next
// year's holidays too.
func AddBusinessDays(start time.Time, n int) time.Time {
	holidaysByYear := map[int]map[string]struct{}{}

	date := start
	counted := 0
	for counted < n {
		date = date.AddDate(0, 0, 1)

		holidays, ok := holidaysByYear[date.Year()]
		if !ok {
			holidays = HolidaysForYear(date.Year())
			holidaysByYear[date.Year()] = holidays
		}

		if isWeekend(date) {
			continue
		}
		if _, holiday := holidays[date.Format(DateLayout)]; holiday {
			continue
		}
		counted++
	}
	return date
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
