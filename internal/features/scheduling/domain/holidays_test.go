package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEasterSunday verifies the Gregorian Easter computation against known dates.
func TestEasterSunday(t *testing.T) {
	cases := map[int]string{
		2023: "2023-04-09",
		2024: "2024-03-31",
		2025: "2025-04-20",
		2026: "2026-04-05",
	}

	for year, want := range cases {
		assert.Equal(t, want, EasterSunday(year).Format(DateLayout), "year %d", year)
	}
}

// TestHolidaysForYear_Fixed verifies the eight fixed national holidays.
func TestHolidaysForYear_Fixed(t *testing.T) {
	holidays := HolidaysForYear(2024)

	fixed := []string{
		"2024-01-01",
		"2024-05-01",
		"2024-05-24",
		"2024-08-10",
		"2024-10-09",
		"2024-11-02",
		"2024-11-03",
		"2024-12-25",
	}
	for _, d := range fixed {
		assert.Contains(t, holidays, d)
	}
}

// TestHolidaysForYear_EasterRelative verifies Carnival and Good Friday for 2024
// (Easter Sunday = 2024-03-31).
func TestHolidaysForYear_EasterRelative(t *testing.T) {
	holidays := HolidaysForYear(2024)

	assert.Contains(t, holidays, "2024-02-12") // Carnival Monday
	assert.Contains(t, holidays, "2024-02-13") // Carnival Tuesday
	assert.Contains(t, holidays, "2024-03-29") // Good Friday

	assert.Len(t, holidays, 11)
}

// TestHolidaysForYear_Deterministic verifies the calendar is a pure function.
func TestHolidaysForYear_Deterministic(t *testing.T) {
	assert.Equal(t, HolidaysForYear(2030), HolidaysForYear(2030))
}

// TestHolidaysForYear_EasterIsNotAHoliday documents that Easter Sunday itself
// is not part of the set, only its relative dates.
func TestHolidaysForYear_EasterIsNotAHoliday(t *testing.T) {
	holidays := HolidaysForYear(2024)
	easter := EasterSunday(2024).Format(DateLayout)

	_, ok := holidays[easter]
	assert.False(t, ok)
}
