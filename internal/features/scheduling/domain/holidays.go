package domain

import "time"

// DateLayout is the calendar-date format used for holiday sets and capacity keys.
const DateLayout = "2006-01-02"

// fixedHolidays are the fixed-date Ecuadorian public holidays (month, day).
var fixedHolidays = [][2]int{
	{1, 1},   // Año Nuevo
	{5, 1},   // Día del Trabajo
	{5, 24},  // Batalla de Pichincha
	{8, 10},  // Primer Grito de Independencia
	{10, 9},  // Independencia de Guayaquil
	{11, 2},  // Día de Difuntos
	{11, 3},  // Independencia de Cuenca
	{12, 25}, // Navidad
}

// EasterSunday returns the date of Easter Sunday for the given year,
// computed with the anonymous Gregorian algorithm.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// HolidaysForYear returns the set of Ecuadorian public holidays for a year,
// keyed by their YYYY-MM-DD date string. Besides the fixed dates it includes
// the three movable, Easter-relative holidays: Carnival Monday and Tuesday
// (48 and 47 days before Easter) and Good Friday (2 days before).
func HolidaysForYear(year int) map[string]struct{} {
	holidays := make(map[string]struct{}, len(fixedHolidays)+3)

	for _, md := range fixedHolidays {
		d := time.Date(year, time.Month(md[0]), md[1], 0, 0, 0, 0, time.UTC)
		holidays[d.Format(DateLayout)] = struct{}{}
	}

	easter := EasterSunday(year)
	holidays[easter.AddDate(0, 0, -48).Format(DateLayout)] = struct{}{} // Lunes de Carnaval
	holidays[easter.AddDate(0, 0, -47).Format(DateLayout)] = struct{}{} // Martes de Carnaval
	holidays[easter.AddDate(0, 0, -2).Format(DateLayout)] = struct{}{}  // Viernes Santo

	return holidays
}
