// Package holidays computes the Italian public-holiday calendar, including
// the movable feasts derived from Easter.
package holidays

import (
	"sort"
	"time"
)

// Holiday is a public holiday with its English and Italian names.
type Holiday struct {
	Date      time.Time `json:"date"`
	Name      string    `json:"name"`
	LocalName string    `json:"localName"`
}

type fixedHoliday struct {
	month     time.Month
	day       int
	name      string
	localName string
}

var fixedHolidays = []fixedHoliday{
	{time.January, 1, "New Year's Day", "Capodanno"},
	{time.January, 6, "Epiphany", "Epifania"},
	{time.April, 25, "Liberation Day", "Festa della Liberazione"},
	{time.May, 1, "Labour Day", "Festa del Lavoro"},
	{time.June, 2, "Republic Day", "Festa della Repubblica"},
	{time.August, 15, "Assumption of Mary", "Ferragosto"},
	{time.November, 1, "All Saints' Day", "Ognissanti"},
	{time.December, 8, "Immaculate Conception", "Immacolata Concezione"},
	{time.December, 25, "Christmas Day", "Natale"},
	{time.December, 26, "St. Stephen's Day", "Santo Stefano"},
}

// Easter returns Western Easter Sunday for a year, using the
// Meeus/Jones/Butcher algorithm.
func Easter(year int) time.Time {
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
	month := time.Month((h + l - 7*m + 114) / 31)
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ForYear returns all Italian public holidays for a year in calendar order.
func ForYear(year int) []Holiday {
	hs := make([]Holiday, 0, len(fixedHolidays)+2)
	for _, f := range fixedHolidays {
		hs = append(hs, Holiday{
			Date:      time.Date(year, f.month, f.day, 0, 0, 0, 0, time.UTC),
			Name:      f.name,
			LocalName: f.localName,
		})
	}

	easter := Easter(year)
	hs = append(hs,
		Holiday{Date: easter, Name: "Easter Sunday", LocalName: "Pasqua"},
		Holiday{Date: easter.AddDate(0, 0, 1), Name: "Easter Monday", LocalName: "Pasquetta"},
	)

	sort.Slice(hs, func(i, j int) bool { return hs[i].Date.Before(hs[j].Date) })
	return hs
}

// IsHoliday reports whether the date falls on an Italian public holiday.
func IsHoliday(t time.Time) bool {
	for _, h := range ForYear(t.Year()) {
		if h.Date.Month() == t.Month() && h.Date.Day() == t.Day() {
			return true
		}
	}
	return false
}
