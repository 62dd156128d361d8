// Package calendar converts between Julian Day Numbers and civil dates in the
// Gregorian, Julian, French Republican, Jewish, Arabic and Persian calendars.
//
// Every calendar is a stateless value type. All functions are pure and safe
// for concurrent use. Day counts are plain ints and assume a 64-bit platform.
package calendar

import (
	"fmt"
	"strings"
)

// System identifies one of the supported calendars.
type System int

const (
	SystemGregorian System = iota
	SystemJulian
	SystemJewish
	SystemFrench
	SystemArabic
	SystemPersian
)

// Systems lists every supported calendar in numeric order.
var Systems = []System{
	SystemGregorian,
	SystemJulian,
	SystemJewish,
	SystemFrench,
	SystemArabic,
	SystemPersian,
}

var systemNames = map[System]string{
	SystemGregorian: "gregorian",
	SystemJulian:    "julian",
	SystemJewish:    "jewish",
	SystemFrench:    "french",
	SystemArabic:    "arabic",
	SystemPersian:   "persian",
}

// String returns the lower-case calendar name used in URLs and CLI flags.
func (s System) String() string {
	if name, ok := systemNames[s]; ok {
		return name
	}
	return fmt.Sprintf("system(%d)", int(s))
}

// ParseSystem converts a calendar name into a System.
// Matching is case-insensitive; "hebrew", "hijri" and "jalali" are accepted
// as aliases.
func ParseSystem(name string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gregorian":
		return SystemGregorian, nil
	case "julian":
		return SystemJulian, nil
	case "jewish", "hebrew":
		return SystemJewish, nil
	case "french":
		return SystemFrench, nil
	case "arabic", "hijri":
		return SystemArabic, nil
	case "persian", "jalali":
		return SystemPersian, nil
	default:
		return 0, fmt.Errorf("unknown calendar %q", name)
	}
}

// Date is a civil date in some calendar.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String formats the date as year-month-day.
func (d Date) String() string {
	return fmt.Sprintf("%d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Calendar is the conversion contract shared by every calendar.
type Calendar interface {
	// System reports which calendar this is.
	System() System

	// IsLeapYear reports whether year has an intercalary day or month.
	IsLeapYear(year int) bool

	// MonthsInYear is the number of month slots in year.
	MonthsInYear(year int) int

	// DaysInMonth returns the length of a month.
	DaysInMonth(year, month int) (int, error)

	// YmdToJd converts a civil date into a Julian Day Number.
	YmdToJd(year, month, day int) (int, error)

	// JdToYmd converts a Julian Day Number into a civil date.
	JdToYmd(jd int) (Date, error)

	// JdStart and JdEnd bound the Julian Day Numbers this calendar converts.
	JdStart() int
	JdEnd() int
}

// For returns the calendar implementation for a system.
// The Jewish calendar uses the modern month numbering; build a Jewish value
// directly to change that.
func For(s System) (Calendar, error) {
	switch s {
	case SystemGregorian:
		return Gregorian{}, nil
	case SystemJulian:
		return Julian{}, nil
	case SystemJewish:
		return Jewish{}, nil
	case SystemFrench:
		return French{}, nil
	case SystemArabic:
		return Arabic{}, nil
	case SystemPersian:
		return Persian{}, nil
	default:
		return nil, fmt.Errorf("unknown calendar system %d", int(s))
	}
}

// MustFor is like For but panics on an unknown system.
func MustFor(s System) Calendar {
	cal, err := For(s)
	if err != nil {
		panic(err)
	}
	return cal
}

// Convert translates a civil date from one calendar into another.
func Convert(from, to Calendar, year, month, day int) (Date, error) {
	jd, err := from.YmdToJd(year, month, day)
	if err != nil {
		return Date{}, err
	}
	return to.JdToYmd(jd)
}

// YearLength returns the number of days in year by summing its months.
func YearLength(cal Calendar, year int) (int, error) {
	total := 0
	for month := 1; month <= cal.MonthsInYear(year); month++ {
		days, err := cal.DaysInMonth(year, month)
		if err != nil {
			return 0, err
		}
		total += days
	}
	return total, nil
}

// checkJd validates that jd lies inside the calendar's window.
func checkJd(cal Calendar, op string, jd int) error {
	if jd < cal.JdStart() {
		return newError(ErrOutOfRange, cal.System(), op, jd)
	}
	if jd > cal.JdEnd() {
		return newError(ErrOverflow, cal.System(), op, jd)
	}
	return nil
}

// checkDay validates day against the month length.
func checkDay(cal Calendar, op string, year, month, day int) error {
	days, err := cal.DaysInMonth(year, month)
	if err != nil {
		return err
	}
	if day < 1 || day > days {
		return newError(ErrInvalidDay, cal.System(), op, day)
	}
	return nil
}

// floorDiv and floorMod round toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - b*floorDiv(a, b)
}
