package calendar

import (
	"fmt"
	"strings"
)

// EasterMethod selects which reckoning EasterDays uses for a year.
// The values match the PHP CAL_EASTER_* constants.
type EasterMethod int

const (
	// EasterDefault uses the Julian reckoning up to 1752, when Britain and
	// its colonies adopted the Gregorian calendar.
	EasterDefault EasterMethod = iota

	// EasterRoman uses the Julian reckoning up to 1582.
	EasterRoman

	EasterAlwaysGregorian
	EasterAlwaysJulian
)

// ParseEasterMethod accepts "default", "roman", "gregorian" or "julian".
func ParseEasterMethod(name string) (EasterMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return EasterDefault, nil
	case "roman":
		return EasterRoman, nil
	case "gregorian":
		return EasterAlwaysGregorian, nil
	case "julian":
		return EasterAlwaysJulian, nil
	default:
		return 0, fmt.Errorf("unknown easter method %q", name)
	}
}

func (m EasterMethod) String() string {
	switch m {
	case EasterRoman:
		return "roman"
	case EasterAlwaysGregorian:
		return "gregorian"
	case EasterAlwaysJulian:
		return "julian"
	default:
		return "default"
	}
}

// Reckoning returns the calendar whose computus applies to year.
func (m EasterMethod) Reckoning(year int) System {
	switch m {
	case EasterRoman:
		if year <= 1582 {
			return SystemJulian
		}
	case EasterAlwaysGregorian:
		return SystemGregorian
	case EasterAlwaysJulian:
		return SystemJulian
	default:
		if year <= 1752 {
			return SystemJulian
		}
	}
	return SystemGregorian
}

// EasterDays returns the number of days after 21 March on which Easter
// Sunday falls, choosing the reckoning by method.
func EasterDays(year int, method EasterMethod) int {
	if method.Reckoning(year) == SystemJulian {
		return EasterDaysJulian(year)
	}
	return EasterDaysGregorian(year)
}

// EasterDaysJulian applies the Julian computus: the golden number locates
// the paschal full moon and the dominical number the following Sunday.
func EasterDaysJulian(year int) int {
	golden := 1 + year%19
	dominical := floorMod(year+year/4+5, 7)
	pfm := floorMod(3-11*golden-7, 30)
	return pfm + floorMod(4-pfm-dominical, 7) + 1
}

// EasterDaysGregorian applies the Gregorian computus, adding the solar and
// lunar corrections to the Julian epact.
func EasterDaysGregorian(year int) int {
	golden := 1 + year%19
	dominical := floorMod(year+year/4-year/100+year/400, 7)
	solar := (year-1600)/100 - (year-1600)/400
	lunar := ((year - 1400) / 100 * 8) / 25

	pfm := floorMod(3-11*golden+solar-lunar, 30)
	if pfm == 29 || (pfm == 28 && golden > 11) {
		pfm--
	}
	return pfm + floorMod(4-pfm-dominical, 7) + 1
}

// EasterDate returns Easter Sunday as a date in the reckoning's own calendar.
func EasterDate(year int, reckoning System) (Date, error) {
	var days int
	switch reckoning {
	case SystemGregorian:
		days = EasterDaysGregorian(year)
	case SystemJulian:
		days = EasterDaysJulian(year)
	default:
		return Date{}, fmt.Errorf("easter is only defined for the gregorian and julian calendars, not %s", reckoning)
	}
	return easterDate(year, days), nil
}

// EasterJd returns the Julian Day Number of Easter Sunday.
func EasterJd(year int, reckoning System) (int, error) {
	date, err := EasterDate(year, reckoning)
	if err != nil {
		return 0, err
	}
	cal, err := For(reckoning)
	if err != nil {
		return 0, err
	}
	return cal.YmdToJd(date.Year, date.Month, date.Day)
}

func easterDate(year, days int) Date {
	if days < 11 {
		return Date{Year: year, Month: 3, Day: days + 21}
	}
	return Date{Year: year, Month: 4, Day: days - 10}
}
