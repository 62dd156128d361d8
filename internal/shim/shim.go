// Package shim reproduces the functions of PHP's ext/calendar on top of the
// calendar package, including the sentinel values and historical bugs that
// callers of the extension depend on.
package shim

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/zapponejosh/calendar-api/internal/calendar"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrInvalidCalendar is returned for a calendar ID outside 0..3.
	ErrInvalidCalendar = errors.New("invalid calendar ID")

	// ErrInvalidDate is returned by CalDaysInMonth for a month or year the
	// calendar does not have.
	ErrInvalidDate = errors.New("invalid date")

	// ErrYearOutOfRange is returned by JDToJewish when Hebrew output is
	// requested for a year past 9999.
	ErrYearOutOfRange = errors.New("year out of range (0-9999)")

	// ErrEasterRange is returned by EasterDate outside the 32-bit Unix era.
	ErrEasterRange = errors.New("easter date is only valid for years between 1970 and 2037 inclusive")
)

// =============================================================================
// Shim
// =============================================================================

// Options selects which historical behaviours to emulate.
type Options struct {
	// EmulateBug54254 reports Adar in common years as month 6, as PHP did
	// before 5.5, and uses the AdarI/AdarII month names.
	EmulateBug54254 bool

	// EmulateBug67960 swaps the values of CAL_DOW_SHORT and CAL_DOW_LONG.
	EmulateBug67960 bool

	// EmulateBug67976 makes CalDaysInMonth return a negative length for the
	// last month of French year XIV.
	EmulateBug67976 bool

	// Location is the time zone of EasterDate's midnight. Defaults to time.Local.
	Location *time.Location
}

// DefaultOptions matches a current PHP build: bugs 67960 and 67976 are
// still present, bug 54254 is fixed.
func DefaultOptions() Options {
	return Options{
		EmulateBug67960: true,
		EmulateBug67976: true,
		Location:        time.Local,
	}
}

// Shim holds the calendars behind the ext/calendar functions. It is
// immutable and safe for concurrent use.
type Shim struct {
	opts      Options
	gregorian calendar.Gregorian
	julian    calendar.Julian
	jewish    calendar.Jewish
	french    calendar.French
}

// New creates a Shim.
func New(opts Options) *Shim {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Shim{
		opts:   opts,
		jewish: calendar.Jewish{EmulateBug54254: opts.EmulateBug54254},
	}
}

// Options returns the behaviours this shim emulates.
func (s *Shim) Options() Options {
	return s.opts
}

// DowModes returns the values PHP defines for CAL_DOW_SHORT and CAL_DOW_LONG.
func (s *Shim) DowModes() (short, long int) {
	if s.opts.EmulateBug67960 {
		return DowShort, DowLong
	}
	return DowLong, DowShort
}

func (s *Shim) calendarFor(id int) (calendar.Calendar, error) {
	switch id {
	case CalGregorian:
		return s.gregorian, nil
	case CalJulian:
		return s.julian, nil
	case CalJewish:
		return s.jewish, nil
	case CalFrench:
		return s.french, nil
	default:
		return nil, fmt.Errorf("%w %d", ErrInvalidCalendar, id)
	}
}

// =============================================================================
// cal_* functions
// =============================================================================

// CalDaysInMonth returns the number of days in a month.
func (s *Shim) CalDaysInMonth(calID, month, year int) (int, error) {
	switch calID {
	case CalFrench:
		if month == 13 && year == 14 && s.opts.EmulateBug67976 {
			return bug67976DaysInMonth, nil
		}
		if year < 1 || year > 14 || month < 1 || month > 13 {
			return 0, ErrInvalidDate
		}
		return s.french.DaysInMonth(year, month)

	case CalGregorian, CalJulian:
		if year == 0 || month < 1 || month > 12 {
			return 0, ErrInvalidDate
		}
		cal, _ := s.calendarFor(calID)
		return cal.DaysInMonth(year, month)

	case CalJewish:
		if year < 1 || month < 1 || month > 13 {
			return 0, ErrInvalidDate
		}
		return s.jewish.DaysInMonth(year, month)

	default:
		return 0, fmt.Errorf("%w %d", ErrInvalidCalendar, calID)
	}
}

// CalDate is the result of CalFromJD.
type CalDate struct {
	Date          string `json:"date"`
	Month         int    `json:"month"`
	Day           int    `json:"day"`
	Year          int    `json:"year"`
	DayOfWeek     int    `json:"dow"`
	AbbrevDayName string `json:"abbrevdayname"`
	DayName       string `json:"dayname"`
	AbbrevMonth   string `json:"abbrevmonth"`
	MonthName     string `json:"monthname"`
}

// CalFromJD converts a Julian Day Number into a date with its names.
// A day outside the calendar's range yields the date "0/0/0" with empty
// month names.
func (s *Shim) CalFromJD(jd, calID int) (CalDate, error) {
	var (
		date        calendar.Date
		month, abbr string
	)
	switch calID {
	case CalFrench:
		date = s.jdToDate(s.french, jd)
		month = calendar.MonthName(calendar.SystemFrench, date.Year, date.Month)
		abbr = month
	case CalGregorian:
		date = s.jdToDate(s.gregorian, jd)
		month = calendar.MonthName(calendar.SystemGregorian, date.Year, date.Month)
		abbr = calendar.MonthNameShort(calendar.SystemGregorian, date.Year, date.Month)
	case CalJulian:
		date = s.jdToDate(s.julian, jd)
		month = calendar.MonthName(calendar.SystemJulian, date.Year, date.Month)
		abbr = calendar.MonthNameShort(calendar.SystemJulian, date.Year, date.Month)
	case CalJewish:
		date = s.jdToDate(s.jewish, jd)
		month = s.jewish.MonthName(date.Year, date.Month)
		abbr = month
	default:
		return CalDate{}, fmt.Errorf("%w %d", ErrInvalidCalendar, calID)
	}

	dow := calendar.DayOfWeek(jd)
	return CalDate{
		Date:          formatDate(date),
		Month:         date.Month,
		Day:           date.Day,
		Year:          date.Year,
		DayOfWeek:     int(dow),
		AbbrevDayName: dow.Short(),
		DayName:       dow.String(),
		AbbrevMonth:   abbr,
		MonthName:     month,
	}, nil
}

// CalInfo returns the metadata of one calendar.
func (s *Shim) CalInfo(calID int) (calendar.Info, error) {
	switch calID {
	case CalGregorian:
		return calendar.CalendarInfo(calendar.SystemGregorian), nil
	case CalJulian:
		return calendar.CalendarInfo(calendar.SystemJulian), nil
	case CalJewish:
		info := calendar.CalendarInfo(calendar.SystemJewish)
		if s.opts.EmulateBug54254 {
			info.Months = calendar.JewishMonthNamesBug54254()
			info.AbbrevMonths = calendar.JewishMonthNamesBug54254()
		}
		return info, nil
	case CalFrench:
		return calendar.CalendarInfo(calendar.SystemFrench), nil
	default:
		return calendar.Info{}, fmt.Errorf("%w %d", ErrInvalidCalendar, calID)
	}
}

// CalInfoAll returns the metadata of every calendar, keyed by calendar ID.
func (s *Shim) CalInfoAll() map[int]calendar.Info {
	all := make(map[int]calendar.Info, CalNumCals)
	for id := range CalNumCals {
		info, _ := s.CalInfo(id)
		all[id] = info
	}
	return all
}

// CalToJD converts a date into a Julian Day Number.
func (s *Shim) CalToJD(calID, month, day, year int) (int, error) {
	switch calID {
	case CalFrench:
		return s.FrenchToJD(month, day, year), nil
	case CalGregorian:
		return s.GregorianToJD(month, day, year), nil
	case CalJewish:
		return s.JewishToJD(month, day, year), nil
	case CalJulian:
		return s.JulianToJD(month, day, year), nil
	default:
		return 0, fmt.Errorf("%w %d", ErrInvalidCalendar, calID)
	}
}

// =============================================================================
// Easter
// =============================================================================

// EasterDate returns the Unix timestamp of midnight at the start of Easter
// Sunday in the shim's time zone.
func (s *Shim) EasterDate(year int) (int64, error) {
	if year < 1970 || year > 2037 {
		return 0, ErrEasterRange
	}
	date, err := calendar.EasterDate(year, calendar.SystemGregorian)
	if err != nil {
		return 0, err
	}
	midnight := time.Date(date.Year, time.Month(date.Month), date.Day, 0, 0, 0, 0, s.opts.Location)
	return midnight.Unix(), nil
}

// EasterDays returns the number of days after 21 March on which Easter falls.
// Unknown methods behave like EasterDefault.
func (s *Shim) EasterDays(year, method int) int {
	return calendar.EasterDays(year, calendar.EasterMethod(method))
}

// =============================================================================
// *ToJD
// =============================================================================

// FrenchToJD converts a French Republican date. Years before I yield 0.
func (s *Shim) FrenchToJD(month, day, year int) int {
	if year <= 0 {
		return 0
	}
	return lenientToJd(s.french, year, month, day)
}

// GregorianToJD converts a Gregorian date. Year zero yields 0.
func (s *Shim) GregorianToJD(month, day, year int) int {
	if year == 0 {
		return 0
	}
	return lenientToJd(s.gregorian, year, month, day)
}

// JewishToJD converts a Jewish date. Years before 1 yield 0.
func (s *Shim) JewishToJD(month, day, year int) int {
	if year <= 0 {
		return 0
	}
	return lenientToJd(s.jewish, year, month, day)
}

// JulianToJD converts a Julian date. Year zero yields 0.
func (s *Shim) JulianToJD(month, day, year int) int {
	if year == 0 {
		return 0
	}
	return lenientToJd(s.julian, year, month, day)
}

// lenientToJd counts day from the first of the month without checking it
// against the month length, so 30 February is 2 March. A month or year the
// calendar rejects yields 0.
func lenientToJd(cal calendar.Calendar, year, month, day int) int {
	if j, ok := cal.(calendar.Jewish); ok && month == calendar.AdarI && !j.IsLeapYear(year) {
		month = calendar.AdarII
	}
	start, err := cal.YmdToJd(year, month, 1)
	if err != nil {
		return 0
	}
	return start + day - 1
}

// =============================================================================
// JDTo*
// =============================================================================

// JDDayOfWeek returns the weekday of jd. Mode 1 gives the long name, mode 2
// the abbreviation and any other mode the day number (0 = Sunday) in decimal.
func (s *Shim) JDDayOfWeek(jd, mode int) string {
	dow := calendar.DayOfWeek(jd)
	switch mode {
	case 1:
		return dow.String()
	case 2:
		return dow.Short()
	default:
		return strconv.Itoa(int(dow))
	}
}

// JDMonthName returns the month name of jd in the calendar selected by mode.
// Unknown modes behave like MonthGregorianShort.
func (s *Shim) JDMonthName(jd, mode int) string {
	switch mode {
	case MonthGregorianLong:
		date, _ := s.gregorian.JdToYmd(jd)
		return calendar.MonthName(calendar.SystemGregorian, date.Year, date.Month)
	case MonthJulianLong:
		date, _ := s.julian.JdToYmd(jd)
		return calendar.MonthName(calendar.SystemJulian, date.Year, date.Month)
	case MonthJulianShort:
		date, _ := s.julian.JdToYmd(jd)
		return calendar.MonthNameShort(calendar.SystemJulian, date.Year, date.Month)
	case MonthJewish:
		date, _ := s.jewish.JdToYmd(jd)
		return s.jewish.MonthName(date.Year, date.Month)
	case MonthFrench:
		date, _ := s.french.JdToYmd(jd)
		return calendar.MonthName(calendar.SystemFrench, date.Year, date.Month)
	default:
		date, _ := s.gregorian.JdToYmd(jd)
		return calendar.MonthNameShort(calendar.SystemGregorian, date.Year, date.Month)
	}
}

// JDToFrench returns "month/day/year", or "0/0/0" outside years I to XIV.
func (s *Shim) JDToFrench(jd int) string {
	date := s.jdToDate(s.french, jd)
	return formatDate(date)
}

// JDToGregorian returns "month/day/year", or "0/0/0" outside the calendar.
func (s *Shim) JDToGregorian(jd int) string {
	date := s.jdToDate(s.gregorian, jd)
	return formatDate(date)
}

// JDToJulian returns "month/day/year", or "0/0/0" outside the calendar.
func (s *Shim) JDToJulian(jd int) string {
	date := s.jdToDate(s.julian, jd)
	return formatDate(date)
}

// JDToJewish returns "month/day/year", or in Hebrew mode the date written in
// Hebrew letters using the JewishAdd* flags.
func (s *Shim) JDToJewish(jd int, hebrew bool, flags int) (string, error) {
	if !hebrew {
		date := s.jdToDate(s.jewish, jd)
		return formatDate(date), nil
	}

	mask := JewishAddAlafimGeresh | JewishAddAlafim | JewishAddGereshayim
	text, err := s.jewish.JdToHebrew(jd, calendar.NumeralFlag(flags&mask))
	if calendar.IsOutOfRange(err) {
		return "", ErrYearOutOfRange
	}
	return text, err
}

// JDToUnix returns the Unix timestamp of midnight UTC on jd. The second
// result is false outside 1970-01-01 to 2038-01-19.
func (s *Shim) JDToUnix(jd int) (int64, bool) {
	if jd < unixEpochJd || jd > unixMaxJd {
		return 0, false
	}
	return int64(jd-unixEpochJd) * secondsPerDay, true
}

// UnixToJD returns the Julian Day Number of the UTC date of a Unix
// timestamp. The second result is false for timestamps before 1970.
func (s *Shim) UnixToJD(timestamp int64) (int, bool) {
	if timestamp < 0 {
		return 0, false
	}
	t := time.Unix(timestamp, 0).UTC()
	return s.GregorianToJD(int(t.Month()), t.Day(), t.Year()), true
}

// jdToDate returns the zero Date for a day outside the calendar.
func (s *Shim) jdToDate(cal calendar.Calendar, jd int) calendar.Date {
	date, err := cal.JdToYmd(jd)
	if err != nil {
		return calendar.Date{}
	}
	return date
}

func formatDate(d calendar.Date) string {
	if d == (calendar.Date{}) {
		return emptyDate
	}
	return strconv.Itoa(d.Month) + "/" + strconv.Itoa(d.Day) + "/" + strconv.Itoa(d.Year)
}
