package calendar

import "math"

const (
	persianJdStart = 1948321 // 1 Farvardin 1
	persianJdEnd   = math.MaxInt64 / 4
	// persianMaxYear bounds the year before conversion so the arithmetic
	// cannot overflow. Years below it may still end past persianJdEnd.
	persianMaxYear = persianJdEnd/365 + 1

	persianEpoch      = 1948320
	persianCycleDays  = 1029983 // days in a 2820-year cycle
	persianCycleYears = 2820

	// persianCycleBase is 1 Farvardin 475, the start of the first full cycle.
	persianCycleBase = 2121446
)

// Persian is the arithmetic Jalali calendar using the 2820-year cycle.
type Persian struct{}

func (Persian) System() System { return SystemPersian }

func (Persian) JdStart() int { return persianJdStart }

func (Persian) JdEnd() int { return persianJdEnd }

func (Persian) MonthsInYear(int) int { return 12 }

// IsLeapYear reports whether Esfand has 30 days in year.
func (Persian) IsLeapYear(year int) bool {
	return persianLeap(year)
}

// DaysInMonth returns 31 for the first six months, 30 for the next five and
// 29 or 30 for Esfand.
func (p Persian) DaysInMonth(year, month int) (int, error) {
	return persianDaysInMonth(year, month)
}

// YmdToJd converts a Jalali date to a Julian Day Number.
func (p Persian) YmdToJd(year, month, day int) (int, error) {
	const op = "persian.YmdToJd"
	if year > persianMaxYear {
		return 0, newError(ErrOverflow, SystemPersian, op, year)
	}
	if err := checkDay(p, op, year, month, day); err != nil {
		return 0, err
	}
	jd := persianToJd(year, month, day)
	if jd > persianJdEnd {
		return 0, newError(ErrOverflow, SystemPersian, op, year)
	}
	return jd, nil
}

// JdToYmd converts a Julian Day Number to a Jalali date.
func (p Persian) JdToYmd(jd int) (Date, error) {
	if err := checkJd(p, "persian.JdToYmd", jd); err != nil {
		return Date{}, err
	}
	return jdToPersian(jd, persianCycleBase), nil
}

// PersianReference reproduces the Jalali conversion of the PHP calendar
// library, including its one-day offset in the reverse direction: the first
// day of every year is reported as day 1 of a nonexistent month 13 of the
// previous year. YmdToJd accepts those dates, and days past the end of a
// month, so that day numbers still round-trip.
type PersianReference struct{}

func (PersianReference) System() System { return SystemPersian }

func (PersianReference) JdStart() int { return persianJdStart }

func (PersianReference) JdEnd() int { return persianJdEnd }

func (PersianReference) MonthsInYear(int) int { return 12 }

func (PersianReference) IsLeapYear(year int) bool {
	return persianLeap(year)
}

func (PersianReference) DaysInMonth(year, month int) (int, error) {
	return persianDaysInMonth(year, month)
}

// YmdToJd converts without checking the day against the month length.
func (PersianReference) YmdToJd(year, month, day int) (int, error) {
	const op = "persian.YmdToJd"
	if year < 1 {
		return 0, newError(ErrInvalidYear, SystemPersian, op, year)
	}
	if year > persianMaxYear {
		return 0, newError(ErrOverflow, SystemPersian, op, year)
	}
	if month < 1 || month > 13 {
		return 0, newError(ErrInvalidMonth, SystemPersian, op, month)
	}
	if day < 1 || day > persianJdEnd {
		return 0, newError(ErrInvalidDay, SystemPersian, op, day)
	}
	jd := persianToJd(year, month, day)
	if jd > persianJdEnd {
		return 0, newError(ErrOverflow, SystemPersian, op, year)
	}
	return jd, nil
}

func (p PersianReference) JdToYmd(jd int) (Date, error) {
	if err := checkJd(p, "persian.JdToYmd", jd); err != nil {
		return Date{}, err
	}
	return jdToPersian(jd, persianCycleBase+1), nil
}

func persianLeap(year int) bool {
	base := 474
	if year <= 0 {
		base = 473
	}
	return ((floorMod(year-base, persianCycleYears)+474+38)*682)%2816 < 682
}

func persianDaysInMonth(year, month int) (int, error) {
	const op = "persian.DaysInMonth"
	if year < 1 {
		return 0, newError(ErrInvalidYear, SystemPersian, op, year)
	}
	if month < 1 || month > 12 {
		return 0, newError(ErrInvalidMonth, SystemPersian, op, month)
	}
	switch {
	case month <= 6:
		return 31, nil
	case month <= 11:
		return 30, nil
	case persianLeap(year):
		return 30, nil
	default:
		return 29, nil
	}
}

func persianToJd(year, month, day int) int {
	epbase := year - 474
	if year < 0 {
		epbase = year - 473
	}
	epyear := 474 + floorMod(epbase, persianCycleYears)

	var monthDays int
	if month <= 7 {
		monthDays = (month - 1) * 31
	} else {
		monthDays = (month-1)*30 + 6
	}

	return day + monthDays +
		(epyear*682-110)/2816 +
		(epyear-1)*365 +
		floorDiv(epbase, persianCycleYears)*persianCycleDays +
		persianEpoch
}

func jdToPersian(jd, base int) Date {
	depoch := jd - base
	cycle := floorDiv(depoch, persianCycleDays)
	cyear := floorMod(depoch, persianCycleDays)

	var ycycle int
	if cyear == persianCycleDays-1 {
		ycycle = persianCycleYears
	} else {
		aux1 := cyear / 366
		aux2 := cyear % 366
		ycycle = (2134*aux1+2816*aux2+2815)/1028522 + aux1 + 1
	}

	year := ycycle + persianCycleYears*cycle + 474
	yday := jd - persianToJd(year, 1, 1) + 1

	var month int
	if yday <= 186 {
		month = (yday + 30) / 31
	} else {
		month = (yday - 6 + 29) / 30
	}
	day := jd - persianToJd(year, month, 1) + 1
	return Date{Year: year, Month: month, Day: day}
}
