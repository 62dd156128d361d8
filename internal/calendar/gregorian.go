package calendar

const (
	// gregorianJdEnd is the largest day number whose intermediate term
	// 4*(jd+32044)+3 fits in a signed 64-bit integer.
	gregorianJdEnd = 2305843009213661906

	// gregorianMaxYear is the year containing gregorianJdEnd.
	gregorianMaxYear = 6313183731936838

	// gregorianMinYear is the year containing JD 1 (25 November 4714 BCE).
	gregorianMinYear = -4714
)

// monthLengths holds the common-year month lengths shared by the Gregorian
// and Julian calendars.
var monthLengths = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Gregorian is the proleptic Gregorian calendar.
// Years count 1 BCE as -1; there is no year zero.
type Gregorian struct{}

func (Gregorian) System() System { return SystemGregorian }

func (Gregorian) JdStart() int { return 1 }

func (Gregorian) JdEnd() int { return gregorianJdEnd }

func (Gregorian) MonthsInYear(int) int { return 12 }

// IsLeapYear applies the 4/100/400 rule to the astronomical year.
func (Gregorian) IsLeapYear(year int) bool {
	year = astronomicalYear(year)
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func (g Gregorian) DaysInMonth(year, month int) (int, error) {
	return solarDaysInMonth(g, year, month)
}

// YmdToJd converts a Gregorian date to a Julian Day Number.
func (g Gregorian) YmdToJd(year, month, day int) (int, error) {
	const op = "gregorian.YmdToJd"
	if err := checkDay(g, op, year, month, day); err != nil {
		return 0, err
	}
	if year > gregorianMaxYear {
		return 0, newError(ErrOverflow, SystemGregorian, op, year)
	}
	if year < gregorianMinYear {
		return 0, newError(ErrOutOfRange, SystemGregorian, op, year)
	}

	jd := gregorianToJd(year, month, day)
	if err := checkJd(g, op, jd); err != nil {
		return 0, err
	}
	return jd, nil
}

// JdToYmd converts a Julian Day Number to a Gregorian date.
func (g Gregorian) JdToYmd(jd int) (Date, error) {
	if err := checkJd(g, "gregorian.JdToYmd", jd); err != nil {
		return Date{}, err
	}
	return jdToGregorian(jd), nil
}

func gregorianToJd(year, month, day int) int {
	year = astronomicalYear(year)
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

func jdToGregorian(jd int) Date {
	a := jd + 32044
	b := (4*a + 3) / 146097
	c := a - b*146097/4
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153

	day := e - (153*m+2)/5 + 1
	month := m + 3 - 12*(m/10)
	year := 100*b + d - 4800 + m/10

	return Date{Year: historicalYear(year), Month: month, Day: day}
}

// astronomicalYear maps 1 BCE to 0, 2 BCE to -1 and so on.
func astronomicalYear(year int) int {
	if year < 0 {
		return year + 1
	}
	return year
}

// historicalYear is the inverse of astronomicalYear.
func historicalYear(year int) int {
	if year < 1 {
		return year - 1
	}
	return year
}

// solarDaysInMonth serves the Gregorian and Julian calendars, which differ
// only in their leap-year rule.
func solarDaysInMonth(cal Calendar, year, month int) (int, error) {
	if year == 0 {
		return 0, newError(ErrInvalidYear, cal.System(), "DaysInMonth", year)
	}
	if month < 1 || month > 12 {
		return 0, newError(ErrInvalidMonth, cal.System(), "DaysInMonth", month)
	}
	if month == 2 && cal.IsLeapYear(year) {
		return 29, nil
	}
	return monthLengths[month], nil
}
