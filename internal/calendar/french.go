package calendar

const (
	frenchJdStart = 2375840 // 1 Vendémiaire I
	frenchJdEnd   = 2380952 // 5 jour complémentaire XIV
	frenchMaxYear = 14
)

// French is the French Republican calendar, limited to the years I to XIV.
// Months 1 to 12 have 30 days; month 13 holds the five or six
// complementary days.
type French struct{}

func (French) System() System { return SystemFrench }

func (French) JdStart() int { return frenchJdStart }

func (French) JdEnd() int { return frenchJdEnd }

func (French) MonthsInYear(int) int { return 13 }

// IsLeapYear reports whether year has a sixth complementary day.
func (French) IsLeapYear(year int) bool {
	return year%4 == 3
}

// DaysInMonth returns 30 for the regular months and 5 or 6 for month 13.
func (f French) DaysInMonth(year, month int) (int, error) {
	const op = "french.DaysInMonth"
	if year < 1 {
		return 0, newError(ErrInvalidYear, SystemFrench, op, year)
	}
	if year > frenchMaxYear {
		return 0, newError(ErrOutOfRange, SystemFrench, op, year)
	}
	if month < 1 || month > 13 {
		return 0, newError(ErrInvalidMonth, SystemFrench, op, month)
	}

	switch {
	case month < 13:
		return 30, nil
	case year == 14:
		// The calendar was abolished during year XIV; the conversion window
		// stops at its fifth complementary day.
		return 5, nil
	case f.IsLeapYear(year):
		return 6, nil
	default:
		return 5, nil
	}
}

// YmdToJd converts a French Republican date to a Julian Day Number.
func (f French) YmdToJd(year, month, day int) (int, error) {
	if err := checkDay(f, "french.YmdToJd", year, month, day); err != nil {
		return 0, err
	}
	return frenchToJd(year, month, day), nil
}

// JdToYmd converts a Julian Day Number to a French Republican date.
func (f French) JdToYmd(jd int) (Date, error) {
	if jd < frenchJdStart || jd > frenchJdEnd {
		return Date{}, newError(ErrOutOfRange, SystemFrench, "french.JdToYmd", jd)
	}
	return jdToFrench(jd), nil
}

func frenchToJd(year, month, day int) int {
	return 2375444 + day + month*30 + year*365 + year/4
}

func jdToFrench(jd int) Date {
	year := (jd-2375109)*4/1461 - 1
	month := (jd-2375475-year*365-year/4)/30 + 1
	day := jd - 2375444 - month*30 - year*365 - year/4
	return Date{Year: year, Month: month, Day: day}
}
