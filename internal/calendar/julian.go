package calendar

const (
	// julianJdEnd keeps the year inside a signed 32-bit integer.
	julianJdEnd = 784368370349

	julianMaxYear = 2147478848
	julianMinYear = -4713
)

// Julian is the proleptic Julian calendar.
// Years count 1 BCE as -1; there is no year zero.
type Julian struct{}

func (Julian) System() System { return SystemJulian }

func (Julian) JdStart() int { return 1 }

func (Julian) JdEnd() int { return julianJdEnd }

func (Julian) MonthsInYear(int) int { return 12 }

// IsLeapYear reports whether the astronomical year is divisible by four.
func (Julian) IsLeapYear(year int) bool {
	return astronomicalYear(year)%4 == 0
}

func (j Julian) DaysInMonth(year, month int) (int, error) {
	return solarDaysInMonth(j, year, month)
}

// YmdToJd converts a Julian date to a Julian Day Number.
func (j Julian) YmdToJd(year, month, day int) (int, error) {
	const op = "julian.YmdToJd"
	if err := checkDay(j, op, year, month, day); err != nil {
		return 0, err
	}
	if year > julianMaxYear {
		return 0, newError(ErrOverflow, SystemJulian, op, year)
	}
	if year < julianMinYear {
		return 0, newError(ErrOutOfRange, SystemJulian, op, year)
	}

	jd := julianToJd(year, month, day)
	if err := checkJd(j, op, jd); err != nil {
		return 0, err
	}
	return jd, nil
}

// JdToYmd converts a Julian Day Number to a Julian date.
func (j Julian) JdToYmd(jd int) (Date, error) {
	if err := checkJd(j, "julian.JdToYmd", jd); err != nil {
		return Date{}, err
	}
	return jdToJulian(jd), nil
}

func julianToJd(year, month, day int) int {
	year = astronomicalYear(year)
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - 32083
}

func jdToJulian(jd int) Date {
	c := jd + 32082
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153

	day := e - (153*m+2)/5 + 1
	month := m + 3 - 12*(m/10)
	year := d - 4800 + m/10

	return Date{Year: historicalYear(year), Month: month, Day: day}
}
