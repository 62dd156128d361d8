package calendar

import "math"

const (
	arabicJdStart = 1948439 // 1 Muharram 1
	arabicJdEnd   = math.MaxInt64 / 32
	arabicMaxYear = arabicJdEnd / 354
)

// Arabic is the tabular Islamic (Hijri) calendar with a 30-year cycle of
// eleven leap years.
type Arabic struct{}

func (Arabic) System() System { return SystemArabic }

func (Arabic) JdStart() int { return arabicJdStart }

func (Arabic) JdEnd() int { return arabicJdEnd }

func (Arabic) MonthsInYear(int) int { return 12 }

// IsLeapYear reports whether Dhu al-Hijjah has 30 days in year.
func (Arabic) IsLeapYear(year int) bool {
	return floorMod(11*year+14, 30) < 11
}

// DaysInMonth alternates 30 and 29 days, with a 30th day added to the last
// month of a leap year.
func (a Arabic) DaysInMonth(year, month int) (int, error) {
	const op = "arabic.DaysInMonth"
	if year < 1 {
		return 0, newError(ErrInvalidYear, SystemArabic, op, year)
	}
	if month < 1 || month > 12 {
		return 0, newError(ErrInvalidMonth, SystemArabic, op, month)
	}
	if month%2 == 1 || (month == 12 && a.IsLeapYear(year)) {
		return 30, nil
	}
	return 29, nil
}

// YmdToJd converts a Hijri date to a Julian Day Number.
func (a Arabic) YmdToJd(year, month, day int) (int, error) {
	const op = "arabic.YmdToJd"
	if year > arabicMaxYear {
		return 0, newError(ErrOverflow, SystemArabic, op, year)
	}
	if err := checkDay(a, op, year, month, day); err != nil {
		return 0, err
	}

	jd := day + 29*(month-1) + (6*month-1)/11 + 354*year + (3+11*year)/30 + 1948084
	if jd > arabicJdEnd {
		return 0, newError(ErrOverflow, SystemArabic, op, year)
	}
	return jd, nil
}

// JdToYmd converts a Julian Day Number to a Hijri date.
func (a Arabic) JdToYmd(jd int) (Date, error) {
	if err := checkJd(a, "arabic.JdToYmd", jd); err != nil {
		return Date{}, err
	}

	year := (30*(jd-1948439) + 10646) / 10631
	month := (11*(jd-year*354-(3+11*year)/30-1948085) + 330) / 325
	day := jd - 29*(month-1) - (6*month-1)/11 - year*354 - (3+11*year)/30 - 1948084
	return Date{Year: year, Month: month, Day: day}, nil
}
