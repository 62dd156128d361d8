package calendar

// Jewish month numbers. Adar I exists only in leap years; in common years
// Adar is month 7.
const (
	Tishri  = 1
	Heshvan = 2
	Kislev  = 3
	Tevet   = 4
	Shevat  = 5
	AdarI   = 6
	AdarII  = 7
	Nisan   = 8
	Iyar    = 9
	Sivan   = 10
	Tammuz  = 11
	Av      = 12
	Elul    = 13
)

const (
	jewishJdStart = 347998    // 1 Tishri 1
	jewishJdEnd   = 324542846 // last day accepted by the PHP calendar extension
	jewishMaxYear = 887605    // the year containing jewishJdEnd

	// jewishTextJdEnd is the last day of year 9999, the largest year that
	// Hebrew numerals can express.
	jewishTextJdEnd = 4000075

	partsPerHour = 1080
)

// YearType classifies a Jewish year by its length.
type YearType int

const (
	Defective YearType = -1 // 353 or 383 days
	Regular   YearType = 0  // 354 or 384 days
	Complete  YearType = 1  // 355 or 385 days
)

func (t YearType) String() string {
	switch t {
	case Defective:
		return "defective"
	case Complete:
		return "complete"
	default:
		return "regular"
	}
}

// Jewish is the arithmetic Hebrew calendar.
//
// EmulateBug54254 reproduces the month numbering of PHP before 5.5, where
// Adar in a common year was reported as month 6 rather than 7.
type Jewish struct {
	EmulateBug54254 bool
}

func (Jewish) System() System { return SystemJewish }

func (Jewish) JdStart() int { return jewishJdStart }

func (Jewish) JdEnd() int { return jewishJdEnd }

// MonthsInYear is always 13: Adar I keeps its slot with zero days in common years.
func (Jewish) MonthsInYear(int) int { return 13 }

// IsLeapYear reports whether year has thirteen months, following the
// 19-year Metonic cycle.
func (Jewish) IsLeapYear(year int) bool {
	return floorMod(7*year+1, 19) < 7
}

// YearStartJd returns the Julian Day Number of 1 Tishri of year.
//
// The molad of Tishri is counted in parts (1/1080 hour) from the epoch,
// then moved by the postponement rules.
func (j Jewish) YearStartJd(year int) int {
	div19 := (year - 1) / 19
	mod19 := (year - 1) % 19
	months := 235*div19 + 12*mod19 + (7*mod19+1)/19
	parts := 204 + 793*(months%partsPerHour)
	hours := 5 + 12*months + 793*(months/partsPerHour) + parts/partsPerHour
	conjunction := partsPerHour*(hours%24) + parts%partsPerHour
	jd := 1 + 29*months + hours/24

	if conjunction >= 19440 ||
		(jd%7 == 2 && conjunction >= 9924 && !j.IsLeapYear(year)) ||
		(jd%7 == 1 && conjunction >= 16789 && j.IsLeapYear(year-1)) {
		jd++
	}

	switch jd % 7 {
	case 0, 3, 5:
		return jd + 347998
	default:
		return jd + 347997
	}
}

// YearType classifies year as defective, regular or complete.
func (j Jewish) YearType(year int) YearType {
	switch j.YearStartJd(year+1) - j.YearStartJd(year) {
	case 353, 383:
		return Defective
	case 355, 385:
		return Complete
	default:
		return Regular
	}
}

// DaysInMonth returns the length of month in year. Adar I has zero days in
// common years.
func (j Jewish) DaysInMonth(year, month int) (int, error) {
	const op = "jewish.DaysInMonth"
	if year < 1 {
		return 0, newError(ErrInvalidYear, SystemJewish, op, year)
	}
	if month < 1 || month > 13 {
		return 0, newError(ErrInvalidMonth, SystemJewish, op, month)
	}

	switch month {
	case Tishri, Shevat, Nisan, Sivan, Av:
		return 30, nil
	case Tevet, AdarII, Iyar, Tammuz, Elul:
		return 29, nil
	case AdarI:
		if j.IsLeapYear(year) {
			return 30, nil
		}
		return 0, nil
	case Heshvan:
		if j.YearType(year) == Complete {
			return 30, nil
		}
		return 29, nil
	default: // Kislev
		if j.YearType(year) == Defective {
			return 29, nil
		}
		return 30, nil
	}
}

// YmdToJd converts a Jewish date to a Julian Day Number.
func (j Jewish) YmdToJd(year, month, day int) (int, error) {
	const op = "jewish.YmdToJd"
	if j.EmulateBug54254 && month == AdarI && year >= 1 && !j.IsLeapYear(year) {
		month = AdarII
	}
	if year > jewishMaxYear {
		return 0, newError(ErrOverflow, SystemJewish, op, year)
	}
	if err := checkDay(j, op, year, month, day); err != nil {
		return 0, err
	}

	jd := j.monthStartJd(year, month) + day - 1
	if jd > jewishJdEnd {
		return 0, newError(ErrOverflow, SystemJewish, op, year)
	}
	return jd, nil
}

// monthStartJd counts 29 days per elapsed month and adds one for each
// elapsed 30-day month.
func (j Jewish) monthStartJd(year, month int) int {
	jd := j.YearStartJd(year) + 29*(month-1)
	if month > Tishri {
		jd++
	}
	if month > Heshvan && j.YearType(year) == Complete {
		jd++
	}
	if month > Kislev && j.YearType(year) != Defective {
		jd++
	}
	if month > Shevat {
		jd++
	}
	if month > AdarI {
		if j.IsLeapYear(year) {
			jd++
		} else {
			jd -= 29
		}
	}
	if month > Nisan {
		jd++
	}
	if month > Sivan {
		jd++
	}
	if month > Av {
		jd++
	}
	return jd
}

// JdToYmd converts a Julian Day Number to a Jewish date.
func (j Jewish) JdToYmd(jd int) (Date, error) {
	if err := checkJd(j, "jewish.JdToYmd", jd); err != nil {
		return Date{}, err
	}

	year := j.jdToYear(jd)
	month := 1
	day := jd - j.YearStartJd(year) + 1
	for {
		days, err := j.DaysInMonth(year, month)
		if err != nil {
			return Date{}, err
		}
		if day <= days {
			break
		}
		day -= days
		month++
	}

	if j.EmulateBug54254 && month == AdarII && !j.IsLeapYear(year) {
		month = AdarI
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// jdToYear estimates the year from a 365-day year, then walks to the year
// whose 1 Tishri is the last one on or before jd.
func (j Jewish) jdToYear(jd int) int {
	year := (jd-jewishJdStart)/365 + 1
	for year > 1 && j.YearStartJd(year) > jd {
		year--
	}
	for j.YearStartJd(year+1) <= jd {
		year++
	}
	return year
}
