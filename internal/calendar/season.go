package calendar

import (
	"fmt"
)

// Season is a part of the Christian liturgical year.
type Season int

const (
	SeasonAdvent Season = iota
	SeasonChristmas
	SeasonEpiphany
	SeasonLent
	SeasonHolyWeek
	SeasonEaster
	SeasonPentecost
	SeasonOrdinary
)

var seasonNames = [...]string{
	"Advent", "Christmas", "Epiphany", "Lent", "Holy Week", "Easter", "Pentecost", "Ordinary Time",
}

func (s Season) String() string {
	if s < 0 || int(s) >= len(seasonNames) {
		return fmt.Sprintf("Season(%d)", int(s))
	}
	return seasonNames[s]
}

// Lectionary cycles are counted from the liturgical year that began with
// Advent 2024: Sunday year C and daily office year one.
const (
	referenceYear        = 2024
	referenceSundayCycle = 2 // index into sundayCycles
	dailyCycles          = 2
)

var sundayCycles = [3]string{"A", "B", "C"}

// LiturgicalDay places a day in the liturgical year.
type LiturgicalDay struct {
	JD          int    `json:"jd"`
	Year        int    `json:"liturgical_year"` // the year whose Advent opened it
	Season      Season `json:"-"`
	SeasonName  string `json:"season"`
	Week        int    `json:"week"` // 0 for days outside a numbered week
	Period      string `json:"period"`
	Weekday     string `json:"weekday"`
	SundayCycle string `json:"sunday_cycle"`
	DailyCycle  int    `json:"daily_cycle"`
}

// ResolveLiturgicalDay returns the season, week and lectionary cycles of jd,
// with Easter and Advent computed in the given reckoning.
//
// The year runs from Advent Sunday to the Saturday before the next one:
//
//	Advent          Advent Sunday to 24 December, weeks 1 to 4
//	Christmas       25 December to 5 January
//	Epiphany        6 January, then weeks counted from the Sunday after it
//	Lent            Ash Wednesday, then weeks from the first Sunday of Lent
//	Holy Week       Palm Sunday to Holy Saturday
//	Easter          Easter Sunday to the Saturday before Pentecost, weeks 1 to 7
//	Pentecost       Pentecost Sunday and its week
//	Ordinary Time   weeks counted after Pentecost until Advent
func ResolveLiturgicalDay(jd int, reckoning System) (LiturgicalDay, error) {
	if reckoning != SystemGregorian && reckoning != SystemJulian {
		return LiturgicalDay{}, fmt.Errorf("the liturgical year is only defined for the gregorian and julian calendars, not %s", reckoning)
	}
	cal := MustFor(reckoning)

	date, err := cal.JdToYmd(jd)
	if err != nil {
		return LiturgicalDay{}, err
	}
	if date.Year < 1 {
		return LiturgicalDay{}, newError(ErrOutOfRange, reckoning, "ResolveLiturgicalDay", jd)
	}

	year, err := LiturgicalYear(jd, reckoning)
	if err != nil {
		return LiturgicalDay{}, err
	}

	season, week, err := placeInYear(cal, jd, date)
	if err != nil {
		return LiturgicalDay{}, err
	}

	return LiturgicalDay{
		JD:          jd,
		Year:        year,
		Season:      season,
		SeasonName:  season.String(),
		Week:        week,
		Period:      periodName(season, week),
		Weekday:     DayOfWeek(jd).String(),
		SundayCycle: sundayCycles[floorMod(year-referenceYear+referenceSundayCycle, len(sundayCycles))],
		DailyCycle:  floorMod(year-referenceYear, dailyCycles) + 1,
	}, nil
}

func placeInYear(cal Calendar, jd int, date Date) (Season, int, error) {
	reckoning := cal.System()

	advent, err := AdventSunday(date.Year, reckoning)
	if err != nil {
		return 0, 0, err
	}
	if jd >= advent {
		christmas, err := cal.YmdToJd(date.Year, 12, 25)
		if err != nil {
			return 0, 0, err
		}
		if jd < christmas {
			return SeasonAdvent, weekNumber(jd, advent), nil
		}
		return SeasonChristmas, 0, nil
	}

	epiphany, err := cal.YmdToJd(date.Year, 1, 6)
	if err != nil {
		return 0, 0, err
	}
	if jd < epiphany {
		return SeasonChristmas, 0, nil
	}

	easter, err := EasterJd(date.Year, reckoning)
	if err != nil {
		return 0, 0, err
	}
	ashWednesday := easter - 46
	palmSunday := easter - 7
	pentecost := easter + 49

	switch {
	case jd < ashWednesday:
		baptism := sundayAfter(epiphany)
		if jd < baptism {
			return SeasonEpiphany, 0, nil
		}
		return SeasonEpiphany, weekNumber(jd, baptism), nil
	case jd < palmSunday:
		firstSunday := sundayAfter(ashWednesday)
		if jd < firstSunday {
			return SeasonLent, 0, nil
		}
		return SeasonLent, weekNumber(jd, firstSunday), nil
	case jd < easter:
		return SeasonHolyWeek, 0, nil
	case jd < pentecost:
		return SeasonEaster, weekNumber(jd, easter), nil
	case jd < pentecost+7:
		return SeasonPentecost, 0, nil
	default:
		return SeasonOrdinary, (jd - pentecost) / 7, nil
	}
}

// sundayAfter returns the first Sunday strictly after jd.
func sundayAfter(jd int) int {
	return jd + 7 - int(DayOfWeek(jd))
}

func weekNumber(jd, start int) int {
	return (jd-start)/7 + 1
}

func periodName(season Season, week int) string {
	switch season {
	case SeasonAdvent:
		return fmt.Sprintf("%s Week of Advent", Ordinal(week))
	case SeasonEpiphany:
		if week == 0 {
			return "Epiphany and Following"
		}
		return fmt.Sprintf("Week %d after Epiphany", week)
	case SeasonLent:
		if week == 0 {
			return "Ash Wednesday and Following"
		}
		return fmt.Sprintf("%s Week of Lent", Ordinal(week))
	case SeasonEaster:
		return fmt.Sprintf("%s Week of Easter", Ordinal(week))
	case SeasonOrdinary:
		return fmt.Sprintf("Week %d after Pentecost", week)
	default:
		return season.String()
	}
}

// Ordinal returns the English ordinal of n: 1st, 2nd, 3rd, 4th, 11th, 21st.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		if n%100 != 11 {
			suffix = "st"
		}
	case 2:
		if n%100 != 12 {
			suffix = "nd"
		}
	case 3:
		if n%100 != 13 {
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
