package calendar

// Feast is a movable observance fixed relative to Easter Sunday.
type Feast struct {
	Name   string
	Offset int // days after Easter Sunday
}

// MovableFeasts are the observances derived from the computus, in order.
var MovableFeasts = []Feast{
	{Name: "Ash Wednesday", Offset: -46}, // 40 days of Lent plus 6 Sundays
	{Name: "Palm Sunday", Offset: -7},
	{Name: "Good Friday", Offset: -2},
	{Name: "Easter Sunday", Offset: 0},
	{Name: "Ascension", Offset: 39},
	{Name: "Pentecost", Offset: 49},
	{Name: "Trinity Sunday", Offset: 56},
}

// Observance is a feast resolved to a day.
type Observance struct {
	Name    string `json:"name"`
	JD      int    `json:"jd"`
	Date    Date   `json:"date"`
	Weekday string `json:"weekday"`
}

// Feasts resolves the movable feasts of year in the given reckoning, plus
// Advent Sunday of the same year.
func Feasts(year int, reckoning System) ([]Observance, error) {
	easter, err := EasterJd(year, reckoning)
	if err != nil {
		return nil, err
	}
	cal, err := For(reckoning)
	if err != nil {
		return nil, err
	}

	observances := make([]Observance, 0, len(MovableFeasts)+1)
	for _, feast := range MovableFeasts {
		obs, err := observe(cal, feast.Name, easter+feast.Offset)
		if err != nil {
			return nil, err
		}
		observances = append(observances, obs)
	}

	advent, err := AdventSunday(year, reckoning)
	if err != nil {
		return nil, err
	}
	obs, err := observe(cal, "Advent Sunday", advent)
	if err != nil {
		return nil, err
	}
	return append(observances, obs), nil
}

func observe(cal Calendar, name string, jd int) (Observance, error) {
	date, err := cal.JdToYmd(jd)
	if err != nil {
		return Observance{}, err
	}
	return Observance{Name: name, JD: jd, Date: date, Weekday: DayOfWeek(jd).String()}, nil
}

// AdventSunday returns the day number of the first Sunday of Advent: the
// Sunday nearest 30 November, so always between 27 November and 3 December.
func AdventSunday(year int, reckoning System) (int, error) {
	cal, err := For(reckoning)
	if err != nil {
		return 0, err
	}
	dec3, err := cal.YmdToJd(year, 12, 3)
	if err != nil {
		return 0, err
	}
	return dec3 - int(DayOfWeek(dec3)), nil
}

// LiturgicalYear returns the year whose Advent starts the liturgical year
// containing jd. A day before Advent belongs to the previous year's cycle.
func LiturgicalYear(jd int, reckoning System) (int, error) {
	cal, err := For(reckoning)
	if err != nil {
		return 0, err
	}
	date, err := cal.JdToYmd(jd)
	if err != nil {
		return 0, err
	}
	advent, err := AdventSunday(date.Year, reckoning)
	if err != nil {
		return 0, err
	}
	if jd >= advent {
		return date.Year, nil
	}
	year := date.Year - 1
	if year == 0 {
		year = -1
	}
	return year, nil
}
