package calendar

// Weekday is a day of the week, Sunday = 0.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var (
	dayNames      = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	dayNamesShort = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
)

// DayOfWeek returns the weekday of a Julian Day Number. It is defined for
// every integer, including day numbers before the epoch.
func DayOfWeek(jd int) Weekday {
	return Weekday(floorMod(jd+1, 7))
}

// String returns the English name of the day.
func (d Weekday) String() string {
	return dayNames[floorMod(int(d), 7)]
}

// Short returns the three-letter abbreviation of the day.
func (d Weekday) Short() string {
	return dayNamesShort[floorMod(int(d), 7)]
}
