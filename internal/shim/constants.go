package shim

// Calendar identifiers accepted by CalDaysInMonth, CalFromJD, CalInfo and CalToJD.
const (
	CalGregorian = 0
	CalJulian    = 1
	CalJewish    = 2
	CalFrench    = 3
	CalNumCals   = 4

	// CalAll asks CalInfo for every calendar.
	CalAll = -1
)

// Day-of-week modes for JDDayOfWeek. With bug 67960 emulated the values of
// the short and long modes are swapped; the functions themselves always
// treat 1 as long and 2 as short.
const (
	DowDayNo = 0
	DowShort = 1
	DowLong  = 2
)

// Month name modes for JDMonthName.
const (
	MonthGregorianShort = 0
	MonthGregorianLong  = 1
	MonthJulianShort    = 2
	MonthJulianLong     = 3
	MonthJewish         = 4
	MonthFrench         = 5
)

// Easter methods for EasterDays.
const (
	EasterDefault         = 0
	EasterRoman           = 1
	EasterAlwaysGregorian = 2
	EasterAlwaysJulian    = 3
)

// Flags for JDToJewish in Hebrew mode.
const (
	JewishAddAlafimGeresh = 2
	JewishAddAlafim       = 4
	JewishAddGereshayim   = 8
)

const (
	unixEpochJd   = 2440588
	unixMaxJd     = 2465343 // 19 January 2038
	secondsPerDay = 86400

	// bug67976DaysInMonth is what cal_days_in_month returned for the last
	// month of French year XIV.
	bug67976DaysInMonth = -2380948

	emptyDate = "0/0/0"
)
