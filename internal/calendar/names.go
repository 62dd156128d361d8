package calendar

import "slices"

// =============================================================================
// Month name tables
// =============================================================================

var (
	solarMonths = [13]string{
		"", "January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}

	solarMonthsShort = [13]string{
		"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	}

	frenchMonths = [14]string{
		"", "Vendemiaire", "Brumaire", "Frimaire", "Nivose", "Pluviose", "Ventose",
		"Germinal", "Floreal", "Prairial", "Messidor", "Thermidor", "Fructidor", "Extra",
	}

	jewishMonths = [14]string{
		"", "Tishri", "Heshvan", "Kislev", "Tevet", "Shevat", "Adar",
		"Adar", "Nisan", "Iyyar", "Sivan", "Tammuz", "Av", "Elul",
	}

	jewishMonthsLeap = [14]string{
		"", "Tishri", "Heshvan", "Kislev", "Tevet", "Shevat", "Adar I",
		"Adar II", "Nisan", "Iyyar", "Sivan", "Tammuz", "Av", "Elul",
	}

	// jewishMonths54254 are the names PHP used before 5.5, in every year.
	jewishMonths54254 = [14]string{
		"", "Tishri", "Heshvan", "Kislev", "Tevet", "Shevat", "AdarI",
		"AdarII", "Nisan", "Iyyar", "Sivan", "Tammuz", "Av", "Elul",
	}

	arabicMonths = [13]string{
		"", "Muharram", "Safar", "Rabi' al-awwal", "Rabi' al-thani", "Jumada al-awwal", "Jumada al-thani",
		"Rajab", "Sha'aban", "Ramadan", "Shawwal", "Dhu al-Qi'dah", "Dhu al-Hijjah",
	}

	persianMonths = [13]string{
		"", "Farvardin", "Ordibehesht", "Khordad", "Tir", "Mordad", "Shahrivar",
		"Mehr", "Aban", "Azar", "Dey", "Bahman", "Esfand",
	}
)

// MonthNames returns the English month names of a system, indexed from 1.
// Jewish names are the leap-year forms.
func MonthNames(s System) []string {
	switch s {
	case SystemGregorian, SystemJulian:
		return slices.Clone(solarMonths[1:])
	case SystemFrench:
		return slices.Clone(frenchMonths[1:])
	case SystemJewish:
		return slices.Clone(jewishMonthsLeap[1:])
	case SystemArabic:
		return slices.Clone(arabicMonths[1:])
	case SystemPersian:
		return slices.Clone(persianMonths[1:])
	default:
		return nil
	}
}

// MonthName returns the English name of month in year. An empty string is
// returned for a month the system does not have.
func MonthName(s System, year, month int) string {
	if s == SystemJewish {
		return Jewish{}.MonthName(year, month)
	}
	names := MonthNames(s)
	if month < 1 || month > len(names) {
		return ""
	}
	return names[month-1]
}

// MonthNameShort returns the abbreviated name of month. Only the Gregorian
// and Julian calendars have abbreviations; the others return the full name.
func MonthNameShort(s System, year, month int) string {
	if (s == SystemGregorian || s == SystemJulian) && month >= 1 && month <= 12 {
		return solarMonthsShort[month]
	}
	return MonthName(s, year, month)
}

// MonthName returns the English name of a Jewish month, distinguishing
// Adar I and Adar II only in leap years.
func (j Jewish) MonthName(year, month int) string {
	if month < 1 || month > 13 {
		return ""
	}
	switch {
	case j.EmulateBug54254:
		return jewishMonths54254[month]
	case j.IsLeapYear(year):
		return jewishMonthsLeap[month]
	default:
		return jewishMonths[month]
	}
}

// =============================================================================
// Calendar metadata
// =============================================================================

// Info describes a calendar in the shape of PHP's cal_info, extended with the
// GEDCOM escape used in genealogy files.
type Info struct {
	System         System   `json:"-"`
	Name           string   `json:"calname"`
	Symbol         string   `json:"calsymbol"`
	Number         int      `json:"number"`
	GEDCOM         string   `json:"gedcom"`
	Months         []string `json:"months"`
	AbbrevMonths   []string `json:"abbrevmonths"`
	MaxDaysInMonth int      `json:"maxdaysinmonth"`
}

// CalendarInfo returns the metadata for a system.
func CalendarInfo(s System) Info {
	switch s {
	case SystemGregorian:
		return Info{
			System: s, Name: "Gregorian", Symbol: "CAL_GREGORIAN", Number: 0, GEDCOM: "@#DGREGORIAN@",
			Months: slices.Clone(solarMonths[1:]), AbbrevMonths: slices.Clone(solarMonthsShort[1:]), MaxDaysInMonth: 31,
		}
	case SystemJulian:
		return Info{
			System: s, Name: "Julian", Symbol: "CAL_JULIAN", Number: 1, GEDCOM: "@#DJULIAN@",
			Months: slices.Clone(solarMonths[1:]), AbbrevMonths: slices.Clone(solarMonthsShort[1:]), MaxDaysInMonth: 31,
		}
	case SystemJewish:
		return Info{
			System: s, Name: "Jewish", Symbol: "CAL_JEWISH", Number: 2, GEDCOM: "@#DHEBREW@",
			Months: slices.Clone(jewishMonthsLeap[1:]), AbbrevMonths: slices.Clone(jewishMonthsLeap[1:]), MaxDaysInMonth: 30,
		}
	case SystemFrench:
		return Info{
			System: s, Name: "French", Symbol: "CAL_FRENCH", Number: 3, GEDCOM: "@#DFRENCH R@",
			Months: slices.Clone(frenchMonths[1:]), AbbrevMonths: slices.Clone(frenchMonths[1:]), MaxDaysInMonth: 30,
		}
	case SystemArabic:
		return Info{
			System: s, Name: "Arabic", Symbol: "CAL_ARABIC", Number: 4, GEDCOM: "@#DHIJRI@",
			Months: slices.Clone(arabicMonths[1:]), AbbrevMonths: slices.Clone(arabicMonths[1:]), MaxDaysInMonth: 30,
		}
	case SystemPersian:
		return Info{
			System: s, Name: "Persian", Symbol: "CAL_PERSIAN", Number: 5, GEDCOM: "@#DJALALI@",
			Months: slices.Clone(persianMonths[1:]), AbbrevMonths: slices.Clone(persianMonths[1:]), MaxDaysInMonth: 31,
		}
	default:
		return Info{System: s}
	}
}

// JewishMonthNamesBug54254 returns the pre-5.5 Jewish month names.
func JewishMonthNamesBug54254() []string {
	return slices.Clone(jewishMonths54254[1:])
}
