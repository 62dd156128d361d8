package calendar

import (
	"strings"
)

// NumeralFlag controls punctuation and letter forms in Hebrew numerals.
// The values of the first three match the PHP CAL_JEWISH_ADD_* constants.
type NumeralFlag int

const (
	// AlafimGeresh places a geresh after the thousands letter.
	AlafimGeresh NumeralFlag = 2

	// Alafim spells out the word for thousands after the thousands letter.
	Alafim NumeralFlag = 4

	// Gershayim marks a lone letter with a geresh and puts gershayim before
	// the last letter of a longer group.
	Gershayim NumeralFlag = 8

	// FinalForms writes a trailing kaf, mem, nun, pe or tsadi in its final form.
	FinalForms NumeralFlag = 16
)

const (
	Geresh       = '׳'
	GershayimSym = '״'
	AlafimWord   = "אלפים"
)

// hebrewLetters maps 1..9 to units, 10..18 to tens and 19..22 to hundreds.
var hebrewLetters = []rune("0אבגדהוזחטיכלמנסעפצקרשת")

var finalLetters = map[rune]rune{
	'כ': 'ך',
	'מ': 'ם',
	'נ': 'ן',
	'פ': 'ף',
	'צ': 'ץ',
}

// HebrewNumerals renders n (1 to 9999) in Hebrew letters.
func HebrewNumerals(n int, flags NumeralFlag) (string, error) {
	if n < 1 || n > 9999 {
		return "", newError(ErrOutOfRange, SystemJewish, "HebrewNumerals", n)
	}

	var prefix []rune
	if n >= 1000 {
		prefix = append(prefix, hebrewLetters[n/1000])
		if flags&AlafimGeresh != 0 {
			prefix = append(prefix, Geresh)
		}
		if flags&Alafim != 0 {
			prefix = append(prefix, []rune(" "+AlafimWord+" ")...)
		}
	}

	return strings.TrimRight(string(prefix)+string(numeralGroup(n%1000, flags)), " "), nil
}

// numeralGroup writes n (0 to 999) as letters. Final forms only change the
// last letter of a group of two or more.
func numeralGroup(n int, flags NumeralFlag) []rune {
	var group []rune
	for n >= 400 {
		group = append(group, hebrewLetters[22])
		n -= 400
	}
	if n >= 100 {
		group = append(group, hebrewLetters[18+n/100])
		n %= 100
	}
	if n == 15 || n == 16 {
		// Avoid spelling a divine name: 9+6 and 9+7.
		group = append(group, hebrewLetters[9], hebrewLetters[n-9])
	} else {
		if n >= 10 {
			group = append(group, hebrewLetters[9+n/10])
			n %= 10
		}
		if n > 0 {
			group = append(group, hebrewLetters[n])
		}
	}

	if flags&FinalForms != 0 && len(group) > 1 {
		if final, ok := finalLetters[group[len(group)-1]]; ok {
			group[len(group)-1] = final
		}
	}

	if flags&Gershayim != 0 {
		switch len(group) {
		case 0:
		case 1:
			group = append(group, Geresh)
		default:
			last := group[len(group)-1]
			group = append(group[:len(group)-1], GershayimSym, last)
		}
	}
	return group
}

// NumberToHebrewNumerals renders n (1 to 9999) with gershayim and final
// forms. A whole number of thousands is written as the millennium letter and
// the word for thousands, e.g. ב׳ אלפים. Otherwise the millennium is dropped
// unless showThousands is set, in which case its letter and a geresh come
// first, e.g. א׳ט״ו for 1015.
func NumberToHebrewNumerals(n int, showThousands bool) (string, error) {
	if n < 1 || n > 9999 {
		return "", newError(ErrOutOfRange, SystemJewish, "NumberToHebrewNumerals", n)
	}

	const flags = Gershayim | FinalForms
	thousands := []rune{hebrewLetters[n/1000], Geresh}
	switch {
	case n%1000 == 0:
		return string(thousands) + " " + AlafimWord, nil
	case n < 1000 || !showThousands:
		return string(numeralGroup(n%1000, flags)), nil
	default:
		return string(thousands) + string(numeralGroup(n%1000, flags)), nil
	}
}

// HebrewMonthName returns the Hebrew-script name of a Jewish month. Adar I
// has no name in common years.
func (j Jewish) HebrewMonthName(year, month int) string {
	if month < 1 || month > 13 {
		return ""
	}
	leap := j.IsLeapYear(year)
	switch month {
	case AdarI:
		if leap {
			return "אדר א׳"
		}
		return ""
	case AdarII:
		if leap {
			return "אדר ב׳"
		}
		return "אדר"
	}
	return hebrewMonthNames[month]
}

var hebrewMonthNames = [14]string{
	"", "תשרי", "חשון", "כסלו", "טבת", "שבט", "", "", "ניסן", "אייר", "סיוון", "תמוז", "אב", "אלול",
}

// JdToHebrew renders a Julian Day Number as a Jewish date in Hebrew script:
// day, month name and year separated by spaces.
func (j Jewish) JdToHebrew(jd int, flags NumeralFlag) (string, error) {
	if jd < jewishJdStart || jd > jewishTextJdEnd {
		return "", newError(ErrOutOfRange, SystemJewish, "jewish.JdToHebrew", jd)
	}

	// Hebrew month names follow the modern numbering regardless of emulation.
	date, err := Jewish{}.JdToYmd(jd)
	if err != nil {
		return "", err
	}

	day, err := HebrewNumerals(date.Day, flags)
	if err != nil {
		return "", err
	}
	year, err := HebrewNumerals(date.Year, flags)
	if err != nil {
		return "", err
	}
	return day + " " + j.HebrewMonthName(date.Year, date.Month) + " " + year, nil
}
