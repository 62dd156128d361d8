package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArabic_LeapYears(t *testing.T) {
	leap := map[int]bool{1202: true, 1205: true, 1207: true, 1210: true, 1213: true, 1216: true,
		1218: true, 1221: true, 1224: true, 1226: true, 1229: true}
	for year := 1201; year <= 1230; year++ {
		assert.Equal(t, leap[year], Arabic{}.IsLeapYear(year), "year %d", year)
	}
}

func TestArabic_MonthLengths(t *testing.T) {
	a := Arabic{}
	for month := 1; month <= 11; month++ {
		days, err := a.DaysInMonth(1201, month)
		require.NoError(t, err)
		want := 29
		if month%2 == 1 {
			want = 30
		}
		assert.Equal(t, want, days, "month %d", month)
	}

	days, err := a.DaysInMonth(1201, 12)
	require.NoError(t, err)
	assert.Equal(t, 29, days)

	days, err = a.DaysInMonth(1202, 12)
	require.NoError(t, err)
	assert.Equal(t, 30, days)
}

func TestArabic_KnownDays(t *testing.T) {
	tests := []struct {
		date Date
		jd   int
	}{
		{Date{1, 1, 1}, 1948439},
		{Date{1201, 1, 30}, 2373708},
		{Date{1445, 9, 1}, 2460380},
		{Date{1446, 1, 1}, 2460499},
	}
	for _, tt := range tests {
		t.Run(tt.date.String(), func(t *testing.T) {
			jd, err := Arabic{}.YmdToJd(tt.date.Year, tt.date.Month, tt.date.Day)
			require.NoError(t, err)
			assert.Equal(t, tt.jd, jd)

			date, err := Arabic{}.JdToYmd(tt.jd)
			require.NoError(t, err)
			assert.Equal(t, tt.date, date)
		})
	}

	got, err := Convert(Arabic{}, Gregorian{}, 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, Date{622, 7, 18}, got)
}

func TestArabic_Limits(t *testing.T) {
	a := Arabic{}

	_, err := a.JdToYmd(arabicJdStart - 1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = a.YmdToJd(arabicMaxYear+1, 1, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestArabic_TopOfRange(t *testing.T) {
	a := Arabic{}
	for _, jd := range []int{arabicJdEnd, arabicJdEnd - 1, arabicJdEnd - 400} {
		date, err := a.JdToYmd(jd)
		require.NoError(t, err, "JdToYmd(%d)", jd)

		back, err := a.YmdToJd(date.Year, date.Month, date.Day)
		require.NoError(t, err, "YmdToJd(%v)", date)
		assert.Equal(t, jd, back)
	}

	_, err := a.JdToYmd(arabicJdEnd + 1)
	assert.ErrorIs(t, err, ErrOverflow)
}
