package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersian_LeapYears(t *testing.T) {
	leap := map[int]bool{}
	for _, year := range []int{
		1201, 1205, 1209, 1214, 1218, 1222, 1226, 1230, 1234, 1238, 1242,
		1247, 1251, 1255, 1259, 1263, 1267, 1271, 1276, 1280, 1284, 1288,
		1292, 1296, 1300, 1304, 1309, 1313, 1317, 1321, 1325,
	} {
		leap[year] = true
	}
	for year := 1201; year <= 1328; year++ {
		assert.Equal(t, leap[year], Persian{}.IsLeapYear(year), "year %d", year)
	}
}

func TestPersian_MonthEnds(t *testing.T) {
	ends := map[int][]int{
		1201: {2386641, 2386672, 2386703, 2386734, 2386765, 2386796, 2386826, 2386856, 2386886, 2386916, 2386946, 2386976},
		1202: {2387007, 2387038, 2387069, 2387100, 2387131, 2387162, 2387192, 2387222, 2387252, 2387282, 2387312, 2387341},
	}
	p := Persian{}
	for year, want := range ends {
		for month := 1; month <= 12; month++ {
			days, err := p.DaysInMonth(year, month)
			require.NoError(t, err)

			jd, err := p.YmdToJd(year, month, days)
			require.NoError(t, err)
			assert.Equal(t, want[month-1], jd, "%d-%d", year, month)

			date, err := p.JdToYmd(jd)
			require.NoError(t, err)
			assert.Equal(t, Date{year, month, days}, date)
		}
	}
}

func TestPersian_KnownDays(t *testing.T) {
	jd, err := Persian{}.YmdToJd(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, persianJdStart, jd)

	jd, err = Persian{}.YmdToJd(1403, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2460390, jd)

	date, err := Persian{}.JdToYmd(3151429)
	require.NoError(t, err)
	assert.Equal(t, Date{3295, 1, 1}, date)
}

func TestPersianReference_PinnedAnomaly(t *testing.T) {
	ref := PersianReference{}

	date, err := ref.JdToYmd(3151429)
	require.NoError(t, err)
	assert.Equal(t, Date{3294, 13, 1}, date)

	for _, d := range []Date{{3294, 12, 31}, {3295, 1, 1}, {3294, 13, 1}} {
		jd, err := ref.YmdToJd(d.Year, d.Month, d.Day)
		require.NoError(t, err)
		assert.Equal(t, 3151429, jd, "%v", d)
	}

	// The epoch itself lands in month 13 of year zero.
	date, err = ref.JdToYmd(ref.JdStart())
	require.NoError(t, err)
	assert.Equal(t, Date{0, 13, 1}, date)

	_, err = ref.YmdToJd(3294, 14, 1)
	assert.ErrorIs(t, err, ErrInvalidMonth)

	_, err = ref.YmdToJd(3294, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidDay)

	_, err = Persian{}.YmdToJd(3294, 12, 31)
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestPersianReference_RoundTrips(t *testing.T) {
	ref := PersianReference{}
	for jd := ref.JdStart() + 1; jd <= 2_500_000; jd += 97 {
		date, err := ref.JdToYmd(jd)
		require.NoError(t, err)

		back, err := ref.YmdToJd(date.Year, date.Month, date.Day)
		require.NoError(t, err)
		require.Equal(t, jd, back, "%v", date)
	}
}

func TestPersian_TopOfRange(t *testing.T) {
	for _, cal := range []Calendar{Persian{}, PersianReference{}} {
		for _, jd := range []int{persianJdEnd, persianJdEnd - 1, persianJdEnd - 400} {
			date, err := cal.JdToYmd(jd)
			require.NoError(t, err, "JdToYmd(%d)", jd)

			back, err := cal.YmdToJd(date.Year, date.Month, date.Day)
			require.NoError(t, err, "YmdToJd(%v)", date)
			assert.Equal(t, jd, back)
		}

		_, err := cal.JdToYmd(persianJdEnd + 1)
		assert.ErrorIs(t, err, ErrOverflow)
	}

	last, err := Persian{}.JdToYmd(persianJdEnd)
	require.NoError(t, err)
	_, err = Persian{}.YmdToJd(last.Year+1, 1, 1)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Persian{}.YmdToJd(persianMaxYear+1, 1, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}
