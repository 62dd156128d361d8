package concordance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/calendar-api/internal/calendar"
	"github.com/zapponejosh/calendar-api/internal/database"
	"github.com/zapponejosh/calendar-api/internal/metrics"
)

// Easter Sunday 2024 in the Gregorian reckoning.
const easter2024 = 2460401

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testDB opens a migrated in-memory database.
func testDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}, quietLogger())
	require.NoError(t, err)

	_, err = db.Migrate(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

// failingStore reports every row as missing and fails every write.
type failingStore struct {
	lookupErr error
	writeErr  error

	mu     sync.Mutex
	writes int
}

func (f *failingStore) GetConcordance(context.Context, int) (*database.ConcordanceRow, error) {
	return nil, f.lookupErr
}

func (f *failingStore) UpsertConcordance(context.Context, *database.ConcordanceRow) error {
	return f.writeErr
}

func (f *failingStore) UpsertConcordanceBatch(_ context.Context, rows []database.ConcordanceRow) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(rows), nil
}

func (f *failingStore) GetFeasts(context.Context, int, string) ([]database.FeastRow, error) {
	return nil, f.lookupErr
}

func (f *failingStore) SaveFeasts(context.Context, []database.FeastRow) error {
	return f.writeErr
}

func (f *failingStore) FeastsOnDay(context.Context, int) ([]database.FeastRow, error) {
	return nil, f.writeErr
}

// -----------------------------------------------------------------
// Resolver tests
// -----------------------------------------------------------------

func TestCompute(t *testing.T) {
	r := NewResolver(nil, nil, nil, quietLogger())

	day := r.Compute(easter2024)
	assert.Equal(t, easter2024, day.JD)
	assert.Equal(t, "Sunday", day.Weekday)
	assert.False(t, day.Cached)
	require.Len(t, day.Dates, len(calendar.Systems))

	assert.Equal(t, &calendar.Date{Year: 2024, Month: 3, Day: 31}, day.Dates["gregorian"])
	assert.Equal(t, &calendar.Date{Year: 2024, Month: 3, Day: 18}, day.Dates["julian"])
	assert.Equal(t, &calendar.Date{Year: 5784, Month: calendar.AdarII, Day: 21}, day.Dates["jewish"])
	assert.Equal(t, &calendar.Date{Year: 1445, Month: 9, Day: 22}, day.Dates["arabic"])
	assert.NotNil(t, day.Dates["persian"])
	assert.Nil(t, day.Dates["french"], "outside the Republican window")
}

func TestCompute_BeforeEveryEpoch(t *testing.T) {
	m := metrics.New()
	r := NewResolver(nil, nil, m, quietLogger())

	day := r.Compute(-10)
	for name, date := range day.Dates {
		assert.Nil(t, date, name)
	}
	assert.Equal(t, calendar.DayOfWeek(-10).String(), day.Weekday)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Conversions.WithLabelValues("gregorian", "jd_to_ymd", metrics.OutcomeRange)), 0)
}

func TestResolve_WithoutStore(t *testing.T) {
	r := NewResolver(nil, nil, nil, quietLogger())

	day, err := r.Resolve(context.Background(), easter2024)
	require.NoError(t, err)
	assert.Equal(t, r.Compute(easter2024), day)
}

func TestResolve_CachesDay(t *testing.T) {
	db := testDB(t)
	m := metrics.New()
	r := NewResolver(db, nil, m, quietLogger())
	ctx := context.Background()

	first, err := r.Resolve(ctx, easter2024)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	row, err := db.GetConcordance(ctx, easter2024)
	require.NoError(t, err)
	require.NotNil(t, row.Gregorian)
	assert.Equal(t, "2024-3-31", *row.Gregorian)
	assert.Nil(t, row.French)
	assert.Equal(t, 0, row.Weekday)

	second, err := r.Resolve(ctx, easter2024)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Dates, second.Dates)
	assert.Equal(t, first.Weekday, second.Weekday)

	assert.InDelta(t, 1, testutil.ToFloat64(m.ConcordanceCache.WithLabelValues(metrics.CacheMiss)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ConcordanceCache.WithLabelValues(metrics.CacheHit)), 0)
}

func TestResolve_NegativeYearsRoundTrip(t *testing.T) {
	db := testDB(t)
	r := NewResolver(db, nil, nil, quietLogger())
	ctx := context.Background()

	computed, err := r.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, &calendar.Date{Year: -4714, Month: 11, Day: 25}, computed.Dates["gregorian"])

	cached, err := r.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.True(t, cached.Cached)
	assert.Equal(t, computed.Dates, cached.Dates)
}

func TestResolve_AnnotatesFeasts(t *testing.T) {
	db := testDB(t)
	r := NewResolver(db, nil, nil, quietLogger())
	ctx := context.Background()

	_, err := r.Feasts(ctx, 2024, calendar.SystemGregorian)
	require.NoError(t, err)

	day, err := r.Resolve(ctx, easter2024)
	require.NoError(t, err)
	assert.Equal(t, []string{"Easter Sunday (gregorian)"}, day.Feasts)
}

func TestResolve_LookupFailure(t *testing.T) {
	store := &failingStore{lookupErr: errors.New("disk gone")}
	r := NewResolver(store, nil, nil, quietLogger())

	_, err := r.Resolve(context.Background(), easter2024)
	assert.ErrorContains(t, err, "disk gone")
}

func TestResolve_WriteFailureStillReturnsDay(t *testing.T) {
	store := &failingStore{lookupErr: database.ErrNotFound, writeErr: errors.New("read-only")}
	r := NewResolver(store, nil, nil, quietLogger())

	day, err := r.Resolve(context.Background(), easter2024)
	require.NoError(t, err)
	assert.Equal(t, &calendar.Date{Year: 2024, Month: 3, Day: 31}, day.Dates["gregorian"])
	assert.Nil(t, day.Feasts)
}

func TestResolve_EmulatedJewishNumbering(t *testing.T) {
	plain := NewResolver(nil, DefaultCalendars(false), nil, quietLogger())
	emulated := NewResolver(nil, DefaultCalendars(true), nil, quietLogger())

	nisan, err := calendar.Jewish{}.YmdToJd(5777, calendar.Nisan, 1)
	require.NoError(t, err)
	assert.Equal(t, plain.Compute(nisan).Dates["jewish"], emulated.Compute(nisan).Dates["jewish"])

	// Adar of a common year is month 7, or month 6 under the old numbering.
	const adar5777 = 2457812
	assert.Equal(t, calendar.AdarII, plain.Compute(adar5777).Dates["jewish"].Month)
	assert.Equal(t, calendar.AdarI, emulated.Compute(adar5777).Dates["jewish"].Month)
}

// -----------------------------------------------------------------
// Feast tests
// -----------------------------------------------------------------

func TestFeasts_CachesYear(t *testing.T) {
	db := testDB(t)
	r := NewResolver(db, nil, nil, quietLogger())
	ctx := context.Background()

	computed, err := r.Feasts(ctx, 2024, calendar.SystemGregorian)
	require.NoError(t, err)

	rows, err := db.GetFeasts(ctx, 2024, "gregorian")
	require.NoError(t, err)
	assert.Len(t, rows, len(computed))

	cached, err := r.Feasts(ctx, 2024, calendar.SystemGregorian)
	require.NoError(t, err)
	assert.Equal(t, computed, cached)
}

func TestFeasts_WithoutStore(t *testing.T) {
	r := NewResolver(nil, nil, nil, quietLogger())

	got, err := r.Feasts(context.Background(), 2024, calendar.SystemJulian)
	require.NoError(t, err)
	want, err := calendar.Feasts(2024, calendar.SystemJulian)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFeasts_NoEasterInReckoning(t *testing.T) {
	db := testDB(t)
	r := NewResolver(db, nil, nil, quietLogger())

	_, err := r.Feasts(context.Background(), 1403, calendar.SystemPersian)
	assert.Error(t, err)
}

// -----------------------------------------------------------------
// Builder tests
// -----------------------------------------------------------------

func TestBuild(t *testing.T) {
	db := testDB(t)
	m := metrics.New()
	b := NewBuilder(NewResolver(db, nil, m, quietLogger()), 7, 3)
	ctx := context.Background()

	result, err := b.Build(ctx, easter2024-20, easter2024+19)
	require.NoError(t, err)
	assert.Equal(t, 40, result.Rows)
	assert.Equal(t, 6, result.Batches)

	stats, err := db.ConcordanceStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, stats.Rows)
	assert.Equal(t, easter2024-20, *stats.MinJD)
	assert.Equal(t, easter2024+19, *stats.MaxJD)
	assert.InDelta(t, 40, testutil.ToFloat64(m.ConcordanceBuilt), 0)
}

func TestBuild_InvalidRange(t *testing.T) {
	b := NewBuilder(NewResolver(testDB(t), nil, nil, quietLogger()), 0, 0)

	_, err := b.Build(context.Background(), 10, 9)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = b.Build(context.Background(), 0, MaxSpan)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestBuild_RangeAtTheLimits(t *testing.T) {
	b := NewBuilder(NewResolver(testDB(t), nil, nil, quietLogger()), 0, 0)
	ctx := context.Background()

	tests := []struct {
		name     string
		from, to int
	}{
		{"span overflows int", -1 << 62, 1 << 62},
		{"both ends at the extremes", math.MinInt, math.MaxInt},
		{"to near MaxInt", math.MaxInt - 10, math.MaxInt},
		{"from before every calendar", firstDay - 1, firstDay + 10},
		{"to after every calendar", lastDay - 10, lastDay + 1},
		{"one day past MaxSpan", firstDay, firstDay + MaxSpan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := b.Build(ctx, tt.from, tt.to)
			assert.ErrorIs(t, err, ErrInvalidRange)
			assert.Zero(t, result.Batches)
		})
	}
}

func TestBuild_LastDayEndsTheLoop(t *testing.T) {
	db := testDB(t)
	b := NewBuilder(NewResolver(db, nil, nil, quietLogger()), 4, 1)

	result, err := b.Build(context.Background(), lastDay-9, lastDay)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Rows)
	assert.Equal(t, 3, result.Batches)

	stats, err := db.ConcordanceStats(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stats.MaxJD)
	assert.Equal(t, lastDay, *stats.MaxJD)
}

func TestDayBounds(t *testing.T) {
	assert.Equal(t, calendar.Gregorian{}.JdStart(), firstDay)
	assert.Equal(t, calendar.Persian{}.JdEnd(), lastDay)
}

func TestBuild_NoStore(t *testing.T) {
	b := NewBuilder(NewResolver(nil, nil, nil, quietLogger()), 0, 0)

	_, err := b.Build(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestBuild_StopsOnFailure(t *testing.T) {
	store := &failingStore{writeErr: errors.New("locked")}
	b := NewBuilder(NewResolver(store, nil, nil, quietLogger()), 10, 1)

	result, err := b.Build(context.Background(), 1, 100)
	assert.ErrorContains(t, err, "locked")
	assert.Equal(t, 0, result.Rows)
	assert.Less(t, store.writes, 10, "cancellation should skip later batches")
}

func TestStore(t *testing.T) {
	db := testDB(t)
	b := NewBuilder(NewResolver(db, nil, nil, quietLogger()), 2, 0)
	ctx := context.Background()

	result, err := b.Store(ctx, []int{easter2024 + 7, easter2024, easter2024 + 7, 2451545, easter2024})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, 2, result.Batches)
	assert.Equal(t, 2451545, result.From)
	assert.Equal(t, easter2024+7, result.To)

	row, err := db.GetConcordance(ctx, easter2024)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, easter2024, row.JD)

	result, err = b.Store(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Rows)
}

func TestStore_Failure(t *testing.T) {
	store := &failingStore{writeErr: errors.New("locked")}
	b := NewBuilder(NewResolver(store, nil, nil, quietLogger()), 1, 0)

	result, err := b.Store(context.Background(), []int{1, 2, 3})
	assert.ErrorContains(t, err, "batch 1..1")
	assert.Zero(t, result.Rows)
	assert.Equal(t, 1, store.writes)

	_, err = NewBuilder(NewResolver(nil, nil, nil, quietLogger()), 0, 0).Store(context.Background(), []int{1})
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestStore_OutsideEveryCalendar(t *testing.T) {
	store := &failingStore{}
	b := NewBuilder(NewResolver(store, nil, nil, quietLogger()), 0, 0)

	for _, jds := range [][]int{{0, 5}, {5, math.MaxInt}} {
		_, err := b.Store(context.Background(), jds)
		assert.ErrorIs(t, err, ErrInvalidRange, "%v", jds)
	}
	assert.Zero(t, store.writes)
}
