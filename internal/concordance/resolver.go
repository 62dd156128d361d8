// Package concordance resolves a Julian Day Number into every supported
// calendar at once, reading and filling the SQLite cache on the way.
package concordance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zapponejosh/calendar-api/internal/calendar"
	"github.com/zapponejosh/calendar-api/internal/database"
	"github.com/zapponejosh/calendar-api/internal/logger"
	"github.com/zapponejosh/calendar-api/internal/metrics"
)

// Store is the subset of the database used by the resolver.
// Both *database.DB and test fakes satisfy it.
type Store interface {
	GetConcordance(ctx context.Context, jd int) (*database.ConcordanceRow, error)
	UpsertConcordance(ctx context.Context, row *database.ConcordanceRow) error
	UpsertConcordanceBatch(ctx context.Context, rows []database.ConcordanceRow) (int, error)
	GetFeasts(ctx context.Context, year int, reckoning string) ([]database.FeastRow, error)
	SaveFeasts(ctx context.Context, feasts []database.FeastRow) error
	FeastsOnDay(ctx context.Context, jd int) ([]database.FeastRow, error)
}

// Day is one Julian Day Number expressed in every calendar. A calendar that
// cannot express the day maps to nil.
type Day struct {
	JD      int                       `json:"jd"`
	Weekday string                    `json:"weekday"`
	Dates   map[string]*calendar.Date `json:"dates"`
	Feasts  []string                  `json:"feasts,omitempty"`
	Cached  bool                      `json:"cached"`
}

// Resolver computes concordance days. The store is optional; without one
// every day is computed.
type Resolver struct {
	store     Store
	calendars []calendar.Calendar
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// DefaultCalendars returns one calendar per system, in System order.
func DefaultCalendars(emulateBug54254 bool) []calendar.Calendar {
	cals := make([]calendar.Calendar, 0, len(calendar.Systems))
	for _, s := range calendar.Systems {
		if s == calendar.SystemJewish {
			cals = append(cals, calendar.Jewish{EmulateBug54254: emulateBug54254})
			continue
		}
		cals = append(cals, calendar.MustFor(s))
	}
	return cals
}

// NewResolver creates a resolver over the given calendars. A nil logger
// falls back to slog.Default().
func NewResolver(store Store, cals []calendar.Calendar, m *metrics.Metrics, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	if len(cals) == 0 {
		cals = DefaultCalendars(false)
	}
	return &Resolver{store: store, calendars: cals, metrics: m, logger: log}
}

// Compute converts jd into every calendar without touching the store.
func (r *Resolver) Compute(jd int) Day {
	day := Day{
		JD:      jd,
		Weekday: calendar.DayOfWeek(jd).String(),
		Dates:   make(map[string]*calendar.Date, len(r.calendars)),
	}
	for _, cal := range r.calendars {
		name := cal.System().String()
		date, err := cal.JdToYmd(jd)
		if err != nil {
			r.metrics.IncConversion(name, "jd_to_ymd", metrics.Outcome(err))
			day.Dates[name] = nil
			continue
		}
		r.metrics.IncConversion(name, "jd_to_ymd", metrics.OutcomeOK)
		day.Dates[name] = &date
	}
	return day
}

// Resolve returns jd in every calendar, served from the store when cached.
// A failed cache write is logged and the computed day is still returned.
func (r *Resolver) Resolve(ctx context.Context, jd int) (Day, error) {
	if r.store == nil {
		return r.Compute(jd), nil
	}

	row, err := r.store.GetConcordance(ctx, jd)
	switch {
	case err == nil:
		r.metrics.IncCache(metrics.CacheHit)
		day, err := r.fromRow(row)
		if err != nil {
			return Day{}, err
		}
		day.Feasts = r.feastsOn(ctx, jd)
		return day, nil
	case !database.IsNotFound(err):
		return Day{}, fmt.Errorf("lookup concordance %d: %w", jd, err)
	}

	r.metrics.IncCache(metrics.CacheMiss)
	day := r.Compute(jd)
	if err := r.store.UpsertConcordance(ctx, r.toRow(day)); err != nil {
		r.logger.WarnContext(ctx, "concordance cache write failed",
			slog.String(logger.KeyRequestID, logger.RequestID(ctx)),
			slog.Int(logger.KeyJD, jd),
			slog.String("error", err.Error()),
		)
	}
	day.Feasts = r.feastsOn(ctx, jd)
	return day, nil
}

func (r *Resolver) feastsOn(ctx context.Context, jd int) []string {
	rows, err := r.store.FeastsOnDay(ctx, jd)
	if err != nil {
		r.logger.DebugContext(ctx, "feast lookup failed",
			slog.Int(logger.KeyJD, jd),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if len(rows) == 0 {
		return nil
	}
	names := make([]string, len(rows))
	for i, f := range rows {
		names[i] = fmt.Sprintf("%s (%s)", f.Name, f.Reckoning)
	}
	return names
}

// toRow flattens a day into its cache row.
func (r *Resolver) toRow(day Day) *database.ConcordanceRow {
	row := &database.ConcordanceRow{
		JD:      day.JD,
		Weekday: int(calendar.DayOfWeek(day.JD)),
	}
	for name, date := range day.Dates {
		if date == nil {
			continue
		}
		s := formatDate(*date)
		switch name {
		case calendar.SystemGregorian.String():
			row.Gregorian = &s
		case calendar.SystemJulian.String():
			row.Julian = &s
		case calendar.SystemFrench.String():
			row.French = &s
		case calendar.SystemJewish.String():
			row.Jewish = &s
		case calendar.SystemArabic.String():
			row.Arabic = &s
		case calendar.SystemPersian.String():
			row.Persian = &s
		}
	}
	return row
}

// fromRow rebuilds a day from its cache row.
func (r *Resolver) fromRow(row *database.ConcordanceRow) (Day, error) {
	columns := map[calendar.System]*string{
		calendar.SystemGregorian: row.Gregorian,
		calendar.SystemJulian:    row.Julian,
		calendar.SystemFrench:    row.French,
		calendar.SystemJewish:    row.Jewish,
		calendar.SystemArabic:    row.Arabic,
		calendar.SystemPersian:   row.Persian,
	}

	day := Day{
		JD:      row.JD,
		Weekday: calendar.Weekday(row.Weekday).String(),
		Dates:   make(map[string]*calendar.Date, len(r.calendars)),
		Cached:  true,
	}
	for _, cal := range r.calendars {
		s := columns[cal.System()]
		if s == nil {
			day.Dates[cal.System().String()] = nil
			continue
		}
		date, err := parseDate(*s)
		if err != nil {
			return Day{}, fmt.Errorf("cached %s date for %d: %w", cal.System(), row.JD, err)
		}
		day.Dates[cal.System().String()] = &date
	}
	return day, nil
}

// formatDate writes a date as year-month-day without padding so that
// negative years survive a round trip.
func formatDate(d calendar.Date) string {
	return fmt.Sprintf("%d-%d-%d", d.Year, d.Month, d.Day)
}

func parseDate(s string) (calendar.Date, error) {
	var d calendar.Date
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &d.Year, &d.Month, &d.Day); err != nil {
		return calendar.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}
