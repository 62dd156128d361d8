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

// Feasts returns the movable observances of year in the given reckoning,
// served from the store when the year is cached. Only the Gregorian and
// Julian reckonings have an Easter.
func (r *Resolver) Feasts(ctx context.Context, year int, reckoning calendar.System) ([]calendar.Observance, error) {
	if r.store == nil {
		return calendar.Feasts(year, reckoning)
	}

	rows, err := r.store.GetFeasts(ctx, year, reckoning.String())
	switch {
	case err == nil:
		r.metrics.IncCache(metrics.CacheHit)
		return observancesFromRows(rows, reckoning)
	case !database.IsNotFound(err):
		return nil, fmt.Errorf("lookup feasts %d: %w", year, err)
	}

	r.metrics.IncCache(metrics.CacheMiss)
	observances, err := calendar.Feasts(year, reckoning)
	if err != nil {
		return nil, err
	}

	feastRows := make([]database.FeastRow, len(observances))
	for i, o := range observances {
		feastRows[i] = database.FeastRow{Year: year, Reckoning: reckoning.String(), Name: o.Name, JD: o.JD}
	}
	if err := r.store.SaveFeasts(ctx, feastRows); err != nil {
		r.logger.WarnContext(ctx, "feast cache write failed",
			slog.String(logger.KeyRequestID, logger.RequestID(ctx)),
			slog.Int(logger.KeyYear, year),
			slog.String(logger.KeyCalendar, reckoning.String()),
			slog.String("error", err.Error()),
		)
	}
	return observances, nil
}

func observancesFromRows(rows []database.FeastRow, reckoning calendar.System) ([]calendar.Observance, error) {
	cal, err := calendar.For(reckoning)
	if err != nil {
		return nil, err
	}

	observances := make([]calendar.Observance, len(rows))
	for i, row := range rows {
		date, err := cal.JdToYmd(row.JD)
		if err != nil {
			return nil, fmt.Errorf("cached feast %s: %w", row.Name, err)
		}
		observances[i] = calendar.Observance{
			Name:    row.Name,
			JD:      row.JD,
			Date:    date,
			Weekday: calendar.DayOfWeek(row.JD).String(),
		}
	}
	return observances, nil
}
