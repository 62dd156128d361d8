package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/zapponejosh/calendar-api/internal/calendar"
	"github.com/zapponejosh/calendar-api/internal/concordance"
	"github.com/zapponejosh/calendar-api/internal/database"
	"github.com/zapponejosh/calendar-api/internal/logger"
)

// dategen lists every day of one liturgical year with its season and its
// date in each calendar, and can pre-fill the concordance cache for it.

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "dategen:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("dategen", flag.ContinueOnError)
	year := fs.Int("year", 2025, "Liturgical year, named for the Advent that opens it")
	reckoning := fs.String("reckoning", "gregorian", "Easter reckoning: gregorian or julian")
	dbPath := fs.String("db", "", "Concordance cache to fill (optional)")
	emulate := fs.Bool("emulate-bug-54254", false, "Number Adar of common Jewish years as month 6")
	if err := fs.Parse(args); err != nil {
		return err
	}

	system, err := calendar.ParseSystem(*reckoning)
	if err != nil {
		return err
	}
	if system != calendar.SystemGregorian && system != calendar.SystemJulian {
		return fmt.Errorf("reckoning must be gregorian or julian, got %s", system)
	}

	first, err := calendar.AdventSunday(*year, system)
	if err != nil {
		return err
	}
	next, err := calendar.AdventSunday(*year+1, system)
	if err != nil {
		return err
	}
	last := next - 1

	log := logger.New(io.Discard, "error", "text")
	var store concordance.Store
	if *dbPath != "" {
		db, err := database.Open(database.DefaultConfig(*dbPath), log)
		if err != nil {
			return err
		}
		defer db.Close()
		if _, err := db.Migrate(context.Background()); err != nil {
			return err
		}
		store = db
	}
	resolver := concordance.NewResolver(store, concordance.DefaultCalendars(*emulate), nil, log)

	fmt.Fprintf(out, "=== Liturgical Year %d (%s reckoning) ===\n\n", *year, system)

	// ==========================================================================
	// KEY DATES
	// ==========================================================================
	fmt.Fprintln(out, "Key Dates:")
	for _, y := range []int{*year, *year + 1} {
		feasts, err := resolver.Feasts(context.Background(), y, system)
		if err != nil {
			return err
		}
		for _, f := range feasts {
			if f.JD < first || f.JD > last {
				continue
			}
			fmt.Fprintf(out, "  %-16s %s  JD %d\n", f.Name+":", f.Date, f.JD)
		}
	}
	fmt.Fprintln(out)

	// ==========================================================================
	// EVERY DAY
	// ==========================================================================
	seasonCounts := make(map[calendar.Season]int)
	var rows []string
	for jd := first; jd <= last; jd++ {
		day, err := calendar.ResolveLiturgicalDay(jd, system)
		if err != nil {
			return err
		}
		seasonCounts[day.Season]++

		dates := resolver.Compute(jd).Dates
		rows = append(rows, fmt.Sprintf("%d,%s,%s,%s,%s,%s,%s,%s,%s,%s",
			jd, day.Weekday, day.Period,
			field(dates, calendar.SystemGregorian), field(dates, calendar.SystemJulian),
			field(dates, calendar.SystemJewish), field(dates, calendar.SystemFrench),
			field(dates, calendar.SystemArabic), field(dates, calendar.SystemPersian),
			day.SundayCycle,
		))
	}

	fmt.Fprintln(out, "Days by season:")
	for s := calendar.SeasonAdvent; s <= calendar.SeasonOrdinary; s++ {
		if count, ok := seasonCounts[s]; ok {
			fmt.Fprintf(out, "  %-15s %d days\n", s.String()+":", count)
		}
	}
	fmt.Fprintf(out, "  %-15s %d days\n", "TOTAL:", last-first+1)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "=== All Days ===")
	fmt.Fprintln(out, "JD,Weekday,Period,Gregorian,Julian,Jewish,French,Arabic,Persian,Sunday Cycle")
	for _, row := range rows {
		fmt.Fprintln(out, row)
	}

	// ==========================================================================
	// CACHE
	// ==========================================================================
	if store != nil {
		result, err := concordance.NewBuilder(resolver, 0, 0).Build(context.Background(), first, last)
		if err != nil {
			return err
		}
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Info("concordance cached",
			slog.String("path", *dbPath),
			slog.Int(logger.KeyCount, result.Rows),
			slog.Duration(logger.KeyDuration, result.Duration),
		)
	}
	return nil
}

func field(dates map[string]*calendar.Date, s calendar.System) string {
	if d := dates[s.String()]; d != nil {
		return d.String()
	}
	return ""
}
