// Command import loads a JSON list of dates into the concordance cache.
//
// Usage:
//
//	go run ./cmd/import -json data/dates.json -db data/calendar.db
//
// The input names each date in any supported calendar:
//
//	{
//	  "metadata": {"source": "parish register", "generated_at": "2025-01-01"},
//	  "dates": [
//	    {"calendar": "jewish", "year": 5784, "month": 7, "day": 14, "label": "Purim"},
//	    {"calendar": "gregorian", "year": 1582, "month": 10, "day": 15}
//	  ]
//	}
//
// This tool:
// 1. Parses the JSON file and converts every date to a Julian Day Number
// 2. Creates/opens the SQLite database and runs migrations
// 3. Caches the concordance row of every distinct day
// 4. Reports the cache contents
//
// Dates that do not exist in their calendar are reported and skipped.
// Importing the same file twice rewrites the same rows.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/zapponejosh/calendar-api/internal/calendar"
	"github.com/zapponejosh/calendar-api/internal/concordance"
	"github.com/zapponejosh/calendar-api/internal/database"
)

func main() {
	jsonPath := flag.String("json", "data/dates.json", "Path to JSON date list")
	dbPath := flag.String("db", "data/calendar.db", "Path to SQLite database")
	emulate := flag.Bool("emulate-bug-54254", false, "Read Jewish month 6 of common years as Adar")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if err := run(*jsonPath, *dbPath, *emulate, logger, os.Stdout); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

// ImportFile is the JSON layout read by the importer.
type ImportFile struct {
	Metadata struct {
		Source      string `json:"source"`
		GeneratedAt string `json:"generated_at"`
	} `json:"metadata"`
	Dates []ImportDate `json:"dates"`
}

// ImportDate is one date in a named calendar.
type ImportDate struct {
	Calendar string `json:"calendar"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Day      int    `json:"day"`
	Label    string `json:"label,omitempty"`
}

// ImportStats tracks import statistics.
type ImportStats struct {
	Dates      int
	Days       int
	Rejected   int
	ByCalendar map[calendar.System]int
}

func run(jsonPath, dbPath string, emulateBug54254 bool, logger *slog.Logger, out io.Writer) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read, parse and convert
	// =========================================================================
	logger.Info("reading JSON file", slog.String("path", jsonPath))

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("read JSON file: %w", err)
	}

	var file ImportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	logger.Info("parsed JSON",
		slog.Int("dates", len(file.Dates)),
		slog.String("source", file.Metadata.Source),
		slog.String("generated_at", file.Metadata.GeneratedAt),
	)

	stats := ImportStats{ByCalendar: make(map[calendar.System]int)}
	jds := convertDates(file.Dates, emulateBug54254, logger, &stats)

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Cache every distinct day
	// =========================================================================
	resolver := concordance.NewResolver(db, concordance.DefaultCalendars(emulateBug54254), nil, logger)
	result, err := concordance.NewBuilder(resolver, 0, 0).Store(ctx, jds)
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}
	stats.Days = result.Rows

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	cache, err := db.ConcordanceStats(ctx)
	if err != nil {
		return fmt.Errorf("concordance stats: %w", err)
	}

	elapsed := time.Since(startTime)

	logger.Info("import verified",
		slog.Int("cached_days", cache.Rows),
		slog.Duration("elapsed", elapsed),
	)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Import Summary ===")
	fmt.Fprintf(out, "Dates read:          %d\n", stats.Dates)
	fmt.Fprintf(out, "Days cached:         %d\n", stats.Days)
	fmt.Fprintf(out, "Dates rejected:      %d\n", stats.Rejected)
	for _, s := range sortedSystems(stats.ByCalendar) {
		fmt.Fprintf(out, "  %-18s %d\n", s.String()+":", stats.ByCalendar[s])
	}
	fmt.Fprintf(out, "Cache size:          %d days\n", cache.Rows)
	fmt.Fprintf(out, "Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// convertDates turns every valid date into a day number. Invalid entries
// are logged and counted.
func convertDates(dates []ImportDate, emulateBug54254 bool, logger *slog.Logger, stats *ImportStats) []int {
	jds := make([]int, 0, len(dates))

	for i, d := range dates {
		stats.Dates++

		system, err := calendar.ParseSystem(d.Calendar)
		if err != nil {
			stats.Rejected++
			logger.Warn("skipping date", slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}

		var cal calendar.Calendar = calendar.MustFor(system)
		if system == calendar.SystemJewish {
			cal = calendar.Jewish{EmulateBug54254: emulateBug54254}
		}

		jd, err := cal.YmdToJd(d.Year, d.Month, d.Day)
		if err != nil {
			stats.Rejected++
			logger.Warn("skipping date",
				slog.Int("index", i),
				slog.String("calendar", system.String()),
				slog.String("label", d.Label),
				slog.String("error", err.Error()),
			)
			continue
		}

		stats.ByCalendar[system]++
		jds = append(jds, jd)
		logger.Debug("converted date",
			slog.String("calendar", system.String()),
			slog.String("label", d.Label),
			slog.Int("jd", jd),
		)
	}

	return jds
}

func sortedSystems(m map[calendar.System]int) []calendar.System {
	systems := make([]calendar.System, 0, len(m))
	for s := range m {
		systems = append(systems, s)
	}
	sort.Slice(systems, func(i, j int) bool { return systems[i] < systems[j] })
	return systems
}
