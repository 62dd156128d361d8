// Package commands holds the cobra commands of calctl.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/calendar-api/internal/api"
	"github.com/zapponejosh/calendar-api/internal/calendar"
	"github.com/zapponejosh/calendar-api/internal/concordance"
	"github.com/zapponejosh/calendar-api/internal/config"
	"github.com/zapponejosh/calendar-api/internal/database"
	"github.com/zapponejosh/calendar-api/internal/logger"
	"github.com/zapponejosh/calendar-api/internal/metrics"
)

// Version is set at build time with -ldflags "-X .../commands.Version=...".
var Version = "dev"

// options are the persistent flags shared by every command.
type options struct {
	emulateBug54254 bool
	json            bool
}

// NewRootCommand builds the calctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "calctl",
		Short: "Calendar conversions, Easter and Hebrew numerals",
		Long: `calctl converts dates between the Gregorian, Julian, Jewish, French Republican,
Arabic and Persian calendars through Julian Day Numbers, computes Easter and
the movable feasts, writes Hebrew numerals, and manages the calendar API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&opts.emulateBug54254, "emulate-bug-54254", false, "number Adar of common Jewish years as month 6")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print results as JSON")

	root.AddCommand(
		newConvertCommand(opts),
		newDateCommand(opts),
		newEasterCommand(opts),
		newSeasonCommand(opts),
		newHebrewCommand(opts),
		newInfoCommand(opts),
		newCompatCommand(opts),
		newServeCommand(),
		newMigrateCommand(),
		newBuildCommand(),
		newVersionCommand(),
	)
	return root
}

// =============================================================================
// Conversion Commands
// =============================================================================

func newConvertCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "convert <from> <to> <year-month-day>",
		Short:   "Convert a date from one calendar to another",
		Example: "  calctl convert gregorian julian 2024-3-31\n  calctl convert jewish gregorian 5784-8-1",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := calendarFor(args[0], opts)
			if err != nil {
				return err
			}
			to, err := calendarFor(args[1], opts)
			if err != nil {
				return err
			}
			date, err := parseDate(args[2])
			if err != nil {
				return err
			}

			jd, err := from.YmdToJd(date.Year, date.Month, date.Day)
			if err != nil {
				return err
			}
			converted, err := to.JdToYmd(jd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, map[string]any{
					"jd":   jd,
					"from": map[string]any{"calendar": from.System().String(), "date": date},
					"to":   map[string]any{"calendar": to.System().String(), "date": converted},
				})
			}
			fmt.Fprintf(out, "%s %s = JD %d = %s %s (%s)\n",
				from.System(), date, jd, to.System(), converted, calendar.DayOfWeek(jd))
			return nil
		},
	}
}

func newDateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "date <jd>",
		Short: "Show a Julian Day Number in every calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jd, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid day number %q", args[0])
			}

			resolver := concordance.NewResolver(nil, concordance.DefaultCalendars(opts.emulateBug54254), nil, discardLogger())
			day := resolver.Compute(jd)

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, day)
			}
			fmt.Fprintf(out, "JD %d, %s\n", day.JD, day.Weekday)
			for _, s := range calendar.Systems {
				date := day.Dates[s.String()]
				if date == nil {
					fmt.Fprintf(out, "  %-10s -\n", s)
					continue
				}
				fmt.Fprintf(out, "  %-10s %s %s\n", s, date, monthName(s, *date, opts))
			}
			return nil
		},
	}
}

// =============================================================================
// Easter
// =============================================================================

func newEasterCommand(opts *options) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "easter <year>",
		Short: "Compute Easter Sunday and the movable feasts of a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil || year < 1 {
				return fmt.Errorf("invalid year %q", args[0])
			}
			m, err := calendar.ParseEasterMethod(method)
			if err != nil {
				return err
			}

			reckoning := m.Reckoning(year)
			feasts, err := calendar.Feasts(year, reckoning)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, map[string]any{
					"year":                year,
					"method":              m.String(),
					"reckoning":           reckoning.String(),
					"days_after_march_21": calendar.EasterDays(year, m),
					"feasts":              feasts,
				})
			}
			fmt.Fprintf(out, "Easter %d (%s reckoning, %d days after 21 March)\n",
				year, reckoning, calendar.EasterDays(year, m))
			for _, f := range feasts {
				gregorian, err := calendar.Gregorian{}.JdToYmd(f.JD)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %-15s %s  %-9s gregorian %s\n", f.Name, f.Date, f.Weekday, gregorian)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", "default", "reckoning: default, roman, gregorian or julian")
	return cmd
}

func newSeasonCommand(opts *options) *cobra.Command {
	var reckoning string

	cmd := &cobra.Command{
		Use:   "season <jd>",
		Short: "Place a Julian Day Number in the liturgical year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jd, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid day number %q", args[0])
			}
			s, err := calendar.ParseSystem(reckoning)
			if err != nil {
				return err
			}
			day, err := calendar.ResolveLiturgicalDay(jd, s)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, day)
			}
			fmt.Fprintf(out, "%s, %s (liturgical year %d, Sunday cycle %s, daily cycle %d)\n",
				day.Weekday, day.Period, day.Year, day.SundayCycle, day.DailyCycle)
			return nil
		},
	}

	cmd.Flags().StringVar(&reckoning, "reckoning", "gregorian", "gregorian or julian")
	return cmd
}

// =============================================================================
// Hebrew
// =============================================================================

func newHebrewCommand(opts *options) *cobra.Command {
	hebrewCmd := &cobra.Command{
		Use:   "hebrew",
		Short: "Hebrew numerals and dates",
	}

	var numeralFlags int
	var numeralThousands bool
	numeralCmd := &cobra.Command{
		Use:   "numeral <n>",
		Short: "Write a number from 1 to 9999 in Hebrew letters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid number %q", args[0])
			}
			var text string
			if cmd.Flags().Changed("thousands") {
				text, err = calendar.NumberToHebrewNumerals(n, numeralThousands)
			} else {
				text, err = calendar.HebrewNumerals(n, calendar.NumeralFlag(numeralFlags))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	numeralCmd.Flags().IntVar(&numeralFlags, "flags",
		int(calendar.AlafimGeresh|calendar.Alafim|calendar.Gershayim),
		"2 alafim geresh, 4 alafim word, 8 gershayim, 16 final forms")
	numeralCmd.Flags().BoolVar(&numeralThousands, "thousands", false,
		"use the printed form with final letters; when false the millennium is dropped")

	var dateFlags int
	dateCmd := &cobra.Command{
		Use:   "date <jd>",
		Short: "Write a Julian Day Number as a Hebrew date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jd, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid day number %q", args[0])
			}
			j := calendar.Jewish{EmulateBug54254: opts.emulateBug54254}
			text, err := j.JdToHebrew(jd, calendar.NumeralFlag(dateFlags))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	dateCmd.Flags().IntVar(&dateFlags, "flags", int(calendar.Gershayim), "numeral flags as for numeral")

	hebrewCmd.AddCommand(numeralCmd, dateCmd)
	return hebrewCmd
}

// =============================================================================
// Info
// =============================================================================

func newInfoCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info [calendar]",
		Short: "Print calendar metadata as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			systems := calendar.Systems
			if len(args) == 1 {
				s, err := calendar.ParseSystem(args[0])
				if err != nil {
					return err
				}
				systems = []calendar.System{s}
			}

			infos := make(map[string]calendar.Info, len(systems))
			for _, s := range systems {
				info := calendar.CalendarInfo(s)
				if s == calendar.SystemJewish && opts.emulateBug54254 {
					info.Months = calendar.JewishMonthNamesBug54254()
				}
				infos[s.String()] = info
			}
			return printJSON(cmd.OutOrStdout(), infos)
		},
	}
}

// =============================================================================
// Server and Cache Commands
// =============================================================================

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the calendar API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg, log, db, err := openCache(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			var m *metrics.Metrics
			if cfg.MetricsEnabled {
				m = metrics.New()
			}
			return api.Run(ctx, api.NewServer(db, cfg, m, log), log)
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending concordance cache migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := db.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s) to %s\n", applied, cfg.DatabasePath)
			return nil
		},
	}
}

func newBuildCommand() *cobra.Command {
	var from, to, batch, workers int

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fill the concordance cache for a range of Julian Day Numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := openCache(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			resolver := concordance.NewResolver(db, concordance.DefaultCalendars(cfg.EmulateBug54254), nil, log)
			result, err := concordance.NewBuilder(resolver, batch, workers).Build(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cached %d day(s) from JD %d to %d in %d batch(es), %s\n",
				result.Rows, result.From, result.To, result.Batches, result.Duration)
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "first Julian Day Number (required)")
	cmd.Flags().IntVar(&to, "to", 0, "last Julian Day Number (required)")
	cmd.Flags().IntVar(&batch, "batch", concordance.DefaultBatchSize, "rows per transaction")
	cmd.Flags().IntVar(&workers, "workers", concordance.DefaultWorkers, "concurrent batches")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the calctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "calctl %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.Setup(cfg), nil
}

// openCache loads the configuration and opens the migrated concordance cache.
func openCache(ctx context.Context) (*config.Config, *slog.Logger, *database.DB, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return nil, nil, nil, err
	}
	if _, err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func calendarFor(name string, opts *options) (calendar.Calendar, error) {
	s, err := calendar.ParseSystem(name)
	if err != nil {
		return nil, err
	}
	if s == calendar.SystemJewish {
		return calendar.Jewish{EmulateBug54254: opts.emulateBug54254}, nil
	}
	return calendar.For(s)
}

func monthName(s calendar.System, d calendar.Date, opts *options) string {
	if s == calendar.SystemJewish {
		return calendar.Jewish{EmulateBug54254: opts.emulateBug54254}.MonthName(d.Year, d.Month)
	}
	return calendar.MonthName(s, d.Year, d.Month)
}

// parseDate reads "year-month-day", where the year may be negative.
func parseDate(s string) (calendar.Date, error) {
	sign := 1
	rest := s
	if strings.HasPrefix(rest, "-") {
		sign = -1
		rest = rest[1:]
	}

	parts := strings.Split(rest, "-")
	if len(parts) != 3 {
		return calendar.Date{}, fmt.Errorf("invalid date %q: want year-month-day", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return calendar.Date{}, fmt.Errorf("invalid date %q: want year-month-day", s)
		}
		nums[i] = n
	}
	return calendar.Date{Year: sign * nums[0], Month: nums[1], Day: nums[2]}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
