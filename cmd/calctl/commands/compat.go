package commands

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/calendar-api/internal/shim"
)

var errUnknownFunction = errors.New("unknown function")

// compatFunc runs one ext/calendar function on integer arguments.
type compatFunc struct {
	usage   string
	minArgs int
	maxArgs int
	run     func(s *shim.Shim, w io.Writer, args []int64) error
}

var compatFuncs = map[string]compatFunc{
	"cal_days_in_month": {"calendar month year", 3, 3, func(s *shim.Shim, w io.Writer, a []int64) error {
		n, err := s.CalDaysInMonth(int(a[0]), int(a[1]), int(a[2]))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, n)
		return nil
	}},
	"cal_from_jd": {"jd calendar", 2, 2, func(s *shim.Shim, w io.Writer, a []int64) error {
		date, err := s.CalFromJD(int(a[0]), int(a[1]))
		if err != nil {
			return err
		}
		return printJSON(w, date)
	}},
	"cal_info": {"[calendar]", 0, 1, func(s *shim.Shim, w io.Writer, a []int64) error {
		if len(a) == 0 || a[0] == shim.CalAll {
			return printJSON(w, s.CalInfoAll())
		}
		info, err := s.CalInfo(int(a[0]))
		if err != nil {
			return err
		}
		return printJSON(w, info)
	}},
	"cal_to_jd": {"calendar month day year", 4, 4, func(s *shim.Shim, w io.Writer, a []int64) error {
		jd, err := s.CalToJD(int(a[0]), int(a[1]), int(a[2]), int(a[3]))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, jd)
		return nil
	}},
	"easter_date": {"[year]", 0, 1, func(s *shim.Shim, w io.Writer, a []int64) error {
		year := time.Now().Year()
		if len(a) == 1 {
			year = int(a[0])
		}
		ts, err := s.EasterDate(year)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, ts)
		return nil
	}},
	"easter_days": {"[year] [method]", 0, 2, func(s *shim.Shim, w io.Writer, a []int64) error {
		year, method := time.Now().Year(), shim.EasterDefault
		if len(a) > 0 {
			year = int(a[0])
		}
		if len(a) > 1 {
			method = int(a[1])
		}
		fmt.Fprintln(w, s.EasterDays(year, method))
		return nil
	}},
	"frenchtojd": {"month day year", 3, 3, func(s *shim.Shim, w io.Writer, a []int64) error {
		fmt.Fprintln(w, s.FrenchToJD(int(a[0]), int(a[1]), int(a[2])))
		return nil
	}},
	"gregoriantojd": {"month day year", 3, 3, func(s *shim.Shim, w io.Writer, a []int64) error {
		fmt.Fprintln(w, s.GregorianToJD(int(a[0]), int(a[1]), int(a[2])))
		return nil
	}},
	"jewishtojd": {"month day year", 3, 3, func(s *shim.Shim, w io.Writer, a []int64) error {
		fmt.Fprintln(w, s.JewishToJD(int(a[0]), int(a[1]), int(a[2])))
		return nil
	}},
	"juliantojd": {"month day year", 3, 3, func(s *shim.Shim, w io.Writer, a []int64) error {
		fmt.Fprintln(w, s.JulianToJD(int(a[0]), int(a[1]), int(a[2])))
		return nil
	}},
	"jddayofweek": {"jd [mode]", 1, 2, func(s *shim.Shim, w io.Writer, a []int64) error {
		mode := shim.DowDayNo
		if len(a) > 1 {
			mode = int(a[1])
		}
		fmt.Fprintln(w, s.JDDayOfWeek(int(a[0]), mode))
		return nil
	}},
	"jdmonthname": {"jd mode", 2, 2, func(s *shim.Shim, w io.Writer, a []int64) error {
		fmt.Fprintln(w, s.JDMonthName(int(a[0]), int(a[1])))
		return nil
	}},
	"jdtofrench": {"jd", 1, 1, func(s *shim.Shim, w io.Writer, a []int64) error {
		fmt.Fprintln(w, s.JDToFrench(int(a[0])))
		return nil
	}},
	"jdtogregorian": {"jd", 1, 1, func(s *shim.Shim, w io.Writer, a []int64) error {
		fmt.Fprintln(w, s.JDToGregorian(int(a[0])))
		return nil
	}},
	"jdtojulian": {"jd", 1, 1, func(s *shim.Shim, w io.Writer, a []int64) error {
		fmt.Fprintln(w, s.JDToJulian(int(a[0])))
		return nil
	}},
	"jdtojewish": {"jd [hebrew] [flags]", 1, 3, func(s *shim.Shim, w io.Writer, a []int64) error {
		hebrew, flags := false, 0
		if len(a) > 1 {
			hebrew = a[1] != 0
		}
		if len(a) > 2 {
			flags = int(a[2])
		}
		text, err := s.JDToJewish(int(a[0]), hebrew, flags)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, text)
		return nil
	}},
	"jdtounix": {"jd", 1, 1, func(s *shim.Shim, w io.Writer, a []int64) error {
		ts, ok := s.JDToUnix(int(a[0]))
		if !ok {
			return errors.New("jday must be between 2440588 and 2465343")
		}
		fmt.Fprintln(w, ts)
		return nil
	}},
	"unixtojd": {"[timestamp]", 0, 1, func(s *shim.Shim, w io.Writer, a []int64) error {
		ts := time.Now().Unix()
		if len(a) == 1 {
			ts = a[0]
		}
		jd, ok := s.UnixToJD(ts)
		if !ok {
			return errors.New("timestamp must be greater than or equal to 0")
		}
		fmt.Fprintln(w, jd)
		return nil
	}},
}

func newCompatCommand(opts *options) *cobra.Command {
	var (
		location string
		bug67960 bool
		bug67976 bool
	)

	cmd := &cobra.Command{
		Use:   "compat <function> [args...]",
		Short: "Call a function of PHP's ext/calendar with its exact results",
		Long:  "compat reproduces the ext/calendar functions, including their sentinel values and historical bugs.\n\nFunctions:\n" + compatUsage(),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.ToLower(args[0])
			fn, ok := compatFuncs[name]
			if !ok {
				return fmt.Errorf("%w %q", errUnknownFunction, args[0])
			}

			values := args[1:]
			if len(values) < fn.minArgs || len(values) > fn.maxArgs {
				return fmt.Errorf("usage: %s %s", name, fn.usage)
			}
			nums := make([]int64, len(values))
			for i, v := range values {
				n, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					return fmt.Errorf("argument %d of %s: %q is not an integer", i+1, name, v)
				}
				nums[i] = n
			}

			loc := time.Local
			if location != "" {
				l, err := time.LoadLocation(location)
				if err != nil {
					return err
				}
				loc = l
			}

			s := shim.New(shim.Options{
				EmulateBug54254: opts.emulateBug54254,
				EmulateBug67960: bug67960,
				EmulateBug67976: bug67976,
				Location:        loc,
			})
			return fn.run(s, cmd.OutOrStdout(), nums)
		},
	}

	defaults := shim.DefaultOptions()
	cmd.Flags().StringVar(&location, "location", "", "time zone of easter_date (default local)")
	cmd.Flags().BoolVar(&bug67960, "emulate-bug-67960", defaults.EmulateBug67960, "swap the CAL_DOW_SHORT and CAL_DOW_LONG values")
	cmd.Flags().BoolVar(&bug67976, "emulate-bug-67976", defaults.EmulateBug67976, "negative length for the last month of French year XIV")
	return cmd
}

func compatUsage() string {
	names := make([]string, 0, len(compatFuncs))
	for name := range compatFuncs {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %-18s %s\n", name, compatFuncs[name].usage)
	}
	return b.String()
}
