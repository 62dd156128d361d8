package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/zapponejosh/calendar-api/internal/calendar"
	"github.com/zapponejosh/calendar-api/internal/concordance"
)

// coverage walks every day of a range of Gregorian years through a running
// API and checks each calendar date it returns against a local round trip.

// APIResponse matches the API response structure
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ConcordanceDay struct {
	JD      int                       `json:"jd"`
	Weekday string                    `json:"weekday"`
	Dates   map[string]*calendar.Date `json:"dates"`
}

type LiturgicalDay struct {
	Season string `json:"season"`
	Period string `json:"period"`
}

// TestResult holds the result for a single day
type TestResult struct {
	Date     string `json:"date"`
	JD       int    `json:"jd"`
	Success  bool   `json:"success"`
	Season   string `json:"season,omitempty"`
	Calendar string `json:"calendar,omitempty"`
	Error    string `json:"error,omitempty"`
}

// SeasonStats tracks statistics for each liturgical season
type SeasonStats struct {
	Season      string   `json:"season"`
	TotalDays   int      `json:"total_days"`
	SuccessDays int      `json:"success_days"`
	FailedDays  int      `json:"failed_days"`
	FailedDates []string `json:"failed_dates,omitempty"`
}

type options struct {
	baseURL         string
	startYear       int
	years           int
	verbose         bool
	emulateBug54254 bool
}

func main() {
	var opts options
	flag.StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the API")
	flag.IntVar(&opts.startYear, "start", 2024, "Start year")
	flag.IntVar(&opts.years, "years", 4, "Number of years to test")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose output (show each date)")
	flag.BoolVar(&opts.emulateBug54254, "emulate-bug-54254", false, "Expect the server's legacy Jewish month numbering")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}
	analysis, err := run(client, opts, os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}

	if *outputFile != "" {
		saveResults(*outputFile, analysis)
	}

	// Exit with error code if there were failures
	if analysis.TotalFailed > 0 {
		os.Exit(1)
	}
}

func run(client *http.Client, opts options, out io.Writer) (*Analysis, error) {
	endYear := opts.startYear + opts.years - 1
	first, last, err := dayRange(opts.startYear, endYear)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "================================================================")
	fmt.Fprintln(out, "Calendar API - Full Coverage Test")
	fmt.Fprintln(out, "================================================================")
	fmt.Fprintf(out, "Base URL:    %s\n", opts.baseURL)
	fmt.Fprintf(out, "Date Range:  %d-01-01 to %d-12-31\n", opts.startYear, endYear)
	fmt.Fprintf(out, "Total Years: %d\n", opts.years)
	fmt.Fprintln(out)

	resp, err := client.Get(opts.baseURL + "/health")
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s: %w", opts.baseURL, err)
	}
	resp.Body.Close()

	checker := newChecker(opts.emulateBug54254)
	results := testAllDays(client, checker, opts, first, last, out)
	analysis := analyzeResults(results)

	printSummary(out, analysis, opts.startYear, endYear)
	printFailuresBySeason(out, analysis)
	printAllFailures(out, analysis)

	return analysis, nil
}

// checker holds the local calendars used to verify each response.
type checker struct {
	calendars map[string]calendar.Calendar
}

func newChecker(emulateBug54254 bool) *checker {
	c := &checker{calendars: make(map[string]calendar.Calendar)}
	for _, cal := range concordance.DefaultCalendars(emulateBug54254) {
		c.calendars[cal.System().String()] = cal
	}
	return c
}

// verify returns the first calendar whose date disagrees with jd, and why.
func (c *checker) verify(day ConcordanceDay, jd int) (string, string) {
	if day.JD != jd {
		return "", fmt.Sprintf("Returned JD %d", day.JD)
	}
	if want := calendar.DayOfWeek(jd).String(); day.Weekday != want {
		return "", fmt.Sprintf("Weekday %q, want %q", day.Weekday, want)
	}

	names := make([]string, 0, len(c.calendars))
	for name := range c.calendars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cal := c.calendars[name]
		got, ok := day.Dates[name]
		if !ok {
			return name, "Calendar missing from response"
		}

		want, err := cal.JdToYmd(jd)
		switch {
		case err != nil && got != nil:
			return name, fmt.Sprintf("Returned %s for a day outside the calendar", got)
		case err != nil:
			continue
		case got == nil:
			return name, "No date for a day inside the calendar"
		case *got != want:
			return name, fmt.Sprintf("Returned %s, want %s", got, want)
		}

		back, err := cal.YmdToJd(got.Year, got.Month, got.Day)
		if err != nil {
			return name, fmt.Sprintf("Round trip failed: %v", err)
		}
		if back != jd {
			return name, fmt.Sprintf("Round trip gave JD %d", back)
		}
	}
	return "", ""
}

// dayRange returns the day numbers of 1 January of startYear and 31 December
// of endYear.
func dayRange(startYear, endYear int) (first, last int, err error) {
	if endYear < startYear {
		return 0, 0, fmt.Errorf("invalid range: at least one year is required")
	}
	greg := calendar.Gregorian{}
	if first, err = greg.YmdToJd(startYear, 1, 1); err != nil {
		return 0, 0, fmt.Errorf("start year %d: %w", startYear, err)
	}
	if last, err = greg.YmdToJd(endYear, 12, 31); err != nil {
		return 0, 0, fmt.Errorf("end year %d: %w", endYear, err)
	}
	return first, last, nil
}

func testAllDays(client *http.Client, c *checker, opts options, first, last int, out io.Writer) []TestResult {
	totalDays := last - first + 1

	fmt.Fprintf(out, "Testing %d days...\n\n", totalDays)

	results := make([]TestResult, 0, totalDays)
	failed := 0
	lastProgress := -1

	for jd := first; jd <= last; jd++ {
		result := testDay(client, c, opts.baseURL, jd)
		results = append(results, result)
		if !result.Success {
			failed++
		}

		// Show progress
		tested := jd - first + 1
		progress := (tested * 100) / totalDays
		if progress != lastProgress && progress%5 == 0 {
			fmt.Fprintf(out, "  Progress: %d%% (%d/%d) - Failures: %d\n", progress, tested, totalDays, failed)
			lastProgress = progress
		}

		if opts.verbose {
			status := "✓"
			if !result.Success {
				status = "✗"
			}
			fmt.Fprintf(out, "  %s %s: JD %d / %s\n", status, result.Date, jd, result.Season)
			if !result.Success {
				fmt.Fprintf(out, "      Error: %s %s\n", result.Calendar, result.Error)
			}
		}
	}

	fmt.Fprintln(out)
	return results
}

func testDay(client *http.Client, c *checker, baseURL string, jd int) TestResult {
	result := TestResult{JD: jd}
	if d, err := (calendar.Gregorian{}).JdToYmd(jd); err == nil {
		result.Date = d.String()
	}

	var lit LiturgicalDay
	if err := getData(client, fmt.Sprintf("%s/api/v1/liturgical/%d", baseURL, jd), &lit); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Season = lit.Season

	var day ConcordanceDay
	if err := getData(client, fmt.Sprintf("%s/api/v1/concordance/%d", baseURL, jd), &day); err != nil {
		result.Error = err.Error()
		return result
	}

	result.Calendar, result.Error = c.verify(day, jd)
	result.Success = result.Error == ""
	return result
}

func getData(client *http.Client, url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("Connection error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("Read error: %v", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("Parse error: %v", err)
	}

	if !apiResp.Success {
		errMsg := "Unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("%s", errMsg)
	}

	if err := json.Unmarshal(apiResp.Data, v); err != nil {
		return fmt.Errorf("Data parse error: %v", err)
	}
	return nil
}

// Analysis holds the analyzed results
type Analysis struct {
	TotalDays    int
	TotalSuccess int
	TotalFailed  int
	BySeason     map[string]*SeasonStats
	ByYear       map[int]*YearStats
	ByCalendar   map[string]int
	AllFailures  []TestResult
}

type YearStats struct {
	Year        int
	TotalDays   int
	SuccessDays int
	FailedDays  int
}

func analyzeResults(results []TestResult) *Analysis {
	analysis := &Analysis{
		BySeason:   make(map[string]*SeasonStats),
		ByYear:     make(map[int]*YearStats),
		ByCalendar: make(map[string]int),
	}

	for _, r := range results {
		analysis.TotalDays++

		d, _ := (calendar.Gregorian{}).JdToYmd(r.JD)
		year := d.Year

		// Year stats
		if _, ok := analysis.ByYear[year]; !ok {
			analysis.ByYear[year] = &YearStats{Year: year}
		}
		analysis.ByYear[year].TotalDays++

		// Season stats
		season := r.Season
		if season == "" {
			season = "(resolution failed)"
		}
		if _, ok := analysis.BySeason[season]; !ok {
			analysis.BySeason[season] = &SeasonStats{Season: season}
		}
		analysis.BySeason[season].TotalDays++

		if r.Success {
			analysis.TotalSuccess++
			analysis.ByYear[year].SuccessDays++
			analysis.BySeason[season].SuccessDays++
		} else {
			analysis.TotalFailed++
			analysis.ByYear[year].FailedDays++
			analysis.BySeason[season].FailedDays++
			analysis.BySeason[season].FailedDates = append(analysis.BySeason[season].FailedDates, r.Date)
			if r.Calendar != "" {
				analysis.ByCalendar[r.Calendar]++
			}
			analysis.AllFailures = append(analysis.AllFailures, r)
		}
	}

	return analysis
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func printSummary(out io.Writer, analysis *Analysis, startYear, endYear int) {
	fmt.Fprintln(out, "================================================================")
	fmt.Fprintln(out, "SUMMARY")
	fmt.Fprintln(out, "================================================================")
	fmt.Fprintf(out, "Total Days Tested: %d\n", analysis.TotalDays)
	fmt.Fprintf(out, "Successful:        %d (%.1f%%)\n", analysis.TotalSuccess, percent(analysis.TotalSuccess, analysis.TotalDays))
	fmt.Fprintf(out, "Failed:            %d (%.1f%%)\n", analysis.TotalFailed, percent(analysis.TotalFailed, analysis.TotalDays))
	fmt.Fprintln(out)

	// By year
	fmt.Fprintln(out, "By Year:")
	for year := startYear; year <= endYear; year++ {
		if stats, ok := analysis.ByYear[year]; ok {
			status := "✓"
			if stats.FailedDays > 0 {
				status = "✗"
			}
			fmt.Fprintf(out, "  %s %d: %d/%d days (%.1f%% success)\n",
				status, year, stats.SuccessDays, stats.TotalDays, percent(stats.SuccessDays, stats.TotalDays))
		}
	}
	fmt.Fprintln(out)
}

func printFailuresBySeason(out io.Writer, analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		fmt.Fprintln(out, "No failures! 🎉")
		return
	}

	fmt.Fprintln(out, "================================================================")
	fmt.Fprintln(out, "FAILURES BY SEASON")
	fmt.Fprintln(out, "================================================================")

	// Sort seasons by failure count
	var seasons []*SeasonStats
	for _, stats := range analysis.BySeason {
		if stats.FailedDays > 0 {
			seasons = append(seasons, stats)
		}
	}
	sort.Slice(seasons, func(i, j int) bool {
		if seasons[i].FailedDays != seasons[j].FailedDays {
			return seasons[i].FailedDays > seasons[j].FailedDays
		}
		return seasons[i].Season < seasons[j].Season
	})

	for _, stats := range seasons {
		fmt.Fprintf(out, "\n%s: %d failures\n", stats.Season, stats.FailedDays)
		// Show up to 5 example dates
		for i, date := range stats.FailedDates {
			if i >= 5 {
				fmt.Fprintf(out, "  ... and %d more\n", len(stats.FailedDates)-5)
				break
			}
			fmt.Fprintf(out, "  - %s\n", date)
		}
	}

	if len(analysis.ByCalendar) > 0 {
		fmt.Fprintln(out, "\nBy calendar:")
		names := make([]string, 0, len(analysis.ByCalendar))
		for name := range analysis.ByCalendar {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %s: %d\n", name, analysis.ByCalendar[name])
		}
	}
	fmt.Fprintln(out)
}

func printAllFailures(out io.Writer, analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		return
	}

	if analysis.TotalFailed > 50 {
		fmt.Fprintf(out, "(Showing first 50 of %d failures)\n\n", analysis.TotalFailed)
	}

	fmt.Fprintln(out, "================================================================")
	fmt.Fprintln(out, "ALL FAILURES (Date | JD | Calendar | Error)")
	fmt.Fprintln(out, "================================================================")

	for i, f := range analysis.AllFailures {
		if i >= 50 {
			break
		}
		cal := f.Calendar
		if cal == "" {
			cal = "-"
		}
		fmt.Fprintf(out, "  %s | %d | %s | %s\n", f.Date, f.JD, cal, f.Error)
	}
	fmt.Fprintln(out)
}

func saveResults(filename string, analysis *Analysis) {
	output := struct {
		GeneratedAt string                  `json:"generated_at"`
		Summary     map[string]any          `json:"summary"`
		BySeason    map[string]*SeasonStats `json:"by_season"`
		ByCalendar  map[string]int          `json:"by_calendar"`
		Failures    []TestResult            `json:"failures"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: map[string]any{
			"total_days":    analysis.TotalDays,
			"total_success": analysis.TotalSuccess,
			"total_failed":  analysis.TotalFailed,
			"success_rate":  fmt.Sprintf("%.2f%%", percent(analysis.TotalSuccess, analysis.TotalDays)),
		},
		BySeason:   analysis.BySeason,
		ByCalendar: analysis.ByCalendar,
		Failures:   analysis.AllFailures,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		fmt.Printf("Error writing file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}
