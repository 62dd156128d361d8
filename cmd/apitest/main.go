package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// DayResponse is the response for /calendars/{system}/jd and /date/{jd}
type DayResponse struct {
	Calendar  string `json:"calendar"`
	JD        int    `json:"jd"`
	Date      Date   `json:"date"`
	Formatted string `json:"formatted"`
	MonthName string `json:"month_name"`
	Weekday   string `json:"weekday"`
}

// EasterResponse is the response for /easter/{year}
type EasterResponse struct {
	Reckoning string `json:"reckoning"`
	Gregorian Date   `json:"gregorian"`
	Feasts    []struct {
		Name string `json:"name"`
	} `json:"feasts"`
}

// LiturgicalResponse is the response for /liturgical/{jd}
type LiturgicalResponse struct {
	Period      string `json:"period"`
	Weekday     string `json:"weekday"`
	SundayCycle string `json:"sunday_cycle"`
	DailyCycle  int    `json:"daily_cycle"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status string `json:"status"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	out          io.Writer
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, out io.Writer, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		out:     out,
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Calendar API Test Suite")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)

	// Run test groups
	tr.testHealth()
	tr.testConversions()
	tr.testEaster()
	tr.testHebrew()
	tr.testEdgeCases()
	tr.testLiturgicalSeasons()

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testConversions() {
	tr.printSection("Conversions of JD 2460401 (Easter 2024)")

	expected := map[string]string{
		"gregorian": "2024-03-31",
		"julian":    "2024-03-18",
		"jewish":    "5784-07-21",
		"arabic":    "1445-09-22",
		"persian":   "1403-01-12",
	}
	for _, system := range []string{"gregorian", "julian", "jewish", "arabic", "persian"} {
		var day DayResponse
		if err := tr.getData("/api/v1/calendars/"+system+"/date/2460401", &day); err != nil {
			tr.recordError(system, err.Error())
			continue
		}
		if day.Formatted != expected[system] {
			tr.recordError(system, fmt.Sprintf("got %s, want %s", day.Formatted, expected[system]))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%-10s %s %s", system, day.Formatted, day.MonthName))

		// Round trip back to the day number
		var back DayResponse
		path := fmt.Sprintf("/api/v1/calendars/%s/jd?year=%d&month=%d&day=%d", system, day.Date.Year, day.Date.Month, day.Date.Day)
		if err := tr.getData(path, &back); err != nil {
			tr.recordError(system+" round trip", err.Error())
		} else if back.JD != 2460401 {
			tr.recordError(system+" round trip", fmt.Sprintf("got JD %d", back.JD))
		}
	}

	resp, err := tr.getRaw("/api/v1/calendars/french/date/2460401")
	if err == nil && resp.StatusCode == http.StatusUnprocessableEntity {
		tr.recordSuccess("French Republican date outside years I-XIV rejected")
	} else {
		tr.recordError("French", "Should reject a day after year XIV")
	}
	closeBody(resp)
}

func (tr *TestRunner) testEaster() {
	tr.printSection("Easter")

	for _, tc := range []struct {
		path      string
		reckoning string
		gregorian Date
	}{
		{"/api/v1/easter/2024", "gregorian", Date{2024, 3, 31}},
		{"/api/v1/easter/2024?method=julian", "julian", Date{2024, 5, 5}},
		{"/api/v1/easter/1700", "julian", Date{1700, 4, 11}},
	} {
		var easter EasterResponse
		if err := tr.getData(tc.path, &easter); err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		if easter.Reckoning != tc.reckoning || easter.Gregorian != tc.gregorian {
			tr.recordError(tc.path, fmt.Sprintf("got %s %+v", easter.Reckoning, easter.Gregorian))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %d-%02d-%02d (%s, %d feasts)",
			tc.path, easter.Gregorian.Year, easter.Gregorian.Month, easter.Gregorian.Day, easter.Reckoning, len(easter.Feasts)))
	}

	resp, err := tr.getRaw("/api/v1/easter.ics?from=2024&years=1")
	if err != nil {
		tr.recordError("Feed", err.Error())
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusOK && strings.HasPrefix(string(body), "BEGIN:VCALENDAR") {
		tr.recordSuccess(fmt.Sprintf("iCalendar feed served (%d events)", strings.Count(string(body), "BEGIN:VEVENT")))
	} else {
		tr.recordError("Feed", fmt.Sprintf("status %d", resp.StatusCode))
	}
}

func (tr *TestRunner) testHebrew() {
	tr.printSection("Hebrew")

	var numeral struct {
		Numerals string `json:"numerals"`
	}
	if err := tr.getData("/api/v1/hebrew/numeral/5776", &numeral); err != nil {
		tr.recordError("Numeral", err.Error())
	} else if numeral.Numerals != "ה׳ אלפים תשע״ו" {
		tr.recordError("Numeral", "unexpected "+numeral.Numerals)
	} else {
		tr.recordSuccess("5776 = " + numeral.Numerals)
	}

	var date struct {
		Hebrew string `json:"hebrew"`
	}
	if err := tr.getData("/api/v1/hebrew/date/2457491", &date); err != nil {
		tr.recordError("Hebrew date", err.Error())
	} else {
		tr.recordSuccess("JD 2457491 = " + date.Hebrew)
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	cases := []struct {
		path   string
		status int
		desc   string
	}{
		{"/api/v1/calendars/gregorian/jd?year=2023&month=2&day=29", http.StatusBadRequest, "29 February 2023 rejected"},
		{"/api/v1/calendars/gregorian/jd?year=2024&month=2&day=29", http.StatusOK, "Leap year date (2024-02-29) handled"},
		{"/api/v1/calendars/gregorian/jd?year=2024&month=2", http.StatusBadRequest, "Missing day parameter rejected"},
		{"/api/v1/calendars/mayan/date/1", http.StatusNotFound, "Unknown calendar rejected"},
		{"/api/v1/calendars/gregorian/date/1", http.StatusOK, "JD 1 handled"},
		{"/api/v1/hebrew/numeral/10000", http.StatusUnprocessableEntity, "Numeral past 9999 rejected"},
	}
	for _, tc := range cases {
		resp, err := tr.getRaw(tc.path)
		if err == nil && resp.StatusCode == tc.status {
			tr.recordSuccess(tc.desc)
		} else {
			tr.recordError(tc.path, fmt.Sprintf("expected status %d", tc.status))
		}
		closeBody(resp)
	}
}

func (tr *TestRunner) testLiturgicalSeasons() {
	tr.printSection("Full December 2025 (Advent → Christmas)")

	// 1 December 2025
	const first = 2461011
	for jd := first; jd < first+31; jd++ {
		var day LiturgicalResponse
		if err := tr.getData(fmt.Sprintf("/api/v1/liturgical/%d", jd), &day); err != nil {
			tr.recordError(fmt.Sprintf("JD %d", jd), err.Error())
			continue
		}
		if !tr.verbose && jd != first && day.Weekday != "Sunday" {
			tr.successCount++
			continue
		}
		tr.recordSuccess(fmt.Sprintf("2025-12-%02d: %s / %s [%s, Y%d]",
			jd-first+1, day.Period, day.Weekday, day.SundayCycle, day.DailyCycle))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

// getData fetches path and decodes the data of a successful response.
func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.getRaw(path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error: %s", errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func closeBody(resp *http.Response) {
	if resp != nil {
		resp.Body.Close()
	}
}

func (tr *TestRunner) printSection(name string) {
	fmt.Fprintln(tr.out)
	fmt.Fprintf(tr.out, "--- %s ---\n", name)
	fmt.Fprintln(tr.out)
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Fprintf(tr.out, "  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Summary")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "  Passed: %d\n", tr.successCount)
	fmt.Fprintf(tr.out, "  Failed: %d\n", tr.errorCount)
	fmt.Fprintln(tr.out)

	if tr.errorCount > 0 {
		fmt.Fprintln(tr.out, "Failures:")
		for _, err := range tr.errors {
			fmt.Fprintf(tr.out, "  • %s\n", err)
		}
		fmt.Fprintln(tr.out)
	}

	if tr.errorCount == 0 {
		fmt.Fprintln(tr.out, "All tests passed! ✓")
	} else {
		fmt.Fprintf(tr.out, "Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (show every December day)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, os.Stdout, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
