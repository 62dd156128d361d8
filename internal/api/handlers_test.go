package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/calendar-api/internal/config"
	"github.com/zapponejosh/calendar-api/internal/database"
	"github.com/zapponejosh/calendar-api/internal/metrics"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

const testAPIKey = "test-key-32-characters-minimum-length"

// testEnv sets up a complete test environment with database, config and router.
type testEnv struct {
	db      *database.DB
	cfg     *config.Config
	metrics *metrics.Metrics
	router  http.Handler
}

// setupTest creates a fresh test environment.
func setupTest(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))

	db, err := database.Open(database.Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}, logger)
	require.NoError(t, err, "open test database")

	_, err = db.Migrate(context.Background())
	require.NoError(t, err, "migrate test database")
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Port:           8080,
		Env:            config.EnvDevelopment,
		DatabasePath:   ":memory:",
		APIKey:         testAPIKey,
		LogLevel:       "error",
		LogFormat:      "text",
		EasterMethod:   "default",
		MetricsEnabled: true,
		FeedYears:      2,
	}
	for _, fn := range mutate {
		fn(cfg)
	}
	require.NoError(t, cfg.Validate())

	m := metrics.New()
	handlers := NewHandlers(db, cfg, m, logger)

	return &testEnv{
		db:      db,
		cfg:     cfg,
		metrics: m,
		router:  SetupRoutes(handlers, cfg, m, logger),
	}
}

// do performs a request against the router.
func (env *testEnv) do(method, path, body, apiKey string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// envelope mirrors Response with a raw data payload.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

// parseResponse decodes the envelope and, when v is non-nil, its data.
func parseResponse(t *testing.T, rr *httptest.ResponseRecorder, v any) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	if v != nil {
		require.NoError(t, json.Unmarshal(env.Data, v), "data: %s", env.Data)
	}
	return env
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestRequestIDMiddleware(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/health", "", "")
	_, err := uuid.Parse(rr.Header().Get(HeaderRequestID))
	assert.NoError(t, err, "generated request ID should be a UUID")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	sent := uuid.NewString()
	req.Header.Set(HeaderRequestID, sent)
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, sent, rr.Header().Get(HeaderRequestID), "client UUID is kept")

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "not-a-uuid")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.NotEqual(t, "not-a-uuid", rr.Header().Get(HeaderRequestID))
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction, APIKey: testAPIKey}
	handler := AuthMiddleware(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"valid key", testAPIKey, http.StatusOK},
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "key_invalid123456789", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestAuthMiddleware_DevelopmentWithoutKey(t *testing.T) {
	cfg := &config.Config{Env: config.EnvDevelopment}
	handler := AuthMiddleware(cfg, slog.Default())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), CodeInternal)
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodOptions, "/api/v1/calendars", "", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	env := setupTest(t)

	env.do(http.MethodGet, "/api/v1/calendars/gregorian/date/2460401", "", "")
	env.do(http.MethodGet, "/api/v1/calendars/julian/date/1", "", "")

	count := testutil.ToFloat64(env.metrics.RequestsTotal.WithLabelValues(
		http.MethodGet, "/api/v1/calendars/{system}/date/{jd}", "200"))
	assert.InDelta(t, 2, count, 0)

	rr := env.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "calendar_http_requests_total")
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	env := setupTest(t, func(c *config.Config) { c.MetricsEnabled = false })

	rr := env.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// =============================================================================
// CALENDAR ENDPOINT TESTS
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data map[string]string
	resp := parseResponse(t, rr, &data)
	assert.True(t, resp.Success)
	assert.Equal(t, "healthy", data["status"])
}

func TestListCalendars(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/api/v1/calendars", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data []map[string]any
	parseResponse(t, rr, &data)
	require.Len(t, data, 6)
	assert.Equal(t, "gregorian", data[0]["id"])
	assert.Equal(t, "CAL_GREGORIAN", data[0]["calsymbol"])
	assert.Equal(t, "persian", data[5]["id"])
}

func TestGetCalendar(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/api/v1/calendars/hebrew", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data map[string]any
	parseResponse(t, rr, &data)
	assert.Equal(t, "jewish", data["id"])
	assert.Equal(t, "@#DHEBREW@", data["gedcom"])

	rr = env.do(http.MethodGet, "/api/v1/calendars/klingon", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLeapYear(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		path   string
		leap   bool
		months int
		days   int
	}{
		{"/api/v1/calendars/gregorian/leap/2024", true, 12, 366},
		{"/api/v1/calendars/gregorian/leap/1900", false, 12, 365},
		{"/api/v1/calendars/julian/leap/1900", true, 12, 366},
		{"/api/v1/calendars/jewish/leap/5784", true, 13, 383},
		{"/api/v1/calendars/jewish/leap/5785", false, 13, 355},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := env.do(http.MethodGet, tt.path, "", "")
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			var data struct {
				Leap   bool `json:"leap"`
				Months int  `json:"months"`
				Days   int  `json:"days"`
			}
			parseResponse(t, rr, &data)
			assert.Equal(t, tt.leap, data.Leap)
			assert.Equal(t, tt.months, data.Months)
			assert.Equal(t, tt.days, data.Days)
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/api/v1/calendars/gregorian/days/2024/2", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		Name string `json:"name"`
		Days int    `json:"days"`
	}
	parseResponse(t, rr, &data)
	assert.Equal(t, 29, data.Days)
	assert.Equal(t, "February", data.Name)

	rr = env.do(http.MethodGet, "/api/v1/calendars/gregorian/days/2024/13", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := parseResponse(t, rr, nil)
	assert.Equal(t, CodeInvalidDate, resp.Error.Code)

	rr = env.do(http.MethodGet, "/api/v1/calendars/gregorian/days/abc/2", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestToJD(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/api/v1/calendars/gregorian/jd?year=2024&month=3&day=31", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data dayResponse
	parseResponse(t, rr, &data)
	assert.Equal(t, 2460401, data.JD)
	assert.Equal(t, "Sunday", data.Weekday)
	assert.Equal(t, 0, data.WeekdayNo)
	assert.Equal(t, "March", data.MonthName)
}

func TestToJD_Errors(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"missing day", "/api/v1/calendars/gregorian/jd?year=2024&month=3", http.StatusBadRequest, CodeBadRequest},
		{"not a number", "/api/v1/calendars/gregorian/jd?year=x&month=3&day=1", http.StatusBadRequest, CodeBadRequest},
		{"no 29 February", "/api/v1/calendars/gregorian/jd?year=2023&month=2&day=29", http.StatusBadRequest, CodeInvalidDate},
		{"after year XIV", "/api/v1/calendars/french/jd?year=20&month=1&day=1", http.StatusUnprocessableEntity, CodeOutOfRange},
		{"unknown calendar", "/api/v1/calendars/mayan/jd?year=1&month=1&day=1", http.StatusNotFound, CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(http.MethodGet, tt.path, "", "")
			assert.Equal(t, tt.status, rr.Code)
			resp := parseResponse(t, rr, nil)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	assert.InDelta(t, 1, testutil.ToFloat64(env.metrics.Conversions.WithLabelValues("french", "ymd_to_jd", metrics.OutcomeRange)), 0)
}

func TestFromJD(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/api/v1/calendars/julian/date/2451558", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data dayResponse
	parseResponse(t, rr, &data)
	assert.Equal(t, 2000, data.Date.Year)
	assert.Equal(t, 1, data.Date.Month)
	assert.Equal(t, 1, data.Date.Day)
	assert.Equal(t, "2000-01-01", data.Formatted)

	rr = env.do(http.MethodGet, "/api/v1/calendars/jewish/date/100", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestFromJD_JewishNumberingEmulation(t *testing.T) {
	env := setupTest(t, func(c *config.Config) { c.EmulateBug54254 = true })

	// 1 Adar 5777, a common year.
	rr := env.do(http.MethodGet, "/api/v1/calendars/jewish/date/2457812", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data dayResponse
	parseResponse(t, rr, &data)
	assert.Equal(t, 6, data.Date.Month)
	assert.Equal(t, "AdarI", data.MonthName)
}

func TestConvert(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/api/v1/convert?from=gregorian&to=julian&year=2024&month=3&day=31", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		JD int         `json:"jd"`
		To dayResponse `json:"to"`
	}
	parseResponse(t, rr, &data)
	assert.Equal(t, 2460401, data.JD)
	assert.Equal(t, "2024-03-18", data.To.Formatted)

	rr = env.do(http.MethodGet, "/api/v1/convert?from=gregorian&year=2024&month=3&day=31", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodGet, "/api/v1/convert?from=gregorian&to=french&year=2024&month=3&day=31", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

// =============================================================================
// HEBREW ENDPOINT TESTS
// =============================================================================

func TestHebrewNumeral(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/hebrew/numeral/5776", "ה׳ אלפים תשע״ו"},
		{"/api/v1/hebrew/numeral/15", "ט״ו"},
		{"/api/v1/hebrew/numeral/20?flags=24", "כ׳"},
		{"/api/v1/hebrew/numeral/120?flags=24", "ק״ך"},
		{"/api/v1/hebrew/numeral/5776?flags=0", "התשעו"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := env.do(http.MethodGet, tt.path, "", "")
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			var data struct {
				Numerals string `json:"numerals"`
			}
			parseResponse(t, rr, &data)
			assert.Equal(t, tt.want, data.Numerals)
		})
	}

	rr := env.do(http.MethodGet, "/api/v1/hebrew/numeral/10000", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = env.do(http.MethodGet, "/api/v1/hebrew/numeral/5?flags=-1", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHebrewDate(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/api/v1/hebrew/date/2457491", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		Hebrew string `json:"hebrew"`
	}
	parseResponse(t, rr, &data)
	assert.Equal(t, "ד׳ ניסן התשע״ו", data.Hebrew)

	rr = env.do(http.MethodGet, "/api/v1/hebrew/date/10", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

// =============================================================================
// CONCORDANCE ENDPOINT TESTS
// =============================================================================

func TestGetConcordance(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/api/v1/concordance/2460401", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		JD      int                       `json:"jd"`
		Weekday string                    `json:"weekday"`
		Dates   map[string]map[string]int `json:"dates"`
		Cached  bool                      `json:"cached"`
	}
	parseResponse(t, rr, &data)
	assert.Equal(t, "Sunday", data.Weekday)
	assert.False(t, data.Cached)
	assert.Equal(t, map[string]int{"year": 2024, "month": 3, "day": 31}, data.Dates["gregorian"])
	assert.Nil(t, data.Dates["french"])

	rr = env.do(http.MethodGet, "/api/v1/concordance/2460401", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	parseResponse(t, rr, &data)
	assert.True(t, data.Cached)
}

func TestBuildConcordance(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodPost, "/api/v1/concordance/build", `{"from":2460400,"to":2460409}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(http.MethodPost, "/api/v1/concordance/build", `{"from":2460400,"to":2460409}`, testAPIKey)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var result struct {
		Rows int `json:"rows"`
	}
	parseResponse(t, rr, &result)
	assert.Equal(t, 10, result.Rows)

	rr = env.do(http.MethodGet, "/api/v1/concordance/stats", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var stats database.CacheStats
	parseResponse(t, rr, &stats)
	assert.Equal(t, 10, stats.Rows)

	rr = env.do(http.MethodGet, "/api/v1/concordance?from=2460405&to=2460500", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Count int `json:"count"`
	}
	parseResponse(t, rr, &list)
	assert.Equal(t, 5, list.Count)

	rr = env.do(http.MethodDelete, "/api/v1/concordance?from=2460400&to=2460404", "", testAPIKey)
	require.Equal(t, http.StatusOK, rr.Code)
	var deleted struct {
		Deleted int `json:"deleted"`
	}
	parseResponse(t, rr, &deleted)
	assert.Equal(t, 5, deleted.Deleted)
}

func TestListConcordance_Span(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		query string
		code  int
	}{
		{"from=1&to=1000", http.StatusOK},
		{"from=1&to=1001", http.StatusBadRequest},
		{"from=-9223372036854775808&to=9223372036854775807", http.StatusBadRequest},
		{"from=9223372036854775000&to=9223372036854775807", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := env.do(http.MethodGet, "/api/v1/concordance?"+tt.query, "", "")
			assert.Equal(t, tt.code, rr.Code, rr.Body.String())
		})
	}
}

func TestBuildConcordance_BadRequests(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodPost, "/api/v1/concordance/build", `not json`, testAPIKey)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodPost, "/api/v1/concordance/build", `{"from":10,"to":1}`, testAPIKey)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodPost, "/api/v1/concordance/build", `{"from":-4611686018427387904,"to":4611686018427387904}`, testAPIKey)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodPost, "/api/v1/concordance/build", `{"from":9223372036854775800,"to":9223372036854775807}`, testAPIKey)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodDelete, "/api/v1/concordance?from=1", "", testAPIKey)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// =============================================================================
// EASTER ENDPOINT TESTS
// =============================================================================

func TestGetEaster(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name      string
		path      string
		reckoning string
		date      string
		gregorian string
	}{
		{"default method", "/api/v1/easter/2024", "gregorian", "2024-03-31", "2024-03-31"},
		{"julian method", "/api/v1/easter/2024?method=julian", "julian", "2024-04-22", "2024-05-05"},
		{"default before 1753", "/api/v1/easter/1700", "julian", "1700-03-31", "1700-04-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(http.MethodGet, tt.path, "", "")
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			var data struct {
				Reckoning string           `json:"reckoning"`
				Date      map[string]int   `json:"date"`
				Gregorian map[string]int   `json:"gregorian"`
				Feasts    []map[string]any `json:"feasts"`
			}
			parseResponse(t, rr, &data)
			assert.Equal(t, tt.reckoning, data.Reckoning)
			assert.Equal(t, tt.date, formatYMD(data.Date))
			assert.Equal(t, tt.gregorian, formatYMD(data.Gregorian))
			assert.Len(t, data.Feasts, 8)
		})
	}
}

func TestGetEaster_Errors(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/api/v1/easter/2024?method=coptic", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodGet, "/api/v1/easter/0", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEasterFeed(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/api/v1/easter.ics?from=2024", "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "text/calendar; charset=utf-8", rr.Header().Get("Content-Type"))

	body := rr.Body.String()
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Contains(t, body, "DTSTART;VALUE=DATE:20240331")
	assert.Contains(t, body, "DTSTART;VALUE=DATE:20250420", "FEED_YEARS=2 covers 2025")
	assert.Equal(t, 16, strings.Count(body, "BEGIN:VEVENT"))

	rr = env.do(http.MethodGet, "/api/v1/easter.ics?from=2024&years=0", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodGet, "/api/v1/easter.ics?reckoning=jewish", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLiturgicalDay(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/api/v1/liturgical/2460646", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		Season      string `json:"season"`
		Period      string `json:"period"`
		Year        int    `json:"liturgical_year"`
		SundayCycle string `json:"sunday_cycle"`
	}
	parseResponse(t, rr, &data)
	assert.Equal(t, "Advent", data.Season)
	assert.Equal(t, "1st Week of Advent", data.Period)
	assert.Equal(t, 2024, data.Year)
	assert.Equal(t, "C", data.SundayCycle)

	rr = env.do(http.MethodGet, "/api/v1/liturgical/2460436?reckoning=julian", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	parseResponse(t, rr, &data)
	assert.Equal(t, "1st Week of Easter", data.Period)

	rr = env.do(http.MethodGet, "/api/v1/liturgical/2460436?reckoning=persian", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodGet, "/api/v1/liturgical/1000000", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestNotFound(t *testing.T) {
	env := setupTest(t)

	rr := env.do(http.MethodGet, "/api/v2/anything", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	resp := parseResponse(t, rr, nil)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
}

func formatYMD(d map[string]int) string {
	return time.Date(d["year"], time.Month(d["month"]), d["day"], 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
