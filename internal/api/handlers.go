package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/calendar-api/internal/calendar"
	"github.com/zapponejosh/calendar-api/internal/concordance"
	"github.com/zapponejosh/calendar-api/internal/config"
	"github.com/zapponejosh/calendar-api/internal/database"
	"github.com/zapponejosh/calendar-api/internal/logger"
	"github.com/zapponejosh/calendar-api/internal/metrics"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB
	resolver *concordance.Resolver
	builder  *concordance.Builder
	jewish   calendar.Jewish
	easter   calendar.EasterMethod
	metrics  *metrics.Metrics
	cfg      *config.Config
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance. cfg must already be validated.
func NewHandlers(db *database.DB, cfg *config.Config, m *metrics.Metrics, log *slog.Logger) *Handlers {
	resolver := concordance.NewResolver(db, concordance.DefaultCalendars(cfg.EmulateBug54254), m, log)
	return &Handlers{
		db:       db,
		resolver: resolver,
		builder:  concordance.NewBuilder(resolver, 0, 0),
		jewish:   calendar.Jewish{EmulateBug54254: cfg.EmulateBug54254},
		easter:   cfg.Easter(),
		metrics:  m,
		cfg:      cfg,
		logger:   log,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		logger.Warn(ctx, "health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnhealthy)
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// =============================================================================
// Calendar Endpoints
// =============================================================================

// calendarInfo is the JSON shape of one calendar's metadata.
type calendarInfo struct {
	ID string `json:"id"`
	calendar.Info
}

// ListCalendars handles GET /api/v1/calendars
func (h *Handlers) ListCalendars(w http.ResponseWriter, r *http.Request) {
	infos := make([]calendarInfo, 0, len(calendar.Systems))
	for _, s := range calendar.Systems {
		infos = append(infos, h.info(s))
	}
	WriteSuccess(w, infos)
}

// GetCalendar handles GET /api/v1/calendars/{system}
func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.calendarParam(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, h.info(cal.System()))
}

func (h *Handlers) info(s calendar.System) calendarInfo {
	info := calendar.CalendarInfo(s)
	if s == calendar.SystemJewish && h.jewish.EmulateBug54254 {
		info.Months = calendar.JewishMonthNamesBug54254()
	}
	return calendarInfo{ID: s.String(), Info: info}
}

// LeapYear handles GET /api/v1/calendars/{system}/leap/{year}
func (h *Handlers) LeapYear(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.calendarParam(w, r)
	if !ok {
		return
	}
	year, ok := intParam(w, r, "year")
	if !ok {
		return
	}

	length, err := calendar.YearLength(cal, year)
	if err != nil {
		h.conversionFailed(r.Context(), w, cal, "year_length", err)
		return
	}

	WriteSuccess(w, map[string]any{
		"calendar": cal.System().String(),
		"year":     year,
		"leap":     cal.IsLeapYear(year),
		"months":   cal.MonthsInYear(year),
		"days":     length,
	})
}

// DaysInMonth handles GET /api/v1/calendars/{system}/days/{year}/{month}
func (h *Handlers) DaysInMonth(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.calendarParam(w, r)
	if !ok {
		return
	}
	year, ok := intParam(w, r, "year")
	if !ok {
		return
	}
	month, ok := intParam(w, r, "month")
	if !ok {
		return
	}

	days, err := cal.DaysInMonth(year, month)
	if err != nil {
		h.conversionFailed(r.Context(), w, cal, "days_in_month", err)
		return
	}

	WriteSuccess(w, map[string]any{
		"calendar": cal.System().String(),
		"year":     year,
		"month":    month,
		"name":     h.monthName(cal.System(), year, month),
		"days":     days,
	})
}

// dayResponse describes one day in one calendar.
type dayResponse struct {
	Calendar  string        `json:"calendar"`
	JD        int           `json:"jd"`
	Date      calendar.Date `json:"date"`
	Formatted string        `json:"formatted"`
	MonthName string        `json:"month_name"`
	Weekday   string        `json:"weekday"`
	WeekdayNo int           `json:"weekday_no"`
}

func (h *Handlers) describe(s calendar.System, jd int, date calendar.Date) dayResponse {
	dow := calendar.DayOfWeek(jd)
	return dayResponse{
		Calendar:  s.String(),
		JD:        jd,
		Date:      date,
		Formatted: date.String(),
		MonthName: h.monthName(s, date.Year, date.Month),
		Weekday:   dow.String(),
		WeekdayNo: int(dow),
	}
}

// ToJD handles GET /api/v1/calendars/{system}/jd?year=&month=&day=
func (h *Handlers) ToJD(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.calendarParam(w, r)
	if !ok {
		return
	}
	year, month, day, ok := dateQuery(w, r)
	if !ok {
		return
	}

	jd, err := cal.YmdToJd(year, month, day)
	if err != nil {
		h.conversionFailed(r.Context(), w, cal, "ymd_to_jd", err)
		return
	}
	h.metrics.IncConversion(cal.System().String(), "ymd_to_jd", metrics.OutcomeOK)

	WriteSuccess(w, h.describe(cal.System(), jd, calendar.Date{Year: year, Month: month, Day: day}))
}

// FromJD handles GET /api/v1/calendars/{system}/date/{jd}
func (h *Handlers) FromJD(w http.ResponseWriter, r *http.Request) {
	cal, ok := h.calendarParam(w, r)
	if !ok {
		return
	}
	jd, ok := intParam(w, r, "jd")
	if !ok {
		return
	}

	date, err := cal.JdToYmd(jd)
	if err != nil {
		h.conversionFailed(r.Context(), w, cal, "jd_to_ymd", err)
		return
	}
	h.metrics.IncConversion(cal.System().String(), "jd_to_ymd", metrics.OutcomeOK)

	WriteSuccess(w, h.describe(cal.System(), jd, date))
}

// Convert handles GET /api/v1/convert?from=&to=&year=&month=&day=
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		WriteBadRequest(w, "Both from and to calendars are required")
		return
	}
	from, err := h.calendarFor(q.Get("from"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	to, err := h.calendarFor(q.Get("to"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	year, month, day, ok := dateQuery(w, r)
	if !ok {
		return
	}

	jd, err := from.YmdToJd(year, month, day)
	if err != nil {
		h.conversionFailed(r.Context(), w, from, "ymd_to_jd", err)
		return
	}
	converted, err := to.JdToYmd(jd)
	if err != nil {
		h.conversionFailed(r.Context(), w, to, "jd_to_ymd", err)
		return
	}
	h.metrics.IncConversion(from.System().String(), "ymd_to_jd", metrics.OutcomeOK)
	h.metrics.IncConversion(to.System().String(), "jd_to_ymd", metrics.OutcomeOK)

	WriteSuccess(w, map[string]any{
		"jd":   jd,
		"from": h.describe(from.System(), jd, calendar.Date{Year: year, Month: month, Day: day}),
		"to":   h.describe(to.System(), jd, converted),
	})
}

// =============================================================================
// Hebrew Endpoints
// =============================================================================

// defaultNumeralFlags matches the common printed form, e.g. ה׳ אלפים תשע״ו.
const defaultNumeralFlags = calendar.AlafimGeresh | calendar.Alafim | calendar.Gershayim

// HebrewNumeral handles GET /api/v1/hebrew/numeral/{n}?flags=
func (h *Handlers) HebrewNumeral(w http.ResponseWriter, r *http.Request) {
	n, ok := intParam(w, r, "n")
	if !ok {
		return
	}
	flags, ok := numeralFlags(w, r, defaultNumeralFlags)
	if !ok {
		return
	}

	text, err := calendar.HebrewNumerals(n, flags)
	if err != nil {
		WriteCalendarError(w, err)
		return
	}

	WriteSuccess(w, map[string]any{
		"number":   n,
		"flags":    int(flags),
		"numerals": text,
	})
}

// HebrewDate handles GET /api/v1/hebrew/date/{jd}?flags=
func (h *Handlers) HebrewDate(w http.ResponseWriter, r *http.Request) {
	jd, ok := intParam(w, r, "jd")
	if !ok {
		return
	}
	flags, ok := numeralFlags(w, r, calendar.Gershayim)
	if !ok {
		return
	}

	text, err := h.jewish.JdToHebrew(jd, flags)
	if err != nil {
		h.conversionFailed(r.Context(), w, h.jewish, "jd_to_hebrew", err)
		return
	}
	date, err := h.jewish.JdToYmd(jd)
	if err != nil {
		h.conversionFailed(r.Context(), w, h.jewish, "jd_to_ymd", err)
		return
	}

	WriteSuccess(w, map[string]any{
		"jd":     jd,
		"date":   date,
		"hebrew": text,
	})
}

// =============================================================================
// Helpers
// =============================================================================

// calendarFor resolves a calendar name, honouring the Jewish numbering
// configured for the service.
func (h *Handlers) calendarFor(name string) (calendar.Calendar, error) {
	s, err := calendar.ParseSystem(name)
	if err != nil {
		return nil, err
	}
	if s == calendar.SystemJewish {
		return h.jewish, nil
	}
	return calendar.For(s)
}

// calendarParam reads the {system} path parameter, writing a 404 when it is
// not a known calendar.
func (h *Handlers) calendarParam(w http.ResponseWriter, r *http.Request) (calendar.Calendar, bool) {
	name := chi.URLParam(r, "system")
	cal, err := h.calendarFor(name)
	if err != nil {
		WriteNotFound(w, fmt.Sprintf("Unknown calendar: %s", name))
		return nil, false
	}
	return cal, true
}

func (h *Handlers) monthName(s calendar.System, year, month int) string {
	if s == calendar.SystemJewish {
		return h.jewish.MonthName(year, month)
	}
	return calendar.MonthName(s, year, month)
}

// conversionFailed counts and logs a failed conversion and writes the
// matching error response.
func (h *Handlers) conversionFailed(ctx context.Context, w http.ResponseWriter, cal calendar.Calendar, op string, err error) {
	outcome := metrics.Outcome(err)
	h.metrics.IncConversion(cal.System().String(), op, outcome)
	logger.Debug(ctx, "conversion rejected",
		slog.String(logger.KeyCalendar, cal.System().String()),
		slog.String("op", op),
		slog.String("outcome", outcome),
		slog.Any("error", err),
	)
	WriteCalendarError(w, err)
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid %s: %q is not an integer", name, raw))
		return 0, false
	}
	return n, true
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", name, raw)
	}
	return n, nil
}

func dateQuery(w http.ResponseWriter, r *http.Request) (year, month, day int, ok bool) {
	q := r.URL.Query()
	if q.Get("year") == "" || q.Get("month") == "" || q.Get("day") == "" {
		WriteBadRequest(w, "year, month and day are required")
		return 0, 0, 0, false
	}

	var err error
	if year, err = queryInt(r, "year", 0); err != nil {
		WriteBadRequest(w, err.Error())
		return 0, 0, 0, false
	}
	if month, err = queryInt(r, "month", 0); err != nil {
		WriteBadRequest(w, err.Error())
		return 0, 0, 0, false
	}
	if day, err = queryInt(r, "day", 0); err != nil {
		WriteBadRequest(w, err.Error())
		return 0, 0, 0, false
	}
	return year, month, day, true
}

func numeralFlags(w http.ResponseWriter, r *http.Request, def calendar.NumeralFlag) (calendar.NumeralFlag, bool) {
	n, err := queryInt(r, "flags", int(def))
	if err != nil || n < 0 {
		WriteBadRequest(w, "flags must be a non-negative integer")
		return 0, false
	}
	return calendar.NumeralFlag(n), true
}
