package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/zapponejosh/calendar-api/internal/calendar"
	"github.com/zapponejosh/calendar-api/internal/concordance"
	"github.com/zapponejosh/calendar-api/internal/feed"
	"github.com/zapponejosh/calendar-api/internal/logger"
)

// maxListSpan bounds GET /api/v1/concordance ranges.
const maxListSpan = 1000

// =============================================================================
// Concordance Endpoints
// =============================================================================

// GetConcordance handles GET /api/v1/concordance/{jd}
func (h *Handlers) GetConcordance(w http.ResponseWriter, r *http.Request) {
	jd, ok := intParam(w, r, "jd")
	if !ok {
		return
	}

	day, err := h.resolver.Resolve(r.Context(), jd)
	if err != nil {
		logger.Error(r.Context(), "concordance lookup failed", err, slog.Int(logger.KeyJD, jd))
		WriteInternalError(w, "Failed to resolve day")
		return
	}

	WriteSuccess(w, day)
}

// ListConcordance handles GET /api/v1/concordance?from=&to=
// Only cached days are returned.
func (h *Handlers) ListConcordance(w http.ResponseWriter, r *http.Request) {
	from, to, ok := jdRange(w, r)
	if !ok {
		return
	}
	// from <= to, so the difference fits in a uint even when it overflows int.
	if uint(to-from) >= maxListSpan {
		WriteBadRequest(w, fmt.Sprintf("Range too large: at most %d days", maxListSpan))
		return
	}

	rows, err := h.db.ListConcordance(r.Context(), from, to)
	if err != nil {
		logger.Error(r.Context(), "concordance list failed", err)
		WriteInternalError(w, "Failed to list cached days")
		return
	}

	WriteSuccess(w, map[string]any{
		"from":  from,
		"to":    to,
		"count": len(rows),
		"days":  rows,
	})
}

// ConcordanceStats handles GET /api/v1/concordance/stats
func (h *Handlers) ConcordanceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.ConcordanceStats(r.Context())
	if err != nil {
		logger.Error(r.Context(), "concordance stats failed", err)
		WriteInternalError(w, "Failed to read cache statistics")
		return
	}
	WriteSuccess(w, stats)
}

// buildRequest is the body of POST /api/v1/concordance/build.
type buildRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// BuildConcordance handles POST /api/v1/concordance/build
func (h *Handlers) BuildConcordance(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	result, err := h.builder.Build(r.Context(), req.From, req.To)
	if err != nil {
		if errors.Is(err, concordance.ErrInvalidRange) {
			WriteBadRequest(w, err.Error())
			return
		}
		logger.Error(r.Context(), "concordance build failed", err,
			slog.Int("from", req.From),
			slog.Int("to", req.To),
			slog.Int(logger.KeyCount, result.Rows),
		)
		WriteInternalError(w, "Concordance build failed")
		return
	}

	WriteJSON(w, http.StatusCreated, Response{Success: true, Data: result})
}

// DeleteConcordance handles DELETE /api/v1/concordance?from=&to=
func (h *Handlers) DeleteConcordance(w http.ResponseWriter, r *http.Request) {
	from, to, ok := jdRange(w, r)
	if !ok {
		return
	}

	deleted, err := h.db.DeleteConcordanceRange(r.Context(), from, to)
	if err != nil {
		logger.Error(r.Context(), "concordance delete failed", err)
		WriteInternalError(w, "Failed to delete cached days")
		return
	}

	logger.Info(r.Context(), "concordance range deleted",
		slog.Int("from", from),
		slog.Int("to", to),
		slog.Int64(logger.KeyCount, deleted),
	)
	WriteSuccess(w, map[string]any{"deleted": deleted})
}

func jdRange(w http.ResponseWriter, r *http.Request) (from, to int, ok bool) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		WriteBadRequest(w, "Both from and to are required")
		return 0, 0, false
	}

	var err error
	if from, err = queryInt(r, "from", 0); err != nil {
		WriteBadRequest(w, err.Error())
		return 0, 0, false
	}
	if to, err = queryInt(r, "to", 0); err != nil {
		WriteBadRequest(w, err.Error())
		return 0, 0, false
	}
	if from > to {
		WriteBadRequest(w, "from must not be after to")
		return 0, 0, false
	}
	return from, to, true
}

// =============================================================================
// Easter Endpoints
// =============================================================================

// easterResponse describes Easter of one year.
type easterResponse struct {
	Year      int                   `json:"year"`
	Method    string                `json:"method"`
	Reckoning string                `json:"reckoning"`
	Days      int                   `json:"days_after_march_21"`
	Date      calendar.Date         `json:"date"`
	JD        int                   `json:"jd"`
	Gregorian calendar.Date         `json:"gregorian"`
	Feasts    []calendar.Observance `json:"feasts"`
}

// GetEaster handles GET /api/v1/easter/{year}?method=
func (h *Handlers) GetEaster(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(w, r, "year")
	if !ok {
		return
	}
	if year < 1 {
		WriteBadRequest(w, "year must be positive")
		return
	}

	method := h.easter
	if name := r.URL.Query().Get("method"); name != "" {
		m, err := calendar.ParseEasterMethod(name)
		if err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
		method = m
	}

	reckoning := method.Reckoning(year)
	date, err := calendar.EasterDate(year, reckoning)
	if err != nil {
		WriteCalendarError(w, err)
		return
	}
	jd, err := calendar.EasterJd(year, reckoning)
	if err != nil {
		WriteCalendarError(w, err)
		return
	}
	gregorian, err := calendar.Gregorian{}.JdToYmd(jd)
	if err != nil {
		WriteCalendarError(w, err)
		return
	}

	feasts, err := h.resolver.Feasts(r.Context(), year, reckoning)
	if err != nil {
		if calendar.IsInvalidDate(err) || calendar.IsOutOfRange(err) {
			WriteCalendarError(w, err)
			return
		}
		logger.Error(r.Context(), "feast lookup failed", err, slog.Int(logger.KeyYear, year))
		WriteInternalError(w, "Failed to resolve movable feasts")
		return
	}

	WriteSuccess(w, easterResponse{
		Year:      year,
		Method:    method.String(),
		Reckoning: reckoning.String(),
		Days:      calendar.EasterDays(year, method),
		Date:      date,
		JD:        jd,
		Gregorian: gregorian,
		Feasts:    feasts,
	})
}

// LiturgicalDay handles GET /api/v1/liturgical/{jd}?reckoning=
func (h *Handlers) LiturgicalDay(w http.ResponseWriter, r *http.Request) {
	jd, ok := intParam(w, r, "jd")
	if !ok {
		return
	}

	reckoning := calendar.SystemGregorian
	if name := r.URL.Query().Get("reckoning"); name != "" {
		s, err := calendar.ParseSystem(name)
		if err != nil || (s != calendar.SystemGregorian && s != calendar.SystemJulian) {
			WriteBadRequest(w, "reckoning must be gregorian or julian")
			return
		}
		reckoning = s
	}

	day, err := calendar.ResolveLiturgicalDay(jd, reckoning)
	if err != nil {
		WriteCalendarError(w, err)
		return
	}
	WriteSuccess(w, day)
}

// EasterFeed handles GET /api/v1/easter.ics?from=&years=&reckoning=
func (h *Handlers) EasterFeed(w http.ResponseWriter, r *http.Request) {
	from, err := queryInt(r, "from", time.Now().Year())
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	years, err := queryInt(r, "years", h.cfg.FeedYears)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	reckoning := calendar.SystemGregorian
	if name := r.URL.Query().Get("reckoning"); name != "" {
		if reckoning, err = calendar.ParseSystem(name); err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
	}

	cal, err := feed.Build(r.Context(), h.resolver, feed.Options{From: from, Years: years, Reckoning: reckoning})
	if err != nil {
		if errors.Is(err, feed.ErrInvalidYears) || errors.Is(err, feed.ErrInvalidReckoning) {
			WriteBadRequest(w, err.Error())
			return
		}
		logger.Error(r.Context(), "feed build failed", err, slog.Int(logger.KeyYear, from))
		WriteInternalError(w, "Failed to build feed")
		return
	}

	w.Header().Set("Content-Type", feed.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="easter-`+reckoning.String()+`-`+strconv.Itoa(from)+`.ics"`)
	if err := feed.Encode(w, cal); err != nil {
		logger.Error(r.Context(), "feed encode failed", err)
	}
}
