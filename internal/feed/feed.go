// Package feed renders the movable feasts as an iCalendar feed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/zapponejosh/calendar-api/internal/calendar"
)

// iCalendar property names.
const (
	PropVersion      = "VERSION"
	PropProdid       = "PRODID"
	PropCalScale     = "CALSCALE"
	PropMethod       = "METHOD"
	PropXWRCalName   = "X-WR-CALNAME"
	PropUID          = "UID"
	PropSummary      = "SUMMARY"
	PropDescription  = "DESCRIPTION"
	PropCategories   = "CATEGORIES"
	PropTransparency = "TRANSP"
	PropDTStart      = "DTSTART"
	PropDTEnd        = "DTEND"
	PropDTStamp      = "DTSTAMP"
)

// iCalendar header values.
const (
	ICalVersion     = "2.0"
	ICalProdid      = "-//Calendar API//Movable Feasts//EN"
	ICalScale       = "GREGORIAN"
	ICalMethod      = "PUBLISH"
	ICalCategory    = "Movable feast"
	ICalTransparent = "TRANSPARENT"

	ContentType = "text/calendar; charset=utf-8"

	uidDomain        = "calendar-api"
	maxGregorianYear = 9999
)

// MaxYears caps the number of years in one feed.
const MaxYears = 500

var (
	// ErrInvalidYears is returned for a non-positive or oversized year count.
	ErrInvalidYears = errors.New("invalid number of years")

	// ErrInvalidReckoning is returned for a calendar without an Easter.
	ErrInvalidReckoning = errors.New("reckoning must be gregorian or julian")
)

// uidNamespace scopes the name-based event UIDs.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte(uidDomain))

// FeastSource resolves the movable feasts of a year.
// *concordance.Resolver satisfies it.
type FeastSource interface {
	Feasts(ctx context.Context, year int, reckoning calendar.System) ([]calendar.Observance, error)
}

// Options selects the years and reckoning of a feed.
type Options struct {
	From      int
	Years     int
	Reckoning calendar.System
	Now       time.Time // DTSTAMP; zero means time.Now
}

// EventUID returns the stable UID of a feast occurrence, so that calendar
// clients update events in place when the feed is refreshed.
func EventUID(feast string, year int, reckoning calendar.System) string {
	name := fmt.Sprintf("%s/%d/%s", feast, year, reckoning)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@" + uidDomain
}

// Build assembles a VCALENDAR with one all-day VEVENT per feast per year.
// Event dates are always Gregorian; a Julian-reckoned feast lands on the
// Gregorian day it falls on.
func Build(ctx context.Context, src FeastSource, opts Options) (*ical.Calendar, error) {
	if opts.Years < 1 || opts.Years > MaxYears {
		return nil, fmt.Errorf("%w: %d (1..%d)", ErrInvalidYears, opts.Years, MaxYears)
	}
	if opts.Reckoning != calendar.SystemGregorian && opts.Reckoning != calendar.SystemJulian {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReckoning, opts.Reckoning)
	}
	if opts.From < 1 || opts.From+opts.Years-1 > maxGregorianYear {
		return nil, fmt.Errorf("%w: years %d..%d", ErrInvalidYears, opts.From, opts.From+opts.Years-1)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(PropVersion, ICalVersion)
	cal.Props.SetText(PropProdid, ICalProdid)
	cal.Props.SetText(PropCalScale, ICalScale)
	cal.Props.SetText(PropMethod, ICalMethod)
	cal.Props.SetText(PropXWRCalName, fmt.Sprintf("Movable feasts (%s)", opts.Reckoning))

	stamp := ical.NewProp(PropDTStamp)
	stamp.SetDateTime(now.UTC())

	for year := opts.From; year < opts.From+opts.Years; year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		observances, err := src.Feasts(ctx, year, opts.Reckoning)
		if err != nil {
			return nil, fmt.Errorf("feasts %d: %w", year, err)
		}
		for _, o := range observances {
			event, err := newEvent(o, year, opts.Reckoning, stamp)
			if err != nil {
				return nil, err
			}
			cal.Children = append(cal.Children, event.Component)
		}
	}
	return cal, nil
}

func newEvent(o calendar.Observance, year int, reckoning calendar.System, stamp *ical.Prop) (*ical.Event, error) {
	start, err := gregorianTime(o.JD)
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", o.Name, year, err)
	}

	event := ical.NewEvent()
	event.Props.SetText(PropUID, EventUID(o.Name, year, reckoning))
	event.Props.SetText(PropSummary, o.Name)
	event.Props.SetText(PropDescription, fmt.Sprintf("%s %d, %s reckoning (%s %s)", o.Name, year, reckoning, o.Weekday, o.Date))
	event.Props.SetText(PropCategories, ICalCategory)
	event.Props.SetText(PropTransparency, ICalTransparent)
	event.Props.Set(stamp)

	dtStart := ical.NewProp(PropDTStart)
	dtStart.SetDate(start)
	event.Props.Set(dtStart)

	dtEnd := ical.NewProp(PropDTEnd)
	dtEnd.SetDate(start.AddDate(0, 0, 1))
	event.Props.Set(dtEnd)

	return event, nil
}

// gregorianTime converts a day number into midnight UTC of its Gregorian date.
func gregorianTime(jd int) (time.Time, error) {
	d, err := calendar.Gregorian{}.JdToYmd(jd)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC), nil
}

// Encode writes cal in the iCalendar text format.
func Encode(w io.Writer, cal *ical.Calendar) error {
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}
