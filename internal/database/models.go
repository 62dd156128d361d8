package database

import (
	"time"
)

// ConcordanceRow is one cached day. Each calendar column holds the date as
// "year-month-day", or nil when the day is outside that calendar's range.
type ConcordanceRow struct {
	JD        int       `json:"jd"`
	Weekday   int       `json:"weekday"` // 0=Sunday through 6=Saturday
	Gregorian *string   `json:"gregorian"`
	Julian    *string   `json:"julian"`
	French    *string   `json:"french"`
	Jewish    *string   `json:"jewish"`
	Arabic    *string   `json:"arabic"`
	Persian   *string   `json:"persian"`
	CreatedAt time.Time `json:"created_at"`
}

// FeastRow is one cached movable observance.
type FeastRow struct {
	Year      int       `json:"year"`
	Reckoning string    `json:"reckoning"` // gregorian or julian
	Name      string    `json:"name"`
	JD        int       `json:"jd"`
	CreatedAt time.Time `json:"created_at"`
}

// CacheStats summarises the concordance table.
type CacheStats struct {
	Rows  int  `json:"rows"`
	MinJD *int `json:"min_jd"` // nil when empty
	MaxJD *int `json:"max_jd"`
}
