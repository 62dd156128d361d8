package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999",
	} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// =============================================================================
// Concordance Queries
// =============================================================================

const concordanceColumns = `jd, weekday, gregorian, julian, french, jewish, arabic, persian, created_at`

func scanConcordance(s rowScanner) (ConcordanceRow, error) {
	var row ConcordanceRow
	var gregorian, julian, french, jewish, arabic, persian, createdAt sql.NullString
	err := s.Scan(&row.JD, &row.Weekday, &gregorian, &julian, &french, &jewish, &arabic, &persian, &createdAt)
	if err != nil {
		return row, err
	}

	row.Gregorian = fromNullString(gregorian)
	row.Julian = fromNullString(julian)
	row.French = fromNullString(french)
	row.Jewish = fromNullString(jewish)
	row.Arabic = fromNullString(arabic)
	row.Persian = fromNullString(persian)
	if t := parseTimestamp(createdAt); t != nil {
		row.CreatedAt = *t
	}
	return row, nil
}

// GetConcordance retrieves the cached row for a Julian Day Number.
// Returns ErrNotFound if the day has not been cached.
func (db *DB) GetConcordance(ctx context.Context, jd int) (*ConcordanceRow, error) {
	query := `SELECT ` + concordanceColumns + ` FROM concordance WHERE jd = ?`

	row, err := scanConcordance(db.QueryRowContext(ctx, query, jd))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query concordance %d: %w", jd, err)
	}
	return &row, nil
}

// ListConcordance returns the cached rows in [from, to], ordered by day.
// Days that are not cached are skipped.
func (db *DB) ListConcordance(ctx context.Context, from, to int) ([]ConcordanceRow, error) {
	query := `SELECT ` + concordanceColumns + ` FROM concordance WHERE jd BETWEEN ? AND ? ORDER BY jd`

	rows, err := db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query concordance range: %w", err)
	}
	defer rows.Close()

	var result []ConcordanceRow
	for rows.Next() {
		row, err := scanConcordance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan concordance: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate concordance: %w", err)
	}
	return result, nil
}

const upsertConcordanceSQL = `
	INSERT INTO concordance (jd, weekday, gregorian, julian, french, jewish, arabic, persian)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(jd) DO UPDATE SET
		weekday = excluded.weekday,
		gregorian = excluded.gregorian,
		julian = excluded.julian,
		french = excluded.french,
		jewish = excluded.jewish,
		arabic = excluded.arabic,
		persian = excluded.persian
`

func concordanceArgs(row *ConcordanceRow) []any {
	return []any{
		row.JD, row.Weekday,
		toNullString(row.Gregorian), toNullString(row.Julian), toNullString(row.French),
		toNullString(row.Jewish), toNullString(row.Arabic), toNullString(row.Persian),
	}
}

// UpsertConcordance inserts or replaces one cached day.
func (db *DB) UpsertConcordance(ctx context.Context, row *ConcordanceRow) error {
	if _, err := db.ExecContext(ctx, upsertConcordanceSQL, concordanceArgs(row)...); err != nil {
		return fmt.Errorf("upsert concordance %d: %w", row.JD, err)
	}
	return nil
}

// UpsertConcordanceBatch writes rows in a single transaction and returns the
// number written.
func (db *DB) UpsertConcordanceBatch(ctx context.Context, rows []ConcordanceRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertConcordanceSQL)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		defer stmt.Close()

		for i := range rows {
			if _, err := stmt.ExecContext(ctx, concordanceArgs(&rows[i])...); err != nil {
				return fmt.Errorf("upsert concordance %d: %w", rows[i].JD, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// DeleteConcordanceRange removes cached days in [from, to] and returns the
// number of rows deleted.
func (db *DB) DeleteConcordanceRange(ctx context.Context, from, to int) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM concordance WHERE jd BETWEEN ? AND ?`, from, to)
	if err != nil {
		return 0, fmt.Errorf("delete concordance range: %w", err)
	}
	return result.RowsAffected()
}

// ConcordanceStats reports how many days are cached and their bounds.
func (db *DB) ConcordanceStats(ctx context.Context) (*CacheStats, error) {
	var (
		stats    CacheStats
		min, max sql.NullInt64
	)
	err := db.QueryRowContext(ctx, `SELECT COUNT(*), MIN(jd), MAX(jd) FROM concordance`).
		Scan(&stats.Rows, &min, &max)
	if err != nil {
		return nil, fmt.Errorf("query concordance stats: %w", err)
	}
	if min.Valid {
		lo, hi := int(min.Int64), int(max.Int64)
		stats.MinJD, stats.MaxJD = &lo, &hi
	}
	return &stats, nil
}

// =============================================================================
// Movable Feast Queries
// =============================================================================

func scanFeasts(rows *sql.Rows) ([]FeastRow, error) {
	defer rows.Close()

	var result []FeastRow
	for rows.Next() {
		var (
			feast     FeastRow
			createdAt sql.NullString
		)
		if err := rows.Scan(&feast.Year, &feast.Reckoning, &feast.Name, &feast.JD, &createdAt); err != nil {
			return nil, fmt.Errorf("scan feast: %w", err)
		}
		if t := parseTimestamp(createdAt); t != nil {
			feast.CreatedAt = *t
		}
		result = append(result, feast)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feasts: %w", err)
	}
	return result, nil
}

// GetFeasts returns the cached observances of a year, ordered by day.
// Returns ErrNotFound if the year has not been cached for the reckoning.
func (db *DB) GetFeasts(ctx context.Context, year int, reckoning string) ([]FeastRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT year, reckoning, name, jd, created_at
		FROM movable_feasts
		WHERE year = ? AND reckoning = ?
		ORDER BY jd, name
	`, year, reckoning)
	if err != nil {
		return nil, fmt.Errorf("query feasts: %w", err)
	}

	feasts, err := scanFeasts(rows)
	if err != nil {
		return nil, err
	}
	if len(feasts) == 0 {
		return nil, ErrNotFound
	}
	return feasts, nil
}

// FeastsOnDay returns every cached observance that falls on jd.
func (db *DB) FeastsOnDay(ctx context.Context, jd int) ([]FeastRow, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT year, reckoning, name, jd, created_at
		FROM movable_feasts
		WHERE jd = ?
		ORDER BY reckoning, name
	`, jd)
	if err != nil {
		return nil, fmt.Errorf("query feasts on day: %w", err)
	}
	return scanFeasts(rows)
}

// SaveFeasts replaces the cached observances of each (year, reckoning) pair
// present in feasts.
func (db *DB) SaveFeasts(ctx context.Context, feasts []FeastRow) error {
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, f := range feasts {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO movable_feasts (year, reckoning, name, jd)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(year, reckoning, name) DO UPDATE SET jd = excluded.jd
			`, f.Year, f.Reckoning, f.Name, f.JD)
			if err != nil {
				return fmt.Errorf("save feast %s %d: %w", f.Name, f.Year, err)
			}
		}
		return nil
	})
}
