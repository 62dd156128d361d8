package database

// migrationsSQL contains all database migrations, applied in order by
// version number.
var migrationsSQL = map[int]string{
	1: migrationV1Concordance,
	2: migrationV2MovableFeasts,
}

// migrationV1Concordance stores one row per cached Julian Day Number with the
// date in every calendar. A calendar that cannot express the day stores NULL.
// Dates are "year-month-day" text; years may be negative.
const migrationV1Concordance = `
CREATE TABLE IF NOT EXISTS concordance (
	jd         INTEGER PRIMARY KEY,
	weekday    INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
	gregorian  TEXT,
	julian     TEXT,
	french     TEXT,
	jewish     TEXT,
	arabic     TEXT,
	persian    TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_concordance_gregorian ON concordance(gregorian);
`

// migrationV2MovableFeasts caches the Easter-derived observances of a year
// under one reckoning.
const migrationV2MovableFeasts = `
CREATE TABLE IF NOT EXISTS movable_feasts (
	year       INTEGER NOT NULL,
	reckoning  TEXT NOT NULL CHECK (reckoning IN ('gregorian', 'julian')),
	name       TEXT NOT NULL,
	jd         INTEGER NOT NULL,
	created_at TEXT NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (year, reckoning, name)
);

CREATE INDEX IF NOT EXISTS idx_movable_feasts_jd ON movable_feasts(jd);
`
