package history

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/FocuswithJustin/versefinder/core/errors"
	"github.com/FocuswithJustin/versefinder/core/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS lookups (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT    NOT NULL,
	query      TEXT    NOT NULL,
	outcome    TEXT    NOT NULL,
	found      INTEGER NOT NULL,
	text       TEXT    NOT NULL,
	corpus     TEXT    NOT NULL,
	created_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_lookups_session ON lookups(session_id);
`

// SQLiteSink records every lookup in a SQLite database.
type SQLiteSink struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the history database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSink, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "create history schema in %s", path)
	}
	return &SQLiteSink{db: db, now: time.Now}, nil
}

// Append inserts rec. A zero CreatedAt is stamped with the current time.
func (s *SQLiteSink) Append(ctx context.Context, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	found := 0
	if rec.Found {
		found = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lookups (session_id, query, outcome, found, text, corpus, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Query, rec.Outcome, found, rec.Text, rec.Corpus,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return errors.Wrap(err, "insert lookup")
}

// Recent returns up to limit records, newest first.
func (s *SQLiteSink) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, errors.NewValidation("limit", "must be positive")
	}

	rows, err := s.db.QueryContext(ctx, selectLookups+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query lookups")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, errors.Wrap(rows.Err(), "iterate lookups")
}

// Get returns the record with the given ID.
func (s *SQLiteSink) Get(ctx context.Context, id int64) (Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectLookups+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, errors.NewNotFound("lookup", strconv.FormatInt(id, 10))
	}
	return rec, err
}

const selectLookups = `SELECT id, session_id, query, outcome, found, text, corpus, created_at FROM lookups`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec     Record
		found   int
		created string
	)
	if err := row.Scan(&rec.ID, &rec.SessionID, &rec.Query, &rec.Outcome, &found, &rec.Text, &rec.Corpus, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, errors.Wrap(err, "scan lookup")
	}
	rec.Found = found == 1

	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Record{}, errors.NewParse("timestamp", "", err)
	}
	rec.CreatedAt = t
	return rec, nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
