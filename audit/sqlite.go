package audit

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var ddl = []string{
	"CREATE TABLE IF NOT EXISTS scrub_log(id TEXT PRIMARY KEY, ts TEXT NOT NULL, original_file TEXT NOT NULL, new_file TEXT NOT NULL, metadata_removed TEXT NOT NULL);",
	"CREATE INDEX IF NOT EXISTS scrub_log_original_idx ON scrub_log(original_file);",
}

// SQLiteLogger stores records in a SQLite database.
type SQLiteLogger struct {
	db *sql.DB
}

// OpenSQLite opens the database and creates the schema if it is not present.
func OpenSQLite(filename string) (*SQLiteLogger, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%q: %w", stmt, err)
		}
	}
	return &SQLiteLogger{db: db}, nil
}

func (l *SQLiteLogger) Log(r Record) error {
	_, err := l.db.Exec("INSERT INTO scrub_log (id, ts, original_file, new_file, metadata_removed) VALUES (?,?,?,?,?)",
		r.ID.String(), r.Timestamp.Format(TimeFormat), r.Original, r.New, r.Operation)
	return err
}

// Records lists every record in insertion order.
func (l *SQLiteLogger) Records() ([]Record, error) {
	rows, err := l.db.Query("SELECT id, ts, original_file, new_file, metadata_removed FROM scrub_log ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Record
	for rows.Next() {
		var id, ts string
		var r Record
		if err := rows.Scan(&id, &ts, &r.Original, &r.New, &r.Operation); err != nil {
			return nil, err
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("record %q: %w", id, err)
		}
		if r.Timestamp, err = time.ParseInLocation(TimeFormat, ts, time.Local); err != nil {
			return nil, fmt.Errorf("record %s: %w", id, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (l *SQLiteLogger) Close() error {
	return l.db.Close()
}
