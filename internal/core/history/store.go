package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const defaultPage = 50

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = []string{
	`CREATE TABLE history (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		name         TEXT NOT NULL DEFAULT '',
		method       TEXT NOT NULL,
		url          TEXT NOT NULL,
		status_code  INTEGER NOT NULL DEFAULT 0,
		status       TEXT NOT NULL DEFAULT '',
		duration_ns  INTEGER NOT NULL DEFAULT 0,
		size         INTEGER NOT NULL DEFAULT 0,
		content_type TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		headers      TEXT NOT NULL DEFAULT '[]',
		sent_at      INTEGER NOT NULL
	)`,
	`CREATE INDEX idx_history_sent_at ON history(sent_at DESC, id DESC)`,
}

// Store keeps sent requests in a SQLite database.
type Store struct {
	db    *sql.DB
	limit int
}

// NewStore opens the database at path, creating its directory and schema as
// needed. ":memory:" opens a private in-memory database.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	// One connection, or every query against ":memory:" sees a fresh database.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	for i := version; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migrating history schema to %d: %w", i+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
	}
	return nil
}

// SetLimit caps the number of kept entries; Add drops the oldest beyond it.
// Zero or less keeps everything.
func (s *Store) SetLimit(n int) {
	s.limit = n
}

// Add records e and returns its id. A zero timestamp means now.
func (s *Store) Add(e Entry) (int64, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Headers == "" {
		e.Headers = "[]"
	}
	res, err := s.db.Exec(`INSERT INTO history
		(name, method, url, status_code, status, duration_ns, size, content_type, request_body, headers, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.Method, e.URL, e.StatusCode, e.Status, int64(e.Duration), e.Size,
		e.ContentType, e.RequestBody, e.Headers, e.Timestamp.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("adding history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("adding history entry: %w", err)
	}
	if s.limit > 0 {
		if _, err := s.Prune(s.limit); err != nil {
			return id, err
		}
	}
	return id, nil
}

// Prune keeps the newest keep entries and reports how many were removed.
func (s *Store) Prune(keep int) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM history WHERE id NOT IN (
		SELECT id FROM history ORDER BY sent_at DESC, id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	return res.RowsAffected()
}

const columns = `id, name, method, url, status_code, status, duration_ns, size, content_type, request_body, headers, sent_at`

// List returns a page of entries, newest first.
func (s *Store) List(limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultPage
	}
	return s.query(`SELECT `+columns+` FROM history
		ORDER BY sent_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
}

// Search returns entries whose URL, method or name contains text, newest
// first. Matching ignores ASCII case.
func (s *Store) Search(text string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultPage
	}
	like := "%" + text + "%"
	return s.query(`SELECT `+columns+` FROM history
		WHERE url LIKE ?1 OR method LIKE ?1 OR name LIKE ?1
		ORDER BY sent_at DESC, id DESC LIMIT ?2`, like, limit)
}

// Count returns the number of entries.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting history: %w", err)
	}
	return n, nil
}

// Delete removes one entry. Unknown ids are not an error.
func (s *Store) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM history WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting history entry %d: %w", id, err)
	}
	return nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) query(q string, args ...any) ([]Entry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			elapsed int64
			sentAt  int64
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Method, &e.URL, &e.StatusCode, &e.Status, &elapsed,
			&e.Size, &e.ContentType, &e.RequestBody, &e.Headers, &sentAt); err != nil {
			return nil, fmt.Errorf("reading history row: %w", err)
		}
		e.Duration = time.Duration(elapsed)
		e.Timestamp = time.Unix(0, sentAt)
		out = append(out, e)
	}
	return out, rows.Err()
}
