package responsecache

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite keeps responses in a single-table SQLite database so the cache
// survives restarts and can be built ahead of time.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path, ensures the data
// directory exists, and creates the schema.
func NewSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the request path read while the cleanup loop deletes;
	// busy_timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLite{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS responses (
    key TEXT PRIMARY KEY,
    body BLOB NOT NULL,
    expires_at INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS responses_expires_at ON responses (expires_at);
`)
	return err
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	var expiresAt int64
	err := s.db.QueryRowContext(ctx, `SELECT body, expires_at FROM responses WHERE key = ?`, key).
		Scan(&body, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	if expiresAt != 0 && time.Now().Unix() >= expiresAt {
		return nil, ErrMiss
	}
	return body, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt int64
	if exp := expiry(ttl); !exp.IsZero() {
		expiresAt = exp.Unix()
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO responses (key, body, expires_at) VALUES (?, ?, ?)`,
		key, value, expiresAt)
	return err
}

// Purge removes every stored response.
func (s *SQLite) Purge(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM responses`)
	return err
}

// DeleteExpired removes entries whose TTL has elapsed and returns how many were dropped.
func (s *SQLite) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM responses WHERE expires_at != 0 AND expires_at <= ?`, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartCleanup runs DeleteExpired every interval until the returned func is called.
func (s *SQLite) StartCleanup(interval time.Duration) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = s.DeleteExpired(ctx)
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
