package sessions

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"studypulse/internal/logging"
	"studypulse/internal/recommend"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// SQLiteStore keeps records in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	now    func() time.Time
	logger *slog.Logger
}

// OpenSQLite initializes or connects to the sessions database at path.
func OpenSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sessions: database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure sessions db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	o := buildOptions(opts)
	store := &SQLiteStore{db: db, path: path, now: o.now, logger: o.logger}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Record inserts a new row. A primary key conflict moves on to the next
// suffix for the same second.
func (s *SQLiteStore) Record(ctx context.Context, analysis AnalysisResult, rec recommend.Recommendation) (Record, error) {
	ctx = ensureContext(ctx)
	now := s.now()
	base := FormatID(now)

	for attempt := 0; attempt <= maxCollisions; attempt++ {
		record := newRecord(candidateID(base, attempt), now, analysis, rec)
		payload, err := json.Marshal(record)
		if err != nil {
			return Record{}, fmt.Errorf("encode session: %w", err)
		}

		var res sql.Result
		err = retryOnBusy(ctx, func() error {
			var execErr error
			res, execErr = s.db.ExecContext(ctx,
				`INSERT INTO sessions (id, kind, label, recorded_at, payload) VALUES (?, ?, ?, ?, ?)
				 ON CONFLICT(id) DO NOTHING`,
				record.ID, string(record.Analysis.Kind), record.Analysis.Label, record.Timestamp, string(payload),
			)
			return execErr
		})
		if err != nil {
			return Record{}, fmt.Errorf("insert session: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return Record{}, fmt.Errorf("insert session: rows affected: %w", err)
		}
		if affected == 0 {
			continue
		}
		s.logger.Debug("session recorded", logging.String(logging.FieldSessionID, record.ID))
		return record, nil
	}
	return Record{}, fmt.Errorf("%w: %s", ErrIDExhausted, base)
}

// History returns the newest records first.
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]Record, error) {
	ctx = ensureContext(ctx)
	limit = ClampLimit(limit)

	var records []Record
	err := retryOnBusy(ctx, func() error {
		records = records[:0]
		rows, err := s.db.QueryContext(ctx, "SELECT id, payload FROM sessions ORDER BY id DESC LIMIT ?", limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id, payload string
			if err := rows.Scan(&id, &payload); err != nil {
				return err
			}
			var record Record
			if err := json.Unmarshal([]byte(payload), &record); err != nil {
				logging.WarnEvent(s.logger, "skipping unreadable session", "session_parse_failed",
					logging.String(logging.FieldSessionID, id),
					logging.Error(err),
					logging.String(logging.FieldImpact, "record omitted from history"),
				)
				continue
			}
			records = append(records, record)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Count returns the number of stored sessions.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM sessions").Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *SQLiteStore) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
