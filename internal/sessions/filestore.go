package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"studypulse/internal/logging"
	"studypulse/internal/recommend"
)

// FileStore keeps one JSON file per record in a directory.
type FileStore struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

// OpenFiles prepares dir and returns a file-backed store.
func OpenFiles(dir string, opts ...Option) (*FileStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("sessions: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure sessions dir: %w", err)
	}
	o := buildOptions(opts)
	return &FileStore{dir: dir, now: o.now, logger: o.logger}, nil
}

// Dir returns the directory records are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Record writes a new session file. Existing files are never overwritten.
func (s *FileStore) Record(ctx context.Context, analysis AnalysisResult, rec recommend.Recommendation) (Record, error) {
	now := s.now()
	base := FormatID(now)

	for attempt := 0; attempt <= maxCollisions; attempt++ {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}
		record := newRecord(candidateID(base, attempt), now, analysis, rec)
		path := filepath.Join(s.dir, FileName(record.ID))

		err := s.writeExclusive(path, record)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return Record{}, err
		}
		s.logger.Debug("session recorded", logging.String(logging.FieldSessionID, record.ID), logging.String("path", path))
		return record, nil
	}
	return Record{}, fmt.Errorf("%w: %s", ErrIDExhausted, base)
}

func (s *FileStore) writeExclusive(path string, record Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write session %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close session %s: %w", filepath.Base(path), err)
	}
	return nil
}

// History returns the newest records first. Files that fail to parse are
// skipped with a warning.
func (s *FileStore) History(ctx context.Context, limit int) ([]Record, error) {
	limit = ClampLimit(limit)
	ids, err := s.listIDs()
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, min(limit, len(ids)))
	for _, id := range ids {
		if len(records) == limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := s.read(id)
		if err != nil {
			logging.WarnEvent(s.logger, "skipping unreadable session", "session_parse_failed",
				logging.String(logging.FieldSessionID, id),
				logging.Error(err),
				logging.String(logging.FieldImpact, "record omitted from history"),
			)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Count returns the number of session files.
func (s *FileStore) Count(context.Context) (int, error) {
	ids, err := s.listIDs()
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Close is a no-op; files are closed after every write.
func (s *FileStore) Close() error {
	return nil
}

// listIDs returns ids newest-first.
func (s *FileStore) listIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sessions dir: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := IDFromFileName(entry.Name()); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	slices.Reverse(ids)
	return ids, nil
}

func (s *FileStore) read(id string) (Record, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, FileName(id)))
	if err != nil {
		return Record{}, err
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("decode session: %w", err)
	}
	if record.ID == "" {
		record.ID = id
	}
	return record, nil
}
