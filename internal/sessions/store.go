package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"studypulse/internal/config"
	"studypulse/internal/logging"
	"studypulse/internal/recommend"
)

// MaxHistory caps the number of records History returns.
const MaxHistory = config.MaxHistoryLimit

// ErrIDExhausted is returned when every suffix for one second is taken.
var ErrIDExhausted = errors.New("session id space exhausted for this second")

// Store records sessions and reads history.
type Store interface {
	Record(ctx context.Context, analysis AnalysisResult, rec recommend.Recommendation) (Record, error)
	History(ctx context.Context, limit int) ([]Record, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// Option customizes a store.
type Option func(*options)

type options struct {
	now    func() time.Time
	logger *slog.Logger
}

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger attaches a logger for skipped records and similar warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "sessions")
	return o
}

// Open returns the backend selected in cfg.
func Open(cfg *config.Config, opts ...Option) (Store, error) {
	if cfg == nil {
		return nil, errors.New("sessions: config is required")
	}
	switch cfg.Sessions.Backend {
	case config.BackendSQLite:
		return OpenSQLite(cfg.SessionsDBPath(), opts...)
	case config.BackendFiles, "":
		return OpenFiles(cfg.SessionsDir(), opts...)
	default:
		return nil, fmt.Errorf("sessions: unsupported backend %q", cfg.Sessions.Backend)
	}
}

// ClampLimit maps a requested history size onto [1, MaxHistory]; zero or
// negative means MaxHistory.
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxHistory {
		return MaxHistory
	}
	return limit
}

func newRecord(id string, now time.Time, analysis AnalysisResult, rec recommend.Recommendation) Record {
	if analysis.Timestamp == "" {
		analysis.Timestamp = FormatTimestamp(now)
	}
	if len(analysis.Scores) == 0 {
		analysis.Scores = nil
	}
	return Record{
		ID:             id,
		Analysis:       analysis,
		Recommendation: rec,
		Timestamp:      FormatTimestamp(now),
	}
}
