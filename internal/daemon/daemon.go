package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"studypulse/internal/api"
	"studypulse/internal/config"
	"studypulse/internal/logging"
	"studypulse/internal/preflight"
	"studypulse/internal/sessions"
)

// Daemon coordinates the API server and session store and enforces
// single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     sessions.Store
	assistant *api.Assistant
	feed      *Feed
	server    *apiServer

	lockPath string
	lock     *flock.Flock

	classifier    string
	transcription bool

	running   atomic.Bool
	startedAt atomic.Int64
	ctx       context.Context
	cancel    context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	StartedAt     time.Time
	Backend       string
	SessionCount  int
	Classifier    string
	Transcription bool
	FeedClients   int
	LockFilePath  string
	Checks        []preflight.Result
}

// New constructs a daemon around an open store. The assistant options carry
// the classifier and transcriber; the daemon adds the feed hook and limits
// from cfg.
func New(cfg *config.Config, store sessions.Store, logger *slog.Logger, opts api.AssistantOptions) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	feed := NewFeed(logger)
	opts = opts.WithConfig(cfg)
	opts.Logger = logger
	opts.OnRecord = feed.Publish

	classifier := config.ProviderStatic
	if cfg.ClassifierEnabled() && opts.Classifier != nil {
		classifier = cfg.Classifier.Provider
	}

	d := &Daemon{
		cfg:           cfg,
		logger:        logger,
		store:         store,
		assistant:     api.NewAssistant(store, opts),
		feed:          feed,
		lockPath:      cfg.LockPath(),
		lock:          flock.New(cfg.LockPath()),
		classifier:    classifier,
		transcription: cfg.Transcription.Enabled && opts.Transcriber != nil,
	}
	d.server = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock, starts the feed and begins serving the API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another studypulse daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	go d.feed.Run(d.ctx)
	if err := d.server.start(d.ctx); err != nil {
		d.cancel()
		_ = d.lock.Unlock()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start api server: %w", err)
	}

	d.startedAt.Store(time.Now().Unix())
	d.running.Store(true)
	d.logger.Info("studypulse daemon started",
		logging.String("lock", d.lockPath),
		logging.String("bind", d.server.Addr()),
		logging.String("backend", d.cfg.Sessions.Backend),
		logging.String("classifier", d.classifier),
		logging.Bool("transcription", d.transcription),
	)
	return nil
}

// Stop shuts the API server down and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.server.stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("studypulse daemon stopped")
}

// Close stops the daemon and closes the session store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Assistant exposes the analysis service the API uses.
func (d *Daemon) Assistant() *api.Assistant {
	return d.assistant
}

// Addr returns the address the API server listens on once started.
func (d *Daemon) Addr() string {
	return d.server.Addr()
}

// Status returns the current daemon status, including local preflight checks.
func (d *Daemon) Status(ctx context.Context) Status {
	count, err := d.store.Count(ctx)
	if err != nil {
		d.logger.Warn("session count failed", logging.Error(err))
	}
	var started time.Time
	if unix := d.startedAt.Load(); unix > 0 {
		started = time.Unix(unix, 0).UTC()
	}
	return Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		StartedAt:     started,
		Backend:       d.cfg.Sessions.Backend,
		SessionCount:  count,
		Classifier:    d.classifier,
		Transcription: d.transcription,
		FeedClients:   d.feed.Clients(),
		LockFilePath:  d.lockPath,
		Checks:        preflight.RunAll(ctx, d.cfg),
	}
}
