package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/martinsuchenak/assetboard/internal/log"
	"github.com/martinsuchenak/assetboard/internal/model"
	"github.com/robfig/cron/v3"
)

// Refresher recomputes the asset overview
type Refresher interface {
	Refresh(ctx context.Context) *model.Overview
}

// Scheduler refreshes the overview on a cron schedule. A run that is still
// in flight when the next one is due causes that next run to be skipped.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entry   cron.EntryID
	spec    string
	running bool
	ctx     context.Context
	cancel  context.CancelFunc

	refresher Refresher
	lastRun   time.Time
	runs      int
}

// NewScheduler creates a scheduler running refresher on spec, which is any
// expression robfig/cron accepts, e.g. "@every 5m" or "*/10 * * * *"
func NewScheduler(refresher Refresher, spec string) (*Scheduler, error) {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:      c,
		spec:      spec,
		ctx:       ctx,
		cancel:    cancel,
		refresher: refresher,
	}

	id, err := c.AddJob(spec, s)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	s.entry = id
	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	log.Info("Overview refresh scheduler started", "schedule", s.spec, "next_run", s.cron.Entry(s.entry).Next)
}

// Stop stops the scheduler, cancelling and waiting for a refresh in flight
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	log.Info("Stopping overview refresh scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
}

// Run implements cron.Job
func (s *Scheduler) Run() {
	s.RunNow(s.ctx)
}

// RunNow refreshes the overview immediately
func (s *Scheduler) RunNow(ctx context.Context) *model.Overview {
	start := time.Now()
	ov := s.refresher.Refresh(ctx)

	s.mu.Lock()
	s.lastRun = start
	s.runs++
	s.mu.Unlock()

	log.Debug("Scheduled overview refresh completed", "total", ov.Total, "fallback", ov.Fallback, "duration", time.Since(start))
	return ov
}

// Stats returns the number of completed runs and when the last one started
func (s *Scheduler) Stats() (runs int, lastRun time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs, s.lastRun
}

// cronLogger routes robfig/cron logging to the structured logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Trace("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
