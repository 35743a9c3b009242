package unitlite

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// TestScheduler decides when test runs happen: once at startup, or
// repeatedly on a fixed interval until stopped.
type TestScheduler interface {
	Start(ctx context.Context) error
	Stop() error
	RegisterCallback(func() error)
	WaitForShutdown(ctx context.Context) error
	Stopped() bool
}

// DefaultTestScheduler runs the registered callback immediately on Start and,
// in continuous mode, again every interval until Stop or context cancellation.
type DefaultTestScheduler struct {
	interval time.Duration
	runOnce  bool
	logger   log.Logger
	callback func() error

	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewDefaultTestScheduler(interval time.Duration, runOnce bool, logger log.Logger) *DefaultTestScheduler {
	return &DefaultTestScheduler{
		interval: interval,
		runOnce:  runOnce,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// RegisterCallback sets the function invoked for each scheduled run. It must
// be called before Start.
func (s *DefaultTestScheduler) RegisterCallback(callback func() error) {
	s.callback = callback
}

// Start performs the initial run synchronously, returning its error. In
// continuous mode it then launches the interval loop; interval-run errors are
// logged rather than returned, since nobody is left waiting on Start.
func (s *DefaultTestScheduler) Start(ctx context.Context) error {
	if s.callback == nil {
		return errors.New("callback must be registered before starting scheduler")
	}

	s.done = make(chan struct{})
	s.running.Store(true)

	if s.runOnce {
		s.logger.Info("Scheduling a single test run")
		return s.callback()
	}

	s.logger.Info("Scheduling recurring test runs", "interval", s.interval)
	if err := s.callback(); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.loop(ctx)
	return nil
}

func (s *DefaultTestScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !s.running.Load() {
				return
			}
			s.logger.Info("Starting scheduled test run")
			if err := s.callback(); err != nil {
				s.logger.Error("Scheduled test run failed", "error", err)
			}
		case <-s.done:
			s.logger.Debug("Scheduler stopped, ending run loop")
			return
		case <-ctx.Done():
			s.logger.Debug("Context canceled, ending run loop")
			s.running.Store(false)
			return
		}
	}
}

// Stop ends the schedule. Safe to call more than once; the initial or
// in-flight run is not interrupted.
func (s *DefaultTestScheduler) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	close(s.done)
	return nil
}

// Stopped reports whether the scheduler has been stopped or never started.
func (s *DefaultTestScheduler) Stopped() bool {
	return !s.running.Load()
}

// WaitForShutdown blocks until the run loop has exited or the context
// expires.
func (s *DefaultTestScheduler) WaitForShutdown(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(idle)
	}()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		s.logger.Warn("Gave up waiting for the run loop to exit", "error", ctx.Err())
		return ctx.Err()
	}
}
