// Package sched drives a periodic callback. It carries no simulation
// semantics; the callback runs synchronously on the scheduler goroutine and
// the next tick is not delivered until it returns.
package sched

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	log     *zap.Logger
	ticks   uint64
}

func New(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	done := make(chan struct{})
	close(done)
	return &Scheduler{log: log, doneCh: done}
}

// Start begins calling onTick every interval. Calling Start while running
// is a no-op and returns false.
func (s *Scheduler) Start(interval time.Duration, onTick func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.loop(interval, onTick, s.stopCh, s.doneCh)
	s.log.Debug("scheduler started", zap.Duration("interval", interval))
	return true
}

func (s *Scheduler) loop(interval time.Duration, onTick func(), stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			// a Stop issued from inside the previous callback wins over a
			// tick that is already pending
			select {
			case <-stop:
				return
			default:
			}
			onTick()
			s.mu.Lock()
			s.ticks++
			s.mu.Unlock()
		case <-stop:
			return
		}
	}
}

// Stop halts the loop. It is idempotent and safe to call from inside the
// tick callback; it does not wait for the goroutine. Use Done for that.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
	s.log.Debug("scheduler stopped", zap.Uint64("ticks", s.ticks))
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Done is closed once the current loop goroutine has exited.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doneCh
}
