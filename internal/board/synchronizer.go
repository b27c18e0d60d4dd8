package board

import (
	"context"
	"log"
	"sync"
	"time"
)

// Synchronizer drives the board's resync loop. Mount-time fetch, interval
// polling and manual refresh all converge on one fetch function instead of
// three call sites re-implementing the same guards.
//
// A new run cancels the previous in-flight fetch, so a stale response can
// never land on top of a fresher one.
type Synchronizer struct {
	interval time.Duration
	fetch    func(ctx context.Context) error

	mu       sync.Mutex
	cancel   context.CancelFunc
	stopChan chan struct{}
	started  bool
}

// NewSynchronizer creates a Synchronizer calling fetch every interval
func NewSynchronizer(interval time.Duration, fetch func(ctx context.Context) error) *Synchronizer {
	return &Synchronizer{
		interval: interval,
		fetch:    fetch,
	}
}

// Start begins the polling loop; the first fetch runs immediately.
// Start after Stop resumes polling with a fresh loop.
func (s *Synchronizer) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	log.Printf("[Sync] Starting board synchronizer (interval: %s)", s.interval)

	go func() {
		s.run()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.run()
			case <-stop:
				log.Println("[Sync] Synchronizer stopped")
				return
			}
		}
	}()
}

// Stop ends the polling loop and cancels any in-flight fetch
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	if s.cancel != nil {
		s.cancel()
	}
	close(s.stopChan)
	s.mu.Unlock()
}

// TriggerNow runs a fetch immediately, superseding any in-flight one.
// Used for mount-time loads, manual refresh and post-transition reconciliation.
func (s *Synchronizer) TriggerNow() {
	s.run()
}

func (s *Synchronizer) run() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	// fetch owns error handling; a cancelled run was superseded on purpose
	_ = s.fetch(ctx)
}
