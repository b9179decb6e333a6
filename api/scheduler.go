/*
scheduler.go - Periodic activation for long-running shells

PURPOSE:
  A mobile shell calls ResetIfNeeded when the app comes to the
  foreground. A server process never "comes to the foreground", so this
  scheduler stands in for it: it runs the rollover check once on start
  and then on every tick.

DESIGN:
  - Background goroutine with configurable check interval
  - ResetIfNeeded is idempotent, so ticks within the same day are no-ops
  - Only real transitions are logged; a stale day is logged once per day

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 minute)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewRolloverScheduler(tracker)
  scheduler.Start()
  // ... later
  scheduler.Stop()
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/intake-engine/generic"
	"github.com/warp/intake-engine/hydration"
)

// RolloverScheduler periodically runs the day-rollover check.
type RolloverScheduler struct {
	Tracker       *hydration.DayTracker
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	logMu     sync.Mutex
	staleSeen generic.DayID
}

// NewRolloverScheduler creates a new scheduler.
func NewRolloverScheduler(tracker *hydration.DayTracker) *RolloverScheduler {
	return &RolloverScheduler{
		Tracker:       tracker,
		CheckInterval: time.Minute,
		Enabled:       true,
	}
}

// Start begins the scheduler. The first check runs synchronously so the
// tracker reflects storage before Start returns.
func (rs *RolloverScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.Check(context.Background())

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	log.Printf("[Scheduler] Started with check interval: %v", rs.CheckInterval)
}

// Stop stops the scheduler.
func (rs *RolloverScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		log.Println("[Scheduler] Stopped")
	}
}

func (rs *RolloverScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	for {
		select {
		case <-ticker.C:
			rs.Check(context.Background())
		case <-stop:
			return
		}
	}
}

// Check runs one rollover check and returns its outcome.
func (rs *RolloverScheduler) Check(ctx context.Context) hydration.Outcome {
	outcome, err := rs.Tracker.ResetIfNeeded(ctx)
	if err != nil {
		log.Printf("[Scheduler] Error checking rollover: %v", err)
		return ""
	}
	if today := rs.Tracker.Today(); rs.shouldLog(outcome, today) {
		log.Printf("[Scheduler] Activation: %s (today %s)", outcome, today)
	}
	return outcome
}

// shouldLog reports whether outcome is worth a log line. With auto-reset
// disabled every tick is stale, so stale is reported once per day.
func (rs *RolloverScheduler) shouldLog(outcome hydration.Outcome, today generic.DayID) bool {
	switch outcome {
	case hydration.OutcomeInitialized, hydration.OutcomeRolledOver:
		return true
	case hydration.OutcomeStale:
		rs.logMu.Lock()
		defer rs.logMu.Unlock()
		if rs.staleSeen == today {
			return false
		}
		rs.staleSeen = today
		return true
	}
	return false
}
