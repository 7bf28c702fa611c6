package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrSchedulerStarted rejects a second Start on a running scheduler.
var ErrSchedulerStarted = errors.New("syncer: scheduler already started")

type pendingChange struct {
	interval  time.Duration
	immediate bool
}

// Scheduler runs the orchestrator once at startup and then on a repeating
// interval. Interval changes never truncate an in-flight cycle: a pending
// change is applied once the current cycle completes, and a change to a
// shorter interval fires one immediate cycle before the new cadence settles.
// Stop only prevents the next tick; it does not cancel a running cycle.
type Scheduler struct {
	orch *Orchestrator

	mu       sync.Mutex
	interval time.Duration
	pending  *pendingChange
	started  bool
	lastRun  *CycleSummary
	lastErr  string

	changeCh chan struct{}
	stopCh   chan struct{}
}

func NewScheduler(orch *Orchestrator) *Scheduler {
	return &Scheduler{
		orch:     orch,
		changeCh: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the scheduling loop: one immediate cycle, then one per
// interval.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("syncer: invalid interval %s", interval)
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrSchedulerStarted
	}
	s.started = true
	s.interval = interval
	s.mu.Unlock()

	log.Printf("[scheduler] Starting: initial cycle now, then every %s", interval)
	go s.run(ctx)
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	s.runCycle(ctx)
	s.applyPending(ctx)

	for {
		s.mu.Lock()
		interval := s.interval
		s.mu.Unlock()

		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
			s.runCycle(ctx)
			s.applyPending(ctx)
		case <-s.changeCh:
			// Idle between ticks: apply the change without waiting out the
			// old interval.
			timer.Stop()
			s.applyPending(ctx)
		case <-s.stopCh:
			timer.Stop()
			log.Printf("[scheduler] Stopped")
			return
		case <-ctx.Done():
			timer.Stop()
			log.Printf("[scheduler] Context done, stopping")
			return
		}
	}
}

// ChangeInterval schedules a new cadence. With a cycle in flight the change
// waits for it to finish; a shorter interval additionally requests one
// immediate follow-up cycle. When idle the change applies right away with an
// immediate cycle, matching startup behaviour.
func (s *Scheduler) ChangeInterval(interval time.Duration) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("syncer: invalid interval %s", interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.interval = interval
		return fmt.Sprintf("interval set to %s", interval), nil
	}

	if s.orch.Running() {
		immediate := interval < s.interval
		s.pending = &pendingChange{interval: interval, immediate: immediate}
		if immediate {
			log.Printf("[scheduler] Interval change to %s pending: will run immediately after current cycle", interval)
			return fmt.Sprintf("will run immediately after current cycle completes, then every %s", interval), nil
		}
		log.Printf("[scheduler] Interval change to %s pending after current cycle", interval)
		return fmt.Sprintf("interval changes to %s after current cycle completes", interval), nil
	}

	s.pending = &pendingChange{interval: interval, immediate: true}
	select {
	case s.changeCh <- struct{}{}:
	default:
	}
	log.Printf("[scheduler] Idle, applying interval change to %s now", interval)
	return fmt.Sprintf("running now, then every %s", interval), nil
}

func (s *Scheduler) applyPending(ctx context.Context) {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	if p != nil {
		s.interval = p.interval
	}
	s.mu.Unlock()

	if p == nil {
		return
	}
	log.Printf("[scheduler] Applied interval %s", p.interval)
	if p.immediate {
		s.runCycle(ctx)
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	summary, err := s.orch.RunCycle(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Overlap rejection is informational, not a cycle failure.
		if errors.Is(err, ErrCycleInProgress) {
			log.Printf("[scheduler] Tick skipped: %v", err)
			return
		}
		s.lastErr = err.Error()
		log.Printf("[scheduler] ERROR: cycle failed: %v", err)
		return
	}
	s.lastErr = ""
	s.lastRun = summary
}

// TriggerNow runs one cycle in the caller's goroutine (a manual sync).
// Returns ErrCycleInProgress when one is already running.
func (s *Scheduler) TriggerNow(ctx context.Context) (*CycleSummary, error) {
	summary, err := s.orch.RunCycle(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.lastRun = summary
	s.lastErr = ""
	started := s.started
	s.mu.Unlock()

	// A change requested while this manual cycle ran takes effect now.
	if started {
		s.applyPending(ctx)
	}
	return summary, nil
}

// Stop prevents the next scheduled tick. The in-flight cycle, if any,
// completes normally.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	close(s.stopCh)
}

// Status is a point-in-time snapshot for the status API and CLI.
type Status struct {
	CycleRunning     bool          `json:"cycleRunning"`
	SchedulerActive  bool          `json:"schedulerActive"`
	Interval         time.Duration `json:"-"`
	IntervalMinutes  float64       `json:"intervalMinutes"`
	PendingMinutes   float64       `json:"pendingIntervalMinutes,omitempty"`
	PendingImmediate bool          `json:"pendingImmediateRun,omitempty"`
	LastCycle        *CycleSummary `json:"lastCycle,omitempty"`
	LastError        string        `json:"lastError,omitempty"`
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		CycleRunning:    s.orch.Running(),
		SchedulerActive: s.started,
		Interval:        s.interval,
		IntervalMinutes: s.interval.Minutes(),
		LastCycle:       s.lastRun,
		LastError:       s.lastErr,
	}
	if s.pending != nil {
		st.PendingMinutes = s.pending.interval.Minutes()
		st.PendingImmediate = s.pending.immediate
	}
	return st
}
